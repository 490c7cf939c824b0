package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/capra/internal/config"
	"github.com/mamadbah2/capra/internal/metrics"
	"github.com/mamadbah2/capra/internal/repository/blob"
	"github.com/mamadbah2/capra/internal/repository/mongodb"
	"github.com/mamadbah2/capra/internal/repository/persistence"
	"github.com/mamadbah2/capra/internal/repository/sheets"
	"github.com/mamadbah2/capra/internal/repository/sqlite"
	"github.com/mamadbah2/capra/internal/scheduler"
	"github.com/mamadbah2/capra/internal/server/handlers"
	"github.com/mamadbah2/capra/internal/server/router"
	"github.com/mamadbah2/capra/internal/service/assistant"
	commandsvc "github.com/mamadbah2/capra/internal/service/commands"
	reportingsvc "github.com/mamadbah2/capra/internal/service/reporting"
	"github.com/mamadbah2/capra/internal/service/store"
	whatsappsvc "github.com/mamadbah2/capra/internal/service/whatsapp"
	"github.com/mamadbah2/capra/pkg/clients/anthropic"
	"github.com/mamadbah2/capra/pkg/clients/gemini"
	whatsappclient "github.com/mamadbah2/capra/pkg/clients/whatsapp"
	"github.com/mamadbah2/capra/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(cfg.Server.LogLevel))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)
	gin.SetMode(gin.ReleaseMode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	collector := metrics.NewCollector("capra")

	var mongoRepo *mongodb.MongoDBRepository
	if cfg.MongoDB.URI != "" {
		mongoRepo, err = mongodb.NewMongoDBRepository(ctx, cfg.MongoDB.URI, cfg.MongoDB.DBName)
		if err != nil {
			baseLogger.Fatal("failed to init mongodb repository", zap.Error(err))
		}
		defer func() {
			if err := mongoRepo.Close(context.Background()); err != nil {
				baseLogger.Error("failed to close mongodb connection", zap.Error(err))
			}
		}()
	}

	blobs, closeBlobs, err := openBlobStore(cfg, mongoRepo)
	if err != nil {
		baseLogger.Fatal("failed to open storage backend", zap.Error(err), zap.String("backend", cfg.Storage.Backend))
	}
	defer closeBlobs()
	baseLogger.Info("storage backend ready", zap.String("backend", cfg.Storage.Backend))

	farm, err := store.Open(ctx,
		persistence.NewAdapter(blobs, baseLogger.Named("repo.persistence")),
		baseLogger.Named("svc.store"),
		store.WithMetrics(collector),
	)
	if err != nil {
		baseLogger.Fatal("failed to load farm store", zap.Error(err))
	}

	completer, err := newCompleter(ctx, cfg)
	if err != nil {
		baseLogger.Fatal("failed to init completion provider", zap.Error(err))
	}
	if completer == nil {
		baseLogger.Warn("ai api key missing, assistant will answer with the fallback reply", zap.String("provider", cfg.AI.Provider))
	} else {
		baseLogger.Info("assistant enabled", zap.String("provider", cfg.AI.Provider))
	}
	bridge := assistant.NewBridge(completer, collector, baseLogger.Named("svc.assistant"))
	chat := assistant.NewChat(bridge, assistant.NewSessionManager(), farm)

	var sheetsRepo sheets.Repository
	if cfg.SheetsEnabled() {
		sheetsRepo, err = sheets.NewReportSheet(ctx, cfg.Sheets, baseLogger.Named("repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets repository", zap.Error(err))
		}
	}
	var archive reportingsvc.Archive
	if mongoRepo != nil {
		archive = mongoRepo
	}
	reportingSvc := reportingsvc.NewService(farm, sheetsRepo, archive, baseLogger.Named("svc.reporting"))

	routes := router.Handlers{
		Farm:      handlers.NewFarmHandler(farm, baseLogger.Named("handlers.farm")),
		Assistant: handlers.NewAssistantHandler(chat, baseLogger.Named("handlers.assistant")),
		Metrics:   collector.Handler(),
	}

	var notifier scheduler.Notifier
	if cfg.WhatsAppEnabled() {
		commandDispatcher := commandsvc.NewService(farm, reportingSvc, baseLogger.Named("svc.commands"))
		whatsClient := whatsappclient.NewClient(cfg.WhatsApp)
		messagingSvc := whatsappsvc.NewMetaWhatsAppService(cfg.WhatsApp, whatsClient, chat, commandDispatcher, baseLogger.Named("svc.whatsapp"))
		routes.Webhook = handlers.NewWebhookHandler(messagingSvc, baseLogger.Named("handlers.whatsapp"))
		notifier = messagingSvc
	} else {
		baseLogger.Info("whatsapp credentials missing, webhook disabled")
	}

	engine := router.New(routes, baseLogger.Named("router"))

	sched, err := scheduler.NewScheduler(cfg.Reporting, cfg.WhatsApp.ReportRecipient, reportingSvc, notifier, baseLogger.Named("scheduler"))
	if err != nil {
		baseLogger.Fatal("failed to init scheduler", zap.Error(err))
	}
	if err := sched.Start(); err != nil {
		baseLogger.Fatal("failed to start scheduler", zap.Error(err))
	}
	defer sched.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}

// openBlobStore returns the configured persistence backend and its cleanup.
func openBlobStore(cfg *config.Config, mongoRepo *mongodb.MongoDBRepository) (blob.Store, func(), error) {
	switch cfg.Storage.Backend {
	case config.StorageMemory:
		return blob.NewMemory(), func() {}, nil
	case config.StorageSQLite:
		db, err := sqlite.Open(cfg.Storage.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return db, func() { _ = db.Close() }, nil
	case config.StorageMongoDB:
		if mongoRepo == nil {
			return nil, nil, errors.New("mongodb backend selected without MONGODB_URI")
		}
		return mongoRepo, func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}

// newCompleter builds the completion client of the selected provider, or nil when
// no key is configured.
func newCompleter(ctx context.Context, cfg *config.Config) (assistant.Completer, error) {
	if cfg.AIKey() == "" {
		return nil, nil
	}

	switch cfg.AI.Provider {
	case config.ProviderAnthropic:
		return anthropic.NewClient(cfg.AI.AnthropicKey), nil
	case config.ProviderGemini:
		client, err := gemini.NewClient(ctx, gemini.Config{APIKey: cfg.AI.GeminiKey, Model: cfg.AI.GeminiModel})
		if err != nil {
			return nil, err
		}
		return client, nil
	default:
		return nil, fmt.Errorf("unknown ai provider %q", cfg.AI.Provider)
	}
}
