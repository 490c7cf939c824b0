package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mamadbah2/capra/internal/config"
	"github.com/mamadbah2/capra/internal/domain/models"
)

const reportTimeout = 2 * time.Minute

// ReportGenerator builds, archives and exports the farm report.
type ReportGenerator interface {
	GenerateReport(ctx context.Context) (models.FarmReport, string, error)
}

// Notifier delivers the report summary.
type Notifier interface {
	SendOutbound(ctx context.Context, req models.OutboundMessageRequest) error
}

// Scheduler runs the periodic farm report.
type Scheduler struct {
	cron      *cron.Cron
	schedule  string
	reporter  ReportGenerator
	notifier  Notifier
	recipient string
	logger    *zap.Logger
}

// NewScheduler creates a scheduler for cfg. notifier may be nil, and the summary
// is only sent when both notifier and recipient are set.
func NewScheduler(cfg config.ReportingConfig, recipient string, reporter ReportGenerator, notifier Notifier, logger *zap.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %s: %w", cfg.Timezone, err)
	}

	// Standard five-field cron: minute, hour, day of month, month, day of week.
	if _, err := cron.ParseStandard(cfg.CronSchedule); err != nil {
		return nil, fmt.Errorf("parse report schedule %q: %w", cfg.CronSchedule, err)
	}

	return &Scheduler{
		cron:      cron.New(cron.WithLocation(loc)),
		schedule:  cfg.CronSchedule,
		reporter:  reporter,
		notifier:  notifier,
		recipient: recipient,
		logger:    logger,
	}, nil
}

// Start registers the report job and starts the cron loop.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.schedule, s.runScheduled); err != nil {
		return fmt.Errorf("schedule farm report: %w", err)
	}
	s.logger.Info("starting scheduler", zap.String("schedule", s.schedule))
	s.cron.Start()
	return nil
}

// Stop stops the scheduler and waits for a running report to finish.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	<-s.cron.Stop().Done()
}

func (s *Scheduler) runScheduled() {
	ctx, cancel := context.WithTimeout(context.Background(), reportTimeout)
	defer cancel()

	if err := s.RunReport(ctx); err != nil {
		s.logger.Error("scheduled farm report failed", zap.Error(err))
	}
}

// RunReport generates the report and sends its summary when a recipient is configured.
func (s *Scheduler) RunReport(ctx context.Context) error {
	s.logger.Info("generating farm report")

	report, summary, err := s.reporter.GenerateReport(ctx)
	if err != nil {
		return fmt.Errorf("generate report: %w", err)
	}

	if s.notifier == nil || s.recipient == "" {
		s.logger.Info("farm report generated without delivery", zap.Int("herd", report.TotalHerd))
		return nil
	}

	req := models.OutboundMessageRequest{
		To:      s.recipient,
		Message: summary,
	}
	if err := s.notifier.SendOutbound(ctx, req); err != nil {
		return fmt.Errorf("send report: %w", err)
	}

	s.logger.Info("farm report sent", zap.String("to", s.recipient))
	return nil
}
