package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/capra/internal/server/handlers"
)

// Handlers groups the HTTP handlers mounted on the engine. Webhook and Metrics
// are optional and their routes are skipped when nil.
type Handlers struct {
	Farm      *handlers.FarmHandler
	Assistant *handlers.AssistantHandler
	Webhook   *handlers.WebhookHandler
	Metrics   http.Handler
}

// New wires the Gin engine with the API routes and middlewares.
func New(h Handlers, logger *zap.Logger) *gin.Engine {
	if logger == nil {
		logger = zap.NewNop()
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if h.Metrics != nil {
		r.GET("/metrics", gin.WrapH(h.Metrics))
	}

	api := r.Group("/api")
	{
		herd := api.Group("/herd")
		herd.GET("", h.Farm.ListHerd)
		herd.POST("", h.Farm.AddHerdMember)
		herd.PUT("/:id", h.Farm.UpdateHerdMember)
		herd.DELETE("/:id", h.Farm.DeleteHerdMember)
		herd.POST("/:id/health", h.Farm.AddHealthRecord)
		herd.DELETE("/:id/health/:recordId", h.Farm.RemoveHealthRecord)

		txs := api.Group("/transactions")
		txs.GET("", h.Farm.ListTransactions)
		txs.POST("", h.Farm.AddTransaction)
		txs.PUT("/:id", h.Farm.UpdateTransaction)
		txs.DELETE("/:id", h.Farm.DeleteTransaction)

		inv := api.Group("/inventory")
		inv.GET("", h.Farm.ListInventory)
		inv.POST("", h.Farm.AddInventoryItem)
		inv.PUT("/:id", h.Farm.UpdateInventoryItem)
		inv.DELETE("/:id", h.Farm.DeleteInventoryItem)

		api.GET("/dashboard", h.Farm.Dashboard)
		api.GET("/health", h.Farm.Health)

		if h.Assistant != nil {
			api.POST("/assistant/ask", h.Assistant.Ask)
			api.GET("/assistant/transcript/:sessionId", h.Assistant.Transcript)
		}
	}

	if h.Webhook != nil {
		r.GET("/webhook", h.Webhook.Verify)
		r.POST("/webhook", h.Webhook.Receive)
		r.POST("/send-message", h.Webhook.Notify)
	}

	logger.Info("router initialized", zap.Bool("webhook", h.Webhook != nil), zap.Bool("metrics", h.Metrics != nil))

	return r
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}
