package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/capra/internal/domain/models"
	"github.com/mamadbah2/capra/internal/service/store"
)

// respondMutation writes the outcome of an id-addressed store call. Validation
// failures become 400, unknown ids 404 and anything else 500.
func respondMutation(c *gin.Context, logger *zap.Logger, result store.Result, err error, onApplied func()) {
	switch {
	case err != nil && errors.Is(err, models.ErrInvalidRecord):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case err != nil:
		logger.Error("store mutation failed", zap.Error(err), zap.String("path", c.FullPath()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save changes"})
	case result == store.NotFound:
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	default:
		onApplied()
	}
}

// respondCreated writes the outcome of an add call.
func respondCreated(c *gin.Context, logger *zap.Logger, created any, err error) {
	respondMutation(c, logger, store.Applied, err, func() {
		c.JSON(http.StatusCreated, created)
	})
}

func noContent(c *gin.Context) func() {
	return func() { c.Status(http.StatusNoContent) }
}

func bindJSON(c *gin.Context, logger *zap.Logger, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		logger.Warn("invalid request body", zap.Error(err), zap.String("path", c.FullPath()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return false
	}
	return true
}
