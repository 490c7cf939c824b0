package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/capra/internal/domain/models"
	"github.com/mamadbah2/capra/internal/service/store"
	"github.com/mamadbah2/capra/internal/service/views"
)

// FarmStore is the domain store surface exposed over HTTP.
type FarmStore interface {
	Snapshot() models.Snapshot

	HerdMember(id string) (models.HerdMember, bool)
	AddHerdMember(ctx context.Context, m models.HerdMember) (models.HerdMember, error)
	UpdateHerdMember(ctx context.Context, m models.HerdMember) (store.Result, error)
	DeleteHerdMember(ctx context.Context, id string) (store.Result, error)
	AddHealthRecord(ctx context.Context, memberID string, rec models.HealthRecord) (models.HealthRecord, store.Result, error)
	RemoveHealthRecord(ctx context.Context, memberID, recordID string) (store.Result, error)

	AddTransaction(ctx context.Context, t models.Transaction) (models.Transaction, error)
	UpdateTransaction(ctx context.Context, t models.Transaction) (store.Result, error)
	DeleteTransaction(ctx context.Context, id string) (store.Result, error)

	AddInventoryItem(ctx context.Context, item models.InventoryItem) (models.InventoryItem, error)
	UpdateInventoryItem(ctx context.Context, item models.InventoryItem) (store.Result, error)
	DeleteInventoryItem(ctx context.Context, id string) (store.Result, error)
}

// FarmHandler serves the herd, ledger, inventory and dashboard endpoints.
type FarmHandler struct {
	store  FarmStore
	logger *zap.Logger
	now    func() time.Time
}

// NewFarmHandler constructs the farm HTTP handler.
func NewFarmHandler(s FarmStore, logger *zap.Logger) *FarmHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FarmHandler{store: s, logger: logger, now: time.Now}
}

// ListHerd returns the herd, filtered by the optional q query parameter.
func (h *FarmHandler) ListHerd(c *gin.Context) {
	herd := views.SearchHerd(h.store.Snapshot().Herd, c.Query("q"))
	c.JSON(http.StatusOK, herd)
}

// AddHerdMember creates a herd member.
func (h *FarmHandler) AddHerdMember(c *gin.Context) {
	var m models.HerdMember
	if !bindJSON(c, h.logger, &m) {
		return
	}
	created, err := h.store.AddHerdMember(c.Request.Context(), m)
	respondCreated(c, h.logger, created, err)
}

// UpdateHerdMember replaces the member addressed by the path id.
func (h *FarmHandler) UpdateHerdMember(c *gin.Context) {
	var m models.HerdMember
	if !bindJSON(c, h.logger, &m) {
		return
	}
	m.ID = c.Param("id")
	result, err := h.store.UpdateHerdMember(c.Request.Context(), m)
	respondMutation(c, h.logger, result, err, func() {
		stored, _ := h.store.HerdMember(m.ID)
		c.JSON(http.StatusOK, stored)
	})
}

// DeleteHerdMember removes the member addressed by the path id.
func (h *FarmHandler) DeleteHerdMember(c *gin.Context) {
	result, err := h.store.DeleteHerdMember(c.Request.Context(), c.Param("id"))
	respondMutation(c, h.logger, result, err, noContent(c))
}

// AddHealthRecord appends a health record to the member's log.
func (h *FarmHandler) AddHealthRecord(c *gin.Context) {
	var rec models.HealthRecord
	if !bindJSON(c, h.logger, &rec) {
		return
	}
	created, result, err := h.store.AddHealthRecord(c.Request.Context(), c.Param("id"), rec)
	respondMutation(c, h.logger, result, err, func() {
		c.JSON(http.StatusCreated, created)
	})
}

// RemoveHealthRecord deletes one health record of a member.
func (h *FarmHandler) RemoveHealthRecord(c *gin.Context) {
	result, err := h.store.RemoveHealthRecord(c.Request.Context(), c.Param("id"), c.Param("recordId"))
	respondMutation(c, h.logger, result, err, noContent(c))
}

// ListTransactions returns the ledger, newest first.
func (h *FarmHandler) ListTransactions(c *gin.Context) {
	c.JSON(http.StatusOK, views.TransactionsByDate(h.store.Snapshot().Transactions))
}

// AddTransaction records a ledger entry.
func (h *FarmHandler) AddTransaction(c *gin.Context) {
	var t models.Transaction
	if !bindJSON(c, h.logger, &t) {
		return
	}
	created, err := h.store.AddTransaction(c.Request.Context(), t)
	respondCreated(c, h.logger, created, err)
}

// UpdateTransaction replaces the entry addressed by the path id.
func (h *FarmHandler) UpdateTransaction(c *gin.Context) {
	var t models.Transaction
	if !bindJSON(c, h.logger, &t) {
		return
	}
	t.ID = c.Param("id")
	result, err := h.store.UpdateTransaction(c.Request.Context(), t)
	respondMutation(c, h.logger, result, err, func() {
		for _, stored := range h.store.Snapshot().Transactions {
			if stored.ID == t.ID {
				c.JSON(http.StatusOK, stored)
				return
			}
		}
		c.JSON(http.StatusOK, t)
	})
}

// DeleteTransaction removes the entry addressed by the path id.
func (h *FarmHandler) DeleteTransaction(c *gin.Context) {
	result, err := h.store.DeleteTransaction(c.Request.Context(), c.Param("id"))
	respondMutation(c, h.logger, result, err, noContent(c))
}

// ListInventory returns every item with its low-stock flag.
func (h *FarmHandler) ListInventory(c *gin.Context) {
	c.JSON(http.StatusOK, views.StockLevels(h.store.Snapshot().Inventory))
}

// AddInventoryItem creates an inventory item.
func (h *FarmHandler) AddInventoryItem(c *gin.Context) {
	var item models.InventoryItem
	if !bindJSON(c, h.logger, &item) {
		return
	}
	created, err := h.store.AddInventoryItem(c.Request.Context(), item)
	respondCreated(c, h.logger, created, err)
}

// UpdateInventoryItem replaces the item addressed by the path id.
func (h *FarmHandler) UpdateInventoryItem(c *gin.Context) {
	var item models.InventoryItem
	if !bindJSON(c, h.logger, &item) {
		return
	}
	item.ID = c.Param("id")
	result, err := h.store.UpdateInventoryItem(c.Request.Context(), item)
	respondMutation(c, h.logger, result, err, func() {
		c.JSON(http.StatusOK, item)
	})
}

// DeleteInventoryItem removes the item addressed by the path id.
func (h *FarmHandler) DeleteInventoryItem(c *gin.Context) {
	result, err := h.store.DeleteInventoryItem(c.Request.Context(), c.Param("id"))
	respondMutation(c, h.logger, result, err, noContent(c))
}

// Dashboard returns the landing page figures.
func (h *FarmHandler) Dashboard(c *gin.Context) {
	c.JSON(http.StatusOK, views.BuildDashboard(h.store.Snapshot(), h.now()))
}

// Health returns the herd-wide health log and its summary figures.
func (h *FarmHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, views.Health(h.store.Snapshot().Herd, h.now()))
}
