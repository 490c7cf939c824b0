package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/capra/internal/domain/models"
	"github.com/mamadbah2/capra/internal/repository/blob"
	"github.com/mamadbah2/capra/internal/repository/persistence"
	"github.com/mamadbah2/capra/internal/service/store"
	"github.com/mamadbah2/capra/internal/service/views"
)

var testNow = time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestFarm(t *testing.T) (*gin.Engine, *store.Store) {
	t.Helper()
	n := 0
	s, err := store.Open(context.Background(), persistence.NewAdapter(blob.NewMemory(), nil), nil,
		store.WithIDGenerator(func() string { n++; return fmt.Sprintf("id-%d", n) }),
		store.WithClock(func() time.Time { return testNow }),
	)
	require.NoError(t, err)

	h := NewFarmHandler(s, nil)
	h.now = func() time.Time { return testNow }

	r := gin.New()
	r.GET("/herd", h.ListHerd)
	r.POST("/herd", h.AddHerdMember)
	r.PUT("/herd/:id", h.UpdateHerdMember)
	r.DELETE("/herd/:id", h.DeleteHerdMember)
	r.POST("/herd/:id/health", h.AddHealthRecord)
	r.DELETE("/herd/:id/health/:recordId", h.RemoveHealthRecord)
	r.GET("/transactions", h.ListTransactions)
	r.POST("/transactions", h.AddTransaction)
	r.PUT("/transactions/:id", h.UpdateTransaction)
	r.DELETE("/transactions/:id", h.DeleteTransaction)
	r.GET("/inventory", h.ListInventory)
	r.PUT("/inventory/:id", h.UpdateInventoryItem)
	r.GET("/dashboard", h.Dashboard)
	r.GET("/health", h.Health)
	return r, s
}

func do(r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else {
			_ = json.NewEncoder(&buf).Encode(body)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestListHerd_Search(t *testing.T) {
	r, _ := newTestFarm(t)

	w := do(r, http.MethodGet, "/herd?q=saan", nil)

	require.Equal(t, http.StatusOK, w.Code)
	var herd []models.HerdMember
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &herd))
	require.Len(t, herd, 1)
	assert.Equal(t, "Daisy", herd[0].Name)
}

func TestAddHerdMember(t *testing.T) {
	r, s := newTestFarm(t)

	w := do(r, http.MethodPost, "/herd", map[string]any{"id": "ignored", "tag": "G-104", "name": "Luna", "breed": "Nubian", "dob": "2024-01-02"})

	require.Equal(t, http.StatusCreated, w.Code)
	var created models.HerdMember
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "id-1", created.ID)
	assert.Equal(t, models.GenderFemale, created.Gender)
	assert.Len(t, s.Herd(), 4)
}

func TestAddHerdMember_ValidationAndBadBody(t *testing.T) {
	r, s := newTestFarm(t)

	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodPost, "/herd", map[string]any{"tag": "G-104"}).Code)
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodPost, "/herd", "{not json").Code)
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodPost, "/herd", map[string]any{"tag": "T", "name": "N", "status": "Sleeping"}).Code)
	assert.Len(t, s.Herd(), 3)
}

func TestUpdateAndDeleteHerdMember(t *testing.T) {
	r, s := newTestFarm(t)

	member, ok := s.HerdMember("2")
	require.True(t, ok)
	member.Status = models.StatusDry

	w := do(r, http.MethodPut, "/herd/2", member)
	require.Equal(t, http.StatusOK, w.Code)
	updated, _ := s.HerdMember("2")
	assert.Equal(t, models.StatusDry, updated.Status)

	assert.Equal(t, http.StatusNotFound, do(r, http.MethodPut, "/herd/999", member).Code)
	assert.Equal(t, http.StatusNoContent, do(r, http.MethodDelete, "/herd/2", nil).Code)
	assert.Equal(t, http.StatusNotFound, do(r, http.MethodDelete, "/herd/2", nil).Code)
	assert.Len(t, s.Herd(), 2)
}

func TestHealthRecordRoutes(t *testing.T) {
	r, s := newTestFarm(t)

	w := do(r, http.MethodPost, "/herd/3/health", map[string]any{"type": "Treatment", "description": "Foot rot", "cost": 15, "batchNumber": "B-1"})
	require.Equal(t, http.StatusCreated, w.Code)

	var rec models.HealthRecord
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rec))
	assert.Equal(t, "2024-03-15", rec.Date.String())
	assert.Empty(t, rec.BatchNumber)

	assert.Equal(t, http.StatusNotFound, do(r, http.MethodPost, "/herd/999/health", map[string]any{"type": "Checkup", "description": "x"}).Code)
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodPost, "/herd/3/health", map[string]any{"type": "Surgery", "description": "x"}).Code)

	assert.Equal(t, http.StatusNoContent, do(r, http.MethodDelete, "/herd/3/health/"+rec.ID, nil).Code)
	assert.Equal(t, http.StatusNotFound, do(r, http.MethodDelete, "/herd/3/health/"+rec.ID, nil).Code)
	daisy, _ := s.HerdMember("3")
	assert.Empty(t, daisy.HealthRecords)
}

func TestTransactions(t *testing.T) {
	r, s := newTestFarm(t)

	w := do(r, http.MethodPost, "/transactions", map[string]any{"type": "Income", "category": "Milk", "amount": 80, "description": "Weekly milk"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = do(r, http.MethodGet, "/transactions", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var txs []models.Transaction
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &txs))
	require.Len(t, txs, 4)
	assert.Equal(t, "Weekly milk", txs[0].Description)
	assert.Equal(t, "Dewormer", txs[1].Description)

	assert.Equal(t, http.StatusNoContent, do(r, http.MethodDelete, "/transactions/1", nil).Code)
	assert.Equal(t, http.StatusNotFound, do(r, http.MethodDelete, "/transactions/1", nil).Code)
	assert.Len(t, s.Transactions(), 3)
}

func TestUpdateTransaction_DefaultsDateAndRejectsInvalid(t *testing.T) {
	r, _ := newTestFarm(t)

	w := do(r, http.MethodPut, "/transactions/2", map[string]any{"type": "Income", "category": "Sales", "amount": 1300, "description": "Sold 3 kids"})
	require.Equal(t, http.StatusOK, w.Code)
	var tx models.Transaction
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tx))
	assert.Equal(t, "2024-03-15", tx.Date.String())
	assert.Equal(t, 1300.0, tx.Amount)

	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodPut, "/transactions/2", map[string]any{"type": "Gift", "amount": 1, "description": "x"}).Code)
	assert.Equal(t, http.StatusNotFound, do(r, http.MethodPut, "/transactions/99", map[string]any{"type": "Income", "amount": 1, "description": "x"}).Code)
}

func TestInventory(t *testing.T) {
	r, _ := newTestFarm(t)

	w := do(r, http.MethodPut, "/inventory/1", map[string]any{"name": "Alfalfa Hay", "category": "Feed", "quantity": 4, "unit": "bales", "alertLevel": 10})
	require.Equal(t, http.StatusOK, w.Code)

	w = do(r, http.MethodGet, "/inventory", nil)
	var levels []views.StockLevel
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &levels))
	require.Len(t, levels, 2)
	assert.True(t, levels[0].Low)
	assert.False(t, levels[1].Low)
}

func TestDashboardAndHealth(t *testing.T) {
	r, _ := newTestFarm(t)

	w := do(r, http.MethodGet, "/dashboard", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var dash views.Dashboard
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &dash))
	assert.Equal(t, 3, dash.Herd.Total)
	assert.Equal(t, 630.0, dash.Finance.Net)

	w = do(r, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var overview views.HealthOverview
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &overview))
	require.Len(t, overview.Records, 3)
	assert.Equal(t, "h3", overview.Records[0].ID)
	assert.Equal(t, 67.0, overview.TotalCost)
}

type failingStore struct {
	FarmStore
}

func (failingStore) DeleteTransaction(context.Context, string) (store.Result, error) {
	return store.Rejected, errors.New("persist transactions: disk full")
}

func TestPersistenceFailureIs500(t *testing.T) {
	h := NewFarmHandler(failingStore{}, nil)
	r := gin.New()
	r.DELETE("/transactions/:id", h.DeleteTransaction)

	assert.Equal(t, http.StatusInternalServerError, do(r, http.MethodDelete, "/transactions/1", nil).Code)
}
