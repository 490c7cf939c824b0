package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mamadbah2/capra/internal/domain/models"
	"github.com/mamadbah2/capra/internal/metrics"
)

// Result tells a caller whether a mutation addressed an existing record.
type Result int

const (
	// Applied means the collection changed and was written through.
	Applied Result = iota
	// NotFound means no record had the id; nothing changed and nothing was written.
	NotFound
	// Rejected means the record failed validation or could not be written; nothing changed.
	Rejected
)

func (r Result) String() string {
	switch r {
	case Applied:
		return "applied"
	case NotFound:
		return "not_found"
	case Rejected:
		return "rejected"
	default:
		return fmt.Sprintf("Result(%d)", int(r))
	}
}

// Persister is the storage the store mirrors every collection to.
type Persister interface {
	LoadHerd(ctx context.Context) ([]models.HerdMember, error)
	SaveHerd(ctx context.Context, herd []models.HerdMember) error
	LoadTransactions(ctx context.Context) ([]models.Transaction, error)
	SaveTransactions(ctx context.Context, txs []models.Transaction) error
	LoadInventory(ctx context.Context) ([]models.InventoryItem, error)
	SaveInventory(ctx context.Context, items []models.InventoryItem) error
}

// Option customizes a Store.
type Option func(*Store)

// WithIDGenerator replaces the uuid-based id generator.
func WithIDGenerator(gen func() string) Option {
	return func(s *Store) { s.newID = gen }
}

// WithClock replaces time.Now, used to default missing dates to today.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithMetrics records every mutation outcome.
func WithMetrics(rec metrics.Recorder) Option {
	return func(s *Store) { s.metrics = rec }
}

// Store holds the herd, the ledger and the inventory in memory. Every applied
// mutation writes the whole affected collection through to the Persister before
// the in-memory collection is replaced, so after a call returns both hold the same
// records.
type Store struct {
	mu           sync.RWMutex
	herd         []models.HerdMember
	transactions []models.Transaction
	inventory    []models.InventoryItem

	persister Persister
	logger    *zap.Logger
	metrics   metrics.Recorder
	newID     func() string
	now       func() time.Time
}

// Open loads all three collections from p.
func Open(ctx context.Context, p Persister, logger *zap.Logger, opts ...Option) (*Store, error) {
	if p == nil {
		return nil, fmt.Errorf("store requires a persister")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Store{
		persister: p,
		logger:    logger,
		metrics:   metrics.Nop{},
		newID:     uuid.NewString,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	herd, err := p.LoadHerd(ctx)
	if err != nil {
		return nil, fmt.Errorf("load herd: %w", err)
	}
	txs, err := p.LoadTransactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("load transactions: %w", err)
	}
	items, err := p.LoadInventory(ctx)
	if err != nil {
		return nil, fmt.Errorf("load inventory: %w", err)
	}

	s.herd = herd
	s.transactions = txs
	s.inventory = items

	s.logger.Info("store loaded",
		zap.Int("herd", len(herd)),
		zap.Int("transactions", len(txs)),
		zap.Int("inventory", len(items)))
	return s, nil
}

// Snapshot returns a deep copy of every collection.
func (s *Store) Snapshot() models.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return models.Snapshot{
		Herd:         cloneHerd(s.herd),
		Transactions: append([]models.Transaction{}, s.transactions...),
		Inventory:    append([]models.InventoryItem{}, s.inventory...),
	}
}

func (s *Store) record(kind, op string, result Result, err error) {
	label := result.String()
	if err != nil {
		label = "error"
	}
	s.metrics.StoreMutation(kind, op, label)
}

// settle maps the outcome of a write-through to the Result reported to callers.
func settle(err error) Result {
	if err != nil {
		return Rejected
	}
	return Applied
}

func (s *Store) today() models.Date {
	return models.NewDate(s.now())
}

func cloneHerd(herd []models.HerdMember) []models.HerdMember {
	out := make([]models.HerdMember, len(herd))
	for i, m := range herd {
		out[i] = m.Clone()
	}
	return out
}

// replaceByID returns a copy of items with the element whose id matches replaced by v.
func replaceByID[T any](items []T, v T, idOf func(T) string) ([]T, bool) {
	id := idOf(v)
	for i, item := range items {
		if idOf(item) == id {
			next := append([]T(nil), items...)
			next[i] = v
			return next, true
		}
	}
	return items, false
}

// removeByID returns a copy of items without the element with the given id.
func removeByID[T any](items []T, id string, idOf func(T) string) ([]T, bool) {
	for i, item := range items {
		if idOf(item) == id {
			next := make([]T, 0, len(items)-1)
			next = append(next, items[:i]...)
			next = append(next, items[i+1:]...)
			return next, true
		}
	}
	return items, false
}

func appendCopy[T any](items []T, v T) []T {
	next := make([]T, 0, len(items)+1)
	next = append(next, items...)
	return append(next, v)
}
