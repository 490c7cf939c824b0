package persistence

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/mamadbah2/capra/internal/domain/models"
	"github.com/mamadbah2/capra/internal/repository/blob"
)

// Kind names one of the persisted collections.
type Kind string

const (
	KindHerd         Kind = "herd"
	KindTransactions Kind = "transactions"
	KindInventory    Kind = "inventory"
)

// Key returns the storage key the collection is saved under.
func (k Kind) Key() string {
	switch k {
	case KindHerd:
		return "capra_goats"
	case KindTransactions:
		return "capra_transactions"
	case KindInventory:
		return "capra_inventory"
	default:
		return "capra_" + string(k)
	}
}

// CorruptKey returns where an unreadable payload of kind is preserved.
func (k Kind) CorruptKey() string {
	return k.Key() + ".corrupt"
}

// Adapter reads and writes whole collections as JSON arrays on a blob store.
// A missing key yields the seed collection. A payload that does not decode yields
// the seed, and records that decode but stay invalid after defaults are dropped.
// In both cases the raw payload is first copied under the key with a ".corrupt"
// suffix so the next save cannot destroy it.
type Adapter struct {
	store  blob.Store
	logger *zap.Logger
}

// NewAdapter wraps store.
func NewAdapter(store blob.Store, logger *zap.Logger) *Adapter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Adapter{store: store, logger: logger}
}

// LoadHerd returns the saved herd or the seed herd. Members saved without a
// gender or status get the same defaults new members do.
func (a *Adapter) LoadHerd(ctx context.Context) ([]models.HerdMember, error) {
	return load(ctx, a, KindHerd, SeedHerd, models.HerdMember.WithDefaults, models.HerdMember.Validate)
}

// SaveHerd overwrites the saved herd.
func (a *Adapter) SaveHerd(ctx context.Context, herd []models.HerdMember) error {
	return save(ctx, a, KindHerd, herd)
}

// LoadTransactions returns the saved ledger or the seed ledger.
func (a *Adapter) LoadTransactions(ctx context.Context) ([]models.Transaction, error) {
	return load(ctx, a, KindTransactions, SeedTransactions, nil, models.Transaction.Validate)
}

// SaveTransactions overwrites the saved ledger.
func (a *Adapter) SaveTransactions(ctx context.Context, txs []models.Transaction) error {
	return save(ctx, a, KindTransactions, txs)
}

// LoadInventory returns the saved inventory or the seed inventory.
func (a *Adapter) LoadInventory(ctx context.Context) ([]models.InventoryItem, error) {
	return load(ctx, a, KindInventory, SeedInventory, nil, models.InventoryItem.Validate)
}

// SaveInventory overwrites the saved inventory.
func (a *Adapter) SaveInventory(ctx context.Context, items []models.InventoryItem) error {
	return save(ctx, a, KindInventory, items)
}

func load[T any](ctx context.Context, a *Adapter, kind Kind, seed func() []T, defaults func(T) T, validate func(T) error) ([]T, error) {
	payload, ok, err := a.store.Get(ctx, kind.Key())
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", kind, err)
	}
	if !ok {
		return seed(), nil
	}

	var decoded []T
	if err := json.Unmarshal(payload, &decoded); err != nil {
		a.logger.Warn("stored collection is malformed, falling back to seed",
			zap.String("kind", string(kind)), zap.Error(err))
		if err := a.preserve(ctx, kind, payload); err != nil {
			return nil, err
		}
		return seed(), nil
	}

	out := make([]T, 0, len(decoded))
	for i, item := range decoded {
		if defaults != nil {
			item = defaults(item)
		}
		if err := validate(item); err != nil {
			a.logger.Warn("dropping stored record that failed validation",
				zap.String("kind", string(kind)), zap.Int("index", i), zap.Error(err))
			continue
		}
		out = append(out, item)
	}
	if len(out) < len(decoded) {
		if err := a.preserve(ctx, kind, payload); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// preserve copies payload under the corrupt key of kind.
func (a *Adapter) preserve(ctx context.Context, kind Kind, payload []byte) error {
	if err := a.store.Put(ctx, kind.CorruptKey(), payload); err != nil {
		return fmt.Errorf("preserve corrupt %s: %w", kind, err)
	}
	a.logger.Warn("unreadable payload preserved", zap.String("kind", string(kind)), zap.String("key", kind.CorruptKey()))
	return nil
}

func save[T any](ctx context.Context, a *Adapter, kind Kind, items []T) error {
	if items == nil {
		items = []T{}
	}
	payload, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode %s: %w", kind, err)
	}
	if err := a.store.Put(ctx, kind.Key(), payload); err != nil {
		return fmt.Errorf("save %s: %w", kind, err)
	}
	return nil
}
