package persistence

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/capra/internal/domain/models"
	"github.com/mamadbah2/capra/internal/repository/blob"
)

type failingStore struct{ err error }

func (f failingStore) Get(context.Context, string) ([]byte, bool, error) { return nil, false, f.err }
func (f failingStore) Put(context.Context, string, []byte) error         { return f.err }

func TestLoadHerd_SeedsWhenEmpty(t *testing.T) {
	store := blob.NewMemory()
	adapter := NewAdapter(store, nil)

	herd, err := adapter.LoadHerd(context.Background())
	require.NoError(t, err)
	require.Len(t, herd, 3)
	assert.Equal(t, []string{"Bella", "Max", "Daisy"}, []string{herd[0].Name, herd[1].Name, herd[2].Name})
	assert.Equal(t, 0, store.Writes(KindHerd.Key()), "seed must not be written back")
}

func TestLoadHerd_ReturnsSavedNotSeed(t *testing.T) {
	adapter := NewAdapter(blob.NewMemory(), nil)
	ctx := context.Background()

	saved := []models.HerdMember{{
		ID: "x", Tag: "G-900", Name: "Nova", Breed: "Alpine",
		Gender: models.GenderFemale, Status: models.StatusOpen, DOB: models.MustDate("2024-01-02"),
		WeightHistory: []models.WeightRecord{}, HealthRecords: []models.HealthRecord{},
	}}
	require.NoError(t, adapter.SaveHerd(ctx, saved))

	herd, err := adapter.LoadHerd(ctx)
	require.NoError(t, err)
	assert.Equal(t, saved, herd)
}

func TestLoad_EmptySavedCollectionIsNotSeed(t *testing.T) {
	adapter := NewAdapter(blob.NewMemory(), nil)
	ctx := context.Background()

	require.NoError(t, adapter.SaveTransactions(ctx, nil))
	txs, err := adapter.LoadTransactions(ctx)
	require.NoError(t, err)
	assert.Empty(t, txs)
	assert.NotNil(t, txs)
}

func TestLoad_MalformedPayloadFallsBackToSeedAndIsPreserved(t *testing.T) {
	store := blob.NewMemory()
	ctx := context.Background()
	require.NoError(t, store.Put(ctx, KindInventory.Key(), []byte(`{not json`)))

	items, err := NewAdapter(store, nil).LoadInventory(ctx)
	require.NoError(t, err)
	assert.Equal(t, SeedInventory(), items)

	kept, ok, err := store.Get(ctx, KindInventory.CorruptKey())
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, `{not json`, string(kept))
}

func TestLoad_DropsOnlyInvalidRecords(t *testing.T) {
	store := blob.NewMemory()
	ctx := context.Background()
	raw := `[{"id":"1","type":"Gift","amount":3,"description":"?"},` +
		`{"id":"2","date":"2024-02-01","type":"Income","category":"Sales","amount":90,"description":"Kid"}]`
	require.NoError(t, store.Put(ctx, KindTransactions.Key(), []byte(raw)))

	txs, err := NewAdapter(store, nil).LoadTransactions(ctx)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, "2", txs[0].ID)

	kept, ok, err := store.Get(ctx, KindTransactions.CorruptKey())
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, raw, string(kept))
}

func TestLoadHerd_DefaultsMissingStatusAndGender(t *testing.T) {
	store := blob.NewMemory()
	ctx := context.Background()
	require.NoError(t, store.Put(ctx, KindHerd.Key(), []byte(
		`[{"id":"a","tag":"R-1","name":"Real1","gender":"Male","status":"Open"},{"id":"b","tag":"R-2","name":"Real2"}]`)))

	herd, err := NewAdapter(store, nil).LoadHerd(ctx)
	require.NoError(t, err)
	require.Len(t, herd, 2)
	assert.Equal(t, "Real1", herd[0].Name)
	assert.Equal(t, models.StatusOpen, herd[1].Status)
	assert.Equal(t, models.GenderFemale, herd[1].Gender)

	_, ok, err := store.Get(ctx, KindHerd.CorruptKey())
	require.NoError(t, err)
	assert.False(t, ok, "a repaired collection is not corrupt")
}

type putFailingStore struct {
	*blob.Memory
	err error
}

func (p putFailingStore) Put(context.Context, string, []byte) error { return p.err }

func TestLoad_FailsWhenCorruptPayloadCannotBePreserved(t *testing.T) {
	mem := blob.NewMemory()
	require.NoError(t, mem.Put(context.Background(), KindHerd.Key(), []byte(`oops`)))
	boom := errors.New("read only")

	_, err := NewAdapter(putFailingStore{Memory: mem, err: boom}, nil).LoadHerd(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestLoad_ToleratesMissingFields(t *testing.T) {
	store := blob.NewMemory()
	ctx := context.Background()
	require.NoError(t, store.Put(ctx, KindHerd.Key(), []byte(`[{"id":"7","tag":"T","name":"N","gender":"Male","status":"Dry"}]`)))

	herd, err := NewAdapter(store, nil).LoadHerd(ctx)
	require.NoError(t, err)
	require.Len(t, herd, 1)
	assert.True(t, herd[0].DOB.IsZero())
	assert.Empty(t, herd[0].HealthRecords)
}

func TestAdapter_PropagatesBackendErrors(t *testing.T) {
	boom := errors.New("disk full")
	adapter := NewAdapter(failingStore{err: boom}, nil)

	_, err := adapter.LoadHerd(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, adapter.SaveInventory(context.Background(), SeedInventory()), boom)
}

func TestKind_Key(t *testing.T) {
	assert.Equal(t, "capra_goats", KindHerd.Key())
	assert.Equal(t, "capra_transactions", KindTransactions.Key())
	assert.Equal(t, "capra_inventory", KindInventory.Key())
	assert.Equal(t, "capra_goats.corrupt", KindHerd.CorruptKey())
}
