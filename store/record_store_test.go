package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wipeforge/db"
	"wipeforge/ledger"
)

func newTestStore(t *testing.T) *GenericRecordStore {
	t.Helper()
	provider, err := db.NewLevelDBProvider(t.TempDir())
	require.NoError(t, err)
	store, err := NewGenericRecordStore(provider)
	require.NoError(t, err)
	t.Cleanup(store.MustClose)
	return store
}

func TestStoreAndGetByPosition(t *testing.T) {
	store := newTestStore(t)
	chain := ledger.NewChain()
	record, err := chain.Append(map[string]string{"device_id": "DEVICE123"})
	require.NoError(t, err)

	require.NoError(t, store.StoreBatch(chain.Records()))

	got, err := store.GetByPosition(1)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, record.Digest, got.Digest)
	assert.Equal(t, record.PrevDigest, got.PrevDigest)

	missing, err := store.GetByPosition(42)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestLatestPosition(t *testing.T) {
	store := newTestStore(t)

	_, ok, err := store.LatestPosition()
	require.NoError(t, err)
	assert.False(t, ok, "empty store must report no latest position")

	chain := ledger.NewChain()
	for i := 0; i < 3; i++ {
		_, err := chain.Append(map[string]int{"seq": i})
		require.NoError(t, err)
	}
	require.NoError(t, store.StoreBatch(chain.Records()))

	latest, ok, err := store.LatestPosition()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, uint64(3), latest)
}

func TestLoadAllRebuildsValidChain(t *testing.T) {
	store := newTestStore(t)
	chain := ledger.NewChain()
	_, err := chain.Append(map[string]string{"id": "A"})
	require.NoError(t, err)
	_, err = chain.Append(map[string]string{"id": "B"})
	require.NoError(t, err)
	require.NoError(t, store.StoreBatch(chain.Records()))

	records, err := store.LoadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	rebuilt, err := ledger.FromRecords(records)
	require.NoError(t, err)
	report, err := rebuilt.Validate()
	require.NoError(t, err)
	assert.True(t, report.Valid(), "reloaded chain must validate: %+v", report.Failures)
}

func TestLoadAllEmptyStore(t *testing.T) {
	store := newTestStore(t)
	records, err := store.LoadAll()
	require.NoError(t, err)
	assert.Nil(t, records)
}

func TestNilProviderRejected(t *testing.T) {
	_, err := NewGenericRecordStore(nil)
	assert.Error(t, err)
}
