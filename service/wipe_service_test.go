package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wipeforge/certificate"
	"wipeforge/db"
	"wipeforge/ledger"
	"wipeforge/store"
	"wipeforge/types"
	"wipeforge/wipeengine"
)

func newTestService(t *testing.T) (*WipeService, *ledger.Chain, store.RecordStore) {
	t.Helper()
	provider, err := db.NewLevelDBProvider(t.TempDir())
	require.NoError(t, err)
	recordStore, err := store.NewGenericRecordStore(provider)
	require.NoError(t, err)
	t.Cleanup(recordStore.MustClose)

	chain := ledger.NewChain()
	svc := NewWipeService(
		wipeengine.New(t.TempDir(), 0),
		chain,
		recordStore,
		certificate.NewWriter(t.TempDir()),
	)
	return svc, chain, recordStore
}

func TestStartWipeAppendsAndPersists(t *testing.T) {
	svc, chain, recordStore := newTestService(t)

	receipt, err := svc.StartWipe("1A2B-3C4D-5E6F", "Dell Laptop", types.MethodDoD5220)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), receipt.Position)
	assert.Len(t, receipt.Digest, 64)
	assert.NotEmpty(t, receipt.LogPath)
	assert.NotEmpty(t, receipt.CertificatePath)

	genesis, err := chain.GetByPosition(0)
	require.NoError(t, err)
	assert.Equal(t, genesis.Digest, receipt.PrevDigest)

	stored, err := recordStore.GetByPosition(1)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, receipt.Digest, stored.Digest)
}

func TestStartWipeRejectsUnknownMethod(t *testing.T) {
	svc, chain, _ := newTestService(t)
	_, err := svc.StartWipe("DEVICE123", "Test Device", "Magic Eraser")
	require.Error(t, err)
	assert.Equal(t, 1, chain.Len(), "failed wipe must not grow the chain")
}

func TestValidateChainReportsTamper(t *testing.T) {
	svc, chain, _ := newTestService(t)
	_, err := svc.StartWipe("DEVICE123", "Test Device", types.MethodATAErase)
	require.NoError(t, err)

	report, err := svc.ValidateChain()
	require.NoError(t, err)
	assert.True(t, report.Valid())

	chain.Records()[1].Payload = map[string]string{"status": types.WipeStatusFailed}
	report, err = svc.ValidateChain()
	require.NoError(t, err)
	assert.False(t, report.Valid())
}

func TestChainQueries(t *testing.T) {
	svc, _, _ := newTestService(t)
	receipt, err := svc.StartWipe("DEVICE123", "Test Device", types.MethodNISTClr)
	require.NoError(t, err)

	latest, err := svc.LatestRecord()
	require.NoError(t, err)
	assert.Equal(t, receipt.Digest, latest.Digest)

	byPos, err := svc.RecordByPosition(1)
	require.NoError(t, err)
	assert.Equal(t, receipt.Digest, byPos.Digest)

	assert.Len(t, svc.ChainRecords(), 2)
}
