package repository

import (
	"errors"
	"testing"
	"time"
	"vault/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func TestSnapshotRepository(t *testing.T) {
	handler := &fakeBatchHandler{}
	repo := NewSnapshotRepository(handler)

	snapshot := &domain.VaultSnapshot{
		TotalSeniorShares:     980,
		AssetsUnderManagement: 980,
		TotalValueLocked:      1000,
		FeeRate:               200,
		Time:                  testNow,
	}
	require.NoError(t, repo.Save(snapshot))
	command := handler.lastBatch()[0]
	assert.Equal(t, sqlMemoUpsert, command.Query)
	assert.Equal(t, domain.SnapshotMemoKey, command.Args[0])
	assert.Equal(t, snapshot.ToJson(), command.Args[1])

	latest, err := repo.Latest()
	require.NoError(t, err)
	assert.Nil(t, latest)

	handler.rows = [][]interface{}{{domain.SnapshotMemoKey, []byte(snapshot.ToJson())}}
	latest, err = repo.Latest()
	require.NoError(t, err)
	assert.Equal(t, snapshot.AssetsUnderManagement, latest.AssetsUnderManagement)
	assert.Equal(t, snapshot.TotalValueLocked, latest.TotalValueLocked)
	assert.True(t, snapshot.Time.Equal(latest.Time))
	assert.Same(t, &BatchOptionNormalReadOnly, handler.opts[len(handler.opts)-1])
}

func TestJournalRepository(t *testing.T) {
	handler := &fakeBatchHandler{}
	repo := NewJournalRepository(handler)

	require.NoError(t, repo.InsertAll(nil))
	assert.Empty(t, handler.batches)

	first, err := domain.NewJournalEntry(domain.DepositedEvent{Depositor: "alice", GrossAmount: 1000, Fee: 20, NetShares: 980}, testNow)
	require.NoError(t, err)
	second, err := domain.NewJournalEntry(domain.ReturnsDistributedEvent{TotalAmount: 150, SeniorPortion: 100, JuniorPortion: 50}, testNow)
	require.NoError(t, err)

	require.NoError(t, repo.InsertAll([]domain.JournalEntry{first, second}))
	batch := handler.lastBatch()
	require.Len(t, batch, 2)
	assert.Equal(t, first.ID, batch[0].Args[0])
	assert.Equal(t, "deposited", batch[0].Args[1])
	assert.Equal(t, "returns_distributed", batch[1].Args[1])

	handler.rows = [][]interface{}{
		{first.ID, "deposited", []byte(first.Payload), testNow},
	}
	entries, err := repo.FindByKind(domain.EventDeposited)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, first.ID, entries[0].ID)
	assert.Equal(t, domain.EventDeposited, entries[0].Kind)
	assert.JSONEq(t, string(first.Payload), string(entries[0].Payload))

	handler.err = errors.New("connection refused")
	assert.Error(t, repo.InsertAll([]domain.JournalEntry{{ID: uuid.New()}}))
	_, err = repo.FindByKind(domain.EventDeposited)
	assert.Error(t, err)
}

func TestClaimRepository(t *testing.T) {
	handler := &fakeBatchHandler{}
	repo := NewClaimRepository(handler)

	financedAt := testNow.Add(-time.Hour)
	claim := domain.Claim{
		ID:         7,
		FaceValue:  1000,
		DueDate:    testNow.Add(-time.Minute),
		Holder:     "supplier",
		Financed:   true,
		IssuedAt:   testNow.Add(-2 * time.Hour),
		FinancedAt: &financedAt,
	}
	record := NewClaimRecord(claim, testNow)
	assert.Equal(t, domain.ClaimStatusDefaulted, record.Status)
	assert.Equal(t, claim.DebtorHash.String(), record.DebtorHash)

	require.NoError(t, repo.UpsertAll(nil, testNow))
	assert.Empty(t, handler.batches)

	require.NoError(t, repo.UpsertAll([]ClaimRecord{record}, testNow))
	command := handler.lastBatch()[0]
	assert.Equal(t, int64(7), command.Args[0])
	assert.Equal(t, domain.ClaimStatusDefaulted, command.Args[5])
	assert.Equal(t, testNow, command.Args[10])

	row := []interface{}{
		int64(7), int64(1000), record.DueDate, record.DebtorHash, "supplier", domain.ClaimStatusDefaulted,
		int64(0), record.IssuedAt, &financedAt, nil,
	}
	handler.rows = [][]interface{}{row}

	found, err := repo.Find(7)
	require.NoError(t, err)
	assert.Equal(t, record, *found)

	all, err := repo.FindAllByStatus(domain.ClaimStatusDefaulted)
	require.NoError(t, err)
	assert.Equal(t, []ClaimRecord{record}, all)

	handler.err = errors.New("connection refused")
	_, err = repo.Find(7)
	assert.Error(t, err)
}
