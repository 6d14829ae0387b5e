package usecase

import (
	"errors"
	"testing"
	"time"
	"vault/domain"
	"vault/interface/exporter"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSnapshotStore struct {
	saved []domain.VaultSnapshot
	err   error
}

func (s *fakeSnapshotStore) Save(snapshot *domain.VaultSnapshot) error {
	if s.err != nil {
		return s.err
	}
	s.saved = append(s.saved, *snapshot)
	return nil
}

func TestStatistic_Collect(t *testing.T) {
	f := newVaultFixture(t, 200)
	f.deposit(t, "alice", 10_000, domain.Senior)
	f.deposit(t, "bob", 5_000, domain.Junior)

	current, err := f.registry.Issue("admin", "supplier", 1000, testNow.Add(24*time.Hour), "acme")
	require.NoError(t, err)
	_, err = f.vault.FinanceClaim("admin", current.ID)
	require.NoError(t, err)

	// marked directly in the registry, due before the collection time
	overdue, err := f.registry.Issue("admin", "supplier", 2000, testNow.Add(time.Second), "globex")
	require.NoError(t, err)
	_, err = f.registry.MarkFinanced(overdue.ID, testNow)
	require.NoError(t, err)

	store := &fakeSnapshotStore{}
	statistic := NewStatisticInteractor(snapshotAt{f.vault, testNow.Add(time.Hour)}, f.registry, store, nil)

	stats, err := statistic.Collect()
	require.NoError(t, err)
	assert.Equal(t, 2, stats.ClaimCount)
	assert.Equal(t, 1, stats.OverdueClaims)
	assert.Equal(t, int64(2000), stats.OverdueAmount)
	assert.Equal(t, int64(13_700), stats.Snapshot.AssetsUnderManagement)
	assert.Equal(t, int64(14_000), stats.Snapshot.TotalValueLocked)

	require.Len(t, store.saved, 1)
	assert.Equal(t, stats.Snapshot, store.saved[0])

	assert.Equal(t, float64(13_700), testutil.ToFloat64(exporter.GetGauge(exporter.METRIC_AUM)))
	assert.Equal(t, float64(1), testutil.ToFloat64(exporter.GetGauge(exporter.METRIC_OVERDUE_CLAIMS)))

	store.err = errors.New("connection refused")
	stats, err = statistic.Collect()
	assert.Error(t, err)
	assert.Equal(t, 2, stats.ClaimCount)
}

// snapshotAt reports the vault snapshot at a later time.
type snapshotAt struct {
	vault *VaultInteractor
	at    time.Time
}

func (s snapshotAt) Snapshot() domain.VaultSnapshot {
	snapshot := s.vault.Snapshot()
	snapshot.Time = s.at
	return snapshot
}
