package usecase

import (
	"time"
	"vault/domain"
	"vault/interface/exporter"

	"go.uber.org/zap"
)

type SnapshotSource interface {
	Snapshot() domain.VaultSnapshot
}

type ClaimLister interface {
	List() []domain.Claim
	Overdue(now time.Time) []domain.Claim
}

type SnapshotStore interface {
	Save(snapshot *domain.VaultSnapshot) error
}

type StatisticInteractor struct {
	vault     SnapshotSource
	claims    ClaimLister
	snapshots SnapshotStore
	logger    *zap.Logger
}

func NewStatisticInteractor(vault SnapshotSource, claims ClaimLister, snapshots SnapshotStore, logger *zap.Logger) *StatisticInteractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	interactor := &StatisticInteractor{
		vault:     vault,
		claims:    claims,
		snapshots: snapshots,
		logger:    logger.Named("statistic"),
	}
	return interactor
}

// Collect reads the vault counters and the claim book, refreshes the gauges
// and stores the snapshot when a store is configured.
func (interactor *StatisticInteractor) Collect() (domain.VaultStats, error) {
	stats := domain.VaultStats{
		Snapshot: interactor.vault.Snapshot(),
	}

	stats.ClaimCount = len(interactor.claims.List())
	for _, claim := range interactor.claims.Overdue(stats.Snapshot.Time) {
		stats.OverdueClaims++
		stats.OverdueAmount += claim.Outstanding()
	}

	exporter.SetStats(stats)

	if stats.OverdueClaims > 0 {
		interactor.logger.Warn("overdue claims",
			zap.Int("count", stats.OverdueClaims),
			zap.Int64("outstanding", stats.OverdueAmount))
	}

	if interactor.snapshots == nil {
		return stats, nil
	}
	if err := interactor.snapshots.Save(&stats.Snapshot); err != nil {
		interactor.logger.Warn("failed to store snapshot", zap.Error(err))
		return stats, err
	}
	return stats, nil
}
