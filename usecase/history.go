package usecase

import (
	"vault/domain"
	"vault/interface/repository"

	"go.uber.org/zap"
)

type ClaimHistory interface {
	Find(id uint64) (*repository.ClaimRecord, error)
	FindAllByStatus(status string) ([]repository.ClaimRecord, error)
}

type JournalHistory interface {
	FindByKind(kind domain.EventKind) ([]domain.JournalEntry, error)
}

type SnapshotHistory interface {
	Latest() (*domain.VaultSnapshot, error)
}

// HistoryInteractor reads back what the journal and the statistics have stored.
type HistoryInteractor struct {
	claims    ClaimHistory
	journal   JournalHistory
	snapshots SnapshotHistory
	logger    *zap.Logger
}

func NewHistoryInteractor(claims ClaimHistory, journal JournalHistory, snapshots SnapshotHistory, logger *zap.Logger) *HistoryInteractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	interactor := &HistoryInteractor{
		claims:    claims,
		journal:   journal,
		snapshots: snapshots,
		logger:    logger.Named("history"),
	}
	return interactor
}

func (interactor *HistoryInteractor) Claim(id uint64) (*repository.ClaimRecord, error) {
	record, err := interactor.claims.Find(id)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, domain.ErrorNotFound
	}
	return record, nil
}

// ClaimsByStatus lists the mirrored claims with the given status, as last flushed.
func (interactor *HistoryInteractor) ClaimsByStatus(status string) ([]repository.ClaimRecord, error) {
	status, err := domain.ParseClaimStatus(status)
	if err != nil {
		return nil, err
	}
	return interactor.claims.FindAllByStatus(status)
}

func (interactor *HistoryInteractor) Events(kind string) ([]domain.JournalEntry, error) {
	eventKind, err := domain.ParseEventKind(kind)
	if err != nil {
		return nil, err
	}
	return interactor.journal.FindByKind(eventKind)
}

// LatestSnapshot returns the last stored snapshot, nil if there is none.
func (interactor *HistoryInteractor) LatestSnapshot() (*domain.VaultSnapshot, error) {
	snapshot, err := interactor.snapshots.Latest()
	if err != nil {
		interactor.logger.Warn("failed to read snapshot", zap.Error(err))
		return nil, err
	}
	return snapshot, nil
}
