package usecase

import (
	"sort"
	"sync"
	"time"
	"vault/domain"
	"vault/interface/exporter"
	"vault/interface/repository"

	"go.uber.org/zap"
)

type JournalStore interface {
	InsertAll(entries []domain.JournalEntry) error
}

type ClaimStore interface {
	UpsertAll(records []repository.ClaimRecord, now time.Time) error
}

type ClaimReader interface {
	Get(id uint64) (domain.Claim, error)
	Overdue(now time.Time) []domain.Claim
}

// JournalInteractor receives the vault events and stores them in batches.
// Entries stay queued until a flush succeeds.
type JournalInteractor struct {
	flushMu sync.Mutex

	mu      sync.Mutex
	pending []domain.JournalEntry
	dirty   map[uint64]bool
	stored  []domain.JournalEntry

	journalStore JournalStore
	claimStore   ClaimStore
	claims       ClaimReader
	logger       *zap.Logger
	now          func() time.Time
}

// NewJournalInteractor creates the journal. With nil stores, flushed entries are kept in memory.
func NewJournalInteractor(journalStore JournalStore, claimStore ClaimStore, claims ClaimReader, logger *zap.Logger, now func() time.Time) *JournalInteractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	if now == nil {
		now = time.Now
	}
	interactor := &JournalInteractor{
		dirty:        make(map[uint64]bool),
		journalStore: journalStore,
		claimStore:   claimStore,
		claims:       claims,
		logger:       logger.Named("journal"),
		now:          now,
	}
	return interactor
}

func (interactor *JournalInteractor) Emit(event domain.Event) {
	entry, err := domain.NewJournalEntry(event, interactor.now())
	if err != nil {
		interactor.logger.Error("failed to encode event", zap.String("kind", string(event.Kind())), zap.Error(err))
		return
	}

	exporter.IncEventCount(entry.Kind)
	interactor.logger.Debug("event", zap.String("kind", string(entry.Kind)), zap.ByteString("payload", entry.Payload))

	interactor.mu.Lock()
	defer interactor.mu.Unlock()

	interactor.pending = append(interactor.pending, entry)
	if id, ok := claimOf(event); ok {
		interactor.dirty[id] = true
	}
	exporter.SetJournalPending(len(interactor.pending))
}

// ClaimIssued journals a claim created by the registry.
func (interactor *JournalInteractor) ClaimIssued(claim domain.Claim) {
	interactor.Emit(domain.ClaimIssuedEvent{Claim: claim})
}

func claimOf(event domain.Event) (uint64, bool) {
	switch e := event.(type) {
	case domain.ClaimIssuedEvent:
		return e.Claim.ID, true
	case domain.ClaimFinancedEvent:
		return e.ClaimID, true
	case domain.ClaimRepaidEvent:
		return e.ClaimID, true
	}
	return 0, false
}

func (interactor *JournalInteractor) Pending() int {
	interactor.mu.Lock()
	defer interactor.mu.Unlock()
	return len(interactor.pending)
}

// Stored returns the entries flushed while running without a journal store.
func (interactor *JournalInteractor) Stored() []domain.JournalEntry {
	interactor.mu.Lock()
	defer interactor.mu.Unlock()
	return append([]domain.JournalEntry(nil), interactor.stored...)
}

// Flush stores the queued entries and mirrors the touched claims. Overdue claims
// are mirrored too since their status changes with time only. The stores are
// written without holding the queue, and whatever fails is queued again.
func (interactor *JournalInteractor) Flush() error {
	interactor.flushMu.Lock()
	defer interactor.flushMu.Unlock()

	now := interactor.now()

	interactor.mu.Lock()
	entries, dirty := interactor.pending, interactor.dirty
	interactor.pending, interactor.dirty = nil, make(map[uint64]bool)
	exporter.SetJournalPending(0)
	interactor.mu.Unlock()

	if err := interactor.storeEntries(entries); err != nil {
		interactor.requeue(entries, dirty)
		return err
	}

	if interactor.claimStore == nil || interactor.claims == nil {
		return nil
	}

	for _, claim := range interactor.claims.Overdue(now) {
		dirty[claim.ID] = true
	}
	if len(dirty) == 0 {
		return nil
	}

	ids := make([]uint64, 0, len(dirty))
	for id := range dirty {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	records := make([]repository.ClaimRecord, 0, len(ids))
	for _, id := range ids {
		claim, err := interactor.claims.Get(id)
		if err != nil {
			interactor.logger.Warn("journaled claim is unknown", zap.Uint64("claim", id), zap.Error(err))
			delete(dirty, id)
			continue
		}
		records = append(records, repository.NewClaimRecord(claim, now))
	}

	if err := interactor.claimStore.UpsertAll(records, now); err != nil {
		interactor.logger.Warn("failed to mirror claims", zap.Int("claims", len(records)), zap.Error(err))
		interactor.requeue(nil, dirty)
		return err
	}
	return nil
}

func (interactor *JournalInteractor) storeEntries(entries []domain.JournalEntry) error {
	if len(entries) == 0 {
		return nil
	}

	if interactor.journalStore == nil {
		interactor.mu.Lock()
		interactor.stored = append(interactor.stored, entries...)
		interactor.mu.Unlock()
	} else if err := interactor.journalStore.InsertAll(entries); err != nil {
		interactor.logger.Warn("failed to store journal entries", zap.Int("entries", len(entries)), zap.Error(err))
		return err
	}
	interactor.logger.Info("journal flushed", zap.Int("entries", len(entries)))
	return nil
}

// requeue puts entries back ahead of the ones emitted during the failed flush.
func (interactor *JournalInteractor) requeue(entries []domain.JournalEntry, dirty map[uint64]bool) {
	interactor.mu.Lock()
	defer interactor.mu.Unlock()

	if len(entries) > 0 {
		interactor.pending = append(entries, interactor.pending...)
	}
	for id := range dirty {
		interactor.dirty[id] = true
	}
	exporter.SetJournalPending(len(interactor.pending))
}
