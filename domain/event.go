package domain

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type EventKind string

const (
	EventDeposited          EventKind = "deposited"
	EventWithdrawn          EventKind = "withdrawn"
	EventReturnsDistributed EventKind = "returns_distributed"
	EventClaimIssued        EventKind = "claim_issued"
	EventClaimFinanced      EventKind = "claim_financed"
	EventClaimRepaid        EventKind = "claim_repaid"
)

func ParseEventKind(s string) (EventKind, error) {
	kind := EventKind(strings.ToLower(strings.TrimSpace(s)))
	switch kind {
	case EventDeposited, EventWithdrawn, EventReturnsDistributed, EventClaimIssued, EventClaimFinanced, EventClaimRepaid:
		return kind, nil
	}
	return "", fmt.Errorf("%w: '%v'", ErrorInvalidEventKind, s)
}

// Event is an audit record of a committed state change.
type Event interface {
	Kind() EventKind
}

type DepositedEvent struct {
	Depositor   string  `json:"depositor"`
	Tranche     Tranche `json:"tranche"`
	GrossAmount int64   `json:"gross_amount"`
	Fee         int64   `json:"fee"`
	NetShares   int64   `json:"net_shares"`
}

type WithdrawnEvent struct {
	Withdrawer     string  `json:"withdrawer"`
	Tranche        Tranche `json:"tranche"`
	Shares         int64   `json:"shares"`
	AssetsReturned int64   `json:"assets_returned"`
}

type ReturnsDistributedEvent struct {
	TotalAmount   int64 `json:"total_amount"`
	SeniorPortion int64 `json:"senior_portion"`
	JuniorPortion int64 `json:"junior_portion"`
}

type ClaimIssuedEvent struct {
	Claim Claim `json:"claim"`
}

type ClaimFinancedEvent struct {
	ClaimID uint64 `json:"claim_id"`
	Holder  string `json:"holder"`
	Payout  int64  `json:"payout"`
}

type ClaimRepaidEvent struct {
	ClaimID      uint64 `json:"claim_id"`
	Payer        string `json:"payer"`
	Amount       int64  `json:"amount"`
	AmountRepaid int64  `json:"amount_repaid"`
	Settled      bool   `json:"settled"`
}

func (DepositedEvent) Kind() EventKind          { return EventDeposited }
func (WithdrawnEvent) Kind() EventKind          { return EventWithdrawn }
func (ReturnsDistributedEvent) Kind() EventKind { return EventReturnsDistributed }
func (ClaimIssuedEvent) Kind() EventKind        { return EventClaimIssued }
func (ClaimFinancedEvent) Kind() EventKind      { return EventClaimFinanced }
func (ClaimRepaidEvent) Kind() EventKind        { return EventClaimRepaid }

// JournalEntry is the persisted form of an Event.
type JournalEntry struct {
	ID         uuid.UUID       `json:"id"`
	Kind       EventKind       `json:"kind"`
	Payload    json.RawMessage `json:"payload"`
	CreateTime time.Time       `json:"create_time"`
}

func NewJournalEntry(event Event, at time.Time) (JournalEntry, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return JournalEntry{}, err
	}
	return JournalEntry{
		ID:         uuid.New(),
		Kind:       event.Kind(),
		Payload:    payload,
		CreateTime: at,
	}, nil
}
