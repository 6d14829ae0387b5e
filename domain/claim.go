package domain

import (
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

// Status vocabulary shared with the invoice record-keeping service.
const (
	ClaimStatusPending   = "pending"
	ClaimStatusFinanced  = "financed"
	ClaimStatusRepaid    = "repaid"
	ClaimStatusDefaulted = "defaulted"
)

func ParseClaimStatus(s string) (string, error) {
	status := strings.ToLower(strings.TrimSpace(s))
	switch status {
	case ClaimStatusPending, ClaimStatusFinanced, ClaimStatusRepaid, ClaimStatusDefaulted:
		return status, nil
	}
	return "", fmt.Errorf("%w: '%v'", ErrorInvalidStatus, s)
}

type DebtorHash [32]byte

func (h DebtorHash) String() string {
	return "0x" + hex.EncodeToString(h[:])
}

func (h DebtorHash) MarshalText() ([]byte, error) {
	return []byte(h.String()), nil
}

// Claim is a receivable (an invoice) that the vault can finance. It is held
// by a single account and cannot be transferred.
type Claim struct {
	ID           uint64     `json:"id"`
	FaceValue    int64      `json:"face_value"`
	DueDate      time.Time  `json:"due_date"`
	DebtorHash   DebtorHash `json:"debtor_hash"`
	Holder       string     `json:"holder"`
	Financed     bool       `json:"financed"`
	AmountRepaid int64      `json:"amount_repaid"`
	IssuedAt     time.Time  `json:"issued_at"`
	FinancedAt   *time.Time `json:"financed_at"`
	SettledAt    *time.Time `json:"settled_at"`
}

func (c *Claim) Outstanding() int64 {
	if !c.Financed {
		return 0
	}
	return c.FaceValue - c.AmountRepaid
}

func (c *Claim) IsSettled() bool {
	return c.Financed && c.AmountRepaid == c.FaceValue
}

func (c *Claim) IsOverdue(now time.Time) bool {
	return c.Financed && !c.IsSettled() && now.After(c.DueDate)
}

func (c *Claim) Status(now time.Time) string {
	switch {
	case !c.Financed:
		return ClaimStatusPending
	case c.IsSettled():
		return ClaimStatusRepaid
	case c.IsOverdue(now):
		return ClaimStatusDefaulted
	}
	return ClaimStatusFinanced
}

// CheckFinanceable returns the state error preventing the claim from being financed.
func (c *Claim) CheckFinanceable() error {
	if c.Financed {
		return ErrorAlreadyFinanced
	}
	return nil
}

// CheckRepayment returns the state error preventing a repayment of amount.
func (c *Claim) CheckRepayment(amount int64) error {
	if amount <= 0 {
		return ErrorInvalidAmount
	}
	if !c.Financed {
		return ErrorNotFinanced
	}
	if c.IsSettled() {
		return ErrorAlreadySettled
	}
	if amount > c.FaceValue-c.AmountRepaid {
		return ErrorOverRepayment
	}
	return nil
}
