package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newTestClaim(due time.Time) *Claim {
	return &Claim{
		ID:        0,
		FaceValue: 10_000_000000,
		DueDate:   due,
		Holder:    "supplier",
	}
}

func TestClaim_Status(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	due := now.Add(30 * 24 * time.Hour)

	claim := newTestClaim(due)
	assert.Equal(t, ClaimStatusPending, claim.Status(now))
	assert.Equal(t, int64(0), claim.Outstanding())

	claim.Financed = true
	assert.Equal(t, ClaimStatusFinanced, claim.Status(now))
	assert.Equal(t, ClaimStatusDefaulted, claim.Status(due.Add(time.Second)))
	assert.Equal(t, claim.FaceValue, claim.Outstanding())

	claim.AmountRepaid = claim.FaceValue
	assert.True(t, claim.IsSettled())
	assert.Equal(t, ClaimStatusRepaid, claim.Status(due.Add(time.Hour)))
	assert.False(t, claim.IsOverdue(due.Add(time.Hour)))
}

func TestClaim_CheckRepayment(t *testing.T) {
	claim := newTestClaim(time.Now().Add(time.Hour))

	assert.ErrorIs(t, claim.CheckRepayment(1), ErrorNotFinanced)
	assert.NoError(t, claim.CheckFinanceable())

	claim.Financed = true
	assert.ErrorIs(t, claim.CheckFinanceable(), ErrorAlreadyFinanced)
	assert.ErrorIs(t, claim.CheckRepayment(0), ErrorInvalidAmount)
	assert.ErrorIs(t, claim.CheckRepayment(-1), ErrorInvalidAmount)
	assert.ErrorIs(t, claim.CheckRepayment(claim.FaceValue+1), ErrorOverRepayment)
	assert.NoError(t, claim.CheckRepayment(claim.FaceValue))

	claim.AmountRepaid = claim.FaceValue - 5
	assert.ErrorIs(t, claim.CheckRepayment(6), ErrorOverRepayment)
	assert.NoError(t, claim.CheckRepayment(5))

	claim.AmountRepaid = claim.FaceValue
	assert.ErrorIs(t, claim.CheckRepayment(1), ErrorAlreadySettled)
}

func TestDebtorHash_String(t *testing.T) {
	var h DebtorHash
	h[0] = 0xab
	assert.Equal(t, 66, len(h.String()))
	assert.Equal(t, "0xab00", h.String()[:6])
}

func TestParseClaimStatus(t *testing.T) {
	status, err := ParseClaimStatus(" Financed ")
	assert.NoError(t, err)
	assert.Equal(t, ClaimStatusFinanced, status)

	_, err = ParseClaimStatus("paid")
	assert.ErrorIs(t, err, ErrorInvalidStatus)
}

func TestParseEventKind(t *testing.T) {
	kind, err := ParseEventKind("claim_repaid")
	assert.NoError(t, err)
	assert.Equal(t, EventClaimRepaid, kind)

	_, err = ParseEventKind("minted")
	assert.ErrorIs(t, err, ErrorInvalidEventKind)
}
