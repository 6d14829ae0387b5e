package ledger

import (
	"testing"
	"vault/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssetLedger_TransferFrom(t *testing.T) {
	l := NewAssetLedger()
	require.NoError(t, l.Mint("alice", 1000))
	require.NoError(t, l.Approve("alice", "vault", 600))

	require.NoError(t, l.TransferFrom("vault", "alice", "vault", 400))
	assert.Equal(t, int64(600), l.BalanceOf("alice"))
	assert.Equal(t, int64(400), l.BalanceOf("vault"))
	assert.Equal(t, int64(200), l.Allowance("alice", "vault"))

	err := l.TransferFrom("vault", "alice", "vault", 201)
	assert.ErrorIs(t, err, domain.ErrorTransferFailed)
	assert.Contains(t, err.Error(), ErrorInsufficientAllowance.Error())
	assert.Equal(t, int64(600), l.BalanceOf("alice"))
	assert.Equal(t, int64(200), l.Allowance("alice", "vault"))
}

func TestAssetLedger_Transfer(t *testing.T) {
	l := NewAssetLedger()
	require.NoError(t, l.Mint("vault", 50))

	err := l.Transfer("vault", "bob", 51)
	assert.ErrorIs(t, err, domain.ErrorTransferFailed)
	assert.Contains(t, err.Error(), ErrorInsufficientFunds.Error())

	require.NoError(t, l.Transfer("vault", "bob", 50))
	assert.Equal(t, int64(0), l.BalanceOf("vault"))
	assert.Equal(t, int64(50), l.BalanceOf("bob"))

	assert.ErrorIs(t, l.Transfer("bob", "", 1), domain.ErrorTransferFailed)
	assert.ErrorIs(t, l.Transfer("bob", "carol", 0), domain.ErrorTransferFailed)
}

func TestAssetLedger_MintAndApproveRejects(t *testing.T) {
	l := NewAssetLedger()

	assert.ErrorIs(t, l.Mint("", 1), domain.ErrorInvalidAccount)
	assert.ErrorIs(t, l.Mint("alice", 0), domain.ErrorInvalidAmount)
	assert.ErrorIs(t, l.Approve("alice", "", 1), domain.ErrorInvalidAccount)
	assert.ErrorIs(t, l.Approve("alice", "vault", -1), domain.ErrorInvalidAmount)
}
