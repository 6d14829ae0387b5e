package ledger

import (
	"testing"
	"vault/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sumBalances(l *ShareLedger) int64 {
	total := int64(0)
	for _, holder := range l.Holders() {
		total += l.BalanceOf(holder)
	}
	return total
}

func TestShareLedger_MintBurn(t *testing.T) {
	l := NewShareLedger(domain.Senior)

	require.NoError(t, l.Mint("alice", 980))
	require.NoError(t, l.Mint("bob", 490))
	require.NoError(t, l.Mint("alice", 20))

	assert.Equal(t, int64(1000), l.BalanceOf("alice"))
	assert.Equal(t, int64(1490), l.TotalSupply())
	assert.Equal(t, l.TotalSupply(), sumBalances(l))

	require.NoError(t, l.Burn("bob", 490))
	assert.Equal(t, []string{"alice"}, l.Holders())
	assert.Equal(t, int64(0), l.BalanceOf("bob"))
	assert.Equal(t, int64(1000), l.TotalSupply())
	assert.Equal(t, l.TotalSupply(), sumBalances(l))
}

func TestShareLedger_Rejects(t *testing.T) {
	senior := NewShareLedger(domain.Senior)
	junior := NewShareLedger(domain.Junior)
	require.NoError(t, senior.Mint("alice", 10))

	assert.ErrorIs(t, senior.Mint("", 1), domain.ErrorInvalidAccount)
	assert.ErrorIs(t, senior.Mint("alice", 0), domain.ErrorInvalidAmount)
	assert.ErrorIs(t, senior.Burn("alice", -1), domain.ErrorInvalidAmount)

	err := senior.Burn("alice", 11)
	assert.ErrorIs(t, err, domain.ErrorInsufficientSeniorShares)
	err = junior.Burn("alice", 1)
	assert.ErrorIs(t, err, domain.ErrorInsufficientJuniorShares)

	assert.Equal(t, int64(10), senior.TotalSupply())
	assert.Equal(t, domain.Junior, junior.Tranche())
}

func TestShareLedger_Overflow(t *testing.T) {
	l := NewShareLedger(domain.Junior)
	require.NoError(t, l.Mint("alice", maxUnits))

	assert.ErrorIs(t, l.Mint("bob", 1), domain.ErrorInvalidAmount)
	assert.Equal(t, maxUnits, l.TotalSupply())
}
