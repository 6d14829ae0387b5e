package ledger

import (
	"fmt"
	"sort"
	"sync"
	"vault/domain"
)

// ShareLedger is the fungible share token of one tranche.
// Invariant: totalSupply equals the sum of all balances.
type ShareLedger struct {
	mu          sync.RWMutex
	tranche     domain.Tranche
	balances    map[string]int64
	totalSupply int64
}

func NewShareLedger(tranche domain.Tranche) *ShareLedger {
	return &ShareLedger{
		tranche:  tranche,
		balances: make(map[string]int64),
	}
}

func (l *ShareLedger) Tranche() domain.Tranche {
	return l.tranche
}

func (l *ShareLedger) Mint(holder string, amount int64) error {
	if holder == "" {
		return domain.ErrorInvalidAccount
	}
	if amount <= 0 {
		return domain.ErrorInvalidAmount
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.totalSupply > maxUnits-amount {
		return fmt.Errorf("%w: %v supply", domain.ErrorAmountOverflow, l.tranche)
	}
	l.balances[holder] += amount
	l.totalSupply += amount
	return nil
}

func (l *ShareLedger) Burn(holder string, amount int64) error {
	if amount <= 0 {
		return domain.ErrorInvalidAmount
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	balance := l.balances[holder]
	if balance < amount {
		return domain.InsufficientSharesError(l.tranche)
	}
	if balance == amount {
		delete(l.balances, holder)
	} else {
		l.balances[holder] = balance - amount
	}
	l.totalSupply -= amount
	return nil
}

func (l *ShareLedger) BalanceOf(holder string) int64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.balances[holder]
}

func (l *ShareLedger) TotalSupply() int64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.totalSupply
}

// Holders returns the accounts with a non-zero balance, sorted.
func (l *ShareLedger) Holders() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	res := make([]string, 0, len(l.balances))
	for holder := range l.balances {
		res = append(res, holder)
	}
	sort.Strings(res)
	return res
}

const maxUnits = int64(1<<63 - 1)
