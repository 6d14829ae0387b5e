package ledger

import (
	"fmt"
	"sync"
	"vault/domain"

	"github.com/pkg/errors"
)

var (
	ErrorInsufficientAllowance = fmt.Errorf("insufficient allowance")
	ErrorInsufficientFunds     = fmt.Errorf("insufficient funds")
)

// AssetLedger is the base asset (the unit of account) held by accounts,
// with ERC-20 style allowances for pulls made by a spender.
type AssetLedger struct {
	mu         sync.Mutex
	balances   map[string]int64
	allowances map[string]map[string]int64
}

func NewAssetLedger() *AssetLedger {
	return &AssetLedger{
		balances:   make(map[string]int64),
		allowances: make(map[string]map[string]int64),
	}
}

// Mint credits new units to an account, like the test network faucet does.
func (l *AssetLedger) Mint(account string, amount int64) error {
	if account == "" {
		return domain.ErrorInvalidAccount
	}
	if amount <= 0 {
		return domain.ErrorInvalidAmount
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.balances[account] > maxUnits-amount {
		return domain.ErrorAmountOverflow
	}
	l.balances[account] += amount
	return nil
}

func (l *AssetLedger) Approve(owner, spender string, amount int64) error {
	if owner == "" || spender == "" {
		return domain.ErrorInvalidAccount
	}
	if amount < 0 {
		return domain.ErrorInvalidAmount
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if _, exist := l.allowances[owner]; !exist {
		l.allowances[owner] = make(map[string]int64)
	}
	l.allowances[owner][spender] = amount
	return nil
}

func (l *AssetLedger) Allowance(owner, spender string) int64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.allowances[owner][spender]
}

func (l *AssetLedger) BalanceOf(account string) int64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balances[account]
}

func (l *AssetLedger) Transfer(from, to string, amount int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.checkTransfer(from, to, amount); err != nil {
		return err
	}
	l.move(from, to, amount)
	return nil
}

// TransferFrom moves amount from one account to another on behalf of spender,
// consuming the allowance from granted to spender.
func (l *AssetLedger) TransferFrom(spender, from, to string, amount int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.checkTransfer(from, to, amount); err != nil {
		return err
	}
	allowance := l.allowances[from][spender]
	if allowance < amount {
		return errors.Wrapf(domain.ErrorTransferFailed, "%v: %v approved %v for %v, needs %v",
			ErrorInsufficientAllowance, from, allowance, spender, amount)
	}
	l.allowances[from][spender] = allowance - amount
	l.move(from, to, amount)
	return nil
}

func (l *AssetLedger) checkTransfer(from, to string, amount int64) error {
	if from == "" || to == "" {
		return errors.Wrap(domain.ErrorTransferFailed, domain.ErrorInvalidAccount.Error())
	}
	if amount <= 0 {
		return errors.Wrap(domain.ErrorTransferFailed, domain.ErrorInvalidAmount.Error())
	}
	if l.balances[from] < amount {
		return errors.Wrapf(domain.ErrorTransferFailed, "%v: %v holds %v, needs %v",
			ErrorInsufficientFunds, from, l.balances[from], amount)
	}
	return nil
}

func (l *AssetLedger) move(from, to string, amount int64) {
	l.balances[from] -= amount
	if l.balances[from] == 0 {
		delete(l.balances, from)
	}
	l.balances[to] += amount
}
