package usecase

import (
	"fmt"
	"sort"
	"sync"
	"time"
	"vault/domain"
	"vault/domain/util"

	"go.uber.org/zap"
)

var (
	ErrorUnexpectedOutcome = fmt.Errorf("unexpected step outcome")
)

// Clock is a wall clock that scenarios can move forward.
type Clock struct {
	mu     sync.RWMutex
	base   func() time.Time
	offset time.Duration
}

func NewClock(base func() time.Time) *Clock {
	if base == nil {
		base = time.Now
	}
	return &Clock{base: base}
}

// FixedClock returns a clock standing at t until advanced.
func FixedClock(t time.Time) *Clock {
	return NewClock(func() time.Time { return t })
}

func (c *Clock) Now() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.base().Add(c.offset)
}

func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.offset += d
}

// Faucet credits and approves base asset amounts, the way a wallet does for its owner.
type Faucet interface {
	Mint(account string, amount int64) error
	Approve(owner, spender string, amount int64) error
}

type ClaimIssuer interface {
	Issue(issuer, holder string, faceValue int64, dueDate time.Time, debtorID string) (domain.Claim, error)
	Transfer(from, to string, id uint64) error
}

type StepResult struct {
	Index  int
	Op     string
	Detail string
	Err    error
}

// Expected tells whether the step ended as its scenario said it would.
func (r StepResult) Expected(step domain.ScenarioStep) bool {
	return domain.ErrorKind(r.Err) == step.ExpectError
}

type SimulationInteractor struct {
	faucet   Faucet
	registry ClaimIssuer
	vault    *VaultInteractor
	clock    *Clock
	logger   *zap.Logger
}

func NewSimulationInteractor(faucet Faucet, registry ClaimIssuer, vault *VaultInteractor, clock *Clock, logger *zap.Logger) *SimulationInteractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	interactor := &SimulationInteractor{
		faucet:   faucet,
		registry: registry,
		vault:    vault,
		clock:    clock,
		logger:   logger.Named("simulation"),
	}
	return interactor
}

// Run funds the scenario accounts and executes the steps in order. It stops
// at the first step whose outcome differs from its expect_error and returns
// the results of the steps executed so far.
func (interactor *SimulationInteractor) Run(scenario *domain.Scenario) ([]StepResult, error) {
	if err := interactor.fund(scenario.Accounts); err != nil {
		return nil, err
	}

	results := make([]StepResult, 0, len(scenario.Steps))
	for i, step := range scenario.Steps {
		result := interactor.execute(i, step)
		results = append(results, result)

		if !result.Expected(step) {
			interactor.logger.Warn("unexpected outcome",
				zap.Int("step", i), zap.String("op", step.Op),
				zap.String("expected", step.ExpectError), zap.Error(result.Err))
			return results, fmt.Errorf("%w: step #%d '%v' expected '%v', got '%v'",
				ErrorUnexpectedOutcome, i, step.Op, step.ExpectError, domain.ErrorKind(result.Err))
		}
	}
	return results, nil
}

func (interactor *SimulationInteractor) fund(accounts map[string]string) error {
	names := make([]string, 0, len(accounts))
	for name := range accounts {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		amount, err := domain.ParseUnits(accounts[name])
		if err != nil {
			return fmt.Errorf("account %v: %w", name, err)
		}
		if err := interactor.faucet.Mint(name, amount); err != nil {
			return fmt.Errorf("account %v: %w", name, err)
		}
	}
	return nil
}

func (interactor *SimulationInteractor) execute(index int, step domain.ScenarioStep) StepResult {
	result := StepResult{Index: index, Op: step.Op}

	var amount int64
	if step.Amount != "" {
		amount, result.Err = domain.ParseUnits(step.Amount)
		if result.Err != nil {
			return result
		}
	}

	switch step.Op {
	case domain.StepDeposit:
		tranche, err := domain.ParseTranche(step.Tranche)
		if err != nil {
			result.Err = err
			break
		}
		if result.Err = interactor.approve(step.Account, amount); result.Err != nil {
			break
		}
		var shares int64
		shares, result.Err = interactor.vault.Deposit(step.Account, amount, tranche)
		result.Detail = fmt.Sprintf("%v deposited %v, minted %v of %v",
			step.Account, util.UnitsToUSDCString(amount), util.SharesString(shares), tranche)

	case domain.StepWithdraw:
		tranche, err := domain.ParseTranche(step.Tranche)
		if err != nil {
			result.Err = err
			break
		}
		var assets int64
		assets, result.Err = interactor.vault.Withdraw(step.Account, amount, tranche)
		result.Detail = fmt.Sprintf("%v redeemed %v of %v for %v",
			step.Account, util.SharesString(amount), tranche, util.UnitsToUSDCString(assets))

	case domain.StepDistribute:
		if result.Err = interactor.approve(step.Account, amount); result.Err != nil {
			break
		}
		var senior, junior int64
		senior, junior, result.Err = interactor.vault.DistributeReturns(step.Account, amount)
		result.Detail = fmt.Sprintf("%v distributed: senior %v, junior %v",
			util.UnitsToUSDCString(amount), util.UnitsToUSDCString(senior), util.UnitsToUSDCString(junior))

	case domain.StepIssue:
		var claim domain.Claim
		claim, result.Err = interactor.registry.Issue(step.Account, step.Holder, amount, interactor.clock.Now().Add(step.DueIn), step.Debtor)
		result.Detail = fmt.Sprintf("claim #%v of %v issued to %v, due %v",
			claim.ID, util.UnitsToUSDCString(claim.FaceValue), claim.Holder, claim.DueDate.Format(time.RFC3339))

	case domain.StepFinance:
		var payout int64
		payout, result.Err = interactor.vault.FinanceClaim(step.Account, step.Claim)
		result.Detail = fmt.Sprintf("claim #%v financed with %v", step.Claim, util.UnitsToUSDCString(payout))

	case domain.StepRepay:
		if result.Err = interactor.approve(step.Account, amount); result.Err != nil {
			break
		}
		var repaid int64
		repaid, result.Err = interactor.vault.RepayClaim(step.Account, step.Claim, amount)
		result.Detail = fmt.Sprintf("claim #%v repaid %v so far", step.Claim, util.UnitsToUSDCString(repaid))

	case domain.StepTransferClaim:
		result.Err = interactor.registry.Transfer(step.Account, step.Holder, step.Claim)
		result.Detail = fmt.Sprintf("claim #%v moved from %v to %v", step.Claim, step.Account, step.Holder)

	case domain.StepAdvance:
		interactor.clock.Advance(step.DueIn)
		result.Detail = fmt.Sprintf("clock advanced by %v to %v", step.DueIn, interactor.clock.Now().Format(time.RFC3339))

	default:
		result.Err = fmt.Errorf("%w: '%v'", domain.ErrorUnknownStep, step.Op)
	}

	if result.Err != nil {
		result.Detail = result.Err.Error()
	}
	return result
}

// approve grants the vault the exact amount of the next pull. Non-positive
// amounts are left for the vault to reject.
func (interactor *SimulationInteractor) approve(owner string, amount int64) error {
	if amount <= 0 || owner == "" {
		return nil
	}
	return interactor.faucet.Approve(owner, interactor.vault.Account(), amount)
}
