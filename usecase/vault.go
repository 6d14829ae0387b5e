package usecase

import (
	"errors"
	"fmt"
	"sync"
	"time"
	"vault/domain"
	"vault/interface/exporter"

	"go.uber.org/zap"
)

const (
	OpDeposit    = "deposit"
	OpWithdraw   = "withdraw"
	OpDistribute = "distribute"
	OpFinance    = "finance"
	OpRepay      = "repay"
)

// ShareLedger is the fungible share token of a tranche. The vault is its only minter.
type ShareLedger interface {
	Mint(holder string, amount int64) error
	Burn(holder string, amount int64) error
	BalanceOf(holder string) int64
	TotalSupply() int64
}

type ClaimRegistry interface {
	Get(id uint64) (domain.Claim, error)
	MarkFinanced(id uint64, at time.Time) (domain.Claim, error)
	RecordRepayment(id uint64, amount int64, at time.Time) (domain.Claim, error)
}

// AssetCustodian moves the base asset between accounts.
type AssetCustodian interface {
	BalanceOf(account string) int64
	Transfer(from, to string, amount int64) error
	TransferFrom(spender, from, to string, amount int64) error
}

type EventSink interface {
	Emit(event domain.Event)
}

type VaultSettings struct {
	// Account is the custody account of the vault at the custodian.
	Account      string
	FeeRate      int64
	Distributors []string
	Now          func() time.Time
}

// VaultInteractor is the tranche accounting engine. Mutating operations are
// serialized and all-or-nothing: every precondition is checked before the
// external transfer, and local state changes only after it succeeded.
type VaultInteractor struct {
	mu sync.RWMutex

	account      string
	feeRate      int64
	distributors map[string]bool
	now          func() time.Time

	senior    ShareLedger
	junior    ShareLedger
	claims    ClaimRegistry
	custodian AssetCustodian
	sink      EventSink
	logger    *zap.Logger

	totalSeniorShares     int64
	totalJuniorShares     int64
	assetsUnderManagement int64
	feesCollected         int64
	seniorDistributed     int64
	juniorDistributed     int64
	deployedCapital       int64
}

func NewVaultInteractor(settings VaultSettings,
	senior ShareLedger,
	junior ShareLedger,
	claims ClaimRegistry,
	custodian AssetCustodian,
	sink EventSink,
	logger *zap.Logger) (*VaultInteractor, error) {

	if settings.Account == "" {
		return nil, domain.ErrorInvalidVaultAccount
	}
	if settings.FeeRate < 0 || settings.FeeRate > domain.BasisPoints {
		return nil, domain.ErrorInvalidFeeRate
	}
	if senior.TotalSupply() != 0 || junior.TotalSupply() != 0 {
		return nil, domain.ErrorUnbackedShares
	}
	if settings.Now == nil {
		settings.Now = time.Now
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	distributors := make(map[string]bool, len(settings.Distributors))
	for _, d := range settings.Distributors {
		distributors[d] = true
	}

	interactor := &VaultInteractor{
		account:      settings.Account,
		feeRate:      settings.FeeRate,
		distributors: distributors,
		now:          settings.Now,
		senior:       senior,
		junior:       junior,
		claims:       claims,
		custodian:    custodian,
		sink:         sink,
		logger:       logger.Named("vault"),
	}
	return interactor, nil
}

//-------------------------------------------------------------------
// Fee & deposit accounting

// CalculateFee returns floor(amount * feeRate / 10000).
func (interactor *VaultInteractor) CalculateFee(amount int64) int64 {
	if amount <= 0 {
		return 0
	}
	return domain.MulDiv(amount, interactor.feeRate, domain.BasisPoints)
}

func (interactor *VaultInteractor) PreviewDeposit(amount int64) (netShares int64, fee int64) {
	fee = interactor.CalculateFee(amount)
	return amount - fee, fee
}

// Deposit pulls amount from the depositor and mints the net shares of the tranche.
func (interactor *VaultInteractor) Deposit(depositor string, amount int64, tranche domain.Tranche) (int64, error) {
	fields := []zap.Field{zap.String("depositor", depositor), zap.Int64("amount", amount), zap.Stringer("tranche", tranche)}

	if amount <= 0 {
		return 0, interactor.reject(OpDeposit, domain.ErrorInvalidAmount, fields...)
	}
	if err := interactor.checkCounterparty(depositor); err != nil {
		return 0, interactor.reject(OpDeposit, err, fields...)
	}

	netShares, fee := interactor.PreviewDeposit(amount)
	if netShares <= 0 {
		err := fmt.Errorf("%w: deposit of %v mints no shares", domain.ErrorInvalidAmount, amount)
		return 0, interactor.reject(OpDeposit, err, fields...)
	}

	interactor.mu.Lock()
	defer interactor.mu.Unlock()

	if interactor.assetsUnderManagement > maxUnits-netShares {
		return 0, interactor.reject(OpDeposit, domain.ErrorAmountOverflow, fields...)
	}

	err := interactor.custodian.TransferFrom(interactor.account, depositor, interactor.account, amount)
	if err != nil {
		return 0, interactor.reject(OpDeposit, transferFailed(err), fields...)
	}

	err = interactor.ledger(tranche).Mint(depositor, netShares)
	if err != nil {
		interactor.refund(OpDeposit, depositor, amount)
		return 0, interactor.reject(OpDeposit, err, fields...)
	}

	interactor.addShares(tranche, netShares)
	interactor.assetsUnderManagement += netShares
	interactor.feesCollected += fee

	interactor.commit(OpDeposit, domain.DepositedEvent{
		Depositor:   depositor,
		Tranche:     tranche,
		GrossAmount: amount,
		Fee:         fee,
		NetShares:   netShares,
	}, append(fields, zap.Int64("fee", fee), zap.Int64("net_shares", netShares))...)

	return netShares, nil
}

// Withdraw burns shares of the tranche and returns the same amount of the base asset.
func (interactor *VaultInteractor) Withdraw(withdrawer string, shares int64, tranche domain.Tranche) (int64, error) {
	fields := []zap.Field{zap.String("withdrawer", withdrawer), zap.Int64("shares", shares), zap.Stringer("tranche", tranche)}

	if shares <= 0 {
		return 0, interactor.reject(OpWithdraw, domain.ErrorInvalidAmount, fields...)
	}
	if err := interactor.checkCounterparty(withdrawer); err != nil {
		return 0, interactor.reject(OpWithdraw, err, fields...)
	}

	interactor.mu.Lock()
	defer interactor.mu.Unlock()

	ledger := interactor.ledger(tranche)
	if ledger.BalanceOf(withdrawer) < shares {
		return 0, interactor.reject(OpWithdraw, domain.InsufficientSharesError(tranche), fields...)
	}
	if err := interactor.checkLiquidity(shares); err != nil {
		return 0, interactor.reject(OpWithdraw, err, fields...)
	}

	// a failed payout is undone by minting the shares back
	if err := ledger.Burn(withdrawer, shares); err != nil {
		return 0, interactor.reject(OpWithdraw, err, fields...)
	}
	if err := interactor.custodian.Transfer(interactor.account, withdrawer, shares); err != nil {
		if mintErr := ledger.Mint(withdrawer, shares); mintErr != nil {
			interactor.logger.Error("restoring burnt shares failed", append(fields, zap.Error(mintErr))...)
		}
		return 0, interactor.reject(OpWithdraw, transferFailed(err), fields...)
	}

	interactor.addShares(tranche, -shares)
	interactor.assetsUnderManagement -= shares

	interactor.commit(OpWithdraw, domain.WithdrawnEvent{
		Withdrawer:     withdrawer,
		Tranche:        tranche,
		Shares:         shares,
		AssetsReturned: shares,
	}, fields...)

	return shares, nil
}

//-------------------------------------------------------------------
// Waterfall distribution

// DistributeReturns splits totalAmount between the tranches in proportion to
// their share totals. Truncation favors junior, which receives the remainder.
func (interactor *VaultInteractor) DistributeReturns(distributor string, totalAmount int64) (seniorPortion int64, juniorPortion int64, err error) {
	fields := []zap.Field{zap.String("distributor", distributor), zap.Int64("amount", totalAmount)}

	if totalAmount <= 0 {
		return 0, 0, interactor.reject(OpDistribute, domain.ErrorInvalidAmount, fields...)
	}
	if err := interactor.checkCounterparty(distributor); err != nil {
		return 0, 0, interactor.reject(OpDistribute, err, fields...)
	}
	if !interactor.distributors[distributor] {
		err = fmt.Errorf("%w: %v may not distribute returns", domain.ErrorUnauthorized, distributor)
		return 0, 0, interactor.reject(OpDistribute, err, fields...)
	}

	interactor.mu.Lock()
	defer interactor.mu.Unlock()

	seniorPortion, juniorPortion, err = Waterfall(totalAmount, interactor.totalSeniorShares, interactor.totalJuniorShares)
	if err != nil {
		return 0, 0, interactor.reject(OpDistribute, err, fields...)
	}
	if interactor.assetsUnderManagement > maxUnits-totalAmount {
		return 0, 0, interactor.reject(OpDistribute, domain.ErrorAmountOverflow, fields...)
	}

	err = interactor.custodian.TransferFrom(interactor.account, distributor, interactor.account, totalAmount)
	if err != nil {
		return 0, 0, interactor.reject(OpDistribute, transferFailed(err), fields...)
	}

	interactor.assetsUnderManagement += totalAmount
	interactor.seniorDistributed += seniorPortion
	interactor.juniorDistributed += juniorPortion

	interactor.commit(OpDistribute, domain.ReturnsDistributedEvent{
		TotalAmount:   totalAmount,
		SeniorPortion: seniorPortion,
		JuniorPortion: juniorPortion,
	}, append(fields, zap.Int64("senior_portion", seniorPortion), zap.Int64("junior_portion", juniorPortion))...)

	return seniorPortion, juniorPortion, nil
}

// Waterfall returns the portions of totalAmount owed to each tranche.
// The two portions always sum to totalAmount.
func Waterfall(totalAmount, seniorShares, juniorShares int64) (int64, int64, error) {
	total := seniorShares + juniorShares
	if total <= 0 {
		return 0, 0, domain.ErrorNoShares
	}
	senior := domain.MulDiv(totalAmount, seniorShares, total)
	return senior, totalAmount - senior, nil
}

//-------------------------------------------------------------------
// Claim financing & repayment

// FinanceClaim pays the face value of a claim to its holder.
func (interactor *VaultInteractor) FinanceClaim(operator string, claimID uint64) (int64, error) {
	fields := []zap.Field{zap.String("operator", operator), zap.Uint64("claim", claimID)}

	if !interactor.distributors[operator] {
		err := fmt.Errorf("%w: %v may not finance claims", domain.ErrorUnauthorized, operator)
		return 0, interactor.reject(OpFinance, err, fields...)
	}

	interactor.mu.Lock()
	defer interactor.mu.Unlock()

	claim, err := interactor.claims.Get(claimID)
	if err != nil {
		return 0, interactor.reject(OpFinance, err, fields...)
	}
	if err := claim.CheckFinanceable(); err != nil {
		return 0, interactor.reject(OpFinance, err, fields...)
	}
	fields = append(fields, zap.String("holder", claim.Holder), zap.Int64("face_value", claim.FaceValue))
	if err := interactor.checkCounterparty(claim.Holder); err != nil {
		return 0, interactor.reject(OpFinance, err, fields...)
	}
	if err := interactor.checkLiquidity(claim.FaceValue); err != nil {
		return 0, interactor.reject(OpFinance, err, fields...)
	}

	err = interactor.custodian.Transfer(interactor.account, claim.Holder, claim.FaceValue)
	if err != nil {
		return 0, interactor.reject(OpFinance, transferFailed(err), fields...)
	}

	// only reachable when another writer shares the registry
	if _, err := interactor.claims.MarkFinanced(claimID, interactor.now()); err != nil {
		interactor.logger.Error("claim paid out but registry rejected financing", append(fields, zap.Error(err))...)
		return 0, interactor.reject(OpFinance, err, fields...)
	}

	interactor.assetsUnderManagement -= claim.FaceValue
	interactor.deployedCapital += claim.FaceValue

	interactor.commit(OpFinance, domain.ClaimFinancedEvent{
		ClaimID: claimID,
		Holder:  claim.Holder,
		Payout:  claim.FaceValue,
	}, fields...)

	return claim.FaceValue, nil
}

// RepayClaim pulls amount from the payer toward a financed claim and returns
// the new amount repaid.
func (interactor *VaultInteractor) RepayClaim(payer string, claimID uint64, amount int64) (int64, error) {
	fields := []zap.Field{zap.String("payer", payer), zap.Uint64("claim", claimID), zap.Int64("amount", amount)}

	if amount <= 0 {
		return 0, interactor.reject(OpRepay, domain.ErrorInvalidAmount, fields...)
	}
	if err := interactor.checkCounterparty(payer); err != nil {
		return 0, interactor.reject(OpRepay, err, fields...)
	}

	interactor.mu.Lock()
	defer interactor.mu.Unlock()

	claim, err := interactor.claims.Get(claimID)
	if err != nil {
		return 0, interactor.reject(OpRepay, err, fields...)
	}
	if err := claim.CheckRepayment(amount); err != nil {
		return 0, interactor.reject(OpRepay, err, fields...)
	}

	err = interactor.custodian.TransferFrom(interactor.account, payer, interactor.account, amount)
	if err != nil {
		return 0, interactor.reject(OpRepay, transferFailed(err), fields...)
	}

	updated, err := interactor.claims.RecordRepayment(claimID, amount, interactor.now())
	if err != nil {
		interactor.refund(OpRepay, payer, amount)
		return 0, interactor.reject(OpRepay, err, fields...)
	}

	interactor.assetsUnderManagement += amount
	interactor.deployedCapital -= amount

	interactor.commit(OpRepay, domain.ClaimRepaidEvent{
		ClaimID:      claimID,
		Payer:        payer,
		Amount:       amount,
		AmountRepaid: updated.AmountRepaid,
		Settled:      updated.IsSettled(),
	}, append(fields, zap.Int64("amount_repaid", updated.AmountRepaid), zap.Bool("settled", updated.IsSettled()))...)

	return updated.AmountRepaid, nil
}

//-------------------------------------------------------------------
// Read queries

func (interactor *VaultInteractor) Account() string {
	return interactor.account
}

func (interactor *VaultInteractor) FeeRate() int64 {
	return interactor.feeRate
}

func (interactor *VaultInteractor) IsDistributor(account string) bool {
	return interactor.distributors[account]
}

// TotalValueLocked is the base asset held by the vault, retained fees included.
func (interactor *VaultInteractor) TotalValueLocked() int64 {
	interactor.mu.RLock()
	defer interactor.mu.RUnlock()
	return interactor.custodian.BalanceOf(interactor.account)
}

func (interactor *VaultInteractor) AssetsUnderManagement() int64 {
	interactor.mu.RLock()
	defer interactor.mu.RUnlock()
	return interactor.assetsUnderManagement
}

// TrancheInfo returns the running share total of the tranche and the supply of its ledger.
func (interactor *VaultInteractor) TrancheInfo(tranche domain.Tranche) (totalShares int64, totalSupply int64) {
	interactor.mu.RLock()
	defer interactor.mu.RUnlock()

	totalShares = interactor.totalSeniorShares
	if tranche == domain.Junior {
		totalShares = interactor.totalJuniorShares
	}
	return totalShares, interactor.ledger(tranche).TotalSupply()
}

func (interactor *VaultInteractor) BalanceOf(holder string, tranche domain.Tranche) int64 {
	interactor.mu.RLock()
	defer interactor.mu.RUnlock()
	return interactor.ledger(tranche).BalanceOf(holder)
}

// ClaimableValue returns balance * AUM / supply of the tranche.
func (interactor *VaultInteractor) ClaimableValue(holder string, tranche domain.Tranche) int64 {
	interactor.mu.RLock()
	defer interactor.mu.RUnlock()

	ledger := interactor.ledger(tranche)
	supply := ledger.TotalSupply()
	if supply == 0 || interactor.assetsUnderManagement <= 0 {
		return 0
	}
	return domain.MulDiv(ledger.BalanceOf(holder), interactor.assetsUnderManagement, supply)
}

func (interactor *VaultInteractor) Snapshot() domain.VaultSnapshot {
	interactor.mu.RLock()
	defer interactor.mu.RUnlock()

	return domain.VaultSnapshot{
		TotalSeniorShares:     interactor.totalSeniorShares,
		TotalJuniorShares:     interactor.totalJuniorShares,
		SeniorSupply:          interactor.senior.TotalSupply(),
		JuniorSupply:          interactor.junior.TotalSupply(),
		AssetsUnderManagement: interactor.assetsUnderManagement,
		TotalValueLocked:      interactor.custodian.BalanceOf(interactor.account),
		FeeRate:               interactor.feeRate,
		FeesCollected:         interactor.feesCollected,
		SeniorDistributed:     interactor.seniorDistributed,
		JuniorDistributed:     interactor.juniorDistributed,
		DeployedCapital:       interactor.deployedCapital,
		Time:                  interactor.now(),
	}
}

//-------------------------------------------------------------------

const maxUnits = int64(1<<63 - 1)

func (interactor *VaultInteractor) ledger(tranche domain.Tranche) ShareLedger {
	if tranche == domain.Senior {
		return interactor.senior
	}
	return interactor.junior
}

func (interactor *VaultInteractor) addShares(tranche domain.Tranche, delta int64) {
	if tranche == domain.Senior {
		interactor.totalSeniorShares += delta
	} else {
		interactor.totalJuniorShares += delta
	}
}

// checkCounterparty rejects an empty account and the custody account itself.
func (interactor *VaultInteractor) checkCounterparty(account string) error {
	if account == "" {
		return domain.ErrorInvalidAccount
	}
	if account == interactor.account {
		return fmt.Errorf("%w: %v is the vault custody account", domain.ErrorInvalidAccount, account)
	}
	return nil
}

// checkLiquidity requires both the custody balance and the AUM to cover amount.
func (interactor *VaultInteractor) checkLiquidity(amount int64) error {
	available := interactor.custodian.BalanceOf(interactor.account)
	if available < amount {
		return fmt.Errorf("%w: vault holds %v, needs %v", domain.ErrorInsufficientLiquidity, available, amount)
	}
	if interactor.assetsUnderManagement < amount {
		return fmt.Errorf("%w: assets under management %v, needs %v", domain.ErrorInsufficientLiquidity, interactor.assetsUnderManagement, amount)
	}
	return nil
}

// refund returns funds pulled by an operation that could not complete.
func (interactor *VaultInteractor) refund(op string, account string, amount int64) {
	if err := interactor.custodian.Transfer(interactor.account, account, amount); err != nil {
		interactor.logger.Error("refund failed",
			zap.String("operation", op), zap.String("account", account), zap.Int64("amount", amount), zap.Error(err))
	}
}

func (interactor *VaultInteractor) reject(op string, err error, fields ...zap.Field) error {
	exporter.IncErrorCount(op, domain.ErrorKind(err))
	interactor.logger.Warn(op+" rejected", append(fields, zap.Error(err))...)
	return err
}

func (interactor *VaultInteractor) commit(op string, event domain.Event, fields ...zap.Field) {
	exporter.IncOperationCount(op)
	interactor.logger.Info(op+" committed", fields...)
	if interactor.sink != nil {
		interactor.sink.Emit(event)
	}
}

func transferFailed(err error) error {
	if errors.Is(err, domain.ErrorTransferFailed) {
		return err
	}
	return fmt.Errorf("%w: %w", domain.ErrorTransferFailed, err)
}
