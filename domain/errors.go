package domain

import (
	"errors"
	"fmt"
)

var (
	ErrorInvalidAmount         = fmt.Errorf("invalid amount")
	ErrorInsufficientBalance   = fmt.Errorf("insufficient balance")
	ErrorInsufficientLiquidity = fmt.Errorf("insufficient liquidity")
	ErrorTransferFailed        = fmt.Errorf("transfer failed")
	ErrorNoShares              = fmt.Errorf("no shares to distribute against")
	ErrorUnauthorized          = fmt.Errorf("unauthorized")
	ErrorInvalidAccount        = fmt.Errorf("invalid account")

	ErrorNotFound          = fmt.Errorf("claim not found")
	ErrorAlreadyFinanced   = fmt.Errorf("claim already financed")
	ErrorNotFinanced       = fmt.Errorf("claim not financed")
	ErrorAlreadySettled    = fmt.Errorf("claim already settled")
	ErrorOverRepayment     = fmt.Errorf("repayment exceeds outstanding amount")
	ErrorTransfersDisabled = fmt.Errorf("claim transfers are disabled")
	ErrorInvalidDueDate    = fmt.Errorf("due date must be in future")
)

var (
	ErrorUnbackedShares   = fmt.Errorf("share ledgers must be empty when the vault starts")
	ErrorInvalidStatus    = fmt.Errorf("unknown claim status")
	ErrorInvalidEventKind = fmt.Errorf("unknown event kind")
)

// Tranche specific balance errors, both are ErrorInsufficientBalance.
var (
	ErrorInsufficientSeniorShares = fmt.Errorf("%w: insufficient senior shares", ErrorInsufficientBalance)
	ErrorInsufficientJuniorShares = fmt.Errorf("%w: insufficient junior shares", ErrorInsufficientBalance)
)

var errorKinds = []struct {
	err  error
	kind string
}{
	{ErrorInvalidAmount, "invalid_amount"},
	{ErrorInsufficientBalance, "insufficient_balance"},
	{ErrorInsufficientLiquidity, "insufficient_liquidity"},
	{ErrorTransferFailed, "transfer_failed"},
	{ErrorNoShares, "no_shares"},
	{ErrorUnauthorized, "unauthorized"},
	{ErrorInvalidAccount, "invalid_account"},
	{ErrorNotFound, "not_found"},
	{ErrorAlreadyFinanced, "already_financed"},
	{ErrorNotFinanced, "not_financed"},
	{ErrorAlreadySettled, "already_settled"},
	{ErrorOverRepayment, "over_repayment"},
	{ErrorTransfersDisabled, "transfers_disabled"},
	{ErrorInvalidDueDate, "invalid_due_date"},
}

// ErrorKind returns the stable code of the error kind wrapped by err,
// "unknown" when err wraps none of them and "" for a nil error.
func ErrorKind(err error) string {
	if err == nil {
		return ""
	}
	for _, k := range errorKinds {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}
	return "unknown"
}

// InsufficientSharesError returns the balance error naming the tranche.
func InsufficientSharesError(tranche Tranche) error {
	if tranche == Senior {
		return ErrorInsufficientSeniorShares
	}
	return ErrorInsufficientJuniorShares
}
