package domain

import (
	"fmt"
	"testing"

	pkgerrors "github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestErrorKind(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"plain", ErrorOverRepayment, "over_repayment"},
		{"wrapped with %w", fmt.Errorf("claim #3: %w", ErrorNotFound), "not_found"},
		{"wrapped with pkg/errors", pkgerrors.Wrap(ErrorTransferFailed, "pull deposit"), "transfer_failed"},
		{"senior shares", ErrorInsufficientSeniorShares, "insufficient_balance"},
		{"malformed amount", ErrorMalformedAmount, "invalid_amount"},
		{"foreign", fmt.Errorf("boom"), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ErrorKind(tt.err))
		})
	}
}

func TestInsufficientSharesError(t *testing.T) {
	senior := InsufficientSharesError(Senior)
	junior := InsufficientSharesError(Junior)

	assert.ErrorIs(t, senior, ErrorInsufficientBalance)
	assert.ErrorIs(t, junior, ErrorInsufficientBalance)
	assert.Contains(t, senior.Error(), "senior")
	assert.Contains(t, junior.Error(), "junior")
}
