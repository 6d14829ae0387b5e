package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMulDiv(t *testing.T) {
	tests := []struct {
		name    string
		a, b, c int64
		want    int64
	}{
		{"fee of 1000 USDC", 1000_000000, 200, BasisPoints, 20_000000},
		{"truncates", 150, 980, 1470, 100},
		{"zero numerator", 0, 980, 1470, 0},
		{"no intermediate overflow", math.MaxInt64, 3, 4, 6917529027641081855},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MulDiv(tt.a, tt.b, tt.c))
		})
	}
}

func TestMulDiv_PanicsOnZeroDivisor(t *testing.T) {
	assert.Panics(t, func() { MulDiv(1, 1, 0) })
}

func TestParseUnits(t *testing.T) {
	tests := []struct {
		input string
		want  int64
		err   error
	}{
		{"1000", 1000_000000, nil},
		{"1,000.5", 1000_500000, nil},
		{" 0.000001 ", 1, nil},
		{"-5", -5_000000, nil},
		{"1.0000000", 1_000000, nil},
		{"1.0000001", 0, ErrorAmountPrecision},
		{"abc", 0, ErrorMalformedAmount},
		{"", 0, ErrorMalformedAmount},
		{"99999999999999999999", 0, ErrorAmountOverflow},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseUnits(tt.input)
			if tt.err != nil {
				require.ErrorIs(t, err, tt.err)
				assert.ErrorIs(t, err, ErrorInvalidAmount)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatUnits(t *testing.T) {
	assert.Equal(t, "980.000000", FormatUnits(980_000000))
	assert.Equal(t, "0.000001", FormatUnits(1))
	assert.Equal(t, "1000.500000", UnitsToDecimal(1000_500000).StringFixed(UnitDecimals))
}
