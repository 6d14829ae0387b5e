package domain

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	// UnitDecimals is the number of implied decimals of the unit of account and of tranche shares.
	UnitDecimals = 6

	// BasisPoints is the denominator of fee rates.
	BasisPoints = 10000
)

var (
	ErrorMalformedAmount = fmt.Errorf("%w: malformed amount", ErrorInvalidAmount)
	ErrorAmountPrecision = fmt.Errorf("%w: more than %d decimals", ErrorInvalidAmount, UnitDecimals)
	ErrorAmountOverflow  = fmt.Errorf("%w: amount overflows", ErrorInvalidAmount)
)

// MulDiv returns floor(a * b / c) for non-negative operands. The product is
// computed on big integers, so it never overflows before the division.
func MulDiv(a, b, c int64) int64 {
	if c == 0 {
		panic("domain: MulDiv by zero")
	}
	r := new(big.Int).Mul(big.NewInt(a), big.NewInt(b))
	r.Quo(r, big.NewInt(c))
	return r.Int64()
}

// ParseUnits converts a human amount like "1000.5" into base units.
func ParseUnits(s string) (int64, error) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, ErrorMalformedAmount
	}
	if d.Exponent() < -UnitDecimals && !d.Equal(d.Truncate(UnitDecimals)) {
		return 0, ErrorAmountPrecision
	}
	units := d.Shift(UnitDecimals)
	if units.GreaterThan(decimal.NewFromInt(1<<63-1)) || units.LessThan(decimal.NewFromInt(-1<<63)) {
		return 0, ErrorAmountOverflow
	}
	return units.IntPart(), nil
}

// FormatUnits renders base units with all UnitDecimals places, e.g. "980.000000".
func FormatUnits(units int64) string {
	return decimal.New(units, -UnitDecimals).StringFixed(UnitDecimals)
}

// UnitsToDecimal returns base units as a decimal amount of the unit of account.
func UnitsToDecimal(units int64) decimal.Decimal {
	return decimal.New(units, -UnitDecimals)
}
