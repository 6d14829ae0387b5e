package util

import (
	"fmt"
	"vault/domain"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

func UnitsToUSDCString(units int64) string {
	f, _ := domain.UnitsToDecimal(units).Float64()
	return fmt.Sprintf("%v USDC", humanize.CommafWithDigits(f, 2))
}

func SharesString(units int64) string {
	f, _ := domain.UnitsToDecimal(units).Float64()
	return fmt.Sprintf("%v shares", humanize.CommafWithDigits(f, 2))
}

func UnitsString(units int64) string {
	return fmt.Sprintf("%v units", humanize.Comma(units))
}

func BasisPointsString(bps int64) string {
	return fmt.Sprintf("%v%%", decimal.New(bps, -2).StringFixed(2))
}
