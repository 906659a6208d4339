package helpers

import (
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

var minorUnitThreshold = decimal.NewFromInt(1)

// FormatMoney renders amount in the ISO currency using the currency's
// grapheme and separators, e.g. "$1,234.50". Sub-unit prices keep their
// significant digits since rounding to cents would show most altcoins as zero.
func FormatMoney(amount decimal.Decimal, iso, symbol string) string {
	if amount.Abs().LessThan(minorUnitThreshold) && !amount.IsZero() {
		return symbol + amount.Round(8).String()
	}
	cents := amount.Shift(2).Round(0).IntPart()
	return money.New(cents, strings.ToUpper(iso)).Display()
}
