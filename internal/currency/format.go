// Package currency formats ledger amounts for display with the
// grouping and decimal conventions of the configured locale.
package currency

import (
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Formatter renders amounts in one locale and currency. Zero and
// negative values are valid inputs: a day can end at a loss.
type Formatter struct {
	printer *message.Printer
	symbol  string
}

// NewFormatter builds a formatter for a BCP 47 locale such as "tr-TR"
// or "en-US". The currency is the locale's main unit.
func NewFormatter(locale string) (*Formatter, error) {
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("parse locale %q: %w", locale, err)
	}
	unit, conf := currency.FromTag(tag)
	if conf == language.No {
		return nil, fmt.Errorf("no currency for locale %q", locale)
	}
	p := message.NewPrinter(tag)
	return &Formatter{
		printer: p,
		symbol:  p.Sprint(currency.Symbol(unit)),
	}, nil
}

// Format renders an amount with two fraction digits, locale grouping
// and the currency symbol, e.g. "₺1.234,50" or "-$120.50".
func (f *Formatter) Format(amount decimal.Decimal) string {
	v, _ := amount.Abs().Float64()
	s := f.printer.Sprintf("%s%v", f.symbol,
		number.Decimal(v, number.MinFractionDigits(2), number.MaxFractionDigits(2)))
	if amount.IsNegative() {
		return "-" + s
	}
	return s
}
