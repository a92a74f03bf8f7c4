// Package money renders currency amounts for notices and documents.
package money

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	// DefaultLocale matches the rupee-denominated deployments of the console.
	DefaultLocale = "en-IN"
	// DefaultSymbol prefixes every formatted amount.
	DefaultSymbol = "₹"
)

// Formatter prints amounts with two decimals using locale aware grouping.
type Formatter struct {
	printer *message.Printer
	symbol  string
}

// NewFormatter builds a Formatter. Unknown locales fall back to English.
func NewFormatter(locale, symbol string) *Formatter {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.English
	}
	if symbol == "" {
		symbol = DefaultSymbol
	}
	return &Formatter{printer: message.NewPrinter(tag), symbol: symbol}
}

// Format renders amount as e.g. "₹350.00".
func (f *Formatter) Format(amount decimal.Decimal) string {
	if f == nil {
		f = NewFormatter(DefaultLocale, DefaultSymbol)
	}
	return f.symbol + f.printer.Sprintf("%.2f", amount.Round(2).InexactFloat64())
}

// FormatNull renders a nullable amount, printing zero when it is absent.
func (f *Formatter) FormatNull(amount decimal.NullDecimal) string {
	if !amount.Valid {
		return f.Format(decimal.Zero)
	}
	return f.Format(amount.Decimal)
}

// Percent renders a percentage with one decimal, e.g. "10.0%".
func (f *Formatter) Percent(v decimal.Decimal) string {
	return v.StringFixed(1) + "%"
}
