// Package currency formats monetary amounts for a locale. It exists so
// rendering code can take an injected formatter instead of reaching for
// a process-wide locale.
package currency

import (
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Formatter renders amounts in one currency for one locale.
type Formatter struct {
	printer *message.Printer
	unit    currency.Unit
}

// New builds a Formatter from a BCP 47 locale tag and an ISO 4217
// currency code. Unparseable values fall back to en-US dollars so the
// formatter is always usable.
func New(locale, code string) *Formatter {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.AmericanEnglish
	}
	unit, err := currency.ParseISO(code)
	if err != nil {
		unit = currency.USD
	}
	return &Formatter{
		printer: message.NewPrinter(tag),
		unit:    unit,
	}
}

// Format renders the amount with the currency symbol and the currency's
// conventional number of fraction digits.
func (f *Formatter) Format(amount float64) string {
	return f.printer.Sprint(currency.Symbol(f.unit.Amount(amount)))
}
