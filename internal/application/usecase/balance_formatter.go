package usecase

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"summerschool.lol/lolcoin/internal/domain/entity"
)

const (
	DefaultCurrency = "ЛОЛ"
	DefaultLocale   = "en"
)

// BalanceFormatter renders minor units as a localized major-unit string with
// the currency suffix, e.g. 1050 -> "10.5 ЛОЛ".
type BalanceFormatter struct {
	printer   *message.Printer
	separator string
	currency  string
}

// NewBalanceFormatter creates a formatter for a BCP 47 locale. Empty
// arguments fall back to DefaultLocale and DefaultCurrency.
func NewBalanceFormatter(locale, currency string) (BalanceFormatter, error) {
	if locale == "" {
		locale = DefaultLocale
	}
	if currency == "" {
		currency = DefaultCurrency
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return BalanceFormatter{}, fmt.Errorf("invalid display locale %q: %w", locale, err)
	}
	printer := message.NewPrinter(tag)
	return BalanceFormatter{
		printer:   printer,
		separator: decimalSeparator(printer),
		currency:  currency,
	}, nil
}

// Format renders a balance. Trailing zeros of the fraction are dropped.
// Digits come straight from the integer so large balances stay exact.
func (f BalanceFormatter) Format(m entity.MinorUnits) string {
	printer, separator := f.printer, f.separator
	if printer == nil {
		printer = message.NewPrinter(language.English)
	}
	if separator == "" {
		separator = decimalSeparator(printer)
	}

	sign := ""
	abs := uint64(m)
	if m < 0 {
		sign = "-"
		abs = -abs
	}
	whole, frac := abs/entity.MinorUnitsPerMajor, abs%entity.MinorUnitsPerMajor

	out := sign + printer.Sprint(number.Decimal(whole))
	if frac != 0 {
		out += separator + strings.TrimRight(fmt.Sprintf("%02d", frac), "0")
	}
	return out + " " + f.currency
}

// decimalSeparator extracts the locale's decimal mark from a formatted 0.5.
func decimalSeparator(printer *message.Printer) string {
	sample := printer.Sprint(number.Decimal(0.5))
	sep := strings.TrimSuffix(strings.TrimPrefix(sample, "0"), "5")
	if sep == "" {
		return "."
	}
	return sep
}
