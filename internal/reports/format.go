package reports

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/mrcd-books/mrcd-books/internal/ledger"
)

// Amounts render with Indian digit grouping (1,00,000.00), matching the
// books kept by the organisation.
var printer = message.NewPrinter(language.MustParse("en-IN"))

// FormatAmount renders a decimal with two fraction digits and locale
// grouping.
func FormatAmount(d decimal.Decimal) string {
	return printer.Sprintf("%.2f", d.Round(2).InexactFloat64())
}

// FormatBalance renders a balance as "<amount> Dr"/"<amount> Cr", bare
// when zero.
func FormatBalance(b ledger.Balance) string {
	amount := FormatAmount(b.Amount)
	if b.IsZero() {
		return amount
	}
	if b.Type == ledger.BalanceTypeCredit {
		return amount + " Cr"
	}
	return amount + " Dr"
}
