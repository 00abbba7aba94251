package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerRow is one transaction line in a ledger report, with the running
// balance after applying it.
type LedgerRow struct {
	Date      time.Time
	VoucherNo string
	Narration string
	Debit     decimal.Decimal
	Credit    decimal.Decimal
	Balance   Balance
}

// LedgerReport is the account-wise transaction listing for a date range.
// TotalDebit and TotalCredit sum the emitted rows only, excluding the
// opening balance.
type LedgerReport struct {
	AccountCode    string
	AccountName    string
	FromDate       time.Time
	ToDate         time.Time
	OpeningBalance Balance
	Transactions   []LedgerRow
	ClosingBalance Balance
	TotalDebit     decimal.Decimal
	TotalCredit    decimal.Decimal
	Warnings       []Warning
}

// BuildLedger produces the chronologically ordered ledger for one account
// over [from, to]. A zero from is unbounded; a zero to means today. The
// opening balance is the account's opening balance plus the effect of all
// entries dated strictly before from. An empty transaction set is valid and
// leaves closing equal to opening.
func BuildLedger(s Snapshot, accountCode string, from, to time.Time) (LedgerReport, error) {
	account, ok := s.AccountByCode(accountCode)
	if !ok {
		return LedgerReport{}, ErrAccountNotFound
	}
	if to.IsZero() {
		to = truncateDay(time.Now())
	}
	if !from.IsZero() && from.After(to) {
		return LedgerReport{}, ErrInvalidDateRange
	}

	report := LedgerReport{
		AccountCode: account.Code,
		AccountName: account.Name,
		FromDate:    from,
		ToDate:      to,
	}

	running := openingSigned(account)
	if !from.IsZero() {
		for _, e := range s.entriesFor(accountCode, time.Time{}, from.AddDate(0, 0, -1), nil) {
			running = running.Add(e.Debit).Sub(e.Credit)
		}
	}
	report.OpeningBalance = displayBalance(running)

	for _, e := range s.entriesFor(accountCode, from, to, &report.Warnings) {
		running = running.Add(e.Debit).Sub(e.Credit)
		report.Transactions = append(report.Transactions, LedgerRow{
			Date:      e.Date,
			VoucherNo: e.VoucherNo,
			Narration: e.Narration,
			Debit:     e.Debit,
			Credit:    e.Credit,
			Balance:   displayBalance(running),
		})
		report.TotalDebit = report.TotalDebit.Add(e.Debit)
		report.TotalCredit = report.TotalCredit.Add(e.Credit)
	}
	report.ClosingBalance = displayBalance(running)
	return report, nil
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
