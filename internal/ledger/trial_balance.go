package ledger

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// TrialBalanceRow is one account's position in the trial balance. Exactly
// one of Debit/Credit is non-zero unless the account's running total is
// zero, in which case both columns are zero and the row is kept for
// completeness.
type TrialBalanceRow struct {
	AccountCode string
	AccountName string
	AccountType AccountType
	Debit       decimal.Decimal
	Credit      decimal.Decimal
}

// TrialBalance lists every account's balance as of a date. IsBalanced must
// hold whenever the underlying vouchers satisfy the per-voucher identity; a
// false value indicates data corruption and is surfaced, never corrected.
type TrialBalance struct {
	AsOn        time.Time
	Accounts    []TrialBalanceRow
	TotalDebit  decimal.Decimal
	TotalCredit decimal.Decimal
	IsBalanced  bool
	Warnings    []Warning
}

// BuildTrialBalance computes each account's running total as of asOn and
// partitions it into the debit or credit column by sign. A zero asOn means
// today.
func BuildTrialBalance(s Snapshot, asOn time.Time) TrialBalance {
	if asOn.IsZero() {
		asOn = truncateDay(time.Now())
	}
	tb := TrialBalance{AsOn: asOn, Warnings: s.Integrity()}

	accounts := append([]Account(nil), s.Accounts...)
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].Code < accounts[j].Code })

	for _, a := range accounts {
		running := s.runningTotal(a, asOn)
		row := TrialBalanceRow{
			AccountCode: a.Code,
			AccountName: a.Name,
			AccountType: a.Type,
		}
		switch {
		case running.IsPositive():
			row.Debit = running
		case running.IsNegative():
			row.Credit = running.Neg()
		}
		tb.Accounts = append(tb.Accounts, row)
		tb.TotalDebit = tb.TotalDebit.Add(row.Debit)
		tb.TotalCredit = tb.TotalCredit.Add(row.Credit)
	}
	tb.IsBalanced = tb.TotalDebit.Sub(tb.TotalCredit).Abs().LessThan(Tolerance)
	return tb
}
