package ledger

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// IncomeExpenditureLine is one account's net period activity.
type IncomeExpenditureLine struct {
	AccountCode string
	AccountName string
	Amount      decimal.Decimal
}

// IncomeExpenditure is the period statement of income versus expense,
// yielding surplus or deficit. Opening balances are excluded: this is a
// period statement, not a position statement.
type IncomeExpenditure struct {
	FromDate            time.Time
	ToDate              time.Time
	IncomeAccounts      []IncomeExpenditureLine
	ExpenditureAccounts []IncomeExpenditureLine
	TotalIncome         decimal.Decimal
	TotalExpenditure    decimal.Decimal
	Surplus             decimal.Decimal
	IsSurplus           bool
	Warnings            []Warning
}

// BuildIncomeExpenditure sums Income and Expense account activity over
// [from, to]. Income amounts are credits minus debits, expense amounts
// debits minus credits. Accounts with zero net activity are omitted from
// the listings but still contribute zero to the totals.
func BuildIncomeExpenditure(s Snapshot, from, to time.Time) (IncomeExpenditure, error) {
	if to.IsZero() {
		to = truncateDay(time.Now())
	}
	if !from.IsZero() && from.After(to) {
		return IncomeExpenditure{}, ErrInvalidDateRange
	}
	report := IncomeExpenditure{FromDate: from, ToDate: to}

	accounts := append([]Account(nil), s.Accounts...)
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].Code < accounts[j].Code })

	for _, a := range accounts {
		if a.Type != AccountTypeIncome && a.Type != AccountTypeExpense {
			continue
		}
		var debit, credit decimal.Decimal
		for _, e := range s.entriesFor(a.Code, from, to, &report.Warnings) {
			debit = debit.Add(e.Debit)
			credit = credit.Add(e.Credit)
		}
		line := IncomeExpenditureLine{AccountCode: a.Code, AccountName: a.Name}
		if a.Type == AccountTypeIncome {
			line.Amount = credit.Sub(debit)
			report.TotalIncome = report.TotalIncome.Add(line.Amount)
			if !line.Amount.IsZero() {
				report.IncomeAccounts = append(report.IncomeAccounts, line)
			}
			continue
		}
		line.Amount = debit.Sub(credit)
		report.TotalExpenditure = report.TotalExpenditure.Add(line.Amount)
		if !line.Amount.IsZero() {
			report.ExpenditureAccounts = append(report.ExpenditureAccounts, line)
		}
	}
	report.Surplus = report.TotalIncome.Sub(report.TotalExpenditure)
	report.IsSurplus = !report.Surplus.IsNegative()
	return report, nil
}
