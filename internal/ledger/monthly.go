package ledger

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// monthsPerYear is the number of columns in the monthly summary, April
// through March.
const monthsPerYear = 12

// MonthlyAccount carries one Income or Expense account's net activity per
// month of the financial year plus its annual total.
type MonthlyAccount struct {
	AccountCode string
	AccountName string
	Monthly     [monthsPerYear]decimal.Decimal
	Total       decimal.Decimal
}

// MonthlySummary is the account-wise monthly breakdown of income and
// expense activity for one financial year.
type MonthlySummary struct {
	FinancialYear   FinancialYear
	MonthNames      [monthsPerYear]string
	IncomeAccounts  []MonthlyAccount
	ExpenseAccounts []MonthlyAccount
	MonthlyIncome   [monthsPerYear]decimal.Decimal
	MonthlyExpense  [monthsPerYear]decimal.Decimal
	TotalIncome     decimal.Decimal
	TotalExpense    decimal.Decimal
	Surplus         decimal.Decimal
	Warnings        []Warning
}

// BuildMonthlySummary nets Income and Expense entries month by month over
// the given financial year. Accounts with no activity in the year are
// omitted. Amount signs follow the income & expenditure convention:
// credits minus debits for income, debits minus credits for expense.
func BuildMonthlySummary(s Snapshot, fy FinancialYear) (MonthlySummary, error) {
	start, err := fy.StartDate()
	if err != nil {
		return MonthlySummary{}, err
	}
	end, _ := fy.EndDate()

	summary := MonthlySummary{FinancialYear: fy}
	for i := 0; i < monthsPerYear; i++ {
		summary.MonthNames[i] = start.AddDate(0, i, 0).Format("Jan")
	}

	accounts := append([]Account(nil), s.Accounts...)
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].Code < accounts[j].Code })

	for _, a := range accounts {
		if a.Type != AccountTypeIncome && a.Type != AccountTypeExpense {
			continue
		}
		row := MonthlyAccount{AccountCode: a.Code, AccountName: a.Name}
		active := false
		for _, e := range s.entriesFor(a.Code, start, end, &summary.Warnings) {
			idx := monthIndex(start, e.Date)
			net := e.Debit.Sub(e.Credit)
			if a.Type == AccountTypeIncome {
				net = net.Neg()
			}
			row.Monthly[idx] = row.Monthly[idx].Add(net)
			row.Total = row.Total.Add(net)
			active = true
		}
		if !active {
			continue
		}
		if a.Type == AccountTypeIncome {
			summary.IncomeAccounts = append(summary.IncomeAccounts, row)
			for i := range row.Monthly {
				summary.MonthlyIncome[i] = summary.MonthlyIncome[i].Add(row.Monthly[i])
			}
			summary.TotalIncome = summary.TotalIncome.Add(row.Total)
			continue
		}
		summary.ExpenseAccounts = append(summary.ExpenseAccounts, row)
		for i := range row.Monthly {
			summary.MonthlyExpense[i] = summary.MonthlyExpense[i].Add(row.Monthly[i])
		}
		summary.TotalExpense = summary.TotalExpense.Add(row.Total)
	}
	summary.Surplus = summary.TotalIncome.Sub(summary.TotalExpense)
	return summary, nil
}

// monthIndex maps a date inside the financial year to its column, April=0.
func monthIndex(start, d time.Time) int {
	idx := (d.Year()-start.Year())*12 + int(d.Month()) - int(start.Month())
	if idx < 0 {
		return 0
	}
	if idx >= monthsPerYear {
		return monthsPerYear - 1
	}
	return idx
}
