package ledger

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// BalanceSheetLine is one account's balance as seen from its own nature:
// a positive value means a debit balance for assets and a credit balance
// for liabilities and capital.
type BalanceSheetLine struct {
	AccountCode string
	AccountName string
	Balance     decimal.Decimal
}

// BalanceSheet is the as-of statement of assets versus liabilities plus
// capital. The equation is a derived consequence of the trial balance
// identity; a non-zero Difference is a reportable data-integrity error.
type BalanceSheet struct {
	AsOn                      time.Time
	Assets                    []BalanceSheetLine
	Liabilities               []BalanceSheetLine
	Equity                    []BalanceSheetLine
	TotalAssets               decimal.Decimal
	TotalLiabilities          decimal.Decimal
	TotalEquity               decimal.Decimal
	TotalLiabilitiesAndEquity decimal.Decimal
	Difference                decimal.Decimal
	IsBalanced                bool
	Warnings                  []Warning
}

// SurplusLineName labels the derived equity line carrying the accumulated
// income-over-expenditure surplus. Without it the accounting equation only
// holds for data whose surplus was already transferred to a capital
// account.
const SurplusLineName = "Accumulated Surplus / Deficit"

// BuildBalanceSheet computes Asset, Liability, and Capital balances as of
// asOn and verifies the accounting equation. The accumulated net of all
// Income and Expense accounts is appended to the equity section as a
// derived line, completing the identity assets = liabilities + equity.
// A zero asOn means today.
func BuildBalanceSheet(s Snapshot, asOn time.Time) BalanceSheet {
	if asOn.IsZero() {
		asOn = truncateDay(time.Now())
	}
	bs := BalanceSheet{AsOn: asOn, Warnings: s.Integrity()}

	accounts := append([]Account(nil), s.Accounts...)
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].Code < accounts[j].Code })

	var surplus decimal.Decimal
	for _, a := range accounts {
		switch a.Type {
		case AccountTypeAsset, AccountTypeLiability, AccountTypeCapital:
		case AccountTypeIncome, AccountTypeExpense:
			// Negated debit-positive running totals: income nets positive,
			// expense negative, leaving the surplus retained in the fund.
			surplus = surplus.Sub(s.runningTotal(a, asOn))
			continue
		default:
			continue
		}
		line := BalanceSheetLine{
			AccountCode: a.Code,
			AccountName: a.Name,
			Balance:     naturalBalance(a, s.runningTotal(a, asOn)),
		}
		switch a.Type {
		case AccountTypeAsset:
			bs.Assets = append(bs.Assets, line)
			bs.TotalAssets = bs.TotalAssets.Add(line.Balance)
		case AccountTypeLiability:
			bs.Liabilities = append(bs.Liabilities, line)
			bs.TotalLiabilities = bs.TotalLiabilities.Add(line.Balance)
		case AccountTypeCapital:
			bs.Equity = append(bs.Equity, line)
			bs.TotalEquity = bs.TotalEquity.Add(line.Balance)
		}
	}
	if !surplus.IsZero() {
		bs.Equity = append(bs.Equity, BalanceSheetLine{AccountName: SurplusLineName, Balance: surplus})
		bs.TotalEquity = bs.TotalEquity.Add(surplus)
	}
	bs.TotalLiabilitiesAndEquity = bs.TotalLiabilities.Add(bs.TotalEquity)
	bs.Difference = bs.TotalAssets.Sub(bs.TotalLiabilitiesAndEquity)
	bs.IsBalanced = bs.Difference.Abs().LessThan(Tolerance)
	return bs
}
