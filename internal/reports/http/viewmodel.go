package reporthttp

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/mrcd-books/mrcd-books/internal/ledger"
	"github.com/mrcd-books/mrcd-books/internal/reports"
)

const dateLayout = "2006-01-02"

// WarningVM mirrors a ledger warning for API responses.
type WarningVM struct {
	Code        string `json:"code"`
	VoucherNo   string `json:"voucherNo,omitempty"`
	AccountCode string `json:"accountCode,omitempty"`
	Message     string `json:"message"`
}

// LedgerRowVM is one ledger line with a running balance.
type LedgerRowVM struct {
	Date      string `json:"date"`
	VoucherNo string `json:"voucherNo"`
	Narration string `json:"narration"`
	Debit     string `json:"debit"`
	Credit    string `json:"credit"`
	Balance   string `json:"balance"`
}

// LedgerVM is the account ledger response.
type LedgerVM struct {
	AccountCode    string        `json:"accountCode"`
	AccountName    string        `json:"accountName"`
	FromDate       string        `json:"fromDate"`
	ToDate         string        `json:"toDate"`
	OpeningBalance string        `json:"openingBalance"`
	Transactions   []LedgerRowVM `json:"transactions"`
	TotalDebit     string        `json:"totalDebit"`
	TotalCredit    string        `json:"totalCredit"`
	ClosingBalance string        `json:"closingBalance"`
	Warnings       []WarningVM   `json:"warnings,omitempty"`
}

// TrialBalanceRowVM is one trial balance line.
type TrialBalanceRowVM struct {
	AccountCode string `json:"accountCode"`
	AccountName string `json:"accountName"`
	AccountType string `json:"accountType"`
	Debit       string `json:"debit"`
	Credit      string `json:"credit"`
}

// TrialBalanceVM is the trial balance response.
type TrialBalanceVM struct {
	AsOn        string              `json:"asOn"`
	Accounts    []TrialBalanceRowVM `json:"accounts"`
	TotalDebit  string              `json:"totalDebit"`
	TotalCredit string              `json:"totalCredit"`
	IsBalanced  bool                `json:"isBalanced"`
	Warnings    []WarningVM         `json:"warnings,omitempty"`
}

// StatementLineVM is one income/expenditure or balance sheet line.
type StatementLineVM struct {
	AccountCode string `json:"accountCode,omitempty"`
	AccountName string `json:"accountName"`
	Amount      string `json:"amount"`
}

// IncomeExpenditureVM is the period statement response.
type IncomeExpenditureVM struct {
	FromDate         string            `json:"fromDate"`
	ToDate           string            `json:"toDate"`
	Income           []StatementLineVM `json:"income"`
	Expenditure      []StatementLineVM `json:"expenditure"`
	TotalIncome      string            `json:"totalIncome"`
	TotalExpenditure string            `json:"totalExpenditure"`
	Surplus          string            `json:"surplus"`
	IsSurplus        bool              `json:"isSurplus"`
	Warnings         []WarningVM       `json:"warnings,omitempty"`
}

// BalanceSheetVM is the position statement response.
type BalanceSheetVM struct {
	AsOn                      string            `json:"asOn"`
	Assets                    []StatementLineVM `json:"assets"`
	Liabilities               []StatementLineVM `json:"liabilities"`
	Equity                    []StatementLineVM `json:"equity"`
	TotalAssets               string            `json:"totalAssets"`
	TotalLiabilities          string            `json:"totalLiabilities"`
	TotalEquity               string            `json:"totalEquity"`
	TotalLiabilitiesAndEquity string            `json:"totalLiabilitiesAndEquity"`
	Difference                string            `json:"difference"`
	IsBalanced                bool              `json:"isBalanced"`
	Warnings                  []WarningVM       `json:"warnings,omitempty"`
}

// MonthlyAccountVM is one account row of the monthly summary.
type MonthlyAccountVM struct {
	AccountCode string   `json:"accountCode"`
	AccountName string   `json:"accountName"`
	Monthly     []string `json:"monthly"`
	Total       string   `json:"total"`
}

// MonthlySummaryVM is the financial-year monthly breakdown response.
type MonthlySummaryVM struct {
	FinancialYear   string             `json:"financialYear"`
	Months          []string           `json:"months"`
	IncomeAccounts  []MonthlyAccountVM `json:"incomeAccounts"`
	ExpenseAccounts []MonthlyAccountVM `json:"expenseAccounts"`
	MonthlyIncome   []string           `json:"monthlyIncome"`
	MonthlyExpense  []string           `json:"monthlyExpense"`
	TotalIncome     string             `json:"totalIncome"`
	TotalExpense    string             `json:"totalExpense"`
	Surplus         string             `json:"surplus"`
	Warnings        []WarningVM        `json:"warnings,omitempty"`
}

func amountVM(d decimal.Decimal) string {
	return d.Round(2).StringFixed(2)
}

func dateVM(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}

func warningsVM(ws []ledger.Warning) []WarningVM {
	if len(ws) == 0 {
		return nil
	}
	out := make([]WarningVM, 0, len(ws))
	for _, w := range ws {
		out = append(out, WarningVM{
			Code:        w.Code,
			VoucherNo:   w.VoucherNo,
			AccountCode: w.AccountCode,
			Message:     w.Message,
		})
	}
	return out
}

// LedgerFromDomain converts a ledger report into its view model.
func LedgerFromDomain(rep ledger.LedgerReport) LedgerVM {
	vm := LedgerVM{
		AccountCode:    rep.AccountCode,
		AccountName:    rep.AccountName,
		FromDate:       dateVM(rep.FromDate),
		ToDate:         dateVM(rep.ToDate),
		OpeningBalance: reports.FormatBalance(rep.OpeningBalance),
		TotalDebit:     amountVM(rep.TotalDebit),
		TotalCredit:    amountVM(rep.TotalCredit),
		ClosingBalance: reports.FormatBalance(rep.ClosingBalance),
		Warnings:       warningsVM(rep.Warnings),
	}
	vm.Transactions = make([]LedgerRowVM, 0, len(rep.Transactions))
	for _, row := range rep.Transactions {
		vm.Transactions = append(vm.Transactions, LedgerRowVM{
			Date:      dateVM(row.Date),
			VoucherNo: row.VoucherNo,
			Narration: row.Narration,
			Debit:     amountVM(row.Debit),
			Credit:    amountVM(row.Credit),
			Balance:   reports.FormatBalance(row.Balance),
		})
	}
	return vm
}

// TrialBalanceFromDomain converts a trial balance into its view model.
func TrialBalanceFromDomain(tb ledger.TrialBalance) TrialBalanceVM {
	vm := TrialBalanceVM{
		AsOn:        dateVM(tb.AsOn),
		TotalDebit:  amountVM(tb.TotalDebit),
		TotalCredit: amountVM(tb.TotalCredit),
		IsBalanced:  tb.IsBalanced,
		Warnings:    warningsVM(tb.Warnings),
	}
	vm.Accounts = make([]TrialBalanceRowVM, 0, len(tb.Accounts))
	for _, row := range tb.Accounts {
		vm.Accounts = append(vm.Accounts, TrialBalanceRowVM{
			AccountCode: row.AccountCode,
			AccountName: row.AccountName,
			AccountType: string(row.AccountType),
			Debit:       amountVM(row.Debit),
			Credit:      amountVM(row.Credit),
		})
	}
	return vm
}

func statementLinesVM(lines []ledger.IncomeExpenditureLine) []StatementLineVM {
	out := make([]StatementLineVM, 0, len(lines))
	for _, line := range lines {
		out = append(out, StatementLineVM{
			AccountCode: line.AccountCode,
			AccountName: line.AccountName,
			Amount:      amountVM(line.Amount),
		})
	}
	return out
}

// IncomeExpenditureFromDomain converts the period statement into its view model.
func IncomeExpenditureFromDomain(ie ledger.IncomeExpenditure) IncomeExpenditureVM {
	return IncomeExpenditureVM{
		FromDate:         dateVM(ie.FromDate),
		ToDate:           dateVM(ie.ToDate),
		Income:           statementLinesVM(ie.IncomeAccounts),
		Expenditure:      statementLinesVM(ie.ExpenditureAccounts),
		TotalIncome:      amountVM(ie.TotalIncome),
		TotalExpenditure: amountVM(ie.TotalExpenditure),
		Surplus:          amountVM(ie.Surplus),
		IsSurplus:        ie.IsSurplus,
		Warnings:         warningsVM(ie.Warnings),
	}
}

func sheetLinesVM(lines []ledger.BalanceSheetLine) []StatementLineVM {
	out := make([]StatementLineVM, 0, len(lines))
	for _, line := range lines {
		out = append(out, StatementLineVM{
			AccountCode: line.AccountCode,
			AccountName: line.AccountName,
			Amount:      amountVM(line.Balance),
		})
	}
	return out
}

// BalanceSheetFromDomain converts the position statement into its view model.
func BalanceSheetFromDomain(bs ledger.BalanceSheet) BalanceSheetVM {
	return BalanceSheetVM{
		AsOn:                      dateVM(bs.AsOn),
		Assets:                    sheetLinesVM(bs.Assets),
		Liabilities:               sheetLinesVM(bs.Liabilities),
		Equity:                    sheetLinesVM(bs.Equity),
		TotalAssets:               amountVM(bs.TotalAssets),
		TotalLiabilities:          amountVM(bs.TotalLiabilities),
		TotalEquity:               amountVM(bs.TotalEquity),
		TotalLiabilitiesAndEquity: amountVM(bs.TotalLiabilitiesAndEquity),
		Difference:                amountVM(bs.Difference),
		IsBalanced:                bs.IsBalanced,
		Warnings:                  warningsVM(bs.Warnings),
	}
}

func monthlyAccountsVM(rows []ledger.MonthlyAccount) []MonthlyAccountVM {
	out := make([]MonthlyAccountVM, 0, len(rows))
	for _, row := range rows {
		monthly := make([]string, 0, len(row.Monthly))
		for _, m := range row.Monthly {
			monthly = append(monthly, amountVM(m))
		}
		out = append(out, MonthlyAccountVM{
			AccountCode: row.AccountCode,
			AccountName: row.AccountName,
			Monthly:     monthly,
			Total:       amountVM(row.Total),
		})
	}
	return out
}

func monthlyTotalsVM(totals [12]decimal.Decimal) []string {
	out := make([]string, 0, len(totals))
	for _, m := range totals {
		out = append(out, amountVM(m))
	}
	return out
}

// MonthlySummaryFromDomain converts the monthly breakdown into its view model.
func MonthlySummaryFromDomain(ms ledger.MonthlySummary) MonthlySummaryVM {
	return MonthlySummaryVM{
		FinancialYear:   string(ms.FinancialYear),
		Months:          ms.MonthNames[:],
		IncomeAccounts:  monthlyAccountsVM(ms.IncomeAccounts),
		ExpenseAccounts: monthlyAccountsVM(ms.ExpenseAccounts),
		MonthlyIncome:   monthlyTotalsVM(ms.MonthlyIncome),
		MonthlyExpense:  monthlyTotalsVM(ms.MonthlyExpense),
		TotalIncome:     amountVM(ms.TotalIncome),
		TotalExpense:    amountVM(ms.TotalExpense),
		Surplus:         amountVM(ms.Surplus),
		Warnings:        warningsVM(ms.Warnings),
	}
}
