package ledger

import (
	"errors"
	"testing"
)

func TestBuildIncomeExpenditureScenario(t *testing.T) {
	report, err := BuildIncomeExpenditure(scenarioSnapshot(), day(2024, 4, 1), day(2024, 4, 30))
	if err != nil {
		t.Fatalf("BuildIncomeExpenditure() error = %v", err)
	}
	if len(report.IncomeAccounts) != 1 {
		t.Fatalf("expected 1 income account, got %d", len(report.IncomeAccounts))
	}
	if got := report.IncomeAccounts[0]; got.AccountCode != "4000" || !got.Amount.Equal(amt("2000")) {
		t.Fatalf("unexpected income line %s %s", got.AccountCode, got.Amount)
	}
	if len(report.ExpenditureAccounts) != 0 {
		t.Fatalf("expected no expenditure accounts, got %d", len(report.ExpenditureAccounts))
	}
	if !report.TotalIncome.Equal(amt("2000")) || !report.TotalExpenditure.IsZero() {
		t.Fatalf("unexpected totals income=%s expenditure=%s", report.TotalIncome, report.TotalExpenditure)
	}
	if !report.Surplus.Equal(amt("2000")) || !report.IsSurplus {
		t.Fatalf("expected surplus 2000, got %s (isSurplus=%v)", report.Surplus, report.IsSurplus)
	}
}

func TestBuildIncomeExpenditureExcludesOpeningBalances(t *testing.T) {
	s := scenarioSnapshot()
	// An income account with a carried-forward opening balance must not
	// leak it into the period statement.
	s.Accounts = append(s.Accounts, Account{
		Code: "4100", Name: "Grants", Type: AccountTypeIncome,
		OpeningBalance: amt("9000"), OpeningBalanceType: BalanceTypeCredit, IsActive: true,
	})
	report, err := BuildIncomeExpenditure(s, day(2024, 4, 1), day(2024, 4, 30))
	if err != nil {
		t.Fatalf("BuildIncomeExpenditure() error = %v", err)
	}
	if !report.TotalIncome.Equal(amt("2000")) {
		t.Fatalf("opening balance leaked into period totals: %s", report.TotalIncome)
	}
}

func TestBuildIncomeExpenditureDeficit(t *testing.T) {
	s := scenarioSnapshot()
	s.Accounts = append(s.Accounts, Account{
		Code: "5000", Name: "Rent", Type: AccountTypeExpense,
		OpeningBalance: amt("0"), OpeningBalanceType: BalanceTypeDebit, IsActive: true,
	})
	s.Vouchers = append(s.Vouchers, Voucher{
		No: "PV-001", Type: VoucherTypePayment, Date: day(2024, 4, 20),
		Narration: "Rent paid",
		Entries: []Entry{
			{AccountCode: "5000", Debit: amt("3500")},
			{AccountCode: "1100", Credit: amt("3500")},
		},
	})
	report, err := BuildIncomeExpenditure(s, day(2024, 4, 1), day(2024, 4, 30))
	if err != nil {
		t.Fatalf("BuildIncomeExpenditure() error = %v", err)
	}
	if !report.TotalExpenditure.Equal(amt("3500")) {
		t.Fatalf("expected expenditure 3500, got %s", report.TotalExpenditure)
	}
	if !report.Surplus.Equal(amt("-1500")) || report.IsSurplus {
		t.Fatalf("expected deficit 1500, got %s (isSurplus=%v)", report.Surplus, report.IsSurplus)
	}
}

func TestBuildIncomeExpenditureOmitsZeroActivity(t *testing.T) {
	s := scenarioSnapshot()
	s.Accounts = append(s.Accounts, Account{
		Code: "5100", Name: "Postage", Type: AccountTypeExpense,
		OpeningBalance: amt("0"), OpeningBalanceType: BalanceTypeDebit, IsActive: true,
	})
	report, err := BuildIncomeExpenditure(s, day(2024, 4, 1), day(2024, 4, 30))
	if err != nil {
		t.Fatalf("BuildIncomeExpenditure() error = %v", err)
	}
	for _, line := range report.ExpenditureAccounts {
		if line.AccountCode == "5100" {
			t.Fatal("zero-activity account must be omitted from listings")
		}
	}
}

func TestBuildIncomeExpenditureInvalidRange(t *testing.T) {
	if _, err := BuildIncomeExpenditure(scenarioSnapshot(), day(2024, 5, 1), day(2024, 4, 1)); !errors.Is(err, ErrInvalidDateRange) {
		t.Fatalf("expected ErrInvalidDateRange, got %v", err)
	}
}
