package ledger

import "testing"

func TestBuildMonthlySummary(t *testing.T) {
	s := scenarioSnapshot()
	s.Accounts = append(s.Accounts, Account{
		Code: "5000", Name: "Rent", Type: AccountTypeExpense,
		OpeningBalance: amt("0"), OpeningBalanceType: BalanceTypeDebit, IsActive: true,
	})
	s.Vouchers = append(s.Vouchers,
		Voucher{
			No: "PV-001", Type: VoucherTypePayment, Date: day(2024, 7, 5),
			Narration: "Rent July",
			Entries: []Entry{
				{AccountCode: "5000", Debit: amt("1200")},
				{AccountCode: "1100", Credit: amt("1200")},
			},
		},
		Voucher{
			No: "PV-002", Type: VoucherTypePayment, Date: day(2025, 1, 5),
			Narration: "Rent January",
			Entries: []Entry{
				{AccountCode: "5000", Debit: amt("1300")},
				{AccountCode: "1100", Credit: amt("1300")},
			},
		},
	)

	summary, err := BuildMonthlySummary(s, "2024-25")
	if err != nil {
		t.Fatalf("BuildMonthlySummary() error = %v", err)
	}
	if summary.MonthNames[0] != "Apr" || summary.MonthNames[11] != "Mar" {
		t.Fatalf("expected Apr..Mar columns, got %v", summary.MonthNames)
	}
	if len(summary.IncomeAccounts) != 1 || len(summary.ExpenseAccounts) != 1 {
		t.Fatalf("expected 1 income and 1 expense account, got %d/%d",
			len(summary.IncomeAccounts), len(summary.ExpenseAccounts))
	}

	income := summary.IncomeAccounts[0]
	if !income.Monthly[0].Equal(amt("2000")) {
		t.Fatalf("expected April income 2000, got %s", income.Monthly[0])
	}
	expense := summary.ExpenseAccounts[0]
	if !expense.Monthly[3].Equal(amt("1200")) {
		t.Fatalf("expected July expense 1200, got %s", expense.Monthly[3])
	}
	if !expense.Monthly[9].Equal(amt("1300")) {
		t.Fatalf("expected January expense 1300, got %s", expense.Monthly[9])
	}
	if !expense.Total.Equal(amt("2500")) {
		t.Fatalf("expected expense total 2500, got %s", expense.Total)
	}
	if !summary.MonthlyExpense[3].Equal(amt("1200")) {
		t.Fatalf("expected July column total 1200, got %s", summary.MonthlyExpense[3])
	}
	if !summary.TotalIncome.Equal(amt("2000")) || !summary.TotalExpense.Equal(amt("2500")) {
		t.Fatalf("unexpected totals: income=%s expense=%s", summary.TotalIncome, summary.TotalExpense)
	}
	if !summary.Surplus.Equal(amt("-500")) {
		t.Fatalf("expected deficit 500, got %s", summary.Surplus)
	}
}

func TestBuildMonthlySummaryExcludesOtherYears(t *testing.T) {
	s := scenarioSnapshot()
	summary, err := BuildMonthlySummary(s, "2023-24")
	if err != nil {
		t.Fatalf("BuildMonthlySummary() error = %v", err)
	}
	if len(summary.IncomeAccounts) != 0 {
		t.Fatalf("2024-04-15 voucher should not appear in FY 2023-24, got %v", summary.IncomeAccounts)
	}
}

func TestBuildMonthlySummaryBadYear(t *testing.T) {
	if _, err := BuildMonthlySummary(scenarioSnapshot(), "20x4-25"); err == nil {
		t.Fatal("expected error for malformed financial year")
	}
}
