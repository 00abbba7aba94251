package ledger

import "testing"

func TestOpeningBalanceSignRoundTrip(t *testing.T) {
	s := Snapshot{
		Accounts: []Account{{
			Code: "2100", Name: "Loan Payable", Type: AccountTypeLiability,
			OpeningBalance: amt("1000"), OpeningBalanceType: BalanceTypeCredit,
			OpeningBalanceAsOn: day(2024, 4, 1), IsActive: true,
		}},
	}
	report, err := BuildLedger(s, "2100", day(2024, 4, 1), day(2024, 4, 30))
	if err != nil {
		t.Fatalf("BuildLedger() error = %v", err)
	}
	if report.ClosingBalance.Type != BalanceTypeCredit {
		t.Fatalf("expected Credit polarity, got %s", report.ClosingBalance.Type)
	}
	if !report.ClosingBalance.Amount.Equal(amt("1000")) {
		t.Fatalf("expected magnitude 1000, got %s", report.ClosingBalance.Amount)
	}
	if got := report.ClosingBalance.String(); got != "1000.00 Cr" {
		t.Fatalf("expected display 1000.00 Cr, got %s", got)
	}
}

func TestDisplayBalancePolarity(t *testing.T) {
	if b := displayBalance(amt("42")); b.Type != BalanceTypeDebit || !b.Amount.Equal(amt("42")) {
		t.Fatalf("positive running total should display as Debit, got %v", b)
	}
	if b := displayBalance(amt("-42")); b.Type != BalanceTypeCredit || !b.Amount.Equal(amt("42")) {
		t.Fatalf("negative running total should display as Credit, got %v", b)
	}
	if b := displayBalance(amt("0")); !b.IsZero() || b.String() != "0.00" {
		t.Fatalf("zero balance should display unsigned, got %q", b.String())
	}
}

func TestBalanceSigned(t *testing.T) {
	b := Balance{Amount: amt("250"), Type: BalanceTypeCredit}
	if !b.Signed().Equal(amt("-250")) {
		t.Fatalf("expected -250, got %s", b.Signed())
	}
}

func TestOpeningOverrideAgainstNature(t *testing.T) {
	// A liability explicitly opened with a Debit balance keeps that
	// polarity rather than the type default.
	s := Snapshot{
		Accounts: []Account{{
			Code: "2200", Name: "Supplier Advances", Type: AccountTypeLiability,
			OpeningBalance: amt("400"), OpeningBalanceType: BalanceTypeDebit,
			OpeningBalanceAsOn: day(2024, 4, 1), IsActive: true,
		}},
	}
	report, err := BuildLedger(s, "2200", day(2024, 4, 1), day(2024, 4, 30))
	if err != nil {
		t.Fatalf("BuildLedger() error = %v", err)
	}
	if got := report.ClosingBalance.String(); got != "400.00 Dr" {
		t.Fatalf("expected 400.00 Dr, got %s", got)
	}
}
