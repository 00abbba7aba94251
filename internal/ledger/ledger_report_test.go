package ledger

import (
	"errors"
	"testing"
	"time"
)

// scenarioSnapshot mirrors the cash/income/capital setup used across the
// report tests: asset 1100 opens 5000 Dr, capital 3000 opens 5000 Cr, one
// receipt of 2000 on 2024-04-15.
func scenarioSnapshot() Snapshot {
	return Snapshot{
		Accounts: []Account{
			{
				Code: "1100", Name: "Cash", Type: AccountTypeAsset,
				OpeningBalance: amt("5000"), OpeningBalanceType: BalanceTypeDebit,
				OpeningBalanceAsOn: day(2024, 4, 1), IsActive: true,
			},
			{
				Code: "3000", Name: "General Fund", Type: AccountTypeCapital,
				OpeningBalance: amt("5000"), OpeningBalanceType: BalanceTypeCredit,
				OpeningBalanceAsOn: day(2024, 4, 1), IsActive: true,
			},
			{
				Code: "4000", Name: "Donations", Type: AccountTypeIncome,
				OpeningBalance: amt("0"), OpeningBalanceType: BalanceTypeCredit,
				OpeningBalanceAsOn: day(2024, 4, 1), IsActive: true,
			},
		},
		Vouchers: []Voucher{
			{
				No: "RV-001", Type: VoucherTypeReceipt, Date: day(2024, 4, 15),
				Narration: "Donation received", CreatedBy: "clerk",
				Entries: []Entry{
					{AccountCode: "1100", Debit: amt("2000")},
					{AccountCode: "4000", Credit: amt("2000")},
				},
			},
		},
	}
}

func TestBuildLedgerScenario(t *testing.T) {
	report, err := BuildLedger(scenarioSnapshot(), "1100", day(2024, 4, 1), day(2024, 4, 30))
	if err != nil {
		t.Fatalf("BuildLedger() error = %v", err)
	}
	if report.AccountName != "Cash" {
		t.Fatalf("unexpected account name %q", report.AccountName)
	}
	if got := report.OpeningBalance.String(); got != "5000.00 Dr" {
		t.Fatalf("expected opening 5000.00 Dr, got %s", got)
	}
	if len(report.Transactions) != 1 {
		t.Fatalf("expected 1 transaction, got %d", len(report.Transactions))
	}
	row := report.Transactions[0]
	if !row.Debit.Equal(amt("2000")) {
		t.Fatalf("expected debit 2000, got %s", row.Debit)
	}
	if got := row.Balance.String(); got != "7000.00 Dr" {
		t.Fatalf("expected row balance 7000.00 Dr, got %s", got)
	}
	if got := report.ClosingBalance.String(); got != "7000.00 Dr" {
		t.Fatalf("expected closing 7000.00 Dr, got %s", got)
	}
	if !report.TotalDebit.Equal(amt("2000")) || !report.TotalCredit.IsZero() {
		t.Fatalf("unexpected totals: debit=%s credit=%s", report.TotalDebit, report.TotalCredit)
	}
}

func TestBuildLedgerEmptyRange(t *testing.T) {
	report, err := BuildLedger(scenarioSnapshot(), "1100", day(2024, 6, 1), day(2024, 6, 30))
	if err != nil {
		t.Fatalf("BuildLedger() error = %v", err)
	}
	if len(report.Transactions) != 0 {
		t.Fatalf("expected no transactions, got %d", len(report.Transactions))
	}
	if !report.OpeningBalance.Amount.Equal(report.ClosingBalance.Amount) {
		t.Fatalf("opening %s should equal closing %s", report.OpeningBalance, report.ClosingBalance)
	}
	if got := report.OpeningBalance.String(); got != "7000.00 Dr" {
		t.Fatalf("expected carried-forward opening 7000.00 Dr, got %s", got)
	}
}

func TestBuildLedgerContinuity(t *testing.T) {
	s := scenarioSnapshot()
	s.Vouchers = append(s.Vouchers, Voucher{
		No: "PV-001", Type: VoucherTypePayment, Date: day(2024, 5, 10),
		Narration: "Rent paid",
		Entries: []Entry{
			{AccountCode: "1100", Credit: amt("700")},
			{AccountCode: "4000", Debit: amt("700")},
		},
	})

	first, err := BuildLedger(s, "1100", day(2024, 4, 1), day(2024, 4, 30))
	if err != nil {
		t.Fatalf("first range error = %v", err)
	}
	second, err := BuildLedger(s, "1100", day(2024, 5, 1), day(2024, 5, 31))
	if err != nil {
		t.Fatalf("second range error = %v", err)
	}
	if first.ClosingBalance.String() != second.OpeningBalance.String() {
		t.Fatalf("closing %s != next opening %s", first.ClosingBalance, second.OpeningBalance)
	}
	if got := second.ClosingBalance.String(); got != "6300.00 Dr" {
		t.Fatalf("expected closing 6300.00 Dr, got %s", got)
	}
}

func TestBuildLedgerDateTieBreakByVoucherNo(t *testing.T) {
	s := scenarioSnapshot()
	s.Vouchers = []Voucher{
		{
			No: "RV-002", Type: VoucherTypeReceipt, Date: day(2024, 4, 15), Narration: "second",
			Entries: []Entry{{AccountCode: "1100", Debit: amt("10")}, {AccountCode: "4000", Credit: amt("10")}},
		},
		{
			No: "RV-001", Type: VoucherTypeReceipt, Date: day(2024, 4, 15), Narration: "first",
			Entries: []Entry{{AccountCode: "1100", Debit: amt("20")}, {AccountCode: "4000", Credit: amt("20")}},
		},
	}
	report, err := BuildLedger(s, "1100", day(2024, 4, 1), day(2024, 4, 30))
	if err != nil {
		t.Fatalf("BuildLedger() error = %v", err)
	}
	if len(report.Transactions) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(report.Transactions))
	}
	if report.Transactions[0].VoucherNo != "RV-001" || report.Transactions[1].VoucherNo != "RV-002" {
		t.Fatalf("expected RV-001 before RV-002, got %s then %s",
			report.Transactions[0].VoucherNo, report.Transactions[1].VoucherNo)
	}
}

func TestBuildLedgerUnknownAccount(t *testing.T) {
	if _, err := BuildLedger(scenarioSnapshot(), "9999", time.Time{}, day(2024, 4, 30)); !errors.Is(err, ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
}

func TestBuildLedgerInvalidRange(t *testing.T) {
	if _, err := BuildLedger(scenarioSnapshot(), "1100", day(2024, 5, 1), day(2024, 4, 1)); !errors.Is(err, ErrInvalidDateRange) {
		t.Fatalf("expected ErrInvalidDateRange, got %v", err)
	}
}

func TestBuildLedgerSkipsUndatedVouchers(t *testing.T) {
	s := scenarioSnapshot()
	s.Vouchers = append(s.Vouchers, Voucher{
		No: "JV-099", Type: VoucherTypeJournal, Narration: "legacy row without date",
		Entries: []Entry{
			{AccountCode: "1100", Debit: amt("500")},
			{AccountCode: "4000", Credit: amt("500")},
		},
	})
	report, err := BuildLedger(s, "1100", day(2024, 4, 1), day(2024, 4, 30))
	if err != nil {
		t.Fatalf("BuildLedger() error = %v", err)
	}
	if len(report.Transactions) != 1 {
		t.Fatalf("undated voucher should be skipped, got %d rows", len(report.Transactions))
	}
	found := false
	for _, w := range report.Warnings {
		if w.Code == WarnInvalidDate && w.VoucherNo == "JV-099" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected invalid_date warning for JV-099, got %v", report.Warnings)
	}
}
