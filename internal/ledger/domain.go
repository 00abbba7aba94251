// Package ledger implements the double-entry bookkeeping core: voucher
// validation, the signed balance convention, and the derived reports
// (ledger, trial balance, income & expenditure, balance sheet). All
// functions are pure transformations over in-memory snapshots.
package ledger

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// AccountType enumerates chart of accounts categories.
type AccountType string

const (
	AccountTypeAsset     AccountType = "Asset"
	AccountTypeLiability AccountType = "Liability"
	AccountTypeIncome    AccountType = "Income"
	AccountTypeExpense   AccountType = "Expense"
	AccountTypeCapital   AccountType = "Capital"
)

// BalanceType labels the polarity of a balance.
type BalanceType string

const (
	BalanceTypeDebit  BalanceType = "Debit"
	BalanceTypeCredit BalanceType = "Credit"
)

// VoucherType enumerates the supported voucher kinds. Voucher numbers are
// sequenced per type by the backend.
type VoucherType string

const (
	VoucherTypePayment VoucherType = "Payment"
	VoucherTypeReceipt VoucherType = "Receipt"
	VoucherTypeJournal VoucherType = "Journal"
	VoucherTypeContra  VoucherType = "Contra"
)

// Tolerance is the rounding tolerance for all balancing checks, in
// currency units.
var Tolerance = decimal.NewFromFloat(0.01)

// Account models a chart of accounts node. Code is the immutable business
// key; inactive accounts are excluded from new voucher entry but retained
// for historical reports.
type Account struct {
	Code               string
	Name               string
	Type               AccountType
	Parent             string
	OpeningBalance     decimal.Decimal
	OpeningBalanceType BalanceType
	OpeningBalanceAsOn time.Time
	IsActive           bool
}

// Entry is one line of a voucher: a debit or a credit against one account.
type Entry struct {
	AccountCode string
	Debit       decimal.Decimal
	Credit      decimal.Decimal
}

// Populated reports whether the entry carries a non-zero amount.
func (e Entry) Populated() bool {
	return e.Debit.IsPositive() || e.Credit.IsPositive()
}

// Voucher is a single dated transaction composed of balanced entries.
type Voucher struct {
	No        string
	Type      VoucherType
	Date      time.Time
	Narration string
	Entries   []Entry
	CreatedBy string
}

var (
	// ErrUnbalanced indicates total debit != total credit within tolerance.
	ErrUnbalanced = errors.New("ledger: voucher entries must balance")
	// ErrTooFewEntries indicates fewer than two populated entries.
	ErrTooFewEntries = errors.New("ledger: voucher requires at least two entries")
	// ErrNarrationRequired indicates a missing narration.
	ErrNarrationRequired = errors.New("ledger: narration required")
	// ErrDateRequired indicates a missing voucher date.
	ErrDateRequired = errors.New("ledger: voucher date required")
	// ErrInvalidVoucherType indicates an unknown voucher type.
	ErrInvalidVoucherType = errors.New("ledger: invalid voucher type")
	// ErrAccountNotFound indicates an unknown account code.
	ErrAccountNotFound = errors.New("ledger: account not found")
	// ErrInvalidDateRange indicates fromDate after toDate.
	ErrInvalidDateRange = errors.New("ledger: from date after to date")
	// ErrInvalidFinancialYear indicates a financial year not in "2024-25" form.
	ErrInvalidFinancialYear = errors.New("ledger: invalid financial year")
	// ErrInvalidEntry indicates a malformed voucher entry line.
	ErrInvalidEntry = errors.New("ledger: invalid entry")
)

// Nature returns the natural balance polarity for the account type: Asset
// and Expense accounts are debit-natured, the rest credit-natured.
func (t AccountType) Nature() BalanceType {
	if t == AccountTypeAsset || t == AccountTypeExpense {
		return BalanceTypeDebit
	}
	return BalanceTypeCredit
}

// Valid reports whether t is a known account type.
func (t AccountType) Valid() bool {
	switch t {
	case AccountTypeAsset, AccountTypeLiability, AccountTypeIncome, AccountTypeExpense, AccountTypeCapital:
		return true
	}
	return false
}

// Valid reports whether t is a known voucher type.
func (t VoucherType) Valid() bool {
	switch t {
	case VoucherTypePayment, VoucherTypeReceipt, VoucherTypeJournal, VoucherTypeContra:
		return true
	}
	return false
}

// DefaultOpeningBalanceType returns the default opening balance polarity
// for an account type. Accounts may override it explicitly, e.g. a
// liability carrying an advance with a debit balance.
func DefaultOpeningBalanceType(t AccountType) BalanceType {
	return t.Nature()
}

// Validate checks the fundamental voucher invariants: required narration
// and date, a known type, at least two populated entries, non-negative
// mutually exclusive amounts per entry, and the double-entry identity
// |sum(debit) - sum(credit)| < 0.01.
func (v Voucher) Validate() error {
	if !v.Type.Valid() {
		return ErrInvalidVoucherType
	}
	if v.Date.IsZero() {
		return ErrDateRequired
	}
	if v.Narration == "" {
		return ErrNarrationRequired
	}
	populated := 0
	var debit, credit decimal.Decimal
	for idx, entry := range v.Entries {
		if entry.AccountCode == "" {
			return fmt.Errorf("%w: entry %d missing account", ErrInvalidEntry, idx)
		}
		if entry.Debit.IsNegative() || entry.Credit.IsNegative() {
			return fmt.Errorf("%w: entry %d negative amount", ErrInvalidEntry, idx)
		}
		if entry.Debit.IsPositive() && entry.Credit.IsPositive() {
			return fmt.Errorf("%w: entry %d cannot be both debit and credit", ErrInvalidEntry, idx)
		}
		if entry.Populated() {
			populated++
		}
		debit = debit.Add(entry.Debit)
		credit = credit.Add(entry.Credit)
	}
	if populated < 2 {
		return ErrTooFewEntries
	}
	if debit.Sub(credit).Abs().GreaterThanOrEqual(Tolerance) {
		return ErrUnbalanced
	}
	return nil
}

// Balanced reports whether the voucher satisfies the double-entry identity,
// ignoring the other validation rules. Used when scanning already persisted
// data for integrity warnings.
func (v Voucher) Balanced() bool {
	var debit, credit decimal.Decimal
	for _, entry := range v.Entries {
		debit = debit.Add(entry.Debit)
		credit = credit.Add(entry.Credit)
	}
	return debit.Sub(credit).Abs().LessThan(Tolerance)
}
