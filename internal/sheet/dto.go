package sheet

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mrcd-books/mrcd-books/internal/ledger"
)

// envelope is the uniform response wrapper used by the scripting endpoint.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

// accountDTO is the loose wire form of a chart of accounts row. Amounts
// arrive as JSON numbers or quoted strings depending on how the sheet cell
// was typed, so they decode through json.Number.
type accountDTO struct {
	AccountCode        string      `json:"accountCode" validate:"required"`
	AccountName        string      `json:"accountName" validate:"required"`
	AccountType        string      `json:"accountType" validate:"required,oneof=Asset Liability Income Expense Capital"`
	Parent             string      `json:"parent"`
	OpeningBalance     json.Number `json:"openingBalance"`
	OpeningBalanceType string      `json:"openingBalanceType" validate:"omitempty,oneof=Debit Credit"`
	OpeningBalanceAsOn string      `json:"openingBalanceAsOnDate"`
	IsActive           *bool       `json:"isActive"`
}

type entryDTO struct {
	AccountCode string      `json:"accountCode" validate:"required"`
	Debit       json.Number `json:"debit"`
	Credit      json.Number `json:"credit"`
}

type voucherDTO struct {
	VoucherNo   string     `json:"voucherNo" validate:"required"`
	VoucherType string     `json:"voucherType" validate:"required,oneof=Payment Receipt Journal Contra"`
	Date        string     `json:"date"`
	Narration   string     `json:"narration"`
	Entries     []entryDTO `json:"entries" validate:"required,dive"`
	CreatedBy   string     `json:"createdBy"`
}

// accountPayload is the write-side body for addAccount/updateAccount.
type accountPayload struct {
	Action             string  `json:"action"`
	Token              string  `json:"token"`
	AccountCode        string  `json:"accountCode"`
	AccountName        string  `json:"accountName"`
	AccountType        string  `json:"accountType"`
	Parent             string  `json:"parent"`
	OpeningBalance     float64 `json:"openingBalance"`
	OpeningBalanceType string  `json:"openingBalanceType"`
	OpeningBalanceAsOn string  `json:"openingBalanceAsOnDate"`
	IsActive           bool    `json:"isActive"`
}

type voucherEntryPayload struct {
	AccountCode string  `json:"accountCode"`
	Debit       float64 `json:"debit"`
	Credit      float64 `json:"credit"`
}

type voucherPayload struct {
	Action      string                `json:"action"`
	Token       string                `json:"token"`
	Reference   string                `json:"reference,omitempty"`
	VoucherNo   string                `json:"voucherNo,omitempty"`
	VoucherType string                `json:"voucherType,omitempty"`
	Date        string                `json:"date,omitempty"`
	Narration   string                `json:"narration,omitempty"`
	Entries     []voucherEntryPayload `json:"entries,omitempty"`
	CreatedBy   string                `json:"createdBy,omitempty"`
}

const dateLayout = "2006-01-02"

// parseAmount converts a loose JSON number into a decimal, treating empty
// cells as zero.
func parseAmount(n json.Number) (decimal.Decimal, error) {
	if n == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(n.String())
}

// parseDate accepts the sheet's plain date form plus the RFC3339 values the
// endpoint emits for date-typed cells. A failure returns the zero time so
// range-bounded reports can skip rather than crash.
func parseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(dateLayout, s); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
	}
	return time.Time{}, false
}

func (d accountDTO) toDomain() (ledger.Account, error) {
	opening, err := parseAmount(d.OpeningBalance)
	if err != nil {
		return ledger.Account{}, fmt.Errorf("sheet: account %s opening balance: %w", d.AccountCode, err)
	}
	if opening.IsNegative() {
		return ledger.Account{}, fmt.Errorf("sheet: account %s negative opening balance", d.AccountCode)
	}
	accountType := ledger.AccountType(d.AccountType)
	balanceType := ledger.BalanceType(d.OpeningBalanceType)
	if balanceType == "" {
		balanceType = ledger.DefaultOpeningBalanceType(accountType)
	}
	asOn, _ := parseDate(d.OpeningBalanceAsOn)
	active := true
	if d.IsActive != nil {
		active = *d.IsActive
	}
	return ledger.Account{
		Code:               d.AccountCode,
		Name:               d.AccountName,
		Type:               accountType,
		Parent:             d.Parent,
		OpeningBalance:     opening,
		OpeningBalanceType: balanceType,
		OpeningBalanceAsOn: asOn,
		IsActive:           active,
	}, nil
}

func (d voucherDTO) toDomain() (ledger.Voucher, error) {
	entries := make([]ledger.Entry, 0, len(d.Entries))
	for idx, e := range d.Entries {
		debit, err := parseAmount(e.Debit)
		if err != nil {
			return ledger.Voucher{}, fmt.Errorf("sheet: voucher %s entry %d debit: %w", d.VoucherNo, idx, err)
		}
		credit, err := parseAmount(e.Credit)
		if err != nil {
			return ledger.Voucher{}, fmt.Errorf("sheet: voucher %s entry %d credit: %w", d.VoucherNo, idx, err)
		}
		entries = append(entries, ledger.Entry{AccountCode: e.AccountCode, Debit: debit, Credit: credit})
	}
	// A malformed date keeps the voucher with a zero date; the report
	// builders skip and warn instead of failing the whole fetch.
	date, _ := parseDate(d.Date)
	return ledger.Voucher{
		No:        d.VoucherNo,
		Type:      ledger.VoucherType(d.VoucherType),
		Date:      date,
		Narration: d.Narration,
		Entries:   entries,
		CreatedBy: d.CreatedBy,
	}, nil
}
