package ledger

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// Snapshot is an immutable view of the complete account and voucher data
// returned by the backend. Report builders never mutate it, so one snapshot
// may serve concurrent report computations without coordination.
type Snapshot struct {
	Accounts []Account
	Vouchers []Voucher
}

// Warning is a non-fatal data-integrity finding surfaced on report results.
type Warning struct {
	Code        string `json:"code"`
	VoucherNo   string `json:"voucherNo,omitempty"`
	AccountCode string `json:"accountCode,omitempty"`
	Message     string `json:"message"`
}

const (
	// WarnUnbalancedVoucher flags a persisted voucher violating the
	// double-entry identity. Its amounts stay in the totals; the imbalance
	// surfaces through isBalanced instead of being corrected.
	WarnUnbalancedVoucher = "unbalanced_voucher"
	// WarnUnknownAccount flags an entry referencing no known account. The
	// amount cannot be attributed to a balance row.
	WarnUnknownAccount = "unknown_account"
	// WarnInvalidDate flags a voucher whose date could not be parsed; its
	// entries are skipped for range-bounded reports.
	WarnInvalidDate = "invalid_date"
)

// AccountByCode looks up an account by its business key.
func (s Snapshot) AccountByCode(code string) (Account, bool) {
	for _, a := range s.Accounts {
		if a.Code == code {
			return a, true
		}
	}
	return Account{}, false
}

// Integrity scans the snapshot for warnings without computing any report:
// unbalanced persisted vouchers, unknown account references, and vouchers
// without a usable date.
func (s Snapshot) Integrity() []Warning {
	known := make(map[string]struct{}, len(s.Accounts))
	for _, a := range s.Accounts {
		known[a.Code] = struct{}{}
	}
	var warnings []Warning
	for _, v := range s.Vouchers {
		if v.Date.IsZero() {
			warnings = append(warnings, Warning{
				Code:      WarnInvalidDate,
				VoucherNo: v.No,
				Message:   fmt.Sprintf("voucher %s has no usable date", v.No),
			})
		}
		if !v.Balanced() {
			warnings = append(warnings, Warning{
				Code:      WarnUnbalancedVoucher,
				VoucherNo: v.No,
				Message:   fmt.Sprintf("voucher %s debits and credits do not balance", v.No),
			})
		}
		for _, e := range v.Entries {
			if _, ok := known[e.AccountCode]; !ok {
				warnings = append(warnings, Warning{
					Code:        WarnUnknownAccount,
					VoucherNo:   v.No,
					AccountCode: e.AccountCode,
					Message:     fmt.Sprintf("voucher %s references unknown account %s", v.No, e.AccountCode),
				})
			}
		}
	}
	return warnings
}

// postedEntry is an entry joined with its parent voucher's metadata.
type postedEntry struct {
	Date      time.Time
	VoucherNo string
	Narration string
	Debit     decimal.Decimal
	Credit    decimal.Decimal
}

// inRange reports whether d falls within [from, to]. A zero bound is
// unbounded on that side. Comparison is by calendar day.
func inRange(d, from, to time.Time) bool {
	if !from.IsZero() && d.Before(from) {
		return false
	}
	if !to.IsZero() && d.After(to) {
		return false
	}
	return true
}

// entriesFor collects every entry against accountCode whose voucher date
// falls within [from, to], sorted ascending by date with voucher number as
// the deterministic tie-break. Vouchers without a usable date are skipped
// and reported through warnings.
func (s Snapshot) entriesFor(accountCode string, from, to time.Time, warnings *[]Warning) []postedEntry {
	var out []postedEntry
	for _, v := range s.Vouchers {
		if v.Date.IsZero() {
			if warnings != nil && voucherTouches(v, accountCode) {
				*warnings = append(*warnings, Warning{
					Code:      WarnInvalidDate,
					VoucherNo: v.No,
					Message:   fmt.Sprintf("voucher %s skipped: no usable date", v.No),
				})
			}
			continue
		}
		if !inRange(v.Date, from, to) {
			continue
		}
		for _, e := range v.Entries {
			if e.AccountCode != accountCode {
				continue
			}
			out = append(out, postedEntry{
				Date:      v.Date,
				VoucherNo: v.No,
				Narration: v.Narration,
				Debit:     e.Debit,
				Credit:    e.Credit,
			})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].VoucherNo < out[j].VoucherNo
	})
	return out
}

func voucherTouches(v Voucher, accountCode string) bool {
	for _, e := range v.Entries {
		if e.AccountCode == accountCode {
			return true
		}
	}
	return false
}

// runningTotal computes the debit-positive running total for an account:
// the signed opening balance plus every dated entry up to and including
// asOn. Entries dated before the account's own opening-balance date are
// included, matching the reference behavior.
func (s Snapshot) runningTotal(a Account, asOn time.Time) decimal.Decimal {
	total := openingSigned(a)
	for _, e := range s.entriesFor(a.Code, time.Time{}, asOn, nil) {
		total = total.Add(e.Debit).Sub(e.Credit)
	}
	return total
}
