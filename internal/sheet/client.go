// Package sheet is the typed client for the spreadsheet-backed scripting
// endpoint that owns all persistence. Reads arrive as loose JSON and are
// validated against the strict data model at this boundary; malformed rows
// are dropped with a log line rather than propagated.
package sheet

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/mrcd-books/mrcd-books/internal/ledger"
)

// ErrBackend wraps failures reported by the scripting endpoint itself.
var ErrBackend = errors.New("sheet: backend error")

// Client talks to the scripting endpoint. The token is opaque: it is issued
// out of band and simply forwarded, authentication being fully owned by the
// backend.
type Client struct {
	baseURL  string
	token    string
	http     *http.Client
	logger   *slog.Logger
	validate *validator.Validate
}

// NewClient constructs a sheet client.
func NewClient(baseURL, token string, logger *slog.Logger) *Client {
	return &Client{
		baseURL:  baseURL,
		token:    token,
		http:     &http.Client{Timeout: 30 * time.Second},
		logger:   logger,
		validate: validator.New(),
	}
}

// WithHTTPClient overrides the underlying HTTP client, mainly for tests.
func (c *Client) WithHTTPClient(h *http.Client) *Client {
	if h != nil {
		c.http = h
	}
	return c
}

// ListAccounts fetches the chart of accounts. Rows failing schema
// validation are skipped and logged.
func (c *Client) ListAccounts(ctx context.Context) ([]ledger.Account, error) {
	raw, err := c.get(ctx, "getChartOfAccounts", nil)
	if err != nil {
		return nil, err
	}
	var dtos []accountDTO
	if err := json.Unmarshal(raw, &dtos); err != nil {
		return nil, fmt.Errorf("sheet: decode accounts: %w", err)
	}
	accounts := make([]ledger.Account, 0, len(dtos))
	for _, dto := range dtos {
		if err := c.validate.Struct(dto); err != nil {
			c.warn("drop malformed account row", "accountCode", dto.AccountCode, "error", err)
			continue
		}
		account, err := dto.toDomain()
		if err != nil {
			c.warn("drop malformed account row", "accountCode", dto.AccountCode, "error", err)
			continue
		}
		accounts = append(accounts, account)
	}
	return accounts, nil
}

// ListVouchers fetches all posted vouchers. Rows failing schema validation
// are skipped and logged; vouchers with unparseable dates are kept with a
// zero date so the report layer can warn about them.
func (c *Client) ListVouchers(ctx context.Context) ([]ledger.Voucher, error) {
	raw, err := c.get(ctx, "getVouchers", nil)
	if err != nil {
		return nil, err
	}
	var dtos []voucherDTO
	if err := json.Unmarshal(raw, &dtos); err != nil {
		return nil, fmt.Errorf("sheet: decode vouchers: %w", err)
	}
	vouchers := make([]ledger.Voucher, 0, len(dtos))
	for _, dto := range dtos {
		if err := c.validate.Struct(dto); err != nil {
			c.warn("drop malformed voucher row", "voucherNo", dto.VoucherNo, "error", err)
			continue
		}
		voucher, err := dto.toDomain()
		if err != nil {
			c.warn("drop malformed voucher row", "voucherNo", dto.VoucherNo, "error", err)
			continue
		}
		vouchers = append(vouchers, voucher)
	}
	return vouchers, nil
}

// NextVoucherNumber asks the backend for the next number in the per-type
// sequence.
func (c *Client) NextVoucherNumber(ctx context.Context, voucherType ledger.VoucherType) (string, error) {
	raw, err := c.get(ctx, "getNextVoucherNumber", url.Values{"voucherType": {string(voucherType)}})
	if err != nil {
		return "", err
	}
	var number string
	if err := json.Unmarshal(raw, &number); err != nil {
		// Some deployments wrap the value: {"voucherNo": "..."}.
		var wrapped struct {
			VoucherNo string `json:"voucherNo"`
		}
		if err := json.Unmarshal(raw, &wrapped); err != nil || wrapped.VoucherNo == "" {
			return "", fmt.Errorf("sheet: decode next voucher number: %w", err)
		}
		number = wrapped.VoucherNo
	}
	return number, nil
}

// AddAccount creates a chart of accounts row.
func (c *Client) AddAccount(ctx context.Context, a ledger.Account) error {
	return c.post(ctx, accountToPayload("addAccount", c.token, a))
}

// UpdateAccount rewrites an existing row, keyed by account code.
func (c *Client) UpdateAccount(ctx context.Context, a ledger.Account) error {
	return c.post(ctx, accountToPayload("updateAccount", c.token, a))
}

// DeactivateAccount soft-deletes the account; history stays intact.
func (c *Client) DeactivateAccount(ctx context.Context, accountCode string) error {
	return c.post(ctx, map[string]string{
		"action":      "deleteAccount",
		"token":       c.token,
		"accountCode": accountCode,
	})
}

// AddVoucher persists a validated voucher. The generated reference lets the
// backend de-duplicate retried submissions.
func (c *Client) AddVoucher(ctx context.Context, v ledger.Voucher) (string, error) {
	entries := make([]voucherEntryPayload, 0, len(v.Entries))
	for _, e := range v.Entries {
		entries = append(entries, voucherEntryPayload{
			AccountCode: e.AccountCode,
			Debit:       e.Debit.InexactFloat64(),
			Credit:      e.Credit.InexactFloat64(),
		})
	}
	payload := voucherPayload{
		Action:      "addVoucher",
		Token:       c.token,
		Reference:   uuid.NewString(),
		VoucherNo:   v.No,
		VoucherType: string(v.Type),
		Date:        v.Date.Format(dateLayout),
		Narration:   v.Narration,
		Entries:     entries,
		CreatedBy:   v.CreatedBy,
	}
	raw, err := c.postRaw(ctx, payload)
	if err != nil {
		return "", err
	}
	var result struct {
		VoucherNo string `json:"voucherNo"`
	}
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &result)
	}
	if result.VoucherNo == "" {
		result.VoucherNo = v.No
	}
	return result.VoucherNo, nil
}

// DeleteVoucher removes a voucher by number. Posted vouchers are never
// edited in place; correction is delete plus re-entry.
func (c *Client) DeleteVoucher(ctx context.Context, voucherNo string) error {
	return c.post(ctx, map[string]string{
		"action":    "deleteVoucher",
		"token":     c.token,
		"voucherNo": voucherNo,
	})
}

func accountToPayload(action, token string, a ledger.Account) accountPayload {
	return accountPayload{
		Action:             action,
		Token:              token,
		AccountCode:        a.Code,
		AccountName:        a.Name,
		AccountType:        string(a.Type),
		Parent:             a.Parent,
		OpeningBalance:     a.OpeningBalance.InexactFloat64(),
		OpeningBalanceType: string(a.OpeningBalanceType),
		OpeningBalanceAsOn: a.OpeningBalanceAsOn.Format(dateLayout),
		IsActive:           a.IsActive,
	}
}

func (c *Client) get(ctx context.Context, action string, params url.Values) (json.RawMessage, error) {
	query := url.Values{}
	query.Set("action", action)
	query.Set("token", c.token)
	for key, values := range params {
		for _, v := range values {
			query.Add(key, v)
		}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+query.Encode(), nil)
	if err != nil {
		return nil, err
	}
	return c.do(req)
}

func (c *Client) post(ctx context.Context, payload any) error {
	_, err := c.postRaw(ctx, payload)
	return err
}

func (c *Client) postRaw(ctx context.Context, payload any) (json.RawMessage, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req)
}

func (c *Client) do(req *http.Request) (json.RawMessage, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sheet: request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status %d", ErrBackend, resp.StatusCode)
	}
	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("sheet: decode envelope: %w", err)
	}
	if !env.Success {
		if env.Error == "" {
			env.Error = "unspecified failure"
		}
		return nil, fmt.Errorf("%w: %s", ErrBackend, env.Error)
	}
	return env.Data, nil
}

func (c *Client) warn(msg string, args ...any) {
	if c.logger != nil {
		c.logger.Warn(msg, args...)
	}
}
