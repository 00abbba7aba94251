package sheet

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrcd-books/mrcd-books/internal/ledger"
)

func TestListAccountsValidatesAndMaps(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "getChartOfAccounts", r.URL.Query().Get("action"))
		require.Equal(t, "tok", r.URL.Query().Get("token"))
		_, _ = w.Write([]byte(`{"success":true,"data":[
			{"accountCode":"1100","accountName":"Cash","accountType":"Asset",
			 "openingBalance":5000,"openingBalanceType":"Debit",
			 "openingBalanceAsOnDate":"2024-04-01","isActive":true},
			{"accountCode":"2100","accountName":"Loan","accountType":"Liability",
			 "openingBalance":"1000","openingBalanceAsOnDate":"2024-04-01"},
			{"accountCode":"","accountName":"Broken","accountType":"Asset"}
		]}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "tok", nil)
	accounts, err := client.ListAccounts(context.Background())
	require.NoError(t, err)
	require.Len(t, accounts, 2, "row without accountCode must be dropped")

	cash := accounts[0]
	assert.Equal(t, "1100", cash.Code)
	assert.Equal(t, ledger.AccountTypeAsset, cash.Type)
	assert.True(t, cash.OpeningBalance.Equal(dec(t, "5000")))
	assert.Equal(t, ledger.BalanceTypeDebit, cash.OpeningBalanceType)
	assert.True(t, cash.IsActive)

	loan := accounts[1]
	assert.True(t, loan.OpeningBalance.Equal(dec(t, "1000")), "quoted amounts must parse")
	assert.Equal(t, ledger.BalanceTypeCredit, loan.OpeningBalanceType, "missing type defaults by account nature")
	assert.True(t, loan.IsActive, "missing isActive defaults to active")
}

func TestListVouchersKeepsUndatedRows(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":true,"data":[
			{"voucherNo":"RV-001","voucherType":"Receipt","date":"2024-04-15",
			 "narration":"Donation","createdBy":"clerk",
			 "entries":[{"accountCode":"1100","debit":2000},{"accountCode":"4000","credit":2000}]},
			{"voucherNo":"JV-002","voucherType":"Journal","date":"not-a-date",
			 "narration":"legacy",
			 "entries":[{"accountCode":"1100","debit":1},{"accountCode":"4000","credit":1}]}
		]}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "tok", nil)
	vouchers, err := client.ListVouchers(context.Background())
	require.NoError(t, err)
	require.Len(t, vouchers, 2)

	assert.Equal(t, "RV-001", vouchers[0].No)
	assert.Equal(t, 15, vouchers[0].Date.Day())
	assert.True(t, vouchers[0].Entries[0].Debit.Equal(dec(t, "2000")))

	assert.True(t, vouchers[1].Date.IsZero(), "unparseable date becomes zero time for downstream warnings")
}

func TestBackendFailureSurfaces(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":false,"error":"Invalid token"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "tok", nil)
	_, err := client.ListAccounts(context.Background())
	require.ErrorIs(t, err, ErrBackend)
	assert.Contains(t, err.Error(), "Invalid token")
}

func TestAddVoucherPostsPayload(t *testing.T) {
	var captured map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		_, _ = w.Write([]byte(`{"success":true,"data":{"voucherNo":"RV-007"}}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "tok", nil)
	voucher := ledger.Voucher{
		No:        "RV-007",
		Type:      ledger.VoucherTypeReceipt,
		Date:      day(t, "2024-04-15"),
		Narration: "Donation",
		CreatedBy: "clerk",
		Entries: []ledger.Entry{
			{AccountCode: "1100", Debit: dec(t, "2000")},
			{AccountCode: "4000", Credit: dec(t, "2000")},
		},
	}
	number, err := client.AddVoucher(context.Background(), voucher)
	require.NoError(t, err)
	assert.Equal(t, "RV-007", number)

	assert.Equal(t, "addVoucher", captured["action"])
	assert.Equal(t, "tok", captured["token"])
	assert.Equal(t, "2024-04-15", captured["date"])
	assert.NotEmpty(t, captured["reference"], "submissions carry a de-duplication reference")
	entries, ok := captured["entries"].([]any)
	require.True(t, ok)
	require.Len(t, entries, 2)
}

func TestNextVoucherNumberWrappedForm(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Receipt", r.URL.Query().Get("voucherType"))
		_, _ = w.Write([]byte(`{"success":true,"data":{"voucherNo":"RV-008"}}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "tok", nil)
	number, err := client.NextVoucherNumber(context.Background(), ledger.VoucherTypeReceipt)
	require.NoError(t, err)
	assert.Equal(t, "RV-008", number)
}
