package vouchers

import (
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrcd-books/mrcd-books/internal/ledger"
)

type fakeBackend struct {
	accounts   []ledger.Account
	vouchers   []ledger.Voucher
	nextNumber string
	added      []ledger.Voucher
	deleted    []string
}

func (f *fakeBackend) ListAccounts(ctx context.Context) ([]ledger.Account, error) {
	return f.accounts, nil
}

func (f *fakeBackend) ListVouchers(ctx context.Context) ([]ledger.Voucher, error) {
	return f.vouchers, nil
}

func (f *fakeBackend) NextVoucherNumber(ctx context.Context, voucherType ledger.VoucherType) (string, error) {
	return f.nextNumber, nil
}

func (f *fakeBackend) AddVoucher(ctx context.Context, v ledger.Voucher) (string, error) {
	f.added = append(f.added, v)
	if v.No != "" {
		return v.No, nil
	}
	return f.nextNumber, nil
}

func (f *fakeBackend) DeleteVoucher(ctx context.Context, voucherNo string) error {
	f.deleted = append(f.deleted, voucherNo)
	return nil
}

type fakeInvalidator struct{ calls int }

func (f *fakeInvalidator) Invalidate(ctx context.Context) { f.calls++ }

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&strings.Builder{}, nil))
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func amt(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func chart() []ledger.Account {
	return []ledger.Account{
		{Code: "1100", Name: "Cash", Type: ledger.AccountTypeAsset, IsActive: true},
		{Code: "4000", Name: "Donations", Type: ledger.AccountTypeIncome, IsActive: true},
		{Code: "5000", Name: "Old Expense", Type: ledger.AccountTypeExpense, IsActive: false},
	}
}

func receipt() ledger.Voucher {
	return ledger.Voucher{
		Type:      ledger.VoucherTypeReceipt,
		Date:      day(2024, time.April, 15),
		Narration: "Donation received",
		Entries: []ledger.Entry{
			{AccountCode: "1100", Debit: amt("2000")},
			{AccountCode: "4000", Credit: amt("2000")},
		},
	}
}

func TestCreatePostsBalancedVoucher(t *testing.T) {
	backend := &fakeBackend{accounts: chart(), nextNumber: "RV-001"}
	cache := &fakeInvalidator{}
	svc := NewService(backend, cache, testLogger())

	created, err := svc.Create(context.Background(), receipt())
	require.NoError(t, err)
	assert.Equal(t, "RV-001", created.No)
	require.Len(t, backend.added, 1)
	assert.Equal(t, 1, cache.calls, "posting must invalidate the report cache")
}

func TestCreateRejectsUnbalanced(t *testing.T) {
	backend := &fakeBackend{accounts: chart()}
	svc := NewService(backend, nil, testLogger())

	v := receipt()
	v.Entries[1].Credit = amt("1999")
	_, err := svc.Create(context.Background(), v)
	require.ErrorIs(t, err, ledger.ErrUnbalanced)
	assert.Empty(t, backend.added, "invalid vouchers must never reach the backend")
}

func TestCreateToleratesSubPaisaRounding(t *testing.T) {
	backend := &fakeBackend{accounts: chart(), nextNumber: "RV-002"}
	svc := NewService(backend, nil, testLogger())

	v := receipt()
	v.Entries[0].Debit = amt("2000.009")
	v.Entries[1].Credit = amt("2000.00")
	_, err := svc.Create(context.Background(), v)
	require.NoError(t, err)
}

func TestCreateRejectsUnknownAccount(t *testing.T) {
	backend := &fakeBackend{accounts: chart()}
	svc := NewService(backend, nil, testLogger())

	v := receipt()
	v.Entries[0].AccountCode = "9999"
	_, err := svc.Create(context.Background(), v)
	require.ErrorIs(t, err, ErrUnknownAccount)
}

func TestCreateRejectsInactiveAccount(t *testing.T) {
	backend := &fakeBackend{accounts: chart()}
	svc := NewService(backend, nil, testLogger())

	v := receipt()
	v.Entries[0].AccountCode = "5000"
	_, err := svc.Create(context.Background(), v)
	require.ErrorIs(t, err, ErrInactiveAccount)
}

func TestCreateRequiresNarrationAndDate(t *testing.T) {
	svc := NewService(&fakeBackend{accounts: chart()}, nil, testLogger())
	ctx := context.Background()

	v := receipt()
	v.Narration = "   "
	_, err := svc.Create(ctx, v)
	require.ErrorIs(t, err, ledger.ErrNarrationRequired)

	v = receipt()
	v.Date = time.Time{}
	_, err = svc.Create(ctx, v)
	require.ErrorIs(t, err, ledger.ErrDateRequired)
}

func TestListFiltersAndSorts(t *testing.T) {
	backend := &fakeBackend{vouchers: []ledger.Voucher{
		{No: "PV-001", Type: ledger.VoucherTypePayment, Date: day(2024, time.April, 10)},
		{No: "RV-002", Type: ledger.VoucherTypeReceipt, Date: day(2024, time.April, 20)},
		{No: "RV-001", Type: ledger.VoucherTypeReceipt, Date: day(2024, time.April, 15)},
	}}
	svc := NewService(backend, nil, testLogger())

	receipts, err := svc.List(context.Background(), ListFilter{Type: ledger.VoucherTypeReceipt})
	require.NoError(t, err)
	require.Len(t, receipts, 2)
	assert.Equal(t, "RV-002", receipts[0].No, "newest first")

	april, err := svc.List(context.Background(), ListFilter{
		FromDate: day(2024, time.April, 12),
		ToDate:   day(2024, time.April, 18),
	})
	require.NoError(t, err)
	require.Len(t, april, 1)
	assert.Equal(t, "RV-001", april[0].No)
}

func TestDelete(t *testing.T) {
	backend := &fakeBackend{vouchers: []ledger.Voucher{{No: "RV-001", Type: ledger.VoucherTypeReceipt, Date: day(2024, time.April, 15)}}}
	cache := &fakeInvalidator{}
	svc := NewService(backend, cache, testLogger())

	require.NoError(t, svc.Delete(context.Background(), "RV-001"))
	assert.Equal(t, []string{"RV-001"}, backend.deleted)
	assert.Equal(t, 1, cache.calls)

	err := svc.Delete(context.Background(), "RV-999")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestNextNumberValidatesType(t *testing.T) {
	backend := &fakeBackend{nextNumber: "JV-005"}
	svc := NewService(backend, nil, testLogger())

	number, err := svc.NextNumber(context.Background(), ledger.VoucherTypeJournal)
	require.NoError(t, err)
	assert.Equal(t, "JV-005", number)

	_, err = svc.NextNumber(context.Background(), "Transfer")
	require.ErrorIs(t, err, ledger.ErrInvalidVoucherType)
}
