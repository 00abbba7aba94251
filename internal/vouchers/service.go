// Package vouchers manages voucher entry and deletion through the sheet
// backend. Vouchers are immutable once posted; corrections are delete plus
// re-entry.
package vouchers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/mrcd-books/mrcd-books/internal/ledger"
)

var (
	// ErrNotFound indicates the voucher number does not exist.
	ErrNotFound = errors.New("vouchers: voucher not found")
	// ErrUnknownAccount indicates an entry references a code missing from
	// the chart of accounts.
	ErrUnknownAccount = errors.New("vouchers: entry references unknown account")
	// ErrInactiveAccount indicates an entry references a deactivated account.
	ErrInactiveAccount = errors.New("vouchers: entry references inactive account")
)

// BackendPort is the subset of the sheet client the voucher service needs.
type BackendPort interface {
	ListAccounts(ctx context.Context) ([]ledger.Account, error)
	ListVouchers(ctx context.Context) ([]ledger.Voucher, error)
	NextVoucherNumber(ctx context.Context, voucherType ledger.VoucherType) (string, error)
	AddVoucher(ctx context.Context, v ledger.Voucher) (string, error)
	DeleteVoucher(ctx context.Context, voucherNo string) error
}

// Invalidator drops cached report snapshots after a backend write.
type Invalidator interface {
	Invalidate(ctx context.Context)
}

// Service enforces the double-entry identity on new vouchers before they
// reach the backend. Vouchers already persisted are never re-validated
// here; reports surface their defects as warnings instead.
type Service struct {
	backend BackendPort
	cache   Invalidator
	logger  *slog.Logger
}

// NewService constructs the voucher service. The cache may be nil.
func NewService(backend BackendPort, cache Invalidator, logger *slog.Logger) *Service {
	return &Service{backend: backend, cache: cache, logger: logger}
}

// ListFilter narrows the voucher listing.
type ListFilter struct {
	Type     ledger.VoucherType
	FromDate time.Time
	ToDate   time.Time
}

// List returns vouchers matching the filter, newest first.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]ledger.Voucher, error) {
	vouchers, err := s.backend.ListVouchers(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]ledger.Voucher, 0, len(vouchers))
	for _, v := range vouchers {
		if filter.Type != "" && v.Type != filter.Type {
			continue
		}
		if !filter.FromDate.IsZero() && v.Date.Before(filter.FromDate) {
			continue
		}
		if !filter.ToDate.IsZero() && v.Date.After(filter.ToDate) {
			continue
		}
		out = append(out, v)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].No > out[j].No
	})
	return out, nil
}

// Get returns a single voucher by number.
func (s *Service) Get(ctx context.Context, voucherNo string) (ledger.Voucher, error) {
	vouchers, err := s.backend.ListVouchers(ctx)
	if err != nil {
		return ledger.Voucher{}, err
	}
	for _, v := range vouchers {
		if v.No == voucherNo {
			return v, nil
		}
	}
	return ledger.Voucher{}, fmt.Errorf("%w: %s", ErrNotFound, voucherNo)
}

// NextNumber returns the next number in the per-type sequence.
func (s *Service) NextNumber(ctx context.Context, voucherType ledger.VoucherType) (string, error) {
	if !voucherType.Valid() {
		return "", fmt.Errorf("%w: %q", ledger.ErrInvalidVoucherType, voucherType)
	}
	return s.backend.NextVoucherNumber(ctx, voucherType)
}

// Create validates and posts a new voucher. The double-entry identity and
// account existence are checked here; a voucher that fails never reaches
// the backend.
func (s *Service) Create(ctx context.Context, v ledger.Voucher) (ledger.Voucher, error) {
	v.Narration = strings.TrimSpace(v.Narration)
	if err := v.Validate(); err != nil {
		return ledger.Voucher{}, err
	}
	accounts, err := s.backend.ListAccounts(ctx)
	if err != nil {
		return ledger.Voucher{}, err
	}
	active := make(map[string]bool, len(accounts))
	for _, a := range accounts {
		active[a.Code] = a.IsActive
	}
	for _, e := range v.Entries {
		if !e.Populated() {
			continue
		}
		isActive, ok := active[e.AccountCode]
		if !ok {
			return ledger.Voucher{}, fmt.Errorf("%w: %s", ErrUnknownAccount, e.AccountCode)
		}
		if !isActive {
			return ledger.Voucher{}, fmt.Errorf("%w: %s", ErrInactiveAccount, e.AccountCode)
		}
	}
	number, err := s.backend.AddVoucher(ctx, v)
	if err != nil {
		return ledger.Voucher{}, err
	}
	v.No = number
	s.logger.Info("voucher posted",
		slog.String("voucherNo", v.No),
		slog.String("voucherType", string(v.Type)),
		slog.String("date", v.Date.Format("2006-01-02")),
	)
	s.invalidate(ctx)
	return v, nil
}

// Delete removes a voucher by number.
func (s *Service) Delete(ctx context.Context, voucherNo string) error {
	voucherNo = strings.TrimSpace(voucherNo)
	if voucherNo == "" {
		return fmt.Errorf("%w: empty voucher number", ErrNotFound)
	}
	if _, err := s.Get(ctx, voucherNo); err != nil {
		return err
	}
	if err := s.backend.DeleteVoucher(ctx, voucherNo); err != nil {
		return err
	}
	s.logger.Info("voucher deleted", slog.String("voucherNo", voucherNo))
	s.invalidate(ctx)
	return nil
}

func (s *Service) invalidate(ctx context.Context) {
	if s.cache != nil {
		s.cache.Invalidate(ctx)
	}
}
