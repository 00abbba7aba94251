// Package reports orchestrates report generation: it fetches account and
// voucher snapshots from the sheet backend, caches them, and runs the pure
// ledger computations over them.
package reports

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/mrcd-books/mrcd-books/internal/ledger"
)

// BackendPort is the subset of the sheet client the report service needs.
type BackendPort interface {
	ListAccounts(ctx context.Context) ([]ledger.Account, error)
	ListVouchers(ctx context.Context) ([]ledger.Voucher, error)
}

// Service builds reports over cached backend snapshots. Concurrent
// identical snapshot loads are collapsed through singleflight so a burst of
// report requests costs one backend round trip.
type Service struct {
	backend BackendPort
	cache   *Cache
	logger  *slog.Logger
	group   singleflight.Group
	now     func() time.Time
}

// NewService constructs the report service. The cache may be nil, in which
// case every call fetches from the backend.
func NewService(backend BackendPort, cache *Cache, logger *slog.Logger) *Service {
	return &Service{backend: backend, cache: cache, logger: logger, now: time.Now}
}

// WithNow overrides the clock for testing.
func (s *Service) WithNow(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// Snapshot returns the current account and voucher snapshot, from cache
// when fresh.
func (s *Service) Snapshot(ctx context.Context) (ledger.Snapshot, error) {
	key, err := s.cache.BuildKey(ctx, "books", "snapshot")
	if err != nil {
		// Cache trouble must not take reports down; fall through to the
		// backend and log.
		s.warn("cache key", "error", err)
		return s.fetchSnapshot(ctx)
	}
	result, err, _ := s.group.Do(key, func() (interface{}, error) {
		var snap ledger.Snapshot
		err := s.cache.FetchJSON(ctx, key, &snap, func(ctx context.Context) (interface{}, error) {
			return s.fetchSnapshot(ctx)
		})
		return snap, err
	})
	if err != nil {
		return ledger.Snapshot{}, err
	}
	return result.(ledger.Snapshot), nil
}

// fetchSnapshot pulls accounts and vouchers from the backend in parallel.
func (s *Service) fetchSnapshot(ctx context.Context) (ledger.Snapshot, error) {
	var snap ledger.Snapshot
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		accounts, err := s.backend.ListAccounts(ctx)
		if err == nil {
			snap.Accounts = accounts
		}
		return err
	})
	g.Go(func() error {
		vouchers, err := s.backend.ListVouchers(ctx)
		if err == nil {
			snap.Vouchers = vouchers
		}
		return err
	})
	if err := g.Wait(); err != nil {
		return ledger.Snapshot{}, err
	}
	return snap, nil
}

// Invalidate bumps the cache version after a backend write.
func (s *Service) Invalidate(ctx context.Context) {
	if err := s.cache.Bump(ctx); err != nil {
		s.warn("cache bump", "error", err)
	}
}

// Ledger produces the account-wise ledger for [from, to]. A zero to
// defaults to today.
func (s *Service) Ledger(ctx context.Context, accountCode string, from, to time.Time) (ledger.LedgerReport, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return ledger.LedgerReport{}, err
	}
	if to.IsZero() {
		to = s.today()
	}
	return ledger.BuildLedger(snap, accountCode, from, to)
}

// TrialBalance produces the trial balance as of asOn (today when zero).
func (s *Service) TrialBalance(ctx context.Context, asOn time.Time) (ledger.TrialBalance, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return ledger.TrialBalance{}, err
	}
	if asOn.IsZero() {
		asOn = s.today()
	}
	return ledger.BuildTrialBalance(snap, asOn), nil
}

// IncomeExpenditure produces the period statement for [from, to].
func (s *Service) IncomeExpenditure(ctx context.Context, from, to time.Time) (ledger.IncomeExpenditure, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return ledger.IncomeExpenditure{}, err
	}
	if to.IsZero() {
		to = s.today()
	}
	return ledger.BuildIncomeExpenditure(snap, from, to)
}

// BalanceSheet produces the position statement as of asOn.
func (s *Service) BalanceSheet(ctx context.Context, asOn time.Time) (ledger.BalanceSheet, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return ledger.BalanceSheet{}, err
	}
	if asOn.IsZero() {
		asOn = s.today()
	}
	return ledger.BuildBalanceSheet(snap, asOn), nil
}

// MonthlySummary produces the account-wise monthly breakdown for a
// financial year; empty means the current one.
func (s *Service) MonthlySummary(ctx context.Context, fy ledger.FinancialYear) (ledger.MonthlySummary, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return ledger.MonthlySummary{}, err
	}
	if fy == "" {
		fy = ledger.CurrentFinancialYear(s.now())
	}
	return ledger.BuildMonthlySummary(snap, fy)
}

func (s *Service) today() time.Time {
	n := s.now()
	return time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, n.Location())
}

func (s *Service) warn(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Warn(msg, args...)
	}
}
