// Package accounts manages the chart of accounts through the sheet backend.
package accounts

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/mrcd-books/mrcd-books/internal/ledger"
)

var (
	// ErrCodeRequired indicates a missing account code.
	ErrCodeRequired = errors.New("accounts: account code required")
	// ErrNameRequired indicates a missing account name.
	ErrNameRequired = errors.New("accounts: account name required")
	// ErrInvalidType indicates an unknown account type.
	ErrInvalidType = errors.New("accounts: invalid account type")
	// ErrDuplicateCode indicates the account code is already in use.
	ErrDuplicateCode = errors.New("accounts: account code already exists")
	// ErrNotFound indicates the account code does not exist.
	ErrNotFound = errors.New("accounts: account not found")
	// ErrInvalidParent indicates the parent code references no account.
	ErrInvalidParent = errors.New("accounts: parent account not found")
)

// BackendPort is the subset of the sheet client the account service needs.
type BackendPort interface {
	ListAccounts(ctx context.Context) ([]ledger.Account, error)
	AddAccount(ctx context.Context, a ledger.Account) error
	UpdateAccount(ctx context.Context, a ledger.Account) error
	DeactivateAccount(ctx context.Context, accountCode string) error
}

// Invalidator drops cached report snapshots after a backend write.
type Invalidator interface {
	Invalidate(ctx context.Context)
}

// Service validates chart of accounts mutations and forwards them to the
// backend. Every successful write invalidates the report cache.
type Service struct {
	backend BackendPort
	cache   Invalidator
	logger  *slog.Logger
}

// NewService constructs the account service. The cache may be nil.
func NewService(backend BackendPort, cache Invalidator, logger *slog.Logger) *Service {
	return &Service{backend: backend, cache: cache, logger: logger}
}

// List returns the chart of accounts sorted by code. Inactive accounts are
// included only when requested; their history remains visible in reports
// either way.
func (s *Service) List(ctx context.Context, includeInactive bool) ([]ledger.Account, error) {
	accounts, err := s.backend.ListAccounts(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]ledger.Account, 0, len(accounts))
	for _, a := range accounts {
		if !includeInactive && !a.IsActive {
			continue
		}
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

// Get returns a single account by code.
func (s *Service) Get(ctx context.Context, code string) (ledger.Account, error) {
	accounts, err := s.backend.ListAccounts(ctx)
	if err != nil {
		return ledger.Account{}, err
	}
	for _, a := range accounts {
		if a.Code == code {
			return a, nil
		}
	}
	return ledger.Account{}, fmt.Errorf("%w: %s", ErrNotFound, code)
}

// Create validates and persists a new account. A missing opening balance
// type defaults to the natural side of the account type.
func (s *Service) Create(ctx context.Context, a ledger.Account) (ledger.Account, error) {
	a = normalise(a)
	a.IsActive = true
	if err := validate(a); err != nil {
		return ledger.Account{}, err
	}
	existing, err := s.backend.ListAccounts(ctx)
	if err != nil {
		return ledger.Account{}, err
	}
	for _, e := range existing {
		if e.Code == a.Code {
			return ledger.Account{}, fmt.Errorf("%w: %s", ErrDuplicateCode, a.Code)
		}
	}
	if a.Parent != "" && !codeExists(existing, a.Parent) {
		return ledger.Account{}, fmt.Errorf("%w: %s", ErrInvalidParent, a.Parent)
	}
	if err := s.backend.AddAccount(ctx, a); err != nil {
		return ledger.Account{}, err
	}
	s.logger.Info("account created", slog.String("accountCode", a.Code), slog.String("accountType", string(a.Type)))
	s.invalidate(ctx)
	return a, nil
}

// Update rewrites an existing account, keyed by code. The code itself is
// immutable; vouchers reference it.
func (s *Service) Update(ctx context.Context, code string, a ledger.Account) (ledger.Account, error) {
	a.Code = strings.TrimSpace(code)
	a = normalise(a)
	if err := validate(a); err != nil {
		return ledger.Account{}, err
	}
	existing, err := s.backend.ListAccounts(ctx)
	if err != nil {
		return ledger.Account{}, err
	}
	if !codeExists(existing, a.Code) {
		return ledger.Account{}, fmt.Errorf("%w: %s", ErrNotFound, a.Code)
	}
	if a.Parent != "" {
		if a.Parent == a.Code {
			return ledger.Account{}, fmt.Errorf("%w: %s", ErrInvalidParent, a.Parent)
		}
		if !codeExists(existing, a.Parent) {
			return ledger.Account{}, fmt.Errorf("%w: %s", ErrInvalidParent, a.Parent)
		}
	}
	if err := s.backend.UpdateAccount(ctx, a); err != nil {
		return ledger.Account{}, err
	}
	s.logger.Info("account updated", slog.String("accountCode", a.Code))
	s.invalidate(ctx)
	return a, nil
}

// Deactivate soft-deletes an account. Existing vouchers keep referencing it
// and reports keep rendering its history.
func (s *Service) Deactivate(ctx context.Context, code string) error {
	code = strings.TrimSpace(code)
	if code == "" {
		return ErrCodeRequired
	}
	existing, err := s.backend.ListAccounts(ctx)
	if err != nil {
		return err
	}
	if !codeExists(existing, code) {
		return fmt.Errorf("%w: %s", ErrNotFound, code)
	}
	if err := s.backend.DeactivateAccount(ctx, code); err != nil {
		return err
	}
	s.logger.Info("account deactivated", slog.String("accountCode", code))
	s.invalidate(ctx)
	return nil
}

func (s *Service) invalidate(ctx context.Context) {
	if s.cache != nil {
		s.cache.Invalidate(ctx)
	}
}

func normalise(a ledger.Account) ledger.Account {
	a.Code = strings.TrimSpace(a.Code)
	a.Name = strings.TrimSpace(a.Name)
	a.Parent = strings.TrimSpace(a.Parent)
	if a.OpeningBalanceType == "" {
		a.OpeningBalanceType = ledger.DefaultOpeningBalanceType(a.Type)
	}
	return a
}

func validate(a ledger.Account) error {
	if a.Code == "" {
		return ErrCodeRequired
	}
	if a.Name == "" {
		return ErrNameRequired
	}
	if !a.Type.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidType, a.Type)
	}
	return nil
}

func codeExists(accounts []ledger.Account, code string) bool {
	for _, a := range accounts {
		if a.Code == code {
			return true
		}
	}
	return false
}
