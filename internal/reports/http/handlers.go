// Package reporthttp exposes the bookkeeping reports over a JSON API.
package reporthttp

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"

	"github.com/mrcd-books/mrcd-books/internal/ledger"
	"github.com/mrcd-books/mrcd-books/internal/platform/httpx"
	"github.com/mrcd-books/mrcd-books/internal/reports"
	"github.com/mrcd-books/mrcd-books/internal/sheet"
)

const requestTimeout = 10 * time.Second

// Handler coordinates HTTP requests for ledger, trial balance, income &
// expenditure, balance sheet, and monthly summary reports.
type Handler struct {
	logger    *slog.Logger
	service   *reports.Service
	rateLimit func(http.Handler) http.Handler
}

// NewHandler constructs the reports HTTP handler. CSV exports are rate
// limited per client IP.
func NewHandler(logger *slog.Logger, service *reports.Service) *Handler {
	limiter := httprate.Limit(10, time.Minute, httprate.WithKeyFuncs(func(r *http.Request) (string, error) {
		host, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			return "ip:" + r.RemoteAddr, nil
		}
		return "ip:" + host, nil
	}))
	return &Handler{logger: logger, service: service, rateLimit: limiter}
}

// MountRoutes registers report routes on the given router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/ledger", h.handleLedger)
	r.Get("/trial-balance", h.handleTrialBalance)
	r.Get("/income-expenditure", h.handleIncomeExpenditure)
	r.Get("/balance-sheet", h.handleBalanceSheet)
	r.Get("/account-monthly", h.handleMonthlySummary)
	r.Group(func(r chi.Router) {
		r.Use(h.rateLimit)
		r.Get("/ledger/export.csv", h.handleLedgerCSV)
		r.Get("/trial-balance/export.csv", h.handleTrialBalanceCSV)
	})
}

func (h *Handler) handleLedger(w http.ResponseWriter, r *http.Request) {
	rep, ok := h.loadLedger(w, r)
	if !ok {
		return
	}
	httpx.JSON(w, http.StatusOK, LedgerFromDomain(rep))
}

func (h *Handler) handleTrialBalance(w http.ResponseWriter, r *http.Request) {
	tb, ok := h.loadTrialBalance(w, r)
	if !ok {
		return
	}
	httpx.JSON(w, http.StatusOK, TrialBalanceFromDomain(tb))
}

func (h *Handler) handleIncomeExpenditure(w http.ResponseWriter, r *http.Request) {
	from, to, ok := h.parseRange(w, r)
	if !ok {
		return
	}
	ctx, cancel := timeoutContext(r)
	defer cancel()
	ie, err := h.service.IncomeExpenditure(ctx, from, to)
	if err != nil {
		h.respondError(w, "income expenditure", err)
		return
	}
	httpx.JSON(w, http.StatusOK, IncomeExpenditureFromDomain(ie))
}

func (h *Handler) handleBalanceSheet(w http.ResponseWriter, r *http.Request) {
	asOn, ok := h.parseDate(w, r.URL.Query(), "asOnDate")
	if !ok {
		return
	}
	ctx, cancel := timeoutContext(r)
	defer cancel()
	bs, err := h.service.BalanceSheet(ctx, asOn)
	if err != nil {
		h.respondError(w, "balance sheet", err)
		return
	}
	httpx.JSON(w, http.StatusOK, BalanceSheetFromDomain(bs))
}

func (h *Handler) handleMonthlySummary(w http.ResponseWriter, r *http.Request) {
	fy := ledger.FinancialYear(strings.TrimSpace(r.URL.Query().Get("financialYear")))
	ctx, cancel := timeoutContext(r)
	defer cancel()
	ms, err := h.service.MonthlySummary(ctx, fy)
	if err != nil {
		if errors.Is(err, ledger.ErrInvalidFinancialYear) {
			httpx.Problem(w, http.StatusBadRequest, "Invalid Filter", err.Error())
			return
		}
		h.respondError(w, "monthly summary", err)
		return
	}
	httpx.JSON(w, http.StatusOK, MonthlySummaryFromDomain(ms))
}

func (h *Handler) loadLedger(w http.ResponseWriter, r *http.Request) (ledger.LedgerReport, bool) {
	q := r.URL.Query()
	accountCode := strings.TrimSpace(q.Get("accountCode"))
	if accountCode == "" {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Filter", "accountCode is required")
		return ledger.LedgerReport{}, false
	}
	from, to, ok := h.parseRange(w, r)
	if !ok {
		return ledger.LedgerReport{}, false
	}
	ctx, cancel := timeoutContext(r)
	defer cancel()
	rep, err := h.service.Ledger(ctx, accountCode, from, to)
	if err != nil {
		if errors.Is(err, ledger.ErrAccountNotFound) {
			httpx.Problem(w, http.StatusNotFound, "Not Found", "account "+accountCode+" not found")
			return ledger.LedgerReport{}, false
		}
		h.respondError(w, "ledger", err)
		return ledger.LedgerReport{}, false
	}
	return rep, true
}

func (h *Handler) loadTrialBalance(w http.ResponseWriter, r *http.Request) (ledger.TrialBalance, bool) {
	asOn, ok := h.parseDate(w, r.URL.Query(), "asOnDate")
	if !ok {
		return ledger.TrialBalance{}, false
	}
	ctx, cancel := timeoutContext(r)
	defer cancel()
	tb, err := h.service.TrialBalance(ctx, asOn)
	if err != nil {
		h.respondError(w, "trial balance", err)
		return ledger.TrialBalance{}, false
	}
	return tb, true
}

func (h *Handler) parseRange(w http.ResponseWriter, r *http.Request) (time.Time, time.Time, bool) {
	q := r.URL.Query()
	from, ok := h.parseDate(w, q, "fromDate")
	if !ok {
		return time.Time{}, time.Time{}, false
	}
	to, ok := h.parseDate(w, q, "toDate")
	if !ok {
		return time.Time{}, time.Time{}, false
	}
	if !from.IsZero() && !to.IsZero() && from.After(to) {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Filter", "fromDate is after toDate")
		return time.Time{}, time.Time{}, false
	}
	return from, to, true
}

func (h *Handler) parseDate(w http.ResponseWriter, q url.Values, key string) (time.Time, bool) {
	raw := strings.TrimSpace(q.Get(key))
	if raw == "" {
		return time.Time{}, true
	}
	d, err := time.Parse(dateLayout, raw)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Filter", key+" must be YYYY-MM-DD")
		return time.Time{}, false
	}
	return d, true
}

func (h *Handler) respondError(w http.ResponseWriter, op string, err error) {
	if errors.Is(err, ledger.ErrInvalidDateRange) {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Filter", err.Error())
		return
	}
	if errors.Is(err, sheet.ErrBackend) {
		h.logger.Error(op, slog.Any("error", err))
		httpx.RespondError(w, httpx.ErrUpstream)
		return
	}
	h.logger.Error(op, slog.Any("error", err))
	httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
}

func timeoutContext(r *http.Request) (ctx context.Context, cancel context.CancelFunc) {
	return context.WithTimeout(r.Context(), requestTimeout)
}
