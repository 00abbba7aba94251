package accounts

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/mrcd-books/mrcd-books/internal/ledger"
	"github.com/mrcd-books/mrcd-books/internal/platform/httpx"
	"github.com/mrcd-books/mrcd-books/internal/sheet"
)

const dateLayout = "2006-01-02"

// Handler exposes the chart of accounts over a JSON API.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler constructs the accounts HTTP handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers account routes on the given router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.handleList)
	r.Post("/", h.handleCreate)
	r.Get("/{code}", h.handleGet)
	r.Put("/{code}", h.handleUpdate)
	r.Delete("/{code}", h.handleDeactivate)
}

type accountRequest struct {
	AccountCode        string      `json:"accountCode"`
	AccountName        string      `json:"accountName"`
	AccountType        string      `json:"accountType"`
	Parent             string      `json:"parent"`
	OpeningBalance     json.Number `json:"openingBalance"`
	OpeningBalanceType string      `json:"openingBalanceType"`
	OpeningBalanceAsOn string      `json:"openingBalanceAsOnDate"`
	IsActive           *bool       `json:"isActive"`
}

type accountResponse struct {
	AccountCode        string `json:"accountCode"`
	AccountName        string `json:"accountName"`
	AccountType        string `json:"accountType"`
	Parent             string `json:"parent,omitempty"`
	OpeningBalance     string `json:"openingBalance"`
	OpeningBalanceType string `json:"openingBalanceType"`
	OpeningBalanceAsOn string `json:"openingBalanceAsOnDate,omitempty"`
	IsActive           bool   `json:"isActive"`
}

func toResponse(a ledger.Account) accountResponse {
	resp := accountResponse{
		AccountCode:        a.Code,
		AccountName:        a.Name,
		AccountType:        string(a.Type),
		Parent:             a.Parent,
		OpeningBalance:     a.OpeningBalance.Round(2).StringFixed(2),
		OpeningBalanceType: string(a.OpeningBalanceType),
		IsActive:           a.IsActive,
	}
	if !a.OpeningBalanceAsOn.IsZero() {
		resp.OpeningBalanceAsOn = a.OpeningBalanceAsOn.Format(dateLayout)
	}
	return resp
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	includeInactive := r.URL.Query().Get("includeInactive") == "true"
	accounts, err := h.service.List(r.Context(), includeInactive)
	if err != nil {
		h.respondError(w, "list accounts", err)
		return
	}
	out := make([]accountResponse, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, toResponse(a))
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	account, err := h.service.Get(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		h.respondError(w, "get account", err)
		return
	}
	httpx.JSON(w, http.StatusOK, toResponse(account))
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	account, ok := h.decode(w, r)
	if !ok {
		return
	}
	created, err := h.service.Create(r.Context(), account)
	if err != nil {
		h.respondError(w, "create account", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, toResponse(created))
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	account, ok := h.decode(w, r)
	if !ok {
		return
	}
	updated, err := h.service.Update(r.Context(), chi.URLParam(r, "code"), account)
	if err != nil {
		h.respondError(w, "update account", err)
		return
	}
	httpx.JSON(w, http.StatusOK, toResponse(updated))
}

func (h *Handler) handleDeactivate(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Deactivate(r.Context(), chi.URLParam(r, "code")); err != nil {
		h.respondError(w, "deactivate account", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request) (ledger.Account, bool) {
	var req accountRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Request", "malformed JSON body")
		return ledger.Account{}, false
	}
	account := ledger.Account{
		Code:               req.AccountCode,
		Name:               req.AccountName,
		Type:               ledger.AccountType(req.AccountType),
		Parent:             req.Parent,
		OpeningBalanceType: ledger.BalanceType(req.OpeningBalanceType),
		IsActive:           true,
	}
	if req.IsActive != nil {
		account.IsActive = *req.IsActive
	}
	if req.OpeningBalance != "" {
		amount, err := decimal.NewFromString(req.OpeningBalance.String())
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Invalid Request", "openingBalance must be a decimal number")
			return ledger.Account{}, false
		}
		account.OpeningBalance = amount
	}
	if req.OpeningBalanceAsOn != "" {
		asOn, err := time.Parse(dateLayout, req.OpeningBalanceAsOn)
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Invalid Request", "openingBalanceAsOnDate must be YYYY-MM-DD")
			return ledger.Account{}, false
		}
		account.OpeningBalanceAsOn = asOn
	}
	return account, true
}

func (h *Handler) respondError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		httpx.Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, ErrDuplicateCode):
		httpx.Problem(w, http.StatusConflict, "Duplicate", err.Error())
	case errors.Is(err, ErrCodeRequired), errors.Is(err, ErrNameRequired),
		errors.Is(err, ErrInvalidType), errors.Is(err, ErrInvalidParent):
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
	case errors.Is(err, sheet.ErrBackend):
		h.logger.Error(op, slog.Any("error", err))
		httpx.RespondError(w, httpx.ErrUpstream)
	default:
		h.logger.Error(op, slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}
