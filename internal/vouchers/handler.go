package vouchers

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

// Handler exposes voucher entry over a JSON API.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler constructs the vouchers HTTP handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers voucher routes on the given router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.handleList)
	r.Post("/", h.handleCreate)
	r.Get("/next-number", h.handleNextNumber)
	r.Get("/{voucherNo}", h.handleGet)
	r.Delete("/{voucherNo}", h.handleDelete)
}

type entryRequest struct {
	AccountCode string      `json:"accountCode"`
	Debit       json.Number `json:"debit"`
	Credit      json.Number `json:"credit"`
}

type voucherRequest struct {
	VoucherType string         `json:"voucherType"`
	Date        string         `json:"date"`
	Narration   string         `json:"narration"`
	Entries     []entryRequest `json:"entries"`
	CreatedBy   string         `json:"createdBy"`
}

type entryResponse struct {
	AccountCode string `json:"accountCode"`
	Debit       string `json:"debit"`
	Credit      string `json:"credit"`
}

type voucherResponse struct {
	VoucherNo   string          `json:"voucherNo"`
	VoucherType string          `json:"voucherType"`
	Date        string          `json:"date"`
	Narration   string          `json:"narration"`
	Entries     []entryResponse `json:"entries"`
	CreatedBy   string          `json:"createdBy,omitempty"`
}

func toResponse(v ledger.Voucher) voucherResponse {
	resp := voucherResponse{
		VoucherNo:   v.No,
		VoucherType: string(v.Type),
		Narration:   v.Narration,
		CreatedBy:   v.CreatedBy,
	}
	if !v.Date.IsZero() {
		resp.Date = v.Date.Format(dateLayout)
	}
	resp.Entries = make([]entryResponse, 0, len(v.Entries))
	for _, e := range v.Entries {
		resp.Entries = append(resp.Entries, entryResponse{
			AccountCode: e.AccountCode,
			Debit:       e.Debit.Round(2).StringFixed(2),
			Credit:      e.Credit.Round(2).StringFixed(2),
		})
	}
	return resp
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	filter, ok := h.parseFilter(w, r)
	if !ok {
		return
	}
	vouchers, err := h.service.List(r.Context(), filter)
	if err != nil {
		h.respondError(w, "list vouchers", err)
		return
	}
	out := make([]voucherResponse, 0, len(vouchers))
	for _, v := range vouchers {
		out = append(out, toResponse(v))
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	voucher, err := h.service.Get(r.Context(), chi.URLParam(r, "voucherNo"))
	if err != nil {
		h.respondError(w, "get voucher", err)
		return
	}
	httpx.JSON(w, http.StatusOK, toResponse(voucher))
}

func (h *Handler) handleNextNumber(w http.ResponseWriter, r *http.Request) {
	voucherType := ledger.VoucherType(r.URL.Query().Get("voucherType"))
	number, err := h.service.NextNumber(r.Context(), voucherType)
	if err != nil {
		h.respondError(w, "next voucher number", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"voucherNo": number})
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	voucher, ok := h.decode(w, r)
	if !ok {
		return
	}
	created, err := h.service.Create(r.Context(), voucher)
	if err != nil {
		h.respondError(w, "create voucher", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, toResponse(created))
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "voucherNo")); err != nil {
		h.respondError(w, "delete voucher", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) parseFilter(w http.ResponseWriter, r *http.Request) (ListFilter, bool) {
	q := r.URL.Query()
	filter := ListFilter{Type: ledger.VoucherType(q.Get("voucherType"))}
	if filter.Type != "" && !filter.Type.Valid() {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Filter", "unknown voucherType")
		return ListFilter{}, false
	}
	for key, dst := range map[string]*time.Time{"fromDate": &filter.FromDate, "toDate": &filter.ToDate} {
		raw := q.Get(key)
		if raw == "" {
			continue
		}
		d, err := time.Parse(dateLayout, raw)
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Invalid Filter", key+" must be YYYY-MM-DD")
			return ListFilter{}, false
		}
		*dst = d
	}
	return filter, true
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request) (ledger.Voucher, bool) {
	var req voucherRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Request", "malformed JSON body")
		return ledger.Voucher{}, false
	}
	voucher := ledger.Voucher{
		Type:      ledger.VoucherType(req.VoucherType),
		Narration: req.Narration,
		CreatedBy: req.CreatedBy,
	}
	if req.Date != "" {
		d, err := time.Parse(dateLayout, req.Date)
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Invalid Request", "date must be YYYY-MM-DD")
			return ledger.Voucher{}, false
		}
		voucher.Date = d
	}
	voucher.Entries = make([]ledger.Entry, 0, len(req.Entries))
	for _, e := range req.Entries {
		entry := ledger.Entry{AccountCode: e.AccountCode}
		var err error
		if entry.Debit, err = parseAmount(e.Debit); err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Invalid Request", "debit must be a decimal number")
			return ledger.Voucher{}, false
		}
		if entry.Credit, err = parseAmount(e.Credit); err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Invalid Request", "credit must be a decimal number")
			return ledger.Voucher{}, false
		}
		voucher.Entries = append(voucher.Entries, entry)
	}
	return voucher, true
}

func parseAmount(n json.Number) (decimal.Decimal, error) {
	if n == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(n.String())
}

func (h *Handler) respondError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		httpx.Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, ledger.ErrUnbalanced), errors.Is(err, ledger.ErrTooFewEntries),
		errors.Is(err, ledger.ErrNarrationRequired), errors.Is(err, ledger.ErrDateRequired),
		errors.Is(err, ledger.ErrInvalidVoucherType), errors.Is(err, ledger.ErrInvalidEntry),
		errors.Is(err, ErrUnknownAccount), errors.Is(err, ErrInactiveAccount):
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
	case errors.Is(err, sheet.ErrBackend):
		h.logger.Error(op, slog.Any("error", err))
		httpx.RespondError(w, httpx.ErrUpstream)
	default:
		h.logger.Error(op, slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}
