package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/clearpay/ledger/internal/models"
	"github.com/clearpay/ledger/internal/services"
)

const defaultCurrency = "INR"

var (
	transfersTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ledger_transfers_total",
		Help: "Transfer attempts by outcome.",
	}, []string{"outcome"})

	transferDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "ledger_transfer_duration_seconds",
		Help:    "Transfer processing latency.",
		Buckets: prometheus.DefBuckets,
	})
)

type TransferHandler struct {
	service   *services.TransferService
	iso       *services.ISO20022Service
	validator *services.ValidationHelper
}

func NewTransferHandler(service *services.TransferService, iso *services.ISO20022Service) *TransferHandler {
	return &TransferHandler{
		service:   service,
		iso:       iso,
		validator: services.NewValidationHelper(),
	}
}

type TransferRequest struct {
	FromAccountID int64           `json:"from_account_id" validate:"required,gt=0"`
	ToAccountID   int64           `json:"to_account_id" validate:"required,gt=0"`
	Amount        MajorAmount     `json:"amount" validate:"required"`
	Currency      string          `json:"currency" validate:"omitempty,len=3"`
	Metadata      models.Metadata `json:"metadata"`
}

type TransferResponse struct {
	ID            int64           `json:"id"`
	FromAccountID int64           `json:"from_account_id"`
	ToAccountID   int64           `json:"to_account_id"`
	Amount        string          `json:"amount"`
	Currency      string          `json:"currency"`
	Status        string          `json:"status"`
	Metadata      models.Metadata `json:"metadata,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	CompletedAt   *time.Time      `json:"completed_at,omitempty"`
}

func newTransferResponse(t *models.Transfer) TransferResponse {
	return TransferResponse{
		ID:            t.ID,
		FromAccountID: t.FromAccountID,
		ToAccountID:   t.ToAccountID,
		Amount:        FormatMinorUnits(t.Amount),
		Currency:      t.Currency,
		Status:        t.Status,
		Metadata:      t.Metadata,
		CreatedAt:     t.CreatedAt,
		CompletedAt:   t.CompletedAt,
	}
}

// CreateTransfer executes a transfer between two accounts
// @Summary Create a transfer
// @Description Move funds between two accounts, exactly once per Idempotency-Key
// @Tags transfers
// @Accept json
// @Produce json
// @Param Idempotency-Key header string false "Client idempotency token"
// @Param transfer body TransferRequest true "Transfer data"
// @Success 200 {object} TransferResponse
// @Failure 400 {object} services.ErrorResponse
// @Failure 409 {object} services.ErrorResponse
// @Failure 500 {object} services.ErrorResponse
// @Router /transfers [post]
func (h *TransferHandler) CreateTransfer(w http.ResponseWriter, r *http.Request) {
	timer := prometheus.NewTimer(transferDuration)
	defer timer.ObserveDuration()

	maxBytes := 1_048_576 // 1 MB
	r.Body = http.MaxBytesReader(w, r.Body, int64(maxBytes))

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	var req TransferRequest
	if err := dec.Decode(&req); err != nil {
		services.SendErrorResponse(w, "Invalid request body", http.StatusBadRequest, nil)
		return
	}

	if err := dec.Decode(&struct{}{}); err != io.EOF {
		services.SendErrorResponse(w, "Request body must only contain a single JSON object", http.StatusBadRequest, nil)
		return
	}

	if err := h.validator.ValidateStruct(&req); err != nil {
		services.SendErrorResponse(w, "Validation failed", http.StatusBadRequest, err)
		return
	}

	amount, err := req.Amount.ToMinorUnits()
	if err != nil {
		services.SendErrorResponse(w, err.Error(), http.StatusBadRequest, nil)
		return
	}

	currency := req.Currency
	if currency == "" {
		currency = defaultCurrency
	}

	token := r.Header.Get("Idempotency-Key")

	transfer, err := h.service.Transfer(r.Context(), token, req.FromAccountID, req.ToAccountID, amount, currency, req.Metadata)
	if err != nil {
		h.writeTransferError(w, err)
		return
	}

	transfersTotal.WithLabelValues("completed").Inc()
	writeJSON(w, http.StatusOK, newTransferResponse(transfer))
}

// GetTransfer returns a transfer by id
// @Summary Get a transfer
// @Tags transfers
// @Produce json
// @Param transferId path int true "Transfer ID"
// @Success 200 {object} TransferResponse
// @Failure 404 {object} services.ErrorResponse
// @Router /transfers/{transferId} [get]
func (h *TransferHandler) GetTransfer(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "transferId"), 10, 64)
	if err != nil {
		services.SendErrorResponse(w, "Invalid transfer id", http.StatusBadRequest, nil)
		return
	}

	transfer, err := h.service.GetTransfer(r.Context(), id)
	if errors.Is(err, services.ErrTransferNotFound) {
		services.SendErrorResponse(w, err.Error(), http.StatusNotFound, nil)
		return
	}
	if err != nil {
		log.Printf("[TRANSFER] lookup of %d failed: %v", id, err)
		services.SendErrorResponse(w, "Failed to load transfer", http.StatusInternalServerError, nil)
		return
	}

	writeJSON(w, http.StatusOK, newTransferResponse(transfer))
}

// ExportISO20022 renders a completed transfer as a pacs.008 message
// @Summary Export a transfer as ISO 20022
// @Tags transfers
// @Produce xml
// @Param transferId path int true "Transfer ID"
// @Success 200 {string} string "pacs.008 XML document"
// @Failure 404 {object} services.ErrorResponse
// @Router /transfers/{transferId}/iso20022 [get]
func (h *TransferHandler) ExportISO20022(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "transferId"), 10, 64)
	if err != nil {
		services.SendErrorResponse(w, "Invalid transfer id", http.StatusBadRequest, nil)
		return
	}

	transfer, err := h.service.GetTransfer(r.Context(), id)
	if errors.Is(err, services.ErrTransferNotFound) {
		services.SendErrorResponse(w, err.Error(), http.StatusNotFound, nil)
		return
	}
	if err != nil {
		log.Printf("[TRANSFER] lookup of %d failed: %v", id, err)
		services.SendErrorResponse(w, "Failed to load transfer", http.StatusInternalServerError, nil)
		return
	}

	doc, err := h.iso.CreatePacs008(transfer)
	if err != nil {
		services.SendErrorResponse(w, err.Error(), http.StatusBadRequest, nil)
		return
	}

	xmlData, err := h.iso.ConvertToXML(doc)
	if err != nil {
		log.Printf("[TRANSFER] pacs.008 export of %d failed: %v", id, err)
		services.SendErrorResponse(w, "Failed to export transfer", http.StatusInternalServerError, nil)
		return
	}

	w.Header().Set("Content-Type", "application/xml")
	w.Write([]byte(xmlData))
}

func (h *TransferHandler) writeTransferError(w http.ResponseWriter, err error) {
	switch {
	case services.IsValidationError(err):
		transfersTotal.WithLabelValues("validation_failed").Inc()
		services.SendErrorResponse(w, err.Error(), http.StatusBadRequest, nil)
	case services.IsConflictError(err):
		transfersTotal.WithLabelValues("conflict").Inc()
		services.SendErrorResponse(w, err.Error(), http.StatusConflict, nil)
	default:
		transfersTotal.WithLabelValues("error").Inc()
		log.Printf("[TRANSFER] request failed: %v", err)
		services.SendErrorResponse(w, "Failed to process transfer", http.StatusInternalServerError, nil)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
