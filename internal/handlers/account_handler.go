package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/clearpay/ledger/internal/services"
)

type AccountHandler struct {
	service   *services.AccountService
	validator *services.ValidationHelper
}

func NewAccountHandler(service *services.AccountService) *AccountHandler {
	return &AccountHandler{
		service:   service,
		validator: services.NewValidationHelper(),
	}
}

type CreateAccountRequest struct {
	UserID         int64       `json:"user_id" validate:"required,gt=0"`
	Currency       string      `json:"currency" validate:"required,len=3"`
	InitialBalance MajorAmount `json:"initial_balance"`
}

type AccountResponse struct {
	ID       int64  `json:"id"`
	UserID   int64  `json:"user_id"`
	Currency string `json:"currency"`
	Balance  string `json:"balance"`
	Status   string `json:"status"`
}

// CreateAccount opens a new account
// @Summary Create an account
// @Tags accounts
// @Accept json
// @Produce json
// @Param account body CreateAccountRequest true "Account data"
// @Success 201 {object} AccountResponse
// @Failure 400 {object} services.ErrorResponse
// @Router /accounts [post]
func (h *AccountHandler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	maxBytes := 1_048_576 // 1 MB
	r.Body = http.MaxBytesReader(w, r.Body, int64(maxBytes))

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	var req CreateAccountRequest
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

	var initialBalance int64
	if req.InitialBalance != "" {
		var err error
		initialBalance, err = req.InitialBalance.ToMinorUnits()
		if err != nil {
			services.SendErrorResponse(w, err.Error(), http.StatusBadRequest, nil)
			return
		}
	}

	account, err := h.service.CreateAccount(r.Context(), req.UserID, req.Currency, initialBalance)
	if err != nil {
		log.Printf("[ACCOUNT] creation failed: %v", err)
		services.SendErrorResponse(w, "Failed to create account", http.StatusInternalServerError, nil)
		return
	}

	writeJSON(w, http.StatusCreated, AccountResponse{
		ID:       account.ID,
		UserID:   account.UserID,
		Currency: account.Currency,
		Balance:  FormatMinorUnits(account.Balance),
		Status:   account.Status,
	})
}

// BalanceEnquiry returns the current balance of an account
// @Summary Account balance enquiry
// @Tags accounts
// @Produce json
// @Param accountId path int true "Account ID"
// @Success 200 {object} AccountResponse
// @Failure 404 {object} services.ErrorResponse
// @Router /accounts/{accountId}/balance [get]
func (h *AccountHandler) BalanceEnquiry(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "accountId"), 10, 64)
	if err != nil {
		services.SendErrorResponse(w, "Invalid account id", http.StatusBadRequest, nil)
		return
	}

	account, err := h.service.GetAccount(r.Context(), id)
	if errors.Is(err, services.ErrAccountNotFound) {
		services.SendErrorResponse(w, err.Error(), http.StatusNotFound, nil)
		return
	}
	if err != nil {
		log.Printf("[ACCOUNT] lookup of %d failed: %v", id, err)
		services.SendErrorResponse(w, "Failed to load account", http.StatusInternalServerError, nil)
		return
	}

	writeJSON(w, http.StatusOK, AccountResponse{
		ID:       account.ID,
		UserID:   account.UserID,
		Currency: account.Currency,
		Balance:  FormatMinorUnits(account.Balance),
		Status:   account.Status,
	})
}
