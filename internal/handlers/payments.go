package handlers

import (
	"net/http"

	"github.com/Fi44er/storefront/internal/models"
	"github.com/Fi44er/storefront/internal/service"
	apperrors "github.com/Fi44er/storefront/pkg/errors"
	"github.com/Fi44er/storefront/pkg/response"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

type processPaymentRequest struct {
	OrderID  string                 `json:"orderId" validate:"required"`
	Amount   decimal.Decimal        `json:"amount"`
	Method   string                 `json:"method" validate:"required,oneof=CREDIT_CARD DEBIT_CARD BANK_TRANSFER CRYPTO CASH"`
	Gateway  string                 `json:"gateway" validate:"max=50"`
	Metadata map[string]interface{} `json:"metadata"`
}

type paymentStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

func (h *Handler) ProcessPayment(w http.ResponseWriter, r *http.Request) {
	var req processPaymentRequest
	if err := h.decode(r, &req, false); err != nil {
		response.Error(w, err)
		return
	}

	payment, err := h.svc.ProcessPayment(r.Context(), service.ProcessPaymentInput{
		OrderID:  req.OrderID,
		Amount:   req.Amount,
		Method:   req.Method,
		Gateway:  req.Gateway,
		Metadata: req.Metadata,
	}, requester(r))
	if err != nil {
		response.Error(w, err)
		return
	}
	response.Created(w, payment)
}

func (h *Handler) GetPayment(w http.ResponseWriter, r *http.Request) {
	payment, err := h.svc.GetPayment(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.Error(w, err)
		return
	}
	response.Success(w, payment)
}

func (h *Handler) GetPaymentByOrder(w http.ResponseWriter, r *http.Request) {
	payment, err := h.svc.GetPaymentByOrderID(r.Context(), chi.URLParam(r, "orderId"), requester(r))
	if err != nil {
		response.Error(w, err)
		return
	}
	response.Success(w, payment)
}

func (h *Handler) UpdatePaymentStatus(w http.ResponseWriter, r *http.Request) {
	var req paymentStatusRequest
	if err := h.decode(r, &req, false); err != nil {
		response.Error(w, err)
		return
	}
	status, err := models.ParsePaymentStatus(req.Status)
	if err != nil {
		response.Error(w, apperrors.Validation(err.Error(), err))
		return
	}

	payment, err := h.svc.UpdatePaymentStatus(r.Context(), chi.URLParam(r, "id"), status)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.Success(w, payment)
}

func (h *Handler) GetPaymentStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.GetPaymentStats(r.Context())
	if err != nil {
		response.Error(w, err)
		return
	}
	response.Success(w, stats)
}
