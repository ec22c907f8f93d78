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

type adjustBalanceRequest struct {
	Amount        decimal.Decimal `json:"amount"`
	Type          string          `json:"type" validate:"required"`
	Reason        string          `json:"reason" validate:"required,max=500"`
	ReferenceID   string          `json:"referenceId" validate:"max=64"`
	ReferenceType string          `json:"referenceType" validate:"max=32"`
}

type balanceResponse struct {
	UserID  string          `json:"userId"`
	Balance decimal.Decimal `json:"balance"`
}

// balanceOwner resolves the {id} path parameter; "me" or a missing id means
// the caller. Only admins may read someone else's ledger.
func balanceOwner(r *http.Request) (string, error) {
	who := requester(r)
	id := chi.URLParam(r, "id")
	if id == "" || id == "me" {
		return who.UserID, nil
	}
	if id != who.UserID && !who.IsAdmin {
		return "", apperrors.Forbidden("cannot access another user's balance", nil)
	}
	return id, nil
}

func (h *Handler) GetBalance(w http.ResponseWriter, r *http.Request) {
	userID, err := balanceOwner(r)
	if err != nil {
		response.Error(w, err)
		return
	}

	balance, err := h.svc.GetBalance(r.Context(), userID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.Success(w, balanceResponse{UserID: userID, Balance: balance})
}

func (h *Handler) GetBalanceHistory(w http.ResponseWriter, r *http.Request) {
	userID, err := balanceOwner(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	page, err := pageFromQuery(r)
	if err != nil {
		response.Error(w, err)
		return
	}

	history, total, page, err := h.svc.GetBalanceHistory(r.Context(), userID, page)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.Paginated(w, history, total, page.Page, page.Limit)
}

func (h *Handler) AdjustBalance(w http.ResponseWriter, r *http.Request) {
	var req adjustBalanceRequest
	if err := h.decode(r, &req, false); err != nil {
		response.Error(w, err)
		return
	}
	txType, err := models.ParseBalanceTransactionType(req.Type)
	if err != nil {
		response.Error(w, apperrors.Validation(err.Error(), err))
		return
	}

	user, err := h.svc.AdjustBalance(r.Context(), chi.URLParam(r, "id"), service.AdjustBalanceInput{
		Amount:        req.Amount,
		Type:          txType,
		Reason:        req.Reason,
		ReferenceID:   req.ReferenceID,
		ReferenceType: req.ReferenceType,
	})
	if err != nil {
		response.Error(w, err)
		return
	}
	response.Success(w, balanceResponse{UserID: user.ID, Balance: user.Balance})
}

func (h *Handler) ReconcileBalance(w http.ResponseWriter, r *http.Request) {
	rec, err := h.svc.ReconcileBalance(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.Error(w, err)
		return
	}
	response.Success(w, rec)
}
