package handlers

import (
	"context"
	"net/http"

	"github.com/Fi44er/storefront/internal/models"
	"github.com/Fi44er/storefront/internal/service"
	apperrors "github.com/Fi44er/storefront/pkg/errors"
	"github.com/Fi44er/storefront/pkg/response"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

type createTopupRequest struct {
	Amount          decimal.Decimal `json:"amount"`
	CryptoAccountID string          `json:"cryptoAccountId" validate:"required"`
	PaymentProofURL string          `json:"paymentProofUrl" validate:"omitempty,max=500"`
}

type processTopupRequest struct {
	AdminNotes *string `json:"adminNotes" validate:"omitempty,max=1000"`
}

func (h *Handler) CreateTopup(w http.ResponseWriter, r *http.Request) {
	var req createTopupRequest
	if err := h.decode(r, &req, false); err != nil {
		response.Error(w, err)
		return
	}

	topup, err := h.svc.CreateTopupRequest(r.Context(), requester(r).UserID, service.CreateTopupInput{
		Amount:          req.Amount,
		CryptoAccountID: req.CryptoAccountID,
		PaymentProofURL: req.PaymentProofURL,
	})
	if err != nil {
		response.Error(w, err)
		return
	}
	response.Created(w, topup)
}

func (h *Handler) ListMyTopups(w http.ResponseWriter, r *http.Request) {
	page, err := pageFromQuery(r)
	if err != nil {
		response.Error(w, err)
		return
	}

	topups, total, page, err := h.svc.ListUserTopupRequests(r.Context(), requester(r).UserID, page)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.Paginated(w, topups, total, page.Page, page.Limit)
}

func (h *Handler) ListTopups(w http.ResponseWriter, r *http.Request) {
	page, err := pageFromQuery(r)
	if err != nil {
		response.Error(w, err)
		return
	}

	q := r.URL.Query()
	filter := models.TopupFilter{
		Page:            page,
		Search:          q.Get("search"),
		CryptoAccountID: q.Get("cryptoAccountId"),
		UserID:          q.Get("userId"),
	}
	if v := q.Get("status"); v != "" {
		if filter.Status, err = models.ParseTopupStatus(v); err != nil {
			response.Error(w, apperrors.Validation(err.Error(), err))
			return
		}
	}

	topups, total, page, err := h.svc.ListTopupRequests(r.Context(), filter)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.Paginated(w, topups, total, page.Page, page.Limit)
}

func (h *Handler) GetTopup(w http.ResponseWriter, r *http.Request) {
	topup, err := h.svc.GetTopupRequest(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.Error(w, err)
		return
	}
	response.Success(w, topup)
}

func (h *Handler) GetTopupStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.GetTopupStats(r.Context())
	if err != nil {
		response.Error(w, err)
		return
	}
	response.Success(w, stats)
}

func (h *Handler) ApproveTopup(w http.ResponseWriter, r *http.Request) {
	h.processTopup(w, r, h.svc.ApproveTopupRequest)
}

func (h *Handler) RejectTopup(w http.ResponseWriter, r *http.Request) {
	h.processTopup(w, r, h.svc.RejectTopupRequest)
}

type topupAction func(ctx context.Context, id, adminID string, notes *string) (*models.TopupRequest, error)

func (h *Handler) processTopup(w http.ResponseWriter, r *http.Request, action topupAction) {
	var req processTopupRequest
	if err := h.decode(r, &req, true); err != nil {
		response.Error(w, err)
		return
	}

	topup, err := action(r.Context(), chi.URLParam(r, "id"), requester(r).UserID, req.AdminNotes)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.Success(w, topup)
}

func (h *Handler) DeleteTopup(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteTopupRequest(r.Context(), chi.URLParam(r, "id")); err != nil {
		response.Error(w, err)
		return
	}
	response.Success(w, map[string]string{"message": "Topup request deleted"})
}
