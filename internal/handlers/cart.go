package handlers

import (
	"net/http"

	"github.com/Fi44er/storefront/pkg/response"
	"github.com/go-chi/chi/v5"
)

type addToCartRequest struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  int    `json:"quantity" validate:"omitempty,min=1,max=1000"`
}

func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	cart, err := h.svc.GetCart(r.Context(), requester(r).UserID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.Success(w, cart)
}

func (h *Handler) AddToCart(w http.ResponseWriter, r *http.Request) {
	var req addToCartRequest
	if err := h.decode(r, &req, false); err != nil {
		response.Error(w, err)
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	cart, err := h.svc.AddToCart(r.Context(), requester(r).UserID, req.ProductID, req.Quantity)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.Success(w, cart)
}

func (h *Handler) RemoveCartItem(w http.ResponseWriter, r *http.Request) {
	cart, err := h.svc.RemoveCartItem(r.Context(), requester(r).UserID, chi.URLParam(r, "id"))
	if err != nil {
		response.Error(w, err)
		return
	}
	response.Success(w, cart)
}
