package handlers

import (
	"net/http"

	"github.com/Fi44er/storefront/internal/service"
	"github.com/Fi44er/storefront/pkg/response"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

type productRequest struct {
	Name  string          `json:"name" validate:"required,max=200"`
	Price decimal.Decimal `json:"price"`
}

type productPriceRequest struct {
	Price decimal.Decimal `json:"price"`
}

type cryptoAccountRequest struct {
	Name        string `json:"name" validate:"required"`
	Symbol      string `json:"symbol" validate:"required,max=16"`
	Address     string `json:"address" validate:"required"`
	Network     string `json:"network"`
	Description string `json:"description"`
	IsActive    *bool  `json:"isActive"`
	Order       int    `json:"order" validate:"min=0"`
}

type cryptoAccountPatchRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1"`
	Symbol      *string `json:"symbol" validate:"omitempty,min=1,max=16"`
	Address     *string `json:"address" validate:"omitempty,min=1"`
	Network     *string `json:"network"`
	Description *string `json:"description"`
	IsActive    *bool   `json:"isActive"`
	Order       *int    `json:"order" validate:"omitempty,min=0"`
}

func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := h.decode(r, &req, false); err != nil {
		response.Error(w, err)
		return
	}

	product, err := h.svc.CreateProduct(r.Context(), req.Name, req.Price)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.Created(w, product)
}

func (h *Handler) UpdateProductPrice(w http.ResponseWriter, r *http.Request) {
	var req productPriceRequest
	if err := h.decode(r, &req, false); err != nil {
		response.Error(w, err)
		return
	}

	product, err := h.svc.UpdateProductPrice(r.Context(), chi.URLParam(r, "id"), req.Price)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.Success(w, product)
}

func (h *Handler) ListActiveCryptoAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.svc.ListActiveCryptoAccounts(r.Context())
	if err != nil {
		response.Error(w, err)
		return
	}
	response.Success(w, accounts)
}

func (h *Handler) ListCryptoAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.svc.ListCryptoAccounts(r.Context())
	if err != nil {
		response.Error(w, err)
		return
	}
	response.Success(w, accounts)
}

func (h *Handler) GetCryptoAccount(w http.ResponseWriter, r *http.Request) {
	account, err := h.svc.GetCryptoAccount(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.Error(w, err)
		return
	}
	response.Success(w, account)
}

func (h *Handler) CreateCryptoAccount(w http.ResponseWriter, r *http.Request) {
	var req cryptoAccountRequest
	if err := h.decode(r, &req, false); err != nil {
		response.Error(w, err)
		return
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	account, err := h.svc.CreateCryptoAccount(r.Context(), service.CryptoAccountInput{
		Name:        req.Name,
		Symbol:      req.Symbol,
		Address:     req.Address,
		Network:     req.Network,
		Description: req.Description,
		IsActive:    active,
		Order:       req.Order,
	})
	if err != nil {
		response.Error(w, err)
		return
	}
	response.Created(w, account)
}

func (h *Handler) UpdateCryptoAccount(w http.ResponseWriter, r *http.Request) {
	var req cryptoAccountPatchRequest
	if err := h.decode(r, &req, false); err != nil {
		response.Error(w, err)
		return
	}

	account, err := h.svc.UpdateCryptoAccount(r.Context(), chi.URLParam(r, "id"), service.CryptoAccountPatch(req))
	if err != nil {
		response.Error(w, err)
		return
	}
	response.Success(w, account)
}

func (h *Handler) DeleteCryptoAccount(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteCryptoAccount(r.Context(), chi.URLParam(r, "id")); err != nil {
		response.Error(w, err)
		return
	}
	response.Success(w, map[string]string{"message": "Crypto account deleted"})
}
