package handlers

import (
	"net/http"

	"github.com/Fi44er/storefront/internal/middleware"
	"github.com/Fi44er/storefront/internal/models"
	"github.com/Fi44er/storefront/internal/service"
	"github.com/Fi44er/storefront/pkg/response"
)

type registerRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type loginRequest struct {
	Login    string `json:"login" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type authResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := h.decode(r, &req, false); err != nil {
		response.Error(w, err)
		return
	}

	user, err := h.svc.Register(r.Context(), service.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		response.Error(w, err)
		return
	}

	h.issueToken(w, user, true)
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := h.decode(r, &req, false); err != nil {
		response.Error(w, err)
		return
	}

	user, err := h.svc.Login(r.Context(), req.Login, req.Password)
	if err != nil {
		response.Error(w, err)
		return
	}

	h.issueToken(w, user, false)
}

func (h *Handler) issueToken(w http.ResponseWriter, user *models.User, created bool) {
	token, err := middleware.GenerateToken(user, h.jwtSecret)
	if err != nil {
		h.logger.Errorf("Failed to sign token: %v", err)
		response.Error(w, err)
		return
	}

	middleware.SetAuthCookie(w, token)
	w.Header().Set("Authorization", "Bearer "+token)
	if created {
		response.Created(w, authResponse{Token: token, User: user})
		return
	}
	response.Success(w, authResponse{Token: token, User: user})
}
