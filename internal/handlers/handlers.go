package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/Fi44er/storefront/internal/middleware"
	"github.com/Fi44er/storefront/internal/models"
	"github.com/Fi44er/storefront/internal/service"
	"github.com/Fi44er/storefront/internal/storage"
	apperrors "github.com/Fi44er/storefront/pkg/errors"
	"github.com/Fi44er/storefront/utils"
	"github.com/go-playground/validator/v10"
)

// Handler handles all HTTP requests
type Handler struct {
	svc       *service.Service
	store     *storage.LocalStore
	validate  *validator.Validate
	logger    *utils.Logger
	jwtSecret string
}

func NewHandler(svc *service.Service, store *storage.LocalStore, jwtSecret string, logger *utils.Logger) *Handler {
	return &Handler{
		svc:       svc,
		store:     store,
		validate:  validator.New(),
		logger:    logger,
		jwtSecret: jwtSecret,
	}
}

// decode reads a JSON body into dst and validates it. An empty body is
// allowed when optional is set.
func (h *Handler) decode(r *http.Request, dst interface{}, optional bool) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if !(optional && errors.Is(err, io.EOF)) {
			return apperrors.Validation("Invalid request body", err)
		}
	}
	return h.validate.Struct(dst)
}

func requester(r *http.Request) service.Requester {
	user, ok := middleware.CurrentUser(r.Context())
	if !ok {
		return service.Requester{}
	}
	return service.Requester{UserID: user.ID, IsAdmin: user.IsAdmin()}
}

func pageFromQuery(r *http.Request) (models.Page, error) {
	var page models.Page
	q := r.URL.Query()
	if v := q.Get("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return page, apperrors.Validation("page must be a number", err)
		}
		page.Page = n
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return page, apperrors.Validation("limit must be a number", err)
		}
		page.Limit = n
	}
	return page.Normalize(), nil
}
