package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/Fi44er/storefront/pkg/errors"
)

type Response struct {
	Success   bool        `json:"success"`
	Data      interface{} `json:"data,omitempty"`
	Error     *ErrorInfo  `json:"error,omitempty"`
	Timestamp string      `json:"timestamp"`
}

type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
	HasNext    bool  `json:"hasNext"`
	HasPrev    bool  `json:"hasPrev"`
}

type PaginatedResponse struct {
	Items      interface{} `json:"items"`
	Pagination Pagination  `json:"pagination"`
}

func NewPagination(total int64, page, limit int) Pagination {
	totalPages := 0
	if limit > 0 {
		totalPages = int(total) / limit
		if int(total)%limit > 0 {
			totalPages++
		}
	}
	return Pagination{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}
}

func Success(w http.ResponseWriter, data interface{}) {
	JSON(w, http.StatusOK, Response{Success: true, Data: data, Timestamp: now()})
}

func Created(w http.ResponseWriter, data interface{}) {
	JSON(w, http.StatusCreated, Response{Success: true, Data: data, Timestamp: now()})
}

func Paginated(w http.ResponseWriter, items interface{}, total int64, page, limit int) {
	Success(w, PaginatedResponse{Items: items, Pagination: NewPagination(total, page, limit)})
}

func Error(w http.ResponseWriter, err error) {
	var validationErr validator.ValidationErrors
	if errors.As(err, &validationErr) {
		JSON(w, http.StatusBadRequest, Response{
			Timestamp: now(),
			Error:     &ErrorInfo{Code: apperrors.CodeValidation, Message: validationMessage(validationErr)},
		})
		return
	}

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		JSON(w, appErr.Status, Response{
			Timestamp: now(),
			Error:     &ErrorInfo{Code: appErr.Code, Message: appErr.Message},
		})
		return
	}

	JSON(w, http.StatusInternalServerError, Response{
		Timestamp: now(),
		Error: &ErrorInfo{
			Code:    apperrors.CodeInternal,
			Message: "An unexpected error occurred",
		},
	})
}

func JSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func validationMessage(errs validator.ValidationErrors) string {
	msgs := make([]string, 0, len(errs))
	for _, err := range errs {
		field := strings.ToLower(err.Field())
		switch err.Tag() {
		case "required":
			msgs = append(msgs, field+" is required")
		case "min", "gte", "gt":
			msgs = append(msgs, field+" is too small")
		case "max", "lte":
			msgs = append(msgs, field+" is too large")
		case "email":
			msgs = append(msgs, field+" must be a valid email")
		case "oneof":
			msgs = append(msgs, field+" must be one of: "+err.Param())
		default:
			msgs = append(msgs, field+" is invalid")
		}
	}
	return strings.Join(msgs, "; ")
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}
