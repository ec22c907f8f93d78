package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/Fi44er/storefront/internal/models"
	"github.com/Fi44er/storefront/internal/service"
	"github.com/Fi44er/storefront/internal/storage"
	apperrors "github.com/Fi44er/storefront/pkg/errors"
	"github.com/Fi44er/storefront/pkg/response"
	"github.com/go-chi/chi/v5"
)

const (
	paymentProofField = "paymentProof"
	multipartOverhead = 1 << 20
)

type createOrderRequest struct {
	PaymentMethod   string `json:"paymentMethod" validate:"required,max=50"`
	ShippingAddress string `json:"shippingAddress" validate:"max=500"`
}

type orderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type orderPaymentStatusRequest struct {
	PaymentStatus string `json:"paymentStatus" validate:"required"`
}

func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := h.decode(r, &req, false); err != nil {
		response.Error(w, err)
		return
	}

	order, err := h.svc.CreateOrder(r.Context(), requester(r).UserID, service.CreateOrderInput{
		PaymentMethod:   req.PaymentMethod,
		ShippingAddress: req.ShippingAddress,
	})
	if err != nil {
		response.Error(w, err)
		return
	}
	response.Created(w, order)
}

func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	page, err := pageFromQuery(r)
	if err != nil {
		response.Error(w, err)
		return
	}

	q := r.URL.Query()
	filter := models.OrderFilter{
		Page:          page,
		OrderNumber:   q.Get("orderNumber"),
		PaymentMethod: q.Get("paymentMethod"),
	}
	if v := q.Get("status"); v != "" {
		if filter.Status, err = models.ParseOrderStatus(v); err != nil {
			response.Error(w, apperrors.Validation(err.Error(), err))
			return
		}
	}
	if v := q.Get("paymentStatus"); v != "" {
		if filter.PaymentStatus, err = models.ParsePaymentStatus(v); err != nil {
			response.Error(w, apperrors.Validation(err.Error(), err))
			return
		}
	}

	orders, total, page, err := h.svc.ListOrders(r.Context(), filter, requester(r))
	if err != nil {
		response.Error(w, err)
		return
	}
	response.Paginated(w, orders, total, page.Page, page.Limit)
}

func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.svc.GetOrder(r.Context(), chi.URLParam(r, "id"), requester(r))
	if err != nil {
		response.Error(w, err)
		return
	}
	response.Success(w, order)
}

func (h *Handler) GetOrderStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.GetOrderStats(r.Context())
	if err != nil {
		response.Error(w, err)
		return
	}
	response.Success(w, stats)
}

func (h *Handler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	var req orderStatusRequest
	if err := h.decode(r, &req, false); err != nil {
		response.Error(w, err)
		return
	}
	status, err := models.ParseOrderStatus(req.Status)
	if err != nil {
		response.Error(w, apperrors.Validation(err.Error(), err))
		return
	}

	order, err := h.svc.UpdateOrderStatus(r.Context(), chi.URLParam(r, "id"), status)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.Success(w, order)
}

func (h *Handler) UpdateOrderPaymentStatus(w http.ResponseWriter, r *http.Request) {
	var req orderPaymentStatusRequest
	if err := h.decode(r, &req, false); err != nil {
		response.Error(w, err)
		return
	}
	status, err := models.ParsePaymentStatus(req.PaymentStatus)
	if err != nil {
		response.Error(w, apperrors.Validation(err.Error(), err))
		return
	}

	order, err := h.svc.UpdateOrderPaymentStatus(r.Context(), chi.URLParam(r, "id"), status)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.Success(w, order)
}

// UploadPaymentProof stores the image from the paymentProof form field and
// attaches its URL to the order.
func (h *Handler) UploadPaymentProof(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	who := requester(r)

	if _, err := h.svc.GetOrder(r.Context(), id, who); err != nil {
		response.Error(w, err)
		return
	}

	limit := h.store.MaxBytes()
	r.Body = http.MaxBytesReader(w, r.Body, limit+multipartOverhead)
	if err := r.ParseMultipartForm(limit); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.Error(w, apperrors.Validation("Payment proof file is too large", err))
			return
		}
		response.Error(w, apperrors.Validation("Payment proof file is required", err))
		return
	}

	file, header, err := r.FormFile(paymentProofField)
	if err != nil {
		response.Error(w, apperrors.Validation("Payment proof file is required", err))
		return
	}
	defer file.Close()

	stored, err := h.store.SaveImage(file, header.Filename, header.Header.Get("Content-Type"))
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNotImage):
			response.Error(w, apperrors.Validation("Only image files are allowed", err))
		case errors.Is(err, storage.ErrTooLarge):
			response.Error(w, apperrors.Validation("Payment proof file is too large", err))
		default:
			h.logger.Errorf("Failed to store payment proof: %v", err)
			response.Error(w, apperrors.Internal("failed to store payment proof", err))
		}
		return
	}

	order, err := h.svc.UploadPaymentProof(r.Context(), id, stored.URL, who)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.Success(w, order)
}

func (h *Handler) ServePaymentProof(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "filename")
	f, contentType, err := h.store.Open(name)
	if err != nil {
		response.Error(w, apperrors.NotFound("File", err))
		return
	}
	defer f.Close()

	w.Header().Set("Content-Type", contentType)
	http.ServeContent(w, r, name, time.Time{}, f)
}

func (h *Handler) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteOrder(r.Context(), chi.URLParam(r, "id")); err != nil {
		response.Error(w, err)
		return
	}
	response.Success(w, map[string]string{"message": "Order deleted"})
}
