package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Fi44er/storefront/internal/models"
	apperrors "github.com/Fi44er/storefront/pkg/errors"
	"github.com/Fi44er/storefront/utils"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const (
	orderNumberAttempts    = 3
	downloadPasswordLength = 12
)

// ErrEmptyCart is returned when an order is requested for an empty cart.
var ErrEmptyCart = apperrors.New("EMPTY_CART", "Cart is empty", http.StatusBadRequest, nil)

type CreateOrderInput struct {
	PaymentMethod   string
	ShippingAddress string
}

type OrderItemResponse struct {
	ID         string          `json:"id"`
	ProductID  string          `json:"productId"`
	Name       string          `json:"name"`
	Price      decimal.Decimal `json:"price"`
	Quantity   int             `json:"quantity"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
}

type UserSummary struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type OrderResponse struct {
	ID               string               `json:"id"`
	OrderNumber      string               `json:"orderNumber"`
	UserID           string               `json:"userId"`
	User             *UserSummary         `json:"user,omitempty"`
	Items            []OrderItemResponse  `json:"items"`
	TotalAmount      decimal.Decimal      `json:"totalAmount"`
	Status           models.OrderStatus   `json:"status"`
	PaymentStatus    models.PaymentStatus `json:"paymentStatus"`
	PaymentMethod    string               `json:"paymentMethod"`
	ShippingAddress  *string              `json:"shippingAddress,omitempty"`
	PaymentProof     *string              `json:"paymentProof,omitempty"`
	DownloadPassword *string              `json:"downloadPassword,omitempty"`
	CreatedAt        time.Time            `json:"createdAt"`
	UpdatedAt        time.Time            `json:"updatedAt"`
}

// CreateOrder turns the user's cart into an order. The order, its items and
// the removal of the cart commit together; a clashing order number retries
// the whole unit.
func (s *Service) CreateOrder(ctx context.Context, userID string, in CreateOrderInput) (*OrderResponse, error) {
	in.PaymentMethod = strings.TrimSpace(in.PaymentMethod)
	if in.PaymentMethod == "" {
		return nil, apperrors.Validation("paymentMethod is required", nil)
	}

	var order *models.Order
	var err error
	for attempt := 1; attempt <= orderNumberAttempts; attempt++ {
		order, err = s.createOrderOnce(ctx, userID, in)
		if err == nil || !errors.Is(err, gorm.ErrDuplicatedKey) {
			break
		}
		s.logger.Warnf("Order number collision for user %s (attempt %d/%d)", userID, attempt, orderNumberAttempts)
	}
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.Conflict("could not allocate a unique order number, try again")
		}
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"order":  order.OrderNumber,
		"user":   userID,
		"amount": order.TotalAmount.String(),
	}).Info("Order created")

	return s.GetOrder(ctx, order.ID, Requester{UserID: userID})
}

func (s *Service) createOrderOnce(ctx context.Context, userID string, in CreateOrderInput) (*models.Order, error) {
	var order *models.Order
	err := s.inTx(ctx, func(tx *gorm.DB) error {
		cart, err := s.repo.GetCartByUserID(ctx, userID, tx)
		if err != nil {
			return err
		}
		if cart == nil || len(cart.Items) == 0 {
			return ErrEmptyCart
		}

		number, err := s.newOrderNumber()
		if err != nil {
			return fmt.Errorf("failed to generate order number: %w", err)
		}

		items := make([]models.OrderItem, 0, len(cart.Items))
		for _, item := range cart.Items {
			items = append(items, models.OrderItem{
				ProductID: item.ProductID,
				Name:      item.Name,
				Price:     item.Price,
				Quantity:  item.Quantity,
			})
		}

		order = &models.Order{
			OrderNumber:     number,
			UserID:          userID,
			Items:           items,
			TotalAmount:     cartTotal(cart.Items),
			Status:          models.OrderPending,
			PaymentStatus:   models.PaymentPending,
			PaymentMethod:   in.PaymentMethod,
			ShippingAddress: strPtr(strings.TrimSpace(in.ShippingAddress)),
		}
		if err := s.repo.CreateOrder(ctx, order, tx); err != nil {
			return err
		}

		return s.repo.DeleteCart(ctx, cart.ID, tx)
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// ListOrders scopes non-admin callers to their own orders.
func (s *Service) ListOrders(ctx context.Context, filter models.OrderFilter, requester Requester) ([]OrderResponse, int64, models.Page, error) {
	filter.Page = filter.Page.Normalize()
	if !requester.IsAdmin {
		filter.UserID = requester.UserID
	}

	orders, total, err := s.repo.ListOrders(ctx, filter)
	if err != nil {
		return nil, 0, filter.Page, err
	}

	resp := make([]OrderResponse, 0, len(orders))
	for i := range orders {
		resp = append(resp, toOrderResponse(&orders[i], requester.IsAdmin))
	}
	return resp, total, filter.Page, nil
}

// GetOrder reports a foreign order exactly like a missing one.
func (s *Service) GetOrder(ctx context.Context, id string, requester Requester) (*OrderResponse, error) {
	order, err := s.findVisibleOrder(ctx, id, requester)
	if err != nil {
		return nil, err
	}
	resp := toOrderResponse(order, requester.IsAdmin)
	return &resp, nil
}

func (s *Service) findVisibleOrder(ctx context.Context, id string, requester Requester) (*models.Order, error) {
	order, err := s.repo.GetOrderByID(ctx, id, nil)
	if err != nil {
		return nil, err
	}
	if order == nil || !requester.canSee(order.UserID) {
		return nil, apperrors.NotFound("Order", nil)
	}
	return order, nil
}

// UpdateOrderStatus sets the fulfilment status. Transitions are not
// restricted; leaving a terminal status is logged as a warning.
func (s *Service) UpdateOrderStatus(ctx context.Context, id string, status models.OrderStatus) (*OrderResponse, error) {
	err := s.inTx(ctx, func(tx *gorm.DB) error {
		order, err := s.repo.LockOrder(ctx, id, tx)
		if err != nil {
			return err
		}
		if order == nil {
			return apperrors.NotFound("Order", nil)
		}

		fields := map[string]interface{}{"status": status}
		if status.UnlocksDownload() {
			if err := s.issueDownloadPassword(order, fields); err != nil {
				return err
			}
		}
		if err := s.repo.UpdateOrder(ctx, id, fields, tx); err != nil {
			return err
		}

		s.logTransition("Order status changed", order, string(order.Status), string(status), order.Status.IsTerminal())
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetOrder(ctx, id, Requester{IsAdmin: true})
}

// UpdateOrderPaymentStatus sets the payment axis of an order directly.
func (s *Service) UpdateOrderPaymentStatus(ctx context.Context, id string, status models.PaymentStatus) (*OrderResponse, error) {
	err := s.inTx(ctx, func(tx *gorm.DB) error {
		order, err := s.repo.LockOrder(ctx, id, tx)
		if err != nil {
			return err
		}
		if order == nil {
			return apperrors.NotFound("Order", nil)
		}

		fields := map[string]interface{}{"payment_status": status}
		if status == models.PaymentCompleted {
			if err := s.issueDownloadPassword(order, fields); err != nil {
				return err
			}
		}
		if err := s.repo.UpdateOrder(ctx, id, fields, tx); err != nil {
			return err
		}

		s.logTransition("Order payment status changed", order, string(order.PaymentStatus), string(status), order.PaymentStatus.IsTerminal())
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetOrder(ctx, id, Requester{IsAdmin: true})
}

// issueDownloadPassword adds a password to fields unless the order already
// has one. An issued password is never replaced; order must come from
// LockOrder so that concurrent updates see each other's password.
func (s *Service) issueDownloadPassword(order *models.Order, fields map[string]interface{}) error {
	if order.DownloadPassword != nil && *order.DownloadPassword != "" {
		return nil
	}
	password, err := utils.RandomAlnum(downloadPasswordLength)
	if err != nil {
		return fmt.Errorf("failed to generate download password: %w", err)
	}
	fields["download_password"] = password
	s.logger.Infof("Download password issued for order %s", order.OrderNumber)
	return nil
}

// UploadPaymentProof attaches a stored proof URL to the order.
func (s *Service) UploadPaymentProof(ctx context.Context, id, proofURL string, requester Requester) (*OrderResponse, error) {
	if strings.TrimSpace(proofURL) == "" {
		return nil, apperrors.Validation("Payment proof file is required", nil)
	}

	order, err := s.findVisibleOrder(ctx, id, requester)
	if err != nil {
		return nil, err
	}

	if err := s.repo.UpdateOrder(ctx, id, map[string]interface{}{"payment_proof": proofURL}, nil); err != nil {
		return nil, err
	}
	order.PaymentProof = &proofURL
	s.logger.Infof("Payment proof uploaded for order %s", order.OrderNumber)
	s.notifier.PaymentProofUploaded(order)

	return s.GetOrder(ctx, id, requester)
}

func (s *Service) GetOrderStats(ctx context.Context) (*models.OrderStats, error) {
	stats, err := s.repo.GetOrderStats(ctx)
	if err != nil {
		return nil, err
	}
	stats.TotalRevenue = utils.RoundMoney(stats.TotalRevenue)
	stats.AverageOrderValue = utils.RoundMoney(stats.AverageOrderValue)
	return stats, nil
}

// DeleteOrder removes the order after its items and payment record.
func (s *Service) DeleteOrder(ctx context.Context, id string) error {
	order, err := s.repo.GetOrderByID(ctx, id, nil)
	if err != nil {
		return err
	}
	if order == nil {
		return apperrors.NotFound("Order", nil)
	}

	if err := s.inTx(ctx, func(tx *gorm.DB) error {
		return s.repo.DeleteOrder(ctx, id, tx)
	}); err != nil {
		return err
	}

	s.logger.Warnf("Order %s deleted", order.OrderNumber)
	return nil
}

func (s *Service) logTransition(msg string, order *models.Order, from, to string, fromTerminal bool) {
	entry := s.logger.WithFields(logrus.Fields{"order": order.OrderNumber, "from": from, "to": to})
	if fromTerminal && from != to {
		entry.Warn(msg + " from a terminal state")
		return
	}
	entry.Info(msg)
}

func toOrderResponse(order *models.Order, admin bool) OrderResponse {
	resp := OrderResponse{
		ID:              order.ID,
		OrderNumber:     order.OrderNumber,
		UserID:          order.UserID,
		Items:           make([]OrderItemResponse, 0, len(order.Items)),
		TotalAmount:     order.TotalAmount,
		Status:          order.Status,
		PaymentStatus:   order.PaymentStatus,
		PaymentMethod:   order.PaymentMethod,
		ShippingAddress: order.ShippingAddress,
		PaymentProof:    order.PaymentProof,
		CreatedAt:       order.CreatedAt,
		UpdatedAt:       order.UpdatedAt,
	}
	if admin {
		resp.DownloadPassword = order.DownloadPassword
	}
	if order.User != nil {
		resp.User = &UserSummary{ID: order.User.ID, Username: order.User.Username, Email: order.User.Email}
	}
	for _, item := range order.Items {
		resp.Items = append(resp.Items, OrderItemResponse{
			ID:         item.ID,
			ProductID:  item.ProductID,
			Name:       item.Name,
			Price:      item.Price,
			Quantity:   item.Quantity,
			TotalPrice: item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))),
		})
	}
	return resp
}
