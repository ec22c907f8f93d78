package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Fi44er/storefront/internal/models"
	apperrors "github.com/Fi44er/storefront/pkg/errors"
	"github.com/Fi44er/storefront/utils"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const defaultGateway = "internal"

type ProcessPaymentInput struct {
	OrderID  string
	Amount   decimal.Decimal
	Method   string
	Gateway  string
	Metadata map[string]interface{}
}

// ProcessPayment records the one payment an order may have. The gateway
// decides the initial status and the order's payment status mirrors it.
func (s *Service) ProcessPayment(ctx context.Context, in ProcessPaymentInput, requester Requester) (*models.Payment, error) {
	method := strings.ToUpper(strings.TrimSpace(in.Method))
	if method == "" {
		return nil, apperrors.Validation("method is required", nil)
	}

	order, err := s.findVisibleOrder(ctx, in.OrderID, requester)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.GetPaymentByOrderID(ctx, order.ID, nil)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, paymentExists(order.ID)
	}

	if !in.Amount.Equal(order.TotalAmount) {
		return nil, apperrors.Validation(fmt.Sprintf("Payment amount %s does not match order total %s", in.Amount.String(), order.TotalAmount.String()), nil)
	}

	status, err := s.gateway.Process(ctx, method, in.Amount)
	if err != nil {
		return nil, fmt.Errorf("payment gateway: %w", err)
	}

	gateway := in.Gateway
	if gateway == "" {
		gateway = defaultGateway
	}
	payment := &models.Payment{
		OrderID:  order.ID,
		Amount:   in.Amount,
		Method:   method,
		Status:   status,
		Gateway:  gateway,
		Metadata: in.Metadata,
	}
	if status == models.PaymentCompleted {
		txnID, err := s.generateTransactionID()
		if err != nil {
			return nil, err
		}
		payment.TransactionID = &txnID
	}

	err = s.inTx(ctx, func(tx *gorm.DB) error {
		locked, err := s.repo.LockOrder(ctx, order.ID, tx)
		if err != nil {
			return err
		}
		if locked == nil {
			return apperrors.NotFound("Order", nil)
		}

		if err := s.repo.CreatePayment(ctx, payment, tx); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return paymentExists(order.ID)
			}
			return err
		}
		return s.mirrorPaymentStatus(ctx, tx, locked, status)
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"order":   order.OrderNumber,
		"payment": payment.ID,
		"method":  method,
		"status":  status,
	}).Info("Payment processed")

	return payment, nil
}

// UpdatePaymentStatus changes the payment and its order together. The first
// move into COMPLETED credits the order owner; later ones never do.
func (s *Service) UpdatePaymentStatus(ctx context.Context, id string, status models.PaymentStatus) (*models.Payment, error) {
	err := s.inTx(ctx, func(tx *gorm.DB) error {
		payment, err := s.repo.LockPayment(ctx, id, tx)
		if err != nil {
			return err
		}
		if payment == nil {
			return apperrors.NotFound(fmt.Sprintf("Payment with ID %s", id), nil)
		}

		order, err := s.repo.LockOrder(ctx, payment.OrderID, tx)
		if err != nil {
			return err
		}
		if order == nil {
			return apperrors.NotFound("Order", nil)
		}

		if err := s.repo.UpdatePaymentStatus(ctx, id, status, tx); err != nil {
			return err
		}
		if err := s.mirrorPaymentStatus(ctx, tx, order, status); err != nil {
			return err
		}

		s.logger.WithFields(logrus.Fields{"payment": id, "from": payment.Status, "to": status}).Info("Payment status changed")

		if status != models.PaymentCompleted {
			return nil
		}

		credited, err := s.repo.HasBalanceEntry(ctx, models.ReferencePayment, payment.ID, models.BalancePaymentApproval, tx)
		if err != nil {
			return err
		}
		if credited {
			s.logger.Warnf("Payment %s already credited, skipping balance update", payment.ID)
			return nil
		}

		_, err = s.creditBalance(ctx, tx, LedgerEntry{
			UserID:        order.UserID,
			Amount:        payment.Amount,
			Type:          models.BalancePaymentApproval,
			Reason:        fmt.Sprintf("Payment approved for order #%s", order.OrderNumber),
			ReferenceID:   payment.ID,
			ReferenceType: models.ReferencePayment,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	return s.GetPayment(ctx, id)
}

// mirrorPaymentStatus copies status onto the order, issuing the download
// password when the payment completes.
func (s *Service) mirrorPaymentStatus(ctx context.Context, tx *gorm.DB, order *models.Order, status models.PaymentStatus) error {
	fields := map[string]interface{}{"payment_status": status}
	if status == models.PaymentCompleted {
		if err := s.issueDownloadPassword(order, fields); err != nil {
			return err
		}
	}
	return s.repo.UpdateOrder(ctx, order.ID, fields, tx)
}

func (s *Service) GetPayment(ctx context.Context, id string) (*models.Payment, error) {
	payment, err := s.repo.GetPaymentByID(ctx, id, nil)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, apperrors.NotFound(fmt.Sprintf("Payment with ID %s", id), nil)
	}
	return payment, nil
}

func (s *Service) GetPaymentByOrderID(ctx context.Context, orderID string, requester Requester) (*models.Payment, error) {
	order, err := s.findVisibleOrder(ctx, orderID, requester)
	if err != nil {
		return nil, err
	}

	payment, err := s.repo.GetPaymentByOrderID(ctx, order.ID, nil)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, apperrors.NotFound(fmt.Sprintf("Payment for order %s", orderID), nil)
	}
	return payment, nil
}

func (s *Service) GetPaymentStats(ctx context.Context) (*models.PaymentStats, error) {
	stats, err := s.repo.GetPaymentStats(ctx)
	if err != nil {
		return nil, err
	}
	stats.TotalAmount = utils.RoundMoney(stats.TotalAmount)
	stats.AverageAmount = utils.RoundMoney(stats.AverageAmount)
	return stats, nil
}

func paymentExists(orderID string) error {
	return apperrors.Conflict(fmt.Sprintf("Payment already exists for order %s", orderID))
}
