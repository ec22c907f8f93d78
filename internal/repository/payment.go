package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Fi44er/storefront/internal/models"
	"gorm.io/gorm"
)

func (r *Repository) CreatePayment(ctx context.Context, payment *models.Payment, tx *gorm.DB) error {
	return r.conn(ctx, tx).Create(payment).Error
}

func (r *Repository) GetPaymentByID(ctx context.Context, id string, tx *gorm.DB) (*models.Payment, error) {
	var payment models.Payment
	err := r.conn(ctx, tx).Preload("Order").First(&payment, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get payment %s: %w", id, err)
	}
	return &payment, nil
}

// LockPayment reads the payment row with a row lock held until tx ends.
func (r *Repository) LockPayment(ctx context.Context, id string, tx *gorm.DB) (*models.Payment, error) {
	var payment models.Payment
	err := forUpdate(tx.WithContext(ctx)).First(&payment, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to lock payment %s: %w", id, err)
	}
	return &payment, nil
}

func (r *Repository) GetPaymentByOrderID(ctx context.Context, orderID string, tx *gorm.DB) (*models.Payment, error) {
	var payment models.Payment
	err := r.conn(ctx, tx).First(&payment, "order_id = ?", orderID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get payment for order %s: %w", orderID, err)
	}
	return &payment, nil
}

func (r *Repository) UpdatePaymentStatus(ctx context.Context, id string, status models.PaymentStatus, tx *gorm.DB) error {
	err := r.conn(ctx, tx).
		Model(&models.Payment{}).
		Where("id = ?", id).
		Update("status", status).
		Error
	if err != nil {
		return fmt.Errorf("failed to update payment %s status: %w", id, err)
	}
	return nil
}

func (r *Repository) GetPaymentStats(ctx context.Context) (*models.PaymentStats, error) {
	var stats models.PaymentStats

	counts := []struct {
		dst    *int64
		status models.PaymentStatus
	}{
		{&stats.CompletedPayments, models.PaymentCompleted},
		{&stats.PendingPayments, models.PaymentPending},
		{&stats.FailedPayments, models.PaymentFailed},
	}

	if err := r.db.WithContext(ctx).Model(&models.Payment{}).Count(&stats.TotalPayments).Error; err != nil {
		return nil, fmt.Errorf("failed to count payments: %w", err)
	}
	for _, c := range counts {
		if err := r.db.WithContext(ctx).Model(&models.Payment{}).Where("status = ?", c.status).Count(c.dst).Error; err != nil {
			return nil, fmt.Errorf("failed to count %s payments: %w", c.status, err)
		}
	}

	total, err := r.sum(ctx, &models.Payment{}, "amount", "")
	if err != nil {
		return nil, fmt.Errorf("failed to sum payments: %w", err)
	}
	stats.TotalAmount = total
	stats.AverageAmount = average(total, stats.TotalPayments)

	return &stats, nil
}
