package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Fi44er/storefront/internal/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CreateOrder inserts the order together with its items.
func (r *Repository) CreateOrder(ctx context.Context, order *models.Order, tx *gorm.DB) error {
	return r.conn(ctx, tx).Create(order).Error
}

func (r *Repository) GetOrderByID(ctx context.Context, id string, tx *gorm.DB) (*models.Order, error) {
	var order models.Order
	err := r.conn(ctx, tx).
		Preload("Items").
		Preload("User").
		First(&order, "id = ?", id).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get order %s: %w", id, err)
	}
	return &order, nil
}

// LockOrder reads the order row, without relations, with a row lock held
// until tx ends.
func (r *Repository) LockOrder(ctx context.Context, id string, tx *gorm.DB) (*models.Order, error) {
	var order models.Order
	err := forUpdate(tx.WithContext(ctx)).First(&order, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to lock order %s: %w", id, err)
	}
	return &order, nil
}

func (r *Repository) ListOrders(ctx context.Context, filter models.OrderFilter) ([]models.Order, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Order{})

	if filter.UserID != "" {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.PaymentStatus != "" {
		query = query.Where("payment_status = ?", filter.PaymentStatus)
	}
	if filter.OrderNumber != "" {
		query = query.Where("LOWER(order_number) LIKE ?", likePattern(filter.OrderNumber))
	}
	if filter.PaymentMethod != "" {
		query = query.Where("LOWER(payment_method) LIKE ?", likePattern(filter.PaymentMethod))
	}

	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	var orders []models.Order
	err := query.
		Preload("Items").
		Preload("User").
		Order("created_at DESC").
		Offset(filter.Offset()).
		Limit(filter.Limit).
		Find(&orders).
		Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, total, nil
}

func (r *Repository) UpdateOrder(ctx context.Context, id string, fields map[string]interface{}, tx *gorm.DB) error {
	res := r.conn(ctx, tx).
		Model(&models.Order{}).
		Where("id = ?", id).
		Updates(fields)
	if res.Error != nil {
		return fmt.Errorf("failed to update order %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("order %s not found for update", id)
	}
	return nil
}

// DeleteOrder removes dependent rows first, then the order itself.
func (r *Repository) DeleteOrder(ctx context.Context, id string, tx *gorm.DB) error {
	db := r.conn(ctx, tx)
	if err := db.Where("order_id = ?", id).Delete(&models.OrderItem{}).Error; err != nil {
		return fmt.Errorf("failed to delete items of order %s: %w", id, err)
	}
	if err := db.Where("order_id = ?", id).Delete(&models.Payment{}).Error; err != nil {
		return fmt.Errorf("failed to delete payment of order %s: %w", id, err)
	}
	if err := db.Where("id = ?", id).Delete(&models.Order{}).Error; err != nil {
		return fmt.Errorf("failed to delete order %s: %w", id, err)
	}
	return nil
}

func (r *Repository) GetOrderStats(ctx context.Context) (*models.OrderStats, error) {
	var stats models.OrderStats

	if err := r.db.WithContext(ctx).Model(&models.Order{}).Count(&stats.TotalOrders).Error; err != nil {
		return nil, fmt.Errorf("failed to count orders: %w", err)
	}
	if err := r.db.WithContext(ctx).Model(&models.Order{}).Where("status = ?", models.OrderPending).Count(&stats.PendingOrders).Error; err != nil {
		return nil, fmt.Errorf("failed to count pending orders: %w", err)
	}
	if err := r.db.WithContext(ctx).Model(&models.Order{}).Where("status = ?", models.OrderCompleted).Count(&stats.CompletedOrders).Error; err != nil {
		return nil, fmt.Errorf("failed to count completed orders: %w", err)
	}

	revenue, err := r.sum(ctx, &models.Order{}, "total_amount", "")
	if err != nil {
		return nil, fmt.Errorf("failed to sum order revenue: %w", err)
	}
	stats.TotalRevenue = revenue
	stats.AverageOrderValue = average(revenue, stats.TotalOrders)

	return &stats, nil
}

// sum returns COALESCE(SUM(column), 0) over model rows matching where.
func (r *Repository) sum(ctx context.Context, model interface{}, column, where string, args ...interface{}) (decimal.Decimal, error) {
	query := r.db.WithContext(ctx).Model(model).Select(fmt.Sprintf("COALESCE(SUM(%s), 0)", column))
	if where != "" {
		query = query.Where(where, args...)
	}

	var total decimal.Decimal
	if err := query.Row().Scan(&total); err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

func average(total decimal.Decimal, count int64) decimal.Decimal {
	if count == 0 {
		return decimal.Zero
	}
	return total.Div(decimal.NewFromInt(count))
}
