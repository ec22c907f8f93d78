package repository

import (
	"context"
	"fmt"

	"github.com/Fi44er/storefront/internal/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func (r *Repository) CreateBalanceHistory(ctx context.Context, entry *models.BalanceHistory, tx *gorm.DB) error {
	if err := r.conn(ctx, tx).Create(entry).Error; err != nil {
		return fmt.Errorf("failed to append balance history: %w", err)
	}
	return nil
}

// HasBalanceEntry reports whether a movement of entryType already points at
// the given reference.
func (r *Repository) HasBalanceEntry(ctx context.Context, referenceType, referenceID string, entryType models.BalanceTransactionType, tx *gorm.DB) (bool, error) {
	var count int64
	err := r.conn(ctx, tx).
		Model(&models.BalanceHistory{}).
		Where("reference_type = ? AND reference_id = ? AND type = ?", referenceType, referenceID, entryType).
		Count(&count).
		Error
	if err != nil {
		return false, fmt.Errorf("failed to look up balance history for %s %s: %w", referenceType, referenceID, err)
	}
	return count > 0, nil
}

func (r *Repository) ListBalanceHistory(ctx context.Context, userID string, page models.Page) ([]models.BalanceHistory, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&models.BalanceHistory{}).
		Where("user_id = ?", userID).
		Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count balance history: %w", err)
	}

	var history []models.BalanceHistory
	err := query.
		Order("created_at DESC").
		Offset(page.Offset()).
		Limit(page.Limit).
		Find(&history).
		Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list balance history: %w", err)
	}
	return history, total, nil
}

func (r *Repository) SumBalanceHistory(ctx context.Context, userID string) (decimal.Decimal, error) {
	total, err := r.sum(ctx, &models.BalanceHistory{}, "amount", "user_id = ?", userID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum balance history for user %s: %w", userID, err)
	}
	return total, nil
}
