package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Fi44er/storefront/internal/models"
	"gorm.io/gorm"
)

func (r *Repository) CreateTopup(ctx context.Context, topup *models.TopupRequest) error {
	return r.db.WithContext(ctx).Create(topup).Error
}

func (r *Repository) GetTopupByID(ctx context.Context, id string, tx *gorm.DB) (*models.TopupRequest, error) {
	var topup models.TopupRequest
	err := r.conn(ctx, tx).
		Preload("User").
		Preload("CryptoAccount").
		First(&topup, "id = ?", id).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get topup request %s: %w", id, err)
	}
	return &topup, nil
}

// LockTopup reads the request with a row lock so that two admins cannot
// both move the same request out of PENDING.
func (r *Repository) LockTopup(ctx context.Context, id string, tx *gorm.DB) (*models.TopupRequest, error) {
	var topup models.TopupRequest
	err := forUpdate(tx.WithContext(ctx)).First(&topup, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to lock topup request %s: %w", id, err)
	}
	return &topup, nil
}

func (r *Repository) ListTopups(ctx context.Context, filter models.TopupFilter) ([]models.TopupRequest, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.TopupRequest{})

	if filter.Status != "" {
		query = query.Where("topup_requests.status = ?", filter.Status)
	}
	if filter.CryptoAccountID != "" {
		query = query.Where("topup_requests.crypto_account_id = ?", filter.CryptoAccountID)
	}
	if filter.UserID != "" {
		query = query.Where("topup_requests.user_id = ?", filter.UserID)
	}
	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		query = query.
			Joins("JOIN users ON users.id = topup_requests.user_id").
			Where("LOWER(users.username) LIKE ? OR LOWER(users.email) LIKE ?", pattern, pattern)
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count topup requests: %w", err)
	}

	var topups []models.TopupRequest
	err := query.
		Preload("User").
		Preload("CryptoAccount").
		Order("topup_requests.created_at DESC").
		Offset(filter.Offset()).
		Limit(filter.Limit).
		Find(&topups).
		Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list topup requests: %w", err)
	}
	return topups, total, nil
}

func (r *Repository) UpdateTopup(ctx context.Context, id string, fields map[string]interface{}, tx *gorm.DB) error {
	res := r.conn(ctx, tx).
		Model(&models.TopupRequest{}).
		Where("id = ?", id).
		Updates(fields)
	if res.Error != nil {
		return fmt.Errorf("failed to update topup request %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("topup request %s not found for update", id)
	}
	return nil
}

func (r *Repository) DeleteTopup(ctx context.Context, id string) (bool, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.TopupRequest{})
	if res.Error != nil {
		return false, fmt.Errorf("failed to delete topup request %s: %w", id, res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *Repository) GetTopupStats(ctx context.Context) (*models.TopupStats, error) {
	var stats models.TopupStats

	if err := r.db.WithContext(ctx).Model(&models.TopupRequest{}).Count(&stats.TotalRequests).Error; err != nil {
		return nil, fmt.Errorf("failed to count topup requests: %w", err)
	}

	counts := map[models.TopupStatus]*int64{
		models.TopupPending:  &stats.PendingRequests,
		models.TopupApproved: &stats.ApprovedRequests,
		models.TopupRejected: &stats.RejectedRequests,
	}
	for status, dst := range counts {
		if err := r.db.WithContext(ctx).Model(&models.TopupRequest{}).Where("status = ?", status).Count(dst).Error; err != nil {
			return nil, fmt.Errorf("failed to count %s topup requests: %w", status, err)
		}
	}
	return &stats, nil
}
