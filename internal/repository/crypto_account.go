package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Fi44er/storefront/internal/models"
	"gorm.io/gorm"
)

func (r *Repository) CreateCryptoAccount(ctx context.Context, account *models.CryptoAccount) error {
	return r.db.WithContext(ctx).Create(account).Error
}

func (r *Repository) GetCryptoAccountByID(ctx context.Context, id string) (*models.CryptoAccount, error) {
	var account models.CryptoAccount
	err := r.db.WithContext(ctx).First(&account, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get crypto account %s: %w", id, err)
	}
	return &account, nil
}

func (r *Repository) GetCryptoAccountBySymbol(ctx context.Context, symbol string) (*models.CryptoAccount, error) {
	var account models.CryptoAccount
	err := r.db.WithContext(ctx).First(&account, "symbol = ?", symbol).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get crypto account %s: %w", symbol, err)
	}
	return &account, nil
}

// ListCryptoAccounts orders by display rank, then creation time.
func (r *Repository) ListCryptoAccounts(ctx context.Context, activeOnly bool) ([]models.CryptoAccount, error) {
	query := r.db.WithContext(ctx)
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}

	var accounts []models.CryptoAccount
	if err := query.Order("display_order ASC").Order("created_at ASC").Find(&accounts).Error; err != nil {
		return nil, fmt.Errorf("failed to list crypto accounts: %w", err)
	}
	return accounts, nil
}

func (r *Repository) UpdateCryptoAccount(ctx context.Context, account *models.CryptoAccount) error {
	return r.db.WithContext(ctx).Save(account).Error
}

func (r *Repository) DeleteCryptoAccount(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.CryptoAccount{}).Error
}
