package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Fi44er/storefront/internal/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func (r *Repository) GetUserByID(ctx context.Context, id string, tx *gorm.DB) (*models.User, error) {
	var user models.User
	err := r.conn(ctx, tx).First(&user, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user %s: %w", id, err)
	}
	return &user, nil
}

// GetUserByLogin matches either the username or the email.
func (r *Repository) GetUserByLogin(ctx context.Context, login string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Where("LOWER(username) = ? OR LOWER(email) = ?", lower(login), lower(login)).
		First(&user).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by login: %w", err)
	}
	return &user, nil
}

func (r *Repository) CreateUser(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// LockUser reads the user row with a row lock held until tx ends.
func (r *Repository) LockUser(ctx context.Context, id string, tx *gorm.DB) (*models.User, error) {
	var user models.User
	err := forUpdate(tx.WithContext(ctx)).First(&user, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to lock user %s: %w", id, err)
	}
	return &user, nil
}

func (r *Repository) UpdateUserBalance(ctx context.Context, userID string, newBalance decimal.Decimal, tx *gorm.DB) error {
	res := r.conn(ctx, tx).
		Model(&models.User{}).
		Where("id = ?", userID).
		Update("balance", newBalance)

	if res.Error != nil {
		r.logger.Errorf("Failed to update balance for user %s: %v", userID, res.Error)
		return fmt.Errorf("failed to update balance: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("user %s not found for balance update", userID)
	}
	return nil
}
