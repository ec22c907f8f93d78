package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Fi44er/storefront/internal/models"
	"gorm.io/gorm"
)

func (r *Repository) GetCartByUserID(ctx context.Context, userID string, tx *gorm.DB) (*models.Cart, error) {
	var cart models.Cart
	err := r.conn(ctx, tx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		First(&cart, "user_id = ?", userID).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get cart for user %s: %w", userID, err)
	}
	return &cart, nil
}

func (r *Repository) CreateCart(ctx context.Context, cart *models.Cart) error {
	return r.db.WithContext(ctx).Create(cart).Error
}

func (r *Repository) CreateCartItem(ctx context.Context, item *models.CartItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *Repository) UpdateCartItemQuantity(ctx context.Context, itemID string, quantity int) error {
	return r.db.WithContext(ctx).
		Model(&models.CartItem{}).
		Where("id = ?", itemID).
		Update("quantity", quantity).
		Error
}

// DeleteCartItem reports whether a row belonging to cartID was removed.
func (r *Repository) DeleteCartItem(ctx context.Context, cartID, itemID string) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("id = ? AND cart_id = ?", itemID, cartID).
		Delete(&models.CartItem{})
	if res.Error != nil {
		return false, fmt.Errorf("failed to delete cart item %s: %w", itemID, res.Error)
	}
	return res.RowsAffected > 0, nil
}

// DeleteCart removes the cart and its items.
func (r *Repository) DeleteCart(ctx context.Context, cartID string, tx *gorm.DB) error {
	db := r.conn(ctx, tx)
	if err := db.Where("cart_id = ?", cartID).Delete(&models.CartItem{}).Error; err != nil {
		return fmt.Errorf("failed to delete cart items: %w", err)
	}
	if err := db.Where("id = ?", cartID).Delete(&models.Cart{}).Error; err != nil {
		return fmt.Errorf("failed to delete cart: %w", err)
	}
	return nil
}
