package service

import (
	"context"
	"io"
	"sync"
	"testing"

	"github.com/Fi44er/storefront/config"
	"github.com/Fi44er/storefront/internal/models"
	"github.com/Fi44er/storefront/internal/repository"
	"github.com/Fi44er/storefront/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// lateCartRepo hides the user's cart on the first lookup, as if another
// request created it right after this one checked.
type lateCartRepo struct {
	*repository.Repository
	once sync.Once
}

func (r *lateCartRepo) GetCartByUserID(ctx context.Context, userID string, tx *gorm.DB) (*models.Cart, error) {
	hide := false
	r.once.Do(func() { hide = true })
	if hide {
		return nil, nil
	}
	return r.Repository.GetCartByUserID(ctx, userID, tx)
}

func TestAddToCart_UsesCartCreatedConcurrently(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.user(t, "carol")
	book := env.product(t, "Book", "10")
	pen := env.product(t, "Pen", "5")

	_, err := env.svc.AddToCart(ctx, user.ID, book.ID, 1)
	require.NoError(t, err)

	logger := utils.InitLogger()
	logger.SetOutput(io.Discard)
	svc, err := NewService(&lateCartRepo{Repository: env.repo}, env.gateway, env.notifier, &config.Config{BTCNetwork: "mainnet"}, logger)
	require.NoError(t, err)

	cart, err := svc.AddToCart(ctx, user.ID, pen.ID, 2)
	require.NoError(t, err)
	require.Len(t, cart.Items, 2)
	assert.True(t, cart.TotalAmount.Equal(dec("20")), cart.TotalAmount.String())
}

func TestAddToCart_MergesQuantities(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.user(t, "dave")
	book := env.product(t, "Book", "10")

	_, err := env.svc.AddToCart(ctx, user.ID, book.ID, 1)
	require.NoError(t, err)
	cart, err := env.svc.AddToCart(ctx, user.ID, book.ID, 2)
	require.NoError(t, err)

	require.Len(t, cart.Items, 1)
	assert.Equal(t, 3, cart.Items[0].Quantity)
	assert.True(t, cart.Items[0].TotalPrice.Equal(dec("30")))
}
