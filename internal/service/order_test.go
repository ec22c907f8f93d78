package service

import (
	"context"
	"errors"
	"testing"

	"github.com/Fi44er/storefront/internal/models"
	apperrors "github.com/Fi44er/storefront/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateOrder_SnapshotsCart(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.user(t, "alice")
	book := env.product(t, "Book", "10")
	pen := env.product(t, "Pen", "5")

	_, err := env.svc.AddToCart(ctx, user.ID, book.ID, 2)
	require.NoError(t, err)
	cart, err := env.svc.AddToCart(ctx, user.ID, pen.ID, 1)
	require.NoError(t, err)
	assert.True(t, cart.TotalAmount.Equal(dec("25")))

	order, err := env.svc.CreateOrder(ctx, user.ID, CreateOrderInput{PaymentMethod: "CRYPTO", ShippingAddress: "1 Main St"})
	require.NoError(t, err)

	assert.True(t, order.TotalAmount.Equal(dec("25")), order.TotalAmount.String())
	assert.Len(t, order.Items, 2)
	assert.Equal(t, models.OrderPending, order.Status)
	assert.Equal(t, models.PaymentPending, order.PaymentStatus)
	assert.Regexp(t, `^ORD-\d+-[A-Z0-9]{9}$`, order.OrderNumber)
	assert.Nil(t, order.DownloadPassword)

	cart, err = env.svc.GetCart(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
	assert.True(t, cart.TotalAmount.IsZero())

	_, err = env.svc.UpdateProductPrice(ctx, book.ID, dec("99"))
	require.NoError(t, err)

	again, err := env.svc.GetOrder(ctx, order.ID, Requester{UserID: user.ID})
	require.NoError(t, err)
	assert.True(t, again.TotalAmount.Equal(dec("25")))
	for _, item := range again.Items {
		if item.ProductID == book.ID {
			assert.True(t, item.Price.Equal(dec("10")))
			assert.Equal(t, 2, item.Quantity)
			assert.True(t, item.TotalPrice.Equal(dec("20")))
		}
	}
}

func TestCreateOrder_EmptyCart(t *testing.T) {
	env := newTestEnv(t)
	user := env.user(t, "bob")

	_, err := env.svc.CreateOrder(context.Background(), user.ID, CreateOrderInput{PaymentMethod: "CRYPTO"})
	assert.True(t, errors.Is(err, ErrEmptyCart))
}

func TestCreateOrder_RetriesOnNumberCollision(t *testing.T) {
	env := newTestEnv(t)
	alice := env.user(t, "alice")
	bob := env.user(t, "bob")
	book := env.product(t, "Book", "10")

	numbers := []string{"ORD-1-AAAAAAAAA", "ORD-1-AAAAAAAAA", "ORD-2-BBBBBBBBB"}
	env.svc.newOrderNumber = func() (string, error) {
		n := numbers[0]
		numbers = numbers[1:]
		return n, nil
	}

	first := env.order(t, alice.ID, book)
	assert.Equal(t, "ORD-1-AAAAAAAAA", first.OrderNumber)

	second := env.order(t, bob.ID, book)
	assert.Equal(t, "ORD-2-BBBBBBBBB", second.OrderNumber)
	assert.Len(t, second.Items, 1)
	assert.Empty(t, numbers)
}

func TestCreateOrder_GivesUpAfterRepeatedCollisions(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.user(t, "alice")
	bob := env.user(t, "bob")
	book := env.product(t, "Book", "10")

	env.svc.newOrderNumber = func() (string, error) { return "ORD-SAME", nil }
	env.order(t, alice.ID, book)

	_, err := env.svc.AddToCart(ctx, bob.ID, book.ID, 1)
	require.NoError(t, err)
	_, err = env.svc.CreateOrder(ctx, bob.ID, CreateOrderInput{PaymentMethod: "CRYPTO"})
	assert.True(t, apperrors.Is(err, apperrors.CodeConflict))

	cart, err := env.svc.GetCart(ctx, bob.ID)
	require.NoError(t, err)
	assert.Len(t, cart.Items, 1)
}

func TestGetOrder_ForeignOrderLooksMissing(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.user(t, "alice")
	mallory := env.user(t, "mallory")
	order := env.order(t, alice.ID, env.product(t, "Book", "10"))

	_, foreign := env.svc.GetOrder(ctx, order.ID, Requester{UserID: mallory.ID})
	_, missing := env.svc.GetOrder(ctx, "does-not-exist", Requester{UserID: mallory.ID})

	var a, b *apperrors.AppError
	require.True(t, errors.As(foreign, &a))
	require.True(t, errors.As(missing, &b))
	assert.Equal(t, b.Code, a.Code)
	assert.Equal(t, b.Message, a.Message)
	assert.Equal(t, b.Status, a.Status)

	_, err := env.svc.UploadPaymentProof(ctx, order.ID, "/uploads/x.png", Requester{UserID: mallory.ID})
	assert.True(t, apperrors.Is(err, apperrors.CodeNotFound))
}

func TestListOrders_ScopedToOwner(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.admin(t)
	alice := env.user(t, "alice")
	bob := env.user(t, "bob")
	book := env.product(t, "Book", "10")

	mine := env.order(t, alice.ID, book)
	env.order(t, bob.ID, book)

	orders, total, _, err := env.svc.ListOrders(ctx, models.OrderFilter{}, Requester{UserID: alice.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, orders, 1)
	assert.Equal(t, mine.ID, orders[0].ID)

	// a user cannot widen the scope through the filter
	_, total, _, err = env.svc.ListOrders(ctx, models.OrderFilter{UserID: bob.ID}, Requester{UserID: alice.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)

	_, total, _, err = env.svc.ListOrders(ctx, models.OrderFilter{}, admin)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)

	orders, total, _, err = env.svc.ListOrders(ctx, models.OrderFilter{OrderNumber: mine.OrderNumber[4:10], PaymentMethod: "cry"}, admin)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, total, int64(1))
	require.NotEmpty(t, orders)
	require.NotNil(t, orders[0].User)
}

func TestUpdateOrderStatus_DownloadPasswordIssuedOnce(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.admin(t)
	user := env.user(t, "alice")
	order := env.order(t, user.ID, env.product(t, "Book", "10"))

	paid, err := env.svc.UpdateOrderStatus(ctx, order.ID, models.OrderPaid)
	require.NoError(t, err)
	require.NotNil(t, paid.DownloadPassword)
	password := *paid.DownloadPassword
	assert.Regexp(t, `^[A-Za-z0-9]{12}$`, password)

	completed, err := env.svc.UpdateOrderStatus(ctx, order.ID, models.OrderCompleted)
	require.NoError(t, err)
	require.NotNil(t, completed.DownloadPassword)
	assert.Equal(t, password, *completed.DownloadPassword)

	viaPayment, err := env.svc.UpdateOrderPaymentStatus(ctx, order.ID, models.PaymentCompleted)
	require.NoError(t, err)
	assert.Equal(t, password, *viaPayment.DownloadPassword)
	assert.Equal(t, models.PaymentCompleted, viaPayment.PaymentStatus)

	ownerView, err := env.svc.GetOrder(ctx, order.ID, Requester{UserID: user.ID})
	require.NoError(t, err)
	assert.Nil(t, ownerView.DownloadPassword)

	adminView, err := env.svc.GetOrder(ctx, order.ID, admin)
	require.NoError(t, err)
	assert.Equal(t, password, *adminView.DownloadPassword)

	// leaving a terminal state is allowed
	reopened, err := env.svc.UpdateOrderStatus(ctx, order.ID, models.OrderPending)
	require.NoError(t, err)
	assert.Equal(t, models.OrderPending, reopened.Status)
	assert.Equal(t, password, *reopened.DownloadPassword)

	_, err = env.svc.UpdateOrderStatus(ctx, "missing", models.OrderPaid)
	assert.True(t, apperrors.Is(err, apperrors.CodeNotFound))
}

func TestUploadPaymentProof_NotifiesAdmin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.user(t, "alice")
	order := env.order(t, user.ID, env.product(t, "Book", "10"))

	_, err := env.svc.UploadPaymentProof(ctx, order.ID, "", Requester{UserID: user.ID})
	assert.True(t, apperrors.Is(err, apperrors.CodeValidation))

	updated, err := env.svc.UploadPaymentProof(ctx, order.ID, "/uploads/proof.png", Requester{UserID: user.ID})
	require.NoError(t, err)
	require.NotNil(t, updated.PaymentProof)
	assert.Equal(t, "/uploads/proof.png", *updated.PaymentProof)
	assert.Equal(t, []string{order.OrderNumber}, env.notifier.proofs)
}

func TestDeleteOrderAndStats(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.user(t, "alice")
	book := env.product(t, "Book", "10")
	pen := env.product(t, "Pen", "5")

	first := env.order(t, user.ID, book)
	env.order(t, user.ID, pen)

	_, err := env.svc.UpdateOrderStatus(ctx, first.ID, models.OrderCompleted)
	require.NoError(t, err)

	stats, err := env.svc.GetOrderStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalOrders)
	assert.Equal(t, int64(1), stats.PendingOrders)
	assert.Equal(t, int64(1), stats.CompletedOrders)
	assert.True(t, stats.TotalRevenue.Equal(dec("15")))
	assert.True(t, stats.AverageOrderValue.Equal(dec("7.5")))

	require.NoError(t, env.svc.DeleteOrder(ctx, first.ID))
	_, err = env.svc.GetOrder(ctx, first.ID, Requester{IsAdmin: true})
	assert.True(t, apperrors.Is(err, apperrors.CodeNotFound))
	assert.True(t, apperrors.Is(env.svc.DeleteOrder(ctx, first.ID), apperrors.CodeNotFound))
}
