package service

import (
	"context"
	"io"
	"sync"
	"testing"

	"github.com/Fi44er/storefront/config"
	"github.com/Fi44er/storefront/db"
	"github.com/Fi44er/storefront/internal/models"
	"github.com/Fi44er/storefront/internal/repository"
	"github.com/Fi44er/storefront/utils"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type fakeNotifier struct {
	mu        sync.Mutex
	created   []string
	processed []string
	proofs    []string
}

func (n *fakeNotifier) TopupCreated(t *models.TopupRequest) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.created = append(n.created, t.ID)
}

func (n *fakeNotifier) TopupProcessed(t *models.TopupRequest) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.processed = append(n.processed, t.ID)
}

func (n *fakeNotifier) PaymentProofUploaded(o *models.Order) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.proofs = append(n.proofs, o.OrderNumber)
}

type fakeGateway struct {
	status models.PaymentStatus
	calls  int
}

func (g *fakeGateway) Process(context.Context, string, decimal.Decimal) (models.PaymentStatus, error) {
	g.calls++
	return g.status, nil
}

type testEnv struct {
	svc      *Service
	repo     *repository.Repository
	notifier *fakeNotifier
	gateway  *fakeGateway
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	logger := utils.InitLogger()
	logger.SetOutput(io.Discard)

	database, err := db.ConnectDb("file:"+uuid.NewString()+"?mode=memory&cache=shared", logger)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close(database, logger) })
	require.NoError(t, db.Migrate(database, true, logger))

	env := &testEnv{
		repo:     repository.NewRepository(database, logger),
		notifier: &fakeNotifier{},
		gateway:  &fakeGateway{status: models.PaymentPending},
	}
	env.svc, err = NewService(env.repo, env.gateway, env.notifier, &config.Config{BTCNetwork: "mainnet"}, logger)
	require.NoError(t, err)
	return env
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func (e *testEnv) user(t *testing.T, name string) *models.User {
	t.Helper()
	u, err := e.svc.Register(context.Background(), RegisterInput{
		Username: name,
		Email:    name + "@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)
	return u
}

func (e *testEnv) admin(t *testing.T) Requester {
	t.Helper()
	require.NoError(t, e.svc.EnsureAdmin(context.Background(), "admin", "admin@example.com", "secret123"))
	u, err := e.repo.GetUserByLogin(context.Background(), "admin")
	require.NoError(t, err)
	return Requester{UserID: u.ID, IsAdmin: true}
}

func (e *testEnv) product(t *testing.T, name, price string) *models.Product {
	t.Helper()
	p, err := e.svc.CreateProduct(context.Background(), name, dec(price))
	require.NoError(t, err)
	return p
}

func (e *testEnv) account(t *testing.T, symbol string, active bool) *models.CryptoAccount {
	t.Helper()
	a, err := e.svc.CreateCryptoAccount(context.Background(), CryptoAccountInput{
		Name:     symbol + " wallet",
		Symbol:   symbol,
		Address:  "TKieHKDKegGjW2HojHxKgsNkZAota5CuDz",
		IsActive: active,
	})
	require.NoError(t, err)
	return a
}

// order places an order for the given products, one unit each.
func (e *testEnv) order(t *testing.T, userID string, products ...*models.Product) *OrderResponse {
	t.Helper()
	ctx := context.Background()
	for _, p := range products {
		_, err := e.svc.AddToCart(ctx, userID, p.ID, 1)
		require.NoError(t, err)
	}
	o, err := e.svc.CreateOrder(ctx, userID, CreateOrderInput{PaymentMethod: "CRYPTO"})
	require.NoError(t, err)
	return o
}
