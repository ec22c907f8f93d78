package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Fi44er/storefront/config"
	"github.com/Fi44er/storefront/internal/models"
	"github.com/Fi44er/storefront/utils"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Service struct {
	repo      Repository
	gateway   PaymentGateway
	notifier  Notifier
	logger    *utils.Logger
	config    *config.Config
	btcParams *chaincfg.Params

	now            func() time.Time
	newOrderNumber func() (string, error)
}

type Repository interface {
	BeginTransaction(ctx context.Context) (*gorm.DB, error)
	Commit(tx *gorm.DB) error
	Rollback(tx *gorm.DB)

	GetUserByID(ctx context.Context, id string, tx *gorm.DB) (*models.User, error)
	GetUserByLogin(ctx context.Context, login string) (*models.User, error)
	CreateUser(ctx context.Context, user *models.User) error
	LockUser(ctx context.Context, id string, tx *gorm.DB) (*models.User, error)
	UpdateUserBalance(ctx context.Context, userID string, newBalance decimal.Decimal, tx *gorm.DB) error

	CreateProduct(ctx context.Context, product *models.Product) error
	GetProductByID(ctx context.Context, id string) (*models.Product, error)
	UpdateProductPrice(ctx context.Context, product *models.Product) error

	GetCartByUserID(ctx context.Context, userID string, tx *gorm.DB) (*models.Cart, error)
	CreateCart(ctx context.Context, cart *models.Cart) error
	CreateCartItem(ctx context.Context, item *models.CartItem) error
	UpdateCartItemQuantity(ctx context.Context, itemID string, quantity int) error
	DeleteCartItem(ctx context.Context, cartID, itemID string) (bool, error)
	DeleteCart(ctx context.Context, cartID string, tx *gorm.DB) error

	CreateOrder(ctx context.Context, order *models.Order, tx *gorm.DB) error
	GetOrderByID(ctx context.Context, id string, tx *gorm.DB) (*models.Order, error)
	LockOrder(ctx context.Context, id string, tx *gorm.DB) (*models.Order, error)
	ListOrders(ctx context.Context, filter models.OrderFilter) ([]models.Order, int64, error)
	UpdateOrder(ctx context.Context, id string, fields map[string]interface{}, tx *gorm.DB) error
	DeleteOrder(ctx context.Context, id string, tx *gorm.DB) error
	GetOrderStats(ctx context.Context) (*models.OrderStats, error)

	CreatePayment(ctx context.Context, payment *models.Payment, tx *gorm.DB) error
	GetPaymentByID(ctx context.Context, id string, tx *gorm.DB) (*models.Payment, error)
	LockPayment(ctx context.Context, id string, tx *gorm.DB) (*models.Payment, error)
	GetPaymentByOrderID(ctx context.Context, orderID string, tx *gorm.DB) (*models.Payment, error)
	UpdatePaymentStatus(ctx context.Context, id string, status models.PaymentStatus, tx *gorm.DB) error
	GetPaymentStats(ctx context.Context) (*models.PaymentStats, error)

	CreateTopup(ctx context.Context, topup *models.TopupRequest) error
	GetTopupByID(ctx context.Context, id string, tx *gorm.DB) (*models.TopupRequest, error)
	LockTopup(ctx context.Context, id string, tx *gorm.DB) (*models.TopupRequest, error)
	ListTopups(ctx context.Context, filter models.TopupFilter) ([]models.TopupRequest, int64, error)
	UpdateTopup(ctx context.Context, id string, fields map[string]interface{}, tx *gorm.DB) error
	DeleteTopup(ctx context.Context, id string) (bool, error)
	GetTopupStats(ctx context.Context) (*models.TopupStats, error)

	CreateBalanceHistory(ctx context.Context, entry *models.BalanceHistory, tx *gorm.DB) error
	HasBalanceEntry(ctx context.Context, referenceType, referenceID string, entryType models.BalanceTransactionType, tx *gorm.DB) (bool, error)
	ListBalanceHistory(ctx context.Context, userID string, page models.Page) ([]models.BalanceHistory, int64, error)
	SumBalanceHistory(ctx context.Context, userID string) (decimal.Decimal, error)

	CreateCryptoAccount(ctx context.Context, account *models.CryptoAccount) error
	GetCryptoAccountByID(ctx context.Context, id string) (*models.CryptoAccount, error)
	GetCryptoAccountBySymbol(ctx context.Context, symbol string) (*models.CryptoAccount, error)
	ListCryptoAccounts(ctx context.Context, activeOnly bool) ([]models.CryptoAccount, error)
	UpdateCryptoAccount(ctx context.Context, account *models.CryptoAccount) error
	DeleteCryptoAccount(ctx context.Context, id string) error
}

// PaymentGateway decides the outcome of a payment attempt.
type PaymentGateway interface {
	Process(ctx context.Context, method string, amount decimal.Decimal) (models.PaymentStatus, error)
}

// Notifier tells admins about events that need a human. Implementations must
// not block the caller for long and never fail the operation.
type Notifier interface {
	TopupCreated(topup *models.TopupRequest)
	TopupProcessed(topup *models.TopupRequest)
	PaymentProofUploaded(order *models.Order)
}

// Requester is the authenticated caller as seen by the workflows.
type Requester struct {
	UserID  string
	IsAdmin bool
}

// canSee reports whether the requester may read an entity owned by ownerID.
func (r Requester) canSee(ownerID string) bool {
	return r.IsAdmin || r.UserID == ownerID
}

func NewService(repo Repository, gateway PaymentGateway, notifier Notifier, cfg *config.Config, logger *utils.Logger) (*Service, error) {
	params, err := utils.NetParams(cfg.BTCNetwork)
	if err != nil {
		return nil, err
	}

	s := &Service{
		repo:      repo,
		gateway:   gateway,
		notifier:  notifier,
		logger:    logger,
		config:    cfg,
		btcParams: params,
		now:       time.Now,
	}
	s.newOrderNumber = s.generateOrderNumber
	return s, nil
}

// inTx runs fn inside one database transaction, rolling back on error or panic.
func (s *Service) inTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	tx, err := s.repo.BeginTransaction(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if r := recover(); r != nil {
			s.logger.Errorf("Panic occurred: %v", r)
			s.repo.Rollback(tx)
			panic(r)
		}
	}()

	if err := fn(tx); err != nil {
		s.repo.Rollback(tx)
		return err
	}

	if err := s.repo.Commit(tx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (s *Service) generateOrderNumber() (string, error) {
	suffix, err := utils.RandomUpperAlnum(9)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("ORD-%d-%s", s.now().UnixMilli(), suffix), nil
}

func (s *Service) generateTransactionID() (string, error) {
	suffix, err := utils.RandomUpperAlnum(9)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("TXN-%d-%s", s.now().UnixMilli(), suffix), nil
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
