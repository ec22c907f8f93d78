package service

import (
	"context"
	"errors"
	"strings"

	"github.com/Fi44er/storefront/internal/models"
	apperrors "github.com/Fi44er/storefront/pkg/errors"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CartItemResponse struct {
	ID         string          `json:"id"`
	ProductID  string          `json:"productId"`
	Name       string          `json:"name"`
	Price      decimal.Decimal `json:"price"`
	Quantity   int             `json:"quantity"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
}

type CartResponse struct {
	ID          string             `json:"id,omitempty"`
	Items       []CartItemResponse `json:"items"`
	TotalAmount decimal.Decimal    `json:"totalAmount"`
}

func (s *Service) CreateProduct(ctx context.Context, name string, price decimal.Decimal) (*models.Product, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.Validation("name is required", nil)
	}
	if !price.IsPositive() {
		return nil, apperrors.Validation("price must be positive", nil)
	}

	product := &models.Product{Name: name, Price: price, IsActive: true}
	if err := s.repo.CreateProduct(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// UpdateProductPrice changes the catalog price. Existing cart lines and
// orders keep the price they were created with.
func (s *Service) UpdateProductPrice(ctx context.Context, id string, price decimal.Decimal) (*models.Product, error) {
	if !price.IsPositive() {
		return nil, apperrors.Validation("price must be positive", nil)
	}

	product, err := s.repo.GetProductByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperrors.NotFound("Product", nil)
	}

	product.Price = price
	if err := s.repo.UpdateProductPrice(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// AddToCart snapshots the product name and current price. Adding a product
// that is already in the cart only raises its quantity.
func (s *Service) AddToCart(ctx context.Context, userID, productID string, quantity int) (*CartResponse, error) {
	if quantity <= 0 {
		return nil, apperrors.Validation("quantity must be positive", nil)
	}

	product, err := s.repo.GetProductByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil || !product.IsActive {
		return nil, apperrors.NotFound("Product", nil)
	}

	cart, err := s.repo.GetCartByUserID(ctx, userID, nil)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		if cart, err = s.createCart(ctx, userID); err != nil {
			return nil, err
		}
	}

	for _, item := range cart.Items {
		if item.ProductID == productID {
			if err := s.repo.UpdateCartItemQuantity(ctx, item.ID, item.Quantity+quantity); err != nil {
				return nil, err
			}
			return s.GetCart(ctx, userID)
		}
	}

	item := &models.CartItem{
		CartID:    cart.ID,
		ProductID: product.ID,
		Name:      product.Name,
		Price:     product.Price,
		Quantity:  quantity,
		CreatedAt: s.now(),
	}
	if err := s.repo.CreateCartItem(ctx, item); err != nil {
		return nil, err
	}
	return s.GetCart(ctx, userID)
}

// createCart opens the user's cart. A concurrent request that created it
// first wins and its cart is used.
func (s *Service) createCart(ctx context.Context, userID string) (*models.Cart, error) {
	cart := &models.Cart{UserID: userID}
	err := s.repo.CreateCart(ctx, cart)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, err
	}

	existing, err := s.repo.GetCartByUserID(ctx, userID, nil)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, apperrors.Conflict("Cart is being created, retry the request")
	}
	return existing, nil
}

func (s *Service) GetCart(ctx context.Context, userID string) (*CartResponse, error) {
	cart, err := s.repo.GetCartByUserID(ctx, userID, nil)
	if err != nil {
		return nil, err
	}

	resp := &CartResponse{Items: []CartItemResponse{}, TotalAmount: decimal.Zero}
	if cart == nil {
		return resp, nil
	}

	resp.ID = cart.ID
	for _, item := range cart.Items {
		line := item.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
		resp.Items = append(resp.Items, CartItemResponse{
			ID:         item.ID,
			ProductID:  item.ProductID,
			Name:       item.Name,
			Price:      item.Price,
			Quantity:   item.Quantity,
			TotalPrice: line,
		})
		resp.TotalAmount = resp.TotalAmount.Add(line)
	}
	return resp, nil
}

func (s *Service) RemoveCartItem(ctx context.Context, userID, itemID string) (*CartResponse, error) {
	cart, err := s.repo.GetCartByUserID(ctx, userID, nil)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return nil, apperrors.NotFound("Cart item", nil)
	}

	deleted, err := s.repo.DeleteCartItem(ctx, cart.ID, itemID)
	if err != nil {
		return nil, err
	}
	if !deleted {
		return nil, apperrors.NotFound("Cart item", nil)
	}
	return s.GetCart(ctx, userID)
}

// cartTotal is the sum of price*quantity over the snapshot lines.
func cartTotal(items []models.CartItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}
