package models

import "github.com/shopspring/decimal"

const (
	DefaultPageLimit = 10
	MaxPageLimit     = 100
)

type Page struct {
	Page  int
	Limit int
}

// Normalize applies the default page (1) and limit, capping the limit.
func (p Page) Normalize() Page {
	if p.Page <= 0 {
		p.Page = 1
	}
	if p.Limit <= 0 {
		p.Limit = DefaultPageLimit
	}
	if p.Limit > MaxPageLimit {
		p.Limit = MaxPageLimit
	}
	return p
}

func (p Page) Offset() int {
	return (p.Page - 1) * p.Limit
}

type OrderFilter struct {
	Page
	// UserID scopes the listing to one owner; empty means all orders.
	UserID        string
	Status        OrderStatus
	PaymentStatus PaymentStatus
	OrderNumber   string
	PaymentMethod string
}

type TopupFilter struct {
	Page
	Search          string
	Status          TopupStatus
	CryptoAccountID string
	UserID          string
}

type OrderStats struct {
	TotalOrders       int64           `json:"totalOrders"`
	PendingOrders     int64           `json:"pendingOrders"`
	CompletedOrders   int64           `json:"completedOrders"`
	TotalRevenue      decimal.Decimal `json:"totalRevenue"`
	AverageOrderValue decimal.Decimal `json:"averageOrderValue"`
}

type TopupStats struct {
	TotalRequests    int64 `json:"totalRequests"`
	PendingRequests  int64 `json:"pendingRequests"`
	ApprovedRequests int64 `json:"approvedRequests"`
	RejectedRequests int64 `json:"rejectedRequests"`
}

type PaymentStats struct {
	TotalPayments     int64           `json:"totalPayments"`
	CompletedPayments int64           `json:"completedPayments"`
	PendingPayments   int64           `json:"pendingPayments"`
	FailedPayments    int64           `json:"failedPayments"`
	TotalAmount       decimal.Decimal `json:"totalAmount"`
	AverageAmount     decimal.Decimal `json:"averageAmount"`
}
