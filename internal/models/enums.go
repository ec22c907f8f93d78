package models

import (
	"fmt"
	"strings"
)

type UserRole string

const (
	RoleUser       UserRole = "USER"
	RoleAdmin      UserRole = "ADMIN"
	RoleSuperAdmin UserRole = "SUPER_ADMIN"
)

type OrderStatus string

const (
	OrderPending   OrderStatus = "PENDING"
	OrderPaid      OrderStatus = "PAID"
	OrderCompleted OrderStatus = "COMPLETED"
	OrderCancelled OrderStatus = "CANCELLED"
	OrderRefunded  OrderStatus = "REFUNDED"
)

func ParseOrderStatus(s string) (OrderStatus, error) {
	switch st := OrderStatus(strings.ToUpper(strings.TrimSpace(s))); st {
	case OrderPending, OrderPaid, OrderCompleted, OrderCancelled, OrderRefunded:
		return st, nil
	}
	return "", fmt.Errorf("unknown order status %q", s)
}

// IsTerminal reports whether no further transition is expected from st.
func (st OrderStatus) IsTerminal() bool {
	return st == OrderCompleted || st == OrderCancelled || st == OrderRefunded
}

// UnlocksDownload reports whether reaching st issues the download password.
func (st OrderStatus) UnlocksDownload() bool {
	return st == OrderPaid || st == OrderCompleted
}

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "PENDING"
	PaymentCompleted PaymentStatus = "COMPLETED"
	PaymentFailed    PaymentStatus = "FAILED"
	PaymentRefunded  PaymentStatus = "REFUNDED"
)

// ParsePaymentStatus accepts PAID as a synonym for COMPLETED.
func ParsePaymentStatus(s string) (PaymentStatus, error) {
	switch st := PaymentStatus(strings.ToUpper(strings.TrimSpace(s))); st {
	case PaymentPending, PaymentCompleted, PaymentFailed, PaymentRefunded:
		return st, nil
	case "PAID":
		return PaymentCompleted, nil
	}
	return "", fmt.Errorf("unknown payment status %q", s)
}

func (st PaymentStatus) IsTerminal() bool {
	return st == PaymentCompleted || st == PaymentFailed || st == PaymentRefunded
}

type TopupStatus string

const (
	TopupPending  TopupStatus = "PENDING"
	TopupApproved TopupStatus = "APPROVED"
	TopupRejected TopupStatus = "REJECTED"
)

func ParseTopupStatus(s string) (TopupStatus, error) {
	switch st := TopupStatus(strings.ToUpper(strings.TrimSpace(s))); st {
	case TopupPending, TopupApproved, TopupRejected:
		return st, nil
	}
	return "", fmt.Errorf("unknown topup status %q", s)
}

type BalanceTransactionType string

const (
	BalanceAdd             BalanceTransactionType = "ADD"
	BalanceSubtract        BalanceTransactionType = "SUBTRACT"
	BalancePaymentApproval BalanceTransactionType = "PAYMENT_APPROVAL"
	BalanceTopupApproval   BalanceTransactionType = "TOPUP_APPROVAL"
	BalancePurchase        BalanceTransactionType = "PURCHASE"
	BalanceRefund          BalanceTransactionType = "REFUND"
)

func ParseBalanceTransactionType(s string) (BalanceTransactionType, error) {
	switch t := BalanceTransactionType(strings.ToUpper(strings.TrimSpace(s))); t {
	case BalanceAdd, BalanceSubtract, BalancePaymentApproval, BalanceTopupApproval, BalancePurchase, BalanceRefund:
		return t, nil
	}
	return "", fmt.Errorf("unknown balance transaction type %q", s)
}

// IsDebit reports whether an unsigned amount of this type reduces the balance.
func (t BalanceTransactionType) IsDebit() bool {
	return t == BalanceSubtract || t == BalancePurchase
}

const (
	ReferenceOrder   = "order"
	ReferencePayment = "payment"
	ReferenceTopup   = "topup"
)
