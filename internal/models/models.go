package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type User struct {
	ID           string   `gorm:"type:varchar(36);primaryKey" json:"id"`
	Username     string   `gorm:"uniqueIndex;not null" json:"username"`
	Email        string   `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string   `gorm:"not null" json:"-"`
	FirstName    *string  `json:"firstName,omitempty"`
	LastName     *string  `json:"lastName,omitempty"`
	Role         UserRole `gorm:"type:varchar(16);not null" json:"role"`
	IsActive     bool     `gorm:"not null" json:"isActive"`

	Balance decimal.Decimal `gorm:"type:decimal(20,8);not null" json:"balance"`
	// OpeningBalance is the balance the account was created with; every later
	// change is recorded in BalanceHistory.
	OpeningBalance decimal.Decimal `gorm:"type:decimal(20,8);not null" json:"-"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin || u.Role == RoleSuperAdmin
}

type Product struct {
	ID        string          `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name      string          `gorm:"not null" json:"name"`
	Price     decimal.Decimal `gorm:"type:decimal(20,8);not null" json:"price"`
	IsActive  bool            `gorm:"not null" json:"isActive"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

type Cart struct {
	ID        string     `gorm:"type:varchar(36);primaryKey" json:"id"`
	UserID    string     `gorm:"type:varchar(36);uniqueIndex;not null" json:"userId"`
	Items     []CartItem `gorm:"foreignKey:CartID" json:"items"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// CartItem keeps the product name and price as they were when added.
type CartItem struct {
	ID        string          `gorm:"type:varchar(36);primaryKey" json:"id"`
	CartID    string          `gorm:"type:varchar(36);index;not null" json:"cartId"`
	ProductID string          `gorm:"type:varchar(36);not null" json:"productId"`
	Name      string          `gorm:"not null" json:"name"`
	Price     decimal.Decimal `gorm:"type:decimal(20,8);not null" json:"price"`
	Quantity  int             `gorm:"not null" json:"quantity"`
	CreatedAt time.Time       `json:"createdAt"`
}

type Order struct {
	ID               string          `gorm:"type:varchar(36);primaryKey" json:"id"`
	OrderNumber      string          `gorm:"uniqueIndex;not null" json:"orderNumber"`
	UserID           string          `gorm:"type:varchar(36);index;not null" json:"userId"`
	User             *User           `gorm:"foreignKey:UserID" json:"-"`
	Items            []OrderItem     `gorm:"foreignKey:OrderID" json:"-"`
	TotalAmount      decimal.Decimal `gorm:"type:decimal(20,8);not null" json:"totalAmount"`
	Status           OrderStatus     `gorm:"type:varchar(16);index;not null" json:"status"`
	PaymentStatus    PaymentStatus   `gorm:"type:varchar(16);index;not null" json:"paymentStatus"`
	PaymentMethod    string          `gorm:"not null" json:"paymentMethod"`
	ShippingAddress  *string         `json:"shippingAddress,omitempty"`
	PaymentProof     *string         `json:"paymentProof,omitempty"`
	DownloadPassword *string         `json:"-"`
	CreatedAt        time.Time       `gorm:"index" json:"createdAt"`
	UpdatedAt        time.Time       `json:"updatedAt"`
}

// OrderItem is a frozen copy of a cart line; it does not follow later
// product price changes.
type OrderItem struct {
	ID        string          `gorm:"type:varchar(36);primaryKey" json:"id"`
	OrderID   string          `gorm:"type:varchar(36);index;not null" json:"orderId"`
	ProductID string          `gorm:"type:varchar(36);not null" json:"productId"`
	Name      string          `gorm:"not null" json:"name"`
	Price     decimal.Decimal `gorm:"type:decimal(20,8);not null" json:"price"`
	Quantity  int             `gorm:"not null" json:"quantity"`
}

type Payment struct {
	ID            string                 `gorm:"type:varchar(36);primaryKey" json:"id"`
	OrderID       string                 `gorm:"type:varchar(36);uniqueIndex;not null" json:"orderId"`
	Order         *Order                 `gorm:"foreignKey:OrderID" json:"-"`
	Amount        decimal.Decimal        `gorm:"type:decimal(20,8);not null" json:"amount"`
	Method        string                 `gorm:"not null" json:"method"`
	Status        PaymentStatus          `gorm:"type:varchar(16);index;not null" json:"status"`
	TransactionID *string                `json:"transactionId,omitempty"`
	Gateway       string                 `json:"gateway"`
	Metadata      map[string]interface{} `gorm:"serializer:json" json:"metadata,omitempty"`
	CreatedAt     time.Time              `json:"createdAt"`
	UpdatedAt     time.Time              `json:"updatedAt"`
}

type TopupRequest struct {
	ID              string          `gorm:"type:varchar(36);primaryKey" json:"id"`
	UserID          string          `gorm:"type:varchar(36);index;not null" json:"userId"`
	User            *User           `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Amount          decimal.Decimal `gorm:"type:decimal(20,8);not null" json:"amount"`
	CryptoAccountID string          `gorm:"type:varchar(36);index;not null" json:"cryptoAccountId"`
	CryptoAccount   *CryptoAccount  `gorm:"foreignKey:CryptoAccountID" json:"cryptoAccount,omitempty"`
	Status          TopupStatus     `gorm:"type:varchar(16);index;not null" json:"status"`
	PaymentProofURL *string         `json:"paymentProofUrl,omitempty"`
	AdminNotes      *string         `json:"adminNotes,omitempty"`
	ProcessedAt     *time.Time      `json:"processedAt,omitempty"`
	ProcessedBy     *string         `gorm:"type:varchar(36)" json:"processedBy,omitempty"`
	CreatedAt       time.Time       `gorm:"index" json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// BalanceHistory rows are append-only.
type BalanceHistory struct {
	ID              string                 `gorm:"type:varchar(36);primaryKey" json:"id"`
	UserID          string                 `gorm:"type:varchar(36);index;not null" json:"userId"`
	Amount          decimal.Decimal        `gorm:"type:decimal(20,8);not null" json:"amount"`
	Type            BalanceTransactionType `gorm:"type:varchar(32);not null" json:"type"`
	Reason          string                 `gorm:"not null" json:"reason"`
	PreviousBalance decimal.Decimal        `gorm:"type:decimal(20,8);not null" json:"previousBalance"`
	NewBalance      decimal.Decimal        `gorm:"type:decimal(20,8);not null" json:"newBalance"`
	ReferenceID     *string                `gorm:"type:varchar(64);index:idx_balance_reference,priority:2" json:"referenceId,omitempty"`
	ReferenceType   *string                `gorm:"type:varchar(32);index:idx_balance_reference,priority:1" json:"referenceType,omitempty"`
	CreatedAt       time.Time              `gorm:"index" json:"createdAt"`
}

func (BalanceHistory) TableName() string {
	return "balance_history"
}

type CryptoAccount struct {
	ID          string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name        string    `gorm:"not null" json:"name"`
	Symbol      string    `gorm:"uniqueIndex;not null" json:"symbol"`
	Address     string    `gorm:"not null" json:"address"`
	Network     *string   `json:"network,omitempty"`
	IsActive    bool      `gorm:"not null" json:"isActive"`
	Order       int       `gorm:"column:display_order;not null" json:"order"`
	Description *string   `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// All lists every table in migration order.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Product{},
		&Cart{},
		&CartItem{},
		&CryptoAccount{},
		&Order{},
		&OrderItem{},
		&Payment{},
		&TopupRequest{},
		&BalanceHistory{},
	}
}

func newID(id *string) {
	if *id == "" {
		*id = uuid.NewString()
	}
}

func (u *User) BeforeCreate(*gorm.DB) error           { newID(&u.ID); return nil }
func (p *Product) BeforeCreate(*gorm.DB) error        { newID(&p.ID); return nil }
func (c *Cart) BeforeCreate(*gorm.DB) error           { newID(&c.ID); return nil }
func (c *CartItem) BeforeCreate(*gorm.DB) error       { newID(&c.ID); return nil }
func (o *Order) BeforeCreate(*gorm.DB) error          { newID(&o.ID); return nil }
func (o *OrderItem) BeforeCreate(*gorm.DB) error      { newID(&o.ID); return nil }
func (p *Payment) BeforeCreate(*gorm.DB) error        { newID(&p.ID); return nil }
func (t *TopupRequest) BeforeCreate(*gorm.DB) error   { newID(&t.ID); return nil }
func (h *BalanceHistory) BeforeCreate(*gorm.DB) error { newID(&h.ID); return nil }
func (c *CryptoAccount) BeforeCreate(*gorm.DB) error  { newID(&c.ID); return nil }
