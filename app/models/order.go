package models

import "time"

// Cart is the server-side basket of a signed-in user.
type Cart struct {
	Model
	UserID uint       `gorm:"uniqueIndex;not null" json:"userId"`
	Items  []CartItem `json:"items,omitempty"`
}

// CartItem is unique per (cart, product).
type CartItem struct {
	Model
	CartID    uint     `gorm:"uniqueIndex:idx_cart_item_product;not null" json:"cartId"`
	ProductID uint     `gorm:"uniqueIndex:idx_cart_item_product;not null" json:"productId"`
	Quantity  int      `gorm:"not null" json:"quantity"`
	Product   *Product `json:"product,omitempty"`
}

// Address is a free-form postal address stored as JSON.
type Address map[string]any

// Order is frozen at creation apart from its status. UserID is nil for
// guest checkouts and for orders whose account was deleted.
type Order struct {
	Model
	UserID          *uint       `gorm:"index" json:"userId"`
	Status          string      `gorm:"size:20;not null;index" json:"status"`
	Subtotal        float64     `gorm:"not null" json:"subtotal"`
	DiscountAmount  float64     `gorm:"not null;default:0" json:"discountAmount"`
	Tax             float64     `gorm:"not null;default:0" json:"tax"`
	Shipping        float64     `gorm:"not null;default:0" json:"shipping"`
	Total           float64     `gorm:"not null" json:"total"`
	ShippingAddress Address     `gorm:"serializer:json;type:text" json:"shippingAddress"`
	BillingAddress  Address     `gorm:"serializer:json;type:text" json:"billingAddress"`
	PaymentMethod   string      `gorm:"size:50" json:"paymentMethod"`
	DiscountCode    *string     `gorm:"size:50" json:"discountCode"`
	Items           []OrderItem `json:"items,omitempty"`
	User            *User       `json:"user,omitempty"`
}

// OrderItem keeps the unit price paid at purchase time.
type OrderItem struct {
	Model
	OrderID   uint     `gorm:"not null;index" json:"orderId"`
	ProductID uint     `gorm:"not null;index" json:"productId"`
	Quantity  int      `gorm:"not null" json:"quantity"`
	Price     float64  `gorm:"not null" json:"price"`
	Product   *Product `json:"product,omitempty"`
}

// DiscountCode is redeemable at checkout. CurrentUses never exceeds MaxUses.
type DiscountCode struct {
	Model
	Code           string     `gorm:"uniqueIndex;size:50;not null" json:"code"`
	Type           string     `gorm:"size:20;not null" json:"type"`
	Value          float64    `gorm:"not null" json:"value"`
	MinOrderAmount *float64   `json:"minOrderAmount"`
	MaxUses        *int       `json:"maxUses"`
	CurrentUses    int        `gorm:"not null;default:0" json:"currentUses"`
	ExpiresAt      *time.Time `json:"expiresAt"`
	IsActive       bool       `gorm:"not null" json:"isActive"`
}

// Expired reports whether the code has passed its expiry at t.
func (d DiscountCode) Expired(t time.Time) bool {
	return d.ExpiresAt != nil && d.ExpiresAt.Before(t)
}

// Exhausted reports whether the usage limit has been reached.
func (d DiscountCode) Exhausted() bool {
	return d.MaxUses != nil && d.CurrentUses >= *d.MaxUses
}
