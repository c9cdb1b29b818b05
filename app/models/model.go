// Package models holds the GORM models of the shop.
package models

import "time"

// Model is embedded by every table. Rows are hard-deleted, so there is no
// DeletedAt column.
type Model struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Roles.
const (
	RoleCustomer = "CUSTOMER"
	RoleAdmin    = "ADMIN"
)

// Order statuses, in lifecycle order.
const (
	OrderPending   = "PENDING"
	OrderConfirmed = "CONFIRMED"
	OrderShipped   = "SHIPPED"
	OrderDelivered = "DELIVERED"
	OrderCancelled = "CANCELLED"
)

// OrderStatuses lists every valid order status.
var OrderStatuses = []string{OrderPending, OrderConfirmed, OrderShipped, OrderDelivered, OrderCancelled}

// ValidOrderStatus reports whether s is one of OrderStatuses.
func ValidOrderStatus(s string) bool {
	for _, st := range OrderStatuses {
		if st == s {
			return true
		}
	}
	return false
}

// Discount types.
const (
	DiscountPercentage = "PERCENTAGE"
	DiscountFixed      = "FIXED"
)

// PlaceholderImage is used when a product is saved without images.
const PlaceholderImage = "/images/placeholder.svg"
