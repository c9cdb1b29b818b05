// Package events names the domain events and their payloads.
package events

import (
	"strconv"

	"github.com/shashiranjanraj/mockshop/app/models"
)

const (
	OrderPlaced        = "order.placed"
	OrderStatusChanged = "order.status_changed"
)

// OrderPlacedPayload is fired after the order transaction commits.
type OrderPlacedPayload struct {
	Order        models.Order
	DiscountCode string
}

// StatusChangedPayload is fired when an admin moves an order.
type StatusChangedPayload struct {
	OrderID uint
	From    string
	To      string
}

// OrderTopic is the stream topic carrying one order's status changes.
func OrderTopic(id uint) string { return "order:" + strconv.FormatUint(uint64(id), 10) }
