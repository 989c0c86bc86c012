package domain

import (
	"math"
	"time"
)

type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusPaid      OrderStatus = "paid"
	StatusFailed    OrderStatus = "failed"
	StatusCancelled OrderStatus = "cancelled"
	StatusShipped   OrderStatus = "shipped"
	StatusDelivered OrderStatus = "delivered"
)

// Terminal reports whether the status ends the payment lifecycle. Paid orders
// continue into fulfilment (shipped/delivered) but are terminal as far as
// payment reconciliation is concerned.
func (s OrderStatus) Terminal() bool {
	switch s {
	case StatusPaid, StatusFailed, StatusCancelled, StatusShipped, StatusDelivered:
		return true
	}
	return false
}

// Order is the permanent ledger record of a checkout attempt. Status is
// mutated only through conditional updates keyed on the current status;
// totalAmount and items are immutable once written.
type Order struct {
	ID               string
	MerchantOrderRef string
	GatewayTxnRef    string
	UserID           string
	StoreID          string
	StoreName        string
	Items            []LineItem
	TotalAmount      float64
	CustomerName     string
	CustomerEmail    string
	CustomerPhone    string
	ShippingAddress  string
	Status           OrderStatus
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// LineItem snapshots a product at purchase time with the server-side price.
type LineItem struct {
	ProductID string
	Name      string
	Price     float64
	Quantity  int
}

func (li LineItem) Subtotal() float64 {
	return li.Price * float64(li.Quantity)
}

func NewOrder(id, merchantRef, userID string, snapshot CartSnapshot, items []LineItem, customer Customer) Order {
	var total float64
	for _, item := range items {
		total += item.Subtotal()
	}
	now := time.Now().UTC()
	return Order{
		ID:               id,
		MerchantOrderRef: merchantRef,
		UserID:           userID,
		StoreID:          snapshot.StoreID,
		StoreName:        snapshot.StoreName,
		Items:            items,
		TotalAmount:      total,
		CustomerName:     customer.Name,
		CustomerEmail:    customer.Email,
		CustomerPhone:    customer.Phone,
		ShippingAddress:  customer.ShippingAddress,
		Status:           StatusPending,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

// Customer carries the contact and shipping fields denormalized onto the
// order at creation time.
type Customer struct {
	Name            string
	Email           string
	Phone           string
	ShippingAddress string
}

// MinorUnits converts a major-unit amount to the smallest currency unit for
// the gateway wire call. Rounds to guard against float drift; the gateway
// never sees a floating-point amount.
func MinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}
