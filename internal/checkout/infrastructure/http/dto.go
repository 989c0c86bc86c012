package http

import (
	"time"

	"github.com/sanchitg17/Thrift-Marketplace/internal/checkout/domain"
)

type checkoutRequest struct {
	StoreID   string            `json:"storeId"`
	StoreName string            `json:"storeName"`
	Items     []cartItemDTO     `json:"items"`
	Customer  customerFieldsDTO `json:"customer"`
}

type cartItemDTO struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type customerFieldsDTO struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	ShippingAddress string `json:"shippingAddress"`
}

type checkoutResponse struct {
	MerchantOrderID string `json:"merchantOrderId"`
	SessionToken    string `json:"sessionToken,omitempty"`
	RedirectURL     string `json:"redirectUrl,omitempty"`
}

type statusResponse struct {
	MerchantOrderID string        `json:"merchantOrderId"`
	State           string        `json:"state"`
	Status          string        `json:"status"`
	TotalAmount     float64       `json:"totalAmount"`
	Items           []lineItemDTO `json:"items"`
	CustomerName    string        `json:"customerName"`
}

type lineItemDTO struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
}

type orderResponse struct {
	ID              string        `json:"id"`
	MerchantOrderID string        `json:"merchantOrderId"`
	GatewayTxnID    string        `json:"gatewayTxnId,omitempty"`
	StoreID         string        `json:"storeId"`
	StoreName       string        `json:"storeName"`
	Items           []lineItemDTO `json:"items"`
	TotalAmount     float64       `json:"totalAmount"`
	CustomerName    string        `json:"customerName"`
	CustomerEmail   string        `json:"customerEmail"`
	CustomerPhone   string        `json:"customerPhone"`
	ShippingAddress string        `json:"shippingAddress"`
	Status          string        `json:"status"`
	CreatedAt       time.Time     `json:"createdAt"`
}

type webhookRequest struct {
	Event   string         `json:"event"`
	Payload webhookPayload `json:"payload"`
}

type webhookPayload struct {
	MerchantOrderID string `json:"merchantOrderId"`
	State           string `json:"state"`
	TransactionID   string `json:"transactionId"`
}

type cartDTO struct {
	UserID    string        `json:"userId"`
	StoreID   string        `json:"storeId"`
	StoreName string        `json:"storeName"`
	Items     []cartItemDTO `json:"items"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func mapOrder(o domain.Order) orderResponse {
	return orderResponse{
		ID:              o.ID,
		MerchantOrderID: o.MerchantOrderRef,
		GatewayTxnID:    o.GatewayTxnRef,
		StoreID:         o.StoreID,
		StoreName:       o.StoreName,
		Items:           mapLineItems(o.Items),
		TotalAmount:     o.TotalAmount,
		CustomerName:    o.CustomerName,
		CustomerEmail:   o.CustomerEmail,
		CustomerPhone:   o.CustomerPhone,
		ShippingAddress: o.ShippingAddress,
		Status:          string(o.Status),
		CreatedAt:       o.CreatedAt,
	}
}

func mapLineItems(items []domain.LineItem) []lineItemDTO {
	out := make([]lineItemDTO, len(items))
	for i, item := range items {
		out[i] = lineItemDTO{
			ProductID: item.ProductID,
			Name:      item.Name,
			Price:     item.Price,
			Quantity:  item.Quantity,
		}
	}
	return out
}

func mapCart(c domain.Cart) cartDTO {
	items := make([]cartItemDTO, len(c.Items))
	for i, item := range c.Items {
		items[i] = cartItemDTO{ProductID: item.ProductID, Quantity: item.Quantity}
	}
	return cartDTO{UserID: c.UserID, StoreID: c.StoreID, StoreName: c.StoreName, Items: items}
}
