package models

import "time"

const (
	OrderStatusPending  = "pending"
	OrderStatusCanceled = "canceled"
)

type Order struct {
	ID              string
	UserID          string
	Status          string
	ShippingAddress string
	PaymentMethod   string
	CreatedAt       time.Time
	Items           []OrderItem
}

type OrderItem struct {
	OrderID   string
	ProductID string
	Name      string
	Quantity  int
}
