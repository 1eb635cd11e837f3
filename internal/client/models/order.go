package models

// NewOrder is the payload submitted at checkout: the cart snapshot plus
// shipping and payment method.
type NewOrder struct {
	Items           Cart   `json:"items"`
	ShippingAddress string `json:"shipping_address"`
	PaymentMethod   string `json:"payment_method"`
}

// Order is a placed order as reported by the backend.
type Order struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Items  Cart   `json:"items"`
}
