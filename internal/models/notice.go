package models

import "github.com/shopspring/decimal"

type CartItem struct {
	Name     string          `json:"name"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

// PaymentNotice is what the customer is told after submitting a payment
// confirmation. Cart and pickup fields only feed the email body.
type PaymentNotice struct {
	OrderType     OrderType
	Email         string
	Name          string
	OrderID       string
	PaymentMethod string
	Amount        decimal.Decimal
	Reference     string
	CartItems     []CartItem
	PickupDate    string
	PickupBranch  string
}
