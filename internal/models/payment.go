package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type OrderType string

const (
	OrderDelivery OrderType = "delivery"
	OrderPickup   OrderType = "pickup"
)

// ParseOrderType falls back to delivery for anything it does not recognise.
func ParseOrderType(s string) OrderType {
	if OrderType(strings.ToLower(strings.TrimSpace(s))) == OrderPickup {
		return OrderPickup
	}
	return OrderDelivery
}

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentVerified PaymentStatus = "verified"
	PaymentRejected PaymentStatus = "rejected"
)

func ParsePaymentStatus(s string) (PaymentStatus, bool) {
	switch st := PaymentStatus(strings.ToLower(strings.TrimSpace(s))); st {
	case PaymentPending, PaymentVerified, PaymentRejected:
		return st, true
	}
	return "", false
}

// ResolveDesiredStatus accepts either a direct status or an admin action.
// A non-empty status takes precedence over the action.
func ResolveDesiredStatus(status, action string) (PaymentStatus, bool) {
	if strings.TrimSpace(status) != "" {
		return ParsePaymentStatus(status)
	}
	switch strings.ToLower(strings.TrimSpace(action)) {
	case "approve", "approved", "verify":
		return PaymentVerified, true
	case "decline", "declined", "reject", "rejected":
		return PaymentRejected, true
	}
	return "", false
}

// Order status vocabulary written by propagation.
const (
	OrderStatusProcessing = "processing"
	OrderStatusPending    = "pending"
	OrderStatusCanceled   = "canceled"
)

// DerivedOrderStatus maps a payment outcome onto the order or pickup record.
// ok is false when nothing should be propagated.
func DerivedOrderStatus(st PaymentStatus, t OrderType) (string, bool) {
	switch st {
	case PaymentVerified:
		if t == OrderPickup {
			return OrderStatusPending, true
		}
		return OrderStatusProcessing, true
	case PaymentRejected:
		return OrderStatusCanceled, true
	}
	return "", false
}

// NoCustomerName is shown when neither name, email nor phone is known.
const NoCustomerName = "—"

type PaymentTransaction struct {
	ID                   int64           `json:"id"`
	OrderID              *string         `json:"order_id"`
	OrderType            OrderType       `json:"order_type"`
	PaymentMethod        string          `json:"payment_method"`
	Amount               decimal.Decimal `json:"amount"`
	CustomerName         *string         `json:"customer_name"`
	CustomerEmail        *string         `json:"customer_email"`
	CustomerPhone        *string         `json:"customer_phone"`
	TransactionReference string          `json:"transaction_reference"`
	Notes                *string         `json:"notes"`
	Status               PaymentStatus   `json:"status"`
	CreatedAt            time.Time       `json:"created_at"`
	UpdatedAt            time.Time       `json:"updated_at"`
}

// NumericOrderID returns the order reference as a primary key when it is
// made of digits only.
func (p PaymentTransaction) NumericOrderID() (int64, bool) {
	if p.OrderID == nil {
		return 0, false
	}
	return ParseNumericRef(*p.OrderID)
}

// Backfill copies contact fields from the order into blank ones.
func (p *PaymentTransaction) Backfill(c OrderContact) {
	fill := func(dst **string, src *string) {
		if blank(*dst) && !blank(src) {
			v := *src
			*dst = &v
		}
	}
	fill(&p.CustomerName, c.Name)
	fill(&p.CustomerEmail, c.Email)
	fill(&p.CustomerPhone, c.Phone)
}

// Formatted returns a copy whose customer name is never blank.
func (p PaymentTransaction) Formatted() PaymentTransaction {
	if !blank(p.CustomerName) {
		return p
	}
	name := NoCustomerName
	switch {
	case !blank(p.CustomerEmail):
		name = *p.CustomerEmail
	case !blank(p.CustomerPhone):
		name = *p.CustomerPhone
	}
	p.CustomerName = &name
	return p
}

func blank(s *string) bool { return s == nil || strings.TrimSpace(*s) == "" }
