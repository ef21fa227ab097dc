package models

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Order is a row of either the orders or the pickup_orders table.
type Order struct {
	ID            int64           `json:"id"`
	Code          *string         `json:"order_id"`
	Status        string          `json:"status"`
	CustomerName  *string         `json:"customer_name"`
	CustomerEmail *string         `json:"customer_email"`
	CustomerPhone *string         `json:"customer_phone"`
	Total         decimal.Decimal `json:"total"`
	PickupDate    *time.Time      `json:"pickup_date,omitempty"`
	PickupBranch  *string         `json:"pickup_branch,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

type OrderContact struct {
	Name  *string
	Email *string
	Phone *string
}

func (o Order) Contact() OrderContact {
	return OrderContact{Name: o.CustomerName, Email: o.CustomerEmail, Phone: o.CustomerPhone}
}

// ParseNumericRef accepts digits only; signs, spaces and codes are rejected.
func ParseNumericRef(ref string) (int64, bool) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return 0, false
	}
	for _, r := range ref {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.ParseInt(ref, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
