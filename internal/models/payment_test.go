package models

import "testing"

func strp(s string) *string { return &s }

func TestResolveDesiredStatus(t *testing.T) {
	tests := []struct {
		status, action string
		want           PaymentStatus
		ok             bool
	}{
		{"verified", "", PaymentVerified, true},
		{" Rejected ", "", PaymentRejected, true},
		{"pending", "", PaymentPending, true},
		{"", "approve", PaymentVerified, true},
		{"", "decline", PaymentRejected, true},
		{"", "rejected", PaymentRejected, true},
		{"verified", "decline", PaymentVerified, true},
		{"done", "", "", false},
		{"", "refund", "", false},
		{"", "", "", false},
	}
	for _, tt := range tests {
		got, ok := ResolveDesiredStatus(tt.status, tt.action)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ResolveDesiredStatus(%q, %q) = %q, %v; want %q, %v", tt.status, tt.action, got, ok, tt.want, tt.ok)
		}
	}
}

func TestDerivedOrderStatus(t *testing.T) {
	tests := []struct {
		st   PaymentStatus
		typ  OrderType
		want string
		ok   bool
	}{
		{PaymentVerified, OrderDelivery, OrderStatusProcessing, true},
		{PaymentVerified, OrderPickup, OrderStatusPending, true},
		{PaymentRejected, OrderDelivery, OrderStatusCanceled, true},
		{PaymentRejected, OrderPickup, OrderStatusCanceled, true},
		{PaymentPending, OrderDelivery, "", false},
		{PaymentPending, OrderPickup, "", false},
	}
	for _, tt := range tests {
		got, ok := DerivedOrderStatus(tt.st, tt.typ)
		if got != tt.want || ok != tt.ok {
			t.Errorf("DerivedOrderStatus(%s, %s) = %q, %v", tt.st, tt.typ, got, ok)
		}
	}
}

func TestParseOrderType(t *testing.T) {
	if ParseOrderType("PICKUP") != OrderPickup {
		t.Error("pickup not recognised")
	}
	for _, s := range []string{"", "delivery", "courier"} {
		if ParseOrderType(s) != OrderDelivery {
			t.Errorf("ParseOrderType(%q) should default to delivery", s)
		}
	}
}

func TestParseNumericRef(t *testing.T) {
	for ref, want := range map[string]bool{"42": true, " 7 ": true, "ORD-42": false, "-3": false, "4.2": false, "": false, "99999999999999999999": false} {
		if _, ok := ParseNumericRef(ref); ok != want {
			t.Errorf("ParseNumericRef(%q) ok = %v, want %v", ref, ok, want)
		}
	}
}

func TestFormattedNeverBlankName(t *testing.T) {
	tests := []struct {
		name string
		in   PaymentTransaction
		want string
	}{
		{"keeps name", PaymentTransaction{CustomerName: strp("Ayla"), CustomerEmail: strp("a@x.io")}, "Ayla"},
		{"email fallback", PaymentTransaction{CustomerName: strp(" "), CustomerEmail: strp("a@x.io"), CustomerPhone: strp("555")}, "a@x.io"},
		{"phone fallback", PaymentTransaction{CustomerPhone: strp("555")}, "555"},
		{"placeholder", PaymentTransaction{}, NoCustomerName},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.in.Formatted()
			if got.CustomerName == nil || *got.CustomerName != tt.want {
				t.Errorf("CustomerName = %v, want %q", got.CustomerName, tt.want)
			}
		})
	}
}

func TestBackfillOnlyFillsBlanks(t *testing.T) {
	p := PaymentTransaction{CustomerName: strp("Given"), CustomerEmail: strp("")}
	p.Backfill(OrderContact{Name: strp("Order Name"), Email: strp("o@x.io"), Phone: strp("123")})
	if *p.CustomerName != "Given" {
		t.Errorf("name overwritten: %q", *p.CustomerName)
	}
	if p.CustomerEmail == nil || *p.CustomerEmail != "o@x.io" {
		t.Errorf("email not backfilled: %v", p.CustomerEmail)
	}
	if p.CustomerPhone == nil || *p.CustomerPhone != "123" {
		t.Errorf("phone not backfilled: %v", p.CustomerPhone)
	}
}
