package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/baharkarakas/storefront-backend/internal/models"
	"github.com/shopspring/decimal"
)

func TestBrevoMailerSendsPayload(t *testing.T) {
	var got brevoPayload
	var apiKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		apiKey = r.Header.Get("api-key")
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	m := NewBrevoMailer("key-123", "shop@example.com", "Shop", time.Second)
	m.Endpoint = srv.URL

	err := m.NotifyPaymentConfirmed(context.Background(), models.PaymentNotice{
		OrderType:     models.OrderDelivery,
		Email:         "ayla@example.com",
		OrderID:       "42",
		PaymentMethod: "bank_transfer",
		Amount:        decimal.NewFromInt(5000),
		Reference:     "TRANS-1",
	})
	if err != nil {
		t.Fatalf("NotifyPaymentConfirmed: %v", err)
	}
	if apiKey != "key-123" {
		t.Errorf("api-key header = %q", apiKey)
	}
	if len(got.To) != 1 || got.To[0].Email != "ayla@example.com" || got.To[0].Name != "ayla" {
		t.Errorf("recipient = %+v", got.To)
	}
	if !strings.Contains(got.Subject, "order 42") {
		t.Errorf("subject = %q", got.Subject)
	}
}

func TestBrevoMailerUsesParsedRecipient(t *testing.T) {
	var got brevoPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	m := NewBrevoMailer("k", "shop@example.com", "Shop", time.Second)
	m.Endpoint = srv.URL

	tests := []struct {
		email, name       string
		wantTo, wantLabel string
	}{
		{"Ayla Demir <ayla@example.com>", "", "ayla@example.com", "Ayla Demir"},
		{"Ayla Demir <ayla@example.com>", "Ayla D.", "ayla@example.com", "Ayla D."},
		{"<deniz@example.com>", "", "deniz@example.com", "deniz"},
	}
	for _, tt := range tests {
		err := m.NotifyPaymentConfirmed(context.Background(), models.PaymentNotice{Email: tt.email, Name: tt.name})
		if err != nil {
			t.Fatalf("%q: %v", tt.email, err)
		}
		if len(got.To) != 1 || got.To[0].Email != tt.wantTo || got.To[0].Name != tt.wantLabel {
			t.Errorf("%q: recipient = %+v, want %s / %s", tt.email, got.To, tt.wantTo, tt.wantLabel)
		}
	}
}

func TestBrevoMailerReportsProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"bad key"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	m := NewBrevoMailer("bad", "shop@example.com", "Shop", time.Second)
	m.Endpoint = srv.URL
	err := m.NotifyPaymentConfirmed(context.Background(), models.PaymentNotice{Email: "a@example.com"})
	if err == nil || !strings.Contains(err.Error(), "401") {
		t.Fatalf("err = %v, want status 401", err)
	}
}

func TestBrevoMailerRejectsBadRecipient(t *testing.T) {
	m := NewBrevoMailer("k", "shop@example.com", "Shop", time.Second)
	m.Endpoint = "http://127.0.0.1:0"
	if err := m.NotifyPaymentConfirmed(context.Background(), models.PaymentNotice{Email: "not-an-email"}); err == nil {
		t.Fatal("expected error for invalid recipient")
	}
}

func TestRenderPickupTemplate(t *testing.T) {
	subject, body := Render(models.PaymentNotice{
		OrderType:    models.OrderPickup,
		OrderID:      "7",
		PickupBranch: "Kadıköy <Main>",
		PickupDate:   "2026-10-20",
		Amount:       decimal.RequireFromString("19.9"),
		CartItems:    []models.CartItem{{Name: "Lip Tint", Quantity: 2, Price: decimal.NewFromInt(10)}},
	})
	if !strings.Contains(subject, "pickup order 7") {
		t.Errorf("subject = %q", subject)
	}
	for _, want := range []string{"Kadıköy &lt;Main&gt;", "2026-10-20", "19.90", "Lip Tint &times; 2"} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %q: %s", want, body)
		}
	}
}
