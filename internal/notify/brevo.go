package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"log/slog"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"github.com/baharkarakas/storefront-backend/internal/models"
)

const brevoURL = "https://api.brevo.com/v3/smtp/email"

// BrevoMailer sends transactional mail through the Brevo HTTP API.
type BrevoMailer struct {
	APIKey      string
	SenderEmail string
	SenderName  string
	Endpoint    string
	Client      *http.Client
}

func NewBrevoMailer(apiKey, senderEmail, senderName string, timeout time.Duration) *BrevoMailer {
	return &BrevoMailer{
		APIKey:      apiKey,
		SenderEmail: senderEmail,
		SenderName:  senderName,
		Endpoint:    brevoURL,
		Client:      &http.Client{Timeout: timeout},
	}
}

type brevoContact struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type brevoPayload struct {
	Sender      brevoContact   `json:"sender"`
	To          []brevoContact `json:"to"`
	Subject     string         `json:"subject"`
	HTMLContent string         `json:"htmlContent"`
}

func (m *BrevoMailer) NotifyPaymentConfirmed(ctx context.Context, n models.PaymentNotice) error {
	addr, err := mail.ParseAddress(n.Email)
	if err != nil {
		return fmt.Errorf("invalid recipient email %q: %w", n.Email, err)
	}
	name := n.Name
	if name == "" {
		name = addr.Name
	}
	if name == "" {
		name = addr.Address[:strings.Index(addr.Address, "@")]
	}
	subject, body := Render(n)

	b, err := json.Marshal(brevoPayload{
		Sender:      brevoContact{Email: m.SenderEmail, Name: m.SenderName},
		To:          []brevoContact{{Email: addr.Address, Name: name}},
		Subject:     subject,
		HTMLContent: body,
	})
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.Endpoint, bytes.NewReader(b))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("accept", "application/json")
	req.Header.Set("api-key", m.APIKey)
	req.Header.Set("content-type", "application/json")

	resp, err := m.Client.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("brevo status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}
	return nil
}

// LogMailer stands in when no mail provider is configured.
type LogMailer struct{ Log *slog.Logger }

func (m LogMailer) NotifyPaymentConfirmed(_ context.Context, n models.PaymentNotice) error {
	subject, _ := Render(n)
	m.Log.Info("email not configured, notification logged only",
		"to", n.Email, "subject", subject, "order_type", n.OrderType)
	return nil
}

// Render builds the subject and HTML body; pickup and delivery orders get
// different wording.
func Render(n models.PaymentNotice) (subject, body string) {
	var b strings.Builder
	esc := html.EscapeString

	ref := n.OrderID
	if ref == "" {
		ref = n.Reference
	}
	if n.OrderType == models.OrderPickup {
		subject = "We received your payment for pickup order " + ref
		b.WriteString("<p>Thank you! Your payment confirmation was received and is being verified.</p>")
		if n.PickupBranch != "" {
			b.WriteString("<p>Pickup branch: " + esc(n.PickupBranch) + "</p>")
		}
		if n.PickupDate != "" {
			b.WriteString("<p>Pickup date: " + esc(n.PickupDate) + "</p>")
		}
	} else {
		subject = "We received your payment for order " + ref
		b.WriteString("<p>Thank you! Your payment confirmation was received. We will ship your order once it is verified.</p>")
	}

	fmt.Fprintf(&b, "<p>Amount: %s<br>Method: %s<br>Reference: %s</p>",
		esc(n.Amount.StringFixed(2)), esc(n.PaymentMethod), esc(n.Reference))

	if len(n.CartItems) > 0 {
		b.WriteString("<ul>")
		for _, it := range n.CartItems {
			fmt.Fprintf(&b, "<li>%s &times; %d (%s)</li>", esc(it.Name), it.Quantity, esc(it.Price.StringFixed(2)))
		}
		b.WriteString("</ul>")
	}
	return subject, b.String()
}
