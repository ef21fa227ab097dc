package services

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/baharkarakas/storefront-backend/internal/metrics"
	"github.com/baharkarakas/storefront-backend/internal/models"
	repo "github.com/baharkarakas/storefront-backend/internal/repository"
	"github.com/baharkarakas/storefront-backend/internal/worker"
	"github.com/shopspring/decimal"
)

// Notifier sends the customer-facing payment confirmation email.
type Notifier interface {
	NotifyPaymentConfirmed(ctx context.Context, n models.PaymentNotice) error
}

type PaymentOptions struct {
	BackfillTimeout  time.Duration
	NotifyTimeout    time.Duration
	PropagateTimeout time.Duration
}

func (o *PaymentOptions) defaults() {
	if o.BackfillTimeout <= 0 {
		o.BackfillTimeout = 2 * time.Second
	}
	if o.NotifyTimeout <= 0 {
		o.NotifyTimeout = 10 * time.Second
	}
	if o.PropagateTimeout <= 0 {
		o.PropagateTimeout = 5 * time.Second
	}
}

type PaymentService struct {
	payments repo.Payments
	orders   repo.Orders
	pickups  repo.Orders
	notifier Notifier
	wp       *worker.Pool
	log      *slog.Logger
	opts     PaymentOptions
	now      func() time.Time
}

func NewPaymentService(p repo.Payments, orders, pickups repo.Orders, n Notifier, wp *worker.Pool, log *slog.Logger, opts PaymentOptions) *PaymentService {
	opts.defaults()
	return &PaymentService{
		payments: p,
		orders:   orders,
		pickups:  pickups,
		notifier: n,
		wp:       wp,
		log:      log.With("component", "payments"),
		opts:     opts,
		now:      time.Now,
	}
}

func (s *PaymentService) storeFor(t models.OrderType) repo.Orders {
	if t == models.OrderPickup {
		return s.pickups
	}
	return s.orders
}

// CreatePaymentInput is a raw confirmation submission; Amount is the
// undecoded number or string the client sent and CartItems the undecoded
// cart array.
type CreatePaymentInput struct {
	OrderID              string
	OrderType            string
	PaymentMethod        string
	Amount               string
	CustomerName         string
	CustomerEmail        string
	CustomerPhone        string
	TransactionReference string
	Notes                string
	CartItems            json.RawMessage
	PickupDate           string
	PickupBranch         string
}

// ParseAmount never fails: unparsable input is 0 and negatives clamp to 0.
func ParseAmount(raw string) decimal.Decimal {
	raw = strings.Trim(strings.TrimSpace(raw), `"`)
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil || d.IsNegative() {
		return decimal.Zero
	}
	return d.Round(2)
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func auditEntry(id int64, action string, details map[string]any) models.AuditLog {
	eid := strconv.FormatInt(id, 10)
	return models.AuditLog{
		EntityType: models.AuditEntityPayment,
		EntityID:   &eid,
		Action:     action,
		Details:    details,
	}
}

// Create records a pending payment confirmation and queues the customer
// email. The email never affects the result.
func (s *PaymentService) Create(ctx context.Context, in CreatePaymentInput) (models.PaymentTransaction, error) {
	method := strings.TrimSpace(in.PaymentMethod)
	if method == "" {
		return models.PaymentTransaction{}, invalid("Payment method is required.")
	}

	ref := strings.TrimSpace(in.TransactionReference)
	if ref == "" {
		ref = "TRANS-" + strconv.FormatInt(s.now().UnixMilli(), 10)
	}

	p := models.PaymentTransaction{
		OrderID:              optional(in.OrderID),
		OrderType:            models.ParseOrderType(in.OrderType),
		PaymentMethod:        method,
		Amount:               ParseAmount(in.Amount),
		CustomerName:         optional(in.CustomerName),
		CustomerEmail:        optional(in.CustomerEmail),
		CustomerPhone:        optional(in.CustomerPhone),
		TransactionReference: ref,
		Notes:                optional(in.Notes),
		Status:               models.PaymentPending,
	}

	err := s.payments.WithTx(ctx, func(w repo.PaymentWriter) error {
		created, err := w.Insert(ctx, p)
		if err != nil {
			return err
		}
		p = created
		return w.Audit(ctx, auditEntry(p.ID, "created", map[string]any{
			"order_id":   in.OrderID,
			"order_type": p.OrderType,
			"amount":     p.Amount.String(),
		}))
	})
	if err != nil {
		return models.PaymentTransaction{}, persistence("create payment", err)
	}

	metrics.PaymentsCreated.WithLabelValues(string(p.OrderType)).Inc()
	s.log.Info("payment confirmation recorded", "payment_id", p.ID, "order_type", p.OrderType)

	s.dispatchNotice(ctx, p, in)
	return p, nil
}

func (s *PaymentService) dispatchNotice(ctx context.Context, p models.PaymentTransaction, in CreatePaymentInput) {
	if p.CustomerEmail == nil {
		return
	}
	n := models.PaymentNotice{
		OrderType:     p.OrderType,
		Email:         *p.CustomerEmail,
		PaymentMethod: p.PaymentMethod,
		Amount:        p.Amount,
		Reference:     p.TransactionReference,
		CartItems:     ParseCartItems(in.CartItems),
		PickupDate:    strings.TrimSpace(in.PickupDate),
		PickupBranch:  strings.TrimSpace(in.PickupBranch),
	}
	if p.CustomerName != nil {
		n.Name = *p.CustomerName
	}
	if p.OrderID != nil {
		n.OrderID = *p.OrderID
	}

	base := context.WithoutCancel(ctx)
	log := s.log.With("payment_id", p.ID)
	ok := s.wp.TrySubmit(func() {
		ctx, cancel := context.WithTimeout(base, s.opts.NotifyTimeout)
		defer cancel()
		if err := s.notifier.NotifyPaymentConfirmed(ctx, n); err != nil {
			metrics.NotificationsFailed.Inc()
			log.Error("payment confirmation email failed", "err", err)
			return
		}
		log.Debug("payment confirmation email sent")
	})
	if !ok {
		metrics.NotificationsFailed.Inc()
		log.Warn("notification queue full, email dropped")
	}
}

// List returns every confirmation, newest first, with customer details
// completed from the referenced orders where possible.
func (s *PaymentService) List(ctx context.Context) ([]models.PaymentTransaction, error) {
	list, err := s.payments.List(ctx)
	if err != nil {
		return nil, persistence("list payments", err)
	}
	s.backfill(ctx, list)
	for i := range list {
		list[i] = list[i].Formatted()
	}
	return list, nil
}

func (s *PaymentService) Get(ctx context.Context, id int64) (models.PaymentTransaction, error) {
	p, err := s.payments.GetByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return models.PaymentTransaction{}, &NotFoundError{Entity: "payment", ID: strconv.FormatInt(id, 10)}
	}
	if err != nil {
		return models.PaymentTransaction{}, persistence("get payment", err)
	}
	one := []models.PaymentTransaction{p}
	s.backfill(ctx, one)
	return one[0].Formatted(), nil
}

func needsBackfill(p models.PaymentTransaction) bool {
	for _, f := range []*string{p.CustomerName, p.CustomerEmail, p.CustomerPhone} {
		if f == nil || strings.TrimSpace(*f) == "" {
			return true
		}
	}
	return false
}

// backfill issues at most one query per order table regardless of how many
// rows are listed. Errors and timeouts leave the rows untouched.
func (s *PaymentService) backfill(ctx context.Context, list []models.PaymentTransaction) {
	batches := map[models.OrderType][]int64{}
	seen := map[models.OrderType]map[int64]bool{}
	for _, p := range list {
		if !needsBackfill(p) {
			continue
		}
		id, ok := p.NumericOrderID()
		if !ok {
			continue
		}
		if seen[p.OrderType] == nil {
			seen[p.OrderType] = map[int64]bool{}
		}
		if !seen[p.OrderType][id] {
			seen[p.OrderType][id] = true
			batches[p.OrderType] = append(batches[p.OrderType], id)
		}
	}
	if len(batches) == 0 {
		return
	}

	ctx, cancel := context.WithTimeout(ctx, s.opts.BackfillTimeout)
	defer cancel()

	for typ, ids := range batches {
		store := s.storeFor(typ)
		contacts, err := store.ContactsByIDs(ctx, ids)
		if err != nil {
			s.log.Warn("customer backfill failed", "table", store.Table(), "orders", len(ids), "err", err)
			continue
		}
		for i := range list {
			if list[i].OrderType != typ {
				continue
			}
			if id, ok := list[i].NumericOrderID(); ok {
				if c, found := contacts[id]; found {
					list[i].Backfill(c)
				}
			}
		}
	}
}

type TransitionInput struct {
	Status string
	Action string
	Notes  *string
}

// Transition moves a confirmation out of pending (or re-applies the status
// it already has) and then propagates the derived status to the order.
// A terminal confirmation cannot be moved to a different status.
func (s *PaymentService) Transition(ctx context.Context, id int64, in TransitionInput) (models.PaymentTransaction, error) {
	desired, ok := models.ResolveDesiredStatus(in.Status, in.Action)
	if !ok {
		return models.PaymentTransaction{}, invalid("Invalid status. Use pending, verified or rejected.")
	}

	var updated models.PaymentTransaction
	err := s.payments.WithTx(ctx, func(w repo.PaymentWriter) error {
		cur, err := w.GetForUpdate(ctx, id)
		if errors.Is(err, repo.ErrNotFound) {
			return &NotFoundError{Entity: "payment", ID: strconv.FormatInt(id, 10)}
		}
		if err != nil {
			return err
		}
		if cur.Status != models.PaymentPending && cur.Status != desired {
			return &ConflictError{Message: "Payment is already " + string(cur.Status) + "."}
		}

		updated, err = w.UpdateStatus(ctx, id, desired, in.Notes)
		if errors.Is(err, repo.ErrNotFound) {
			return &ConflictError{Message: "Payment status changed concurrently."}
		}
		if err != nil {
			return err
		}
		return w.Audit(ctx, auditEntry(id, "status_change", map[string]any{
			"from": cur.Status,
			"to":   desired,
		}))
	})
	if err != nil {
		return models.PaymentTransaction{}, persistence("transition payment", err)
	}

	metrics.PaymentTransitions.WithLabelValues(string(desired)).Inc()
	s.log.Info("payment status updated", "payment_id", id, "status", desired)

	s.propagate(ctx, updated)

	one := []models.PaymentTransaction{updated}
	s.backfill(ctx, one)
	return one[0].Formatted(), nil
}
