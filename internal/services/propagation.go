package services

import (
	"context"
	"errors"
	"strings"

	"github.com/baharkarakas/storefront-backend/internal/metrics"
	"github.com/baharkarakas/storefront-backend/internal/models"
	repo "github.com/baharkarakas/storefront-backend/internal/repository"
)

// resolveOrderRef turns a loosely typed order reference into the table's
// primary key. A numeric ref is tried as the key first; a miss, or a
// non-numeric ref, falls back to the textual order_id column. Each lookup
// runs at most once.
func resolveOrderRef(ctx context.Context, store repo.Orders, ref string) (int64, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return 0, repo.ErrNotFound
	}
	if id, ok := models.ParseNumericRef(ref); ok {
		o, err := store.GetByID(ctx, id)
		if err == nil {
			return o.ID, nil
		}
		if !errors.Is(err, repo.ErrNotFound) {
			return 0, err
		}
	}
	o, err := store.GetByCode(ctx, ref)
	if err != nil {
		return 0, err
	}
	return o.ID, nil
}

// propagate writes the order status derived from p onto the correlated
// order or pickup record. Failures are logged and counted, never returned.
func (s *PaymentService) propagate(ctx context.Context, p models.PaymentTransaction) {
	status, ok := models.DerivedOrderStatus(p.Status, p.OrderType)
	if !ok || p.OrderID == nil || strings.TrimSpace(*p.OrderID) == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.opts.PropagateTimeout)
	defer cancel()

	store := s.storeFor(p.OrderType)
	log := s.log.With("payment_id", p.ID, "order_ref", *p.OrderID, "table", store.Table())

	id, err := resolveOrderRef(ctx, store, *p.OrderID)
	if err == nil {
		err = store.UpdateStatus(ctx, id, status)
	}
	if err != nil {
		metrics.PropagationFailures.WithLabelValues(string(p.OrderType)).Inc()
		if errors.Is(err, repo.ErrNotFound) {
			log.Warn("no order matched payment reference")
		} else {
			log.Error("order status propagation failed", "err", err)
		}
		return
	}
	log.Info("order status propagated", "order_pk", id, "status", status)
}
