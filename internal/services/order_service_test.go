package services

import (
	"context"
	"errors"
	"testing"

	"github.com/baharkarakas/storefront-backend/internal/models"
	"github.com/baharkarakas/storefront-backend/internal/testutil"
)

func TestOrderServiceSelectsTable(t *testing.T) {
	svc := NewOrderService(
		testutil.NewOrders("orders", models.Order{ID: 1, Status: "processing"}),
		testutil.NewOrders("pickup_orders", models.Order{ID: 1, Status: "pending", PickupBranch: testutil.Ptr("Bağdat Cd.")}),
	)
	ctx := context.Background()

	o, err := svc.Get(ctx, models.OrderDelivery, 1)
	if err != nil || o.Status != "processing" {
		t.Errorf("delivery order = %+v, %v", o, err)
	}
	o, err = svc.Get(ctx, models.OrderPickup, 1)
	if err != nil || o.PickupBranch == nil {
		t.Errorf("pickup order = %+v, %v", o, err)
	}
	_, err = svc.Get(ctx, models.OrderPickup, 2)
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Errorf("err = %v, want NotFoundError", err)
	}
}

func TestResolveOrderRef(t *testing.T) {
	store := testutil.NewOrders("orders",
		models.Order{ID: 5},
		models.Order{ID: 6, Code: testutil.Ptr("SHOP-6")},
		models.Order{ID: 9, Code: testutil.Ptr("12345")},
	)
	ctx := context.Background()
	cases := map[string]int64{"5": 5, "SHOP-6": 6, " 12345 ": 9}
	for ref, want := range cases {
		got, err := resolveOrderRef(ctx, store, ref)
		if err != nil || got != want {
			t.Errorf("resolveOrderRef(%q) = %d, %v; want %d", ref, got, err, want)
		}
	}
	if _, err := resolveOrderRef(ctx, store, ""); err == nil {
		t.Error("empty ref resolved")
	}
	if _, err := resolveOrderRef(ctx, store, "NOPE"); err == nil {
		t.Error("unknown ref resolved")
	}
}
