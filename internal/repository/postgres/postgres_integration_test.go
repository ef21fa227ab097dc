//go:build integration

// Run with: TEST_DATABASE_URL=postgres://... go test -tags integration ./internal/repository/postgres/
// testPool empties every table it touches.
package postgres

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/baharkarakas/storefront-backend/internal/db"
	"github.com/baharkarakas/storefront-backend/internal/models"
	repo "github.com/baharkarakas/storefront-backend/internal/repository"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	pool, err := db.NewPool(ctx, url)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(pool.Close)
	if err := db.RunMigrations(ctx, pool); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	_, err = pool.Exec(ctx, `TRUNCATE payment_confirmations, orders, pickup_orders, staff_users, audit_logs RESTART IDENTITY`)
	if err != nil {
		t.Fatalf("truncate: %v", err)
	}
	return pool
}

func insertPending(t *testing.T, r Repositories) models.PaymentTransaction {
	t.Helper()
	var p models.PaymentTransaction
	err := r.Payments.WithTx(context.Background(), func(w repo.PaymentWriter) error {
		var err error
		p, err = w.Insert(context.Background(), models.PaymentTransaction{
			OrderID:              strPtr("42"),
			OrderType:            models.OrderDelivery,
			PaymentMethod:        "bank_transfer",
			Amount:               decimal.RequireFromString("5000.00"),
			TransactionReference: "TRANS-1",
			Status:               models.PaymentPending,
		})
		return err
	})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	return p
}

func strPtr(s string) *string { return &s }

func TestPaymentStatusGuard(t *testing.T) {
	r := NewRepositories(testPool(t))
	ctx := context.Background()
	p := insertPending(t, r)

	update := func(status models.PaymentStatus) error {
		return r.Payments.WithTx(ctx, func(w repo.PaymentWriter) error {
			if _, err := w.GetForUpdate(ctx, p.ID); err != nil {
				return err
			}
			_, err := w.UpdateStatus(ctx, p.ID, status, strPtr("checked"))
			return err
		})
	}

	if err := update(models.PaymentVerified); err != nil {
		t.Fatalf("pending -> verified: %v", err)
	}
	if err := update(models.PaymentVerified); err != nil {
		t.Errorf("verified -> verified: %v", err)
	}
	if err := update(models.PaymentRejected); !errors.Is(err, repo.ErrNotFound) {
		t.Errorf("verified -> rejected err = %v, want ErrNotFound from the status guard", err)
	}

	got, err := r.Payments.GetByID(ctx, p.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != models.PaymentVerified || got.Notes == nil || *got.Notes != "checked" {
		t.Errorf("stored = %+v", got)
	}
	if !got.Amount.Equal(decimal.NewFromInt(5000)) {
		t.Errorf("amount = %s", got.Amount)
	}
}

func TestPaymentRowLockBlocksSecondWriter(t *testing.T) {
	r := NewRepositories(testPool(t))
	ctx := context.Background()
	p := insertPending(t, r)

	locked := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- r.Payments.WithTx(ctx, func(w repo.PaymentWriter) error {
			if _, err := w.GetForUpdate(ctx, p.ID); err != nil {
				return err
			}
			close(locked)
			<-release
			_, err := w.UpdateStatus(ctx, p.ID, models.PaymentRejected, nil)
			return err
		})
	}()
	<-locked

	short, cancel := context.WithTimeout(ctx, 300*time.Millisecond)
	defer cancel()
	err := r.Payments.WithTx(short, func(w repo.PaymentWriter) error {
		_, err := w.GetForUpdate(short, p.ID)
		return err
	})
	if err == nil {
		t.Error("second GetForUpdate did not block while the row was locked")
	}

	close(release)
	if err := <-done; err != nil {
		t.Fatalf("first writer: %v", err)
	}
	if got, _ := r.Payments.GetByID(ctx, p.ID); got.Status != models.PaymentRejected {
		t.Errorf("status = %s", got.Status)
	}
}

func TestPaymentRollbackOnCallbackError(t *testing.T) {
	r := NewRepositories(testPool(t))
	ctx := context.Background()
	boom := errors.New("boom")
	err := r.Payments.WithTx(ctx, func(w repo.PaymentWriter) error {
		if _, err := w.Insert(ctx, models.PaymentTransaction{
			OrderType: models.OrderDelivery, PaymentMethod: "card",
			TransactionReference: "TRANS-2", Status: models.PaymentPending,
		}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
	if list, _ := r.Payments.List(ctx); len(list) != 0 {
		t.Errorf("rolled back insert is visible: %+v", list)
	}
}

func TestOrdersLookupsAndContacts(t *testing.T) {
	pool := testPool(t)
	r := NewRepositories(pool)
	ctx := context.Background()

	var id int64
	err := pool.QueryRow(ctx,
		`INSERT INTO pickup_orders(order_id, customer_email, pickup_branch) VALUES('ORD-7', 'p@example.com', 'Moda') RETURNING id`).Scan(&id)
	if err != nil {
		t.Fatal(err)
	}

	o, err := r.PickupOrders.GetByCode(ctx, "ORD-7")
	if err != nil || o.ID != id || o.PickupBranch == nil || *o.PickupBranch != "Moda" {
		t.Fatalf("GetByCode = %+v, %v", o, err)
	}
	if _, err := r.Orders.GetByID(ctx, id); !errors.Is(err, repo.ErrNotFound) {
		t.Errorf("delivery table lookup err = %v", err)
	}
	if err := r.PickupOrders.UpdateStatus(ctx, id, models.OrderStatusCanceled); err != nil {
		t.Fatal(err)
	}
	if err := r.PickupOrders.UpdateStatus(ctx, id+100, models.OrderStatusCanceled); !errors.Is(err, repo.ErrNotFound) {
		t.Errorf("missing order err = %v", err)
	}
	contacts, err := r.PickupOrders.ContactsByIDs(ctx, []int64{id, id + 100})
	if err != nil {
		t.Fatal(err)
	}
	if len(contacts) != 1 || contacts[id].Email == nil || *contacts[id].Email != "p@example.com" {
		t.Errorf("contacts = %+v", contacts)
	}
}

func TestStaffDuplicateAndAudit(t *testing.T) {
	r := NewRepositories(testPool(t))
	ctx := context.Background()
	u := models.StaffUser{Name: "Ece", Email: "ece@example.com", PasswordHash: "x", Role: models.RoleStaff}
	created, err := r.Staff.Create(ctx, u)
	if err != nil {
		t.Fatal(err)
	}
	u.Email = "ECE@example.com"
	if _, err := r.Staff.Create(ctx, u); !errors.Is(err, repo.ErrDuplicate) {
		t.Errorf("case-insensitive duplicate err = %v", err)
	}
	err = r.AuditLogs.Create(ctx, models.AuditLog{
		EntityType: models.AuditEntityStaff,
		EntityID:   &created.ID,
		Action:     "created",
		Details:    map[string]any{"role": created.Role},
	})
	if err != nil {
		t.Errorf("audit: %v", err)
	}
}
