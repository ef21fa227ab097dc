package repository

import (
	"context"
	"errors"

	"github.com/baharkarakas/storefront-backend/internal/models"
)

// ErrNotFound is returned by lookups that match no row.
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned when a unique constraint rejects an insert.
var ErrDuplicate = errors.New("duplicate")

type Staff interface {
	Create(ctx context.Context, u models.StaffUser) (models.StaffUser, error)
	GetByID(ctx context.Context, id string) (models.StaffUser, error)
	GetByEmail(ctx context.Context, email string) (models.StaffUser, error)
	List(ctx context.Context) ([]models.StaffUser, error)
}

// PaymentWriter is the write side of the payment store, bound to one
// database transaction.
type PaymentWriter interface {
	Insert(ctx context.Context, p models.PaymentTransaction) (models.PaymentTransaction, error)
	// GetForUpdate locks the row until the surrounding transaction ends.
	GetForUpdate(ctx context.Context, id int64) (models.PaymentTransaction, error)
	// UpdateStatus only succeeds while the row is pending or already at
	// status; otherwise it returns ErrNotFound.
	UpdateStatus(ctx context.Context, id int64, status models.PaymentStatus, notes *string) (models.PaymentTransaction, error)
	Audit(ctx context.Context, l models.AuditLog) error
}

type Payments interface {
	GetByID(ctx context.Context, id int64) (models.PaymentTransaction, error)
	// List returns newest first.
	List(ctx context.Context) ([]models.PaymentTransaction, error)

	// Atomic unit: fn runs inside one database transaction.
	WithTx(ctx context.Context, fn func(PaymentWriter) error) error
}

// Orders is implemented once per order table (orders, pickup_orders).
type Orders interface {
	Table() string
	GetByID(ctx context.Context, id int64) (models.Order, error)
	// GetByCode looks up the textual order_id column.
	GetByCode(ctx context.Context, code string) (models.Order, error)
	UpdateStatus(ctx context.Context, id int64, status string) error
	ContactsByIDs(ctx context.Context, ids []int64) (map[int64]models.OrderContact, error)
}

type AuditLogs interface {
	Create(ctx context.Context, l models.AuditLog) error
}
