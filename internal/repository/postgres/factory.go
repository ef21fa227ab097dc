package postgres

import (
	"context"

	repo "github.com/baharkarakas/storefront-backend/internal/repository"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Repositories struct {
	Staff        repo.Staff
	Payments     repo.Payments
	Orders       repo.Orders
	PickupOrders repo.Orders
	AuditLogs    repo.AuditLogs
}

func NewRepositories(pool *pgxpool.Pool) Repositories {
	return Repositories{
		Staff:        &staffRepo{pool},
		Payments:     &paymentsRepo{pool},
		Orders:       newOrdersRepo(pool, ordersTable),
		PickupOrders: newOrdersRepo(pool, pickupOrdersTable),
		AuditLogs:    &auditLogsRepo{pool},
	}
}
