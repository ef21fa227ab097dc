package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/baharkarakas/storefront-backend/internal/models"
	repo "github.com/baharkarakas/storefront-backend/internal/repository"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	ordersTable       = "orders"
	pickupOrdersTable = "pickup_orders"
)

// ordersRepo serves both order tables; they share the columns below and
// pickup_orders adds pickup_date and pickup_branch.
type ordersRepo struct {
	pool    *pgxpool.Pool
	table   string
	columns string
}

func newOrdersRepo(pool *pgxpool.Pool, table string) *ordersRepo {
	cols := `id, order_id, status, customer_name, customer_email, customer_phone, total, created_at, updated_at`
	if table == pickupOrdersTable {
		cols += `, pickup_date, pickup_branch`
	}
	return &ordersRepo{pool: pool, table: table, columns: cols}
}

func (r *ordersRepo) Table() string { return r.table }

func (r *ordersRepo) scan(row pgx.Row) (models.Order, error) {
	var o models.Order
	dst := []any{&o.ID, &o.Code, &o.Status, &o.CustomerName, &o.CustomerEmail, &o.CustomerPhone, &o.Total, &o.CreatedAt, &o.UpdatedAt}
	if r.table == pickupOrdersTable {
		dst = append(dst, &o.PickupDate, &o.PickupBranch)
	}
	err := row.Scan(dst...)
	if errors.Is(err, pgx.ErrNoRows) {
		return o, repo.ErrNotFound
	}
	return o, err
}

func (r *ordersRepo) GetByID(ctx context.Context, id int64) (models.Order, error) {
	q := fmt.Sprintf(`SELECT %s FROM %s WHERE id=$1`, r.columns, r.table)
	return r.scan(r.pool.QueryRow(ctx, q, id))
}

func (r *ordersRepo) GetByCode(ctx context.Context, code string) (models.Order, error) {
	q := fmt.Sprintf(`SELECT %s FROM %s WHERE order_id=$1`, r.columns, r.table)
	return r.scan(r.pool.QueryRow(ctx, q, code))
}

func (r *ordersRepo) UpdateStatus(ctx context.Context, id int64, status string) error {
	q := fmt.Sprintf(`UPDATE %s SET status=$2, updated_at=now() WHERE id=$1`, r.table)
	tag, err := r.pool.Exec(ctx, q, id, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// ContactsByIDs fetches customer details for many orders in one query.
func (r *ordersRepo) ContactsByIDs(ctx context.Context, ids []int64) (map[int64]models.OrderContact, error) {
	out := make(map[int64]models.OrderContact, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	q := fmt.Sprintf(`SELECT id, customer_name, customer_email, customer_phone FROM %s WHERE id = ANY($1)`, r.table)
	rows, err := r.pool.Query(ctx, q, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var (
			id int64
			c  models.OrderContact
		)
		if err := rows.Scan(&id, &c.Name, &c.Email, &c.Phone); err != nil {
			return nil, err
		}
		out[id] = c
	}
	return out, rows.Err()
}
