package postgres

import (
	"context"
	"errors"

	"github.com/baharkarakas/storefront-backend/internal/models"
	repo "github.com/baharkarakas/storefront-backend/internal/repository"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const paymentColumns = `id, order_id, order_type, payment_method, amount,
       customer_name, customer_email, customer_phone,
       transaction_reference, notes, status, created_at, updated_at`

type paymentsRepo struct{ pool *pgxpool.Pool }

func scanPayment(row pgx.Row) (models.PaymentTransaction, error) {
	var p models.PaymentTransaction
	err := row.Scan(
		&p.ID, &p.OrderID, &p.OrderType, &p.PaymentMethod, &p.Amount,
		&p.CustomerName, &p.CustomerEmail, &p.CustomerPhone,
		&p.TransactionReference, &p.Notes, &p.Status, &p.CreatedAt, &p.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return p, repo.ErrNotFound
	}
	return p, err
}

func (r *paymentsRepo) GetByID(ctx context.Context, id int64) (models.PaymentTransaction, error) {
	return scanPayment(r.pool.QueryRow(ctx,
		`SELECT `+paymentColumns+` FROM payment_confirmations WHERE id=$1`, id))
}

func (r *paymentsRepo) List(ctx context.Context) ([]models.PaymentTransaction, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+paymentColumns+`
		   FROM payment_confirmations
		  ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.PaymentTransaction{}
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// WithTx runs fn in one read-committed transaction; rows are locked
// explicitly with SELECT ... FOR UPDATE.
func (r *paymentsRepo) WithTx(ctx context.Context, fn func(repo.PaymentWriter) error) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{
		IsoLevel:   pgx.ReadCommitted,
		AccessMode: pgx.ReadWrite,
	})
	if err != nil {
		return err
	}
	if err := fn(&paymentWriter{tx}); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	return tx.Commit(ctx)
}

type paymentWriter struct{ q querier }

func (w *paymentWriter) Insert(ctx context.Context, p models.PaymentTransaction) (models.PaymentTransaction, error) {
	const q = `
INSERT INTO payment_confirmations (
  order_id, order_type, payment_method, amount,
  customer_name, customer_email, customer_phone,
  transaction_reference, notes, status
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
RETURNING ` + paymentColumns
	return scanPayment(w.q.QueryRow(ctx, q,
		p.OrderID, p.OrderType, p.PaymentMethod, p.Amount,
		p.CustomerName, p.CustomerEmail, p.CustomerPhone,
		p.TransactionReference, p.Notes, p.Status,
	))
}

func (w *paymentWriter) GetForUpdate(ctx context.Context, id int64) (models.PaymentTransaction, error) {
	return scanPayment(w.q.QueryRow(ctx,
		`SELECT `+paymentColumns+` FROM payment_confirmations WHERE id=$1 FOR UPDATE`, id))
}

func (w *paymentWriter) UpdateStatus(ctx context.Context, id int64, status models.PaymentStatus, notes *string) (models.PaymentTransaction, error) {
	const q = `
UPDATE payment_confirmations
   SET status = $2,
       notes = COALESCE($3, notes),
       updated_at = now()
 WHERE id = $1
   AND status IN ('pending', $2)
RETURNING ` + paymentColumns
	return scanPayment(w.q.QueryRow(ctx, q, id, status, notes))
}

func (w *paymentWriter) Audit(ctx context.Context, l models.AuditLog) error {
	return insertAudit(ctx, w.q, l)
}
