package billing

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clinica/clinica/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

func (r *repoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const invoiceCols = `id, patient_id, status, total, created_at`

func scanInvoice(row pgx.Row) (*Invoice, error) {
	var inv Invoice
	err := row.Scan(&inv.ID, &inv.PatientID, &inv.Status, &inv.Total, &inv.CreatedAt)
	return &inv, err
}

func (r *repoPG) ListInvoices(ctx context.Context) ([]*Invoice, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+invoiceCols+` FROM invoices ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []*Invoice{}
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, inv)
	}
	return items, rows.Err()
}

func (r *repoPG) GetInvoice(ctx context.Context, id int64) (*Invoice, error) {
	inv, err := scanInvoice(r.conn(ctx).QueryRow(ctx,
		`SELECT `+invoiceCols+` FROM invoices WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return inv, nil
}

func (r *repoPG) ListItems(ctx context.Context, invoiceID int64) ([]*InvoiceItem, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT ii.id, ii.invoice_id, ii.service_id, ii.quantity, ii.price, s.name
		FROM invoice_items ii
		JOIN services s ON s.id = ii.service_id
		WHERE ii.invoice_id = $1
		ORDER BY ii.id`, invoiceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []*InvoiceItem{}
	for rows.Next() {
		var it InvoiceItem
		if err := rows.Scan(&it.ID, &it.InvoiceID, &it.ServiceID, &it.Quantity, &it.Price, &it.ServiceName); err != nil {
			return nil, err
		}
		items = append(items, &it)
	}
	return items, rows.Err()
}

// CreateInvoice opens a transaction, inserts a placeholder invoice, prices
// and inserts every line item, then writes the computed total. Any failure
// rolls the whole unit back; the connection is released on every path.
func (r *repoPG) CreateInvoice(ctx context.Context, patientID int64, items []ItemRequest) (*Invoice, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin invoice transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	inv := &Invoice{PatientID: patientID, Status: StatusPaid}
	err = tx.QueryRow(ctx, `
		INSERT INTO invoices (patient_id, status, total)
		VALUES ($1, $2, 0)
		RETURNING id, created_at`,
		patientID, StatusPaid).Scan(&inv.ID, &inv.CreatedAt)
	if err != nil {
		return nil, err
	}

	var total float64
	for _, it := range items {
		price, err := r.priceFor(ctx, tx, it)
		if err != nil {
			return nil, err
		}
		qty := 1
		if it.Quantity != nil && *it.Quantity > 0 {
			qty = *it.Quantity
		}
		total += price * float64(qty)

		_, err = tx.Exec(ctx, `
			INSERT INTO invoice_items (invoice_id, service_id, quantity, price)
			VALUES ($1, $2, $3, $4)`,
			inv.ID, it.ServiceID, qty, price)
		if err != nil {
			return nil, err
		}
	}

	if _, err := tx.Exec(ctx,
		`UPDATE invoices SET total = $1 WHERE id = $2`, total, inv.ID); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit invoice transaction: %w", err)
	}

	inv.Total = total
	return inv, nil
}

// priceFor resolves the unit price: catalog first, then the caller-supplied
// price, then zero.
func (r *repoPG) priceFor(ctx context.Context, tx pgx.Tx, it ItemRequest) (float64, error) {
	var price float64
	err := tx.QueryRow(ctx,
		`SELECT price FROM services WHERE id = $1`, it.ServiceID).Scan(&price)
	if errors.Is(err, pgx.ErrNoRows) {
		if it.Price != nil {
			return *it.Price, nil
		}
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return price, nil
}
