package billing

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
)

// newTestPool connects to TEST_DATABASE_URL and scopes the connection to a
// throwaway schema. Tests are skipped when no database is configured.
func newTestPool(t *testing.T) (*pgxpool.Pool, context.Context) {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	schema := fmt.Sprintf("billing_test_%d", rand.Int31())

	cfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		t.Fatalf("parse url: %v", err)
	}
	cfg.ConnConfig.RuntimeParams["search_path"] = schema

	bootstrap, err := pgxpool.New(ctx, url)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	if _, err := bootstrap.Exec(ctx, "CREATE SCHEMA "+schema); err != nil {
		t.Fatalf("create schema: %v", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		t.Fatalf("connect to schema: %v", err)
	}

	t.Cleanup(func() {
		pool.Close()
		bootstrap.Exec(ctx, "DROP SCHEMA "+schema+" CASCADE")
		bootstrap.Close()
	})

	ddl := []string{
		`CREATE TABLE patients (id BIGSERIAL PRIMARY KEY, name TEXT NOT NULL)`,
		`CREATE TABLE services (
			id BIGSERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			category TEXT,
			price NUMERIC(10,2) NOT NULL)`,
		`CREATE TABLE invoices (
			id BIGSERIAL PRIMARY KEY,
			patient_id BIGINT NOT NULL REFERENCES patients(id),
			status TEXT NOT NULL,
			total NUMERIC(10,2) NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW())`,
		`CREATE TABLE invoice_items (
			id BIGSERIAL PRIMARY KEY,
			invoice_id BIGINT NOT NULL REFERENCES invoices(id),
			service_id BIGINT NOT NULL REFERENCES services(id),
			quantity INT NOT NULL,
			price NUMERIC(10,2) NOT NULL)`,
	}
	for _, stmt := range ddl {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			t.Fatalf("ddl: %v", err)
		}
	}

	return pool, ctx
}

func seedBilling(t *testing.T, ctx context.Context, pool *pgxpool.Pool) (patientID, svcA, svcB int64) {
	t.Helper()
	if err := pool.QueryRow(ctx,
		`INSERT INTO patients (name) VALUES ('Engels Tiu') RETURNING id`).Scan(&patientID); err != nil {
		t.Fatal(err)
	}
	if err := pool.QueryRow(ctx,
		`INSERT INTO services (name, category, price) VALUES ('Consulta General', 'Consultas', 100) RETURNING id`).Scan(&svcA); err != nil {
		t.Fatal(err)
	}
	if err := pool.QueryRow(ctx,
		`INSERT INTO services (name, category, price) VALUES ('Vacuna Influenza', 'Vacunas', 50) RETURNING id`).Scan(&svcB); err != nil {
		t.Fatal(err)
	}
	return
}

func TestRepoPG_CreateInvoice_ComputesTotal(t *testing.T) {
	pool, ctx := newTestPool(t)
	patientID, svcA, svcB := seedBilling(t, ctx, pool)
	repo := NewRepoPG(pool)

	inv, err := repo.CreateInvoice(ctx, patientID, []ItemRequest{
		{ServiceID: svcA, Quantity: intp(2)},
		{ServiceID: svcB},
	})
	if err != nil {
		t.Fatalf("create invoice: %v", err)
	}
	if inv.Total != 250 {
		t.Errorf("expected total 250, got %v", inv.Total)
	}
	if inv.Status != StatusPaid {
		t.Errorf("expected status %s, got %s", StatusPaid, inv.Status)
	}

	got, err := repo.GetInvoice(ctx, inv.ID)
	if err != nil || got == nil {
		t.Fatalf("get invoice: %v %v", got, err)
	}
	if got.Total != 250 {
		t.Errorf("stored total should be 250, got %v", got.Total)
	}

	items, err := repo.ListItems(ctx, inv.ID)
	if err != nil {
		t.Fatalf("list items: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].Quantity != 2 || items[0].Price != 100 || items[0].ServiceName != "Consulta General" {
		t.Errorf("unexpected first item: %+v", items[0])
	}
	if items[1].Quantity != 1 || items[1].Price != 50 {
		t.Errorf("expected default quantity and catalog price: %+v", items[1])
	}
}

func TestRepoPG_CreateInvoice_RollsBackAsUnit(t *testing.T) {
	pool, ctx := newTestPool(t)
	patientID, svcA, _ := seedBilling(t, ctx, pool)
	repo := NewRepoPG(pool)

	// Second item references a nonexistent service with no caller price:
	// the line-item insert violates the service FK after the invoice row
	// and first item were already written inside the transaction.
	_, err := repo.CreateInvoice(ctx, patientID, []ItemRequest{
		{ServiceID: svcA},
		{ServiceID: 99999},
	})
	if err == nil {
		t.Fatal("expected constraint violation")
	}

	var invoices, items int
	pool.QueryRow(ctx, `SELECT COUNT(*) FROM invoices`).Scan(&invoices)
	pool.QueryRow(ctx, `SELECT COUNT(*) FROM invoice_items`).Scan(&items)
	if invoices != 0 || items != 0 {
		t.Errorf("expected no rows after rollback, got %d invoices, %d items", invoices, items)
	}
}

func TestRepoPG_GetInvoice_AbsentIsNil(t *testing.T) {
	pool, ctx := newTestPool(t)
	repo := NewRepoPG(pool)

	inv, err := repo.GetInvoice(ctx, 424242)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inv != nil {
		t.Errorf("expected nil for missing invoice, got %+v", inv)
	}
}
