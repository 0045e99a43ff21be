package appointment

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
)

// newSpanishSchemaPool provisions a throwaway schema whose tables use the
// Spanish naming dialect. Skipped when TEST_DATABASE_URL is not set.
func newSpanishSchemaPool(t *testing.T) (*pgxpool.Pool, context.Context) {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	schema := fmt.Sprintf("appt_test_%d", rand.Int31())

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
		`CREATE TABLE patients (id BIGSERIAL PRIMARY KEY, nombre TEXT NOT NULL)`,
		`CREATE TABLE doctors (
			id BIGSERIAL PRIMARY KEY,
			nombre TEXT NOT NULL,
			especialidad TEXT)`,
		`CREATE TABLE appointments (
			id BIGSERIAL PRIMARY KEY,
			patient_id BIGINT NOT NULL REFERENCES patients(id),
			doctor_id BIGINT NOT NULL REFERENCES doctors(id),
			fecha DATE,
			hora TIME,
			tipo TEXT,
			estado TEXT)`,
	}
	for _, stmt := range ddl {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			t.Fatalf("ddl: %v", err)
		}
	}

	return pool, ctx
}

func seedPeople(t *testing.T, ctx context.Context, pool *pgxpool.Pool) (patientID, doctorID int64) {
	t.Helper()
	if err := pool.QueryRow(ctx,
		`INSERT INTO patients (nombre) VALUES ('Engels Tiu') RETURNING id`).Scan(&patientID); err != nil {
		t.Fatal(err)
	}
	if err := pool.QueryRow(ctx,
		`INSERT INTO doctors (nombre, especialidad) VALUES ('Dr. José Pérez', 'Cardiología') RETURNING id`).Scan(&doctorID); err != nil {
		t.Fatal(err)
	}
	return
}

func newSpanishRepo(t *testing.T) (Repository, context.Context, *pgxpool.Pool) {
	pool, ctx := newSpanishSchemaPool(t)
	cols, err := ResolveColumns(ctx, pool)
	if err != nil {
		t.Fatalf("resolve columns: %v", err)
	}
	if cols.Date != "fecha" || cols.Time != "hora" || cols.Type != "tipo" || cols.Status != "estado" {
		t.Fatalf("unexpected mapping: %+v", cols)
	}
	return NewRepoPG(pool, cols), ctx, pool
}

func TestRepoPG_SpanishSchemaRoundTrip(t *testing.T) {
	repo, ctx, pool := newSpanishRepo(t)
	patientID, doctorID := seedPeople(t, ctx, pool)

	created, err := repo.Create(ctx, Payload{
		PatientID: &patientID, DoctorID: &doctorID,
		Date: strp("2025-01-10"), Time: strp("09:30"),
		Type: strp("Consulta"), Status: strp("PROGRAMADA"),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := repo.Get(ctx, created.ID)
	if err != nil || got == nil {
		t.Fatalf("get: %v %v", got, err)
	}
	if *got.PatientID != patientID || *got.DoctorID != doctorID {
		t.Errorf("references do not round-trip: %+v", got)
	}
	if deref(got.Date) != "2025-01-10" || deref(got.Time) != "09:30:00" {
		t.Errorf("date/time do not round-trip: %v %v", got.Date, got.Time)
	}
	if deref(got.Type) != "Consulta" || deref(got.Status) != "PROGRAMADA" {
		t.Errorf("type/status do not round-trip: %+v", got)
	}
	if deref(got.Patient) != "Engels Tiu" || deref(got.Doctor) != "Dr. José Pérez" {
		t.Errorf("joined display names missing: %+v", got)
	}
	if deref(got.Specialty) != "Cardiología" {
		t.Errorf("specialty missing: %v", got.Specialty)
	}
}

func TestRepoPG_ListNewestFirst(t *testing.T) {
	repo, ctx, pool := newSpanishRepo(t)
	patientID, doctorID := seedPeople(t, ctx, pool)

	for _, in := range [][2]string{
		{"2025-01-10", "09:30"},
		{"2025-01-12", "08:00"},
		{"2025-01-12", "11:00"},
	} {
		date, tm := in[0], in[1]
		if _, err := repo.Create(ctx, Payload{
			PatientID: &patientID, DoctorID: &doctorID,
			Date: &date, Time: &tm,
			Type: strp("Consulta"), Status: strp("PROGRAMADA"),
		}); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	items, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(items))
	}
	if deref(items[0].Date) != "2025-01-12" || deref(items[0].Time) != "11:00:00" {
		t.Errorf("expected date desc then time desc, got %+v", items[0])
	}
	if deref(items[2].Date) != "2025-01-10" {
		t.Errorf("expected oldest last, got %+v", items[2])
	}
}

func TestRepoPG_UpdateOverwritesOmittedFields(t *testing.T) {
	repo, ctx, pool := newSpanishRepo(t)
	patientID, doctorID := seedPeople(t, ctx, pool)

	created, err := repo.Create(ctx, Payload{
		PatientID: &patientID, DoctorID: &doctorID,
		Date: strp("2025-01-10"), Time: strp("09:30"),
		Type: strp("Consulta"), Status: strp("PROGRAMADA"),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := repo.Update(ctx, created.ID, Payload{
		PatientID: &patientID, DoctorID: &doctorID,
		Status: strp("COMPLETADA"),
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if deref(updated.Status) != "COMPLETADA" {
		t.Errorf("expected status COMPLETADA, got %v", updated.Status)
	}
	if updated.Date != nil || updated.Time != nil || updated.Type != nil {
		t.Errorf("omitted fields must be stored as NULL: %+v", updated)
	}
}

func TestRepoPG_GetAbsentIsNil(t *testing.T) {
	repo, ctx, _ := newSpanishRepo(t)

	got, err := repo.Get(ctx, 424242)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil for missing id, got %+v", got)
	}
}

func TestRepoPG_DeleteIdempotent(t *testing.T) {
	repo, ctx, _ := newSpanishRepo(t)

	if err := repo.Delete(ctx, 424242); err != nil {
		t.Errorf("delete of missing id must succeed, got %v", err)
	}
}
