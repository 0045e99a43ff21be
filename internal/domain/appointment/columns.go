package appointment

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
)

// Columns is the resolved mapping from logical appointment concepts to the
// physical column names of the connected schema. It is built once at startup
// and treated as immutable afterwards; a schema change requires a restart.
type Columns struct {
	Date   string
	Time   string
	Type   string
	Status string

	PatientName     string
	DoctorName      string
	DoctorSpecialty string // empty when the schema has no specialty column
}

// Deployments ship this backend against databases authored in either English
// or Spanish. Each concept carries an ordered candidate list; the first name
// present in the table wins.
var (
	dateCandidates   = []string{"date", "fecha", "appointment_date", "fecha_cita"}
	timeCandidates   = []string{"time", "hora", "appointment_time", "hora_cita"}
	typeCandidates   = []string{"type", "tipo", "appointment_type", "tipo_cita"}
	statusCandidates = []string{"status", "estado", "state", "estatus"}
	nameCandidates   = []string{"nombre", "name", "full_name"}
	specCandidates   = []string{"especialidad", "specialty"}
)

// pick returns the first candidate that exists among the table's columns,
// case-insensitively, as it is spelled in the table. Empty when none match.
func pick(columns, candidates []string) string {
	for _, cand := range candidates {
		for _, col := range columns {
			if strings.EqualFold(col, cand) {
				return col
			}
		}
	}
	return ""
}

// resolve builds the mapping from the actual column lists of the three
// tables. Date, time, type and status are required; the returned error names
// exactly the concepts that could not be found.
func resolve(apptCols, patientCols, doctorCols []string) (Columns, error) {
	cols := Columns{
		Date:            pick(apptCols, dateCandidates),
		Time:            pick(apptCols, timeCandidates),
		Type:            pick(apptCols, typeCandidates),
		Status:          pick(apptCols, statusCandidates),
		PatientName:     pick(patientCols, nameCandidates),
		DoctorName:      pick(doctorCols, nameCandidates),
		DoctorSpecialty: pick(doctorCols, specCandidates),
	}

	var missing []string
	for _, req := range []struct {
		concept, col string
	}{
		{"date", cols.Date},
		{"time", cols.Time},
		{"type", cols.Type},
		{"status", cols.Status},
	} {
		if req.col == "" {
			missing = append(missing, req.concept)
		}
	}
	if len(missing) > 0 {
		return Columns{}, fmt.Errorf("appointments: missing columns for %s, check the schema", strings.Join(missing, ", "))
	}

	// Display names fall back to the row identifier.
	if cols.PatientName == "" {
		cols.PatientName = "id"
	}
	if cols.DoctorName == "" {
		cols.DoctorName = "id"
	}

	return cols, nil
}

// Querier is the slice of pgx used for metadata introspection; satisfied by
// *pgxpool.Pool and pgx.Tx.
type Querier interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
}

// tableColumns lists the column names of a table in the current schema.
func tableColumns(ctx context.Context, q Querier, table string) ([]string, error) {
	rows, err := q.Query(ctx, `
		SELECT column_name
		FROM information_schema.columns
		WHERE table_schema = current_schema() AND table_name = $1`, table)
	if err != nil {
		return nil, fmt.Errorf("introspect %s: %w", table, err)
	}
	defer rows.Close()

	var cols []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("introspect %s: %w", table, err)
		}
		cols = append(cols, name)
	}
	return cols, rows.Err()
}

// ResolveColumns introspects the appointments, patients and doctors tables
// and resolves the column mapping. Called once at startup; the server refuses
// to start when a required concept is missing.
func ResolveColumns(ctx context.Context, q Querier) (Columns, error) {
	apptCols, err := tableColumns(ctx, q, "appointments")
	if err != nil {
		return Columns{}, err
	}
	patientCols, err := tableColumns(ctx, q, "patients")
	if err != nil {
		return Columns{}, err
	}
	doctorCols, err := tableColumns(ctx, q, "doctors")
	if err != nil {
		return Columns{}, err
	}
	return resolve(apptCols, patientCols, doctorCols)
}
