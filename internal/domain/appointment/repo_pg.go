package appointment

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

type repoPG struct {
	pool *pgxpool.Pool
	cols Columns

	selectSQL string
	orderSQL  string
	insertSQL string
	updateSQL string
}

// NewRepoPG builds a repository bound to a resolved column mapping. The SQL
// is assembled once here; resolved names come from the candidate whitelist
// only and are still identifier-quoted, since "date" and "time" are reserved
// words.
func NewRepoPG(pool *pgxpool.Pool, cols Columns) Repository {
	q := func(name string) string { return pgx.Identifier{name}.Sanitize() }

	specialty := "NULL AS especialidad"
	if cols.DoctorSpecialty != "" {
		specialty = fmt.Sprintf("d.%s::text AS especialidad", q(cols.DoctorSpecialty))
	}

	// Date and time casts to text keep the wire shape independent of the
	// physical column types; name casts cover the id fallback.
	selectSQL := fmt.Sprintf(`
		SELECT
			a.id,
			a.patient_id,
			a.doctor_id,
			a.%s::text AS fecha,
			a.%s::text AS hora,
			a.%s::text AS tipo,
			a.%s::text AS estado,
			p.%s::text AS paciente,
			d.%s::text AS doctor,
			%s
		FROM appointments a
		JOIN patients p ON p.id = a.patient_id
		JOIN doctors d ON d.id = a.doctor_id`,
		q(cols.Date), q(cols.Time), q(cols.Type), q(cols.Status),
		q(cols.PatientName), q(cols.DoctorName), specialty)

	return &repoPG{
		pool:      pool,
		cols:      cols,
		selectSQL: selectSQL,
		orderSQL: fmt.Sprintf(" ORDER BY a.%s DESC, a.%s DESC",
			q(cols.Date), q(cols.Time)),
		insertSQL: fmt.Sprintf(`
			INSERT INTO appointments (patient_id, doctor_id, %s, %s, %s, %s)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id`,
			q(cols.Date), q(cols.Time), q(cols.Type), q(cols.Status)),
		updateSQL: fmt.Sprintf(`
			UPDATE appointments
			SET patient_id = $2,
				doctor_id = $3,
				%s = $4,
				%s = $5,
				%s = $6,
				%s = $7
			WHERE id = $1`,
			q(cols.Date), q(cols.Time), q(cols.Type), q(cols.Status)),
	}
}

func (r *repoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

func scanAppointment(row pgx.Row) (*Appointment, error) {
	var a Appointment
	err := row.Scan(&a.ID, &a.PatientID, &a.DoctorID,
		&a.Date, &a.Time, &a.Type, &a.Status,
		&a.Patient, &a.Doctor, &a.Specialty)
	return &a, err
}

func (r *repoPG) List(ctx context.Context) ([]*Appointment, error) {
	rows, err := r.conn(ctx).Query(ctx, r.selectSQL+r.orderSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []*Appointment{}
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, a)
	}
	return items, rows.Err()
}

func (r *repoPG) Get(ctx context.Context, id int64) (*Appointment, error) {
	a, err := scanAppointment(r.conn(ctx).QueryRow(ctx,
		r.selectSQL+" WHERE a.id = $1", id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (r *repoPG) Create(ctx context.Context, p Payload) (*Appointment, error) {
	var id int64
	err := r.conn(ctx).QueryRow(ctx, r.insertSQL,
		p.PatientID, p.DoctorID, p.Date, p.Time, p.Type, p.Status).Scan(&id)
	if err != nil {
		return nil, err
	}
	return r.Get(ctx, id)
}

func (r *repoPG) Update(ctx context.Context, id int64, p Payload) (*Appointment, error) {
	_, err := r.conn(ctx).Exec(ctx, r.updateSQL,
		id, p.PatientID, p.DoctorID, p.Date, p.Time, p.Type, p.Status)
	if err != nil {
		return nil, err
	}
	return r.Get(ctx, id)
}

func (r *repoPG) Delete(ctx context.Context, id int64) error {
	_, err := r.conn(ctx).Exec(ctx, "DELETE FROM appointments WHERE id = $1", id)
	return err
}
