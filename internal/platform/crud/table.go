// Package crud implements a fixed-schema table repository shared by the
// simple resources (users, patients, doctors, services). Column names here
// are compile-time constants; only the appointment layer deals with
// runtime-resolved schemas.
package crud

import (
	"context"
	"errors"
	"fmt"
	"strings"

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

// Table is a repository over one table with an integer primary key. Scan
// reads a full row (id first, then Columns in order); Values returns the
// insertable values in the same column order.
type Table[T any] struct {
	Pool    *pgxpool.Pool
	Name    string
	Columns []string
	Scan    func(row pgx.Row) (*T, error)
	Values  func(*T) []interface{}
}

func (t *Table[T]) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return t.Pool
}

func (t *Table[T]) selectList() string {
	return "id, " + strings.Join(t.Columns, ", ")
}

func placeholders(n int) string {
	ps := make([]string, n)
	for i := range ps {
		ps[i] = fmt.Sprintf("$%d", i+1)
	}
	return strings.Join(ps, ", ")
}

// List returns every row, newest first.
func (t *Table[T]) List(ctx context.Context) ([]*T, error) {
	rows, err := t.conn(ctx).Query(ctx,
		fmt.Sprintf("SELECT %s FROM %s ORDER BY id DESC", t.selectList(), t.Name))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []*T{}
	for rows.Next() {
		item, err := t.Scan(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// Get returns the row with the given id, or nil when it does not exist.
func (t *Table[T]) Get(ctx context.Context, id int64) (*T, error) {
	item, err := t.Scan(t.conn(ctx).QueryRow(ctx,
		fmt.Sprintf("SELECT %s FROM %s WHERE id = $1", t.selectList(), t.Name), id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return item, nil
}

// Create inserts a row and returns its generated id.
func (t *Table[T]) Create(ctx context.Context, item *T) (int64, error) {
	var id int64
	err := t.conn(ctx).QueryRow(ctx,
		fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING id",
			t.Name, strings.Join(t.Columns, ", "), placeholders(len(t.Columns))),
		t.Values(item)...).Scan(&id)
	return id, err
}

// Update overwrites every column of the row with the given id.
func (t *Table[T]) Update(ctx context.Context, id int64, item *T) error {
	sets := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		sets[i] = fmt.Sprintf("%s = $%d", col, i+2)
	}
	args := append([]interface{}{id}, t.Values(item)...)
	_, err := t.conn(ctx).Exec(ctx,
		fmt.Sprintf("UPDATE %s SET %s WHERE id = $1", t.Name, strings.Join(sets, ", ")),
		args...)
	return err
}

// Delete removes the row with the given id. Deleting a missing id is not an
// error.
func (t *Table[T]) Delete(ctx context.Context, id int64) error {
	_, err := t.conn(ctx).Exec(ctx,
		fmt.Sprintf("DELETE FROM %s WHERE id = $1", t.Name), id)
	return err
}
