package appointment

import (
	"context"
)

type Repository interface {
	List(ctx context.Context) ([]*Appointment, error)
	// Get returns nil (no error) when the id does not exist.
	Get(ctx context.Context, id int64) (*Appointment, error)
	Create(ctx context.Context, p Payload) (*Appointment, error)
	// Update overwrites all six mutable fields unconditionally: a payload
	// that omits a field stores NULL for it. Partial updates are not
	// supported; concurrent updates to one row are last-write-wins.
	Update(ctx context.Context, id int64, p Payload) (*Appointment, error)
	// Delete is idempotent; deleting a missing id succeeds.
	Delete(ctx context.Context, id int64) error
}
