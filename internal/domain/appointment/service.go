package appointment

import (
	"context"
)

// Service fronts the repository. This layer does not validate that the
// referenced patient and doctor exist or that date/time parse; the store's
// constraints reject bad references and malformed values, matching how the
// rest of the system treats the database as the source of truth.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context) ([]*Appointment, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id int64) (*Appointment, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, p Payload) (*Appointment, error) {
	return s.repo.Create(ctx, p)
}

func (s *Service) Update(ctx context.Context, id int64, p Payload) (*Appointment, error) {
	return s.repo.Update(ctx, id, p)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}
