package billing

import (
	"context"
	"errors"

	"github.com/clinica/clinica/internal/platform/metrics"
)

// ErrPatientRequired rejects invoice creation without a patient reference
// before any transaction is opened.
var ErrPatientRequired = errors.New("patient_id is required")

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) ListInvoices(ctx context.Context) ([]*Invoice, error) {
	return s.repo.ListInvoices(ctx)
}

func (s *Service) GetInvoice(ctx context.Context, id int64) (*Invoice, error) {
	return s.repo.GetInvoice(ctx, id)
}

func (s *Service) ListItems(ctx context.Context, invoiceID int64) ([]*InvoiceItem, error) {
	return s.repo.ListItems(ctx, invoiceID)
}

func (s *Service) CreateInvoice(ctx context.Context, req CreateRequest) (*Invoice, error) {
	if req.PatientID == 0 {
		return nil, ErrPatientRequired
	}
	inv, err := s.repo.CreateInvoice(ctx, req.PatientID, req.Items)
	if err != nil {
		metrics.InvoicesCreatedTotal.WithLabelValues("rolled_back").Inc()
		return nil, err
	}
	metrics.InvoicesCreatedTotal.WithLabelValues("success").Inc()
	return inv, nil
}
