package billing

import (
	"context"
)

type Repository interface {
	ListInvoices(ctx context.Context) ([]*Invoice, error)
	// GetInvoice returns nil (no error) when the id does not exist.
	GetInvoice(ctx context.Context, id int64) (*Invoice, error)
	ListItems(ctx context.Context, invoiceID int64) ([]*InvoiceItem, error)
	// CreateInvoice inserts the invoice and all of its line items in one
	// transaction; on any failure nothing is recorded.
	CreateInvoice(ctx context.Context, patientID int64, items []ItemRequest) (*Invoice, error)
}
