package billing

import (
	"time"
)

// StatusPaid is the status every invoice is created with. The clinic bills
// at the desk and collects immediately; there is no pending state or payment
// workflow.
const StatusPaid = "PAGADA"

type Invoice struct {
	ID        int64     `json:"id"`
	PatientID int64     `json:"patient_id"`
	Status    string    `json:"status"`
	Total     float64   `json:"total"`
	CreatedAt time.Time `json:"created_at"`
}

// InvoiceItem is one line of an invoice. Price is captured from the service
// catalog at invoice time; the catalog may change later without rewriting
// history. ServiceName is joined for display.
type InvoiceItem struct {
	ID          int64   `json:"id"`
	InvoiceID   int64   `json:"invoice_id"`
	ServiceID   int64   `json:"service_id"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"`
	ServiceName string  `json:"service_name"`
}

// CreateRequest is the invoice creation payload.
type CreateRequest struct {
	PatientID int64         `json:"patient_id"`
	Items     []ItemRequest `json:"items"`
}

// ItemRequest names a service and optionally a quantity (default 1) and a
// caller-supplied price, used only when the catalog cannot price the
// service.
type ItemRequest struct {
	ServiceID int64    `json:"service_id"`
	Quantity  *int     `json:"quantity,omitempty"`
	Price     *float64 `json:"price,omitempty"`
}
