package models

import "time"

// Invoice mirrors the hosted "invoices" table. Exactly one invoice may
// reference a given appointment; rows are written only through the
// save_invoice_with_items procedure, never directly.
type Invoice struct {
	ID            int64     `json:"id,omitempty"`
	AppointmentID int64     `json:"appointment_id"`
	TotalAmount   float64   `json:"total_amount"`
	PaidAmount    float64   `json:"paid_amount"`
	ChangeAmount  float64   `json:"change_amount"`
	LateFee       float64   `json:"late_fee"`
	Discount      float64   `json:"discount"`
	InvoiceDate   time.Time `json:"invoice_date,omitempty"`
	Notes         string    `json:"notes,omitempty"`

	Appointment *Appointment `json:"appointments,omitempty"`
}

// InvoiceItem is one priced line within an invoice. ServiceID is nil for
// free-form lines that do not reference a catalog service.
type InvoiceItem struct {
	ID          int64   `json:"id,omitempty"`
	InvoiceID   int64   `json:"invoice_id,omitempty"`
	ServiceID   *int64  `json:"service_id,omitempty"`
	ServiceName string  `json:"service_name"`
	UnitPrice   float64 `json:"unit_price"`
	Quantity    int     `json:"quantity"`
	LineTotal   float64 `json:"line_total"`
}
