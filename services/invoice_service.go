// services/invoice_service.go
package services

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"beautystudio-backend/models"
	"beautystudio-backend/supabase"
)

var (
	ErrNoAppointment   = errors.New("an appointment must be selected")
	ErrPaidBelowTotal  = errors.New("paid amount must be greater than or equal to the invoice total")
	ErrSubmitInFlight  = errors.New("an invoice submission for this appointment is already in progress")
	ErrInvoiceNotFound = errors.New("invoice not found")
)

// invoiceColumns embeds the appointment chain the list view and the receipt
// renderer need.
const invoiceColumns = "*, appointments(id,appointment_date,clients(first_name,last_name),services(name,price))"

// InvoiceService implements the invoicing workflow. Invoices and their line
// items are only ever written through the gateway's atomic
// save_invoice_with_items procedure; there is no update path.
type InvoiceService struct {
	db *supabase.Client

	mu       sync.Mutex
	inFlight map[int64]struct{}
}

func NewInvoiceService(db *supabase.Client) *InvoiceService {
	return &InvoiceService{db: db, inFlight: make(map[int64]struct{})}
}

// ComputeLineTotal recomputes one line's total.
func ComputeLineTotal(unitPrice float64, quantity int) float64 {
	return unitPrice * float64(quantity)
}

// ComputeTotals is the single place invoice arithmetic lives:
// subtotal = sum of line totals, total = subtotal + late fee - discount.
func ComputeTotals(items []models.InvoiceItem, lateFee, discount float64) (subtotal, total float64) {
	for _, item := range items {
		subtotal += ComputeLineTotal(item.UnitPrice, item.Quantity)
	}
	return subtotal, subtotal + lateFee - discount
}

// ComputeChange returns max(0, paid - total).
func ComputeChange(paid, total float64) float64 {
	if change := paid - total; change > 0 {
		return change
	}
	return 0
}

// SubmitInvoiceInput is an invoice form ready for submission. Line totals
// and the invoice total are recomputed here, never trusted from the caller.
type SubmitInvoiceInput struct {
	AppointmentID int64
	PaidAmount    float64
	LateFee       float64
	Discount      float64
	Notes         string
	Items         []models.InvoiceItem
}

// Submit writes the invoice and all its items as one atomic remote call.
// The paid >= total precondition is checked before anything goes over the
// wire; a failed call means no row exists and the whole submission must be
// retried. A second Submit for the same appointment while one is
// outstanding is refused.
func (s *InvoiceService) Submit(ctx context.Context, input SubmitInvoiceInput) error {
	if input.AppointmentID == 0 {
		return ErrNoAppointment
	}

	items := make([]models.InvoiceItem, len(input.Items))
	for i, item := range input.Items {
		item.LineTotal = ComputeLineTotal(item.UnitPrice, item.Quantity)
		items[i] = item
	}
	_, total := ComputeTotals(items, input.LateFee, input.Discount)
	if input.PaidAmount < total {
		return ErrPaidBelowTotal
	}

	if !s.beginSubmit(input.AppointmentID) {
		return ErrSubmitInFlight
	}
	defer s.endSubmit(input.AppointmentID)

	var notes interface{}
	if input.Notes != "" {
		notes = input.Notes
	}
	args := map[string]interface{}{
		"p_appointment_id": input.AppointmentID,
		"p_total_amount":   total,
		"p_paid_amount":    input.PaidAmount,
		"p_change_amount":  ComputeChange(input.PaidAmount, total),
		"p_late_fee":       input.LateFee,
		"p_discount":       input.Discount,
		"p_notes":          notes,
		"p_items":          items,
	}
	return s.db.Rpc(ctx, "save_invoice_with_items", args, nil)
}

func (s *InvoiceService) beginSubmit(appointmentID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inFlight[appointmentID]; busy {
		return false
	}
	s.inFlight[appointmentID] = struct{}{}
	return true
}

func (s *InvoiceService) endSubmit(appointmentID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inFlight, appointmentID)
}

// List fetches all invoices with their appointment chain, newest first.
func (s *InvoiceService) List(ctx context.Context) ([]models.Invoice, error) {
	var rows []models.Invoice
	q := supabase.NewQuery().Columns(invoiceColumns).Order("invoice_date", false)
	if err := s.db.Select(ctx, "invoices", q, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// Get fetches one invoice with its appointment chain.
func (s *InvoiceService) Get(ctx context.Context, id int64) (*models.Invoice, error) {
	var rows []models.Invoice
	q := supabase.NewQuery().Columns(invoiceColumns).EqInt("id", id).Limit(1)
	if err := s.db.Select(ctx, "invoices", q, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrInvoiceNotFound
	}
	return &rows[0], nil
}

// Items fetches the line items of an invoice.
func (s *InvoiceService) Items(ctx context.Context, invoiceID int64) ([]models.InvoiceItem, error) {
	var rows []models.InvoiceItem
	q := supabase.NewQuery().EqInt("invoice_id", invoiceID).Order("id", true)
	if err := s.db.Select(ctx, "invoice_items", q, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// LatestForAppointment returns the newest invoice written for an
// appointment, used right after Submit for the response and the receipt.
func (s *InvoiceService) LatestForAppointment(ctx context.Context, appointmentID int64) (*models.Invoice, error) {
	var rows []models.Invoice
	q := supabase.NewQuery().
		Columns(invoiceColumns).
		EqInt("appointment_id", appointmentID).
		Order("invoice_date", false).
		Limit(1)
	if err := s.db.Select(ctx, "invoices", q, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrInvoiceNotFound
	}
	return &rows[0], nil
}

// ListUninvoicedCompleted returns completed appointments that no invoice
// references yet. The invoiced ids are fetched first, then excluded in the
// appointment query itself.
func (s *InvoiceService) ListUninvoicedCompleted(ctx context.Context) ([]models.Appointment, error) {
	var invoiced []struct {
		AppointmentID int64 `json:"appointment_id"`
	}
	invQ := supabase.NewQuery().Columns("appointment_id")
	if err := s.db.Select(ctx, "invoices", invQ, &invoiced); err != nil {
		return nil, err
	}
	taken := make([]int64, 0, len(invoiced))
	for _, inv := range invoiced {
		taken = append(taken, inv.AppointmentID)
	}

	q := supabase.NewQuery().
		Columns(appointmentColumns).
		Eq("status", string(models.StatusCompleted)).
		Order("appointment_date", true)
	if len(taken) > 0 {
		q.NotIn("id", taken)
	}
	var completed []models.Appointment
	if err := s.db.Select(ctx, "appointments", q, &completed); err != nil {
		return nil, err
	}
	return completed, nil
}

// InvoiceFilter narrows an invoice list. Zero values ("" or "all") leave
// the corresponding dimension unfiltered.
type InvoiceFilter struct {
	Search string
	Bucket string
}

// FilterInvoices applies search text and bucket filters and returns a new
// slice sorted descending by invoice date. The input is never mutated.
func FilterInvoices(invoices []models.Invoice, filter InvoiceFilter, now time.Time) []models.Invoice {
	result := make([]models.Invoice, 0, len(invoices))
	search := strings.ToLower(strings.TrimSpace(filter.Search))

	for _, inv := range invoices {
		if search != "" && !invoiceMatchesSearch(inv, search) {
			continue
		}
		if !matchesInvoiceBucket(inv, filter.Bucket, now) {
			continue
		}
		result = append(result, inv)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].InvoiceDate.After(result[j].InvoiceDate)
	})
	return result
}

func invoiceMatchesSearch(inv models.Invoice, search string) bool {
	if strings.Contains(strconv.FormatInt(inv.ID, 10), search) {
		return true
	}
	if inv.Appointment == nil {
		return false
	}
	if inv.Appointment.Client != nil &&
		strings.Contains(strings.ToLower(inv.Appointment.Client.FullName()), search) {
		return true
	}
	return inv.Appointment.Service != nil &&
		strings.Contains(strings.ToLower(inv.Appointment.Service.Name), search)
}

func matchesInvoiceBucket(inv models.Invoice, bucket string, now time.Time) bool {
	switch bucket {
	case "recent":
		return !inv.InvoiceDate.Before(now.AddDate(0, 0, -7))
	case "month":
		return !inv.InvoiceDate.Before(now.AddDate(0, 0, -30))
	case "high":
		return inv.TotalAmount >= 100
	case "pending":
		return inv.PaidAmount < inv.TotalAmount
	default:
		return true
	}
}

// Delete removes an invoice unconditionally; the gateway cascades the
// delete to its items as one unit.
func (s *InvoiceService) Delete(ctx context.Context, id int64) error {
	var deleted []models.Invoice
	q := supabase.NewQuery().EqInt("id", id)
	if err := s.db.Delete(ctx, "invoices", q, &deleted); err != nil {
		return err
	}
	if len(deleted) == 0 {
		return ErrInvoiceNotFound
	}
	return nil
}
