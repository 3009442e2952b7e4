package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"beautystudio-backend/models"
	"beautystudio-backend/supabase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGateway(t *testing.T, handler http.HandlerFunc) *supabase.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client, err := supabase.New(supabase.Config{
		ProjectURL: srv.URL,
		APIKey:     "test-key",
		HTTPClient: srv.Client(),
	})
	require.NoError(t, err)
	return client
}

func TestComputeTotals(t *testing.T) {
	items := []models.InvoiceItem{
		{ServiceName: "Corte", UnitPrice: 40, Quantity: 2, LineTotal: ComputeLineTotal(40, 2)},
	}
	subtotal, total := ComputeTotals(items, 5, 10)
	assert.Equal(t, 80.0, subtotal)
	assert.Equal(t, 75.0, total)
	assert.Equal(t, 5.0, ComputeChange(80, total))
	assert.Equal(t, 0.0, ComputeChange(75, total))
}

func TestSubmitRejectsUnderpaymentBeforeAnyCall(t *testing.T) {
	requests := 0
	svc := NewInvoiceService(newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		requests++
	}))

	err := svc.Submit(context.Background(), SubmitInvoiceInput{
		AppointmentID: 1,
		PaidAmount:    70,
		LateFee:       5,
		Discount:      10,
		Items: []models.InvoiceItem{
			{ServiceName: "Corte", UnitPrice: 40, Quantity: 2},
		},
	})
	assert.ErrorIs(t, err, ErrPaidBelowTotal)
	assert.Equal(t, 0, requests, "nothing must go over the wire for an invalid form")
}

func TestSubmitRequiresAppointment(t *testing.T) {
	svc := NewInvoiceService(newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {}))

	err := svc.Submit(context.Background(), SubmitInvoiceInput{PaidAmount: 100})
	assert.ErrorIs(t, err, ErrNoAppointment)
}

func TestSubmitCallsAtomicProcedure(t *testing.T) {
	var path string
	var args map[string]interface{}
	svc := NewInvoiceService(newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		json.NewDecoder(r.Body).Decode(&args)
		w.WriteHeader(http.StatusNoContent)
	}))

	err := svc.Submit(context.Background(), SubmitInvoiceInput{
		AppointmentID: 3,
		PaidAmount:    80,
		LateFee:       5,
		Discount:      10,
		Notes:         "pago en efectivo",
		Items: []models.InvoiceItem{
			{ServiceName: "Corte", UnitPrice: 40, Quantity: 2},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "/rest/v1/rpc/save_invoice_with_items", path)
	assert.EqualValues(t, 3, args["p_appointment_id"])
	assert.EqualValues(t, 75, args["p_total_amount"])
	assert.EqualValues(t, 80, args["p_paid_amount"])
	assert.EqualValues(t, 5, args["p_change_amount"])
	assert.EqualValues(t, 5, args["p_late_fee"])
	assert.EqualValues(t, 10, args["p_discount"])
	assert.Equal(t, "pago en efectivo", args["p_notes"])

	items, ok := args["p_items"].([]interface{})
	require.True(t, ok)
	require.Len(t, items, 1)
	line := items[0].(map[string]interface{})
	assert.EqualValues(t, 80, line["line_total"], "line totals are recomputed server-side")
}

func TestSubmitOmitsEmptyNotes(t *testing.T) {
	var args map[string]interface{}
	svc := NewInvoiceService(newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&args)
		w.WriteHeader(http.StatusNoContent)
	}))

	err := svc.Submit(context.Background(), SubmitInvoiceInput{
		AppointmentID: 4,
		PaidAmount:    40,
		Items: []models.InvoiceItem{
			{ServiceName: "Corte", UnitPrice: 40, Quantity: 1},
		},
	})
	require.NoError(t, err)
	assert.Nil(t, args["p_notes"])
}

func TestSubmitGuardRefusesConcurrentDuplicate(t *testing.T) {
	svc := NewInvoiceService(newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {}))

	require.True(t, svc.beginSubmit(5))
	assert.False(t, svc.beginSubmit(5))
	assert.True(t, svc.beginSubmit(6), "other appointments are not blocked")

	svc.endSubmit(5)
	assert.True(t, svc.beginSubmit(5))
}

func TestListUninvoicedCompletedExcludesInvoicedAppointments(t *testing.T) {
	var appointmentQuery string
	svc := NewInvoiceService(newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/rest/v1/invoices":
			w.Write([]byte(`[{"appointment_id": 1}, {"appointment_id": 4}]`))
		case "/rest/v1/appointments":
			appointmentQuery = r.URL.Query().Get("id")
			w.Write([]byte(`[{"id": 2, "client_id": 11, "service_id": 21, "status": "completed"}]`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))

	appointments, err := svc.ListUninvoicedCompleted(context.Background())
	require.NoError(t, err)
	require.Len(t, appointments, 1)
	assert.Equal(t, int64(2), appointments[0].ID)
	assert.Equal(t, "not.in.(1,4)", appointmentQuery, "invoiced ids are excluded in the query itself")
}

func TestListUninvoicedCompletedWithNoInvoices(t *testing.T) {
	var appointmentQuery string
	svc := NewInvoiceService(newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/rest/v1/invoices":
			w.Write([]byte(`[]`))
		case "/rest/v1/appointments":
			appointmentQuery = r.URL.Query().Get("id")
			w.Write([]byte(`[{"id": 1, "status": "completed"}]`))
		}
	}))

	appointments, err := svc.ListUninvoicedCompleted(context.Background())
	require.NoError(t, err)
	assert.Len(t, appointments, 1)
	assert.Empty(t, appointmentQuery, "no exclusion filter when nothing is invoiced")
}

func invoiceFilterFixture(now time.Time) []models.Invoice {
	return []models.Invoice{
		{
			ID: 1, TotalAmount: 150, PaidAmount: 150,
			InvoiceDate: now.AddDate(0, 0, -2),
			Appointment: &models.Appointment{
				Client:  &models.Client{FirstName: "Ana", LastName: "Pérez"},
				Service: &models.Service{Name: "Corte de cabello"},
			},
		},
		{
			ID: 2, TotalAmount: 40, PaidAmount: 20,
			InvoiceDate: now.AddDate(0, 0, -10),
			Appointment: &models.Appointment{
				Client:  &models.Client{FirstName: "María", LastName: "López"},
				Service: &models.Service{Name: "Manicura"},
			},
		},
		{
			ID: 3, TotalAmount: 60, PaidAmount: 60,
			InvoiceDate: now.AddDate(0, 0, -40),
		},
	}
}

func TestFilterInvoicesBuckets(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	fixture := invoiceFilterFixture(now)

	ids := func(list []models.Invoice) []int64 {
		out := make([]int64, len(list))
		for i, inv := range list {
			out[i] = inv.ID
		}
		return out
	}

	recent := FilterInvoices(fixture, InvoiceFilter{Bucket: "recent"}, now)
	assert.Equal(t, []int64{1}, ids(recent))

	month := FilterInvoices(fixture, InvoiceFilter{Bucket: "month"}, now)
	assert.Equal(t, []int64{1, 2}, ids(month))

	high := FilterInvoices(fixture, InvoiceFilter{Bucket: "high"}, now)
	assert.Equal(t, []int64{1}, ids(high))

	pending := FilterInvoices(fixture, InvoiceFilter{Bucket: "pending"}, now)
	assert.Equal(t, []int64{2}, ids(pending))

	all := FilterInvoices(fixture, InvoiceFilter{}, now)
	assert.Equal(t, []int64{1, 2, 3}, ids(all), "results sort descending by invoice date")
}

func TestFilterInvoicesSearch(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	fixture := invoiceFilterFixture(now)

	byClient := FilterInvoices(fixture, InvoiceFilter{Search: "maría"}, now)
	require.Len(t, byClient, 1)
	assert.Equal(t, int64(2), byClient[0].ID)

	byService := FilterInvoices(fixture, InvoiceFilter{Search: "corte"}, now)
	require.Len(t, byService, 1)
	assert.Equal(t, int64(1), byService[0].ID)

	byID := FilterInvoices(fixture, InvoiceFilter{Search: "3"}, now)
	require.Len(t, byID, 1)
	assert.Equal(t, int64(3), byID[0].ID)
}

func TestDeleteReportsMissingInvoice(t *testing.T) {
	svc := NewInvoiceService(newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))

	err := svc.Delete(context.Background(), 99)
	assert.ErrorIs(t, err, ErrInvoiceNotFound)
}

func TestLatestForAppointmentOrdersNewestFirst(t *testing.T) {
	var query string
	svc := NewInvoiceService(newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.RawQuery
		w.Write([]byte(`[{"id": 12, "appointment_id": 3, "total_amount": 75, "invoice_date": "2026-08-30T10:00:00Z"}]`))
	}))

	invoice, err := svc.LatestForAppointment(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, int64(12), invoice.ID)
	assert.Contains(t, query, "invoice_date.desc")
	assert.Contains(t, query, "appointment_id=eq.3")
}
