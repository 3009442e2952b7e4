package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"beautystudio-backend/services"
	"beautystudio-backend/supabase"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newInvoiceRouter(t *testing.T, db *supabase.Client) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctl := NewInvoiceController(services.NewInvoiceService(db))
	r := gin.New()
	r.POST("/api/invoices", ctl.CreateInvoice)
	r.GET("/api/invoices", ctl.GetInvoices)
	r.GET("/api/invoices/:id/receipt", ctl.GetReceipt)
	r.GET("/api/invoices/uninvoiced-appointments", ctl.GetUninvoicedAppointments)
	return r
}

func TestGetInvoicesAppliesPendingFilter(t *testing.T) {
	r := newInvoiceRouter(t, newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[
			{"id": 1, "total_amount": 100, "paid_amount": 100, "invoice_date": "2026-08-29T10:00:00Z"},
			{"id": 2, "total_amount": 40, "paid_amount": 20, "invoice_date": "2026-08-28T10:00:00Z"}
		]`))
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/invoices?filter=pending", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Invoices []struct {
			ID int64 `json:"id"`
		} `json:"invoices"`
		Total    int `json:"total"`
		Filtered int `json:"filtered"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Total)
	assert.Equal(t, 1, resp.Filtered)
	require.Len(t, resp.Invoices, 1)
	assert.Equal(t, int64(2), resp.Invoices[0].ID)
}

func TestCreateInvoiceRejectsUnderpayment(t *testing.T) {
	r := newInvoiceRouter(t, newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("an underpaid invoice must not reach the gateway")
	}))

	w := postJSON(r, "/api/invoices", `{
		"appointment_id": 3,
		"paid_amount": 70,
		"late_fee": 5,
		"discount": 10,
		"items": [{"service_name": "Corte", "unit_price": 40, "quantity": 2}]
	}`)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var resp struct {
		Fields map[string]string `json:"fields"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp.Fields, "paid_amount")
}

func TestGetReceiptRendersHTML(t *testing.T) {
	r := newInvoiceRouter(t, newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/rest/v1/invoices":
			w.Write([]byte(`[{
				"id": 7, "appointment_id": 3, "total_amount": 75, "paid_amount": 80,
				"change_amount": 5, "late_fee": 5, "discount": 10,
				"invoice_date": "2026-08-30T15:30:00Z",
				"appointments": {
					"id": 3, "appointment_date": "2026-08-30T14:00:00Z",
					"clients": {"first_name": "Ana", "last_name": "Pérez"},
					"services": {"name": "Corte de cabello", "price": 40}
				}
			}]`))
		case "/rest/v1/invoice_items":
			w.Write([]byte(`[{"id": 1, "invoice_id": 7, "service_name": "Corte de cabello",
				"unit_price": 40, "quantity": 2, "line_total": 80}]`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/invoices/7/receipt", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, w.Body.String(), "#000007")
	assert.Contains(t, w.Body.String(), "Ana Pérez")
}

func TestGetUninvoicedAppointments(t *testing.T) {
	r := newInvoiceRouter(t, newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/rest/v1/invoices":
			w.Write([]byte(`[{"appointment_id": 1}]`))
		case "/rest/v1/appointments":
			require.Equal(t, "not.in.(1)", r.URL.Query().Get("id"))
			w.Write([]byte(`[{"id": 2, "status": "completed"}]`))
		}
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/invoices/uninvoiced-appointments", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Appointments []struct {
			ID int64 `json:"id"`
		} `json:"appointments"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Appointments, 1)
	assert.Equal(t, int64(2), resp.Appointments[0].ID)
}
