package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"beautystudio-backend/models"
	"beautystudio-backend/services"
	"beautystudio-backend/supabase"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAppointmentRouter(t *testing.T, db *supabase.Client) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctl := NewAppointmentController(services.NewAppointmentService(db))
	r := gin.New()
	r.POST("/api/appointments", ctl.CreateAppointment)
	r.GET("/api/appointments", ctl.GetAppointments)
	r.GET("/api/appointments/:id/duplicate", ctl.DuplicateAppointment)
	r.DELETE("/api/appointments/:id", ctl.DeleteAppointment)
	return r
}

func TestCreateAppointmentFieldErrors(t *testing.T) {
	r := newAppointmentRouter(t, newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`)) // neither client nor service exists
	}))

	date := time.Now().Add(time.Hour).Format(time.RFC3339)
	w := postJSON(r, "/api/appointments", fmt.Sprintf(
		`{"client_id": 1, "service_id": 2, "appointment_date": %q}`, date))
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var resp struct {
		Fields map[string]string `json:"fields"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp.Fields, "client_id")
	assert.Contains(t, resp.Fields, "service_id")
}

func TestDuplicateAppointmentReturnsUnsavedDraft(t *testing.T) {
	writes := 0
	r := newAppointmentRouter(t, newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writes++
			return
		}
		w.Write([]byte(`[{
			"id": 5, "client_id": 1, "service_id": 2,
			"appointment_date": "2026-08-20T10:00:00Z",
			"deposit_amount": 15, "notes": "color retoque", "status": "completed"
		}]`))
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/appointments/5/duplicate", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var draft models.Appointment
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &draft))
	assert.Zero(t, draft.ID)
	assert.True(t, draft.AppointmentDate.IsZero())
	assert.Equal(t, models.StatusScheduled, draft.Status)
	assert.Equal(t, int64(1), draft.ClientID)
	assert.Equal(t, "color retoque", draft.Notes)
	assert.Equal(t, 0, writes, "duplicating must not persist anything")
}

func TestDeleteInvoicedAppointmentConflicts(t *testing.T) {
	r := newAppointmentRouter(t, newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id": 9}]`))
	}))

	req := httptest.NewRequest(http.MethodDelete, "/api/appointments/3", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestGetAppointmentsAppliesFilters(t *testing.T) {
	now := time.Now()
	r := newAppointmentRouter(t, newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `[
			{"id": 1, "client_id": 1, "service_id": 1, "appointment_date": %q, "status": "scheduled",
			 "clients": {"id": 1, "first_name": "Ana", "last_name": "Pérez"}},
			{"id": 2, "client_id": 2, "service_id": 1, "appointment_date": %q, "status": "completed",
			 "clients": {"id": 2, "first_name": "María", "last_name": "López"}}
		]`, now.Add(time.Hour).Format(time.RFC3339), now.Add(-48*time.Hour).Format(time.RFC3339))
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/appointments?search=ana&status=scheduled", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Appointments []models.Appointment `json:"appointments"`
		Total        int                  `json:"total"`
		Filtered     int                  `json:"filtered"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Total)
	assert.Equal(t, 1, resp.Filtered)
	require.Len(t, resp.Appointments, 1)
	assert.Equal(t, int64(1), resp.Appointments[0].ID)
}
