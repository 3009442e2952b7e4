// controllers/appointment.go
package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"beautystudio-backend/models"
	"beautystudio-backend/services"
	"beautystudio-backend/utils"

	"github.com/gin-gonic/gin"
)

// AppointmentInput defines the expected JSON structure for creating or
// updating an appointment. Field rules live in the workflow's Validate so
// failures come back as a field-keyed map instead of a binding error.
type AppointmentInput struct {
	ClientID        int64                    `json:"client_id"`
	ServiceID       int64                    `json:"service_id"`
	AppointmentDate *time.Time               `json:"appointment_date"`
	DepositAmount   float64                  `json:"deposit_amount"`
	Notes           string                   `json:"notes"`
	Status          models.AppointmentStatus `json:"status" binding:"omitempty,oneof=scheduled completed cancelled"`
}

func (input AppointmentInput) draft() services.AppointmentDraft {
	draft := services.AppointmentDraft{
		ClientID:      input.ClientID,
		ServiceID:     input.ServiceID,
		DepositAmount: input.DepositAmount,
		Notes:         input.Notes,
		Status:        input.Status,
	}
	if input.AppointmentDate != nil {
		draft.AppointmentDate = *input.AppointmentDate
	}
	return draft
}

type AppointmentController struct {
	svc *services.AppointmentService
}

func NewAppointmentController(svc *services.AppointmentService) *AppointmentController {
	return &AppointmentController{svc: svc}
}

// CreateAppointment validates and creates a new appointment
func (ctl *AppointmentController) CreateAppointment(c *gin.Context) {
	var input AppointmentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	draft := input.draft()
	fields, err := ctl.svc.Validate(c.Request.Context(), draft, time.Now(), true)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadGateway, "Could not validate appointment")
		return
	}
	if len(fields) > 0 {
		utils.RespondWithFieldErrors(c, http.StatusUnprocessableEntity, fields)
		return
	}

	created, err := ctl.svc.Create(c.Request.Context(), draft)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadGateway, "Failed to create appointment")
		return
	}
	c.JSON(http.StatusCreated, created)
}

// GetAppointments lists appointments, applying the optional search, status
// and date query filters. Results are always sorted ascending by date.
func (ctl *AppointmentController) GetAppointments(c *gin.Context) {
	appointments, err := ctl.svc.List(c.Request.Context())
	if err != nil {
		utils.RespondWithError(c, http.StatusBadGateway, "Failed to retrieve appointments")
		return
	}

	filter := services.AppointmentFilter{
		Search:     c.Query("search"),
		Status:     c.DefaultQuery("status", "all"),
		DateBucket: c.DefaultQuery("date", "all"),
	}
	filtered := services.FilterAppointments(appointments, filter, time.Now())

	c.JSON(http.StatusOK, gin.H{
		"appointments": filtered,
		"total":        len(appointments),
		"filtered":     len(filtered),
	})
}

// GetAppointment retrieves a specific appointment by ID
func (ctl *AppointmentController) GetAppointment(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid appointment ID")
		return
	}

	appointment, err := ctl.svc.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrAppointmentNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Appointment not found")
		} else {
			utils.RespondWithError(c, http.StatusBadGateway, "Failed to retrieve appointment")
		}
		return
	}
	c.JSON(http.StatusOK, appointment)
}

// UpdateAppointment validates and updates an existing appointment. The
// no-past-dates rule only applies when the date actually changes, so old
// appointments stay editable.
func (ctl *AppointmentController) UpdateAppointment(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid appointment ID")
		return
	}

	var input AppointmentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	existing, err := ctl.svc.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrAppointmentNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Appointment not found")
		} else {
			utils.RespondWithError(c, http.StatusBadGateway, "Failed to retrieve appointment")
		}
		return
	}

	draft := input.draft()
	if draft.Status == "" {
		draft.Status = existing.Status
	}
	dateChanged := !draft.AppointmentDate.Equal(existing.AppointmentDate)
	fields, err := ctl.svc.Validate(c.Request.Context(), draft, time.Now(), dateChanged)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadGateway, "Could not validate appointment")
		return
	}
	if len(fields) > 0 {
		utils.RespondWithFieldErrors(c, http.StatusUnprocessableEntity, fields)
		return
	}

	updated, err := ctl.svc.Update(c.Request.Context(), id, draft)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadGateway, "Failed to update appointment")
		return
	}
	c.JSON(http.StatusOK, updated)
}

// DeleteAppointment removes an appointment unless invoices reference it
func (ctl *AppointmentController) DeleteAppointment(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid appointment ID")
		return
	}

	switch err := ctl.svc.Delete(c.Request.Context(), id); {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"message": "Appointment deleted successfully"})
	case errors.Is(err, services.ErrHasInvoices):
		utils.RespondWithError(c, http.StatusConflict, "Appointment has associated invoices and cannot be deleted")
	case errors.Is(err, services.ErrAppointmentNotFound):
		utils.RespondWithError(c, http.StatusNotFound, "Appointment not found")
	default:
		utils.RespondWithError(c, http.StatusBadGateway, "Failed to delete appointment")
	}
}

// DuplicateAppointment returns an unsaved draft copy of an appointment:
// same client, service, deposit and notes, blank date, status scheduled.
// Nothing is written until the caller saves the draft.
func (ctl *AppointmentController) DuplicateAppointment(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid appointment ID")
		return
	}

	appointment, err := ctl.svc.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrAppointmentNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Appointment not found")
		} else {
			utils.RespondWithError(c, http.StatusBadGateway, "Failed to retrieve appointment")
		}
		return
	}
	c.JSON(http.StatusOK, services.Duplicate(*appointment))
}
