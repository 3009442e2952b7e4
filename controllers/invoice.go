// controllers/invoice.go
package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"beautystudio-backend/models"
	"beautystudio-backend/services"
	"beautystudio-backend/supabase"
	"beautystudio-backend/utils"

	"github.com/gin-gonic/gin"
)

// InvoiceItemInput is one line of an invoice form. line totals are
// recomputed server-side, so the client never sends them.
type InvoiceItemInput struct {
	ServiceID   *int64  `json:"service_id"`
	ServiceName string  `json:"service_name" binding:"required"`
	UnitPrice   float64 `json:"unit_price" binding:"min=0"`
	Quantity    int     `json:"quantity" binding:"required,gt=0"`
}

// InvoiceInput defines the expected JSON structure for submitting an invoice
type InvoiceInput struct {
	AppointmentID int64              `json:"appointment_id" binding:"required"`
	PaidAmount    float64            `json:"paid_amount" binding:"min=0"`
	LateFee       float64            `json:"late_fee" binding:"min=0"`
	Discount      float64            `json:"discount" binding:"min=0"`
	Notes         string             `json:"notes"`
	Items         []InvoiceItemInput `json:"items"`
}

type InvoiceController struct {
	svc *services.InvoiceService
}

func NewInvoiceController(svc *services.InvoiceService) *InvoiceController {
	return &InvoiceController{svc: svc}
}

// CreateInvoice submits an invoice with its items as one atomic write. On
// success the stored invoice is fetched back and returned.
func (ctl *InvoiceController) CreateInvoice(c *gin.Context) {
	var input InvoiceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	items := make([]models.InvoiceItem, len(input.Items))
	for i, item := range input.Items {
		items[i] = models.InvoiceItem{
			ServiceID:   item.ServiceID,
			ServiceName: item.ServiceName,
			UnitPrice:   item.UnitPrice,
			Quantity:    item.Quantity,
		}
	}

	err := ctl.svc.Submit(c.Request.Context(), services.SubmitInvoiceInput{
		AppointmentID: input.AppointmentID,
		PaidAmount:    input.PaidAmount,
		LateFee:       input.LateFee,
		Discount:      input.Discount,
		Notes:         input.Notes,
		Items:         items,
	})
	switch {
	case err == nil:
	case errors.Is(err, services.ErrNoAppointment):
		utils.RespondWithFieldErrors(c, http.StatusUnprocessableEntity, map[string]string{
			"appointment_id": "An appointment is required",
		})
		return
	case errors.Is(err, services.ErrPaidBelowTotal):
		utils.RespondWithFieldErrors(c, http.StatusUnprocessableEntity, map[string]string{
			"paid_amount": "Paid amount must cover the invoice total",
		})
		return
	case errors.Is(err, services.ErrSubmitInFlight):
		utils.RespondWithError(c, http.StatusConflict, "An invoice for this appointment is already being saved")
		return
	default:
		if apiErr, ok := supabase.AsAPIError(err); ok {
			utils.RespondWithError(c, http.StatusBadGateway, "Failed to save invoice: "+apiErr.Message)
		} else {
			utils.RespondWithError(c, http.StatusBadGateway, "Failed to save invoice")
		}
		return
	}

	invoice, err := ctl.svc.LatestForAppointment(c.Request.Context(), input.AppointmentID)
	if err != nil || invoice == nil {
		// The write succeeded; worst case the caller refetches the list.
		c.JSON(http.StatusCreated, gin.H{"message": "Invoice saved successfully"})
		return
	}
	c.JSON(http.StatusCreated, invoice)
}

// GetInvoices lists invoices newest first, applying the optional search and
// filter query parameters (recent, month, high, pending).
func (ctl *InvoiceController) GetInvoices(c *gin.Context) {
	invoices, err := ctl.svc.List(c.Request.Context())
	if err != nil {
		utils.RespondWithError(c, http.StatusBadGateway, "Failed to retrieve invoices")
		return
	}

	filter := services.InvoiceFilter{
		Search: c.Query("search"),
		Bucket: c.DefaultQuery("filter", "all"),
	}
	filtered := services.FilterInvoices(invoices, filter, time.Now())

	c.JSON(http.StatusOK, gin.H{
		"invoices": filtered,
		"total":    len(invoices),
		"filtered": len(filtered),
	})
}

// GetInvoice retrieves a specific invoice with its line items
func (ctl *InvoiceController) GetInvoice(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid invoice ID")
		return
	}

	invoice, err := ctl.svc.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrInvoiceNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Invoice not found")
		} else {
			utils.RespondWithError(c, http.StatusBadGateway, "Failed to retrieve invoice")
		}
		return
	}

	items, err := ctl.svc.Items(c.Request.Context(), id)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadGateway, "Failed to retrieve invoice items")
		return
	}
	c.JSON(http.StatusOK, gin.H{"invoice": invoice, "items": items})
}

// DeleteInvoice removes an invoice; its items go with it remotely
func (ctl *InvoiceController) DeleteInvoice(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid invoice ID")
		return
	}

	switch err := ctl.svc.Delete(c.Request.Context(), id); {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"message": "Invoice deleted successfully"})
	case errors.Is(err, services.ErrInvoiceNotFound):
		utils.RespondWithError(c, http.StatusNotFound, "Invoice not found")
	default:
		utils.RespondWithError(c, http.StatusBadGateway, "Failed to delete invoice")
	}
}

// GetReceipt renders the printable HTML receipt for an invoice
func (ctl *InvoiceController) GetReceipt(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid invoice ID")
		return
	}

	invoice, err := ctl.svc.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrInvoiceNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Invoice not found")
		} else {
			utils.RespondWithError(c, http.StatusBadGateway, "Failed to retrieve invoice")
		}
		return
	}

	items, err := ctl.svc.Items(c.Request.Context(), id)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadGateway, "Failed to retrieve invoice items")
		return
	}

	html, err := services.RenderReceipt(*invoice, items)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to render receipt")
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
}

// GetUninvoicedAppointments lists completed appointments without an invoice,
// the candidates for the invoice form's appointment picker.
func (ctl *InvoiceController) GetUninvoicedAppointments(c *gin.Context) {
	appointments, err := ctl.svc.ListUninvoicedCompleted(c.Request.Context())
	if err != nil {
		utils.RespondWithError(c, http.StatusBadGateway, "Failed to retrieve appointments")
		return
	}
	c.JSON(http.StatusOK, gin.H{"appointments": appointments, "total": len(appointments)})
}
