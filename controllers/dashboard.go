// controllers/dashboard.go
package controllers

import (
	"context"
	"net/http"
	"time"

	"beautystudio-backend/models"
	"beautystudio-backend/supabase"
	"beautystudio-backend/utils"

	"github.com/gin-gonic/gin"
)

// DashboardStats is the home screen summary payload
type DashboardStats struct {
	TotalClients      int64          `json:"total_clients"`
	AppointmentsToday int64          `json:"appointments_today"`
	PendingScheduled  int64          `json:"pending_scheduled"`
	MonthRevenue      float64        `json:"month_revenue"`
	PrevMonthRevenue  float64        `json:"prev_month_revenue"`
	RevenueByDay      []DailyRevenue `json:"revenue_by_day"`
}

// DailyRevenue is one day's invoiced total within the current month
type DailyRevenue struct {
	Date    string  `json:"date"`
	Revenue float64 `json:"revenue"`
}

type DashboardController struct {
	db *supabase.Client
}

func NewDashboardController(db *supabase.Client) *DashboardController {
	return &DashboardController{db: db}
}

// GetStats assembles the dashboard summary: client count, today's and
// pending appointments, and revenue for the current and previous month.
func (ctl *DashboardController) GetStats(c *gin.Context) {
	ctx := c.Request.Context()
	now := time.Now()

	stats := DashboardStats{RevenueByDay: []DailyRevenue{}}

	totalClients, err := ctl.db.Count(ctx, "clients", supabase.NewQuery())
	if err != nil {
		utils.RespondWithError(c, http.StatusBadGateway, "Failed to retrieve dashboard stats")
		return
	}
	stats.TotalClients = totalClients

	today := utils.BeginningOfDay(now)
	tomorrow := today.AddDate(0, 0, 1)
	appointmentsToday, err := ctl.db.Count(ctx, "appointments", supabase.NewQuery().
		Gte("appointment_date", today.Format(time.RFC3339)).
		Lt("appointment_date", tomorrow.Format(time.RFC3339)))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadGateway, "Failed to retrieve dashboard stats")
		return
	}
	stats.AppointmentsToday = appointmentsToday

	pending, err := ctl.db.Count(ctx, "appointments", supabase.NewQuery().
		Eq("status", string(models.StatusScheduled)))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadGateway, "Failed to retrieve dashboard stats")
		return
	}
	stats.PendingScheduled = pending

	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	prevMonthStart := monthStart.AddDate(0, -1, 0)
	nextMonthStart := monthStart.AddDate(0, 1, 0)

	invoices, err := ctl.invoicesBetween(ctx, prevMonthStart, nextMonthStart)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadGateway, "Failed to retrieve dashboard stats")
		return
	}

	byDay := map[string]float64{}
	for _, inv := range invoices {
		if inv.InvoiceDate.Before(monthStart) {
			stats.PrevMonthRevenue += inv.TotalAmount
			continue
		}
		stats.MonthRevenue += inv.TotalAmount
		byDay[inv.InvoiceDate.Format("2006-01-02")] += inv.TotalAmount
	}
	for day := monthStart; day.Before(nextMonthStart) && !day.After(now); day = day.AddDate(0, 0, 1) {
		key := day.Format("2006-01-02")
		stats.RevenueByDay = append(stats.RevenueByDay, DailyRevenue{Date: key, Revenue: byDay[key]})
	}

	c.JSON(http.StatusOK, stats)
}

func (ctl *DashboardController) invoicesBetween(ctx context.Context, from, to time.Time) ([]models.Invoice, error) {
	var invoices []models.Invoice
	err := ctl.db.Select(ctx, "invoices", supabase.NewQuery().
		Columns("id,total_amount,invoice_date").
		Gte("invoice_date", from.Format(time.RFC3339)).
		Lt("invoice_date", to.Format(time.RFC3339)).
		Order("invoice_date", true), &invoices)
	return invoices, err
}
