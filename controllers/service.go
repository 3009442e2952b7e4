// controllers/service.go
package controllers

import (
	"net/http"
	"strconv"

	"beautystudio-backend/models"
	"beautystudio-backend/supabase"
	"beautystudio-backend/utils"

	"github.com/gin-gonic/gin"
)

// ServiceInput defines the expected JSON structure for creating or updating
// a service
type ServiceInput struct {
	Name            string  `json:"name" binding:"required"`
	Description     string  `json:"description"`
	Price           float64 `json:"price" binding:"min=0"`
	DurationMinutes int     `json:"duration_minutes" binding:"required,gt=0"`
}

type ServiceController struct {
	db *supabase.Client
}

func NewServiceController(db *supabase.Client) *ServiceController {
	return &ServiceController{db: db}
}

// CreateService creates a new catalog service
func (ctl *ServiceController) CreateService(c *gin.Context) {
	var input ServiceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	record := models.Service{
		Name:            input.Name,
		Description:     input.Description,
		Price:           input.Price,
		DurationMinutes: input.DurationMinutes,
	}
	var created []models.Service
	if err := ctl.db.Insert(c.Request.Context(), "services", record, &created); err != nil {
		utils.RespondWithError(c, http.StatusBadGateway, "Failed to create service")
		return
	}
	if len(created) == 0 {
		// Write accepted but no representation returned; echo the input.
		c.JSON(http.StatusCreated, record)
		return
	}
	c.JSON(http.StatusCreated, created[0])
}

// GetServices retrieves all services ordered by name
func (ctl *ServiceController) GetServices(c *gin.Context) {
	var services []models.Service
	q := supabase.NewQuery().Order("name", true)
	if err := ctl.db.Select(c.Request.Context(), "services", q, &services); err != nil {
		utils.RespondWithError(c, http.StatusBadGateway, "Failed to retrieve services")
		return
	}
	c.JSON(http.StatusOK, services)
}

// GetService retrieves a specific service by ID
func (ctl *ServiceController) GetService(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid service ID")
		return
	}

	var rows []models.Service
	q := supabase.NewQuery().EqInt("id", id).Limit(1)
	if err := ctl.db.Select(c.Request.Context(), "services", q, &rows); err != nil {
		utils.RespondWithError(c, http.StatusBadGateway, "Failed to retrieve service")
		return
	}
	if len(rows) == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Service not found")
		return
	}
	c.JSON(http.StatusOK, rows[0])
}

// UpdateService updates an existing service
func (ctl *ServiceController) UpdateService(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid service ID")
		return
	}

	var input ServiceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	fields := map[string]interface{}{
		"name":             input.Name,
		"description":      input.Description,
		"price":            input.Price,
		"duration_minutes": input.DurationMinutes,
	}
	var updated []models.Service
	q := supabase.NewQuery().EqInt("id", id)
	if err := ctl.db.Update(c.Request.Context(), "services", q, fields, &updated); err != nil {
		utils.RespondWithError(c, http.StatusBadGateway, "Failed to update service")
		return
	}
	if len(updated) == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Service not found")
		return
	}
	c.JSON(http.StatusOK, updated[0])
}

// DeleteService removes a catalog service
func (ctl *ServiceController) DeleteService(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid service ID")
		return
	}

	var deleted []models.Service
	q := supabase.NewQuery().EqInt("id", id)
	if err := ctl.db.Delete(c.Request.Context(), "services", q, &deleted); err != nil {
		if apiErr, ok := supabase.AsAPIError(err); ok && apiErr.IsForeignKeyViolation() {
			utils.RespondWithError(c, http.StatusConflict, "Service is referenced by appointments and cannot be deleted")
			return
		}
		utils.RespondWithError(c, http.StatusBadGateway, "Failed to delete service")
		return
	}
	if len(deleted) == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Service not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Service deleted successfully"})
}
