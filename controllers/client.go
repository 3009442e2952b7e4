package controllers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"beautystudio-backend/models"
	"beautystudio-backend/supabase"
	"beautystudio-backend/utils"

	"github.com/gin-gonic/gin"
)

// ClientInput defines the expected JSON structure for creating or updating
// a client
type ClientInput struct {
	FirstName   string `json:"first_name" binding:"required"`
	LastName    string `json:"last_name" binding:"required"`
	PhoneNumber string `json:"phone_number" binding:"required"`
	Description string `json:"description"`
}

type ClientController struct {
	db *supabase.Client
}

func NewClientController(db *supabase.Client) *ClientController {
	return &ClientController{db: db}
}

func validateClientInput(input ClientInput) map[string]string {
	fields := map[string]string{}
	if !utils.ValidateName(input.FirstName) {
		fields["first_name"] = "first name must be 2 to 50 letters and spaces"
	}
	if !utils.ValidateName(input.LastName) {
		fields["last_name"] = "last name must be 2 to 50 letters and spaces"
	}
	if !utils.ValidatePhone(input.PhoneNumber) {
		fields["phone_number"] = "phone must have 8 to 15 digits"
	}
	return fields
}

// findByPhone returns the client holding a phone number, if any.
func (ctl *ClientController) findByPhone(c *gin.Context, phone string) (*models.Client, error) {
	var rows []models.Client
	q := supabase.NewQuery().Eq("phone_number", phone).Limit(1)
	if err := ctl.db.Select(c.Request.Context(), "clients", q, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

// CreateClient creates a new client record
func (ctl *ClientController) CreateClient(c *gin.Context) {
	var input ClientInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if fields := validateClientInput(input); len(fields) > 0 {
		utils.RespondWithFieldErrors(c, http.StatusUnprocessableEntity, fields)
		return
	}

	phone := strings.TrimSpace(input.PhoneNumber)

	// Check the phone before writing so the conflict message can name the
	// existing client; the gateway's unique constraint still backstops races.
	existing, err := ctl.findByPhone(c, phone)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadGateway, "Could not verify phone number")
		return
	}
	if existing != nil {
		c.JSON(http.StatusConflict, gin.H{
			"error":  fmt.Sprintf("That phone number already belongs to %s", existing.FullName()),
			"fields": gin.H{"phone_number": "this phone number is already registered"},
		})
		return
	}

	record := models.Client{
		FirstName:   strings.TrimSpace(input.FirstName),
		LastName:    strings.TrimSpace(input.LastName),
		PhoneNumber: phone,
		Description: strings.TrimSpace(input.Description),
	}
	var created []models.Client
	if err := ctl.db.Insert(c.Request.Context(), "clients", record, &created); err != nil {
		ctl.respondClientWriteError(c, err)
		return
	}
	if len(created) == 0 {
		// Write accepted but no representation returned; echo the input.
		c.JSON(http.StatusCreated, record)
		return
	}
	c.JSON(http.StatusCreated, created[0])
}

// respondClientWriteError translates gateway errors, mapping the unique
// phone constraint to a field-level conflict.
func (ctl *ClientController) respondClientWriteError(c *gin.Context, err error) {
	if apiErr, ok := supabase.AsAPIError(err); ok && apiErr.IsUniqueViolation() {
		c.JSON(http.StatusConflict, gin.H{
			"error":  "A client with this phone number already exists",
			"fields": gin.H{"phone_number": "this phone number is already registered"},
		})
		return
	}
	utils.RespondWithError(c, http.StatusBadGateway, "Failed to save client")
}

// GetClients retrieves all clients ordered by first name
func (ctl *ClientController) GetClients(c *gin.Context) {
	var clients []models.Client
	q := supabase.NewQuery().Order("first_name", true)
	if err := ctl.db.Select(c.Request.Context(), "clients", q, &clients); err != nil {
		utils.RespondWithError(c, http.StatusBadGateway, "Failed to retrieve clients")
		return
	}
	c.JSON(http.StatusOK, clients)
}

// GetClient retrieves a specific client by ID
func (ctl *ClientController) GetClient(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid client ID")
		return
	}

	var rows []models.Client
	q := supabase.NewQuery().EqInt("id", id).Limit(1)
	if err := ctl.db.Select(c.Request.Context(), "clients", q, &rows); err != nil {
		utils.RespondWithError(c, http.StatusBadGateway, "Failed to retrieve client")
		return
	}
	if len(rows) == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Client not found")
		return
	}
	c.JSON(http.StatusOK, rows[0])
}

// UpdateClient updates an existing client
func (ctl *ClientController) UpdateClient(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid client ID")
		return
	}

	var input ClientInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if fields := validateClientInput(input); len(fields) > 0 {
		utils.RespondWithFieldErrors(c, http.StatusUnprocessableEntity, fields)
		return
	}

	phone := strings.TrimSpace(input.PhoneNumber)
	existing, err := ctl.findByPhone(c, phone)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadGateway, "Could not verify phone number")
		return
	}
	if existing != nil && existing.ID != id {
		c.JSON(http.StatusConflict, gin.H{
			"error":  fmt.Sprintf("That phone number already belongs to %s", existing.FullName()),
			"fields": gin.H{"phone_number": "this phone number is already registered"},
		})
		return
	}

	fields := map[string]interface{}{
		"first_name":   strings.TrimSpace(input.FirstName),
		"last_name":    strings.TrimSpace(input.LastName),
		"phone_number": phone,
		"description":  strings.TrimSpace(input.Description),
	}
	var updated []models.Client
	q := supabase.NewQuery().EqInt("id", id)
	if err := ctl.db.Update(c.Request.Context(), "clients", q, fields, &updated); err != nil {
		ctl.respondClientWriteError(c, err)
		return
	}
	if len(updated) == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Client not found")
		return
	}
	c.JSON(http.StatusOK, updated[0])
}

// DeleteClient removes a client record
func (ctl *ClientController) DeleteClient(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid client ID")
		return
	}

	var deleted []models.Client
	q := supabase.NewQuery().EqInt("id", id)
	if err := ctl.db.Delete(c.Request.Context(), "clients", q, &deleted); err != nil {
		if apiErr, ok := supabase.AsAPIError(err); ok && apiErr.IsForeignKeyViolation() {
			utils.RespondWithError(c, http.StatusConflict, "Client has appointments and cannot be deleted")
			return
		}
		utils.RespondWithError(c, http.StatusBadGateway, "Failed to delete client")
		return
	}
	if len(deleted) == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Client not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Client deleted successfully"})
}
