package controllers

import (
	"net/http"
	"testing"

	"beautystudio-backend/supabase"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServiceRouter(t *testing.T, db *supabase.Client) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctl := NewServiceController(db)
	r := gin.New()
	r.POST("/api/services", ctl.CreateService)
	return r
}

func TestCreateServiceValidatesInput(t *testing.T) {
	r := newServiceRouter(t, newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("invalid input must not reach the gateway")
	}))

	w := postJSON(r, "/api/services", `{"name": "Corte", "price": 25, "duration_minutes": 0}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateServiceSurvivesEmptyInsertResponse(t *testing.T) {
	r := newServiceRouter(t, newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))

	w := postJSON(r, "/api/services", `{"name": "Corte", "price": 25, "duration_minutes": 30}`)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"name":"Corte"`, "the input record is echoed back")
}
