package controllers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"pos-fbr-backend/controllers"
)

func TestGetSales_RejectsUnknownFBRStatusFilter(t *testing.T) {
	setupTestDB(t)
	app := testApp()
	app.Get("/api/sales", controllers.GetSales)

	resp := doJSON(t, app, http.MethodGet, "/api/sales?fbr_status=BOGUS", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	// Known values and no filter at all both stay accepted.
	resp = doJSON(t, app, http.MethodGet, "/api/sales?fbr_status=PENDING", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doJSON(t, app, http.MethodGet, "/api/sales", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
