package controllers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"pos-fbr-backend/database"
	"pos-fbr-backend/middlewares"
	"pos-fbr-backend/models"
)

// setupTestDB points the global connection at an isolated in-memory database
// with the full schema, restoring the previous one when the test ends.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Branch{},
		&models.Device{},
		&models.Category{},
		&models.TaxRate{},
		&models.Product{},
		&models.Customer{},
		&models.User{},
		&models.Sale{},
		&models.SaleItem{},
		&models.Payment{},
		&models.InvoiceSyncLog{},
		&models.IdempotencyKey{},
	))

	prev := database.DB
	database.DB = db
	t.Cleanup(func() { database.DB = prev })
	return db
}

func itoa(id uint) string { return strconv.FormatUint(uint64(id), 10) }

// testApp builds a fiber app with the production error handler and no auth.
func testApp() *fiber.App {
	return fiber.New(fiber.Config{ErrorHandler: middlewares.ErrorHandler})
}

func doJSON(t *testing.T, app *fiber.App, method, target string, payload any) *http.Response {
	t.Helper()
	var body *bytes.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, target, body)
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}
