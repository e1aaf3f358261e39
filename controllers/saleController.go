package controllers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"pos-fbr-backend/apperrors"
	"pos-fbr-backend/database"
	"pos-fbr-backend/fbr"
	"pos-fbr-backend/middlewares"
	"pos-fbr-backend/models"
	"pos-fbr-backend/services"
	"pos-fbr-backend/utils"
)

// FBRClient is the configured authority client; nil means stub mode (sync
// requests are recorded but never submitted). Set from main at startup.
var FBRClient *fbr.Client

func GetSales(c *fiber.Ctx) error {
	status := models.FBRStatus(c.Query("fbr_status"))
	if status != "" && !status.Valid() {
		return apperrors.Validationf("unknown fbr_status %q", string(status))
	}
	filter := services.SaleFilter{
		Skip:      utils.ParseIntDefault(c.Query("skip"), 0),
		Limit:     utils.ParseIntDefault(c.Query("limit"), 100),
		StartDate: utils.ParseDatePtr(c.Query("start_date")),
		EndDate:   utils.ParseDatePtr(c.Query("end_date")),
		BranchID:  utils.ParseUintPtr(c.Query("branch_id")),
		DeviceID:  utils.ParseUintPtr(c.Query("device_id")),
		FBRStatus: status,
	}
	summaries, err := services.ListSales(database.DB, filter)
	if err != nil {
		return err
	}
	return c.JSON(summaries)
}

func GetSale(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	sale, err := services.GetSale(database.DB, id)
	if err != nil {
		return err
	}
	return c.JSON(sale)
}

func CreateSale(c *fiber.Ctx) error {
	var req services.CreateSaleInput
	if err := middlewares.BindAndValidate(c, &req); err != nil {
		return err
	}
	sale, err := services.CreateSale(database.DB, &req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(sale)
}

func SyncSaleToFBR(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}

	var submitter fbr.Submitter
	if FBRClient != nil {
		submitter = FBRClient
	}

	sale, err := services.RequestSync(c.Context(), database.DB, submitter, id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message":       "sale queued for FBR sync",
		"sale_id":       sale.ID,
		"fbr_status":    sale.FBRStatus,
		"sync_attempts": sale.SyncAttempts,
	})
}

func GetFBRStatus(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	status, err := services.SyncStatus(database.DB, id)
	if err != nil {
		return err
	}
	return c.JSON(status)
}

func GetDailyStats(c *fiber.Ctx) error {
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	stats, err := services.StatsSince(database.DB, today, today.Format("2006-01-02"))
	if err != nil {
		return err
	}
	return c.JSON(stats)
}

func GetMonthlyStats(c *fiber.Ctx) error {
	now := time.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	stats, err := services.StatsSince(database.DB, monthStart, monthStart.Format("2006-01"))
	if err != nil {
		return err
	}
	return c.JSON(stats)
}
