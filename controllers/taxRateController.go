package controllers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"pos-fbr-backend/apperrors"
	"pos-fbr-backend/database"
	"pos-fbr-backend/middlewares"
	"pos-fbr-backend/models"
)

type taxRateRequest struct {
	Name string          `json:"name" validate:"required,max=100"`
	Rate decimal.Decimal `json:"rate" validate:"required"`
	Code string          `json:"code" validate:"omitempty,max=20"`
}

func GetTaxRates(c *fiber.Ctx) error {
	var rates []models.TaxRate
	if err := database.DB.Find(&rates).Error; err != nil {
		return err
	}
	return c.JSON(rates)
}

func GetTaxRate(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	var rate models.TaxRate
	if err := database.DB.First(&rate, id).Error; err != nil {
		return apperrors.NotFoundf("tax rate %d", id)
	}
	return c.JSON(rate)
}

func CreateTaxRate(c *fiber.Ctx) error {
	var req taxRateRequest
	if err := middlewares.BindAndValidate(c, &req); err != nil {
		return err
	}

	var count int64
	database.DB.Model(&models.TaxRate{}).Where("name = ?", req.Name).Count(&count)
	if count > 0 {
		return apperrors.Conflictf("tax rate name %q already exists", req.Name)
	}

	rate := models.TaxRate{Name: req.Name, Rate: req.Rate, Code: req.Code}
	if err := database.DB.Create(&rate).Error; err != nil {
		return apperrors.FromDB(err)
	}
	return c.JSON(rate)
}

func UpdateTaxRate(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	var req taxRateRequest
	if err := middlewares.BindAndValidate(c, &req); err != nil {
		return err
	}

	var rate models.TaxRate
	if err := database.DB.First(&rate, id).Error; err != nil {
		return apperrors.NotFoundf("tax rate %d", id)
	}

	var count int64
	database.DB.Model(&models.TaxRate{}).Where("name = ? AND id <> ?", req.Name, id).Count(&count)
	if count > 0 {
		return apperrors.Conflictf("tax rate name %q already exists", req.Name)
	}

	rate.Name = req.Name
	rate.Rate = req.Rate
	rate.Code = req.Code
	if err := database.DB.Save(&rate).Error; err != nil {
		return apperrors.FromDB(err)
	}
	return c.JSON(rate)
}

func DeleteTaxRate(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	var rate models.TaxRate
	if err := database.DB.First(&rate, id).Error; err != nil {
		return apperrors.NotFoundf("tax rate %d", id)
	}
	if err := database.DB.Delete(&rate).Error; err != nil {
		return apperrors.FromDB(err)
	}
	return c.JSON(fiber.Map{"message": "tax rate deleted"})
}
