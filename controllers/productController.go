package controllers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"pos-fbr-backend/apperrors"
	"pos-fbr-backend/database"
	"pos-fbr-backend/middlewares"
	"pos-fbr-backend/models"
	"pos-fbr-backend/utils"
)

type createProductRequest struct {
	Code       string          `json:"code" validate:"required,max=50"`
	Name       string          `json:"name" validate:"required,max=150"`
	CategoryID *uint           `json:"category_id"`
	Price      decimal.Decimal `json:"price" validate:"required"`
	TaxID      *uint           `json:"tax_id"`
	HSCode     string          `json:"hs_code" validate:"omitempty,max=20"`
}

// updateProductRequest uses pointer fields: absent fields keep their value.
type updateProductRequest struct {
	Code       *string          `json:"code" validate:"omitempty,max=50"`
	Name       *string          `json:"name" validate:"omitempty,max=150"`
	CategoryID *uint            `json:"category_id"`
	Price      *decimal.Decimal `json:"price"`
	TaxID      *uint            `json:"tax_id"`
	HSCode     *string          `json:"hs_code" validate:"omitempty,max=20"`
}

func GetProducts(c *fiber.Ctx) error {
	skip := utils.ParseIntDefault(c.Query("skip"), 0)
	limit := utils.ParseIntDefault(c.Query("limit"), 100)
	if limit < 1 || limit > 1000 {
		limit = 100
	}

	q := database.DB.Model(&models.Product{}).
		Preload("Category").Preload("TaxRate")
	if search := c.Query("search"); search != "" {
		q = q.Where("name ILIKE ?", "%"+search+"%")
	}
	if categoryID := utils.ParseUintPtr(c.Query("category_id")); categoryID != nil {
		q = q.Where("category_id = ?", *categoryID)
	}
	if taxID := utils.ParseUintPtr(c.Query("tax_id")); taxID != nil {
		q = q.Where("tax_id = ?", *taxID)
	}

	var products []models.Product
	if err := q.Offset(skip).Limit(limit).Find(&products).Error; err != nil {
		return err
	}
	return c.JSON(products)
}

func GetProduct(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	var product models.Product
	if err := database.DB.Preload("Category").Preload("TaxRate").First(&product, id).Error; err != nil {
		return apperrors.NotFoundf("product %d", id)
	}
	return c.JSON(product)
}

func GetProductByCode(c *fiber.Ctx) error {
	code := c.Params("code")
	var product models.Product
	if err := database.DB.Preload("Category").Preload("TaxRate").
		Where("code = ?", code).First(&product).Error; err != nil {
		return apperrors.NotFoundf("product code %q", code)
	}
	return c.JSON(product)
}

func productRefsExist(categoryID, taxID *uint) error {
	if categoryID != nil {
		var category models.Category
		if err := database.DB.First(&category, *categoryID).Error; err != nil {
			return apperrors.NotFoundf("category %d", *categoryID)
		}
	}
	if taxID != nil {
		var rate models.TaxRate
		if err := database.DB.First(&rate, *taxID).Error; err != nil {
			return apperrors.NotFoundf("tax rate %d", *taxID)
		}
	}
	return nil
}

func CreateProduct(c *fiber.Ctx) error {
	var req createProductRequest
	if err := middlewares.BindAndValidate(c, &req); err != nil {
		return err
	}

	var count int64
	database.DB.Model(&models.Product{}).Where("code = ?", req.Code).Count(&count)
	if count > 0 {
		return apperrors.Conflictf("product code %q already exists", req.Code)
	}
	if err := productRefsExist(req.CategoryID, req.TaxID); err != nil {
		return err
	}

	product := models.Product{
		Code:       req.Code,
		Name:       req.Name,
		CategoryID: req.CategoryID,
		Price:      req.Price,
		TaxID:      req.TaxID,
		HSCode:     req.HSCode,
	}
	if err := database.DB.Create(&product).Error; err != nil {
		return apperrors.FromDB(err)
	}
	return c.JSON(product)
}

func UpdateProduct(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	var req updateProductRequest
	if err := middlewares.BindAndValidate(c, &req); err != nil {
		return err
	}

	var product models.Product
	if err := database.DB.First(&product, id).Error; err != nil {
		return apperrors.NotFoundf("product %d", id)
	}

	if req.Code != nil && *req.Code != product.Code {
		var count int64
		database.DB.Model(&models.Product{}).Where("code = ? AND id <> ?", *req.Code, id).Count(&count)
		if count > 0 {
			return apperrors.Conflictf("product code %q already exists", *req.Code)
		}
	}
	if err := productRefsExist(req.CategoryID, req.TaxID); err != nil {
		return err
	}

	updates := utils.UpdatesFromPtrDTO(&req, nil)
	if len(updates) > 0 {
		if err := database.DB.Model(&product).Updates(updates).Error; err != nil {
			return apperrors.FromDB(err)
		}
	}
	database.DB.Preload("Category").Preload("TaxRate").First(&product, id)
	return c.JSON(product)
}

func DeleteProduct(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	var product models.Product
	if err := database.DB.First(&product, id).Error; err != nil {
		return apperrors.NotFoundf("product %d", id)
	}
	if err := database.DB.Delete(&product).Error; err != nil {
		return apperrors.FromDB(err)
	}
	return c.JSON(fiber.Map{"message": "product deleted"})
}
