package controllers

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"pos-fbr-backend/apperrors"
	"pos-fbr-backend/database"
	"pos-fbr-backend/middlewares"
	"pos-fbr-backend/models"
)

type categoryRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	ParentID *uint  `json:"parent_id"`
}

func GetCategories(c *fiber.Ctx) error {
	var categories []models.Category
	if err := database.DB.Preload("Children").Find(&categories).Error; err != nil {
		return err
	}
	return c.JSON(categories)
}

func GetCategory(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	var category models.Category
	if err := database.DB.Preload("Parent").Preload("Children").First(&category, id).Error; err != nil {
		return apperrors.NotFoundf("category %d", id)
	}
	return c.JSON(category)
}

// wouldCreateCycle walks the parent chain from parentID and reports whether
// it reaches id. The walk is bounded so a pre-existing corrupt cycle cannot
// spin forever.
func wouldCreateCycle(db *gorm.DB, id uint, parentID *uint) (bool, error) {
	const maxDepth = 100
	cur := parentID
	for depth := 0; cur != nil && depth < maxDepth; depth++ {
		if *cur == id {
			return true, nil
		}
		var parent models.Category
		if err := db.First(&parent, *cur).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return false, apperrors.NotFoundf("category %d", *cur)
			}
			return false, err
		}
		cur = parent.ParentID
	}
	return false, nil
}

func CreateCategory(c *fiber.Ctx) error {
	var req categoryRequest
	if err := middlewares.BindAndValidate(c, &req); err != nil {
		return err
	}

	if req.ParentID != nil {
		var parent models.Category
		if err := database.DB.First(&parent, *req.ParentID).Error; err != nil {
			return apperrors.NotFoundf("category %d", *req.ParentID)
		}
	}

	category := models.Category{Name: req.Name, ParentID: req.ParentID}
	if err := database.DB.Create(&category).Error; err != nil {
		return apperrors.FromDB(err)
	}
	return c.JSON(category)
}

func UpdateCategory(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	var req categoryRequest
	if err := middlewares.BindAndValidate(c, &req); err != nil {
		return err
	}

	var category models.Category
	if err := database.DB.First(&category, id).Error; err != nil {
		return apperrors.NotFoundf("category %d", id)
	}

	if req.ParentID != nil {
		cycle, err := wouldCreateCycle(database.DB, id, req.ParentID)
		if err != nil {
			return err
		}
		if cycle {
			return apperrors.Validationf("category %d cannot be its own ancestor", id)
		}
	}

	category.Name = req.Name
	category.ParentID = req.ParentID
	if err := database.DB.Save(&category).Error; err != nil {
		return apperrors.FromDB(err)
	}
	return c.JSON(category)
}

func DeleteCategory(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	var category models.Category
	if err := database.DB.First(&category, id).Error; err != nil {
		return apperrors.NotFoundf("category %d", id)
	}
	if err := database.DB.Delete(&category).Error; err != nil {
		return apperrors.FromDB(err)
	}
	return c.JSON(fiber.Map{"message": "category deleted"})
}
