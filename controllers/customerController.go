package controllers

import (
	"github.com/gofiber/fiber/v2"

	"pos-fbr-backend/apperrors"
	"pos-fbr-backend/database"
	"pos-fbr-backend/middlewares"
	"pos-fbr-backend/models"
)

type customerRequest struct {
	Name    string `json:"name" validate:"required,max=150"`
	NTN     string `json:"ntn" validate:"omitempty,max=9"`
	Phone   string `json:"phone" validate:"omitempty,max=20"`
	Address string `json:"address"`
}

func GetCustomers(c *fiber.Ctx) error {
	var customers []models.Customer
	if err := database.DB.Find(&customers).Error; err != nil {
		return err
	}
	return c.JSON(customers)
}

func GetCustomer(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	var customer models.Customer
	if err := database.DB.First(&customer, id).Error; err != nil {
		return apperrors.NotFoundf("customer %d", id)
	}
	return c.JSON(customer)
}

func CreateCustomer(c *fiber.Ctx) error {
	var req customerRequest
	if err := middlewares.BindAndValidate(c, &req); err != nil {
		return err
	}

	customer := models.Customer{
		Name:    req.Name,
		NTN:     req.NTN,
		Phone:   req.Phone,
		Address: req.Address,
	}
	if err := database.DB.Create(&customer).Error; err != nil {
		return apperrors.FromDB(err)
	}
	return c.JSON(customer)
}

func UpdateCustomer(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	var req customerRequest
	if err := middlewares.BindAndValidate(c, &req); err != nil {
		return err
	}

	var customer models.Customer
	if err := database.DB.First(&customer, id).Error; err != nil {
		return apperrors.NotFoundf("customer %d", id)
	}

	customer.Name = req.Name
	customer.NTN = req.NTN
	customer.Phone = req.Phone
	customer.Address = req.Address
	if err := database.DB.Save(&customer).Error; err != nil {
		return apperrors.FromDB(err)
	}
	return c.JSON(customer)
}

func DeleteCustomer(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	var customer models.Customer
	if err := database.DB.First(&customer, id).Error; err != nil {
		return apperrors.NotFoundf("customer %d", id)
	}
	if err := database.DB.Delete(&customer).Error; err != nil {
		return apperrors.FromDB(err)
	}
	return c.JSON(fiber.Map{"message": "customer deleted"})
}
