package controllers

import (
	"github.com/gofiber/fiber/v2"

	"pos-fbr-backend/apperrors"
	"pos-fbr-backend/database"
	"pos-fbr-backend/middlewares"
	"pos-fbr-backend/models"
)

type deviceRequest struct {
	BranchID         uint   `json:"branch_id" validate:"required"`
	Name             string `json:"name" validate:"required,max=100"`
	DeviceIdentifier string `json:"device_identifier" validate:"required,max=100"`
	FBRPosReg        string `json:"fbr_pos_reg" validate:"required,max=20"`
}

func GetDevices(c *fiber.Ctx) error {
	var devices []models.Device
	if err := database.DB.Preload("Branch").Find(&devices).Error; err != nil {
		return err
	}
	return c.JSON(devices)
}

func GetDevice(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	var device models.Device
	if err := database.DB.Preload("Branch").First(&device, id).Error; err != nil {
		return apperrors.NotFoundf("device %d", id)
	}
	return c.JSON(device)
}

// deviceConflicts enforces the two unique business keys, optionally
// excluding one device id (for updates).
func deviceConflicts(req *deviceRequest, excludeID uint) error {
	var count int64
	q := database.DB.Model(&models.Device{}).Where("device_identifier = ?", req.DeviceIdentifier)
	if excludeID > 0 {
		q = q.Where("id <> ?", excludeID)
	}
	q.Count(&count)
	if count > 0 {
		return apperrors.Conflictf("device_identifier %q already exists", req.DeviceIdentifier)
	}

	q = database.DB.Model(&models.Device{}).Where("fbr_pos_reg = ?", req.FBRPosReg)
	if excludeID > 0 {
		q = q.Where("id <> ?", excludeID)
	}
	q.Count(&count)
	if count > 0 {
		return apperrors.Conflictf("fbr_pos_reg %q already exists", req.FBRPosReg)
	}
	return nil
}

func CreateDevice(c *fiber.Ctx) error {
	var req deviceRequest
	if err := middlewares.BindAndValidate(c, &req); err != nil {
		return err
	}

	var branch models.Branch
	if err := database.DB.First(&branch, req.BranchID).Error; err != nil {
		return apperrors.NotFoundf("branch %d", req.BranchID)
	}
	if err := deviceConflicts(&req, 0); err != nil {
		return err
	}

	device := models.Device{
		BranchID:         req.BranchID,
		Name:             req.Name,
		DeviceIdentifier: req.DeviceIdentifier,
		FBRPosReg:        req.FBRPosReg,
	}
	if err := database.DB.Create(&device).Error; err != nil {
		return apperrors.FromDB(err)
	}
	database.DB.Preload("Branch").First(&device, device.ID)
	return c.JSON(device)
}

func UpdateDevice(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	var req deviceRequest
	if err := middlewares.BindAndValidate(c, &req); err != nil {
		return err
	}

	var device models.Device
	if err := database.DB.First(&device, id).Error; err != nil {
		return apperrors.NotFoundf("device %d", id)
	}
	var branch models.Branch
	if err := database.DB.First(&branch, req.BranchID).Error; err != nil {
		return apperrors.NotFoundf("branch %d", req.BranchID)
	}
	if err := deviceConflicts(&req, id); err != nil {
		return err
	}

	device.BranchID = req.BranchID
	device.Name = req.Name
	device.DeviceIdentifier = req.DeviceIdentifier
	device.FBRPosReg = req.FBRPosReg
	if err := database.DB.Save(&device).Error; err != nil {
		return apperrors.FromDB(err)
	}
	database.DB.Preload("Branch").First(&device, device.ID)
	return c.JSON(device)
}

func DeleteDevice(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	var device models.Device
	if err := database.DB.First(&device, id).Error; err != nil {
		return apperrors.NotFoundf("device %d", id)
	}
	if err := database.DB.Delete(&device).Error; err != nil {
		return apperrors.FromDB(err)
	}
	return c.JSON(fiber.Map{"message": "device deleted"})
}
