package controllers

import (
	"github.com/gofiber/fiber/v2"

	"pos-fbr-backend/apperrors"
	"pos-fbr-backend/database"
	"pos-fbr-backend/middlewares"
	"pos-fbr-backend/models"
)

type branchRequest struct {
	Name          string `json:"name" validate:"required,max=100"`
	Address       string `json:"address"`
	City          string `json:"city" validate:"omitempty,max=50"`
	Province      string `json:"province" validate:"omitempty,max=50"`
	NTN           string `json:"ntn" validate:"required,len=7"`
	STRN          string `json:"strn" validate:"required,len=7"`
	FBRBranchCode string `json:"fbr_branch_code" validate:"required,max=20"`
	SaleTypeCode  string `json:"sale_type_code" validate:"required,max=20"`
}

func GetBranches(c *fiber.Ctx) error {
	var branches []models.Branch
	if err := database.DB.Find(&branches).Error; err != nil {
		return err
	}
	return c.JSON(branches)
}

func GetBranch(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	var branch models.Branch
	if err := database.DB.First(&branch, id).Error; err != nil {
		return apperrors.NotFoundf("branch %d", id)
	}
	return c.JSON(branch)
}

func CreateBranch(c *fiber.Ctx) error {
	var req branchRequest
	if err := middlewares.BindAndValidate(c, &req); err != nil {
		return err
	}

	var count int64
	database.DB.Model(&models.Branch{}).Where("fbr_branch_code = ?", req.FBRBranchCode).Count(&count)
	if count > 0 {
		return apperrors.Conflictf("fbr_branch_code %q already exists", req.FBRBranchCode)
	}

	branch := models.Branch{
		Name:          req.Name,
		Address:       req.Address,
		City:          req.City,
		Province:      req.Province,
		NTN:           req.NTN,
		STRN:          req.STRN,
		FBRBranchCode: req.FBRBranchCode,
		SaleTypeCode:  req.SaleTypeCode,
	}
	if err := database.DB.Create(&branch).Error; err != nil {
		return apperrors.FromDB(err)
	}
	return c.JSON(branch)
}

func UpdateBranch(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	var req branchRequest
	if err := middlewares.BindAndValidate(c, &req); err != nil {
		return err
	}

	var branch models.Branch
	if err := database.DB.First(&branch, id).Error; err != nil {
		return apperrors.NotFoundf("branch %d", id)
	}

	var count int64
	database.DB.Model(&models.Branch{}).
		Where("fbr_branch_code = ? AND id <> ?", req.FBRBranchCode, id).Count(&count)
	if count > 0 {
		return apperrors.Conflictf("fbr_branch_code %q already exists", req.FBRBranchCode)
	}

	branch.Name = req.Name
	branch.Address = req.Address
	branch.City = req.City
	branch.Province = req.Province
	branch.NTN = req.NTN
	branch.STRN = req.STRN
	branch.FBRBranchCode = req.FBRBranchCode
	branch.SaleTypeCode = req.SaleTypeCode
	if err := database.DB.Save(&branch).Error; err != nil {
		return apperrors.FromDB(err)
	}
	return c.JSON(branch)
}

func DeleteBranch(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	var branch models.Branch
	if err := database.DB.First(&branch, id).Error; err != nil {
		return apperrors.NotFoundf("branch %d", id)
	}
	if err := database.DB.Delete(&branch).Error; err != nil {
		return apperrors.FromDB(err)
	}
	return c.JSON(fiber.Map{"message": "branch deleted"})
}
