package controllers

import (
	"github.com/gofiber/fiber/v2"

	"pos-fbr-backend/apperrors"
	"pos-fbr-backend/database"
	"pos-fbr-backend/middlewares"
	"pos-fbr-backend/models"
)

type createUserRequest struct {
	Username string `json:"username" validate:"required,max=50"`
	Email    string `json:"email" validate:"required,email,max=100"`
	FullName string `json:"full_name" validate:"omitempty,max=100"`
	Password string `json:"password" validate:"required,min=6"`
	IsActive *bool  `json:"is_active"`
	IsAdmin  bool   `json:"is_admin"`
	BranchID *uint  `json:"branch_id"`
}

func userConflicts(username, email string, excludeID uint) error {
	var count int64
	q := database.DB.Model(&models.User{}).Where("username = ?", username)
	if excludeID > 0 {
		q = q.Where("id <> ?", excludeID)
	}
	q.Count(&count)
	if count > 0 {
		return apperrors.Conflictf("username %q already registered", username)
	}

	q = database.DB.Model(&models.User{}).Where("email = ?", email)
	if excludeID > 0 {
		q = q.Where("id <> ?", excludeID)
	}
	q.Count(&count)
	if count > 0 {
		return apperrors.Conflictf("email %q already registered", email)
	}
	return nil
}

func GetUsers(c *fiber.Ctx) error {
	var users []models.User
	if err := database.DB.Find(&users).Error; err != nil {
		return err
	}
	return c.JSON(users)
}

func GetUser(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	var user models.User
	if err := database.DB.Preload("Branch").First(&user, id).Error; err != nil {
		return apperrors.NotFoundf("user %d", id)
	}
	return c.JSON(user)
}

func CreateUser(c *fiber.Ctx) error {
	var req createUserRequest
	if err := middlewares.BindAndValidate(c, &req); err != nil {
		return err
	}
	if err := userConflicts(req.Username, req.Email, 0); err != nil {
		return err
	}
	if req.BranchID != nil {
		var branch models.Branch
		if err := database.DB.First(&branch, *req.BranchID).Error; err != nil {
			return apperrors.NotFoundf("branch %d", *req.BranchID)
		}
	}

	user := models.User{
		Username: req.Username,
		Email:    req.Email,
		FullName: req.FullName,
		IsActive: true,
		IsAdmin:  req.IsAdmin,
		BranchID: req.BranchID,
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}
	if err := user.SetPassword(req.Password); err != nil {
		return err
	}
	if err := database.DB.Create(&user).Error; err != nil {
		return apperrors.FromDB(err)
	}
	return c.JSON(user)
}

func UpdateUser(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	var req createUserRequest
	if err := middlewares.BindAndValidate(c, &req); err != nil {
		return err
	}

	var user models.User
	if err := database.DB.First(&user, id).Error; err != nil {
		return apperrors.NotFoundf("user %d", id)
	}
	if err := userConflicts(req.Username, req.Email, id); err != nil {
		return err
	}
	if req.BranchID != nil {
		var branch models.Branch
		if err := database.DB.First(&branch, *req.BranchID).Error; err != nil {
			return apperrors.NotFoundf("branch %d", *req.BranchID)
		}
	}

	user.Username = req.Username
	user.Email = req.Email
	user.FullName = req.FullName
	user.IsAdmin = req.IsAdmin
	user.BranchID = req.BranchID
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}
	if err := user.SetPassword(req.Password); err != nil {
		return err
	}
	if err := database.DB.Save(&user).Error; err != nil {
		return apperrors.FromDB(err)
	}
	return c.JSON(user)
}

func DeleteUser(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	var user models.User
	if err := database.DB.First(&user, id).Error; err != nil {
		return apperrors.NotFoundf("user %d", id)
	}
	if err := database.DB.Delete(&user).Error; err != nil {
		return apperrors.FromDB(err)
	}
	return c.JSON(fiber.Map{"message": "user deleted"})
}
