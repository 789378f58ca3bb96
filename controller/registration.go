package controller

import (
	"fmt"
	"regexp"
	"strings"

	"faceattend_v1/middleware"
	"faceattend_v1/model"
	"faceattend_v1/model/response"
	"faceattend_v1/service"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// Register creates a user account together with its employee profile.
// The employee code is assigned sequentially from the current employee
// count, and a welcome email is attempted in the background.
func Register(c *fiber.Ctx) error {
	user := new(model.User)
	if err := c.BodyParser(user); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	user.Username = strings.TrimSpace(user.Username)

	if user.FirstName == "" || user.LastName == "" || user.Username == "" || user.Email == "" || user.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "All fields except phone are required",
		})
	}
	if user.Password != user.ConfirmPassword {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Passwords do not match",
		})
	}
	if len(user.Password) < 8 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Password must be at least 8 characters long",
		})
	}
	if !emailPattern.MatchString(user.Email) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid email format",
		})
	}

	var existing model.User
	if err := middleware.DBConn.Where("username = ?", user.Username).First(&existing).Error; err == nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"message": "Username already exists",
		})
	}
	if err := middleware.DBConn.Where("email = ?", user.Email).First(&existing).Error; err == nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"message": "Email already registered",
		})
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to hash password",
			"error":   err.Error(),
		})
	}
	user.Password = string(hashedPassword)
	if user.Role == "" {
		user.Role = model.RoleEmployee
	}

	var employee model.Employee
	err = middleware.DBConn.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}

		code, err := service.NextEmployeeCode(tx)
		if err != nil {
			return err
		}

		employee = model.Employee{
			UserID:       user.ID,
			EmployeeCode: code,
			IsActive:     true,
		}
		return tx.Create(&employee).Error
	})
	if err != nil {
		return c.JSON(response.ResponseModel{
			RetCode: "500",
			Message: "Failed to register user",
		})
	}

	body := fmt.Sprintf(
		"Hello %s,\n\nYour account has been created successfully!\n\nUsername: %s\nEmployee ID: %s\n\nPlease login and register your face to start marking attendance.\n\nBest regards,\nAttendance System Team",
		user.FirstName, user.Username, employee.EmployeeCode)
	NotifyByEmail(user.Email, "Welcome to Face Attendance System", body)

	user.Password = ""
	return c.JSON(response.ResponseModel{
		RetCode: "200",
		Message: "Account created successfully. Employee ID: " + employee.EmployeeCode,
		Data: fiber.Map{
			"user":     user,
			"employee": employee,
		},
	})
}

// GetProfile returns the authenticated user's account and employee
// profile.
func GetProfile(c *fiber.Ctx) error {
	userID := middleware.CurrentUserID(c)

	var user model.User
	if err := middleware.DBConn.Preload("Employee").Preload("Employee.Department").
		First(&user, userID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "User not found",
		})
	}

	user.Password = ""
	return c.JSON(response.ResponseModel{
		RetCode: "200",
		Message: "Profile fetched successfully",
		Data:    user,
	})
}

// UpdateProfile edits the authenticated user's name, email and phone.
func UpdateProfile(c *fiber.Ctx) error {
	userID := middleware.CurrentUserID(c)

	type ProfileRequest struct {
		FirstName   string `json:"first_name"`
		LastName    string `json:"last_name"`
		Email       string `json:"email"`
		PhoneNumber string `json:"phone_number"`
	}

	var req ProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid request"})
	}

	var user model.User
	if err := middleware.DBConn.First(&user, userID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "User not found"})
	}

	if req.Email != "" {
		email := strings.ToLower(strings.TrimSpace(req.Email))
		if !emailPattern.MatchString(email) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid email format"})
		}
		var other model.User
		if err := middleware.DBConn.Where("email = ? AND id <> ?", email, userID).First(&other).Error; err == nil {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"message": "Email already registered"})
		}
		user.Email = email
	}
	if req.FirstName != "" {
		user.FirstName = req.FirstName
	}
	if req.LastName != "" {
		user.LastName = req.LastName
	}
	user.PhoneNumber = req.PhoneNumber

	if err := middleware.DBConn.Save(&user).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to update profile",
		})
	}

	user.Password = ""
	return c.JSON(response.ResponseModel{
		RetCode: "200",
		Message: "Profile updated successfully",
		Data:    user,
	})
}

// ChangePassword updates the authenticated user's password after
// verifying the current one.
func ChangePassword(c *fiber.Ctx) error {
	userID := middleware.CurrentUserID(c)

	type ChangePasswordRequest struct {
		OldPassword     string `json:"old_password"`
		NewPassword     string `json:"new_password"`
		ConfirmPassword string `json:"confirm_password"`
	}

	var req ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid request"})
	}

	if req.NewPassword != req.ConfirmPassword {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Passwords do not match",
		})
	}
	if len(req.NewPassword) < 8 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Password must be at least 8 characters long",
		})
	}

	var user model.User
	if err := middleware.DBConn.First(&user, userID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "User not found"})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.OldPassword)); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Current password is incorrect",
		})
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Password encryption failed",
		})
	}

	if err := middleware.DBConn.Model(&user).Update("password", string(hashed)).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to update password",
		})
	}

	return c.JSON(response.ResponseModel{
		RetCode: "200",
		Message: "Password successfully changed",
	})
}
