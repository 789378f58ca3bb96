package controller

import (
	"encoding/base64"
	"errors"
	"fmt"

	"faceattend_v1/middleware"
	"faceattend_v1/model"
	"faceattend_v1/model/response"
	"faceattend_v1/service"

	"github.com/gofiber/fiber/v2"
	"github.com/skip2/go-qrcode"
	"gorm.io/gorm"
)

// GetAllEmployees lists employees. With ?active=true only active
// employees are returned; that is the listing used for attendance
// marking, so inactive employees never show up there.
func GetAllEmployees(c *fiber.Ctx) error {
	if c.Query("active") == "true" {
		employees, err := service.ActiveEmployees(middleware.DBConn)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"message": "Failed to fetch employees",
			})
		}
		return c.JSON(response.ResponseModel{
			RetCode: "200",
			Message: "Employees fetched successfully",
			Data:    employees,
		})
	}

	var employees []model.Employee
	if err := middleware.DBConn.Preload("User").Preload("Department").
		Order("employee_code ASC").Find(&employees).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to fetch employees",
		})
	}

	return c.JSON(response.ResponseModel{
		RetCode: "200",
		Message: "Employees fetched successfully",
		Data:    employees,
	})
}

// GetSingleEmployee fetches one employee by employee code
func GetSingleEmployee(c *fiber.Ctx) error {
	code := c.Params("code")

	var employee model.Employee
	if err := middleware.DBConn.Preload("User").Preload("Department").
		Where("employee_code = ?", code).First(&employee).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Employee not found",
		})
	}

	return c.JSON(response.ResponseModel{
		RetCode: "200",
		Message: "Employee fetched successfully",
		Data:    employee,
	})
}

// UpdateEmployee edits an employee's department assignment and FCM token
func UpdateEmployee(c *fiber.Ctx) error {
	code := c.Params("code")

	employee, err := service.FindEmployeeByCode(middleware.DBConn, code, false)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Employee not found",
		})
	}

	type EmployeeRequest struct {
		DepartmentID *uint   `json:"department_id"`
		FCMToken     *string `json:"fcm_token"`
	}

	var req EmployeeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid request"})
	}

	if req.DepartmentID != nil {
		if *req.DepartmentID == 0 {
			employee.DepartmentID = nil
		} else {
			var dept model.Department
			if err := middleware.DBConn.First(&dept, *req.DepartmentID).Error; err != nil {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
					"message": "Department not found",
				})
			}
			employee.DepartmentID = req.DepartmentID
		}
	}
	if req.FCMToken != nil {
		employee.FCMToken = *req.FCMToken
	}

	if err := middleware.DBConn.Save(employee).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to update employee",
		})
	}

	return c.JSON(response.ResponseModel{
		RetCode: "200",
		Message: "Employee updated successfully",
		Data:    employee,
	})
}

// SetEmployeeActive archives or restores an employee. Inactive
// employees are excluded from check-in, leave submission and the
// attendance employee list; the account itself is never deleted.
func SetEmployeeActive(c *fiber.Ctx) error {
	code := c.Params("code")

	type ActiveRequest struct {
		IsActive bool `json:"is_active"`
	}

	var req ActiveRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid request"})
	}

	employee, err := service.FindEmployeeByCode(middleware.DBConn, code, false)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Employee not found",
		})
	}

	if err := middleware.DBConn.Model(employee).Update("is_active", req.IsActive).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to update employee status",
		})
	}

	msg := "Employee archived"
	if req.IsActive {
		msg = "Employee restored"
	}
	return c.JSON(response.ResponseModel{
		RetCode: "200",
		Message: msg,
	})
}

// generateQRCodeBase64 renders the badge payload as a base64 PNG
func generateQRCodeBase64(data string) (string, error) {
	qrCode, err := qrcode.Encode(data, qrcode.Medium, 512)
	if err != nil {
		return "", fmt.Errorf("failed to generate QR code: %w", err)
	}
	return base64.StdEncoding.EncodeToString(qrCode), nil
}

// GenerateEmployeeBadge creates the check-in QR badge for an employee.
// The badge payload is the employee code, which the badge check-in
// path resolves back to the employee.
func GenerateEmployeeBadge(c *fiber.Ctx) error {
	code := c.Params("code")

	var badge string
	err := middleware.DBConn.Transaction(func(tx *gorm.DB) error {
		var employee model.Employee
		if err := tx.Preload("User").Where("employee_code = ?", code).First(&employee).Error; err != nil {
			return fmt.Errorf("employee %s does not exist: %w", code, err)
		}
		if !employee.IsActive {
			return errors.New("employee is inactive")
		}
		if employee.BadgeQR != "" {
			return fmt.Errorf("badge already exists for employee %s", code)
		}

		generated, err := generateQRCodeBase64(employee.EmployeeCode)
		if err != nil {
			return err
		}

		badge = generated
		return tx.Model(&employee).Update("badge_qr", badge).Error
	})
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Failed to generate badge",
			"error":   err.Error(),
		})
	}

	return c.JSON(response.ResponseModel{
		RetCode: "200",
		Message: "Badge generated successfully",
		Data:    fiber.Map{"employee_code": code, "badge_qr": badge},
	})
}
