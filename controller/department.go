package controller

import (
	"errors"

	"faceattend_v1/middleware"
	"faceattend_v1/model"
	"faceattend_v1/model/response"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// CreateDepartment inserts a new department
func CreateDepartment(c *fiber.Ctx) error {
	dept := new(model.Department)
	if err := c.BodyParser(dept); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if dept.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Department name is required",
		})
	}

	var existing model.Department
	if err := middleware.DBConn.Where("name = ?", dept.Name).First(&existing).Error; err == nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"message": "Department already exists",
		})
	}

	if err := middleware.DBConn.Create(dept).Error; err != nil {
		return c.JSON(response.ResponseModel{
			RetCode: "500",
			Message: "Failed to add department",
		})
	}

	return c.JSON(response.ResponseModel{
		RetCode: "200",
		Message: "Department successfully added.",
		Data:    dept,
	})
}

// GetAllDepartments lists departments with their employees preloaded
func GetAllDepartments(c *fiber.Ctx) error {
	var departments []model.Department
	if err := middleware.DBConn.Preload("Employees").Preload("Employees.User").
		Find(&departments).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to fetch departments",
		})
	}

	return c.JSON(response.ResponseModel{
		RetCode: "200",
		Message: "Departments fetched successfully",
		Data:    departments,
	})
}

// UpdateDepartment edits a department's name and description
func UpdateDepartment(c *fiber.Ctx) error {
	id := c.Params("id")

	var dept model.Department
	if err := middleware.DBConn.First(&dept, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Department not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Database error",
		})
	}

	type DepartmentRequest struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}

	var req DepartmentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid request"})
	}

	if req.Name != "" {
		var other model.Department
		if err := middleware.DBConn.Where("name = ? AND id <> ?", req.Name, dept.ID).
			First(&other).Error; err == nil {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"message": "Department name already in use",
			})
		}
		dept.Name = req.Name
	}
	dept.Description = req.Description

	if err := middleware.DBConn.Save(&dept).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to update department",
		})
	}

	return c.JSON(response.ResponseModel{
		RetCode: "200",
		Message: "Department updated successfully",
		Data:    dept,
	})
}

// DeleteDepartment removes a department. Employees referencing it keep
// their profiles with the department cleared; deletion never cascades.
func DeleteDepartment(c *fiber.Ctx) error {
	id := c.Params("id")

	var dept model.Department
	if err := middleware.DBConn.First(&dept, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Department not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Database error",
		})
	}

	err := middleware.DBConn.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Employee{}).
			Where("department_id = ?", dept.ID).
			Update("department_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&dept).Error
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to delete department",
		})
	}

	return c.JSON(response.ResponseModel{
		RetCode: "200",
		Message: "Department deleted. Assigned employees were detached.",
	})
}
