package controller

import (
	"fmt"
	"os"
	"path/filepath"

	"faceattend_v1/facerec"
	"faceattend_v1/middleware"
	"faceattend_v1/model"
	"faceattend_v1/model/response"
	"faceattend_v1/service"

	"github.com/gofiber/fiber/v2"
)

// Recognizer is the face-matching strategy selected at startup. Main
// sets it before the routes are registered; the default matches
// facerec.Select's default so every entry point starts on the
// detector, never the simulation stub.
var Recognizer facerec.Recognizer = facerec.NewDetectorRecognizer()

const faceImageDir = "./uploads/face_images"

var allowedImageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

// RegisterFace verifies and encodes a face image for an employee, then
// stores the descriptor and the uploaded image reference.
func RegisterFace(c *fiber.Ctx) error {
	employeeCode := c.FormValue("employee_code")
	if employeeCode == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Employee code is required",
		})
	}

	file, err := c.FormFile("face_image")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Face image is required",
		})
	}

	ext := filepath.Ext(file.Filename)
	if !allowedImageExtensions[ext] {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid file format. Only JPG and PNG allowed.",
		})
	}

	employee, err := service.FindEmployeeByCode(middleware.DBConn, employeeCode, true)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": fmt.Sprintf("Employee with ID '%s' not found or inactive", employeeCode),
		})
	}

	if employee.HasFace() {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"message": fmt.Sprintf("Face already registered for %s", employee.User.FullName()),
		})
	}

	// Verify exactly one face
	imageData, err := file.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Failed to open file.",
		})
	}
	ok, verifyMsg := Recognizer.VerifySingleFace(imageData, file.Filename)
	imageData.Close()
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": verifyMsg,
		})
	}

	// Encode the face descriptor
	imageData, err = file.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Failed to open file.",
		})
	}
	encoding, encodeMsg, err := Recognizer.EncodeFace(imageData, file.Filename)
	imageData.Close()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Face registration failed: " + encodeMsg,
		})
	}

	// Store the uploaded image alongside the descriptor
	if err := os.MkdirAll(faceImageDir, 0o755); err == nil {
		imagePath := filepath.Join(faceImageDir, employee.EmployeeCode+ext)
		if err := c.SaveFile(file, imagePath); err == nil {
			employee.FaceImage = imagePath
		}
	}

	employee.SetFaceEncoding(encoding)
	if err := middleware.DBConn.Save(employee).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to save face registration",
		})
	}

	return c.JSON(response.ResponseModel{
		RetCode: "200",
		Message: fmt.Sprintf("Face registered successfully for %s", employee.User.FullName()),
		Data: fiber.Map{
			"employee_code": employee.EmployeeCode,
			"detail":        encodeMsg,
		},
	})
}

// ManageFaces lists active employees with and without registered faces
func ManageFaces(c *fiber.Ctx) error {
	var withFaces []model.Employee
	if err := middleware.DBConn.Preload("User").
		Where("is_active = ? AND face_encoding <> ''", true).
		Find(&withFaces).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to fetch employees",
		})
	}

	var withoutFaces []model.Employee
	if err := middleware.DBConn.Preload("User").
		Where("is_active = ? AND face_encoding = ''", true).
		Find(&withoutFaces).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to fetch employees",
		})
	}

	return c.JSON(fiber.Map{
		"with_faces":    withFaces,
		"without_faces": withoutFaces,
		"total_faces":   len(withFaces),
	})
}

// DeleteFace removes the stored descriptor and image reference so the
// employee can re-register.
func DeleteFace(c *fiber.Ctx) error {
	employeeCode := c.Params("code")

	employee, err := service.FindEmployeeByCode(middleware.DBConn, employeeCode, true)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Employee not found",
		})
	}

	updates := map[string]interface{}{
		"face_encoding": "",
		"face_image":    "",
	}
	if err := middleware.DBConn.Model(employee).Updates(updates).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to delete face data",
		})
	}

	return c.JSON(response.ResponseModel{
		RetCode: "200",
		Message: fmt.Sprintf("Face data deleted for %s", employee.User.FullName()),
	})
}
