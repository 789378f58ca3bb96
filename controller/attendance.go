package controller

import (
	"errors"
	"fmt"
	"time"

	"faceattend_v1/middleware"
	"faceattend_v1/model"
	"faceattend_v1/model/response"
	"faceattend_v1/service"

	"github.com/gofiber/fiber/v2"
)

// CheckIn records an arrival or departure for the employee standing at
// the kiosk. The identity is resolved by the strategy named in the
// request ("face" or "badge"); the attendance state machine itself is
// identical for both.
func CheckIn(c *fiber.Ctx) error {
	method := c.FormValue("method")

	input := service.CheckInInput{
		EmployeeCode: c.FormValue("employee_code"),
	}

	if file, err := c.FormFile("face_image"); err == nil {
		imageData, err := file.Open()
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Failed to open face image",
			})
		}
		defer imageData.Close()
		input.Image = imageData
		input.Filename = file.Filename
	}

	resolver := service.ResolverFor(method, Recognizer)
	resolution, err := resolver.Resolve(middleware.DBConn, input)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Could not resolve employee identity",
			"error":   err.Error(),
		})
	}

	employee, err := service.FindEmployeeByCode(middleware.DBConn, resolution.EmployeeCode, true)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Employee not found or inactive",
		})
	}

	now := time.Now()
	record, result, err := service.CheckIn(middleware.DBConn, employee, now)
	switch {
	case errors.Is(err, service.ErrAlreadyCompleted):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"message": fmt.Sprintf("Attendance already completed for %s today", employee.User.FullName()),
		})
	case errors.Is(err, service.ErrDuplicateAttendance):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"message": "Attendance record already exists for today",
		})
	case errors.Is(err, service.ErrInactiveEmployee):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"message": "Employee is inactive",
		})
	case err != nil:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to record attendance",
			"error":   err.Error(),
		})
	}

	message := fmt.Sprintf("Attendance marked for %s at %s", employee.User.FullName(), now.Format("15:04:05"))
	if result == service.ResultDeparture {
		message = fmt.Sprintf("Departure recorded for %s at %s", employee.User.FullName(), now.Format("15:04:05"))
	}

	return c.JSON(response.ResponseModel{
		RetCode: "200",
		Message: message,
		Data: fiber.Map{
			"attendance": record,
			"result":     result,
			"resolution": resolution.Message,
		},
	})
}

// ManualAttendance lets an administrator mark attendance for a given
// employee, date and status.
func ManualAttendance(c *fiber.Ctx) error {
	type ManualRequest struct {
		EmployeeCode string `json:"employee_code"`
		Date         string `json:"date"`
		Status       string `json:"status"`
	}

	var req ManualRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid request"})
	}

	if req.EmployeeCode == "" || req.Status == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Employee code and status are required",
		})
	}

	date := time.Now()
	if req.Date != "" {
		parsed, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Invalid date format. Use YYYY-MM-DD.",
			})
		}
		date = parsed
	}

	employee, err := service.FindEmployeeByCode(middleware.DBConn, req.EmployeeCode, true)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Employee not found or inactive",
		})
	}

	record, err := service.ManualMark(middleware.DBConn, employee, date, req.Status)
	switch {
	case errors.Is(err, service.ErrDuplicateAttendance):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"message": fmt.Sprintf("Attendance already exists for %s on %s", employee.User.FullName(), date.Format("2006-01-02")),
		})
	case errors.Is(err, service.ErrInvalidStatus):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid attendance status",
		})
	case err != nil:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to mark attendance",
		})
	}

	return c.JSON(response.ResponseModel{
		RetCode: "200",
		Message: fmt.Sprintf("Manual attendance marked for %s", employee.User.FullName()),
		Data:    record,
	})
}

// parseRecordFilter reads the listing filters from the query string
func parseRecordFilter(c *fiber.Ctx) (service.RecordFilter, error) {
	filter := service.RecordFilter{
		EmployeeCode: c.Query("employee_id"),
		Status:       c.Query("status"),
	}

	if v := c.Query("start_date"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			return filter, fmt.Errorf("invalid start_date")
		}
		filter.StartDate = parsed
	}
	if v := c.Query("end_date"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			return filter, fmt.Errorf("invalid end_date")
		}
		filter.EndDate = parsed
	}

	return filter, nil
}

// GetAttendanceRecords lists attendance records with optional
// start_date/end_date/employee_id/status filters.
func GetAttendanceRecords(c *fiber.Ctx) error {
	filter, err := parseRecordFilter(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": err.Error() + ". Use YYYY-MM-DD.",
		})
	}

	records, err := service.Records(middleware.DBConn, filter)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to fetch attendance records",
		})
	}

	return c.JSON(response.ResponseModel{
		RetCode: "200",
		Message: "Attendance records fetched successfully",
		Data:    records,
	})
}

// GetAttendanceSummary groups one day's records by status
func GetAttendanceSummary(c *fiber.Ctx) error {
	dateStr := c.Params("date")
	date, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid date format. Use YYYY-MM-DD.",
		})
	}

	var records []model.Attendance
	if err := middleware.DBConn.Preload("Employee").Preload("Employee.User").
		Where("date = ?", service.DateOnly(date)).
		Find(&records).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch attendance",
		})
	}

	byStatus := map[string][]model.Attendance{}
	for _, record := range records {
		byStatus[record.Status] = append(byStatus[record.Status], record)
	}

	return c.JSON(fiber.Map{
		"date":           dateStr,
		"present":        byStatus[model.StatusPresent],
		"absent":         byStatus[model.StatusAbsent],
		"late":           byStatus[model.StatusLate],
		"half_day":       byStatus[model.StatusHalfDay],
		"total_records":  len(records),
		"total_present":  len(byStatus[model.StatusPresent]),
		"total_absent":   len(byStatus[model.StatusAbsent]),
		"total_late":     len(byStatus[model.StatusLate]),
		"total_half_day": len(byStatus[model.StatusHalfDay]),
	})
}
