package controller

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"faceattend_v1/middleware"
	"faceattend_v1/model"
	"faceattend_v1/model/response"
	"faceattend_v1/service"

	"github.com/gofiber/fiber/v2"
)

// SubmitLeaveRequest files a new leave request for the authenticated
// employee's own profile. The admin recipient is notified best-effort.
func SubmitLeaveRequest(c *fiber.Ctx) error {
	userID := middleware.CurrentUserID(c)

	employee, err := service.FindEmployeeByUser(middleware.DBConn, userID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Employee profile not found",
		})
	}

	type LeaveBody struct {
		LeaveType string `json:"leave_type"`
		StartDate string `json:"start_date"`
		EndDate   string `json:"end_date"`
		Reason    string `json:"reason"`
	}

	var body LeaveBody
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if body.LeaveType == "" || body.StartDate == "" || body.EndDate == "" || body.Reason == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "All fields are required",
		})
	}

	start, err := time.Parse("2006-01-02", body.StartDate)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid start date format. Use YYYY-MM-DD.",
		})
	}
	end, err := time.Parse("2006-01-02", body.EndDate)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid end date format. Use YYYY-MM-DD.",
		})
	}

	leave, err := service.SubmitLeave(middleware.DBConn, employee, body.LeaveType, start, end, body.Reason)
	switch {
	case errors.Is(err, service.ErrInvalidLeaveType):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid leave type",
		})
	case errors.Is(err, service.ErrInvalidDateRange):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "End date must not be before start date",
		})
	case errors.Is(err, service.ErrInactiveEmployee):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"message": "Inactive employees cannot submit leave requests",
		})
	case err != nil:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Failed to add leave request",
		})
	}

	// Let the admin mailbox know; never block the submission on it.
	adminEmail := middleware.GetEnv("ADMIN_EMAIL")
	NotifyByEmail(adminEmail,
		fmt.Sprintf("Leave Request Submitted - %s", employee.User.FullName()),
		fmt.Sprintf("%s applied for %s leave from %s to %s (%d day(s)).\n\nReason: %s",
			employee.User.FullName(), leave.LeaveType,
			leave.StartDate.Format("2006-01-02"), leave.EndDate.Format("2006-01-02"),
			leave.Duration(), leave.Reason))

	return c.JSON(response.ResponseModel{
		RetCode: "200",
		Message: "Leave request successfully added",
		Data:    leave,
	})
}

// GetMyLeaveRequests lists the authenticated employee's own requests
func GetMyLeaveRequests(c *fiber.Ctx) error {
	userID := middleware.CurrentUserID(c)

	employee, err := service.FindEmployeeByUser(middleware.DBConn, userID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Employee profile not found",
		})
	}

	leaves, err := service.Leaves(middleware.DBConn, service.LeaveFilter{EmployeeID: employee.ID})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to fetch leave requests",
		})
	}

	return c.JSON(response.ResponseModel{
		RetCode: "200",
		Message: "Leave requests fetched successfully",
		Data:    leaves,
	})
}

// GetLeaveRequests lists all leave requests for review, with an
// optional ?status= filter. Admin only.
func GetLeaveRequests(c *fiber.Ctx) error {
	leaves, err := service.Leaves(middleware.DBConn, service.LeaveFilter{Status: c.Query("status")})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to fetch leave requests",
		})
	}

	return c.JSON(response.ResponseModel{
		RetCode: "200",
		Message: "Leave requests fetched successfully",
		Data:    leaves,
	})
}

// reviewer loads the authenticated admin account for stamping
func reviewer(c *fiber.Ctx) (*model.User, error) {
	var user model.User
	if err := middleware.DBConn.First(&user, middleware.CurrentUserID(c)).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// notifyLeaveReviewed tells the employee about the decision over both
// channels, best-effort.
func notifyLeaveReviewed(leave *model.LeaveRequest) {
	var employee model.Employee
	if err := middleware.DBConn.Preload("User").First(&employee, leave.EmployeeID).Error; err != nil {
		return
	}

	verb := "approved"
	if leave.Status == model.LeaveRejected {
		verb = "rejected"
	}

	title := fmt.Sprintf("Leave Request %s", map[string]string{"approved": "Approved", "rejected": "Rejected"}[verb])
	body := fmt.Sprintf("Hi %s, your %s leave request from %s to %s has been %s.",
		employee.User.FirstName, leave.LeaveType,
		leave.StartDate.Format("2006-01-02"), leave.EndDate.Format("2006-01-02"), verb)
	if leave.AdminNotes != "" {
		body += "\n\nNotes: " + leave.AdminNotes
	}

	NotifyByEmail(employee.User.Email, title, body)
	NotifyByPush(employee.FCMToken, title, body)
}

func reviewLeave(c *fiber.Ctx, approve bool) error {
	leaveID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid leave request ID",
		})
	}

	admin, err := reviewer(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Reviewer account not found",
		})
	}

	notes := ""
	if !approve {
		type RejectBody struct {
			AdminNotes string `json:"admin_notes"`
		}
		var body RejectBody
		if err := c.BodyParser(&body); err == nil {
			notes = body.AdminNotes
		}
	}

	leave, err := service.ReviewLeave(middleware.DBConn, uint(leaveID), admin, approve, notes)
	switch {
	case errors.Is(err, service.ErrLeaveNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Leave request not found",
		})
	case errors.Is(err, service.ErrAlreadyReviewed):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Leave request status is not pending",
		})
	case errors.Is(err, service.ErrPermissionDenied):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Admin privilege required",
		})
	case err != nil:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update status",
		})
	}

	notifyLeaveReviewed(leave)

	return c.JSON(response.ResponseModel{
		RetCode: "200",
		Message: "Leave request status updated",
		Data:    leave,
	})
}

// ApproveLeaveRequest transitions a pending request to approved
func ApproveLeaveRequest(c *fiber.Ctx) error {
	return reviewLeave(c, true)
}

// RejectLeaveRequest transitions a pending request to rejected, with
// optional admin notes.
func RejectLeaveRequest(c *fiber.Ctx) error {
	return reviewLeave(c, false)
}

// BulkReviewLeaveRequests approves or rejects many requests in one
// administrative action.
func BulkReviewLeaveRequests(c *fiber.Ctx) error {
	type BulkBody struct {
		LeaveIDs   []uint `json:"leave_ids"`
		Approve    bool   `json:"approve"`
		AdminNotes string `json:"admin_notes"`
	}

	var body BulkBody
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}
	if len(body.LeaveIDs) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "At least one leave request ID is required",
		})
	}

	admin, err := reviewer(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Reviewer account not found",
		})
	}

	result, err := service.BulkReview(middleware.DBConn, body.LeaveIDs, admin, body.Approve, body.AdminNotes)
	if errors.Is(err, service.ErrPermissionDenied) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Admin privilege required",
		})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to review leave requests",
		})
	}

	for _, id := range result.Reviewed {
		var leave model.LeaveRequest
		if err := middleware.DBConn.First(&leave, id).Error; err == nil {
			notifyLeaveReviewed(&leave)
		}
	}

	return c.JSON(response.ResponseModel{
		RetCode: "200",
		Message: fmt.Sprintf("Reviewed %d leave request(s), skipped %d", len(result.Reviewed), len(result.Skipped)),
		Data:    result,
	})
}
