package routes

import (
	"faceattend_v1/controller"
	"faceattend_v1/middleware"

	"github.com/gofiber/fiber/v2"
)

func AppRoutes(app *fiber.App) {
	// HEALTH CHECK
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("Face Attendance System API")
	})

	// AUTHENTICATION
	app.Post("/login", controller.Login)
	app.Post("/register", controller.Register)

	// FORGOT PASSWORD
	app.Post("/forgot-password", controller.ForgotPassword)
	app.Post("/verify-code", controller.VerifyResetCode)
	app.Post("/reset-password", controller.ResetPassword)

	// Grouped routes (token required)
	api := app.Group("/api", middleware.JWTMiddleware())
	admin := api.Group("/admin", middleware.AdminMiddleware())

	api.Post("/logout", controller.Logout)

	// PROFILE
	api.Get("/profile", controller.GetProfile)
	api.Put("/profile", controller.UpdateProfile)
	api.Put("/change-password", controller.ChangePassword)

	// ATTENDANCE
	api.Post("/attendance/checkin", controller.CheckIn)
	api.Get("/attendance/records", controller.GetAttendanceRecords)
	api.Get("/attendance/summary/:date", controller.GetAttendanceSummary)
	admin.Post("/attendance/manual", controller.ManualAttendance)
	admin.Get("/attendance/export", controller.ExportAttendanceToPDF)

	// LEAVE REQUESTS
	api.Post("/leave/submit", controller.SubmitLeaveRequest)
	api.Get("/leave/my", controller.GetMyLeaveRequests)
	admin.Get("/leave/manage", controller.GetLeaveRequests)
	admin.Put("/leave/approve/:id", controller.ApproveLeaveRequest)
	admin.Put("/leave/reject/:id", controller.RejectLeaveRequest)
	admin.Put("/leave/bulk-review", controller.BulkReviewLeaveRequests)

	// EMPLOYEES
	api.Get("/employee/get/all", controller.GetAllEmployees)
	api.Get("/employee/get/:code", controller.GetSingleEmployee)
	admin.Put("/employee/edit/:code", controller.UpdateEmployee)
	admin.Put("/employee/archive/:code", controller.SetEmployeeActive)
	admin.Post("/employee/badge/:code", controller.GenerateEmployeeBadge)

	// FACE REGISTRATION
	admin.Post("/employee/face/register", controller.RegisterFace)
	admin.Get("/employee/face/manage", controller.ManageFaces)
	admin.Delete("/employee/face/:code", controller.DeleteFace)
	api.Static("/uploads/face_images", "./uploads/face_images")

	// DEPARTMENTS
	api.Get("/department/get/all", controller.GetAllDepartments)
	admin.Post("/department/insert", controller.CreateDepartment)
	admin.Put("/department/edit/:id", controller.UpdateDepartment)
	admin.Delete("/department/delete/:id", controller.DeleteDepartment)

	// DASHBOARD
	api.Get("/dashboard", controller.GetDashboardStats)
}
