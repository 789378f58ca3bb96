package controller

import (
	"time"

	"faceattend_v1/middleware"
	"faceattend_v1/model"
	"faceattend_v1/service"

	"github.com/gofiber/fiber/v2"
)

// GetDashboardStats aggregates the numbers shown on the landing
// dashboard: headcounts, today's presence, face registration coverage,
// recent records and the last week's presence trend.
func GetDashboardStats(c *fiber.Ctx) error {
	db := middleware.DBConn
	today := service.DateOnly(time.Now())

	var totalEmployees int64
	db.Model(&model.Employee{}).Where("is_active = ?", true).Count(&totalEmployees)

	var totalDepartments int64
	db.Model(&model.Department{}).Count(&totalDepartments)

	var presentToday int64
	db.Model(&model.Attendance{}).
		Where("date = ? AND status = ?", today, model.StatusPresent).
		Count(&presentToday)

	var employeesWithFaces int64
	db.Model(&model.Employee{}).
		Where("is_active = ? AND face_encoding <> ''", true).
		Count(&employeesWithFaces)

	var recentAttendance []model.Attendance
	db.Preload("Employee").Preload("Employee.User").Preload("Employee.Department").
		Order("date DESC, time_in DESC").
		Limit(10).
		Find(&recentAttendance)

	// Presence counts for the last 7 days, oldest first
	type TrendPoint struct {
		Date  string `json:"date"`
		Count int64  `json:"count"`
	}
	var weeklyTrend []TrendPoint
	for i := 6; i >= 0; i-- {
		day := today.AddDate(0, 0, -i)
		var count int64
		db.Model(&model.Attendance{}).
			Where("date = ? AND status = ?", day, model.StatusPresent).
			Count(&count)
		weeklyTrend = append(weeklyTrend, TrendPoint{
			Date:  day.Format("2006-01-02"),
			Count: count,
		})
	}

	// Per-department headcount and presence today
	type DepartmentStat struct {
		Name          string `json:"name"`
		EmployeeCount int64  `json:"employee_count"`
		PresentToday  int64  `json:"present_today"`
	}
	var departments []model.Department
	db.Find(&departments)

	var departmentStats []DepartmentStat
	for _, dept := range departments {
		var employeeCount int64
		db.Model(&model.Employee{}).
			Where("department_id = ? AND is_active = ?", dept.ID, true).
			Count(&employeeCount)

		var present int64
		db.Model(&model.Attendance{}).
			Joins("JOIN employees ON employees.id = attendances.employee_id").
			Where("employees.department_id = ? AND attendances.date = ? AND attendances.status = ?",
				dept.ID, today, model.StatusPresent).
			Count(&present)

		departmentStats = append(departmentStats, DepartmentStat{
			Name:          dept.Name,
			EmployeeCount: employeeCount,
			PresentToday:  present,
		})
	}

	return c.JSON(fiber.Map{
		"today":                today.Format("2006-01-02"),
		"total_employees":      totalEmployees,
		"total_departments":    totalDepartments,
		"present_today":        presentToday,
		"employees_with_faces": employeesWithFaces,
		"recent_attendance":    recentAttendance,
		"weekly_trend":         weeklyTrend,
		"department_stats":     departmentStats,
	})
}
