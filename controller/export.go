package controller

import (
	"bytes"
	"fmt"

	"faceattend_v1/middleware"
	"faceattend_v1/service"

	"github.com/gofiber/fiber/v2"
	"github.com/jung-kurt/gofpdf"
)

// ExportAttendanceToPDF renders the attendance records matching the
// listing filters as a PDF sheet.
func ExportAttendanceToPDF(c *fiber.Ctx) error {
	filter, err := parseRecordFilter(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": err.Error() + ". Use YYYY-MM-DD.",
		})
	}

	records, err := service.Records(middleware.DBConn, filter)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).SendString(fmt.Sprintf("Failed to fetch attendance: %v", err))
	}

	pdf := gofpdf.New("L", "mm", "Legal", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(0, 10, "Attendance Report")
	pdf.Ln(12)

	headers := []string{"Employee ID", "Name", "Department", "Date", "Time In", "Time Out", "Hours", "Status"}
	widths := []float64{30, 60, 45, 30, 30, 30, 25, 30}

	pdf.SetFont("Arial", "B", 11)
	pdf.SetFillColor(230, 230, 230)
	for i, header := range headers {
		pdf.CellFormat(widths[i], 8, header, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 10)
	for _, record := range records {
		deptName := ""
		if record.Employee.Department != nil {
			deptName = record.Employee.Department.Name
		}

		timeOut := "-"
		hours := "-"
		if record.TimeOut != nil {
			timeOut = record.TimeOut.Format("15:04:05")
			hours = fmt.Sprintf("%.2f", record.WorkingHours())
		}

		row := []string{
			record.Employee.EmployeeCode,
			record.Employee.User.FullName(),
			deptName,
			record.Date.Format("2006-01-02"),
			record.TimeIn.Format("15:04:05"),
			timeOut,
			hours,
			record.Status,
		}
		for i, cell := range row {
			pdf.CellFormat(widths[i], 8, cell, "1", 0, "C", false, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return c.Status(fiber.StatusInternalServerError).SendString("Failed to generate PDF")
	}

	c.Set("Content-Type", "application/pdf")
	c.Set("Content-Disposition", `attachment; filename="attendance_report.pdf"`)
	return c.Send(buf.Bytes())
}
