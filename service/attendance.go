// Package service holds the attendance and leave workflow rules. The
// functions take the database handle explicitly so the controllers can
// pass the global connection and the tests an in-memory one.
package service

import (
	"errors"
	"time"

	"faceattend_v1/model"

	"gorm.io/gorm"
)

var (
	ErrInactiveEmployee    = errors.New("employee is inactive")
	ErrEmployeeNotFound    = errors.New("employee not found")
	ErrAlreadyCompleted    = errors.New("attendance already completed today")
	ErrDuplicateAttendance = errors.New("attendance already exists for this date")
	ErrInvalidStatus       = errors.New("invalid attendance status")
)

// CheckInResult tells the caller which of the two mutations happened.
type CheckInResult string

const (
	ResultArrival   CheckInResult = "arrival"
	ResultDeparture CheckInResult = "departure"
)

// DateOnly truncates a timestamp to its calendar day. All attendance
// dates are stored this way so the (employee, date) unique index works
// the same on every database.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// CheckIn runs the daily check-in state machine for an already
// resolved employee:
//
//	no record for today        -> create it, arrival recorded
//	record without time-out    -> stamp time-out, departure recorded
//	record with time-out       -> ErrAlreadyCompleted, nothing written
//
// How the employee was identified (face, badge, PIN) is not this
// function's concern.
func CheckIn(db *gorm.DB, employee *model.Employee, now time.Time) (*model.Attendance, CheckInResult, error) {
	if employee == nil {
		return nil, "", ErrEmployeeNotFound
	}
	if !employee.IsActive {
		return nil, "", ErrInactiveEmployee
	}

	today := DateOnly(now)

	var existing model.Attendance
	err := db.Where("employee_id = ? AND date = ?", employee.ID, today).First(&existing).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		record := model.Attendance{
			EmployeeID: employee.ID,
			Date:       today,
			TimeIn:     now,
			Status:     model.StatusPresent,
		}
		if err := db.Create(&record).Error; err != nil {
			// A concurrent check-in can win the race on the
			// (employee, date) unique index; report it as the
			// conflict it is instead of a server fault.
			return nil, "", ErrDuplicateAttendance
		}
		return &record, ResultArrival, nil
	}
	if err != nil {
		return nil, "", err
	}

	if existing.TimeOut != nil {
		return nil, "", ErrAlreadyCompleted
	}

	out := now
	if out.Before(existing.TimeIn) {
		out = existing.TimeIn
	}
	existing.TimeOut = &out
	if err := db.Save(&existing).Error; err != nil {
		return nil, "", err
	}

	return &existing, ResultDeparture, nil
}

// ManualMark creates an attendance record for a given date and status
// on behalf of an administrator. A record already existing for the
// (employee, date) pair is a conflict, never an overwrite.
func ManualMark(db *gorm.DB, employee *model.Employee, date time.Time, status string) (*model.Attendance, error) {
	if employee == nil {
		return nil, ErrEmployeeNotFound
	}
	if !employee.IsActive {
		return nil, ErrInactiveEmployee
	}
	if !model.ValidAttendanceStatus(status) {
		return nil, ErrInvalidStatus
	}

	day := DateOnly(date)

	var count int64
	if err := db.Model(&model.Attendance{}).
		Where("employee_id = ? AND date = ?", employee.ID, day).
		Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrDuplicateAttendance
	}

	record := model.Attendance{
		EmployeeID: employee.ID,
		Date:       day,
		TimeIn:     date,
		Status:     status,
	}
	if err := db.Create(&record).Error; err != nil {
		return nil, ErrDuplicateAttendance
	}

	return &record, nil
}

// RecordFilter narrows an attendance listing. Zero values leave the
// corresponding dimension unfiltered.
type RecordFilter struct {
	StartDate    time.Time
	EndDate      time.Time
	EmployeeCode string
	Status       string
}

// Records returns attendance records matching the filter, newest first.
func Records(db *gorm.DB, filter RecordFilter) ([]model.Attendance, error) {
	query := db.Preload("Employee").Preload("Employee.User").Preload("Employee.Department").
		Order("date DESC, time_in DESC")

	if !filter.StartDate.IsZero() {
		query = query.Where("date >= ?", DateOnly(filter.StartDate))
	}
	if !filter.EndDate.IsZero() {
		query = query.Where("date <= ?", DateOnly(filter.EndDate))
	}
	if filter.EmployeeCode != "" {
		query = query.Joins("JOIN employees ON employees.id = attendances.employee_id").
			Where("employees.employee_code = ?", filter.EmployeeCode)
	}
	if filter.Status != "" {
		query = query.Where("attendances.status = ?", filter.Status)
	}

	var records []model.Attendance
	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}
