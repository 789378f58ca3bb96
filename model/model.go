package model

import (
	"encoding/json"
	"fmt"
	"math"
	"time"

	"gorm.io/gorm"
)

// User roles
const (
	RoleAdmin    = "admin"
	RoleEmployee = "employee"
)

// Attendance statuses
const (
	StatusPresent = "present"
	StatusAbsent  = "absent"
	StatusLate    = "late"
	StatusHalfDay = "half_day"
)

// Leave types
const (
	LeaveSick      = "sick"
	LeaveCasual    = "casual"
	LeaveEmergency = "emergency"
	LeaveVacation  = "vacation"
)

// Leave request statuses
const (
	LeavePending  = "pending"
	LeaveApproved = "approved"
	LeaveRejected = "rejected"
)

type User struct {
	gorm.Model
	Username        string `gorm:"uniqueIndex" json:"username"`
	Email           string `gorm:"uniqueIndex" json:"email"`
	Password        string `json:"password"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	Role            string `gorm:"default:employee" json:"role"`
	PhoneNumber     string `json:"phone_number"`
	ConfirmPassword string `gorm:"-" json:"confirm_password"`

	Employee *Employee `gorm:"foreignKey:UserID" json:"employee,omitempty"`
}

func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

type Department struct {
	gorm.Model
	Name        string `gorm:"uniqueIndex" json:"name"`
	Description string `json:"description"`

	Employees []Employee `gorm:"foreignKey:DepartmentID" json:"employees,omitempty"`
}

type Employee struct {
	gorm.Model
	UserID       uint   `gorm:"uniqueIndex" json:"user_id"`
	EmployeeCode string `gorm:"uniqueIndex" json:"employee_code"`
	DepartmentID *uint  `json:"department_id"`
	FaceEncoding string `json:"-"`
	FaceImage    string `json:"face_image"`
	BadgeQR      string `json:"badge_qr,omitempty"`
	FCMToken     string `json:"fcm_token,omitempty"`
	IsActive     bool   `gorm:"default:true" json:"is_active"`

	User       User        `gorm:"foreignKey:UserID" json:"user"`
	Department *Department `gorm:"foreignKey:DepartmentID" json:"department,omitempty"`
}

// HasFace reports whether a face descriptor has been registered.
func (e *Employee) HasFace() bool {
	return e.FaceEncoding != ""
}

// FaceEncodingVector decodes the stored descriptor. Returns nil when
// nothing is registered or the stored value is unreadable.
func (e *Employee) FaceEncodingVector() []float64 {
	if e.FaceEncoding == "" {
		return nil
	}
	var vec []float64
	if err := json.Unmarshal([]byte(e.FaceEncoding), &vec); err != nil {
		return nil
	}
	return vec
}

// SetFaceEncoding stores the descriptor as a JSON array, or clears it
// when vec is empty.
func (e *Employee) SetFaceEncoding(vec []float64) {
	if len(vec) == 0 {
		e.FaceEncoding = ""
		return
	}
	raw, _ := json.Marshal(vec)
	e.FaceEncoding = string(raw)
}

// EmployeeCodeFor formats the sequential employee code for the Nth
// registered employee, e.g. EmployeeCodeFor(7) -> "EMP0007".
func EmployeeCodeFor(n int64) string {
	return fmt.Sprintf("EMP%04d", n)
}

type Attendance struct {
	gorm.Model
	EmployeeID uint       `gorm:"uniqueIndex:idx_attendance_employee_date" json:"employee_id"`
	Date       time.Time  `gorm:"type:date;uniqueIndex:idx_attendance_employee_date" json:"date"`
	TimeIn     time.Time  `json:"time_in"`
	TimeOut    *time.Time `json:"time_out"`
	Status     string     `gorm:"default:present" json:"status"`

	Employee Employee `gorm:"foreignKey:EmployeeID" json:"employee"`
}

// WorkingHours returns the hours between time-in and time-out rounded
// to 2 decimals, or -1 while the record has no time-out yet.
func (a *Attendance) WorkingHours() float64 {
	if a.TimeOut == nil {
		return -1
	}
	hours := a.TimeOut.Sub(a.TimeIn).Hours()
	return math.Round(hours*100) / 100
}

// Completed reports whether both arrival and departure are recorded.
func (a *Attendance) Completed() bool {
	return a.TimeOut != nil
}

type LeaveRequest struct {
	gorm.Model
	EmployeeID uint       `json:"employee_id"`
	LeaveType  string     `gorm:"default:casual" json:"leave_type"`
	StartDate  time.Time  `gorm:"type:date" json:"start_date"`
	EndDate    time.Time  `gorm:"type:date" json:"end_date"`
	Reason     string     `json:"reason"`
	Status     string     `gorm:"default:pending" json:"status"`
	AppliedOn  time.Time  `gorm:"autoCreateTime" json:"applied_on"`
	ReviewerID *uint      `json:"reviewer_id"`
	ReviewedOn *time.Time `json:"reviewed_on"`
	AdminNotes string     `json:"admin_notes"`

	Employee Employee `gorm:"foreignKey:EmployeeID" json:"employee"`
	Reviewer *User    `gorm:"foreignKey:ReviewerID" json:"reviewer,omitempty"`
}

// Duration returns the inclusive day count of the leave, e.g. a leave
// from Jan 10 to Jan 12 lasts 3 days.
func (l *LeaveRequest) Duration() int {
	return int(l.EndDate.Sub(l.StartDate).Hours()/24) + 1
}

func (l *LeaveRequest) IsPending() bool {
	return l.Status == LeavePending
}

func (l *LeaveRequest) IsApproved() bool {
	return l.Status == LeaveApproved
}

// ValidLeaveType reports whether t is one of the supported leave types.
func ValidLeaveType(t string) bool {
	switch t {
	case LeaveSick, LeaveCasual, LeaveEmergency, LeaveVacation:
		return true
	}
	return false
}

// ValidAttendanceStatus reports whether s is a known attendance status.
func ValidAttendanceStatus(s string) bool {
	switch s {
	case StatusPresent, StatusAbsent, StatusLate, StatusHalfDay:
		return true
	}
	return false
}
