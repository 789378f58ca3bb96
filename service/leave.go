package service

import (
	"errors"
	"time"

	"faceattend_v1/model"

	"gorm.io/gorm"
)

var (
	ErrLeaveNotFound    = errors.New("leave request not found")
	ErrAlreadyReviewed  = errors.New("leave request has already been reviewed")
	ErrInvalidLeaveType = errors.New("invalid leave type")
	ErrInvalidDateRange = errors.New("end date must not be before start date")
	ErrPermissionDenied = errors.New("admin privilege required")
)

// SubmitLeave files a new leave request for an active employee. The
// request starts pending with the applied-on timestamp set by the
// database.
func SubmitLeave(db *gorm.DB, employee *model.Employee, leaveType string, start, end time.Time, reason string) (*model.LeaveRequest, error) {
	if employee == nil {
		return nil, ErrEmployeeNotFound
	}
	if !employee.IsActive {
		return nil, ErrInactiveEmployee
	}
	if !model.ValidLeaveType(leaveType) {
		return nil, ErrInvalidLeaveType
	}

	startDay := DateOnly(start)
	endDay := DateOnly(end)
	if endDay.Before(startDay) {
		return nil, ErrInvalidDateRange
	}

	leave := model.LeaveRequest{
		EmployeeID: employee.ID,
		LeaveType:  leaveType,
		StartDate:  startDay,
		EndDate:    endDay,
		Reason:     reason,
		Status:     model.LeavePending,
	}
	if err := db.Create(&leave).Error; err != nil {
		return nil, err
	}

	return &leave, nil
}

// ReviewLeave transitions a pending request to approved or rejected.
// The reviewer identity and review timestamp are written in the same
// statement as the status so a reviewed row is always fully stamped.
// A request that is no longer pending is a conflict; re-review is not
// supported.
func ReviewLeave(db *gorm.DB, leaveID uint, reviewer *model.User, approve bool, notes string) (*model.LeaveRequest, error) {
	if reviewer == nil || !reviewer.IsAdmin() {
		return nil, ErrPermissionDenied
	}

	var leave model.LeaveRequest
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&leave, leaveID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrLeaveNotFound
			}
			return err
		}
		if !leave.IsPending() {
			return ErrAlreadyReviewed
		}

		ok, err := markReviewed(tx, &leave, reviewer, approve, notes)
		if err != nil {
			return err
		}
		if !ok {
			return ErrAlreadyReviewed
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &leave, nil
}

// markReviewed writes the review stamp behind a status guard: the
// UPDATE only matches a row that is still pending, so two reviewers
// racing on the same request cannot both win. Returns false when the
// row was no longer pending at write time.
func markReviewed(tx *gorm.DB, leave *model.LeaveRequest, reviewer *model.User, approve bool, notes string) (bool, error) {
	now := time.Now()
	status := model.LeaveApproved
	if !approve {
		status = model.LeaveRejected
	}

	updates := map[string]interface{}{
		"status":      status,
		"reviewer_id": reviewer.ID,
		"reviewed_on": now,
	}
	if !approve && notes != "" {
		updates["admin_notes"] = notes
	}

	res := tx.Model(&model.LeaveRequest{}).
		Where("id = ? AND status = ?", leave.ID, model.LeavePending).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected == 0 {
		return false, nil
	}

	leave.Status = status
	leave.ReviewerID = &reviewer.ID
	leave.ReviewedOn = &now
	if !approve && notes != "" {
		leave.AdminNotes = notes
	}
	return true, nil
}

// BulkReviewResult reports the outcome of one administrative batch
// review action.
type BulkReviewResult struct {
	Reviewed []uint
	Skipped  []uint
}

// BulkReview applies the same approve/reject decision to many requests
// in one transaction, stamping reviewer and timestamp per record.
// Requests that are missing or no longer pending are skipped, not
// failed: within one administrative action partial progress on the
// reviewable subset is the expected behavior.
func BulkReview(db *gorm.DB, leaveIDs []uint, reviewer *model.User, approve bool, notes string) (*BulkReviewResult, error) {
	if reviewer == nil || !reviewer.IsAdmin() {
		return nil, ErrPermissionDenied
	}

	result := &BulkReviewResult{}
	err := db.Transaction(func(tx *gorm.DB) error {
		for _, id := range leaveIDs {
			var leave model.LeaveRequest
			if err := tx.First(&leave, id).Error; err != nil {
				result.Skipped = append(result.Skipped, id)
				continue
			}
			if !leave.IsPending() {
				result.Skipped = append(result.Skipped, id)
				continue
			}

			ok, err := markReviewed(tx, &leave, reviewer, approve, notes)
			if err != nil {
				return err
			}
			if !ok {
				result.Skipped = append(result.Skipped, id)
				continue
			}
			result.Reviewed = append(result.Reviewed, id)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// LeaveFilter narrows a leave listing.
type LeaveFilter struct {
	Status     string
	EmployeeID uint
}

// Leaves lists leave requests, newest application first.
func Leaves(db *gorm.DB, filter LeaveFilter) ([]model.LeaveRequest, error) {
	query := db.Preload("Employee").Preload("Employee.User").Preload("Reviewer").
		Order("applied_on DESC")

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.EmployeeID != 0 {
		query = query.Where("employee_id = ?", filter.EmployeeID)
	}

	var leaves []model.LeaveRequest
	if err := query.Find(&leaves).Error; err != nil {
		return nil, err
	}
	return leaves, nil
}
