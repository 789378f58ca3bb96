package service

import (
	"testing"
	"time"

	"faceattend_v1/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmitLeaveCreatesPendingRequest(t *testing.T) {
	db := openTestDB(t)
	employee := seedEmployee(t, db, "EMP0001", true)

	start := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 12, 0, 0, 0, 0, time.UTC)

	leave, err := SubmitLeave(db, employee, model.LeaveSick, start, end, "flu")
	require.NoError(t, err)

	assert.Equal(t, model.LeavePending, leave.Status)
	assert.Equal(t, 3, leave.Duration())
	assert.Nil(t, leave.ReviewerID)
	assert.Nil(t, leave.ReviewedOn)
	assert.False(t, leave.AppliedOn.IsZero())
}

func TestSubmitLeaveValidation(t *testing.T) {
	db := openTestDB(t)
	active := seedEmployee(t, db, "EMP0001", true)
	inactive := seedEmployee(t, db, "EMP0002", false)

	start := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)

	_, err := SubmitLeave(db, active, "sabbatical", start, start, "nope")
	assert.ErrorIs(t, err, ErrInvalidLeaveType)

	_, err = SubmitLeave(db, active, model.LeaveCasual, start, start.AddDate(0, 0, -1), "backwards")
	assert.ErrorIs(t, err, ErrInvalidDateRange)

	_, err = SubmitLeave(db, inactive, model.LeaveCasual, start, start, "archived")
	assert.ErrorIs(t, err, ErrInactiveEmployee)
}

func TestReviewLeaveApproveStampsReviewer(t *testing.T) {
	db := openTestDB(t)
	employee := seedEmployee(t, db, "EMP0001", true)
	admin := seedAdmin(t, db)

	start := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	leave, err := SubmitLeave(db, employee, model.LeaveVacation, start, start.AddDate(0, 0, 4), "trip")
	require.NoError(t, err)

	reviewed, err := ReviewLeave(db, leave.ID, admin, true, "")
	require.NoError(t, err)

	assert.Equal(t, model.LeaveApproved, reviewed.Status)
	require.NotNil(t, reviewed.ReviewerID)
	assert.Equal(t, admin.ID, *reviewed.ReviewerID)
	require.NotNil(t, reviewed.ReviewedOn)

	// The stamp is persisted together with the status
	var stored model.LeaveRequest
	require.NoError(t, db.First(&stored, leave.ID).Error)
	assert.Equal(t, model.LeaveApproved, stored.Status)
	require.NotNil(t, stored.ReviewerID)
	require.NotNil(t, stored.ReviewedOn)
}

func TestReviewLeaveRejectKeepsNotes(t *testing.T) {
	db := openTestDB(t)
	employee := seedEmployee(t, db, "EMP0001", true)
	admin := seedAdmin(t, db)

	start := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	leave, err := SubmitLeave(db, employee, model.LeaveCasual, start, start, "errand")
	require.NoError(t, err)

	reviewed, err := ReviewLeave(db, leave.ID, admin, false, "short staffed that week")
	require.NoError(t, err)

	assert.Equal(t, model.LeaveRejected, reviewed.Status)
	assert.Equal(t, "short staffed that week", reviewed.AdminNotes)
}

func TestReviewLeaveAlreadyReviewedConflicts(t *testing.T) {
	db := openTestDB(t)
	employee := seedEmployee(t, db, "EMP0001", true)
	admin := seedAdmin(t, db)

	start := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	leave, err := SubmitLeave(db, employee, model.LeaveSick, start, start, "flu")
	require.NoError(t, err)

	_, err = ReviewLeave(db, leave.ID, admin, true, "")
	require.NoError(t, err)

	_, err = ReviewLeave(db, leave.ID, admin, false, "changed my mind")
	assert.ErrorIs(t, err, ErrAlreadyReviewed)

	var stored model.LeaveRequest
	require.NoError(t, db.First(&stored, leave.ID).Error)
	assert.Equal(t, model.LeaveApproved, stored.Status)
}

func TestReviewStampOnlyWritesPendingRows(t *testing.T) {
	db := openTestDB(t)
	employee := seedEmployee(t, db, "EMP0001", true)
	admin := seedAdmin(t, db)

	start := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	leave, err := SubmitLeave(db, employee, model.LeaveSick, start, start, "flu")
	require.NoError(t, err)

	// A reviewer still holding the row as pending
	var stale model.LeaveRequest
	require.NoError(t, db.First(&stale, leave.ID).Error)

	_, err = ReviewLeave(db, leave.ID, admin, true, "")
	require.NoError(t, err)

	// The stamp is guarded on status, so the stale write matches no row
	ok, err := markReviewed(db, &stale, admin, false, "overruled")
	require.NoError(t, err)
	assert.False(t, ok)

	var stored model.LeaveRequest
	require.NoError(t, db.First(&stored, leave.ID).Error)
	assert.Equal(t, model.LeaveApproved, stored.Status)
	assert.Empty(t, stored.AdminNotes)
}

func TestReviewLeaveRequiresAdmin(t *testing.T) {
	db := openTestDB(t)
	employee := seedEmployee(t, db, "EMP0001", true)

	start := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	leave, err := SubmitLeave(db, employee, model.LeaveSick, start, start, "flu")
	require.NoError(t, err)

	_, err = ReviewLeave(db, leave.ID, &employee.User, true, "")
	assert.ErrorIs(t, err, ErrPermissionDenied)

	_, err = ReviewLeave(db, leave.ID, nil, true, "")
	assert.ErrorIs(t, err, ErrPermissionDenied)
}

func TestReviewLeaveNotFound(t *testing.T) {
	db := openTestDB(t)
	admin := seedAdmin(t, db)

	_, err := ReviewLeave(db, 9999, admin, true, "")
	assert.ErrorIs(t, err, ErrLeaveNotFound)
}

func TestBulkReviewStampsEachRecord(t *testing.T) {
	db := openTestDB(t)
	admin := seedAdmin(t, db)
	alice := seedEmployee(t, db, "EMP0001", true)
	bob := seedEmployee(t, db, "EMP0002", true)

	start := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	first, err := SubmitLeave(db, alice, model.LeaveCasual, start, start, "errand")
	require.NoError(t, err)
	second, err := SubmitLeave(db, bob, model.LeaveCasual, start, start, "errand")
	require.NoError(t, err)

	// One of the batch is already reviewed and must be skipped
	third, err := SubmitLeave(db, alice, model.LeaveSick, start.AddDate(0, 0, 7), start.AddDate(0, 0, 7), "flu")
	require.NoError(t, err)
	_, err = ReviewLeave(db, third.ID, admin, false, "")
	require.NoError(t, err)

	result, err := BulkReview(db, []uint{first.ID, second.ID, third.ID, 9999}, admin, true, "")
	require.NoError(t, err)

	assert.ElementsMatch(t, []uint{first.ID, second.ID}, result.Reviewed)
	assert.ElementsMatch(t, []uint{third.ID, 9999}, result.Skipped)

	for _, id := range result.Reviewed {
		var stored model.LeaveRequest
		require.NoError(t, db.First(&stored, id).Error)
		assert.Equal(t, model.LeaveApproved, stored.Status)
		require.NotNil(t, stored.ReviewerID)
		assert.Equal(t, admin.ID, *stored.ReviewerID)
		require.NotNil(t, stored.ReviewedOn)
	}

	// The skipped rejection keeps its original outcome
	var stored model.LeaveRequest
	require.NoError(t, db.First(&stored, third.ID).Error)
	assert.Equal(t, model.LeaveRejected, stored.Status)
}

func TestLeavesFilterByStatusAndEmployee(t *testing.T) {
	db := openTestDB(t)
	admin := seedAdmin(t, db)
	alice := seedEmployee(t, db, "EMP0001", true)
	bob := seedEmployee(t, db, "EMP0002", true)

	start := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	first, err := SubmitLeave(db, alice, model.LeaveCasual, start, start, "errand")
	require.NoError(t, err)
	_, err = SubmitLeave(db, bob, model.LeaveSick, start, start, "flu")
	require.NoError(t, err)

	_, err = ReviewLeave(db, first.ID, admin, true, "")
	require.NoError(t, err)

	pending, err := Leaves(db, LeaveFilter{Status: model.LeavePending})
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, bob.ID, pending[0].EmployeeID)

	forAlice, err := Leaves(db, LeaveFilter{EmployeeID: alice.ID})
	require.NoError(t, err)
	require.Len(t, forAlice, 1)
	assert.Equal(t, model.LeaveApproved, forAlice[0].Status)
}
