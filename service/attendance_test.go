package service

import (
	"testing"
	"time"

	"faceattend_v1/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckInFirstOfDayCreatesArrival(t *testing.T) {
	db := openTestDB(t)
	employee := seedEmployee(t, db, "EMP0001", true)

	now := time.Date(2024, 3, 4, 8, 30, 0, 0, time.UTC)
	record, result, err := CheckIn(db, employee, now)

	require.NoError(t, err)
	assert.Equal(t, ResultArrival, result)
	assert.Equal(t, model.StatusPresent, record.Status)
	assert.Equal(t, now, record.TimeIn)
	assert.Nil(t, record.TimeOut)
	assert.Equal(t, DateOnly(now), record.Date)
}

func TestCheckInSecondOfDayRecordsDeparture(t *testing.T) {
	db := openTestDB(t)
	employee := seedEmployee(t, db, "EMP0001", true)

	morning := time.Date(2024, 3, 4, 8, 30, 0, 0, time.UTC)
	_, _, err := CheckIn(db, employee, morning)
	require.NoError(t, err)

	evening := time.Date(2024, 3, 4, 17, 0, 0, 0, time.UTC)
	record, result, err := CheckIn(db, employee, evening)

	require.NoError(t, err)
	assert.Equal(t, ResultDeparture, result)
	require.NotNil(t, record.TimeOut)
	assert.Equal(t, evening, *record.TimeOut)
	assert.InDelta(t, 8.5, record.WorkingHours(), 0.001)
}

func TestCheckInClampsEarlyDeparture(t *testing.T) {
	db := openTestDB(t)
	employee := seedEmployee(t, db, "EMP0001", true)

	morning := time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)
	_, _, err := CheckIn(db, employee, morning)
	require.NoError(t, err)

	// Skewed kiosk clock reports a departure before the arrival; the
	// stored time-out must never precede time-in.
	record, result, err := CheckIn(db, employee, morning.Add(-30*time.Minute))

	require.NoError(t, err)
	assert.Equal(t, ResultDeparture, result)
	require.NotNil(t, record.TimeOut)
	assert.True(t, record.TimeOut.Equal(record.TimeIn))
	assert.Equal(t, 0.0, record.WorkingHours())
}

func TestCheckInThirdOfDayRejected(t *testing.T) {
	db := openTestDB(t)
	employee := seedEmployee(t, db, "EMP0001", true)

	base := time.Date(2024, 3, 4, 8, 0, 0, 0, time.UTC)
	_, _, err := CheckIn(db, employee, base)
	require.NoError(t, err)
	_, _, err = CheckIn(db, employee, base.Add(9*time.Hour))
	require.NoError(t, err)

	_, _, err = CheckIn(db, employee, base.Add(10*time.Hour))
	assert.ErrorIs(t, err, ErrAlreadyCompleted)

	// The completed record is untouched
	var records []model.Attendance
	require.NoError(t, db.Find(&records).Error)
	require.Len(t, records, 1)
	require.NotNil(t, records[0].TimeOut)
	assert.Equal(t, base.Add(9*time.Hour), *records[0].TimeOut)
}

func TestCheckInInactiveEmployeeRejected(t *testing.T) {
	db := openTestDB(t)
	employee := seedEmployee(t, db, "EMP0001", false)

	_, _, err := CheckIn(db, employee, time.Now())
	assert.ErrorIs(t, err, ErrInactiveEmployee)

	var count int64
	require.NoError(t, db.Model(&model.Attendance{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCheckInNextDayStartsFresh(t *testing.T) {
	db := openTestDB(t)
	employee := seedEmployee(t, db, "EMP0001", true)

	day1 := time.Date(2024, 3, 4, 8, 0, 0, 0, time.UTC)
	_, _, err := CheckIn(db, employee, day1)
	require.NoError(t, err)
	_, _, err = CheckIn(db, employee, day1.Add(9*time.Hour))
	require.NoError(t, err)

	day2 := day1.AddDate(0, 0, 1)
	record, result, err := CheckIn(db, employee, day2)
	require.NoError(t, err)
	assert.Equal(t, ResultArrival, result)
	assert.Equal(t, DateOnly(day2), record.Date)
}

func TestAttendanceUniquePerEmployeePerDay(t *testing.T) {
	db := openTestDB(t)
	employee := seedEmployee(t, db, "EMP0001", true)

	day := DateOnly(time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC))
	first := model.Attendance{EmployeeID: employee.ID, Date: day, TimeIn: day, Status: model.StatusPresent}
	require.NoError(t, db.Create(&first).Error)

	duplicate := model.Attendance{EmployeeID: employee.ID, Date: day, TimeIn: day, Status: model.StatusPresent}
	err := db.Create(&duplicate).Error
	assert.Error(t, err, "unique index on (employee, date) must reject the duplicate")

	var count int64
	require.NoError(t, db.Model(&model.Attendance{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestManualMarkRejectsDuplicate(t *testing.T) {
	db := openTestDB(t)
	employee := seedEmployee(t, db, "EMP0001", true)

	date := time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)
	_, err := ManualMark(db, employee, date, model.StatusLate)
	require.NoError(t, err)

	_, err = ManualMark(db, employee, date, model.StatusPresent)
	assert.ErrorIs(t, err, ErrDuplicateAttendance)
}

func TestManualMarkValidatesStatus(t *testing.T) {
	db := openTestDB(t)
	employee := seedEmployee(t, db, "EMP0001", true)

	_, err := ManualMark(db, employee, time.Now(), "vacationing")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestRecordsFilters(t *testing.T) {
	db := openTestDB(t)
	alice := seedEmployee(t, db, "EMP0001", true)
	bob := seedEmployee(t, db, "EMP0002", true)

	day1 := time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)
	day2 := time.Date(2024, 3, 5, 9, 0, 0, 0, time.UTC)

	_, err := ManualMark(db, alice, day1, model.StatusPresent)
	require.NoError(t, err)
	_, err = ManualMark(db, alice, day2, model.StatusLate)
	require.NoError(t, err)
	_, err = ManualMark(db, bob, day1, model.StatusAbsent)
	require.NoError(t, err)

	all, err := Records(db, RecordFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	onlyAlice, err := Records(db, RecordFilter{EmployeeCode: "EMP0001"})
	require.NoError(t, err)
	assert.Len(t, onlyAlice, 2)

	onlyLate, err := Records(db, RecordFilter{Status: model.StatusLate})
	require.NoError(t, err)
	require.Len(t, onlyLate, 1)
	assert.Equal(t, alice.ID, onlyLate[0].EmployeeID)

	onlyDay1, err := Records(db, RecordFilter{StartDate: day1, EndDate: day1})
	require.NoError(t, err)
	assert.Len(t, onlyDay1, 2)
}
