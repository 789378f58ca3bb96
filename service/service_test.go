package service

import (
	"fmt"
	"testing"

	"faceattend_v1/model"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// openTestDB gives each test its own in-memory database with the full
// schema migrated.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.Department{},
		&model.Employee{},
		&model.Attendance{},
		&model.LeaveRequest{},
	))

	return db
}

// seedEmployee creates a user plus employee profile
func seedEmployee(t *testing.T, db *gorm.DB, code string, active bool) *model.Employee {
	t.Helper()

	user := model.User{
		Username:  "user_" + code,
		Email:     code + "@example.com",
		Password:  "hashed",
		FirstName: "Test",
		LastName:  code,
		Role:      model.RoleEmployee,
	}
	require.NoError(t, db.Create(&user).Error)

	employee := model.Employee{
		UserID:       user.ID,
		EmployeeCode: code,
		IsActive:     active,
	}
	require.NoError(t, db.Create(&employee).Error)
	employee.User = user

	return &employee
}

// seedAdmin creates an account with the admin role
func seedAdmin(t *testing.T, db *gorm.DB) *model.User {
	t.Helper()

	admin := model.User{
		Username:  "admin",
		Email:     "admin@example.com",
		Password:  "hashed",
		FirstName: "Ada",
		LastName:  "Min",
		Role:      model.RoleAdmin,
	}
	require.NoError(t, db.Create(&admin).Error)
	return &admin
}
