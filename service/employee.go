package service

import (
	"errors"

	"faceattend_v1/model"

	"gorm.io/gorm"
)

// NextEmployeeCode assigns the sequential EMP%04d code for a new
// registration based on the current employee count.
func NextEmployeeCode(db *gorm.DB) (string, error) {
	var count int64
	if err := db.Model(&model.Employee{}).Count(&count).Error; err != nil {
		return "", err
	}
	return model.EmployeeCodeFor(count + 1), nil
}

// FindEmployeeByCode resolves an employee by their EMP code. With
// activeOnly set, inactive employees are treated as not found, which
// is what the check-in and leave paths require.
func FindEmployeeByCode(db *gorm.DB, code string, activeOnly bool) (*model.Employee, error) {
	query := db.Preload("User").Where("employee_code = ?", code)
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}

	var employee model.Employee
	if err := query.First(&employee).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEmployeeNotFound
		}
		return nil, err
	}
	return &employee, nil
}

// FindEmployeeByUser resolves the employee profile linked to a user
// account.
func FindEmployeeByUser(db *gorm.DB, userID uint) (*model.Employee, error) {
	var employee model.Employee
	err := db.Preload("User").Preload("Department").Where("user_id = ?", userID).First(&employee).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEmployeeNotFound
		}
		return nil, err
	}
	return &employee, nil
}

// ActiveEmployees lists employees eligible for attendance marking and
// leave submission. Inactive employees never appear here.
func ActiveEmployees(db *gorm.DB) ([]model.Employee, error) {
	var employees []model.Employee
	err := db.Preload("User").Preload("Department").
		Where("is_active = ?", true).
		Order("employee_code ASC").
		Find(&employees).Error
	if err != nil {
		return nil, err
	}
	return employees, nil
}

// RegisteredEncodings collects the face descriptors of all active
// employees with a registered face, keyed by employee code.
func RegisteredEncodings(db *gorm.DB) (map[string][]float64, error) {
	var employees []model.Employee
	err := db.Where("is_active = ? AND face_encoding <> ''", true).Find(&employees).Error
	if err != nil {
		return nil, err
	}

	known := make(map[string][]float64, len(employees))
	for i := range employees {
		if vec := employees[i].FaceEncodingVector(); vec != nil {
			known[employees[i].EmployeeCode] = vec
		}
	}
	return known, nil
}
