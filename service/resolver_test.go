package service

import (
	"testing"

	"faceattend_v1/facerec"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBadgeResolver(t *testing.T) {
	db := openTestDB(t)

	res, err := BadgeResolver{}.Resolve(db, CheckInInput{EmployeeCode: "EMP0001"})
	require.NoError(t, err)
	assert.Equal(t, "EMP0001", res.EmployeeCode)

	_, err = BadgeResolver{}.Resolve(db, CheckInInput{})
	assert.ErrorIs(t, err, ErrUnresolvedIdentity)
}

func TestFaceResolverNoRegisteredFaces(t *testing.T) {
	db := openTestDB(t)
	seedEmployee(t, db, "EMP0001", true)

	resolver := FaceResolver{Recognizer: facerec.NewSimulationRecognizer()}
	_, err := resolver.Resolve(db, CheckInInput{})
	assert.ErrorIs(t, err, facerec.ErrNoRegisteredFaces)
}

func TestFaceResolverMatchesRegisteredEmployee(t *testing.T) {
	db := openTestDB(t)

	employee := seedEmployee(t, db, "EMP0001", true)
	employee.SetFaceEncoding([]float64{0.1, 0.2})
	require.NoError(t, db.Save(employee).Error)

	resolver := FaceResolver{Recognizer: facerec.NewSimulationRecognizer()}
	res, err := resolver.Resolve(db, CheckInInput{})
	require.NoError(t, err)
	assert.Equal(t, "EMP0001", res.EmployeeCode)
	assert.NotEmpty(t, res.Message)
}

func TestResolverForSelection(t *testing.T) {
	recognizer := facerec.NewSimulationRecognizer()

	assert.IsType(t, BadgeResolver{}, ResolverFor("badge", recognizer))
	assert.IsType(t, FaceResolver{}, ResolverFor("face", recognizer))
	assert.IsType(t, FaceResolver{}, ResolverFor("", recognizer))
}
