package service

import (
	"errors"
	"io"

	"faceattend_v1/facerec"

	"gorm.io/gorm"
)

var ErrUnresolvedIdentity = errors.New("could not resolve employee identity")

// CheckInInput is everything a resolution strategy may need to name
// the employee standing at the kiosk.
type CheckInInput struct {
	// EmployeeCode is the badge payload for badge check-in.
	EmployeeCode string
	// Image and Filename carry the captured frame for face check-in.
	Image    io.Reader
	Filename string
}

// ActorResolver names the employee behind a check-in attempt. The
// attendance state machine takes the resolved employee and never sees
// the mechanism, so badge, face and any future PIN resolution are
// interchangeable.
type ActorResolver interface {
	Resolve(db *gorm.DB, input CheckInInput) (*Resolution, error)
}

// Resolution is a resolved identity plus the human-readable detail of
// how it was resolved.
type Resolution struct {
	EmployeeCode string
	Message      string
}

// BadgeResolver resolves identity from a scanned QR badge, whose
// payload is the employee code.
type BadgeResolver struct{}

func (BadgeResolver) Resolve(db *gorm.DB, input CheckInInput) (*Resolution, error) {
	if input.EmployeeCode == "" {
		return nil, ErrUnresolvedIdentity
	}
	return &Resolution{
		EmployeeCode: input.EmployeeCode,
		Message:      "Badge scanned",
	}, nil
}

// FaceResolver resolves identity by matching the captured frame
// against all registered face descriptors.
type FaceResolver struct {
	Recognizer facerec.Recognizer
}

func (f FaceResolver) Resolve(db *gorm.DB, input CheckInInput) (*Resolution, error) {
	known, err := RegisteredEncodings(db)
	if err != nil {
		return nil, err
	}
	if len(known) == 0 {
		return nil, facerec.ErrNoRegisteredFaces
	}

	var probe []float64
	if input.Image != nil {
		encoded, msg, err := f.Recognizer.EncodeFace(input.Image, input.Filename)
		if err != nil {
			return nil, errors.New(msg)
		}
		probe = encoded
	}

	code, msg, err := f.Recognizer.Identify(probe, known)
	if err != nil {
		return nil, errors.New(msg)
	}

	return &Resolution{EmployeeCode: code, Message: msg}, nil
}

// ResolverFor picks the resolution strategy for a check-in request.
// An unknown method falls back to face resolution.
func ResolverFor(method string, recognizer facerec.Recognizer) ActorResolver {
	if method == "badge" {
		return BadgeResolver{}
	}
	return FaceResolver{Recognizer: recognizer}
}
