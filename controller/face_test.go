package controller

import (
	"testing"

	"faceattend_v1/facerec"

	"github.com/stretchr/testify/assert"
)

func TestDefaultRecognizerIsDetector(t *testing.T) {
	// Must agree with facerec.Select's default so the stub can only be
	// reached through explicit configuration.
	assert.IsType(t, &facerec.DetectorRecognizer{}, Recognizer)
	assert.IsType(t, Recognizer, facerec.Select(""))
}
