// Package facerec provides the face verification and matching
// capability behind face registration and face check-in. The concrete
// strategy is selected once at startup and injected into the handlers;
// there is no package-level availability flag.
package facerec

import (
	"errors"
	"fmt"
	"io"
	"math"
)

// EncodingSize is the fixed length of every face descriptor.
const EncodingSize = 128

// DefaultThreshold is the maximum Euclidean distance at which a probe
// descriptor is accepted as a match against a registered descriptor.
const DefaultThreshold = 0.6

var (
	ErrNoImage           = errors.New("no image provided")
	ErrNoFace            = errors.New("no face detected in the image")
	ErrMultipleFaces     = errors.New("multiple faces detected")
	ErrNoRegisteredFaces = errors.New("no registered faces found")
	ErrNoMatch           = errors.New("no matching face found")
)

// Recognizer is the face-matching strategy. Implementations must treat
// every operation as advisory: callers decide what a failure means for
// the surrounding workflow.
type Recognizer interface {
	// VerifySingleFace asserts the image contains exactly one
	// detectable face region. The message is safe to surface to users.
	VerifySingleFace(r io.Reader, filename string) (bool, string)

	// EncodeFace produces a fixed-length descriptor for the face in
	// the image.
	EncodeFace(r io.Reader, filename string) ([]float64, string, error)

	// Identify matches the probe descriptor against the registered
	// descriptors and returns the matching key.
	Identify(probe []float64, known map[string][]float64) (string, string, error)
}

// Select returns the recognizer for the configured mode. Any value
// other than "simulation" selects the detector-backed strategy.
func Select(mode string) Recognizer {
	if mode == "simulation" {
		return NewSimulationRecognizer()
	}
	return NewDetectorRecognizer()
}

// DetectorRecognizer runs a classical region detector over the decoded
// image, encodes descriptors from pixel content and identifies by
// nearest-descriptor distance under a threshold.
type DetectorRecognizer struct {
	Detector  Detector
	Threshold float64
}

func NewDetectorRecognizer() *DetectorRecognizer {
	return &DetectorRecognizer{
		Detector:  NewGridDetector(),
		Threshold: DefaultThreshold,
	}
}

func (dr *DetectorRecognizer) VerifySingleFace(r io.Reader, filename string) (bool, string) {
	if r == nil {
		return false, "No image provided"
	}

	img, err := decodeImage(r)
	if err != nil {
		return false, "Could not read image file"
	}

	faces := dr.Detector.DetectFaces(img)
	if len(faces) == 0 {
		return false, "No face detected in the image"
	}
	if len(faces) > 1 {
		return false, fmt.Sprintf("Multiple faces detected (%d faces found)", len(faces))
	}

	return true, "Single face detected"
}

func (dr *DetectorRecognizer) EncodeFace(r io.Reader, filename string) ([]float64, string, error) {
	if r == nil {
		return nil, "No image provided", ErrNoImage
	}

	img, err := decodeImage(r)
	if err != nil {
		return nil, "Could not read image file", err
	}

	faces := dr.Detector.DetectFaces(img)
	if len(faces) == 0 {
		return nil, "No face detected in the image", ErrNoFace
	}
	if len(faces) > 1 {
		msg := fmt.Sprintf("Multiple faces detected (%d faces found)", len(faces))
		return nil, msg, ErrMultipleFaces
	}

	encoding := encodeRegion(img, faces[0])
	return encoding, "Face encoded successfully", nil
}

// Identify returns the registered key whose descriptor is nearest to
// the probe, provided the distance is within the threshold. This
// replaces the historical first-key lookup with a real
// nearest-neighbour match.
func (dr *DetectorRecognizer) Identify(probe []float64, known map[string][]float64) (string, string, error) {
	if len(known) == 0 {
		return "", "No registered faces found", ErrNoRegisteredFaces
	}
	if len(probe) == 0 {
		return "", "No face descriptor provided", ErrNoImage
	}

	bestID := ""
	bestDist := math.MaxFloat64
	for id, enc := range known {
		d := euclideanDistance(probe, enc)
		if d < bestDist {
			bestDist = d
			bestID = id
		}
	}

	threshold := dr.Threshold
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	if bestDist > threshold {
		return "", fmt.Sprintf("No match within threshold (closest distance %.3f)", bestDist), ErrNoMatch
	}

	return bestID, fmt.Sprintf("Face recognized (distance %.3f)", bestDist), nil
}

// euclideanDistance compares two descriptors. Length mismatches count
// the missing dimensions at maximum difference so truncated vectors
// never match.
func euclideanDistance(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	sum := 0.0
	for i := 0; i < n; i++ {
		d := a[i] - b[i]
		sum += d * d
	}
	for i := n; i < len(a); i++ {
		sum += 1.0
	}
	for i := n; i < len(b); i++ {
		sum += 1.0
	}
	return math.Sqrt(sum)
}
