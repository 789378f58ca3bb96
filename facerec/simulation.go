package facerec

import (
	"hash/fnv"
	"io"
	"sort"
)

// SimulationRecognizer is the historical development stub, kept for
// environments without a usable camera or detector. Verification
// always succeeds, the descriptor is derived deterministically from
// the image FILE NAME rather than its pixel content, and Identify
// returns the first registered key. None of this is biometric
// matching; real deployments use DetectorRecognizer.
type SimulationRecognizer struct{}

func NewSimulationRecognizer() *SimulationRecognizer {
	return &SimulationRecognizer{}
}

func (s *SimulationRecognizer) VerifySingleFace(r io.Reader, filename string) (bool, string) {
	if r == nil {
		return false, "No image provided"
	}
	return true, "Single face detected (Simulation)"
}

// EncodeFace derives a deterministic descriptor from the file name.
// The same file name always yields the same vector, which is what lets
// simulated registration and check-in round-trip.
func (s *SimulationRecognizer) EncodeFace(r io.Reader, filename string) ([]float64, string, error) {
	if r == nil {
		return nil, "No image provided", ErrNoImage
	}

	encoding := make([]float64, EncodingSize)
	for i := range encoding {
		h := fnv.New32a()
		h.Write([]byte(filename))
		h.Write([]byte{byte(i)})
		encoding[i] = float64(h.Sum32()%1000) / 1000.0
	}

	return encoding, "Face encoded successfully (Simulation Mode)", nil
}

// Identify ignores the probe and returns the first registered key, in
// sorted order so the choice is stable between calls.
func (s *SimulationRecognizer) Identify(probe []float64, known map[string][]float64) (string, string, error) {
	if len(known) == 0 {
		return "", "No registered faces found", ErrNoRegisteredFaces
	}

	keys := make([]string, 0, len(known))
	for k := range known {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return keys[0], "Face recognized successfully (Simulation Mode)", nil
}
