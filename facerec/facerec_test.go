package facerec

import (
	"bytes"
	"image"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngReader(t *testing.T, img image.Image) *bytes.Reader {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return bytes.NewReader(buf.Bytes())
}

func TestDetectorVerifySingleFace(t *testing.T) {
	dr := NewDetectorRecognizer()

	ok, msg := dr.VerifySingleFace(pngReader(t, testImage(image.Rect(10, 10, 30, 34))), "face.png")
	assert.True(t, ok)
	assert.Equal(t, "Single face detected", msg)

	ok, msg = dr.VerifySingleFace(pngReader(t, testImage()), "empty.png")
	assert.False(t, ok)
	assert.Equal(t, "No face detected in the image", msg)

	ok, msg = dr.VerifySingleFace(pngReader(t, testImage(
		image.Rect(5, 10, 15, 26),
		image.Rect(40, 10, 50, 26),
	)), "crowd.png")
	assert.False(t, ok)
	assert.Equal(t, "Multiple faces detected (2 faces found)", msg)

	ok, _ = dr.VerifySingleFace(nil, "missing.png")
	assert.False(t, ok)

	ok, msg = dr.VerifySingleFace(bytes.NewReader([]byte("not an image")), "garbage.png")
	assert.False(t, ok)
	assert.Equal(t, "Could not read image file", msg)
}

func TestDetectorEncodeFace(t *testing.T) {
	dr := NewDetectorRecognizer()

	enc, _, err := dr.EncodeFace(pngReader(t, testImage(image.Rect(10, 10, 30, 34))), "face.png")
	require.NoError(t, err)
	assert.Len(t, enc, EncodingSize)

	_, _, err = dr.EncodeFace(pngReader(t, testImage()), "empty.png")
	assert.ErrorIs(t, err, ErrNoFace)

	_, _, err = dr.EncodeFace(pngReader(t, testImage(
		image.Rect(5, 10, 15, 26),
		image.Rect(40, 10, 50, 26),
	)), "crowd.png")
	assert.ErrorIs(t, err, ErrMultipleFaces)

	_, _, err = dr.EncodeFace(nil, "missing.png")
	assert.ErrorIs(t, err, ErrNoImage)
}

func TestDetectorEncodeIsStableForSameImage(t *testing.T) {
	dr := NewDetectorRecognizer()
	img := testImage(image.Rect(10, 10, 30, 34))

	first, _, err := dr.EncodeFace(pngReader(t, img), "a.png")
	require.NoError(t, err)
	second, _, err := dr.EncodeFace(pngReader(t, img), "b.png")
	require.NoError(t, err)

	// Descriptor depends on pixel content, not on the file name.
	assert.Equal(t, first, second)
}

func TestDetectorIdentifyNearestWithinThreshold(t *testing.T) {
	dr := NewDetectorRecognizer()

	known := map[string][]float64{
		"EMP0001": {0.5, 0.6},
		"EMP0002": {0.9, 0.9},
	}

	id, msg, err := dr.Identify([]float64{0.5, 0.5}, known)
	require.NoError(t, err)
	assert.Equal(t, "EMP0001", id)
	assert.Contains(t, msg, "Face recognized")
}

func TestDetectorIdentifyRejectsBeyondThreshold(t *testing.T) {
	dr := NewDetectorRecognizer()

	known := map[string][]float64{"EMP0001": {5.0, 5.0}}
	_, _, err := dr.Identify([]float64{0.1, 0.1}, known)
	assert.ErrorIs(t, err, ErrNoMatch)
}

func TestDetectorIdentifyEdgeCases(t *testing.T) {
	dr := NewDetectorRecognizer()

	_, _, err := dr.Identify([]float64{0.1}, map[string][]float64{})
	assert.ErrorIs(t, err, ErrNoRegisteredFaces)

	_, _, err = dr.Identify(nil, map[string][]float64{"EMP0001": {0.1}})
	assert.ErrorIs(t, err, ErrNoImage)

	// A truncated registered descriptor never matches.
	known := map[string][]float64{"EMP0001": {0.0, 0.0, 0.0, 0.0}}
	_, _, err = dr.Identify([]float64{0.0, 0.0}, known)
	assert.ErrorIs(t, err, ErrNoMatch)
}

func TestEuclideanDistance(t *testing.T) {
	assert.InDelta(t, 0.0, euclideanDistance([]float64{1, 2}, []float64{1, 2}), 1e-9)
	assert.InDelta(t, 5.0, euclideanDistance([]float64{0, 0}, []float64{3, 4}), 1e-9)

	// Missing dimensions count at maximum difference.
	assert.InDelta(t, 1.0, euclideanDistance([]float64{0}, []float64{0, 0}), 1e-9)
}

func TestSimulationRecognizer(t *testing.T) {
	s := NewSimulationRecognizer()

	ok, msg := s.VerifySingleFace(bytes.NewReader([]byte("anything")), "face.jpg")
	assert.True(t, ok)
	assert.Contains(t, msg, "Simulation")

	ok, _ = s.VerifySingleFace(nil, "face.jpg")
	assert.False(t, ok)

	first, _, err := s.EncodeFace(bytes.NewReader(nil), "face.jpg")
	require.NoError(t, err)
	require.Len(t, first, EncodingSize)

	// Same file name, same descriptor; different name, different one.
	again, _, err := s.EncodeFace(bytes.NewReader(nil), "face.jpg")
	require.NoError(t, err)
	assert.Equal(t, first, again)

	other, _, err := s.EncodeFace(bytes.NewReader(nil), "other.jpg")
	require.NoError(t, err)
	assert.NotEqual(t, first, other)

	known := map[string][]float64{
		"EMP0002": {0.2},
		"EMP0001": {0.1},
	}
	id, _, err := s.Identify(nil, known)
	require.NoError(t, err)
	assert.Equal(t, "EMP0001", id)

	_, _, err = s.Identify(nil, map[string][]float64{})
	assert.ErrorIs(t, err, ErrNoRegisteredFaces)
}

func TestSelect(t *testing.T) {
	assert.IsType(t, &SimulationRecognizer{}, Select("simulation"))
	assert.IsType(t, &DetectorRecognizer{}, Select("detector"))
	assert.IsType(t, &DetectorRecognizer{}, Select(""))
}
