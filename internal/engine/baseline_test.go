package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// capture builds a flattened axis-major capture of n samples with constant
// per-axis values.
func flatCapture(n int, x, y, z float64) []float64 {
	out := make([]float64, 0, 3*n)
	for i := 0; i < n; i++ {
		out = append(out, x, y, z)
	}
	return out
}

func TestBaselineDetectBeforeLearn(t *testing.T) {
	b := NewBaseline()
	require.NoError(t, b.Init())

	_, err := b.Detect(flatCapture(4, 0.2, 0.2, 0.2))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "detect before any learn")
}

func TestBaselineExactMatchScores100(t *testing.T) {
	b := NewBaseline()
	require.NoError(t, b.Init())
	require.NoError(t, b.Learn(flatCapture(8, 0.2, 0.3, 0.4)))

	sim, err := b.Detect(flatCapture(8, 0.2, 0.3, 0.4))
	require.NoError(t, err)
	assert.Equal(t, 100, sim)
}

func TestBaselineDistanceScoring(t *testing.T) {
	b := NewBaseline()
	require.NoError(t, b.Init())
	require.NoError(t, b.Learn(flatCapture(4, 0.2, 0.2, 0.2)))

	// dist = 3×0.05 = 0.15, norm = 0.6 → 100 - 25 = 75
	sim, err := b.Detect(flatCapture(4, 0.25, 0.25, 0.25))
	require.NoError(t, err)
	assert.Equal(t, 75, sim)
}

func TestBaselineScoreClampedToZero(t *testing.T) {
	b := NewBaseline()
	require.NoError(t, b.Init())
	require.NoError(t, b.Learn(flatCapture(4, 0.1, 0.1, 0.1)))

	sim, err := b.Detect(flatCapture(4, 5, 5, 5))
	require.NoError(t, err)
	assert.Equal(t, 0, sim)
}

func TestBaselineAveragesTrainingCaptures(t *testing.T) {
	b := NewBaseline()
	require.NoError(t, b.Init())
	require.NoError(t, b.Learn(flatCapture(4, 0.1, 0.1, 0.1)))
	require.NoError(t, b.Learn(flatCapture(4, 0.3, 0.3, 0.3)))

	// Signature is the mean of the two, 0.2 per axis.
	sim, err := b.Detect(flatCapture(4, 0.2, 0.2, 0.2))
	require.NoError(t, err)
	assert.Equal(t, 100, sim)
}

func TestBaselineMagnitudeNotSign(t *testing.T) {
	b := NewBaseline()
	require.NoError(t, b.Init())
	require.NoError(t, b.Learn(flatCapture(4, 0.2, 0.2, 0.2)))

	sim, err := b.Detect(flatCapture(4, -0.2, -0.2, -0.2))
	require.NoError(t, err)
	assert.Equal(t, 100, sim)
}

func TestBaselineInitResets(t *testing.T) {
	b := NewBaseline()
	require.NoError(t, b.Init())
	require.NoError(t, b.Learn(flatCapture(4, 0.2, 0.2, 0.2)))
	require.NoError(t, b.Init())

	_, err := b.Detect(flatCapture(4, 0.2, 0.2, 0.2))
	require.Error(t, err)
}

func TestBaselineRejectsBadCaptureLength(t *testing.T) {
	b := NewBaseline()
	require.NoError(t, b.Init())

	err := b.Learn([]float64{0.1, 0.2})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a multiple")

	err = b.Learn(nil)
	require.Error(t, err)
}
