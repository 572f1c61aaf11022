package accel

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedReader plays back a fixed sequence of raw triples and errors out
// when the script is exhausted, so a deduplication bug cannot hang the test.
type scriptedReader struct {
	triples [][3]int32
	i       int
}

func (r *scriptedReader) ReadAxes() (int32, int32, int32, error) {
	if r.i >= len(r.triples) {
		return 0, 0, 0, errors.New("script exhausted")
	}
	t := r.triples[r.i]
	r.i++
	return t[0], t[1], t[2], nil
}

func TestSourceScalesToG(t *testing.T) {
	src := NewSource(&scriptedReader{triples: [][3]int32{{100, -200, 300}}})

	s, err := src.Next()
	require.NoError(t, err)
	assert.Equal(t, Sample{X: 0.1, Y: -0.2, Z: 0.3}, s)
}

func TestSourceRejectsSingleStaleAxis(t *testing.T) {
	// The second reading repeats only X; one stale axis is enough to reject.
	src := NewSource(&scriptedReader{triples: [][3]int32{
		{100, 200, 300},
		{100, 999, 888},
		{111, 222, 333},
	}})

	first, err := src.Next()
	require.NoError(t, err)
	assert.Equal(t, Sample{X: 0.1, Y: 0.2, Z: 0.3}, first)

	second, err := src.Next()
	require.NoError(t, err)
	assert.Equal(t, Sample{X: 0.111, Y: 0.222, Z: 0.333}, second)
}

func TestSourceRejectsFullDuplicate(t *testing.T) {
	src := NewSource(&scriptedReader{triples: [][3]int32{
		{10, 20, 30},
		{10, 20, 30},
		{10, 20, 30},
		{40, 50, 60},
	}})

	_, err := src.Next()
	require.NoError(t, err)

	s, err := src.Next()
	require.NoError(t, err)
	assert.Equal(t, Sample{X: 0.04, Y: 0.05, Z: 0.06}, s)
}

func TestSourceNoConsecutiveSharedAxis(t *testing.T) {
	// A noisy script with stale axes scattered through it. Every accepted
	// sample must differ from its predecessor on all three axes.
	script := [][3]int32{
		{1, 2, 3},
		{1, 5, 6}, // stale X
		{4, 5, 6},
		{7, 5, 9}, // stale Y
		{7, 8, 9},
		{10, 11, 9}, // stale Z
		{10, 11, 12},
	}
	src := NewSource(&scriptedReader{triples: script})

	var accepted [][3]int32
	for {
		s, err := src.Next()
		if err != nil {
			break
		}
		raw := [3]int32{
			int32(math.Round(s.X * RawScale)),
			int32(math.Round(s.Y * RawScale)),
			int32(math.Round(s.Z * RawScale)),
		}
		accepted = append(accepted, raw)
	}

	require.Equal(t, [][3]int32{{1, 2, 3}, {4, 5, 6}, {7, 8, 9}, {10, 11, 12}}, accepted)
	for i := 1; i < len(accepted); i++ {
		for a := 0; a < AxisCount; a++ {
			assert.NotEqual(t, accepted[i-1][a], accepted[i][a],
				"accepted samples %d and %d share axis %d", i-1, i, a)
		}
	}
}

type failingReader struct{}

func (failingReader) ReadAxes() (int32, int32, int32, error) {
	return 0, 0, 0, errors.New("bus wedged")
}

func TestSourcePropagatesReadError(t *testing.T) {
	src := NewSource(failingReader{})

	_, err := src.Next()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accel read")
}
