package capture

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relabs-tech/strum_sentinel/internal/accel"
)

// countingSampler emits deterministic samples (n, n+0.5, n-0.5) and errors
// after limit samples if a limit is set.
type countingSampler struct {
	n     int
	limit int
}

func (c *countingSampler) Next() (accel.Sample, error) {
	if c.limit > 0 && c.n >= c.limit {
		return accel.Sample{}, errors.New("sampler drained")
	}
	v := float64(c.n)
	c.n++
	return accel.Sample{X: v, Y: v + 0.5, Z: v - 0.5}, nil
}

func TestBufferZeroBeforeFirstFill(t *testing.T) {
	b := NewBuffer(4)
	assert.Equal(t, 4, b.Len())
	require.Len(t, b.Values(), 12)
	for _, v := range b.Values() {
		assert.Zero(t, v)
	}
}

func TestFillAxisMajorLayout(t *testing.T) {
	b := NewBuffer(3)
	require.NoError(t, b.Fill(&countingSampler{}))

	assert.Equal(t, []float64{
		0, 0.5, -0.5,
		1, 1.5, 0.5,
		2, 2.5, 1.5,
	}, b.Values())
}

func TestFillOverwritesPreviousCapture(t *testing.T) {
	b := NewBuffer(2)
	require.NoError(t, b.Fill(&countingSampler{}))
	require.NoError(t, b.Fill(&countingSampler{n: 10}))

	assert.Equal(t, []float64{
		10, 10.5, 9.5,
		11, 11.5, 10.5,
	}, b.Values())
}

func TestFillPropagatesSourceError(t *testing.T) {
	b := NewBuffer(8)
	err := b.Fill(&countingSampler{limit: 3})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sampler drained")
}

func TestAppendLineFormat(t *testing.T) {
	b := NewBuffer(2)
	src := &sliceValues{values: []accel.Sample{
		{X: 0.1, Y: -0.25, Z: 1},
		{X: 0, Y: 0.1235, Z: -3.1},
	}}
	require.NoError(t, b.Fill(src))

	line := string(b.AppendLine(nil))
	assert.Equal(t, "0.100 -0.250 1.000 0.000 0.123 -3.100\n", line)
}

func TestWriteLineMatchesAppendLine(t *testing.T) {
	b := NewBuffer(4)
	require.NoError(t, b.Fill(&countingSampler{}))

	var buf bytes.Buffer
	require.NoError(t, b.WriteLine(&buf))

	assert.Equal(t, string(b.AppendLine(nil)), buf.String())
	assert.True(t, strings.HasSuffix(buf.String(), "\n"))
	assert.Equal(t, 3*b.Len(), len(strings.Fields(buf.String())))
}

func TestEventCopiesValues(t *testing.T) {
	b := NewBuffer(2)
	require.NoError(t, b.Fill(&countingSampler{}))

	ts := time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC)
	ev := b.Event(ts)
	assert.Equal(t, "2026-08-24T12:00:00Z", ev.Time)
	assert.Equal(t, 2, ev.Samples)
	assert.Equal(t, b.Values(), ev.Values)

	// A later fill must not retroactively change the event.
	snapshot := append([]float64(nil), ev.Values...)
	require.NoError(t, b.Fill(&countingSampler{n: 50}))
	assert.Equal(t, snapshot, ev.Values)
}

// sliceValues replays fixed samples for format tests.
type sliceValues struct {
	values []accel.Sample
	i      int
}

func (s *sliceValues) Next() (accel.Sample, error) {
	if s.i >= len(s.values) {
		return accel.Sample{}, errors.New("out of samples")
	}
	out := s.values[s.i]
	s.i++
	return out, nil
}
