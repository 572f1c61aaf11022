package engine

import (
	"errors"
	"fmt"
	"math"

	"github.com/relabs-tech/strum_sentinel/internal/accel"
)

// Baseline is an in-process Engine used for bench runs and tests when no
// serial engine is attached. It learns the average per-axis energy of the
// training captures and scores later captures by relative distance to that
// envelope. It is a stand-in with just enough behavior to exercise the
// pipeline end to end, not a real pattern matcher.
type Baseline struct {
	learned int
	sig     [accel.AxisCount]float64
}

func NewBaseline() *Baseline {
	return &Baseline{}
}

// Init resets the learned signature.
func (b *Baseline) Init() error {
	b.learned = 0
	b.sig = [accel.AxisCount]float64{}
	return nil
}

// Learn folds one capture's per-axis mean magnitude into the running
// signature.
func (b *Baseline) Learn(values []float64) error {
	s, err := axisEnergy(values)
	if err != nil {
		return err
	}
	b.learned++
	for i := range b.sig {
		b.sig[i] += (s[i] - b.sig[i]) / float64(b.learned)
	}
	return nil
}

// Detect scores a capture against the learned signature: 100 means the
// per-axis energy matches exactly, 0 means it is off by the signature's own
// magnitude or more.
func (b *Baseline) Detect(values []float64) (int, error) {
	if b.learned == 0 {
		return 0, errors.New("baseline engine: detect before any learn")
	}
	s, err := axisEnergy(values)
	if err != nil {
		return 0, err
	}

	var dist, norm float64
	for i := range b.sig {
		dist += math.Abs(s[i] - b.sig[i])
		norm += math.Abs(b.sig[i])
	}
	if norm == 0 {
		return 0, nil
	}

	similarity := 100 - int(math.Round(100*dist/norm))
	if similarity < 0 {
		similarity = 0
	}
	if similarity > 100 {
		similarity = 100
	}
	return similarity, nil
}

// axisEnergy reduces a flattened axis-major capture to the per-axis mean
// absolute magnitude.
func axisEnergy(values []float64) ([accel.AxisCount]float64, error) {
	var out [accel.AxisCount]float64
	if len(values) == 0 || len(values)%accel.AxisCount != 0 {
		return out, fmt.Errorf("baseline engine: capture length %d is not a multiple of %d", len(values), accel.AxisCount)
	}
	n := len(values) / accel.AxisCount
	for i := 0; i < n; i++ {
		for a := 0; a < accel.AxisCount; a++ {
			out[a] += math.Abs(values[accel.AxisCount*i+a])
		}
	}
	for a := range out {
		out[a] /= float64(n)
	}
	return out, nil
}
