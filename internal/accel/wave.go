package accel

import "math"

// WaveReader is a synthetic AxesReader for bench runs without hardware.
// It generates a quiet carrier with periodic high-amplitude bursts, so a
// downstream trigger sees realistic onsets. Values are in milli-g, like a
// real sensor.
type WaveReader struct {
	BaseMG     float64 // resting carrier amplitude
	BurstMG    float64 // amplitude during a burst
	Period     int     // samples per carrier cycle
	BurstEvery int     // samples between burst onsets
	BurstLen   int     // samples per burst

	n int
}

// NewWaveReader creates a WaveReader with amplitudes that clear the default
// noise floor at rest and fire the default trigger on each burst.
func NewWaveReader() *WaveReader {
	return &WaveReader{
		BaseMG:     300,
		BurstMG:    1200,
		Period:     37,
		BurstEvery: 400,
		BurstLen:   60,
	}
}

func (w *WaveReader) ReadAxes() (int32, int32, int32, error) {
	amp := w.BaseMG
	if w.n%w.BurstEvery < w.BurstLen {
		amp = w.BurstMG
	}
	phase := 2 * math.Pi * float64(w.n) / float64(w.Period)
	w.n++

	// Offsets keep every axis away from zero so per-axis means stay above
	// the noise gate; the sample index term avoids duplicate triples.
	jitter := float64(w.n%7) - 3
	x := amp*(0.8+0.2*math.Sin(phase)) + jitter
	y := amp*(0.8+0.2*math.Cos(phase)) - jitter
	z := amp*(0.8+0.2*math.Sin(phase*0.7)) + 2*jitter
	return int32(x), int32(y), int32(z), nil
}
