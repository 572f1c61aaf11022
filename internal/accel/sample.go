package accel

// AxisCount is the number of accelerometer axes.
const AxisCount = 3

// RawScale is the divisor converting raw milli-g readings to g.
const RawScale = 1000.0

// Sample is one converted accelerometer reading, per axis, in g.
type Sample struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// AxesReader reads one raw triaxial sample in milli-g. Implementations may
// return the same values repeatedly when polled faster than the sensor's
// output data rate; Source filters those out.
type AxesReader interface {
	ReadAxes() (x, y, z int32, err error)
}

// Sampler is anything that can provide fresh samples over time: the real
// deduplicating Source, or a scripted source in tests.
type Sampler interface {
	Next() (Sample, error)
}
