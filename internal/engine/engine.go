// Package engine defines the contract with the external pattern-learning
// collaborator and its available backends. The engine's matching algorithm
// is a black box to the rest of the system: it ingests flattened captures
// during training and later scores captures with a bounded similarity value.
package engine

// Engine is the pattern-learning/anomaly-detection collaborator.
type Engine interface {
	// Init prepares the engine for a fresh learn/detect session.
	Init() error
	// Learn ingests one flattened capture (3×M values, axis-major).
	Learn(values []float64) error
	// Detect scores one flattened capture against the learned patterns and
	// returns a similarity in [0, 100].
	Detect(values []float64) (int, error)
}
