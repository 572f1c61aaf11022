package indicator

import "log"

// Indicator receives the discrete status events of the sentinel. How an
// implementation realizes them (LED blinks, log lines, nothing) is its own
// business; the mode controller only emits the events.
type Indicator interface {
	// Learned fires after each capture is ingested during training.
	Learned()
	// LearningComplete fires exactly once, when the learning quota is reached.
	LearningComplete()
	// Anomaly fires for each classified capture below the similarity threshold.
	Anomaly()
	// Nominal fires for each classified capture at or above the threshold.
	Nominal()
}

// Console logs each event. The default when no LED pins are configured.
type Console struct{}

func (Console) Learned()          { log.Println("indicator: learned") }
func (Console) LearningComplete() { log.Println("indicator: learning complete") }
func (Console) Anomaly()          { log.Println("indicator: ANOMALY") }
func (Console) Nominal()          { log.Println("indicator: nominal") }
