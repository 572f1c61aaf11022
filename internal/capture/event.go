package capture

import "time"

// Event is the JSON payload published to MQTT for each completed capture.
type Event struct {
	Time    string    `json:"time"` // RFC3339
	Samples int       `json:"samples"`
	Values  []float64 `json:"values"`
}

// Event snapshots the buffer at time t. Values are copied so the event
// stays valid across later fills.
func (b *Buffer) Event(t time.Time) Event {
	values := make([]float64, len(b.values))
	copy(values, b.values)
	return Event{
		Time:    t.Format(time.RFC3339),
		Samples: b.length,
		Values:  values,
	}
}
