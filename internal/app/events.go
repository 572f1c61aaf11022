package app

// Progress is the JSON payload published after each learning ingestion.
// Pct is the percentage before the ingestion is counted, so a quota of 5
// publishes 0, 20, 40, 60, 80.
type Progress struct {
	Time    string `json:"time"` // RFC3339
	Learned int    `json:"learned"`
	Quota   int    `json:"quota"`
	Pct     int    `json:"pct"`
	Done    bool   `json:"done"`
}

// Verdict is the JSON payload published for each classified capture.
type Verdict struct {
	Time       string `json:"time"` // RFC3339
	Similarity int    `json:"similarity"`
	Anomaly    bool   `json:"anomaly"`
}
