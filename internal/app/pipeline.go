package app

import (
	"github.com/relabs-tech/strum_sentinel/internal/accel"
	"github.com/relabs-tech/strum_sentinel/internal/capture"
	"github.com/relabs-tech/strum_sentinel/internal/config"
	"github.com/relabs-tech/strum_sentinel/internal/sensors"
	"github.com/relabs-tech/strum_sentinel/internal/trigger"
)

// pipeline bundles the acquisition chain shared by both operating modes:
// deduplicating sample source, strum trigger, and the single capture buffer.
// The buffer is owned here and refilled in place on every trigger; nothing
// downstream retains a reference across fills.
type pipeline struct {
	src *accel.Source
	det *trigger.Detector
	buf *capture.Buffer
}

// newPipeline opens the configured sensor and builds the chain around it.
func newPipeline() (*pipeline, error) {
	cfg := config.Get()

	reader, err := sensors.NewReader()
	if err != nil {
		return nil, err
	}

	return &pipeline{
		src: accel.NewSource(reader),
		det: trigger.New(cfg.TriggerWindow, cfg.TriggerRatio, cfg.TriggerNoiseFloor),
		buf: capture.NewBuffer(cfg.CaptureLength),
	}, nil
}
