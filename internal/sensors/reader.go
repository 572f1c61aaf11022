package sensors

import (
	"fmt"

	"github.com/relabs-tech/strum_sentinel/internal/accel"
	"github.com/relabs-tech/strum_sentinel/internal/config"
)

// Driver is the common surface of the accelerometer backends: startup-only
// configuration plus the raw read the pipeline polls.
type Driver interface {
	accel.AxesReader
	Configure(odrHz float64, fullScaleG int) error
	Enable() error
}

// NewReader opens the configured accelerometer backend, applies the
// configured rate and range, and enables it.
func NewReader() (accel.AxesReader, error) {
	cfg := config.Get()

	var (
		d   Driver
		err error
	)
	switch cfg.AccelDriver {
	case "lsm6dsl":
		d, err = NewLSM6DSL(cfg.AccelSPIDevice)
	case "mpu9250":
		d, err = NewMPU9250(cfg.AccelSPIDevice, cfg.AccelCSPin)
	default:
		return nil, fmt.Errorf("unknown accelerometer driver %q", cfg.AccelDriver)
	}
	if err != nil {
		return nil, err
	}

	if err := d.Configure(cfg.AccelODRHz, cfg.AccelFullScaleG); err != nil {
		return nil, err
	}
	if err := d.Enable(); err != nil {
		return nil, err
	}
	return d, nil
}
