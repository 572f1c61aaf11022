package config

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
)

// Config holds all application configuration values. Tunables default to
// the deployed rig's constants and are fixed for the life of the process;
// there is no runtime reconfiguration.
type Config struct {
	// MQTT
	MQTTBroker           string
	MQTTClientIDLogger   string
	MQTTClientIDSentinel string
	MQTTClientIDConsole  string
	MQTTClientIDWeb      string
	MQTTClientIDDisplay  string

	// Topics
	TopicCapture  string
	TopicProgress string
	TopicVerdict  string

	// Accelerometer hardware
	AccelDriver     string // "lsm6dsl" or "mpu9250"
	AccelSPIDevice  string
	AccelCSPin      string // chip-select GPIO, mpu9250 only
	AccelODRHz      float64
	AccelFullScaleG int

	// Trigger
	TriggerWindow     int
	TriggerRatio      float64
	TriggerNoiseFloor float64

	// Capture / learning
	CaptureLength       int
	LearningQuota       int
	SimilarityThreshold int

	// Pattern engine
	Engine           string // "serial" or "baseline"
	EngineSerialPort string
	EngineBaudRate   int

	// Status LEDs; leave empty to log events instead
	LEDLearnPin   string
	LEDAnomalyPin string
	LEDNominalPin string

	// Logging mode output; empty means stdout
	CaptureLogPath string

	// Web Server
	WebServerPort int

	// Display
	DisplayUpdateInterval int // milliseconds
}

// Package-level unexported variables for singleton pattern:
//   - globalConfig: unexported so other packages cannot access it directly.
//   - configOnce: ensures InitGlobal() only runs once, even if called multiple times.
//   - configMu: RWMutex protects concurrent access.
//
// External code must use InitGlobal() to set and Get() to read.
var (
	globalConfig *Config
	configOnce   sync.Once
	configMu     sync.RWMutex
)

// defaults returns a Config populated with the rig's deployed constants.
func defaults() *Config {
	return &Config{
		MQTTBroker:           "tcp://localhost:1883",
		MQTTClientIDLogger:   "strum-logger",
		MQTTClientIDSentinel: "strum-sentinel",
		MQTTClientIDConsole:  "strum-console",
		MQTTClientIDWeb:      "strum-web",
		MQTTClientIDDisplay:  "strum-display",

		TopicCapture:  "strum/capture",
		TopicProgress: "strum/progress",
		TopicVerdict:  "strum/verdict",

		AccelDriver:     "lsm6dsl",
		AccelSPIDevice:  "/dev/spidev0.0",
		AccelODRHz:      3330,
		AccelFullScaleG: 4,

		TriggerWindow:     5,
		TriggerRatio:      1.4,
		TriggerNoiseFloor: 0.15,

		CaptureLength:       1024,
		LearningQuota:       5,
		SimilarityThreshold: 90,

		Engine:           "baseline",
		EngineSerialPort: "/dev/ttyUSB0",
		EngineBaudRate:   115200,

		WebServerPort: 8080,

		DisplayUpdateInterval: 250,
	}
}

// Load reads the configuration file over the defaults and returns a Config.
func Load(configPath string) (*Config, error) {
	file, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	cfg := defaults()
	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Parse KEY=VALUE
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid config line %d: %q", lineNum, line)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		if err := cfg.setValue(key, value); err != nil {
			return nil, fmt.Errorf("config line %d: %w", lineNum, err)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// setValue sets a config value based on the key.
func (c *Config) setValue(key, value string) error {
	switch key {
	// MQTT
	case "MQTT_BROKER":
		c.MQTTBroker = value
	case "MQTT_CLIENT_ID_LOGGER":
		c.MQTTClientIDLogger = value
	case "MQTT_CLIENT_ID_SENTINEL":
		c.MQTTClientIDSentinel = value
	case "MQTT_CLIENT_ID_CONSOLE":
		c.MQTTClientIDConsole = value
	case "MQTT_CLIENT_ID_WEB":
		c.MQTTClientIDWeb = value
	case "MQTT_CLIENT_ID_DISPLAY":
		c.MQTTClientIDDisplay = value

	// Topics
	case "TOPIC_CAPTURE":
		c.TopicCapture = value
	case "TOPIC_PROGRESS":
		c.TopicProgress = value
	case "TOPIC_VERDICT":
		c.TopicVerdict = value

	// Accelerometer hardware
	case "ACCEL_DRIVER":
		c.AccelDriver = value
	case "ACCEL_SPI_DEVICE":
		c.AccelSPIDevice = value
	case "ACCEL_CS_PIN":
		c.AccelCSPin = value
	case "ACCEL_ODR_HZ":
		odr, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid ACCEL_ODR_HZ %q: %w", value, err)
		}
		c.AccelODRHz = odr
	case "ACCEL_FULL_SCALE_G":
		fs, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid ACCEL_FULL_SCALE_G %q: %w", value, err)
		}
		c.AccelFullScaleG = fs

	// Trigger
	case "TRIGGER_WINDOW":
		w, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid TRIGGER_WINDOW %q: %w", value, err)
		}
		if w < 1 {
			return fmt.Errorf("TRIGGER_WINDOW must be >= 1, got %d", w)
		}
		c.TriggerWindow = w
	case "TRIGGER_RATIO":
		r, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid TRIGGER_RATIO %q: %w", value, err)
		}
		if r <= 0 {
			return fmt.Errorf("TRIGGER_RATIO must be > 0, got %g", r)
		}
		c.TriggerRatio = r
	case "TRIGGER_NOISE_FLOOR":
		n, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid TRIGGER_NOISE_FLOOR %q: %w", value, err)
		}
		if n < 0 {
			return fmt.Errorf("TRIGGER_NOISE_FLOOR must be >= 0, got %g", n)
		}
		c.TriggerNoiseFloor = n

	// Capture / learning
	case "CAPTURE_LENGTH":
		l, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid CAPTURE_LENGTH %q: %w", value, err)
		}
		if l < 1 {
			return fmt.Errorf("CAPTURE_LENGTH must be >= 1, got %d", l)
		}
		c.CaptureLength = l
	case "LEARNING_QUOTA":
		q, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid LEARNING_QUOTA %q: %w", value, err)
		}
		if q < 1 {
			return fmt.Errorf("LEARNING_QUOTA must be >= 1, got %d", q)
		}
		c.LearningQuota = q
	case "SIMILARITY_THRESHOLD":
		t, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid SIMILARITY_THRESHOLD %q: %w", value, err)
		}
		if t < 0 || t > 100 {
			return fmt.Errorf("SIMILARITY_THRESHOLD must be 0-100, got %d", t)
		}
		c.SimilarityThreshold = t

	// Pattern engine
	case "ENGINE":
		c.Engine = value
	case "ENGINE_SERIAL_PORT":
		c.EngineSerialPort = value
	case "ENGINE_BAUD_RATE":
		rate, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid ENGINE_BAUD_RATE %q: %w", value, err)
		}
		c.EngineBaudRate = rate

	// LEDs
	case "LED_LEARN_PIN":
		c.LEDLearnPin = value
	case "LED_ANOMALY_PIN":
		c.LEDAnomalyPin = value
	case "LED_NOMINAL_PIN":
		c.LEDNominalPin = value

	// Logging mode output
	case "CAPTURE_LOG_PATH":
		c.CaptureLogPath = value

	// Web Server
	case "WEB_SERVER_PORT":
		port, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid WEB_SERVER_PORT %q: %w", value, err)
		}
		c.WebServerPort = port

	// Display
	case "DISPLAY_UPDATE_INTERVAL":
		interval, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid DISPLAY_UPDATE_INTERVAL %q: %w", value, err)
		}
		c.DisplayUpdateInterval = interval

	default:
		return fmt.Errorf("unknown config key: %q", key)
	}

	return nil
}

// validate checks cross-field constraints.
func (c *Config) validate() error {
	if c.MQTTBroker == "" {
		return fmt.Errorf("MQTT_BROKER is required")
	}
	switch c.AccelDriver {
	case "lsm6dsl":
	case "mpu9250":
		if c.AccelCSPin == "" {
			return fmt.Errorf("ACCEL_CS_PIN is required for the mpu9250 driver")
		}
	default:
		return fmt.Errorf("ACCEL_DRIVER must be \"lsm6dsl\" or \"mpu9250\", got %q", c.AccelDriver)
	}
	switch c.Engine {
	case "baseline":
	case "serial":
		if c.EngineSerialPort == "" {
			return fmt.Errorf("ENGINE_SERIAL_PORT is required for the serial engine")
		}
		if c.EngineBaudRate == 0 {
			return fmt.Errorf("ENGINE_BAUD_RATE is required for the serial engine")
		}
	default:
		return fmt.Errorf("ENGINE must be \"serial\" or \"baseline\", got %q", c.Engine)
	}

	// LED pins come as a full set or not at all.
	pins := 0
	for _, p := range []string{c.LEDLearnPin, c.LEDAnomalyPin, c.LEDNominalPin} {
		if p != "" {
			pins++
		}
	}
	if pins != 0 && pins != 3 {
		return fmt.Errorf("LED_LEARN_PIN, LED_ANOMALY_PIN and LED_NOMINAL_PIN must be set together")
	}
	return nil
}

// LEDsConfigured reports whether all three status LED pins are set.
func (c *Config) LEDsConfigured() bool {
	return c.LEDLearnPin != "" && c.LEDAnomalyPin != "" && c.LEDNominalPin != ""
}

// InitGlobal initializes the global configuration from file.
// Uses sync.Once to ensure this only runs once, even if called multiple times.
func InitGlobal(configPath string) error {
	var err error
	configOnce.Do(func() {
		configMu.Lock()
		defer configMu.Unlock()
		globalConfig, err = Load(configPath)
	})
	return err
}

// Get returns the global configuration instance.
// InitGlobal must be called first, or this will return nil.
func Get() *Config {
	configMu.RLock()
	defer configMu.RUnlock()
	return globalConfig
}
