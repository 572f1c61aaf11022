package app

import (
	"encoding/json"
	"fmt"
	"image"
	"log"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/devices/v3/ssd1306"
	"periph.io/x/devices/v3/ssd1306/image1bit"
	"periph.io/x/host/v3"

	"github.com/relabs-tech/strum_sentinel/internal/config"
)

// displayData holds the latest state for the OLED.
type displayData struct {
	mu sync.RWMutex

	progress     Progress
	haveProgress bool
	verdict      Verdict
	haveVerdict  bool
}

// RunDisplay drives the SSD1306 status display: learning progress while the
// sentinel trains, the latest similarity verdict afterwards.
func RunDisplay() error {
	cfg := config.Get()

	// Initialize periph
	if _, err := host.Init(); err != nil {
		return fmt.Errorf("failed to initialize periph: %w", err)
	}

	// Open I2C bus
	bus, err := i2creg.Open("")
	if err != nil {
		return fmt.Errorf("failed to open I2C bus: %w", err)
	}
	defer bus.Close()

	dev, err := ssd1306.NewI2C(bus, &ssd1306.DefaultOpts)
	if err != nil {
		return fmt.Errorf("failed to initialize display: %w", err)
	}
	log.Println("display: initialized")

	if err := showSplash(dev); err != nil {
		log.Printf("display: error showing splash: %v", err)
	}

	data := &displayData{}

	// Connect to MQTT
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID(cfg.MQTTClientIDDisplay)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	log.Printf("display: connected to MQTT broker at %s", cfg.MQTTBroker)

	progressToken := client.Subscribe(cfg.TopicProgress, 0, func(_ mqtt.Client, msg mqtt.Message) {
		var p Progress
		if err := json.Unmarshal(msg.Payload(), &p); err != nil {
			log.Printf("display: progress unmarshal error: %v", err)
			return
		}
		data.mu.Lock()
		data.progress = p
		data.haveProgress = true
		data.mu.Unlock()
	})
	progressToken.Wait()
	if progressToken.Error() != nil {
		return progressToken.Error()
	}

	verdictToken := client.Subscribe(cfg.TopicVerdict, 0, func(_ mqtt.Client, msg mqtt.Message) {
		var v Verdict
		if err := json.Unmarshal(msg.Payload(), &v); err != nil {
			log.Printf("display: verdict unmarshal error: %v", err)
			return
		}
		data.mu.Lock()
		data.verdict = v
		data.haveVerdict = true
		data.mu.Unlock()
	})
	verdictToken.Wait()
	if verdictToken.Error() != nil {
		return verdictToken.Error()
	}

	// Display update loop
	ticker := time.NewTicker(time.Duration(cfg.DisplayUpdateInterval) * time.Millisecond)
	defer ticker.Stop()

	log.Println("display: starting update loop")

	for range ticker.C {
		data.mu.RLock()
		snapshot := displayData{
			progress:     data.progress,
			haveProgress: data.haveProgress,
			verdict:      data.verdict,
			haveVerdict:  data.haveVerdict,
		}
		data.mu.RUnlock()

		if err := updateStatusDisplay(dev, &snapshot); err != nil {
			log.Printf("display: update error: %v", err)
		}
	}
	return nil
}

func newDrawer(img *image1bit.VerticalLSB) *font.Drawer {
	return &font.Drawer{
		Dst:  img,
		Src:  &image.Uniform{image1bit.On},
		Face: basicfont.Face7x13,
	}
}

func blankImage() *image1bit.VerticalLSB {
	img := image1bit.NewVerticalLSB(image.Rect(0, 0, 128, 64))
	for i := range img.Pix {
		img.Pix[i] = 0
	}
	return img
}

func updateStatusDisplay(dev *ssd1306.Dev, data *displayData) error {
	img := blankImage()
	drawer := newDrawer(img)

	switch {
	case data.haveVerdict:
		drawer.Dot = fixed.P(0, 13)
		drawer.DrawBytes([]byte("CLASSIFYING"))

		drawer.Dot = fixed.P(0, 32)
		drawer.DrawBytes([]byte(fmt.Sprintf("SIM %3d", data.verdict.Similarity)))

		drawer.Dot = fixed.P(0, 52)
		if data.verdict.Anomaly {
			drawer.DrawBytes([]byte("** ANOMALY **"))
		} else {
			drawer.DrawBytes([]byte("nominal"))
		}

	case data.haveProgress:
		drawer.Dot = fixed.P(0, 13)
		drawer.DrawBytes([]byte("LEARNING"))

		drawer.Dot = fixed.P(0, 32)
		drawer.DrawBytes([]byte(fmt.Sprintf("%d/%d (%d%%)", data.progress.Learned, data.progress.Quota, data.progress.Pct)))

		if data.progress.Done {
			drawer.Dot = fixed.P(0, 52)
			drawer.DrawBytes([]byte("complete"))
		}

	default:
		drawer.Dot = fixed.P(0, 26)
		drawer.DrawBytes([]byte("Strum Sentinel"))
		drawer.Dot = fixed.P(0, 39)
		drawer.DrawBytes([]byte("Waiting..."))
	}

	return dev.Draw(dev.Bounds(), img, image.Point{})
}

func showSplash(dev *ssd1306.Dev) error {
	img := blankImage()
	drawer := newDrawer(img)

	drawer.Dot = fixed.P(10, 26)
	drawer.DrawBytes([]byte("Strum Sentinel"))

	drawer.Dot = fixed.P(5, 43)
	drawer.DrawBytes([]byte("Listening for"))

	drawer.Dot = fixed.P(25, 56)
	drawer.DrawBytes([]byte("strums"))

	return dev.Draw(dev.Bounds(), img, image.Point{})
}
