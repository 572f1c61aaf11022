package app

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/relabs-tech/strum_sentinel/internal/capture"
	"github.com/relabs-tech/strum_sentinel/internal/config"
)

// RunConsoleMQTT subscribes to the capture, progress and verdict topics and
// prints a one-line summary per event until interrupted.
func RunConsoleMQTT() error {
	cfg := config.Get()

	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID(cfg.MQTTClientIDConsole)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	log.Printf("console: connected to MQTT broker at %s", cfg.MQTTBroker)

	// Subscribe to captures
	captureToken := client.Subscribe(cfg.TopicCapture, 0, func(_ mqtt.Client, msg mqtt.Message) {
		var ev capture.Event
		if err := json.Unmarshal(msg.Payload(), &ev); err != nil {
			log.Printf("console: capture unmarshal error: %v", err)
			return
		}

		// The full capture is 3×M values; print the envelope, not the data.
		var peak float64
		for _, v := range ev.Values {
			if v > peak {
				peak = v
			} else if -v > peak {
				peak = -v
			}
		}
		fmt.Printf("[CAPT] time=%s samples=%d peak=%.3fg\n", ev.Time, ev.Samples, peak)
	})
	captureToken.Wait()
	if captureToken.Error() != nil {
		return captureToken.Error()
	}
	log.Printf("console: subscribed to %s", cfg.TopicCapture)

	// Subscribe to learning progress
	progressToken := client.Subscribe(cfg.TopicProgress, 0, func(_ mqtt.Client, msg mqtt.Message) {
		var p Progress
		if err := json.Unmarshal(msg.Payload(), &p); err != nil {
			log.Printf("console: progress unmarshal error: %v", err)
			return
		}

		fmt.Printf("[LEARN] %d/%d (%d%%)\n", p.Learned, p.Quota, p.Pct)
		if p.Done {
			fmt.Println("[LEARN] learning complete")
		}
	})
	progressToken.Wait()
	if progressToken.Error() != nil {
		return progressToken.Error()
	}
	log.Printf("console: subscribed to %s", cfg.TopicProgress)

	// Subscribe to verdicts
	verdictToken := client.Subscribe(cfg.TopicVerdict, 0, func(_ mqtt.Client, msg mqtt.Message) {
		var v Verdict
		if err := json.Unmarshal(msg.Payload(), &v); err != nil {
			log.Printf("console: verdict unmarshal error: %v", err)
			return
		}

		label := "nominal"
		if v.Anomaly {
			label = "ANOMALY"
		}
		fmt.Printf("[CLSF] similarity=%3d %s\n", v.Similarity, label)
	})
	verdictToken.Wait()
	if verdictToken.Error() != nil {
		return verdictToken.Error()
	}
	log.Printf("console: subscribed to %s", cfg.TopicVerdict)

	// Wait for Ctrl+C
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Println("console: shutting down")
	client.Disconnect(250)
	return nil
}
