package app

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/gorilla/websocket"

	"github.com/relabs-tech/strum_sentinel/internal/config"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for local development
	},
}

// webState holds the latest progress and verdict plus the set of live
// websocket clients.
type webState struct {
	mu           sync.RWMutex
	progress     Progress
	haveProgress bool
	verdict      Verdict
	haveVerdict  bool

	clients map[*websocket.Conn]bool
}

// broadcast pushes one event payload to every connected websocket client,
// dropping clients whose connection has gone away.
func (s *webState) broadcast(payload []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for conn := range s.clients {
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			log.Printf("web: websocket write error, dropping client: %v", err)
			conn.Close()
			delete(s.clients, conn)
		}
	}
}

// RunWeb serves the dashboard: latest status as JSON, a websocket event
// stream, and static files from ./web.
func RunWeb() error {
	cfg := config.Get()
	state := &webState{clients: make(map[*websocket.Conn]bool)}

	// 1) Connect to MQTT broker
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID(cfg.MQTTClientIDWeb)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	log.Printf("web: connected to MQTT broker at %s", cfg.MQTTBroker)

	// 2) Subscribe to progress and verdict topics
	progressToken := client.Subscribe(cfg.TopicProgress, 0, func(_ mqtt.Client, msg mqtt.Message) {
		var p Progress
		if err := json.Unmarshal(msg.Payload(), &p); err != nil {
			log.Printf("web: progress unmarshal error: %v", err)
			return
		}
		state.mu.Lock()
		state.progress = p
		state.haveProgress = true
		state.mu.Unlock()
		state.broadcast(msg.Payload())
	})
	progressToken.Wait()
	if progressToken.Error() != nil {
		return progressToken.Error()
	}

	verdictToken := client.Subscribe(cfg.TopicVerdict, 0, func(_ mqtt.Client, msg mqtt.Message) {
		var v Verdict
		if err := json.Unmarshal(msg.Payload(), &v); err != nil {
			log.Printf("web: verdict unmarshal error: %v", err)
			return
		}
		state.mu.Lock()
		state.verdict = v
		state.haveVerdict = true
		state.mu.Unlock()
		state.broadcast(msg.Payload())
	})
	verdictToken.Wait()
	if verdictToken.Error() != nil {
		return verdictToken.Error()
	}
	log.Printf("web: subscribed to %s and %s", cfg.TopicProgress, cfg.TopicVerdict)

	// 3) JSON API endpoint: latest status
	http.HandleFunc("/api/status", func(w http.ResponseWriter, r *http.Request) {
		state.mu.RLock()
		defer state.mu.RUnlock()

		status := struct {
			Progress *Progress `json:"progress,omitempty"`
			Verdict  *Verdict  `json:"verdict,omitempty"`
		}{}
		if state.haveProgress {
			p := state.progress
			status.Progress = &p
		}
		if state.haveVerdict {
			v := state.verdict
			status.Verdict = &v
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(status); err != nil {
			log.Printf("web: json encode error: %v", err)
		}
	})

	// 4) Websocket event stream
	http.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("web: websocket upgrade error: %v", err)
			return
		}
		state.mu.Lock()
		state.clients[conn] = true
		state.mu.Unlock()
		log.Printf("web: websocket client connected (%s)", r.RemoteAddr)
	})

	// 5) Static files from ./web as the root
	fs := http.FileServer(http.Dir("web"))
	http.Handle("/", fs)

	addr := fmt.Sprintf(":%d", cfg.WebServerPort)
	log.Printf("web server listening on %s", addr)
	return http.ListenAndServe(addr, nil)
}
