package httpapi

import (
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

const (
	feedWriteTimeout = 5 * time.Second
	feedPingInterval = 30 * time.Second
)

// handleFeedWS streams live engine events to an operator console. Reads are
// drained only to detect disconnects; the feed is one-way.
func (s *Server) handleFeedWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	s.metrics.SessionEvents.WithLabelValues("feed_connected").Inc()
	defer s.metrics.SessionEvents.WithLabelValues("feed_disconnected").Inc()

	events, cancel := s.hub.Subscribe()
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ping := time.NewTicker(feedPingInterval)
	defer ping.Stop()

	for {
		select {
		case <-done:
			return
		case <-r.Context().Done():
			return
		case <-ping.C:
			_ = conn.SetWriteDeadline(time.Now().Add(feedWriteTimeout))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case ev, ok := <-events:
			if !ok {
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(feedWriteTimeout))
			if err := conn.WriteJSON(ev); err != nil {
				log.Printf("feed write failed: %v", err)
				return
			}
		}
	}
}
