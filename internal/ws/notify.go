package ws

import (
	"encoding/json"
	"time"

	"go.uber.org/zap"
)

const (
	EventScrapeCompleted = "scrape_completed"
	EventScrapeFailed    = "scrape_failed"
)

type ScrapeEvent struct {
	Type      string `json:"type"`
	TaskID    string `json:"task_id"`
	URL       string `json:"url"`
	JobID     string `json:"job_id,omitempty"`
	Title     string `json:"title,omitempty"`
	Error     string `json:"error,omitempty"`
	Timestamp string `json:"timestamp"`
}

// NotifyScrape publishes a scrape outcome to all subscribers.
func (h *Hub) NotifyScrape(evt ScrapeEvent) {
	if h == nil {
		return
	}
	if evt.Timestamp == "" {
		evt.Timestamp = time.Now().UTC().Format(time.RFC3339)
	}
	b, err := json.Marshal(evt)
	if err != nil {
		h.logger.Warn("ws event encode failed", zap.Error(err))
		return
	}
	h.Broadcast(b)
}
