package ws

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("condition not met in time")
}

func TestHub_BroadcastReachesRegisteredClients(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub(nil)
	go hub.Run(ctx)

	a := NewClient(hub, nil)
	b := NewClient(hub, nil)
	hub.Register(a)
	hub.Register(b)
	waitFor(t, func() bool { return hub.ClientCount() == 2 })

	hub.Broadcast([]byte("hello"))
	for _, c := range []*Client{a, b} {
		select {
		case msg := <-c.send:
			if string(msg) != "hello" {
				t.Fatalf("unexpected message %q", msg)
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for broadcast")
		}
	}

	hub.Unregister(a)
	waitFor(t, func() bool { return hub.ClientCount() == 1 })
	if _, ok := <-a.send; ok {
		t.Fatalf("expected closed send channel after unregister")
	}
}

func TestHub_StopClosesClients(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	hub := NewHub(nil)
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()

	c := NewClient(hub, nil)
	hub.Register(c)
	waitFor(t, func() bool { return hub.ClientCount() == 1 })

	cancel()
	<-stopped
	if _, ok := <-c.send; ok {
		t.Fatalf("expected closed send channel after stop")
	}

	late := NewClient(hub, nil)
	hub.Register(late)
	if _, ok := <-late.send; ok {
		t.Fatalf("expected late client to be closed immediately")
	}
}

func TestHandler_DeliversScrapeEvents(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub(nil)
	go hub.Run(ctx)

	server := httptest.NewServer(NewHandler(hub, nil))
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	waitFor(t, func() bool { return hub.ClientCount() == 1 })
	hub.NotifyScrape(ScrapeEvent{Type: EventScrapeCompleted, TaskID: "t1", URL: "https://example.org/jobs/1", Title: "Go Dev"})

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var evt ScrapeEvent
	if err := json.Unmarshal(data, &evt); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if evt.Type != EventScrapeCompleted || evt.TaskID != "t1" || evt.Title != "Go Dev" || evt.Timestamp == "" {
		t.Fatalf("unexpected event %+v", evt)
	}
}
