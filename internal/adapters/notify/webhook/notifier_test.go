package webhook

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"attendance-engine/internal/platform/bus"
	"attendance-engine/internal/platform/logger"
)

func TestNotifier_ForwardsBusTopicsToDashboard(t *testing.T) {
	received := make([]payload, 0)
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/notifications" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var p payload
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			t.Errorf("decode: %v", err)
		}
		received = append(received, p)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer ts.Close()

	log := logger.New(logger.Options{Level: logger.Error})
	b := bus.New(log)

	n, err := New(Config{BaseURL: ts.URL}, log)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	n.Attach(b)
	defer n.Detach()

	b.Publish(bus.TopicAttendanceUpdated, map[string]string{"subject_id": "s1"})
	b.Publish(bus.TopicLocationDashboard, map[string]string{"location_key": "hq"})

	// Entrega síncrona del bus: al volver de Publish los POSTs ya salieron.
	if len(received) != 2 {
		t.Fatalf("expected 2 webhook deliveries, got %d", len(received))
	}
	if received[0].Topic != bus.TopicAttendanceUpdated {
		t.Fatalf("unexpected first topic %s", received[0].Topic)
	}
	if received[1].Topic != bus.TopicLocationDashboard {
		t.Fatalf("unexpected second topic %s", received[1].Topic)
	}
}

func TestNew_DisabledWithoutBaseURL(t *testing.T) {
	n, err := New(Config{}, logger.New(logger.Options{Level: logger.Error}))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if n != nil {
		t.Fatalf("expected nil notifier when BaseURL is empty")
	}

	// Attach/Detach sobre nil no debe explotar.
	n.Attach(bus.New(logger.New(logger.Options{Level: logger.Error})))
	n.Detach()
}
