package middleware

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

func TestStationSingleFlight_RejectsConcurrentScanFromSameStation(t *testing.T) {
	release := make(chan struct{})
	entered := make(chan struct{})

	var once sync.Once
	slow := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		first := false
		once.Do(func() { first = true })
		if first {
			// Solo el primer escaneo se queda procesando; los demás responden directo.
			close(entered)
			<-release
		}
		w.WriteHeader(http.StatusOK)
	})

	h := StationContext(nil)(StationSingleFlight()(slow))
	ts := httptest.NewServer(h)
	defer ts.Close()

	var wg sync.WaitGroup
	wg.Add(1)
	var firstStatus int
	go func() {
		defer wg.Done()
		req, _ := http.NewRequest("POST", ts.URL+"/scan", nil)
		req.Header.Set("X-Station-ID", "station-1")
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Errorf("first request error: %v", err)
			return
		}
		resp.Body.Close()
		firstStatus = resp.StatusCode
	}()

	<-entered // la primera request está dentro del handler

	req, _ := http.NewRequest("POST", ts.URL+"/scan", nil)
	req.Header.Set("X-Station-ID", "station-1")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("second request error: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409 for concurrent scan from same station, got %d", resp.StatusCode)
	}

	// Otra estación no se bloquea
	req2, _ := http.NewRequest("POST", ts.URL+"/scan", nil)
	req2.Header.Set("X-Station-ID", "station-2")
	resp2, err := http.DefaultClient.Do(req2)
	if err != nil {
		t.Fatalf("other-station request error: %v", err)
	}
	resp2.Body.Close()
	if resp2.StatusCode == http.StatusConflict {
		t.Fatalf("different station must not be blocked")
	}

	close(release)
	wg.Wait()

	if firstStatus != http.StatusOK {
		t.Fatalf("expected first scan to finish 200, got %d", firstStatus)
	}

	// Después de terminar, la estación vuelve a estar libre
	req3, _ := http.NewRequest("POST", ts.URL+"/scan", nil)
	req3.Header.Set("X-Station-ID", "station-1")
	resp3, err := http.DefaultClient.Do(req3)
	if err != nil {
		t.Fatalf("third request error: %v", err)
	}
	resp3.Body.Close()
	if resp3.StatusCode != http.StatusOK {
		t.Fatalf("expected station released after completion, got %d", resp3.StatusCode)
	}
}
