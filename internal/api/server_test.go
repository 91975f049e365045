package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/drmarkreuter/physiCCs/internal/engine"
	"github.com/drmarkreuter/physiCCs/internal/midiout"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func doRequest(t *testing.T, s *Server, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	w := httptest.NewRecorder()
	s.router().ServeHTTP(w, req)
	return w
}

func TestHealthCheck(t *testing.T) {
	s := NewServer(NewStateStore(), nil)

	for _, path := range []string{"/health", "/api/v1/health"} {
		w := doRequest(t, s, http.MethodGet, path)
		if w.Code != http.StatusOK {
			t.Errorf("%s: expected 200, got %d", path, w.Code)
		}

		var body map[string]string
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("%s: bad json: %v", path, err)
		}
		if body["status"] != "healthy" {
			t.Errorf("%s: expected healthy, got %s", path, body["status"])
		}
	}
}

func TestSnapshotBeforePublish(t *testing.T) {
	s := NewServer(NewStateStore(), nil)

	w := doRequest(t, s, http.MethodGet, "/api/v1/snapshot")
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503 before first publish, got %d", w.Code)
	}
}

func TestSnapshotAfterPublish(t *testing.T) {
	store := NewStateStore()
	store.Publish(engine.Snapshot{
		Module: "gravity",
		Tick:   42,
		Values: map[string]float64{"controller1": 64},
		SinkOK: true,
	})
	s := NewServer(store, nil)

	w := doRequest(t, s, http.MethodGet, "/api/v1/snapshot")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var snap engine.Snapshot
	if err := json.Unmarshal(w.Body.Bytes(), &snap); err != nil {
		t.Fatalf("bad json: %v", err)
	}
	if snap.Module != "gravity" {
		t.Errorf("expected module gravity, got %s", snap.Module)
	}
	if snap.Tick != 42 {
		t.Errorf("expected tick 42, got %d", snap.Tick)
	}
	if !snap.SinkOK {
		t.Error("expected sink ok")
	}
}

func TestMessagesEmptyWithoutRecorder(t *testing.T) {
	s := NewServer(NewStateStore(), nil)

	w := doRequest(t, s, http.MethodGet, "/api/v1/messages")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var body struct {
		Count int `json:"count"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("bad json: %v", err)
	}
	if body.Count != 0 {
		t.Errorf("expected no messages, got %d", body.Count)
	}
}

func TestMessagesTailAndLimit(t *testing.T) {
	rec := midiout.NewRecorder(16, nil)
	for v := 0; v < 10; v++ {
		if err := rec.SendControlChange(74, uint8(v)); err != nil {
			t.Fatal(err)
		}
	}
	s := NewServer(NewStateStore(), rec)

	w := doRequest(t, s, http.MethodGet, "/api/v1/messages?limit=3")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var body struct {
		Messages []midiout.Message `json:"messages"`
		Count    int               `json:"count"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("bad json: %v", err)
	}
	if body.Count != 3 {
		t.Fatalf("expected 3 messages, got %d", body.Count)
	}
	if body.Messages[2].Value != 9 {
		t.Errorf("expected newest message last, got value %d", body.Messages[2].Value)
	}
}

func TestMessagesBadLimit(t *testing.T) {
	s := NewServer(NewStateStore(), nil)

	w := doRequest(t, s, http.MethodGet, "/api/v1/messages?limit=zero")
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestCORSPreflightDoesNotHitHandlers(t *testing.T) {
	s := NewServer(NewStateStore(), nil)

	w := doRequest(t, s, http.MethodOptions, "/api/v1/snapshot")
	if w.Code != http.StatusNoContent {
		t.Errorf("expected 204 for preflight, got %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("expected wildcard origin, got %q", got)
	}
}
