package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/youmna-rabie/fermi-events/internal/catalog"
	"github.com/youmna-rabie/fermi-events/internal/config"
	"github.com/youmna-rabie/fermi-events/internal/event"
	"github.com/youmna-rabie/fermi-events/internal/kv"
	"github.com/youmna-rabie/fermi-events/internal/notify"
	"github.com/youmna-rabie/fermi-events/internal/types"
)

// recordingPublisher keeps every notice it is given.
type recordingPublisher struct {
	mu      sync.Mutex
	notices []notify.Notice
	err     error
}

func (p *recordingPublisher) Publish(_ context.Context, n notify.Notice) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.notices = append(p.notices, n)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) all() []notify.Notice {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]notify.Notice(nil), p.notices...)
}

// testSetup creates a Server over an in-memory store seeded with the
// built-in catalog.
func testSetup(t *testing.T) (*Server, *event.Store, *recordingPublisher) {
	t.Helper()

	cfg := &config.Config{
		Server: config.ServerConfig{Host: "127.0.0.1", Port: 0, ShutdownTimeout: time.Second},
	}

	logger := slog.Default()
	adapter := kv.NewAdapter(kv.NewMemoryBackend(), kv.DriverMemory, logger)
	store := event.NewStore(adapter, catalog.Default(), logger)
	if err := store.Load(context.Background()); err != nil {
		t.Fatal(err)
	}

	pub := &recordingPublisher{}
	return NewServer(cfg, store, pub, logger), store, pub
}

func do(t *testing.T, srv *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rec.Body).Decode(&v); err != nil {
		t.Fatalf("decoding response: %v (body %q)", err, rec.Body.String())
	}
	return v
}

type eventsResponse struct {
	Events []types.Event `json:"events"`
	Count  int           `json:"count"`
}

// --- Health endpoint ---

func TestHealthEndpoint(t *testing.T) {
	srv, _, _ := testSetup(t)
	rec := do(t, srv, http.MethodGet, "/health", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	body := decode[map[string]any](t, rec)
	if body["status"] != "ok" {
		t.Fatalf("expected status ok, got %v", body["status"])
	}
	if body["loading"] != false {
		t.Fatalf("expected loading false after Load, got %v", body["loading"])
	}
}

// --- Event listing ---

func TestListEvents(t *testing.T) {
	srv, _, _ := testSetup(t)
	rec := do(t, srv, http.MethodGet, "/events", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := decode[eventsResponse](t, rec)
	if body.Count != 4 {
		t.Fatalf("count = %d, want 4", body.Count)
	}
	if body.Events[0].Date != "2025-09-23" || body.Events[3].Date != "2025-11-21" {
		t.Errorf("events not sorted by date: %s .. %s", body.Events[0].Date, body.Events[3].Date)
	}
}

func TestListEventsByCategory(t *testing.T) {
	srv, _, _ := testSetup(t)

	tests := []struct {
		query string
		code  int
		count int
	}{
		{"?category=tripje", http.StatusOK, 1},
		{"?category=educatief", http.StatusOK, 3},
		{"?category=muziek", http.StatusOK, 0},
		{"?category=all", http.StatusOK, 4},
		{"?category=karaoke", http.StatusBadRequest, 0},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			rec := do(t, srv, http.MethodGet, "/events"+tt.query, "")
			if rec.Code != tt.code {
				t.Fatalf("expected %d, got %d", tt.code, rec.Code)
			}
			if tt.code != http.StatusOK {
				return
			}
			body := decode[eventsResponse](t, rec)
			if body.Count != tt.count || len(body.Events) != tt.count {
				t.Errorf("count = %d (%d events), want %d", body.Count, len(body.Events), tt.count)
			}
		})
	}
}

func TestGetEvent(t *testing.T) {
	srv, _, _ := testSetup(t)

	rec := do(t, srv, http.MethodGet, "/events/1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := decode[map[string]any](t, rec)
	if body["title"] != "Wild in Groningen" {
		t.Errorf("title = %v", body["title"])
	}
	if body["spotsLeft"] != float64(9) {
		t.Errorf("spotsLeft = %v, want 9", body["spotsLeft"])
	}
	if body["registered"] != false || body["soldOut"] != false {
		t.Errorf("registered = %v, soldOut = %v", body["registered"], body["soldOut"])
	}

	if rec := do(t, srv, http.MethodGet, "/events/nope", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestEventsByDate(t *testing.T) {
	srv, _, _ := testSetup(t)

	rec := do(t, srv, http.MethodGet, "/events/date/2025-10-12", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := decode[eventsResponse](t, rec)
	if body.Count != 1 || body.Events[0].ID != "13" {
		t.Errorf("events = %+v", body.Events)
	}

	if rec := do(t, srv, http.MethodGet, "/events/date/12-10-2025", ""); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestCalendar(t *testing.T) {
	srv, _, _ := testSetup(t)

	tests := []struct {
		path  string
		code  int
		count int
	}{
		{"/calendar/2025/10", http.StatusOK, 2},
		{"/calendar/2025/9", http.StatusOK, 1},
		{"/calendar/2025/12", http.StatusOK, 0},
		{"/calendar/2025/0", http.StatusBadRequest, 0},
		{"/calendar/2025/13", http.StatusBadRequest, 0},
		{"/calendar/next/1", http.StatusBadRequest, 0},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := do(t, srv, http.MethodGet, tt.path, "")
			if rec.Code != tt.code {
				t.Fatalf("expected %d, got %d", tt.code, rec.Code)
			}
			if tt.code == http.StatusOK {
				if body := decode[eventsResponse](t, rec); body.Count != tt.count {
					t.Errorf("count = %d, want %d", body.Count, tt.count)
				}
			}
		})
	}
}

func TestCategories(t *testing.T) {
	srv, _, _ := testSetup(t)
	rec := do(t, srv, http.MethodGet, "/categories", "")

	body := decode[struct {
		Categories []categoryInfo `json:"categories"`
	}](t, rec)
	if len(body.Categories) != len(types.Categories) {
		t.Fatalf("categories = %d, want %d", len(body.Categories), len(types.Categories))
	}
	for _, c := range body.Categories {
		if c.Label == "" || !strings.HasPrefix(c.Color, "#") {
			t.Errorf("category %q has label %q color %q", c.ID, c.Label, c.Color)
		}
	}
}

// --- Registration pipeline ---

func TestRegisterPipeline(t *testing.T) {
	srv, store, pub := testSetup(t)

	rec := do(t, srv, http.MethodPost, "/events/1/registrations", `{"userName":"A","userEmail":"a@x.com"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	reg := decode[types.Registration](t, rec)
	if reg.ID == "" || reg.EventID != "1" || reg.Status != types.RegistrationStatusConfirmed {
		t.Errorf("registration = %+v", reg)
	}

	e, _ := store.Event("1")
	if e.CurrentParticipants != 22 {
		t.Errorf("currentParticipants = %d, want 22", e.CurrentParticipants)
	}

	notices := pub.all()
	if len(notices) != 1 {
		t.Fatalf("notices = %d, want 1", len(notices))
	}
	if notices[0].Type != notify.NoticeConfirmed || notices[0].EventTitle != "Wild in Groningen" || notices[0].Registration.ID != reg.ID {
		t.Errorf("notice = %+v", notices[0])
	}

	// A second registration for the same event conflicts.
	rec = do(t, srv, http.MethodPost, "/events/1/registrations", `{"userName":"B","userEmail":"b@x.com"}`)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 for duplicate, got %d", rec.Code)
	}
}

func TestRegisterErrors(t *testing.T) {
	tests := []struct {
		name        string
		path        string
		body        string
		contentType string
		code        int
	}{
		{"unknown event", "/events/nope/registrations", `{"userName":"A","userEmail":"a@x.com"}`, "application/json", http.StatusNotFound},
		{"missing name", "/events/1/registrations", `{"userEmail":"a@x.com"}`, "application/json", http.StatusBadRequest},
		{"blank name", "/events/1/registrations", `{"userName":"  ","userEmail":"a@x.com"}`, "application/json", http.StatusBadRequest},
		{"email without at", "/events/1/registrations", `{"userName":"A","userEmail":"ax.com"}`, "application/json", http.StatusBadRequest},
		{"invalid json", "/events/1/registrations", `{"userName":`, "application/json", http.StatusBadRequest},
		{"wrong content type", "/events/1/registrations", `{"userName":"A","userEmail":"a@x.com"}`, "text/plain", http.StatusBadRequest},
		{"charset accepted", "/events/1/registrations", `{"userName":"A","userEmail":"a@x.com"}`, "application/json; charset=utf-8", http.StatusCreated},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _, pub := testSetup(t)
			req := httptest.NewRequest(http.MethodPost, tt.path, strings.NewReader(tt.body))
			req.Header.Set("Content-Type", tt.contentType)
			rec := httptest.NewRecorder()
			srv.ServeHTTP(rec, req)

			if rec.Code != tt.code {
				t.Fatalf("expected %d, got %d: %s", tt.code, rec.Code, rec.Body.String())
			}
			if tt.code != http.StatusCreated && len(pub.all()) != 0 {
				t.Error("rejected request published a notice")
			}
		})
	}
}

func TestRegisterBodyTooLarge(t *testing.T) {
	srv, _, _ := testSetup(t)

	big := `{"userName":"` + strings.Repeat("a", maxBodySize) + `","userEmail":"a@x.com"}`
	req := httptest.NewRequest(http.MethodPost, "/events/1/registrations", bytes.NewBufferString(big))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if body := decode[map[string]string](t, rec); !strings.Contains(body["error"], "1MB") {
		t.Errorf("error = %q", body["error"])
	}
}

func TestRegisterSoldOut(t *testing.T) {
	logger := slog.Default()
	backend := kv.NewMemoryBackend()
	backend.Set(context.Background(), event.EventsKey, `[{"id":"full","title":"Full","date":"2025-12-01","maxParticipants":2,"currentParticipants":2}]`)
	store := event.NewStore(kv.NewAdapter(backend, kv.DriverMemory, logger), catalog.Default(), logger)
	srv := NewServer(&config.Config{}, store, &recordingPublisher{}, logger)

	rec := do(t, srv, http.MethodPost, "/events/full/registrations", `{"userName":"A","userEmail":"a@x.com"}`)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
	if body := decode[map[string]string](t, rec); body["error"] != event.ErrEventFull.Error() {
		t.Errorf("error = %q", body["error"])
	}
}

func TestPublishFailureDoesNotFailRequest(t *testing.T) {
	srv, store, pub := testSetup(t)
	pub.err = errors.New("broker down")

	rec := do(t, srv, http.MethodPost, "/events/12/registrations", `{"userName":"A","userEmail":"a@x.com"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if !store.IsRegisteredForEvent("12") {
		t.Error("registration missing after publish failure")
	}
}

// --- Cancellation ---

func TestCancelPipeline(t *testing.T) {
	srv, store, pub := testSetup(t)

	rec := do(t, srv, http.MethodPost, "/events/13/registrations", `{"userName":"A","userEmail":"a@x.com"}`)
	reg := decode[types.Registration](t, rec)

	rec = do(t, srv, http.MethodDelete, "/registrations/"+reg.ID, "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if store.IsRegisteredForEvent("13") {
		t.Error("still registered after cancel")
	}
	if e, _ := store.Event("13"); e.CurrentParticipants != 28 {
		t.Errorf("currentParticipants = %d, want 28", e.CurrentParticipants)
	}

	notices := pub.all()
	if len(notices) != 2 || notices[1].Type != notify.NoticeCancelled || notices[1].EventTitle != "Impuls Cursus" {
		t.Errorf("notices = %+v", notices)
	}

	if rec := do(t, srv, http.MethodDelete, "/registrations/"+reg.ID, ""); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 on second cancel, got %d", rec.Code)
	}
}

func TestListRegistrations(t *testing.T) {
	srv, _, _ := testSetup(t)

	rec := do(t, srv, http.MethodGet, "/registrations", "")
	body := decode[map[string]any](t, rec)
	if body["count"] != float64(0) {
		t.Fatalf("count = %v, want 0", body["count"])
	}

	do(t, srv, http.MethodPost, "/events/14/registrations", `{"userName":"A","userEmail":"a@x.com"}`)

	rec = do(t, srv, http.MethodGet, "/registrations", "")
	joined := decode[struct {
		Registrations []types.UserRegistration `json:"registrations"`
	}](t, rec)
	if len(joined.Registrations) != 1 || joined.Registrations[0].Event.ID != "14" {
		t.Errorf("registrations = %+v", joined.Registrations)
	}
}

// --- Middleware ---

func TestRequestIDMiddleware(t *testing.T) {
	srv, _, _ := testSetup(t)
	rec := do(t, srv, http.MethodGet, "/health", "")

	if rid := rec.Header().Get("X-Request-ID"); rid == "" {
		t.Fatal("expected X-Request-ID header to be set")
	}
}

func TestRequestIDPassthrough(t *testing.T) {
	srv, _, _ := testSetup(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "test-id-123")
	rec := httptest.NewRecorder()

	srv.ServeHTTP(rec, req)

	if rid := rec.Header().Get("X-Request-ID"); rid != "test-id-123" {
		t.Fatalf("expected X-Request-ID test-id-123, got %q", rid)
	}
}

func TestLoggingMiddleware(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	handler := Logging(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		w.Write([]byte("short"))
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/tea", nil))

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("failed to parse log output: %v", err)
	}
	if entry["status"] != float64(http.StatusTeapot) {
		t.Errorf("status = %v, want 418", entry["status"])
	}
	if entry["bytes"] != float64(5) {
		t.Errorf("bytes = %v, want 5", entry["bytes"])
	}
	if entry["path"] != "/tea" {
		t.Errorf("path = %v", entry["path"])
	}
}

func TestRecoveryMiddleware(t *testing.T) {
	logger := slog.Default()
	handler := Recovery(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("test panic")
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	ctx := context.WithValue(req.Context(), requestIDKey, "test-recovery")
	req = req.WithContext(ctx)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}

	body := decode[map[string]string](t, rec)
	if body["error"] != "internal server error" {
		t.Fatalf("expected internal server error, got %q", body["error"])
	}
}

// --- Response format ---

func TestResponsesAreJSON(t *testing.T) {
	srv, _, _ := testSetup(t)

	endpoints := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/health"},
		{http.MethodGet, "/events"},
		{http.MethodGet, "/events/1"},
		{http.MethodGet, "/events/missing"},
		{http.MethodGet, "/calendar/2025/10"},
		{http.MethodGet, "/registrations"},
		{http.MethodGet, "/categories"},
	}

	for _, ep := range endpoints {
		t.Run(ep.method+" "+ep.path, func(t *testing.T) {
			rec := do(t, srv, ep.method, ep.path, "")
			if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
				t.Fatalf("expected Content-Type application/json, got %q", ct)
			}
		})
	}
}

func TestRunShutsDownOnCancel(t *testing.T) {
	srv, _, _ := testSetup(t)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
