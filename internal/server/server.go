package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/youmna-rabie/fermi-events/internal/config"
	"github.com/youmna-rabie/fermi-events/internal/event"
	"github.com/youmna-rabie/fermi-events/internal/notify"
	"github.com/youmna-rabie/fermi-events/internal/types"
)

// Server is the HTTP API over the event store: it lists events, takes
// registrations and cancellations, and publishes a notice for each change.
type Server struct {
	cfg       *config.Config
	store     *event.Store
	publisher notify.Publisher
	router    chi.Router
	logger    *slog.Logger
	now       func() time.Time
}

// NewServer creates a Server wired with the given dependencies.
func NewServer(
	cfg *config.Config,
	store *event.Store,
	publisher notify.Publisher,
	logger *slog.Logger,
) *Server {
	s := &Server{
		cfg:       cfg,
		store:     store,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(Logging(logger))
	r.Use(Recovery(logger))

	r.Get("/health", s.handleHealth)
	r.Get("/categories", s.handleCategories)
	r.Get("/calendar/{year}/{month}", s.handleCalendar)
	r.Route("/events", func(r chi.Router) {
		r.Get("/", s.handleListEvents)
		r.Get("/date/{date}", s.handleEventsByDate)
		r.Get("/{id}", s.handleGetEvent)
		r.Post("/{id}/registrations", s.handleRegister)
	})
	r.Get("/registrations", s.handleListRegistrations)
	r.Delete("/registrations/{id}", s.handleCancel)

	s.router = r
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Run serves HTTP on the configured host:port until ctx is cancelled, then
// shuts down gracefully within the configured timeout.
func (s *Server) Run(ctx context.Context) error {
	addr := net.JoinHostPort(s.cfg.Server.Host, strconv.Itoa(s.cfg.Server.Port))
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
		s.logger.Info("shutting down gracefully")
		shutCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutCtx); err != nil {
			return fmt.Errorf("shutdown error: %w", err)
		}
	}

	s.logger.Info("server stopped")
	return nil
}

// eventDetail is an event with the state a detail view needs.
type eventDetail struct {
	types.Event
	Registered bool `json:"registered"`
	SpotsLeft  int  `json:"spotsLeft"`
	SoldOut    bool `json:"soldOut"`
}

type categoryInfo struct {
	ID    types.Category `json:"id"`
	Label string         `json:"label"`
	Color string         `json:"color"`
}

// handleHealth responds to GET /health with a liveness check.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"loading": s.store.IsLoading(),
	})
}

// handleListEvents responds to GET /events with upcoming events,
// optionally filtered by ?category=.
func (s *Server) handleListEvents(w http.ResponseWriter, r *http.Request) {
	category := types.Category(r.URL.Query().Get("category"))
	if category != "" && category != types.CategoryAll && !category.Valid() {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown category: %s", category))
		return
	}

	events := s.store.EventsByCategory(category)
	writeJSON(w, http.StatusOK, map[string]any{
		"events": nonNil(events),
		"count":  len(events),
	})
}

// handleGetEvent responds to GET /events/{id}.
func (s *Server) handleGetEvent(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	e, ok := s.store.Event(id)
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("unknown event: %s", id))
		return
	}
	writeJSON(w, http.StatusOK, eventDetail{
		Event:      e,
		Registered: s.store.IsRegisteredForEvent(id),
		SpotsLeft:  e.SpotsLeft(),
		SoldOut:    e.IsSoldOut(),
	})
}

// handleEventsByDate responds to GET /events/date/{date}.
func (s *Server) handleEventsByDate(w http.ResponseWriter, r *http.Request) {
	date := chi.URLParam(r, "date")
	if _, err := time.Parse(types.DateLayout, date); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid date %q, expected YYYY-MM-DD", date))
		return
	}

	events := s.store.EventsByDate(date)
	writeJSON(w, http.StatusOK, map[string]any{
		"date":   date,
		"events": nonNil(events),
		"count":  len(events),
	})
}

// handleCalendar responds to GET /calendar/{year}/{month}, month 1-12.
func (s *Server) handleCalendar(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid year")
		return
	}
	month, err := strconv.Atoi(chi.URLParam(r, "month"))
	if err != nil || month < 1 || month > 12 {
		writeError(w, http.StatusBadRequest, "month must be between 1 and 12")
		return
	}

	events := s.store.EventsByMonth(year, month-1)
	writeJSON(w, http.StatusOK, map[string]any{
		"year":   year,
		"month":  month,
		"events": nonNil(events),
		"count":  len(events),
	})
}

// handleRegister processes POST /events/{id}/registrations.
// Pipeline: decode → validate → check → register → notify → respond.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "id")

	var req registrationRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	req.normalize()
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	switch err := s.store.CheckRegistration(eventID); {
	case errors.Is(err, event.ErrEventNotFound):
		writeError(w, http.StatusNotFound, fmt.Sprintf("unknown event: %s", eventID))
		return
	case errors.Is(err, event.ErrAlreadyRegistered), errors.Is(err, event.ErrEventFull):
		writeError(w, http.StatusConflict, err.Error())
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, "registration check failed")
		return
	}

	reg := s.store.RegisterForEvent(eventID, req.UserName, req.UserEmail)

	title := ""
	if e, ok := s.store.Event(eventID); ok {
		title = e.Title
	}
	s.publish(r.Context(), notify.NoticeConfirmed, reg, title)

	writeJSON(w, http.StatusCreated, reg)
}

// handleCancel processes DELETE /registrations/{id}.
func (s *Server) handleCancel(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var reg types.Registration
	for _, existing := range s.store.Registrations() {
		if existing.ID == id {
			reg = existing
			break
		}
	}

	if !s.store.CancelRegistration(id) {
		writeError(w, http.StatusNotFound, fmt.Sprintf("unknown registration: %s", id))
		return
	}

	title := ""
	if e, ok := s.store.Event(reg.EventID); ok {
		title = e.Title
	}
	s.publish(r.Context(), notify.NoticeCancelled, reg, title)

	w.WriteHeader(http.StatusNoContent)
}

// handleListRegistrations responds to GET /registrations with each
// confirmed registration and its event.
func (s *Server) handleListRegistrations(w http.ResponseWriter, _ *http.Request) {
	regs := s.store.UserRegistrations()
	if regs == nil {
		regs = []types.UserRegistration{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"registrations": regs,
		"count":         len(regs),
	})
}

// handleCategories responds to GET /categories with labels and colors.
func (s *Server) handleCategories(w http.ResponseWriter, _ *http.Request) {
	out := make([]categoryInfo, 0, len(types.Categories))
	for _, c := range types.Categories {
		out = append(out, categoryInfo{ID: c, Label: c.Label(), Color: c.Color()})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"categories": out,
		"count":      len(out),
	})
}

// publish sends a notice. Failures are logged and never fail the request.
func (s *Server) publish(ctx context.Context, typ notify.NoticeType, reg types.Registration, title string) {
	if s.publisher == nil {
		return
	}
	n := notify.Notice{
		Type:         typ,
		Registration: reg,
		EventTitle:   title,
		Timestamp:    s.now().UTC(),
	}
	if err := s.publisher.Publish(ctx, n); err != nil {
		s.logger.Warn("notice publish failed",
			"type", string(typ),
			"registration_id", reg.ID,
			"error", err,
			"request_id", RequestIDFromContext(ctx),
		)
	}
}

func nonNil(events []types.Event) []types.Event {
	if events == nil {
		return []types.Event{}
	}
	return events
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
