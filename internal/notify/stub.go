package notify

import (
	"context"
	"log/slog"
)

// StubPublisher is a Publisher that only logs the notice. Useful for
// testing and development.
type StubPublisher struct {
	Logger *slog.Logger
}

// Publish logs the notice and always succeeds.
func (s *StubPublisher) Publish(_ context.Context, n Notice) error {
	s.Logger.Info("publishing notice",
		"type", string(n.Type),
		"registration_id", n.Registration.ID,
		"event_id", n.Registration.EventID,
		"event_title", n.EventTitle,
	)
	return nil
}

// Close is a no-op.
func (s *StubPublisher) Close() error { return nil }
