package kv

import (
	"context"
	"fmt"
	"log/slog"
)

// Adapter wraps a Backend so that no storage fault ever reaches the caller:
// a failed Get reads as absent and failed writes are dropped. Faults are
// logged at warn level.
type Adapter struct {
	backend Backend
	name    string
	logger  *slog.Logger
}

// NewAdapter creates an Adapter over backend. name identifies the backend in logs.
func NewAdapter(backend Backend, name string, logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Adapter{backend: backend, name: name, logger: logger}
}

// Name returns the backend name the adapter was created with.
func (a *Adapter) Name() string {
	return a.name
}

// Logger returns the logger faults are reported to.
func (a *Adapter) Logger() *slog.Logger {
	return a.logger
}

// Get returns the value stored under key, or false if it is absent or unreadable.
func (a *Adapter) Get(ctx context.Context, key string) (value string, ok bool) {
	err := a.guard(func() error {
		var err error
		value, ok, err = a.backend.Get(ctx, key)
		return err
	})
	if err != nil {
		a.logger.Warn("storage get failed", "backend", a.name, "key", key, "error", err)
		return "", false
	}
	return value, ok
}

// Set stores value under key on a best-effort basis.
func (a *Adapter) Set(ctx context.Context, key, value string) {
	if err := a.guard(func() error { return a.backend.Set(ctx, key, value) }); err != nil {
		a.logger.Warn("storage set failed", "backend", a.name, "key", key, "error", err)
	}
}

// Remove deletes key on a best-effort basis.
func (a *Adapter) Remove(ctx context.Context, key string) {
	if err := a.guard(func() error { return a.backend.Remove(ctx, key) }); err != nil {
		a.logger.Warn("storage remove failed", "backend", a.name, "key", key, "error", err)
	}
}

// Close closes the underlying backend.
func (a *Adapter) Close() error {
	return a.backend.Close()
}

// guard runs fn and converts a panic in the backend into an error.
func (a *Adapter) guard(fn func() error) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("backend panic: %v", rec)
		}
	}()
	return fn()
}
