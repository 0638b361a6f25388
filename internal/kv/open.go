package kv

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
)

// Driver names accepted by Open.
const (
	DriverAuto     = "auto"
	DriverMemory   = "memory"
	DriverFile     = "file"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Options selects and configures a backend.
type Options struct {
	Driver string // one of the Driver constants; "" means auto
	Path   string // sqlite database file
	Dir    string // file backend directory
	DSN    string // postgres connection string
}

// goos is swapped in tests.
var goos = runtime.GOOS

// Detect resolves the driver to use. An explicit driver wins. Otherwise a
// browser (js/wasm) build gets the memory store, a configured DSN selects
// postgres, and everything else uses the local sqlite database.
func Detect(opts Options) string {
	if opts.Driver != "" && opts.Driver != DriverAuto {
		return opts.Driver
	}
	switch {
	case goos == "js":
		return DriverMemory
	case opts.DSN != "":
		return DriverPostgres
	default:
		return DriverSQLite
	}
}

// Open builds the backend chosen by Detect and wraps it in an Adapter.
func Open(ctx context.Context, opts Options, logger *slog.Logger) (*Adapter, error) {
	driver := Detect(opts)

	var (
		backend Backend
		err     error
	)
	switch driver {
	case DriverMemory:
		backend = NewMemoryBackend()
	case DriverFile:
		backend, err = NewFileBackend(opts.Dir)
	case DriverSQLite:
		backend, err = NewSQLiteBackend(ctx, opts.Path)
	case DriverPostgres:
		backend, err = NewPostgresBackend(ctx, opts.DSN)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", driver)
	}
	if err != nil {
		return nil, fmt.Errorf("opening %s storage: %w", driver, err)
	}

	if logger != nil {
		logger.Info("storage opened", "driver", driver)
	}
	return NewAdapter(backend, driver, logger), nil
}
