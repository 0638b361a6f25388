package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"

	"github.com/youmna-rabie/fermi-events/internal/catalog"
	"github.com/youmna-rabie/fermi-events/internal/config"
	"github.com/youmna-rabie/fermi-events/internal/event"
	"github.com/youmna-rabie/fermi-events/internal/kv"
	"github.com/youmna-rabie/fermi-events/internal/notify"
	"github.com/youmna-rabie/fermi-events/internal/types"
)

// app bundles what every command needs: the loaded config, a logger, and
// the store with its storage and notice publisher.
type app struct {
	cfg       *config.Config
	logger    *slog.Logger
	adapter   *kv.Adapter
	store     *event.Store
	publisher notify.Publisher
}

// newApp loads the config, opens storage, and loads the store. Log output
// goes to logOut so command output on stdout stays clean.
func newApp(ctx context.Context, logOut io.Writer) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	logger := newLogger(logOut, cfg.Logging)

	adapter, err := kv.Open(ctx, cfg.Storage.Options(), logger)
	if err != nil {
		return nil, fmt.Errorf("opening storage: %w", err)
	}

	publisher, err := notify.Open(cfg.Notify.Driver, cfg.Notify.URL, cfg.Notify.SubjectPrefix, logger)
	if err != nil {
		adapter.Close()
		return nil, fmt.Errorf("opening notifier: %w", err)
	}

	store := event.NewStore(adapter, buildCatalog(cfg.Catalog, logger), logger)
	if resetStore {
		err = store.Reset(ctx)
	} else {
		err = store.Load(ctx)
	}
	if err != nil {
		publisher.Close()
		adapter.Close()
		return nil, fmt.Errorf("loading store: %w", err)
	}

	return &app{
		cfg:       cfg,
		logger:    logger,
		adapter:   adapter,
		store:     store,
		publisher: publisher,
	}, nil
}

// Close waits for pending writes and releases storage and the publisher.
func (a *app) Close(ctx context.Context) error {
	flushErr := a.store.Flush(ctx)
	return errors.Join(flushErr, a.publisher.Close(), a.adapter.Close())
}

// notify publishes a notice, logging failures.
func (a *app) notify(ctx context.Context, typ notify.NoticeType, reg types.Registration) {
	title := ""
	if e, ok := a.store.Event(reg.EventID); ok {
		title = e.Title
	}
	n := notify.Notice{Type: typ, Registration: reg, EventTitle: title, Timestamp: reg.RegistrationDate}
	if typ == notify.NoticeCancelled {
		n.Timestamp = timeNow().UTC()
	}
	if err := a.publisher.Publish(ctx, n); err != nil {
		a.logger.Warn("notice publish failed", "type", string(typ), "registration_id", reg.ID, "error", err)
	}
}

// loadConfig reads --config. When the default config file does not exist
// the built-in defaults are used.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err == nil {
		return cfg, nil
	}
	if errors.Is(err, fs.ErrNotExist) && !rootCmd.PersistentFlags().Changed("config") {
		return config.Default()
	}
	return nil, err
}

// buildCatalog returns the built-in events followed by any extra events
// found in the configured catalog directories.
func buildCatalog(cfg config.CatalogConfig, logger *slog.Logger) []types.Event {
	if len(cfg.Dirs) == 0 {
		return catalog.Default()
	}

	reg := &catalog.Registry{}
	if err := reg.Scan(cfg.Dirs); err != nil {
		logger.Warn("catalog scan error", "error", err)
	}
	extra := reg.Filter(cfg.Categories)
	logger.Debug("catalog scanned", "dirs", len(cfg.Dirs), "extra_events", len(extra))
	return catalog.Merge(catalog.Default(), extra)
}

func newLogger(w io.Writer, cfg config.LoggingConfig) *slog.Logger {
	var handler slog.Handler
	opts := &slog.HandlerOptions{Level: parseLogLevel(cfg.Level)}

	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	return slog.New(handler)
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// stderr is where non-serve commands send their logs.
var stderr io.Writer = os.Stderr
