package notify

import (
	"fmt"
	"log/slog"
)

// Driver names accepted by Open.
const (
	DriverLog  = "log"
	DriverNATS = "nats"
)

// Open returns the Publisher selected by driver. An empty driver means log.
func Open(driver, url, prefix string, logger *slog.Logger) (Publisher, error) {
	switch driver {
	case "", DriverLog:
		return &StubPublisher{Logger: logger}, nil
	case DriverNATS:
		return NewNATSPublisher(url, prefix)
	default:
		return nil, fmt.Errorf("unknown notify driver %q", driver)
	}
}
