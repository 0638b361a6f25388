package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"
)

// DefaultSubjectPrefix is used when no prefix is configured.
const DefaultSubjectPrefix = "fermi.events"

// conn is the part of *nats.Conn the publisher uses.
type conn interface {
	Publish(subject string, data []byte) error
	FlushWithContext(ctx context.Context) error
	Close()
}

// NATSPublisher publishes notices as JSON on core NATS. A notice of type T
// goes to the subject "<prefix>.<T>".
type NATSPublisher struct {
	conn   conn
	prefix string
}

// NewNATSPublisher connects to the NATS server at url.
func NewNATSPublisher(url, prefix string) (*NATSPublisher, error) {
	if url == "" {
		url = nats.DefaultURL
	}
	nc, err := nats.Connect(url, nats.Name("fermi-events"))
	if err != nil {
		return nil, fmt.Errorf("connecting to nats at %s: %w", url, err)
	}
	return newNATSPublisher(nc, prefix), nil
}

func newNATSPublisher(c conn, prefix string) *NATSPublisher {
	if prefix == "" {
		prefix = DefaultSubjectPrefix
	}
	return &NATSPublisher{conn: c, prefix: prefix}
}

// Subject returns the subject a notice of type t is published on.
func (p *NATSPublisher) Subject(t NoticeType) string {
	return p.prefix + "." + string(t)
}

// Publish sends n and waits for the server to acknowledge the flush.
func (p *NATSPublisher) Publish(ctx context.Context, n Notice) error {
	data, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("marshaling notice: %w", err)
	}
	if err := p.conn.Publish(p.Subject(n.Type), data); err != nil {
		return fmt.Errorf("publishing notice: %w", err)
	}
	if err := p.conn.FlushWithContext(ctx); err != nil {
		return fmt.Errorf("flushing notice: %w", err)
	}
	return nil
}

// Close closes the underlying connection.
func (p *NATSPublisher) Close() error {
	p.conn.Close()
	return nil
}
