package notify

import (
	"context"
	"time"

	"github.com/youmna-rabie/fermi-events/internal/types"
)

// NoticeType identifies what happened to a registration.
type NoticeType string

const (
	NoticeConfirmed NoticeType = "registration.confirmed"
	NoticeCancelled NoticeType = "registration.cancelled"
)

// Notice is published after a registration is made or cancelled.
type Notice struct {
	Type         NoticeType         `json:"type"`
	Registration types.Registration `json:"registration"`
	EventTitle   string             `json:"eventTitle,omitempty"`
	Timestamp    time.Time          `json:"timestamp"`
}

// Publisher delivers notices to interested parties.
type Publisher interface {
	Publish(ctx context.Context, n Notice) error
	Close() error
}
