package event

import (
	"context"
	"log/slog"
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/youmna-rabie/fermi-events/internal/catalog"
	"github.com/youmna-rabie/fermi-events/internal/codec"
	"github.com/youmna-rabie/fermi-events/internal/kv"
	"github.com/youmna-rabie/fermi-events/internal/types"
)

// Storage keys of the two persisted collections.
const (
	EventsKey        = "events"
	RegistrationsKey = "registrations"
)

type loadState int

const (
	stateUninitialized loadState = iota
	stateLoading
	stateLoaded
)

// collection is one independently loaded and persisted list.
type collection[T any] struct {
	items []T
	state loadState
	done  chan struct{} // closed when the initial load finishes
	queue *writeQueue[T]
}

// replace swaps in a new list and schedules it for persistence.
func (c *collection[T]) replace(items []T) {
	c.items = items
	c.queue.enqueue(items)
}

// Store holds the events and registrations in memory and mirrors them to
// a kv.Adapter. Memory is authoritative: every mutation updates the lists
// immediately and persists them in the background, and a failed write
// never rolls memory back. Store is safe for concurrent use.
type Store struct {
	mu      sync.Mutex
	kv      *kv.Adapter
	catalog []types.Event
	logger  *slog.Logger
	now     func() time.Time
	newID   func() string

	events        collection[types.Event]
	registrations collection[types.Registration]
}

// Option configures a Store.
type Option func(*Store)

// WithClock sets the clock used for registration timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator sets the function that generates registration ids.
func WithIDGenerator(newID func() string) Option {
	return func(s *Store) { s.newID = newID }
}

// NewStore creates a Store backed by adapter. defaults seeds the event list
// when nothing has been persisted yet. Nothing is loaded until Start, Load
// or the first access.
func NewStore(adapter *kv.Adapter, defaults []types.Event, logger *slog.Logger, opts ...Option) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Store{
		kv:      adapter,
		catalog: catalog.Clone(defaults),
		logger:  logger,
		now:     time.Now,
		newID:   timestampID,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.events.queue = newWriteQueue(EventsKey, s.persistEvents, logger)
	s.registrations.queue = newWriteQueue(RegistrationsKey, s.persistRegistrations, logger)
	return s
}

// Start begins loading both collections in the background. It returns
// immediately and is a no-op for collections already loading or loaded.
// Loads are not cancelled with ctx: an aborted read would fall back to the
// defaults and the next mutation would overwrite the stored data.
func (s *Store) Start(ctx context.Context) {
	ctx = context.WithoutCancel(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.events.state == stateUninitialized {
		s.events.state = stateLoading
		s.events.done = make(chan struct{})
		go s.loadEvents(ctx)
	}
	if s.registrations.state == stateUninitialized {
		s.registrations.state = stateLoading
		s.registrations.done = make(chan struct{})
		go s.loadRegistrations(ctx)
	}
}

// Load starts loading if needed and waits until both collections are loaded.
func (s *Store) Load(ctx context.Context) error {
	s.Start(ctx)

	s.mu.Lock()
	eventsDone, regsDone := s.events.done, s.registrations.done
	s.mu.Unlock()

	for _, done := range []chan struct{}{eventsDone, regsDone} {
		select {
		case <-done:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

func (s *Store) loadEvents(ctx context.Context) {
	stored, ok := codec.Load[[]types.Event](ctx, s.kv, EventsKey)

	s.mu.Lock()
	defer s.mu.Unlock()

	source := "storage"
	s.events.items = stored
	if !ok {
		source = "catalog"
		s.events.items = catalog.Clone(s.catalog)
	}
	if s.events.items == nil {
		s.events.items = []types.Event{}
	}
	s.events.state = stateLoaded
	close(s.events.done)
	s.logger.Info("events loaded", "count", len(s.events.items), "source", source)
}

func (s *Store) loadRegistrations(ctx context.Context) {
	stored, ok := codec.Load[[]types.Registration](ctx, s.kv, RegistrationsKey)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.registrations.items = stored
	if !ok || stored == nil {
		s.registrations.items = []types.Registration{}
	}
	s.registrations.state = stateLoaded
	close(s.registrations.done)
	s.logger.Info("registrations loaded", "count", len(s.registrations.items))
}

// awaitLoaded blocks until the initial loads finish, so a mutation never
// persists a list that has not been read from storage yet.
func (s *Store) awaitLoaded() {
	_ = s.Load(context.Background())
}

// IsLoading reports whether either collection has not finished its initial load.
func (s *Store) IsLoading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.events.state != stateLoaded || s.registrations.state != stateLoaded
}

// Events returns a copy of the current event list.
func (s *Store) Events() []types.Event {
	s.Start(context.Background())

	s.mu.Lock()
	defer s.mu.Unlock()
	return catalog.Clone(s.events.items)
}

// Registrations returns a copy of the current registration list.
func (s *Store) Registrations() []types.Registration {
	s.Start(context.Background())

	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.registrations.items)
}

// Event returns the event with the given id.
func (s *Store) Event(id string) (types.Event, bool) {
	for _, e := range s.Events() {
		if e.ID == id {
			return e, true
		}
	}
	return types.Event{}, false
}

// RegisterForEvent records a confirmed registration and bumps the event's
// participant count. It performs no capacity or duplicate checks; callers
// use CheckRegistration first. Both lists are persisted independently.
// If the initial load is still running, it waits for it to finish.
func (s *Store) RegisterForEvent(eventID, userName, userEmail string) types.Registration {
	s.awaitLoaded()

	s.mu.Lock()
	defer s.mu.Unlock()

	reg := types.Registration{
		ID:               s.newID(),
		EventID:          eventID,
		UserName:         userName,
		UserEmail:        userEmail,
		RegistrationDate: s.now().UTC(),
		Status:           types.RegistrationStatusConfirmed,
	}

	regs := make([]types.Registration, 0, len(s.registrations.items)+1)
	regs = append(regs, s.registrations.items...)
	regs = append(regs, reg)
	s.registrations.replace(regs)

	events := slices.Clone(s.events.items)
	for i := range events {
		if events[i].ID == eventID {
			events[i].CurrentParticipants++
		}
	}
	s.events.replace(events)

	s.logger.Info("registered for event", "event_id", eventID, "registration_id", reg.ID)
	return reg
}

// CancelRegistration removes the registration with the given id and
// decrements its event's participant count, never below zero. It returns
// false and changes nothing when the id is unknown.
func (s *Store) CancelRegistration(registrationID string) bool {
	s.awaitLoaded()

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := slices.IndexFunc(s.registrations.items, func(r types.Registration) bool {
		return r.ID == registrationID
	})
	if idx < 0 {
		return false
	}
	reg := s.registrations.items[idx]

	regs := slices.Delete(slices.Clone(s.registrations.items), idx, idx+1)
	s.registrations.replace(regs)

	events := slices.Clone(s.events.items)
	found := false
	for i := range events {
		if events[i].ID == reg.EventID {
			events[i].CurrentParticipants = max(0, events[i].CurrentParticipants-1)
			found = true
		}
	}
	if found {
		s.events.replace(events)
	}

	s.logger.Info("registration cancelled", "event_id", reg.EventID, "registration_id", reg.ID)
	return true
}

// IsRegisteredForEvent reports whether a confirmed registration exists for eventID.
func (s *Store) IsRegisteredForEvent(eventID string) bool {
	s.Start(context.Background())

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isRegisteredLocked(eventID)
}

func (s *Store) isRegisteredLocked(eventID string) bool {
	return slices.ContainsFunc(s.registrations.items, func(r types.Registration) bool {
		return r.EventID == eventID && r.Status == types.RegistrationStatusConfirmed
	})
}

// Flush waits until all scheduled writes for both collections have completed.
func (s *Store) Flush(ctx context.Context) error {
	if err := s.events.queue.flush(ctx); err != nil {
		return err
	}
	return s.registrations.queue.flush(ctx)
}

// Reset drops both persisted collections and restores the defaults in memory.
func (s *Store) Reset(ctx context.Context) error {
	if err := s.Load(ctx); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.Flush(ctx); err != nil {
		return err
	}
	s.kv.Remove(ctx, EventsKey)
	s.kv.Remove(ctx, RegistrationsKey)
	s.events.items = catalog.Clone(s.catalog)
	if s.events.items == nil {
		s.events.items = []types.Event{}
	}
	s.registrations.items = []types.Registration{}
	s.logger.Info("store reset")
	return nil
}

// UpcomingEvents returns every event sorted by date.
func (s *Store) UpcomingEvents() []types.Event {
	return Upcoming(s.Events())
}

// EventsByDate returns the events on the given YYYY-MM-DD day.
func (s *Store) EventsByDate(date string) []types.Event {
	return ByDate(s.Events(), date)
}

// EventsByMonth returns the events in year and zero-based month (0 = January),
// sorted by date.
func (s *Store) EventsByMonth(year, month int) []types.Event {
	return ByMonth(s.Events(), year, month)
}

// EventsByCategory returns upcoming events in category. CategoryAll or ""
// returns every event.
func (s *Store) EventsByCategory(category types.Category) []types.Event {
	return ByCategory(Upcoming(s.Events()), category)
}

// UserRegistrations returns confirmed registrations joined with their
// events. Registrations whose event no longer exists are left out.
func (s *Store) UserRegistrations() []types.UserRegistration {
	s.Start(context.Background())

	s.mu.Lock()
	regs := slices.Clone(s.registrations.items)
	events := catalog.Clone(s.events.items)
	s.mu.Unlock()

	return JoinRegistrations(regs, events)
}

func (s *Store) persistEvents(ctx context.Context, events []types.Event) error {
	return persistList(ctx, s.kv, EventsKey, events)
}

func (s *Store) persistRegistrations(ctx context.Context, regs []types.Registration) error {
	return persistList(ctx, s.kv, RegistrationsKey, regs)
}

// persistList writes a whole collection. A nil list is rejected rather than
// being stored as a removal.
func persistList[T any](ctx context.Context, a *kv.Adapter, key string, items []T) error {
	if items == nil {
		return ErrInvalidCollection
	}
	codec.Store(ctx, a, key, items)
	return nil
}

// timestampID returns a time-ordered UUIDv7, falling back to the Unix
// millisecond timestamp if the random source fails.
func timestampID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return strconv.FormatInt(time.Now().UnixMilli(), 10)
	}
	return id.String()
}
