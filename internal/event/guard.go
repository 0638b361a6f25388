package event

import "errors"

var (
	ErrEventNotFound     = errors.New("event not found")
	ErrAlreadyRegistered = errors.New("already registered for this event")
	ErrEventFull         = errors.New("event is sold out")
	ErrInvalidCollection = errors.New("invalid collection data")
)

// CheckRegistration runs the checks a caller makes before RegisterForEvent:
// the event must exist, must not already have a confirmed registration and
// must have spots left. The store itself never calls it.
func (s *Store) CheckRegistration(eventID string) error {
	s.awaitLoaded()

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range s.events.items {
		if e.ID != eventID {
			continue
		}
		if s.isRegisteredLocked(eventID) {
			return ErrAlreadyRegistered
		}
		if e.IsSoldOut() {
			return ErrEventFull
		}
		return nil
	}
	return ErrEventNotFound
}
