package event

import (
	"slices"

	"github.com/youmna-rabie/fermi-events/internal/types"
)

// Upcoming returns a copy of events sorted ascending by date. The sort is
// stable. Events with an unparseable date go last in their original order.
func Upcoming(events []types.Event) []types.Event {
	sorted := slices.Clone(events)
	slices.SortStableFunc(sorted, compareDates)
	return sorted
}

// ByDate returns the events whose date equals date exactly.
func ByDate(events []types.Event, date string) []types.Event {
	var out []types.Event
	for _, e := range events {
		if e.Date == date {
			out = append(out, e)
		}
	}
	return out
}

// ByMonth returns the events in year and zero-based month, sorted by date.
func ByMonth(events []types.Event, year, month int) []types.Event {
	var out []types.Event
	for _, e := range events {
		day, ok := e.Day()
		if ok && day.Year() == year && int(day.Month())-1 == month {
			out = append(out, e)
		}
	}
	slices.SortStableFunc(out, compareDates)
	return out
}

// ByCategory keeps the events in category. CategoryAll and "" keep everything.
func ByCategory(events []types.Event, category types.Category) []types.Event {
	if category == "" || category == types.CategoryAll {
		return events
	}
	var out []types.Event
	for _, e := range events {
		if e.Category == category {
			out = append(out, e)
		}
	}
	return out
}

// JoinRegistrations pairs each confirmed registration with its event, in
// registration order. Registrations pointing at a missing event are dropped.
func JoinRegistrations(regs []types.Registration, events []types.Event) []types.UserRegistration {
	byID := make(map[string]types.Event, len(events))
	for _, e := range events {
		if _, dup := byID[e.ID]; !dup {
			byID[e.ID] = e
		}
	}

	var out []types.UserRegistration
	for _, r := range regs {
		if r.Status != types.RegistrationStatusConfirmed {
			continue
		}
		e, ok := byID[r.EventID]
		if !ok {
			continue
		}
		out = append(out, types.UserRegistration{Registration: r, Event: e})
	}
	return out
}

func compareDates(a, b types.Event) int {
	da, okA := a.Day()
	db, okB := b.Day()
	switch {
	case okA && okB:
		return da.Compare(db)
	case okA:
		return -1
	case okB:
		return 1
	default:
		return 0
	}
}
