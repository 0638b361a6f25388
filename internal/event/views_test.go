package event

import (
	"reflect"
	"testing"

	"github.com/youmna-rabie/fermi-events/internal/types"
)

func ids(events []types.Event) []string {
	out := []string{}
	for _, e := range events {
		out = append(out, e.ID)
	}
	return out
}

func TestUpcoming(t *testing.T) {
	events := []types.Event{
		{ID: "a", Date: "2025-11-21"},
		{ID: "bad", Date: "soon"},
		{ID: "b", Date: "2025-09-23"},
		{ID: "c", Date: "2025-10-12"},
		{ID: "d", Date: "2025-09-23"},
		{ID: "empty"},
	}

	got := Upcoming(events)
	want := []string{"b", "d", "c", "a", "bad", "empty"}
	if !reflect.DeepEqual(ids(got), want) {
		t.Errorf("Upcoming = %v, want %v", ids(got), want)
	}
	if events[0].ID != "a" {
		t.Error("Upcoming modified its input")
	}
}

func TestByDate(t *testing.T) {
	events := []types.Event{
		{ID: "a", Date: "2025-10-12"},
		{ID: "b", Date: "2025-10-13"},
		{ID: "c", Date: "2025-10-12"},
	}

	tests := []struct {
		date string
		want []string
	}{
		{"2025-10-12", []string{"a", "c"}},
		{"2025-10-13", []string{"b"}},
		{"2025-10-1", []string{}},
		{"", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.date, func(t *testing.T) {
			if got := ids(ByDate(events, tt.date)); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ByDate(%q) = %v, want %v", tt.date, got, tt.want)
			}
		})
	}
}

func TestByMonth(t *testing.T) {
	events := []types.Event{
		{ID: "nov", Date: "2025-11-21"},
		{ID: "oct-late", Date: "2025-10-14"},
		{ID: "oct-early", Date: "2025-10-12"},
		{ID: "jan", Date: "2026-01-05"},
		{ID: "jan-prev", Date: "2025-01-05"},
		{ID: "bad", Date: "2025-10"},
	}

	tests := []struct {
		name  string
		year  int
		month int
		want  []string
	}{
		{"october", 2025, 9, []string{"oct-early", "oct-late"}},
		{"november", 2025, 10, []string{"nov"}},
		{"january", 2026, 0, []string{"jan"}},
		{"december empty", 2025, 11, []string{}},
		{"out of range", 2025, 12, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ids(ByMonth(events, tt.year, tt.month)); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ByMonth(%d, %d) = %v, want %v", tt.year, tt.month, got, tt.want)
			}
		})
	}
}

func TestByCategory(t *testing.T) {
	events := []types.Event{
		{ID: "a", Category: types.CategorySport},
		{ID: "b", Category: types.CategoryMusic},
		{ID: "c", Category: types.CategorySport},
	}

	tests := []struct {
		category types.Category
		want     []string
	}{
		{types.CategorySport, []string{"a", "c"}},
		{types.CategoryMusic, []string{"b"}},
		{types.CategoryFood, []string{}},
		{types.CategoryAll, []string{"a", "b", "c"}},
		{"", []string{"a", "b", "c"}},
	}
	for _, tt := range tests {
		t.Run(string(tt.category), func(t *testing.T) {
			if got := ids(ByCategory(events, tt.category)); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ByCategory(%q) = %v, want %v", tt.category, got, tt.want)
			}
		})
	}
}

func TestJoinRegistrations(t *testing.T) {
	events := []types.Event{
		{ID: "e1", Title: "One"},
		{ID: "e2", Title: "Two"},
	}
	regs := []types.Registration{
		{ID: "r1", EventID: "e2", Status: types.RegistrationStatusConfirmed},
		{ID: "r2", EventID: "gone", Status: types.RegistrationStatusConfirmed},
		{ID: "r3", EventID: "e1", Status: "pending"},
		{ID: "r4", EventID: "e1", Status: types.RegistrationStatusConfirmed},
	}

	got := JoinRegistrations(regs, events)
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].Registration.ID != "r1" || got[0].Event.Title != "Two" {
		t.Errorf("got[0] = %+v", got[0])
	}
	if got[1].Registration.ID != "r4" || got[1].Event.Title != "One" {
		t.Errorf("got[1] = %+v", got[1])
	}

	if got := JoinRegistrations(nil, events); len(got) != 0 {
		t.Errorf("no registrations: len = %d, want 0", len(got))
	}
}
