package types

import "time"

// DateLayout is the layout of Event.Date: a calendar day with no time zone.
const DateLayout = "2006-01-02"

// Event represents one organized activity that users can register for.
type Event struct {
	ID                  string   `json:"id" yaml:"id"`
	Title               string   `json:"title" yaml:"title"`
	Description         string   `json:"description" yaml:"description"`
	ShortDescription    string   `json:"shortDescription" yaml:"shortDescription"`
	Date                string   `json:"date" yaml:"date"`
	Time                string   `json:"time" yaml:"time"`
	Location            string   `json:"location" yaml:"location"`
	ImageURL            string   `json:"imageUrl" yaml:"imageUrl"`
	Category            Category `json:"category" yaml:"category"`
	Price               float64  `json:"price" yaml:"price"`
	MaxParticipants     int      `json:"maxParticipants" yaml:"maxParticipants"`
	CurrentParticipants int      `json:"currentParticipants" yaml:"currentParticipants"`
	Organizer           string   `json:"organizer" yaml:"organizer"`
	Tags                []string `json:"tags" yaml:"tags"`
}

// Day parses Date as a calendar day in UTC. ok is false when Date is malformed.
func (e Event) Day() (day time.Time, ok bool) {
	t, err := time.Parse(DateLayout, e.Date)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// SpotsLeft returns the remaining capacity. It may be negative when the
// participant count was pushed past capacity.
func (e Event) SpotsLeft() int {
	return e.MaxParticipants - e.CurrentParticipants
}

// IsSoldOut reports whether no spots are left.
func (e Event) IsSoldOut() bool {
	return e.SpotsLeft() <= 0
}

// IsFree reports whether the event has no entry price.
func (e Event) IsFree() bool {
	return e.Price == 0
}
