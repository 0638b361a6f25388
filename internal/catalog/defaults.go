// Package catalog provides the built-in event catalog used to seed the
// store on first run, plus optional catalog files scanned from disk.
package catalog

import (
	"slices"

	"github.com/youmna-rabie/fermi-events/internal/types"
)

const organizer = "Fermi Vereniging"

var defaultEvents = []types.Event{
	{
		ID:    "1",
		Title: "Wild in Groningen",
		Description: "Tripje naar Groningen vol gezelligheid en activiteiten. Een geweldige kans om de prachtige stad " +
			"Groningen te ontdekken samen met andere studenten. We gaan verschillende bezienswaardigheden bezoeken, " +
			"lokale specialiteiten proeven en genieten van de unieke sfeer van deze studentenstad. Een onvergetelijk " +
			"weekend vol nieuwe ervaringen en vriendschappen.",
		ShortDescription:    "Tripje naar Groningen vol gezelligheid en activiteiten",
		Date:                "2025-11-21",
		Time:                "16:00",
		Location:            "Groningen",
		ImageURL:            "https://images.unsplash.com/photo-1469474968028-56623f02e42e?w=800&h=600&fit=crop",
		Category:            types.CategoryTrip,
		Price:               125,
		MaxParticipants:     30,
		CurrentParticipants: 21,
		Organizer:           organizer,
		Tags:                []string{"groningen", "tripje", "gezelligheid", "weekend"},
	},
	{
		ID:    "12",
		Title: "ALV (Algemene Ledenvergadering)",
		Description: "De jaarlijkse Algemene Ledenvergadering van Fermi Vereniging. Kom en hoor wat er het afgelopen " +
			"jaar is gebeurd, wat de plannen zijn voor het komende jaar, en breng je stem uit over belangrijke " +
			"verenigingszaken. Na afloop is er een gezellige borrel.",
		ShortDescription:    "Jaarlijkse Algemene Ledenvergadering",
		Date:                "2025-09-23",
		Time:                "19:00",
		Location:            "Universiteit Utrecht",
		ImageURL:            "https://images.unsplash.com/photo-1515187029135-18ee286d815b?w=800&h=600&fit=crop",
		Category:            types.CategoryEducational,
		Price:               0,
		MaxParticipants:     100,
		CurrentParticipants: 45,
		Organizer:           organizer,
		Tags:                []string{"alv", "vergadering", "vereniging", "bestuur"},
	},
	{
		ID:    "13",
		Title: "Impuls Cursus",
		Description: "Een intensieve cursus om je vaardigheden te verbeteren en nieuwe kennis op te doen. Perfect voor " +
			"studenten die zich verder willen ontwikkelen op academisch en persoonlijk vlak. De cursus wordt gegeven " +
			"door ervaren docenten en professionals uit het vakgebied.",
		ShortDescription:    "Intensieve cursus voor persoonlijke ontwikkeling",
		Date:                "2025-10-12",
		Time:                "10:00",
		Location:            "Universiteit Utrecht",
		ImageURL:            "https://images.unsplash.com/photo-1434030216411-0b793f4b4173?w=800&h=600&fit=crop",
		Category:            types.CategoryEducational,
		Price:               25,
		MaxParticipants:     40,
		CurrentParticipants: 28,
		Organizer:           organizer,
		Tags:                []string{"cursus", "ontwikkeling", "leren", "vaardigheden"},
	},
	{
		ID:    "14",
		Title: "Lezing: Toekomst van de Wetenschap",
		Description: "Een boeiende lezing over de toekomst van wetenschappelijk onderzoek en technologische " +
			"ontwikkelingen. Gerenommeerde sprekers delen hun visie op wat ons te wachten staat in de komende " +
			"decennia. Een must voor iedereen die geïnteresseerd is in wetenschap en innovatie.",
		ShortDescription:    "Inspirerende lezing over wetenschappelijke ontwikkelingen",
		Date:                "2025-10-14",
		Time:                "20:00",
		Location:            "Universiteit Utrecht",
		ImageURL:            "https://images.unsplash.com/photo-1507003211169-0a1dd7228f2d?w=800&h=600&fit=crop",
		Category:            types.CategoryEducational,
		Price:               5,
		MaxParticipants:     150,
		CurrentParticipants: 87,
		Organizer:           organizer,
		Tags:                []string{"lezing", "wetenschap", "toekomst", "innovatie"},
	},
}

// Default returns a fresh copy of the built-in catalog. Callers may modify
// the result freely.
func Default() []types.Event {
	return Clone(defaultEvents)
}

// Clone deep-copies events, including each tag slice.
func Clone(events []types.Event) []types.Event {
	if events == nil {
		return nil
	}
	out := make([]types.Event, len(events))
	for i, e := range events {
		e.Tags = slices.Clone(e.Tags)
		out[i] = e
	}
	return out
}
