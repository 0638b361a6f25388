package types

// Category is the fixed set of event categories.
type Category string

const (
	CategoryEducational Category = "educatief"
	CategorySocial      Category = "sociaal"
	CategoryTrip        Category = "tripje"
	CategorySport       Category = "sport"
	CategoryCulture     Category = "cultuur"
	CategoryMusic       Category = "muziek"
	CategoryWorkshop    Category = "workshop"
	CategoryNetwork     Category = "netwerk"
	CategoryFood        Category = "eten"
)

// CategoryAll is the pseudo-category used by filters to select every event.
const CategoryAll Category = "all"

// Categories lists every category in display order.
var Categories = []Category{
	CategoryEducational,
	CategorySocial,
	CategoryTrip,
	CategorySport,
	CategoryCulture,
	CategoryMusic,
	CategoryWorkshop,
	CategoryNetwork,
	CategoryFood,
}

var categoryLabels = map[Category]string{
	CategoryEducational: "Educatief",
	CategorySocial:      "Sociaal",
	CategoryTrip:        "Tripje",
	CategorySport:       "Sport",
	CategoryCulture:     "Cultuur",
	CategoryMusic:       "Muziek",
	CategoryWorkshop:    "Workshop",
	CategoryNetwork:     "Netwerk",
	CategoryFood:        "Eten & Drinken",
}

var categoryColors = map[Category]string{
	CategoryEducational: "#8B5CF6",
	CategorySocial:      "#F59E0B",
	CategoryTrip:        "#10B981",
	CategorySport:       "#FF6B6B",
	CategoryCulture:     "#4ECDC4",
	CategoryMusic:       "#45B7D1",
	CategoryWorkshop:    "#96CEB4",
	CategoryNetwork:     "#FFEAA7",
	CategoryFood:        "#DDA0DD",
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	_, ok := categoryLabels[c]
	return ok
}

// Label returns the display label, or the raw value for unknown categories.
func (c Category) Label() string {
	if l, ok := categoryLabels[c]; ok {
		return l
	}
	return string(c)
}

// Color returns the display color as a hex string, or "" for unknown categories.
func (c Category) Color() string {
	return categoryColors[c]
}
