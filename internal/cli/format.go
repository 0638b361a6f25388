package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/youmna-rabie/fermi-events/internal/types"
)

// timeNow is swapped in tests.
var timeNow = time.Now

func formatPrice(e types.Event) string {
	if e.IsFree() {
		return "Gratis"
	}
	return "€" + humanize.FormatFloat("#.###,##", e.Price)
}

func formatSpots(e types.Event) string {
	if e.IsSoldOut() {
		return "Vol"
	}
	return fmt.Sprintf("%s/%s", humanize.Comma(int64(e.SpotsLeft())), humanize.Comma(int64(e.MaxParticipants)))
}

// formatWhen renders an event's day and a relative hint such as "3 weeks from now".
func formatWhen(e types.Event) string {
	day, ok := e.Day()
	if !ok {
		return e.Date
	}
	return fmt.Sprintf("%s (%s)", e.Date, humanize.RelTime(day, timeNow(), "ago", "from now"))
}

func truncate(s string, n int) string {
	if len([]rune(s)) <= n {
		return s
	}
	return string([]rune(s)[:n-1]) + "…"
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func joinTags(tags []string) string {
	if len(tags) == 0 {
		return "-"
	}
	return strings.Join(tags, ", ")
}
