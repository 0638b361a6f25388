package cli

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"github.com/youmna-rabie/fermi-events/internal/event"
	"github.com/youmna-rabie/fermi-events/internal/types"
)

var (
	eventsCategory string
	eventsDate     string
)

func init() {
	listEventsCmd.Flags().StringVar(&eventsCategory, "category", "", "only show events in this category")
	listEventsCmd.Flags().StringVar(&eventsDate, "date", "", "only show events on this day (YYYY-MM-DD)")
	rootCmd.AddCommand(listEventsCmd, showEventCmd, calendarCmd)
}

var listEventsCmd = &cobra.Command{
	Use:   "list-events",
	Short: "Print upcoming events",
	Args:  cobra.NoArgs,
	RunE:  listEvents,
}

var showEventCmd = &cobra.Command{
	Use:   "show-event ID",
	Short: "Print the details of one event",
	Args:  cobra.ExactArgs(1),
	RunE:  showEvent,
}

var calendarCmd = &cobra.Command{
	Use:   "calendar YEAR MONTH",
	Short: "Print the events in a month (MONTH is 1-12)",
	Args:  cobra.ExactArgs(2),
	RunE:  showCalendar,
}

func listEvents(cmd *cobra.Command, args []string) error {
	category := types.Category(eventsCategory)
	if category != "" && category != types.CategoryAll && !category.Valid() {
		return fmt.Errorf("unknown category %q", eventsCategory)
	}
	if eventsDate != "" {
		if _, err := time.Parse(types.DateLayout, eventsDate); err != nil {
			return fmt.Errorf("invalid date %q, expected YYYY-MM-DD", eventsDate)
		}
	}

	ctx := context.Background()
	a, err := newApp(ctx, stderr)
	if err != nil {
		return err
	}
	defer a.Close(ctx)

	var events []types.Event
	if eventsDate != "" {
		events = event.ByCategory(a.store.EventsByDate(eventsDate), category)
	} else {
		events = a.store.EventsByCategory(category)
	}

	out := cmd.OutOrStdout()
	if len(events) == 0 {
		fmt.Fprintln(out, "No events found.")
		return nil
	}

	fmt.Fprintf(out, "%-6s  %-32s  %-10s  %-5s  %-12s  %-9s  %s\n", "ID", "TITLE", "DATE", "TIME", "CATEGORY", "PRICE", "SPOTS")
	for _, e := range events {
		fmt.Fprintf(out, "%-6s  %-32s  %-10s  %-5s  %-12s  %-9s  %s\n",
			e.ID, truncate(e.Title, 32), e.Date, e.Time, e.Category.Label(), formatPrice(e), formatSpots(e))
	}
	return nil
}

func showEvent(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	a, err := newApp(ctx, stderr)
	if err != nil {
		return err
	}
	defer a.Close(ctx)

	e, ok := a.store.Event(args[0])
	if !ok {
		return fmt.Errorf("unknown event %q", args[0])
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s\n\n", e.Title)
	fmt.Fprintf(out, "  When:        %s %s\n", formatWhen(e), e.Time)
	fmt.Fprintf(out, "  Where:       %s\n", e.Location)
	fmt.Fprintf(out, "  Category:    %s\n", e.Category.Label())
	fmt.Fprintf(out, "  Organizer:   %s\n", e.Organizer)
	fmt.Fprintf(out, "  Price:       %s\n", formatPrice(e))
	fmt.Fprintf(out, "  Spots left:  %s\n", formatSpots(e))
	fmt.Fprintf(out, "  Registered:  %s\n", yesNo(a.store.IsRegisteredForEvent(e.ID)))
	fmt.Fprintf(out, "  Tags:        %s\n\n", joinTags(e.Tags))
	fmt.Fprintln(out, e.Description)
	return nil
}

func showCalendar(cmd *cobra.Command, args []string) error {
	year, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid year %q", args[0])
	}
	month, err := strconv.Atoi(args[1])
	if err != nil || month < 1 || month > 12 {
		return fmt.Errorf("month must be between 1 and 12, got %q", args[1])
	}

	ctx := context.Background()
	a, err := newApp(ctx, stderr)
	if err != nil {
		return err
	}
	defer a.Close(ctx)

	events := a.store.EventsByMonth(year, month-1)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s %d\n", time.Month(month), year)
	if len(events) == 0 {
		fmt.Fprintln(out, "  No events this month.")
		return nil
	}
	for _, e := range events {
		fmt.Fprintf(out, "  %-10s  %-5s  %s\n", e.Date, e.Time, e.Title)
	}
	return nil
}
