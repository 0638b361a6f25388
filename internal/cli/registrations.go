package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/youmna-rabie/fermi-events/internal/event"
	"github.com/youmna-rabie/fermi-events/internal/notify"
)

var (
	registerName  string
	registerEmail string
)

func init() {
	registerCmd.Flags().StringVar(&registerName, "name", "", "name of the person registering")
	registerCmd.Flags().StringVar(&registerEmail, "email", "", "email address of the person registering")
	rootCmd.AddCommand(registerCmd, cancelCmd, registrationsCmd)
}

var registerCmd = &cobra.Command{
	Use:   "register EVENT_ID --name NAME --email EMAIL",
	Short: "Register for an event",
	Args:  cobra.ExactArgs(1),
	RunE:  register,
}

var cancelCmd = &cobra.Command{
	Use:   "cancel REGISTRATION_ID",
	Short: "Cancel a registration",
	Args:  cobra.ExactArgs(1),
	RunE:  cancelRegistration,
}

var registrationsCmd = &cobra.Command{
	Use:   "registrations",
	Short: "Print your registrations",
	Args:  cobra.NoArgs,
	RunE:  listRegistrations,
}

// validateRegistrant applies the form rules: both fields filled in and an
// email address containing '@'.
func validateRegistrant(name, email string) error {
	if strings.TrimSpace(name) == "" || strings.TrimSpace(email) == "" {
		return errors.New("--name and --email are required")
	}
	if !strings.Contains(email, "@") {
		return fmt.Errorf("invalid email address %q", email)
	}
	return nil
}

func register(cmd *cobra.Command, args []string) error {
	eventID := args[0]
	name, email := strings.TrimSpace(registerName), strings.TrimSpace(registerEmail)
	if err := validateRegistrant(name, email); err != nil {
		return err
	}

	ctx := context.Background()
	a, err := newApp(ctx, stderr)
	if err != nil {
		return err
	}
	defer a.Close(ctx)

	switch err := a.store.CheckRegistration(eventID); {
	case errors.Is(err, event.ErrEventNotFound):
		return fmt.Errorf("unknown event %q", eventID)
	case err != nil:
		return err
	}

	reg := a.store.RegisterForEvent(eventID, name, email)
	a.notify(ctx, notify.NoticeConfirmed, reg)

	e, _ := a.store.Event(eventID)
	fmt.Fprintf(cmd.OutOrStdout(), "Registered for %s (%s).\nRegistration id: %s\n", e.Title, e.Date, reg.ID)
	return nil
}

func cancelRegistration(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	a, err := newApp(ctx, stderr)
	if err != nil {
		return err
	}
	defer a.Close(ctx)

	id := args[0]
	regs := a.store.Registrations()
	idx := -1
	for i, r := range regs {
		if r.ID == id {
			idx = i
			break
		}
	}

	if !a.store.CancelRegistration(id) {
		return fmt.Errorf("unknown registration %q", id)
	}
	if idx >= 0 {
		a.notify(ctx, notify.NoticeCancelled, regs[idx])
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Registration %s cancelled.\n", id)
	return nil
}

func listRegistrations(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	a, err := newApp(ctx, stderr)
	if err != nil {
		return err
	}
	defer a.Close(ctx)

	joined := a.store.UserRegistrations()

	out := cmd.OutOrStdout()
	if len(joined) == 0 {
		fmt.Fprintln(out, "No registrations.")
		return nil
	}

	fmt.Fprintf(out, "%-36s  %-32s  %-10s  %s\n", "ID", "EVENT", "DATE", "REGISTERED")
	for _, ur := range joined {
		fmt.Fprintf(out, "%-36s  %-32s  %-10s  %s\n",
			ur.Registration.ID, truncate(ur.Event.Title, 32), ur.Event.Date,
			humanize.RelTime(ur.Registration.RegistrationDate, timeNow(), "ago", "from now"))
	}
	return nil
}
