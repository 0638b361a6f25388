package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	configPath string
	resetStore bool
)

var rootCmd = &cobra.Command{
	Use:   "fermi-events",
	Short: "Fermi association event calendar",
	Long: "fermi-events keeps the association's event calendar and member registrations " +
		"in a local store and serves them over a JSON API.",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "fermi-events.yaml", "path to configuration file")
	rootCmd.PersistentFlags().BoolVar(&resetStore, "reset", false, "drop stored events and registrations before running")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
