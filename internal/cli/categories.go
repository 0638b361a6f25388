package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/youmna-rabie/fermi-events/internal/types"
)

func init() {
	rootCmd.AddCommand(listCategoriesCmd)
}

var listCategoriesCmd = &cobra.Command{
	Use:   "list-categories",
	Short: "Print the event categories",
	Args:  cobra.NoArgs,
	RunE:  listCategories,
}

func listCategories(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%-12s %-14s %s\n", "ID", "LABEL", "COLOR")
	for _, c := range types.Categories {
		fmt.Fprintf(out, "%-12s %-14s %s\n", c, c.Label(), c.Color())
	}
	return nil
}
