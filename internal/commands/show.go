package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/CongoMusahAdama/rrate/internal/domain"
)

func ShowCmd() *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "show [id]",
		Short: "Print one listing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil || id <= 0 {
				return fmt.Errorf("invalid listing id %q", args[0])
			}

			cat, err := openCatalog(cmd.Context(), dbPath)
			if err != nil {
				return err
			}
			defer cat.Close()

			l, ok, err := cat.ByID(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("failed to read listing: %w", err)
			}
			if !ok {
				return fmt.Errorf("listing %d not found", id)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%d  %s\n", l.ID, l.Name)
			fmt.Fprintf(out, "  price:    %s\n", domain.FormatMoney(l.Price))
			fmt.Fprintf(out, "  location: %s\n", l.Location)
			fmt.Fprintf(out, "  type:     %s (%s)\n", l.Type, l.Status)
			fmt.Fprintf(out, "  size:     %d beds, %d baths, %.0f sqft\n", l.Beds, l.Baths, l.Area)
			return nil
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "", "SQLite database path")
	return cmd
}
