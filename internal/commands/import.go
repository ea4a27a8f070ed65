package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/CongoMusahAdama/rrate/internal/storage"
)

func ImportCmd() *cobra.Command {
	var dbPath, seedPath string

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Validate a listings feed and load it into SQLite",
		Long:  `Validates the JSON feed against the listings schema and inserts every listing whose id is not already stored. Existing rows are left untouched.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			listings, err := storage.LoadListingsFromFile(seedPath)
			if err != nil {
				return fmt.Errorf("failed to load seed: %w", err)
			}

			cat, err := openCatalog(cmd.Context(), dbPath)
			if err != nil {
				return err
			}
			defer cat.Close()

			inserted, err := cat.UpsertMany(cmd.Context(), listings)
			if err != nil {
				return fmt.Errorf("failed to import listings: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d of %d listings from %s\n", inserted, len(listings), seedPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "", "SQLite database path")
	cmd.Flags().StringVar(&seedPath, "seed", "data/listings.json", "listings JSON feed")
	return cmd
}
