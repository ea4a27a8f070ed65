package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/CongoMusahAdama/rrate/internal/domain"
	"github.com/CongoMusahAdama/rrate/internal/filter"
	"github.com/CongoMusahAdama/rrate/internal/pagination"
)

func SearchCmd() *cobra.Command {
	var (
		dbPath, location, propertyType, price, sortBy string
		page, pageSize                                int
	)

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search listings stored in SQLite",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pr, err := domain.ParsePriceRange(price)
			if err != nil {
				return err
			}
			order, err := filter.ParseSortOrder(sortBy)
			if err != nil {
				return err
			}

			cat, err := openCatalog(cmd.Context(), dbPath)
			if err != nil {
				return err
			}
			defer cat.Close()

			all, err := cat.All(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to read catalog: %w", err)
			}

			spec := domain.FilterSpec{Location: location, PropertyType: propertyType, PriceRange: pr}
			result := pagination.Paginate(filter.Sort(filter.Apply(all, spec), order), pageSize, page)

			out := cmd.OutOrStdout()
			for _, l := range result.Items {
				fmt.Fprintf(out, "%-4d %-28s %-14s %-10s %s\n", l.ID, l.Name, domain.FormatMoney(l.Price), l.Type, l.Location)
			}
			fmt.Fprintf(out, "page %d/%d, %d listings\n", result.Page, result.TotalPages, result.Total)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&dbPath, "db", "", "SQLite database path")
	flags.StringVar(&location, "location", "", "substring of name or location")
	flags.StringVar(&propertyType, "type", "", "exact property type")
	flags.StringVar(&price, "price", "", `price band, "min-max" or "min+"`)
	flags.StringVar(&sortBy, "sort", "", "price_asc, price_desc, newest or beds")
	flags.IntVar(&page, "page", 1, "page number")
	flags.IntVar(&pageSize, "page-size", pagination.DefaultPageSize, "listings per page")
	return cmd
}
