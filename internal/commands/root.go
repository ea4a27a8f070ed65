// Package commands holds the catalogctl subcommands.
package commands

import "github.com/spf13/cobra"

func RootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "catalogctl",
		Short:         "Manage and search the property catalog",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(ImportCmd(), SearchCmd(), ShowCmd())
	return root
}
