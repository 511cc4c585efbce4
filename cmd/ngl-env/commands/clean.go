package commands

import (
	"github.com/rlavarec-gpsw/gopro-lib-node.gl/internal/app"
	"github.com/spf13/cobra"
)

func (c *CLI) newCleanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove the fetched dependencies and the fetch state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			root, _ := cmd.Flags().GetString("root")
			externals, _ := cmd.Flags().GetBool("externals")
			all, _ := cmd.Flags().GetBool("all")

			opts := app.CleanOptions{Root: root}

			switch {
			case all:
				opts.Externals = true
				opts.State = true
			case externals:
				opts.Externals = true
			default:
				// Default behavior: forget the fetch state only
				opts.State = true
			}

			return c.app.Clean(cmd.Context(), opts)
		},
	}

	cmd.Flags().String("root", ".", "Project root directory")
	cmd.Flags().BoolP("externals", "e", false, "Remove the fetched external dependencies")
	cmd.Flags().BoolP("all", "a", false, "Remove the external dependencies and the fetch state")

	return cmd
}
