package commands

import (
	"fmt"
	"maps"
	"slices"

	"github.com/spf13/cobra"
)

func (c *CLI) newFetchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch the external dependencies only",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ext, err := c.app.Fetch(cmd.Context(), buildOptions(cmd))
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, name := range slices.Sorted(maps.Keys(ext)) {
				_, _ = fmt.Fprintf(out, "%s -> %s\n", name, ext[name])
			}
			return nil
		},
	}

	addBuildFlags(cmd)
	return cmd
}
