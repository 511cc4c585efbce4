package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (c *CLI) newBlocksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "blocks",
		Short: "Print the blocks in emission order without fetching",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			names, err := c.app.Blocks(cmd.Context(), buildOptions(cmd))
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, name := range names {
				_, _ = fmt.Fprintln(out, name)
			}
			return nil
		},
	}

	addBuildFlags(cmd)
	return cmd
}
