package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (c *CLI) newStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Compare the fetched dependencies with the configured ones",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			statuses, err := c.app.Status(cmd.Context(), buildOptions(cmd))
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, s := range statuses {
				version := s.Version
				switch {
				case s.Version == "":
					version = s.FetchedVersion
				case s.FetchedVersion != "" && s.FetchedVersion != s.Version:
					version = s.FetchedVersion + " -> " + s.Version
				}
				_, _ = fmt.Fprintf(out, "%-8s %-20s %s\n", s.State, s.Name, version)
			}
			return nil
		},
	}

	addBuildFlags(cmd)
	return cmd
}
