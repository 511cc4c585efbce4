package commands

import (
	"github.com/rlavarec-gpsw/gopro-lib-node.gl/internal/app"
	"github.com/spf13/cobra"
)

func (c *CLI) newConfigureCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "configure",
		Short: "Fetch the dependencies and generate the Makefile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			skipVenv, _ := cmd.Flags().GetBool("skip-venv")
			output, _ := cmd.Flags().GetString("output")

			return c.app.Configure(cmd.Context(), app.ConfigureOptions{
				Options:  buildOptions(cmd),
				SkipVenv: skipVenv,
				Output:   output,
			})
		},
	}

	addBuildFlags(cmd)
	cmd.Flags().Bool("skip-venv", false, "Do not create the Python virtual environment")
	cmd.Flags().StringP("output", "o", "", "Generated Makefile path (default <root>/Makefile)")

	return cmd
}
