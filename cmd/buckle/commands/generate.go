package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/buckle/internal/app"
)

func (c *CLI) newGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "generate",
		Aliases: []string{"gen"},
		Short:   "Generate rule files and the external dependency cache",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			watch, _ := cmd.Flags().GetBool("watch")
			trace, _ := cmd.Flags().GetBool("trace")
			verbose, _ := cmd.Flags().GetBool("verbose")
			logFormat, _ := cmd.Flags().GetString("log-format")

			return c.app.Generate(cmd.Context(), app.GenerateOptions{
				Watch:     watch,
				Trace:     trace,
				Verbose:   verbose,
				LogFormat: logFormat,
			})
		},
	}
	cmd.Flags().BoolP("watch", "w", false, "Regenerate whenever the settings or the project model change")
	cmd.Flags().Bool("trace", false, "Log the duration of each generation phase")
	cmd.Flags().BoolP("verbose", "v", false, "Show debug messages")
	cmd.Flags().String("log-format", "auto", "Log format: auto, pretty, or json")
	return cmd
}
