package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/buckle/internal/app"
)

func (c *CLI) newCleanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove the dependency cache, generated manifests and generation state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rules, _ := cmd.Flags().GetBool("rules")
			return c.app.Clean(cmd.Context(), app.CleanOptions{Rules: rules})
		},
	}

	cmd.Flags().BoolP("rules", "r", false, "Also remove every rule file written by the last generation")

	return cmd
}
