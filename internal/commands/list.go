package commands

import (
	"github.com/spf13/cobra"

	"github.com/idelchi/cryptopals/internal/config"
)

// NewListCommand creates a new cobra command for the list subcommand.
func NewListCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "list [flags]",
		Aliases: []string{"ls"},
		Short:   "List challenges",
		Args:    cobra.NoArgs,
		PreRunE: preRun(cfg),
		RunE: func(cmd *cobra.Command, _ []string) error {
			runner, err := newRunner(cmd)
			if err != nil {
				return err
			}

			return runner.List(cfg)
		},
	}

	cmd.Flags().IntP("set", "s", 0, "List one set")

	return cmd
}
