package commands

import (
	"github.com/spf13/cobra"

	"github.com/idelchi/cryptopals/internal/config"
)

// NewRunCommand creates a new cobra command for the run subcommand.
func NewRunCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [flags] [numbers|ranges...]",
		Short: "Run challenges",
		Long: `Run challenges by number or inclusive range, for example "run 1 3-5".
Without a selection every challenge runs.`,
		Args:    cobra.ArbitraryArgs,
		PreRunE: preRun(cfg),
		RunE: func(cmd *cobra.Command, _ []string) error {
			runner, err := newRunner(cmd)
			if err != nil {
				return err
			}

			_, err = runner.Run(cmd.Context(), cfg)

			return err
		},
	}

	cmd.Flags().BoolP("all", "a", false, "Run every challenge")
	cmd.Flags().IntP("set", "s", 0, "Run one set")
	cmd.Flags().Bool("quick", false, "Use reduced search parameters for slow attacks")

	return cmd
}
