package commands

import (
	"github.com/spf13/cobra"

	"github.com/idelchi/gogen/pkg/cobraext"

	"github.com/idelchi/cryptopals/internal/config"
)

// preRun returns a PreRunE handler that resolves positional args into
// cfg.Challenges and validates the configuration.
func preRun(cfg *config.Config) func(*cobra.Command, []string) error {
	return func(_ *cobra.Command, args []string) error {
		challenges, err := config.ParseSelection(args)
		if err != nil {
			return err
		}

		cfg.Challenges = challenges

		return cobraext.Validate(cfg, cfg)
	}
}
