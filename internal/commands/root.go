package commands

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/idelchi/gogen/pkg/cobraext"

	"github.com/idelchi/cryptopals/internal/catalog"
	"github.com/idelchi/cryptopals/internal/config"
	"github.com/idelchi/cryptopals/internal/logic"
)

// NewRootCommand creates the root command with common configuration.
// It sets up environment variable binding and flag handling.
func NewRootCommand(cfg *config.Config, version string) *cobra.Command {
	root := cobraext.NewDefaultRootCommand(version)

	root.Use = "cryptopals [flags] command [flags]"
	root.Short = "Run the cryptopals crypto challenges"
	root.Long = `Runs the cryptopals challenges of sets 1 through 8 in parallel.
Every challenge implements an attack against an in-process oracle and
checks the recovered secret. Flags can also be set as CRYPTOPALS_<FLAG>
environment variables.`

	root.SetGlobalNormalizationFunc(normalize)

	root.PersistentFlags().Bool("show", false, "Show the configuration and exit")
	root.PersistentFlags().IntP("parallel", "j", runtime.NumCPU(), "Number of parallel workers, defaults to number of CPUs")
	root.PersistentFlags().BoolP("quiet", "q", false, "Print only failures")
	root.PersistentFlags().Bool("stats", false, "Print a summary to stderr")
	root.PersistentFlags().StringP("data-dir", "d", "data", "Directory with challenge data files")
	root.PersistentFlags().String("manifest", "", "JSONC file mapping challenge numbers to data file names")
	root.PersistentFlags().String("log-level", "warn", "Log level (debug, info, warn, error)")
	root.PersistentFlags().Duration("timeout", 10*time.Minute, "Deadline for each challenge")

	root.AddCommand(NewRunCommand(cfg), NewListCommand(cfg))

	return root
}

// Execute builds the root command and runs it with ctx.
// A --show request counts as success.
func Execute(ctx context.Context, version string) error {
	cfg := &config.Config{}
	root := NewRootCommand(cfg, version)

	switch err := root.ExecuteContext(ctx); {
	case errors.Is(err, cobraext.ErrExitGracefully):
		return nil
	case err != nil:
		return fmt.Errorf("executing command: %w", err)
	default:
		return nil
	}
}

func newRunner(cmd *cobra.Command) (*logic.Runner, error) {
	reg, err := catalog.New()
	if err != nil {
		return nil, err
	}

	return &logic.Runner{Registry: reg, Stdout: cmd.OutOrStdout(), Stderr: cmd.ErrOrStderr()}, nil
}

// normalize accepts underscores in flag names, so --data_dir equals --data-dir.
func normalize(_ *pflag.FlagSet, name string) pflag.NormalizedName {
	return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
}
