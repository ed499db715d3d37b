// Package config holds the validated configuration of the cryptopals CLI.
package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/idelchi/gogen/pkg/validator"
)

// MaxChallenge is the highest challenge number the CLI knows about.
const MaxChallenge = 60

// Config is populated from flags and CRYPTOPALS_* environment variables.
type Config struct {
	// Common flags
	Show     bool          `label:"--show"`
	Parallel int           `label:"--parallel"  validate:"min=1"`
	Quiet    bool          `label:"--quiet"`
	Stats    bool          `label:"--stats"`
	DataDir  string        `label:"--data-dir"  mapstructure:"data-dir"  validate:"required"`
	Manifest string        `label:"--manifest"`
	LogLevel string        `label:"--log-level" mapstructure:"log-level" validate:"oneof=debug info warn error"`
	Timeout  time.Duration `label:"--timeout"   validate:"gt=0"`

	// Selection
	All   bool `label:"--all" validate:"exclusive=Set Challenges"`
	Set   int  `label:"--set" validate:"min=0,max=8,exclusive=Challenges"`
	Quick bool `label:"--quick"`

	// Positional arguments
	Challenges []int `label:"[numbers...]" mapstructure:"-" validate:"dive,min=1,max=60"`
}

var (
	// ErrInvalid is returned when the configuration fails validation.
	ErrInvalid = errors.New("invalid configuration")
	// ErrInvalidSelection is returned for positional arguments that are neither numbers nor ranges.
	ErrInvalidSelection = errors.New("invalid challenge selection")
)

// Display reports whether the configuration should be printed instead of run.
func (c Config) Display() bool {
	return c.Show
}

// Validate validates config against its struct tags, wrapping every failure in ErrInvalid.
func (c Config) Validate(config any) error {
	validator := validator.NewValidator()

	if err := registerExclusive(validator); err != nil {
		return fmt.Errorf("registering exclusive: %w", err)
	}

	errs := validator.Validate(config)

	switch {
	case len(errs) == 0:
		return nil
	case len(errs) == 1:
		return fmt.Errorf("%w: %w", ErrInvalid, errs[0])
	default:
		return fmt.Errorf("%w:\n%w", ErrInvalid, errors.Join(errs...))
	}
}

// Selected reports whether any challenges were chosen explicitly.
func (c *Config) Selected() bool {
	return c.All || c.Set != 0 || len(c.Challenges) > 0
}

// ParseSelection turns arguments such as "1" and "3-5" into challenge numbers,
// keeping the first occurrence of each.
func ParseSelection(args []string) ([]int, error) {
	var out []int

	seen := make(map[int]bool)

	for _, arg := range args {
		lo, hi, err := parseRange(arg)
		if err != nil {
			return nil, err
		}

		for n := lo; n <= hi; n++ {
			if !seen[n] {
				seen[n] = true

				out = append(out, n)
			}
		}
	}

	return out, nil
}

func parseRange(arg string) (int, int, error) {
	first, last, isRange := strings.Cut(strings.TrimSpace(arg), "-")

	lo, err := strconv.Atoi(first)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q: %w", ErrInvalidSelection, arg, err)
	}

	if !isRange {
		return lo, lo, nil
	}

	hi, err := strconv.Atoi(last)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q: %w", ErrInvalidSelection, arg, err)
	}

	if hi < lo {
		return 0, 0, fmt.Errorf("%w: %q: range is reversed", ErrInvalidSelection, arg)
	}

	if hi-lo > MaxChallenge {
		return 0, 0, fmt.Errorf("%w: %q: range is wider than the catalog", ErrInvalidSelection, arg)
	}

	return lo, hi, nil
}
