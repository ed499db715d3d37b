package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idelchi/cryptopals/internal/config"
)

func valid() config.Config {
	return config.Config{Parallel: 2, DataDir: "data", LogLevel: "warn", Timeout: time.Minute}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		modify func(*config.Config)
		errMsg string
	}{
		{name: "defaults", modify: func(*config.Config) {}},
		{name: "all", modify: func(c *config.Config) { c.All = true }},
		{name: "set", modify: func(c *config.Config) { c.Set = 3 }},
		{name: "numbers", modify: func(c *config.Config) { c.Challenges = []int{1, 60} }},
		{name: "all and set", modify: func(c *config.Config) { c.All, c.Set = true, 2 }, errMsg: "--all is mutually exclusive"},
		{name: "all and numbers", modify: func(c *config.Config) { c.All, c.Challenges = true, []int{1} }, errMsg: "--all is mutually exclusive"},
		{name: "set and numbers", modify: func(c *config.Config) { c.Set, c.Challenges = 1, []int{1} }, errMsg: "--set is mutually exclusive"},
		{name: "set out of range", modify: func(c *config.Config) { c.Set = 9 }, errMsg: "--set"},
		{name: "number out of range", modify: func(c *config.Config) { c.Challenges = []int{61} }, errMsg: "[numbers...]"},
		{name: "bad level", modify: func(c *config.Config) { c.LogLevel = "loud" }, errMsg: "--log-level must be one of"},
		{name: "no workers", modify: func(c *config.Config) { c.Parallel = 0 }, errMsg: "--parallel"},
		{name: "no timeout", modify: func(c *config.Config) { c.Timeout = 0 }, errMsg: "--timeout"},
		{name: "two failures", modify: func(c *config.Config) { c.Parallel, c.Set = 0, 9 }, errMsg: "--set"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := valid()
			tt.modify(&cfg)

			err := cfg.Validate(&cfg)
			if tt.errMsg == "" {
				require.NoError(t, err)

				return
			}

			require.ErrorIs(t, err, config.ErrInvalid)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestDisplay(t *testing.T) {
	t.Parallel()

	cfg := valid()
	assert.False(t, cfg.Display())

	cfg.Show = true
	assert.True(t, cfg.Display())
}

func TestParseSelection(t *testing.T) {
	t.Parallel()

	got, err := config.ParseSelection([]string{"1", "3-5", "4", "60"})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 3, 4, 5, 60}, got)

	got, err = config.ParseSelection(nil)
	require.NoError(t, err)
	assert.Empty(t, got)

	for _, bad := range []string{"x", "5-2", "1-", "-3", "1-1000"} {
		_, err := config.ParseSelection([]string{bad})
		require.ErrorIs(t, err, config.ErrInvalidSelection, bad)
	}
}
