package commands_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idelchi/gogen/pkg/cobraext"
	"github.com/spf13/viper"

	"github.com/idelchi/cryptopals/internal/commands"
	"github.com/idelchi/cryptopals/internal/config"
)

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	viper.Reset()

	var cfg config.Config

	var stdout, stderr bytes.Buffer

	cmd := commands.NewRootCommand(&cfg, "test")
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(context.Background())

	return stdout.String(), stderr.String(), err
}

func TestList(t *testing.T) {
	stdout, _, err := execute(t, "list", "--set", "8")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[0], "57  set 8"), lines[0])
}

func TestRun(t *testing.T) {
	stdout, stderr, err := execute(t, "run", "--quiet", "--stats", "1-2")
	require.NoError(t, err)

	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "Passed:    2")
}

func TestRunUnderscoreFlags(t *testing.T) {
	stdout, _, err := execute(t, "run", "--data_dir", t.TempDir(), "1")
	require.NoError(t, err)

	assert.Contains(t, stdout, "ok    1 Convert hex to base64")
}

func TestRunRejects(t *testing.T) {
	tests := map[string]struct {
		args []string
		want error
	}{
		"all with set":   {args: []string{"run", "--all", "--set", "2"}, want: config.ErrInvalid},
		"set with args":  {args: []string{"run", "--set", "2", "9"}, want: config.ErrInvalid},
		"out of range":   {args: []string{"run", "61"}, want: config.ErrInvalid},
		"reversed range": {args: []string{"run", "5-3"}, want: config.ErrInvalidSelection},
		"not a number":   {args: []string{"run", "one"}, want: config.ErrInvalidSelection},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			_, _, err := execute(t, tt.args...)
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestEnvironment(t *testing.T) {
	t.Setenv("CRYPTOPALS_PARALLEL", "0")

	_, _, err := execute(t, "list")
	require.ErrorIs(t, err, config.ErrInvalid)

	t.Setenv("CRYPTOPALS_PARALLEL", "2")
	t.Setenv("CRYPTOPALS_LOG_LEVEL", "verbose")

	_, _, err = execute(t, "list")
	require.ErrorIs(t, err, config.ErrInvalid)
}

func TestShow(t *testing.T) {
	_, _, err := execute(t, "list", "--show")
	require.ErrorIs(t, err, cobraext.ErrExitGracefully)
}
