package challenge_test

import (
	"context"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idelchi/cryptopals/internal/challenge"
)

func noop(context.Context, *challenge.Env) (*challenge.Result, error) {
	return &challenge.Result{Output: "ok"}, nil
}

func TestRegistry(t *testing.T) {
	t.Parallel()

	r := challenge.NewRegistry()

	require.NoError(t, r.Add(
		challenge.Challenge{Number: 9, Title: "nine", Run: noop},
		challenge.Challenge{Number: 1, Title: "one", Run: noop},
		challenge.Challenge{Number: 8, Title: "eight", Run: noop},
	))

	require.ErrorIs(t, r.Add(challenge.Challenge{Number: 1, Run: noop}), challenge.ErrDuplicate)
	require.ErrorIs(t, r.Add(challenge.Challenge{Number: 0, Run: noop}), challenge.ErrInvalidNumber)
	require.ErrorIs(t, r.Add(challenge.Challenge{Number: 2}), challenge.ErrNoRun)

	var numbers []int
	for _, c := range r.All() {
		numbers = append(numbers, c.Number)
	}

	assert.Equal(t, []int{1, 8, 9}, numbers)
	assert.Len(t, r.Set(1), 2)
	assert.Len(t, r.Set(2), 1)
	assert.Empty(t, r.Set(3))

	_, err := r.Get(4)
	require.ErrorIs(t, err, challenge.ErrUnknown)

	_, err = r.Select([]int{1, 4})
	require.ErrorIs(t, err, challenge.ErrUnknown)
}

func TestSet(t *testing.T) {
	t.Parallel()

	for number, set := range map[int]int{1: 1, 8: 1, 9: 2, 56: 7, 57: 8, 60: 8} {
		assert.Equal(t, set, challenge.Challenge{Number: number}.Set(), "challenge %d", number)
	}
}

func TestExecute(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")

	c := challenge.Challenge{
		Number: 3,
		Title:  "fails",
		Run: func(context.Context, *challenge.Env) (*challenge.Result, error) {
			return nil, boom
		},
	}

	res := c.Execute(context.Background(), &challenge.Env{})

	assert.Equal(t, 3, res.Number)
	assert.Equal(t, "fails", res.Title)
	require.ErrorIs(t, res.Err, boom)
}

func TestExecuteRecoversPanic(t *testing.T) {
	t.Parallel()

	c := challenge.Challenge{
		Number: 4,
		Title:  "panics",
		Run: func(context.Context, *challenge.Env) (*challenge.Result, error) {
			var key []byte

			return &challenge.Result{Output: string(key[:1])}, nil
		},
	}

	res := c.Execute(context.Background(), &challenge.Env{})

	assert.Equal(t, 4, res.Number)
	assert.Equal(t, "panics", res.Title)
	require.ErrorIs(t, res.Err, challenge.ErrPanic)
	assert.Contains(t, res.Err.Error(), "out of range")
}

func TestExpect(t *testing.T) {
	t.Parallel()

	require.NoError(t, challenge.Expect("answer", 42, 42))
	require.ErrorIs(t, challenge.Expect("answer", "a", "b"), challenge.ErrMismatch)
}

func write(t *testing.T, dir, name, content string) {
	t.Helper()

	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
}

func TestData(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	doc := base64.StdEncoding.EncodeToString([]byte("Hello, cryptopals! This spans lines."))
	write(t, dir, "6.txt", doc[:20]+"\n"+doc[20:]+"\n")
	write(t, dir, "8.txt", hex.EncodeToString([]byte("abc"))+"\n\n"+hex.EncodeToString([]byte("def"))+"\n")
	write(t, dir, "lines.txt", "first\nsecond\n")
	write(t, dir, "manifest.jsonc", "{\n  // renamed input\n  \"4\": \"lines.txt\",\n}\n")

	data, err := challenge.NewData(dir, filepath.Join(dir, "manifest.jsonc"))
	require.NoError(t, err)

	got, err := data.Base64(6)
	require.NoError(t, err)
	assert.Equal(t, "Hello, cryptopals! This spans lines.", string(got))

	hexLines, err := data.HexLines(8)
	require.NoError(t, err)
	assert.Equal(t, [][]byte{[]byte("abc"), []byte("def")}, hexLines)

	lines, err := data.Lines(4)
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second"}, lines)

	_, err = data.Read(7)
	require.ErrorIs(t, err, challenge.ErrMissingData)

	_, err = data.Base64Lines(4)
	require.Error(t, err)
}

func TestManifestRejectsNonNumericKeys(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	write(t, dir, "manifest.jsonc", `{"four": "4.txt"}`)

	_, err := challenge.NewData(dir, filepath.Join(dir, "manifest.jsonc"))
	require.Error(t, err)
}
