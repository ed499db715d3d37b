package padding_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idelchi/cryptopals/internal/padding"
)

func TestPad(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []byte("YELLOW SUBMARINE\x04\x04\x04\x04"), padding.Pad([]byte("YELLOW SUBMARINE"), 20))
	assert.Equal(t, []byte("YELLOW SUBMARINE\x03\x03\x03"), padding.Pad([]byte("YELLOW SUBMARINE"), 19))

	full := padding.Pad([]byte("YELLOW SUBMARINE"), 16)
	require.Len(t, full, 32)
	assert.Equal(t, byte(16), full[31])

	empty := padding.Pad(nil, 16)
	assert.Len(t, empty, 16)
}

func TestPadDoesNotAlias(t *testing.T) {
	t.Parallel()

	buf := make([]byte, 3, 64)
	copy(buf, "abc")

	padded := padding.Pad(buf, 8)
	padded[0] = 'X'

	assert.Equal(t, byte('a'), buf[0])
}

func TestUnpad(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
		err   error
	}{
		{name: "valid", input: "ICE ICE BABY\x04\x04\x04\x04", want: "ICE ICE BABY"},
		{name: "wrong count", input: "ICE ICE BABY\x05\x05\x05\x05", err: padding.ErrInvalidPadding},
		{name: "mixed bytes", input: "ICE ICE BABY\x01\x02\x03\x04", err: padding.ErrInvalidPadding},
		{name: "zero byte", input: "ICE ICE BABY\x00\x00\x00\x00", err: padding.ErrInvalidPadding},
		{name: "too large", input: "ICE ICE BABY\x04\x04\x04\x11", err: padding.ErrInvalidPadding},
		{name: "unaligned", input: "ICE ICE BABY\x01", err: padding.ErrInvalidBlockSize},
		{name: "empty", input: "", err: padding.ErrEmptyData},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, err := padding.Unpad([]byte(tc.input), 16)
			if tc.err != nil {
				require.ErrorIs(t, err, tc.err)
				assert.False(t, padding.Valid([]byte(tc.input), 16))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.want, string(got))
		})
	}
}
