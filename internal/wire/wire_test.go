package wire_test

import (
	"context"
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idelchi/cryptopals/internal/wire"
)

func TestMessageEncoding(t *testing.T) {
	t.Parallel()

	p, _ := new(big.Int).SetString("ffffffffffffffffc90fdaa22168c234c4c6628b80dc1cd1", 16)
	m := wire.NewMessage("hello").WithInt("p", p).WithInt("zero", big.NewInt(0)).WithBytes("iv", []byte{0, 1, 2})

	data, err := m.Marshal()
	require.NoError(t, err)

	got, err := wire.Unmarshal(data)
	require.NoError(t, err)
	assert.Equal(t, "hello", got.Kind)
	assert.Equal(t, 0, p.Cmp(got.Ints["p"]))
	assert.Equal(t, 0, got.Ints["zero"].Sign())
	assert.Equal(t, []byte{0, 1, 2}, got.Bytes["iv"])

	_, err = got.Int("missing")
	require.ErrorIs(t, err, wire.ErrMissingField)

	_, err = wire.Unmarshal([]byte{0xff, 0xff})
	require.Error(t, err)
}

func TestRelayRewrites(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	alice, mallorySideA := wire.Pipe()
	mallorySideB, bob := wire.Pipe()

	errs := make(chan error, 1)

	go func() {
		errs <- wire.Relay(ctx, mallorySideA, mallorySideB, 1, func(m wire.Message) (wire.Message, error) {
			return m.WithInt("x", big.NewInt(42)), nil
		})
	}()

	require.NoError(t, alice.Send(ctx, wire.NewMessage("num").WithInt("x", big.NewInt(1))))

	got, err := bob.Expect(ctx, "num")
	require.NoError(t, err)
	assert.Equal(t, int64(42), got.Ints["x"].Int64())
	require.NoError(t, <-errs)
}

func TestExpectKind(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	a, b := wire.Pipe()

	require.NoError(t, a.Send(ctx, wire.NewMessage("ack")))

	_, err := b.Expect(ctx, "key")
	require.ErrorIs(t, err, wire.ErrUnexpectedKind)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()

	_, err = b.Recv(cancelled)
	require.ErrorIs(t, err, context.Canceled)
}
