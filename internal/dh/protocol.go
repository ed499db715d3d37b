package dh

import (
	"context"
	"fmt"
	"math/big"

	"github.com/idelchi/cryptopals/internal/blockmode"
	"github.com/idelchi/cryptopals/internal/padding"
	"github.com/idelchi/cryptopals/internal/randutil"
	"github.com/idelchi/cryptopals/internal/wire"
)

// Message kinds of the echo protocol.
const (
	KindHello  = "hello"
	KindParams = "params"
	KindAck    = "ack"
	KindKey    = "key"
	KindData   = "data"
)

// Mode selects the handshake variant.
type Mode int

const (
	// Combined sends p, g and A in a single hello.
	Combined Mode = iota
	// Negotiated sends p and g, waits for an ack, then exchanges public keys.
	Negotiated
)

// Seal encrypts msg under key with AES-CBC and a random IV, returning ciphertext and IV.
func Seal(key, msg []byte) ([]byte, []byte, error) {
	block, err := blockmode.NewAES(key)
	if err != nil {
		return nil, nil, err
	}

	iv := randutil.Bytes(block.BlockSize())

	ct, err := blockmode.CBCEncrypt(block, iv, padding.Pad(msg, block.BlockSize()))
	if err != nil {
		return nil, nil, fmt.Errorf("encrypting: %w", err)
	}

	return ct, iv, nil
}

// Open decrypts a Seal output.
func Open(key, ct, iv []byte) ([]byte, error) {
	block, err := blockmode.NewAES(key)
	if err != nil {
		return nil, err
	}

	pt, err := blockmode.CBCDecrypt(block, iv, ct)
	if err != nil {
		return nil, fmt.Errorf("decrypting: %w", err)
	}

	pt, err = padding.Unpad(pt, block.BlockSize())
	if err != nil {
		return nil, fmt.Errorf("unpadding: %w", err)
	}

	return pt, nil
}

// DataMessage wraps an encrypted payload for the wire.
func DataMessage(key, msg []byte) (wire.Message, error) {
	ct, iv, err := Seal(key, msg)
	if err != nil {
		return wire.Message{}, err
	}

	return wire.NewMessage(KindData).WithBytes("ct", ct).WithBytes("iv", iv), nil
}

// OpenMessage decrypts a data message.
func OpenMessage(key []byte, m wire.Message) ([]byte, error) {
	ct, err := m.Byte("ct")
	if err != nil {
		return nil, err
	}

	iv, err := m.Byte("iv")
	if err != nil {
		return nil, err
	}

	return Open(key, ct, iv)
}

// Initiate runs the initiator side: it agrees on a key, sends msg, and
// returns the echo the responder sent back.
func Initiate(ctx context.Context, conn *wire.Conn, group Group, mode Mode, msg []byte) ([]byte, error) {
	key := group.GenerateKey()

	var peer *big.Int

	switch mode {
	case Combined:
		hello := wire.NewMessage(KindHello).WithInt("p", group.P).WithInt("g", group.G).WithInt("A", key.Public)
		if err := conn.Send(ctx, hello); err != nil {
			return nil, err
		}
	case Negotiated:
		if err := conn.Send(ctx, wire.NewMessage(KindParams).WithInt("p", group.P).WithInt("g", group.G)); err != nil {
			return nil, err
		}

		if _, err := conn.Expect(ctx, KindAck); err != nil {
			return nil, err
		}

		if err := conn.Send(ctx, wire.NewMessage(KindKey).WithInt("A", key.Public)); err != nil {
			return nil, err
		}
	}

	reply, err := conn.Expect(ctx, KindKey)
	if err != nil {
		return nil, err
	}

	if peer, err = reply.Int("B"); err != nil {
		return nil, err
	}

	aesKey := DeriveKey(group.Shared(key.Private, peer))

	data, err := DataMessage(aesKey, msg)
	if err != nil {
		return nil, err
	}

	if err := conn.Send(ctx, data); err != nil {
		return nil, err
	}

	echo, err := conn.Expect(ctx, KindData)
	if err != nil {
		return nil, err
	}

	return OpenMessage(aesKey, echo)
}

// Respond runs the echo side: it agrees on a key, decrypts one message and
// sends it back re-encrypted. It returns the message it received.
func Respond(ctx context.Context, conn *wire.Conn, mode Mode) ([]byte, error) {
	var (
		group Group
		peer  *big.Int
	)

	switch mode {
	case Combined:
		hello, err := conn.Expect(ctx, KindHello)
		if err != nil {
			return nil, err
		}

		if group, err = groupFrom(hello); err != nil {
			return nil, err
		}

		if peer, err = hello.Int("A"); err != nil {
			return nil, err
		}
	case Negotiated:
		params, err := conn.Expect(ctx, KindParams)
		if err != nil {
			return nil, err
		}

		if group, err = groupFrom(params); err != nil {
			return nil, err
		}

		if err := conn.Send(ctx, wire.NewMessage(KindAck)); err != nil {
			return nil, err
		}

		pub, err := conn.Expect(ctx, KindKey)
		if err != nil {
			return nil, err
		}

		if peer, err = pub.Int("A"); err != nil {
			return nil, err
		}
	}

	key := group.GenerateKey()
	if err := conn.Send(ctx, wire.NewMessage(KindKey).WithInt("B", key.Public)); err != nil {
		return nil, err
	}

	aesKey := DeriveKey(group.Shared(key.Private, peer))

	data, err := conn.Expect(ctx, KindData)
	if err != nil {
		return nil, err
	}

	msg, err := OpenMessage(aesKey, data)
	if err != nil {
		return nil, err
	}

	echo, err := DataMessage(aesKey, msg)
	if err != nil {
		return nil, err
	}

	return msg, conn.Send(ctx, echo)
}

func groupFrom(m wire.Message) (Group, error) {
	p, err := m.Int("p")
	if err != nil {
		return Group{}, err
	}

	g, err := m.Int("g")
	if err != nil {
		return Group{}, err
	}

	return Group{P: p, G: g}, nil
}
