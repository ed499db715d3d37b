package wire

import (
	"context"
	"fmt"
)

// Conn is one end of an in-memory duplex connection.
type Conn struct {
	in  <-chan []byte
	out chan<- []byte
}

// Pipe returns two connected ends.
func Pipe() (*Conn, *Conn) {
	ab := make(chan []byte, 1)
	ba := make(chan []byte, 1)

	return &Conn{in: ba, out: ab}, &Conn{in: ab, out: ba}
}

// Send marshals m and delivers it to the peer.
func (c *Conn) Send(ctx context.Context, m Message) error {
	data, err := m.Marshal()
	if err != nil {
		return err
	}

	return c.SendRaw(ctx, data)
}

// SendRaw delivers already encoded bytes to the peer.
func (c *Conn) SendRaw(ctx context.Context, data []byte) error {
	select {
	case c.out <- data:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("sending: %w", ctx.Err())
	}
}

// Recv waits for the next message from the peer.
func (c *Conn) Recv(ctx context.Context) (Message, error) {
	select {
	case data := <-c.in:
		return Unmarshal(data)
	case <-ctx.Done():
		return Message{}, fmt.Errorf("receiving: %w", ctx.Err())
	}
}

// Expect receives a message and checks its kind.
func (c *Conn) Expect(ctx context.Context, kind string) (Message, error) {
	m, err := c.Recv(ctx)
	if err != nil {
		return Message{}, err
	}

	if m.Kind != kind {
		return Message{}, fmt.Errorf("%w: got %q, want %q", ErrUnexpectedKind, m.Kind, kind)
	}

	return m, nil
}

// Rewriter inspects and optionally alters a message in transit.
type Rewriter func(Message) (Message, error)

// Relay forwards count messages from src to dst through rewrite.
// A nil rewrite forwards messages unchanged.
func Relay(ctx context.Context, src, dst *Conn, count int, rewrite Rewriter) error {
	for range count {
		m, err := src.Recv(ctx)
		if err != nil {
			return err
		}

		if rewrite != nil {
			rewritten, err := rewrite(m)
			if err != nil {
				return fmt.Errorf("rewriting %s: %w", m.Kind, err)
			}

			m = rewritten
		}

		if err := dst.Send(ctx, m); err != nil {
			return err
		}
	}

	return nil
}
