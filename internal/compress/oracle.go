// Package compress implements a compression ratio side channel against
// encrypted HTTP requests.
package compress

import (
	"bytes"
	"compress/flate"
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/idelchi/cryptopals/internal/blockmode"
	"github.com/idelchi/cryptopals/internal/padding"
	"github.com/idelchi/cryptopals/internal/randutil"
)

// Mode selects the cipher wrapped around the compressed request.
type Mode int

const (
	// CTR hides nothing of the compressed length.
	CTR Mode = iota
	// CBC rounds the compressed length up to the next block.
	CBC
)

// BlockSize returns the length granularity the mode leaks.
func (m Mode) BlockSize() int {
	if m == CBC {
		return 16
	}

	return 1
}

func (m Mode) String() string {
	if m == CBC {
		return "cbc"
	}

	return "ctr"
}

// Marker precedes the secret in every formatted request.
const Marker = "sessionid="

// FormatRequest renders the request the victim sends for an attacker supplied body.
func FormatRequest(session string, body []byte) []byte {
	var buf bytes.Buffer

	buf.WriteString("POST / HTTP/1.1\nHost: hapless.com\nCookie: " + Marker + session + "\n")
	buf.WriteString("Content-Length: " + strconv.Itoa(len(body)) + "\n")
	buf.Write(body)

	return buf.Bytes()
}

// Oracle reports the length of the encrypted, compressed request.
type Oracle struct {
	session string
	mode    Mode
	queries atomic.Int64
	writers sync.Pool
}

// NewOracle creates an oracle holding session.
func NewOracle(session string, mode Mode) *Oracle {
	return &Oracle{session: session, mode: mode}
}

func (o *Oracle) compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer

	w, ok := o.writers.Get().(*flate.Writer)
	if ok {
		w.Reset(&buf)
	} else {
		var err error

		if w, err = flate.NewWriter(&buf, flate.BestCompression); err != nil {
			return nil, fmt.Errorf("creating compressor: %w", err)
		}
	}

	defer o.writers.Put(w)

	if _, err := w.Write(data); err != nil {
		return nil, fmt.Errorf("compressing request: %w", err)
	}

	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("compressing request: %w", err)
	}

	return buf.Bytes(), nil
}

// Length compresses and encrypts the request under a fresh key and returns its length.
func (o *Oracle) Length(body []byte) (int, error) {
	o.queries.Add(1)

	compressed, err := o.compress(FormatRequest(o.session, body))
	if err != nil {
		return 0, err
	}

	block := blockmode.MustAES(randutil.Bytes(16))

	if o.mode == CBC {
		ct, err := blockmode.CBCEncrypt(block, randutil.Bytes(16), padding.Pad(compressed, 16))
		if err != nil {
			return 0, fmt.Errorf("encrypting request: %w", err)
		}

		return len(ct), nil
	}

	return len(blockmode.CTRCrypt(block, uint64(randutil.Uint32()), compressed)), nil
}

// Queries returns the number of oracle calls made so far.
func (o *Oracle) Queries() int64 {
	return o.queries.Load()
}
