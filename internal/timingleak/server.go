// Package timingleak serves HMAC-SHA1 verification through an early-exit
// comparison with an artificial per-byte delay, and recovers valid
// signatures from the resulting timing side channel.
package timingleak

import (
	"context"
	"encoding/hex"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tink-crypto/tink-go/v2/mac/subtle"
)

// SignatureSize is the size of an HMAC-SHA1 tag.
const SignatureSize = 20

// Server verifies file signatures with a leaky comparison.
type Server struct {
	mac   *subtle.HMAC
	delay time.Duration
}

// NewServer creates a server holding an HMAC-SHA1 key. The key must be at least 16 bytes.
func NewServer(key []byte, delay time.Duration) (*Server, error) {
	m, err := subtle.NewHMAC("SHA1", key, SignatureSize)
	if err != nil {
		return nil, fmt.Errorf("creating hmac: %w", err)
	}

	return &Server{mac: m, delay: delay}, nil
}

// Sign returns the valid signature for file.
func (s *Server) Sign(file string) ([]byte, error) {
	tag, err := s.mac.ComputeMAC([]byte(file))
	if err != nil {
		return nil, fmt.Errorf("computing mac: %w", err)
	}

	return tag, nil
}

// Router returns a gin engine serving GET /test?file=...&signature=....
func (s *Server) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.GET("/test", s.handleTest)

	return r
}

func (s *Server) handleTest(ctx *gin.Context) {
	signature, err := hex.DecodeString(ctx.Query("signature"))
	if err != nil {
		ctx.String(http.StatusBadRequest, "invalid signature encoding")

		return
	}

	want, err := s.Sign(ctx.Query("file"))
	if err != nil {
		ctx.String(http.StatusInternalServerError, err.Error())

		return
	}

	if !InsecureCompare(ctx.Request.Context(), want, signature, s.delay) {
		ctx.String(http.StatusInternalServerError, "invalid signature")

		return
	}

	ctx.String(http.StatusOK, "ok")
}

// InsecureCompare compares a and b byte by byte, sleeping delay after every
// matching byte and returning at the first mismatch.
func InsecureCompare(ctx context.Context, a, b []byte, delay time.Duration) bool {
	if len(a) != len(b) {
		return false
	}

	for i := range a {
		if a[i] != b[i] {
			return false
		}

		select {
		case <-ctx.Done():
			return false
		case <-time.After(delay):
		}
	}

	return true
}
