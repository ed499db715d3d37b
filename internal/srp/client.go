package srp

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
)

// Client logs in to a Server over HTTP.
type Client struct {
	http    *http.Client
	baseURL string
	params  Params
}

// NewClient targets the server at baseURL.
func NewClient(client *http.Client, baseURL string, params Params) *Client {
	return &Client{http: client, baseURL: baseURL, params: params}
}

// Login runs the honest handshake and returns the session token.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	eph := c.params.NewEphemeral()

	start, err := c.start(ctx, email, eph.Public)
	if err != nil {
		return "", err
	}

	secret := c.params.ClientSecret(eph, start.public, start.salt, password)

	return c.verify(ctx, email, Proof(SessionKey(secret), start.salt))
}

// LoginWithoutPassword sends A = multiple * N, which forces the server's
// secret to zero, and proves knowledge of the corresponding key.
func (c *Client) LoginWithoutPassword(ctx context.Context, email string, multiple int64) (string, error) {
	public := new(big.Int).Mul(c.params.N, big.NewInt(multiple))

	start, err := c.start(ctx, email, public)
	if err != nil {
		return "", err
	}

	return c.verify(ctx, email, Proof(SessionKey(new(big.Int)), start.salt))
}

type started struct {
	salt   []byte
	public *big.Int
}

func (c *Client) start(ctx context.Context, email string, public *big.Int) (started, error) {
	var resp StartResponse
	if err := c.post(ctx, "/srp/start", StartRequest{Email: email, Public: public.Text(16)}, &resp); err != nil {
		return started{}, err
	}

	salt, err := hex.DecodeString(resp.Salt)
	if err != nil {
		return started{}, fmt.Errorf("decoding salt: %w", err)
	}

	serverPublic, ok := new(big.Int).SetString(resp.Public, 16)
	if !ok {
		return started{}, fmt.Errorf("%w: server public value", ErrBadResponse)
	}

	return started{salt: salt, public: serverPublic}, nil
}

func (c *Client) verify(ctx context.Context, email string, proof []byte) (string, error) {
	var resp VerifyResponse
	if err := c.post(ctx, "/srp/verify", VerifyRequest{Email: email, Proof: hex.EncodeToString(proof)}, &resp); err != nil {
		return "", err
	}

	return resp.Session, nil
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("posting %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var e ErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&e); err != nil {
			return fmt.Errorf("%w: %s returned %d: decoding error body: %w", ErrRejected, path, resp.StatusCode, err)
		}

		return fmt.Errorf("%w: %s returned %d: %s", ErrRejected, path, resp.StatusCode, e.Message)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s response: %w", path, err)
	}

	return nil
}
