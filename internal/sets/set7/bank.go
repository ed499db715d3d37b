package set7

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"

	"github.com/idelchi/cryptopals/internal/cbcmac"
	"github.com/idelchi/cryptopals/internal/challenge"
)

// Accounts used by the forgery.
const (
	Victim   = 1
	Attacker = 2
	// Amount is what the attacker moves into their account.
	Amount = 1000000
)

// Teller posts signed transfer requests to a bank over HTTP.
type Teller struct {
	client  *http.Client
	baseURL string
}

// NewTeller targets the bank at baseURL.
func NewTeller(client *http.Client, baseURL string) *Teller {
	return &Teller{client: client, baseURL: baseURL}
}

// Post submits req to the given API version and returns the applied transfers.
func (t *Teller) Post(ctx context.Context, version string, req []byte) ([]cbcmac.Transfer, error) {
	body, err := json.Marshal(cbcmac.TransferRequest{Message: hex.EncodeToString(req)})
	if err != nil {
		return nil, fmt.Errorf("encoding request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL+"/"+version+"/transfer", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("posting transfer: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var e cbcmac.ErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&e); err != nil {
			return nil, fmt.Errorf("%w: %s: decoding error body: %w", ErrRejected, resp.Status, err)
		}

		return nil, fmt.Errorf("%w: %s: %s", ErrRejected, resp.Status, e.Message)
	}

	var out cbcmac.TransferResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	return out.Transfers, nil
}

// ForgeV1 signs a transfer from the attacker's own account and moves the
// source to the victim by adjusting the IV.
func ForgeV1(bank *cbcmac.Bank) ([]byte, error) {
	req, err := bank.Client(Attacker).SignV1(Attacker, Amount)
	if err != nil {
		return nil, err
	}

	n := len(req) - 2*cbcmac.Size
	msg, iv, tag := req[:n], req[n:n+cbcmac.Size], req[n+cbcmac.Size:]

	forgedMsg := bytes.Replace(msg, []byte(fmt.Sprintf("from=#%d", Attacker)), []byte(fmt.Sprintf("from=#%d", Victim)), 1)

	forgedIV, err := cbcmac.ForgeIV(iv, msg, forgedMsg)
	if err != nil {
		return nil, err
	}

	return append(append(forgedMsg, forgedIV...), tag...), nil
}

// ForgeV2 appends a transfer to the attacker onto a captured victim request.
// The attacker's own signed request supplies the tag; its first block is
// replaced by glue and the entry it corrupts is skipped by the bank.
func ForgeV2(bank *cbcmac.Bank, captured []byte) ([]byte, error) {
	own, err := bank.Client(Attacker).SignV2([]cbcmac.Transfer{{To: Attacker, Amount: 1}, {To: Attacker, Amount: Amount}})
	if err != nil {
		return nil, err
	}

	first, firstTag := captured[:len(captured)-cbcmac.Size], captured[len(captured)-cbcmac.Size:]
	second, secondTag := own[:len(own)-cbcmac.Size], own[len(own)-cbcmac.Size:]

	forged, err := cbcmac.Extend(first, firstTag, second)
	if err != nil {
		return nil, err
	}

	return append(forged, secondTag...), nil
}

func cbcmacForgery(ctx context.Context, env *challenge.Env) (*challenge.Result, error) {
	bank := cbcmac.NewBank()

	ts := httptest.NewServer(bank.Router())
	defer ts.Close()

	teller := NewTeller(ts.Client(), ts.URL)
	want := cbcmac.Transfer{From: Victim, To: Attacker, Amount: Amount}
	res := &challenge.Result{}

	v1, err := ForgeV1(bank)
	if err != nil {
		return nil, err
	}

	applied, err := teller.Post(ctx, "v1", v1)
	if err != nil {
		return nil, fmt.Errorf("v1: %w", err)
	}

	res.Queries++

	if err := challenge.Expect("v1 transfer", applied[0], want); err != nil {
		return res, err
	}

	captured, err := bank.Client(Victim).SignV2([]cbcmac.Transfer{{To: 3, Amount: 5000}, {To: 4, Amount: 7000}})
	if err != nil {
		return nil, err
	}

	v2, err := ForgeV2(bank, captured)
	if err != nil {
		return nil, err
	}

	applied, err = teller.Post(ctx, "v2", v2)
	if err != nil {
		return res, fmt.Errorf("v2: %w", err)
	}

	res.Queries++

	env.Logger.Debug("v2 transfers applied", "transfers", applied)

	for _, t := range applied {
		if t == want {
			res.Output = fmt.Sprintf("moved %d from #%d to #%d in v1 and v2", Amount, Victim, Attacker)

			return res, nil
		}
	}

	return res, fmt.Errorf("%w: v2 forgery applied %v", challenge.ErrMismatch, applied)
}
