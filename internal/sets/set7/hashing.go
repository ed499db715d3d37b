package set7

import (
	"bytes"
	"context"
	"encoding/hex"
	"fmt"

	"github.com/idelchi/cryptopals/internal/blockmode"
	"github.com/idelchi/cryptopals/internal/cbcmac"
	"github.com/idelchi/cryptopals/internal/challenge"
	"github.com/idelchi/cryptopals/internal/md4collide"
	"github.com/idelchi/cryptopals/internal/mdcollide"
	"github.com/idelchi/cryptopals/internal/randutil"
)

const (
	snippetKey = "YELLOW SUBMARINE"
	// Snippet is the script whose CBC-MAC is matched.
	Snippet = "alert('MZA who was that?');\n"
	// SnippetTag is the CBC-MAC of Snippet under a zero IV.
	SnippetTag = "296b8d7cb78a243dda4d0a61d33bbdd1"
	// Replacement is the code the forged script runs.
	Replacement = "alert('Ayo, the Wu is back!');//"
)

func cbcmacHash(context.Context, *challenge.Env) (*challenge.Result, error) {
	block := blockmode.MustAES([]byte(snippetKey))
	iv := make([]byte, cbcmac.Size)

	tag, err := cbcmac.Sum(block, iv, []byte(Snippet))
	if err != nil {
		return nil, err
	}

	if err := challenge.Expect("snippet tag", hex.EncodeToString(tag), SnippetTag); err != nil {
		return nil, err
	}

	forged, err := cbcmac.Collide(block, iv, []byte(Snippet), []byte(Replacement))
	if err != nil {
		return nil, err
	}

	valid := cbcmac.Verify(block, iv, forged, tag)

	return &challenge.Result{Output: fmt.Sprintf("%q", forged)}, challenge.Expect("forged tag accepted", valid, true)
}

func multicollisions(ctx context.Context, env *challenge.Env) (*challenge.Result, error) {
	cheap, costly := mdcollide.New(2), mdcollide.New(3)

	m := mdcollide.MultiCollisions(cheap, 4)
	msgs := m.Messages()

	want := cheap.Sum(msgs[0])
	for _, msg := range msgs {
		if !bytes.Equal(cheap.Sum(msg), want) {
			return nil, fmt.Errorf("%w: multicollision member hashes differently", challenge.ErrMismatch)
		}
	}

	a, b, err := mdcollide.Cascade(ctx, cheap, costly)
	if err != nil {
		return nil, err
	}

	env.Logger.Debug("cascade collision", "cheap calls", cheap.Calls(), "costly calls", costly.Calls())

	res := &challenge.Result{
		Output:  fmt.Sprintf("%d-way collision, cascade %x = %x", len(msgs), cheap.Sum(a), costly.Sum(a)),
		Queries: cheap.Calls() + costly.Calls(),
	}

	if bytes.Equal(a, b) || !bytes.Equal(costly.Sum(a), costly.Sum(b)) || !bytes.Equal(cheap.Sum(a), cheap.Sum(b)) {
		return res, fmt.Errorf("%w: cascade pair does not collide", challenge.ErrMismatch)
	}

	return res, nil
}

func expandableMessages(_ context.Context, env *challenge.Env) (*challenge.Result, error) {
	k := 12
	if env.Quick {
		k = 8
	}

	h := mdcollide.New(2)
	msg := randutil.Bytes(mdcollide.BlockSize << k)

	forged, err := mdcollide.SecondPreimage(h, msg, k)
	if err != nil {
		return nil, err
	}

	res := &challenge.Result{Output: fmt.Sprintf("second preimage of %d blocks, hash %x", len(msg)/mdcollide.BlockSize, h.Sum(forged)), Queries: h.Calls()}

	if bytes.Equal(forged, msg) || !bytes.Equal(h.Sum(forged), h.Sum(msg)) {
		return res, fmt.Errorf("%w: not a second preimage", challenge.ErrMismatch)
	}

	return res, nil
}

// Prediction is the prefix a committed hash is forged for.
const Prediction = "Final score 3:1 for the home team"

func nostradamus(_ context.Context, env *challenge.Env) (*challenge.Result, error) {
	k := 8
	if env.Quick {
		k = 6
	}

	h := mdcollide.New(2)
	d := mdcollide.Nostradamus(h, k, 2)

	forged, err := d.Forge([]byte(Prediction)[:2*mdcollide.BlockSize])
	if err != nil {
		return nil, err
	}

	res := &challenge.Result{Output: fmt.Sprintf("committed to %x, forged %q...", d.Prediction, forged[:2*mdcollide.BlockSize]), Queries: h.Calls()}

	return res, challenge.Expect("hash", hex.EncodeToString(h.Sum(forged)), hex.EncodeToString(d.Prediction))
}

// CollisionTries bounds the message modifications tried for one MD4 collision.
const CollisionTries = 1 << 26

func md4Collisions(ctx context.Context, _ *challenge.Env) (*challenge.Result, error) {
	c, err := md4collide.Find(ctx, CollisionTries)
	if err != nil {
		return nil, err
	}

	res := &challenge.Result{Output: fmt.Sprintf("M1 %x\nM2 %x", c.M1, c.M2), Queries: c.Tries}

	return res, challenge.Expect("collision", md4collide.Verify(c.M1, c.M2), true)
}
