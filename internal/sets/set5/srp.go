package set5

import (
	"context"
	"encoding/hex"
	"fmt"
	"net/http/httptest"

	"github.com/idelchi/cryptopals/internal/challenge"
	"github.com/idelchi/cryptopals/internal/randutil"
	"github.com/idelchi/cryptopals/internal/srp"
)

// Email is the account the SRP challenges log in to.
const Email = "alice@example.com"

// Dictionary is a list of common passwords for the offline attack.
var Dictionary = []string{
	"123456", "password", "12345678", "qwerty", "123456789", "12345", "1234",
	"111111", "1234567", "dragon", "123123", "baseball", "abc123", "football",
	"monkey", "letmein", "696969", "shadow", "master", "666666", "qwertyuiop",
	"123321", "mustang", "1234567890", "michael", "654321", "superman",
	"1qaz2wsx", "7777777", "121212", "000000", "qazwsx", "123qwe", "killer",
	"trustno1", "jordan", "jennifer", "zxcvbnm", "asdfgh", "hunter", "buster",
	"soccer", "harley", "batman", "andrew", "tigger", "sunshine", "iloveyou",
}

// srpSession serves SRP over httptest for one registered password.
func srpSession(password string) (*srp.Server, *srp.Client, func()) {
	params := srp.DefaultParams()

	srv := srp.NewServer(params)
	srv.Register(Email, password)

	ts := httptest.NewServer(srv.Router())

	return srv, srp.NewClient(ts.Client(), ts.URL, params), ts.Close
}

func secureRemotePassword(ctx context.Context, _ *challenge.Env) (*challenge.Result, error) {
	password := Dictionary[randutil.Intn(len(Dictionary))]

	srv, client, done := srpSession(password)
	defer done()

	token, err := client.Login(ctx, Email, password)
	if err != nil {
		return nil, fmt.Errorf("logging in: %w", err)
	}

	who, _ := srv.Session(token)

	if _, err := client.Login(ctx, Email, password+"!"); err == nil {
		return nil, fmt.Errorf("%w: wrong password accepted", challenge.ErrMismatch)
	}

	return &challenge.Result{Output: "logged in as " + who, Queries: 4}, challenge.Expect("session", who, Email)
}

func zeroKey(ctx context.Context, _ *challenge.Env) (*challenge.Result, error) {
	srv, client, done := srpSession(hex.EncodeToString(randutil.Bytes(8)))
	defer done()

	res := &challenge.Result{}

	for _, multiple := range []int64{0, 1, 2} {
		token, err := client.LoginWithoutPassword(ctx, Email, multiple)
		if err != nil {
			return res, fmt.Errorf("A = %d*N: %w", multiple, err)
		}

		if _, ok := srv.Session(token); !ok {
			return res, fmt.Errorf("%w: no session for A = %d*N", challenge.ErrMismatch, multiple)
		}

		res.Queries += 2
		res.Recovered++
	}

	res.Output = fmt.Sprintf("logged in as %s %d times without the password", Email, res.Recovered)

	return res, nil
}

func offlineDictionary(context.Context, *challenge.Env) (*challenge.Result, error) {
	params := srp.DefaultParams()
	password := Dictionary[randutil.Intn(len(Dictionary))]

	honest := srp.NewSimpleServer(params, password)
	eph := params.NewEphemeral()

	hello, check := honest.Hello(eph.Public)
	if !check(params.SimpleClientProof(eph, hello, password)) {
		return nil, fmt.Errorf("%w: honest simplified login failed", challenge.ErrMismatch)
	}

	eph = params.NewEphemeral()
	proof := params.SimpleClientProof(eph, params.MaliciousHello(), password)

	got, err := params.CrackSimple(eph.Public, proof, Dictionary)
	if err != nil {
		return nil, err
	}

	return &challenge.Result{Output: "password " + got}, challenge.Expect("password", got, password)
}
