package cbcmac

import (
	"crypto/cipher"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/idelchi/cryptopals/internal/blockmode"
	"github.com/idelchi/cryptopals/internal/randutil"
)

// Transfer moves Amount from one account to another.
type Transfer struct {
	From   int   `json:"from"`
	To     int   `json:"to"`
	Amount int64 `json:"amount"`
}

// Bank verifies signed transfer requests and records the transfers.
// The key is shared with the web client that signs requests for logged-in users.
type Bank struct {
	block cipher.Block

	mu        sync.Mutex
	transfers []Transfer
}

// NewBank creates a bank with a random key.
func NewBank() *Bank {
	return &Bank{block: blockmode.MustAES(randutil.Bytes(Size))}
}

// Transfers returns the transfers accepted so far.
func (b *Bank) Transfers() []Transfer {
	b.mu.Lock()
	defer b.mu.Unlock()

	return append([]Transfer(nil), b.transfers...)
}

// Client signs requests for a single logged-in account.
type Client struct {
	block   cipher.Block
	account int
}

// Client returns a signing client for account.
func (b *Bank) Client(account int) *Client {
	return &Client{block: b.block, account: account}
}

// SignV1 returns "from=#A&to=#B&amount=#N" || IV || MAC with a random IV.
func (c *Client) SignV1(to int, amount int64) ([]byte, error) {
	msg := []byte(fmt.Sprintf("from=#%d&to=#%d&amount=#%d", c.account, to, amount))
	iv := randutil.Bytes(Size)

	tag, err := Sum(c.block, iv, msg)
	if err != nil {
		return nil, err
	}

	return append(append(msg, iv...), tag...), nil
}

// SignV2 returns "from=#A&tx_list=#B:N;#C:M" || MAC under a zero IV.
func (c *Client) SignV2(transfers []Transfer) ([]byte, error) {
	list := make([]string, len(transfers))
	for i, t := range transfers {
		list[i] = fmt.Sprintf("#%d:%d", t.To, t.Amount)
	}

	msg := []byte(fmt.Sprintf("from=#%d&tx_list=%s", c.account, strings.Join(list, ";")))

	tag, err := Sum(c.block, make([]byte, Size), msg)
	if err != nil {
		return nil, err
	}

	return append(msg, tag...), nil
}

// AcceptV1 verifies a v1 request and applies it.
func (b *Bank) AcceptV1(req []byte) (Transfer, error) {
	if len(req) < 2*Size {
		return Transfer{}, ErrMalformedRequest
	}

	msg, iv, tag := req[:len(req)-2*Size], req[len(req)-2*Size:len(req)-Size], req[len(req)-Size:]
	if !Verify(b.block, iv, msg, tag) {
		return Transfer{}, ErrInvalidMAC
	}

	fields := parseFields(string(msg))

	from, err1 := account(fields["from"])
	to, err2 := account(fields["to"])
	amount, err3 := strconv.ParseInt(strings.TrimPrefix(fields["amount"], "#"), 10, 64)

	if err1 != nil || err2 != nil || err3 != nil {
		return Transfer{}, ErrMalformedRequest
	}

	t := Transfer{From: from, To: to, Amount: amount}

	b.mu.Lock()
	b.transfers = append(b.transfers, t)
	b.mu.Unlock()

	return t, nil
}

// AcceptV2 verifies a v2 request and applies every well-formed transfer in
// its list. Entries that do not parse are skipped.
func (b *Bank) AcceptV2(req []byte) ([]Transfer, error) {
	if len(req) < Size {
		return nil, ErrMalformedRequest
	}

	msg, tag := req[:len(req)-Size], req[len(req)-Size:]
	if !Verify(b.block, make([]byte, Size), msg, tag) {
		return nil, ErrInvalidMAC
	}

	head, list, ok := strings.Cut(string(msg), "&tx_list=")
	if !ok {
		return nil, ErrMalformedRequest
	}

	from, err := account(strings.TrimPrefix(head, "from="))
	if err != nil {
		return nil, ErrMalformedRequest
	}

	var out []Transfer

	for _, entry := range strings.Split(list, ";") {
		to, amount, ok := strings.Cut(entry, ":")
		if !ok {
			continue
		}

		id, err := account(to)
		if err != nil {
			continue
		}

		n, err := strconv.ParseInt(amount, 10, 64)
		if err != nil {
			continue
		}

		out = append(out, Transfer{From: from, To: id, Amount: n})
	}

	b.mu.Lock()
	b.transfers = append(b.transfers, out...)
	b.mu.Unlock()

	return out, nil
}

func parseFields(msg string) map[string]string {
	fields := make(map[string]string)

	for _, pair := range strings.Split(msg, "&") {
		if k, v, ok := strings.Cut(pair, "="); ok {
			fields[k] = v
		}
	}

	return fields
}

func account(s string) (int, error) {
	if !strings.HasPrefix(s, "#") {
		return 0, ErrMalformedRequest
	}

	return strconv.Atoi(s[1:])
}
