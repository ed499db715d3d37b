package xor

import (
	"math"
	"math/bits"
	"slices"
	"sort"
)

// Candidate is a single-byte XOR guess.
type Candidate struct {
	Key       byte
	Plaintext []byte
	Score     float64
}

// BreakSingle finds the single-byte key that makes ciphertext look most like English.
func BreakSingle(ciphertext []byte) Candidate {
	best := Candidate{Score: math.Inf(-1)}

	for k := range 256 {
		pt := Single(ciphertext, byte(k))
		if score := Score(pt); score > best.Score {
			best = Candidate{Key: byte(k), Plaintext: pt, Score: score}
		}
	}

	return best
}

// Detection identifies which of many ciphertexts was single-byte XOR encrypted.
type Detection struct {
	Index int
	Candidate
}

// Detect returns the ciphertext whose best single-byte decryption scores highest.
func Detect(ciphertexts [][]byte) (Detection, error) {
	if len(ciphertexts) == 0 {
		return Detection{}, ErrEmptyInput
	}

	best := Detection{Index: -1, Candidate: Candidate{Score: math.Inf(-1)}}

	for i, ct := range ciphertexts {
		if c := BreakSingle(ct); c.Score > best.Score {
			best = Detection{Index: i, Candidate: c}
		}
	}

	return best, nil
}

// Hamming returns the number of differing bits between a and b.
func Hamming(a, b []byte) (int, error) {
	if len(a) != len(b) {
		return 0, ErrLengthMismatch
	}

	distance := 0
	for i := range a {
		distance += bits.OnesCount8(a[i] ^ b[i])
	}

	return distance, nil
}

// KeySizes ranks key sizes in [lo, hi] by average normalized Hamming distance
// between consecutive key-sized blocks and returns the n best.
func KeySizes(ciphertext []byte, lo, hi, n int) []int {
	type ranked struct {
		size     int
		distance float64
	}

	var sizes []ranked

	for size := lo; size <= hi; size++ {
		blocks := len(ciphertext)/size - 1
		if blocks < 1 {
			break
		}

		var total float64
		for i := range blocks {
			d, _ := Hamming(ciphertext[i*size:(i+1)*size], ciphertext[(i+1)*size:(i+2)*size])
			total += float64(d) / float64(size)
		}

		sizes = append(sizes, ranked{size: size, distance: total / float64(blocks)})
	}

	sort.SliceStable(sizes, func(i, j int) bool { return sizes[i].distance < sizes[j].distance })

	out := make([]int, 0, n)
	for i := 0; i < len(sizes) && i < n; i++ {
		out = append(out, sizes[i].size)
	}

	return out
}

// Transpose groups the bytes of data by their position modulo size.
func Transpose(data []byte, size int) [][]byte {
	columns := make([][]byte, size)
	for i, b := range data {
		columns[i%size] = append(columns[i%size], b)
	}

	return columns
}

// RepeatingResult is the outcome of breaking a repeating-key XOR ciphertext.
type RepeatingResult struct {
	Key       []byte
	Plaintext []byte
	Score     float64
}

// BreakRepeating recovers the key of a repeating-key XOR ciphertext.
// The three most likely key sizes between 2 and 40 are tried together with
// their divisors. The shortest key whose per-byte score is within tolerance
// of the best one wins, so multiples of the true key size lose ties.
func BreakRepeating(ciphertext []byte) (RepeatingResult, error) {
	const (
		minKeySize = 2
		maxKeySize = 40
		tries      = 3
		tolerance  = 0.95
	)

	if len(ciphertext) < 2*minKeySize {
		return RepeatingResult{}, ErrEmptyInput
	}

	var sizes []int

	for _, size := range KeySizes(ciphertext, minKeySize, maxKeySize, tries) {
		for d := minKeySize; d <= size; d++ {
			if size%d == 0 && !slices.Contains(sizes, d) {
				sizes = append(sizes, d)
			}
		}
	}

	slices.Sort(sizes)

	results := make([]RepeatingResult, 0, len(sizes))
	top := math.Inf(-1)

	for _, size := range sizes {
		key := BreakWithKeySize(ciphertext, size)
		pt := Repeating(ciphertext, key)
		score := Score(pt) / float64(len(pt))

		results = append(results, RepeatingResult{Key: key, Plaintext: pt, Score: score})
		top = max(top, score)
	}

	for _, r := range results {
		if r.Score >= tolerance*top {
			return r, nil
		}
	}

	return RepeatingResult{}, ErrEmptyInput
}

// BreakWithKeySize breaks each column of the ciphertext as single-byte XOR.
func BreakWithKeySize(ciphertext []byte, size int) []byte {
	key := make([]byte, size)
	for i, column := range Transpose(ciphertext, size) {
		key[i] = BreakSingle(column).Key
	}

	return key
}
