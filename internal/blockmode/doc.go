// Package blockmode implements AES block cipher modes by hand on top of a raw
// cipher.Block: ECB, CBC (built from ECB and XOR) and the little-endian
// counter CTR mode used throughout the challenges.
package blockmode
