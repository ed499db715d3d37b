package blockmode

// RepeatedBlocks counts blocks of the given size that duplicate an earlier block.
func RepeatedBlocks(data []byte, size int) int {
	seen := make(map[string]struct{}, len(data)/size)
	repeats := 0

	for i := 0; i+size <= len(data); i += size {
		key := string(data[i : i+size])
		if _, ok := seen[key]; ok {
			repeats++

			continue
		}

		seen[key] = struct{}{}
	}

	return repeats
}

// DetectECB reports whether data contains at least one repeated block,
// which ECB leaks for repeated plaintext blocks.
func DetectECB(data []byte, size int) bool {
	return RepeatedBlocks(data, size) > 0
}

// Blocks splits data into consecutive blocks of size bytes. A trailing partial block is kept.
func Blocks(data []byte, size int) [][]byte {
	var blocks [][]byte

	for i := 0; i < len(data); i += size {
		blocks = append(blocks, data[i:min(i+size, len(data))])
	}

	return blocks
}
