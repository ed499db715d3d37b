package mt19937

// CrackSeed finds the seed in [lo, hi] whose first output is first.
// Time-seeded generators are cracked by passing a window of Unix timestamps.
func CrackSeed(first, lo, hi uint32) (uint32, error) {
	for seed := lo; ; seed++ {
		if New(seed).Uint32() == first {
			return seed, nil
		}

		if seed == hi {
			break
		}
	}

	return 0, ErrSeedNotFound
}

// Tap collects StateSize outputs from next and returns a clone of its generator.
func Tap(next func() uint32) *MT {
	var outputs [StateSize]uint32
	for i := range outputs {
		outputs[i] = next()
	}

	return Clone(outputs)
}
