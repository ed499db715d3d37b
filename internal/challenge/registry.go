package challenge

import (
	"fmt"
	"slices"
)

// Registry holds challenges by number.
type Registry struct {
	byNumber map[int]Challenge
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{byNumber: make(map[int]Challenge)}
}

// Add registers challenges, rejecting duplicates and entries without a Run function.
func (r *Registry) Add(challenges ...Challenge) error {
	for _, c := range challenges {
		if c.Number < 1 {
			return fmt.Errorf("%w: %d", ErrInvalidNumber, c.Number)
		}

		if c.Run == nil {
			return fmt.Errorf("challenge %d: %w", c.Number, ErrNoRun)
		}

		if _, ok := r.byNumber[c.Number]; ok {
			return fmt.Errorf("%w: %d", ErrDuplicate, c.Number)
		}

		r.byNumber[c.Number] = c
	}

	return nil
}

// Get returns the challenge with the given number.
func (r *Registry) Get(n int) (Challenge, error) {
	c, ok := r.byNumber[n]
	if !ok {
		return Challenge{}, fmt.Errorf("%w: %d", ErrUnknown, n)
	}

	return c, nil
}

// All returns every challenge sorted by number.
func (r *Registry) All() []Challenge {
	out := make([]Challenge, 0, len(r.byNumber))
	for _, c := range r.byNumber {
		out = append(out, c)
	}

	slices.SortFunc(out, func(a, b Challenge) int { return a.Number - b.Number })

	return out
}

// Set returns the challenges of set n sorted by number.
func (r *Registry) Set(n int) []Challenge {
	var out []Challenge

	for _, c := range r.All() {
		if c.Set() == n {
			out = append(out, c)
		}
	}

	return out
}

// Select resolves challenge numbers, failing on the first unknown one.
func (r *Registry) Select(numbers []int) ([]Challenge, error) {
	out := make([]Challenge, 0, len(numbers))

	for _, n := range numbers {
		c, err := r.Get(n)
		if err != nil {
			return nil, err
		}

		out = append(out, c)
	}

	return out, nil
}
