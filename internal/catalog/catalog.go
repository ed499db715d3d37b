// Package catalog registers every implemented challenge.
package catalog

import (
	"fmt"

	"github.com/idelchi/cryptopals/internal/challenge"
	"github.com/idelchi/cryptopals/internal/sets/set1"
	"github.com/idelchi/cryptopals/internal/sets/set2"
	"github.com/idelchi/cryptopals/internal/sets/set3"
	"github.com/idelchi/cryptopals/internal/sets/set4"
	"github.com/idelchi/cryptopals/internal/sets/set5"
	"github.com/idelchi/cryptopals/internal/sets/set6"
	"github.com/idelchi/cryptopals/internal/sets/set7"
	"github.com/idelchi/cryptopals/internal/sets/set8"
)

const (
	// Sets is the number of registered challenge sets.
	Sets = 8
	// Total is the number of registered challenges. Set 8 holds four.
	Total = 60
)

// New returns a registry holding sets 1 through 8.
func New() (*challenge.Registry, error) {
	reg := challenge.NewRegistry()

	sets := [Sets]func() []challenge.Challenge{
		set1.Challenges, set2.Challenges, set3.Challenges, set4.Challenges,
		set5.Challenges, set6.Challenges, set7.Challenges, set8.Challenges,
	}

	for i, set := range sets {
		if err := reg.Add(set()...); err != nil {
			return nil, fmt.Errorf("registering set %d: %w", i+1, err)
		}
	}

	return reg, nil
}
