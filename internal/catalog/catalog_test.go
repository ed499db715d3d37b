package catalog_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idelchi/cryptopals/internal/catalog"
	"github.com/idelchi/cryptopals/internal/challenge"
)

func TestNew(t *testing.T) {
	t.Parallel()

	reg, err := catalog.New()
	require.NoError(t, err)

	all := reg.All()
	require.Len(t, all, catalog.Total)

	for i, c := range all {
		assert.Equal(t, i+1, c.Number)
		assert.NotEmpty(t, c.Title, "challenge %d", c.Number)
	}

	for set := 1; set <= catalog.Sets; set++ {
		want := challenge.PerSet
		if set == catalog.Sets {
			want = catalog.Total - (catalog.Sets-1)*challenge.PerSet
		}

		challenges := reg.Set(set)
		require.Len(t, challenges, want, "set %d", set)
		assert.Equal(t, (set-1)*challenge.PerSet+1, challenges[0].Number)
	}

	assert.Empty(t, reg.Set(catalog.Sets+1))

	_, err = reg.Get(catalog.Total + 1)
	require.ErrorIs(t, err, challenge.ErrUnknown)
}
