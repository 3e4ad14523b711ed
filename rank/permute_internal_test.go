package rank

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPermute_FixedTail(t *testing.T) {
	for x := uint64(prime); x <= math.MaxUint32; x++ {
		assert.Equal(t, uint32(x), permute(uint32(x)))
	}
}

// TestPermute_InjectiveAroundHalf covers the window where the two branches meet.
func TestPermute_InjectiveAroundHalf(t *testing.T) {
	seen := make(map[uint32]uint32)
	lo, hi := prime/2-50_000, prime/2+50_000
	for x := lo; x <= hi; x++ {
		v := permute(x)
		prev, dup := seen[v]
		require.False(t, dup, "permute(%d) == permute(%d)", x, prev)
		seen[v] = x
	}
}

func TestSequence_Exhausted(t *testing.T) {
	s := FromSeed(3)
	s.drawn = Period - 1
	_, err := s.Next()
	require.NoError(t, err)
	_, err = s.Next()
	assert.ErrorIs(t, err, ErrExhausted)
}
