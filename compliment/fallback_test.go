package compliment

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFallbackPool_DefaultSet(t *testing.T) {
	pool := NewFallbackPool(rand.New(rand.NewPCG(1, 1)))

	require.NotEmpty(t, defaultFallbacks)
	for i := 0; i < 100; i++ {
		assert.Contains(t, defaultFallbacks, pool.Pick())
	}
}

func TestFallbackPool_CustomItems(t *testing.T) {
	items := []string{"alpha", "beta"}
	pool := NewFallbackPool(rand.New(rand.NewPCG(1, 1)), items...)

	for i := 0; i < 50; i++ {
		assert.Contains(t, items, pool.Pick())
	}
	assert.True(t, pool.Contains("alpha"))
	assert.False(t, pool.Contains("gamma"))
}

func TestFallbackPool_UniformSelection(t *testing.T) {
	items := []string{"a", "b", "c", "d", "e"}
	pool := NewFallbackPool(rand.New(rand.NewPCG(99, 0)), items...)

	const draws = 5000
	counts := make(map[string]int)
	for i := 0; i < draws; i++ {
		counts[pool.Pick()]++
	}

	// Statistical check, not exact equality: each item should land near
	// draws/len(items) = 1000.
	for _, item := range items {
		assert.Greater(t, counts[item], 800, "item %q under-selected", item)
		assert.Less(t, counts[item], 1200, "item %q over-selected", item)
	}
}

func TestFallbackPool_SingleItem(t *testing.T) {
	pool := NewFallbackPool(rand.New(rand.NewPCG(1, 1)), "only")

	assert.Equal(t, "only", pool.Pick())
}
