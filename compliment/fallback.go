package compliment

import "math/rand/v2"

// defaultFallbacks is the built-in compliment set used when the API is
// unavailable or misbehaving. Non-empty by construction.
var defaultFallbacks = []string{
	"You're a natural at turning complexity into clarity.",
	"You make tough problems look easy.",
	"Your curiosity makes everything you touch more interesting.",
	"You bring warmth to technical conversations.",
	"You're the kind of person who makes collaboration a joy.",
}

// FallbackPool is a fixed set of locally sourced compliments. Selection is
// uniform, zero-latency and cannot fail.
type FallbackPool struct {
	items []string
	rng   *rand.Rand
}

// NewFallbackPool creates a pool over the given compliments, or over the
// built-in set when none are given.
func NewFallbackPool(rng *rand.Rand, items ...string) *FallbackPool {
	if len(items) == 0 {
		items = defaultFallbacks
	}
	return &FallbackPool{items: items, rng: rng}
}

// Pick returns a uniformly random member of the pool.
func (p *FallbackPool) Pick() string {
	return p.items[p.rng.IntN(len(p.items))]
}

// Contains reports whether s is a member of the pool.
func (p *FallbackPool) Contains(s string) bool {
	for _, item := range p.items {
		if item == s {
			return true
		}
	}
	return false
}
