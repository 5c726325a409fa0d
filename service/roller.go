package service

import (
	"math/rand"
	"sync"
	"time"
)

// Roller is the source of randomness for stat generation. It is
// injected into the card service so tests can substitute a
// deterministic implementation.
type Roller interface {
	// IntBetween returns a uniformly distributed integer in [min, max],
	// both bounds inclusive. min == max always returns that value.
	IntBetween(min, max int) int
}

type randRoller struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRoller creates a Roller backed by math/rand. A seed of 0 uses the
// current time.
func NewRoller(seed int64) Roller {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &randRoller{rng: rand.New(rand.NewSource(seed))}
}

func (r *randRoller) IntBetween(min, max int) int {
	if min >= max {
		return min
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return min + r.rng.Intn(max-min+1)
}
