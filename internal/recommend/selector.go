// Package recommend picks which businesses to show a user, either
// diversified across categories for a district browse or sorted by
// distance for a shared location.
package recommend

import (
	"math/rand"
	"sort"
	"sync"

	"github.com/linchiawei/twstore-linebot-go/internal/geo"
	"github.com/linchiawei/twstore-linebot-go/internal/store"
)

// Selector draws recommendation sets from a business pool. It owns its
// randomness source so tests can seed it deterministically.
type Selector struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSelector creates a selector seeded from the given source.
func NewSelector(seed int64) *Selector {
	return &Selector{rng: rand.New(rand.NewSource(seed))}
}

// ByCategory picks up to count businesses that match the category,
// then fills remaining slots from the rest of the pool. Both groups
// are shuffled so repeated asks rotate through the pool.
func (s *Selector) ByCategory(pool []store.Business, category string, count int) []store.Business {
	if count <= 0 || len(pool) == 0 {
		return nil
	}

	var matching, others []store.Business
	for _, b := range pool {
		if b.HasCategory(category) {
			matching = append(matching, b)
		} else {
			others = append(others, b)
		}
	}

	s.mu.Lock()
	s.shuffle(matching)
	s.shuffle(others)
	s.mu.Unlock()

	picked := make([]store.Business, 0, count)
	for _, b := range matching {
		if len(picked) == count {
			return picked
		}
		picked = append(picked, b)
	}
	for _, b := range others {
		if len(picked) == count {
			break
		}
		picked = append(picked, b)
	}
	return picked
}

// Nearest returns up to count businesses closest to the origin.
// Businesses without a recorded position are excluded. Ties keep the
// pool order, so results are stable for a fixed pool.
func (s *Selector) Nearest(pool []store.Business, origin geo.Coordinate, count int) []store.Business {
	if count <= 0 {
		return nil
	}

	type candidate struct {
		business store.Business
		distance float64
	}
	candidates := make([]candidate, 0, len(pool))
	for _, b := range pool {
		coord, ok := b.Coordinate()
		if !ok {
			continue
		}
		candidates = append(candidates, candidate{
			business: b,
			distance: geo.DistanceKm(origin, coord),
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].distance < candidates[j].distance
	})

	if count > len(candidates) {
		count = len(candidates)
	}
	picked := make([]store.Business, 0, count)
	for _, c := range candidates[:count] {
		picked = append(picked, c.business)
	}
	if len(picked) == 0 {
		return nil
	}
	return picked
}

// shuffle is an in-place Fisher-Yates shuffle. Callers hold s.mu.
func (s *Selector) shuffle(businesses []store.Business) {
	s.rng.Shuffle(len(businesses), func(i, j int) {
		businesses[i], businesses[j] = businesses[j], businesses[i]
	})
}
