package utils

import (
	"math"
	"math/rand"
	"sync"
)

// RandomFloat returns a random float64 between 0.0 and 1.0
func RandomFloat() float64 {
	return rand.Float64() //nolint:gosec // Game logic randomness, not security critical
}

// NewSeededRandom returns a goroutine-safe float source in [0,1) that
// replays the same sequence for the same seed.
func NewSeededRandom(seed int64) func() float64 {
	var mu sync.Mutex
	r := rand.New(rand.NewSource(seed)) //nolint:gosec // Deterministic by design for replays and tests
	return func() float64 {
		mu.Lock()
		defer mu.Unlock()
		return r.Float64()
	}
}

// FixedRandom returns a source that always yields v. Test helper for
// forcing a specific draw.
func FixedRandom(v float64) func() float64 {
	return func() float64 { return v }
}

// SequenceRandom yields values in order and repeats the last one forever
func SequenceRandom(values ...float64) func() float64 {
	var mu sync.Mutex
	i := 0
	return func() float64 {
		mu.Lock()
		defer mu.Unlock()
		if len(values) == 0 {
			return 0
		}
		v := values[i]
		if i < len(values)-1 {
			i++
		}
		return v
	}
}

// Clamp bounds v to [lo, hi]
func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
