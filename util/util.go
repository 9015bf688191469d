package util

import (
	"math/rand"
)

// RandomRange returns an int in [min, max], both ends included. A nil rng
// uses the global source.
func RandomRange(rng *rand.Rand, min, max int) int {
	if max < min {
		min, max = max, min
	}
	if rng == nil {
		return rand.Intn(max-min+1) + min
	}
	return rng.Intn(max-min+1) + min
}

// RandomFloat returns a float64 in [min, max).
func RandomFloat(rng *rand.Rand, min, max float64) float64 {
	if rng == nil {
		return rand.Float64()*(max-min) + min
	}
	return rng.Float64()*(max-min) + min
}
