package util

import (
	"math"
	"math/rand"
	"strconv"
	"strings"
	"time"
)

// NewRand returns a random source for seed. A zero seed picks one from the clock.
func NewRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

// RandomFloat returns a random float64 in [min, max)
func RandomFloat(rng *rand.Rand, min, max float64) float64 {
	return min + rng.Float64()*(max-min)
}

// RandomInt returns a random int between min and max (inclusive)
func RandomInt(rng *rand.Rand, min, max int) int {
	return min + rng.Intn(max-min+1)
}

// Clamp restricts a value to be between min and max
func Clamp(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

// Snap rounds value to the nearest multiple of step counted from origin.
// A non-positive step returns value unchanged.
func Snap(value, origin, step float64) float64 {
	if step <= 0 {
		return value
	}
	n := math.Round((value - origin) / step)
	// strip the binary noise so 0.1 steps come back as 0.3, not 0.30000000000000004
	d := StepDecimals(step)
	p := math.Pow(10, float64(d))
	return math.Round((origin+n*step)*p) / p
}

// StepDecimals reports how many decimal places a step needs to be displayed.
func StepDecimals(step float64) int {
	s := strconv.FormatFloat(step, 'f', -1, 64)
	i := strings.IndexByte(s, '.')
	if i < 0 {
		return 0
	}
	return len(s) - i - 1
}
