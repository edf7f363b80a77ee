package generator

import "math/rand/v2"

// Between returns an int in [lo, hi], both inclusive.
func Between(r *rand.Rand, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + r.IntN(hi-lo+1)
}

// Uniform returns a float in [lo, hi).
func Uniform(r *rand.Rand, lo, hi float64) float64 {
	return lo + (hi-lo)*r.Float64()
}

// Sign returns -1 or 1 with equal probability.
func Sign(r *rand.Rand) float64 {
	if r.Float64() < 0.5 {
		return 1
	}
	return -1
}

// Choice picks one element of options.
func Choice[T any](r *rand.Rand, options ...T) T {
	return options[r.IntN(len(options))]
}
