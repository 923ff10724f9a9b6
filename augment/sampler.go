package augment

import "math/rand/v2"

// sampler wraps the operator-owned generator with the draws shared by all
// operators.
type sampler struct {
	rng *rand.Rand
}

// proceed reports whether the perturbation applies. p = 0 never applies and
// p = 1 always does.
func (s sampler) proceed(p float64) bool {
	return s.rng.Float64() < p
}

// length draws a mask length in [0, maxLen). A zero maximum yields 0 without
// consuming a draw.
func (s sampler) length(maxLen int) int {
	if maxLen <= 0 {
		return 0
	}
	return s.rng.IntN(maxLen)
}

// start draws an offset in [0, n). Ranges of width <= 1 yield 0 without
// consuming a draw.
func (s sampler) start(n int) int {
	if n <= 1 {
		return 0
	}
	return s.rng.IntN(n)
}

// index draws uniformly from [0, n).
func (s sampler) index(n int) int {
	return s.rng.IntN(n)
}
