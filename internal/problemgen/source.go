package problemgen

import (
	"math/rand/v2"
	"strings"
	"time"
)

// Source is a uniform random source over [0,1).
// *rand.Rand satisfies it.
type Source interface {
	Float64() float64
}

// NewSource returns a PCG-backed Source. A zero seed selects a time-based
// seed; any other value gives a reproducible sequence.
func NewSource(seed int64) Source {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewPCG(uint64(seed), uint64(seed)^0x9e3779b97f4a7c15))
}

// fragmentDigits bounds the base-36 expansion used by Fragment.
const fragmentDigits = 11

// Fragment maps one random value to a letters-only string. The value is
// expanded in base 36 and the digits 0-9 are dropped, so the result has no
// fixed length and may be empty.
func Fragment(src Source) string {
	v := src.Float64()

	var b strings.Builder
	for i := 0; i < fragmentDigits && v > 0; i++ {
		v *= 36
		d := int(v)
		v -= float64(d)
		if d >= 10 && d < 36 {
			b.WriteByte(byte('a' + d - 10))
		}
	}
	return b.String()
}

// pick returns a uniform index in [0, n).
func pick(src Source, n int) int {
	if n <= 1 {
		return 0
	}
	i := int(src.Float64() * float64(n))
	if i >= n {
		i = n - 1
	}
	if i < 0 {
		i = 0
	}
	return i
}
