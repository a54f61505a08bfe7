package arith

import (
	"github.com/cronokirby/saferith"
)

// IsValidNatModN checks that ints are all in the range [1,…,N-1] and are co-prime to N.
func IsValidNatModN(N *saferith.Modulus, ints ...*saferith.Nat) bool {
	for _, i := range ints {
		if i == nil {
			return false
		}
		if _, _, lt := i.CmpMod(N); lt != 1 {
			return false
		}
		if i.IsUnit(N) != 1 {
			return false
		}
	}
	return true
}

// IsInIntervalBits returns true if |x| < 2ᵇⁱᵗˢ.
func IsInIntervalBits(x *saferith.Int, bits int) bool {
	if x == nil {
		return false
	}
	return x.TrueLen() <= bits
}

// IsInRangeNat returns true if 0 ≤ x < N.
func IsInRangeNat(N *saferith.Modulus, x *saferith.Nat) bool {
	if x == nil {
		return false
	}
	_, _, lt := x.CmpMod(N)
	return lt == 1
}
