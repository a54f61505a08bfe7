package sample

import (
	"io"
	"math"
	"math/big"
	"sync"

	"github.com/cronokirby/saferith"
	"github.com/taurusgroup/two-party-ecdsa/internal/params"
	"github.com/taurusgroup/two-party-ecdsa/pkg/pool"
)

// Safe primes p, with (p-1)/2 also prime, are searched in windows of consecutive integers
// following a random base of params.BitsBlumPrime bits.
// Only p ≡ 3 mod 4 with the two top bits set are considered, so that the product of two
// such primes has exactly twice as many bits.
const (
	windowSize = 1 << 18
	// sieveBound bounds the small primes used to strike candidates out of a window.
	sieveBound        = 1 << 20
	millerRabinRounds = 20
)

var smallPrimes = sync.OnceValue(func() []uint32 { return oddPrimesBelow(sieveBound) })

var windows = sync.Pool{
	New: func() any {
		w := make([]bool, windowSize)
		return &w
	},
}

// oddPrimesBelow is the sieve of Eratosthenes restricted to odd numbers.
func oddPrimesBelow(bound uint32) []uint32 {
	composite := make([]bool, bound)
	estimate := float64(bound)
	out := make([]uint32, 0, int(estimate/math.Log(estimate)))
	for p := uint32(3); p < bound; p += 2 {
		if composite[p] {
			continue
		}
		out = append(out, p)
		for m := uint64(p) * uint64(p); m < uint64(bound); m += 2 * uint64(p) {
			composite[m] = true
		}
	}
	return out
}

func randomBase(rand io.Reader) (*big.Int, error) {
	buf := make([]byte, (params.BitsBlumPrime+7)/8)
	if _, err := io.ReadFull(rand, buf); err != nil {
		return nil, err
	}
	buf[0] |= 0xC0
	buf[len(buf)-1] |= 3
	return new(big.Int).SetBytes(buf), nil
}

// searchWindow returns the first safe prime in [base, base + windowSize), or nil.
// base must be 3 mod 4.
func searchWindow(base *big.Int) *saferith.Nat {
	w := windows.Get().(*[]bool)
	defer windows.Put(w)
	candidate := *w
	for i := range candidate {
		candidate[i] = i%4 == 0
	}

	// base+i ≡ 0 mod r means p is composite, base+i ≡ 1 mod r means (p-1)/2 is.
	modulus, remainder := new(big.Int), new(big.Int)
	for _, r := range smallPrimes() {
		step := int(r)
		offset := int(remainder.Mod(base, modulus.SetUint64(uint64(r))).Uint64())
		for _, start := range [2]int{(step - offset) % step, (step + 1 - offset) % step} {
			for i := start; i < len(candidate); i += step {
				candidate[i] = false
			}
		}
	}

	p, q, delta := new(big.Int), new(big.Int), new(big.Int)
	for i, ok := range candidate {
		if !ok {
			continue
		}
		p.Add(base, delta.SetInt64(int64(i)))
		if p.BitLen() > params.BitsBlumPrime {
			return nil
		}
		// (p-1)/2 fails far more often, so it is tested first.
		q.Rsh(p, 1)
		if !q.ProbablyPrime(millerRabinRounds) || !p.ProbablyPrime(0) {
			continue
		}
		return new(saferith.Nat).SetBig(p, params.BitsBlumPrime)
	}
	return nil
}

func blumPrime(rand io.Reader) *saferith.Nat {
	base, err := randomBase(rand)
	if err != nil {
		return nil
	}
	return searchWindow(base)
}

// SafePrimePair returns two distinct safe primes p ≠ q, both 3 mod 4.
// Paillier and ring-Pedersen moduli are built from such pairs.
func SafePrimePair(rand io.Reader, pl *pool.Pool) (p, q *saferith.Nat) {
	reader := pool.NewLockedReader(rand)
	search := func() (*saferith.Nat, bool) {
		prime := blumPrime(reader)
		return prime, prime != nil
	}
	for {
		found := pool.Search(pl, 2, search)
		if p, q = found[0], found[1]; p.Eq(q) != 1 {
			return p, q
		}
	}
}
