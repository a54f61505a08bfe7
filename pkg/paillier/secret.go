package paillier

import (
	"crypto/rand"
	"errors"
	"fmt"

	"github.com/cronokirby/saferith"
	"github.com/fxamacker/cbor/v2"
	"github.com/taurusgroup/two-party-ecdsa/internal/params"
	"github.com/taurusgroup/two-party-ecdsa/pkg/math/arith"
	"github.com/taurusgroup/two-party-ecdsa/pkg/math/sample"
	"github.com/taurusgroup/two-party-ecdsa/pkg/pool"
)

var (
	ErrPrimeBadLength = errors.New("prime factor is not the right length")
	ErrNotBlum        = errors.New("prime factor is not equivalent to 3 (mod 4)")
	ErrNotSafePrime   = errors.New("supposed prime factor is not a safe prime")
	ErrPrimeNil       = errors.New("prime is nil")
	ErrEqualFactors   = errors.New("prime factors are equal")
)

// SecretKey is the factorization N = p⋅q of a PublicKey.
type SecretKey struct {
	*PublicKey
	p, q *saferith.Nat
	// phi = (p-1)(q-1)
	phi *saferith.Nat
	// mu = ϕ⁻¹ mod N
	mu *saferith.Nat
	// nInv = N⁻¹ mod ϕ, the exponent of N-th roots
	nInv *saferith.Nat
}

// NewSecretKey samples a fresh pair of safe primes, which takes a while.
func NewSecretKey(pl *pool.Pool) *SecretKey {
	return NewSecretKeyFromPrimes(sample.SafePrimePair(rand.Reader, pl))
}

// NewSecretKeyFromPrimes builds the key N = p⋅q. Both factors are assumed to pass ValidatePrime.
func NewSecretKeyFromPrimes(p, q *saferith.Nat) *SecretKey {
	one := new(saferith.Nat).SetUint64(1)
	n := arith.ModulusFromFactors(p, q)
	nNat := n.Nat()

	pMinus1 := new(saferith.Nat).Sub(p, one, -1)
	qMinus1 := new(saferith.Nat).Sub(q, one, -1)
	phi := new(saferith.Nat).Mul(pMinus1, qMinus1, -1)

	nPlusOne := new(saferith.Nat).Add(nNat, one, -1)
	// n is public
	nPlusOne.Resize(nPlusOne.TrueLen())

	return &SecretKey{
		p:    p,
		q:    q,
		phi:  phi,
		mu:   new(saferith.Nat).ModInverse(phi, n.Modulus),
		nInv: new(saferith.Nat).ModInverse(nNat, saferith.ModulusFromNat(phi)),
		PublicKey: &PublicKey{
			n: n,
			nSquared: arith.ModulusFromFactors(
				new(saferith.Nat).Mul(p, p, -1),
				new(saferith.Nat).Mul(q, q, -1)),
			nNat:     nNat,
			nPlusOne: nPlusOne,
		},
	}
}

// Dec returns the plaintext of ct as a signed integer in ±(N-1)/2.
// The ciphertext must be a unit modulo N².
func (sk *SecretKey) Dec(ct *Ciphertext) (*saferith.Int, error) {
	if !sk.PublicKey.ValidateCiphertexts(ct) {
		return nil, errors.New("paillier: failed to decrypt invalid ciphertext")
	}
	n := sk.PublicKey.n.Modulus

	// m = L(cᵠ mod N²)⋅μ mod N, with L(u) = (u-1)/N
	m := sk.PublicKey.nSquared.Exp(ct.c, sk.phi)
	m.Sub(m, new(saferith.Nat).SetUint64(1), -1)
	m.Div(m, n, -1)
	m.ModMul(m, sk.mu, n)
	return new(saferith.Int).SetModSymmetric(m, n), nil
}

// NthRoot returns the unique y ∈ ℤₙˣ with yᴺ = x mod N.
// It exists because gcd(N, ϕ(N)) = 1.
func (sk *SecretKey) NthRoot(x *saferith.Nat) *saferith.Nat {
	return sk.n.Exp(x, sk.nInv)
}

// ValidatePrime checks that p has params.BitsBlumPrime bits, is 3 mod 4, and that (p-1)/2 is prime.
func ValidatePrime(p *saferith.Nat) error {
	if p == nil {
		return ErrPrimeNil
	}
	// the expected length is public
	if bits := p.TrueLen(); bits != params.BitsBlumPrime {
		return fmt.Errorf("%w: %d bits, expected %d", ErrPrimeBadLength, bits, params.BitsBlumPrime)
	}
	if p.Byte(0)&3 != 3 {
		return ErrNotBlum
	}
	if !new(saferith.Nat).Rsh(p, 1, -1).Big().ProbablyPrime(1) {
		return ErrNotSafePrime
	}
	return nil
}

// secretKeyWire stores only the factors, everything else is recomputed on load.
type secretKeyWire struct {
	P, Q []byte
}

func (sk *SecretKey) MarshalBinary() ([]byte, error) {
	return cbor.Marshal(&secretKeyWire{P: sk.p.Bytes(), Q: sk.q.Bytes()})
}

// UnmarshalBinary restores a key and checks both of its factors.
func (sk *SecretKey) UnmarshalBinary(data []byte) error {
	var w secretKeyWire
	if err := cbor.Unmarshal(data, &w); err != nil {
		return fmt.Errorf("paillier: secret key: %w", err)
	}
	factors := [2]*saferith.Nat{new(saferith.Nat).SetBytes(w.P), new(saferith.Nat).SetBytes(w.Q)}
	for _, f := range factors {
		if err := ValidatePrime(f); err != nil {
			return fmt.Errorf("paillier: secret key: %w", err)
		}
	}
	if factors[0].Eq(factors[1]) == 1 {
		return fmt.Errorf("paillier: secret key: %w", ErrEqualFactors)
	}
	*sk = *NewSecretKeyFromPrimes(factors[0], factors[1])
	return nil
}
