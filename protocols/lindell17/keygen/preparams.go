package keygen

import (
	"crypto/rand"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/cronokirby/saferith"
	"github.com/taurusgroup/two-party-ecdsa/pkg/math/sample"
	"github.com/taurusgroup/two-party-ecdsa/pkg/paillier"
	"github.com/taurusgroup/two-party-ecdsa/pkg/pedersen"
	"github.com/taurusgroup/two-party-ecdsa/pkg/pool"
)

// PreParams is the expensive material Party 1 needs in its second round:
// a Paillier key pair, and ring-Pedersen parameters with the discrete logarithm λ of T in base S.
//
// Generating them requires finding four safe primes, so they can be prepared ahead of time.
// A PreParams is consumed by the key generation which uses it, a second use fails with ErrPreParamsConsumed.
type PreParams struct {
	Paillier *paillier.SecretKey
	Aux      *pedersen.Parameters
	Lambda   *saferith.Nat

	consumed atomic.Bool
}

var ErrPreParamsConsumed = errors.New("keygen: pre-parameters were already used")

// consume marks pre as used, and fails if it already was.
func (pre *PreParams) consume() error {
	if !pre.consumed.CompareAndSwap(false, true) {
		return ErrPreParamsConsumed
	}
	return nil
}

// GeneratePreParams samples fresh safe primes for both the Paillier key and the auxiliary parameters.
func GeneratePreParams(pl *pool.Pool) *PreParams {
	sk := paillier.NewSecretKey(pl)
	p, q := sample.SafePrimePair(rand.Reader, pl)
	aux, lambda := pedersen.NewSecretFromPrimes(p, q)
	return &PreParams{Paillier: sk, Aux: aux, Lambda: lambda}
}

// NewPreParams builds PreParams from two pairs of safe primes, which must all be distinct.
func NewPreParams(paillierP, paillierQ, auxP, auxQ *saferith.Nat) (*PreParams, error) {
	for _, p := range []*saferith.Nat{paillierP, paillierQ, auxP, auxQ} {
		if err := paillier.ValidatePrime(p); err != nil {
			return nil, fmt.Errorf("keygen: %w", err)
		}
	}
	sk := paillier.NewSecretKeyFromPrimes(paillierP, paillierQ)
	aux, lambda := pedersen.NewSecretFromPrimes(auxP, auxQ)
	pre := &PreParams{Paillier: sk, Aux: aux, Lambda: lambda}
	if err := pre.Validate(); err != nil {
		return nil, err
	}
	return pre, nil
}

// Validate checks that the Paillier modulus is well formed, that T = Sˡ (mod Ñ), and that N ≠ Ñ.
func (pre *PreParams) Validate() error {
	if pre == nil || pre.Paillier == nil || pre.Aux == nil || pre.Lambda == nil {
		return errors.New("keygen: pre-parameters have nil fields")
	}
	if pre.consumed.Load() {
		return ErrPreParamsConsumed
	}
	if err := paillier.ValidateN(pre.Paillier.N()); err != nil {
		return fmt.Errorf("keygen: %w", err)
	}
	if err := pedersen.ValidateParameters(pre.Aux.N(), pre.Aux.S(), pre.Aux.T()); err != nil {
		return fmt.Errorf("keygen: %w", err)
	}
	if _, eq, _ := pre.Aux.N().Cmp(pre.Paillier.N()); eq == 1 {
		return errors.New("keygen: Paillier and auxiliary moduli must differ")
	}
	t := new(saferith.Nat).Exp(pre.Aux.S(), pre.Lambda, pre.Aux.N())
	if t.Eq(pre.Aux.T()) != 1 {
		return errors.New("keygen: T ≠ Sˡ (mod Ñ)")
	}
	return nil
}
