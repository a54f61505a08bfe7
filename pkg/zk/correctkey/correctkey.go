package zkcorrectkey

import (
	"io"
	"sync"

	"github.com/cronokirby/saferith"
	"github.com/taurusgroup/two-party-ecdsa/internal/params"
	"github.com/taurusgroup/two-party-ecdsa/pkg/hash"
	"github.com/taurusgroup/two-party-ecdsa/pkg/math/arith"
	"github.com/taurusgroup/two-party-ecdsa/pkg/paillier"
	"github.com/taurusgroup/two-party-ecdsa/pkg/pool"
)

// DefaultSalt is the application salt used when the caller does not provide one.
var DefaultSalt = []byte("lindell17/correct-key")

type Public struct {
	// N is the Paillier modulus being proven.
	N *paillier.PublicKey
	// Salt is an application level string both parties agree on.
	Salt []byte
}

type Private struct {
	// SecretKey is the factorization of N.
	SecretKey *paillier.SecretKey
}

// Proof shows that N is coprime to ϕ(N), by revealing the N-th roots σᵢ of
// challenges ρᵢ derived from the transcript.
// Together with the absence of small factors, this shows that N is a correctly formed Paillier modulus.
type Proof struct {
	Sigma []*saferith.Nat
}

// EmptyProof returns a proof ready to be unmarshalled.
func EmptyProof() *Proof {
	return &Proof{}
}

// NewProof generates a proof that the Paillier key was generated correctly.
func NewProof(hash *hash.Hash, public Public, private Private, pl *pool.Pool) *Proof {
	rhos := challenge(hash, public)

	// σᵢ = ρᵢ^{N⁻¹ mod ϕ(N)} (mod N)
	return &Proof{Sigma: pool.Parallelize(pl, params.CorrectKeyIterations, func(i int) *saferith.Nat {
		return private.SecretKey.NthRoot(rhos[i])
	})}
}

// IsValid checks that the proof has the right number of elements, all of them units mod N.
func (p *Proof) IsValid(public Public) bool {
	if p == nil || public.N == nil {
		return false
	}
	if len(p.Sigma) != params.CorrectKeyIterations {
		return false
	}
	return arith.IsValidNatModN(public.N.N(), p.Sigma...)
}

// Verify checks that N has the expected size, has no prime factor below params.CorrectKeyPrimeBound,
// and that σᵢᴺ = ρᵢ (mod N) for all i.
func (p *Proof) Verify(hash *hash.Hash, public Public, pl *pool.Pool) bool {
	if !p.IsValid(public) {
		return false
	}
	n := public.N.N()
	if err := paillier.ValidateN(n); err != nil {
		return false
	}
	if n.Nat().Coprime(primorial()) != 1 {
		return false
	}

	rhos := challenge(hash, public)

	nNat := n.Nat()
	verified := pool.Parallelize(pl, params.CorrectKeyIterations, func(i int) bool {
		return new(saferith.Nat).Exp(p.Sigma[i], nNat, n).Eq(rhos[i]) == 1
	})
	for _, ok := range verified {
		if !ok {
			return false
		}
	}
	return true
}

// challenge derives ρ₁, …, ρₘ ∈ ℤₙ from the salt and N.
func challenge(h *hash.Hash, public Public) []*saferith.Nat {
	n := public.N.N()
	_ = h.WriteAny(&hash.BytesWithDomain{TheDomain: "Salt", Bytes: public.Salt}, public.N)

	rhos := make([]*saferith.Nat, params.CorrectKeyIterations)
	// read twice as many bytes as needed, so that the reduction mod N is close to uniform
	buf := make([]byte, 2*((n.BitLen()+7)/8))
	digest := h.Digest()
	for i := range rhos {
		_, _ = io.ReadFull(digest, buf)
		rhos[i] = new(saferith.Nat).Mod(new(saferith.Nat).SetBytes(buf), n)
	}
	return rhos
}

var (
	primorialOnce  sync.Once
	primorialValue *saferith.Nat
)

// primorial returns the product of all primes below params.CorrectKeyPrimeBound.
func primorial() *saferith.Nat {
	primorialOnce.Do(func() {
		const bound = params.CorrectKeyPrimeBound
		composite := make([]bool, bound)
		product := new(saferith.Nat).SetUint64(1)
		for i := 2; i < bound; i++ {
			if composite[i] {
				continue
			}
			for j := i * i; j < bound; j += i {
				composite[j] = true
			}
			product = new(saferith.Nat).Mul(product, new(saferith.Nat).SetUint64(uint64(i)), -1)
		}
		primorialValue = product
	})
	return primorialValue
}

// WriteTo implements io.WriterTo and should be used within the hash.Hash function.
func (p *Proof) WriteTo(w io.Writer) (int64, error) {
	if p == nil {
		return 0, io.ErrUnexpectedEOF
	}
	total := int64(0)
	for _, sigma := range p.Sigma {
		n, err := w.Write(sigma.Bytes())
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// Domain implements hash.WriterToWithDomain, and separates this type within hash.Hash.
func (*Proof) Domain() string {
	return "Correct Key Proof"
}
