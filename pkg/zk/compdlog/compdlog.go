package zkcompdlog

import (
	"crypto/rand"
	"io"

	"github.com/cronokirby/saferith"
	"github.com/taurusgroup/two-party-ecdsa/internal/params"
	"github.com/taurusgroup/two-party-ecdsa/pkg/hash"
	"github.com/taurusgroup/two-party-ecdsa/pkg/math/arith"
	"github.com/taurusgroup/two-party-ecdsa/pkg/math/sample"
	"github.com/taurusgroup/two-party-ecdsa/pkg/pedersen"
)

type Public struct {
	// Aux = (Ñ, g, h) with h = gˣ (mod Ñ)
	Aux *pedersen.Parameters
}

type Private struct {
	// X = λ such that T = Sˡ (mod Ñ)
	X *saferith.Nat
}

// Proof is a Girault style proof of knowledge of a discrete logarithm modulo a composite.
type Proof struct {
	// Commitment = gʳ (mod Ñ)
	Commitment *saferith.Nat
	// Y = r + e⋅x, computed over the integers
	Y *saferith.Nat
}

// EmptyProof returns a proof ready to be unmarshalled.
func EmptyProof() *Proof {
	return &Proof{}
}

// randomnessBits is the size of r, which statistically hides e⋅x.
func randomnessBits(n *saferith.Modulus) int {
	return n.BitLen() + params.CompositeDLogChallenge + params.CompositeDLogSecurity
}

// NewProof generates a proof that the prover knows x such that T = Sˣ (mod Ñ).
func NewProof(hash *hash.Hash, public Public, private Private) *Proof {
	n := public.Aux.NArith()

	r := sample.IntervalBits(rand.Reader, randomnessBits(n.Modulus))
	commitment := n.Exp(public.Aux.S(), r)

	e := challenge(hash, public, commitment)

	// y = r + e⋅x
	y := new(saferith.Nat).Mul(e, private.X, -1)
	y.Add(y, r, -1)

	return &Proof{
		Commitment: commitment,
		Y:          y,
	}
}

// IsValid checks that the commitment is a unit mod Ñ and that the response is bounded.
func (p *Proof) IsValid(public Public) bool {
	if p == nil || p.Commitment == nil || p.Y == nil || public.Aux == nil {
		return false
	}
	n := public.Aux.N()
	if !arith.IsValidNatModN(n, p.Commitment) {
		return false
	}
	// y < 2ᵇⁱᵗˢ⁺¹
	if p.Y.TrueLen() > randomnessBits(n)+1 {
		return false
	}
	return true
}

// Verify checks that gʸ = Commitment⋅hᵉ (mod Ñ).
func (p *Proof) Verify(hash *hash.Hash, public Public) bool {
	if !p.IsValid(public) {
		return false
	}
	if err := pedersen.ValidateParameters(public.Aux.N(), public.Aux.S(), public.Aux.T()); err != nil {
		return false
	}
	n := public.Aux.N()

	e := challenge(hash, public, p.Commitment)

	lhs := new(saferith.Nat).Exp(public.Aux.S(), p.Y, n)
	rhs := new(saferith.Nat).Exp(public.Aux.T(), e, n)
	rhs.ModMul(rhs, p.Commitment, n)
	return lhs.Eq(rhs) == 1
}

func challenge(hash *hash.Hash, public Public, commitment *saferith.Nat) *saferith.Nat {
	_ = hash.WriteAny(public.Aux, commitment)
	return sample.IntervalBits(hash.Digest(), params.CompositeDLogChallenge)
}

// WriteTo implements io.WriterTo and should be used within the hash.Hash function.
func (p *Proof) WriteTo(w io.Writer) (int64, error) {
	if p == nil || p.Commitment == nil || p.Y == nil {
		return 0, io.ErrUnexpectedEOF
	}
	total := int64(0)
	for _, v := range []*saferith.Nat{p.Commitment, p.Y} {
		n, err := w.Write(v.Bytes())
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// Domain implements hash.WriterToWithDomain, and separates this type within hash.Hash.
func (*Proof) Domain() string {
	return "Composite DLog Proof"
}
