package zkpdl

import (
	"crypto/rand"

	"github.com/cronokirby/saferith"
	"github.com/taurusgroup/two-party-ecdsa/internal/params"
	"github.com/taurusgroup/two-party-ecdsa/pkg/hash"
	"github.com/taurusgroup/two-party-ecdsa/pkg/math/arith"
	"github.com/taurusgroup/two-party-ecdsa/pkg/math/curve"
	"github.com/taurusgroup/two-party-ecdsa/pkg/math/sample"
	"github.com/taurusgroup/two-party-ecdsa/pkg/paillier"
	"github.com/taurusgroup/two-party-ecdsa/pkg/pedersen"
)

type Public struct {
	// C = Enc(x; r)
	C *paillier.Ciphertext
	// Q = x⋅G
	Q curve.Point

	// Prover is the Paillier key under which C was encrypted.
	Prover *paillier.PublicKey
	// Aux are ring-Pedersen parameters the prover cannot open twice.
	Aux *pedersen.Parameters
}

type Private struct {
	// X is the discrete logarithm of Q, and the plaintext of C.
	X curve.Scalar
	// R is the nonce used to encrypt C.
	R *saferith.Nat
}

type Commitment struct {
	// Z = h₁ˣ h₂ᵖ (mod Ñ)
	Z *saferith.Nat
	// U1 = α⋅G
	U1 curve.Point
	// U2 = Enc(α; β)
	U2 *paillier.Ciphertext
	// U3 = h₁ᵅ h₂ᵞ (mod Ñ)
	U3 *saferith.Nat
}

// Proof shows that the Paillier ciphertext C decrypts to the discrete logarithm of Q,
// up to a slack factor on the size of the plaintext.
type Proof struct {
	*Commitment
	// S1 = e⋅x + α
	S1 *saferith.Nat
	// S2 = rᵉ⋅β (mod N)
	S2 *saferith.Nat
	// S3 = e⋅ρ + γ
	S3 *saferith.Nat
}

// EmptyProof returns a proof ready to be unmarshalled for the given group.
func EmptyProof(group curve.Curve) *Proof {
	return &Proof{
		Commitment: &Commitment{U1: group.NewPoint()},
	}
}

// boundS1 is the maximal bit length of s₁ = e⋅x + α.
const boundS1 = params.PDLSlack + 1

// NewProof generates a proof that public.C encrypts private.X.
func NewProof(group curve.Curve, hash *hash.Hash, public Public, private Private) *Proof {
	n := public.Prover.N()
	nTilde := public.Aux.N()
	x := curve.MakeInt(private.X)

	alpha := new(saferith.Int).SetNat(sample.IntervalBits(rand.Reader, params.PDLSlack))
	beta := sample.UnitModN(rand.Reader, n)
	rho := new(saferith.Int).SetNat(sample.IntervalBits(rand.Reader, group.ScalarBits()+nTilde.BitLen()))
	gamma := new(saferith.Int).SetNat(sample.IntervalBits(rand.Reader, params.PDLSlack+nTilde.BitLen()))

	commitment := &Commitment{
		Z:  public.Aux.Commit(x, rho),
		U1: group.NewScalar().SetNat(alpha.Abs()).ActOnBase(),
		U2: public.Prover.EncWithNonce(alpha, beta),
		U3: public.Aux.Commit(alpha, gamma),
	}

	e := challenge(group, hash, public, commitment)
	eInt := new(saferith.Int).SetNat(e)

	// s₁ = e⋅x + α
	s1 := new(saferith.Int).Mul(eInt, x, -1)
	s1.Add(s1, alpha, -1)
	// s₂ = rᵉ⋅β (mod N)
	s2 := public.Prover.Modulus().Exp(private.R, e)
	s2.ModMul(s2, beta, n)
	// s₃ = e⋅ρ + γ
	s3 := new(saferith.Int).Mul(eInt, rho, -1)
	s3.Add(s3, gamma, -1)

	return &Proof{
		Commitment: commitment,
		S1:         s1.Abs(),
		S2:         s2,
		S3:         s3.Abs(),
	}
}

// IsValid checks that all fields are set and in the expected ranges.
func (p *Proof) IsValid(public Public) bool {
	if p == nil || p.Commitment == nil {
		return false
	}
	if p.U1 == nil || p.S1 == nil || p.S3 == nil {
		return false
	}
	if !public.Prover.ValidateCiphertexts(p.U2) {
		return false
	}
	if !arith.IsValidNatModN(public.Prover.N(), p.S2) {
		return false
	}
	if !arith.IsValidNatModN(public.Aux.N(), p.Z, p.U3) {
		return false
	}
	if p.S1.TrueLen() > boundS1 {
		return false
	}
	return true
}

// Verify checks that:
//   - s₁⋅G = U1 + e⋅Q,
//   - Enc(s₁; s₂) = U2 ⊕ (e ⊙ C),
//   - h₁ˢ¹ h₂ˢ³ = U3⋅Zᵉ (mod Ñ),
//   - s₁ < 2ᵇᵒᵘⁿᵈ.
func (p *Proof) Verify(hash *hash.Hash, public Public) bool {
	if public.C == nil || public.Q == nil || public.Prover == nil || public.Aux == nil {
		return false
	}
	if !p.IsValid(public) {
		return false
	}
	if !public.Prover.ValidateCiphertexts(public.C) {
		return false
	}
	if public.Q.IsIdentity() {
		return false
	}
	group := public.Q.Curve()

	e := challenge(group, hash, public, p.Commitment)
	eInt := new(saferith.Int).SetNat(e)
	s1 := new(saferith.Int).SetNat(p.S1)

	{
		// s₁⋅G = U1 + e⋅Q
		lhs := group.NewScalar().SetNat(p.S1).ActOnBase()
		rhs := group.NewScalar().SetNat(e).Act(public.Q).Add(p.U1)
		if !lhs.Equal(rhs) {
			return false
		}
	}

	{
		// Enc(s₁; s₂) = U2 ⊕ (e ⊙ C)
		lhs := public.Prover.EncWithNonce(s1, p.S2)
		rhs := public.C.Clone().Mul(public.Prover, eInt).Add(public.Prover, p.U2)
		if !lhs.Equal(rhs) {
			return false
		}
	}

	// h₁ˢ¹ h₂ˢ³ = U3⋅Zᵉ (mod Ñ)
	if !public.Aux.Verify(s1, new(saferith.Int).SetNat(p.S3), eInt, p.U3, p.Z) {
		return false
	}

	return true
}

func challenge(group curve.Curve, hash *hash.Hash, public Public, commitment *Commitment) *saferith.Nat {
	_ = hash.WriteAny(public.Aux, public.Prover, public.C, public.Q, group.NewBasePoint(),
		commitment.Z, commitment.U1, commitment.U2, commitment.U3)
	return sample.IntervalBits(hash.Digest(), group.ScalarBits())
}
