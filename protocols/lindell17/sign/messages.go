package sign

import (
	"github.com/taurusgroup/two-party-ecdsa/internal/round"
	"github.com/taurusgroup/two-party-ecdsa/pkg/ecdsa"
	"github.com/taurusgroup/two-party-ecdsa/pkg/hash"
	"github.com/taurusgroup/two-party-ecdsa/pkg/math/curve"
	"github.com/taurusgroup/two-party-ecdsa/pkg/paillier"
	zksch "github.com/taurusgroup/two-party-ecdsa/pkg/zk/sch"
)

// Party2Message1 commits Party 2 to its nonce before it sees the nonce of Party 1.
type Party2Message1 struct {
	Commitment hash.Commitment
}

// Party1Message1 is the public nonce of Party 1 with a proof of knowledge of k₁.
type Party1Message1 struct {
	R1    curve.Point
	Proof *zksch.Proof
}

// EmptyParty1Message1 returns a message ready to be unmarshalled.
func EmptyParty1Message1(group curve.Curve) *Party1Message1 {
	return &Party1Message1{R1: group.NewPoint(), Proof: zksch.EmptyProof(group)}
}

// Party2Message2 carries the encrypted partial signature and opens the commitment of Party 2.
type Party2Message2 struct {
	// C3 = Enc(ρ⋅q + k₂⁻¹⋅m) ⊕ c_key ⊙ (k₂⁻¹⋅r⋅x₂), possibly blinded
	C3 *paillier.Ciphertext
	// R2 = k₂⋅G
	R2           curve.Point
	Proof        *zksch.Proof
	Decommitment hash.Decommitment
}

// EmptyParty2Message2 returns a message ready to be unmarshalled.
func EmptyParty2Message2(group curve.Curve) *Party2Message2 {
	return &Party2Message2{
		C3:    new(paillier.Ciphertext),
		R2:    group.NewPoint(),
		Proof: zksch.EmptyProof(group),
	}
}

// BlindedSignature is the result of Party 1 in the blinded variant.
// S is the signature scalar multiplied by the blinding factor known only to Party 2.
type BlindedSignature struct {
	R curve.Point
	S curve.Scalar
}

// Unblind computes s = S⋅b⁻¹ and returns the normalized signature.
func (sig *BlindedSignature) Unblind(b curve.Scalar) *ecdsa.Signature {
	group := sig.R.Curve()
	bInv := group.NewScalar().Set(b).Invert()
	out := &ecdsa.Signature{
		R: group.NewPoint().Set(sig.R),
		S: bInv.Mul(sig.S),
	}
	out.Normalize()
	return out
}

// signatureMessage delivers the result of Party 1 to Party 2.
type signatureMessage struct {
	R curve.Point
	S curve.Scalar
}

func (Party2Message1) RoundNumber() round.Number   { return 1 }
func (Party1Message1) RoundNumber() round.Number   { return 2 }
func (Party2Message2) RoundNumber() round.Number   { return 2 }
func (signatureMessage) RoundNumber() round.Number { return 3 }
