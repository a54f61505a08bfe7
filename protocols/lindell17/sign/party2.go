package sign

import (
	"crypto/rand"
	"errors"
	"fmt"

	"github.com/cronokirby/saferith"
	"github.com/taurusgroup/two-party-ecdsa/pkg/hash"
	"github.com/taurusgroup/two-party-ecdsa/pkg/math/curve"
	"github.com/taurusgroup/two-party-ecdsa/pkg/math/sample"
	zksch "github.com/taurusgroup/two-party-ecdsa/pkg/zk/sch"
	"github.com/taurusgroup/two-party-ecdsa/protocols/lindell17/config"
)

const (
	party1 byte = 1
	party2 byte = 2
)

func transcript(h *hash.Hash) *hash.Hash {
	if h == nil {
		return hash.New()
	}
	return h.Clone()
}

func forParty(h *hash.Hash, id byte) *hash.Hash {
	return h.Fork(&hash.BytesWithDomain{
		TheDomain: "Lindell17 Sign Party",
		Bytes:     []byte{id},
	})
}

// Party2Round1 samples the nonce k₂ and commits to R2 = k₂⋅G together with a proof of knowledge of k₂.
func Party2Round1(h *hash.Hash, group curve.Curve) (*Party2Message1, *Party2Ephemeral, error) {
	h = transcript(h)

	k2, R2 := sample.ScalarPointPair(rand.Reader, group)
	proof := zksch.NewProof(forParty(h, party2), R2, k2)
	commitment, decommitment, err := forParty(h, party2).Commit(R2, proof)
	if err != nil {
		return nil, nil, fmt.Errorf("sign: party 2 round 1: %w", err)
	}
	return &Party2Message1{Commitment: commitment}, &Party2Ephemeral{
		nonce:        nonce{k: k2},
		R2:           R2,
		proof:        proof,
		decommitment: decommitment,
	}, nil
}

// Party2Round2 checks the nonce of Party 1 and computes the encrypted partial signature
//
//	c₃ = Enc(ρ⋅q + k₂⁻¹⋅m) ⊕ c_key ⊙ (k₂⁻¹⋅r⋅x₂),
//
// where m is derived from hash and r is the x coordinate of R = k₂⋅R1.
// The ephemeral is consumed, even if the message of Party 1 is rejected.
func Party2Round2(h *hash.Hash, mk *config.MasterKey2, eph *Party2Ephemeral, msg *Party1Message1, hash []byte) (*Party2Message2, error) {
	return computePartialSignature(h, mk, eph, msg, hash, nil)
}

// Party2Round2Blinded is Party2Round2 where both terms of c₃ are multiplied by a fresh blinding scalar b.
//
// Party 1 then only learns b⋅s, and b is returned to be used with BlindedSignature.Unblind.
func Party2Round2Blinded(h *hash.Hash, mk *config.MasterKey2, eph *Party2Ephemeral, msg *Party1Message1, hash []byte) (*Party2Message2, curve.Scalar, error) {
	if mk == nil {
		return nil, nil, errors.New("sign: missing master key")
	}
	b := sample.ScalarUnit(rand.Reader, mk.Group())
	out, err := computePartialSignature(h, mk, eph, msg, hash, b)
	if err != nil {
		return nil, nil, err
	}
	return out, b, nil
}

func computePartialSignature(h *hash.Hash, mk *config.MasterKey2, eph *Party2Ephemeral, msg *Party1Message1, hash []byte, b curve.Scalar) (*Party2Message2, error) {
	if mk == nil || eph == nil {
		return nil, errors.New("sign: missing master key or ephemeral")
	}
	k2, err := eph.take()
	if err != nil {
		return nil, err
	}
	h = transcript(h)

	if err = verifyParty1Message1(h, msg); err != nil {
		return nil, err
	}

	group := mk.Group()
	pk := mk.Public.Paillier

	R := k2.Act(msg.R1)
	r := R.XScalar()
	if r.IsZero() {
		return nil, fail(FailureSignature)
	}
	m := curve.FromHash(group, hash)

	k2Inv := group.NewScalar().Set(k2).Invert()
	// k₂⁻¹⋅m
	a := group.NewScalar().Set(k2Inv).Mul(m)
	// k₂⁻¹⋅r⋅x₂
	c := group.NewScalar().Set(k2Inv).Mul(r).Mul(mk.Private().Share())
	if b != nil {
		a.Mul(b)
		c.Mul(b)
	}

	// ρ⋅q hides the reduction of the decrypted value modulo q.
	q := group.Order().Nat()
	qSquared := saferith.ModulusFromNat(new(saferith.Nat).Mul(q, q, -1))
	rho := sample.ModN(rand.Reader, qSquared)
	plaintext := new(saferith.Nat).Mul(rho, q, -1)
	plaintext.Add(plaintext, curve.MakeNat(a), -1)

	c1, _ := pk.Enc(new(saferith.Int).SetNat(plaintext))
	c2 := mk.Public.EncryptedShare.Clone().Mul(pk, curve.MakeInt(c))
	c3 := c1.Add(pk, c2)

	return &Party2Message2{
		C3:           c3,
		R2:           eph.R2,
		Proof:        eph.proof,
		Decommitment: eph.decommitment,
	}, nil
}

func verifyParty1Message1(h *hash.Hash, msg *Party1Message1) error {
	if msg == nil || msg.R1 == nil || msg.Proof == nil {
		return fail(FailureMalformedMessage)
	}
	if msg.R1.IsIdentity() {
		return fail(FailureMalformedMessage)
	}
	if !msg.Proof.Verify(forParty(h, party1), msg.R1) {
		return fail(FailureDLogProof)
	}
	return nil
}
