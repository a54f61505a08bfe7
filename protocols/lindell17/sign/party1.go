package sign

import (
	"crypto/rand"
	"errors"

	"github.com/taurusgroup/two-party-ecdsa/pkg/ecdsa"
	"github.com/taurusgroup/two-party-ecdsa/pkg/hash"
	"github.com/taurusgroup/two-party-ecdsa/pkg/math/curve"
	"github.com/taurusgroup/two-party-ecdsa/pkg/math/sample"
	zksch "github.com/taurusgroup/two-party-ecdsa/pkg/zk/sch"
	"github.com/taurusgroup/two-party-ecdsa/protocols/lindell17/config"
)

// Party1Round1 samples the nonce k₁ and proves knowledge of it.
// Party 2 is already committed to its nonce, so R1 is sent in the clear.
func Party1Round1(h *hash.Hash, group curve.Curve) (*Party1Message1, *Party1Ephemeral, error) {
	h = transcript(h)

	k1, R1 := sample.ScalarPointPair(rand.Reader, group)
	proof := zksch.NewProof(forParty(h, party1), R1, k1)
	return &Party1Message1{R1: R1, Proof: proof}, &Party1Ephemeral{nonce: nonce{k: k1}, R1: R1}, nil
}

// Party1Round2 opens the commitment of Party 2, decrypts the partial signature and returns
// the normalized signature, after checking it against the public key.
func Party1Round2(h *hash.Hash, mk *config.MasterKey1, eph *Party1Ephemeral, msg1 *Party2Message1, msg2 *Party2Message2, hash []byte) (*ecdsa.Signature, error) {
	R, s, err := decryptPartialSignature(h, mk, eph, msg1, msg2)
	if err != nil {
		return nil, err
	}
	sig := &ecdsa.Signature{R: R, S: s}
	sig.Normalize()
	if !sig.Verify(mk.PublicKey(), hash) {
		return nil, fail(FailureSignature)
	}
	return sig, nil
}

// Party1Round2Blinded opens the commitment of Party 2 and decrypts the blinded partial signature.
// The result can not be verified before Party 2 removes the blinding factor.
func Party1Round2Blinded(h *hash.Hash, mk *config.MasterKey1, eph *Party1Ephemeral, msg1 *Party2Message1, msg2 *Party2Message2) (*BlindedSignature, error) {
	R, s, err := decryptPartialSignature(h, mk, eph, msg1, msg2)
	if err != nil {
		return nil, err
	}
	return &BlindedSignature{R: R, S: s}, nil
}

// decryptPartialSignature returns R = k₁⋅R2 and s = k₁⁻¹⋅Dec(c₃) (mod q).
func decryptPartialSignature(h *hash.Hash, mk *config.MasterKey1, eph *Party1Ephemeral, msg1 *Party2Message1, msg2 *Party2Message2) (curve.Point, curve.Scalar, error) {
	if mk == nil || eph == nil {
		return nil, nil, errors.New("sign: missing master key or ephemeral")
	}
	k1, err := eph.take()
	if err != nil {
		return nil, nil, err
	}
	h = transcript(h)

	if err = verifyParty2Messages(h, msg1, msg2); err != nil {
		return nil, nil, err
	}

	group := mk.Group()
	sk := mk.Private().Paillier()
	if !sk.PublicKey.ValidateCiphertexts(msg2.C3) {
		return nil, nil, fail(FailureMalformedMessage)
	}

	R := k1.Act(msg2.R2)
	if R.IsIdentity() || R.XScalar().IsZero() {
		return nil, nil, fail(FailureSignature)
	}

	plaintext, err := sk.Dec(msg2.C3)
	if err != nil {
		return nil, nil, failWith(FailureDecryption, err)
	}
	s := group.NewScalar().SetNat(plaintext.Mod(group.Order()))
	s.Mul(k1.Invert())
	if s.IsZero() {
		return nil, nil, fail(FailureSignature)
	}
	return R, s, nil
}

func verifyParty2Messages(h *hash.Hash, msg1 *Party2Message1, msg2 *Party2Message2) error {
	if msg1 == nil || msg2 == nil {
		return fail(FailureMalformedMessage)
	}
	if err := msg1.Commitment.Validate(); err != nil {
		return failWith(FailureMalformedMessage, err)
	}
	if err := msg2.Decommitment.Validate(); err != nil {
		return failWith(FailureMalformedMessage, err)
	}
	if msg2.C3 == nil || msg2.R2 == nil || msg2.R2.IsIdentity() || msg2.Proof == nil {
		return fail(FailureMalformedMessage)
	}
	if !forParty(h, party2).Decommit(msg1.Commitment, msg2.Decommitment, msg2.R2, msg2.Proof) {
		return fail(FailureDecommitment)
	}
	if !msg2.Proof.Verify(forParty(h, party2), msg2.R2) {
		return fail(FailureDLogProof)
	}
	return nil
}
