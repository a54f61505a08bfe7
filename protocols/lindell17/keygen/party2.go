package keygen

import (
	"crypto/rand"
	"errors"

	"github.com/taurusgroup/two-party-ecdsa/pkg/hash"
	"github.com/taurusgroup/two-party-ecdsa/pkg/math/curve"
	"github.com/taurusgroup/two-party-ecdsa/pkg/math/sample"
	"github.com/taurusgroup/two-party-ecdsa/pkg/paillier"
	"github.com/taurusgroup/two-party-ecdsa/pkg/pedersen"
	"github.com/taurusgroup/two-party-ecdsa/pkg/pool"
	zkcompdlog "github.com/taurusgroup/two-party-ecdsa/pkg/zk/compdlog"
	zkcorrectkey "github.com/taurusgroup/two-party-ecdsa/pkg/zk/correctkey"
	zkpdl "github.com/taurusgroup/two-party-ecdsa/pkg/zk/pdl"
	zksch "github.com/taurusgroup/two-party-ecdsa/pkg/zk/sch"
	"github.com/taurusgroup/two-party-ecdsa/protocols/lindell17/config"
)

// Party2Round1 samples the share x₂ and proves knowledge of it.
func Party2Round1(h *hash.Hash, group curve.Curve) (*Party2Message1, *KeyPair, error) {
	return Party2Round1FromSecret(h, sample.ScalarUnit(rand.Reader, group))
}

// Party2Round1FromSecret is Party2Round1 with a fixed share x₂, used to restore an existing key.
func Party2Round1FromSecret(h *hash.Hash, x2 curve.Scalar) (*Party2Message1, *KeyPair, error) {
	if x2 == nil || x2.IsZero() {
		return nil, nil, errors.New("keygen: party 2 share must be non zero")
	}
	h = transcript(h)

	keyPair := NewKeyPair(x2)
	proof := zksch.NewProof(forParty(h, party2), keyPair.Public(), keyPair.Secret())
	return &Party2Message1{X2: keyPair.Public(), Proof: proof}, keyPair, nil
}

// Party2Round2 checks everything Party 1 sent, in order:
// the message is well formed, the commitment of round 1 opens to (X1, proof),
// the proof of knowledge of x₁, the composite discrete log proof,
// the decryptable with slack proof, and the correct key proof for salt.
//
// The first failing check is returned as an *Error.
func Party2Round2(h *hash.Hash, msg1 *Party1Message1, msg2 *Party1Message2, salt []byte, pl *pool.Pool) (*PaillierPublic, error) {
	h = transcript(h)
	if salt == nil {
		salt = zkcorrectkey.DefaultSalt
	}

	if err := validateParty1Messages(msg1, msg2); err != nil {
		return nil, err
	}
	proofHash := forParty(h, party1)

	if !forParty(h, party1).Decommit(msg1.Commitment, msg2.Decommitment, msg2.X1, msg2.Proof) {
		return nil, fail(FailureDecommitment)
	}

	if !msg2.Proof.Verify(proofHash.Clone(), msg2.X1) {
		return nil, fail(FailureDLogProof)
	}

	if !msg2.CompositeDLogProof.Verify(proofHash.Clone(), zkcompdlog.Public{Aux: msg2.Aux}) {
		return nil, fail(FailureCompositeDLogProof)
	}

	pdlPublic := zkpdl.Public{
		C:      msg2.EncryptedShare,
		Q:      msg2.X1,
		Prover: msg2.Paillier,
		Aux:    msg2.Aux,
	}
	if !msg2.PDLProof.Verify(proofHash.Clone(), pdlPublic) {
		return nil, fail(FailurePDLProof)
	}

	correctKeyPublic := zkcorrectkey.Public{N: msg2.Paillier, Salt: salt}
	if !msg2.CorrectKeyProof.Verify(proofHash.Clone(), correctKeyPublic, pl) {
		return nil, fail(FailureCorrectKeyProof)
	}

	return &PaillierPublic{
		Paillier:       msg2.Paillier,
		EncryptedShare: msg2.EncryptedShare,
	}, nil
}

func validateParty1Messages(msg1 *Party1Message1, msg2 *Party1Message2) error {
	if msg1 == nil || msg2 == nil {
		return fail(FailureMalformedMessage)
	}
	if err := msg1.Commitment.Validate(); err != nil {
		return failWith(FailureMalformedMessage, err)
	}
	if err := msg2.Decommitment.Validate(); err != nil {
		return failWith(FailureMalformedMessage, err)
	}
	if msg2.X1 == nil || msg2.X1.IsIdentity() || msg2.Proof == nil {
		return fail(FailureMalformedMessage)
	}
	if msg2.Paillier == nil || msg2.EncryptedShare == nil || msg2.Aux == nil {
		return fail(FailureMalformedMessage)
	}
	if msg2.CorrectKeyProof == nil || msg2.CompositeDLogProof == nil || msg2.PDLProof == nil {
		return fail(FailureMalformedMessage)
	}
	if err := paillier.ValidateN(msg2.Paillier.N()); err != nil {
		return failWith(FailureMalformedMessage, err)
	}
	if !msg2.Paillier.ValidateCiphertexts(msg2.EncryptedShare) {
		return fail(FailureMalformedMessage)
	}
	if err := pedersen.ValidateParameters(msg2.Aux.N(), msg2.Aux.S(), msg2.Aux.T()); err != nil {
		return failWith(FailureMalformedMessage, err)
	}
	if _, eq, _ := msg2.Aux.N().Cmp(msg2.Paillier.N()); eq == 1 {
		return failWith(FailureMalformedMessage, errors.New("Paillier and auxiliary moduli are equal"))
	}
	return nil
}

// NewMasterKey2 computes Q = x₂⋅X1 and packages the key of Party 2.
func NewMasterKey2(chainCode []byte, keyPair *KeyPair, peer curve.Point, paillierPublic *PaillierPublic) (*config.MasterKey2, error) {
	if keyPair == nil || peer == nil || paillierPublic == nil {
		return nil, errors.New("keygen: missing key material for party 2")
	}
	public := &config.Public{
		Q:              keyPair.Secret().Act(peer),
		X1:             peer,
		X2:             keyPair.Public(),
		Paillier:       paillierPublic.Paillier,
		EncryptedShare: paillierPublic.EncryptedShare,
	}
	return config.NewMasterKey2(public, config.NewParty2Private(keyPair.Secret()), chainCode)
}
