package keygen

import (
	"crypto/rand"
	"errors"
	"fmt"

	"github.com/taurusgroup/two-party-ecdsa/pkg/hash"
	"github.com/taurusgroup/two-party-ecdsa/pkg/math/curve"
	"github.com/taurusgroup/two-party-ecdsa/pkg/math/sample"
	"github.com/taurusgroup/two-party-ecdsa/pkg/paillier"
	"github.com/taurusgroup/two-party-ecdsa/pkg/pool"
	zkcompdlog "github.com/taurusgroup/two-party-ecdsa/pkg/zk/compdlog"
	zkcorrectkey "github.com/taurusgroup/two-party-ecdsa/pkg/zk/correctkey"
	zkpdl "github.com/taurusgroup/two-party-ecdsa/pkg/zk/pdl"
	zksch "github.com/taurusgroup/two-party-ecdsa/pkg/zk/sch"
	"github.com/taurusgroup/two-party-ecdsa/protocols/lindell17/config"
)

const (
	party1 byte = 1
	party2 byte = 2
)

// transcript returns a copy of h, or a fresh hash when h is nil.
func transcript(h *hash.Hash) *hash.Hash {
	if h == nil {
		return hash.New()
	}
	return h.Clone()
}

// forParty separates the proofs produced by each party within the same transcript.
func forParty(h *hash.Hash, id byte) *hash.Hash {
	return h.Fork(&hash.BytesWithDomain{
		TheDomain: "Lindell17 KeyGen Party",
		Bytes:     []byte{id},
	})
}

// Party1Round1 samples the share x₁ and commits to X1 = x₁⋅G together with a proof of knowledge of x₁.
//
// The witness opening the commitment must be kept until Party1Round2.
func Party1Round1(h *hash.Hash, group curve.Curve) (*Party1Message1, *Party1Witness, *KeyPair, error) {
	h = transcript(h)

	keyPair := NewKeyPair(sample.ScalarUnit(rand.Reader, group))
	proof := zksch.NewProof(forParty(h, party1), keyPair.Public(), keyPair.Secret())

	commitment, decommitment, err := forParty(h, party1).Commit(keyPair.Public(), proof)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("keygen: party 1 round 1: %w", err)
	}
	return &Party1Message1{Commitment: commitment},
		&Party1Witness{Decommitment: decommitment, Proof: proof},
		keyPair, nil
}

// Party1Round2 checks the proof of Party 2, opens the commitment of round 1, and proves that
// the Paillier encryption of x₁ it sends is correct.
//
// If pre is nil, fresh pre-parameters are generated, which may take a while. Otherwise pre is consumed.
// A nil salt is replaced by zkcorrectkey.DefaultSalt.
func Party1Round2(h *hash.Hash, witness *Party1Witness, keyPair *KeyPair, msg *Party2Message1,
	pre *PreParams, salt []byte, pl *pool.Pool) (*Party1Message2, *paillier.SecretKey, error) {
	h = transcript(h)

	if witness == nil || keyPair == nil {
		return nil, nil, errors.New("keygen: party 1 round 2: missing round 1 state")
	}
	if err := verifyParty2Message1(h, msg); err != nil {
		return nil, nil, err
	}

	if pre == nil {
		pre = GeneratePreParams(pl)
	}
	if err := pre.Validate(); err != nil {
		return nil, nil, err
	}
	if err := pre.consume(); err != nil {
		return nil, nil, err
	}
	if salt == nil {
		salt = zkcorrectkey.DefaultSalt
	}

	group := keyPair.Public().Curve()
	sk := pre.Paillier
	pk := sk.PublicKey
	proofHash := forParty(h, party1)

	encryptedShare, nonce := pk.Enc(curve.MakeInt(keyPair.Secret()))

	correctKeyProof := zkcorrectkey.NewProof(proofHash.Clone(),
		zkcorrectkey.Public{N: pk, Salt: salt},
		zkcorrectkey.Private{SecretKey: sk}, pl)

	compositeDLogProof := zkcompdlog.NewProof(proofHash.Clone(),
		zkcompdlog.Public{Aux: pre.Aux},
		zkcompdlog.Private{X: pre.Lambda})

	pdlProof := zkpdl.NewProof(group, proofHash.Clone(),
		zkpdl.Public{C: encryptedShare, Q: keyPair.Public(), Prover: pk, Aux: pre.Aux},
		zkpdl.Private{X: keyPair.Secret(), R: nonce})

	return &Party1Message2{
		X1:                 keyPair.Public(),
		Proof:              witness.Proof,
		Decommitment:       witness.Decommitment,
		Paillier:           pk,
		EncryptedShare:     encryptedShare,
		CorrectKeyProof:    correctKeyProof,
		Aux:                pre.Aux,
		CompositeDLogProof: compositeDLogProof,
		PDLProof:           pdlProof,
	}, sk, nil
}

func verifyParty2Message1(h *hash.Hash, msg *Party2Message1) error {
	if msg == nil || msg.X2 == nil || msg.Proof == nil {
		return fail(FailureMalformedMessage)
	}
	if msg.X2.IsIdentity() {
		return fail(FailureMalformedMessage)
	}
	if !msg.Proof.Verify(forParty(h, party2), msg.X2) {
		return fail(FailureDLogProof)
	}
	return nil
}

// NewMasterKey1 computes Q = x₁⋅X2 and packages the key of Party 1.
func NewMasterKey1(chainCode []byte, keyPair *KeyPair, paillierSecret *paillier.SecretKey,
	encryptedShare *paillier.Ciphertext, peer curve.Point) (*config.MasterKey1, error) {
	if keyPair == nil || paillierSecret == nil || encryptedShare == nil || peer == nil {
		return nil, errors.New("keygen: missing key material for party 1")
	}
	public := &config.Public{
		Q:              keyPair.Secret().Act(peer),
		X1:             keyPair.Public(),
		X2:             peer,
		Paillier:       paillierSecret.PublicKey,
		EncryptedShare: encryptedShare,
	}
	return config.NewMasterKey1(public, config.NewParty1Private(keyPair.Secret(), paillierSecret), chainCode)
}
