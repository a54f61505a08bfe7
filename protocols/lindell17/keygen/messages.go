package keygen

import (
	"github.com/taurusgroup/two-party-ecdsa/internal/round"
	"github.com/taurusgroup/two-party-ecdsa/pkg/hash"
	"github.com/taurusgroup/two-party-ecdsa/pkg/math/curve"
	"github.com/taurusgroup/two-party-ecdsa/pkg/paillier"
	"github.com/taurusgroup/two-party-ecdsa/pkg/pedersen"
	zkcompdlog "github.com/taurusgroup/two-party-ecdsa/pkg/zk/compdlog"
	zkcorrectkey "github.com/taurusgroup/two-party-ecdsa/pkg/zk/correctkey"
	zkpdl "github.com/taurusgroup/two-party-ecdsa/pkg/zk/pdl"
	zksch "github.com/taurusgroup/two-party-ecdsa/pkg/zk/sch"
)

// KeyPair is the share of a party, together with its public counterpart.
type KeyPair struct {
	public curve.Point
	secret curve.Scalar
}

// NewKeyPair returns the pair (x, x⋅G).
func NewKeyPair(x curve.Scalar) *KeyPair {
	return &KeyPair{public: x.ActOnBase(), secret: x}
}

// Public returns x⋅G.
func (kp *KeyPair) Public() curve.Point { return kp.public }

// Secret returns x.
func (kp *KeyPair) Secret() curve.Scalar { return kp.secret }

// Party1Message1 is the commitment of Party 1 to its public share and its proof of knowledge.
type Party1Message1 struct {
	Commitment hash.Commitment
}

// Party1Witness is kept by Party 1 until it opens its commitment in round 2.
type Party1Witness struct {
	Decommitment hash.Decommitment
	Proof        *zksch.Proof
}

// Party2Message1 is the public share of Party 2 with a proof of knowledge of its discrete logarithm.
type Party2Message1 struct {
	X2    curve.Point
	Proof *zksch.Proof
}

// EmptyParty2Message1 returns a message ready to be unmarshalled.
func EmptyParty2Message1(group curve.Curve) *Party2Message1 {
	return &Party2Message1{X2: group.NewPoint(), Proof: zksch.EmptyProof(group)}
}

// Party1Message2 opens the commitment of Party 1, and proves that EncryptedShare
// encrypts the discrete logarithm of X1 under a correctly formed Paillier key.
type Party1Message2 struct {
	// X1 = x₁⋅G
	X1 curve.Point
	// Proof of knowledge of x₁
	Proof *zksch.Proof
	// Decommitment opens Party1Message1.Commitment to (X1, Proof)
	Decommitment hash.Decommitment

	Paillier *paillier.PublicKey
	// EncryptedShare = Enc(x₁; r)
	EncryptedShare *paillier.Ciphertext
	// CorrectKeyProof shows that Paillier was generated correctly.
	CorrectKeyProof *zkcorrectkey.Proof

	// Aux are the ring-Pedersen parameters used by PDLProof.
	Aux *pedersen.Parameters
	// CompositeDLogProof shows knowledge of the discrete logarithm of T in base S modulo Ñ.
	CompositeDLogProof *zkcompdlog.Proof
	// PDLProof shows that EncryptedShare decrypts to the discrete logarithm of X1.
	PDLProof *zkpdl.Proof
}

// EmptyParty1Message2 returns a message ready to be unmarshalled.
func EmptyParty1Message2(group curve.Curve) *Party1Message2 {
	return &Party1Message2{
		X1:                 group.NewPoint(),
		Proof:              zksch.EmptyProof(group),
		CorrectKeyProof:    zkcorrectkey.EmptyProof(),
		CompositeDLogProof: zkcompdlog.EmptyProof(),
		PDLProof:           zkpdl.EmptyProof(group),
	}
}

// PaillierPublic is what Party 2 learns about the Paillier key of Party 1.
type PaillierPublic struct {
	Paillier       *paillier.PublicKey
	EncryptedShare *paillier.Ciphertext
}

// message3 confirms to Party 1 that Party 2 accepted the key, and which public key it computed.
type message3 struct {
	Q curve.Point
}

func (Party1Message1) RoundNumber() round.Number { return 1 }
func (Party2Message1) RoundNumber() round.Number { return 2 }
func (Party1Message2) RoundNumber() round.Number { return 2 }
func (message3) RoundNumber() round.Number       { return 3 }
