// Package lindell17 implements the two party ECDSA protocol of Lindell (CRYPTO 2017).
//
// Party 1 holds x₁ and a Paillier key, Party 2 holds x₂ and the encryption of x₁.
// The public key is Q = x₁⋅x₂⋅G. Neither party ever learns the full secret key.
package lindell17

import (
	"github.com/taurusgroup/two-party-ecdsa/pkg/math/curve"
	"github.com/taurusgroup/two-party-ecdsa/pkg/party"
	"github.com/taurusgroup/two-party-ecdsa/pkg/pool"
	"github.com/taurusgroup/two-party-ecdsa/pkg/protocol"
	"github.com/taurusgroup/two-party-ecdsa/protocols/lindell17/config"
	"github.com/taurusgroup/two-party-ecdsa/protocols/lindell17/keygen"
	"github.com/taurusgroup/two-party-ecdsa/protocols/lindell17/sign"
)

type (
	MasterKey1       = config.MasterKey1
	MasterKey2       = config.MasterKey2
	PreParams        = keygen.PreParams
	BlindedSignature = sign.BlindedSignature
)

// EmptyMasterKey1 returns a key ready to be unmarshalled.
func EmptyMasterKey1(group curve.Curve) *MasterKey1 { return config.EmptyMasterKey1(group) }

// EmptyMasterKey2 returns a key ready to be unmarshalled.
func EmptyMasterKey2(group curve.Curve) *MasterKey2 { return config.EmptyMasterKey2(group) }

// Keygen1 generates the key of Party 1, which must run as the leader.
func Keygen1(group curve.Curve, selfID, peerID party.ID, chainCode []byte, pre *PreParams, pl *pool.Pool) protocol.StartFunc {
	return keygen.StartParty1(group, selfID, peerID, chainCode, pre, pl)
}

// Keygen2 generates the key of Party 2. A non nil x2 restores an existing share.
func Keygen2(group curve.Curve, selfID, peerID party.ID, chainCode []byte, x2 curve.Scalar, pl *pool.Pool) protocol.StartFunc {
	return keygen.StartParty2(group, selfID, peerID, chainCode, x2, pl)
}

func Sign1(mk *MasterKey1, selfID, peerID party.ID, message []byte, pl *pool.Pool) protocol.StartFunc {
	return sign.StartParty1(mk, selfID, peerID, message, pl)
}

// Sign2 signs message with Party 2, which must run as the leader.
func Sign2(mk *MasterKey2, selfID, peerID party.ID, message []byte, pl *pool.Pool) protocol.StartFunc {
	return sign.StartParty2(mk, selfID, peerID, message, pl)
}

// SignBlinded1 runs Party 1 of the blinded variant, without the message.
func SignBlinded1(mk *MasterKey1, selfID, peerID party.ID, pl *pool.Pool) protocol.StartFunc {
	return sign.StartParty1Blinded(mk, selfID, peerID, pl)
}

func SignBlinded2(mk *MasterKey2, selfID, peerID party.ID, message []byte, pl *pool.Pool) protocol.StartFunc {
	return sign.StartParty2Blinded(mk, selfID, peerID, message, pl)
}
