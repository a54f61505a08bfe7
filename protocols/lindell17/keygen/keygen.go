package keygen

import (
	"fmt"

	"github.com/taurusgroup/two-party-ecdsa/internal/round"
	"github.com/taurusgroup/two-party-ecdsa/pkg/math/curve"
	"github.com/taurusgroup/two-party-ecdsa/pkg/party"
	"github.com/taurusgroup/two-party-ecdsa/pkg/pool"
	"github.com/taurusgroup/two-party-ecdsa/pkg/protocol"
)

const (
	// ProtocolID for the Lindell17 key generation.
	ProtocolID = "lindell17/keygen"
	// This protocol has 3 concrete rounds.
	protocolRounds round.Number = 3
)

func newSession(group curve.Curve, selfID, peerID party.ID, sessionID []byte, pl *pool.Pool) (*round.Helper, error) {
	info := round.Info{
		ProtocolID:       ProtocolID,
		FinalRoundNumber: protocolRounds,
		SelfID:           selfID,
		PeerID:           peerID,
		Group:            group,
	}
	return round.NewSession(info, sessionID, pl)
}

// StartParty1 returns the key generation of Party 1, which leads the execution.
//
// The result is a *config.MasterKey1, produced only after Party 2 accepted all proofs.
// If pre is nil, the Paillier key and auxiliary parameters are generated during the second round.
func StartParty1(group curve.Curve, selfID, peerID party.ID, chainCode []byte, pre *PreParams, pl *pool.Pool) protocol.StartFunc {
	return func(sessionID []byte) (round.Session, error) {
		helper, err := newSession(group, selfID, peerID, sessionID, pl)
		if err != nil {
			return nil, fmt.Errorf("keygen.StartParty1: %w", err)
		}
		if pre != nil {
			if err = pre.Validate(); err != nil {
				return nil, fmt.Errorf("keygen.StartParty1: %w", err)
			}
		}
		return &party1Round1{
			Helper:    helper,
			pre:       pre,
			chainCode: chainCode,
		}, nil
	}
}

// StartParty2 returns the key generation of Party 2.
//
// When x2 is not nil, it is used as the share of Party 2, which allows restoring a key.
// The result is a *config.MasterKey2.
func StartParty2(group curve.Curve, selfID, peerID party.ID, chainCode []byte, x2 curve.Scalar, pl *pool.Pool) protocol.StartFunc {
	return func(sessionID []byte) (round.Session, error) {
		helper, err := newSession(group, selfID, peerID, sessionID, pl)
		if err != nil {
			return nil, fmt.Errorf("keygen.StartParty2: %w", err)
		}
		if x2 != nil && x2.IsZero() {
			return nil, fmt.Errorf("keygen.StartParty2: share is zero")
		}
		return &party2Round1{
			Helper:    helper,
			x2:        x2,
			chainCode: chainCode,
		}, nil
	}
}
