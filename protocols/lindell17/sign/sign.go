package sign

import (
	"errors"
	"fmt"

	"github.com/taurusgroup/two-party-ecdsa/internal/round"
	"github.com/taurusgroup/two-party-ecdsa/pkg/ecdsa"
	"github.com/taurusgroup/two-party-ecdsa/pkg/hash"
	"github.com/taurusgroup/two-party-ecdsa/pkg/math/curve"
	"github.com/taurusgroup/two-party-ecdsa/pkg/party"
	"github.com/taurusgroup/two-party-ecdsa/pkg/pool"
	"github.com/taurusgroup/two-party-ecdsa/pkg/protocol"
	"github.com/taurusgroup/two-party-ecdsa/protocols/lindell17/config"
)

const (
	// ProtocolID for the Lindell17 signature.
	ProtocolID = "lindell17/sign"
	// ProtocolIDBlinded for the Lindell17 signature where Party 1 only learns a blinded s.
	ProtocolIDBlinded = "lindell17/sign-blinded"
	// This protocol has 3 concrete rounds.
	protocolRounds round.Number = 3
)

var errEmptyMessage = errors.New("message is empty")

// newSession binds the public key to the transcript, and the message unless the variant is blinded.
// Party 1 never sees the message of a blinded signature.
func newSession(protocolID string, public *config.Public, selfID, peerID party.ID, sessionID, message []byte, pl *pool.Pool) (*round.Helper, error) {
	if public == nil {
		return nil, errors.New("missing master key")
	}
	qBytes, err := public.Q.MarshalBinary()
	if err != nil {
		return nil, err
	}
	aux := []hash.WriterToWithDomain{&hash.BytesWithDomain{TheDomain: "Public Key", Bytes: qBytes}}
	if protocolID != ProtocolIDBlinded {
		if len(message) == 0 {
			return nil, errEmptyMessage
		}
		aux = append(aux, &hash.BytesWithDomain{TheDomain: "Signed Message", Bytes: message})
	}
	info := round.Info{
		ProtocolID:       protocolID,
		FinalRoundNumber: protocolRounds,
		SelfID:           selfID,
		PeerID:           peerID,
		Group:            public.Group(),
	}
	return round.NewSession(info, sessionID, pl, aux...)
}

// StartParty1 returns the signature of message by Party 1.
//
// The result is the *ecdsa.Signature, which Party 1 also forwards to Party 2.
func StartParty1(mk *config.MasterKey1, selfID, peerID party.ID, message []byte, pl *pool.Pool) protocol.StartFunc {
	return startParty1(ProtocolID, mk, selfID, peerID, message, pl)
}

// StartParty1Blinded is StartParty1 for the blinded variant, where Party 1 does not learn the message.
//
// The result is a *BlindedSignature, which only Party 2 can turn into a valid signature.
func StartParty1Blinded(mk *config.MasterKey1, selfID, peerID party.ID, pl *pool.Pool) protocol.StartFunc {
	return startParty1(ProtocolIDBlinded, mk, selfID, peerID, nil, pl)
}

func startParty1(protocolID string, mk *config.MasterKey1, selfID, peerID party.ID, message []byte, pl *pool.Pool) protocol.StartFunc {
	return func(sessionID []byte) (round.Session, error) {
		if mk == nil {
			return nil, errors.New("sign.StartParty1: missing master key")
		}
		helper, err := newSession(protocolID, mk.Public, selfID, peerID, sessionID, message, pl)
		if err != nil {
			return nil, fmt.Errorf("sign.StartParty1: %w", err)
		}
		return &party1Round1{
			Helper:  helper,
			mk:      mk,
			message: message,
			blinded: protocolID == ProtocolIDBlinded,
		}, nil
	}
}

// StartParty2 returns the signature of message by Party 2, which leads the execution.
//
// The result is the *ecdsa.Signature computed by Party 1, verified against the public key.
func StartParty2(mk *config.MasterKey2, selfID, peerID party.ID, message []byte, pl *pool.Pool) protocol.StartFunc {
	return startParty2(ProtocolID, mk, selfID, peerID, message, pl)
}

// StartParty2Blinded is StartParty2 for the blinded variant.
//
// Party 2 removes the blinding factor from the result of Party 1, and outputs the verified *ecdsa.Signature.
func StartParty2Blinded(mk *config.MasterKey2, selfID, peerID party.ID, message []byte, pl *pool.Pool) protocol.StartFunc {
	return startParty2(ProtocolIDBlinded, mk, selfID, peerID, message, pl)
}

func startParty2(protocolID string, mk *config.MasterKey2, selfID, peerID party.ID, message []byte, pl *pool.Pool) protocol.StartFunc {
	return func(sessionID []byte) (round.Session, error) {
		if mk == nil {
			return nil, errors.New("sign.StartParty2: missing master key")
		}
		if len(message) == 0 {
			return nil, fmt.Errorf("sign.StartParty2: %w", errEmptyMessage)
		}
		helper, err := newSession(protocolID, mk.Public, selfID, peerID, sessionID, message, pl)
		if err != nil {
			return nil, fmt.Errorf("sign.StartParty2: %w", err)
		}
		return &party2Round1{
			Helper:  helper,
			mk:      mk,
			message: message,
			blinded: protocolID == ProtocolIDBlinded,
		}, nil
	}
}

// verifySignature checks that the signature sent by Party 1 is valid for the public key.
func verifySignature(Q curve.Point, sig *ecdsa.Signature, message []byte) error {
	if sig.R == nil || sig.S == nil {
		return fail(FailureMalformedMessage)
	}
	if !sig.Verify(Q, message) {
		return fail(FailureSignature)
	}
	return nil
}
