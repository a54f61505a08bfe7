package round

import (
	"github.com/taurusgroup/two-party-ecdsa/pkg/hash"
	"github.com/taurusgroup/two-party-ecdsa/pkg/math/curve"
	"github.com/taurusgroup/two-party-ecdsa/pkg/party"
)

// Info describes an execution between SelfID and PeerID.
type Info struct {
	ProtocolID string
	// FinalRoundNumber is the number of the last round before the output.
	FinalRoundNumber Number
	SelfID           party.ID
	PeerID           party.ID
	Group            curve.Curve
}

// Session is the current round of an execution, together with the data shared by all of its rounds.
type Session interface {
	Round
	Group() curve.Curve
	// Hash returns a copy of the transcript, which is bound to the SSID.
	Hash() *hash.Hash
	ProtocolID() string
	FinalRoundNumber() Number
	// SSID identifies the execution. Both parties derive the same value.
	SSID() []byte
	SelfID() party.ID
	PeerID() party.ID
}
