package protocol_test

import (
	"errors"

	"github.com/taurusgroup/two-party-ecdsa/internal/round"
	"github.com/taurusgroup/two-party-ecdsa/pkg/math/curve"
	"github.com/taurusgroup/two-party-ecdsa/pkg/party"
	"github.com/taurusgroup/two-party-ecdsa/pkg/protocol"
)

// exchange is a two round protocol where both parties learn the XOR of their values.

const exchangeID = "test/exchange"

var errEmptyValue = errors.New("empty value")

type leaderMessage struct{ Value []byte }

type followerMessage struct{ Value []byte }

func (leaderMessage) RoundNumber() round.Number   { return 1 }
func (followerMessage) RoundNumber() round.Number { return 2 }

func xor(a, b []byte) []byte {
	out := make([]byte, len(a))
	for i := range a {
		if i < len(b) {
			out[i] = a[i] ^ b[i]
		}
	}
	return out
}

func startExchange(selfID, peerID party.ID, value []byte, leader bool) protocol.StartFunc {
	return func(sessionID []byte) (round.Session, error) {
		helper, err := round.NewSession(round.Info{
			ProtocolID:       exchangeID,
			FinalRoundNumber: 2,
			SelfID:           selfID,
			PeerID:           peerID,
			Group:            curve.Secp256k1{},
		}, sessionID, nil)
		if err != nil {
			return nil, err
		}
		if leader {
			return &leaderRound1{Helper: helper, value: value}, nil
		}
		return &followerRound1{Helper: helper, value: value}, nil
	}
}

type leaderRound1 struct {
	*round.Helper
	value []byte
}

func (leaderRound1) VerifyMessage(round.Message) error { return nil }
func (leaderRound1) StoreMessage(round.Message) error  { return nil }
func (r *leaderRound1) Finalize(out chan<- *round.Message) (round.Session, error) {
	if err := r.SendMessage(out, &leaderMessage{Value: r.value}); err != nil {
		return r, err
	}
	return &leaderRound2{leaderRound1: r}, nil
}
func (leaderRound1) MessageContent() round.Content { return nil }
func (leaderRound1) Number() round.Number          { return 1 }

type leaderRound2 struct {
	*leaderRound1
	peer []byte
}

func (leaderRound2) VerifyMessage(msg round.Message) error {
	body, ok := msg.Content.(*followerMessage)
	if !ok {
		return round.ErrInvalidContent
	}
	if len(body.Value) == 0 {
		return errEmptyValue
	}
	return nil
}
func (r *leaderRound2) StoreMessage(msg round.Message) error {
	r.peer = msg.Content.(*followerMessage).Value
	return nil
}
func (r *leaderRound2) Finalize(chan<- *round.Message) (round.Session, error) {
	return r.ResultRound(xor(r.value, r.peer)), nil
}
func (leaderRound2) MessageContent() round.Content { return &followerMessage{} }
func (leaderRound2) Number() round.Number          { return 2 }

type followerRound1 struct {
	*round.Helper
	value []byte
	peer  []byte
}

func (followerRound1) VerifyMessage(msg round.Message) error {
	body, ok := msg.Content.(*leaderMessage)
	if !ok {
		return round.ErrInvalidContent
	}
	if len(body.Value) == 0 {
		return errEmptyValue
	}
	return nil
}
func (r *followerRound1) StoreMessage(msg round.Message) error {
	r.peer = msg.Content.(*leaderMessage).Value
	return nil
}
func (r *followerRound1) Finalize(out chan<- *round.Message) (round.Session, error) {
	if err := r.SendMessage(out, &followerMessage{Value: r.value}); err != nil {
		return r, err
	}
	return r.ResultRound(xor(r.value, r.peer)), nil
}
func (followerRound1) MessageContent() round.Content { return &leaderMessage{} }
func (followerRound1) Number() round.Number          { return 1 }
