package keygen

import (
	"crypto/rand"

	"github.com/taurusgroup/two-party-ecdsa/internal/round"
	"github.com/taurusgroup/two-party-ecdsa/pkg/math/curve"
	"github.com/taurusgroup/two-party-ecdsa/pkg/math/sample"
)

// party1Round1 commits to the share of Party 1.
type party1Round1 struct {
	*round.Helper
	pre       *PreParams
	chainCode []byte
}

// VerifyMessage implements round.Round.
func (party1Round1) VerifyMessage(round.Message) error { return nil }

// StoreMessage implements round.Round.
func (party1Round1) StoreMessage(round.Message) error { return nil }

// Finalize implements round.Round.
func (r *party1Round1) Finalize(out chan<- *round.Message) (round.Session, error) {
	msg, witness, keyPair, err := Party1Round1(r.Hash(), r.Group())
	if err != nil {
		return r, err
	}
	if err = r.SendMessage(out, msg); err != nil {
		return r, err
	}
	return &party1Round2{
		party1Round1: r,
		witness:      witness,
		keyPair:      keyPair,
	}, nil
}

// MessageContent implements round.Round.
func (party1Round1) MessageContent() round.Content { return nil }

// Number implements round.Round.
func (party1Round1) Number() round.Number { return 1 }

// party2Round1 receives the commitment of Party 1, and answers with the share of Party 2.
type party2Round1 struct {
	*round.Helper
	// x2 is a fixed share, or nil
	x2        curve.Scalar
	chainCode []byte

	commitment *Party1Message1
}

// VerifyMessage implements round.Round.
func (r *party2Round1) VerifyMessage(msg round.Message) error {
	body, ok := msg.Content.(*Party1Message1)
	if !ok || body == nil {
		return round.ErrInvalidContent
	}
	if err := body.Commitment.Validate(); err != nil {
		return failWith(FailureMalformedMessage, err)
	}
	return nil
}

// StoreMessage implements round.Round.
func (r *party2Round1) StoreMessage(msg round.Message) error {
	r.commitment = msg.Content.(*Party1Message1)
	return nil
}

// Finalize implements round.Round.
func (r *party2Round1) Finalize(out chan<- *round.Message) (round.Session, error) {
	x2 := r.x2
	if x2 == nil {
		x2 = sample.ScalarUnit(rand.Reader, r.Group())
	}
	msg, keyPair, err := Party2Round1FromSecret(r.Hash(), x2)
	if err != nil {
		return r, err
	}
	if err = r.SendMessage(out, msg); err != nil {
		return r, err
	}
	return &party2Round2{
		party2Round1: r,
		keyPair:      keyPair,
	}, nil
}

// MessageContent implements round.Round.
func (party2Round1) MessageContent() round.Content { return &Party1Message1{} }

// Number implements round.Round.
func (party2Round1) Number() round.Number { return 1 }
