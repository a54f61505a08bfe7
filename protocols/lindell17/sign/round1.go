package sign

import (
	"github.com/taurusgroup/two-party-ecdsa/internal/round"
	"github.com/taurusgroup/two-party-ecdsa/protocols/lindell17/config"
)

// party2Round1 commits to the nonce of Party 2.
type party2Round1 struct {
	*round.Helper
	mk      *config.MasterKey2
	message []byte
	blinded bool
}

// VerifyMessage implements round.Round.
func (party2Round1) VerifyMessage(round.Message) error { return nil }

// StoreMessage implements round.Round.
func (party2Round1) StoreMessage(round.Message) error { return nil }

// Finalize implements round.Round.
func (r *party2Round1) Finalize(out chan<- *round.Message) (round.Session, error) {
	msg, eph, err := Party2Round1(r.Hash(), r.Group())
	if err != nil {
		return r, err
	}
	if err = r.SendMessage(out, msg); err != nil {
		return r, err
	}
	return &party2Round2{party2Round1: r, eph: eph}, nil
}

// MessageContent implements round.Round.
func (party2Round1) MessageContent() round.Content { return nil }

// Number implements round.Round.
func (party2Round1) Number() round.Number { return 1 }

// party1Round1 stores the commitment of Party 2 and sends the nonce of Party 1.
type party1Round1 struct {
	*round.Helper
	mk      *config.MasterKey1
	message []byte
	blinded bool

	commitment *Party2Message1
}

// VerifyMessage implements round.Round.
func (r *party1Round1) VerifyMessage(msg round.Message) error {
	body, ok := msg.Content.(*Party2Message1)
	if !ok || body == nil {
		return round.ErrInvalidContent
	}
	if err := body.Commitment.Validate(); err != nil {
		return failWith(FailureMalformedMessage, err)
	}
	return nil
}

// StoreMessage implements round.Round.
func (r *party1Round1) StoreMessage(msg round.Message) error {
	r.commitment = msg.Content.(*Party2Message1)
	return nil
}

// Finalize implements round.Round.
func (r *party1Round1) Finalize(out chan<- *round.Message) (round.Session, error) {
	msg, eph, err := Party1Round1(r.Hash(), r.Group())
	if err != nil {
		return r, err
	}
	if err = r.SendMessage(out, msg); err != nil {
		return r, err
	}
	return &party1Round2{party1Round1: r, eph: eph}, nil
}

// MessageContent implements round.Round.
func (party1Round1) MessageContent() round.Content { return &Party2Message1{} }

// Number implements round.Round.
func (party1Round1) Number() round.Number { return 1 }
