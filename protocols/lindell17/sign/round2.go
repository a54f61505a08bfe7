package sign

import (
	"github.com/taurusgroup/two-party-ecdsa/internal/round"
	"github.com/taurusgroup/two-party-ecdsa/pkg/math/curve"
)

// party2Round2 receives the nonce of Party 1 and sends the encrypted partial signature.
type party2Round2 struct {
	*party2Round1
	eph *Party2Ephemeral

	peer *Party1Message1
}

// VerifyMessage implements round.Round.
func (r *party2Round2) VerifyMessage(msg round.Message) error {
	body, ok := msg.Content.(*Party1Message1)
	if !ok || body == nil {
		return round.ErrInvalidContent
	}
	return verifyParty1Message1(r.Hash(), body)
}

// StoreMessage implements round.Round.
func (r *party2Round2) StoreMessage(msg round.Message) error {
	r.peer = msg.Content.(*Party1Message1)
	return nil
}

// Finalize implements round.Round.
func (r *party2Round2) Finalize(out chan<- *round.Message) (round.Session, error) {
	var (
		msg *Party2Message2
		b   curve.Scalar
		err error
	)
	if r.blinded {
		msg, b, err = Party2Round2Blinded(r.Hash(), r.mk, r.eph, r.peer, r.message)
	} else {
		msg, err = Party2Round2(r.Hash(), r.mk, r.eph, r.peer, r.message)
	}
	if err != nil {
		return r.AbortRound(err, r.PeerID()), nil
	}
	if err = r.SendMessage(out, msg); err != nil {
		return r, err
	}
	return &party2Round3{party2Round2: r, blinding: b}, nil
}

// MessageContent implements round.Round.
func (r *party2Round2) MessageContent() round.Content {
	return EmptyParty1Message1(r.Group())
}

// Number implements round.Round.
func (party2Round2) Number() round.Number { return 2 }

// party1Round2 decrypts the partial signature of Party 2, and sends the result back.
type party1Round2 struct {
	*party1Round1
	eph *Party1Ephemeral

	peer *Party2Message2
}

// VerifyMessage implements round.Round.
func (r *party1Round2) VerifyMessage(msg round.Message) error {
	body, ok := msg.Content.(*Party2Message2)
	if !ok || body == nil {
		return round.ErrInvalidContent
	}
	return verifyParty2Messages(r.Hash(), r.commitment, body)
}

// StoreMessage implements round.Round.
func (r *party1Round2) StoreMessage(msg round.Message) error {
	r.peer = msg.Content.(*Party2Message2)
	return nil
}

// Finalize implements round.Round.
func (r *party1Round2) Finalize(out chan<- *round.Message) (round.Session, error) {
	var (
		result any
		msg    *signatureMessage
	)
	if r.blinded {
		sig, err := Party1Round2Blinded(r.Hash(), r.mk, r.eph, r.commitment, r.peer)
		if err != nil {
			return r.AbortRound(err, r.PeerID()), nil
		}
		result, msg = sig, &signatureMessage{R: sig.R, S: sig.S}
	} else {
		sig, err := Party1Round2(r.Hash(), r.mk, r.eph, r.commitment, r.peer, r.message)
		if err != nil {
			return r.AbortRound(err, r.PeerID()), nil
		}
		result, msg = sig, &signatureMessage{R: sig.R, S: sig.S}
	}
	if err := r.SendMessage(out, msg); err != nil {
		return r, err
	}
	return r.ResultRound(result), nil
}

// MessageContent implements round.Round.
func (r *party1Round2) MessageContent() round.Content {
	return EmptyParty2Message2(r.Group())
}

// Number implements round.Round.
func (party1Round2) Number() round.Number { return 2 }
