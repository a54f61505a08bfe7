package sign

import (
	"github.com/taurusgroup/two-party-ecdsa/internal/round"
	"github.com/taurusgroup/two-party-ecdsa/pkg/ecdsa"
	"github.com/taurusgroup/two-party-ecdsa/pkg/math/curve"
)

// party2Round3 receives the signature from Party 1, removing the blinding factor if needed.
type party2Round3 struct {
	*party2Round2
	// blinding is nil in the plain variant
	blinding curve.Scalar

	signature *ecdsa.Signature
}

// VerifyMessage implements round.Round.
func (r *party2Round3) VerifyMessage(msg round.Message) error {
	body, ok := msg.Content.(*signatureMessage)
	if !ok || body == nil {
		return round.ErrInvalidContent
	}
	if body.R == nil || body.S == nil || body.R.IsIdentity() || body.S.IsZero() {
		return fail(FailureMalformedMessage)
	}
	sig := &ecdsa.Signature{R: body.R, S: body.S}
	if r.blinding != nil {
		sig = (&BlindedSignature{R: body.R, S: body.S}).Unblind(r.blinding)
	}
	return verifySignature(r.mk.PublicKey(), sig, r.message)
}

// StoreMessage implements round.Round.
func (r *party2Round3) StoreMessage(msg round.Message) error {
	body := msg.Content.(*signatureMessage)
	if r.blinding != nil {
		r.signature = (&BlindedSignature{R: body.R, S: body.S}).Unblind(r.blinding)
		return nil
	}
	r.signature = &ecdsa.Signature{R: body.R, S: body.S}
	return nil
}

// Finalize implements round.Round.
func (r *party2Round3) Finalize(chan<- *round.Message) (round.Session, error) {
	return r.ResultRound(r.signature), nil
}

// MessageContent implements round.Round.
func (r *party2Round3) MessageContent() round.Content {
	return &signatureMessage{R: r.Group().NewPoint(), S: r.Group().NewScalar()}
}

// Number implements round.Round.
func (party2Round3) Number() round.Number { return 3 }
