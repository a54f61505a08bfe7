package keygen

import (
	"github.com/taurusgroup/two-party-ecdsa/internal/round"
	zkcorrectkey "github.com/taurusgroup/two-party-ecdsa/pkg/zk/correctkey"
	"github.com/taurusgroup/two-party-ecdsa/protocols/lindell17/config"
)

// party1Round2 receives the share of Party 2, opens the commitment and proves the Paillier encryption of x₁.
type party1Round2 struct {
	*party1Round1
	witness *Party1Witness
	keyPair *KeyPair

	peer *Party2Message1
}

// VerifyMessage implements round.Round.
func (r *party1Round2) VerifyMessage(msg round.Message) error {
	body, ok := msg.Content.(*Party2Message1)
	if !ok || body == nil {
		return round.ErrInvalidContent
	}
	return verifyParty2Message1(r.Hash(), body)
}

// StoreMessage implements round.Round.
func (r *party1Round2) StoreMessage(msg round.Message) error {
	r.peer = msg.Content.(*Party2Message1)
	return nil
}

// Finalize implements round.Round.
func (r *party1Round2) Finalize(out chan<- *round.Message) (round.Session, error) {
	msg, paillierSecret, err := Party1Round2(r.Hash(), r.witness, r.keyPair, r.peer, r.pre, zkcorrectkey.DefaultSalt, r.Pool)
	if err != nil {
		return r.AbortRound(err, r.PeerID()), nil
	}
	masterKey, err := NewMasterKey1(r.chainCode, r.keyPair, paillierSecret, msg.EncryptedShare, r.peer.X2)
	if err != nil {
		return r, err
	}
	if err = r.SendMessage(out, msg); err != nil {
		return r, err
	}
	return &party1Round3{
		party1Round2: r,
		masterKey:    masterKey,
	}, nil
}

// MessageContent implements round.Round.
func (r *party1Round2) MessageContent() round.Content {
	return EmptyParty2Message1(r.Group())
}

// Number implements round.Round.
func (party1Round2) Number() round.Number { return 2 }

// party2Round2 verifies the proofs of Party 1, and outputs the key of Party 2.
type party2Round2 struct {
	*party2Round1
	keyPair *KeyPair

	peer *Party1Message2
}

// VerifyMessage implements round.Round.
func (r *party2Round2) VerifyMessage(msg round.Message) error {
	body, ok := msg.Content.(*Party1Message2)
	if !ok || body == nil {
		return round.ErrInvalidContent
	}
	_, err := Party2Round2(r.Hash(), r.commitment, body, zkcorrectkey.DefaultSalt, r.Pool)
	return err
}

// StoreMessage implements round.Round.
func (r *party2Round2) StoreMessage(msg round.Message) error {
	r.peer = msg.Content.(*Party1Message2)
	return nil
}

// Finalize implements round.Round.
func (r *party2Round2) Finalize(out chan<- *round.Message) (round.Session, error) {
	masterKey, err := NewMasterKey2(r.chainCode, r.keyPair, r.peer.X1, &PaillierPublic{
		Paillier:       r.peer.Paillier,
		EncryptedShare: r.peer.EncryptedShare,
	})
	if err != nil {
		return r.AbortRound(err, r.PeerID()), nil
	}
	if err = r.SendMessage(out, &message3{Q: masterKey.PublicKey()}); err != nil {
		return r, err
	}
	return r.ResultRound(masterKey), nil
}

// MessageContent implements round.Round.
func (r *party2Round2) MessageContent() round.Content {
	return EmptyParty1Message2(r.Group())
}

// Number implements round.Round.
func (party2Round2) Number() round.Number { return 2 }

// party1Round3 waits for Party 2 to confirm the public key before releasing the key of Party 1.
type party1Round3 struct {
	*party1Round2
	masterKey *config.MasterKey1
}

// VerifyMessage implements round.Round.
func (r *party1Round3) VerifyMessage(msg round.Message) error {
	body, ok := msg.Content.(*message3)
	if !ok || body == nil {
		return round.ErrInvalidContent
	}
	if body.Q == nil || !body.Q.Equal(r.masterKey.PublicKey()) {
		return fail(FailurePublicKeyMismatch)
	}
	return nil
}

// StoreMessage implements round.Round.
func (party1Round3) StoreMessage(round.Message) error { return nil }

// Finalize implements round.Round.
func (r *party1Round3) Finalize(chan<- *round.Message) (round.Session, error) {
	return r.ResultRound(r.masterKey), nil
}

// MessageContent implements round.Round.
func (r *party1Round3) MessageContent() round.Content {
	return &message3{Q: r.Group().NewPoint()}
}

// Number implements round.Round.
func (party1Round3) Number() round.Number { return 3 }
