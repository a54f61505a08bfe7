package config

import (
	"errors"

	"github.com/taurusgroup/two-party-ecdsa/pkg/math/curve"
	"github.com/taurusgroup/two-party-ecdsa/pkg/paillier"
)

// Public is the key material both parties agree on at the end of key generation.
type Public struct {
	// Q = x₁⋅X₂ = x₂⋅X₁ is the ECDSA public key.
	Q curve.Point
	// X1 = x₁⋅G is the public share of Party 1.
	X1 curve.Point
	// X2 = x₂⋅G is the public share of Party 2.
	X2 curve.Point
	// Paillier is Party 1's Paillier public key.
	Paillier *paillier.PublicKey
	// EncryptedShare = Enc(x₁) under Paillier.
	EncryptedShare *paillier.Ciphertext
}

// Group returns the elliptic curve group associated with this key.
func (p *Public) Group() curve.Curve {
	return p.Q.Curve()
}

// Validate checks that all fields are set, and that Q is not the identity.
func (p *Public) Validate() error {
	if p == nil || p.Q == nil || p.X1 == nil || p.X2 == nil || p.Paillier == nil || p.EncryptedShare == nil {
		return errors.New("config: public key material has nil fields")
	}
	if p.Q.IsIdentity() || p.X1.IsIdentity() || p.X2.IsIdentity() {
		return errors.New("config: public key material contains the identity")
	}
	if err := paillier.ValidateN(p.Paillier.N()); err != nil {
		return err
	}
	if !p.Paillier.ValidateCiphertexts(p.EncryptedShare) {
		return errors.New("config: invalid encrypted share")
	}
	return nil
}

// Party1Private holds the secrets of Party 1.
type Party1Private struct {
	x1       curve.Scalar
	paillier *paillier.SecretKey
}

// NewParty1Private wraps the secret share x₁ and the Paillier secret key of Party 1.
func NewParty1Private(x1 curve.Scalar, sk *paillier.SecretKey) *Party1Private {
	return &Party1Private{x1: x1, paillier: sk}
}

// Share returns x₁.
func (p *Party1Private) Share() curve.Scalar { return p.x1 }

// Paillier returns the Paillier secret key used to decrypt partial signatures.
func (p *Party1Private) Paillier() *paillier.SecretKey { return p.paillier }

// Party2Private holds the secret of Party 2.
type Party2Private struct {
	x2 curve.Scalar
}

// NewParty2Private wraps the secret share x₂ of Party 2.
func NewParty2Private(x2 curve.Scalar) *Party2Private {
	return &Party2Private{x2: x2}
}

// Share returns x₂.
func (p *Party2Private) Share() curve.Scalar { return p.x2 }

// MasterKey1 is the result of key generation for Party 1.
// It is never modified after creation, and can be used by concurrent signing sessions.
type MasterKey1 struct {
	Public    *Public
	private   *Party1Private
	ChainCode []byte
}

// MasterKey2 is the result of key generation for Party 2.
// It is never modified after creation, and can be used by concurrent signing sessions.
type MasterKey2 struct {
	Public    *Public
	private   *Party2Private
	ChainCode []byte
}

// NewMasterKey1 checks that the secrets of Party 1 are consistent with the public data.
func NewMasterKey1(public *Public, private *Party1Private, chainCode []byte) (*MasterKey1, error) {
	mk := &MasterKey1{Public: public, private: private, ChainCode: copyBytes(chainCode)}
	if err := mk.Validate(); err != nil {
		return nil, err
	}
	return mk, nil
}

// NewMasterKey2 checks that the secret of Party 2 is consistent with the public data.
func NewMasterKey2(public *Public, private *Party2Private, chainCode []byte) (*MasterKey2, error) {
	mk := &MasterKey2{Public: public, private: private, ChainCode: copyBytes(chainCode)}
	if err := mk.Validate(); err != nil {
		return nil, err
	}
	return mk, nil
}

// Private returns the secrets of Party 1. They must never leave the process of Party 1.
func (mk *MasterKey1) Private() *Party1Private { return mk.private }

// Private returns the secret of Party 2. It must never leave the process of Party 2.
func (mk *MasterKey2) Private() *Party2Private { return mk.private }

// Group returns the elliptic curve group associated with this key.
func (mk *MasterKey1) Group() curve.Curve { return mk.Public.Group() }

// Group returns the elliptic curve group associated with this key.
func (mk *MasterKey2) Group() curve.Curve { return mk.Public.Group() }

// PublicKey returns the ECDSA public key Q.
func (mk *MasterKey1) PublicKey() curve.Point { return mk.Public.Q }

// PublicKey returns the ECDSA public key Q.
func (mk *MasterKey2) PublicKey() curve.Point { return mk.Public.Q }

// Validate checks that x₁ matches X1, that Q = x₁⋅X2, and that the Paillier secret key matches the public key.
func (mk *MasterKey1) Validate() error {
	if err := mk.Public.Validate(); err != nil {
		return err
	}
	if mk.private == nil || mk.private.x1 == nil || mk.private.paillier == nil {
		return errors.New("config: missing secret of party 1")
	}
	x1 := mk.private.x1
	if x1.IsZero() || !x1.ActOnBase().Equal(mk.Public.X1) {
		return errors.New("config: secret share does not match X1")
	}
	if !x1.Act(mk.Public.X2).Equal(mk.Public.Q) {
		return errors.New("config: Q ≠ x₁⋅X₂")
	}
	if !mk.private.paillier.PublicKey.Equal(mk.Public.Paillier) {
		return errors.New("config: Paillier secret key does not match public key")
	}
	return nil
}

// Validate checks that x₂ matches X2, and that Q = x₂⋅X1.
func (mk *MasterKey2) Validate() error {
	if err := mk.Public.Validate(); err != nil {
		return err
	}
	if mk.private == nil || mk.private.x2 == nil {
		return errors.New("config: missing secret of party 2")
	}
	x2 := mk.private.x2
	if x2.IsZero() || !x2.ActOnBase().Equal(mk.Public.X2) {
		return errors.New("config: secret share does not match X2")
	}
	if !x2.Act(mk.Public.X1).Equal(mk.Public.Q) {
		return errors.New("config: Q ≠ x₂⋅X₁")
	}
	return nil
}

func copyBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
