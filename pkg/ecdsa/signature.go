package ecdsa

import (
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	btcecdsa "github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"github.com/cronokirby/saferith"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	decredecdsa "github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
	"github.com/taurusgroup/two-party-ecdsa/pkg/math/curve"
)

// CompactSignatureLength is the length of the [header | r | s] encoding.
const CompactSignatureLength = 65

// compactMagic is the offset of the header byte for signatures over a compressed key.
const compactMagic = 27 + 4

var (
	ErrUnsupportedGroup = errors.New("ecdsa: operation only supported on secp256k1")
	ErrInvalidSignature = errors.New("ecdsa: invalid signature")
)

// Signature is an ECDSA signature carrying the full nonce point R = k⋅G,
// so that the recovery id can be derived from it.
type Signature struct {
	R curve.Point
	S curve.Scalar
}

// EmptySignature returns a new signature with a given curve, ready to be unmarshalled.
func EmptySignature(group curve.Curve) Signature {
	return Signature{R: group.NewPoint(), S: group.NewScalar()}
}

// Verify is a custom signature format using curve data.
func (sig Signature) Verify(X curve.Point, hash []byte) bool {
	if sig.R == nil || sig.S == nil || X == nil {
		return false
	}
	if sig.R.IsIdentity() || sig.S.IsZero() || X.IsIdentity() {
		return false
	}
	group := X.Curve()

	r := sig.R.XScalar()
	if r.IsZero() {
		return false
	}

	m := curve.FromHash(group, hash)
	sInv := group.NewScalar().Set(sig.S).Invert()
	mG := m.ActOnBase()
	rX := r.Act(X)
	R2 := mG.Add(rX)
	R2 = sInv.Act(R2)
	return R2.Equal(sig.R)
}

// Normalize replaces s with -s when s is in the upper half of the order,
// and R with -R accordingly. The result verifies for the same key and message.
func (sig *Signature) Normalize() {
	if !sig.S.IsOverHalfOrder() {
		return
	}
	sig.S = sig.R.Curve().NewScalar().Set(sig.S).Negate()
	sig.R = sig.R.Negate()
}

// IsNormalized returns true when s is in the lower half of the order.
func (sig Signature) IsNormalized() bool {
	return !sig.S.IsOverHalfOrder()
}

// RecoveryID returns the 2 bit identifier for R:
// bit 0 is the parity of R.y, bit 1 is set when R.x overflows the group order.
func (sig Signature) RecoveryID() byte {
	var recid byte
	if !sig.R.HasEvenY() {
		recid |= 1
	}

	data, err := sig.R.MarshalBinary()
	if err != nil || len(data) < 2 {
		return recid
	}
	x := new(saferith.Nat).SetBytes(data[1:])
	if _, _, lt := x.CmpMod(sig.R.Curve().Order()); lt != 1 {
		recid |= 2
	}
	return recid
}

// rs returns the 32 byte big endian encodings of r and s.
func (sig Signature) rs() (r, s []byte, err error) {
	if _, ok := sig.S.(*curve.Secp256k1Scalar); !ok {
		return nil, nil, ErrUnsupportedGroup
	}
	r, err = sig.R.XScalar().MarshalBinary()
	if err != nil {
		return nil, nil, err
	}
	s, err = sig.S.MarshalBinary()
	if err != nil {
		return nil, nil, err
	}
	return r, s, nil
}

// SigCompact returns the 65 byte [header | r | s] encoding used for public key recovery,
// where header = 27 + 4 + recovery id.
func (sig Signature) SigCompact() ([]byte, error) {
	r, s, err := sig.rs()
	if err != nil {
		return nil, err
	}
	out := make([]byte, 0, CompactSignatureLength)
	out = append(out, compactMagic+sig.RecoveryID())
	out = append(out, r...)
	out = append(out, s...)
	return out, nil
}

// SigEthereum returns the 65 byte [r | s | v] encoding, with v the recovery id.
func (sig Signature) SigEthereum() ([]byte, error) {
	r, s, err := sig.rs()
	if err != nil {
		return nil, err
	}
	out := make([]byte, 0, CompactSignatureLength)
	out = append(out, r...)
	out = append(out, s...)
	out = append(out, sig.RecoveryID())
	return out, nil
}

// SerializeDER returns the DER encoding of (r, s).
func (sig Signature) SerializeDER() ([]byte, error) {
	r, s, err := sig.rs()
	if err != nil {
		return nil, err
	}
	var rScalar, sScalar secp256k1.ModNScalar
	rScalar.SetByteSlice(r)
	sScalar.SetByteSlice(s)
	return decredecdsa.NewSignature(&rScalar, &sScalar).Serialize(), nil
}

// RecoverPublicKey returns the public key for which the signature verifies on hash.
func (sig Signature) RecoverPublicKey(hash []byte) (curve.Point, error) {
	compact, err := sig.SigCompact()
	if err != nil {
		return nil, err
	}
	pk, _, err := btcecdsa.RecoverCompact(compact, hash)
	if err != nil {
		return nil, fmt.Errorf("ecdsa: recover: %w", err)
	}
	X := curve.Secp256k1{}.NewPoint()
	if err = X.UnmarshalBinary(pk.SerializeCompressed()); err != nil {
		return nil, err
	}
	return X, nil
}

// ParseCompact decodes the encoding produced by SigCompact,
// restoring the full point R from r and the recovery id.
func ParseCompact(data []byte) (*Signature, error) {
	if len(data) != CompactSignatureLength {
		return nil, fmt.Errorf("%w: length %d", ErrInvalidSignature, len(data))
	}
	recid := int(data[0]) - compactMagic
	if recid < 0 || recid > 3 {
		return nil, fmt.Errorf("%w: header byte %d", ErrInvalidSignature, data[0])
	}
	group := curve.Secp256k1{}

	x := new(saferith.Nat).SetBytes(data[1:33])
	if _, _, lt := x.CmpMod(group.Order()); lt != 1 {
		return nil, fmt.Errorf("%w: r out of range", ErrInvalidSignature)
	}
	if recid&2 != 0 {
		x.Add(x, group.Order().Nat(), -1)
		if x.TrueLen() > 256 {
			return nil, fmt.Errorf("%w: r out of range", ErrInvalidSignature)
		}
	}
	encoded := make([]byte, 33)
	encoded[0] = 2 | byte(recid&1)
	x.FillBytes(encoded[1:])

	R := group.NewPoint()
	if err := R.UnmarshalBinary(encoded); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	S := group.NewScalar()
	if err := S.UnmarshalBinary(data[33:]); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	return &Signature{R: R, S: S}, nil
}

// ToBtcec converts a secp256k1 point into a btcec public key.
func ToBtcec(X curve.Point) (*btcec.PublicKey, error) {
	data, err := X.MarshalBinary()
	if err != nil {
		return nil, err
	}
	return btcec.ParsePubKey(data)
}
