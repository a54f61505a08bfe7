package curve

import (
	"encoding"

	"github.com/cronokirby/saferith"
)

// Curve is a prime order elliptic curve group. Only secp256k1 is implemented.
type Curve interface {
	Name() string
	Order() *saferith.Modulus
	// ScalarBits is the bit length of the order.
	ScalarBits() int
	// SafeScalarBytes is the number of random bytes needed to sample a scalar with negligible bias.
	SafeScalarBytes() int
	NewScalar() Scalar
	// NewPoint returns the identity.
	NewPoint() Point
	NewBasePoint() Point
}

// Scalar is an element of ℤ_q, with q the order of its Curve.
// Arithmetic methods write the result into the receiver and return it.
type Scalar interface {
	encoding.BinaryMarshaler
	encoding.BinaryUnmarshaler

	Curve() Curve
	Set(Scalar) Scalar
	SetNat(*saferith.Nat) Scalar

	Add(Scalar) Scalar
	Sub(Scalar) Scalar
	Mul(Scalar) Scalar
	Negate() Scalar
	Invert() Scalar

	Equal(Scalar) bool
	IsZero() bool
	// IsOverHalfOrder reports whether the scalar is larger than (q-1)/2.
	IsOverHalfOrder() bool

	// Act returns s⋅P.
	Act(Point) Point
	// ActOnBase returns s⋅G.
	ActOnBase() Point
}

// Point is an element of a Curve.
// Unlike scalars, points are never modified by their own methods.
type Point interface {
	encoding.BinaryMarshaler
	encoding.BinaryUnmarshaler

	Curve() Curve
	Set(Point) Point

	Add(Point) Point
	Sub(Point) Point
	Negate() Point

	Equal(Point) bool
	IsIdentity() bool
	// XScalar returns the affine x coordinate reduced mod q, the r of an ECDSA signature.
	XScalar() Scalar
	HasEvenY() bool
}
