package zksch

import (
	"crypto/rand"
	"io"

	"github.com/taurusgroup/two-party-ecdsa/pkg/hash"
	"github.com/taurusgroup/two-party-ecdsa/pkg/math/curve"
	"github.com/taurusgroup/two-party-ecdsa/pkg/math/sample"
)

// Proof is a Schnorr proof of knowledge of x such that X = x⋅G.
type Proof struct {
	// C = a⋅G
	C curve.Point
	// Z = a + e⋅x
	Z curve.Scalar
}

// EmptyProof returns a proof ready to be unmarshalled for the given group.
func EmptyProof(group curve.Curve) *Proof {
	return &Proof{
		C: group.NewPoint(),
		Z: group.NewScalar(),
	}
}

func challenge(hash *hash.Hash, group curve.Curve, commitment, public curve.Point) (e curve.Scalar, err error) {
	err = hash.WriteAny(commitment, public, group.NewBasePoint())
	e = sample.Scalar(hash.Digest(), group)
	return
}

// NewProof generates a Schnorr proof of knowledge of private for public = private⋅G.
func NewProof(hash *hash.Hash, public curve.Point, private curve.Scalar) *Proof {
	group := private.Curve()

	a := sample.Scalar(rand.Reader, group)
	C := a.ActOnBase()

	e, err := challenge(hash, group, C, public)
	if err != nil {
		return nil
	}

	// z = a + e⋅x
	z := group.NewScalar().Set(e).Mul(private).Add(a)
	return &Proof{
		C: C,
		Z: z,
	}
}

// IsValid checks that all fields are set, and that the public values are not trivial.
func (p *Proof) IsValid() bool {
	if p == nil || p.C == nil || p.Z == nil {
		return false
	}
	if p.C.IsIdentity() || p.Z.IsZero() {
		return false
	}
	return true
}

// Verify checks that z⋅G = C + e⋅X, where e is derived from the hash.
func (p *Proof) Verify(hash *hash.Hash, public curve.Point) bool {
	if !p.IsValid() || public == nil || public.IsIdentity() {
		return false
	}
	group := public.Curve()

	e, err := challenge(hash, group, p.C, public)
	if err != nil {
		return false
	}

	lhs := p.Z.ActOnBase()
	rhs := e.Act(public).Add(p.C)
	return lhs.Equal(rhs)
}

// WriteTo implements io.WriterTo and should be used within the hash.Hash function.
func (p *Proof) WriteTo(w io.Writer) (int64, error) {
	if !p.IsValid() {
		return 0, io.ErrUnexpectedEOF
	}
	total := int64(0)
	for _, v := range []interface{ MarshalBinary() ([]byte, error) }{p.C, p.Z} {
		data, err := v.MarshalBinary()
		if err != nil {
			return total, err
		}
		n, err := w.Write(data)
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// Domain implements hash.WriterToWithDomain, and separates this type within hash.Hash.
func (*Proof) Domain() string {
	return "Schnorr Proof"
}
