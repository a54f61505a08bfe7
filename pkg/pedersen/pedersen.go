package pedersen

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"

	"github.com/cronokirby/saferith"
	"github.com/fxamacker/cbor/v2"
	"github.com/taurusgroup/two-party-ecdsa/internal/params"
	"github.com/taurusgroup/two-party-ecdsa/pkg/math/arith"
	"github.com/taurusgroup/two-party-ecdsa/pkg/math/sample"
)

var (
	ErrNilFields    = errors.New("pedersen: missing parameter")
	ErrSEqualT      = errors.New("pedersen: S and T are equal")
	ErrNotValidModN = errors.New("pedersen: S and T must be units mod Ñ")
)

// Parameters are the ring-Pedersen parameters (Ñ, S, T) with T = Sˡ mod Ñ.
// Commitments SˣTʸ bind whoever knows neither the factors of Ñ nor λ.
// During key generation Party 1 sends its parameters with the PDL proof,
// and shows with a composite discrete log proof that T is generated by S.
type Parameters struct {
	n    *arith.Modulus
	s, t *saferith.Nat
}

// NewSecretFromPrimes builds Ñ = p⋅q from two safe primes and samples S and T.
// The secret λ with T = Sˡ mod Ñ is returned alongside.
func NewSecretFromPrimes(p, q *saferith.Nat) (*Parameters, *saferith.Nat) {
	one := new(saferith.Nat).SetUint64(1)
	phi := new(saferith.Nat).Mul(
		new(saferith.Nat).Sub(p, one, -1),
		new(saferith.Nat).Sub(q, one, -1), -1)

	n := arith.ModulusFromFactors(p, q)
	s, t, lambda := sample.Pedersen(rand.Reader, phi, n.Modulus)
	return &Parameters{n: n, s: s, t: t}, lambda
}

// ValidateParameters checks that S and T are distinct units mod Ñ.
func ValidateParameters(n *saferith.Modulus, s, t *saferith.Nat) error {
	switch {
	case n == nil || s == nil || t == nil:
		return ErrNilFields
	case !arith.IsValidNatModN(n, s, t):
		return ErrNotValidModN
	case s.Eq(t) == 1:
		return ErrSEqualT
	}
	return nil
}

// N returns Ñ.
func (p Parameters) N() *saferith.Modulus { return p.n.Modulus }

// NArith returns Ñ, with its factors when these parameters were generated locally.
func (p Parameters) NArith() *arith.Modulus { return p.n }

func (p Parameters) S() *saferith.Nat { return p.s }

func (p Parameters) T() *saferith.Nat { return p.t }

// Commit returns SˣTʸ mod Ñ.
func (p Parameters) Commit(x, y *saferith.Int) *saferith.Nat {
	c := p.n.ExpI(p.s, x)
	return c.ModMul(c, p.n.ExpI(p.t, y), p.n.Modulus)
}

// Verify checks Sᵃ⋅Tᵇ = C⋅Dᵉ mod Ñ, for the commitments C and D of a sigma protocol.
func (p Parameters) Verify(a, b, e *saferith.Int, C, D *saferith.Nat) bool {
	if a == nil || b == nil || e == nil || C == nil || D == nil {
		return false
	}
	if !arith.IsValidNatModN(p.n.Modulus, C, D) {
		return false
	}
	lhs := p.Commit(a, b)
	rhs := p.n.ExpI(D, e)
	rhs.ModMul(rhs, C, p.n.Modulus)
	return lhs.Eq(rhs) == 1
}

// WriteTo writes Ñ, S and T, each padded to params.BytesIntModN bytes.
func (p *Parameters) WriteTo(w io.Writer) (int64, error) {
	if p == nil {
		return 0, io.ErrUnexpectedEOF
	}
	var total int64
	buf := make([]byte, params.BytesIntModN)
	for _, x := range [3]*saferith.Nat{p.n.Nat(), p.s, p.t} {
		x.FillBytes(buf)
		n, err := w.Write(buf)
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

func (Parameters) Domain() string { return "Pedersen Parameters" }

type parametersWire struct {
	N, S, T []byte
}

func (p *Parameters) MarshalBinary() ([]byte, error) {
	return cbor.Marshal(&parametersWire{N: p.n.Bytes(), S: p.s.Bytes(), T: p.t.Bytes()})
}

// UnmarshalBinary decodes parameters received from a peer and validates them.
func (p *Parameters) UnmarshalBinary(data []byte) error {
	var w parametersWire
	if err := cbor.Unmarshal(data, &w); err != nil {
		return fmt.Errorf("pedersen: %w", err)
	}
	if len(w.N) == 0 {
		return ErrNilFields
	}
	n := saferith.ModulusFromBytes(w.N)
	s := new(saferith.Nat).SetBytes(w.S)
	t := new(saferith.Nat).SetBytes(w.T)
	if err := ValidateParameters(n, s, t); err != nil {
		return err
	}
	*p = Parameters{n: arith.ModulusFromN(n), s: s, t: t}
	return nil
}
