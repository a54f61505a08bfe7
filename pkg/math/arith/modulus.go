package arith

import "github.com/cronokirby/saferith"

// Modulus is n, and optionally its factorization n = p⋅q.
// When the factors are known, exponentiations are split over p and q and recombined with the CRT.
type Modulus struct {
	*saferith.Modulus
	crt *crt
}

type crt struct {
	p, q *saferith.Modulus
	pNat *saferith.Nat
	// pInv = p⁻¹ mod q
	pInv *saferith.Nat
}

// ModulusFromN wraps n without copying it.
func ModulusFromN(n *saferith.Modulus) *Modulus {
	return &Modulus{Modulus: n}
}

// ModulusFromFactors returns n = p⋅q, keeping p and q for faster exponentiation.
func ModulusFromFactors(p, q *saferith.Nat) *Modulus {
	qMod := saferith.ModulusFromNat(q)
	return &Modulus{
		Modulus: saferith.ModulusFromNat(new(saferith.Nat).Mul(p, q, -1)),
		crt: &crt{
			p:    saferith.ModulusFromNat(p),
			q:    qMod,
			pNat: new(saferith.Nat).SetNat(p),
			pInv: new(saferith.Nat).ModInverse(p, qMod),
		},
	}
}

// Exp returns xᵉ mod n.
func (n *Modulus) Exp(x, e *saferith.Nat) *saferith.Nat {
	if n.crt == nil {
		return new(saferith.Nat).Exp(x, e, n.Modulus)
	}
	c := n.crt
	var xp, xq saferith.Nat
	xp.Exp(x, e, c.p)
	xq.Exp(x, e, c.q)
	// xp + p⋅[p⁻¹ mod q]⋅(xq - xp) mod n
	r := new(saferith.Nat).ModSub(&xq, &xp, n.Modulus)
	r.ModMul(r, c.pInv, n.Modulus)
	r.ModMul(r, c.pNat, n.Modulus)
	return r.ModAdd(r, &xp, n.Modulus)
}

// ExpI returns xᵉ mod n for a signed exponent. x must be invertible when e < 0.
func (n *Modulus) ExpI(x *saferith.Nat, e *saferith.Int) *saferith.Nat {
	if n.crt == nil {
		return new(saferith.Nat).ExpI(x, e, n.Modulus)
	}
	y := n.Exp(x, e.Abs())
	inverse := new(saferith.Nat).ModInverse(y, n.Modulus)
	return y.CondAssign(e.IsNegative(), inverse)
}
