package curve

import "github.com/cronokirby/saferith"

// MakeNat returns s as a natural number in [0, q).
func MakeNat(s Scalar) *saferith.Nat {
	data, err := s.MarshalBinary()
	if err != nil {
		panic(err)
	}
	return new(saferith.Nat).SetBytes(data)
}

// MakeInt returns s as a non negative integer in [0, q).
func MakeInt(s Scalar) *saferith.Int {
	return new(saferith.Int).SetNat(MakeNat(s))
}

// FromHash maps a message digest to a scalar the way ECDSA does (SEC 1, 4.1.3):
// the digest is cut to the byte length of q, then shifted right to its bit length.
// The result is reduced mod q.
func FromHash(group Curve, digest []byte) Scalar {
	bits := group.Order().BitLen()
	if maxBytes := (bits + 7) / 8; len(digest) > maxBytes {
		digest = digest[:maxBytes]
	}
	m := new(saferith.Nat).SetBytes(digest)
	if excess := 8*len(digest) - bits; excess > 0 {
		m.Rsh(m, uint(excess), -1)
	}
	return group.NewScalar().SetNat(m)
}
