package arith

import (
	"crypto/rand"
	"math/big"
	"testing"

	"github.com/cronokirby/saferith"
	"github.com/stretchr/testify/assert"
)

func samplePrime(t *testing.T, bits int) *saferith.Nat {
	p, err := rand.Prime(rand.Reader, bits)
	if err != nil {
		t.Fatal(err)
	}
	return new(saferith.Nat).SetBig(p, bits)
}

func TestModulus_Exp(t *testing.T) {
	p, q := samplePrime(t, 256), samplePrime(t, 256)
	for p.Eq(q) == 1 {
		q = samplePrime(t, 256)
	}
	nFast := ModulusFromFactors(p, q)
	nSlow := ModulusFromN(saferith.ModulusFromNat(new(saferith.Nat).Mul(p, q, -1)))
	assert.Equal(t, 1, int(nFast.Nat().Eq(nSlow.Nat())), "n moduli should be the same")

	xBig, _ := rand.Int(rand.Reader, nSlow.Big())
	x := new(saferith.Nat).SetBig(xBig, nSlow.BitLen())
	eBig, _ := rand.Int(rand.Reader, new(big.Int).Lsh(big.NewInt(1), 512))
	e := new(saferith.Nat).SetBig(eBig, 512)

	assert.Equal(t, 1, int(nFast.Exp(x, e).Eq(nSlow.Exp(x, e))), "exponentiation with CRT should match")

	eNeg := new(saferith.Int).SetNat(e).Neg(1)
	assert.Equal(t, 1, int(nFast.ExpI(x, eNeg).Eq(nSlow.ExpI(x, eNeg))), "negative exponentiation with CRT should match")
}

func TestIsValidNatModN(t *testing.T) {
	n := saferith.ModulusFromUint64(15)
	assert.True(t, IsValidNatModN(n, new(saferith.Nat).SetUint64(2), new(saferith.Nat).SetUint64(14)))
	assert.False(t, IsValidNatModN(n, new(saferith.Nat).SetUint64(3)))
	assert.False(t, IsValidNatModN(n, new(saferith.Nat).SetUint64(0)))
	assert.False(t, IsValidNatModN(n, new(saferith.Nat).SetUint64(16)))
	assert.False(t, IsValidNatModN(n, nil))
}

func TestIsInIntervalBits(t *testing.T) {
	x := new(saferith.Int).SetUint64(255)
	assert.True(t, IsInIntervalBits(x, 8))
	assert.False(t, IsInIntervalBits(x, 7))
	assert.True(t, IsInIntervalBits(new(saferith.Int).SetUint64(255).Neg(1), 8))
}
