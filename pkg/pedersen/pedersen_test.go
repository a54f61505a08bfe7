package pedersen_test

import (
	"testing"

	"github.com/cronokirby/saferith"
	"github.com/fxamacker/cbor/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taurusgroup/two-party-ecdsa/internal/test"
	"github.com/taurusgroup/two-party-ecdsa/pkg/pedersen"
)

func TestPedersen(t *testing.T) {
	ped, lambda := pedersen.NewSecretFromPrimes(test.SafePrimePair(1))
	require.NoError(t, pedersen.ValidateParameters(ped.N(), ped.S(), ped.T()))

	// T = Sˡ
	assert.Equal(t, 1, int(new(saferith.Nat).Exp(ped.S(), lambda, ped.N()).Eq(ped.T())))

	x := new(saferith.Int).SetUint64(1234)
	y := new(saferith.Int).SetUint64(5678)
	alpha := new(saferith.Int).SetUint64(42)
	gamma := new(saferith.Int).SetUint64(4242)
	e := new(saferith.Int).SetUint64(7)

	z := ped.Commit(x, y)
	u := ped.Commit(alpha, gamma)

	// a = α + e⋅x, b = γ + e⋅y
	a := new(saferith.Int).Mul(e, x, -1)
	a.Add(a, alpha, -1)
	b := new(saferith.Int).Mul(e, y, -1)
	b.Add(b, gamma, -1)

	assert.True(t, ped.Verify(a, b, e, u, z))
	assert.False(t, ped.Verify(a, b, e, z, u))
	assert.False(t, ped.Verify(nil, b, e, u, z))
}

func TestMarshal(t *testing.T) {
	ped, _ := pedersen.NewSecretFromPrimes(test.SafePrimePair(1))
	data, err := cbor.Marshal(ped)
	require.NoError(t, err)

	decoded := new(pedersen.Parameters)
	require.NoError(t, cbor.Unmarshal(data, decoded))
	assert.Equal(t, 1, int(decoded.N().Nat().Eq(ped.N().Nat())))
	assert.Equal(t, 1, int(decoded.S().Eq(ped.S())))
	assert.Equal(t, 1, int(decoded.T().Eq(ped.T())))
}

func TestValidateParameters(t *testing.T) {
	ped, _ := pedersen.NewSecretFromPrimes(test.SafePrimePair(1))
	assert.ErrorIs(t, pedersen.ValidateParameters(ped.N(), ped.S(), ped.S()), pedersen.ErrSEqualT)
	assert.ErrorIs(t, pedersen.ValidateParameters(ped.N(), nil, ped.T()), pedersen.ErrNilFields)
	assert.ErrorIs(t, pedersen.ValidateParameters(ped.N(), new(saferith.Nat), ped.T()), pedersen.ErrNotValidModN)
}
