package zkcompdlog

import (
	"testing"

	"github.com/cronokirby/saferith"
	"github.com/fxamacker/cbor/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taurusgroup/two-party-ecdsa/internal/test"
	"github.com/taurusgroup/two-party-ecdsa/pkg/hash"
	"github.com/taurusgroup/two-party-ecdsa/pkg/pedersen"
)

func TestCompositeDLog(t *testing.T) {
	aux, lambda := pedersen.NewSecretFromPrimes(test.SafePrimePair(1))
	public := Public{Aux: aux}

	proof := NewProof(hash.New(), public, Private{X: lambda})
	require.True(t, proof.Verify(hash.New(), public), "failed to verify proof")

	data, err := cbor.Marshal(proof)
	require.NoError(t, err)
	decoded := EmptyProof()
	require.NoError(t, cbor.Unmarshal(data, decoded))
	assert.True(t, decoded.Verify(hash.New(), public), "failed to verify unmarshalled proof")
}

func TestCompositeDLogFail(t *testing.T) {
	aux, lambda := pedersen.NewSecretFromPrimes(test.SafePrimePair(1))
	public := Public{Aux: aux}

	wrong := new(saferith.Nat).Add(lambda, new(saferith.Nat).SetUint64(1), -1)
	proof := NewProof(hash.New(), public, Private{X: wrong})
	assert.False(t, proof.Verify(hash.New(), public), "proof with the wrong witness should fail")

	proof = NewProof(hash.New(), public, Private{X: lambda})
	other, _ := pedersen.NewSecretFromPrimes(test.SafePrimePair(2))
	assert.False(t, proof.Verify(hash.New(), Public{Aux: other}), "proof should be bound to the parameters")

	proof.Y = new(saferith.Nat).Lsh(proof.Y, 200, -1)
	assert.False(t, proof.Verify(hash.New(), public), "oversized response should be rejected")

	var nilProof *Proof
	assert.False(t, nilProof.Verify(hash.New(), public))
}
