package zkpdl

import (
	"crypto/rand"
	"testing"

	"github.com/cronokirby/saferith"
	"github.com/fxamacker/cbor/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taurusgroup/two-party-ecdsa/internal/test"
	"github.com/taurusgroup/two-party-ecdsa/pkg/hash"
	"github.com/taurusgroup/two-party-ecdsa/pkg/math/curve"
	"github.com/taurusgroup/two-party-ecdsa/pkg/math/sample"
	"github.com/taurusgroup/two-party-ecdsa/pkg/paillier"
	"github.com/taurusgroup/two-party-ecdsa/pkg/pedersen"
)

func setup() (curve.Curve, *paillier.SecretKey, *pedersen.Parameters) {
	sk := paillier.NewSecretKeyFromPrimes(test.SafePrimePair(0))
	aux, _ := pedersen.NewSecretFromPrimes(test.SafePrimePair(1))
	return curve.Secp256k1{}, sk, aux
}

func TestPDL(t *testing.T) {
	group, sk, aux := setup()

	x, Q := sample.ScalarPointPair(rand.Reader, group)
	C, r := sk.Enc(curve.MakeInt(x))
	public := Public{C: C, Q: Q, Prover: sk.PublicKey, Aux: aux}

	proof := NewProof(group, hash.New(), public, Private{X: x, R: r})
	require.True(t, proof.Verify(hash.New(), public), "failed to verify proof")

	data, err := cbor.Marshal(proof)
	require.NoError(t, err)
	decoded := EmptyProof(group)
	require.NoError(t, cbor.Unmarshal(data, decoded))
	assert.True(t, decoded.Verify(hash.New(), public), "failed to verify unmarshalled proof")
}

func TestPDLWrongPlaintext(t *testing.T) {
	group, sk, aux := setup()

	x, Q := sample.ScalarPointPair(rand.Reader, group)
	other := sample.ScalarUnit(rand.Reader, group)
	C, r := sk.Enc(curve.MakeInt(other))
	public := Public{C: C, Q: Q, Prover: sk.PublicKey, Aux: aux}

	proof := NewProof(group, hash.New(), public, Private{X: x, R: r})
	assert.False(t, proof.Verify(hash.New(), public), "proof for a ciphertext of another value should fail")
}

func TestPDLTampered(t *testing.T) {
	group, sk, aux := setup()

	x, Q := sample.ScalarPointPair(rand.Reader, group)
	C, r := sk.Enc(curve.MakeInt(x))
	public := Public{C: C, Q: Q, Prover: sk.PublicKey, Aux: aux}

	proof := NewProof(group, hash.New(), public, Private{X: x, R: r})
	assert.False(t, proof.Verify(hash.New(&hash.BytesWithDomain{TheDomain: "other"}), public), "proof should be bound to the hash")

	proof.S1 = new(saferith.Nat).Lsh(proof.S1, 10, -1)
	assert.False(t, proof.Verify(hash.New(), public), "oversized s1 should be rejected")

	var nilProof *Proof
	assert.False(t, nilProof.Verify(hash.New(), public))
}
