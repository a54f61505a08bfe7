package zkcorrectkey

import (
	"testing"

	"github.com/cronokirby/saferith"
	"github.com/fxamacker/cbor/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taurusgroup/two-party-ecdsa/internal/test"
	"github.com/taurusgroup/two-party-ecdsa/pkg/hash"
	"github.com/taurusgroup/two-party-ecdsa/pkg/paillier"
	"github.com/taurusgroup/two-party-ecdsa/pkg/pool"
)

func TestCorrectKey(t *testing.T) {
	pl := pool.NewPool(0)
	sk := paillier.NewSecretKeyFromPrimes(test.SafePrimePair(0))
	public := Public{N: sk.PublicKey, Salt: DefaultSalt}

	proof := NewProof(hash.New(), public, Private{SecretKey: sk}, pl)
	assert.True(t, proof.Verify(hash.New(), public, pl), "failed to verify proof")
	assert.True(t, proof.Verify(hash.New(), public, nil), "verification should not depend on the pool")

	data, err := cbor.Marshal(proof)
	require.NoError(t, err)
	decoded := EmptyProof()
	require.NoError(t, cbor.Unmarshal(data, decoded))
	assert.True(t, decoded.Verify(hash.New(), public, pl), "failed to verify unmarshalled proof")
}

func TestCorrectKeyWrongSalt(t *testing.T) {
	sk := paillier.NewSecretKeyFromPrimes(test.SafePrimePair(0))
	public := Public{N: sk.PublicKey, Salt: DefaultSalt}
	proof := NewProof(hash.New(), public, Private{SecretKey: sk}, nil)

	other := Public{N: sk.PublicKey, Salt: []byte("another salt")}
	assert.False(t, proof.Verify(hash.New(), other, nil), "proof should be bound to the salt")
}

func TestCorrectKeyTampered(t *testing.T) {
	sk := paillier.NewSecretKeyFromPrimes(test.SafePrimePair(0))
	public := Public{N: sk.PublicKey, Salt: DefaultSalt}
	proof := NewProof(hash.New(), public, Private{SecretKey: sk}, nil)

	proof.Sigma[3] = new(saferith.Nat).SetUint64(2)
	assert.False(t, proof.Verify(hash.New(), public, nil))

	proof.Sigma = proof.Sigma[:5]
	assert.False(t, proof.Verify(hash.New(), public, nil))

	var nilProof *Proof
	assert.False(t, nilProof.Verify(hash.New(), public, nil))
}

func TestCorrectKeyOtherModulus(t *testing.T) {
	sk := paillier.NewSecretKeyFromPrimes(test.SafePrimePair(0))
	other := paillier.NewSecretKeyFromPrimes(test.SafePrimePair(1))
	proof := NewProof(hash.New(), Public{N: sk.PublicKey, Salt: DefaultSalt}, Private{SecretKey: sk}, nil)
	assert.False(t, proof.Verify(hash.New(), Public{N: other.PublicKey, Salt: DefaultSalt}, nil))
}

func TestPrimorial(t *testing.T) {
	p := primorial()
	// 2⋅3⋅5⋅… is divisible by 6367, the largest prime below 6370
	assert.Equal(t, 0, int(p.Coprime(new(saferith.Nat).SetUint64(6367))))
	assert.Equal(t, 1, int(p.Coprime(new(saferith.Nat).SetUint64(6373))))
}
