package config_test

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taurusgroup/two-party-ecdsa/internal/test"
	"github.com/taurusgroup/two-party-ecdsa/pkg/math/curve"
	"github.com/taurusgroup/two-party-ecdsa/pkg/math/sample"
	"github.com/taurusgroup/two-party-ecdsa/pkg/paillier"
	"github.com/taurusgroup/two-party-ecdsa/protocols/lindell17/config"
)

func generate(t *testing.T) (*config.MasterKey1, *config.MasterKey2) {
	group := curve.Secp256k1{}
	x1, X1 := sample.ScalarPointPair(rand.Reader, group)
	x2, X2 := sample.ScalarPointPair(rand.Reader, group)
	sk := paillier.NewSecretKeyFromPrimes(test.SafePrimePair(0))
	cKey, _ := sk.Enc(curve.MakeInt(x1))

	public := &config.Public{
		Q:              x1.Act(X2),
		X1:             X1,
		X2:             X2,
		Paillier:       sk.PublicKey,
		EncryptedShare: cKey,
	}
	chainCode := []byte{1, 2, 3, 4}
	mk1, err := config.NewMasterKey1(public, config.NewParty1Private(x1, sk), chainCode)
	require.NoError(t, err)
	mk2, err := config.NewMasterKey2(public, config.NewParty2Private(x2), chainCode)
	require.NoError(t, err)
	return mk1, mk2
}

func TestMasterKey_Validate(t *testing.T) {
	mk1, mk2 := generate(t)
	assert.True(t, mk1.PublicKey().Equal(mk2.PublicKey()))
	assert.Equal(t, mk1.ChainCode, mk2.ChainCode)

	group := curve.Secp256k1{}
	wrong := sample.ScalarUnit(rand.Reader, group)
	_, err := config.NewMasterKey2(mk2.Public, config.NewParty2Private(wrong), nil)
	assert.Error(t, err, "a share not matching X2 should be rejected")

	_, err = config.NewMasterKey1(mk1.Public, config.NewParty1Private(wrong, mk1.Private().Paillier()), nil)
	assert.Error(t, err, "a share not matching X1 should be rejected")
}

func TestMasterKey_Marshal(t *testing.T) {
	mk1, mk2 := generate(t)
	group := curve.Secp256k1{}

	data1, err := mk1.MarshalBinary()
	require.NoError(t, err)
	decoded1 := config.EmptyMasterKey1(group)
	require.NoError(t, decoded1.UnmarshalBinary(data1))
	assert.True(t, decoded1.PublicKey().Equal(mk1.PublicKey()))
	assert.True(t, decoded1.Private().Share().Equal(mk1.Private().Share()))
	assert.True(t, decoded1.Public.EncryptedShare.Equal(mk1.Public.EncryptedShare))
	assert.Equal(t, mk1.ChainCode, decoded1.ChainCode)

	data2, err := mk2.MarshalBinary()
	require.NoError(t, err)
	decoded2 := config.EmptyMasterKey2(group)
	require.NoError(t, decoded2.UnmarshalBinary(data2))
	assert.True(t, decoded2.PublicKey().Equal(mk2.PublicKey()))
	assert.True(t, decoded2.Private().Share().Equal(mk2.Private().Share()))
	assert.True(t, decoded2.Public.Paillier.Equal(mk2.Public.Paillier))

	assert.Error(t, (&config.MasterKey2{}).UnmarshalBinary(data2), "unmarshalling requires an empty master key")
}
