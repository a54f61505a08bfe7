package keygen

import (
	"crypto/rand"
	"errors"
	"testing"

	"github.com/cronokirby/saferith"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taurusgroup/two-party-ecdsa/internal/round"
	"github.com/taurusgroup/two-party-ecdsa/internal/test"
	"github.com/taurusgroup/two-party-ecdsa/pkg/hash"
	"github.com/taurusgroup/two-party-ecdsa/pkg/math/curve"
	"github.com/taurusgroup/two-party-ecdsa/pkg/math/sample"
	"github.com/taurusgroup/two-party-ecdsa/pkg/party"
	"github.com/taurusgroup/two-party-ecdsa/pkg/pool"
	"github.com/taurusgroup/two-party-ecdsa/protocols/lindell17/config"
)

var group = curve.Secp256k1{}

func testPreParams(t *testing.T) *PreParams {
	p, q := test.SafePrimePair(0)
	auxP, auxQ := test.SafePrimePair(1)
	pre, err := NewPreParams(p, q, auxP, auxQ)
	require.NoError(t, err)
	return pre
}

type run struct {
	h        *hash.Hash
	msg1     *Party1Message1
	witness  *Party1Witness
	keyPair1 *KeyPair
	msg2     *Party2Message1
	keyPair2 *KeyPair
}

func firstRound(t *testing.T, x2 curve.Scalar) *run {
	r := &run{h: hash.New(&hash.BytesWithDomain{TheDomain: "test", Bytes: []byte("keygen")})}
	var err error
	r.msg1, r.witness, r.keyPair1, err = Party1Round1(r.h, group)
	require.NoError(t, err)
	if x2 == nil {
		r.msg2, r.keyPair2, err = Party2Round1(r.h, group)
	} else {
		r.msg2, r.keyPair2, err = Party2Round1FromSecret(r.h, x2)
	}
	require.NoError(t, err)
	return r
}

func requireFailure(t *testing.T, err error, failure Failure) {
	t.Helper()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrKeyGen), "error should be a key generation error")
	var kgErr *Error
	require.True(t, errors.As(err, &kgErr))
	assert.Equal(t, failure, kgErr.Failure)
}

func TestKeyGen(t *testing.T) {
	pl := pool.NewPool(0)
	chainCode := []byte("chain code")
	r := firstRound(t, nil)

	msg3, paillierSecret, err := Party1Round2(r.h, r.witness, r.keyPair1, r.msg2, testPreParams(t), nil, pl)
	require.NoError(t, err)

	paillierPublic, err := Party2Round2(r.h, r.msg1, msg3, nil, pl)
	require.NoError(t, err)

	mk1, err := NewMasterKey1(chainCode, r.keyPair1, paillierSecret, msg3.EncryptedShare, r.msg2.X2)
	require.NoError(t, err)
	mk2, err := NewMasterKey2(chainCode, r.keyPair2, msg3.X1, paillierPublic)
	require.NoError(t, err)

	assert.True(t, mk1.PublicKey().Equal(mk2.PublicKey()), "parties computed different public keys")
	assert.Equal(t, chainCode, mk1.ChainCode)
	assert.Equal(t, chainCode, mk2.ChainCode)

	x1 := mk1.Private().Share()
	x2 := mk2.Private().Share()
	Q := group.NewScalar().Set(x1).Mul(x2).ActOnBase()
	assert.True(t, Q.Equal(mk1.PublicKey()), "Q should be x₁x₂⋅G")

	decrypted, err := mk1.Private().Paillier().Dec(mk2.Public.EncryptedShare)
	require.NoError(t, err)
	assert.True(t, group.NewScalar().SetNat(decrypted.Mod(group.Order())).Equal(x1), "encrypted share should decrypt to x₁")
}

func TestKeyGenRestore(t *testing.T) {
	pl := pool.NewPool(0)
	x2 := sample.ScalarUnit(rand.Reader, group)
	r := firstRound(t, x2)

	msg3, _, err := Party1Round2(r.h, r.witness, r.keyPair1, r.msg2, testPreParams(t), nil, pl)
	require.NoError(t, err)
	paillierPublic, err := Party2Round2(r.h, r.msg1, msg3, nil, pl)
	require.NoError(t, err)
	mk2, err := NewMasterKey2(nil, r.keyPair2, msg3.X1, paillierPublic)
	require.NoError(t, err)

	assert.True(t, mk2.Private().Share().Equal(x2), "restored share should be the fixed scalar")

	_, _, err = Party2Round1FromSecret(r.h, group.NewScalar())
	assert.Error(t, err, "zero share should be rejected")
}

func TestKeyGenBadDLogProof(t *testing.T) {
	pl := pool.NewPool(0)
	r := firstRound(t, nil)

	// proof generated for another transcript
	other, _, err := Party2Round1(hash.New(), group)
	require.NoError(t, err)
	r.msg2.Proof = other.Proof

	msg3, sk, err := Party1Round2(r.h, r.witness, r.keyPair1, r.msg2, testPreParams(t), nil, pl)
	requireFailure(t, err, FailureDLogProof)
	assert.Nil(t, msg3)
	assert.Nil(t, sk)

	_, _, err = Party1Round2(r.h, r.witness, r.keyPair1, &Party2Message1{}, testPreParams(t), nil, pl)
	requireFailure(t, err, FailureMalformedMessage)
}

func TestKeyGenBadMessages(t *testing.T) {
	pl := pool.NewPool(0)

	tests := []struct {
		name    string
		modify  func(msg1 *Party1Message1, msg3 *Party1Message2)
		failure Failure
	}{
		{
			"decommitment",
			func(_ *Party1Message1, msg3 *Party1Message2) {
				msg3.Decommitment[0] ^= 1
			},
			FailureDecommitment,
		},
		{
			"commitment",
			func(msg1 *Party1Message1, _ *Party1Message2) {
				msg1.Commitment[3] ^= 0x80
			},
			FailureDecommitment,
		},
		{
			"correct key proof",
			func(_ *Party1Message1, msg3 *Party1Message2) {
				msg3.CorrectKeyProof.Sigma[0] = new(saferith.Nat).SetUint64(2)
			},
			FailureCorrectKeyProof,
		},
		{
			"composite dlog proof",
			func(_ *Party1Message1, msg3 *Party1Message2) {
				msg3.CompositeDLogProof.Y = new(saferith.Nat).Add(msg3.CompositeDLogProof.Y, new(saferith.Nat).SetUint64(1), -1)
			},
			FailureCompositeDLogProof,
		},
		{
			"pdl proof",
			func(_ *Party1Message1, msg3 *Party1Message2) {
				msg3.PDLProof.S3 = new(saferith.Nat).Add(msg3.PDLProof.S3, new(saferith.Nat).SetUint64(1), -1)
			},
			FailurePDLProof,
		},
		{
			"missing proof",
			func(_ *Party1Message1, msg3 *Party1Message2) {
				msg3.PDLProof = nil
			},
			FailureMalformedMessage,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := firstRound(t, nil)
			msg3, _, err := Party1Round2(r.h, r.witness, r.keyPair1, r.msg2, testPreParams(t), nil, pl)
			require.NoError(t, err)

			tt.modify(r.msg1, msg3)
			paillierPublic, err := Party2Round2(r.h, r.msg1, msg3, nil, pl)
			requireFailure(t, err, tt.failure)
			assert.Nil(t, paillierPublic)
		})
	}
}

func TestKeyGenWrongSalt(t *testing.T) {
	pl := pool.NewPool(0)
	r := firstRound(t, nil)

	msg3, _, err := Party1Round2(r.h, r.witness, r.keyPair1, r.msg2, testPreParams(t), []byte("salt"), pl)
	require.NoError(t, err)

	_, err = Party2Round2(r.h, r.msg1, msg3, []byte("other salt"), pl)
	requireFailure(t, err, FailureCorrectKeyProof)

	_, err = Party2Round2(r.h, r.msg1, msg3, []byte("salt"), pl)
	assert.NoError(t, err)
}

func startRounds(t *testing.T, x2 curve.Scalar) []round.Session {
	ids := test.PartyIDs()
	sessionID := []byte("keygen session")
	pl := pool.NewPool(0)

	r1, err := StartParty1(group, ids[0], ids[1], nil, testPreParams(t), pl)(sessionID)
	require.NoError(t, err)
	r2, err := StartParty2(group, ids[1], ids[0], nil, x2, pl)(sessionID)
	require.NoError(t, err)
	return []round.Session{r1, r2}
}

func TestKeyGenRounds(t *testing.T) {
	x2 := sample.ScalarUnit(rand.Reader, group)
	rounds, err := test.Rounds(startRounds(t, x2), nil)
	require.NoError(t, err)

	out1, ok := rounds[0].(*round.Output)
	require.True(t, ok, "party 1 should have finished")
	out2, ok := rounds[1].(*round.Output)
	require.True(t, ok, "party 2 should have finished")

	mk1, ok := out1.Result.(*config.MasterKey1)
	require.True(t, ok)
	mk2, ok := out2.Result.(*config.MasterKey2)
	require.True(t, ok)
	assert.True(t, mk1.PublicKey().Equal(mk2.PublicKey()))
	assert.True(t, mk2.Private().Share().Equal(x2))
}

type corruptCorrectKey struct{}

func (corruptCorrectKey) ModifyBefore(round.Session) {}
func (corruptCorrectKey) ModifyAfter(round.Session)  {}
func (corruptCorrectKey) ModifyContent(_ round.Session, _ party.ID, content round.Content) {
	if msg, ok := content.(*Party1Message2); ok {
		msg.CorrectKeyProof.Sigma[1] = new(saferith.Nat).SetUint64(3)
	}
}

func TestKeyGenRoundsAbort(t *testing.T) {
	rounds, err := test.Rounds(startRounds(t, nil), corruptCorrectKey{})
	requireFailure(t, err, FailureCorrectKeyProof)

	for _, r := range rounds {
		_, isOutput := r.(*round.Output)
		assert.False(t, isOutput, "no party should output a key")
	}
}

func TestPreParamsSingleUse(t *testing.T) {
	pl := pool.NewPool(0)
	pre := testPreParams(t)

	// a rejected peer message leaves pre unused
	r := firstRound(t, nil)
	_, _, err := Party1Round2(r.h, r.witness, r.keyPair1, &Party2Message1{}, pre, nil, pl)
	requireFailure(t, err, FailureMalformedMessage)
	require.NoError(t, pre.Validate())

	msg3, _, err := Party1Round2(r.h, r.witness, r.keyPair1, r.msg2, pre, nil, pl)
	require.NoError(t, err)
	require.NotNil(t, msg3)

	assert.ErrorIs(t, pre.Validate(), ErrPreParamsConsumed)
	r = firstRound(t, nil)
	msg3, sk, err := Party1Round2(r.h, r.witness, r.keyPair1, r.msg2, pre, nil, pl)
	assert.ErrorIs(t, err, ErrPreParamsConsumed)
	assert.Nil(t, msg3)
	assert.Nil(t, sk)

	ids := test.PartyIDs()
	_, err = StartParty1(group, ids[0], ids[1], nil, pre, pl)([]byte("reused"))
	assert.ErrorIs(t, err, ErrPreParamsConsumed)
}
