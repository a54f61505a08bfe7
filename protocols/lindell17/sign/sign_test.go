package sign

import (
	"errors"
	"testing"

	"github.com/cronokirby/saferith"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taurusgroup/two-party-ecdsa/internal/round"
	"github.com/taurusgroup/two-party-ecdsa/internal/test"
	"github.com/taurusgroup/two-party-ecdsa/pkg/ecdsa"
	"github.com/taurusgroup/two-party-ecdsa/pkg/hash"
	"github.com/taurusgroup/two-party-ecdsa/pkg/math/curve"
	"github.com/taurusgroup/two-party-ecdsa/pkg/pool"
	"github.com/taurusgroup/two-party-ecdsa/protocols/lindell17/config"
	"github.com/taurusgroup/two-party-ecdsa/protocols/lindell17/keygen"
)

var (
	group = curve.Secp256k1{}
	// 1234
	message = []byte{0x04, 0xd2}
)

func generateKeys(t *testing.T) (*config.MasterKey1, *config.MasterKey2) {
	t.Helper()
	pl := pool.NewPool(0)

	p, q := test.SafePrimePair(0)
	auxP, auxQ := test.SafePrimePair(1)
	pre, err := keygen.NewPreParams(p, q, auxP, auxQ)
	require.NoError(t, err)

	msg1, witness, keyPair1, err := keygen.Party1Round1(nil, group)
	require.NoError(t, err)
	msg2, keyPair2, err := keygen.Party2Round1(nil, group)
	require.NoError(t, err)
	msg3, paillierSecret, err := keygen.Party1Round2(nil, witness, keyPair1, msg2, pre, nil, pl)
	require.NoError(t, err)
	paillierPublic, err := keygen.Party2Round2(nil, msg1, msg3, nil, pl)
	require.NoError(t, err)

	mk1, err := keygen.NewMasterKey1(nil, keyPair1, paillierSecret, msg3.EncryptedShare, msg2.X2)
	require.NoError(t, err)
	mk2, err := keygen.NewMasterKey2(nil, keyPair2, msg3.X1, paillierPublic)
	require.NoError(t, err)
	return mk1, mk2
}

type signRun struct {
	h    *hash.Hash
	msg1 *Party2Message1
	eph2 *Party2Ephemeral
	msg2 *Party1Message1
	eph1 *Party1Ephemeral
}

func firstRound(t *testing.T) *signRun {
	t.Helper()
	r := &signRun{h: hash.New(&hash.BytesWithDomain{TheDomain: "test", Bytes: []byte("sign")})}
	var err error
	r.msg1, r.eph2, err = Party2Round1(r.h, group)
	require.NoError(t, err)
	r.msg2, r.eph1, err = Party1Round1(r.h, group)
	require.NoError(t, err)
	return r
}

func requireFailure(t *testing.T, err error, failure Failure) {
	t.Helper()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSign), "error should be a signing error")
	var signErr *Error
	require.True(t, errors.As(err, &signErr))
	assert.Equal(t, failure, signErr.Failure)
}

func TestSign(t *testing.T) {
	mk1, mk2 := generateKeys(t)
	r := firstRound(t)

	msg3, err := Party2Round2(r.h, mk2, r.eph2, r.msg2, message)
	require.NoError(t, err)
	sig, err := Party1Round2(r.h, mk1, r.eph1, r.msg1, msg3, message)
	require.NoError(t, err)

	assert.True(t, sig.Verify(mk1.PublicKey(), message))
	assert.True(t, sig.Verify(mk2.PublicKey(), message))
	assert.True(t, sig.IsNormalized())
	assert.False(t, sig.Verify(mk1.PublicKey(), []byte{0x04, 0xd3}))

	recovered, err := sig.RecoverPublicKey(message)
	require.NoError(t, err)
	assert.True(t, recovered.Equal(mk1.PublicKey()), "recovered key should be Q")
}

func TestSignBlinded(t *testing.T) {
	mk1, mk2 := generateKeys(t)
	r := firstRound(t)

	msg3, b, err := Party2Round2Blinded(r.h, mk2, r.eph2, r.msg2, message)
	require.NoError(t, err)
	require.NotNil(t, b)
	assert.False(t, b.IsZero())

	blinded, err := Party1Round2Blinded(r.h, mk1, r.eph1, r.msg1, msg3)
	require.NoError(t, err)

	blindedSig := &ecdsa.Signature{R: blinded.R, S: blinded.S}
	assert.False(t, blindedSig.Verify(mk1.PublicKey(), message), "blinded signature should not verify")

	sig := blinded.Unblind(b)
	assert.True(t, sig.IsNormalized())
	assert.True(t, sig.Verify(mk1.PublicKey(), message))
	assert.True(t, sig.Verify(mk2.PublicKey(), message))

	one := group.NewScalar().SetNat(new(saferith.Nat).SetUint64(1))
	other := group.NewScalar().Set(b).Add(one)
	assert.False(t, blinded.Unblind(other).Verify(mk1.PublicKey(), message))
}

func TestSignDecommitmentTampered(t *testing.T) {
	mk1, mk2 := generateKeys(t)

	for i := 0; i < 8; i++ {
		r := firstRound(t)
		msg3, err := Party2Round2(r.h, mk2, r.eph2, r.msg2, message)
		require.NoError(t, err)

		msg3.Decommitment[i] ^= 1 << i
		sig, err := Party1Round2(r.h, mk1, r.eph1, r.msg1, msg3, message)
		requireFailure(t, err, FailureDecommitment)
		assert.Nil(t, sig)
		assert.True(t, r.eph1.Consumed(), "ephemeral should not be usable after a failure")
	}
}

func TestSignBadMessages(t *testing.T) {
	mk1, mk2 := generateKeys(t)

	t.Run("nonce proof", func(t *testing.T) {
		r := firstRound(t)
		other, _, err := Party1Round1(hash.New(), group)
		require.NoError(t, err)
		r.msg2.Proof = other.Proof
		_, err = Party2Round2(r.h, mk2, r.eph2, r.msg2, message)
		requireFailure(t, err, FailureDLogProof)
	})

	t.Run("missing nonce", func(t *testing.T) {
		r := firstRound(t)
		_, err := Party2Round2(r.h, mk2, r.eph2, &Party1Message1{}, message)
		requireFailure(t, err, FailureMalformedMessage)
	})

	t.Run("different transcript", func(t *testing.T) {
		r := firstRound(t)
		msg3, err := Party2Round2(r.h, mk2, r.eph2, r.msg2, message)
		require.NoError(t, err)
		_, err = Party1Round2(hash.New(), mk1, r.eph1, r.msg1, msg3, message)
		requireFailure(t, err, FailureDecommitment)
	})

	t.Run("different message", func(t *testing.T) {
		r := firstRound(t)
		msg3, err := Party2Round2(r.h, mk2, r.eph2, r.msg2, []byte("other"))
		require.NoError(t, err)
		_, err = Party1Round2(r.h, mk1, r.eph1, r.msg1, msg3, message)
		requireFailure(t, err, FailureSignature)
	})

	t.Run("invalid ciphertext", func(t *testing.T) {
		r := firstRound(t)
		msg3, err := Party2Round2(r.h, mk2, r.eph2, r.msg2, message)
		require.NoError(t, err)
		msg3.C3 = nil
		_, err = Party1Round2(r.h, mk1, r.eph1, r.msg1, msg3, message)
		requireFailure(t, err, FailureMalformedMessage)
	})
}

func TestEphemeralReuse(t *testing.T) {
	mk1, mk2 := generateKeys(t)
	r := firstRound(t)

	msg3, err := Party2Round2(r.h, mk2, r.eph2, r.msg2, message)
	require.NoError(t, err)
	_, err = Party2Round2(r.h, mk2, r.eph2, r.msg2, message)
	assert.ErrorIs(t, err, ErrEphemeralConsumed)
	_, _, err = Party2Round2Blinded(r.h, mk2, r.eph2, r.msg2, message)
	assert.ErrorIs(t, err, ErrEphemeralConsumed)

	_, err = Party1Round2(r.h, mk1, r.eph1, r.msg1, msg3, message)
	require.NoError(t, err)
	_, err = Party1Round2Blinded(r.h, mk1, r.eph1, r.msg1, msg3)
	assert.ErrorIs(t, err, ErrEphemeralConsumed)
}

func runRounds(t *testing.T, start1 func(*config.MasterKey1) round.Session, start2 func(*config.MasterKey2) round.Session) (any, *ecdsa.Signature) {
	t.Helper()
	mk1, mk2 := generateKeys(t)
	rounds, err := test.Rounds([]round.Session{start1(mk1), start2(mk2)}, nil)
	require.NoError(t, err)

	out1, ok := rounds[0].(*round.Output)
	require.True(t, ok, "party 1 should have finished")
	out2, ok := rounds[1].(*round.Output)
	require.True(t, ok, "party 2 should have finished")

	sig, ok := out2.Result.(*ecdsa.Signature)
	require.True(t, ok)
	assert.True(t, sig.Verify(mk2.PublicKey(), message))
	assert.True(t, sig.IsNormalized())
	return out1.Result, sig
}

func TestSignRounds(t *testing.T) {
	ids := test.PartyIDs()
	sessionID := []byte("sign session")

	result1, sig := runRounds(t,
		func(mk *config.MasterKey1) round.Session {
			r, err := StartParty1(mk, ids[0], ids[1], message, nil)(sessionID)
			require.NoError(t, err)
			return r
		},
		func(mk *config.MasterKey2) round.Session {
			r, err := StartParty2(mk, ids[1], ids[0], message, nil)(sessionID)
			require.NoError(t, err)
			return r
		})

	sig1, ok := result1.(*ecdsa.Signature)
	require.True(t, ok)
	assert.True(t, sig1.R.Equal(sig.R))
	assert.True(t, sig1.S.Equal(sig.S))
}

func TestSignRoundsBlinded(t *testing.T) {
	ids := test.PartyIDs()
	sessionID := []byte("blinded sign session")

	result1, _ := runRounds(t,
		func(mk *config.MasterKey1) round.Session {
			r, err := StartParty1Blinded(mk, ids[0], ids[1], nil)(sessionID)
			require.NoError(t, err)
			return r
		},
		func(mk *config.MasterKey2) round.Session {
			r, err := StartParty2Blinded(mk, ids[1], ids[0], message, nil)(sessionID)
			require.NoError(t, err)
			return r
		})

	_, ok := result1.(*BlindedSignature)
	assert.True(t, ok, "party 1 should only learn the blinded signature")
}

func TestSignBlindedWithoutMessage(t *testing.T) {
	ids := test.PartyIDs()
	mk1, mk2 := generateKeys(t)
	sessionID := []byte("blinded")

	r1, err := StartParty1Blinded(mk1, ids[0], ids[1], nil)(sessionID)
	require.NoError(t, err)
	r2, err := StartParty2Blinded(mk2, ids[1], ids[0], message, nil)(sessionID)
	require.NoError(t, err)
	assert.Equal(t, r1.SSID(), r2.SSID(), "the message must not reach the transcript of Party 1")

	other, err := StartParty2Blinded(mk2, ids[1], ids[0], []byte("another message"), nil)(sessionID)
	require.NoError(t, err)
	assert.Equal(t, r1.SSID(), other.SSID())

	rounds, err := test.Rounds([]round.Session{r1, r2}, nil)
	require.NoError(t, err)
	out2, ok := rounds[1].(*round.Output)
	require.True(t, ok)
	sig := out2.Result.(*ecdsa.Signature)
	assert.True(t, sig.Verify(mk1.PublicKey(), message))

	_, err = StartParty2Blinded(mk2, ids[1], ids[0], nil, nil)(sessionID)
	assert.Error(t, err, "party 2 needs the message")
}

func TestSignRoundsMixedVariants(t *testing.T) {
	ids := test.PartyIDs()
	mk1, mk2 := generateKeys(t)
	sessionID := []byte("mixed")

	r1, err := StartParty1(mk1, ids[0], ids[1], message, nil)(sessionID)
	require.NoError(t, err)
	r2, err := StartParty2Blinded(mk2, ids[1], ids[0], message, nil)(sessionID)
	require.NoError(t, err)
	assert.NotEqual(t, r1.SSID(), r2.SSID())

	_, err = StartParty1(mk1, ids[0], ids[1], nil, nil)(sessionID)
	assert.Error(t, err, "empty messages should be rejected")
}
