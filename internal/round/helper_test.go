package round_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taurusgroup/two-party-ecdsa/internal/round"
	"github.com/taurusgroup/two-party-ecdsa/pkg/hash"
	"github.com/taurusgroup/two-party-ecdsa/pkg/math/curve"
	"github.com/taurusgroup/two-party-ecdsa/pkg/party"
)

func info(self, peer party.ID) round.Info {
	return round.Info{
		ProtocolID:       "test/session",
		FinalRoundNumber: 2,
		SelfID:           self,
		PeerID:           peer,
		Group:            curve.Secp256k1{},
	}
}

func TestNewSession(t *testing.T) {
	noGroup := info("a", "b")
	noGroup.Group = nil

	tests := []struct {
		name    string
		info    round.Info
		wantErr error
	}{
		{"missing self", info("", "b"), round.ErrMissingParty},
		{"missing peer", info("a", ""), round.ErrMissingParty},
		{"same party", info("a", "a"), round.ErrSameParty},
		{"no group", noGroup, round.ErrNilGroup},
		{"valid", info("a", "b"), nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := round.NewSession(tt.info, nil, nil)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSessionSSID(t *testing.T) {
	a, err := round.NewSession(info("a", "b"), []byte("session"), nil)
	require.NoError(t, err)
	b, err := round.NewSession(info("b", "a"), []byte("session"), nil)
	require.NoError(t, err)
	assert.Equal(t, a.SSID(), b.SSID(), "both parties should derive the same ssid")
	assert.Equal(t, party.ID("b"), a.PeerID())
	assert.Equal(t, party.ID("a"), b.PeerID())

	other, err := round.NewSession(info("a", "b"), []byte("other session"), nil)
	require.NoError(t, err)
	assert.NotEqual(t, a.SSID(), other.SSID(), "ssid should depend on the session id")

	aux, err := round.NewSession(info("a", "b"), []byte("session"), nil,
		&hash.BytesWithDomain{TheDomain: "Signed Message", Bytes: []byte{1}})
	require.NoError(t, err)
	assert.NotEqual(t, a.SSID(), aux.SSID(), "ssid should depend on the auxiliary info")
}

func TestHelperRounds(t *testing.T) {
	h, err := round.NewSession(info("a", "b"), nil, nil)
	require.NoError(t, err)

	out := make(chan *round.Message, 1)
	require.NoError(t, h.SendMessage(out, nil))
	assert.ErrorIs(t, h.SendMessage(out, nil), round.ErrOutChanFull)
	msg := <-out
	assert.Equal(t, party.ID("a"), msg.From)
	assert.Equal(t, party.ID("b"), msg.To)

	abort, ok := h.AbortRound(assert.AnError, h.PeerID()).(*round.Abort)
	require.True(t, ok)
	assert.Equal(t, party.ID("b"), abort.Culprit)
	assert.Equal(t, round.Number(0), abort.Number())

	output, ok := h.ResultRound(42).(*round.Output)
	require.True(t, ok)
	assert.Equal(t, 42, output.Result)
	assert.Equal(t, "terminal", output.Number().String())
	assert.Equal(t, "round 3", round.Number(3).String())
}
