package sign

import (
	"sync"

	"github.com/taurusgroup/two-party-ecdsa/pkg/hash"
	"github.com/taurusgroup/two-party-ecdsa/pkg/math/curve"
	zksch "github.com/taurusgroup/two-party-ecdsa/pkg/zk/sch"
)

// nonce holds an ephemeral secret which can be taken out exactly once.
type nonce struct {
	mu sync.Mutex
	k  curve.Scalar
}

// take returns a copy of k and erases the original.
func (n *nonce) take() (curve.Scalar, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.k == nil {
		return nil, ErrEphemeralConsumed
	}
	group := n.k.Curve()
	k := group.NewScalar().Set(n.k)
	n.k.Set(group.NewScalar())
	n.k = nil
	return k, nil
}

// Consumed returns true once the ephemeral was used by a second round.
func (n *nonce) Consumed() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.k == nil
}

// Party1Ephemeral is the nonce k₁ of Party 1 for a single signature.
type Party1Ephemeral struct {
	nonce
	// R1 = k₁⋅G
	R1 curve.Point
}

// Party2Ephemeral is the nonce k₂ of Party 2 for a single signature,
// together with the opening of its commitment.
type Party2Ephemeral struct {
	nonce
	// R2 = k₂⋅G
	R2           curve.Point
	proof        *zksch.Proof
	decommitment hash.Decommitment
}
