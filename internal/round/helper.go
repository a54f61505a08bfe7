package round

import (
	"errors"
	"fmt"
	"sync"

	"github.com/taurusgroup/two-party-ecdsa/pkg/hash"
	"github.com/taurusgroup/two-party-ecdsa/pkg/math/curve"
	"github.com/taurusgroup/two-party-ecdsa/pkg/party"
	"github.com/taurusgroup/two-party-ecdsa/pkg/pool"
)

var (
	ErrMissingParty = errors.New("session: self and peer must be non empty")
	ErrSameParty    = errors.New("session: self and peer must differ")
	ErrNilGroup     = errors.New("session: group is nil")
)

// Helper holds what every round of an execution shares.
// Embedding it in the first round, and carrying it through the following ones, gives a Session.
type Helper struct {
	info Info

	// Pool parallelizes the expensive proofs, it may be nil.
	Pool *pool.Pool

	ssid []byte

	mtx  sync.Mutex
	hash *hash.Hash
}

// NewSession derives the transcript of an execution between info.SelfID and info.PeerID.
//
// The transcript absorbs sessionID (optional, but it should be unique per execution),
// the protocol, the group, the sorted pair of parties and every non nil auxInfo.
// Both parties must pass the same values to agree on the SSID.
func NewSession(info Info, sessionID []byte, pl *pool.Pool, auxInfo ...hash.WriterToWithDomain) (*Helper, error) {
	if info.SelfID == "" || info.PeerID == "" {
		return nil, ErrMissingParty
	}
	if info.SelfID == info.PeerID {
		return nil, ErrSameParty
	}
	if info.Group == nil {
		return nil, ErrNilGroup
	}

	h := hash.New()
	header := []hash.WriterToWithDomain{
		&hash.BytesWithDomain{TheDomain: "Protocol ID", Bytes: []byte(info.ProtocolID)},
		&hash.BytesWithDomain{TheDomain: "Group Name", Bytes: []byte(info.Group.Name())},
		party.NewIDSlice([]party.ID{info.SelfID, info.PeerID}),
	}
	if sessionID != nil {
		header = append([]hash.WriterToWithDomain{
			&hash.BytesWithDomain{TheDomain: "Session ID", Bytes: sessionID},
		}, header...)
	}
	for _, a := range append(header, auxInfo...) {
		if a == nil {
			continue
		}
		if err := h.WriteAny(a); err != nil {
			return nil, fmt.Errorf("session: %w", err)
		}
	}

	return &Helper{
		info: info,
		Pool: pl,
		ssid: h.Clone().Sum(),
		hash: h,
	}, nil
}

// SendMessage queues content for the peer on out without blocking.
func (h *Helper) SendMessage(out chan<- *Message, content Content) error {
	select {
	case out <- &Message{From: h.info.SelfID, To: h.info.PeerID, Content: content}:
		return nil
	default:
		return ErrOutChanFull
	}
}

func (h *Helper) Hash() *hash.Hash {
	h.mtx.Lock()
	defer h.mtx.Unlock()
	return h.hash.Clone()
}

// ResultRound ends the execution with result.
func (h *Helper) ResultRound(result any) Session {
	return &Output{Helper: h, Result: result}
}

// AbortRound ends the execution with err. The caller of Finalize still receives a nil error.
func (h *Helper) AbortRound(err error, culprit party.ID) Session {
	return &Abort{Helper: h, Culprit: culprit, Err: err}
}

func (h *Helper) ProtocolID() string       { return h.info.ProtocolID }
func (h *Helper) FinalRoundNumber() Number { return h.info.FinalRoundNumber }
func (h *Helper) SSID() []byte             { return h.ssid }
func (h *Helper) SelfID() party.ID         { return h.info.SelfID }
func (h *Helper) PeerID() party.ID         { return h.info.PeerID }
func (h *Helper) Group() curve.Curve       { return h.info.Group }
