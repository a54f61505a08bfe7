package protocol

import (
	"bytes"
	"errors"
	"fmt"
	"sync"

	"github.com/fxamacker/cbor/v2"
	"github.com/rs/zerolog"
	"github.com/taurusgroup/two-party-ecdsa/internal/round"
)

var (
	ErrNotFinished   = errors.New("protocol: not finished")
	ErrStoppedByUser = errors.New("protocol: aborted by user")
	ErrPeerAborted   = errors.New("protocol: aborted by other party")
)

// TwoPartyHandler runs a round based protocol between exactly two parties.
//
// The leader finalizes its first round as soon as the handler is created, the other party
// waits for the leader's first message. Afterwards, each round consumes exactly one message from the peer.
type TwoPartyHandler struct {
	round    round.Session
	leader   bool
	err      error
	result   any
	done     bool
	messages map[round.Number]*Message
	// received maps each round to the hash of the message accepted for it.
	received map[round.Number][]byte
	out      chan *Message

	log     zerolog.Logger
	metrics *Metrics

	mtx sync.Mutex
}

// Option configures a TwoPartyHandler.
type Option func(*TwoPartyHandler)

// WithLogger sets the logger used to report round transitions and aborts.
// By default, nothing is logged.
func WithLogger(log zerolog.Logger) Option {
	return func(h *TwoPartyHandler) {
		h.log = log
	}
}

// WithMetrics records finalized rounds and finished executions in m.
func WithMetrics(m *Metrics) Option {
	return func(h *TwoPartyHandler) {
		h.metrics = m
	}
}

// NewTwoPartyHandler expects a StartFunc for the desired protocol. It returns a handler that the user can interact with.
func NewTwoPartyHandler(create StartFunc, sessionID []byte, leader bool, opts ...Option) (*TwoPartyHandler, error) {
	r, err := create(sessionID)
	if err != nil {
		return nil, fmt.Errorf("protocol: failed to create round: %w", err)
	}
	handler := &TwoPartyHandler{
		round:    r,
		leader:   leader,
		messages: map[round.Number]*Message{},
		received: map[round.Number][]byte{},
		// one message per round, and a possible abort message
		out: make(chan *Message, int(r.FinalRoundNumber())+1),
		log: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(handler)
	}
	handler.log = handler.log.With().
		Str("protocol", r.ProtocolID()).
		Str("party", string(r.SelfID())).
		Str("peer", string(r.PeerID())).
		Bool("leader", leader).
		Logger()
	handler.log.Debug().Msg("start")

	handler.mtx.Lock()
	defer handler.mtx.Unlock()
	if leader {
		handler.advance()
	}
	return handler, nil
}

// Result returns the protocol result if the protocol completed successfully. Otherwise an error is returned.
func (h *TwoPartyHandler) Result() (any, error) {
	h.mtx.Lock()
	defer h.mtx.Unlock()
	if h.result != nil {
		return h.result, nil
	}
	if h.err != nil {
		return nil, h.err
	}
	return nil, ErrNotFinished
}

// Listen returns a channel with outgoing messages that must be sent to the peer.
// The channel is closed when either the protocol finishes or an error occurs.
func (h *TwoPartyHandler) Listen() <-chan *Message {
	h.mtx.Lock()
	defer h.mtx.Unlock()
	return h.out
}

// Stop aborts the execution of the protocol, and notifies the peer.
// It has no effect once the protocol has finished.
func (h *TwoPartyHandler) Stop() {
	h.mtx.Lock()
	defer h.mtx.Unlock()
	if h.done {
		return
	}
	h.abort(ErrStoppedByUser, true)
}

// Done returns true once the execution has either finished or aborted.
func (h *TwoPartyHandler) Done() bool {
	h.mtx.Lock()
	defer h.mtx.Unlock()
	return h.done
}

// SSID returns the unique identifier of this execution.
func (h *TwoPartyHandler) SSID() []byte {
	return h.round.SSID()
}

func (h *TwoPartyHandler) String() string {
	return fmt.Sprintf("party: %s, protocol: %s", h.round.SelfID(), h.round.ProtocolID())
}

// abort ends the execution with err. When notify is set, the reason is sent to the peer.
func (h *TwoPartyHandler) abort(err error, notify bool) {
	h.err = err
	h.done = true
	if notify {
		select {
		case h.out <- &Message{
			SSID:     h.round.SSID(),
			From:     h.round.SelfID(),
			To:       h.round.PeerID(),
			Protocol: h.round.ProtocolID(),
			Data:     []byte(err.Error()),
		}:
		default:
		}
	}
	close(h.out)

	result := resultAbort
	if errors.Is(err, ErrStoppedByUser) {
		result = resultStopped
	}
	h.metrics.sessionFinished(h.round.ProtocolID(), result)
	h.log.Warn().Err(err).Stringer("round", h.round.Number()).Msg("aborted")
}

func (h *TwoPartyHandler) finish(result any) {
	h.result = result
	h.done = true
	close(h.out)
	h.metrics.sessionFinished(h.round.ProtocolID(), resultSuccess)
	h.log.Debug().Msg("done")
}

func (h *TwoPartyHandler) canAdvance() bool {
	if h.round.MessageContent() == nil {
		return true
	}
	return h.messages[h.round.Number()] != nil
}

func extractRoundMessage(r round.Session, msg *Message) (round.Message, error) {
	content := r.MessageContent()
	if err := cbor.Unmarshal(msg.Data, content); err != nil {
		return round.Message{}, fmt.Errorf("failed to unmarshal message: %w", err)
	}
	roundMsg := round.Message{
		From:    msg.From,
		To:      msg.To,
		Content: content,
	}
	return roundMsg, nil
}

func (h *TwoPartyHandler) verifyMessage(msg *Message) error {
	if msg == nil {
		return nil
	}
	r := h.round
	roundMsg, err := extractRoundMessage(r, msg)
	if err != nil {
		return fmt.Errorf("round %d: %w", r.Number(), err)
	}

	if err = r.VerifyMessage(roundMsg); err != nil {
		return fmt.Errorf("round %d: %w", r.Number(), err)
	}

	if err = r.StoreMessage(roundMsg); err != nil {
		return fmt.Errorf("round %d: %w", r.Number(), err)
	}

	return nil
}

func (h *TwoPartyHandler) advance() {
	for h.canAdvance() {
		current := h.round.Number()
		msg := h.messages[current]
		delete(h.messages, current)
		if err := h.verifyMessage(msg); err != nil {
			h.abort(err, true)
			return
		}

		out := make(chan *round.Message, 1)
		newRound, err := h.round.Finalize(out)
		close(out)
		if err != nil || newRound == nil {
			if err == nil {
				err = fmt.Errorf("round %d: finalize returned no round", current)
			}
			h.abort(err, true)
			return
		}
		h.metrics.roundFinalized(h.round.ProtocolID())

		for roundMsg := range out {
			data, err := cbor.Marshal(roundMsg.Content)
			if err != nil {
				h.abort(fmt.Errorf("round %d: failed to marshal round message: %w", current, err), true)
				return
			}
			h.out <- &Message{
				SSID:        newRound.SSID(),
				From:        newRound.SelfID(),
				To:          roundMsg.To,
				Protocol:    newRound.ProtocolID(),
				RoundNumber: roundMsg.Content.RoundNumber(),
				Data:        data,
			}
		}

		h.round = newRound
		switch R := newRound.(type) {
		// An abort happened
		case *round.Abort:
			if R.Culprit != "" {
				h.log.Warn().Str("culprit", string(R.Culprit)).Msg("rejected peer message")
			}
			h.abort(R.Err, true)
			return
		// We have the result
		case *round.Output:
			h.finish(R.Result)
			return
		default:
		}
		h.log.Debug().Stringer("round", newRound.Number()).Msg("advanced")
	}
}

// CanAccept checks the headers of msg against the current execution.
func (h *TwoPartyHandler) CanAccept(msg *Message) bool {
	h.mtx.Lock()
	defer h.mtx.Unlock()
	return h.canAccept(msg)
}

func (h *TwoPartyHandler) canAccept(msg *Message) bool {
	r := h.round
	if msg == nil {
		return false
	}
	if !msg.IsFor(r.SelfID()) {
		return false
	}
	if msg.From != r.PeerID() {
		return false
	}
	if msg.Protocol != r.ProtocolID() {
		return false
	}
	if !bytes.Equal(msg.SSID, r.SSID()) {
		return false
	}
	if msg.Data == nil {
		return false
	}
	if msg.RoundNumber > r.FinalRoundNumber() {
		return false
	}
	return true
}

// Accept delivers a message from the peer, and advances the protocol as far as possible.
// Messages which cannot be accepted, or which arrive after the execution finished, are ignored.
func (h *TwoPartyHandler) Accept(msg *Message) {
	h.mtx.Lock()
	defer h.mtx.Unlock()

	if h.done || !h.canAccept(msg) {
		return
	}

	if msg.IsAbort() {
		h.abort(fmt.Errorf("%w: %q", ErrPeerAborted, msg.Data), false)
		return
	}

	digest := msg.Hash()
	if accepted, ok := h.received[msg.RoundNumber]; ok {
		if bytes.Equal(accepted, digest) {
			h.log.Debug().Hex("hash", digest).Object("message", msg).Msg("dropped replayed message")
		} else {
			h.log.Warn().Hex("hash", digest).Object("message", msg).Msg("dropped conflicting message")
		}
		return
	}
	if msg.RoundNumber < h.round.Number() {
		h.log.Debug().Hex("hash", digest).Object("message", msg).Msg("dropped message for a finalized round")
		return
	}

	h.received[msg.RoundNumber] = digest
	h.messages[msg.RoundNumber] = msg

	h.advance()
}
