package protocol

import (
	"encoding/hex"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog"
)

var (
	ErrDuplicateSession = errors.New("protocol: session already registered")
	ErrUnknownSession   = errors.New("protocol: unknown session")
)

// DefaultOutcomeCacheSize is the number of finished executions a Registry remembers by default.
const DefaultOutcomeCacheSize = 1024

// NewSessionID returns a fresh random session identifier.
//
// One of the parties generates it, and sends it to the other before both create their handlers.
func NewSessionID() []byte {
	id := uuid.New()
	return id[:]
}

// Outcome is the final state of an execution.
type Outcome struct {
	Result any
	Err    error
}

// Registry routes incoming messages to the live executions of a party, keyed by SSID.
// Once an execution is done, its outcome is moved into a bounded cache.
type Registry struct {
	mtx      sync.Mutex
	live     map[string]*TwoPartyHandler
	outcomes *lru.Cache[string, Outcome]
	opts     []Option
	log      zerolog.Logger
}

// NewRegistry creates a Registry remembering up to size finished executions.
// The options are applied to every handler started through the Registry.
func NewRegistry(size int, log zerolog.Logger, opts ...Option) (*Registry, error) {
	outcomes, err := lru.New[string, Outcome](size)
	if err != nil {
		return nil, fmt.Errorf("protocol: %w", err)
	}
	return &Registry{
		live:     map[string]*TwoPartyHandler{},
		outcomes: outcomes,
		opts:     append([]Option{WithLogger(log)}, opts...),
		log:      log,
	}, nil
}

func key(ssid []byte) string {
	return hex.EncodeToString(ssid)
}

// Start creates a new handler for the protocol and registers it.
func (r *Registry) Start(create StartFunc, sessionID []byte, leader bool) (*TwoPartyHandler, error) {
	h, err := NewTwoPartyHandler(create, sessionID, leader, r.opts...)
	if err != nil {
		return nil, err
	}
	if err = r.Add(h); err != nil {
		h.Stop()
		return nil, err
	}
	return h, nil
}

// Add registers an existing handler.
func (r *Registry) Add(h *TwoPartyHandler) error {
	k := key(h.SSID())

	r.mtx.Lock()
	defer r.mtx.Unlock()
	if _, ok := r.live[k]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateSession, k)
	}
	if r.outcomes.Contains(k) {
		return fmt.Errorf("%w: %s", ErrDuplicateSession, k)
	}
	r.live[k] = h
	r.log.Debug().Str("ssid", k).Msg("registered session")
	return nil
}

// Route delivers msg to the execution it belongs to.
func (r *Registry) Route(msg *Message) error {
	if msg == nil {
		return ErrUnknownSession
	}
	k := key(msg.SSID)

	r.mtx.Lock()
	h, ok := r.live[k]
	r.mtx.Unlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownSession, k)
	}

	h.Accept(msg)
	if h.Done() {
		r.collect(k, h)
	}
	return nil
}

// Handler returns the live handler for ssid.
func (r *Registry) Handler(ssid []byte) (*TwoPartyHandler, bool) {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	h, ok := r.live[key(ssid)]
	return h, ok
}

// Outcome returns the outcome of a finished execution, if it is still cached.
func (r *Registry) Outcome(ssid []byte) (Outcome, bool) {
	k := key(ssid)

	r.mtx.Lock()
	h, live := r.live[k]
	r.mtx.Unlock()
	if live && h.Done() {
		r.collect(k, h)
	}
	return r.outcomes.Get(k)
}

// Stop aborts the execution identified by ssid.
func (r *Registry) Stop(ssid []byte) error {
	k := key(ssid)

	r.mtx.Lock()
	h, ok := r.live[k]
	r.mtx.Unlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownSession, k)
	}
	h.Stop()
	r.collect(k, h)
	return nil
}

// Len returns the number of live executions.
func (r *Registry) Len() int {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	return len(r.live)
}

func (r *Registry) collect(k string, h *TwoPartyHandler) {
	result, err := h.Result()

	r.mtx.Lock()
	defer r.mtx.Unlock()
	if _, ok := r.live[k]; !ok {
		return
	}
	delete(r.live, k)
	r.outcomes.Add(k, Outcome{Result: result, Err: err})
	r.log.Debug().Str("ssid", k).Bool("success", err == nil).Msg("session finished")
}
