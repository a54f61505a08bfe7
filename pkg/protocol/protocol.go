package protocol

import (
	"github.com/taurusgroup/two-party-ecdsa/internal/round"
)

// StartFunc is function that creates the first round of a protocol.
// The sessionID must be the same for both parties, and unique for each execution.
// If the creation fails (likely due to misconfiguration), an error is returned.
type StartFunc func(sessionID []byte) (round.Session, error)

// Handler represents an execution of a given protocol.
// It provides a simple interface for the user to receive/deliver protocol messages.
type Handler interface {
	// Result should return the result of running the protocol, or an error
	Result() (any, error)
	// Listen returns a channel which will receive new messages
	Listen() <-chan *Message
	// Stop should abort the execution of the protocol
	Stop()
	// CanAccept checks whether or not a message can be accepted at the current point in the protocol
	CanAccept(msg *Message) bool
	// Accept advances the protocol execution after receiving a message
	Accept(msg *Message)
}
