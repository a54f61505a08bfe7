package round

import (
	"errors"

	"github.com/taurusgroup/two-party-ecdsa/pkg/party"
)

var (
	ErrInvalidContent = errors.New("round: content is not the right type")
	ErrOutChanFull    = errors.New("round: out channel is full")
)

// Content is the payload of a message, consumed by round RoundNumber of the receiver.
type Content interface {
	RoundNumber() Number
}

type Message struct {
	From, To party.ID
	Content  Content
}
