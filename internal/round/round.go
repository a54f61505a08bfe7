package round

// Round is one step of a two-party protocol.
//
// A round that expects a message from the peer receives it through VerifyMessage then StoreMessage,
// after which Finalize is called exactly once. A round that expects nothing (MessageContent returns nil)
// is finalized right away.
type Round interface {
	// VerifyMessage checks the content of msg, which has the type returned by MessageContent.
	// It must not change the state of the round.
	VerifyMessage(msg Message) error

	// StoreMessage keeps what the round needs from a message accepted by VerifyMessage.
	StoreMessage(msg Message) error

	// Finalize sends the messages of this party to out, and returns the next round.
	// A misbehaving peer is reported with r.AbortRound(err, r.PeerID()) and a nil error,
	// the last round returns r.ResultRound(result).
	// A non nil error leaves the round unchanged so that Finalize may be retried.
	Finalize(out chan<- *Message) (Session, error)

	// MessageContent returns an empty content ready to be unmarshalled, or nil.
	MessageContent() Content

	// Number returns the number of this round.
	Number() Number
}
