package sign

import (
	"errors"
	"fmt"
)

var (
	// ErrSign is matched by every error caused by a message of the peer during signing.
	ErrSign = errors.New("lindell17/sign: signing failed")
	// ErrEphemeralConsumed is returned when an ephemeral is used for a second signature.
	ErrEphemeralConsumed = errors.New("lindell17/sign: ephemeral already consumed")
)

// Failure identifies which check rejected a message of the peer.
type Failure uint8

const (
	FailureMalformedMessage Failure = iota + 1
	FailureDLogProof
	FailureDecommitment
	FailureDecryption
	FailureSignature
)

func (f Failure) String() string {
	switch f {
	case FailureMalformedMessage:
		return "malformed message"
	case FailureDLogProof:
		return "invalid discrete log proof"
	case FailureDecommitment:
		return "invalid decommitment"
	case FailureDecryption:
		return "failed to decrypt partial signature"
	case FailureSignature:
		return "invalid signature"
	default:
		return fmt.Sprintf("unknown failure %d", uint8(f))
	}
}

// Error reports the check which failed during signing.
type Error struct {
	Failure Failure
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("lindell17/sign: %s: %v", e.Failure, e.Err)
	}
	return fmt.Sprintf("lindell17/sign: %s", e.Failure)
}

// Is makes errors.Is(err, ErrSign) hold for every *Error.
func (e *Error) Is(target error) bool { return target == ErrSign }

func (e *Error) Unwrap() error { return e.Err }

func fail(f Failure) error { return &Error{Failure: f} }

func failWith(f Failure, err error) error { return &Error{Failure: f, Err: err} }
