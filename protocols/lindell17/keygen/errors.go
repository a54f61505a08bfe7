package keygen

import (
	"errors"
	"fmt"
)

// ErrKeyGen is matched by every error caused by a message of the peer during key generation.
var ErrKeyGen = errors.New("lindell17/keygen: key generation failed")

// Failure identifies which check rejected a message of the peer.
type Failure uint8

const (
	FailureMalformedMessage Failure = iota + 1
	FailureDLogProof
	FailureDecommitment
	FailureCompositeDLogProof
	FailurePDLProof
	FailureCorrectKeyProof
	FailurePublicKeyMismatch
)

func (f Failure) String() string {
	switch f {
	case FailureMalformedMessage:
		return "malformed message"
	case FailureDLogProof:
		return "invalid discrete log proof"
	case FailureDecommitment:
		return "invalid decommitment"
	case FailureCompositeDLogProof:
		return "invalid composite discrete log proof"
	case FailurePDLProof:
		return "invalid decryptable with slack proof"
	case FailureCorrectKeyProof:
		return "invalid correct key proof"
	case FailurePublicKeyMismatch:
		return "parties computed different public keys"
	default:
		return fmt.Sprintf("unknown failure %d", uint8(f))
	}
}

// Error reports the check which failed during key generation.
type Error struct {
	Failure Failure
	// Err is an optional underlying cause.
	Err error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("lindell17/keygen: %s: %v", e.Failure, e.Err)
	}
	return fmt.Sprintf("lindell17/keygen: %s", e.Failure)
}

// Is makes errors.Is(err, ErrKeyGen) hold for every *Error.
func (e *Error) Is(target error) bool {
	return target == ErrKeyGen
}

func (e *Error) Unwrap() error {
	return e.Err
}

func fail(f Failure) error {
	return &Error{Failure: f}
}

func failWith(f Failure, err error) error {
	return &Error{Failure: f, Err: err}
}
