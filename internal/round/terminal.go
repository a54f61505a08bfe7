package round

import "github.com/taurusgroup/two-party-ecdsa/pkg/party"

// Output ends a successful execution. Result holds what the protocol produced for this party.
type Output struct {
	*Helper
	Result any
}

func (Output) VerifyMessage(Message) error                  { return nil }
func (Output) StoreMessage(Message) error                   { return nil }
func (r *Output) Finalize(chan<- *Message) (Session, error) { return r, nil }
func (Output) MessageContent() Content                      { return nil }
func (Output) Number() Number                               { return 0 }

// Abort ends a failed execution.
// Culprit is the peer when its message was rejected, and empty when the failure was local.
type Abort struct {
	*Helper
	Culprit party.ID
	Err     error
}

func (Abort) VerifyMessage(Message) error                  { return nil }
func (Abort) StoreMessage(Message) error                   { return nil }
func (r *Abort) Finalize(chan<- *Message) (Session, error) { return r, nil }
func (Abort) MessageContent() Content                      { return nil }
func (Abort) Number() Number                               { return 0 }
