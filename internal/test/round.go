package test

import (
	"errors"
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"github.com/taurusgroup/two-party-ecdsa/internal/round"
	"github.com/taurusgroup/two-party-ecdsa/pkg/party"
)

// Rule describes various hooks that can be applied to a protocol execution.
type Rule interface {
	// ModifyBefore modifies r before r.Finalize() is called.
	ModifyBefore(r round.Session)
	// ModifyAfter modifies rNext, which is the round returned by r.Finalize().
	ModifyAfter(rNext round.Session)
	// ModifyContent modifies content for the message that is delivered in rNext.
	ModifyContent(rNext round.Session, to party.ID, content round.Content)
}

var ErrNoProgress = errors.New("test: no party can advance")

// Rounds runs a two party protocol to completion, starting from the first round of each party.
//
// Every message is marshalled and unmarshalled before being delivered, as it would be over a network.
// It returns the terminal round of each party (either *round.Output or *round.Abort), in the same order.
// An error is returned as soon as a party rejects a message or fails to finalize.
func Rounds(rounds []round.Session, rule Rule) ([]round.Session, error) {
	if len(rounds) != 2 {
		return nil, fmt.Errorf("test: expected 2 parties, got %d", len(rounds))
	}
	current := []round.Session{rounds[0], rounds[1]}
	inbox := make([][]*round.Message, 2)

	for !done(current) {
		progress := false
		for idx := range current {
			r := current[idx]
			if isTerminal(r) {
				continue
			}

			if content := r.MessageContent(); content != nil {
				msg, rest, ok := take(inbox[idx], r.Number())
				if !ok {
					continue
				}
				inbox[idx] = rest
				if err := deliver(r, msg, content); err != nil {
					return current, err
				}
			}

			out := make(chan *round.Message, 2)
			if rule != nil {
				rule.ModifyBefore(r)
			}
			rNext, err := r.Finalize(out)
			close(out)
			if err != nil {
				return current, err
			}
			if rNext == nil {
				return current, fmt.Errorf("test: round %d of %s returned no round", r.Number(), r.SelfID())
			}
			if rule != nil {
				rule.ModifyAfter(rNext)
			}
			for msg := range out {
				if rule != nil {
					rule.ModifyContent(rNext, msg.To, msg.Content)
				}
				peer := 1 - idx
				inbox[peer] = append(inbox[peer], msg)
			}
			current[idx] = rNext
			progress = true
		}
		if !progress {
			return current, ErrNoProgress
		}
	}
	return current, nil
}

func deliver(r round.Session, msg *round.Message, content round.Content) error {
	data, err := cbor.Marshal(msg.Content)
	if err != nil {
		return err
	}
	if err = cbor.Unmarshal(data, content); err != nil {
		return err
	}
	m := round.Message{From: msg.From, To: msg.To, Content: content}
	if err = r.VerifyMessage(m); err != nil {
		return err
	}
	return r.StoreMessage(m)
}

func take(inbox []*round.Message, number round.Number) (*round.Message, []*round.Message, bool) {
	for i, msg := range inbox {
		if msg.Content.RoundNumber() == number {
			rest := append(inbox[:i:i], inbox[i+1:]...)
			return msg, rest, true
		}
	}
	return nil, inbox, false
}

func isTerminal(r round.Session) bool {
	switch r.(type) {
	case *round.Output, *round.Abort:
		return true
	}
	return false
}

// done returns true when both parties produced an output, or one of them aborted.
func done(rounds []round.Session) bool {
	outputs := 0
	for _, r := range rounds {
		switch r.(type) {
		case *round.Abort:
			return true
		case *round.Output:
			outputs++
		}
	}
	return outputs == len(rounds)
}
