package protocol

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"github.com/rs/zerolog"
	"github.com/taurusgroup/two-party-ecdsa/internal/round"
	"github.com/taurusgroup/two-party-ecdsa/pkg/hash"
	"github.com/taurusgroup/two-party-ecdsa/pkg/party"
)

// Message is the envelope exchanged between the two handlers of an execution.
type Message struct {
	// SSID identifies the execution, see round.Session.
	SSID     []byte
	From, To party.ID
	Protocol string
	// RoundNumber is the round consuming Data.
	// 0 signals that the sender aborted, and Data holds the reason.
	RoundNumber round.Number
	Data        []byte
}

func (m Message) String() string {
	return fmt.Sprintf("%s message %s -> %s (%s)", m.Protocol, m.From, m.To, m.RoundNumber)
}

// MarshalZerologObject logs the headers of m.
func (m Message) MarshalZerologObject(e *zerolog.Event) {
	e.Str("protocol", m.Protocol).
		Hex("ssid", m.SSID).
		Str("from", string(m.From)).
		Str("to", string(m.To)).
		Stringer("round", m.RoundNumber).
		Int("size", len(m.Data))
}

// IsFor reports whether id is the recipient of m.
func (m Message) IsFor(id party.ID) bool {
	return m.To == id && m.From != id
}

func (m Message) IsAbort() bool {
	return m.RoundNumber == 0
}

// Hash returns a digest of m, headers included.
func (m Message) Hash() []byte {
	return hash.New(
		&hash.BytesWithDomain{TheDomain: "SSID", Bytes: m.SSID},
		m.From,
		m.To,
		&hash.BytesWithDomain{TheDomain: "Protocol", Bytes: []byte(m.Protocol)},
		m.RoundNumber,
		&hash.BytesWithDomain{TheDomain: "Content", Bytes: m.Data},
	).Sum()
}

type wireMessage Message

func (m *Message) MarshalBinary() ([]byte, error) {
	return cbor.Marshal((*wireMessage)(m))
}

func (m *Message) UnmarshalBinary(data []byte) error {
	return cbor.Unmarshal(data, (*wireMessage)(m))
}
