package test

import (
	"sync"

	"github.com/taurusgroup/two-party-ecdsa/pkg/party"
	"github.com/taurusgroup/two-party-ecdsa/pkg/protocol"
)

const inboxSize = 16

// Network links two parties in memory.
// Messages are encoded with MarshalBinary and decoded on delivery, so that each party
// only ever sees what went over the wire.
type Network struct {
	mtx     sync.Mutex
	inboxes map[party.ID]chan *protocol.Message
	done    chan struct{}
}

func NewNetwork(parties party.IDSlice) *Network {
	n := &Network{
		inboxes: make(map[party.ID]chan *protocol.Message, len(parties)),
		done:    make(chan struct{}),
	}
	for _, id := range parties {
		n.inboxes[id] = make(chan *protocol.Message, inboxSize)
	}
	return n
}

// Next returns the inbox of id, which is closed once id has left.
func (n *Network) Next(id party.ID) <-chan *protocol.Message {
	n.mtx.Lock()
	defer n.mtx.Unlock()
	if c, ok := n.inboxes[id]; ok {
		return c
	}
	closed := make(chan *protocol.Message)
	close(closed)
	return closed
}

// Send delivers a copy of msg to the parties still connected for which it is intended.
func (n *Network) Send(msg *protocol.Message) error {
	data, err := msg.MarshalBinary()
	if err != nil {
		return err
	}
	n.mtx.Lock()
	defer n.mtx.Unlock()
	for id, c := range n.inboxes {
		if !msg.IsFor(id) {
			continue
		}
		received := new(protocol.Message)
		if err = received.UnmarshalBinary(data); err != nil {
			return err
		}
		c <- received
	}
	return nil
}

// Done disconnects id and returns a channel closed once both parties have left.
func (n *Network) Done(id party.ID) <-chan struct{} {
	n.mtx.Lock()
	defer n.mtx.Unlock()
	if c, ok := n.inboxes[id]; ok {
		close(c)
		delete(n.inboxes, id)
		if len(n.inboxes) == 0 {
			close(n.done)
		}
	}
	return n.done
}
