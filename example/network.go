package main

import (
	"github.com/taurusgroup/two-party-ecdsa/pkg/party"
)

// network carries encoded messages between parties running in the same process.
type network struct {
	listenChannels map[party.ID]chan []byte
}

func newNetwork(parties party.IDSlice) *network {
	lc := make(map[party.ID]chan []byte, len(parties))
	for _, id := range parties {
		lc[id] = make(chan []byte, 16)
	}
	return &network{listenChannels: lc}
}

func (n *network) Next(id party.ID) <-chan []byte {
	return n.listenChannels[id]
}

func (n *network) Send(to party.ID, data []byte) {
	if c, ok := n.listenChannels[to]; ok {
		c <- data
	}
}

func (n *network) Close() {
	for _, c := range n.listenChannels {
		close(c)
	}
}
