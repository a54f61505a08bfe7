package test

import (
	"github.com/taurusgroup/two-party-ecdsa/pkg/party"
	"github.com/taurusgroup/two-party-ecdsa/pkg/protocol"
	"golang.org/x/sync/errgroup"
)

// HandlerLoop relays messages between h and network until the execution of h is over.
// If a message cannot be sent, h is stopped and the error returned.
func HandlerLoop(id party.ID, h protocol.Handler, network *Network) error {
	out := h.Listen()
	incoming := network.Next(id)
	for {
		select {
		case msg, ok := <-out:
			if !ok {
				<-network.Done(id)
				return nil
			}
			if err := network.Send(msg); err != nil {
				h.Stop()
				network.Done(id)
				return err
			}
		case msg, ok := <-incoming:
			if !ok {
				return nil
			}
			h.Accept(msg)
		}
	}
}

// RunPair runs h1 as ids[0] and h2 as ids[1] over a fresh Network, and waits for both.
func RunPair(ids party.IDSlice, h1, h2 protocol.Handler) error {
	network := NewNetwork(ids)
	var g errgroup.Group
	g.Go(func() error { return HandlerLoop(ids[0], h1, network) })
	g.Go(func() error { return HandlerLoop(ids[1], h2, network) })
	return g.Wait()
}
