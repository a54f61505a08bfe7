package main

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/taurusgroup/two-party-ecdsa/pkg/party"
	"github.com/taurusgroup/two-party-ecdsa/pkg/protocol"
	"golang.org/x/sync/errgroup"
)

// node is one of the two parties, with its own registry of executions.
type node struct {
	id       party.ID
	registry *protocol.Registry
	net      *network
	log      zerolog.Logger
}

func newNode(id party.ID, net *network, log zerolog.Logger, metrics *protocol.Metrics) (*node, error) {
	log = log.With().Str("node", string(id)).Logger()
	registry, err := protocol.NewRegistry(protocol.DefaultOutcomeCacheSize, log, protocol.WithMetrics(metrics))
	if err != nil {
		return nil, err
	}
	return &node{id: id, registry: registry, net: net, log: log}, nil
}

// receive routes incoming messages until the network is closed.
func (n *node) receive() {
	for data := range n.net.Next(n.id) {
		msg := new(protocol.Message)
		if err := msg.UnmarshalBinary(data); err != nil {
			n.log.Warn().Err(err).Msg("invalid message")
			continue
		}
		if err := n.registry.Route(msg); err != nil {
			n.log.Debug().Err(err).Object("message", msg).Msg("dropped message")
		}
	}
}

// forward sends the messages of h to the peer until the execution is done.
func (n *node) forward(h *protocol.TwoPartyHandler) error {
	for msg := range h.Listen() {
		data, err := msg.MarshalBinary()
		if err != nil {
			return err
		}
		n.net.Send(msg.To, data)
	}
	return nil
}

// execute runs one protocol between a and b. Both handlers are registered before any message is sent.
func execute(a, b *node, createA, createB protocol.StartFunc, aLeads bool) (any, any, error) {
	sessionID := protocol.NewSessionID()
	hA, err := a.registry.Start(createA, sessionID, aLeads)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", a.id, err)
	}
	hB, err := b.registry.Start(createB, sessionID, !aLeads)
	if err != nil {
		hA.Stop()
		return nil, nil, fmt.Errorf("%s: %w", b.id, err)
	}

	var g errgroup.Group
	g.Go(func() error { return a.forward(hA) })
	g.Go(func() error { return b.forward(hB) })
	if err = g.Wait(); err != nil {
		return nil, nil, err
	}

	resultA, errA := hA.Result()
	resultB, errB := hB.Result()
	if err = errors.Join(errA, errB); err != nil {
		return nil, nil, err
	}
	return resultA, resultB, nil
}
