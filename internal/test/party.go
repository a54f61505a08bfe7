package test

import "github.com/taurusgroup/two-party-ecdsa/pkg/party"

const (
	Party1 party.ID = "party-1"
	Party2 party.ID = "party-2"
)

// PartyIDs returns the sorted pair {Party1, Party2}.
func PartyIDs() party.IDSlice {
	return party.NewIDSlice([]party.ID{Party2, Party1})
}
