package config

import (
	"errors"
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"github.com/taurusgroup/two-party-ecdsa/pkg/math/curve"
	"github.com/taurusgroup/two-party-ecdsa/pkg/paillier"
)

func emptyPublic(group curve.Curve) *Public {
	return &Public{
		Q:  group.NewPoint(),
		X1: group.NewPoint(),
		X2: group.NewPoint(),
	}
}

// EmptyMasterKey1 creates an empty MasterKey1 with a fixed group, ready for unmarshalling.
//
// This needs to be used for unmarshalling, otherwise the points on the curve can't
// be decoded.
func EmptyMasterKey1(group curve.Curve) *MasterKey1 {
	return &MasterKey1{
		Public:  emptyPublic(group),
		private: &Party1Private{x1: group.NewScalar()},
	}
}

// EmptyMasterKey2 creates an empty MasterKey2 with a fixed group, ready for unmarshalling.
func EmptyMasterKey2(group curve.Curve) *MasterKey2 {
	return &MasterKey2{
		Public:  emptyPublic(group),
		private: &Party2Private{x2: group.NewScalar()},
	}
}

type masterKey1Marshal struct {
	Public    *Public
	X1        curve.Scalar
	Paillier  *paillier.SecretKey
	ChainCode []byte
}

type masterKey2Marshal struct {
	Public    *Public
	X2        curve.Scalar
	ChainCode []byte
}

func (mk *MasterKey1) MarshalBinary() ([]byte, error) {
	return cbor.Marshal(&masterKey1Marshal{
		Public:    mk.Public,
		X1:        mk.private.x1,
		Paillier:  mk.private.paillier,
		ChainCode: mk.ChainCode,
	})
}

func (mk *MasterKey1) UnmarshalBinary(data []byte) error {
	if mk.Public == nil || mk.private == nil || mk.private.x1 == nil {
		return errors.New("config: MasterKey1 must be initialized using EmptyMasterKey1")
	}
	m := &masterKey1Marshal{
		Public: mk.Public,
		X1:     mk.private.x1,
	}
	if err := cbor.Unmarshal(data, m); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	mk.private.paillier = m.Paillier
	mk.ChainCode = m.ChainCode
	return mk.Validate()
}

func (mk *MasterKey2) MarshalBinary() ([]byte, error) {
	return cbor.Marshal(&masterKey2Marshal{
		Public:    mk.Public,
		X2:        mk.private.x2,
		ChainCode: mk.ChainCode,
	})
}

func (mk *MasterKey2) UnmarshalBinary(data []byte) error {
	if mk.Public == nil || mk.private == nil || mk.private.x2 == nil {
		return errors.New("config: MasterKey2 must be initialized using EmptyMasterKey2")
	}
	m := &masterKey2Marshal{
		Public: mk.Public,
		X2:     mk.private.x2,
	}
	if err := cbor.Unmarshal(data, m); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	mk.ChainCode = m.ChainCode
	return mk.Validate()
}
