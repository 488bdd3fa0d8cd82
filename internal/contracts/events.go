package contracts

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Event names as they appear in the contract ABIs.
const (
	EventPoolCreated       = "PoolCreated"
	EventParticipantJoined = "ParticipantJoined"
	EventPaymentMade       = "PaymentMade"
	EventDrawingCompleted  = "DrawingCompleted"
	EventPoolActivated     = "PoolActivated"
	EventPoolFinalized     = "PoolFinalized"
)

// LogMeta locates a decoded event on chain.
type LogMeta struct {
	Address     common.Address
	BlockNumber uint64
	TxHash      common.Hash
	TxIndex     uint
	LogIndex    uint
}

// PoolCreated is emitted by the factory when a new pool contract is deployed.
type PoolCreated struct {
	LogMeta
	Pool                common.Address
	Creator             common.Address
	MaxParticipants     uint8
	MonthlyContribution *big.Int
}

// PoolEvent is one of the events emitted by a pool contract:
// *ParticipantJoined, *PaymentMade, *DrawingCompleted, *PoolActivated or *PoolFinalized.
type PoolEvent interface {
	Meta() LogMeta
	Name() string
	poolEvent()
}

type ParticipantJoined struct {
	LogMeta
	Participant       common.Address
	Collateral        *big.Int
	FirstContribution *big.Int
}

type PaymentMade struct {
	LogMeta
	Participant common.Address
	Month       uint8
	Amount      *big.Int
	Status      uint8
}

type DrawingCompleted struct {
	LogMeta
	Month     uint8
	Winner    common.Address
	PotAmount *big.Int
}

type PoolActivated struct {
	LogMeta
	Timestamp *big.Int
}

type PoolFinalized struct {
	LogMeta
	TotalYield *big.Int
}

func (m LogMeta) Meta() LogMeta { return m }

func (*ParticipantJoined) Name() string { return EventParticipantJoined }
func (*PaymentMade) Name() string       { return EventPaymentMade }
func (*DrawingCompleted) Name() string  { return EventDrawingCompleted }
func (*PoolActivated) Name() string     { return EventPoolActivated }
func (*PoolFinalized) Name() string     { return EventPoolFinalized }

func (*ParticipantJoined) poolEvent() {}
func (*PaymentMade) poolEvent()       {}
func (*DrawingCompleted) poolEvent()  {}
func (*PoolActivated) poolEvent()     {}
func (*PoolFinalized) poolEvent()     {}
