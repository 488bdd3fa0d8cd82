package store

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// PoolStatus mirrors the on-chain pool lifecycle.
type PoolStatus uint8

const (
	PoolStatusPending PoolStatus = iota
	PoolStatusActive
	PoolStatusCompleted
	PoolStatusFinalized
	PoolStatusCancelled
)

func (s PoolStatus) String() string {
	switch s {
	case PoolStatusPending:
		return "pending"
	case PoolStatusActive:
		return "active"
	case PoolStatusCompleted:
		return "completed"
	case PoolStatusFinalized:
		return "finalized"
	case PoolStatusCancelled:
		return "cancelled"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(s))
	}
}

// Valid reports whether s is one of the known statuses.
func (s PoolStatus) Valid() bool {
	return s <= PoolStatusCancelled
}

// PaymentStatus is the status carried by a PaymentMade event.
type PaymentStatus uint8

const (
	PaymentStatusNotPaid PaymentStatus = iota
	PaymentStatusOnTime
	PaymentStatusLate
	PaymentStatusMissed
)

func (s PaymentStatus) String() string {
	switch s {
	case PaymentStatusNotPaid:
		return "not_paid"
	case PaymentStatusOnTime:
		return "on_time"
	case PaymentStatusLate:
		return "late"
	case PaymentStatusMissed:
		return "missed"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(s))
	}
}

// Pool is one savings pool deployed by the factory.
// Amounts are decimal strings in the token's smallest unit.
type Pool struct {
	Address             common.Address `meddler:"address,address" json:"address"`
	Creator             common.Address `meddler:"creator,address" json:"creator"`
	MaxParticipants     uint8          `meddler:"max_participants" json:"max_participants"`
	MonthlyContribution string         `meddler:"monthly_contribution" json:"monthly_contribution"`
	Status              PoolStatus     `meddler:"status" json:"status"`
	CurrentMonth        uint8          `meddler:"current_month" json:"current_month"`
	CreatedAt           uint64         `meddler:"created_at" json:"created_at"`
	BlockNumber         uint64         `meddler:"block_number" json:"block_number"`
}

// Participant is a membership of an address in a pool. At most one per (pool, participant).
type Participant struct {
	ID                int64          `meddler:"id,pk" json:"id"`
	PoolAddress       common.Address `meddler:"pool_address,address" json:"pool_address"`
	Participant       common.Address `meddler:"participant,address" json:"participant"`
	Collateral        string         `meddler:"collateral" json:"collateral"`
	FirstContribution string         `meddler:"first_contribution" json:"first_contribution"`
	JoinedAt          uint64         `meddler:"joined_at" json:"joined_at"`
	BlockNumber       uint64         `meddler:"block_number" json:"block_number"`
}

// Payment is one monthly contribution. Payments are append-only.
type Payment struct {
	ID          int64          `meddler:"id,pk" json:"id"`
	PoolAddress common.Address `meddler:"pool_address,address" json:"pool_address"`
	Participant common.Address `meddler:"participant,address" json:"participant"`
	Month       uint8          `meddler:"month" json:"month"`
	Amount      string         `meddler:"amount" json:"amount"`
	Status      PaymentStatus  `meddler:"status" json:"status"`
	PaidAt      uint64         `meddler:"paid_at" json:"paid_at"`
	BlockNumber uint64         `meddler:"block_number" json:"block_number"`
	TxHash      common.Hash    `meddler:"tx_hash,hash" json:"tx_hash"`
	LogIndex    uint           `meddler:"log_index" json:"log_index"`
}

// Drawing is the outcome of a monthly pot distribution. Drawings are append-only.
type Drawing struct {
	ID          int64          `meddler:"id,pk" json:"id"`
	PoolAddress common.Address `meddler:"pool_address,address" json:"pool_address"`
	Month       uint8          `meddler:"month" json:"month"`
	Winner      common.Address `meddler:"winner,address" json:"winner"`
	PotAmount   string         `meddler:"pot_amount" json:"pot_amount"`
	DrawnAt     uint64         `meddler:"drawn_at" json:"drawn_at"`
	BlockNumber uint64         `meddler:"block_number" json:"block_number"`
	TxHash      common.Hash    `meddler:"tx_hash,hash" json:"tx_hash"`
	LogIndex    uint           `meddler:"log_index" json:"log_index"`
}

// YieldSnapshot is written by the yield optimizer workflow and only read here.
// APYs are in basis points.
type YieldSnapshot struct {
	ID             int64  `meddler:"id,pk" json:"id"`
	Timestamp      int64  `meddler:"timestamp" json:"timestamp"`
	AaveAPY        int64  `meddler:"aave_apy" json:"aave_apy"`
	CompoundAPY    int64  `meddler:"compound_apy" json:"compound_apy"`
	MoonwellAPY    int64  `meddler:"moonwell_apy" json:"moonwell_apy"`
	ActiveProtocol string `meddler:"active_protocol" json:"active_protocol"`
	TotalDeposits  string `meddler:"total_deposits" json:"total_deposits"`
}

// IndexerStatus summarises indexing progress.
type IndexerStatus struct {
	LastBlock uint64 `json:"last_block"`
	PoolCount uint64 `json:"pool_count"`
}

// PoolFilter narrows ListPools. Nil fields are ignored.
type PoolFilter struct {
	Status  *PoolStatus
	Creator *common.Address
}
