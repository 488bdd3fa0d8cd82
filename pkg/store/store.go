package store

import (
	"context"
	"errors"

	"github.com/ethereum/go-ethereum/common"
)

var (
	// ErrNotFound is returned by single-row reads when nothing matches.
	ErrNotFound = errors.New("not found")

	// ErrCursorRegression is returned when the cursor would move backwards.
	ErrCursorRegression = errors.New("cursor cannot move backwards")
)

// Tx is the set of mutations available inside a write transaction.
type Tx interface {
	// InsertPool inserts the pool unless a pool with the same address exists.
	// It reports whether a new row was created.
	InsertPool(pool *Pool) (bool, error)

	// InsertParticipant inserts the membership unless the (pool, participant) pair exists.
	// It reports whether a new row was created.
	InsertParticipant(participant *Participant) (bool, error)

	// InsertPayment appends a payment.
	InsertPayment(payment *Payment) error

	// InsertDrawing appends a drawing.
	InsertDrawing(drawing *Drawing) error

	// UpdatePoolStatus sets the status of a known pool.
	UpdatePoolStatus(pool common.Address, status PoolStatus) error

	// SetLastBlock moves the cursor forward. Moving it backwards returns ErrCursorRegression.
	SetLastBlock(block uint64) error
}

// Writer is the store surface used by the event indexer, the only writer.
type Writer interface {
	// LastBlock returns the last fully processed block.
	LastBlock(ctx context.Context) (uint64, error)

	// PoolAddresses returns every known pool address.
	PoolAddresses(ctx context.Context) ([]common.Address, error)

	// Update runs fn in a single transaction, committing only if fn returns nil.
	Update(ctx context.Context, fn func(Tx) error) error
}

// Reader is the read-only surface used by the query API.
type Reader interface {
	ListPools(ctx context.Context, filter PoolFilter) ([]*Pool, error)
	GetPool(ctx context.Context, address common.Address) (*Pool, error)
	ListParticipants(ctx context.Context, pool common.Address) ([]*Participant, error)
	ListPayments(ctx context.Context, pool common.Address, month *uint8) ([]*Payment, error)
	ListDrawings(ctx context.Context, pool common.Address) ([]*Drawing, error)
	PoolsByParticipant(ctx context.Context, participant common.Address) ([]*Pool, error)
	YieldSnapshots(ctx context.Context, limit int) ([]*YieldSnapshot, error)
	LatestYieldSnapshot(ctx context.Context) (*YieldSnapshot, error)
	Status(ctx context.Context) (*IndexerStatus, error)
}
