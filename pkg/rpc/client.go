package rpc

import (
	"context"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/core/types"
)

// ChainReader is the view of the chain the event indexer polls.
// This abstraction allows for easier testing and alternative implementations.
type ChainReader interface {
	// BlockNumber returns the current head according to the configured finality.
	BlockNumber(ctx context.Context) (uint64, error)

	// FilterLogs returns every log matching the query over its whole block range,
	// ordered by block number, transaction index and log index.
	FilterLogs(ctx context.Context, query ethereum.FilterQuery) ([]types.Log, error)

	// BlockTimestamp returns the timestamp of the given block in seconds.
	BlockTimestamp(ctx context.Context, blockNum uint64) (uint64, error)

	// Close closes the RPC client connection.
	Close()
}
