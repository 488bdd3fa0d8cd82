package rpc

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sort"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/starosca/pool-indexer/internal/common"
	"github.com/starosca/pool-indexer/internal/logger"
	"github.com/starosca/pool-indexer/pkg/config"
	pkgrpc "github.com/starosca/pool-indexer/pkg/rpc"
)

// Compile-time check to ensure Client implements pkgrpc.ChainReader interface.
var _ pkgrpc.ChainReader = (*Client)(nil)

// Client wraps the Ethereum RPC client with the calls the pool indexer needs.
type Client struct {
	eth *ethclient.Client
	rpc *rpc.Client

	finality     string
	finalizedLag uint64
	chunkSize    uint64
	retry        *config.RetryConfig

	timestamps *lru.Cache[uint64, uint64]
	log        *logger.Logger
}

// NewClient dials the configured endpoint.
func NewClient(ctx context.Context, cfg config.IndexerConfig, log *logger.Logger) (*Client, error) {
	rpcClient, err := rpc.DialContext(ctx, cfg.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("failed to dial %s: %w", cfg.RPCURL, err)
	}

	return newClient(rpcClient, cfg, log)
}

func newClient(rpcClient *rpc.Client, cfg config.IndexerConfig, log *logger.Logger) (*Client, error) {
	cacheSize := cfg.TimestampCacheSize
	if cacheSize <= 0 {
		cacheSize = 1
	}

	timestamps, err := lru.New[uint64, uint64](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create timestamp cache: %w", err)
	}

	return &Client{
		eth:          ethclient.NewClient(rpcClient),
		rpc:          rpcClient,
		finality:     cfg.Finality,
		finalizedLag: cfg.FinalizedLag,
		chunkSize:    cfg.ChunkSize,
		retry:        cfg.Retry,
		timestamps:   timestamps,
		log:          log.WithComponent(common.ComponentChainReader),
	}, nil
}

// Close closes the RPC client connection.
func (c *Client) Close() {
	c.eth.Close()
}

// BlockNumber returns the head block for the configured finality.
// With "latest", FinalizedLag confirmations are subtracted.
func (c *Client) BlockNumber(ctx context.Context) (uint64, error) {
	switch c.finality {
	case config.FinalitySafe:
		return c.taggedHeader(ctx, rpc.SafeBlockNumber)
	case config.FinalityFinalized:
		return c.taggedHeader(ctx, rpc.FinalizedBlockNumber)
	case config.FinalityLatest, "":
		var head uint64
		err := c.call(ctx, "eth_blockNumber", func() error {
			var err error
			head, err = c.eth.BlockNumber(ctx)
			return err
		})
		if err != nil {
			return 0, err
		}

		if head < c.finalizedLag {
			return 0, nil
		}
		return head - c.finalizedLag, nil
	default:
		return 0, fmt.Errorf("invalid finality mode: %s", c.finality)
	}
}

func (c *Client) taggedHeader(ctx context.Context, tag rpc.BlockNumber) (uint64, error) {
	header, err := c.header(ctx, big.NewInt(int64(tag)))
	if err != nil {
		return 0, err
	}

	return header.Number.Uint64(), nil
}

// BlockTimestamp returns the block time, served from the cache when possible.
func (c *Client) BlockTimestamp(ctx context.Context, blockNum uint64) (uint64, error) {
	if ts, ok := c.timestamps.Get(blockNum); ok {
		timestampCacheHits.Inc()
		return ts, nil
	}

	header, err := c.header(ctx, new(big.Int).SetUint64(blockNum))
	if err != nil {
		return 0, fmt.Errorf("failed to get header of block %d: %w", blockNum, err)
	}

	c.timestamps.Add(blockNum, header.Time)
	return header.Time, nil
}

func (c *Client) header(ctx context.Context, number *big.Int) (*types.Header, error) {
	var header *types.Header
	err := c.call(ctx, "eth_getBlockByNumber", func() error {
		var err error
		header, err = c.eth.HeaderByNumber(ctx, number)
		return err
	})

	return header, err
}

// FilterLogs fetches logs over [FromBlock, ToBlock] in chunks of at most chunkSize blocks.
// When the provider rejects a chunk for returning too many results the chunk is narrowed,
// either to the range the provider suggests or to its first half, until it succeeds.
func (c *Client) FilterLogs(ctx context.Context, query ethereum.FilterQuery) ([]types.Log, error) {
	if query.FromBlock == nil || query.ToBlock == nil {
		return nil, errors.New("filter query must have both FromBlock and ToBlock")
	}

	from, to := query.FromBlock.Uint64(), query.ToBlock.Uint64()
	if from > to {
		return nil, fmt.Errorf("invalid block range [%d, %d]", from, to)
	}

	var all []types.Log
	for from <= to {
		end := to
		if c.chunkSize > 0 && end-from+1 > c.chunkSize {
			end = from + c.chunkSize - 1
		}

		logs, fetchedTo, err := c.getLogs(ctx, query, from, end)
		if err != nil {
			return nil, err
		}

		all = append(all, logs...)
		from = fetchedTo + 1
	}

	sort.SliceStable(all, func(i, j int) bool {
		a, b := all[i], all[j]
		if a.BlockNumber != b.BlockNumber {
			return a.BlockNumber < b.BlockNumber
		}
		if a.TxIndex != b.TxIndex {
			return a.TxIndex < b.TxIndex
		}
		return a.Index < b.Index
	})

	return all, nil
}

// getLogs fetches [from, to] or a prefix of it. It returns the last block actually covered.
func (c *Client) getLogs(ctx context.Context, query ethereum.FilterQuery, from, to uint64) ([]types.Log, uint64, error) {
	for {
		q := query
		q.FromBlock = new(big.Int).SetUint64(from)
		q.ToBlock = new(big.Int).SetUint64(to)

		var logs []types.Log
		err := c.call(ctx, "eth_getLogs", func() error {
			var err error
			logs, err = c.eth.FilterLogs(ctx, q)
			return err
		})
		if err == nil {
			return logs, to, nil
		}

		tooMany, errData := IsTooManyResultsError(err)
		if !tooMany {
			return nil, 0, err
		}

		if suggestedFrom, suggestedTo, ok := ParseSuggestedBlockRange(errData); ok &&
			suggestedFrom == from && suggestedTo >= from && suggestedTo < to {
			c.log.Infof("too many logs in [%d, %d], retrying with suggested range [%d, %d]",
				from, to, suggestedFrom, suggestedTo)
			to = suggestedTo
			continue
		}

		if from == to {
			return nil, 0, fmt.Errorf("cannot split range further, single block %d has too many logs", from)
		}

		mid := from + (to-from)/2 //nolint:mnd
		c.log.Infof("too many logs in [%d, %d], retrying with [%d, %d]", from, to, from, mid)
		to = mid
	}
}

// call runs fn with retries and records RPC metrics under method.
func (c *Client) call(ctx context.Context, method string, fn func() error) error {
	return retryWithBackoff(ctx, c.retry, method, func() error {
		start := time.Now()
		RPCMethodInc(method)

		err := fn()
		RPCMethodDuration(method, time.Since(start))
		if err != nil {
			RPCMethodError(method, errorType(err))
			c.log.Debugf("%s failed: %v", method, err)
		}

		return err
	})
}

func errorType(err error) string {
	if ok, _ := IsTooManyResultsError(err); ok {
		return "too_many_results"
	}
	if retryableError(err) {
		return "transient"
	}
	return "other"
}
