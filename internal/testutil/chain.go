package testutil

import (
	"context"
	"slices"
	"sync"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/starosca/pool-indexer/pkg/rpc"
)

// BaseTimestamp is the time of block 0 on a Chain; block n is BaseTimestamp+n.
const BaseTimestamp = 1_700_000_000

var _ rpc.ChainReader = (*Chain)(nil)

// Chain serves logs from memory the way an RPC node filters them.
type Chain struct {
	mu sync.Mutex

	head     uint64
	logs     []types.Log
	failLogs error

	filterCalls int
}

// NewChain returns an empty chain at the given head.
func NewChain(head uint64) *Chain {
	return &Chain{head: head}
}

func (c *Chain) BlockNumber(context.Context) (uint64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.head, nil
}

func (c *Chain) FilterLogs(_ context.Context, q ethereum.FilterQuery) ([]types.Log, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.filterCalls++
	if c.failLogs != nil {
		return nil, c.failLogs
	}

	from, to := q.FromBlock.Uint64(), q.ToBlock.Uint64()

	var result []types.Log
	for _, l := range c.logs {
		if l.BlockNumber < from || l.BlockNumber > to {
			continue
		}
		if !slices.Contains(q.Addresses, l.Address) {
			continue
		}
		if len(q.Topics) > 0 && len(q.Topics[0]) > 0 && !slices.Contains(q.Topics[0], l.Topics[0]) {
			continue
		}
		result = append(result, l)
	}

	return result, nil
}

func (c *Chain) BlockTimestamp(_ context.Context, block uint64) (uint64, error) {
	return BaseTimestamp + block, nil
}

func (c *Chain) Close() {}

// SetHead moves the chain head.
func (c *Chain) SetHead(head uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.head = head
}

// Add appends logs, numbering them in insertion order.
func (c *Chain) Add(logs ...types.Log) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, l := range logs {
		l.Index = uint(len(c.logs))
		c.logs = append(c.logs, l)
	}
}

// FailLogs makes every following FilterLogs call return err. A nil err restores normal behaviour.
func (c *Chain) FailLogs(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.failLogs = err
}

// FilterCalls returns the number of FilterLogs calls served so far.
func (c *Chain) FilterCalls() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.filterCalls
}
