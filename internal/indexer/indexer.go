package indexer

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sort"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	internalcommon "github.com/starosca/pool-indexer/internal/common"
	"github.com/starosca/pool-indexer/internal/contracts"
	"github.com/starosca/pool-indexer/internal/logger"
	"github.com/starosca/pool-indexer/internal/metrics"
	"github.com/starosca/pool-indexer/pkg/config"
	"github.com/starosca/pool-indexer/pkg/rpc"
	"github.com/starosca/pool-indexer/pkg/store"
)

// ErrCyclePanic wraps a panic recovered from a poll cycle.
var ErrCyclePanic = errors.New("poll cycle panicked")

// State is the lifecycle state of an Indexer.
type State int32

const (
	// StateStopped means no polling loop is active.
	StateStopped State = iota
	// StateRunning means the polling loop is active.
	StateRunning
	// StateStopping means a stop was requested and the loop exits after the in-flight cycle.
	StateStopping
)

func (s State) String() string {
	switch s {
	case StateStopped:
		return "stopped"
	case StateRunning:
		return "running"
	case StateStopping:
		return "stopping"
	default:
		return fmt.Sprintf("unknown(%d)", int32(s))
	}
}

// CycleResult summarizes one poll cycle.
type CycleResult struct {
	// FromBlock and ToBlock bound the scanned range. Both are zero for a no-op cycle.
	FromBlock uint64
	ToBlock   uint64

	// Head is the chain head observed at the start of the cycle.
	Head uint64

	PoolsDiscovered int
	PoolEvents      int
	WatchedPools    int

	// Advanced reports whether the cursor moved to Head.
	Advanced bool
}

// Indexer polls the chain for factory and pool events and writes them to the store.
// A single Indexer must be the only writer of its store.
type Indexer struct {
	factory  common.Address
	interval time.Duration

	chain   rpc.ChainReader
	store   store.Writer
	decoder *contracts.Decoder
	log     *logger.Logger

	mu     sync.Mutex
	state  State
	stopCh chan struct{}
	doneCh chan struct{}
}

// New creates a stopped Indexer.
func New(cfg config.IndexerConfig, chain rpc.ChainReader, st store.Writer, log *logger.Logger) (*Indexer, error) {
	if chain == nil {
		return nil, errors.New("chain reader is required")
	}
	if st == nil {
		return nil, errors.New("store is required")
	}
	if log == nil {
		return nil, errors.New("logger is required")
	}

	factory, err := internalcommon.ParseAddress(cfg.FactoryAddress)
	if err != nil {
		return nil, fmt.Errorf("invalid factory address: %w", err)
	}

	decoder, err := contracts.NewDecoder()
	if err != nil {
		return nil, err
	}

	done := make(chan struct{})
	close(done)

	return &Indexer{
		factory:  factory,
		interval: cfg.PollingInterval.Duration,
		chain:    chain,
		store:    st,
		decoder:  decoder,
		log:      log.WithComponent(internalcommon.ComponentIndexer),
		state:    StateStopped,
		doneCh:   done,
	}, nil
}

// Start launches the polling loop. Calling Start while the loop is active is a no-op.
// Cancelling ctx has the same effect as Stop.
func (i *Indexer) Start(ctx context.Context) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.state != StateStopped {
		i.log.Debugw("start ignored", "state", i.state.String())
		return nil
	}

	i.state = StateRunning
	i.stopCh = make(chan struct{})
	i.doneCh = make(chan struct{})

	go i.run(ctx, i.stopCh, i.doneCh)

	i.log.Infow("indexer started",
		"factory", i.factory.Hex(),
		"polling_interval", i.interval.String(),
	)

	return nil
}

// Stop requests termination of the polling loop and returns immediately.
// The in-flight cycle, if any, completes first. Use Done to wait for the loop to exit.
func (i *Indexer) Stop() {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.state != StateRunning {
		return
	}

	i.state = StateStopping
	close(i.stopCh)
	i.log.Info("indexer stop requested")
}

// Done returns a channel closed once the polling loop has exited.
func (i *Indexer) Done() <-chan struct{} {
	i.mu.Lock()
	defer i.mu.Unlock()

	return i.doneCh
}

// State returns the current lifecycle state.
func (i *Indexer) State() State {
	i.mu.Lock()
	defer i.mu.Unlock()

	return i.state
}

func (i *Indexer) run(ctx context.Context, stop <-chan struct{}, done chan<- struct{}) {
	defer func() {
		i.mu.Lock()
		i.state = StateStopped
		i.mu.Unlock()

		close(done)
		i.log.Info("indexer stopped")
	}()

	// Cycles are never interrupted mid-flight; stop is only observed between cycles.
	cycleCtx := context.WithoutCancel(ctx)

	for {
		select {
		case <-stop:
			return
		case <-ctx.Done():
			return
		default:
		}

		i.runCycle(cycleCtx)

		timer := time.NewTimer(i.interval)
		select {
		case <-stop:
			timer.Stop()
			return
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
	}
}

func (i *Indexer) runCycle(ctx context.Context) {
	start := time.Now()

	result, err := i.PollOnce(ctx)
	duration := time.Since(start)

	switch {
	case err != nil:
		metrics.PollCycleLog(metrics.CycleFailed, duration)
		metrics.ErrorsInc(internalcommon.ComponentIndexer)
		metrics.ComponentHealthSet(internalcommon.ComponentIndexer, false)
		i.log.Errorw("poll cycle failed, range will be retried",
			"error", err,
			"from_block", result.FromBlock,
			"to_block", result.ToBlock,
		)
	case result.Advanced:
		metrics.PollCycleLog(metrics.CycleAdvanced, duration)
		metrics.ComponentHealthSet(internalcommon.ComponentIndexer, true)
		i.log.Infow("poll cycle completed",
			"from_block", result.FromBlock,
			"to_block", result.ToBlock,
			"pools_discovered", result.PoolsDiscovered,
			"pool_events", result.PoolEvents,
			"watched_pools", result.WatchedPools,
			"duration", duration.String(),
		)
	default:
		metrics.PollCycleLog(metrics.CycleIdle, duration)
		metrics.ComponentHealthSet(internalcommon.ComponentIndexer, true)
		i.log.Debugw("chain has not advanced", "head", result.Head)
	}
}

// PollOnce runs a single poll cycle: it scans (cursor, head] for factory and pool events,
// persists them and advances the cursor to head. On error nothing past the pool
// discovery step is persisted and the cursor stays where it was.
// A panic raised while polling is returned as an error wrapping ErrCyclePanic.
func (i *Indexer) PollOnce(ctx context.Context) (result CycleResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			result.Advanced = false
			err = fmt.Errorf("%w: %v", ErrCyclePanic, r)
		}
	}()

	return i.pollOnce(ctx)
}

func (i *Indexer) pollOnce(ctx context.Context) (CycleResult, error) {
	var result CycleResult

	lastBlock, err := i.store.LastBlock(ctx)
	if err != nil {
		return result, fmt.Errorf("failed to read cursor: %w", err)
	}

	head, err := i.chain.BlockNumber(ctx)
	if err != nil {
		return result, fmt.Errorf("failed to get head block: %w", err)
	}

	result.Head = head
	metrics.ChainHeadSet(head)
	metrics.LastIndexedBlockSet(lastBlock)

	if head <= lastBlock {
		return result, nil
	}

	result.FromBlock, result.ToBlock = lastBlock+1, head

	discovered, err := i.discoverPools(ctx, result.FromBlock, result.ToBlock)
	if err != nil {
		return result, err
	}
	result.PoolsDiscovered = discovered

	pools, err := i.store.PoolAddresses(ctx)
	if err != nil {
		return result, fmt.Errorf("failed to read pool addresses: %w", err)
	}
	result.WatchedPools = len(pools)
	metrics.WatchedPoolsSet(len(pools))

	events, err := i.fetchPoolEvents(ctx, pools, result.FromBlock, result.ToBlock)
	if err != nil {
		return result, err
	}

	if err := i.applyPoolEvents(ctx, events, head); err != nil {
		return result, err
	}

	result.PoolEvents = len(events)
	result.Advanced = true

	metrics.LastIndexedBlockSet(head)
	metrics.BlocksProcessedInc(result.ToBlock - result.FromBlock + 1)

	return result, nil
}

// discoverPools inserts every pool created by the factory in [from, to] and returns how many were new.
func (i *Indexer) discoverPools(ctx context.Context, from, to uint64) (int, error) {
	logs, err := i.filterLogs(ctx, i.factory, []common.Hash{i.decoder.PoolCreatedTopic()}, from, to)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch factory logs: %w", err)
	}

	if len(logs) == 0 {
		return 0, nil
	}

	created := make([]*contracts.PoolCreated, 0, len(logs))
	for _, log := range logs {
		event, err := i.decoder.DecodePoolCreated(log)
		if err != nil {
			return 0, fmt.Errorf("failed to decode factory log at block %d index %d: %w",
				log.BlockNumber, log.Index, err)
		}
		created = append(created, event)
	}

	timestamps, err := blockTimestampsOf(ctx, i.chain, created,
		func(e *contracts.PoolCreated) uint64 { return e.BlockNumber })
	if err != nil {
		return 0, err
	}

	var discovered []*contracts.PoolCreated
	err = i.store.Update(ctx, func(tx store.Tx) error {
		for _, event := range created {
			inserted, err := tx.InsertPool(&store.Pool{
				Address:             event.Pool,
				Creator:             event.Creator,
				MaxParticipants:     event.MaxParticipants,
				MonthlyContribution: event.MonthlyContribution.String(),
				Status:              store.PoolStatusPending,
				CreatedAt:           timestamps[event.BlockNumber],
				BlockNumber:         event.BlockNumber,
			})
			if err != nil {
				return fmt.Errorf("failed to insert pool %s: %w", event.Pool.Hex(), err)
			}
			if inserted {
				discovered = append(discovered, event)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	for _, event := range discovered {
		metrics.EventIndexedInc(contracts.EventPoolCreated)
		i.log.Infow("pool discovered",
			"pool", event.Pool.Hex(),
			"creator", event.Creator.Hex(),
			"max_participants", event.MaxParticipants,
			"monthly_contribution", event.MonthlyContribution.String(),
			"block", event.BlockNumber,
		)
	}

	return len(discovered), nil
}

// fetchPoolEvents fetches and decodes the events of each pool, one pool at a time.
func (i *Indexer) fetchPoolEvents(ctx context.Context, pools []common.Address,
	from, to uint64) ([]contracts.PoolEvent, error) {
	topics := i.decoder.PoolEventTopics()

	var events []contracts.PoolEvent
	for _, pool := range pools {
		logs, err := i.filterLogs(ctx, pool, topics, from, to)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch logs of pool %s: %w", pool.Hex(), err)
		}

		for _, log := range logs {
			event, err := i.decoder.DecodePoolEvent(log)
			if err != nil {
				return nil, fmt.Errorf("failed to decode log of pool %s at block %d index %d: %w",
					pool.Hex(), log.BlockNumber, log.Index, err)
			}
			events = append(events, event)
		}
	}

	return events, nil
}

// applyPoolEvents writes every pool event and moves the cursor to head in one transaction.
func (i *Indexer) applyPoolEvents(ctx context.Context, events []contracts.PoolEvent, head uint64) error {
	timestamps, err := blockTimestampsOf(ctx, i.chain, events,
		func(e contracts.PoolEvent) uint64 { return e.Meta().BlockNumber })
	if err != nil {
		return err
	}

	var notable []contracts.PoolEvent
	err = i.store.Update(ctx, func(tx store.Tx) error {
		for _, event := range events {
			changed, err := apply(tx, event, timestamps[event.Meta().BlockNumber])
			if err != nil {
				meta := event.Meta()
				return fmt.Errorf("failed to apply %s of pool %s at block %d index %d: %w",
					event.Name(), meta.Address.Hex(), meta.BlockNumber, meta.LogIndex, err)
			}
			if changed {
				notable = append(notable, event)
			}
		}

		return tx.SetLastBlock(head)
	})
	if err != nil {
		return err
	}

	for _, event := range notable {
		metrics.EventIndexedInc(event.Name())
		i.logEvent(event)
	}

	return nil
}

// apply maps a pool event to its store mutation. It reports whether the store changed.
func apply(tx store.Tx, event contracts.PoolEvent, timestamp uint64) (bool, error) {
	meta := event.Meta()

	switch e := event.(type) {
	case *contracts.ParticipantJoined:
		return tx.InsertParticipant(&store.Participant{
			PoolAddress:       meta.Address,
			Participant:       e.Participant,
			Collateral:        e.Collateral.String(),
			FirstContribution: e.FirstContribution.String(),
			JoinedAt:          timestamp,
			BlockNumber:       meta.BlockNumber,
		})
	case *contracts.PaymentMade:
		return true, tx.InsertPayment(&store.Payment{
			PoolAddress: meta.Address,
			Participant: e.Participant,
			Month:       e.Month,
			Amount:      e.Amount.String(),
			Status:      store.PaymentStatus(e.Status),
			PaidAt:      timestamp,
			BlockNumber: meta.BlockNumber,
			TxHash:      meta.TxHash,
			LogIndex:    meta.LogIndex,
		})
	case *contracts.DrawingCompleted:
		return true, tx.InsertDrawing(&store.Drawing{
			PoolAddress: meta.Address,
			Month:       e.Month,
			Winner:      e.Winner,
			PotAmount:   e.PotAmount.String(),
			DrawnAt:     timestamp,
			BlockNumber: meta.BlockNumber,
			TxHash:      meta.TxHash,
			LogIndex:    meta.LogIndex,
		})
	case *contracts.PoolActivated:
		return true, tx.UpdatePoolStatus(meta.Address, store.PoolStatusActive)
	case *contracts.PoolFinalized:
		return true, tx.UpdatePoolStatus(meta.Address, store.PoolStatusFinalized)
	default:
		return false, fmt.Errorf("unhandled pool event %T", event)
	}
}

func (i *Indexer) logEvent(event contracts.PoolEvent) {
	meta := event.Meta()

	switch e := event.(type) {
	case *contracts.ParticipantJoined:
		i.log.Infow("participant joined",
			"pool", meta.Address.Hex(),
			"participant", e.Participant.Hex(),
			"block", meta.BlockNumber,
		)
	case *contracts.DrawingCompleted:
		i.log.Infow("drawing completed",
			"pool", meta.Address.Hex(),
			"month", e.Month,
			"winner", e.Winner.Hex(),
			"pot_amount", e.PotAmount.String(),
			"block", meta.BlockNumber,
		)
	case *contracts.PoolActivated:
		i.log.Infow("pool activated", "pool", meta.Address.Hex(), "block", meta.BlockNumber)
	case *contracts.PoolFinalized:
		i.log.Infow("pool finalized",
			"pool", meta.Address.Hex(),
			"total_yield", e.TotalYield.String(),
			"block", meta.BlockNumber,
		)
	default:
		i.log.Debugw("pool event applied",
			"event", event.Name(),
			"pool", meta.Address.Hex(),
			"block", meta.BlockNumber,
		)
	}
}

func (i *Indexer) filterLogs(ctx context.Context, address common.Address, topics []common.Hash,
	from, to uint64) ([]types.Log, error) {
	logs, err := i.chain.FilterLogs(ctx, ethereum.FilterQuery{
		FromBlock: new(big.Int).SetUint64(from),
		ToBlock:   new(big.Int).SetUint64(to),
		Addresses: []common.Address{address},
		Topics:    [][]common.Hash{topics},
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(logs, func(a, b int) bool {
		if logs[a].BlockNumber != logs[b].BlockNumber {
			return logs[a].BlockNumber < logs[b].BlockNumber
		}
		if logs[a].TxIndex != logs[b].TxIndex {
			return logs[a].TxIndex < logs[b].TxIndex
		}
		return logs[a].Index < logs[b].Index
	})

	return logs, nil
}

// blockTimestampsOf resolves the timestamp of every distinct block the items belong to.
func blockTimestampsOf[T any](ctx context.Context, chain rpc.ChainReader, items []T,
	blockOf func(T) uint64) (map[uint64]uint64, error) {
	timestamps := make(map[uint64]uint64)
	for _, item := range items {
		block := blockOf(item)
		if _, ok := timestamps[block]; ok {
			continue
		}

		ts, err := chain.BlockTimestamp(ctx, block)
		if err != nil {
			return nil, fmt.Errorf("failed to get timestamp of block %d: %w", block, err)
		}
		timestamps[block] = ts
	}

	return timestamps, nil
}
