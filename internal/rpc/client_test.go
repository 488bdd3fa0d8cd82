package rpc

import (
	"context"
	"fmt"
	"math/big"
	"sync"
	"testing"

	"github.com/ethereum/go-ethereum"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/starosca/pool-indexer/internal/logger"
	"github.com/starosca/pool-indexer/pkg/config"
	"github.com/stretchr/testify/require"
)

type tooManyResultsError struct {
	from, to uint64
}

func (e *tooManyResultsError) Error() string  { return "query exceeds max results" }
func (e *tooManyResultsError) ErrorCode() int { return -32005 }
func (e *tooManyResultsError) ErrorData() any {
	return fmt.Sprintf("Query returned more than 10000 results. Try with this block range [%#x, %#x].", e.from, e.to)
}

type filterArg struct {
	FromBlock hexutil.Uint64       `json:"fromBlock"`
	ToBlock   hexutil.Uint64       `json:"toBlock"`
	Address   []ethcommon.Address `json:"address"`
}

type getLogsCall struct {
	from, to uint64
}

// fakeEth serves the eth_ namespace subset the client uses.
type fakeEth struct {
	mu sync.Mutex

	head      uint64
	safe      uint64
	finalized uint64
	logs      []types.Log

	// maxRange rejects eth_getLogs spanning more blocks than this, when non-zero.
	maxRange uint64
	suggest  bool

	headerCalls int
	logCalls    []getLogsCall
}

func (f *fakeEth) BlockNumber() hexutil.Uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()

	return hexutil.Uint64(f.head)
}

func (f *fakeEth) GetBlockByNumber(number rpc.BlockNumber, _ bool) (*types.Header, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.headerCalls++

	var n uint64
	switch number {
	case rpc.SafeBlockNumber:
		n = f.safe
	case rpc.FinalizedBlockNumber:
		n = f.finalized
	case rpc.LatestBlockNumber:
		n = f.head
	default:
		n = uint64(number.Int64())
	}

	return &types.Header{
		Number:     new(big.Int).SetUint64(n),
		Difficulty: big.NewInt(0),
		Time:       1_700_000_000 + n*2,
	}, nil
}

func (f *fakeEth) GetLogs(arg filterArg) ([]types.Log, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	from, to := uint64(arg.FromBlock), uint64(arg.ToBlock)
	f.logCalls = append(f.logCalls, getLogsCall{from: from, to: to})

	if f.maxRange > 0 && to-from+1 > f.maxRange {
		if f.suggest {
			return nil, &tooManyResultsError{from: from, to: from + f.maxRange - 1}
		}
		return nil, &tooManyResultsError{from: from, to: to}
	}

	result := []types.Log{}
	for _, l := range f.logs {
		if l.BlockNumber < from || l.BlockNumber > to {
			continue
		}
		if len(arg.Address) > 0 && arg.Address[0] != l.Address {
			continue
		}
		result = append(result, l)
	}

	// newest first, so the client has to sort
	for i, j := 0, len(result)-1; i < j; i, j = i+1, j-1 {
		result[i], result[j] = result[j], result[i]
	}

	return result, nil
}

func newTestClient(t *testing.T, fake *fakeEth, mutate func(*config.IndexerConfig)) *Client {
	t.Helper()

	server := rpc.NewServer()
	require.NoError(t, server.RegisterName("eth", fake))
	t.Cleanup(server.Stop)

	cfg := config.IndexerConfig{}
	cfg.ApplyDefaults()
	if mutate != nil {
		mutate(&cfg)
	}

	client, err := newClient(rpc.DialInProc(server), cfg, logger.NewNopLogger())
	require.NoError(t, err)
	t.Cleanup(client.Close)

	return client
}

func testLog(addr ethcommon.Address, block uint64, txIndex, index uint) types.Log {
	return types.Log{
		Address:     addr,
		Topics:      []ethcommon.Hash{ethcommon.HexToHash("0x01")},
		Data:        []byte{},
		BlockNumber: block,
		TxHash:      ethcommon.BigToHash(new(big.Int).SetUint64(block*100 + uint64(txIndex))),
		TxIndex:     txIndex,
		BlockHash:   ethcommon.BigToHash(new(big.Int).SetUint64(block)),
		Index:       index,
	}
}

func TestClient_BlockNumber(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		finality string
		lag      uint64
		want     uint64
	}{
		{name: "latest", finality: config.FinalityLatest, want: 1000},
		{name: "latest with lag", finality: config.FinalityLatest, lag: 12, want: 988},
		{name: "lag larger than head", finality: config.FinalityLatest, lag: 5000, want: 0},
		{name: "safe", finality: config.FinalitySafe, want: 990},
		{name: "finalized", finality: config.FinalityFinalized, want: 960},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			fake := &fakeEth{head: 1000, safe: 990, finalized: 960}
			client := newTestClient(t, fake, func(cfg *config.IndexerConfig) {
				cfg.Finality = tt.finality
				cfg.FinalizedLag = tt.lag
			})

			head, err := client.BlockNumber(context.Background())
			require.NoError(t, err)
			require.Equal(t, tt.want, head)
		})
	}
}

func TestClient_BlockTimestampCached(t *testing.T) {
	t.Parallel()

	fake := &fakeEth{head: 100}
	client := newTestClient(t, fake, nil)

	for range 3 {
		ts, err := client.BlockTimestamp(context.Background(), 42)
		require.NoError(t, err)
		require.Equal(t, uint64(1_700_000_084), ts)
	}

	fake.mu.Lock()
	defer fake.mu.Unlock()
	require.Equal(t, 1, fake.headerCalls)
}

func TestClient_FilterLogs(t *testing.T) {
	t.Parallel()

	pool := ethcommon.HexToAddress("0xAAA")
	other := ethcommon.HexToAddress("0xBBB")

	logs := []types.Log{
		testLog(pool, 10, 0, 0),
		testLog(pool, 10, 1, 3),
		testLog(pool, 10, 1, 2),
		testLog(other, 11, 0, 0),
		testLog(pool, 25, 0, 0),
		testLog(pool, 40, 2, 7),
	}

	query := func(from, to uint64) ethereum.FilterQuery {
		return ethereum.FilterQuery{
			FromBlock: new(big.Int).SetUint64(from),
			ToBlock:   new(big.Int).SetUint64(to),
			Addresses: []ethcommon.Address{pool},
		}
	}

	wantOrder := []struct {
		block   uint64
		txIndex uint
		index   uint
	}{
		{10, 0, 0},
		{10, 1, 2},
		{10, 1, 3},
		{25, 0, 0},
		{40, 2, 7},
	}

	requireOrder := func(t *testing.T, got []types.Log) {
		t.Helper()

		require.Len(t, got, len(wantOrder))
		for i, w := range wantOrder {
			require.Equal(t, w.block, got[i].BlockNumber)
			require.Equal(t, w.txIndex, got[i].TxIndex)
			require.Equal(t, w.index, got[i].Index)
		}
	}

	t.Run("single request sorted", func(t *testing.T) {
		t.Parallel()

		fake := &fakeEth{logs: logs}
		client := newTestClient(t, fake, nil)

		got, err := client.FilterLogs(context.Background(), query(1, 50))
		require.NoError(t, err)
		requireOrder(t, got)
		require.Equal(t, []getLogsCall{{1, 50}}, fake.logCalls)
	})

	t.Run("chunked", func(t *testing.T) {
		t.Parallel()

		fake := &fakeEth{logs: logs}
		client := newTestClient(t, fake, func(cfg *config.IndexerConfig) {
			cfg.ChunkSize = 20
		})

		got, err := client.FilterLogs(context.Background(), query(1, 50))
		require.NoError(t, err)
		requireOrder(t, got)
		require.Equal(t, []getLogsCall{{1, 20}, {21, 40}, {41, 50}}, fake.logCalls)
	})

	t.Run("narrowed to suggested range", func(t *testing.T) {
		t.Parallel()

		fake := &fakeEth{logs: logs, maxRange: 15, suggest: true}
		client := newTestClient(t, fake, nil)

		got, err := client.FilterLogs(context.Background(), query(1, 50))
		require.NoError(t, err)
		requireOrder(t, got)
		require.Equal(t, getLogsCall{1, 15}, fake.logCalls[1])
		require.Equal(t, uint64(50), fake.logCalls[len(fake.logCalls)-1].to)
	})

	t.Run("halved without suggestion", func(t *testing.T) {
		t.Parallel()

		fake := &fakeEth{logs: logs, maxRange: 15}
		client := newTestClient(t, fake, nil)

		got, err := client.FilterLogs(context.Background(), query(1, 50))
		require.NoError(t, err)
		requireOrder(t, got)
		require.Equal(t, getLogsCall{1, 25}, fake.logCalls[1])
		require.Equal(t, getLogsCall{1, 13}, fake.logCalls[2])
	})

	t.Run("missing bounds", func(t *testing.T) {
		t.Parallel()

		client := newTestClient(t, &fakeEth{}, nil)

		_, err := client.FilterLogs(context.Background(), ethereum.FilterQuery{})
		require.Error(t, err)
	})

	t.Run("reversed range", func(t *testing.T) {
		t.Parallel()

		client := newTestClient(t, &fakeEth{}, nil)

		_, err := client.FilterLogs(context.Background(), query(10, 5))
		require.ErrorContains(t, err, "invalid block range")
	})
}
