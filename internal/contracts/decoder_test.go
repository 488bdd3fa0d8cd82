package contracts_test

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/starosca/pool-indexer/internal/contracts"
	"github.com/starosca/pool-indexer/internal/testutil"
	"github.com/stretchr/testify/require"
)

var (
	factory = common.HexToAddress("0x6D59cE9DfC9dB97C8b4EBCF53807b606BB4Ed370")
	pool    = common.HexToAddress("0xAAA")
	creator = common.HexToAddress("0xCCC")
	alice   = common.HexToAddress("0xA11CE")
)

func newDecoder(t *testing.T) *contracts.Decoder {
	t.Helper()

	d, err := contracts.NewDecoder()
	require.NoError(t, err)
	return d
}

func TestDecoder_Topics(t *testing.T) {
	t.Parallel()

	d := newDecoder(t)

	require.Equal(t,
		crypto.Keccak256Hash([]byte("PoolCreated(address,address,uint8,uint256)")),
		d.PoolCreatedTopic())

	topics := d.PoolEventTopics()
	require.Equal(t, []common.Hash{
		crypto.Keccak256Hash([]byte("ParticipantJoined(address,uint256,uint256)")),
		crypto.Keccak256Hash([]byte("PaymentMade(address,uint8,uint256,uint8)")),
		crypto.Keccak256Hash([]byte("DrawingCompleted(uint8,address,uint256)")),
		crypto.Keccak256Hash([]byte("PoolActivated(uint256)")),
		crypto.Keccak256Hash([]byte("PoolFinalized(uint256)")),
	}, topics)

	seen := make(map[common.Hash]struct{}, len(topics))
	for _, topic := range topics {
		require.NotContains(t, seen, topic)
		seen[topic] = struct{}{}
	}
	require.NotContains(t, seen, d.PoolCreatedTopic())
}

func TestDecoder_DecodePoolCreated(t *testing.T) {
	t.Parallel()

	d := newDecoder(t)

	log := testutil.PoolCreatedLog(t, factory, pool, creator, 5, big.NewInt(100_000000), 1000)
	log.Index = 3

	event, err := d.DecodePoolCreated(log)
	require.NoError(t, err)
	require.Equal(t, pool, event.Pool)
	require.Equal(t, creator, event.Creator)
	require.Equal(t, uint8(5), event.MaxParticipants)
	require.Equal(t, "100000000", event.MonthlyContribution.String())
	require.Equal(t, uint64(1000), event.BlockNumber)
	require.Equal(t, uint(3), event.LogIndex)
	require.Equal(t, factory, event.Address)

	_, err = d.DecodePoolCreated(testutil.PoolActivatedLog(t, pool, big.NewInt(1), 1000))
	require.ErrorIs(t, err, contracts.ErrUnknownEvent)
}

func TestDecoder_DecodePoolEvent(t *testing.T) {
	t.Parallel()

	d := newDecoder(t)

	tests := []struct {
		name  string
		log   types.Log
		check func(t *testing.T, event contracts.PoolEvent)
	}{
		{
			name: "participant joined",
			log:  testutil.ParticipantJoinedLog(t, pool, alice, big.NewInt(500), big.NewInt(100), 1001),
			check: func(t *testing.T, event contracts.PoolEvent) {
				joined, ok := event.(*contracts.ParticipantJoined)
				require.True(t, ok)
				require.Equal(t, alice, joined.Participant)
				require.Equal(t, "500", joined.Collateral.String())
				require.Equal(t, "100", joined.FirstContribution.String())
			},
		},
		{
			name: "payment made",
			log:  testutil.PaymentMadeLog(t, pool, alice, 2, big.NewInt(100), 1, 1002),
			check: func(t *testing.T, event contracts.PoolEvent) {
				payment, ok := event.(*contracts.PaymentMade)
				require.True(t, ok)
				require.Equal(t, alice, payment.Participant)
				require.Equal(t, uint8(2), payment.Month)
				require.Equal(t, "100", payment.Amount.String())
				require.Equal(t, uint8(1), payment.Status)
			},
		},
		{
			name: "drawing completed",
			log:  testutil.DrawingCompletedLog(t, pool, alice, 1, big.NewInt(500), 1003),
			check: func(t *testing.T, event contracts.PoolEvent) {
				drawing, ok := event.(*contracts.DrawingCompleted)
				require.True(t, ok)
				require.Equal(t, alice, drawing.Winner)
				require.Equal(t, uint8(1), drawing.Month)
				require.Equal(t, "500", drawing.PotAmount.String())
			},
		},
		{
			name: "pool activated",
			log:  testutil.PoolActivatedLog(t, pool, big.NewInt(1_700_000_000), 1004),
			check: func(t *testing.T, event contracts.PoolEvent) {
				activated, ok := event.(*contracts.PoolActivated)
				require.True(t, ok)
				require.Equal(t, int64(1_700_000_000), activated.Timestamp.Int64())
			},
		},
		{
			name: "pool finalized",
			log:  testutil.PoolFinalizedLog(t, pool, big.NewInt(42), 1005),
			check: func(t *testing.T, event contracts.PoolEvent) {
				finalized, ok := event.(*contracts.PoolFinalized)
				require.True(t, ok)
				require.Equal(t, int64(42), finalized.TotalYield.Int64())
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event, err := d.DecodePoolEvent(tt.log)
			require.NoError(t, err)
			require.Equal(t, pool, event.Meta().Address)
			require.Equal(t, tt.log.BlockNumber, event.Meta().BlockNumber)
			tt.check(t, event)
		})
	}
}

func TestDecoder_DecodePoolEventErrors(t *testing.T) {
	t.Parallel()

	d := newDecoder(t)

	t.Run("no topics", func(t *testing.T) {
		_, err := d.DecodePoolEvent(types.Log{Address: pool})
		require.ErrorIs(t, err, contracts.ErrUnknownEvent)
	})

	t.Run("unknown topic", func(t *testing.T) {
		_, err := d.DecodePoolEvent(types.Log{Address: pool, Topics: []common.Hash{common.HexToHash("0x01")}})
		require.ErrorIs(t, err, contracts.ErrUnknownEvent)
	})

	t.Run("factory event on pool", func(t *testing.T) {
		log := testutil.PoolCreatedLog(t, factory, pool, creator, 5, big.NewInt(1), 10)
		_, err := d.DecodePoolEvent(log)
		require.ErrorIs(t, err, contracts.ErrUnknownEvent)
	})

	t.Run("truncated data", func(t *testing.T) {
		log := testutil.PaymentMadeLog(t, pool, alice, 1, big.NewInt(100), 1, 10)
		log.Data = log.Data[:32]
		_, err := d.DecodePoolEvent(log)
		require.Error(t, err)
		require.NotErrorIs(t, err, contracts.ErrUnknownEvent)
	})

	t.Run("single argument event without data", func(t *testing.T) {
		for _, log := range []types.Log{
			testutil.PoolActivatedLog(t, pool, big.NewInt(1), 10),
			testutil.PoolFinalizedLog(t, pool, big.NewInt(1), 10),
		} {
			log.Data = nil
			event, err := d.DecodePoolEvent(log)
			require.Error(t, err)
			require.Nil(t, event)
		}
	})

	t.Run("missing indexed topic", func(t *testing.T) {
		log := testutil.ParticipantJoinedLog(t, pool, alice, big.NewInt(1), big.NewInt(1), 10)
		log.Topics = log.Topics[:1]
		_, err := d.DecodePoolEvent(log)
		require.ErrorContains(t, err, "indexed topics")
	})
}

func TestDecoder_SingleArgumentEventsKeepMetadata(t *testing.T) {
	t.Parallel()

	d := newDecoder(t)

	tests := []struct {
		name     string
		log      types.Log
		expected int64
		value    func(contracts.PoolEvent) *big.Int
	}{
		{
			name:     "pool activated",
			log:      testutil.PoolActivatedLog(t, pool, big.NewInt(1_700_000_123), 77),
			expected: 1_700_000_123,
			value: func(event contracts.PoolEvent) *big.Int {
				return event.(*contracts.PoolActivated).Timestamp
			},
		},
		{
			name:     "pool finalized",
			log:      testutil.PoolFinalizedLog(t, pool, big.NewInt(987654321), 78),
			expected: 987654321,
			value: func(event contracts.PoolEvent) *big.Int {
				return event.(*contracts.PoolFinalized).TotalYield
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log := tt.log
			log.Index = 4
			log.TxIndex = 2
			log.TxHash = common.HexToHash("0xfeed")

			var (
				event contracts.PoolEvent
				err   error
			)
			require.NotPanics(t, func() { event, err = d.DecodePoolEvent(log) })
			require.NoError(t, err)
			require.Equal(t, contracts.LogMeta{
				Address:     pool,
				BlockNumber: log.BlockNumber,
				TxHash:      log.TxHash,
				TxIndex:     2,
				LogIndex:    4,
			}, event.Meta())

			require.Equal(t, tt.expected, tt.value(event).Int64())
		})
	}
}
