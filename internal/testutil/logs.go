package testutil

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/starosca/pool-indexer/internal/contracts"
	"github.com/stretchr/testify/require"
)

// PoolCreatedLog builds a factory PoolCreated log at the given block.
func PoolCreatedLog(t *testing.T, factory, pool, creator common.Address,
	maxParticipants uint8, monthlyContribution *big.Int, block uint64) types.Log {
	t.Helper()

	factoryABI, err := contracts.FactoryABI()
	require.NoError(t, err)

	return buildLog(t, factoryABI.Events[contracts.EventPoolCreated], factory, block,
		[]common.Hash{addressTopic(pool), addressTopic(creator)},
		maxParticipants, monthlyContribution)
}

// ParticipantJoinedLog builds a pool ParticipantJoined log.
func ParticipantJoinedLog(t *testing.T, pool, participant common.Address,
	collateral, firstContribution *big.Int, block uint64) types.Log {
	t.Helper()

	return poolLog(t, contracts.EventParticipantJoined, pool, block,
		[]common.Hash{addressTopic(participant)}, collateral, firstContribution)
}

// PaymentMadeLog builds a pool PaymentMade log.
func PaymentMadeLog(t *testing.T, pool, participant common.Address,
	month uint8, amount *big.Int, status uint8, block uint64) types.Log {
	t.Helper()

	return poolLog(t, contracts.EventPaymentMade, pool, block,
		[]common.Hash{addressTopic(participant)}, month, amount, status)
}

// DrawingCompletedLog builds a pool DrawingCompleted log.
func DrawingCompletedLog(t *testing.T, pool, winner common.Address,
	month uint8, potAmount *big.Int, block uint64) types.Log {
	t.Helper()

	return poolLog(t, contracts.EventDrawingCompleted, pool, block,
		[]common.Hash{addressTopic(winner)}, month, potAmount)
}

// PoolActivatedLog builds a pool PoolActivated log.
func PoolActivatedLog(t *testing.T, pool common.Address, timestamp *big.Int, block uint64) types.Log {
	t.Helper()

	return poolLog(t, contracts.EventPoolActivated, pool, block, nil, timestamp)
}

// PoolFinalizedLog builds a pool PoolFinalized log.
func PoolFinalizedLog(t *testing.T, pool common.Address, totalYield *big.Int, block uint64) types.Log {
	t.Helper()

	return poolLog(t, contracts.EventPoolFinalized, pool, block, nil, totalYield)
}

func poolLog(t *testing.T, name string, pool common.Address, block uint64,
	indexed []common.Hash, values ...any) types.Log {
	t.Helper()

	poolABI, err := contracts.PoolABI()
	require.NoError(t, err)

	return buildLog(t, poolABI.Events[name], pool, block, indexed, values...)
}

func buildLog(t *testing.T, event abi.Event, address common.Address, block uint64,
	indexed []common.Hash, values ...any) types.Log {
	t.Helper()

	data, err := event.Inputs.NonIndexed().Pack(values...)
	require.NoError(t, err)

	return types.Log{
		Address:     address,
		Topics:      append([]common.Hash{event.ID}, indexed...),
		Data:        data,
		BlockNumber: block,
		TxHash:      common.BigToHash(new(big.Int).SetUint64(block)),
		BlockHash:   common.BigToHash(new(big.Int).SetUint64(block + 1)),
	}
}

func addressTopic(addr common.Address) common.Hash {
	return common.BytesToHash(addr.Bytes())
}
