package store

import (
	"context"
	"testing"

	"github.com/russross/meddler"
	pkgstore "github.com/starosca/pool-indexer/pkg/store"
	"github.com/stretchr/testify/require"
)

func seedPools(t *testing.T, s *Store) {
	t.Helper()

	require.NoError(t, s.Update(context.Background(), func(tx pkgstore.Tx) error {
		a := testPool(poolA, 100)
		b := testPool(poolB, 200)
		b.Creator = alice

		for _, p := range []*pkgstore.Pool{a, b} {
			if _, err := tx.InsertPool(p); err != nil {
				return err
			}
		}

		if err := tx.UpdatePoolStatus(poolB, pkgstore.PoolStatusActive); err != nil {
			return err
		}

		_, err := tx.InsertParticipant(&pkgstore.Participant{
			PoolAddress: poolA, Participant: bob, Collateral: "1", FirstContribution: "1", JoinedAt: 1, BlockNumber: 101,
		})
		return err
	}))
}

func TestListPools(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	seedPools(t, s)

	active := pkgstore.PoolStatusActive
	pending := pkgstore.PoolStatusPending

	tests := []struct {
		name     string
		filter   pkgstore.PoolFilter
		expected []string
	}{
		{name: "no filter newest first", filter: pkgstore.PoolFilter{}, expected: []string{poolB.Hex(), poolA.Hex()}},
		{name: "by status", filter: pkgstore.PoolFilter{Status: &active}, expected: []string{poolB.Hex()}},
		{name: "by creator", filter: pkgstore.PoolFilter{Creator: &creatorC}, expected: []string{poolA.Hex()}},
		{name: "status and creator", filter: pkgstore.PoolFilter{Status: &pending, Creator: &alice}, expected: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pools, err := s.ListPools(context.Background(), tt.filter)
			require.NoError(t, err)

			got := []string{}
			for _, p := range pools {
				got = append(got, p.Address.Hex())
			}
			require.Equal(t, tt.expected, got)
		})
	}
}

func TestGetPool_NotFound(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)

	_, err := s.GetPool(context.Background(), poolA)
	require.ErrorIs(t, err, pkgstore.ErrNotFound)
}

func TestPoolsByParticipant(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	seedPools(t, s)

	pools, err := s.PoolsByParticipant(context.Background(), bob)
	require.NoError(t, err)
	require.Len(t, pools, 1)
	require.Equal(t, poolA, pools[0].Address)

	pools, err = s.PoolsByParticipant(context.Background(), alice)
	require.NoError(t, err)
	require.Empty(t, pools)
}

func TestYieldSnapshots(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newTestStore(t)

	_, err := s.LatestYieldSnapshot(ctx)
	require.ErrorIs(t, err, pkgstore.ErrNotFound)

	// snapshots are written by the yield workflow, not by the indexer
	for i, ts := range []int64{300, 100, 200} {
		require.NoError(t, meddler.Insert(s.DB(), "yield_snapshots", &pkgstore.YieldSnapshot{
			Timestamp:      ts,
			AaveAPY:        int64(400 + i),
			CompoundAPY:    350,
			MoonwellAPY:    510,
			ActiveProtocol: "moonwell",
			TotalDeposits:  "1000000000",
		}))
	}

	snapshots, err := s.YieldSnapshots(ctx, 2)
	require.NoError(t, err)
	require.Len(t, snapshots, 2)
	require.Equal(t, int64(300), snapshots[0].Timestamp)
	require.Equal(t, int64(200), snapshots[1].Timestamp)

	latest, err := s.LatestYieldSnapshot(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(300), latest.Timestamp)
	require.Equal(t, "moonwell", latest.ActiveProtocol)
}

func TestStatus(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newTestStore(t)
	seedPools(t, s)

	require.NoError(t, s.Update(ctx, func(tx pkgstore.Tx) error { return tx.SetLastBlock(1000) }))

	status, err := s.Status(ctx)
	require.NoError(t, err)
	require.Equal(t, &pkgstore.IndexerStatus{LastBlock: 1000, PoolCount: 2}, status)
}
