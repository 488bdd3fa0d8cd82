package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/russross/meddler"
	pkgstore "github.com/starosca/pool-indexer/pkg/store"
)

// ListPools returns pools matching filter, newest first.
func (s *Store) ListPools(ctx context.Context, filter pkgstore.PoolFilter) ([]*pkgstore.Pool, error) {
	var (
		conditions []string
		args       []any
	)

	if filter.Status != nil {
		conditions = append(conditions, "status = ?")
		args = append(args, uint8(*filter.Status))
	}
	if filter.Creator != nil {
		conditions = append(conditions, "creator = ?")
		args = append(args, filter.Creator.Hex())
	}

	query := "SELECT * FROM pools"
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at DESC, block_number DESC"

	pools := []*pkgstore.Pool{}
	if err := s.queryAll(ctx, &pools, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list pools: %w", err)
	}

	return pools, nil
}

// GetPool returns a single pool or pkgstore.ErrNotFound.
func (s *Store) GetPool(ctx context.Context, address common.Address) (*pkgstore.Pool, error) {
	pools := []*pkgstore.Pool{}
	if err := s.queryAll(ctx, &pools, `SELECT * FROM pools WHERE address = ?`, address.Hex()); err != nil {
		return nil, fmt.Errorf("failed to get pool %s: %w", address.Hex(), err)
	}

	if len(pools) == 0 {
		return nil, pkgstore.ErrNotFound
	}

	return pools[0], nil
}

func (s *Store) ListParticipants(ctx context.Context, pool common.Address) ([]*pkgstore.Participant, error) {
	participants := []*pkgstore.Participant{}
	if err := s.queryAll(ctx, &participants,
		`SELECT * FROM participants WHERE pool_address = ? ORDER BY block_number, id`, pool.Hex()); err != nil {
		return nil, fmt.Errorf("failed to list participants: %w", err)
	}

	return participants, nil
}

// ListPayments returns payments of a pool ordered by month and payment time, optionally for one month.
func (s *Store) ListPayments(ctx context.Context, pool common.Address, month *uint8) ([]*pkgstore.Payment, error) {
	query := `SELECT * FROM payments WHERE pool_address = ?`
	args := []any{pool.Hex()}

	if month != nil {
		query += ` AND month = ?`
		args = append(args, *month)
	}
	query += ` ORDER BY month, paid_at, id`

	payments := []*pkgstore.Payment{}
	if err := s.queryAll(ctx, &payments, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}

	return payments, nil
}

func (s *Store) ListDrawings(ctx context.Context, pool common.Address) ([]*pkgstore.Drawing, error) {
	drawings := []*pkgstore.Drawing{}
	if err := s.queryAll(ctx, &drawings,
		`SELECT * FROM drawings WHERE pool_address = ? ORDER BY month, id`, pool.Hex()); err != nil {
		return nil, fmt.Errorf("failed to list drawings: %w", err)
	}

	return drawings, nil
}

// PoolsByParticipant returns the pools an address has joined, newest first.
func (s *Store) PoolsByParticipant(ctx context.Context, participant common.Address) ([]*pkgstore.Pool, error) {
	pools := []*pkgstore.Pool{}
	if err := s.queryAll(ctx, &pools, `
		SELECT p.* FROM pools p
		INNER JOIN participants pt ON p.address = pt.pool_address
		WHERE pt.participant = ?
		ORDER BY p.created_at DESC, p.block_number DESC
	`, participant.Hex()); err != nil {
		return nil, fmt.Errorf("failed to list pools of participant: %w", err)
	}

	return pools, nil
}

// YieldSnapshots returns up to limit snapshots, newest first.
func (s *Store) YieldSnapshots(ctx context.Context, limit int) ([]*pkgstore.YieldSnapshot, error) {
	snapshots := []*pkgstore.YieldSnapshot{}
	if err := s.queryAll(ctx, &snapshots,
		`SELECT * FROM yield_snapshots ORDER BY timestamp DESC, id DESC LIMIT ?`, limit); err != nil {
		return nil, fmt.Errorf("failed to list yield snapshots: %w", err)
	}

	return snapshots, nil
}

// LatestYieldSnapshot returns the newest snapshot or pkgstore.ErrNotFound.
func (s *Store) LatestYieldSnapshot(ctx context.Context) (*pkgstore.YieldSnapshot, error) {
	snapshots, err := s.YieldSnapshots(ctx, 1)
	if err != nil {
		return nil, err
	}

	if len(snapshots) == 0 {
		return nil, pkgstore.ErrNotFound
	}

	return snapshots[0], nil
}

func (s *Store) Status(ctx context.Context) (*pkgstore.IndexerStatus, error) {
	lastBlock, err := s.LastBlock(ctx)
	if err != nil {
		return nil, err
	}

	unlock := s.maintenance.AcquireOperationLock()
	defer unlock()

	var poolCount uint64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM pools`).Scan(&poolCount); err != nil {
		return nil, fmt.Errorf("failed to count pools: %w", err)
	}

	return &pkgstore.IndexerStatus{LastBlock: lastBlock, PoolCount: poolCount}, nil
}

// queryAll runs a meddler scan under the operation lock.
func (s *Store) queryAll(ctx context.Context, dst any, query string, args ...any) error {
	unlock := s.maintenance.AcquireOperationLock()
	defer unlock()

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	if err := meddler.ScanAll(rows, dst); err != nil {
		return err
	}

	return rows.Err()
}
