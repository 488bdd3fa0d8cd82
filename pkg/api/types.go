package api

import "github.com/starosca/pool-indexer/pkg/store"

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code"`
}

// HealthResponse represents a health check response.
type HealthResponse struct {
	Status string `json:"status"`
	// Timestamp is the server time in Unix milliseconds
	Timestamp int64 `json:"timestamp"`
}

// PoolsResponse lists pools.
type PoolsResponse struct {
	Pools []*store.Pool `json:"pools"`
}

// PoolDetailResponse is a pool with everything recorded about it.
type PoolDetailResponse struct {
	Pool         *store.Pool          `json:"pool"`
	Participants []*store.Participant `json:"participants"`
	Payments     []*store.Payment     `json:"payments"`
	Drawings     []*store.Drawing     `json:"drawings"`
}

// ParticipantsResponse lists the members of a pool.
type ParticipantsResponse struct {
	Participants []*store.Participant `json:"participants"`
}

// PaymentsResponse lists the payments of a pool.
type PaymentsResponse struct {
	Payments []*store.Payment `json:"payments"`
}

// DrawingsResponse lists the drawings of a pool.
type DrawingsResponse struct {
	Drawings []*store.Drawing `json:"drawings"`
}

// SnapshotsResponse lists yield snapshots, newest first.
type SnapshotsResponse struct {
	Snapshots []*store.YieldSnapshot `json:"snapshots"`
}

// LatestSnapshotResponse holds the newest yield snapshot, or null when there is none.
type LatestSnapshotResponse struct {
	Snapshot *store.YieldSnapshot `json:"snapshot"`
}
