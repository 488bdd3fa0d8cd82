package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/ethereum/go-ethereum/common"
	internalcommon "github.com/starosca/pool-indexer/internal/common"
	"github.com/starosca/pool-indexer/internal/logger"
	"github.com/starosca/pool-indexer/pkg/store"
)

const (
	defaultSnapshotLimit = 50
	maxSnapshotLimit     = 200
)

// Handler handles HTTP requests for the API.
type Handler struct {
	store store.Reader
	log   *logger.Logger
}

// NewHandler creates a new API handler.
func NewHandler(reader store.Reader, log *logger.Logger) *Handler {
	return &Handler{
		store: reader,
		log:   log,
	}
}

// Health reports that the API is up.
// @Summary Health check
// @Tags Health
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /health [get]
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UnixMilli(),
	})
}

// ListPools lists pools, newest first.
// @Summary List pools
// @Tags Pools
// @Produce json
// @Param status query int false "Pool status (0=Pending, 1=Active, 2=Completed, 3=Finalized, 4=Cancelled)"
// @Param creator query string false "Creator address"
// @Success 200 {object} PoolsResponse
// @Failure 400 {object} ErrorResponse "Invalid parameters"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /pools [get]
func (h *Handler) ListPools(w http.ResponseWriter, r *http.Request) {
	var filter store.PoolFilter

	if raw := r.URL.Query().Get("status"); raw != "" {
		value, err := strconv.ParseUint(raw, 10, 8)
		status := store.PoolStatus(value)
		if err != nil || !status.Valid() {
			respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid status: %s", raw))
			return
		}
		filter.Status = &status
	}

	if raw := r.URL.Query().Get("creator"); raw != "" {
		creator, err := internalcommon.ParseAddress(raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid creator: %v", err))
			return
		}
		filter.Creator = &creator
	}

	pools, err := h.store.ListPools(r.Context(), filter)
	if err != nil {
		h.internalError(w, "list pools", err)
		return
	}

	respondJSON(w, http.StatusOK, PoolsResponse{Pools: nonNil(pools)})
}

// GetPool returns a pool with its participants, payments and drawings.
// @Summary Pool detail
// @Tags Pools
// @Produce json
// @Param address path string true "Pool address"
// @Success 200 {object} PoolDetailResponse
// @Failure 400 {object} ErrorResponse "Invalid address"
// @Failure 404 {object} ErrorResponse "Pool not found"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /pools/{address} [get]
func (h *Handler) GetPool(w http.ResponseWriter, r *http.Request) {
	address, ok := pathAddress(w, r)
	if !ok {
		return
	}

	ctx := r.Context()

	pool, err := h.store.GetPool(ctx, address)
	if errors.Is(err, store.ErrNotFound) {
		respondError(w, http.StatusNotFound, "Pool not found")
		return
	}
	if err != nil {
		h.internalError(w, "get pool", err)
		return
	}

	participants, err := h.store.ListParticipants(ctx, address)
	if err != nil {
		h.internalError(w, "list participants", err)
		return
	}

	payments, err := h.store.ListPayments(ctx, address, nil)
	if err != nil {
		h.internalError(w, "list payments", err)
		return
	}

	drawings, err := h.store.ListDrawings(ctx, address)
	if err != nil {
		h.internalError(w, "list drawings", err)
		return
	}

	respondJSON(w, http.StatusOK, PoolDetailResponse{
		Pool:         pool,
		Participants: nonNil(participants),
		Payments:     nonNil(payments),
		Drawings:     nonNil(drawings),
	})
}

// ListParticipants lists the members of a pool.
// @Summary Pool participants
// @Tags Pools
// @Produce json
// @Param address path string true "Pool address"
// @Success 200 {object} ParticipantsResponse
// @Failure 400 {object} ErrorResponse "Invalid address"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /pools/{address}/participants [get]
func (h *Handler) ListParticipants(w http.ResponseWriter, r *http.Request) {
	address, ok := pathAddress(w, r)
	if !ok {
		return
	}

	participants, err := h.store.ListParticipants(r.Context(), address)
	if err != nil {
		h.internalError(w, "list participants", err)
		return
	}

	respondJSON(w, http.StatusOK, ParticipantsResponse{Participants: nonNil(participants)})
}

// ListPayments lists the payments of a pool ordered by month.
// @Summary Pool payments
// @Tags Pools
// @Produce json
// @Param address path string true "Pool address"
// @Param month query int false "Only payments for this month"
// @Success 200 {object} PaymentsResponse
// @Failure 400 {object} ErrorResponse "Invalid parameters"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /pools/{address}/payments [get]
func (h *Handler) ListPayments(w http.ResponseWriter, r *http.Request) {
	address, ok := pathAddress(w, r)
	if !ok {
		return
	}

	var month *uint8
	if raw := r.URL.Query().Get("month"); raw != "" {
		value, err := strconv.ParseUint(raw, 10, 8)
		if err != nil {
			respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid month: %s", raw))
			return
		}
		m := uint8(value)
		month = &m
	}

	payments, err := h.store.ListPayments(r.Context(), address, month)
	if err != nil {
		h.internalError(w, "list payments", err)
		return
	}

	respondJSON(w, http.StatusOK, PaymentsResponse{Payments: nonNil(payments)})
}

// ListDrawings lists the drawings of a pool ordered by month.
// @Summary Pool drawings
// @Tags Pools
// @Produce json
// @Param address path string true "Pool address"
// @Success 200 {object} DrawingsResponse
// @Failure 400 {object} ErrorResponse "Invalid address"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /pools/{address}/drawings [get]
func (h *Handler) ListDrawings(w http.ResponseWriter, r *http.Request) {
	address, ok := pathAddress(w, r)
	if !ok {
		return
	}

	drawings, err := h.store.ListDrawings(r.Context(), address)
	if err != nil {
		h.internalError(w, "list drawings", err)
		return
	}

	respondJSON(w, http.StatusOK, DrawingsResponse{Drawings: nonNil(drawings)})
}

// ListUserPools lists the pools an address participates in.
// @Summary Pools of a participant
// @Tags Users
// @Produce json
// @Param address path string true "Participant address"
// @Success 200 {object} PoolsResponse
// @Failure 400 {object} ErrorResponse "Invalid address"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /user/{address}/pools [get]
func (h *Handler) ListUserPools(w http.ResponseWriter, r *http.Request) {
	address, ok := pathAddress(w, r)
	if !ok {
		return
	}

	pools, err := h.store.PoolsByParticipant(r.Context(), address)
	if err != nil {
		h.internalError(w, "list user pools", err)
		return
	}

	respondJSON(w, http.StatusOK, PoolsResponse{Pools: nonNil(pools)})
}

// ListYieldSnapshots lists recent yield snapshots, newest first.
// @Summary Yield snapshots
// @Tags Yields
// @Produce json
// @Param limit query int false "Maximum number of snapshots" default(50) maximum(200)
// @Success 200 {object} SnapshotsResponse
// @Failure 400 {object} ErrorResponse "Invalid parameters"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /yields/snapshots [get]
func (h *Handler) ListYieldSnapshots(w http.ResponseWriter, r *http.Request) {
	limit := defaultSnapshotLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid limit: %s", raw))
			return
		}
		if value > 0 {
			limit = min(value, maxSnapshotLimit)
		}
	}

	snapshots, err := h.store.YieldSnapshots(r.Context(), limit)
	if err != nil {
		h.internalError(w, "list yield snapshots", err)
		return
	}

	respondJSON(w, http.StatusOK, SnapshotsResponse{Snapshots: nonNil(snapshots)})
}

// LatestYieldSnapshot returns the newest yield snapshot.
// @Summary Latest yield snapshot
// @Tags Yields
// @Produce json
// @Success 200 {object} LatestSnapshotResponse
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /yields/latest [get]
func (h *Handler) LatestYieldSnapshot(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.store.LatestYieldSnapshot(r.Context())
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		h.internalError(w, "get latest yield snapshot", err)
		return
	}

	respondJSON(w, http.StatusOK, LatestSnapshotResponse{Snapshot: snapshot})
}

// IndexerStatus returns the last indexed block and the number of known pools.
// @Summary Indexer status
// @Tags Indexer
// @Produce json
// @Success 200 {object} store.IndexerStatus
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /indexer/status [get]
func (h *Handler) IndexerStatus(w http.ResponseWriter, r *http.Request) {
	status, err := h.store.Status(r.Context())
	if err != nil {
		h.internalError(w, "get indexer status", err)
		return
	}

	respondJSON(w, http.StatusOK, status)
}

func (h *Handler) internalError(w http.ResponseWriter, operation string, err error) {
	h.log.Errorf("failed to %s: %v", operation, err)
	respondError(w, http.StatusInternalServerError, fmt.Sprintf("failed to %s", operation))
}

// pathAddress parses the {address} path value, answering 400 when it is not a valid address.
func pathAddress(w http.ResponseWriter, r *http.Request) (common.Address, bool) {
	raw := r.PathValue("address")

	address, err := internalcommon.ParseAddress(raw)
	if err != nil {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid address: %s", raw))
		return common.Address{}, false
	}

	return address, true
}

// nonNil makes empty results encode as [] instead of null.
func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}

// respondJSON sends a JSON response.
func respondJSON(w http.ResponseWriter, status int, data any) {
	encoded, err := json.Marshal(data)
	if err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(encoded)
}

// respondError sends an error response.
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
		Code:    status,
	})
}
