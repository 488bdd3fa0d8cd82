// Package api provides the read-only REST API over the indexed savings pools.
// @title Starosca Pool Indexer API
// @version 1.0
// @description Read-only REST API for savings pools, participants, payments and drawings indexed from chain events
// @license.name MIT
// @host localhost:3001
// @basePath /api
// @schemes http https
package api
