package rpc

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/ethereum/go-ethereum/rpc"
	"github.com/starosca/pool-indexer/internal/common"
)

var (
	tooManyResultsRe = regexp.MustCompile(`Query returned more than \d+ results`)
	blockRangeRe     = regexp.MustCompile(`\[(0x[0-9a-fA-F]+),\s*(0x[0-9a-fA-F]+)\]`)
)

// IsTooManyResultsError reports whether err is a provider "too many results" DataError.
// The second return value is the error data rendered as a string.
func IsTooManyResultsError(err error) (bool, string) {
	var dataErr rpc.DataError
	if err == nil || !errors.As(err, &dataErr) {
		return false, ""
	}

	errData := fmt.Sprintf("%v", dataErr.ErrorData())
	return tooManyResultsRe.MatchString(errData), errData
}

// ParseSuggestedBlockRange extracts the block range a provider suggests after rejecting a query,
// e.g. "Query returned more than 10000 results. Try with this block range [0x7dfd25, 0x7e0fcc]."
func ParseSuggestedBlockRange(errData string) (fromBlock, toBlock uint64, ok bool) {
	matches := blockRangeRe.FindStringSubmatch(errData)
	if len(matches) != 3 { //nolint:mnd
		return 0, 0, false
	}

	from, err := common.ParseUint64orHex(&matches[1])
	if err != nil {
		return 0, 0, false
	}

	to, err := common.ParseUint64orHex(&matches[2])
	if err != nil || to < from {
		return 0, 0, false
	}

	return from, to, true
}
