package rpc

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

type mockDataError struct {
	data any
	msg  string
}

func (m *mockDataError) Error() string {
	return m.msg
}

func (m *mockDataError) ErrorData() any {
	return m.data
}

func TestIsTooManyResultsError(t *testing.T) {
	t.Parallel()

	const tooMany = "Query returned more than 10000 results. Try with this block range [0x3e8, 0x7d0]."

	tests := []struct {
		name      string
		err       error
		wantMatch bool
		wantData  string
	}{
		{
			name: "nil error",
		},
		{
			name: "plain error",
			err:  errors.New("execution reverted"),
		},
		{
			name:     "data error with unrelated data",
			err:      &mockDataError{data: "header not found", msg: "header not found"},
			wantData: "header not found",
		},
		{
			name:      "too many results",
			err:       &mockDataError{data: tooMany, msg: "query limit exceeded"},
			wantMatch: true,
			wantData:  tooMany,
		},
		{
			name:      "wrapped too many results",
			err:       fmt.Errorf("eth_getLogs: %w", &mockDataError{data: tooMany, msg: "query limit exceeded"}),
			wantMatch: true,
			wantData:  tooMany,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			gotMatch, gotData := IsTooManyResultsError(tt.err)
			require.Equal(t, tt.wantMatch, gotMatch)
			require.Equal(t, tt.wantData, gotData)
		})
	}
}

func TestParseSuggestedBlockRange(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		errData  string
		wantFrom uint64
		wantTo   uint64
		wantOK   bool
	}{
		{name: "empty"},
		{name: "no range", errData: "Query returned more than 10000 results."},
		{
			name:     "provider suggestion",
			errData:  "Query returned more than 10000 results. Try with this block range [0x3e8, 0x7d0].",
			wantFrom: 1000,
			wantTo:   2000,
			wantOK:   true,
		},
		{
			name:     "mixed case and extra spaces",
			errData:  "Try with this block range [0x1aBc,   0x2DEF].",
			wantFrom: 6844,
			wantTo:   11759,
			wantOK:   true,
		},
		{name: "bad hex", errData: "Try with this block range [0xZZ, 0x10]."},
		{name: "reversed range", errData: "Try with this block range [0x20, 0x10]."},
		{
			name:     "first range wins",
			errData:  "[0x10, 0x20] or [0x30, 0x40]",
			wantFrom: 16,
			wantTo:   32,
			wantOK:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			from, to, ok := ParseSuggestedBlockRange(tt.errData)
			require.Equal(t, tt.wantOK, ok)
			require.Equal(t, tt.wantFrom, from)
			require.Equal(t, tt.wantTo, to)
		})
	}
}
