package slog_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/fwojciec/docharvest"
	"github.com/fwojciec/docharvest/mock"
	dhslog "github.com/fwojciec/docharvest/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingStateIndex(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	inner := &mock.StateIndex{
		PurgeInvalidFn: func(ctx context.Context) (int, error) { return 2, nil },
		ScanFn: func(ctx context.Context) (map[string]*docharvest.ExtractionRecord, error) {
			return map[string]*docharvest.ExtractionRecord{"https://x.com/a": {}}, nil
		},
		MissingFn: func(ctx context.Context, targets []docharvest.Target) (*docharvest.Completeness, error) {
			return &docharvest.Completeness{Total: 3, AlreadyExtracted: 1, Missing: 2}, nil
		},
	}
	idx := dhslog.NewLoggingStateIndex(inner, logger)

	n, err := idx.PurgeInvalid(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	_, err = idx.Scan(context.Background())
	require.NoError(t, err)
	c, err := idx.Missing(context.Background(), make([]docharvest.Target, 3))
	require.NoError(t, err)
	assert.Equal(t, 2, c.Missing)

	output := buf.String()
	assert.Contains(t, output, "purged=2")
	assert.Contains(t, output, "artifacts=1")
	assert.Contains(t, output, "requested=3 extracted=1 missing=2")
}
