package fs_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fwojciec/docharvest"
	"github.com/fwojciec/docharvest/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportWriter(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	w := fs.NewReportWriter(root)
	started := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	report := &docharvest.Report{
		RunID:          "run-1",
		StartedAt:      started,
		FinishedAt:     started.Add(time.Minute),
		OutputRoot:     root,
		Stats:          docharvest.RunStats{Requested: 3, Succeeded: 2, Failed: 1, Categories: map[string]int{"api": 2}},
		FinalExtracted: 2,
		FinalMissing:   1,
		SuccessRate:    66.7,
		MissingURLs:    []docharvest.Target{{URL: "https://x.com/a", Category: "api"}},
	}

	require.NoError(t, w.WriteReport(context.Background(), report))

	assert.Equal(t, filepath.Join(root, fs.ReportFileName), w.Path())
	got, err := fs.ReadReport(w.Path())
	require.NoError(t, err)
	assert.Equal(t, report.RunID, got.RunID)
	assert.True(t, report.StartedAt.Equal(got.StartedAt))
	assert.Equal(t, report.Stats, got.Stats)
	assert.Equal(t, report.MissingURLs[0].URL, got.MissingURLs[0].URL)
	assert.Equal(t, report.MissingURLs[0].Category, got.MissingURLs[0].Category)
}

func TestReadReport_InvalidJSON(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), fs.ReportFileName)
	require.NoError(t, os.WriteFile(path, []byte("{"), 0644))

	_, err := fs.ReadReport(path)

	assert.Equal(t, docharvest.EINVALID, docharvest.ErrorCode(err))
}
