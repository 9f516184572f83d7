package extract_test

import (
	"errors"
	"testing"
	"time"

	"github.com/fwojciec/docharvest"
	"github.com/fwojciec/docharvest/extract"
	"github.com/stretchr/testify/assert"
)

func TestFormatProgress(t *testing.T) {
	t.Parallel()

	longURL := "https://docs.n8n.io/integrations/builtin/app-nodes/n8n-nodes-base.googlesheets/"

	tests := []struct {
		name  string
		event docharvest.ProgressEvent
		want  string
	}{
		{
			name:  "started",
			event: docharvest.ProgressEvent{Type: docharvest.ProgressStarted, Total: 340},
			want:  "Extracting 340 URLs",
		},
		{
			name: "extracted",
			event: docharvest.ProgressEvent{
				Type: docharvest.ProgressExtracted, URL: "https://docs.n8n.io/workflows/intro",
				Bytes: 4300, Attempts: 1, Completed: 12, Total: 340,
			},
			want: "[12/340] https://docs.n8n.io/workflows/intro (4.2 KB)",
		},
		{
			name: "extracted unchanged after retries keeps the URL tail",
			event: docharvest.ProgressEvent{
				Type: docharvest.ProgressExtracted, URL: longURL,
				Bytes: 512, Unchanged: true, Attempts: 3, Completed: 1, Total: 2,
			},
			want: "[1/2] ..." + longURL[len(longURL)-57:] + " (512 B, unchanged, 3 attempts)",
		},
		{
			name: "skipped",
			event: docharvest.ProgressEvent{
				Type: docharvest.ProgressSkipped, URL: "https://docs.n8n.io/api/", Completed: 13, Total: 340,
			},
			want: "[13/340] skip https://docs.n8n.io/api/ (exists)",
		},
		{
			name: "failed shows the full URL",
			event: docharvest.ProgressEvent{
				Type: docharvest.ProgressFailed, URL: longURL, Completed: 2, Total: 2,
				Error: errors.New("HTTP 404"),
			},
			want: "[2/2] fail " + longURL + ": HTTP 404",
		},
		{
			name: "finished",
			event: docharvest.ProgressEvent{
				Type: docharvest.ProgressFinished, Completed: 2, Total: 2, Duration: 1500 * time.Millisecond,
			},
			want: "Processed 2/2 in 1.5s",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, extract.FormatProgress(tt.event))
		})
	}
}

func TestFormatBytes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		bytes int64
		want  string
	}{
		{512, "512 B"},
		{1536, "1.5 KB"},
		{2 * 1024 * 1024, "2.0 MB"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, extract.FormatBytes(tt.bytes))
	}
}
