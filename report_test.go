package docharvest_test

import (
	"testing"

	"github.com/fwojciec/docharvest"
	"github.com/stretchr/testify/assert"
)

func TestRunStats_SuccessRate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		stats docharvest.RunStats
		want  float64
	}{
		{"nothing attempted", docharvest.RunStats{Skipped: 4}, 0},
		{"all succeeded", docharvest.RunStats{Succeeded: 3}, 100},
		{"half failed", docharvest.RunStats{Succeeded: 2, Failed: 2, Skipped: 10}, 50},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.InDelta(t, tt.want, tt.stats.SuccessRate(), 0.001)
		})
	}
}

func TestMultiProgress(t *testing.T) {
	t.Parallel()

	var a, b []docharvest.ProgressType
	fn := docharvest.MultiProgress(
		func(e docharvest.ProgressEvent) { a = append(a, e.Type) },
		nil,
		func(e docharvest.ProgressEvent) { b = append(b, e.Type) },
	)

	fn(docharvest.ProgressEvent{Type: docharvest.ProgressSkipped})

	assert.Equal(t, []docharvest.ProgressType{docharvest.ProgressSkipped}, a)
	assert.Equal(t, []docharvest.ProgressType{docharvest.ProgressSkipped}, b)
	assert.Equal(t, "skipped", docharvest.ProgressSkipped.String())
}

func TestIsRetryable(t *testing.T) {
	t.Parallel()

	assert.False(t, docharvest.IsRetryable(nil))
	assert.False(t, docharvest.IsRetryable(&docharvest.StatusError{URL: "u", StatusCode: 404}))
	assert.True(t, docharvest.IsRetryable(assert.AnError))
}
