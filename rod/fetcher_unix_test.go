//go:build integration && !windows

package rod_test

import (
	"context"
	"syscall"
	"testing"
	"time"

	"github.com/fwojciec/docharvest/rod"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// alive reports whether pid still exists; signal 0 performs no action.
func alive(pid int) bool {
	return syscall.Kill(pid, syscall.Signal(0)) == nil
}

func TestFetcher_RecycleAndClose_StopEveryBrowser(t *testing.T) {
	t.Parallel()

	srv := renderServer(t)
	defer srv.Close()

	fetcher, err := rod.NewFetcher(rod.WithMaxPages(1))
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	retired := fetcher.LauncherPID()
	require.NotZero(t, retired)
	require.True(t, alive(retired))

	_, err = fetcher.Fetch(ctx, srv.URL)
	require.NoError(t, err)
	_, err = fetcher.Fetch(ctx, srv.URL)
	require.NoError(t, err)

	current := fetcher.LauncherPID()
	require.NotEqual(t, retired, current, "second fetch runs on a fresh browser")
	assert.Eventually(t, func() bool { return !alive(retired) }, 5*time.Second, 50*time.Millisecond,
		"recycled launcher must not outlive its replacement")
	assert.True(t, alive(current))

	require.NoError(t, fetcher.Close())
	assert.Eventually(t, func() bool { return !alive(current) }, 5*time.Second, 50*time.Millisecond)
	assert.Zero(t, fetcher.LauncherPID())
}
