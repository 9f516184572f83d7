package extract_test

import (
	"bytes"
	"fmt"
	"log/slog"
	"sync"
	"testing"

	"github.com/fwojciec/docharvest"
	"github.com/fwojciec/docharvest/extract"
	"github.com/fwojciec/docharvest/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrontier_Push_rejects_duplicate_URLs(t *testing.T) {
	t.Parallel()

	f := extract.NewFrontier(1000)
	target := docharvest.Target{URL: "https://docs.n8n.io/workflows/", Category: "workflows", Priority: 3}

	assert.True(t, f.Push(target))
	assert.False(t, f.Push(target))
	assert.Equal(t, 1, f.Len())
}

func TestFrontier_Pop_orders_by_priority_then_insertion(t *testing.T) {
	t.Parallel()

	f := extract.NewFrontier(1000)
	f.Push(docharvest.Target{URL: "https://x.io/other", Category: "other", Priority: 99})
	f.Push(docharvest.Target{URL: "https://x.io/wf-1", Category: "workflows", Priority: 3})
	f.Push(docharvest.Target{URL: "https://x.io/nodes", Category: "integrations", Priority: 1})
	f.Push(docharvest.Target{URL: "https://x.io/wf-2", Category: "workflows", Priority: 3})

	var got []string
	for {
		target, ok := f.Pop()
		if !ok {
			break
		}
		got = append(got, target.URL)
	}

	assert.Equal(t, []string{
		"https://x.io/nodes",
		"https://x.io/wf-1",
		"https://x.io/wf-2",
		"https://x.io/other",
	}, got)
}

func TestFrontier_Pop_empty(t *testing.T) {
	t.Parallel()

	f := extract.NewFrontier(0)
	_, ok := f.Pop()
	assert.False(t, ok)
}

func TestFrontier_Seen(t *testing.T) {
	t.Parallel()

	f := extract.NewFrontier(1000)
	f.Push(docharvest.Target{URL: "https://x.io/a", Category: "other"})

	assert.True(t, f.Seen("https://x.io/a"))
	assert.False(t, f.Seen("https://x.io/b"))

	// Popping does not forget the URL.
	f.Pop()
	assert.True(t, f.Seen("https://x.io/a"))
	assert.False(t, f.Push(docharvest.Target{URL: "https://x.io/a", Category: "other"}))
}

func TestFrontier_accepts_every_distinct_URL_past_size_hint(t *testing.T) {
	t.Parallel()

	f := extract.NewFrontier(1)
	for i := range 500 {
		require.True(t, f.Push(docharvest.Target{URL: fmt.Sprintf("https://x.io/p/%d", i), Category: "other"}))
	}
	assert.Equal(t, 500, f.Len())
}

func TestFrontier_WithCollisionLog(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	f := extract.NewFrontier(10, extract.WithCollisionLog(fs.FileName, logger))

	f.Push(docharvest.Target{URL: "https://docs.n8n.io/a-b/", Category: "other"})
	f.Push(docharvest.Target{URL: "https://docs.n8n.io/a_b/", Category: "other"})
	f.Push(docharvest.Target{URL: "https://docs.n8n.io/a-b/", Category: "workflows"})

	out := buf.String()
	assert.Contains(t, out, "file name collision")
	assert.Equal(t, 1, bytes.Count(buf.Bytes(), []byte("file name collision")))
}

func TestFrontier_concurrent_push(t *testing.T) {
	t.Parallel()

	f := extract.NewFrontier(1000)

	var wg sync.WaitGroup
	for i := range 100 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			f.Push(docharvest.Target{URL: fmt.Sprintf("https://x.io/%d", i%50), Category: "other"})
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 50, f.Len())
}
