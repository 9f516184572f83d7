package extract

import (
	"container/heap"
	"log/slog"
	"sync"

	"github.com/fwojciec/docharvest"
)

// Compile-time interface verification.
var _ docharvest.Frontier = (*Frontier)(nil)

// Frontier is an in-memory dispatch queue ordered by ascending priority,
// first-in first-out within a priority. Repeated URLs are dropped; the seen
// set is exact so no requested URL is ever lost.
// It is safe for concurrent use by multiple goroutines.
type Frontier struct {
	mu    sync.Mutex
	seen  map[string]struct{}
	queue *targetHeap
	seq   int

	fileName func(url string) string
	files    map[string]string
	logger   *slog.Logger
}

// FrontierOption configures a Frontier.
type FrontierOption func(*Frontier)

// WithCollisionLog makes the frontier log a warning when two queued URLs
// of the same category map to the same file name, in which case the last
// one written wins.
func WithCollisionLog(fileName func(url string) string, logger *slog.Logger) FrontierOption {
	return func(f *Frontier) {
		f.fileName = fileName
		f.files = make(map[string]string)
		f.logger = logger
	}
}

// NewFrontier creates a new Frontier sized for n expected URLs.
func NewFrontier(n int, opts ...FrontierOption) *Frontier {
	h := &targetHeap{}
	heap.Init(h)
	f := &Frontier{
		seen:  make(map[string]struct{}, max(n, 0)),
		queue: h,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Push adds a target to the frontier.
// Returns false if the URL has already been seen.
func (f *Frontier) Push(t docharvest.Target) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.seen[t.URL]; ok {
		return false
	}
	f.seen[t.URL] = struct{}{}

	if f.fileName != nil {
		key := t.Category + "/" + f.fileName(t.URL)
		if prev, ok := f.files[key]; ok && f.logger != nil {
			f.logger.Warn("file name collision", "file", key, "url", t.URL, "previous", prev)
		}
		f.files[key] = t.URL
	}

	heap.Push(f.queue, queued{Target: t, seq: f.seq})
	f.seq++
	return true
}

// Pop returns the next target by priority.
// The bool result is false if the frontier is empty.
func (f *Frontier) Pop() (docharvest.Target, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.queue.Len() == 0 {
		return docharvest.Target{}, false
	}
	q, _ := heap.Pop(f.queue).(queued)
	return q.Target, true
}

// Len returns the number of targets in the queue.
func (f *Frontier) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.queue.Len()
}

// Seen returns true if the URL has been queued.
func (f *Frontier) Seen(url string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.seen[url]
	return ok
}

type queued struct {
	docharvest.Target
	seq int
}

// targetHeap implements heap.Interface as a min-heap on (priority, seq).
type targetHeap []queued

func (h targetHeap) Len() int { return len(h) }

func (h targetHeap) Less(i, j int) bool {
	if h[i].Priority != h[j].Priority {
		return h[i].Priority < h[j].Priority
	}
	return h[i].seq < h[j].seq
}

func (h targetHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *targetHeap) Push(x any) {
	q, _ := x.(queued)
	*h = append(*h, q)
}

func (h *targetHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[0 : n-1]
	return x
}
