package catalog

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSearch struct {
	mu      sync.Mutex
	queries []string
}

func (r *recordingSearch) Search(_ context.Context, q string, _ int) Result {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.queries = append(r.queries, q)
	return Result{Items: []Entry{{Title: q}}, TotalItems: 1, TotalPages: 1}
}

func (r *recordingSearch) sent() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.queries...)
}

func TestSearcher_OnlyLastKeystrokeIsSent(t *testing.T) {
	backend := &recordingSearch{}
	delivered := make(chan string, 4)
	s := NewSearcher(backend, 20*time.Millisecond, func(q string, r Result) {
		delivered <- r.Items[0].Title
	})

	ctx := context.Background()
	for _, q := range []string{"n", "na", "nar", "naru", "naruto"} {
		s.Submit(ctx, q)
	}

	select {
	case got := <-delivered:
		assert.Equal(t, "naruto", got)
	case <-time.After(time.Second):
		t.Fatal("search was never delivered")
	}
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, []string{"naruto"}, backend.sent())
}

func TestSearcher_StopCancelsPending(t *testing.T) {
	backend := &recordingSearch{}
	s := NewSearcher(backend, 10*time.Millisecond, func(string, Result) {})

	s.Submit(context.Background(), "bleach")
	require.True(t, s.Pending())
	assert.True(t, s.Stop())

	time.Sleep(40 * time.Millisecond)
	assert.Empty(t, backend.sent())
}

func TestSearcher_FlushSendsNow(t *testing.T) {
	backend := &recordingSearch{}
	var got string
	s := NewSearcher(backend, time.Hour, func(q string, _ Result) { got = q })

	s.Submit(context.Background(), "one piece")
	assert.True(t, s.Flush())
	assert.Equal(t, "one piece", got)
	assert.False(t, s.Pending())
}

func TestNewSearcher_DefaultDelay(t *testing.T) {
	s := NewSearcher(&recordingSearch{}, 0, func(string, Result) {})
	assert.Equal(t, DefaultSearchDelay, s.debouncer.Delay())
}

// blockingSearch holds every request until release is closed.
type blockingSearch struct {
	started chan string
	release chan struct{}
	done    chan struct{}
}

func (b *blockingSearch) Search(_ context.Context, q string, _ int) Result {
	b.started <- q
	<-b.release
	defer close(b.done)
	return Result{Items: []Entry{{Title: q}}}
}

func TestSearcher_CloseDropsInFlightResponse(t *testing.T) {
	backend := &blockingSearch{
		started: make(chan string, 1),
		release: make(chan struct{}),
		done:    make(chan struct{}),
	}
	var mu sync.Mutex
	var delivered []string
	s := NewSearcher(backend, time.Millisecond, func(q string, _ Result) {
		mu.Lock()
		delivered = append(delivered, q)
		mu.Unlock()
	})

	s.Submit(context.Background(), "berserk")
	select {
	case q := <-backend.started:
		require.Equal(t, "berserk", q)
	case <-time.After(time.Second):
		t.Fatal("search never started")
	}

	s.Close()
	close(backend.release)
	<-backend.done

	assert.Never(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(delivered) > 0
	}, 50*time.Millisecond, 5*time.Millisecond)
}

func TestSearcher_CloseDropsPending(t *testing.T) {
	backend := &recordingSearch{}
	s := NewSearcher(backend, 10*time.Millisecond, func(string, Result) {})

	s.Submit(context.Background(), "bleach")
	s.Close()

	time.Sleep(40 * time.Millisecond)
	assert.Empty(t, backend.sent())
	assert.False(t, s.Pending())
}
