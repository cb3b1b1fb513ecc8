package catalog

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/mangareader/internal/debounce"
)

// DefaultSearchDelay is the quiet period before a live search is sent.
const DefaultSearchDelay = 300 * time.Millisecond

type searchBackend interface {
	Search(ctx context.Context, query string, page int) Result
}

// Searcher turns a stream of keystroke-level queries into at most one
// request per quiet period. Requests already sent are not cancelled, so a
// slow response may still arrive after a newer one. Deliveries never overlap.
type Searcher struct {
	backend   searchBackend
	debouncer *debounce.Debouncer
	deliver   func(query string, r Result)

	mu     sync.Mutex
	closed bool
}

func NewSearcher(backend searchBackend, delay time.Duration, deliver func(query string, r Result)) *Searcher {
	if delay <= 0 {
		delay = DefaultSearchDelay
	}
	return &Searcher{
		backend:   backend,
		debouncer: debounce.New(delay),
		deliver:   deliver,
	}
}

// Submit restarts the delay for query. ctx is used for the request that
// eventually fires.
func (s *Searcher) Submit(ctx context.Context, query string) {
	s.debouncer.Trigger(func() { s.run(ctx, query) })
}

func (s *Searcher) run(ctx context.Context, query string) {
	r := s.backend.Search(ctx, query, 1)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.deliver(query, r)
}

// Stop drops a pending search. It reports whether one was pending.
func (s *Searcher) Stop() bool {
	return s.debouncer.Cancel()
}

// Close drops the pending search and every response still in flight. A
// delivery that is already running finishes before Close returns; nothing is
// delivered afterwards.
func (s *Searcher) Close() {
	s.debouncer.Cancel()

	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
}

// Flush sends a pending search now, on the caller's goroutine.
func (s *Searcher) Flush() bool {
	return s.debouncer.Flush()
}

func (s *Searcher) Pending() bool {
	return s.debouncer.Pending()
}
