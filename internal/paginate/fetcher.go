// Package paginate keeps a growing list of items fetched page by page from a
// remote source. Only one page is ever in flight; triggers that arrive while a
// fetch is running are dropped rather than queued.
package paginate

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"
)

const (
	DefaultInitialPage = 1
	DefaultPageSize    = 20
	DefaultThreshold   = 0.8
)

// Page is one response of the remote source. A nil HasMore means the source
// did not say, which is read as "there may be more".
type Page[T any] struct {
	Data    []T
	HasMore *bool
}

// FetchFunc loads a single page. It owns transport concerns such as auth and
// timeouts.
type FetchFunc[T any] func(ctx context.Context, page, pageSize int) (Page[T], error)

// Options configures a Fetcher. Zero values take the package defaults.
type Options struct {
	InitialPage int
	PageSize    int
	// Threshold is the visible fraction (0..1) of the list end that triggers
	// the next page
	Threshold float64
}

func (o Options) withDefaults() Options {
	if o.InitialPage < 1 {
		o.InitialPage = DefaultInitialPage
	}
	if o.PageSize < 1 {
		o.PageSize = DefaultPageSize
	}
	switch {
	case o.Threshold <= 0:
		o.Threshold = DefaultThreshold
	case o.Threshold > 1:
		o.Threshold = 1
	}
	return o
}

// State is a snapshot of the pagination state
type State[T any] struct {
	Items   []T
	Page    int
	Loading bool
	HasMore bool
	Err     string
}

// Fetcher drives a FetchFunc through the pagination state machine
type Fetcher[T any] struct {
	fetch  FetchFunc[T]
	opts   Options
	logger *slog.Logger

	// inFlight is claimed with a compare-and-swap before the fetch starts so
	// that rapid triggers cannot both get through
	inFlight atomic.Bool

	mu         sync.Mutex
	state      State[T]
	loaded     int    // successful fetches since the last reset
	generation uint64 // bumped by Reset, responses from older generations are dropped
}

// New creates a Fetcher in its initial state. Nothing is fetched until Load,
// LoadMore or Visible is called.
func New[T any](fetch FetchFunc[T], opts Options, logger *slog.Logger) *Fetcher[T] {
	f := &Fetcher[T]{
		fetch:  fetch,
		opts:   opts.withDefaults(),
		logger: logger.With("component", "paginated-fetcher"),
	}
	f.state = f.initialState()
	return f
}

func (f *Fetcher[T]) initialState() State[T] {
	return State[T]{
		Items:   []T{},
		Page:    f.opts.InitialPage,
		HasMore: true,
	}
}

// Options returns the effective options after defaults were applied
func (f *Fetcher[T]) Options() Options {
	return f.opts
}

// State returns a copy of the current state
func (f *Fetcher[T]) State() State[T] {
	f.mu.Lock()
	defer f.mu.Unlock()

	s := f.state
	s.Items = slices.Clone(f.state.Items)
	return s
}

// Load fetches the initial page if nothing has loaded since the last reset.
// It reports whether a fetch ran.
func (f *Fetcher[T]) Load(ctx context.Context) bool {
	return f.run(ctx, false)
}

// LoadMore advances to the next page and fetches it, unless a fetch is
// already running or the source is exhausted. If nothing has loaded since the
// last reset the current page is fetched instead, so a failed first load can
// be retried through the same trigger.
func (f *Fetcher[T]) LoadMore(ctx context.Context) bool {
	return f.run(ctx, true)
}

// Visible is the visibility signal: ratio is the fraction of the list end
// currently on screen. Crossing the threshold takes the LoadMore path.
func (f *Fetcher[T]) Visible(ctx context.Context, ratio float64) bool {
	if ratio < f.opts.Threshold {
		return false
	}
	return f.LoadMore(ctx)
}

// Observe consumes visibility ratios until ctx is done or signals is closed.
// Fetches run on the calling goroutine, so signals that arrive meanwhile are
// handled after the fetch completes.
func (f *Fetcher[T]) Observe(ctx context.Context, signals <-chan float64) {
	for {
		select {
		case <-ctx.Done():
			return
		case ratio, ok := <-signals:
			if !ok {
				return
			}
			f.Visible(ctx, ratio)
		}
	}
}

// Reset returns to the initial state. A fetch still running will have its
// response discarded when it arrives.
func (f *Fetcher[T]) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.generation++
	f.loaded = 0
	f.state = f.initialState()
	f.inFlight.Store(false)

	f.logger.Debug("pagination reset", "generation", f.generation)
}

func (f *Fetcher[T]) run(ctx context.Context, advance bool) bool {
	if !f.inFlight.CompareAndSwap(false, true) {
		f.logger.Debug("fetch already in flight, trigger dropped")
		return false
	}

	f.mu.Lock()
	if !f.state.HasMore || (!advance && f.loaded > 0) {
		f.mu.Unlock()
		f.inFlight.Store(false)
		return false
	}

	previousPage := f.state.Page
	if f.loaded > 0 {
		f.state.Page++
	}
	page := f.state.Page
	gen := f.generation
	f.state.Loading = true
	f.state.Err = ""
	f.mu.Unlock()

	f.logger.Debug("fetching page", "page", page, "page_size", f.opts.PageSize)

	result, err := f.fetch(ctx, page, f.opts.PageSize)

	f.mu.Lock()
	defer f.mu.Unlock()

	if gen != f.generation {
		// Reset already released the in-flight marker for the new generation
		f.logger.Debug("discarding stale page", "page", page)
		return true
	}
	defer f.inFlight.Store(false)

	f.state.Loading = false

	if err != nil {
		f.logger.Warn("page fetch failed", "page", page, "error", err)
		f.state.Err = err.Error()
		f.state.Page = previousPage
		return true
	}

	f.loaded++

	if len(result.Data) == 0 {
		f.logger.Debug("empty page, no more data", "page", page)
		f.state.HasMore = false
		return true
	}

	if page == f.opts.InitialPage {
		f.state.Items = slices.Clone(result.Data)
	} else {
		f.state.Items = append(f.state.Items, result.Data...)
	}
	f.state.HasMore = result.HasMore == nil || *result.HasMore

	f.logger.Debug("page loaded", "page", page, "received", len(result.Data), "total", len(f.state.Items), "has_more", f.state.HasMore)

	return true
}
