package paginate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func boolPtr(b bool) *bool { return &b }

func makeItems(page, n int) []string {
	items := make([]string, n)
	for i := range items {
		items[i] = fmt.Sprintf("p%d-%d", page, i)
	}
	return items
}

// scriptedSource answers from a per-page script and records every request
type scriptedSource struct {
	mu       sync.Mutex
	pages    map[int]Page[string]
	errs     map[int]error
	requests []int
}

func (s *scriptedSource) fetch(ctx context.Context, page, pageSize int) (Page[string], error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, page)
	if err, ok := s.errs[page]; ok {
		delete(s.errs, page)
		return Page[string]{}, err
	}
	return s.pages[page], nil
}

func TestFetcher_InitialState(t *testing.T) {
	f := New((&scriptedSource{}).fetch, Options{}, discardLogger())

	s := f.State()
	if s.Page != 1 || !s.HasMore || s.Loading || s.Err != "" || len(s.Items) != 0 {
		t.Errorf("initial state = %+v", s)
	}
	opts := f.Options()
	if opts.PageSize != DefaultPageSize || opts.Threshold != DefaultThreshold || opts.InitialPage != DefaultInitialPage {
		t.Errorf("Options() = %+v, want defaults", opts)
	}
}

func TestOptions_WithDefaults(t *testing.T) {
	tests := []struct {
		name     string
		in       Options
		expected Options
	}{
		{"zero", Options{}, Options{InitialPage: 1, PageSize: 20, Threshold: 0.8}},
		{"custom", Options{InitialPage: 3, PageSize: 50, Threshold: 0.5}, Options{InitialPage: 3, PageSize: 50, Threshold: 0.5}},
		{"threshold clamped", Options{Threshold: 4}, Options{InitialPage: 1, PageSize: 20, Threshold: 1}},
		{"negative", Options{InitialPage: -2, PageSize: -1, Threshold: -1}, Options{InitialPage: 1, PageSize: 20, Threshold: 0.8}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.in.withDefaults(); got != tt.expected {
				t.Errorf("withDefaults() = %+v, want %+v", got, tt.expected)
			}
		})
	}
}

func TestFetcher_LoadThenExhaust(t *testing.T) {
	src := &scriptedSource{pages: map[int]Page[string]{
		1: {Data: makeItems(1, 20)},
		2: {Data: nil},
	}}
	f := New(src.fetch, Options{PageSize: 20}, discardLogger())
	ctx := context.Background()

	if !f.Load(ctx) {
		t.Fatal("Load() did not fetch")
	}
	s := f.State()
	if len(s.Items) != 20 || !s.HasMore || s.Loading || s.Page != 1 {
		t.Fatalf("after page 1: %d items, hasMore=%v, loading=%v, page=%d", len(s.Items), s.HasMore, s.Loading, s.Page)
	}

	if !f.LoadMore(ctx) {
		t.Fatal("LoadMore() did not fetch page 2")
	}
	s = f.State()
	if s.Page != 2 || s.HasMore || len(s.Items) != 20 {
		t.Fatalf("after empty page 2: page=%d hasMore=%v items=%d", s.Page, s.HasMore, len(s.Items))
	}

	for i := 0; i < 3; i++ {
		if f.LoadMore(ctx) {
			t.Error("LoadMore() fetched after exhaustion")
		}
	}
	if diff := cmp.Diff([]int{1, 2}, src.requests); diff != "" {
		t.Errorf("requests mismatch (-want +got):\n%s", diff)
	}
}

func TestFetcher_AppendsInArrivalOrder(t *testing.T) {
	src := &scriptedSource{pages: map[int]Page[string]{
		1: {Data: []string{"a", "b"}},
		2: {Data: []string{"c"}, HasMore: boolPtr(true)},
		3: {Data: []string{"d", "e"}, HasMore: boolPtr(false)},
	}}
	f := New(src.fetch, Options{PageSize: 2}, discardLogger())
	ctx := context.Background()

	f.Load(ctx)
	f.LoadMore(ctx)
	f.LoadMore(ctx)

	s := f.State()
	if diff := cmp.Diff([]string{"a", "b", "c", "d", "e"}, s.Items); diff != "" {
		t.Errorf("items mismatch (-want +got):\n%s", diff)
	}
	if s.HasMore {
		t.Error("HasMore = true after explicit false")
	}
	if f.LoadMore(ctx) {
		t.Error("LoadMore() fetched after explicit hasMore=false")
	}
}

func TestFetcher_FirstLoadFailureAllowsRetry(t *testing.T) {
	src := &scriptedSource{
		pages: map[int]Page[string]{1: {Data: []string{"a"}}},
		errs:  map[int]error{1: errors.New("connection refused")},
	}
	f := New(src.fetch, Options{}, discardLogger())
	ctx := context.Background()

	f.Load(ctx)

	s := f.State()
	if len(s.Items) != 0 || s.Loading || s.Err != "connection refused" || !s.HasMore || s.Page != 1 {
		t.Fatalf("after failure: %+v", s)
	}

	if !f.LoadMore(ctx) {
		t.Fatal("retry did not fetch")
	}
	s = f.State()
	if s.Err != "" || len(s.Items) != 1 || s.Page != 1 {
		t.Errorf("after retry: %+v", s)
	}
	if diff := cmp.Diff([]int{1, 1}, src.requests); diff != "" {
		t.Errorf("requests mismatch (-want +got):\n%s", diff)
	}
}

func TestFetcher_LaterPageFailureRetriesSamePage(t *testing.T) {
	src := &scriptedSource{
		pages: map[int]Page[string]{
			1: {Data: []string{"a"}},
			2: {Data: []string{"b"}},
		},
		errs: map[int]error{2: errors.New("timeout")},
	}
	f := New(src.fetch, Options{}, discardLogger())
	ctx := context.Background()

	f.Load(ctx)
	f.LoadMore(ctx)

	s := f.State()
	if s.Err != "timeout" || s.Page != 1 || len(s.Items) != 1 || !s.HasMore {
		t.Fatalf("after page 2 failure: %+v", s)
	}

	f.LoadMore(ctx)
	s = f.State()
	if s.Err != "" || s.Page != 2 {
		t.Errorf("after retry: %+v", s)
	}
	if diff := cmp.Diff([]string{"a", "b"}, s.Items); diff != "" {
		t.Errorf("items mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{1, 2, 2}, src.requests); diff != "" {
		t.Errorf("requests mismatch (-want +got):\n%s", diff)
	}
}

func TestFetcher_LoadIsOneShot(t *testing.T) {
	src := &scriptedSource{pages: map[int]Page[string]{1: {Data: []string{"a"}}}}
	f := New(src.fetch, Options{}, discardLogger())

	f.Load(context.Background())
	if f.Load(context.Background()) {
		t.Error("second Load() fetched again")
	}
}

// blockingSource holds every fetch until the test answers on the channel it
// hands out through started
type blockingSource struct {
	started chan chan Page[string]
	calls   atomic.Int32
}

func newBlockingSource() *blockingSource {
	return &blockingSource{started: make(chan chan Page[string], 8)}
}

func (b *blockingSource) fetch(ctx context.Context, page, pageSize int) (Page[string], error) {
	b.calls.Add(1)
	reply := make(chan Page[string])
	b.started <- reply
	return <-reply, nil
}

func TestFetcher_RejectsConcurrentTriggers(t *testing.T) {
	src := newBlockingSource()
	f := New(src.fetch, Options{}, discardLogger())
	ctx := context.Background()

	done := make(chan bool)
	go func() { done <- f.Load(ctx) }()
	reply := <-src.started

	if !f.State().Loading {
		t.Error("Loading = false while fetch in flight")
	}

	var wg sync.WaitGroup
	var accepted atomic.Int32
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if f.LoadMore(ctx) || f.Visible(ctx, 1) {
				accepted.Add(1)
			}
		}()
	}
	wg.Wait()

	reply <- Page[string]{Data: []string{"a"}}
	if !<-done {
		t.Error("Load() reported no fetch")
	}

	if accepted.Load() != 0 {
		t.Errorf("%d concurrent triggers accepted, want 0", accepted.Load())
	}
	if src.calls.Load() != 1 {
		t.Errorf("fetch called %d times, want 1", src.calls.Load())
	}
}

func TestFetcher_ResetDiscardsStaleResponse(t *testing.T) {
	src := newBlockingSource()
	f := New(src.fetch, Options{}, discardLogger())
	ctx := context.Background()

	done := make(chan struct{})
	go func() {
		defer close(done)
		f.Load(ctx)
	}()
	stale := <-src.started

	f.Reset()

	// A new generation may fetch while the stale one is still outstanding
	fresh := make(chan struct{})
	go func() {
		defer close(fresh)
		f.Load(ctx)
	}()
	current := <-src.started

	current <- Page[string]{Data: []string{"fresh"}}
	<-fresh
	stale <- Page[string]{Data: []string{"stale"}}
	<-done

	s := f.State()
	if diff := cmp.Diff([]string{"fresh"}, s.Items); diff != "" {
		t.Errorf("items mismatch (-want +got):\n%s", diff)
	}
	if s.Loading {
		t.Error("Loading = true after fetches completed")
	}
}

func TestFetcher_ResetReturnsToInitial(t *testing.T) {
	src := &scriptedSource{pages: map[int]Page[string]{
		1: {Data: []string{"a"}},
		2: {Data: nil},
	}}
	f := New(src.fetch, Options{}, discardLogger())
	ctx := context.Background()

	f.Load(ctx)
	f.LoadMore(ctx)
	if f.State().HasMore {
		t.Fatal("expected exhaustion before reset")
	}

	f.Reset()

	s := f.State()
	if s.Page != 1 || !s.HasMore || len(s.Items) != 0 || s.Err != "" || s.Loading {
		t.Errorf("state after Reset = %+v", s)
	}
	if !f.Load(ctx) {
		t.Error("Load() after Reset did not fetch")
	}
}

func TestFetcher_Visible(t *testing.T) {
	tests := []struct {
		name      string
		threshold float64
		ratio     float64
		wantFetch bool
	}{
		{"below default threshold", 0, 0.79, false},
		{"at default threshold", 0, 0.8, true},
		{"custom threshold", 0.5, 0.6, true},
		{"custom threshold below", 0.5, 0.4, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := &scriptedSource{pages: map[int]Page[string]{1: {Data: []string{"a"}}}}
			f := New(src.fetch, Options{Threshold: tt.threshold}, discardLogger())

			if got := f.Visible(context.Background(), tt.ratio); got != tt.wantFetch {
				t.Errorf("Visible(%v) = %v, want %v", tt.ratio, got, tt.wantFetch)
			}
		})
	}
}

func TestFetcher_Observe(t *testing.T) {
	src := &scriptedSource{pages: map[int]Page[string]{
		1: {Data: []string{"a"}},
		2: {Data: []string{"b"}},
		3: {Data: []string{"c"}, HasMore: boolPtr(false)},
	}}
	f := New(src.fetch, Options{}, discardLogger())

	signals := make(chan float64)
	finished := make(chan struct{})
	go func() {
		defer close(finished)
		f.Observe(context.Background(), signals)
	}()

	for _, ratio := range []float64{0.1, 0.9, 0.5, 1, 0.95, 1} {
		signals <- ratio
	}
	close(signals)
	<-finished

	if diff := cmp.Diff([]string{"a", "b", "c"}, f.State().Items); diff != "" {
		t.Errorf("items mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{1, 2, 3}, src.requests); diff != "" {
		t.Errorf("requests mismatch (-want +got):\n%s", diff)
	}
}

func TestFetcher_ObserveStopsOnCancel(t *testing.T) {
	f := New((&scriptedSource{}).fetch, Options{}, discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	finished := make(chan struct{})
	go func() {
		defer close(finished)
		f.Observe(ctx, make(chan float64))
	}()

	cancel()
	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("Observe did not return after cancel")
	}
}
