package state

import (
	"sync"
	"time"

	"github.com/pgperffarm/farmplot/internal/chart"
	"github.com/pgperffarm/farmplot/internal/core/model"
)

// Snapshot is a consistent view of the store at one moment.
type Snapshot struct {
	Dataset  *model.Dataset
	Chart    *chart.Chart
	Err      error // last load error, nil after a successful load
	Loading  bool
	LoadedAt time.Time
	Version  uint64 // increments with every applied dataset
}

// Ready reports whether a dataset has been loaded at least once.
func (s Snapshot) Ready() bool {
	return s.Dataset != nil
}

// Store holds the current dataset in a thread-safe manner. Loads are tagged
// with a generation so that an older load finishing late can never replace
// a newer one.
type Store struct {
	mu sync.RWMutex

	dataset *model.Dataset
	chart   *chart.Chart
	lastErr error

	loading  bool
	gen      uint64
	version  uint64
	closed   bool
	loadedAt time.Time

	opts chart.Options
}

// NewStore creates an empty store. Charts built for loaded datasets use opts.
func NewStore(opts chart.Options) *Store {
	return &Store{opts: opts}
}

// Begin marks a load as started and returns its generation.
func (s *Store) Begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.gen++
	s.loading = true
	return s.gen
}

// Finish applies the outcome of the load started with gen. It returns false
// when the result was discarded because a newer load began or the store was
// closed. On error the previous dataset stays in place.
func (s *Store) Finish(gen uint64, ds *model.Dataset, err error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || gen != s.gen {
		return false
	}
	s.loading = false
	if err != nil {
		s.lastErr = err
		return true
	}

	s.dataset = ds
	s.chart = chart.New(ds, s.opts)
	s.lastErr = nil
	s.loadedAt = time.Now()
	s.version++
	return true
}

// Snapshot returns the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Snapshot{
		Dataset:  s.dataset,
		Chart:    s.chart,
		Err:      s.lastErr,
		Loading:  s.loading,
		LoadedAt: s.loadedAt,
		Version:  s.version,
	}
}

// Dataset returns the current dataset, or nil before the first load.
func (s *Store) Dataset() *model.Dataset {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dataset
}

// Close stops the store from accepting further results.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.loading = false
}
