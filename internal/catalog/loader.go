package catalog

import (
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/astrovows/starlight-backend/internal/logger"
)

// State is the loader lifecycle: Unloaded -> Loading -> {Loaded | Failed}.
// Failed is sticky until Reset.
type State int

const (
	StateUnloaded State = iota
	StateLoading
	StateLoaded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateUnloaded:
		return "unloaded"
	case StateLoading:
		return "loading"
	case StateLoaded:
		return "loaded"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Fetcher retrieves the raw catalog stream. Split out so tests can count
// fetches and fail on demand.
type Fetcher interface {
	Fetch(ctx context.Context, src string) (io.ReadCloser, error)
}

// HTTPFetcher fetches the dataset over HTTP.
type HTTPFetcher struct {
	client *http.Client
	log    *logger.Logger
}

func NewHTTPFetcher(log *logger.Logger) *HTTPFetcher {
	return &HTTPFetcher{
		client: &http.Client{},
		log:    log.With("service", "CatalogFetcher"),
	}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, src string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("catalog source returned http %d", resp.StatusCode)
	}
	return resp.Body, nil
}

// Loader owns the catalog load state machine. All mutable state lives
// behind one mutex; concurrent callers of Load attach to the in-flight
// attempt through a broadcast-once channel, so at most one fetch/parse
// runs regardless of caller count.
type Loader struct {
	fetcher      Fetcher
	fetchTimeout time.Duration
	log          *logger.Logger

	mu       sync.Mutex
	state    State
	idx      *Index
	err      error
	inflight chan struct{}
}

const DefaultFetchTimeout = 30 * time.Second

func NewLoader(fetcher Fetcher, fetchTimeout time.Duration, log *logger.Logger) *Loader {
	if fetchTimeout <= 0 {
		fetchTimeout = DefaultFetchTimeout
	}
	return &Loader{
		fetcher:      fetcher,
		fetchTimeout: fetchTimeout,
		log:          log.With("service", "CatalogLoader"),
	}
}

// Load returns the catalog index, fetching and parsing it on first use.
// alreadyDecompressed tells the loader whether the transport has already
// decoded a gzip payload; the flag is honored exactly and never inferred
// from the stream. After a failure, Load short-circuits with
// ErrPreviouslyFailed until Reset is called.
func (l *Loader) Load(ctx context.Context, src string, alreadyDecompressed bool) (*Index, error) {
	l.mu.Lock()
	switch l.state {
	case StateLoaded:
		idx := l.idx
		l.mu.Unlock()
		return idx, nil

	case StateFailed:
		err := l.err
		l.mu.Unlock()
		return nil, fmt.Errorf("%w: %v", ErrPreviouslyFailed, err)

	case StateLoading:
		done := l.inflight
		l.mu.Unlock()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-done:
		}
		l.mu.Lock()
		idx, err := l.idx, l.err
		l.mu.Unlock()
		return idx, err

	default: // StateUnloaded
		l.state = StateLoading
		l.inflight = make(chan struct{})
		done := l.inflight
		l.mu.Unlock()

		idx, err := l.fetchAndParse(ctx, src, alreadyDecompressed)

		l.mu.Lock()
		if err != nil {
			l.state = StateFailed
			l.err = err
			l.log.Error("catalog load failed", "source", src, "error", err)
		} else {
			l.state = StateLoaded
			l.idx = idx
			l.err = nil
		}
		close(done)
		l.mu.Unlock()
		return idx, err
	}
}

func (l *Loader) fetchAndParse(ctx context.Context, src string, alreadyDecompressed bool) (*Index, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, l.fetchTimeout)
	defer cancel()

	body, err := l.fetcher.Fetch(fetchCtx, src)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	defer body.Close()

	var stream io.Reader = body
	if !alreadyDecompressed {
		gz, err := gzip.NewReader(body)
		if err != nil {
			return nil, fmt.Errorf("%w: gunzip catalog stream: %v", ErrFetchFailed, err)
		}
		defer gz.Close()
		stream = gz
	}

	records, malformed, err := ParseCSV(stream)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	if malformed > 0 {
		l.log.Warn("skipped malformed catalog rows", "count", malformed)
	}
	if len(records) == 0 {
		return nil, ErrEmptyCatalog
	}

	idx := NewIndex(records)
	l.log.Info("catalog loaded", "source", src, "stars", idx.Total(), "named", len(idx.named), "malformed", malformed)
	return idx, nil
}

// Index returns the loaded index without triggering a load.
func (l *Loader) Index() (*Index, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.state != StateLoaded {
		return nil, false
	}
	return l.idx, true
}

// State reports the current lifecycle state.
func (l *Loader) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Err returns the terminal load error, if any.
func (l *Loader) Err() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.err
}

// Reset returns a Loaded or Failed loader to Unloaded so the next Load
// fetches again. It refuses to interrupt an in-flight load.
func (l *Loader) Reset() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.state == StateLoading {
		return false
	}
	l.state = StateUnloaded
	l.idx = nil
	l.err = nil
	return true
}
