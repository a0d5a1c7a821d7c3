package services

import (
	"context"
	"sync"
	"time"

	"github.com/astrovows/starlight-backend/internal/catalog"
	"github.com/astrovows/starlight-backend/internal/logger"
)

// CatalogStatus is the read-only projection of the loader's lifecycle,
// served by the admin status endpoint.
type CatalogStatus struct {
	State string `json:"state"`
	Stars int    `json:"stars"`
	Error string `json:"error,omitempty"`
}

// CatalogService binds the loader to its configured source and owns the
// deferred background warm-up.
type CatalogService struct {
	loader       *catalog.Loader
	src          string
	decompressed bool
	warmDelay    time.Duration
	warmOnce     sync.Once
	log          *logger.Logger
}

// NewCatalogService configures the service. decompressed mirrors how the
// transport delivers the payload; it is caller-supplied configuration, not
// something inferred from the stream.
func NewCatalogService(loader *catalog.Loader, src string, decompressed bool, warmDelay time.Duration, log *logger.Logger) *CatalogService {
	return &CatalogService{
		loader:       loader,
		src:          src,
		decompressed: decompressed,
		warmDelay:    warmDelay,
		log:          log.With("service", "CatalogService"),
	}
}

// Load triggers (or attaches to) a catalog load. Only direct callers see
// the error; the resolution pipeline never does.
func (s *CatalogService) Load(ctx context.Context) (*catalog.Index, error) {
	return s.loader.Load(ctx, s.src, s.decompressed)
}

// Index returns the loaded index without triggering a load.
func (s *CatalogService) Index() (*catalog.Index, bool) {
	return s.loader.Index()
}

// Status reports the loader state for the admin endpoint.
func (s *CatalogService) Status() CatalogStatus {
	st := CatalogStatus{State: s.loader.State().String()}
	if idx, ok := s.loader.Index(); ok {
		st.Stars = idx.Total()
	}
	if err := s.loader.Err(); err != nil {
		st.Error = err.Error()
	}
	return st
}

// Reload is the explicit external reset: it clears a loaded or failed
// state and fetches again.
func (s *CatalogService) Reload(ctx context.Context) (*catalog.Index, error) {
	if !s.loader.Reset() {
		// A load is in flight; attach to it instead of interrupting.
		s.log.Warn("reload requested while a load is in flight, attaching to it")
	}
	return s.Load(ctx)
}

// StartBackgroundWarm schedules exactly one deferred load attempt. The
// attempt is skipped when a foreground load already moved the state
// machine, and a failed attempt is never retried automatically.
func (s *CatalogService) StartBackgroundWarm(ctx context.Context) {
	s.warmOnce.Do(func() {
		go func() {
			select {
			case <-ctx.Done():
				return
			case <-time.After(s.warmDelay):
			}
			if st := s.loader.State(); st != catalog.StateUnloaded {
				s.log.Debug("background warm skipped", "state", st.String())
				return
			}
			s.log.Info("starting background catalog warm", "source", s.src)
			if _, err := s.Load(ctx); err != nil {
				s.log.Warn("background catalog warm failed, giving up", "error", err)
			}
		}()
	})
}
