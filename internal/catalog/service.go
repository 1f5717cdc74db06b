package catalog

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/BinkaDev/gachabox/internal/fetch"
)

// Status describes the outcome of the latest box-list load.
type Status int

const (
	StatusLoading Status = iota
	StatusEmpty
	StatusFailed
	StatusReady
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusEmpty:
		return "empty"
	case StatusFailed:
		return "failed"
	case StatusReady:
		return "ready"
	default:
		return "unknown"
	}
}

// Snapshot is the published catalog state. Boxes must not be mutated.
type Snapshot struct {
	Boxes    []Box
	Status   Status
	Err      error
	LoadedAt time.Time
}

// Box returns the box at index i.
func (s Snapshot) Box(i int) (Box, bool) {
	if i < 0 || i >= len(s.Boxes) {
		return Box{}, false
	}
	return s.Boxes[i], true
}

// ErrorDetail returns the user-facing failure text of the last load.
func (s Snapshot) ErrorDetail() string {
	return fetch.Detail(s.Err)
}

// BoxLoader loads the full box list.
type BoxLoader interface {
	LoadBoxes(ctx context.Context) ([]Box, error)
}

// Service owns the catalog snapshot and reloads it on demand.
type Service struct {
	loader BoxLoader
	logger *zap.Logger
	now    func() time.Time

	mu   sync.RWMutex
	snap Snapshot

	reloadMu sync.Mutex
}

// ServiceOption customises Service.
type ServiceOption func(*Service)

// WithLogger sets the logger used for load outcomes.
func WithLogger(logger *zap.Logger) ServiceOption {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock overrides the clock used for LoadedAt.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService returns a Service in the loading state.
func NewService(loader BoxLoader, opts ...ServiceOption) *Service {
	s := &Service{
		loader: loader,
		logger: zap.NewNop(),
		now:    time.Now,
		snap:   Snapshot{Status: StatusLoading},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Snapshot returns the current state.
func (s *Service) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

// Reload fetches the box list once. A non-empty result replaces the boxes
// wholesale; an empty result or a failure updates only the status and keeps
// the previously published boxes.
func (s *Service) Reload(ctx context.Context) error {
	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	s.mu.Lock()
	if len(s.snap.Boxes) == 0 {
		s.snap.Status = StatusLoading
		s.snap.Err = nil
	}
	s.mu.Unlock()

	boxes, err := s.loader.LoadBoxes(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case err != nil:
		s.snap.Status = StatusFailed
		s.snap.Err = err
		s.logger.Warn("catalog load failed", zap.Error(err), zap.Int("kept_boxes", len(s.snap.Boxes)))
		return err
	case len(boxes) == 0:
		s.snap.Status = StatusEmpty
		s.snap.Err = nil
		s.logger.Warn("catalog is empty", zap.Int("kept_boxes", len(s.snap.Boxes)))
	default:
		s.snap = Snapshot{Boxes: boxes, Status: StatusReady, LoadedAt: s.now()}
		s.logger.Info("catalog loaded", zap.Int("boxes", len(boxes)))
	}
	return nil
}

// Run reloads every interval until ctx is done. A non-positive interval
// disables refreshing and Run just waits for ctx.
func (s *Service) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		<-ctx.Done()
		return nil
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			_ = s.Reload(ctx)
		}
	}
}
