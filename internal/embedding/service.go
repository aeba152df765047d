package embedding

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// LoadTimeout bounds a single model load.
const LoadTimeout = 2 * time.Minute

// Loader builds the embedding provider. It runs at most once per successful load.
type Loader func(ctx context.Context) (Embedder, error)

// Service is a lazily-initialized, memoized model handle.
// Concurrent first callers share one in-flight load; a failed load is not
// remembered, so the next call tries again.
type Service struct {
	load   Loader
	logger *zap.Logger

	group singleflight.Group
	mu    sync.RWMutex
	model Embedder
}

// NewService creates a Service that defers loading until first use.
func NewService(load Loader, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{load: load, logger: logger}
}

// Loaded reports whether the model handle is ready.
func (s *Service) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.model != nil
}

// Warm loads the model eagerly.
func (s *Service) Warm(ctx context.Context) error {
	_, err := s.Model(ctx)
	return err
}

// WarmAfter schedules a single speculative load after d. It is never cancelled;
// a caller that arrives first simply joins or reuses the same load.
func (s *Service) WarmAfter(d time.Duration) {
	time.AfterFunc(d, func() {
		if err := s.Warm(context.Background()); err != nil {
			s.logger.Warn("Embedding pre-warm failed", zap.Error(err))
		}
	})
}

// Model returns the memoized provider, loading it on first use.
func (s *Service) Model(ctx context.Context) (Embedder, error) {
	s.mu.RLock()
	m := s.model
	s.mu.RUnlock()
	if m != nil {
		return m, nil
	}

	ch := s.group.DoChan("model", func() (any, error) {
		s.mu.RLock()
		existing := s.model
		s.mu.RUnlock()
		if existing != nil {
			return existing, nil
		}

		// The load is shared, so one caller cancelling must not fail the rest.
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), LoadTimeout)
		defer cancel()

		start := time.Now()
		s.logger.Info("Loading embedding model")
		loaded, err := s.load(loadCtx)
		if err != nil {
			s.logger.Error("Embedding model load failed", zap.Error(err))
			return nil, err
		}
		if loaded == nil {
			return nil, ErrModelUnavailable
		}

		s.mu.Lock()
		s.model = loaded
		s.mu.Unlock()
		s.logger.Info("Embedding model loaded", zap.Duration("duration", time.Since(start)))
		return loaded, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, &ModelUnavailableError{Op: "load", Err: res.Err}
		}
		return res.Val.(Embedder), nil
	case <-ctx.Done():
		return nil, &ModelUnavailableError{Op: "load", Err: ctx.Err()}
	}
}

// Embed loads the model if needed and embeds text.
func (s *Service) Embed(ctx context.Context, text string) ([]float32, error) {
	m, err := s.Model(ctx)
	if err != nil {
		return nil, err
	}
	vec, err := m.Embed(ctx, text)
	if err != nil {
		return nil, &ModelUnavailableError{Op: "embed", Err: err}
	}
	return vec, nil
}
