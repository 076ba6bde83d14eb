package tariff

import (
	"sync/atomic"

	"go.uber.org/zap"

	"tou-cost/internal/logging"
	"tou-cost/internal/metrics"
)

// Store publishes the tariff used by new pricing runs. A run takes one
// snapshot with Current and keeps it; Replace and Reload only affect runs
// that start afterwards.
type Store struct {
	current atomic.Pointer[Tariff]
	logger  *zap.Logger
}

// StoreOption configures a Store
type StoreOption func(*Store)

// WithStoreLogger sets the logger publish and reload events go to.
// The default is the global logging.Logger.
func WithStoreLogger(l *zap.Logger) StoreOption {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewStore validates t and publishes a private copy of it
func NewStore(t *Tariff, opts ...StoreOption) (*Store, error) {
	s := &Store{logger: logging.Logger}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if err := s.Replace(t); err != nil {
		return nil, err
	}
	return s, nil
}

// Current returns the published tariff. Callers must not modify it.
func (s *Store) Current() *Tariff {
	return s.current.Load()
}

// Replace validates t and publishes a copy. An invalid tariff leaves the
// current one in place.
func (s *Store) Replace(t *Tariff) error {
	if t == nil {
		return configError("tariff is nil")
	}
	if err := t.Validate(); err != nil {
		return err
	}

	next := t.Clone()
	prev := s.current.Swap(next)
	if prev == nil || prev.Fingerprint() != next.Fingerprint() {
		s.logger.Info("tariff published", zap.String("tariff", next.Describe()))
	}
	return nil
}

// Reload loads a tariff file and publishes it
func (s *Store) Reload(path string, format Format) error {
	t, err := LoadFormat(path, format)
	if err == nil {
		err = s.Replace(t)
	}
	if err != nil {
		metrics.IncTariffReload(metrics.ResultError)
		s.logger.Warn("tariff reload rejected, keeping current tariff",
			zap.String("path", path),
			zap.Error(err),
		)
		return err
	}
	metrics.IncTariffReload(metrics.ResultSuccess)
	return nil
}
