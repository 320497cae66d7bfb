package preferences

import (
	"context"
	"encoding/json"
	"errors"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/HerbHall/toolhub/internal/identity"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"go.uber.org/zap"
)

// Cache defaults. Only users that changed their preferences are cached.
const (
	DefaultCacheSize = 10000
	DefaultCacheTTL  = 15 * time.Minute
)

// entry is a cached record. resetEpoch is the Service epoch of the last
// Reset of this user, or zero.
type entry struct {
	prefs      UserPreferences
	resetEpoch uint64
}

// Option configures a Service.
type Option func(*serviceOptions)

type serviceOptions struct {
	cacheSize int
	cacheTTL  time.Duration
}

// WithCacheSize bounds the number of cached users. Non-positive values are
// ignored.
func WithCacheSize(n int) Option {
	return func(o *serviceOptions) {
		if n > 0 {
			o.cacheSize = n
		}
	}
}

// WithCacheTTL sets how long a cached record is served before it is re-read
// from storage. Non-positive values are ignored.
func WithCacheTTL(d time.Duration) Option {
	return func(o *serviceOptions) {
		if d > 0 {
			o.cacheTTL = d
		}
	}
}

// Service owns the preference records and writes every change through to the
// Repository. Records changed by this process are cached and stay
// authoritative while cached, even when the write fails; storage errors are
// logged and counted but never returned. Reads of uncached users go to the
// Repository and are not cached.
type Service struct {
	repo      Repository
	namespace string
	logger    *zap.Logger

	mu    sync.Mutex
	cache *expirable.LRU[string, *entry]
	// epoch counts Resets; evictedReset is the highest resetEpoch of any
	// entry dropped from the cache.
	epoch        uint64
	evictedReset atomic.Uint64
}

// NewService creates a Service. An empty namespace selects DefaultNamespace.
func NewService(repo Repository, namespace string, logger *zap.Logger, opts ...Option) *Service {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	o := serviceOptions{cacheSize: DefaultCacheSize, cacheTTL: DefaultCacheTTL}
	for _, opt := range opts {
		opt(&o)
	}

	s := &Service{
		repo:      repo,
		namespace: namespace,
		logger:    logger,
	}
	s.cache = expirable.NewLRU[string, *entry](o.cacheSize, s.onEvict, o.cacheTTL)
	return s
}

func (s *Service) onEvict(_ string, e *entry) {
	for {
		cur := s.evictedReset.Load()
		if e.resetEpoch <= cur || s.evictedReset.CompareAndSwap(cur, e.resetEpoch) {
			return
		}
	}
}

// CachedUsers returns the number of users held in the cache.
func (s *Service) CachedUsers() int {
	return s.cache.Len()
}

// Get returns userID's preferences.
func (s *Service) Get(ctx context.Context, userID string) UserPreferences {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.cache.Get(userID); ok {
		return e.prefs.clone()
	}
	return s.read(ctx, userID)
}

// UpdateInterests replaces the declared interests.
func (s *Service) UpdateInterests(ctx context.Context, userID string, interests []string) UserPreferences {
	interests = slices.Clone(interests)
	return s.mutate(ctx, userID, func(p *UserPreferences) { p.Interests = interests })
}

// UpdateFrequency sets the usage frequency answer.
func (s *Service) UpdateFrequency(ctx context.Context, userID, frequency string) UserPreferences {
	return s.mutate(ctx, userID, func(p *UserPreferences) { p.Frequency = frequency })
}

// UpdatePricingPreference sets the pricing answer.
func (s *Service) UpdatePricingPreference(ctx context.Context, userID, pricing string) UserPreferences {
	return s.mutate(ctx, userID, func(p *UserPreferences) { p.PricingPreference = pricing })
}

// CompleteQuestionnaire marks onboarding as done.
func (s *Service) CompleteQuestionnaire(ctx context.Context, userID string) UserPreferences {
	return s.mutate(ctx, userID, func(p *UserPreferences) { p.CompletedQuestionnaire = true })
}

// Reset deletes the stored record and reverts userID to defaults. Remote
// answers requested before the Reset are discarded when they arrive.
func (s *Service) Reset(ctx context.Context, userID string) UserPreferences {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := Key(s.namespace, userID)
	if err := s.repo.Delete(ctx, key); err != nil && !errors.Is(err, ErrNotFound) {
		storageFailures.WithLabelValues("delete").Inc()
		s.logger.Warn("failed to delete preferences", zap.String("key", key), zap.Error(err))
	}

	s.epoch++
	e := &entry{prefs: Default(), resetEpoch: s.epoch}
	s.cache.Add(userID, e)
	s.logger.Info("preferences reset", zap.String("user_id", userID))
	return e.prefs.clone()
}

// Reconcile applies the remote onboarding flag. Only the true direction is
// applied: a remote false never downgrades a local true, since the remote
// side may not have caught up with a recent local completion. It reports
// whether local state changed.
func (s *Service) Reconcile(ctx context.Context, userID string, remoteCompleted bool) bool {
	if !remoteCompleted {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reconcileLocked(ctx, userID)
}

func (s *Service) reconcileLocked(ctx context.Context, userID string) bool {
	e := s.entryLocked(ctx, userID)
	if e.prefs.CompletedQuestionnaire {
		return false
	}
	e.prefs.CompletedQuestionnaire = true
	s.persistLocked(ctx, userID, &e.prefs)
	s.cache.Add(userID, e)
	s.logger.Info("questionnaire completion taken from remote profile", zap.String("user_id", userID))
	return true
}

// ReconcileAsync fetches the remote profile in the background and merges it
// with Reconcile into whatever the local state is when the answer arrives, so
// mutations made in the meantime are kept. An answer that arrives after a
// Reset of the same user is dropped. Remote errors leave local state
// unchanged. The returned channel is closed when the attempt finishes.
// Anonymous users have no remote profile and are skipped.
func (s *Service) ReconcileAsync(ctx context.Context, userID string, src ProfileSource) <-chan struct{} {
	done := make(chan struct{})
	if src == nil || userID == "" || userID == identity.Anonymous {
		close(done)
		return done
	}

	s.mu.Lock()
	since := s.epoch
	s.mu.Unlock()

	ctx = context.WithoutCancel(ctx)
	go func() {
		defer close(done)

		completed, err := src.OnboardingCompleted(ctx, userID)
		if err != nil {
			reconciliations.WithLabelValues("error").Inc()
			s.logger.Warn("remote profile unavailable, keeping local preferences",
				zap.String("user_id", userID), zap.Error(err))
			return
		}
		if !completed {
			reconciliations.WithLabelValues("unchanged").Inc()
			return
		}

		s.mu.Lock()
		defer s.mu.Unlock()

		if s.resetSinceLocked(userID, since) {
			reconciliations.WithLabelValues("stale").Inc()
			s.logger.Info("dropping remote profile answer requested before reset", zap.String("user_id", userID))
			return
		}
		if s.reconcileLocked(ctx, userID) {
			reconciliations.WithLabelValues("upgraded").Inc()
			return
		}
		reconciliations.WithLabelValues("unchanged").Inc()
	}()
	return done
}

// resetSinceLocked reports whether userID may have been Reset after epoch
// since. An uncached user counts as reset if any reset entry has been
// evicted since then.
func (s *Service) resetSinceLocked(userID string, since uint64) bool {
	if e, ok := s.cache.Peek(userID); ok {
		return e.resetEpoch > since
	}
	return s.evictedReset.Load() > since
}

func (s *Service) mutate(ctx context.Context, userID string, fn func(*UserPreferences)) UserPreferences {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := s.entryLocked(ctx, userID)
	fn(&e.prefs)
	s.persistLocked(ctx, userID, &e.prefs)
	s.cache.Add(userID, e)
	return e.prefs.clone()
}

// entryLocked returns the cached entry for userID or a new one read from
// storage. New entries are not added to the cache.
func (s *Service) entryLocked(ctx context.Context, userID string) *entry {
	if e, ok := s.cache.Get(userID); ok {
		return e
	}
	return &entry{prefs: s.read(ctx, userID)}
}

// read loads the stored record, falling back to defaults when it is missing,
// unreadable or corrupt.
func (s *Service) read(ctx context.Context, userID string) UserPreferences {
	key := Key(s.namespace, userID)
	raw, err := s.repo.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			storageFailures.WithLabelValues("load").Inc()
			s.logger.Warn("failed to load preferences, using defaults", zap.String("key", key), zap.Error(err))
		}
		return Default()
	}

	var p UserPreferences
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		storageFailures.WithLabelValues("decode").Inc()
		s.logger.Warn("stored preferences are corrupt, using defaults", zap.String("key", key), zap.Error(err))
		return Default()
	}
	if p.Interests == nil {
		p.Interests = []string{}
	}
	return p
}

func (s *Service) persistLocked(ctx context.Context, userID string, p *UserPreferences) {
	key := Key(s.namespace, userID)
	data, err := json.Marshal(p.clone())
	if err != nil {
		storageFailures.WithLabelValues("encode").Inc()
		s.logger.Error("failed to encode preferences", zap.String("key", key), zap.Error(err))
		return
	}
	if err := s.repo.Set(ctx, key, string(data)); err != nil {
		storageFailures.WithLabelValues("save").Inc()
		s.logger.Warn("failed to persist preferences, keeping in-memory state", zap.String("key", key), zap.Error(err))
	}
}
