// Package settings provides cached read/write access to runtime platform
// settings.
package settings

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/blindscommerce/backend/internal/domain/settings"
	"github.com/blindscommerce/backend/internal/domain/shared"
)

// DefaultCacheTTL bounds how stale a cached setting may be. Settings change
// rarely and a short window keeps admin edits visible without hammering the
// database on every tax calculation.
const DefaultCacheTTL = 5 * time.Minute

type cacheEntry struct {
	value     string
	found     bool
	expiresAt time.Time
}

// Service reads and writes settings through a small in-process TTL cache.
type Service struct {
	repo   settings.Repository
	logger *zap.Logger
	ttl    time.Duration

	mu    sync.RWMutex
	cache map[string]cacheEntry
}

var _ settings.Provider = (*Service)(nil)

func NewService(repo settings.Repository, logger *zap.Logger, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &Service{
		repo:   repo,
		logger: logger,
		ttl:    ttl,
		cache:  make(map[string]cacheEntry),
	}
}

// String returns the setting's value, or fallback when the key is absent or
// the lookup fails.
func (s *Service) String(ctx context.Context, category, key, fallback string) string {
	value, found := s.lookup(ctx, category, key)
	if !found {
		return fallback
	}
	return value
}

// Bool interprets the stored value as a boolean. Anything but "true"
// (case-insensitive) or "1" is false; absent keys yield fallback.
func (s *Service) Bool(ctx context.Context, category, key string, fallback bool) bool {
	value, found := s.lookup(ctx, category, key)
	if !found {
		return fallback
	}
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "true", "1":
		return true
	default:
		return false
	}
}

// Category returns all settings in a category, bypassing the cache. Used by
// the admin surface where freshness matters more than latency.
func (s *Service) Category(ctx context.Context, category string) ([]*settings.Setting, error) {
	return s.repo.FindByCategory(ctx, category)
}

// Put stores a setting and invalidates its cache entry.
func (s *Service) Put(ctx context.Context, setting *settings.Setting) error {
	if err := setting.Validate(); err != nil {
		return err
	}
	if err := s.repo.Upsert(ctx, setting); err != nil {
		return err
	}
	s.mu.Lock()
	delete(s.cache, cacheKey(setting.Category, setting.Key))
	s.mu.Unlock()
	return nil
}

// lookup resolves a single setting, consulting the cache first. Both hits and
// confirmed misses are cached so absent keys don't query on every call.
func (s *Service) lookup(ctx context.Context, category, key string) (string, bool) {
	ck := cacheKey(category, key)

	s.mu.RLock()
	entry, ok := s.cache[ck]
	s.mu.RUnlock()
	if ok && time.Now().Before(entry.expiresAt) {
		return entry.value, entry.found
	}

	setting, err := s.repo.Find(ctx, category, key)
	if err != nil {
		if !isNotFound(err) {
			s.logger.Warn("settings lookup failed",
				zap.String("category", category),
				zap.String("key", key),
				zap.Error(err))
			// Don't cache transient failures.
			return "", false
		}
		s.store(ck, "", false)
		return "", false
	}

	s.store(ck, setting.Value, true)
	return setting.Value, true
}

func (s *Service) store(ck, value string, found bool) {
	s.mu.Lock()
	s.cache[ck] = cacheEntry{value: value, found: found, expiresAt: time.Now().Add(s.ttl)}
	s.mu.Unlock()
}

func cacheKey(category, key string) string {
	return category + "/" + key
}

func isNotFound(err error) bool {
	return errors.Is(err, shared.ErrNotFound)
}
