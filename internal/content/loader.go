package content

import (
	"context"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/homecrimes/caseroom/internal/errors"
	"github.com/homecrimes/caseroom/internal/models"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// Loader caches the content of a source per slug. Every fetch takes a token from a monotonically increasing
// counter and a response is only cached when no newer fetch for the same slug has completed before it.
type Loader struct {
	source  Source
	cache   *expirable.LRU[string, models.Content]
	logger  *slog.Logger
	tokens  atomic.Uint64
	mu      sync.Mutex
	applied map[string]uint64
}

// NewLoader creates a Loader keeping at most size cases for ttl.
func NewLoader(source Source, size int, ttl time.Duration, logger *slog.Logger) *Loader {
	return &Loader{ //nolint:exhaustruct // tokens and mu are usable as zero values
		source:  source,
		cache:   expirable.NewLRU[string, models.Content](size, nil, ttl),
		logger:  logger,
		applied: make(map[string]uint64),
	}
}

// Load returns the cached content of slug or fetches it.
func (l *Loader) Load(ctx context.Context, slug string) (models.Content, error) {
	if c, ok := l.cache.Get(slug); ok {
		return c, nil
	}
	return l.Refresh(ctx, slug)
}

// Refresh fetches slug bypassing the cache.
func (l *Loader) Refresh(ctx context.Context, slug string) (models.Content, error) {
	token := l.tokens.Add(1)
	c, err := l.source.Load(ctx, slug)
	if err != nil {
		return models.Content{}, errors.Wrap(err, "load content", slog.String("slug", slug)) //nolint:exhaustruct // error path
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if token < l.applied[slug] {
		l.logger.LogAttrs(ctx, slog.LevelDebug, "discarding stale content response",
			slog.String("slug", slug), slog.Uint64("token", token), slog.Uint64("applied", l.applied[slug]))
		if newer, ok := l.cache.Peek(slug); ok {
			return newer, nil
		}
		return c, nil
	}
	l.applied[slug] = token
	l.cache.Add(slug, c)
	return c, nil
}

// Invalidate forgets the cached content of slug.
func (l *Loader) Invalidate(slug string) {
	l.cache.Remove(slug)
}
