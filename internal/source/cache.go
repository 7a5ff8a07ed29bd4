package source

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/helpdesk-ai/support-engine/internal/observability"
)

// ErrSourceUnavailable indicates both the live fetch and the static file
// fallback failed for a domain.
var ErrSourceUnavailable = errors.New("knowledge source unavailable")

// Provenance records where a cached document came from.
type Provenance string

const (
	ProvenanceLive Provenance = "live"
	ProvenanceFile Provenance = "file"
)

// LiveFetcher retrieves the live document for a domain.
type LiveFetcher interface {
	Fetch(ctx context.Context, domain string) (string, error)
}

// FileStore reads the static fallback corpus for a domain.
type FileStore interface {
	Read(domain string) (string, bool, error)
}

// CacheConfig holds source cache configuration.
type CacheConfig struct {
	// TTL is the freshness window; an entry is fresh iff now - fetched_at < TTL.
	TTL time.Duration
	// Now is the clock, injectable for tests. Defaults to time.Now.
	Now func() time.Time
}

type entry struct {
	data       string
	fetchedAt  time.Time
	provenance Provenance
}

// Cache serves a domain's knowledge text from live fetch, memory cache, or
// static file fallback, in that order. A successful file fallback is cached
// too, so a failing live source is not re-probed on every call.
type Cache struct {
	logger  *observability.Logger
	fetcher LiveFetcher
	store   FileStore
	ttl     time.Duration
	now     func() time.Time

	mu      sync.Mutex
	entries map[string]entry
}

// NewCache creates a source cache. fetcher may be nil when no live sources
// are configured.
func NewCache(logger *observability.Logger, fetcher LiveFetcher, store FileStore, cfg CacheConfig) *Cache {
	if cfg.TTL <= 0 {
		cfg.TTL = 30 * time.Minute
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Cache{
		logger:  logger.WithComponent("source_cache"),
		fetcher: fetcher,
		store:   store,
		ttl:     cfg.TTL,
		now:     cfg.Now,
		entries: make(map[string]entry),
	}
}

// Get returns the knowledge text for a domain. It fails with
// ErrSourceUnavailable only when both live fetch and static fallback fail.
func (c *Cache) Get(ctx context.Context, domain string) (string, Provenance, error) {
	c.mu.Lock()
	if e, ok := c.entries[domain]; ok && c.now().Sub(e.fetchedAt) < c.ttl {
		c.mu.Unlock()
		return e.data, e.provenance, nil
	}
	c.mu.Unlock()

	// The lock is not held across the fetch: two concurrent misses may both
	// fetch, and the later completion overwrites the earlier. Fetches are
	// idempotent so last-writer-wins is acceptable.
	if c.fetcher != nil {
		text, err := c.fetcher.Fetch(ctx, domain)
		if err == nil {
			c.put(domain, text, ProvenanceLive)
			return text, ProvenanceLive, nil
		}
		if !errors.Is(err, ErrNoLiveSource) {
			c.logger.Warn().Err(err).Str("domain", domain).Msg("Live fetch failed, trying static fallback")
		}
	}

	text, ok, err := c.store.Read(domain)
	if err != nil {
		c.logger.Error().Err(err).Str("domain", domain).Msg("Static fallback read failed")
	}
	if err == nil && ok {
		c.put(domain, text, ProvenanceFile)
		return text, ProvenanceFile, nil
	}

	return "", "", fmt.Errorf("%s: %w", domain, ErrSourceUnavailable)
}

// Clear force-invalidates a domain's cache entry. It always succeeds.
func (c *Cache) Clear(domain string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, domain)
}

// DomainInfo describes the provenance of a cached knowledge document.
type DomainInfo struct {
	Domain     string
	Provenance Provenance
	FetchedAt  time.Time
	Preview    string
}

const previewLen = 500

// Info returns diagnostics for a domain's cache entry. ok is false when the
// domain has never been loaded or was cleared.
func (c *Cache) Info(domain string) (DomainInfo, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[domain]
	if !ok {
		return DomainInfo{}, false
	}

	preview := e.data
	if len(preview) > previewLen {
		preview = preview[:previewLen]
	}

	return DomainInfo{
		Domain:     domain,
		Provenance: e.provenance,
		FetchedAt:  e.fetchedAt,
		Preview:    preview,
	}, true
}

func (c *Cache) put(domain, data string, provenance Provenance) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[domain] = entry{
		data:       data,
		fetchedAt:  c.now(),
		provenance: provenance,
	}
}
