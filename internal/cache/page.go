package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultPageTTL is how long a rendered docs page stays cached.
const DefaultPageTTL = 5 * time.Minute

const (
	pageKeyPrefix = "page:"
	purgeBatch    = 100
)

// PageCache holds fully rendered docs pages in Valkey, so a hit skips the
// content tree, Markdown conversion and the layout. Studio pages carry
// per-project data and never go through it.
type PageCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewPageCache returns a cache whose entries expire after ttl, or after
// DefaultPageTTL when ttl is zero.
func NewPageCache(client *redis.Client, ttl time.Duration) *PageCache {
	if ttl <= 0 {
		ttl = DefaultPageTTL
	}
	return &PageCache{client: client, ttl: ttl}
}

// Get returns the cached page for key. Any Valkey error counts as a miss
// so a cache outage only costs a render.
func (pc *PageCache) Get(ctx context.Context, key string) ([]byte, bool) {
	html, err := pc.client.Get(ctx, pageKeyPrefix+key).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		return nil, false
	case err != nil:
		slog.Warn("page cache read failed", "key", key, "error", err)
		return nil, false
	}
	return html, true
}

// Set caches html under key.
func (pc *PageCache) Set(ctx context.Context, key string, html []byte) {
	if err := pc.client.Set(ctx, pageKeyPrefix+key, html, pc.ttl).Err(); err != nil {
		slog.Warn("page cache write failed", "key", key, "error", err)
	}
}

// InvalidatePage drops one page.
func (pc *PageCache) InvalidatePage(ctx context.Context, key string) error {
	if err := pc.client.Del(ctx, pageKeyPrefix+key).Err(); err != nil {
		return fmt.Errorf("invalidate page %s: %w", key, err)
	}
	return nil
}

// InvalidatePrefix drops every page whose key starts with prefix and
// returns how many were removed. GuideKey(section, "") covers a whole
// guide section, RefKey(lib, "") a whole library.
func (pc *PageCache) InvalidatePrefix(ctx context.Context, prefix string) (int, error) {
	iter := pc.client.Scan(ctx, 0, pageKeyPrefix+prefix+"*", purgeBatch).Iterator()

	removed := 0
	batch := make([]string, 0, purgeBatch)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		n, err := pc.client.Unlink(ctx, batch...).Result()
		removed += int(n)
		batch = batch[:0]
		return err
	}

	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == purgeBatch {
			if err := flush(); err != nil {
				return removed, fmt.Errorf("purge %q: %w", prefix, err)
			}
		}
	}
	if err := iter.Err(); err != nil {
		return removed, fmt.Errorf("scan %q: %w", prefix, err)
	}
	if err := flush(); err != nil {
		return removed, fmt.Errorf("purge %q: %w", prefix, err)
	}

	slog.Info("page cache purged", "prefix", prefix, "removed", removed)
	return removed, nil
}

// InvalidateAll drops every cached page. Any change to the content tree or
// the menu table can touch every page through the navigation.
func (pc *PageCache) InvalidateAll(ctx context.Context) (int, error) {
	return pc.InvalidatePrefix(ctx, "")
}

// HomeKey is the key of the docs home page.
func HomeKey() string { return "_home" }

// GuideKey is the key of a guide page; the empty slug is the section index.
func GuideKey(section, slug string) string {
	return "guide:" + section + "/" + slug
}

// RefKey is the key of a reference section page.
func RefKey(lib, slug string) string {
	return "ref:" + lib + "/" + slug
}
