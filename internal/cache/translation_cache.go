// Package cache holds the Redis-backed translation cache: validated SQL for
// a question is reusable until the schema or prompt changes, and skipping a
// model round-trip is the single biggest latency win in the pipeline.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/quantdesk/tradechat-go/internal/models"
)

// translationEntry is the cached record with metadata.
type translationEntry struct {
	Query    models.TranslatedQuery `json:"query"`
	CachedAt time.Time              `json:"cached_at"`
}

// Stats is a point-in-time copy of the cache counters.
type Stats struct {
	Hits   int64 `json:"hits"`
	Misses int64 `json:"misses"`
	Sets   int64 `json:"sets"`
}

// TranslationCache maps normalized questions to validated queries. Only
// statements that passed validation are ever stored. All methods are
// nil-safe so the pipeline runs unchanged when Redis is not configured.
type TranslationCache struct {
	redis  *redis.Client
	ttl    time.Duration
	prefix string
	log    *logrus.Entry

	mu    sync.Mutex
	stats Stats
}

// NewTranslationCache builds a cache over the given Redis client.
func NewTranslationCache(client *redis.Client, ttl time.Duration) *TranslationCache {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &TranslationCache{
		redis:  client,
		ttl:    ttl,
		prefix: "translation_cache:",
		log:    logrus.WithField("component", "translation_cache"),
	}
}

// Get returns the cached query for a question, if present.
func (c *TranslationCache) Get(ctx context.Context, question string) (*models.TranslatedQuery, bool) {
	if c == nil || c.redis == nil {
		return nil, false
	}

	data, err := c.redis.Get(ctx, c.key(question)).Result()
	if err == redis.Nil {
		c.miss()
		return nil, false
	}
	if err != nil {
		c.log.WithError(err).Warn("Redis get failed")
		c.miss()
		return nil, false
	}

	var entry translationEntry
	if err := json.Unmarshal([]byte(data), &entry); err != nil {
		c.log.WithError(err).Warn("Corrupt cache entry dropped")
		c.miss()
		return nil, false
	}

	c.mu.Lock()
	c.stats.Hits++
	c.mu.Unlock()
	q := entry.Query
	return &q, true
}

// Set stores a validated query for the question.
func (c *TranslationCache) Set(ctx context.Context, question string, q *models.TranslatedQuery) {
	if c == nil || c.redis == nil || q == nil {
		return
	}

	entry := translationEntry{Query: *q, CachedAt: time.Now()}
	data, err := json.Marshal(entry)
	if err != nil {
		c.log.WithError(err).Warn("Cache entry encode failed")
		return
	}
	if err := c.redis.Set(ctx, c.key(question), data, c.ttl).Err(); err != nil {
		c.log.WithError(err).Warn("Redis set failed")
		return
	}

	c.mu.Lock()
	c.stats.Sets++
	c.mu.Unlock()
}

// Snapshot returns a copy of the counters.
func (c *TranslationCache) Snapshot() Stats {
	if c == nil {
		return Stats{}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}

func (c *TranslationCache) miss() {
	c.mu.Lock()
	c.stats.Misses++
	c.mu.Unlock()
}

// key normalizes the question (case and whitespace) and hashes it so near
// duplicates share an entry and keys stay bounded.
func (c *TranslationCache) key(question string) string {
	normalized := strings.Join(strings.Fields(strings.ToLower(question)), " ")
	sum := sha256.Sum256([]byte(normalized))
	return c.prefix + hex.EncodeToString(sum[:])
}
