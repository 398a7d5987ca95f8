// Package cache provides caching implementations for pipeline collaborators.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"inventory_backend/internal/feature/inventory/domain/entity"
	"inventory_backend/internal/feature/inventory/usecase"
)

// CachingObjectDetector decorates an ObjectDetector with Redis caching.
// Detection for the same image bytes and threshold is deterministic, so
// results are cached by image digest. Cache failures are best effort and
// never fail a detection.
type CachingObjectDetector struct {
	inner     usecase.ObjectDetector
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

var _ usecase.ObjectDetector = (*CachingObjectDetector)(nil)

// NewCachingObjectDetector decorates an ObjectDetector with Redis caching.
// If ttl is 0, it defaults to 24 hours. If namespace is empty, it uses "detections".
func NewCachingObjectDetector(rdb *redis.Client, ttl time.Duration, inner usecase.ObjectDetector, namespace string) *CachingObjectDetector {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	if namespace == "" {
		namespace = "detections"
	}
	return &CachingObjectDetector{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
	}
}

// Detect returns cached detections when available, falling back to the
// underlying detector.
func (c *CachingObjectDetector) Detect(ctx context.Context, image []byte, minConfidence float64) ([]entity.RawDetection, error) {
	// Bypass cache if Redis is not configured
	if c.rdb == nil {
		return c.inner.Detect(ctx, image, minConfidence)
	}

	key := c.cacheKey(image, minConfidence)

	// 1) Check cache
	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		var out []entity.RawDetection
		if err := json.Unmarshal(b, &out); err == nil {
			return out, nil
		}
		// Delete corrupted cache entry
		_ = c.rdb.Del(ctx, key).Err()
	}

	// 2) Fallback to the real detector
	out, err := c.inner.Detect(ctx, image, minConfidence)
	if err != nil {
		return nil, err
	}

	// 3) Store in cache (best effort)
	if b, err := json.Marshal(out); err == nil {
		_ = c.rdb.Set(ctx, key, b, c.ttl).Err()
	}

	return out, nil
}

// cacheKey derives a key from the image digest and the threshold.
func (c *CachingObjectDetector) cacheKey(image []byte, minConfidence float64) string {
	return fmt.Sprintf("%s:%x:%.2f", c.namespace, sha256.Sum256(image), minConfidence)
}
