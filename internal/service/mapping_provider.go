// Package service orchestrates the calibration and selection cores
// against persistence, caching and the projection feed.
package service

import (
	"context"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/yourusername/sharp-picks/internal/calibration"
	"github.com/yourusername/sharp-picks/internal/metrics"
	"github.com/yourusername/sharp-picks/internal/models"
	"github.com/yourusername/sharp-picks/internal/repository"
)

// MappingProvider supplies the current isotonic mapping for a segment
type MappingProvider interface {
	Mapping(ctx context.Context, key models.MappingKey) (calibration.Mapping, error)
	Invalidate(key models.MappingKey)
}

// CachedMappingProvider is a read-through cache over the calibration
// repository. Mappings are read-mostly: decision cycles read them many
// times between recalibration batches.
type CachedMappingProvider struct {
	repo  repository.CalibrationRepository
	cache *gocache.Cache

	mu        sync.Mutex
	hitCount  uint64
	missCount uint64
}

// NewCachedMappingProvider creates a provider with the given TTL
func NewCachedMappingProvider(repo repository.CalibrationRepository, ttl time.Duration) *CachedMappingProvider {
	return &CachedMappingProvider{
		repo:  repo,
		cache: gocache.New(ttl, ttl*2),
	}
}

// Mapping returns the cached mapping for the segment, loading it from
// the repository on a miss. A segment with no stored mapping yields an
// empty mapping, which Apply treats as identity.
func (p *CachedMappingProvider) Mapping(ctx context.Context, key models.MappingKey) (calibration.Mapping, error) {
	if cached, found := p.cache.Get(key.String()); found {
		p.recordHit(true)
		if mapping, ok := cached.(calibration.Mapping); ok {
			return mapping, nil
		}
	}
	p.recordHit(false)

	mapping, err := p.repo.GetMapping(ctx, key)
	if err != nil {
		return nil, err
	}

	p.cache.SetDefault(key.String(), mapping)
	return mapping, nil
}

// Invalidate drops the cached mapping for a segment; called after each
// recalibration batch replaces the stored mapping.
func (p *CachedMappingProvider) Invalidate(key models.MappingKey) {
	p.cache.Delete(key.String())
}

// Stats returns cache hit statistics
func (p *CachedMappingProvider) Stats() (hits, misses uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.hitCount, p.missCount
}

func (p *CachedMappingProvider) recordHit(hit bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if hit {
		p.hitCount++
	} else {
		p.missCount++
	}
	total := p.hitCount + p.missCount
	if total > 0 {
		metrics.MappingCacheHitRatio.Set(float64(p.hitCount) / float64(total))
	}
}
