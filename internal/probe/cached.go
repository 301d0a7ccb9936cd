package probe

import (
	"context"
	"encoding/json"
	"time"

	"github.com/ppiankov/credence/internal/cache"
	"github.com/ppiankov/credence/internal/metrics"
	"github.com/ppiankov/credence/internal/model"
)

// Cached wraps a probe and memoizes its non-nil verdicts per claim
type Cached struct {
	inner   Probe
	store   cache.Cache
	ttl     time.Duration
	metrics *metrics.Metrics
}

// NewCached wraps inner. A nil store returns inner unchanged.
func NewCached(inner Probe, store cache.Cache, ttl time.Duration, m *metrics.Metrics) Probe {
	if store == nil {
		return inner
	}
	return &Cached{inner: inner, store: store, ttl: ttl, metrics: m}
}

// Name returns the wrapped probe's name
func (c *Cached) Name() string { return c.inner.Name() }

// Enabled returns the wrapped probe's state
func (c *Cached) Enabled() bool { return c.inner.Enabled() }

// Probe serves from cache when possible. Errors and no-signal results are not cached.
func (c *Cached) Probe(ctx context.Context, claim string) (*model.SourceVerdict, error) {
	if !c.inner.Enabled() {
		return nil, nil
	}

	key := cache.Key("probe", c.inner.Name(), claim)

	if data, ok := c.store.Get(key); ok {
		var v model.SourceVerdict
		if err := json.Unmarshal(data, &v); err == nil {
			c.metrics.ObserveCache(true)
			return &v, nil
		}
		_ = c.store.Delete(key)
	}
	c.metrics.ObserveCache(false)

	v, err := c.inner.Probe(ctx, claim)
	if err != nil || v == nil {
		return v, err
	}

	if data, err := json.Marshal(v); err == nil {
		_ = c.store.Set(key, data, c.ttl)
	}
	return v, nil
}
