package analytics

import (
	"sync"
	"time"
)

// SourceStatus is the per-source health record kept next to the cache.
type SourceStatus struct {
	LastSuccess time.Time `json:"last_success,omitempty"`
	LastError   time.Time `json:"last_error,omitempty"`
	LastErrMsg  string    `json:"last_error_message,omitempty"`
}

// resultCache holds the last-known-good value and outcome timestamps per
// source. The aggregator's degradation policy stays authoritative; the cache
// exists for the operator-facing source status endpoint.
type resultCache struct {
	mu     sync.RWMutex
	values map[string]any
	status map[string]SourceStatus
}

func newResultCache() *resultCache {
	return &resultCache{
		values: make(map[string]any),
		status: make(map[string]SourceStatus),
	}
}

func (c *resultCache) markSuccess(source string, v any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[source] = v
	st := c.status[source]
	st.LastSuccess = time.Now()
	c.status[source] = st
}

func (c *resultCache) markError(source string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	st := c.status[source]
	st.LastError = time.Now()
	st.LastErrMsg = err.Error()
	c.status[source] = st
}

func (c *resultCache) lastGood(source string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.values[source]
	return v, ok
}

func (c *resultCache) snapshot() map[string]SourceStatus {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[string]SourceStatus, len(c.status))
	for k, v := range c.status {
		out[k] = v
	}
	return out
}
