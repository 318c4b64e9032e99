// Package cache provides toxicity score caching implementations.
//
// Keys are built by the orchestrator from a text hash plus the engine
// kind, so message content never reaches a cache backend.
package cache

// ScoreCache is the interface for toxicity score caching.
type ScoreCache interface {
	// Get retrieves a cached score. Returns 0 and false if not found
	// or expired.
	Get(key string) (float64, bool)

	// Set stores a score in the cache.
	Set(key string, score float64) error
}

// Stats summarizes cache effectiveness.
type Stats struct {
	Hits      int64 `json:"hits"`
	Misses    int64 `json:"misses"`
	Evictions int64 `json:"evictions"`
	Expired   int64 `json:"expired"`
	Size      int   `json:"size"`
}

// HitRate returns hits / (hits + misses), or 0 with no lookups.
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}
