// Copyright 2025 The Condagrub Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package condagrub

import "sync"

// CachedSource wraps a Source and caches GetCandidates and GetDependencies
// calls to improve performance when the same queries are made repeatedly.
//
// WHEN TO USE:
// CachedSource is most beneficial for:
// - Sources with expensive network I/O (channel servers, APIs)
// - Sources that parse dependency strings on every call
// - Running multiple dependency resolutions without recreating the source
//
// WHEN NOT TO USE:
// CachedSource adds a small overhead for:
// - InMemorySource used in a single solve
// - Sources where queries are naturally cached upstream
//
// The cache is maintained for the lifetime of the CachedSource instance and
// assumes that candidate lists and dependencies are immutable during solving.
// Safe for concurrent use by multiple solvers.
type CachedSource struct {
	source Source

	mu sync.RWMutex

	// Cache for GetCandidates results
	candidatesCache     map[Name][]*PackageRecord
	candidatesCalls     int
	candidatesCacheHits int

	// Cache for GetDependencies results, keyed by record identity
	depsCache     map[string][]Term
	depsCalls     int
	depsCacheHits int
}

// NewCachedSource creates a new caching wrapper around the given source.
func NewCachedSource(source Source) *CachedSource {
	return &CachedSource{
		source:          source,
		candidatesCache: make(map[Name][]*PackageRecord),
		depsCache:       make(map[string][]Term),
	}
}

// GetCandidates returns all available records for a package, caching the result.
func (c *CachedSource) GetCandidates(name Name) ([]*PackageRecord, error) {
	c.mu.Lock()
	c.candidatesCalls++
	if records, ok := c.candidatesCache[name]; ok {
		c.candidatesCacheHits++
		c.mu.Unlock()
		return records, nil
	}
	c.mu.Unlock()

	// Fetch outside the lock; a duplicate fetch under contention is benign
	// because sources are immutable during solving.
	records, err := c.source.GetCandidates(name)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.candidatesCache[name] = records
	c.mu.Unlock()
	return records, nil
}

// GetDependencies returns dependency terms for a record, caching the result.
func (c *CachedSource) GetDependencies(record *PackageRecord) ([]Term, error) {
	key := record.String()

	c.mu.Lock()
	c.depsCalls++
	if deps, ok := c.depsCache[key]; ok {
		c.depsCacheHits++
		c.mu.Unlock()
		return deps, nil
	}
	c.mu.Unlock()

	deps, err := c.source.GetDependencies(record)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.depsCache[key] = deps
	c.mu.Unlock()
	return deps, nil
}

// CacheStats returns statistics about cache performance.
type CacheStats struct {
	CandidatesCalls     int
	CandidatesCacheHits int
	CandidatesHitRate   float64

	DepsCalls     int
	DepsCacheHits int
	DepsHitRate   float64

	TotalCalls     int
	TotalCacheHits int
	OverallHitRate float64
}

// GetCacheStats returns cache performance statistics.
func (c *CachedSource) GetCacheStats() CacheStats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	stats := CacheStats{
		CandidatesCalls:     c.candidatesCalls,
		CandidatesCacheHits: c.candidatesCacheHits,
		DepsCalls:           c.depsCalls,
		DepsCacheHits:       c.depsCacheHits,
		TotalCalls:          c.candidatesCalls + c.depsCalls,
		TotalCacheHits:      c.candidatesCacheHits + c.depsCacheHits,
	}

	if stats.CandidatesCalls > 0 {
		stats.CandidatesHitRate = float64(stats.CandidatesCacheHits) / float64(stats.CandidatesCalls)
	}

	if stats.DepsCalls > 0 {
		stats.DepsHitRate = float64(stats.DepsCacheHits) / float64(stats.DepsCalls)
	}

	if stats.TotalCalls > 0 {
		stats.OverallHitRate = float64(stats.TotalCacheHits) / float64(stats.TotalCalls)
	}

	return stats
}

// ClearCache clears all cached data while preserving the underlying source.
func (c *CachedSource) ClearCache() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.candidatesCache = make(map[Name][]*PackageRecord)
	c.depsCache = make(map[string][]Term)
	c.candidatesCalls = 0
	c.candidatesCacheHits = 0
	c.depsCalls = 0
	c.depsCacheHits = 0
}

var (
	_ Source = (*CachedSource)(nil)
)
