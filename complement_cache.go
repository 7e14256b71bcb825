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

import (
	"sync"
	"sync/atomic"
)

// ComplementCache memoizes ConstraintSet complements. Complement is the most
// expensive operation of the algebra and the resolver requests the same
// complements over and over across search branches, so a cache typically
// turns most computations into lookups.
//
// Implementations must be safe for concurrent use; the solver may consult the
// cache from multiple goroutines.
type ComplementCache interface {
	// Complement returns the complement of the set, computing and
	// remembering it on first request.
	Complement(set ConstraintSet) ConstraintSet
}

// MemoComplementCache is the standard ComplementCache: a reader/writer-locked
// table from constraint-set values to their complements.
//
// Entries are inserted once computed and never evicted; the table grows
// monotonically for the cache's lifetime. That is acceptable because the
// cache is scoped to a resolution session (create one per solve, or share one
// across solves against the same package universe) and the number of distinct
// constraint sets seen in a run is small relative to memory. Create instances
// with NewComplementCache; the zero value is not usable.
//
// Lookups take a read lock, so concurrent readers never block each other.
// A miss computes the complement without holding any lock and inserts under
// the write lock; two goroutines missing on the same value do the work twice,
// which is harmless since complements are pure values and insertion never
// changes an existing entry.
type MemoComplementCache struct {
	mu      sync.RWMutex
	entries map[uint64][]complementEntry

	lookups atomic.Int64
	hits    atomic.Int64
}

// complementEntry pairs a cached key with its complement. Entries with the
// same digest live in one bucket; Equal disambiguates collisions.
type complementEntry struct {
	key        ConstraintSet
	complement ConstraintSet
}

// NewComplementCache creates an empty complement cache.
func NewComplementCache() *MemoComplementCache {
	return &MemoComplementCache{
		entries: make(map[uint64][]complementEntry),
	}
}

// Complement implements ComplementCache.
func (c *MemoComplementCache) Complement(set ConstraintSet) ConstraintSet {
	c.lookups.Add(1)
	digest := set.Digest()

	c.mu.RLock()
	if cached, ok := lookupComplement(c.entries[digest], set); ok {
		c.mu.RUnlock()
		c.hits.Add(1)
		return cached
	}
	c.mu.RUnlock()

	// Computed outside the lock: complements can be expensive and holding
	// the write lock here would serialize every concurrent miss.
	complement := set.Complement()

	c.mu.Lock()
	if _, ok := lookupComplement(c.entries[digest], set); !ok {
		c.entries[digest] = append(c.entries[digest], complementEntry{
			key:        set,
			complement: complement,
		})
	}
	c.mu.Unlock()

	return complement
}

func lookupComplement(bucket []complementEntry, set ConstraintSet) (ConstraintSet, bool) {
	for _, entry := range bucket {
		if entry.key.Equal(set) {
			return entry.complement, true
		}
	}
	return ConstraintSet{}, false
}

// ComplementCacheStats reports cache effectiveness.
type ComplementCacheStats struct {
	Lookups int64
	Hits    int64
	HitRate float64
	Entries int
}

// Stats returns a snapshot of cache performance counters.
func (c *MemoComplementCache) Stats() ComplementCacheStats {
	c.mu.RLock()
	entries := 0
	for _, bucket := range c.entries {
		entries += len(bucket)
	}
	c.mu.RUnlock()

	stats := ComplementCacheStats{
		Lookups: c.lookups.Load(),
		Hits:    c.hits.Load(),
		Entries: entries,
	}
	if stats.Lookups > 0 {
		stats.HitRate = float64(stats.Hits) / float64(stats.Lookups)
	}
	return stats
}

var _ ComplementCache = (*MemoComplementCache)(nil)
