package condagrub

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComplementCacheReturnsCorrectComplement(t *testing.T) {
	t.Parallel()

	cache := NewComplementCache()
	set := constraintFromSpec(t, "foo >=1.0,<2.0")

	got := cache.Complement(set)
	want := set.Complement()
	require.True(t, got.Equal(want), "cached complement = %s, want %s", got, want)

	// Second request is a hit and yields the same value.
	again := cache.Complement(set)
	assert.True(t, again.Equal(want))

	stats := cache.Stats()
	assert.Equal(t, int64(2), stats.Lookups)
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, 1, stats.Entries)
	assert.InDelta(t, 0.5, stats.HitRate, 1e-9)
}

func TestComplementCacheValueEqualKeysConverge(t *testing.T) {
	t.Parallel()

	cache := NewComplementCache()

	// Structurally equal sets built along different paths must share an entry.
	a := constraintFromSpec(t, "foo >=1.0,<2.0")
	b := constraintFromSpec(t, "foo >=1.0").Intersection(constraintFromSpec(t, "foo <2.0"))
	require.True(t, a.Equal(b))

	cache.Complement(a)
	cache.Complement(b)

	stats := cache.Stats()
	assert.Equal(t, int64(1), stats.Hits, "second lookup should hit")
	assert.Equal(t, 1, stats.Entries)
}

func TestComplementCacheDistinctKeys(t *testing.T) {
	t.Parallel()

	cache := NewComplementCache()

	a := constraintFromSpec(t, "foo >=1.0")
	b := constraintFromSpec(t, "foo >=2.0")

	ca := cache.Complement(a)
	cb := cache.Complement(b)

	assert.False(t, ca.Equal(cb))
	assert.Equal(t, 2, cache.Stats().Entries)
	assert.Equal(t, int64(0), cache.Stats().Hits)
}

func TestComplementCacheConcurrentAccess(t *testing.T) {
	t.Parallel()

	cache := NewComplementCache()

	specs := []string{
		"foo >=1.0,<2.0",
		"foo <1.0|>=2.0",
		"foo >=1.0[build_number=1]",
		"foo ==1.2.3[build_number=0]",
		"foo *",
	}
	sets := make([]ConstraintSet, len(specs))
	wants := make([]ConstraintSet, len(specs))
	for i, spec := range specs {
		sets[i] = constraintFromSpec(t, spec)
		wants[i] = sets[i].Complement()
	}

	const goroutines = 16
	const rounds = 50

	var wg sync.WaitGroup
	errs := make(chan string, goroutines)

	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func(offset int) {
			defer wg.Done()
			for round := 0; round < rounds; round++ {
				i := (offset + round) % len(sets)
				got := cache.Complement(sets[i])
				if !got.Equal(wants[i]) {
					errs <- "wrong complement for " + sets[i].String()
					return
				}
			}
		}(g)
	}

	wg.Wait()
	close(errs)
	for msg := range errs {
		t.Error(msg)
	}

	stats := cache.Stats()
	assert.Equal(t, int64(goroutines*rounds), stats.Lookups)
	// Duplicate computation under a concurrent miss is allowed, but the table
	// must still hold exactly one entry per distinct set.
	assert.Equal(t, len(sets), stats.Entries)
	assert.Greater(t, stats.Hits, int64(0))
}
