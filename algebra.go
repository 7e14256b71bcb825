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

// SetAlgebra is the complete capability surface the resolver depends on.
// The solver consumes constraint sets opaquely through these six operations
// (plus ConstraintSet's own Equal and Digest); it never inspects groups or
// ranges directly.
type SetAlgebra interface {
	// Empty returns the set matching no record.
	Empty() ConstraintSet

	// Full returns the set matching every record.
	Full() ConstraintSet

	// Singleton returns the set matching exactly the given record.
	Singleton(record *PackageRecord) ConstraintSet

	// Intersection returns the set of records matched by both sets.
	Intersection(a, b ConstraintSet) ConstraintSet

	// Complement returns the set of records NOT matched by the set.
	Complement(set ConstraintSet) ConstraintSet

	// Contains reports whether the set matches the record.
	Contains(set ConstraintSet, record *PackageRecord) bool
}

// Algebra implements SetAlgebra over ConstraintSet with complements memoized
// through an injected ComplementCache. The cache is owned by the session that
// creates the Algebra; nothing here is package-global.
//
// Every operation is pure and safe for concurrent use.
type Algebra struct {
	cache ComplementCache
}

// NewAlgebra creates an Algebra using the given complement cache.
// A nil cache is allowed; complements are then computed uncached.
func NewAlgebra(cache ComplementCache) *Algebra {
	return &Algebra{cache: cache}
}

// Empty implements SetAlgebra.
func (al *Algebra) Empty() ConstraintSet {
	return EmptyConstraint()
}

// Full implements SetAlgebra.
func (al *Algebra) Full() ConstraintSet {
	return FullConstraint()
}

// Singleton implements SetAlgebra.
func (al *Algebra) Singleton(record *PackageRecord) ConstraintSet {
	return SingletonConstraint(record)
}

// Intersection implements SetAlgebra.
func (al *Algebra) Intersection(a, b ConstraintSet) ConstraintSet {
	return a.Intersection(b)
}

// Complement implements SetAlgebra, consulting the cache when one is present.
func (al *Algebra) Complement(set ConstraintSet) ConstraintSet {
	if al.cache != nil {
		return al.cache.Complement(set)
	}
	return set.Complement()
}

// Contains implements SetAlgebra.
func (al *Algebra) Contains(set ConstraintSet, record *PackageRecord) bool {
	return set.Contains(record)
}

// Union returns the set of records matched by either set, derived via
// De Morgan so that both complements benefit from the cache.
func (al *Algebra) Union(a, b ConstraintSet) ConstraintSet {
	return al.Complement(al.Intersection(al.Complement(a), al.Complement(b)))
}

// SubsetOf reports whether every record matched by a is also matched by b.
func (al *Algebra) SubsetOf(a, b ConstraintSet) bool {
	return al.Intersection(a, al.Complement(b)).IsEmpty()
}

// Disjoint reports whether a and b match no record in common.
func (al *Algebra) Disjoint(a, b ConstraintSet) bool {
	return al.Intersection(a, b).IsEmpty()
}

var _ SetAlgebra = (*Algebra)(nil)
