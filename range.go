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
	"fmt"
	"strings"
)

// Range is an ordered interval set over any totally ordered element type.
// It is the primitive the constraint algebra is built on: a Range over
// versions captures a version expression, a Range over build numbers captures
// a build-number constraint.
//
// Ranges are immutable values in normalized form: intervals are sorted,
// non-empty, disjoint, and merged when adjacent. Every operation returns a
// new Range. Negate is an involution, intersection is commutative,
// associative, and idempotent, NoneRange absorbs intersection, and AnyRange
// is its identity.
//
// Example:
//
//	a := LowerBoundedRange(v1, true)       // >=1.0
//	b := UpperBoundedRange(v2, false)      // <2.0
//	both := a.Intersection(b)              // >=1.0, <2.0
//	outside := both.Negate()               // <1.0 || >=2.0
type Range[T Ordered[T]] struct {
	intervals []interval[T]
}

// newRange creates a Range from intervals, normalizing them first.
func newRange[T Ordered[T]](intervals []interval[T]) Range[T] {
	return Range[T]{intervals: normalizeIntervals(intervals)}
}

// rangeFromBounds creates a Range holding the single interval between the
// given endpoints, or the empty Range if the interval is empty.
func rangeFromBounds[T Ordered[T]](lower, upper bound[T]) Range[T] {
	if iv, ok := newInterval(lower, upper); ok {
		return Range[T]{intervals: []interval[T]{iv}}
	}
	return Range[T]{}
}

// NoneRange returns the Range containing no values.
func NoneRange[T Ordered[T]]() Range[T] {
	return Range[T]{}
}

// AnyRange returns the Range containing every value.
func AnyRange[T Ordered[T]]() Range[T] {
	return Range[T]{
		intervals: []interval[T]{
			{
				lower: negativeInfinity[T](),
				upper: positiveInfinity[T](),
			},
		},
	}
}

// EqualRange returns the Range containing exactly one value.
func EqualRange[T Ordered[T]](value T) Range[T] {
	return rangeFromBounds(
		finiteLowerBound(value, true),
		finiteUpperBound(value, true),
	)
}

// LowerBoundedRange returns the Range of all values above the given one.
// Inclusive selects between ">=" and ">".
func LowerBoundedRange[T Ordered[T]](value T, inclusive bool) Range[T] {
	return rangeFromBounds(finiteLowerBound(value, inclusive), positiveInfinity[T]())
}

// UpperBoundedRange returns the Range of all values below the given one.
// Inclusive selects between "<=" and "<".
func UpperBoundedRange[T Ordered[T]](value T, inclusive bool) Range[T] {
	return rangeFromBounds(negativeInfinity[T](), finiteUpperBound(value, inclusive))
}

// BoundedRange returns the Range between two values.
func BoundedRange[T Ordered[T]](lower T, lowerInclusive bool, upper T, upperInclusive bool) Range[T] {
	return rangeFromBounds(
		finiteLowerBound(lower, lowerInclusive),
		finiteUpperBound(upper, upperInclusive),
	)
}

// cloneIntervals copies the interval slice for safe mutation.
func (r Range[T]) cloneIntervals() []interval[T] {
	if len(r.intervals) == 0 {
		return nil
	}
	cloned := make([]interval[T], len(r.intervals))
	copy(cloned, r.intervals)
	return cloned
}

// IsNone reports whether the Range contains no values.
func (r Range[T]) IsNone() bool {
	return len(r.intervals) == 0
}

// IsAny reports whether the Range contains every value.
func (r Range[T]) IsAny() bool {
	return len(r.intervals) == 1 &&
		r.intervals[0].lower.isNegInfinity() &&
		r.intervals[0].upper.isPosInfinity()
}

// Contains reports whether the value is in the Range.
func (r Range[T]) Contains(value T) bool {
	for _, iv := range r.intervals {
		if iv.contains(value) {
			return true
		}
	}
	return false
}

// Intersection returns the Range of values in both this Range and other.
func (r Range[T]) Intersection(other Range[T]) Range[T] {
	if len(r.intervals) == 0 || len(other.intervals) == 0 {
		return Range[T]{}
	}

	result := make([]interval[T], 0, len(r.intervals))
	i, j := 0, 0
	for i < len(r.intervals) && j < len(other.intervals) {
		if iv, ok := r.intervals[i].intersect(other.intervals[j]); ok {
			result = append(result, iv)
		}

		if compareUpper(r.intervals[i].upper, other.intervals[j].upper) < 0 {
			i++
		} else {
			j++
		}
	}

	return newRange(result)
}

// Union returns the Range of values in either this Range or other.
func (r Range[T]) Union(other Range[T]) Range[T] {
	intervals := r.cloneIntervals()
	intervals = append(intervals, other.intervals...)
	return newRange(intervals)
}

// Negate returns the complement: the Range of values NOT in this Range.
// Negating twice yields the original Range.
func (r Range[T]) Negate() Range[T] {
	if len(r.intervals) == 0 {
		return AnyRange[T]()
	}

	gaps := make([]interval[T], 0, len(r.intervals)+1)
	currentLower := negativeInfinity[T]()

	for _, iv := range r.intervals {
		gapUpper := iv.complementUpperBound()
		if gap, ok := newInterval(currentLower, gapUpper); ok {
			gaps = append(gaps, gap)
		}
		currentLower = iv.complementLowerBound()
	}

	if tail, ok := newInterval(currentLower, positiveInfinity[T]()); ok {
		gaps = append(gaps, tail)
	}

	return newRange(gaps)
}

// Equal reports structural equality. Because Ranges are normalized, two
// Ranges describing the same value set always compare equal.
func (r Range[T]) Equal(other Range[T]) bool {
	return r.Compare(other) == 0
}

// Compare imposes an explicit total order on Ranges: lexicographic over the
// normalized intervals, comparing lower then upper endpoints. The order
// itself is arbitrary but deterministic; the constraint algebra uses it to
// canonicalize group order without relying on hash digests.
func (r Range[T]) Compare(other Range[T]) int {
	n := len(r.intervals)
	if len(other.intervals) < n {
		n = len(other.intervals)
	}

	for i := 0; i < n; i++ {
		if cmp := compareLower(r.intervals[i].lower, other.intervals[i].lower); cmp != 0 {
			return cmp
		}
		if cmp := compareUpper(r.intervals[i].upper, other.intervals[i].upper); cmp != 0 {
			return cmp
		}
	}

	switch {
	case len(r.intervals) < len(other.intervals):
		return -1
	case len(r.intervals) > len(other.intervals):
		return 1
	default:
		return 0
	}
}

// String returns a human-readable representation. The empty Range renders as
// "∅", the full Range as "*", and intervals use comparison operators.
// Because Ranges are normalized, the rendering is canonical: equal Ranges
// always render identically.
func (r Range[T]) String() string {
	if len(r.intervals) == 0 {
		return "∅"
	}

	if len(r.intervals) == 1 {
		return intervalToString(r.intervals[0])
	}

	parts := make([]string, len(r.intervals))
	for i, iv := range r.intervals {
		parts[i] = intervalToString(iv)
	}
	return strings.Join(parts, "|")
}

// intervalToString converts a single interval to its string representation.
func intervalToString[T Ordered[T]](iv interval[T]) string {
	if iv.lower.isNegInfinity() && iv.upper.isPosInfinity() {
		return "*"
	}

	if iv.lower.isFinite() && iv.upper.isFinite() {
		if iv.lower.value.Compare(iv.upper.value) == 0 &&
			iv.lower.inclusive && iv.upper.inclusive {
			return fmt.Sprintf("==%s", iv.lower.value)
		}
	}

	var parts []string

	if iv.lower.isFinite() {
		if iv.lower.inclusive {
			parts = append(parts, fmt.Sprintf(">=%s", iv.lower.value))
		} else {
			parts = append(parts, fmt.Sprintf(">%s", iv.lower.value))
		}
	}

	if iv.upper.isFinite() {
		if iv.upper.inclusive {
			parts = append(parts, fmt.Sprintf("<=%s", iv.upper.value))
		} else {
			parts = append(parts, fmt.Sprintf("<%s", iv.upper.value))
		}
	}

	if len(parts) == 0 {
		return "*"
	}

	return strings.Join(parts, ",")
}

// singletonValue extracts the single value if the Range contains exactly one.
func (r Range[T]) singletonValue() (T, bool) {
	var zero T
	if len(r.intervals) != 1 {
		return zero, false
	}

	iv := r.intervals[0]
	if !iv.lower.isFinite() || !iv.upper.isFinite() {
		return zero, false
	}

	if iv.lower.value.Compare(iv.upper.value) != 0 {
		return zero, false
	}

	if !iv.lower.inclusive || !iv.upper.inclusive {
		return zero, false
	}

	return iv.lower.value, true
}
