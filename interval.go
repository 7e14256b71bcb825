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

import "slices"

// interval represents a contiguous run of values between two endpoints.
// Intervals are half-open or closed depending on the inclusivity of their
// endpoints.
//
// Examples over versions:
//   - [1.0, 2.0) represents >=1.0, <2.0
//   - (1.0, 2.0] represents >1.0, <=2.0
//   - [1.0, ∞) represents >=1.0
//
// Intervals are the building blocks of Range.
type interval[T Ordered[T]] struct {
	lower bound[T]
	upper bound[T]
}

// newInterval creates an interval from endpoints, returning false if empty.
func newInterval[T Ordered[T]](lower, upper bound[T]) (interval[T], bool) {
	iv := interval[T]{lower: lower, upper: upper}
	if iv.isEmpty() {
		return interval[T]{}, false
	}
	return iv, true
}

// isEmpty reports whether the interval contains no values.
// This happens when the upper endpoint is below the lower endpoint, or when
// both endpoints coincide and at least one is exclusive.
func (iv interval[T]) isEmpty() bool {
	if iv.lower.isPosInfinity() || iv.upper.isNegInfinity() {
		return true
	}

	if iv.lower.isNegInfinity() || iv.upper.isPosInfinity() {
		return false
	}

	cmp := iv.lower.value.Compare(iv.upper.value)
	switch {
	case cmp < 0:
		return false
	case cmp > 0:
		return true
	default:
		return !iv.lower.inclusive || !iv.upper.inclusive
	}
}

// contains reports whether the given value falls within this interval.
func (iv interval[T]) contains(value T) bool {
	if !iv.lower.isNegInfinity() {
		if cmp := value.Compare(iv.lower.value); cmp < 0 {
			return false
		} else if cmp == 0 && !iv.lower.inclusive {
			return false
		}
	}

	if !iv.upper.isPosInfinity() {
		if cmp := value.Compare(iv.upper.value); cmp > 0 {
			return false
		} else if cmp == 0 && !iv.upper.inclusive {
			return false
		}
	}

	return true
}

// upperBelowLower reports whether an upper endpoint lies strictly below a
// lower endpoint. Used to detect gaps between intervals.
func upperBelowLower[T Ordered[T]](upper, lower bound[T]) bool {
	switch {
	case upper.isNegInfinity():
		return !lower.isNegInfinity()
	case lower.isPosInfinity():
		return !upper.isPosInfinity()
	case upper.isPosInfinity():
		return false
	case lower.isNegInfinity():
		return false
	}

	cmp := upper.value.Compare(lower.value)
	if cmp < 0 {
		return true
	}
	if cmp > 0 {
		return false
	}
	return !upper.inclusive || !lower.inclusive
}

// overlaps reports whether this interval has any values in common with other.
func (iv interval[T]) overlaps(other interval[T]) bool {
	if upperBelowLower(iv.upper, other.lower) {
		return false
	}
	if upperBelowLower(other.upper, iv.lower) {
		return false
	}
	return true
}

// strictGap reports whether values exist strictly between an upper endpoint
// and a lower endpoint. Coinciding endpoints leave a gap (the shared value)
// only when both sides exclude it.
func strictGap[T Ordered[T]](upper, lower bound[T]) bool {
	switch {
	case upper.isNegInfinity():
		return !lower.isNegInfinity()
	case lower.isPosInfinity():
		return !upper.isPosInfinity()
	case upper.isPosInfinity():
		return false
	case lower.isNegInfinity():
		return false
	}

	cmp := upper.value.Compare(lower.value)
	if cmp < 0 {
		return true
	}
	if cmp > 0 {
		return false
	}
	return !upper.inclusive && !lower.inclusive
}

// touches reports whether this interval overlaps or is adjacent to other.
// Adjacent intervals, like [1.0, 2.0) and [2.0, 3.0), can be merged without
// creating a gap.
func (iv interval[T]) touches(other interval[T]) bool {
	return !strictGap(iv.upper, other.lower) &&
		!strictGap(other.upper, iv.lower)
}

// merge combines two intervals into a single interval spanning both.
func (iv interval[T]) merge(other interval[T]) interval[T] {
	return interval[T]{
		lower: minBound(iv.lower, other.lower, compareLower[T]),
		upper: maxBound(iv.upper, other.upper, compareUpper[T]),
	}
}

// minBound returns the smaller of two endpoints under the comparison function.
func minBound[T any](a, b T, compare func(T, T) int) T {
	if compare(a, b) <= 0 {
		return a
	}
	return b
}

// maxBound returns the larger of two endpoints under the comparison function.
func maxBound[T any](a, b T, compare func(T, T) int) T {
	if compare(a, b) >= 0 {
		return a
	}
	return b
}

// intersect computes the intersection of two intervals.
func (iv interval[T]) intersect(other interval[T]) (interval[T], bool) {
	return newInterval(
		maxBound(iv.lower, other.lower, compareLower[T]),
		minBound(iv.upper, other.upper, compareUpper[T]),
	)
}

// complementLowerBound returns the lower endpoint of the gap above this interval.
func (iv interval[T]) complementLowerBound() bound[T] {
	switch iv.upper.infinite {
	case boundPositiveInfinity:
		return positiveInfinity[T]()
	case boundNegativeInfinity:
		return negativeInfinity[T]()
	default:
		return bound[T]{
			value:     iv.upper.value,
			inclusive: !iv.upper.inclusive,
			infinite:  boundFinite,
		}
	}
}

// complementUpperBound returns the upper endpoint of the gap below this interval.
func (iv interval[T]) complementUpperBound() bound[T] {
	switch iv.lower.infinite {
	case boundNegativeInfinity:
		return negativeInfinity[T]()
	case boundPositiveInfinity:
		return positiveInfinity[T]()
	default:
		return bound[T]{
			value:     iv.lower.value,
			inclusive: !iv.lower.inclusive,
			infinite:  boundFinite,
		}
	}
}

// normalizeIntervals canonicalizes a slice of intervals by:
//  1. Removing empty intervals
//  2. Sorting by lower endpoint
//  3. Merging overlapping or adjacent intervals
//
// The result is disjoint and sorted, which makes set operations linear and
// the representation canonical.
func normalizeIntervals[T Ordered[T]](intervals []interval[T]) []interval[T] {
	filtered := intervals[:0]
	for _, iv := range intervals {
		if !iv.isEmpty() {
			filtered = append(filtered, iv)
		}
	}

	if len(filtered) == 0 {
		return nil
	}

	slices.SortFunc(filtered, func(a, b interval[T]) int {
		return compareLower(a.lower, b.lower)
	})

	merged := filtered[:1]
	for i := 1; i < len(filtered); i++ {
		last := &merged[len(merged)-1]
		current := filtered[i]
		if last.touches(current) {
			*last = last.merge(current)
		} else {
			merged = append(merged, current)
		}
	}

	out := make([]interval[T], len(merged))
	copy(out, merged)
	return out
}
