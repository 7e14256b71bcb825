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

// Ordered is the contract an element type must satisfy to participate in a
// Range. Compare returns negative, zero, or positive for less-than, equal,
// and greater-than respectively, and must define a total order.
type Ordered[T any] interface {
	Compare(other T) int
	String() string
}

// bound represents either a lower or upper endpoint of an interval.
// Endpoints can be finite (holding a specific value) or infinite.
//
// The `infinite` field uses sentinel values:
//   - boundNegativeInfinity (-1): -∞ (no lower limit)
//   - boundFinite (0): a specific value
//   - boundPositiveInfinity (1): +∞ (no upper limit)
//
// The `inclusive` field determines whether the endpoint itself belongs to the
// interval. ">=1.0" has inclusive=true, ">1.0" has inclusive=false.
type bound[T Ordered[T]] struct {
	value     T
	inclusive bool
	infinite  int
}

const (
	boundNegativeInfinity = -1
	boundFinite           = 0
	boundPositiveInfinity = 1
)

// finiteLowerBound creates a lower endpoint at the given value.
func finiteLowerBound[T Ordered[T]](value T, inclusive bool) bound[T] {
	return bound[T]{value: value, inclusive: inclusive}
}

// finiteUpperBound creates an upper endpoint at the given value.
func finiteUpperBound[T Ordered[T]](value T, inclusive bool) bound[T] {
	return bound[T]{value: value, inclusive: inclusive}
}

// negativeInfinity returns an endpoint representing -∞.
func negativeInfinity[T Ordered[T]]() bound[T] {
	return bound[T]{infinite: boundNegativeInfinity, inclusive: true}
}

// positiveInfinity returns an endpoint representing +∞.
func positiveInfinity[T Ordered[T]]() bound[T] {
	return bound[T]{infinite: boundPositiveInfinity, inclusive: true}
}

// isNegInfinity reports whether this endpoint is -∞.
func (b bound[T]) isNegInfinity() bool {
	return b.infinite == boundNegativeInfinity
}

// isPosInfinity reports whether this endpoint is +∞.
func (b bound[T]) isPosInfinity() bool {
	return b.infinite == boundPositiveInfinity
}

// isFinite reports whether this endpoint holds a specific value.
func (b bound[T]) isFinite() bool {
	return b.infinite == boundFinite
}

// compareLower compares two lower endpoints.
// For lower endpoints, inclusive sorts before exclusive at equal values.
func compareLower[T Ordered[T]](a, b bound[T]) int {
	switch {
	case a.infinite == boundNegativeInfinity && b.infinite == boundNegativeInfinity:
		return 0
	case a.infinite == boundNegativeInfinity:
		return -1
	case b.infinite == boundNegativeInfinity:
		return 1
	case a.infinite == boundPositiveInfinity && b.infinite == boundPositiveInfinity:
		return 0
	case a.infinite == boundPositiveInfinity:
		return 1
	case b.infinite == boundPositiveInfinity:
		return -1
	default:
		if cmp := a.value.Compare(b.value); cmp != 0 {
			return cmp
		}
		if a.inclusive == b.inclusive {
			return 0
		}
		if a.inclusive {
			return -1
		}
		return 1
	}
}

// compareUpper compares two upper endpoints.
// For upper endpoints, inclusive sorts after exclusive at equal values.
func compareUpper[T Ordered[T]](a, b bound[T]) int {
	switch {
	case a.infinite == boundPositiveInfinity && b.infinite == boundPositiveInfinity:
		return 0
	case a.infinite == boundPositiveInfinity:
		return 1
	case b.infinite == boundPositiveInfinity:
		return -1
	case a.infinite == boundNegativeInfinity && b.infinite == boundNegativeInfinity:
		return 0
	case a.infinite == boundNegativeInfinity:
		return -1
	case b.infinite == boundNegativeInfinity:
		return 1
	default:
		if cmp := a.value.Compare(b.value); cmp != 0 {
			return cmp
		}
		if a.inclusive == b.inclusive {
			return 0
		}
		if a.inclusive {
			return 1
		}
		return -1
	}
}
