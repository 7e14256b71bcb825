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
	"strings"

	"github.com/pkg/errors"
)

// ParseVersionSpec parses a conda version expression into a Range over
// versions. The grammar supports:
//   - Comparison operators: >=, >, <=, <, ==, !=
//   - Prefix matching: "=1.2" and "1.2.*" both cover [1.2, 1.3)
//   - "*" (or an empty expression) for any version
//   - Comma-separated conjunctions (AND): ">=1.0,<2.0"
//   - Pipe-separated disjunctions (OR): "<1.0|>=2.0"
//
// Parsing is the only fallible step; the returned Range supports every
// algebraic operation without further errors.
func ParseVersionSpec(s string) (Range[Version], error) {
	s = strings.TrimSpace(s)

	if s == "" || s == "*" {
		return AnyRange[Version](), nil
	}

	result := NoneRange[Version]()

	for _, orPart := range strings.Split(s, "|") {
		orPart = strings.TrimSpace(orPart)
		if orPart == "" {
			return Range[Version]{}, errors.Errorf("empty disjunct in version spec %q", s)
		}

		current := AnyRange[Version]()
		for _, andPart := range strings.Split(orPart, ",") {
			token := strings.TrimSpace(andPart)
			if token == "" {
				return Range[Version]{}, errors.Errorf("empty constraint in version spec %q", s)
			}

			r, err := parseVersionConstraint(token)
			if err != nil {
				return Range[Version]{}, errors.Wrapf(err, "invalid version spec %q", s)
			}

			current = current.Intersection(r)
			if current.IsNone() {
				break
			}
		}

		result = result.Union(current)
	}

	return result, nil
}

// parseVersionConstraint parses a single operator token like ">=1.2" or
// "1.2.*".
func parseVersionConstraint(token string) (Range[Version], error) {
	operators := []struct {
		prefix  string
		builder func(Version) Range[Version]
	}{
		{
			prefix: ">=",
			builder: func(v Version) Range[Version] {
				return LowerBoundedRange(v, true)
			},
		},
		{
			prefix: ">",
			builder: func(v Version) Range[Version] {
				return LowerBoundedRange(v, false)
			},
		},
		{
			prefix: "<=",
			builder: func(v Version) Range[Version] {
				return UpperBoundedRange(v, true)
			},
		},
		{
			prefix: "<",
			builder: func(v Version) Range[Version] {
				return UpperBoundedRange(v, false)
			},
		},
		{
			prefix: "==",
			builder: func(v Version) Range[Version] {
				return EqualRange(v)
			},
		},
		{
			prefix: "!=",
			builder: func(v Version) Range[Version] {
				return EqualRange(v).Negate()
			},
		},
		{
			prefix: "=",
			builder: prefixRange,
		},
	}

	for _, op := range operators {
		if rest, ok := strings.CutPrefix(token, op.prefix); ok {
			rest = strings.TrimSpace(rest)
			if wild, isWildcard := strings.CutSuffix(rest, ".*"); isWildcard {
				v, err := ParseVersion(wild)
				if err != nil {
					return Range[Version]{}, err
				}
				switch op.prefix {
				case "=", "==":
					return prefixRange(v), nil
				case "!=":
					return prefixRange(v).Negate(), nil
				default:
					return Range[Version]{}, errors.Errorf("wildcard not allowed after %q", op.prefix)
				}
			}

			v, err := ParseVersion(rest)
			if err != nil {
				return Range[Version]{}, err
			}
			return op.builder(v), nil
		}
	}

	if wild, isWildcard := strings.CutSuffix(token, ".*"); isWildcard {
		v, err := ParseVersion(wild)
		if err != nil {
			return Range[Version]{}, err
		}
		return prefixRange(v), nil
	}

	v, err := ParseVersion(token)
	if err != nil {
		return Range[Version]{}, err
	}
	return EqualRange(v), nil
}

// prefixRange returns the Range of versions sharing the given leading
// segments: [v, bump(v)), so prefixRange(1.2) covers 1.2 and every 1.2.x.
func prefixRange(v Version) Range[Version] {
	return BoundedRange(v, true, v.bumpLastSegment(), false)
}
