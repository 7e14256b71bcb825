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
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Version represents a conda package version.
//
// Conda versions are more permissive than semver: an optional epoch
// ("1!2.0"), any number of dot-separated segments, and segments mixing
// numerals with alphabetic tags ("1.2.3a", "2.0post1"). Underscores and
// dashes separate segments like dots do.
//
// Ordering rules:
//   - Epochs compare first; a missing epoch is 0.
//   - Segments compare element-wise; a missing trailing segment counts as 0,
//     so "1.2" and "1.2.0" are equal in the order (their spellings differ).
//   - Within a segment, numerals compare numerically and alphabetic tags
//     lexicographically; a numeral outranks any tag at the same position, so
//     "1.0a" sorts before "1.0".
//   - The tags "dev" and "post" are special: "1.0.dev1" sorts below every
//     other 1.0 variant and "1.0.post1" above every other 1.0 variant.
//
// Versions are immutable values; Compare defines the total order Range
// requires.
type Version struct {
	epoch    int
	segments []versionSegment
	spelling string
}

// versionSegment is one dot-separated portion of a version, split into
// alternating numeral and alphabetic components.
type versionSegment []versionComponent

type componentKind int

const (
	componentDev componentKind = iota // "dev" tag, below everything
	componentAlpha
	componentNumeral
	componentPost // "post" tag, above everything
)

type versionComponent struct {
	kind  componentKind
	num   uint64
	alpha string
}

// zeroComponent pads comparisons where one side has run out of components.
var zeroComponent = versionComponent{kind: componentNumeral}

// ParseVersion parses a conda version string.
// Input is lowercased and separator characters ('.', '-', '_') are treated
// uniformly. Returns an error for empty input, malformed epochs, or numerals
// too large to represent.
func ParseVersion(s string) (Version, error) {
	normalized := strings.ToLower(strings.TrimSpace(s))
	if normalized == "" {
		return Version{}, errors.New("empty version string")
	}

	v := Version{}

	if bang := strings.IndexByte(normalized, '!'); bang >= 0 {
		epoch, err := strconv.Atoi(normalized[:bang])
		if err != nil || epoch < 0 {
			return Version{}, errors.Errorf("invalid epoch in version %q", s)
		}
		v.epoch = epoch
		normalized = normalized[bang+1:]
		if normalized == "" {
			return Version{}, errors.Errorf("missing version after epoch in %q", s)
		}
	}

	splitter := func(r rune) bool { return r == '.' || r == '-' || r == '_' }
	for _, raw := range strings.FieldsFunc(normalized, splitter) {
		segment, err := parseSegment(raw)
		if err != nil {
			return Version{}, errors.Wrapf(err, "invalid version %q", s)
		}
		v.segments = append(v.segments, segment)
	}

	if len(v.segments) == 0 {
		return Version{}, errors.Errorf("version %q has no segments", s)
	}

	v.spelling = renderVersion(v.epoch, normalized)
	return v, nil
}

// MustParseVersion parses a version string and panics on failure.
// Intended for statically known versions in tests and examples.
func MustParseVersion(s string) Version {
	v, err := ParseVersion(s)
	if err != nil {
		panic(err)
	}
	return v
}

// parseSegment splits a segment into numeral and alphabetic runs.
// A segment starting with a tag gets an implicit leading zero so that
// "0a" and "a" compare identically.
func parseSegment(raw string) (versionSegment, error) {
	if raw == "" {
		return nil, errors.New("empty version segment")
	}

	var segment versionSegment
	i := 0
	for i < len(raw) {
		j := i
		if isDigit(raw[i]) {
			for j < len(raw) && isDigit(raw[j]) {
				j++
			}
			num, err := strconv.ParseUint(raw[i:j], 10, 64)
			if err != nil {
				return nil, errors.Wrapf(err, "numeral %q out of range", raw[i:j])
			}
			segment = append(segment, versionComponent{kind: componentNumeral, num: num})
		} else if isAlpha(raw[i]) {
			for j < len(raw) && isAlpha(raw[j]) {
				j++
			}
			segment = append(segment, alphaComponent(raw[i:j]))
		} else {
			return nil, errors.Errorf("unexpected character %q in version segment %q", raw[i], raw)
		}
		i = j
	}

	if segment[0].kind != componentNumeral {
		segment = append(versionSegment{zeroComponent}, segment...)
	}

	return segment, nil
}

func alphaComponent(tag string) versionComponent {
	switch tag {
	case "dev":
		return versionComponent{kind: componentDev, alpha: tag}
	case "post":
		return versionComponent{kind: componentPost, alpha: tag}
	default:
		return versionComponent{kind: componentAlpha, alpha: tag}
	}
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }
func isAlpha(b byte) bool { return b >= 'a' && b <= 'z' }

func renderVersion(epoch int, rest string) string {
	rest = strings.Map(func(r rune) rune {
		if r == '-' || r == '_' {
			return '.'
		}
		return r
	}, rest)
	if epoch != 0 {
		return strconv.Itoa(epoch) + "!" + rest
	}
	return rest
}

// String returns the normalized spelling of the version: lowercased, epoch
// rendered as "N!", and separators folded to dots.
func (v Version) String() string {
	if v.spelling == "" {
		return "0"
	}
	return v.spelling
}

// Compare implements the total order described on Version.
func (v Version) Compare(other Version) int {
	if v.epoch != other.epoch {
		if v.epoch < other.epoch {
			return -1
		}
		return 1
	}

	n := len(v.segments)
	if len(other.segments) > n {
		n = len(other.segments)
	}

	for i := 0; i < n; i++ {
		a := versionSegment{zeroComponent}
		if i < len(v.segments) {
			a = v.segments[i]
		}
		b := versionSegment{zeroComponent}
		if i < len(other.segments) {
			b = other.segments[i]
		}
		if cmp := compareSegments(a, b); cmp != 0 {
			return cmp
		}
	}

	return 0
}

func compareSegments(a, b versionSegment) int {
	n := len(a)
	if len(b) > n {
		n = len(b)
	}

	for i := 0; i < n; i++ {
		ca := zeroComponent
		if i < len(a) {
			ca = a[i]
		}
		cb := zeroComponent
		if i < len(b) {
			cb = b[i]
		}
		if cmp := compareComponents(ca, cb); cmp != 0 {
			return cmp
		}
	}

	return 0
}

func compareComponents(a, b versionComponent) int {
	if a.kind != b.kind {
		if a.kind < b.kind {
			return -1
		}
		return 1
	}

	switch a.kind {
	case componentNumeral:
		switch {
		case a.num < b.num:
			return -1
		case a.num > b.num:
			return 1
		default:
			return 0
		}
	default:
		return strings.Compare(a.alpha, b.alpha)
	}
}

// bumpLastSegment returns the smallest version whose leading segments exceed
// this version's, used to close wildcard expressions: "1.2.*" covers
// [1.2, bump(1.2)) = [1.2, 1.3).
func (v Version) bumpLastSegment() Version {
	segments := make([]versionSegment, len(v.segments))
	copy(segments, v.segments)

	last := segments[len(segments)-1]
	bumped := make(versionSegment, len(last))
	copy(bumped, last)
	for i := len(bumped) - 1; i >= 0; i-- {
		if bumped[i].kind == componentNumeral {
			bumped[i].num++
			bumped = bumped[:i+1]
			break
		}
	}
	segments[len(segments)-1] = bumped

	parts := make([]string, len(segments))
	for i, segment := range segments {
		var b strings.Builder
		for j, c := range segment {
			if c.kind == componentNumeral {
				// Skip the implicit leading zero added for tag-first segments.
				if j == 0 && len(segment) > 1 && c.num == 0 && segment[1].kind != componentNumeral {
					continue
				}
				b.WriteString(strconv.FormatUint(c.num, 10))
			} else {
				b.WriteString(c.alpha)
			}
		}
		parts[i] = b.String()
	}

	return Version{
		epoch:    v.epoch,
		segments: segments,
		spelling: renderVersion(v.epoch, strings.Join(parts, ".")),
	}
}

// BuildNumber is the sequential rebuild counter of a package record.
// Build numbers order numerically and participate in Range like versions do.
type BuildNumber int

// Compare implements the Ordered contract for BuildNumber.
func (b BuildNumber) Compare(other BuildNumber) int {
	switch {
	case b < other:
		return -1
	case b > other:
		return 1
	default:
		return 0
	}
}

// String returns the decimal representation of the build number.
func (b BuildNumber) String() string {
	return strconv.Itoa(int(b))
}

var (
	_ Ordered[Version]     = Version{}
	_ Ordered[BuildNumber] = BuildNumber(0)
)
