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
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// MatchSpec is a parsed package requirement: a package name plus the two
// constraints the resolver can reason about, a version range and an optional
// exact build number.
//
// Supported textual forms:
//
//	numpy
//	numpy >=1.21,<2
//	numpy[version='>=1.21,<2']
//	numpy ==1.21.0[build_number=3]
//	numpy[version='1.21.*', build_number=3]
//
// Parsing is one-way: a MatchSpec converts into a ConstraintSet but the core
// never renders constraints back into match-spec text.
type MatchSpec struct {
	// Name is the interned package name the spec applies to.
	Name Name

	// Version is the version range; AnyRange when the spec has no version
	// expression.
	Version Range[Version]

	// BuildNumber is the exact required build number, or nil when
	// unconstrained.
	BuildNumber *BuildNumber
}

// ParseMatchSpec parses a textual match specification.
// Returns an error for a missing name, a malformed version expression, or an
// unknown bracket key.
func ParseMatchSpec(s string) (MatchSpec, error) {
	raw := strings.TrimSpace(s)
	if raw == "" {
		return MatchSpec{}, errors.New("empty match spec")
	}

	var bracket string
	if open := strings.IndexByte(raw, '['); open >= 0 {
		if !strings.HasSuffix(raw, "]") {
			return MatchSpec{}, errors.Errorf("unterminated bracket section in match spec %q", s)
		}
		bracket = raw[open+1 : len(raw)-1]
		raw = strings.TrimSpace(raw[:open])
	}

	name, versionExpr, _ := strings.Cut(raw, " ")
	name = strings.TrimSpace(name)
	if name == "" {
		return MatchSpec{}, errors.Errorf("missing package name in match spec %q", s)
	}

	spec := MatchSpec{
		Name:    MakeName(name),
		Version: AnyRange[Version](),
	}

	if versionExpr = strings.TrimSpace(versionExpr); versionExpr != "" {
		r, err := ParseVersionSpec(versionExpr)
		if err != nil {
			return MatchSpec{}, errors.Wrapf(err, "match spec %q", s)
		}
		spec.Version = r
	}

	if bracket != "" {
		if err := spec.applyBracketArgs(bracket); err != nil {
			return MatchSpec{}, errors.Wrapf(err, "match spec %q", s)
		}
	}

	return spec, nil
}

// MustParseMatchSpec parses a match spec and panics on failure.
// Intended for statically known specs in tests and examples.
func MustParseMatchSpec(s string) MatchSpec {
	spec, err := ParseMatchSpec(s)
	if err != nil {
		panic(err)
	}
	return spec
}

// applyBracketArgs parses the comma-separated key=value pairs of the bracket
// section. Recognized keys: version, build_number.
func (m *MatchSpec) applyBracketArgs(args string) error {
	for _, pair := range strings.Split(args, ",") {
		key, value, found := strings.Cut(pair, "=")
		if !found {
			return errors.Errorf("malformed bracket entry %q", pair)
		}
		key = strings.TrimSpace(key)
		value = strings.Trim(strings.TrimSpace(value), `'"`)

		switch key {
		case "version":
			r, err := ParseVersionSpec(value)
			if err != nil {
				return err
			}
			m.Version = r
		case "build_number":
			n, err := strconv.Atoi(value)
			if err != nil || n < 0 {
				return errors.Errorf("invalid build number %q", value)
			}
			bn := BuildNumber(n)
			m.BuildNumber = &bn
		default:
			return errors.Errorf("unsupported bracket key %q", key)
		}
	}
	return nil
}

// String renders the spec for diagnostics. It is not guaranteed to round-trip
// through ParseMatchSpec.
func (m MatchSpec) String() string {
	var b strings.Builder
	b.WriteString(m.Name.Value())
	if !m.Version.IsAny() {
		fmt.Fprintf(&b, " %s", m.Version)
	}
	if m.BuildNumber != nil {
		fmt.Fprintf(&b, "[build_number=%d]", *m.BuildNumber)
	}
	return b.String()
}
