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
	"iter"
	"slices"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// ConstraintElement is a single AND-term of a ConstraintSet: a conjunction of
// a version range and a build-number range. A record satisfies the element
// when its version lies in the version range AND its build number lies in the
// build-number range.
//
// Elements are immutable values. Any element with an empty component is
// interchangeable with every other impossible element; intersection
// normalizes them all to the single none sentinel so that structural equality
// can stand in for semantic equality.
type ConstraintElement struct {
	version     Range[Version]
	buildNumber Range[BuildNumber]
}

// noneElement returns the element that matches no record.
func noneElement() ConstraintElement {
	return ConstraintElement{
		version:     NoneRange[Version](),
		buildNumber: NoneRange[BuildNumber](),
	}
}

// anyElement returns the element that matches every record.
func anyElement() ConstraintElement {
	return ConstraintElement{
		version:     AnyRange[Version](),
		buildNumber: AnyRange[BuildNumber](),
	}
}

// Intersection returns the component-wise intersection of two elements.
// If either resulting component is empty the whole element is impossible and
// collapses to the canonical none sentinel.
func (e ConstraintElement) Intersection(other ConstraintElement) ConstraintElement {
	version := e.version.Intersection(other.version)
	buildNumber := e.buildNumber.Intersection(other.buildNumber)
	if version.IsNone() || buildNumber.IsNone() {
		return noneElement()
	}
	return ConstraintElement{version: version, buildNumber: buildNumber}
}

// Contains reports whether the record satisfies both component constraints.
func (e ConstraintElement) Contains(record *PackageRecord) bool {
	if record == nil {
		return false
	}
	return e.version.Contains(record.Version) && e.buildNumber.Contains(record.BuildNumber)
}

// isNone reports whether the element matches no record. The canonical
// invariant makes either component being empty equivalent to both being so.
func (e ConstraintElement) isNone() bool {
	return e.version.IsNone() || e.buildNumber.IsNone()
}

// isAny reports whether the element matches every record.
func (e ConstraintElement) isAny() bool {
	return e.version.IsAny() && e.buildNumber.IsAny()
}

// Equal reports structural equality of two elements.
func (e ConstraintElement) Equal(other ConstraintElement) bool {
	return e.version.Equal(other.version) && e.buildNumber.Equal(other.buildNumber)
}

// compareElements imposes a deterministic total order on elements: version
// range first, build-number range second. Canonical group order derives from
// this explicit structural comparison, never from a hash digest.
func compareElements(a, b ConstraintElement) int {
	if cmp := a.version.Compare(b.version); cmp != 0 {
		return cmp
	}
	return a.buildNumber.Compare(b.buildNumber)
}

// String renders the element canonically: equal elements render identically.
func (e ConstraintElement) String() string {
	if e.isNone() {
		return "∅"
	}
	if e.isAny() {
		return "*"
	}

	var parts []string
	if !e.version.IsAny() {
		parts = append(parts, "version "+e.version.String())
	}
	if !e.buildNumber.IsAny() {
		parts = append(parts, "build_number "+e.buildNumber.String())
	}
	return strings.Join(parts, " and ")
}

// ConstraintSet represents the set of acceptable package versions and build
// numbers as a Disjunctive Normal Form formula: an OR over ConstraintElement
// AND-terms. It is the version-set type the PubGrub solver manipulates.
//
// Canonical invariants, maintained by every operation:
//   - no group equals the none sentinel
//   - no duplicate groups (structural equality)
//   - if any group matches everything, it is the only group
//   - groups are sorted by compareElements
//
// The invariants make structural equality coincide with value equality for
// independently constructed sets, which the complement cache depends on.
// ConstraintSets are immutable; every operation returns a new value.
type ConstraintSet struct {
	groups []ConstraintElement
}

// EmptyConstraint returns the set matching no record. It is the absorbing
// element for union and vanishes under intersection.
func EmptyConstraint() ConstraintSet {
	return ConstraintSet{}
}

// FullConstraint returns the set matching every record. It is the identity
// for intersection.
func FullConstraint() ConstraintSet {
	return ConstraintSet{groups: []ConstraintElement{anyElement()}}
}

// SingletonConstraint returns the set matching exactly the given record's
// version and build number.
func SingletonConstraint(record *PackageRecord) ConstraintSet {
	return ConstraintSet{
		groups: []ConstraintElement{
			{
				version:     EqualRange(record.Version),
				buildNumber: EqualRange(record.BuildNumber),
			},
		},
	}
}

// ConstraintFromElement wraps a single element into a one-group set.
func ConstraintFromElement(element ConstraintElement) ConstraintSet {
	if element.isNone() {
		return EmptyConstraint()
	}
	return ConstraintSet{groups: []ConstraintElement{element}}
}

// ConstraintFromMatchSpec converts a parsed match specification into its
// constraint set: one group whose version range comes from the spec's version
// expression (everything if absent) and whose build-number range is an exact
// match if a literal build number was given (everything otherwise).
func ConstraintFromMatchSpec(spec MatchSpec) ConstraintSet {
	buildNumber := AnyRange[BuildNumber]()
	if spec.BuildNumber != nil {
		buildNumber = EqualRange(*spec.BuildNumber)
	}
	return ConstraintFromElement(ConstraintElement{
		version:     spec.Version,
		buildNumber: buildNumber,
	})
}

// IsEmpty reports whether the set matches no record.
func (cs ConstraintSet) IsEmpty() bool {
	return len(cs.groups) == 0
}

// IsFull reports whether the set matches every record.
func (cs ConstraintSet) IsFull() bool {
	return len(cs.groups) == 1 && cs.groups[0].isAny()
}

// Contains reports whether any group matches the record (OR semantics).
func (cs ConstraintSet) Contains(record *PackageRecord) bool {
	for _, group := range cs.groups {
		if group.Contains(record) {
			return true
		}
	}
	return false
}

// Intersection distributes AND over OR: every group of this set is
// intersected with every group of the other, impossible results are dropped,
// and the survivors are canonicalized. If any surviving group matches
// everything the whole result is the full set; keeping more specific groups
// alongside it would only hide the fact that they are already subsumed.
//
// Cost is O(m·n) element intersections, acceptable because match specs almost
// always produce a single group.
func (cs ConstraintSet) Intersection(other ConstraintSet) ConstraintSet {
	if len(cs.groups) == 0 || len(other.groups) == 0 {
		return EmptyConstraint()
	}

	product := make([]ConstraintElement, 0, len(cs.groups)*len(other.groups))
	for _, a := range cs.groups {
		for _, b := range other.groups {
			group := a.Intersection(b)
			if group.isNone() {
				continue
			}
			if group.isAny() {
				return FullConstraint()
			}
			product = append(product, group)
		}
	}

	return ConstraintSet{groups: canonicalGroups(product)}
}

// Complement returns the set of records NOT matched by this set, applying
// De Morgan's laws over the DNF and re-expanding the result back into DNF.
//
// For each group `(Rv AND Rb)` the negation is `(NOT Rv) OR (NOT Rb)`, an
// OR-term of at most two candidate elements; candidates whose negated range
// is empty contribute nothing and are dropped. The candidates are folded into
// an accumulator (seeded with the full element, the complement of the empty
// conjunction) by pairwise intersection, so that after the last group the
// accumulator holds `AND_i complement(group_i)` in DNF.
//
// Complement is the most expensive operation of the algebra; callers that
// need it repeatedly should go through a ComplementCache.
func (cs ConstraintSet) Complement() ConstraintSet {
	if len(cs.groups) == 0 {
		return FullConstraint()
	}

	acc := []ConstraintElement{anyElement()}
	for _, group := range cs.groups {
		var negated []ConstraintElement
		if vc := group.version.Negate(); !vc.IsNone() {
			negated = append(negated, ConstraintElement{
				version:     vc,
				buildNumber: AnyRange[BuildNumber](),
			})
		}
		if bc := group.buildNumber.Negate(); !bc.IsNone() {
			negated = append(negated, ConstraintElement{
				version:     AnyRange[Version](),
				buildNumber: bc,
			})
		}

		next := make([]ConstraintElement, 0, len(acc)*2)
		for _, candidate := range negated {
			for _, existing := range acc {
				if group := existing.Intersection(candidate); !group.isNone() {
					next = append(next, group)
				}
			}
		}
		acc = canonicalGroups(next)
	}

	return ConstraintSet{groups: acc}
}

// Union returns the set of records matched by either set, derived through
// De Morgan from intersection and complement.
func (cs ConstraintSet) Union(other ConstraintSet) ConstraintSet {
	return cs.Complement().Intersection(other.Complement()).Complement()
}

// Equal reports structural equality. Canonicalization guarantees that two
// independently constructed sets with the same value compare equal.
func (cs ConstraintSet) Equal(other ConstraintSet) bool {
	if len(cs.groups) != len(other.groups) {
		return false
	}
	for i := range cs.groups {
		if !cs.groups[i].Equal(other.groups[i]) {
			return false
		}
	}
	return true
}

// Digest returns a 64-bit hash of the canonical form, suitable as a fast
// cache key. Equal sets always produce equal digests; callers keying on the
// digest must still confirm with Equal, since distinct sets may collide.
func (cs ConstraintSet) Digest() uint64 {
	h := xxhash.New()
	for _, group := range cs.groups {
		_, _ = h.WriteString(group.String())
		_, _ = h.Write([]byte{0})
	}
	return h.Sum64()
}

// Elements returns an iterator over the canonical groups:
//
//	for element := range set.Elements() {
//	    fmt.Println(element)
//	}
func (cs ConstraintSet) Elements() iter.Seq[ConstraintElement] {
	return slices.Values(cs.groups)
}

// String renders the set canonically; equal sets render identically.
func (cs ConstraintSet) String() string {
	if len(cs.groups) == 0 {
		return "∅"
	}

	if len(cs.groups) == 1 {
		return cs.groups[0].String()
	}

	parts := make([]string, len(cs.groups))
	for i, group := range cs.groups {
		parts[i] = "(" + group.String() + ")"
	}
	return strings.Join(parts, " or ")
}

// canonicalGroups deduplicates and deterministically orders a group slice,
// establishing the ConstraintSet invariants.
func canonicalGroups(groups []ConstraintElement) []ConstraintElement {
	if len(groups) == 0 {
		return nil
	}

	slices.SortFunc(groups, compareElements)
	groups = slices.CompactFunc(groups, ConstraintElement.Equal)

	for _, group := range groups {
		if group.isAny() {
			return []ConstraintElement{anyElement()}
		}
	}
	return groups
}
