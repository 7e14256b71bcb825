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

// IncompatibilityKind represents the type/origin of an incompatibility.
type IncompatibilityKind int

const (
	// KindNoCandidates means no records satisfy the constraint.
	KindNoCandidates IncompatibilityKind = iota
	// KindFromDependency means the incompatibility encodes a package dependency.
	KindFromDependency
	// KindConflict means derived during conflict resolution.
	KindConflict
)

// Incompatibility represents a set of package requirements that cannot all be
// satisfied at once. The solver learns incompatibilities as it explores the
// search space; the terms of a satisfied incompatibility are exactly the
// assignments that make the current partial solution untenable.
type Incompatibility struct {
	// Terms that are jointly unsatisfiable.
	Terms []Term
	// Kind of incompatibility.
	Kind IncompatibilityKind
	// Cause1 and Cause2 are set for derived incompatibilities (KindConflict).
	Cause1 *Incompatibility
	Cause2 *Incompatibility
	// Record is the depending record for KindFromDependency.
	Record *PackageRecord
}

// NewIncompatibilityNoCandidates creates an incompatibility recording that no
// records satisfy a term.
func NewIncompatibilityNoCandidates(term Term) *Incompatibility {
	return &Incompatibility{
		Terms: []Term{term},
		Kind:  KindNoCandidates,
	}
}

// NewIncompatibilityFromDependency encodes "record depends on dependency" as
// the incompatibility {record selected, NOT dependency}: it is impossible to
// select the record while the dependency goes unsatisfied.
func NewIncompatibilityFromDependency(record *PackageRecord, dependency Term) *Incompatibility {
	base := NewTerm(record.Name, SingletonConstraint(record))
	return &Incompatibility{
		Terms:  []Term{base, dependency.Negate()},
		Kind:   KindFromDependency,
		Record: record,
	}
}

// NewIncompatibilityConflict creates a derived incompatibility from two causes.
func NewIncompatibilityConflict(terms []Term, cause1, cause2 *Incompatibility) *Incompatibility {
	// Deduplicate terms by package name, keeping first occurrence.
	seen := make(map[Name]bool)
	deduped := make([]Term, 0, len(terms))
	for _, term := range terms {
		if seen[term.Name] {
			continue
		}
		seen[term.Name] = true
		deduped = append(deduped, term)
	}

	return &Incompatibility{
		Terms:  deduped,
		Kind:   KindConflict,
		Cause1: cause1,
		Cause2: cause2,
	}
}

// String returns a string representation of the incompatibility.
func (inc *Incompatibility) String() string {
	if len(inc.Terms) == 0 {
		return "version solving failed"
	}

	if len(inc.Terms) == 1 {
		return fmt.Sprintf("%s is forbidden", inc.Terms[0])
	}

	if inc.Kind == KindFromDependency && len(inc.Terms) == 2 && inc.Record != nil {
		dep := inc.Terms[1]
		if dep.Name == inc.Record.Name {
			dep = inc.Terms[0]
		}
		if !dep.Positive {
			dep = dep.Negate()
		}
		return fmt.Sprintf("%s depends on %s", inc.Record, dep)
	}

	parts := make([]string, len(inc.Terms))
	for i, term := range inc.Terms {
		parts[i] = term.String()
	}
	return fmt.Sprintf("%s are incompatible", strings.Join(parts, " and "))
}
