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

import "fmt"

// Term represents a dependency constraint on one package, either positive or
// negative. A positive term ("numpy >=1.21") asserts that the selected record
// must fall inside the constraint set; a negative term ("not numpy ==1.5")
// excludes records matching it.
//
// Terms combine a package name with a ConstraintSet and a polarity; they are
// the building blocks of incompatibilities and of the solver's derivations.
type Term struct {
	Name       Name
	Constraint ConstraintSet
	Positive   bool
}

// NewTerm creates a positive term requiring the package to satisfy the
// constraint.
func NewTerm(name Name, constraint ConstraintSet) Term {
	return Term{Name: name, Constraint: constraint, Positive: true}
}

// NewNegativeTerm creates a negative term excluding records matching the
// constraint.
func NewNegativeTerm(name Name, constraint ConstraintSet) Term {
	return Term{Name: name, Constraint: constraint, Positive: false}
}

// TermFromMatchSpec converts a parsed match spec into the positive term it
// denotes.
func TermFromMatchSpec(spec MatchSpec) Term {
	return NewTerm(spec.Name, ConstraintFromMatchSpec(spec))
}

// Negate returns the logical negation of the term.
func (t Term) Negate() Term {
	return Term{
		Name:       t.Name,
		Constraint: t.Constraint,
		Positive:   !t.Positive,
	}
}

// IsPositive reports whether the term asserts a positive constraint.
func (t Term) IsPositive() bool {
	return t.Positive
}

// SatisfiedBy reports whether selecting the given record satisfies the term.
// A nil record indicates the package is not selected.
func (t Term) SatisfiedBy(record *PackageRecord) bool {
	if record == nil {
		return !t.Positive
	}

	matched := t.Constraint.Contains(record)
	if t.Positive {
		return matched
	}
	return !matched
}

// String returns a human-readable representation of the term.
func (t Term) String() string {
	if t.Positive {
		if t.Constraint.IsFull() {
			return t.Name.Value()
		}
		return fmt.Sprintf("%s %s", t.Name.Value(), t.Constraint)
	}

	if t.Constraint.IsFull() {
		return fmt.Sprintf("not %s", t.Name.Value())
	}
	return fmt.Sprintf("not %s %s", t.Name.Value(), t.Constraint)
}
