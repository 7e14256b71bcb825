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
	"errors"
	"fmt"
	"strings"
)

// partialSolution maintains the evolving solution during dependency
// resolution. It tracks assignments (decisions and derivations) organized by
// package name and decision level, supporting efficient backtracking and
// allowed-set queries.
//
// The partial solution grows as the solver:
//  1. Makes decisions (selects package records)
//  2. Propagates constraints (derives new constraints via unit propagation)
//  3. Backtracks (removes assignments when conflicts occur)
//
// All constraint-set reasoning goes through the session's Algebra so that
// complements hit the shared cache.
type partialSolution struct {
	al          *Algebra
	assignments []*assignment          // All assignments in chronological order
	perPackage  map[Name][]*assignment // Assignments indexed by package name
	decisionLvl int                    // Current decision level
	nextIndex   int                    // Next assignment index
	root        Name                   // Root package name
}

// newPartialSolution creates an empty partial solution for the given root.
func newPartialSolution(al *Algebra, root Name) *partialSolution {
	return &partialSolution{
		al:          al,
		assignments: make([]*assignment, 0),
		perPackage:  make(map[Name][]*assignment),
		root:        root,
	}
}

// newDecisionAssignment creates a decision assignment for a package record.
func (ps *partialSolution) newDecisionAssignment(record *PackageRecord, level int) *assignment {
	constraint := ps.al.Singleton(record)
	return &assignment{
		name:          record.Name,
		term:          NewTerm(record.Name, constraint),
		kind:          assignmentDecision,
		allowed:       constraint,
		record:        record,
		decisionLevel: level,
		index:         ps.nextIndex,
	}
}

// append adds an assignment to the partial solution.
func (ps *partialSolution) append(assign *assignment) {
	ps.assignments = append(ps.assignments, assign)
	ps.perPackage[assign.name] = append(ps.perPackage[assign.name], assign)
	ps.nextIndex++
}

// latest returns the most recent assignment for a package, or nil.
func (ps *partialSolution) latest(name Name) *assignment {
	stack := ps.perPackage[name]
	if len(stack) == 0 {
		return nil
	}
	return stack[len(stack)-1]
}

// allowedSet computes the currently allowed constraint set for a package by
// intersecting all positive constraints and excluding forbidden sets.
func (ps *partialSolution) allowedSet(name Name) ConstraintSet {
	stack := ps.perPackage[name]
	current := ps.al.Full()
	for _, assign := range stack {
		if assign.term.Positive {
			current = ps.al.Intersection(current, assign.allowed)
		} else {
			current = ps.al.Intersection(current, ps.al.Complement(assign.forbidden))
		}
	}
	return current
}

// hasAssignments reports whether the package has any assignments.
func (ps *partialSolution) hasAssignments(name Name) bool {
	return len(ps.perPackage[name]) > 0
}

// addDecision adds a record selection, incrementing the decision level.
func (ps *partialSolution) addDecision(record *PackageRecord) *assignment {
	ps.decisionLvl++
	assign := ps.newDecisionAssignment(record, ps.decisionLvl)
	ps.append(assign)
	return assign
}

// seedRoot initializes the partial solution with the root record at level 0.
func (ps *partialSolution) seedRoot(record *PackageRecord) *assignment {
	assign := ps.newDecisionAssignment(record, 0)
	ps.append(assign)
	return assign
}

var errNoAllowedCandidates = errors.New("no records satisfy constraints")

// applyTerm narrows an allowed set with a term's constraint.
func (ps *partialSolution) applyTerm(current ConstraintSet, term Term) ConstraintSet {
	if term.Positive {
		return ps.al.Intersection(current, term.Constraint)
	}
	return ps.al.Intersection(current, ps.al.Complement(term.Constraint))
}

// addDerivation adds a constraint derived from unit propagation.
// Returns (assignment, changed, error) where changed indicates whether the
// allowed set was tightened.
func (ps *partialSolution) addDerivation(term Term, cause *Incompatibility) (*assignment, bool, error) {
	currentAllowed := ps.allowedSet(term.Name)
	newAllowed := ps.applyTerm(currentAllowed, term)
	if newAllowed.IsEmpty() {
		return nil, false, errNoAllowedCandidates
	}

	assign := &assignment{
		name:          term.Name,
		term:          term,
		kind:          assignmentDerivation,
		cause:         cause,
		decisionLevel: ps.decisionLvl,
		index:         ps.nextIndex,
	}

	if term.Positive {
		assign.allowed = newAllowed
	} else {
		assign.forbidden = term.Constraint
	}

	changed := !currentAllowed.Equal(newAllowed)
	ps.append(assign)

	if changed && term.Positive {
		return assign, true, nil
	}

	if changed && !term.Positive {
		// Record the tightened allowance as a positive assignment so
		// later allowed-set folds stay cheap.
		tightening := &assignment{
			name:          term.Name,
			term:          NewTerm(term.Name, newAllowed),
			kind:          assignmentDerivation,
			allowed:       newAllowed,
			cause:         cause,
			decisionLevel: ps.decisionLvl,
			index:         ps.nextIndex,
		}
		ps.append(tightening)
		return tightening, true, nil
	}

	return assign, changed, nil
}

// backtrack removes all assignments above the specified decision level.
func (ps *partialSolution) backtrack(level int) {
	if level < 0 {
		level = 0
	}

	for len(ps.assignments) > 0 {
		last := ps.assignments[len(ps.assignments)-1]
		if last.decisionLevel <= level {
			break
		}
		ps.assignments = ps.assignments[:len(ps.assignments)-1]
		stack := ps.perPackage[last.name]
		if len(stack) > 0 {
			stack = stack[:len(stack)-1]
			if len(stack) == 0 {
				delete(ps.perPackage, last.name)
			} else {
				ps.perPackage[last.name] = stack
			}
		}
	}

	ps.decisionLvl = level
}

// isComplete reports whether every constrained package has a decided record.
func (ps *partialSolution) isComplete() bool {
	for name := range ps.perPackage {
		if name == ps.root {
			continue
		}
		if !ps.hasDecision(name) {
			return false
		}
	}
	return true
}

// nextDecisionCandidate finds the next package needing a record decision.
func (ps *partialSolution) nextDecisionCandidate() (Name, bool) {
	seen := make(map[Name]bool)

	for _, assign := range ps.assignments {
		name := assign.name
		if name == ps.root || seen[name] {
			continue
		}
		seen[name] = true

		if !ps.hasDecision(name) {
			return name, true
		}
	}

	return EmptyName(), false
}

// hasDecision reports whether the package has a decision assignment.
func (ps *partialSolution) hasDecision(name Name) bool {
	for _, assign := range ps.perPackage[name] {
		if assign.kind == assignmentDecision {
			return true
		}
	}
	return false
}

// satisfier finds the assignment that most recently satisfied a term of the
// incompatibility. Conflict resolution analyzes this assignment next.
func (ps *partialSolution) satisfier(inc *Incompatibility) *assignment {
	var selected *assignment
	maxIndex := -1

	for _, term := range inc.Terms {
		stack := ps.perPackage[term.Name]
		for i := len(stack) - 1; i >= 0; i-- {
			assign := stack[i]
			if ps.termSatisfiedBy(term, assign) {
				if assign.index > maxIndex {
					selected = assign
					maxIndex = assign.index
				}
				break
			}
		}
	}

	return selected
}

// previousDecisionLevel finds the highest decision level among assignments
// satisfying the incompatibility, excluding the satisfier itself. This is the
// level conflict resolution backtracks to.
func (ps *partialSolution) previousDecisionLevel(inc *Incompatibility, satisfier *assignment) int {
	level := 0

	for _, term := range inc.Terms {
		stack := ps.perPackage[term.Name]
		for i := len(stack) - 1; i >= 0; i-- {
			assign := stack[i]
			if assign == satisfier {
				continue
			}
			if ps.termSatisfiedBy(term, assign) && assign.decisionLevel > level {
				level = assign.decisionLevel
			}
		}
	}

	return level
}

// termSatisfiedBy checks whether an assignment satisfies an incompatibility
// term, reasoning entirely through set containment.
func (ps *partialSolution) termSatisfiedBy(term Term, assign *assignment) bool {
	if assign == nil {
		return false
	}

	if term.Positive {
		if !assign.term.Positive {
			return false
		}
		return ps.al.SubsetOf(assign.allowed, term.Constraint)
	}

	if assign.term.Positive {
		return ps.al.Disjoint(assign.allowed, term.Constraint)
	}
	return ps.al.SubsetOf(term.Constraint, assign.forbidden)
}

// buildSolution constructs the final solution from decision assignments.
func (ps *partialSolution) buildSolution() Solution {
	result := make(Solution, 0)
	seen := make(map[Name]bool)

	for _, assign := range ps.assignments {
		if assign.kind != assignmentDecision || seen[assign.name] {
			continue
		}
		seen[assign.name] = true
		result = append(result, assign.record)
	}

	return result
}

// snapshot returns a human-readable dump of the partial solution.
// Intended for debug logging during complex conflicts.
func (ps *partialSolution) snapshot() string {
	var b strings.Builder
	fmt.Fprintf(&b, "decision_level=%d next_index=%d assignments=%d\n", ps.decisionLvl, ps.nextIndex, len(ps.assignments))
	for _, assign := range ps.assignments {
		fmt.Fprintf(&b, "  %s\n", assign.describe())
	}
	return b.String()
}

// pendingPackages lists packages that have constraints but no decided record
// yet. Used for diagnostics when analysing package selection order.
func (ps *partialSolution) pendingPackages() []Name {
	pending := make([]Name, 0)
	seen := make(map[Name]bool)

	for _, assign := range ps.assignments {
		name := assign.name
		if name == ps.root || seen[name] {
			continue
		}
		seen[name] = true

		if !ps.hasDecision(name) {
			pending = append(pending, name)
		}
	}

	return pending
}
