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

// assignmentKind distinguishes between decision and derivation assignments.
// Decisions are explicit record selections made by the solver; derivations
// are constraints derived from incompatibilities via unit propagation.
type assignmentKind int

const (
	assignmentDecision   assignmentKind = iota // Explicit record selection
	assignmentDerivation                       // Constraint derived from propagation
)

// assignment is a single entry in the partial solution: either a decided
// record or a derived constraint, stamped with its decision level and a
// global index so conflict analysis can order satisfiers chronologically.
type assignment struct {
	name          Name
	term          Term
	kind          assignmentKind
	allowed       ConstraintSet // Running allowed set for positive assignments
	forbidden     ConstraintSet // Excluded set for negative derivations
	record        *PackageRecord
	cause         *Incompatibility
	decisionLevel int
	index         int
}

func (a *assignment) isDecision() bool {
	return a.kind == assignmentDecision
}

// describe renders the assignment for debug logging.
func (a *assignment) describe() string {
	kind := "derivation"
	if a.isDecision() {
		kind = "decision"
	}
	return fmt.Sprintf("%s %s (level=%d index=%d)", kind, a.term, a.decisionLevel, a.index)
}
