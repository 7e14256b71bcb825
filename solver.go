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

import "strings"

// Solver implements the PubGrub dependency resolution algorithm with CDCL
// over conda package records.
//
// The solver uses Conflict-Driven Clause Learning (CDCL) to efficiently
// find record assignments that satisfy all dependencies and constraints.
// It maintains learned incompatibilities to avoid repeating failed
// resolution attempts, and memoizes constraint-set complements in a
// per-session cache shared by all set reasoning.
//
// Basic usage:
//
//	root := NewRootSource()
//	root.Require("numpy >=1.21,<2")
//
//	source := &InMemorySource{}
//	// ... populate source with records ...
//
//	solver := NewSolver(root, source)
//	solution, err := solver.Solve(root.Term())
//
// With options:
//
//	solver := NewSolverWithOptions(
//	    []Source{root, source},
//	    WithIncompatibilityTracking(true),
//	    WithMaxSteps(10000),
//	)
type Solver struct {
	Source  Source
	options SolverOptions
	algebra *Algebra

	learned []*Incompatibility
}

// NewSolver creates a new solver with default options from multiple sources.
// The sources are combined into a single CombinedSource that tries each source in order.
//
// Example:
//
//	root := NewRootSource()
//	source := &InMemorySource{}
//	solver := NewSolver(root, source)
func NewSolver(sources ...Source) *Solver {
	return NewSolverWithOptions(sources)
}

func NewSolverWithOptions(sources []Source, opts ...SolverOption) *Solver {
	options := defaultSolverOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(&options)
		}
	}

	cache := options.ComplementCache
	if cache == nil {
		cache = NewComplementCache()
	}

	return &Solver{
		Source:  CombinedSource(sources),
		options: options,
		algebra: NewAlgebra(cache),
		learned: nil,
	}
}

func (s *Solver) Configure(opts ...SolverOption) *Solver {
	for _, opt := range opts {
		if opt != nil {
			opt(&s.options)
		}
	}
	if s.options.ComplementCache != nil {
		s.algebra = NewAlgebra(s.options.ComplementCache)
	}
	return s
}

func (s *Solver) EnableIncompatibilityTracking() *Solver {
	return s.Configure(WithIncompatibilityTracking(true))
}

func (s *Solver) DisableIncompatibilityTracking() *Solver {
	return s.Configure(WithIncompatibilityTracking(false))
}

// Algebra exposes the solver's constraint algebra. Useful for constructing
// terms that should share the solver's complement cache.
func (s *Solver) Algebra() *Algebra {
	return s.algebra
}

func (s *Solver) GetIncompatibilities() []*Incompatibility {
	return s.learned
}

func (s *Solver) ClearIncompatibilities() {
	clear(s.learned)
	s.learned = s.learned[:0]
}

func (s *Solver) logCacheStats() {
	stats, ok := cacheStats(s.algebra)
	if !ok {
		return
	}
	if stats.Lookups == 0 {
		return
	}
	s.debug("complement cache stats",
		"lookups", stats.Lookups,
		"hits", stats.Hits,
		"hit_rate", stats.HitRate,
		"entries", stats.Entries,
	)
}

func cacheStats(al *Algebra) (ComplementCacheStats, bool) {
	memo, ok := al.cache.(*MemoComplementCache)
	if !ok {
		return ComplementCacheStats{}, false
	}
	return memo.Stats(), true
}

func (s *Solver) debug(msg string, args ...any) {
	if logger := s.options.Logger; logger != nil {
		logger.Debug(msg, args...)
	}
}

// Solve runs dependency resolution starting from the root term.
// The root term must be positive and pin exactly one record, normally the
// virtual record produced by RootSource.Term().
func (s *Solver) Solve(root Term) (Solution, error) {
	s.debug("starting solver", "root", root.String())

	state := newSolverState(s.Source, s.options, s.algebra, root.Name)
	defer s.logCacheStats()

	record, err := s.extractRootRecord(root)
	if err != nil {
		return nil, err
	}

	assign := state.partial.seedRoot(record)
	state.traceAssignment("seed", assign)

	s.debug("seeded root", "package", root.Name.Value(), "record", record.String())

	deps, err := s.Source.GetDependencies(record)
	if err != nil {
		return nil, &DependencyError{Record: record, Err: err}
	}

	var conflict *Incompatibility
	if depConflict, err := state.registerDependencies(record, deps); err != nil {
		return nil, &DependencyError{Record: record, Err: err}
	} else if depConflict != nil {
		conflict = depConflict
	}

	state.enqueue(assign.name)

	var propagateSeed Name

	for steps := 0; ; steps++ {
		if s.options.MaxSteps > 0 && steps >= s.options.MaxSteps {
			return nil, ErrIterationLimit{Steps: s.options.MaxSteps}
		}

		if conflict != nil {
			s.debug("resolving conflict", "step", steps, "conflict", conflict.String())
			pivot, err := state.resolveConflict(conflict)
			if err != nil {
				if ns, ok := err.(*NoSolutionError); ok {
					return s.fail(state, ns.Incompatibility)
				}
				return nil, err
			}
			conflict = nil
			if pivot != EmptyName() {
				propagateSeed = pivot
			}
			continue
		}

		seed := propagateSeed
		propagateSeed = EmptyName()
		propConflict, err := state.propagate(seed)
		if err != nil {
			return nil, err
		}
		if propConflict != nil {
			conflict = propConflict
			continue
		}

		if state.partial.isComplete() {
			return state.partial.buildSolution(), nil
		}

		nextPkg, ok := state.partial.nextDecisionCandidate()
		if !ok {
			s.debug("solution found", "step", steps)
			return state.partial.buildSolution(), nil
		}

		allowed := state.partial.allowedSet(nextPkg)
		pending := state.partial.pendingPackages()

		s.debug("selecting package",
			"step", steps,
			"package", nextPkg.Value(),
			"allowed", allowed.String(),
			"pending", joinNameValues(pending),
		)

		candidate, found, err := state.pickCandidate(nextPkg)
		if err != nil {
			return nil, err
		}
		if !found {
			conflict = NewIncompatibilityNoCandidates(NewTerm(nextPkg, allowed))

			if support := state.partial.latest(nextPkg); support != nil && support.cause != nil {
				conflict = state.resolveIncompatibility(conflict, support.cause, nextPkg)
			}
			state.addIncompatibility(conflict)
			continue
		}

		s.debug("making decision",
			"step", steps,
			"package", nextPkg.Value(),
			"record", candidate.String(),
		)

		assign := state.partial.addDecision(candidate)
		state.traceAssignment("decision", assign)

		deps, err := s.Source.GetDependencies(candidate)
		if err != nil {
			return nil, &DependencyError{Record: candidate, Err: err}
		}

		if depConflict, err := state.registerDependencies(candidate, deps); err != nil {
			return nil, &DependencyError{Record: candidate, Err: err}
		} else if depConflict != nil {
			conflict = depConflict
			continue
		}

		state.enqueue(assign.name)
	}
}

func joinNameValues(names []Name) string {
	if len(names) == 0 {
		return ""
	}
	values := make([]string, len(names))
	for i, name := range names {
		values[i] = name.Value()
	}
	return strings.Join(values, ",")
}

// extractRootRecord resolves the root term to the single record it pins.
func (s *Solver) extractRootRecord(root Term) (*PackageRecord, error) {
	if !root.Positive {
		return nil, &SpecError{Spec: root.String(), Message: "root term must be positive"}
	}

	records, err := s.Source.GetCandidates(root.Name)
	if err != nil {
		return nil, err
	}

	var selected *PackageRecord
	for _, record := range records {
		if !s.algebra.Contains(root.Constraint, record) {
			continue
		}
		if selected != nil {
			return nil, &SpecError{Spec: root.String(), Message: "root term must pin exactly one record"}
		}
		selected = record
	}

	if selected == nil {
		return nil, &PackageNotFoundError{Package: root.Name}
	}
	return selected, nil
}

func (s *Solver) fail(state *solverState, incomp *Incompatibility) (Solution, error) {
	if s.options.TrackIncompatibilities {
		if state != nil {
			s.learned = append([]*Incompatibility{}, state.learned...)
		}
		if incomp == nil {
			term := fallbackTerm(nil)
			incomp = NewIncompatibilityNoCandidates(term)
		}
		return nil, NewNoSolutionError(incomp)
	}

	term := fallbackTerm(incomp)
	return nil, ErrNoSolutionFound{Term: term}
}

func fallbackTerm(incomp *Incompatibility) Term {
	if incomp == nil || len(incomp.Terms) == 0 {
		return NewTerm(MakeName(rootPackageName), FullConstraint())
	}
	term := incomp.Terms[0]
	if !term.Positive {
		term = term.Negate()
	}
	return term
}
