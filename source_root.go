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

// RootSource provides a special source for initial dependency requirements.
// It creates a virtual "$root" package that the solver uses as the starting
// point for dependency resolution.
//
// The root package has a single record whose dependencies are the user's
// initial requirements. This design allows the solver to treat the root
// requirements uniformly with other package dependencies.
//
// Example:
//
//	root := NewRootSource()
//	root.Require("numpy >=1.21,<2")
//	root.Require("python 3.10.*")
//	solver := NewSolver(root, repoSource)
//	solution, _ := solver.Solve(root.Term())
type RootSource struct {
	record       *PackageRecord
	requirements []Term
}

// rootPackageName is the reserved name of the virtual root package.
const rootPackageName = "$root"

// NewRootSource creates a new empty root source.
func NewRootSource() *RootSource {
	return &RootSource{
		record: &PackageRecord{
			Name:    MakeName(rootPackageName),
			Version: MustParseVersion("0"),
		},
	}
}

// GetCandidates returns the single virtual record for the root package only.
func (s *RootSource) GetCandidates(name Name) ([]*PackageRecord, error) {
	if name != s.record.Name {
		return nil, &PackageNotFoundError{Package: name}
	}

	return []*PackageRecord{s.record}, nil
}

// GetDependencies returns the user's initial requirements for the root record.
func (s *RootSource) GetDependencies(record *PackageRecord) ([]Term, error) {
	if record.Name != s.record.Name {
		return nil, &PackageNotFoundError{Package: record.Name}
	}

	return s.requirements, nil
}

// Require parses a match spec and adds it to the root requirements.
func (s *RootSource) Require(spec string) error {
	parsed, err := ParseMatchSpec(spec)
	if err != nil {
		return err
	}
	s.requirements = append(s.requirements, TermFromMatchSpec(parsed))
	return nil
}

// AddRequirement adds a pre-built requirement term to the root source.
func (s *RootSource) AddRequirement(term Term) {
	s.requirements = append(s.requirements, term)
}

// Term returns the term representing the root package itself.
// This is the starting term passed to Solver.Solve().
func (s *RootSource) Term() Term {
	return NewTerm(s.record.Name, SingletonConstraint(s.record))
}

var (
	_ Source = &RootSource{}
)
