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

// Source provides package records and their dependencies to the solver.
//
// Implementations must return candidate records sorted ascending by version
// and build number; the solver prefers the highest matching record and walks
// the slice from the end.
//
// Implementations should return *PackageNotFoundError when a package is
// absent so the solver can translate the miss into an incompatibility rather
// than aborting the solve.
type Source interface {
	// GetCandidates returns all available records for a package in ascending
	// version order.
	GetCandidates(name Name) ([]*PackageRecord, error)

	// GetDependencies returns the dependency terms of a specific record.
	GetDependencies(record *PackageRecord) ([]Term, error)
}

// compareRecords orders records ascending by version, then build number,
// then build string. Sources use it to present candidates in the order the
// solver expects.
func compareRecords(a, b *PackageRecord) int {
	if c := a.Version.Compare(b.Version); c != 0 {
		return c
	}
	if c := a.BuildNumber.Compare(b.BuildNumber); c != 0 {
		return c
	}
	switch {
	case a.Build < b.Build:
		return -1
	case a.Build > b.Build:
		return 1
	default:
		return 0
	}
}

// dependencyTerms parses a record's dependency strings into positive terms.
func dependencyTerms(record *PackageRecord) ([]Term, error) {
	if len(record.Depends) == 0 {
		return nil, nil
	}

	terms := make([]Term, 0, len(record.Depends))
	for _, dep := range record.Depends {
		spec, err := ParseMatchSpec(dep)
		if err != nil {
			return nil, err
		}
		terms = append(terms, TermFromMatchSpec(spec))
	}
	return terms, nil
}
