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
	"slices"
)

// CombinedSource aggregates multiple package sources into a single source.
// When querying for candidates or dependencies, it tries each source in order
// and combines the results.
//
// This is useful for:
//   - Combining multiple channels into one candidate pool
//   - Implementing package source fallbacks
//   - Testing with mixed source types
//
// Example:
//
//	local := &InMemorySource{}
//	remote := &RepoDataSource{}
//	combined := CombinedSource{local, remote}
//	solver := NewSolver(root, combined)
type CombinedSource []Source

// GetCandidates queries all sources and returns the combined set of records
// in ascending order. Returns an error only if a source fails with a
// non-NotFound error.
func (s CombinedSource) GetCandidates(name Name) ([]*PackageRecord, error) {
	var ret []*PackageRecord
	for _, source := range s {
		records, err := source.GetCandidates(name)
		if err != nil {
			var pkgErr *PackageNotFoundError
			if errors.As(err, &pkgErr) {
				continue
			}
			return nil, err
		}
		ret = append(ret, records...)
	}

	if len(ret) == 0 {
		return nil, &PackageNotFoundError{Package: name}
	}

	slices.SortFunc(ret, compareRecords)
	return ret, nil
}

// GetDependencies queries sources in order and returns dependencies from the
// first source that knows the record's package.
func (s CombinedSource) GetDependencies(record *PackageRecord) ([]Term, error) {
	for _, source := range s {
		deps, err := source.GetDependencies(record)
		if err != nil {
			var pkgErr *PackageNotFoundError
			if errors.As(err, &pkgErr) {
				continue
			}
			return nil, err
		}
		return deps, nil
	}

	return nil, &PackageNotFoundError{Package: record.Name}
}

var (
	_ Source = CombinedSource{}
)
