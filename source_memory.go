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

import "slices"

// InMemorySource provides an in-memory implementation of Source for testing
// and simple use cases. It stores all package records in memory without any
// I/O operations.
//
// This is the simplest source implementation and is useful for:
//   - Testing dependency resolution scenarios
//   - Building example dependency graphs
//   - Prototyping before implementing a real repository source
//
// For production use cases with network or database access, consider wrapping
// your source with CachedSource so dependency strings are parsed once.
//
// Example:
//
//	source := &InMemorySource{}
//	source.AddRecord(&PackageRecord{
//	    Name:    MakeName("numpy"),
//	    Version: MustParseVersion("1.21.0"),
//	    Depends: []string{"python >=3.8"},
//	})
type InMemorySource struct {
	Packages map[Name][]*PackageRecord
}

// GetCandidates returns all available records of a package in ascending order.
func (s *InMemorySource) GetCandidates(name Name) ([]*PackageRecord, error) {
	records, ok := s.Packages[name]
	if !ok {
		return nil, &PackageNotFoundError{Package: name}
	}

	result := slices.Clone(records)
	slices.SortFunc(result, compareRecords)
	return result, nil
}

// GetDependencies parses and returns the dependency terms of a record.
func (s *InMemorySource) GetDependencies(record *PackageRecord) ([]Term, error) {
	if _, ok := s.Packages[record.Name]; !ok {
		return nil, &PackageNotFoundError{Package: record.Name}
	}

	return dependencyTerms(record)
}

// AddRecord adds a package record to the source.
// If the package map is nil, it will be initialized automatically.
func (s *InMemorySource) AddRecord(record *PackageRecord) {
	if s.Packages == nil {
		s.Packages = make(map[Name][]*PackageRecord)
	}

	s.Packages[record.Name] = append(s.Packages[record.Name], record)
}

// AddPackage is a convenience wrapper building a record from its parts.
// The version string must parse; invalid versions panic, so this is intended
// for statically known test fixtures.
func (s *InMemorySource) AddPackage(name, version string, buildNumber int, depends ...string) *PackageRecord {
	record := &PackageRecord{
		Name:        MakeName(name),
		Version:     MustParseVersion(version),
		BuildNumber: BuildNumber(buildNumber),
		Depends:     depends,
	}
	s.AddRecord(record)
	return record
}

var (
	_ Source = &InMemorySource{}
)
