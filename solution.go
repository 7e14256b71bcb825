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

import "iter"

// Solution represents the complete set of resolved package records.
// A solution holds one record per package name, ensuring all dependency
// constraints are satisfied.
//
// Example:
//
//	solution, err := solver.Solve(root.Term())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for record := range solution.All() {
//	    fmt.Printf("%s: %s\n", record.Name.Value(), record.Version)
//	}
type Solution []*PackageRecord

// Get retrieves the resolved record for a given package name.
// Returns the record and true if found, or nil and false if the package
// is not in the solution.
func (s Solution) Get(name Name) (*PackageRecord, bool) {
	for _, record := range s {
		if record.Name == name {
			return record, true
		}
	}

	return nil, false
}

// All returns an iterator over all records in the solution.
// This enables using range-over-function syntax:
//
//	for record := range solution.All() {
//	    fmt.Printf("%s: %s\n", record.Name.Value(), record.Version)
//	}
func (s Solution) All() iter.Seq[*PackageRecord] {
	return func(yield func(*PackageRecord) bool) {
		for _, record := range s {
			if !yield(record) {
				return
			}
		}
	}
}
