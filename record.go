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

// PackageRecord is one concrete, installable package: a single build of a
// single version, as it appears in a channel's repodata.
//
// The constraint algebra consumes records only through Version and
// BuildNumber; the remaining fields exist for sources and solution output.
//
// Records are treated as immutable once handed to a Source or the solver.
type PackageRecord struct {
	// Name is the interned package name.
	Name Name

	// Version is the package version.
	Version Version

	// Build is the build string, e.g. "py311h38be061_2".
	Build string

	// BuildNumber is the sequential rebuild counter for this version.
	BuildNumber BuildNumber

	// Depends lists the match specs of required packages.
	Depends []string

	// Constrains lists match specs that restrict other packages without
	// requiring them.
	Constrains []string
}

// String renders the record in the conda name=version=build convention.
func (r *PackageRecord) String() string {
	if r == nil {
		return "<nil>"
	}
	if r.Build == "" {
		return fmt.Sprintf("%s=%s", r.Name.Value(), r.Version)
	}
	return fmt.Sprintf("%s=%s=%s", r.Name.Value(), r.Version, r.Build)
}

// SameVersion reports whether two records agree on the two attributes the
// constraint algebra can observe: version and build number.
func (r *PackageRecord) SameVersion(other *PackageRecord) bool {
	if r == nil || other == nil {
		return r == other
	}
	return r.Version.Compare(other.Version) == 0 && r.BuildNumber == other.BuildNumber
}
