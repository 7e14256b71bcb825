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
	"strings"
	"unique"
)

// Name represents a package name using value interning for memory efficiency.
// The same package name appears in thousands of records and terms during a
// resolution run; interning makes equality a pointer comparison and
// deduplicates the backing strings.
//
// Interning is thread-safe, so Names can be created and compared from
// concurrent solver branches.
type Name = unique.Handle[string]

// MakeName creates an interned Name from a string. Conda package names are
// case-insensitive, so the value is lowercased before interning; equal
// spellings always yield the same Name value.
//
// Example:
//
//	a := MakeName("NumPy")
//	b := MakeName("numpy")
//	// a == b (fast pointer comparison)
func MakeName(s string) Name {
	return unique.Make(strings.ToLower(s))
}

// EmptyName returns an empty name (interned empty string).
func EmptyName() Name {
	return unique.Make("")
}
