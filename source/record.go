/*
Copyright © 2026 Benny Powers <web@bennypowers.com>

This program is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with this program. If not, see <http://www.gnu.org/licenses/>.
*/

// Package source reads Closure Library dependency declarations
// (goog.provide, goog.require and ns: lines) out of JavaScript files.
package source

import (
	"fmt"
	"path/filepath"
	"slices"
)

// Record holds the declarations found in one source file.
// Records are not modified after a reader returns them.
type Record struct {
	// Path identifies the file. Readers store it cleaned; scanned files are
	// absolute (see CanonicalPath).
	Path string `json:"path"`
	// Provides lists goog.provide namespaces in order of first appearance.
	Provides []string `json:"provides"`
	// Requires lists goog.require namespaces in order of first appearance.
	Requires []string `json:"requires"`
	// Namespaces lists informal "ns:" declarations.
	Namespaces []string `json:"namespaces,omitempty"`
}

// NewRecord builds a Record, dropping duplicate entries from each list.
func NewRecord(path string, provides, requires, namespaces []string) *Record {
	return &Record{
		Path:       path,
		Provides:   unique(provides),
		Requires:   unique(requires),
		Namespaces: unique(namespaces),
	}
}

// ProvidesNamespace reports whether the record provides ns.
func (r *Record) ProvidesNamespace(ns string) bool {
	return slices.Contains(r.Provides, ns)
}

// Dependencies returns the requires and informal namespaces of the record,
// de-duplicated and sorted.
func (r *Record) Dependencies() []string {
	deps := make([]string, 0, len(r.Requires)+len(r.Namespaces))
	deps = append(deps, r.Requires...)
	deps = append(deps, r.Namespaces...)
	slices.Sort(deps)
	return slices.Compact(deps)
}

func unique(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]bool, len(values))
	for _, v := range values {
		if seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

// CanonicalPath returns the absolute, cleaned form of p, which identifies a
// file however it was named on the command line. When the working directory
// cannot be determined p is only cleaned.
func CanonicalPath(p string) string {
	abs, err := filepath.Abs(p)
	if err != nil {
		return filepath.Clean(p)
	}
	return abs
}

// IOError reports a file that could not be read.
type IOError struct {
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("reading %s: %v", e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}
