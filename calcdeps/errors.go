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
package calcdeps

import (
	"fmt"
	"strings"

	"bennypowers.dev/closuredeps/source"
)

// IOError is returned when a source file cannot be read.
type IOError = source.IOError

// MissingProviderError reports a required namespace that no file provides.
type MissingProviderError struct {
	Namespace string
	// File is the path of the requiring file. Empty for namespace inputs.
	File string
}

func (e *MissingProviderError) Error() string {
	if e.File == "" {
		return fmt.Sprintf("missing provider for %s", e.Namespace)
	}
	return fmt.Sprintf("missing provider for %s required by %s", e.Namespace, e.File)
}

// CyclicDependencyError reports a require cycle. Cycle starts and ends with
// the same file, e.g. [a.js b.js a.js].
type CyclicDependencyError struct {
	Cycle []string
}

func (e *CyclicDependencyError) Error() string {
	return fmt.Sprintf("cyclic dependency: %s", strings.Join(e.Cycle, " -> "))
}

// DuplicateProviderError reports a namespace provided by more than one file.
type DuplicateProviderError struct {
	Namespace string
	Files     []string
}

func (e *DuplicateProviderError) Error() string {
	return fmt.Sprintf("duplicate provide for %s in %s", e.Namespace, strings.Join(e.Files, ", "))
}
