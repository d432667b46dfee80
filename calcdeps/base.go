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
	"bytes"
	"path/filepath"

	"bennypowers.dev/closuredeps/fs"
	"bennypowers.dev/closuredeps/source"
)

// BaseFileName is the name of the Closure Library bootstrap file.
const BaseFileName = "base.js"

// baseMarker is the JSDoc tag Closure's base.js carries where goog is defined.
var baseMarker = []byte("@provideGoog")

// FindBase returns the absolute path of the first file named base.js whose
// content carries the @provideGoog marker, or "" if there is none.
func FindBase(fsys fs.FileSystem, paths []string) (string, error) {
	for _, p := range paths {
		if filepath.Base(p) != BaseFileName {
			continue
		}
		content, err := fsys.ReadFile(p)
		if err != nil {
			return "", &source.IOError{Path: p, Err: err}
		}
		if bytes.Contains(content, baseMarker) {
			return source.CanonicalPath(p), nil
		}
	}
	return "", nil
}
