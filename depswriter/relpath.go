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
package depswriter

import (
	"path/filepath"
)

// RelativePath returns path relative to root using forward slashes, walking
// up with ".." where the two only share a prefix. An empty root returns the
// cleaned path itself.
func RelativePath(root, path string) string {
	path = filepath.Clean(path)
	if root == "" {
		return filepath.ToSlash(path)
	}
	root = filepath.Clean(root)

	if filepath.IsAbs(root) != filepath.IsAbs(path) {
		absRoot, rootErr := filepath.Abs(root)
		absPath, pathErr := filepath.Abs(path)
		if rootErr != nil || pathErr != nil {
			return filepath.ToSlash(path)
		}
		root, path = absRoot, absPath
	}

	rel, err := filepath.Rel(root, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}
