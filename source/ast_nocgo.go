//go:build !cgo

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
package source

import "errors"

// ErrASTUnavailable is returned by the ast parser in builds without cgo,
// such as js/wasm, where tree-sitter cannot be linked.
var ErrASTUnavailable = errors.New("ast parser unavailable: built without cgo")

// ExtractDeclarations always fails without cgo. Use ParserRegex instead.
func ExtractDeclarations(content []byte) (provides, requires []string, err error) {
	return nil, nil, ErrASTUnavailable
}
