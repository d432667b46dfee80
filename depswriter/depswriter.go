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

// Package depswriter writes Closure deps files: one goog.addDependency
// statement per source file, which lets base.js load files on demand.
package depswriter

import (
	"bufio"
	"io"
	"strings"

	"bennypowers.dev/closuredeps/source"
)

// Header starts every generated deps file.
const Header = "// This file was autogenerated by closuredeps.\n// Please do not edit.\n"

// Options configures Write.
type Options struct {
	// Root is the directory paths are written relative to. Closure resolves
	// deps paths against the directory holding base.js.
	Root string
	// Prefix is prepended to every relative path, e.g. "../../".
	Prefix string
	// Exclude lists paths the consumer already knows about; they are skipped.
	// Relative and absolute forms of the same file match each other.
	Exclude []string
	// Base is the base file path. It is never written.
	Base string
}

// Write writes the header and one goog.addDependency line per record, in
// the given order.
func Write(w io.Writer, records []*source.Record, opts Options) error {
	excluded := make(map[string]bool, len(opts.Exclude)+1)
	for _, p := range opts.Exclude {
		excluded[source.CanonicalPath(p)] = true
	}
	if opts.Base != "" {
		excluded[source.CanonicalPath(opts.Base)] = true
	}

	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(Header); err != nil {
		return err
	}
	for _, r := range records {
		if excluded[source.CanonicalPath(r.Path)] {
			continue
		}
		if _, err := bw.WriteString(Line(r, opts.Prefix+RelativePath(opts.Root, r.Path))); err != nil {
			return err
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Line renders the goog.addDependency statement for r under the given path.
func Line(r *source.Record, path string) string {
	var b strings.Builder
	b.WriteString("goog.addDependency(")
	b.WriteString(quote(path))
	b.WriteString(", ")
	b.WriteString(list(r.Provides))
	b.WriteString(", ")
	b.WriteString(list(r.Requires))
	b.WriteString(");")
	return b.String()
}

func list(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = quote(v)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}

var quoteReplacer = strings.NewReplacer(`\`, `\\`, `'`, `\'`, "\n", `\n`, "\r", `\r`)

// quote renders s as a single-quoted JavaScript string literal.
func quote(s string) string {
	return "'" + quoteReplacer.Replace(s) + "'"
}
