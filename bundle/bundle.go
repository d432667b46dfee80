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

// Package bundle writes resolved source orders as file lists, concatenated
// scripts and HTML pages that load the files in order.
package bundle

import (
	"bufio"
	"bytes"
	"io"

	"bennypowers.dev/closuredeps/depswriter"
	"bennypowers.dev/closuredeps/fs"
	"bennypowers.dev/closuredeps/source"
)

// List writes one path per line. Paths are relative to root when root is set.
func List(w io.Writer, records []*source.Record, root string) error {
	bw := bufio.NewWriter(w)
	for _, r := range records {
		p := r.Path
		if root != "" {
			p = depswriter.RelativePath(root, p)
		}
		if _, err := bw.WriteString(p + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Script concatenates the content of each file in order. Every file is
// terminated by a newline so the last statement of one file cannot run
// into the first of the next.
func Script(w io.Writer, fsys fs.FileSystem, records []*source.Record) error {
	bw := bufio.NewWriter(w)
	for _, r := range records {
		content, err := fsys.ReadFile(r.Path)
		if err != nil {
			return &source.IOError{Path: r.Path, Err: err}
		}
		if _, err := bw.Write(content); err != nil {
			return err
		}
		if !bytes.HasSuffix(content, []byte("\n")) {
			if err := bw.WriteByte('\n'); err != nil {
				return err
			}
		}
	}
	return bw.Flush()
}
