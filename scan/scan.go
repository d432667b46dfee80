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

// Package scan finds JavaScript source files under a set of roots.
package scan

import (
	"fmt"
	iofs "io/fs"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"bennypowers.dev/closuredeps/fs"
	"bennypowers.dev/closuredeps/source"
)

// DefaultExtensions are the file extensions accepted when none are given.
var DefaultExtensions = []string{".js"}

// Options configures Files.
type Options struct {
	// Extensions lists accepted file extensions. Case-insensitive; the
	// leading dot is optional. Defaults to DefaultExtensions.
	Extensions []string
	// Exclude lists doublestar patterns. A pattern matches either the
	// slash-separated path relative to the walked root or the full path.
	// Matching directories are not descended into.
	Exclude []string
}

// Validate reports the first malformed exclude pattern.
func (o Options) Validate() error {
	for _, pattern := range o.Exclude {
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("invalid exclude pattern %q", pattern)
		}
	}
	return nil
}

// Files walks roots and returns the absolute paths of matching files,
// de-duplicated and sorted. A file reached through a relative and an
// absolute root is returned once. A root may be a file or a directory; a file
// root is kept only if its extension is accepted.
func Files(fsys fs.FileSystem, roots []string, opts Options) ([]string, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	allowed := extensionSet(opts.Extensions)

	seen := make(map[string]bool)
	var files []string
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			files = append(files, p)
		}
	}

	for _, root := range roots {
		abs, err := filepath.Abs(root)
		if err != nil {
			return nil, &source.IOError{Path: root, Err: err}
		}
		root = abs
		info, err := fsys.Stat(root)
		if err != nil {
			return nil, &source.IOError{Path: root, Err: err}
		}

		if !info.IsDir() {
			if allowed[strings.ToLower(filepath.Ext(root))] && !excluded(opts.Exclude, filepath.Base(root), root) {
				add(root)
			}
			continue
		}

		err = iofs.WalkDir(fsys, filepath.ToSlash(root), func(p string, d iofs.DirEntry, err error) error {
			if err != nil {
				return &source.IOError{Path: filepath.FromSlash(p), Err: err}
			}
			full := filepath.FromSlash(p)
			rel, relErr := filepath.Rel(root, full)
			if relErr != nil {
				rel = full
			}
			if rel != "." && excluded(opts.Exclude, filepath.ToSlash(rel), full) {
				if d.IsDir() {
					return iofs.SkipDir
				}
				return nil
			}
			if d.IsDir() {
				return nil
			}
			if allowed[strings.ToLower(filepath.Ext(p))] {
				add(full)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	slices.Sort(files)
	return files, nil
}

func extensionSet(exts []string) map[string]bool {
	if len(exts) == 0 {
		exts = DefaultExtensions
	}
	allowed := make(map[string]bool, len(exts))
	for _, ext := range exts {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		allowed[ext] = true
	}
	return allowed
}

func excluded(patterns []string, rel, full string) bool {
	full = filepath.ToSlash(full)
	for _, pattern := range patterns {
		if doublestar.MatchUnvalidated(pattern, rel) || doublestar.MatchUnvalidated(pattern, full) {
			return true
		}
	}
	return false
}
