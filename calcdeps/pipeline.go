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
	"errors"
	"slices"
	"strings"

	"bennypowers.dev/closuredeps/fs"
	"bennypowers.dev/closuredeps/scan"
	"bennypowers.dev/closuredeps/source"
)

// NamespacePrefix marks an input that names a namespace instead of a file.
const NamespacePrefix = "ns:"

// ErrNoInputs is returned by Calculate when there is nothing to resolve.
var ErrNoInputs = errors.New("no inputs: provide input files or ns: namespaces")

// Options configures Calculate.
type Options struct {
	// Paths are library roots (files or directories) available for resolution.
	Paths []string
	// Inputs are the files, directories or ns:<namespace> entries to resolve.
	Inputs []string
	// Base is the Closure base.js. When empty it is looked up among the
	// scanned files with FindBase.
	Base string
	// Exclude lists glob patterns skipped while scanning.
	Exclude []string
	// Parser selects how declarations are read.
	Parser source.Parser
	// Parallel is the number of files read concurrently.
	Parallel int
	// Cache is shared between reads. A fresh cache is used when nil.
	Cache *source.Cache
	// Logger receives progress messages. May be nil.
	Logger Logger
}

// Result is the outcome of Calculate.
type Result struct {
	// Order is the resolved load order.
	Order *Order
	// Records holds every scanned file, sorted by path, base included.
	Records []*source.Record
}

// Calculate scans the configured roots, reads every file and resolves the
// load order of the inputs.
func Calculate(fsys fs.FileSystem, opts Options) (*Result, error) {
	var namespaces, inputRoots []string
	for _, in := range opts.Inputs {
		if ns, ok := strings.CutPrefix(in, NamespacePrefix); ok {
			namespaces = append(namespaces, ns)
		} else {
			inputRoots = append(inputRoots, in)
		}
	}
	if len(namespaces) == 0 && len(inputRoots) == 0 {
		return nil, ErrNoInputs
	}

	scanOpts := scan.Options{Exclude: opts.Exclude}
	pathFiles, err := scan.Files(fsys, opts.Paths, scanOpts)
	if err != nil {
		return nil, err
	}
	var inputFiles []string
	if len(inputRoots) > 0 {
		inputFiles, err = scan.Files(fsys, inputRoots, scanOpts)
		if err != nil {
			return nil, err
		}
	}
	if opts.Logger != nil {
		opts.Logger.Debugf("scanned %d path files and %d input files", len(pathFiles), len(inputFiles))
	}

	basePath := opts.Base
	if basePath == "" {
		basePath, err = FindBase(fsys, slices.Concat(pathFiles, inputFiles))
		if err != nil {
			return nil, err
		}
		if basePath == "" && opts.Logger != nil {
			opts.Logger.Warnf("no Closure %s found; output will not start with a base file", BaseFileName)
		}
	} else {
		basePath = source.CanonicalPath(basePath)
	}

	pathFiles = slices.DeleteFunc(pathFiles, func(p string) bool { return p == basePath })
	inputFiles = slices.DeleteFunc(inputFiles, func(p string) bool { return p == basePath })

	cache := opts.Cache
	if cache == nil {
		cache = source.NewCache(0)
	}
	readOpts := source.Options{Parser: opts.Parser, Parallel: opts.Parallel, Cache: cache}

	var base *source.Record
	if basePath != "" {
		base, err = cache.GetOrLoad(fsys, basePath, opts.Parser)
		if err != nil {
			return nil, err
		}
	}
	pathRecords, err := source.ReadAll(fsys, pathFiles, readOpts)
	if err != nil {
		return nil, err
	}
	inputRecords, err := source.ReadAll(fsys, inputFiles, readOpts)
	if err != nil {
		return nil, err
	}

	order, err := Resolve(base, pathRecords, inputRecords, ResolveOptions{
		Namespaces: namespaces,
		Logger:     opts.Logger,
	})
	if err != nil {
		return nil, err
	}

	return &Result{
		Order:   order,
		Records: mergeRecords(base, pathRecords, inputRecords),
	}, nil
}

func mergeRecords(base *source.Record, groups ...[]*source.Record) []*source.Record {
	seen := make(map[string]bool)
	var all []*source.Record
	if base != nil {
		seen[base.Path] = true
		all = append(all, base)
	}
	for _, group := range groups {
		for _, r := range group {
			if !seen[r.Path] {
				seen[r.Path] = true
				all = append(all, r)
			}
		}
	}
	slices.SortFunc(all, func(a, b *source.Record) int {
		return strings.Compare(a.Path, b.Path)
	})
	return all
}
