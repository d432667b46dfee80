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

// Package calcdeps orders Closure Library sources so that every file comes
// after the files providing the namespaces it requires.
package calcdeps

import (
	"slices"

	"bennypowers.dev/closuredeps/source"
)

// Logger receives diagnostic messages. *log.Logger from
// github.com/charmbracelet/log satisfies it.
type Logger interface {
	Debugf(format string, args ...any)
	Warnf(format string, args ...any)
}

// Order is a resolved load order.
type Order struct {
	// Base is the pinned first file, or nil.
	Base *source.Record
	// Records lists every file in load order, starting with Base.
	Records []*source.Record
}

// Paths returns the file paths in load order.
func (o *Order) Paths() []string {
	paths := make([]string, len(o.Records))
	for i, r := range o.Records {
		paths[i] = r.Path
	}
	return paths
}

// ResolveOptions configures Resolve.
type ResolveOptions struct {
	// Namespaces are extra entry points resolved to their providing files,
	// which are then treated as inputs.
	Namespaces []string
	// Logger receives debug output. May be nil.
	Logger Logger
}

type mark int

const (
	unvisited mark = iota
	inProgress
	done
)

type resolver struct {
	providers map[string]*source.Record
	marks     map[string]mark
	stack     []string
	result    []*source.Record
	logger    Logger
}

// Resolve computes the load order for inputs. base, when non-nil, is always
// first. paths are available to satisfy requires but are only included when
// something needs them. Requires are followed in lexicographic order so the
// result is the same for the same inputs.
func Resolve(base *source.Record, paths, inputs []*source.Record, opts ResolveOptions) (*Order, error) {
	all := make([]*source.Record, 0, len(paths)+len(inputs)+1)
	if base != nil {
		all = append(all, base)
	}
	all = append(all, paths...)
	all = append(all, inputs...)

	providers, err := indexProviders(all)
	if err != nil {
		return nil, err
	}

	r := &resolver{
		providers: providers,
		marks:     make(map[string]mark),
		logger:    opts.Logger,
	}

	if base != nil {
		r.marks[base.Path] = done
		r.result = append(r.result, base)
	}

	for _, ns := range opts.Namespaces {
		provider, ok := providers[ns]
		if !ok {
			return nil, &MissingProviderError{Namespace: ns}
		}
		if err := r.visit(provider); err != nil {
			return nil, err
		}
	}

	for _, input := range inputs {
		if err := r.visit(input); err != nil {
			return nil, err
		}
	}

	return &Order{Base: base, Records: r.result}, nil
}

// indexProviders maps every provided namespace to its file. Records that
// share a path are the same file and do not conflict.
func indexProviders(records []*source.Record) (map[string]*source.Record, error) {
	providers := make(map[string]*source.Record)
	for _, record := range records {
		for _, ns := range record.Provides {
			existing, ok := providers[ns]
			if !ok {
				providers[ns] = record
				continue
			}
			if existing.Path != record.Path {
				files := []string{existing.Path, record.Path}
				slices.Sort(files)
				return nil, &DuplicateProviderError{Namespace: ns, Files: files}
			}
		}
	}
	return providers, nil
}

func (r *resolver) visit(record *source.Record) error {
	switch r.marks[record.Path] {
	case done:
		return nil
	case inProgress:
		return r.cycle(record.Path)
	}

	r.marks[record.Path] = inProgress
	r.stack = append(r.stack, record.Path)

	for _, ns := range record.Dependencies() {
		if record.ProvidesNamespace(ns) {
			continue
		}
		provider, ok := r.providers[ns]
		if !ok {
			return &MissingProviderError{Namespace: ns, File: record.Path}
		}
		if err := r.visit(provider); err != nil {
			return err
		}
	}

	r.stack = r.stack[:len(r.stack)-1]
	r.marks[record.Path] = done
	r.result = append(r.result, record)
	if r.logger != nil {
		r.logger.Debugf("ordered %s", record.Path)
	}
	return nil
}

func (r *resolver) cycle(path string) error {
	start := slices.Index(r.stack, path)
	cycle := append(slices.Clone(r.stack[start:]), path)
	return &CyclicDependencyError{Cycle: cycle}
}
