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

import (
	"bufio"
	"bytes"
	"fmt"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"sync"

	"bennypowers.dev/closuredeps/fs"
)

// Parser selects how declarations are extracted from file content.
type Parser string

const (
	// ParserRegex scans lines with regular expressions. Declarations inside
	// comments and string literals are picked up too.
	ParserRegex Parser = "regex"
	// ParserAST parses the file with tree-sitter and only reports real
	// goog.provide/goog.require calls.
	ParserAST Parser = "ast"
)

// ParseParser validates a parser name. The empty string selects ParserRegex.
func ParseParser(name string) (Parser, error) {
	switch Parser(name) {
	case "", ParserRegex:
		return ParserRegex, nil
	case ParserAST:
		return ParserAST, nil
	default:
		return "", fmt.Errorf("invalid parser %q: must be one of regex, ast", name)
	}
}

var (
	provideRegex   = regexp.MustCompile(`goog\.provide\s*\(\s*['"]([^)]+)['"]\s*\)`)
	requireRegex   = regexp.MustCompile(`goog\.require\s*\(\s*['"]([^)]+)['"]\s*\)`)
	namespaceRegex = regexp.MustCompile(`^ns:((\w+\.)*(\w+))$`)
)

// maxLineSize bounds a single line; minified sources can be long.
const maxLineSize = 16 * 1024 * 1024

// Read reads the file at path and returns its declarations.
// A missing or unreadable file yields an *IOError.
func Read(fsys fs.FileSystem, path string, parser Parser) (*Record, error) {
	path = filepath.Clean(path)
	content, err := fsys.ReadFile(path)
	if err != nil {
		return nil, &IOError{Path: path, Err: err}
	}
	return Parse(path, content, parser)
}

// Parse extracts declarations from content already in memory.
func Parse(path string, content []byte, parser Parser) (*Record, error) {
	switch parser {
	case "", ParserRegex:
		provides, requires, namespaces, err := scanLines(content)
		if err != nil {
			return nil, &IOError{Path: path, Err: err}
		}
		return NewRecord(path, provides, requires, namespaces), nil
	case ParserAST:
		provides, requires, err := ExtractDeclarations(content)
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
		// ns: lines are manifest syntax, not JavaScript, so they are always
		// collected line by line.
		_, _, namespaces, err := scanLines(content)
		if err != nil {
			return nil, &IOError{Path: path, Err: err}
		}
		return NewRecord(path, provides, requires, namespaces), nil
	default:
		return nil, fmt.Errorf("invalid parser %q", parser)
	}
}

func scanLines(content []byte) (provides, requires, namespaces []string, err error) {
	scanner := bufio.NewScanner(bytes.NewReader(content))
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if m := provideRegex.FindStringSubmatch(line); m != nil {
			provides = append(provides, m[1])
		}
		if m := requireRegex.FindStringSubmatch(line); m != nil {
			requires = append(requires, m[1])
		}
		if m := namespaceRegex.FindStringSubmatch(line); m != nil {
			namespaces = append(namespaces, m[1])
		}
	}
	return provides, requires, namespaces, scanner.Err()
}

// Options configures ReadAll.
type Options struct {
	// Parser selects the extraction strategy. Defaults to ParserRegex.
	Parser Parser
	// Parallel is the number of files read concurrently.
	// Defaults to runtime.NumCPU() if <= 0.
	Parallel int
	// Cache, when set, is consulted before reading each file.
	Cache *Cache
}

// ReadAll reads every path and returns the records in the same order.
// When several files fail, the error for the earliest path is returned.
func ReadAll(fsys fs.FileSystem, paths []string, opts Options) ([]*Record, error) {
	parallel := opts.Parallel
	if parallel <= 0 {
		parallel = runtime.NumCPU()
	}
	parallel = min(parallel, max(len(paths), 1))

	records := make([]*Record, len(paths))
	errs := make([]error, len(paths))

	jobs := make(chan int, len(paths))
	var wg sync.WaitGroup
	for range parallel {
		wg.Go(func() {
			for i := range jobs {
				if opts.Cache != nil {
					records[i], errs[i] = opts.Cache.GetOrLoad(fsys, paths[i], opts.Parser)
				} else {
					records[i], errs[i] = Read(fsys, paths[i], opts.Parser)
				}
			}
		})
	}
	for i := range paths {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return records, nil
}
