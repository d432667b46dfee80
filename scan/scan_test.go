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
package scan_test

import (
	"errors"
	"slices"
	"testing"

	"bennypowers.dev/closuredeps/internal/mapfs"
	"bennypowers.dev/closuredeps/scan"
	"bennypowers.dev/closuredeps/source"
	"bennypowers.dev/closuredeps/testutil"
)

func newTree() *mapfs.MapFileSystem {
	mfs := mapfs.New()
	mfs.AddFile("/lib/goog/base.js", "// @provideGoog\n", 0644)
	mfs.AddFile("/lib/goog/dom/dom.js", "goog.provide('goog.dom');\n", 0644)
	mfs.AddFile("/lib/goog/dom/dom_test.js", "goog.require('goog.dom');\n", 0644)
	mfs.AddFile("/lib/goog/css/common.css", "body {}\n", 0644)
	mfs.AddFile("/lib/third_party/x.JS", "goog.provide('x');\n", 0644)
	mfs.AddFile("/app/main.js", "goog.require('goog.dom');\n", 0644)
	return mfs
}

func TestFilesWalksDirectories(t *testing.T) {
	files, err := scan.Files(newTree(), []string{"/lib"}, scan.Options{})
	if err != nil {
		t.Fatalf("Files failed: %v", err)
	}

	want := []string{
		"/lib/goog/base.js",
		"/lib/goog/dom/dom.js",
		"/lib/goog/dom/dom_test.js",
		"/lib/third_party/x.JS",
	}
	if !slices.Equal(files, want) {
		t.Errorf("Expected %v, got %v", want, files)
	}
}

func TestFilesAcceptsFileRoots(t *testing.T) {
	files, err := scan.Files(newTree(), []string{"/app/main.js", "/lib/goog/css/common.css"}, scan.Options{})
	if err != nil {
		t.Fatalf("Files failed: %v", err)
	}
	if !slices.Equal(files, []string{"/app/main.js"}) {
		t.Errorf("Expected only /app/main.js, got %v", files)
	}
}

func TestFilesDeduplicatesAndSorts(t *testing.T) {
	roots := []string{"/lib/goog/dom", "/app", "/lib/goog/dom/dom.js", "/app/./main.js"}
	files, err := scan.Files(newTree(), roots, scan.Options{})
	if err != nil {
		t.Fatalf("Files failed: %v", err)
	}

	want := []string{"/app/main.js", "/lib/goog/dom/dom.js", "/lib/goog/dom/dom_test.js"}
	if !slices.Equal(files, want) {
		t.Errorf("Expected %v, got %v", want, files)
	}
}

func TestFilesExclude(t *testing.T) {
	tests := []struct {
		name    string
		exclude []string
		want    []string
	}{
		{
			name:    "relative glob",
			exclude: []string{"**/*_test.js"},
			want:    []string{"/lib/goog/base.js", "/lib/goog/dom/dom.js", "/lib/third_party/x.JS"},
		},
		{
			name:    "directory",
			exclude: []string{"third_party"},
			want:    []string{"/lib/goog/base.js", "/lib/goog/dom/dom.js", "/lib/goog/dom/dom_test.js"},
		},
		{
			name:    "full path",
			exclude: []string{"/lib/goog/dom/**"},
			want:    []string{"/lib/goog/base.js", "/lib/third_party/x.JS"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			files, err := scan.Files(newTree(), []string{"/lib"}, scan.Options{Exclude: tt.exclude})
			if err != nil {
				t.Fatalf("Files failed: %v", err)
			}
			if !slices.Equal(files, tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, files)
			}
		})
	}
}

func TestFilesExtensions(t *testing.T) {
	files, err := scan.Files(newTree(), []string{"/lib"}, scan.Options{Extensions: []string{"css"}})
	if err != nil {
		t.Fatalf("Files failed: %v", err)
	}
	if !slices.Equal(files, []string{"/lib/goog/css/common.css"}) {
		t.Errorf("Expected only the css file, got %v", files)
	}
}

func TestFilesMissingRoot(t *testing.T) {
	_, err := scan.Files(newTree(), []string{"/lib", "/nowhere"}, scan.Options{})

	var ioErr *source.IOError
	if !errors.As(err, &ioErr) {
		t.Fatalf("Expected *source.IOError, got %T: %v", err, err)
	}
	if ioErr.Path != "/nowhere" {
		t.Errorf("Expected path /nowhere, got %q", ioErr.Path)
	}
}

func TestFilesInvalidPattern(t *testing.T) {
	_, err := scan.Files(newTree(), []string{"/lib"}, scan.Options{Exclude: []string{"[unclosed"}})
	if err == nil {
		t.Fatal("Expected error for malformed exclude pattern")
	}
}

func TestFilesFixture(t *testing.T) {
	mfs := testutil.NewFixtureFS(t, "calcdeps/simple", "/project")

	files, err := scan.Files(mfs, []string{"/project"}, scan.Options{})
	if err != nil {
		t.Fatalf("Files failed: %v", err)
	}

	want := []string{
		"/project/closure/goog/base.js",
		"/project/src/a.js",
		"/project/src/b.js",
		"/project/src/c.js",
		"/project/src/unused.js",
	}
	if !slices.Equal(files, want) {
		t.Errorf("Expected %v, got %v", want, files)
	}
}
