//go:build cgo

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
	"slices"
	"testing"
)

func TestExtractDeclarations(t *testing.T) {
	tests := []struct {
		name         string
		content      string
		wantProvides []string
		wantRequires []string
	}{
		{
			name:         "calls",
			content:      "goog.provide('a.b');\ngoog.require(\"c.d\");\n",
			wantProvides: []string{"a.b"},
			wantRequires: []string{"c.d"},
		},
		{
			name:    "comments",
			content: "// goog.provide('line')\n/* goog.require('block') */\n",
		},
		{
			name:    "strings",
			content: "var s = \"goog.provide('str')\";\nvar t = `goog.require('tmpl')`;\n",
		},
		{
			name:    "other objects",
			content: "foo.provide('x');\ngoog.module('y');\ngoog.requireType('z');\n",
		},
		{
			name:    "non-literal argument",
			content: "goog.require(name);\n",
		},
		{
			name:         "nested in function",
			content:      "(function() {\n  goog.require('inner');\n})();\n",
			wantRequires: []string{"inner"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provides, requires, err := ExtractDeclarations([]byte(tt.content))
			if err != nil {
				t.Fatalf("ExtractDeclarations failed: %v", err)
			}
			if !slices.Equal(provides, tt.wantProvides) {
				t.Errorf("Expected provides %v, got %v", tt.wantProvides, provides)
			}
			if !slices.Equal(requires, tt.wantRequires) {
				t.Errorf("Expected requires %v, got %v", tt.wantRequires, requires)
			}
		})
	}
}

func TestQueryManager(t *testing.T) {
	qm, err := NewQueryManager("declarations")
	if err != nil {
		t.Fatalf("NewQueryManager failed: %v", err)
	}
	defer qm.Close()

	if _, err := qm.Query("declarations"); err != nil {
		t.Errorf("Expected declarations query, got error: %v", err)
	}
	if _, err := qm.Query("missing"); err == nil {
		t.Error("Expected error for unknown query")
	}

	// Close is idempotent
	qm.Close()
}

func TestNewQueryManagerUnknownQuery(t *testing.T) {
	if _, err := NewQueryManager("does-not-exist"); err == nil {
		t.Error("Expected error loading unknown query file")
	}
}
