//go:build js && wasm

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

// Package main provides the WASM entry point for closuredeps.
package main

import (
	"bytes"
	"encoding/json"
	"path"
	"strings"
	"syscall/js"

	"bennypowers.dev/closuredeps/calcdeps"
	"bennypowers.dev/closuredeps/depswriter"
	"bennypowers.dev/closuredeps/internal/mapfs"
	"bennypowers.dev/closuredeps/internal/version"
	"bennypowers.dev/closuredeps/source"
)

func main() {
	// Create the closuredeps namespace object
	closuredeps := make(map[string]any)
	closuredeps["calculate"] = js.FuncOf(calculate)
	closuredeps["version"] = version.GetVersion()

	// Export to global scope
	js.Global().Set("closuredeps", js.ValueOf(closuredeps))

	// Keep the program running
	select {}
}

// calculate orders in-memory sources.
// Arguments:
//   - files: object - Map of path to file content
//   - options: object (optional)
//   - inputs: string[] - Input paths or ns:<namespace> entries (required)
//   - paths: string[] - Library roots (default: "/")
//   - base: string - Path of base.js (default: found among files)
//   - mode: string - "list" (default) or "deps"
//   - root: string - Directory deps paths are relative to
//   - prefix: string - Prefix for deps paths
//
// Returns a Promise that resolves to a JSON string {"order": [...]} in list
// mode or to the deps file text in deps mode.
func calculate(this js.Value, args []js.Value) any {
	handler := js.FuncOf(func(this js.Value, promiseArgs []js.Value) any {
		resolve := promiseArgs[0]
		reject := promiseArgs[1]

		go func() {
			result, err := doCalculate(args)
			if err != nil {
				reject.Invoke(js.Global().Get("Error").New(err.Error()))
				return
			}
			resolve.Invoke(result)
		}()

		return nil
	})

	promise := js.Global().Get("Promise").New(handler)
	handler.Release()
	return promise
}

func doCalculate(args []js.Value) (string, error) {
	if len(args) < 1 || args[0].Type() != js.TypeObject {
		return "", &jsError{message: "calculate requires a files object"}
	}

	mfs := mapfs.New()
	keys := js.Global().Get("Object").Call("keys", args[0])
	for i := range keys.Length() {
		name := keys.Index(i).String()
		mfs.AddFile(path.Join("/", name), args[0].Get(name).String(), 0644)
	}

	opts := parseOptions(args)
	if len(opts.paths) == 0 {
		opts.paths = []string{"/"}
	}

	result, err := calcdeps.Calculate(mfs, calcdeps.Options{
		Paths:    opts.paths,
		Inputs:   opts.inputs,
		Base:     opts.base,
		Parser:   source.ParserRegex,
		Parallel: 1,
	})
	if err != nil {
		return "", &jsError{message: "failed to calculate dependencies: " + err.Error()}
	}
	order := result.Order

	if opts.mode == "deps" {
		root := opts.root
		if root == "" && order.Base != nil {
			root = path.Dir(order.Base.Path)
		}
		depsOpts := depswriter.Options{Root: root, Prefix: opts.prefix}
		if order.Base != nil {
			depsOpts.Base = order.Base.Path
		}
		var buf bytes.Buffer
		if err := depswriter.Write(&buf, order.Records, depsOpts); err != nil {
			return "", &jsError{message: "failed to write deps: " + err.Error()}
		}
		return buf.String(), nil
	}

	jsonBytes, err := json.Marshal(map[string][]string{"order": order.Paths()})
	if err != nil {
		return "", &jsError{message: "failed to serialize order: " + err.Error()}
	}
	return string(jsonBytes), nil
}

// calculateOptions holds parsed options.
type calculateOptions struct {
	inputs []string
	paths  []string
	base   string
	mode   string
	root   string
	prefix string
}

func parseOptions(args []js.Value) calculateOptions {
	opts := calculateOptions{}

	if len(args) < 2 || args[1].IsUndefined() || args[1].IsNull() {
		return opts
	}
	optionsObj := args[1]

	opts.inputs = rooted(stringSlice(optionsObj.Get("inputs")))
	opts.paths = rooted(stringSlice(optionsObj.Get("paths")))
	opts.base = stringValue(optionsObj.Get("base"))
	if opts.base != "" {
		opts.base = path.Join("/", opts.base)
	}
	opts.mode = stringValue(optionsObj.Get("mode"))
	opts.root = stringValue(optionsObj.Get("root"))
	if opts.root != "" {
		opts.root = path.Join("/", opts.root)
	}
	opts.prefix = stringValue(optionsObj.Get("prefix"))

	return opts
}

func stringValue(v js.Value) string {
	if v.IsUndefined() || v.IsNull() {
		return ""
	}
	return v.String()
}

func stringSlice(v js.Value) []string {
	if v.IsUndefined() || v.IsNull() {
		return nil
	}
	out := make([]string, v.Length())
	for i := range out {
		out[i] = v.Index(i).String()
	}
	return out
}

// rooted anchors file entries at "/", where the files object is loaded, so
// they do not depend on the host's working directory.
func rooted(entries []string) []string {
	for i, e := range entries {
		if !strings.HasPrefix(e, calcdeps.NamespacePrefix) {
			entries[i] = path.Join("/", e)
		}
	}
	return entries
}

// jsError represents an error to be returned to JavaScript.
type jsError struct {
	message string
}

func (e *jsError) Error() string {
	return e.message
}
