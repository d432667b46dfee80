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

// Package calc provides the calc command for closuredeps.
package calc

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"bennypowers.dev/closuredeps/bundle"
	"bennypowers.dev/closuredeps/calcdeps"
	"bennypowers.dev/closuredeps/depswriter"
	"bennypowers.dev/closuredeps/fs"
	"bennypowers.dev/closuredeps/internal/flags"
	"bennypowers.dev/closuredeps/internal/logging"
	"bennypowers.dev/closuredeps/internal/output"
	"bennypowers.dev/closuredeps/source"
)

// Output modes.
const (
	ModeList   = "list"
	ModeScript = "script"
	ModeDeps   = "deps"
	ModeHTML   = "html"
)

// Cmd is the calc command that orders input files and their transitive
// requirements so providers load before the files requiring them.
var Cmd = &cobra.Command{
	Use:   "calc [input...]",
	Short: "Calculate the load order of Closure sources",
	Long: `Calculate the load order of Closure Library sources.

Inputs (arguments or --input) are files, directories or ns:<namespace> entries.
Library roots given with --path satisfy requires but are only included when
an input needs them. The Closure base.js is always written first.`,
	Example: `  # List files needed by app.js in load order
  closuredeps calc -p closure-library/closure -p src src/app.js

  # Start from a namespace instead of a file
  closuredeps calc -p closure-library/closure -p src ns:app.main

  # Concatenate into a single script
  closuredeps calc -p closure-library/closure -p src src/app.js -m script -o app.debug.js

  # Write a deps file for the resolved sources
  closuredeps calc -p closure-library/closure -p src src/app.js -m deps -o deps.js

  # Write a test page loading the sources in order
  closuredeps calc -p closure-library/closure -p src test/app_test.js -m html -o test/index.html

  # Ignore goog.provide text in comments and strings
  closuredeps calc -p src src/app.js --parser ast`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return flags.Bind(cmd, "path", "input", "base", "exclude", "omit", "mode", "parser", "root", "prefix", "jobs", "title")
	},
	RunE: run,
}

func init() {
	Cmd.Flags().StringArrayP("path", "p", nil, "Library root to resolve requires from (can be repeated)")
	Cmd.Flags().StringArrayP("input", "i", nil, "Input file, directory or ns:<namespace> (can be repeated)")
	Cmd.Flags().String("base", "", "Closure base.js (default: found among the scanned files)")
	Cmd.Flags().StringArray("exclude", nil, "Glob pattern of files to skip while scanning (can be repeated)")
	Cmd.Flags().StringArray("omit", nil, "File to leave out of deps output (can be repeated)")
	Cmd.Flags().StringP("mode", "m", ModeList, "Output mode (list, script, deps, html)")
	Cmd.Flags().String("parser", string(source.ParserRegex), "Declaration parser (regex, ast)")
	Cmd.Flags().String("root", "", "Directory output paths are relative to")
	Cmd.Flags().String("prefix", "", "Prefix prepended to each output path")
	Cmd.Flags().IntP("jobs", "j", 0, "Number of files read in parallel (default: number of CPUs)")
	Cmd.Flags().String("title", bundle.DefaultTitle, "Page title for html mode")
}

func run(cmd *cobra.Command, args []string) error {
	logger := logging.FromContext(cmd.Context())
	osfs := fs.NewOSFileSystem()

	mode := viper.GetString("mode")
	switch mode {
	case ModeList, ModeScript, ModeDeps, ModeHTML:
	default:
		return fmt.Errorf("invalid mode %q: must be one of list, script, deps, html", mode)
	}

	parser, err := source.ParseParser(viper.GetString("parser"))
	if err != nil {
		return err
	}

	inputs := append(viper.GetStringSlice("input"), args...)

	timer := logging.StartTimer(logger)
	result, err := calcdeps.Calculate(osfs, calcdeps.Options{
		Paths:    viper.GetStringSlice("path"),
		Inputs:   inputs,
		Base:     viper.GetString("base"),
		Exclude:  viper.GetStringSlice("exclude"),
		Parser:   parser,
		Parallel: viper.GetInt("jobs"),
		Logger:   logger,
	})
	if err != nil {
		return fmt.Errorf("failed to calculate dependencies: %w", err)
	}
	order := result.Order
	timer.Done(fmt.Sprintf("ordered %d of %d files", len(order.Records), len(result.Records)))

	root := viper.GetString("root")
	prefix := viper.GetString("prefix")

	switch mode {
	case ModeScript:
		return output.Write(osfs, func(w io.Writer) error {
			return bundle.Script(w, osfs, order.Records)
		})

	case ModeDeps:
		if root == "" {
			root, err = defaultDepsRoot(order)
			if err != nil {
				return err
			}
		}
		opts := depswriter.Options{
			Root:    root,
			Prefix:  prefix,
			Exclude: viper.GetStringSlice("omit"),
		}
		if order.Base != nil {
			opts.Base = order.Base.Path
		}
		return output.Write(osfs, func(w io.Writer) error {
			return depswriter.Write(w, order.Records, opts)
		})

	case ModeHTML:
		if root == "" {
			root, err = output.Dir()
			if err != nil {
				return err
			}
		}
		return output.Write(osfs, func(w io.Writer) error {
			return bundle.Page(w, order.Records, bundle.PageOptions{
				Title:  viper.GetString("title"),
				Root:   root,
				Prefix: prefix,
			})
		})

	default:
		// Records carry absolute paths; list them as the working directory
		// sees them unless --root says otherwise.
		if root == "" {
			root, err = os.Getwd()
			if err != nil {
				return err
			}
		}
		return output.Write(osfs, func(w io.Writer) error {
			return bundle.List(w, order.Records, root)
		})
	}
}

// defaultDepsRoot is the directory of base.js, which Closure resolves deps
// paths against, or the output directory when there is no base file.
func defaultDepsRoot(order *calcdeps.Order) (string, error) {
	if order.Base != nil {
		return filepath.Dir(order.Base.Path), nil
	}
	return output.Dir()
}
