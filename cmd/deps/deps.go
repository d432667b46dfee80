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

// Package deps provides the deps command for closuredeps.
package deps

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"bennypowers.dev/closuredeps/calcdeps"
	"bennypowers.dev/closuredeps/depswriter"
	"bennypowers.dev/closuredeps/fs"
	"bennypowers.dev/closuredeps/internal/flags"
	"bennypowers.dev/closuredeps/internal/logging"
	"bennypowers.dev/closuredeps/internal/output"
	"bennypowers.dev/closuredeps/scan"
	"bennypowers.dev/closuredeps/source"
)

// Cmd is the deps command that writes a goog.addDependency line for every
// source found, without resolving any order.
var Cmd = &cobra.Command{
	Use:   "deps [root...]",
	Short: "Write a Closure deps file for every source under the roots",
	Long: `Write a Closure deps file listing what every source provides and requires.

Unlike calc -m deps, nothing is resolved: every file found under the roots
is written, ordered by path, so base.js can load any of them on demand.`,
	Example: `  # Deps for a source tree, paths relative to Closure's base.js
  closuredeps deps src --root closure-library/closure/goog -o src/deps.js

  # Same, prefixing every path
  closuredeps deps src --root closure-library/closure/goog --prefix ../../../ -o src/deps.js`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return flags.Bind(cmd, "path", "exclude", "omit", "parser", "root", "prefix", "jobs")
	},
	RunE: run,
}

func init() {
	Cmd.Flags().StringArrayP("path", "p", nil, "Root to scan (can be repeated)")
	Cmd.Flags().StringArray("exclude", nil, "Glob pattern of files to skip while scanning (can be repeated)")
	Cmd.Flags().StringArray("omit", nil, "File to leave out of the output (can be repeated)")
	Cmd.Flags().String("parser", string(source.ParserRegex), "Declaration parser (regex, ast)")
	Cmd.Flags().String("root", "", "Directory paths are relative to (default: directory of base.js)")
	Cmd.Flags().String("prefix", "", "Prefix prepended to each path")
	Cmd.Flags().IntP("jobs", "j", 0, "Number of files read in parallel (default: number of CPUs)")
}

func run(cmd *cobra.Command, args []string) error {
	logger := logging.FromContext(cmd.Context())
	osfs := fs.NewOSFileSystem()

	roots := append(viper.GetStringSlice("path"), args...)
	if len(roots) == 0 {
		return fmt.Errorf("no roots to scan: provide root arguments or --path")
	}

	parser, err := source.ParseParser(viper.GetString("parser"))
	if err != nil {
		return err
	}

	files, err := scan.Files(osfs, roots, scan.Options{Exclude: viper.GetStringSlice("exclude")})
	if err != nil {
		return fmt.Errorf("failed to scan: %w", err)
	}

	base, err := calcdeps.FindBase(osfs, files)
	if err != nil {
		return fmt.Errorf("failed to scan: %w", err)
	}

	records, err := source.ReadAll(osfs, files, source.Options{
		Parser:   parser,
		Parallel: viper.GetInt("jobs"),
	})
	if err != nil {
		return fmt.Errorf("failed to read sources: %w", err)
	}
	logger.Debugf("read %d sources", len(records))

	root := viper.GetString("root")
	if root == "" {
		if base != "" {
			root = filepath.Dir(base)
		} else if root, err = output.Dir(); err != nil {
			return err
		}
	}

	opts := depswriter.Options{
		Root:    root,
		Prefix:  viper.GetString("prefix"),
		Exclude: viper.GetStringSlice("omit"),
		Base:    base,
	}
	return output.Write(osfs, func(w io.Writer) error {
		return depswriter.Write(w, records, opts)
	})
}
