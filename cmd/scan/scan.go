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

// Package scan provides the scan command for closuredeps.
package scan

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"bennypowers.dev/closuredeps/fs"
	"bennypowers.dev/closuredeps/internal/flags"
	"bennypowers.dev/closuredeps/internal/output"
	"bennypowers.dev/closuredeps/scan"
	"bennypowers.dev/closuredeps/source"
)

// Cmd is the scan command, which prints the declarations read from every
// source under the roots. Useful for debugging missing providers.
var Cmd = &cobra.Command{
	Use:   "scan root...",
	Short: "Print the provides and requires of every source as JSON",
	Example: `  closuredeps scan src
  closuredeps scan src --parser ast --exclude "**/*_test.js"`,
	Args: cobra.MinimumNArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return flags.Bind(cmd, "exclude", "parser", "jobs")
	},
	RunE: run,
}

func init() {
	Cmd.Flags().StringArray("exclude", nil, "Glob pattern of files to skip (can be repeated)")
	Cmd.Flags().String("parser", string(source.ParserRegex), "Declaration parser (regex, ast)")
	Cmd.Flags().IntP("jobs", "j", 0, "Number of files read in parallel (default: number of CPUs)")
}

func run(cmd *cobra.Command, args []string) error {
	osfs := fs.NewOSFileSystem()

	parser, err := source.ParseParser(viper.GetString("parser"))
	if err != nil {
		return err
	}

	files, err := scan.Files(osfs, args, scan.Options{Exclude: viper.GetStringSlice("exclude")})
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
	if records == nil {
		records = []*source.Record{}
	}

	return output.Write(osfs, func(w io.Writer) error {
		out, err := json.MarshalIndent(records, "", "  ")
		if err != nil {
			return err
		}
		_, err = w.Write(append(out, '\n'))
		return err
	})
}
