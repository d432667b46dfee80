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

// Package output sends command output to stdout or to the --output file.
package output

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"bennypowers.dev/closuredeps/fs"
)

// Path returns the configured output file, or "" for stdout.
func Path() string {
	return viper.GetString("output")
}

// Dir returns the directory output is written to: the directory of the
// output file, or the working directory for stdout.
func Dir() (string, error) {
	if p := Path(); p != "" {
		abs, err := filepath.Abs(p)
		if err != nil {
			return "", err
		}
		return filepath.Dir(abs), nil
	}
	return os.Getwd()
}

// Write renders output with render and writes it to the --output file if
// one is set, or to stdout. Nothing is written when render fails, so a
// failed run never leaves a truncated file behind.
func Write(osfs fs.FileSystem, render func(w io.Writer) error) error {
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		return err
	}
	if outputPath := Path(); outputPath != "" {
		if err := osfs.WriteFile(outputPath, buf.Bytes(), 0644); err != nil {
			return fmt.Errorf("writing %s: %w", outputPath, err)
		}
		return nil
	}
	_, err := os.Stdout.Write(buf.Bytes())
	return err
}
