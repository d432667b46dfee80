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

// Command closuredeps calculates Closure Library dependencies.
package main

import (
	"errors"
	"fmt"
	"os"
	"runtime/pprof"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"bennypowers.dev/closuredeps/cmd/calc"
	"bennypowers.dev/closuredeps/cmd/deps"
	"bennypowers.dev/closuredeps/cmd/scan"
	"bennypowers.dev/closuredeps/cmd/version"
	"bennypowers.dev/closuredeps/internal/logging"
)

var (
	cpuprofile     string
	cpuprofileFile *os.File
	configFile     string
	rootCmd        = &cobra.Command{
		Use:   "closuredeps",
		Short: "Calculate Closure Library dependencies",
		Long: `closuredeps reads goog.provide and goog.require declarations from
JavaScript sources and orders them so every namespace is provided
before it is required, writing file lists, concatenated scripts,
goog.addDependency deps files or test pages.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := readConfig(); err != nil {
				return err
			}
			logger := logging.New(os.Stderr, viper.GetBool("verbose"))
			cmd.SetContext(logging.WithLogger(cmd.Context(), logger))
			if used := viper.ConfigFileUsed(); used != "" {
				logger.Debugf("using config %s", used)
			}

			if cpuprofile != "" {
				f, err := os.Create(cpuprofile)
				if err != nil {
					return fmt.Errorf("could not create CPU profile: %w", err)
				}
				cpuprofileFile = f
				if err := pprof.StartCPUProfile(f); err != nil {
					closeErr := f.Close()
					return errors.Join(
						fmt.Errorf("could not start CPU profile: %w", err),
						closeErr,
					)
				}
			}
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if cpuprofileFile != nil {
				pprof.StopCPUProfile()
				if err := cpuprofileFile.Close(); err != nil {
					return fmt.Errorf("closing CPU profile: %w", err)
				}
			}
			return nil
		},
	}
)

// configAliases maps plural config keys onto the repeatable flags they set.
// Aliases move values read from the config file, so they are registered
// after reading it.
var configAliases = map[string]string{
	"paths":    "path",
	"inputs":   "input",
	"excludes": "exclude",
}

// readConfig loads --config, or .closuredeps.yaml from the working
// directory when it exists. Keys are flag names.
func readConfig() error {
	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.SetConfigName(".closuredeps")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
	}
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("reading config: %w", err)
	}
	for alias, key := range configAliases {
		viper.RegisterAlias(alias, key)
	}
	return nil
}

func init() {
	// Root flags (persistent across all commands)
	rootCmd.PersistentFlags().StringP("output", "o", "", "Output file (default: stdout)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Log debug messages")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file (default: .closuredeps.yaml)")
	rootCmd.PersistentFlags().StringVar(&cpuprofile, "cpuprofile", "", "Write CPU profile to file")

	_ = viper.BindPFlag("output", rootCmd.PersistentFlags().Lookup("output"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	// Add commands
	rootCmd.AddCommand(calc.Cmd)
	rootCmd.AddCommand(deps.Cmd)
	rootCmd.AddCommand(scan.Cmd)
	rootCmd.AddCommand(version.Cmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
