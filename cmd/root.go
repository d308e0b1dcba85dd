/*
Copyright © 2025 Valentyn Solomko <valentyn.solomko@gmail.com>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/valpere/chapfix/internal/settings"
)

var version = "0.3.0"

var (
	cfgFile string
	verbose bool

	logger *zap.Logger
	conf   *viper.Viper
)

var rootCmd = &cobra.Command{
	Use:   "chapfix",
	Short: "Typographic checker for LaTeX chapters",
	Long: `A CLI application that normalises the typography of the book's LaTeX chapters:
spaces, punctuation, ellipses, dashes, quotation marks, honorifics and spell macros.

English and German conventions are supported. Proposed fixes are written next to
each chapter as *-autofix.tex for review, or applied in place with --inline.

Use "chapfix check --help" for the checker options.`,
	Version:      version,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewProductionConfig()
		config.Encoding = "console"
		config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		conf, err = settings.NewViper(cfgFile)
		if err != nil {
			return err
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

// flagKeys maps command flags onto configuration keys.
var flagKeys = map[string]string{
	"lang":   settings.KeyLanguage,
	"inline": settings.KeyInlineFixing,
	"diff":   settings.KeyPrintDiff,
	"raise":  settings.KeyRaiseError,
}

// loadSettings resolves the run settings: flags set on cmd, then
// environment, then config file, then defaults.
func loadSettings(cmd *cobra.Command) (settings.Settings, error) {
	for name, key := range flagKeys {
		if f := cmd.Flags().Lookup(name); f != nil {
			if err := conf.BindPFlag(key, f); err != nil {
				return settings.Settings{}, fmt.Errorf("failed to bind flag %s: %w", name, err)
			}
		}
	}
	return settings.Load(conf)
}

// addSettingsFlags registers the flags overriding configuration keys.
func addSettingsFlags(cmd *cobra.Command, withModes bool) {
	d := settings.Default()
	cmd.Flags().StringP("lang", "l", string(d.Language), "Chapter language (EN or DE)")
	if !withModes {
		return
	}
	cmd.Flags().Bool("inline", d.InlineFixing, "Overwrite chapters in place instead of writing *-autofix.tex (use with caution)")
	cmd.Flags().Bool("diff", d.PrintDiff, "Print a diff of the proposed changes")
	cmd.Flags().Bool("raise", d.RaiseError, "Exit with an error when unresolved issues remain")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default ./chapfix.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}
