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
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/valpere/chapfix/internal/rules"
)

var lineCmd = &cobra.Command{
	Use:   "line [text...]",
	Short: "Run the rule pipeline over a single line",
	Long: `Apply the rule pipeline to one line of text and print the result.
Without arguments every line read from standard input is fixed.
Comment lines are printed unchanged, as in chapters.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadSettings(cmd)
		if err != nil {
			return err
		}

		fix := func(s string) string {
			if rules.IsComment(s) {
				return s
			}
			return rules.FixLine(s, cfg)
		}

		if len(args) > 0 {
			fmt.Println(fix(strings.Join(args, " ")))
			return nil
		}

		scanner := bufio.NewScanner(os.Stdin)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			fmt.Println(fix(scanner.Text()))
		}
		if err := scanner.Err(); err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(lineCmd)
	addSettingsFlags(lineCmd, false)
}
