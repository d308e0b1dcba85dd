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

	"github.com/spf13/cobra"

	"github.com/valpere/chapfix/internal/wordlist"
)

var (
	wordlistFile string
	chaptersDir  string
)

var wordsCmd = &cobra.Command{
	Use:   "words",
	Short: "Maintain the spell-check word list",
}

var wordsUnusedCmd = &cobra.Command{
	Use:   "unused",
	Short: "List word list entries that no chapter uses",
	Long: `Print every entry of the cspell word list that does not occur in any
chapter. LaTeX comments are ignored when searching.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		words, err := wordlist.Load(wordlistFile)
		if err != nil {
			return err
		}
		text, err := wordlist.ChapterText(chaptersDir)
		if err != nil {
			return err
		}
		for _, w := range wordlist.Unused(words, text) {
			fmt.Println(w)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(wordsCmd)

	wordsCmd.PersistentFlags().StringVar(&wordlistFile, "wordlist", wordlist.DefaultFile, "Word list file")
	wordsCmd.PersistentFlags().StringVar(&chaptersDir, "chapters-dir", "chapters", "Directory holding the chapter files")

	wordsCmd.AddCommand(wordsUnusedCmd)
}
