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

	"github.com/valpere/chapfix/internal/progress"
)

var progressOpts progress.Options

var progressCmd = &cobra.Command{
	Use:   "progress",
	Short: "Show translation progress by bytes and chapters",
	Long: `Sum the sizes of chapters 0..total and of the translated chapters
0..last-done and print both shares. Every chapter file in the range must exist.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		stats, err := progress.Compute(progressOpts)
		if err != nil {
			return err
		}
		fmt.Println(stats)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(progressCmd)

	progressCmd.Flags().StringVar(&progressOpts.Dir, "chapters-dir", "chapters", "Directory holding the chapter files")
	progressCmd.Flags().StringVar(&progressOpts.Pattern, "pattern", progress.DefaultPattern, "Chapter file name, printf-style with the chapter number")
	progressCmd.Flags().IntVar(&progressOpts.Total, "total", 122, "Number of the last chapter")
	progressCmd.Flags().IntVar(&progressOpts.LastDone, "last-done", 21, "Number of the last translated chapter")
}
