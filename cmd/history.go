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
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/valpere/chapfix/internal/batch"
	"github.com/valpere/chapfix/internal/store"
)

var (
	historyDBPath string
	historyLimit  int
	historyFiles  bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent check runs",
	Long:  `List the runs recorded by "check --cache", newest first.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := store.New(historyDBPath)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()

		runs, err := db.ListRuns(context.Background(), historyLimit)
		if err != nil {
			return fmt.Errorf("failed to list runs: %w", err)
		}

		if len(runs) == 0 {
			fmt.Println("No runs recorded.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tSTARTED\tLANG\tFILES\tISSUES\tFIXED\tFAILED\tCACHED\tDURATION")
		for _, r := range runs {
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\t%d\t%d\t%s\n",
				shortID(r.ID), r.StartedAt.Local().Format("2006-01-02 15:04"), r.Language, len(r.Files),
				r.Count(batch.StatusIssues), r.Count(batch.StatusFixed),
				r.Count(batch.StatusFailed), r.Count(batch.StatusCached),
				r.Duration.Round(time.Millisecond))
			if historyFiles {
				for _, f := range r.Files {
					if f.Status == batch.StatusClean || f.Status == batch.StatusCached {
						continue
					}
					fmt.Fprintf(w, "\t%s\t%s\t%s\n", f.Status, f.Path, f.Error)
				}
			}
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().StringVar(&historyDBPath, "db", "./data/chapfix.db", "Database path")
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Number of runs to show")
	historyCmd.Flags().BoolVar(&historyFiles, "files", false, "List chapters with issues or failures")
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
