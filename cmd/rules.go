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
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/valpere/chapfix/internal/rules"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "List the rule pipeline in application order",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Printf("Rule set %s\n\n", rules.Version)

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "#\tRULE\tLANGUAGES\tDESCRIPTION")
		for i, r := range rules.Pipeline {
			langs := "all"
			if len(r.Languages) > 0 {
				codes := make([]string, len(r.Languages))
				for j, l := range r.Languages {
					codes[j] = string(l)
				}
				langs = strings.Join(codes, ",")
			}
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", i+1, r.Name, langs, r.Description)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(rulesCmd)
}
