/*
   Copyright 2025 The DIRPX Authors.

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

package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// unitInfo is the JSON shape of a catalog unit.
type unitInfo struct {
	Name     string `json:"name"`
	Template bool   `json:"template"`
}

func newUnitsCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "units",
		Short: "List the behavior units in the configured catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, flags, func(_ context.Context, a *app) error {
				names := a.catalog.Names()
				infos := make([]unitInfo, 0, len(names))
				for _, n := range names {
					infos = append(infos, unitInfo{Name: n, Template: a.catalog.IsTemplate(n)})
				}
				out := cmd.OutOrStdout()
				if flags.jsonMode {
					return writeJSON(out, infos)
				}
				for _, u := range infos {
					if u.Template {
						fmt.Fprintf(out, "%s (template)\n", u.Name)
						continue
					}
					fmt.Fprintln(out, u.Name)
				}
				return nil
			})
		},
	}
}
