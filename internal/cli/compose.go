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
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"dirpx.dev/cfx/apis"
)

// composeResult is the JSON shape of one composed request file.
type composeResult struct {
	File  string   `json:"file"`
	Name  string   `json:"name"`
	Key   apis.Key `json:"key"`
	Units []string `json:"units"`
}

func newComposeCmd(flags *rootFlags) *cobra.Command {
	var files []string
	cmd := &cobra.Command{
		Use:   "compose -f request.yaml [-f request.yaml...]",
		Short: "Compose request files and print the type identifiers",
		Long: `Compose builds (or reuses) the composite type for each request file
and prints its identifier, one per line. Equivalent requests print the
same identifier.

Example request file:
  - Named
  - unit: Counter
    moniker: =Hits
    params: {name: hits}`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := requireFiles(files); err != nil {
				return err
			}
			return withApp(cmd, flags, func(ctx context.Context, a *app) error {
				results, err := a.composeAll(ctx, files)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if flags.jsonMode {
					data, err := json.MarshalIndent(results, "", "  ")
					if err != nil {
						return fmt.Errorf("marshal results: %w", err)
					}
					fmt.Fprintln(out, string(data))
					return nil
				}
				for _, r := range results {
					fmt.Fprintln(out, r.Name)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringSliceVarP(&files, "file", "f", nil, "request file (repeatable)")
	return cmd
}

// composeAll composes every file in order.
func (a *app) composeAll(ctx context.Context, files []string) ([]composeResult, error) {
	out := make([]composeResult, 0, len(files))
	for _, f := range files {
		req, err := readRequest(f)
		if err != nil {
			return nil, err
		}
		name, err := a.comp.Compose(ctx, req)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", f, err)
		}
		key, _ := a.comp.Key(req)
		r := composeResult{File: f, Name: name, Key: key}
		if t, ok := a.comp.Lookup(name); ok {
			r.Units = t.Units()
		}
		out = append(out, r)
	}
	return out, nil
}
