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
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"dirpx.dev/cfx/apis"
	"dirpx.dev/cfx/registry"
)

func newKnownCmd(flags *rootFlags) *cobra.Command {
	var files []string
	cmd := &cobra.Command{
		Use:   "known [-f request.yaml...]",
		Short: "Compose request files and list every known composite type",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, flags, func(ctx context.Context, a *app) error {
				if _, err := a.composeAll(ctx, files); err != nil {
					return err
				}
				return printEntries(cmd.OutOrStdout(), flags.jsonMode, a.comp.ListKnown())
			})
		},
	}
	cmd.Flags().StringSliceVarP(&files, "file", "f", nil, "request file (repeatable)")
	return cmd
}

func newHistoryCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "List compositions journaled by the sqlite registry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := loadSettings(flags.configFile)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			db, err := registry.OpenSQLite(ctx, s.Registry.Path)
			if err != nil {
				return err
			}
			defer db.Close()

			hist, err := db.History(ctx)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if flags.jsonMode {
				return writeJSON(out, hist)
			}
			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "SESSION\tNAME\tUNITS\tCREATED")
			for _, h := range hist {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", shortID(h.Session), h.Name,
					strings.Join(h.Units, ","), h.CreatedAt.Format(time.RFC3339))
			}
			return w.Flush()
		},
	}
}

// printEntries renders registry entries as a table or JSON.
func printEntries(out io.Writer, jsonMode bool, entries []apis.Entry) error {
	if jsonMode {
		return writeJSON(out, entries)
	}
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tUNITS\tKEY")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%s\n", e.Name, strings.Join(e.Units, ","), e.Key)
	}
	return w.Flush()
}

func writeJSON(out io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}
	_, err = fmt.Fprintln(out, string(data))
	return err
}

// shortID trims a UUID to its first group for table output.
func shortID(id string) string {
	if i := strings.IndexByte(id, '-'); i > 0 {
		return id[:i]
	}
	return id
}
