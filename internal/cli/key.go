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
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"dirpx.dev/cfx/canon"
)

func newKeyCmd(flags *rootFlags) *cobra.Command {
	var files []string
	cmd := &cobra.Command{
		Use:   "key -f request.yaml [-f request.yaml...]",
		Short: "Print the canonical key of request files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := requireFiles(files); err != nil {
				return err
			}
			keys := make(map[string]string, len(files))
			for _, f := range files {
				req, err := readRequest(f)
				if err != nil {
					return err
				}
				k, err := canon.Key(req)
				if err != nil {
					return fmt.Errorf("%s: %w", f, err)
				}
				if !flags.jsonMode {
					fmt.Fprintln(cmd.OutOrStdout(), k)
				}
				keys[f] = string(k)
			}
			if flags.jsonMode {
				data, err := json.MarshalIndent(keys, "", "  ")
				if err != nil {
					return fmt.Errorf("marshal keys: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(data))
			}
			return nil
		},
	}
	cmd.Flags().StringSliceVarP(&files, "file", "f", nil, "request file (repeatable)")
	return cmd
}
