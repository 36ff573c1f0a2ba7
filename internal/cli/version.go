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
	"fmt"

	"github.com/spf13/cobra"
)

const modulePath = "dirpx.dev/cfx"

// Version is set at build time with -ldflags "-X dirpx.dev/cfx/internal/cli.Version=...".
var Version = "0.1.0-dev"

func newVersionCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the cfx version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if flags.jsonMode {
				return writeJSON(cmd.OutOrStdout(), map[string]string{"version": Version, "module": modulePath})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "cfx v%s\nmodule: %s\n", Version, modulePath)
			return nil
		},
	}
}
