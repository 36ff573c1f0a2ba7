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

// Package cli implements the cfx command-line interface.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
)

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configFile string
	jsonMode   bool
	logLevel   string
}

// NewRootCmd creates the top-level "cfx" command with global flags and all
// subcommands registered.
func NewRootCmd() *cobra.Command {
	flags := &rootFlags{}

	root := &cobra.Command{
		Use:   "cfx",
		Short: "Compose behavior units into named composite types",
		Long: "cfx builds composite types from ordered lists of behavior units,\n" +
			"memoizing equivalent requests and recording where every type came from.",
		// Do not print usage on errors returned by subcommands.
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVarP(&flags.configFile, "config", "c", "", "config file (default: ./cfx.yaml)")
	root.PersistentFlags().BoolVar(&flags.jsonMode, "json", false, "output in JSON format")
	root.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "override log.level")

	root.AddCommand(newComposeCmd(flags))
	root.AddCommand(newKeyCmd(flags))
	root.AddCommand(newKnownCmd(flags))
	root.AddCommand(newHistoryCmd(flags))
	root.AddCommand(newUnitsCmd(flags))
	root.AddCommand(newVersionCmd(flags))

	return root
}

// Execute runs the root command and exits with the appropriate code.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(exitUserError)
	}
	os.Exit(exitSuccess)
}

// requireFiles rejects commands that were given no request files.
func requireFiles(files []string) error {
	if len(files) == 0 {
		return fmt.Errorf("at least one request file is required (-f)")
	}
	return nil
}
