// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package cmd

import (
	"fmt"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/consensys/mlogls/pkg/config"
	"github.com/consensys/mlogls/pkg/mlog"
	"github.com/consensys/mlogls/pkg/mlog/flow"
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check [flags] source_file...",
	Short: "Check mlog source files for problems.",
	Long: `Check one or more mlog source files, reporting syntax errors,
	unresolved or duplicate jump labels, unreachable instructions,
	unknown opcodes and variables read before they are assigned.`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.Load(".")
		if err != nil {
			fmt.Println(err)
			os.Exit(2)
		}
		//
		errors := 0
		//
		for _, filename := range args {
			errors += checkFile(filename, cfg)
		}
		//
		if errors > 0 {
			os.Exit(1)
		}
	},
}

// Check a single file, printing its diagnostics and returning how many were
// errors.
func checkFile(filename string, cfg config.Config) int {
	text := readSourceFile(filename)
	//
	document, diagnostics := mlog.Parse(text)
	//
	_, flowDiagnostics := flow.Analyze(document)
	diagnostics = cfg.Check.Filter(append(diagnostics, flowDiagnostics...))
	//
	log.Debugf("checked %s: %d nodes, %d diagnostics",
		filename, document.Len(), len(diagnostics))
	//
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	errors := 0
	//
	for _, d := range diagnostics {
		printDiagnostic(filename, lines, d)
		//
		if d.Severity == mlog.SeverityError {
			errors++
		}
	}
	//
	return errors
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
