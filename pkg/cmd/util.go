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

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/consensys/mlogls/pkg/mlog"
)

// Get an expected flag, or panic if an error arises.
func getFlag(cmd *cobra.Command, flag string) bool {
	r, err := cmd.Flags().GetBool(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// Get an expected int flag, or panic if an error arises.
func getInt(cmd *cobra.Command, flag string) int {
	r, err := cmd.Flags().GetInt(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// Read a source file, exiting on failure.
func readSourceFile(filename string) string {
	bytes, err := os.ReadFile(filename)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return string(bytes)
}

var (
	errorColor   = color.New(color.FgRed, color.Bold)
	warningColor = color.New(color.FgYellow, color.Bold)
	adviceColor  = color.New(color.FgCyan, color.Bold)
	caretColor   = color.New(color.FgGreen)
)

// Print a diagnostic with appropriate highlighting: a one-line header
// locating it, the offending source line, and a caret run underneath the
// offending range.
func printDiagnostic(filename string, lines []string, d mlog.Diagnostic) {
	header := severityColor(d.Severity)
	// Print location + message (positions are zero-based internally).
	fmt.Printf("%s:%d:%d: %s: %s [%s]\n",
		filename, d.Range.Start.Line+1, d.Range.Start.Character+1,
		header.Sprint(d.Severity), d.Message, d.Code)
	//
	if int(d.Range.Start.Line) >= len(lines) {
		return
	}
	// Print line
	line := lines[d.Range.Start.Line]
	fmt.Println(line)
	// Print indent (todo: account for tabs)
	fmt.Print(strings.Repeat(" ", int(d.Range.Start.Character)))
	// Print highlight
	width := int(d.Range.End.Character) - int(d.Range.Start.Character)
	if d.Range.End.Line != d.Range.Start.Line || width < 1 {
		width = 1
	}
	//
	fmt.Println(caretColor.Sprint(strings.Repeat("^", width)))
}

func severityColor(severity mlog.Severity) *color.Color {
	switch severity {
	case mlog.SeverityError:
		return errorColor
	case mlog.SeverityWarning:
		return warningColor
	default:
		return adviceColor
	}
}
