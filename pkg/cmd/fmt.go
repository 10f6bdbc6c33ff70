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

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/consensys/mlogls/pkg/config"
	"github.com/consensys/mlogls/pkg/mlog"
	"github.com/consensys/mlogls/pkg/mlog/format"
)

// fmtCmd represents the fmt command
var fmtCmd = &cobra.Command{
	Use:   "fmt [flags] source_file...",
	Short: "Format mlog source files.",
	Long: `Format one or more mlog source files canonically: labels anchor
	unindented blocks, chained statements are split onto their own lines,
	spacing is normalised and blank runs are clamped.  Formatted output
	goes to stdout unless --write is given.`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.Load(".")
		if err != nil {
			fmt.Println(err)
			os.Exit(2)
		}
		//
		opts := formatOptions(cmd, cfg)
		write := getFlag(cmd, "write")
		//
		for _, filename := range args {
			formatFile(filename, opts, write)
		}
	},
}

// Derive formatting options from the configuration, then apply any explicit
// flag overrides.
func formatOptions(cmd *cobra.Command, cfg config.Config) format.Options {
	opts := format.Options{
		TabSize:            cfg.Format.TabSize,
		InsertSpaces:       cfg.Format.InsertSpaces,
		InsertFinalNewline: cfg.Format.InsertFinalNewline,
	}
	//
	if cmd.Flags().Changed("tab-size") {
		opts.TabSize = getInt(cmd, "tab-size")
	}
	//
	if getFlag(cmd, "tabs") {
		opts.InsertSpaces = false
	}
	//
	return opts
}

// Format a single file, either printing the result or rewriting the file in
// place.
func formatFile(filename string, opts format.Options, write bool) {
	text := readSourceFile(filename)
	//
	document, _ := mlog.Parse(text)
	formatted := format.Format(document, opts)
	//
	if !write {
		fmt.Print(formatted)
		return
	}
	//
	if formatted == text {
		log.Debugf("%s already formatted", filename)
		return
	}
	//
	if err := os.WriteFile(filename, []byte(formatted), 0644); err != nil {
		fmt.Println(err)
		os.Exit(2)
	}
	//
	log.Debugf("rewrote %s", filename)
}

func init() {
	rootCmd.AddCommand(fmtCmd)
	fmtCmd.Flags().BoolP("write", "w", false, "rewrite files in place instead of printing")
	fmtCmd.Flags().Int("tab-size", 4, "width of one indentation unit")
	fmtCmd.Flags().Bool("tabs", false, "indent with tabs instead of spaces")
}
