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
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/consensys/mlogls/pkg/config"
	"github.com/consensys/mlogls/pkg/lsp"
)

// lspCmd represents the lsp command
var lspCmd = &cobra.Command{
	Use:   "lsp",
	Short: "Run the language server over stdio.",
	Long: `Run the language server, speaking the language server protocol on
	stdin/stdout.  Editors launch this command themselves; it is rarely
	useful interactively.  Logging goes to stderr, since stdout carries
	the protocol.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.Load(".")
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
		//
		logger, err := serverLogger(getFlag(cmd, "verbose"))
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
		//nolint:errcheck
		defer logger.Sync()
		//
		server := lsp.NewServer(cfg, logger)
		//
		if err := server.Serve(context.Background(), lsp.Stdio()); err != nil {
			logger.Error("server stopped", zap.Error(err))
			os.Exit(1)
		}
	},
}

// serverLogger builds a stderr-only logger; stdout belongs to the protocol.
func serverLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	//
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	//
	return cfg.Build()
}

func init() {
	rootCmd.AddCommand(lspCmd)
}
