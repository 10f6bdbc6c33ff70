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
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/consensys/mlogls/pkg/mlog"
)

// Filename is the manifest looked up in the working directory and its
// ancestors.
const Filename = "mlogls.toml"

// Config holds the tool-wide settings shared by the command line and the
// language server.
type Config struct {
	Format Format `toml:"format"`
	Check  Check  `toml:"check"`
}

// Format holds the formatter defaults, overridable per request by protocol
// formatting options.
type Format struct {
	TabSize            int  `toml:"tab_size"`
	InsertSpaces       bool `toml:"insert_spaces"`
	InsertFinalNewline bool `toml:"insert_final_newline"`
}

// Check selects which analyzer findings are reported.
type Check struct {
	// Uninitialized enables the may-not-be-set-before-use warning.
	Uninitialized bool `toml:"uninitialized"`
	// UnknownOpcodes enables the unknown instruction warning.
	UnknownOpcodes bool `toml:"unknown_opcodes"`
}

// Default returns the configuration used when no manifest exists.
func Default() Config {
	return Config{
		Format: Format{TabSize: 4, InsertSpaces: true, InsertFinalNewline: true},
		Check:  Check{Uninitialized: true, UnknownOpcodes: true},
	}
}

// Find walks up from startDir looking for the manifest, returning its path
// (if any).
func Find(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	//
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	//
	for {
		candidate := filepath.Join(dir, Filename)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		//
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		//
		dir = parent
	}
	//
	return "", false, nil
}

// Load locates and decodes the manifest enclosing startDir, falling back on
// defaults when none exists.  Unset manifest fields keep their defaults.
func Load(startDir string) (Config, error) {
	cfg := Default()
	//
	path, ok, err := Find(startDir)
	if err != nil || !ok {
		return cfg, err
	}
	//
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Default(), fmt.Errorf("failed to decode %q: %w", path, err)
	}
	// Guard nonsensical values.
	if cfg.Format.TabSize < 1 {
		cfg.Format.TabSize = Default().Format.TabSize
	}
	//
	return cfg, nil
}

// Filter drops diagnostics whose finding is disabled by this configuration.
func (c *Check) Filter(diagnostics []mlog.Diagnostic) []mlog.Diagnostic {
	var kept []mlog.Diagnostic
	//
	for _, d := range diagnostics {
		switch d.Code {
		case mlog.CodeUnsetVariable:
			if !c.Uninitialized {
				continue
			}
		case mlog.CodeUnknownOpcode:
			if !c.UnknownOpcodes {
				continue
			}
		}
		//
		kept = append(kept, d)
	}
	//
	return kept
}
