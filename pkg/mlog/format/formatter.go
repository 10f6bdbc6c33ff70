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
package format

import (
	"strings"

	"github.com/consensys/mlogls/pkg/mlog"
)

// Options control how a document is rendered.
type Options struct {
	// TabSize is the width of one indentation unit, in spaces.
	TabSize int
	// InsertSpaces selects spaces over a tab for the indentation unit.
	InsertSpaces bool
	// InsertFinalNewline appends a trailing newline to the rendered text.
	InsertFinalNewline bool
}

// DefaultOptions returns the conventional rendering options.
func DefaultOptions() Options {
	return Options{TabSize: 4, InsertSpaces: true, InsertFinalNewline: true}
}

// Format re-renders a document as canonically formatted text.  Label
// declarations (with their attached leading comments) anchor unindented
// blocks; every other node indents by one unit.  Blank runs between nodes are
// clamped, and each node's tokens re-join with single spaces.  Formatting
// assumes a well-formed node sequence and never fails: token content and
// order always survive untouched.
func Format(doc *mlog.Document, opts Options) string {
	nodes := doc.Nodes()
	//
	if len(nodes) == 0 {
		return ""
	}
	//
	var (
		builder    strings.Builder
		unit       = indentUnit(opts)
		unindented = unindentedNodes(nodes)
	)
	//
	for i := range nodes {
		node := &nodes[i]
		//
		var breaks int
		//
		if i == 0 {
			// Up to two leading newlines survive at the top of the file.
			breaks = clamp(int(node.Start.Line), 0, 2)
		} else {
			// Chained statements un-chain (a zero gap becomes one line
			// break); at most three breaks survive.  The first node of an
			// indented block after an unindented one shares the same bounds,
			// which is what keeps a label from swallowing its body.
			breaks = clamp(int(node.Start.Line)-int(nodes[i-1].Start.Line), 1, 3)
		}
		//
		builder.WriteString(strings.Repeat("\n", breaks))
		//
		if !unindented[i] {
			builder.WriteString(unit)
		}
		//
		for j, tok := range node.Tokens {
			if j > 0 {
				builder.WriteByte(' ')
			}
			//
			builder.WriteString(tok.Content)
		}
	}
	//
	if opts.InsertFinalNewline {
		builder.WriteByte('\n')
	}
	//
	return builder.String()
}

// unindentedNodes marks the nodes rendered without indentation: label
// declarations, the column-0 comment runs immediately preceding them, and a
// trailing column-0 comment run at end-of-file.
func unindentedNodes(nodes []mlog.Node) []bool {
	unindented := make([]bool, len(nodes))
	//
	for i := len(nodes) - 1; i >= 0; i-- {
		switch nodes[i].Kind {
		case mlog.KindLabel:
			unindented[i] = true
		case mlog.KindComment:
			// A column-0 comment attaches to whatever follows it; a run
			// ending at a label (or at end-of-file) floats to column 0 with
			// it.
			if nodes[i].Start.Character == 0 &&
				(i == len(nodes)-1 || unindented[i+1]) {
				unindented[i] = true
			}
		}
	}
	//
	return unindented
}

func indentUnit(opts Options) string {
	if !opts.InsertSpaces {
		return "\t"
	}
	//
	return strings.Repeat(" ", max(opts.TabSize, 1))
}

func clamp(n int, lowest int, highest int) int {
	return min(max(n, lowest), highest)
}
