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
package flow

import (
	"fmt"
	"regexp"
	"sort"

	"github.com/consensys/mlogls/pkg/mlog"
	"github.com/consensys/mlogls/pkg/util/bit"
)

// Building links follow a fixed shape (e.g. cell1, bank3, switch12).  They
// are populated by the runtime, not by instructions, so the assignment check
// must leave them alone.
var buildingLink = regexp.MustCompile(`^[a-z]+[0-9]+$`)

// checkDefinitions runs a definite-assignment analysis over the document: a
// forward dataflow pass whose per-node fact set holds one bit per tracked
// variable, intersected at join points and extended by each node's
// definitions.  A variable read before it is assigned on every path from the
// entry gets a diagnostic.  The fixed point exists because fact sets shrink
// monotonically from the full universe and the universe is finite.
func checkDefinitions(doc *mlog.Document, edges []Edge, reachable bit.Set) []mlog.Diagnostic {
	var (
		nodes    = doc.Nodes()
		universe = variableUniverse(nodes)
		length   = len(nodes)
	)
	//
	if len(universe) == 0 || length == 0 {
		return nil
	}
	// Per-node definition sets.
	defs := make([]bit.Set, length)
	//
	for i := range nodes {
		defs[i] = bit.NewSet(len(universe))
		//
		for _, tok := range definitions(&nodes[i]) {
			if v, ok := universe[tok.Content]; ok {
				defs[i].Set(v, true)
			}
		}
	}
	// predecessors
	preds := make([][]int, length)
	for _, e := range edges {
		preds[e.To] = append(preds[e.To], e.From)
	}
	// Entry facts are empty; everything else starts at the full universe and
	// only ever shrinks.
	ins := make([]bit.Set, length)
	outs := make([]bit.Set, length)
	//
	for i := 0; i < length; i++ {
		ins[i] = bit.NewSet(len(universe))
		outs[i] = bit.NewSet(len(universe))
		outs[i].Fill()
	}
	// Iterate to the fixed point.
	for changed := true; changed; {
		changed = false
		//
		for i := 0; i < length; i++ {
			in := bit.NewSet(len(universe))
			// The entry node keeps an empty in-set: nothing is assigned when
			// the processor starts.  Everything else meets over its
			// predecessors, and the meet over none is the full universe: a
			// node no path enters must not poison the joins it falls into.
			if i != 0 {
				in.Fill()
				//
				for _, p := range preds[i] {
					in.AssignAnd(outs[p])
				}
			}
			//
			ins[i] = in
			//
			out := in.Or(defs[i])
			if outs[i].AssignAnd(out) {
				changed = true
			}
		}
	}
	// Report reads of variables not definitely assigned on entry to their
	// node.  Only reachable instructions matter; unreachable ones already
	// carry their own diagnostic.
	var diagnostics []mlog.Diagnostic
	//
	for i := range nodes {
		node := &nodes[i]
		//
		if node.Kind != mlog.KindInstruction || !reachable.Get(i) {
			continue
		}
		// one report per name per node
		seen := make(map[string]bool)
		//
		for _, tok := range reads(node) {
			// Reads happen before the node's own writes, so only facts on
			// entry count; "op add x x 1" still reads the old x.
			v, ok := universe[tok.Content]
			if !ok || ins[i].Get(v) || seen[tok.Content] {
				continue
			}
			//
			seen[tok.Content] = true
			//
			diagnostics = append(diagnostics, mlog.Diagnostic{
				Range:    tok.Range(node.Start.Line),
				Severity: mlog.SeverityWarning,
				Code:     mlog.CodeUnsetVariable,
				Message:  fmt.Sprintf("variable %q may not be set before use", tok.Content),
			})
		}
	}
	//
	return diagnostics
}

// variableUniverse collects every trackable variable name mentioned by the
// document, assigning each a stable bit index.
func variableUniverse(nodes []mlog.Node) map[string]int {
	names := make(map[string]struct{})
	//
	for i := range nodes {
		node := &nodes[i]
		if node.Kind != mlog.KindInstruction {
			continue
		}
		//
		for _, tok := range definitions(node) {
			names[tok.Content] = struct{}{}
		}
		//
		for _, tok := range reads(node) {
			names[tok.Content] = struct{}{}
		}
	}
	// stable ordering
	sorted := make([]string, 0, len(names))
	for name := range names {
		sorted = append(sorted, name)
	}
	//
	sort.Strings(sorted)
	//
	universe := make(map[string]int, len(sorted))
	for v, name := range sorted {
		universe[name] = v
	}
	//
	return universe
}

// definitions returns the operand tokens a known instruction writes to,
// filtered down to trackable variables.
func definitions(node *mlog.Node) []mlog.Token {
	info, ok := mlog.Opcode(node.Opcode)
	if !ok {
		return nil
	}
	//
	var (
		operands = node.Operands()
		tokens   []mlog.Token
	)
	//
	for _, index := range info.Outputs {
		if index < len(operands) && trackable(operands[index].Content) {
			tokens = append(tokens, operands[index])
		}
	}
	//
	return tokens
}

// reads returns the operand tokens a known instruction reads, filtered down
// to trackable variables.  Operands of unknown instructions are skipped
// entirely, since their roles cannot be known.
func reads(node *mlog.Node) []mlog.Token {
	info, ok := mlog.Opcode(node.Opcode)
	if !ok {
		return nil
	}
	//
	skip := make(map[int]bool)
	//
	for _, index := range info.Outputs {
		skip[index] = true
	}
	//
	for _, index := range info.Keywords {
		skip[index] = true
	}
	// A jump target is a label or index, never a variable.
	if node.Opcode == mlog.OpJump {
		skip[0] = true
	}
	//
	var tokens []mlog.Token
	//
	for index, tok := range node.Operands() {
		if !skip[index] && trackable(tok.Content) {
			tokens = append(tokens, tok)
		}
	}
	//
	return tokens
}

// trackable decides whether a name denotes a user variable the assignment
// check should follow.  Builtins (@…), literals, keywords and building links
// are all populated by the runtime or constant by definition.
func trackable(name string) bool {
	switch name {
	case "true", "false", "null":
		return false
	}
	//
	return mlog.IsIdentifier(name) &&
		!mlog.IsNumber(name) &&
		!buildingLink.MatchString(name)
}
