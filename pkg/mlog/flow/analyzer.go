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
	"sort"
	"strconv"

	"github.com/consensys/mlogls/pkg/mlog"
	"github.com/consensys/mlogls/pkg/util/bit"
)

// EdgeKind discriminates how control passes along an edge.
type EdgeKind uint8

const (
	// Fallthrough edges connect a node to its successor in source order.
	Fallthrough EdgeKind = iota
	// Jump edges connect a jump instruction to its resolved target.
	Jump
)

// Edge is one derived control-flow edge between two nodes.  Edges are
// recomputed on every analysis; they are never stored in the document.
type Edge struct {
	From int
	To   int
	Kind EdgeKind
	// Conditional holds for jump edges whose condition is not "always".
	Conditional bool
}

// Result carries the outcome of one flow analysis pass.
type Result struct {
	// Reachable holds one bit per node, set iff some path of fall-through and
	// jump edges reaches it from the entry node.
	Reachable bit.Set
	// Edges holds every derived control-flow edge.
	Edges []Edge
}

// Analyze performs the full flow analysis of a document: label resolution,
// edge derivation, reachability, and the definite-assignment check.  All
// findings surface as diagnostics; analysis itself never fails.
func Analyze(doc *mlog.Document) (*Result, []mlog.Diagnostic) {
	var diagnostics []mlog.Diagnostic
	//
	diagnostics = append(diagnostics, duplicateLabels(doc)...)
	diagnostics = append(diagnostics, unknownOpcodes(doc)...)
	//
	edges, jumpDiags := buildEdges(doc)
	diagnostics = append(diagnostics, jumpDiags...)
	//
	reachable := reachability(doc.Len(), edges)
	diagnostics = append(diagnostics, unreachable(doc, reachable)...)
	diagnostics = append(diagnostics, checkDefinitions(doc, edges, reachable)...)
	// Report findings in source order.
	sort.SliceStable(diagnostics, func(i, j int) bool {
		a, b := diagnostics[i].Range.Start, diagnostics[j].Range.Start
		return a.Line < b.Line || (a.Line == b.Line && a.Character < b.Character)
	})
	//
	return &Result{reachable, edges}, diagnostics
}

// duplicateLabels diagnoses every label declaration shadowed by an earlier
// one of the same name.  The first declaration wins; jumps resolve to it.
func duplicateLabels(doc *mlog.Document) []mlog.Diagnostic {
	var diagnostics []mlog.Diagnostic
	//
	for i, node := range doc.Nodes() {
		if node.Kind != mlog.KindLabel {
			continue
		}
		//
		if first, _ := doc.Label(node.Name); first != i {
			diagnostics = append(diagnostics, mlog.Diagnostic{
				Range:    node.Range(),
				Severity: mlog.SeverityWarning,
				Code:     mlog.CodeDuplicateLabel,
				Message:  fmt.Sprintf("label %q already declared; jumps target the first declaration", node.Name),
			})
		}
	}
	//
	return diagnostics
}

// unknownOpcodes diagnoses instructions whose opcode is not part of the
// processor instruction set.  The parser keeps such statements (parsing is
// total); flagging them is the analyzer's job.
func unknownOpcodes(doc *mlog.Document) []mlog.Diagnostic {
	var diagnostics []mlog.Diagnostic
	//
	for _, node := range doc.Nodes() {
		if node.Kind != mlog.KindInstruction {
			continue
		}
		//
		if _, ok := mlog.Opcode(node.Opcode); !ok {
			diagnostics = append(diagnostics, mlog.Diagnostic{
				Range:    node.Tokens[0].Range(node.Start.Line),
				Severity: mlog.SeverityWarning,
				Code:     mlog.CodeUnknownOpcode,
				Message:  fmt.Sprintf("unknown instruction %q", node.Opcode),
			})
		}
	}
	//
	return diagnostics
}

// buildEdges derives the control-flow edges of a document.  Every node falls
// through to its successor, except an always-taken jump; jump instructions
// additionally edge to their resolved target.  Targets may be symbolic labels
// or literal instruction indices (counting instruction nodes only, the way
// the processor numbers them).
func buildEdges(doc *mlog.Document) ([]Edge, []mlog.Diagnostic) {
	var (
		edges       []Edge
		diagnostics []mlog.Diagnostic
		nodes       = doc.Nodes()
		// instruction numbering, for literal jump targets
		instructions []int
	)
	//
	for i, node := range nodes {
		if node.Kind == mlog.KindInstruction {
			instructions = append(instructions, i)
		}
	}
	//
	for i := range nodes {
		node := &nodes[i]
		//
		if i+1 < len(nodes) && !mlog.UnconditionalJump(node) {
			edges = append(edges, Edge{From: i, To: i + 1, Kind: Fallthrough})
		}
		//
		if node.Kind != mlog.KindInstruction || node.Opcode != mlog.OpJump {
			continue
		}
		//
		target, diag := resolveTarget(doc, node, instructions)
		if diag != nil {
			diagnostics = append(diagnostics, *diag)
			continue
		}
		//
		edges = append(edges, Edge{
			From: i, To: target, Kind: Jump,
			Conditional: !mlog.UnconditionalJump(node),
		})
	}
	//
	return edges, diagnostics
}

// resolveTarget resolves the target operand of a jump instruction to a node
// index, either through the label table or as a literal instruction index.
func resolveTarget(doc *mlog.Document, node *mlog.Node, instructions []int) (int, *mlog.Diagnostic) {
	operands := node.Operands()
	//
	if len(operands) == 0 {
		return 0, &mlog.Diagnostic{
			Range:    node.Range(),
			Severity: mlog.SeverityError,
			Code:     mlog.CodeUndefinedLabel,
			Message:  "jump requires a target",
		}
	}
	//
	target := operands[0]
	// Literal instruction index?
	if mlog.IsNumber(target.Content) {
		index, err := strconv.Atoi(target.Content)
		if err != nil || index < 0 || index >= len(instructions) {
			return 0, &mlog.Diagnostic{
				Range:    target.Range(node.Start.Line),
				Severity: mlog.SeverityError,
				Code:     mlog.CodeUndefinedLabel,
				Message:  fmt.Sprintf("jump target %s is not a valid instruction index", target.Content),
			}
		}
		//
		return instructions[index], nil
	}
	// Symbolic label.
	if index, ok := doc.Label(target.Content); ok {
		return index, nil
	}
	//
	return 0, &mlog.Diagnostic{
		Range:    target.Range(node.Start.Line),
		Severity: mlog.SeverityError,
		Code:     mlog.CodeUndefinedLabel,
		Message:  fmt.Sprintf("label %q is not declared", target.Content),
	}
}

// reachability computes the reachable-node set by worklist traversal from the
// entry node.
func reachability(length int, edges []Edge) bit.Set {
	visited := bit.NewSet(length)
	//
	if length == 0 {
		return visited
	}
	// adjacency
	successors := make([][]int, length)
	for _, e := range edges {
		successors[e.From] = append(successors[e.From], e.To)
	}
	//
	worklist := []int{0}
	visited.Set(0, true)
	//
	for len(worklist) > 0 {
		node := worklist[len(worklist)-1]
		worklist = worklist[:len(worklist)-1]
		//
		for _, next := range successors[node] {
			if !visited.Get(next) {
				visited.Set(next, true)
				worklist = append(worklist, next)
			}
		}
	}
	//
	return visited
}

// unreachable diagnoses instruction nodes never reached by the traversal.
// Comment and label nodes carry no reachability semantics and are skipped.
func unreachable(doc *mlog.Document, reachable bit.Set) []mlog.Diagnostic {
	var diagnostics []mlog.Diagnostic
	//
	for i, node := range doc.Nodes() {
		if node.Kind != mlog.KindInstruction || reachable.Get(i) {
			continue
		}
		//
		diagnostics = append(diagnostics, mlog.Diagnostic{
			Range:    node.Range(),
			Severity: mlog.SeverityWarning,
			Code:     mlog.CodeUnreachableCode,
			Message:  "unreachable code",
		})
	}
	//
	return diagnostics
}
