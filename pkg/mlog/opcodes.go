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
package mlog

import "sort"

// OpJump is the sole control-transfer opcode of the language.
const OpJump = "jump"

// OpInfo describes one opcode of the standard processor instruction set.
type OpInfo struct {
	// Name is the mnemonic as written in source.
	Name string
	// Doc is a one-line description, surfaced on hover.
	Doc string
	// Signature sketches the operand shape, surfaced on hover.
	Signature string
	// Outputs lists operand indices the instruction writes to.
	Outputs []int
	// Keywords lists operand indices holding selector keywords (a draw mode,
	// an op name, a jump condition) rather than values.
	Keywords []int
}

// Opcode looks up the metadata of a given mnemonic.
func Opcode(name string) (*OpInfo, bool) {
	info, ok := opcodes[name]
	return info, ok
}

// Opcodes returns the full instruction table, sorted by mnemonic.
func Opcodes() []*OpInfo {
	infos := make([]*OpInfo, 0, len(opcodes))
	//
	for _, info := range opcodes {
		infos = append(infos, info)
	}
	//
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	//
	return infos
}

// IsJumpCondition determines whether a token names one of the comparison
// keywords accepted by jump.
func IsJumpCondition(name string) bool {
	_, ok := jumpConditions[name]
	return ok
}

// UnconditionalJump holds when an instruction node is a jump which is always
// taken, i.e. one whose condition is "always" (or missing entirely).
func UnconditionalJump(node *Node) bool {
	if node.Kind != KindInstruction || node.Opcode != OpJump {
		return false
	}
	//
	operands := node.Operands()
	//
	return len(operands) < 2 || operands[1].Content == "always"
}

var jumpConditions = map[string]struct{}{
	"equal":         {},
	"notEqual":      {},
	"lessThan":      {},
	"lessThanEq":    {},
	"greaterThan":   {},
	"greaterThanEq": {},
	"strictEqual":   {},
	"always":        {},
}

var opcodes = map[string]*OpInfo{
	"read": {
		Name: "read", Doc: "Read a value from a linked memory cell.",
		Signature: "read result cell address", Outputs: []int{0},
	},
	"write": {
		Name: "write", Doc: "Write a value to a linked memory cell.",
		Signature: "write value cell address",
	},
	"draw": {
		Name: "draw", Doc: "Queue a drawing operation for a display.",
		Signature: "draw mode a b c d e f", Keywords: []int{0},
	},
	"print": {
		Name: "print", Doc: "Append a value to the print buffer.",
		Signature: "print value",
	},
	"format": {
		Name: "format", Doc: "Replace the next {n} placeholder in the print buffer.",
		Signature: "format value",
	},
	"drawflush": {
		Name: "drawflush", Doc: "Flush queued drawing operations to a display.",
		Signature: "drawflush display",
	},
	"printflush": {
		Name: "printflush", Doc: "Flush the print buffer to a message block.",
		Signature: "printflush building",
	},
	"getlink": {
		Name: "getlink", Doc: "Fetch the nᵗʰ building linked to this processor.",
		Signature: "getlink result index", Outputs: []int{0},
	},
	"control": {
		Name: "control", Doc: "Control a linked building.",
		Signature: "control mode building a b c", Keywords: []int{0},
	},
	"radar": {
		Name: "radar", Doc: "Locate units near a building.",
		Signature: "radar filter1 filter2 filter3 sort building order result",
		Outputs:   []int{6}, Keywords: []int{0, 1, 2, 3},
	},
	"sensor": {
		Name: "sensor", Doc: "Read a property of a building or unit.",
		Signature: "sensor result target property", Outputs: []int{0},
	},
	"set": {
		Name: "set", Doc: "Assign a value to a variable.",
		Signature: "set result value", Outputs: []int{0},
	},
	"op": {
		Name: "op", Doc: "Perform an arithmetic or logical operation.",
		Signature: "op operation result a b", Outputs: []int{1}, Keywords: []int{0},
	},
	"wait": {
		Name: "wait", Doc: "Pause execution for a number of seconds.",
		Signature: "wait seconds",
	},
	"lookup": {
		Name: "lookup", Doc: "Look up a content entry by its numeric id.",
		Signature: "lookup type result id", Outputs: []int{1}, Keywords: []int{0},
	},
	"packcolor": {
		Name: "packcolor", Doc: "Pack RGBA components into a single colour value.",
		Signature: "packcolor result r g b a", Outputs: []int{0},
	},
	"end": {
		Name: "end", Doc: "Jump back to the start of the program.",
		Signature: "end",
	},
	"stop": {
		Name: "stop", Doc: "Halt execution of this processor.",
		Signature: "stop",
	},
	"jump": {
		Name: "jump", Doc: "Transfer control to a label or instruction index.",
		Signature: "jump target condition a b", Keywords: []int{1},
	},
	"ubind": {
		Name: "ubind", Doc: "Bind the next unit of a given type.",
		Signature: "ubind type",
	},
	"ucontrol": {
		Name: "ucontrol", Doc: "Control the currently bound unit.",
		Signature: "ucontrol mode a b c d e", Keywords: []int{0},
	},
	"uradar": {
		Name: "uradar", Doc: "Locate units near the currently bound unit.",
		Signature: "uradar filter1 filter2 filter3 sort 0 order result",
		Outputs:   []int{6}, Keywords: []int{0, 1, 2, 3},
	},
	"ulocate": {
		Name: "ulocate", Doc: "Locate a block type using the bound unit.",
		Signature: "ulocate kind group enemy ore outX outY found building",
		Outputs:   []int{4, 5, 6, 7}, Keywords: []int{0, 1},
	},
	"noop": {
		Name: "noop", Doc: "Do nothing for one cycle.",
		Signature: "noop",
	},
}
