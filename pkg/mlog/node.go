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

// NodeKind discriminates the statement-level variants of a parsed document.
// Consumers switch on the kind rather than relying on type identity, which
// keeps dispatch exhaustive and cheap.
type NodeKind uint8

const (
	// KindComment is a line consisting solely of a comment.
	KindComment NodeKind = iota
	// KindLabel is a label declaration, e.g. "start:".
	KindLabel
	// KindInstruction is any other statement; its first token is the opcode.
	KindInstruction
)

func (k NodeKind) String() string {
	switch k {
	case KindComment:
		return "comment"
	case KindLabel:
		return "label"
	case KindInstruction:
		return "instruction"
	}
	//
	return "unknown"
}

// Node is one statement-level unit of parsed source: a comment line, a label
// declaration, or an instruction.  Nodes are stored in strictly increasing
// source order; several nodes may share a line when statements are
// separator-chained.
type Node struct {
	// Kind discriminates which variant this node holds.
	Kind NodeKind
	// Start is the zero-based position at which this node begins.
	Start Position
	// Name holds the label name for KindLabel nodes, otherwise "".
	Name string
	// Opcode holds the mnemonic for KindInstruction nodes, otherwise "".
	Opcode string
	// Tokens holds the ordered tokens making up this node.
	Tokens []Token
}

// Range returns the document range covered by this node.
func (p *Node) Range() Range {
	if len(p.Tokens) == 0 {
		return Range{p.Start, p.Start}
	}
	//
	last := p.Tokens[len(p.Tokens)-1]
	//
	return Range{p.Start, Position{p.Start.Line, uint32(last.End)}}
}

// Operands returns the operand tokens of an instruction node, i.e. every
// token after the opcode.
func (p *Node) Operands() []Token {
	if p.Kind != KindInstruction || len(p.Tokens) == 0 {
		return nil
	}
	//
	return p.Tokens[1:]
}

// TokenAt returns the token covering a given column, if any.
func (p *Node) TokenAt(character uint32) (Token, bool) {
	for _, tok := range p.Tokens {
		if uint32(tok.Start) <= character && character < uint32(tok.End) {
			return tok, true
		}
	}
	//
	return Token{}, false
}
