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

import "strings"

// Parse turns raw source text into a fresh Document, along with any lexical
// diagnostics.  Parsing is total: every non-blank line yields at least one
// node, and malformed content becomes an instruction whose opcode the
// analyzer may later flag, never a parse failure.
func Parse(text string) (*Document, []Diagnostic) {
	var (
		parser = parser{}
		lines  = strings.Split(text, "\n")
	)
	//
	for lineNo, raw := range lines {
		parser.parseLine(uint32(lineNo), strings.TrimSuffix(raw, "\r"))
	}
	//
	return NewDocument(parser.nodes, len(lines)), parser.diagnostics
}

type parser struct {
	nodes       []Node
	diagnostics []Diagnostic
}

// parseLine parses one physical line into zero (blank), one, or several
// (separator-chained) nodes.
func (p *parser) parseLine(line uint32, text string) {
	tokens, commentOnly := TokenizeLine(text)
	//
	if len(tokens) == 0 {
		return
	}
	//
	if commentOnly {
		p.append(Node{Kind: KindComment, Start: position(line, tokens), Tokens: tokens})
		return
	}
	// Split into separator-chained statements, each parsed independently.
	var fragment []Token
	//
	for _, tok := range tokens {
		if len(tok.Content) == 1 && tok.Content[0] == StatementSeparator {
			p.parseStatement(line, fragment)
			fragment = nil
			//
			continue
		}
		//
		fragment = append(fragment, tok)
	}
	//
	p.parseStatement(line, fragment)
}

// parseStatement parses one statement fragment: leading label declarations
// peel off as their own nodes, a bare comment stays a comment, and anything
// left is an instruction with the first token as its opcode.
func (p *parser) parseStatement(line uint32, tokens []Token) {
	// Peel off label declarations, e.g. "start: print x".
	for len(tokens) >= 2 && isLabelDeclaration(tokens[0], tokens[1]) {
		// Merge name and colon into the node's single token.
		merged := Token{tokens[0].Content + tokens[1].Content, tokens[0].Start, tokens[1].End}
		//
		p.append(Node{
			Kind:   KindLabel,
			Start:  Position{line, uint32(merged.Start)},
			Name:   tokens[0].Content,
			Tokens: []Token{merged},
		})
		//
		tokens = tokens[2:]
	}
	//
	if len(tokens) == 0 {
		return
	}
	//
	if tokens[0].Content[0] == CommentMarker {
		p.append(Node{Kind: KindComment, Start: position(line, tokens), Tokens: tokens})
		return
	}
	//
	p.append(Node{
		Kind:   KindInstruction,
		Start:  position(line, tokens),
		Opcode: tokens[0].Content,
		Tokens: tokens,
	})
	// Surface unterminated strings, which otherwise swallow the line tail.
	for _, tok := range tokens {
		if IsUnterminatedString(tok.Content) {
			p.diagnostics = append(p.diagnostics, Diagnostic{
				Range:    tok.Range(line),
				Severity: SeverityError,
				Code:     CodeUnterminatedString,
				Message:  "string literal is never closed",
			})
		}
	}
}

func (p *parser) append(node Node) {
	p.nodes = append(p.nodes, node)
}

// isLabelDeclaration holds when an identifier token is immediately followed
// by the label colon, with no intervening space.
func isLabelDeclaration(name Token, colon Token) bool {
	return IsIdentifier(name.Content) &&
		len(colon.Content) == 1 && colon.Content[0] == LabelMarker &&
		colon.Start == name.End
}

func position(line uint32, tokens []Token) Position {
	return Position{line, uint32(tokens[0].Start)}
}
