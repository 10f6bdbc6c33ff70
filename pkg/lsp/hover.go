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
package lsp

import (
	"fmt"

	"go.lsp.dev/protocol"

	"github.com/consensys/mlogls/pkg/mlog"
)

// hover describes the symbol under the cursor: opcode documentation on a
// mnemonic, the declaration site on a jump target, or the name on a label
// declaration.  Anything else yields no hover.
func (s *Server) hover(params *protocol.HoverParams) *protocol.Hover {
	sess := s.session(params.TextDocument.URI)
	if sess == nil {
		return nil
	}
	//
	pos := fromProtocolPosition(sess.lines, params.Position)
	//
	index, ok := sess.document.NodeAt(pos)
	if !ok {
		return nil
	}
	//
	node := sess.document.Node(index)
	//
	tok, ok := node.TokenAt(pos.Character)
	if !ok {
		return nil
	}
	//
	value := hoverText(sess.document, node, tok)
	if value == "" {
		return nil
	}
	//
	tokRange := toProtocolRange(sess.lines, tok.Range(node.Start.Line))
	//
	return &protocol.Hover{
		Contents: protocol.MarkupContent{Kind: protocol.Markdown, Value: value},
		Range:    &tokRange,
	}
}

func hoverText(document *mlog.Document, node *mlog.Node, tok mlog.Token) string {
	switch node.Kind {
	case mlog.KindLabel:
		return fmt.Sprintf("```mlog\n%s:\n```\n\njump label", node.Name)
	case mlog.KindInstruction:
		// the mnemonic itself
		if tok.Content == node.Opcode && tok.Start == node.Tokens[0].Start {
			if info, ok := mlog.Opcode(node.Opcode); ok {
				return fmt.Sprintf("```mlog\n%s\n```\n\n%s", info.Signature, info.Doc)
			}
			//
			return ""
		}
		// a jump target
		if node.Opcode == mlog.OpJump && isTargetToken(node, tok) {
			return jumpTargetText(document, tok)
		}
	}
	//
	return ""
}

func isTargetToken(node *mlog.Node, tok mlog.Token) bool {
	operands := node.Operands()
	//
	return len(operands) > 0 && operands[0].Start == tok.Start
}

func jumpTargetText(document *mlog.Document, tok mlog.Token) string {
	if mlog.IsNumber(tok.Content) {
		return fmt.Sprintf("jump to instruction index %s", tok.Content)
	}
	//
	if index, ok := document.Label(tok.Content); ok {
		return fmt.Sprintf("```mlog\n%s:\n```\n\ndeclared on line %d",
			tok.Content, document.Node(index).Start.Line+1)
	}
	//
	return ""
}
