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
	"sort"

	"go.lsp.dev/protocol"

	"github.com/consensys/mlogls/pkg/mlog"
)

// completion offers opcode mnemonics plus every label declared in the
// document.  The client filters against the typed prefix, so both families
// are always offered; sort text ranks opcodes first.
func (s *Server) completion(params *protocol.CompletionParams) *protocol.CompletionList {
	sess := s.session(params.TextDocument.URI)
	if sess == nil {
		return &protocol.CompletionList{Items: []protocol.CompletionItem{}}
	}
	//
	var items []protocol.CompletionItem
	//
	for _, info := range mlog.Opcodes() {
		items = append(items, protocol.CompletionItem{
			Label:  info.Name,
			Kind:   protocol.CompletionItemKindKeyword,
			Detail: info.Signature,
			Documentation: protocol.MarkupContent{
				Kind:  protocol.Markdown,
				Value: info.Doc,
			},
			SortText: fmt.Sprintf("0_%s", info.Name),
		})
	}
	//
	items = append(items, labelItems(sess.document)...)
	//
	return &protocol.CompletionList{Items: items}
}

// labelItems lists the document's labels as jump-target candidates.
func labelItems(document *mlog.Document) []protocol.CompletionItem {
	labels := document.Labels()
	//
	names := make([]string, 0, len(labels))
	for name := range labels {
		names = append(names, name)
	}
	//
	sort.Strings(names)
	//
	items := make([]protocol.CompletionItem, len(names))
	for i, name := range names {
		items[i] = protocol.CompletionItem{
			Label:    name,
			Kind:     protocol.CompletionItemKindReference,
			Detail:   fmt.Sprintf("label (line %d)", document.Node(labels[name]).Start.Line+1),
			SortText: fmt.Sprintf("1_%s", name),
		}
	}
	//
	return items
}
