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

// Document owns the ordered node sequence of one source file, along with the
// label table derived from it.  A document is built once per parse and never
// mutated; every edit produces a fresh document.
type Document struct {
	nodes []Node
	// labels maps each label name to its declaring node's index.  The first
	// declaration wins; later duplicates are diagnosed by the analyzer.
	labels map[string]int
	// lines is the number of physical lines in the original source.
	lines int
}

// NewDocument constructs a document over a given node sequence, deriving its
// label table.
func NewDocument(nodes []Node, lines int) *Document {
	labels := make(map[string]int)
	//
	for i, n := range nodes {
		if n.Kind == KindLabel {
			if _, ok := labels[n.Name]; !ok {
				labels[n.Name] = i
			}
		}
	}
	//
	return &Document{nodes, labels, lines}
}

// Nodes returns the full node sequence, in source order.
func (p *Document) Nodes() []Node {
	return p.nodes
}

// Node returns the iᵗʰ node of this document.
func (p *Document) Node(i int) *Node {
	return &p.nodes[i]
}

// Len returns the number of nodes in this document.
func (p *Document) Len() int {
	return len(p.nodes)
}

// Lines returns the number of physical lines in the original source.
func (p *Document) Lines() int {
	return p.lines
}

// Labels returns the label table, mapping each label name to the index of its
// declaring node.
func (p *Document) Labels() map[string]int {
	return p.labels
}

// Label resolves a label name to its declaring node's index.
func (p *Document) Label(name string) (int, bool) {
	index, ok := p.labels[name]
	return index, ok
}

// NodeAt finds the node covering a given position, if any.  When several
// chained nodes share the line, the one whose column range encloses the
// position wins, falling back on the last node starting at or before it.
func (p *Document) NodeAt(pos Position) (int, bool) {
	found, ok := -1, false
	//
	for i, n := range p.nodes {
		if n.Start.Line != pos.Line {
			continue
		}
		//
		r := n.Range()
		if r.Start.Character <= pos.Character && pos.Character < r.End.Character {
			return i, true
		}
		//
		if n.Start.Character <= pos.Character {
			found, ok = i, true
		}
	}
	//
	return found, ok
}
