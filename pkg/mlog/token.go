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

// Position identifies a point in a source document using the zero-based
// line/character convention of the protocol layer.
type Position struct {
	Line      uint32
	Character uint32
}

// Range identifies a contiguous region of a source document, from Start up to
// (but excluding) End.
type Range struct {
	Start Position
	End   Position
}

// NewRange constructs a single-line range covering columns start..end of the
// given line.
func NewRange(line uint32, start uint32, end uint32) Range {
	return Range{Position{line, start}, Position{line, end}}
}

// Token associates a piece of source text with the range of columns it
// occupies within its physical line.  Tokens are immutable once produced.
type Token struct {
	// Content holds the raw text of this token.
	Content string
	// Start is the (rune) column at which this token begins.
	Start int
	// End is one past the (rune) column at which this token ends.
	End int
}

// Length returns the number of columns covered by this token.
func (p *Token) Length() int {
	return p.End - p.Start
}

// Range converts this token into a document range on the given line.
func (p *Token) Range(line uint32) Range {
	return NewRange(line, uint32(p.Start), uint32(p.End))
}
