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
	"go.lsp.dev/protocol"

	"github.com/consensys/mlogls/pkg/config"
	"github.com/consensys/mlogls/pkg/mlog"
	"github.com/consensys/mlogls/pkg/mlog/format"
)

// Columns are rune-based internally, while the protocol counts UTF-16 code
// units; the two drift apart after any rune beyond the basic plane, so every
// position crossing the boundary converts against its source line.

func toProtocolPosition(lines []string, p mlog.Position) protocol.Position {
	return protocol.Position{
		Line:      p.Line,
		Character: utf16Column(lineAt(lines, p.Line), p.Character),
	}
}

func toProtocolRange(lines []string, r mlog.Range) protocol.Range {
	return protocol.Range{
		Start: toProtocolPosition(lines, r.Start),
		End:   toProtocolPosition(lines, r.End),
	}
}

func fromProtocolPosition(lines []string, p protocol.Position) mlog.Position {
	return mlog.Position{
		Line:      p.Line,
		Character: runeColumn(lineAt(lines, p.Line), p.Character),
	}
}

// toProtocolDiagnostics translates analyzer diagnostics onto the wire.  The
// result is never nil, so an empty set serialises as [] and clears stale
// squiggles on the client.
func toProtocolDiagnostics(lines []string, diagnostics []mlog.Diagnostic) []protocol.Diagnostic {
	out := make([]protocol.Diagnostic, len(diagnostics))
	//
	for i, d := range diagnostics {
		out[i] = protocol.Diagnostic{
			Range:    toProtocolRange(lines, d.Range),
			Severity: protocol.DiagnosticSeverity(d.Severity),
			Code:     d.Code,
			Source:   Name,
			Message:  d.Message,
		}
		// Unreachable code renders faded rather than squiggled.
		if d.Code == mlog.CodeUnreachableCode {
			out[i].Tags = []protocol.DiagnosticTag{protocol.DiagnosticTagUnnecessary}
		}
	}
	//
	return out
}

// utf16Column converts a rune column within a line into UTF-16 code units.
func utf16Column(line string, runeColumn uint32) uint32 {
	var column, units uint32
	//
	for _, r := range line {
		if column == runeColumn {
			break
		}
		//
		column++
		units += utf16Width(r)
	}
	//
	return units
}

// runeColumn converts a UTF-16 column within a line into a rune column.
func runeColumn(line string, utf16Column uint32) uint32 {
	var column, units uint32
	//
	for _, r := range line {
		if units >= utf16Column {
			break
		}
		//
		column++
		units += utf16Width(r)
	}
	//
	return column
}

// utf16Width returns how many UTF-16 code units encode a rune: two beyond the
// basic plane (a surrogate pair), otherwise one.
func utf16Width(r rune) uint32 {
	if r > 0xffff {
		return 2
	}
	//
	return 1
}

func lineAt(lines []string, i uint32) string {
	if int(i) < len(lines) {
		return lines[i]
	}
	//
	return ""
}

// formatSession renders a document using the request's indentation choices on
// top of the configured defaults.  Clients always send tabSize and
// insertSpaces; insertFinalNewline is optional and unset is indistinguishable
// from false, so that one stays configuration-driven.
func formatSession(sess *session, defaults config.Format, requested *protocol.FormattingOptions) string {
	opts := format.Options{
		TabSize:            defaults.TabSize,
		InsertSpaces:       requested.InsertSpaces,
		InsertFinalNewline: defaults.InsertFinalNewline,
	}
	//
	if requested.TabSize > 0 {
		opts.TabSize = int(requested.TabSize)
	}
	//
	return format.Format(sess.document, opts)
}
