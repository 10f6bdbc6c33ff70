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

import "fmt"

// Severity classifies how serious a diagnostic is.  Values follow the
// protocol-layer numbering.
type Severity uint8

const (
	// SeverityError marks source the processor would mishandle or reject.
	SeverityError Severity = iota + 1
	// SeverityWarning marks source which is suspicious but executable.
	SeverityWarning
	// SeverityInformation marks purely informational findings.
	SeverityInformation
	// SeverityHint marks findings editors render unobtrusively.
	SeverityHint
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInformation:
		return "info"
	case SeverityHint:
		return "hint"
	}
	//
	return "unknown"
}

// Diagnostic codes, stable identifiers for each finding the toolchain can
// produce.
const (
	CodeUnterminatedString = "unterminated-string"
	CodeUndefinedLabel     = "undefined-label"
	CodeDuplicateLabel     = "duplicate-label"
	CodeUnreachableCode    = "unreachable-code"
	CodeUnknownOpcode      = "unknown-opcode"
	CodeUnsetVariable      = "unset-variable"
)

// Diagnostic reports one problem found in a source document.  Diagnostics are
// the only way user-source problems surface; malformed input never produces a
// hard failure.
type Diagnostic struct {
	// Range covers the offending source text.
	Range Range
	// Severity classifies the finding.
	Severity Severity
	// Code is the stable identifier of the finding (see Code* constants).
	Code string
	// Message is the human-readable description.
	Message string
}

func (p *Diagnostic) String() string {
	return fmt.Sprintf("%d:%d: %s: %s [%s]",
		p.Range.Start.Line, p.Range.Start.Character, p.Severity, p.Message, p.Code)
}
