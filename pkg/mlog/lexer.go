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

// CommentMarker begins a comment which runs to the end of the line.
const CommentMarker = '#'

// StatementSeparator splits one physical line into several statements.
const StatementSeparator = ';'

// LabelMarker terminates a label declaration.
const LabelMarker = ':'

// TokenizeLine splits one physical source line into its ordered tokens,
// additionally classifying the line as comment-only or not.  Tokenizing is
// total: unrecognized byte sequences simply fold into identifier tokens.
func TokenizeLine(line string) (tokens []Token, commentOnly bool) {
	var (
		runes = []rune(line)
		index = whitespace(runes)
	)
	// A line whose first significant character is the comment marker is a
	// comment line in its entirety.
	commentOnly = index < len(runes) && runes[index] == CommentMarker
	//
	for index < len(runes) {
		index += whitespace(runes[index:])
		//
		if index >= len(runes) {
			break
		}
		//
		var n int
		//
		switch runes[index] {
		case CommentMarker:
			// Comment marker consumes the remainder of the line.
			n = len(runes) - index
		case '"':
			n = quotedString(runes[index:])
		case StatementSeparator, LabelMarker:
			n = 1
		default:
			n = word(runes[index:])
		}
		// Guard against stalling on degenerate input.
		n = max(n, 1)
		//
		tokens = append(tokens, Token{string(runes[index : index+n]), index, index + n})
		index += n
	}
	//
	return tokens, commentOnly
}

// IsNumber determines whether a token holds a numeric literal: decimal
// (including fraction and exponent forms), hexadecimal, binary, or the
// colour-hex shorthand.  The whole token must match; this is the boundary
// check which stops a sign or decimal point being mis-attached to an
// adjacent identifier.
func IsNumber(content string) bool {
	runes := []rune(content)
	//
	return len(runes) > 0 && number(runes) == len(runes)
}

// IsStringLiteral determines whether a token holds a (possibly unterminated)
// quoted string.
func IsStringLiteral(content string) bool {
	return len(content) > 0 && content[0] == '"'
}

// IsUnterminatedString determines whether a token opened a quoted string
// which never closed before the end of its line.
func IsUnterminatedString(content string) bool {
	return IsStringLiteral(content) && (len(content) == 1 || content[len(content)-1] != '"')
}

// IsIdentifier determines whether a token is a plausible identifier: a letter
// or underscore followed by letters, digits, underscores or dashes.  Label
// names must satisfy this.
func IsIdentifier(content string) bool {
	runes := []rune(content)
	//
	return len(runes) > 0 && identifier(runes) == len(runes)
}

// ============================================================================
// Scanner combinators
// ============================================================================

// scanner looks at a sequence of runes, starting from the beginning, and
// reports how many it can consume (zero meaning no match).
type scanner func([]rune) int

// unit accepts exactly the given rune.
func unit(r rune) scanner {
	return func(items []rune) int {
		if len(items) > 0 && items[0] == r {
			return 1
		}
		// fail
		return 0
	}
}

// within accepts any rune in the given (inclusive) range.
func within(lowest rune, highest rune) scanner {
	return func(items []rune) int {
		if len(items) > 0 && lowest <= items[0] && items[0] <= highest {
			return 1
		}
		// fail
		return 0
	}
}

// or combines zero or more scanners such that the resulting scanner succeeds
// if any of them succeeds, with an implicit left-to-right order of evaluation.
func or(scanners ...scanner) scanner {
	return func(items []rune) int {
		for _, s := range scanners {
			if n := s(items); n > 0 {
				return n
			}
		}
		// fail
		return 0
	}
}

// many matches zero or more repetitions of a given scanner.
func many(s scanner) scanner {
	return func(items []rune) int {
		index := 0
		//
		for index < len(items) {
			if n := s(items[index:]); n != 0 {
				index += n
				continue
			}
			//
			break
		}
		// done
		return index
	}
}

// str accepts a given literal string.
func str(text string) scanner {
	chars := []rune(text)
	//
	return func(items []rune) int {
		if len(items) < len(chars) {
			return 0
		}
		//
		for i, c := range chars {
			if items[i] != c {
				return 0
			}
		}
		//
		return len(chars)
	}
}

// ============================================================================
// Scanners
// ============================================================================

var (
	digit    = within('0', '9')
	sign     = or(unit('+'), unit('-'))
	hexDigit = or(
		within('0', '9'),
		within('A', 'F'),
		within('a', 'f'),
	)
	binDigit = within('0', '1')

	identifierStart = or(
		unit('_'),
		within('a', 'z'),
		within('A', 'Z'),
	)
	identifierRest = many(or(
		unit('_'),
		unit('-'),
		within('0', '9'),
		within('a', 'z'),
		within('A', 'Z'),
	))

	escapedNewline = str("\\n")
	doubledBracket = str("[[")

	// whitespace consumes spaces and tabs.
	whitespace = many(or(unit(' '), unit('\t')))
)

// identifier matches a letter or underscore followed by any run of
// identifier characters.
func identifier(items []rune) int {
	if identifierStart(items) == 0 {
		return 0
	}
	//
	return 1 + identifierRest(items[1:])
}

// number matches a numeric literal in any of its forms: colour-hex shorthand
// (%rrggbb / %rrggbbaa), or an optionally signed hexadecimal, binary or
// decimal.
func number(items []rune) int {
	if n := colorHex(items); n > 0 {
		return n
	}
	// optional sign
	index := sign(items)
	//
	if n := prefixed(items[index:], "0x", hexDigit); n > 0 {
		return index + n
	}
	//
	if n := prefixed(items[index:], "0b", binDigit); n > 0 {
		return index + n
	}
	//
	if n := decimal(items[index:]); n > 0 {
		return index + n
	}
	// fail
	return 0
}

// prefixed matches a literal prefix followed by one or more of the given
// digit class (e.g. "0x" then hex digits).
func prefixed(items []rune, prefix string, dig scanner) int {
	n := str(prefix)(items)
	if n == 0 {
		return 0
	}
	//
	m := many(dig)(items[n:])
	if m == 0 {
		return 0
	}
	//
	return n + m
}

// decimal matches digits with an optional fractional part and an optional
// exponent.  At least one digit must be present, so a bare point or sign
// never becomes a number.
func decimal(items []rune) int {
	var (
		index  = many(digit)(items)
		digits = index
	)
	// optional fraction
	if index < len(items) && items[index] == '.' {
		n := many(digit)(items[index+1:])
		index += 1 + n
		digits += n
	}
	//
	if digits == 0 {
		return 0
	}
	// optional exponent
	return index + exponent(items[index:])
}

// exponent matches e.g. "e5", "E+10" or "e-3".
func exponent(items []rune) int {
	if len(items) == 0 || (items[0] != 'e' && items[0] != 'E') {
		return 0
	}
	//
	index := 1 + sign(items[1:])
	//
	n := many(digit)(items[index:])
	if n == 0 {
		return 0
	}
	//
	return index + n
}

// colorHex matches the %rrggbb / %rrggbbaa colour shorthand.  Anything with a
// different digit count folds back into an identifier token.
func colorHex(items []rune) int {
	if len(items) == 0 || items[0] != '%' {
		return 0
	}
	//
	if n := many(hexDigit)(items[1:]); n == 6 || n == 8 {
		return 1 + n
	}
	// fail
	return 0
}

// colorTag matches an inline colour/markup tag within a quoted string: a
// named tag like [red], a hex tag like [#ff0000], or the empty [] reset.
func colorTag(items []rune) int {
	if len(items) == 0 || items[0] != '[' {
		return 0
	}
	//
	index := 1
	//
	if index < len(items) && items[index] == '#' {
		n := many(hexDigit)(items[index+1:])
		if n != 6 && n != 8 {
			return 0
		}
		//
		index += 1 + n
	} else {
		// possibly zero-length, giving the empty reset tag
		index += identifier(items[index:])
	}
	//
	if index < len(items) && items[index] == ']' {
		return index + 1
	}
	// fail
	return 0
}

// placeholder matches an embedded placeholder marker, e.g. {0}.
func placeholder(items []rune) int {
	if len(items) >= 3 && items[0] == '{' && digit(items[1:]) == 1 && items[2] == '}' {
		return 3
	}
	// fail
	return 0
}

// stringPiece matches the structured pieces recognized inside quoted strings:
// the escaped-newline sequence, a doubled bracket escaping a literal bracket,
// an inline colour tag, or a placeholder marker.
var stringPiece = or(escapedNewline, doubledBracket, colorTag, placeholder)

// quotedString consumes a leading quote and everything up to and including
// the closing quote, or the end of the line if the string never closes.
func quotedString(items []rune) int {
	// skip opening quote
	index := 1
	//
	for index < len(items) {
		if items[index] == '"' {
			return index + 1
		}
		//
		if n := stringPiece(items[index:]); n > 0 {
			index += n
		} else {
			index++
		}
	}
	// unterminated
	return index
}

// word consumes a maximal run of characters which cannot begin another token.
func word(items []rune) int {
	index := 0
	//
	for index < len(items) {
		switch items[index] {
		case ' ', '\t', '"', CommentMarker, StatementSeparator, LabelMarker:
			return index
		}
		//
		index++
	}
	//
	return index
}
