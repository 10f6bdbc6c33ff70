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
package bit

import (
	"fmt"
	"math/bits"
	"slices"
	"strings"
)

// Set provides a fixed-length bitset implementation.  That is, a vector of
// boolean values implemented as an array of 32bit words.  Unlike a growable
// set, the length is pinned at construction; this allows binary operations to
// proceed word-by-word without bounds negotiation.  Binary operations assume
// both operands have the same length.  That is a contract on the caller, not
// something checked here.
type Set struct {
	length int
	words  []uint32
}

// NewSet creates a Set holding length bits, all initially false.
func NewSet(length int) Set {
	return Set{length, make([]uint32, (length+31)/32)}
}

// Len returns the number of bits held by this set.
func (p *Set) Len() int {
	return p.length
}

// Get the value of the iᵗʰ bit.
func (p *Set) Get(i int) bool {
	return p.words[i>>5]&(1<<(i&31)) != 0
}

// Set the iᵗʰ bit to v.
func (p *Set) Set(i int, v bool) {
	mask := uint32(1) << (i & 31)
	//
	if v {
		p.words[i>>5] |= mask
	} else {
		p.words[i>>5] &= ^mask
	}
}

// Toggle flips the iᵗʰ bit, returning its new value.
func (p *Set) Toggle(i int) bool {
	p.words[i>>5] ^= uint32(1) << (i & 31)
	//
	return p.Get(i)
}

// Clone creates a true copy of this bitset which ensures no aliasing between
// this set and the result.
func (p *Set) Clone() Set {
	return Set{p.length, slices.Clone(p.words)}
}

// AssignOr updates this set in place to the union of itself and other,
// returning true if any bit changed.
func (p *Set) AssignOr(other Set) bool {
	changed := false
	//
	for w := range p.words {
		tmp := p.words[w] | other.words[w]
		changed = changed || tmp != p.words[w]
		p.words[w] = tmp
	}
	//
	return changed
}

// AssignAnd updates this set in place to the intersection of itself and
// other, returning true if any bit changed.
func (p *Set) AssignAnd(other Set) bool {
	changed := false
	//
	for w := range p.words {
		tmp := p.words[w] & other.words[w]
		changed = changed || tmp != p.words[w]
		p.words[w] = tmp
	}
	//
	return changed
}

// Or returns a fresh set holding the union of this set and other, leaving
// both operands untouched.
func (p *Set) Or(other Set) Set {
	result := p.Clone()
	result.AssignOr(other)
	//
	return result
}

// And returns a fresh set holding the intersection of this set and other,
// leaving both operands untouched.
func (p *Set) And(other Set) Set {
	result := p.Clone()
	result.AssignAnd(other)
	//
	return result
}

// Fill sets every bit in this set to true.
func (p *Set) Fill() {
	for w := range p.words {
		p.words[w] = 0xffffffff
	}
	// Mask off bits beyond the logical length.
	if r := p.length & 31; r != 0 && len(p.words) > 0 {
		p.words[len(p.words)-1] &= (uint32(1) << r) - 1
	}
}

// Count returns the number of bits in the bitset which are set to one.
func (p *Set) Count() int {
	count := 0
	//
	for _, word := range p.words {
		count += bits.OnesCount32(word)
	}
	//
	return count
}

func (p *Set) String() string {
	var (
		builder strings.Builder
		first   = true
	)
	//
	builder.WriteString("[")
	//
	for i := 0; i < p.length; i++ {
		if p.Get(i) {
			if !first {
				builder.WriteString(", ")
			}
			//
			first = false
			//
			builder.WriteString(fmt.Sprintf("%d", i))
		}
	}
	//
	builder.WriteString("]")
	//
	return builder.String()
}
