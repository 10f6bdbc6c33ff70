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
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_BitSet_GetSet(t *testing.T) {
	set := NewSet(100)
	//
	for i := 0; i < 100; i++ {
		assert.False(t, set.Get(i))
	}
	//
	set.Set(0, true)
	set.Set(31, true)
	set.Set(32, true)
	set.Set(99, true)
	//
	assert.True(t, set.Get(0))
	assert.True(t, set.Get(31))
	assert.True(t, set.Get(32))
	assert.True(t, set.Get(99))
	assert.Equal(t, 4, set.Count())
	//
	set.Set(32, false)
	assert.False(t, set.Get(32))
	assert.Equal(t, 3, set.Count())
}

func Test_BitSet_Toggle(t *testing.T) {
	set := NewSet(64)
	//
	assert.True(t, set.Toggle(33))
	assert.True(t, set.Get(33))
	assert.False(t, set.Toggle(33))
	assert.False(t, set.Get(33))
}

func Test_BitSet_Algebra(t *testing.T) {
	// For equal-length a, b and all i: a.Or(b).Get(i) == a.Get(i) || b.Get(i),
	// and likewise for And.
	for n := 0; n < 100; n++ {
		a, b := randomSet(200), randomSet(200)
		or, and := a.Or(b), a.And(b)
		//
		for i := 0; i < 200; i++ {
			require.Equal(t, a.Get(i) || b.Get(i), or.Get(i))
			require.Equal(t, a.Get(i) && b.Get(i), and.Get(i))
		}
	}
}

func Test_BitSet_AllocatingOpsLeaveOperands(t *testing.T) {
	a, b := randomSet(77), randomSet(77)
	ac, bc := a.Clone(), b.Clone()
	//
	a.Or(b)
	a.And(b)
	//
	for i := 0; i < 77; i++ {
		require.Equal(t, ac.Get(i), a.Get(i))
		require.Equal(t, bc.Get(i), b.Get(i))
	}
}

func Test_BitSet_Assign(t *testing.T) {
	a, b := randomSet(130), randomSet(130)
	or, and := a.Or(b), a.And(b)
	//
	x := a.Clone()
	x.AssignOr(b)
	//
	y := a.Clone()
	y.AssignAnd(b)
	//
	for i := 0; i < 130; i++ {
		require.Equal(t, or.Get(i), x.Get(i))
		require.Equal(t, and.Get(i), y.Get(i))
	}
}

func Test_BitSet_AssignChanged(t *testing.T) {
	a := NewSet(40)
	b := NewSet(40)
	b.Set(10, true)
	// Union with something new reports a change, repeating it does not.
	assert.True(t, a.AssignOr(b))
	assert.False(t, a.AssignOr(b))
	// Intersection with itself never changes anything.
	assert.False(t, a.AssignAnd(a.Clone()))
}

func Test_BitSet_CloneIndependence(t *testing.T) {
	a := NewSet(50)
	a.Set(7, true)
	//
	clone := a.Clone()
	require.True(t, clone.Get(7))
	// Mutating the clone must never affect the original.
	clone.Set(7, false)
	clone.Set(8, true)
	//
	assert.True(t, a.Get(7))
	assert.False(t, a.Get(8))
}

func Test_BitSet_Fill(t *testing.T) {
	set := NewSet(70)
	set.Fill()
	//
	assert.Equal(t, 70, set.Count())
	//
	for i := 0; i < 70; i++ {
		require.True(t, set.Get(i))
	}
}

func Test_BitSet_String(t *testing.T) {
	set := NewSet(40)
	set.Set(1, true)
	set.Set(33, true)
	//
	assert.Equal(t, "[1, 33]", set.String())
}

// ===================================================================
// Test Helpers
// ===================================================================

func randomSet(length int) Set {
	set := NewSet(length)
	//
	for i := 0; i < length; i++ {
		if rand.Intn(2) == 1 {
			set.Set(i, true)
		}
	}
	//
	return set
}
