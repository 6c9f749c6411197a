// Copyright 2024 Nextdataplatform, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package predicate

import (
	"testing"

	"github.com/nextdataplatform/nextdataplatform/literal"
	"github.com/nextdataplatform/nextdataplatform/version"
	"github.com/stretchr/testify/require"
)

const v1 = version.ID(1)

func TestRenderLeaf(t *testing.T) {
	p := NewLeaf(v1, "x", GT, literal.NewInt(5))
	clause, err := p.Render("t0")
	require.NoError(t, err)
	require.Equal(t, `(t0."x" > 5)`, clause)
}

func TestRenderBetween(t *testing.T) {
	p := NewLeaf(v1, "x", BETWEEN, literal.NewInt(6), literal.NewInt(8))
	clause, err := p.Render("t0")
	require.NoError(t, err)
	require.Equal(t, `(t0."x" BETWEEN 6 AND 8)`, clause)
}

func TestRenderIn(t *testing.T) {
	p := NewLeaf(v1, "x", IN, literal.NewInt(1), literal.NewInt(2))
	clause, err := p.Render("t0")
	require.NoError(t, err)
	require.Equal(t, `(t0."x" IN (1, 2))`, clause)
}

func TestRenderLogical(t *testing.T) {
	a := NewLeaf(v1, "a", EQ, literal.NewInt(1))
	b := NewLeaf(v1, "b", EQ, literal.NewInt(1))
	clause, err := And(a, b).Render("t0")
	require.NoError(t, err)
	require.Equal(t, `((t0."a" = 1) AND (t0."b" = 1))`, clause)
}

func TestNegationInvolution(t *testing.T) {
	p := NewLeaf(v1, "x", BETWEEN, literal.NewInt(6), literal.NewInt(8))
	doubleNegated := p.Not().Not()

	original, err := p.Render("t0")
	require.NoError(t, err)
	again, err := doubleNegated.Render("t0")
	require.NoError(t, err)
	require.Equal(t, original, again)
}

func TestDeMorgan(t *testing.T) {
	a := NewLeaf(v1, "a", EQ, literal.NewInt(1))
	b := NewLeaf(v1, "b", EQ, literal.NewInt(1))

	negated := And(a, b).Not()
	logical, ok := negated.(*Logical)
	require.True(t, ok)
	require.Equal(t, OR, logical.Op)

	leftLeaf, ok := logical.Left().(*Leaf)
	require.True(t, ok)
	require.Equal(t, NE, leftLeaf.Op)

	rightLeaf, ok := logical.Right().(*Leaf)
	require.True(t, ok)
	require.Equal(t, NE, rightLeaf.Op)
}

func TestEvalCompositeWithNegation(t *testing.T) {
	// S6: NOT((a=1) AND (b=1)) over rows (1,1),(1,2),(2,1).
	a := NewLeaf(v1, "a", EQ, literal.NewInt(1))
	b := NewLeaf(v1, "b", EQ, literal.NewInt(1))
	p := And(a, b).Not()

	cols := []string{"a", "b"}
	rows := [][]any{{1, 1}, {1, 2}, {2, 1}}
	expected := []bool{false, true, true}

	for i, row := range rows {
		ok, err := p.Eval(cols, row)
		require.NoError(t, err)
		require.Equal(t, expected[i], ok, "row %v", row)
	}
}

func TestEvalBetween(t *testing.T) {
	p := NewLeaf(v1, "x", BETWEEN, literal.NewInt(6), literal.NewInt(8))
	cols := []string{"x"}

	ok, err := p.Eval(cols, []any{7})
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = p.Eval(cols, []any{9})
	require.NoError(t, err)
	require.False(t, ok)
}

func TestEvalNullIsNeverTrue(t *testing.T) {
	p := NewLeaf(v1, "x", NE, literal.NewInt(5))
	ok, err := p.Eval([]string{"x"}, []any{nil})
	require.NoError(t, err)
	require.False(t, ok)
}

func TestCheckVersion(t *testing.T) {
	p := NewLeaf(v1, "x", EQ, literal.NewInt(1))
	err := CheckVersion(p, v1, func(got, want version.ID) error {
		return require.AnError
	})
	require.NoError(t, err)

	err = CheckVersion(p, version.ID(2), func(got, want version.ID) error {
		return require.AnError
	})
	require.Error(t, err)
}

func TestColumns(t *testing.T) {
	a := NewLeaf(v1, "a", EQ, literal.NewInt(1))
	b := NewLeaf(v1, "b", EQ, literal.NewInt(1))
	require.Equal(t, []string{"a", "b"}, Columns(And(a, b)))
}
