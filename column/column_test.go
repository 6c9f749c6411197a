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

package column

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nextdataplatform/nextdataplatform/predicate"
	"github.com/nextdataplatform/nextdataplatform/version"
)

type fakeTable version.ID

func (f fakeTable) VersionID() version.ID { return version.ID(f) }

func TestComparisonMethodsBindVersionID(t *testing.T) {
	c := New(fakeTable(7), "x")
	p, err := c.Gt(5)
	require.NoError(t, err)

	leaf, ok := p.(*predicate.Leaf)
	require.True(t, ok)
	require.Equal(t, version.ID(7), leaf.Table())
	require.Equal(t, predicate.GT, leaf.Op)
}

func TestBetweenAndIn(t *testing.T) {
	c := New(fakeTable(1), "x")

	between, err := c.Between(1, 10)
	require.NoError(t, err)
	clause, err := between.Render("t0")
	require.NoError(t, err)
	require.Equal(t, `(t0."x" BETWEEN 1 AND 10)`, clause)

	in, err := c.In(1, 2, 3)
	require.NoError(t, err)
	clause, err = in.Render("t0")
	require.NoError(t, err)
	require.Equal(t, `(t0."x" IN (1, 2, 3))`, clause)
}

func TestAsBool(t *testing.T) {
	c := New(fakeTable(1), "active")
	p, err := c.AsBool()
	require.NoError(t, err)
	clause, err := p.Render("t0")
	require.NoError(t, err)
	require.Equal(t, `(t0."active" = 1)`, clause)
}

func TestAndOrReinterpretRawHandles(t *testing.T) {
	a := New(fakeTable(1), "a")
	b := New(fakeTable(1), "b")

	combined, err := a.And(b)
	require.NoError(t, err)
	clause, err := combined.Render("t0")
	require.NoError(t, err)
	require.Equal(t, `((t0."a" = 1) AND (t0."b" = 1))`, clause)
}

func TestAndWithExplicitPredicate(t *testing.T) {
	a := New(fakeTable(1), "a")
	explicit, err := New(fakeTable(1), "b").Gt(5)
	require.NoError(t, err)

	combined, err := a.And(explicit)
	require.NoError(t, err)
	clause, err := combined.Render("t0")
	require.NoError(t, err)
	require.Equal(t, `((t0."a" = 1) AND (t0."b" > 5))`, clause)
}
