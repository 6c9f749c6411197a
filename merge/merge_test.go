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

package merge

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nextdataplatform/nextdataplatform/engine"
	"github.com/nextdataplatform/nextdataplatform/engine/memengine"
	"github.com/nextdataplatform/nextdataplatform/literal"
	"github.com/nextdataplatform/nextdataplatform/manifest"
	"github.com/nextdataplatform/nextdataplatform/predicate"
	"github.com/nextdataplatform/nextdataplatform/reader/memreader"
	"github.com/nextdataplatform/nextdataplatform/relation"
	"github.com/nextdataplatform/nextdataplatform/schema"
	"github.com/nextdataplatform/nextdataplatform/table"
	"github.com/nextdataplatform/nextdataplatform/version"
)

func newResources(t *testing.T, files map[string]relation.Relation) (table.Resources, *memreader.FileReader) {
	t.Helper()
	r := memreader.New()
	for loc, rel := range files {
		r.Put(loc, rel)
	}
	return table.Resources{
		Reader: r,
		NewEngine: func(ctx context.Context) (engine.Engine, error) {
			return memengine.New(), nil
		},
	}, r
}

// S1: simple projection, no dedup, no deletes.
func TestMaterializeSimpleProjection(t *testing.T) {
	files := map[string]relation.Relation{
		"w1": relation.New([]string{"id", "a", "b"}, [][]any{{1, 10, "x"}, {2, 20, "y"}}),
	}
	res, _ := newResources(t, files)
	h := table.New(version.ID(1), schema.New(nil), []manifest.Entry{
		{Kind: manifest.Write, Location: "w1"},
	}, res)

	out, err := h.Project([]string{"a", "b"})
	require.NoError(t, err)
	h2 := out.(*table.Handle)

	result, err := Materialize(context.Background(), h2)
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b"}, result.Columns)
	require.Equal(t, [][]any{{10, "x"}, {20, "y"}}, result.Rows)
}

// S2: deduplication across two WRITE fragments.
func TestMaterializeDeduplication(t *testing.T) {
	files := map[string]relation.Relation{
		"w1": relation.New([]string{"id", "v"}, [][]any{{1, 100}, {2, 200}}),
		"w2": relation.New([]string{"id", "v"}, [][]any{{1, 101}, {3, 300}}),
	}
	res, _ := newResources(t, files)
	h := table.New(version.ID(1), schema.New([]string{"id"}), []manifest.Entry{
		{Kind: manifest.Write, Location: "w1"},
		{Kind: manifest.Write, Location: "w2"},
	}, res)

	result, err := Materialize(context.Background(), h)
	require.NoError(t, err)
	require.Equal(t, [][]any{{2, 200}, {1, 101}, {3, 300}}, result.Rows)
}

// S3: delete suppresses an older WRITE's row.
func TestMaterializeDelete(t *testing.T) {
	files := map[string]relation.Relation{
		"w1": relation.New([]string{"id", "a"}, [][]any{{1, 10}, {2, 20}}),
		"d1": relation.New([]string{"id"}, [][]any{{1}}),
		"w2": relation.New([]string{"id", "a"}, [][]any{{3, 30}}),
	}
	res, _ := newResources(t, files)
	h := table.New(version.ID(1), schema.New(nil), []manifest.Entry{
		{Kind: manifest.Write, Location: "w1"},
		{Kind: manifest.Delete, Location: "d1"},
		{Kind: manifest.Write, Location: "w2"},
	}, res)

	result, err := Materialize(context.Background(), h)
	require.NoError(t, err)
	require.Equal(t, [][]any{{2, 20}, {3, 30}}, result.Rows)
}

// S4: delete and dedup combined; w1's row is suppressed by both.
func TestMaterializeDeleteAndDedupCombined(t *testing.T) {
	files := map[string]relation.Relation{
		"w1": relation.New([]string{"id", "v"}, [][]any{{1, 100}}),
		"d1": relation.New([]string{"id"}, [][]any{{1}}),
		"w2": relation.New([]string{"id", "v"}, [][]any{{1, 200}, {2, 20}}),
	}
	res, _ := newResources(t, files)
	h := table.New(version.ID(1), schema.New([]string{"id"}), []manifest.Entry{
		{Kind: manifest.Write, Location: "w1"},
		{Kind: manifest.Delete, Location: "d1"},
		{Kind: manifest.Write, Location: "w2"},
	}, res)

	result, err := Materialize(context.Background(), h)
	require.NoError(t, err)
	require.Equal(t, [][]any{{1, 200}, {2, 20}}, result.Rows)
}

// S5: a BETWEEN predicate over a single WRITE.
func TestMaterializePredicate(t *testing.T) {
	files := map[string]relation.Relation{
		"w1": relation.New([]string{"t", "x"}, [][]any{{"2024-01-01", 5}, {"2024-06-01", 7}, {"2025-01-01", 9}}),
	}
	res, _ := newResources(t, files)
	h := table.New(version.ID(1), schema.New(nil), []manifest.Entry{
		{Kind: manifest.Write, Location: "w1"},
	}, res)

	p := predicate.NewLeaf(h.VersionID(), "x", predicate.BETWEEN, literal.NewInt(6), literal.NewInt(8))
	out, err := h.Project(p)
	require.NoError(t, err)
	h2 := out.(*table.Handle)

	result, err := Materialize(context.Background(), h2)
	require.NoError(t, err)
	require.Equal(t, [][]any{{"2024-06-01", 7}}, result.Rows)
}

// S6: composite predicate with negation, NOT((a=1) AND (b=1)).
func TestMaterializeCompositePredicateWithNegation(t *testing.T) {
	files := map[string]relation.Relation{
		"w1": relation.New([]string{"a", "b"}, [][]any{{1, 1}, {1, 2}, {2, 1}}),
	}
	res, _ := newResources(t, files)
	h := table.New(version.ID(1), schema.New(nil), []manifest.Entry{
		{Kind: manifest.Write, Location: "w1"},
	}, res)

	a := predicate.NewLeaf(h.VersionID(), "a", predicate.EQ, literal.NewInt(1))
	b := predicate.NewLeaf(h.VersionID(), "b", predicate.EQ, literal.NewInt(1))
	p := predicate.And(a, b).Not()

	out, err := h.Project(p)
	require.NoError(t, err)
	h2 := out.(*table.Handle)

	result, err := Materialize(context.Background(), h2)
	require.NoError(t, err)
	require.Equal(t, [][]any{{1, 2}, {2, 1}}, result.Rows)
}

// Edge case (SPEC_FULL §4.6): a row excluded by the user predicate is still
// recorded in Seen, so a later (older) WRITE's identically-keyed row is
// still suppressed even though the newer row never appeared in the output.
func TestMaterializeSeenExtensionIgnoresUserPredicate(t *testing.T) {
	files := map[string]relation.Relation{
		"w1": relation.New([]string{"id", "v"}, [][]any{{1, 999}}),  // excluded by predicate below
		"w2": relation.New([]string{"id", "v"}, [][]any{{1, 100}}),  // older, same dedup key
	}
	res, _ := newResources(t, files)
	h := table.New(version.ID(1), schema.New([]string{"id"}), []manifest.Entry{
		{Kind: manifest.Write, Location: "w2"},
		{Kind: manifest.Write, Location: "w1"},
	}, res)

	// Only rows with v < 500 are wanted; w1's row (v=999) is filtered out of
	// the output, but must still suppress w2's older row with the same id.
	p := predicate.NewLeaf(h.VersionID(), "v", predicate.LT, literal.NewInt(500))
	out, err := h.Project(p)
	require.NoError(t, err)
	h2 := out.(*table.Handle)

	result, err := Materialize(context.Background(), h2)
	require.NoError(t, err)
	require.Empty(t, result.Rows)
}

func TestMaterializeEmptyManifestWithExplicitProjection(t *testing.T) {
	res, _ := newResources(t, nil)
	h := table.New(version.ID(1), schema.New(nil), nil, res)

	out, err := h.Project([]string{"a", "b"})
	require.NoError(t, err)
	h2 := out.(*table.Handle)

	result, err := Materialize(context.Background(), h2)
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b"}, result.Columns)
	require.Empty(t, result.Rows)
}

func TestMaterializeHeterogeneousDeletesFails(t *testing.T) {
	files := map[string]relation.Relation{
		"w1": relation.New([]string{"id"}, [][]any{{1}}),
		"d1": relation.New([]string{"id"}, [][]any{{1}}),
		"d2": relation.New([]string{"id", "extra"}, [][]any{{2, "z"}}),
	}
	res, _ := newResources(t, files)
	h := table.New(version.ID(1), schema.New(nil), []manifest.Entry{
		{Kind: manifest.Write, Location: "w1"},
		{Kind: manifest.Delete, Location: "d1"},
		{Kind: manifest.Delete, Location: "d2"},
	}, res)

	_, err := Materialize(context.Background(), h)
	require.Error(t, err)
	require.True(t, ErrHeterogeneousDeletes.Is(err))
}

func TestMaterializeUnknownFragmentKind(t *testing.T) {
	files := map[string]relation.Relation{
		"w1": relation.New([]string{"id"}, [][]any{{1}}),
	}
	res, _ := newResources(t, files)
	h := table.New(version.ID(1), schema.New(nil), []manifest.Entry{
		{Kind: manifest.Kind("upsert"), Location: "w1"},
	}, res)

	_, err := Materialize(context.Background(), h)
	require.Error(t, err)
	require.True(t, ErrUnknownFragmentKind.Is(err))
}

func TestMaterializeCancelledContext(t *testing.T) {
	files := map[string]relation.Relation{
		"w1": relation.New([]string{"id"}, [][]any{{1}}),
	}
	res, _ := newResources(t, files)
	h := table.New(version.ID(1), schema.New(nil), []manifest.Entry{
		{Kind: manifest.Write, Location: "w1"},
	}, res)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Materialize(ctx, h)
	require.Error(t, err)
	require.True(t, ErrCancelled.Is(err))
}

func TestMaterializeNewerDeleteSuppressesOlderWrite(t *testing.T) {
	files := map[string]relation.Relation{
		"w1": relation.New([]string{"id", "v"}, [][]any{{1, 1}}),
		"d1": relation.New([]string{"id"}, [][]any{{1}}),
	}
	res, _ := newResources(t, files)
	h := table.New(version.ID(1), schema.New([]string{"id"}), []manifest.Entry{
		{Kind: manifest.Write, Location: "w1"},
		{Kind: manifest.Delete, Location: "d1"},
	}, res)

	result, err := Materialize(context.Background(), h)
	require.NoError(t, err)
	require.Empty(t, result.Rows)
}
