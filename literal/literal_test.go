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

package literal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	testCases := []struct {
		name     string
		value    Value
		expected string
	}{
		{"string", NewString("hello"), "'hello'"},
		{"string with quote", NewString("it's"), "'it''s'"},
		{"int", NewInt(42), "42"},
		{"negative int", NewInt(-7), "-7"},
		{"float", NewFloat(3.5), "3.5"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rendered, err := tc.value.Render()
			require.NoError(t, err)
			require.Equal(t, tc.expected, rendered)
		})
	}
}

func TestRenderTimestamp(t *testing.T) {
	ts := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	rendered, err := NewTimestamp(ts).Render()
	require.NoError(t, err)
	require.Equal(t, "'"+ts.Format(TimestampLayout)+"'", rendered)
}

func TestRenderRejectsNUL(t *testing.T) {
	_, err := NewString("bad\x00value").Render()
	require.True(t, ErrInvalidLiteral.Is(err))
}

func TestFrom(t *testing.T) {
	v, err := From(3)
	require.NoError(t, err)
	require.Equal(t, Int, v.Kind())

	v, err = From(3.5)
	require.NoError(t, err)
	require.Equal(t, Float, v.Kind())

	v, err = From("x")
	require.NoError(t, err)
	require.Equal(t, String, v.Kind())

	_, err = From(struct{}{})
	require.True(t, ErrInvalidLiteral.Is(err))
}

func TestCompare(t *testing.T) {
	c, err := Compare(5, NewInt(10))
	require.NoError(t, err)
	require.Equal(t, -1, c)

	c, err = Compare(10, NewInt(10))
	require.NoError(t, err)
	require.Equal(t, 0, c)

	c, err = Compare("b", NewString("a"))
	require.NoError(t, err)
	require.Equal(t, 1, c)
}
