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

package memreader

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nextdataplatform/nextdataplatform/relation"
)

func TestOpenColumnarReturnsRegisteredFile(t *testing.T) {
	r := New()
	rel := relation.New([]string{"id"}, [][]any{{1}})
	r.Put("s3://bucket/frag-0.parquet", rel)

	out, err := r.OpenColumnar(context.Background(), "s3://bucket/frag-0.parquet")
	require.NoError(t, err)
	require.Equal(t, rel, out)
}

func TestOpenColumnarUnknownLocation(t *testing.T) {
	r := New()
	r.Put("s3://bucket/frag-0.parquet", relation.New([]string{"id"}, nil))

	_, err := r.OpenColumnar(context.Background(), "s3://bucket/frag-1.parquet")
	require.Error(t, err)
	require.True(t, ErrFileNotFound.Is(err))
	require.Contains(t, err.Error(), "maybe you mean")
}
