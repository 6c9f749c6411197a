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

// Package similartext formats "did you mean" suggestions for an unknown
// name given a list of known ones, used by the plan package's
// ErrProjectionWidensSelection, memcatalog's ErrTableNotFound, and
// memreader's ErrFileNotFound messages to make them actionable.
package similartext

import (
	"fmt"
	"strings"

	"github.com/nextdataplatform/nextdataplatform/internal/text_distance"
)

// closeEnoughDistance is the maximum edit distance accepted as "probably a
// typo of" another name.
const closeEnoughDistance = 1

// Find returns a ", maybe you mean X?" (or "X or Y?") suffix listing every
// name within closeEnoughDistance of name, in names order. It returns the
// empty string if name is empty, names is empty, or nothing is close
// enough to suggest.
func Find(names []string, name string) string {
	suggestions := closeMatches(names, name)
	if len(suggestions) == 0 {
		return ""
	}
	return fmt.Sprintf(", maybe you mean %s?", joinOr(suggestions))
}

// FindFromMap is Find over a map's keys.
func FindFromMap(names map[string]int, name string) string {
	keys := make([]string, 0, len(names))
	for n := range names {
		keys = append(keys, n)
	}
	return Find(keys, name)
}

func closeMatches(names []string, name string) []string {
	if name == "" || len(names) == 0 {
		return nil
	}

	var matches []string
	for _, n := range names {
		if text_distance.Distance(n, name) <= closeEnoughDistance {
			matches = append(matches, n)
		}
	}
	return matches
}

func joinOr(names []string) string {
	if len(names) == 1 {
		return names[0]
	}
	return strings.Join(names[:len(names)-1], ", ") + " or " + names[len(names)-1]
}
