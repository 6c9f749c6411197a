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

// Package text_distance computes Levenshtein edit distance between short
// strings, used to find the closest known name to an unrecognized one.
package text_distance

// Distance computes the Levenshtein edit distance between a and b.
func Distance(a, b string) int {
	ra, rb := []rune(a), []rune(b)

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min3(curr[j-1]+1, prev[j]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}

	return prev[len(rb)]
}

func min3(a, b, c int) int {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}

// FindSimilarName returns the name in names closest (by edit distance) to
// name. If name is empty, the first element of names is returned. If names
// is empty, the empty string is returned.
func FindSimilarName(names []string, name string) string {
	if len(names) == 0 {
		return ""
	}
	if name == "" {
		return names[0]
	}

	best := names[0]
	bestDist := Distance(names[0], name)
	for _, n := range names[1:] {
		if d := Distance(n, name); d < bestDist {
			bestDist = d
			best = n
		}
	}
	return best
}

// FindSimilarNameFromMap is FindSimilarName over a map's keys.
func FindSimilarNameFromMap(names map[string]int, name string) string {
	if len(names) == 0 {
		return ""
	}
	if name == "" {
		for n := range names {
			return n
		}
	}

	var best string
	bestDist := -1
	for n := range names {
		d := Distance(n, name)
		if bestDist == -1 || d < bestDist {
			bestDist = d
			best = n
		}
	}
	return best
}
