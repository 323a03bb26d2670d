// SaveState Core
// Copyright (c) 2026 The SaveState Project Contributors.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of SaveState Core.
//
// SaveState Core is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// SaveState Core is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with SaveState Core.  If not, see <http://www.gnu.org/licenses/>.

package gamename

import (
	"sort"
	"strings"

	"github.com/hbollon/go-edlib"
)

// minCompactionLength gates the prefix/compaction rule so that very
// short compact forms ("fc", "re") cannot claim unrelated folders.
const minCompactionLength = 4

// RatioFunc computes a normalized 0-100 similarity between two already
// case-normalized strings. A nil RatioFunc means the approximate
// capability is unavailable and the matcher degrades to the exact rules.
type RatioFunc func(a, b string) int

// EdlibRatio is the default approximate similarity: a token-order
// insensitive Levenshtein ratio backed by go-edlib, in the spirit of
// a token_sort_ratio.
func EdlibRatio(a, b string) int {
	sim, err := edlib.StringsSimilarity(sortTokens(a), sortTokens(b), edlib.Levenshtein)
	if err != nil {
		return 0
	}
	return int(sim*100 + 0.5)
}

func sortTokens(s string) string {
	tokens := Tokenize(s)
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}

// Matcher decides whether a game name and a directory name denote the
// same game. It is a pure value; construct once per search and reuse.
type Matcher struct {
	stopWords      map[string]struct{}
	ratio          RatioFunc
	minMatchWords  int
	fuzzyThreshold int
}

// NewMatcher builds a Matcher. ratio may be nil to disable approximate
// matching.
func NewMatcher(stopWords map[string]struct{}, minMatchWords, fuzzyThreshold int, ratio RatioFunc) *Matcher {
	return &Matcher{
		stopWords:      stopWords,
		minMatchWords:  minMatchWords,
		fuzzyThreshold: fuzzyThreshold,
		ratio:          ratio,
	}
}

// Similar reports whether a and b denote the same game. Rules are tried
// in priority order and the first satisfied one wins:
//
//  1. significant-word overlap of at least minMatchWords;
//  2. whitespace-free compaction equality or prefix (both sides at
//     least 4 characters);
//  3. approximate ratio at or above fuzzyThreshold, when available.
//
// Called once per directory entry during exploratory walks, so each
// rule bails out as early as it can.
func (m *Matcher) Similar(a, b string) bool {
	if a == "" || b == "" {
		return false
	}

	tokensA := Tokenize(a)
	tokensB := Tokenize(b)

	if m.wordOverlap(tokensA, tokensB) {
		return true
	}
	if m.compactionMatch(tokensA, tokensB) {
		return true
	}
	if m.ratio != nil {
		cleanA := strings.Join(tokensA, " ")
		cleanB := strings.Join(tokensB, " ")
		if m.ratio(cleanA, cleanB) >= m.fuzzyThreshold {
			return true
		}
	}
	return false
}

// wordOverlap counts shared significant tokens: longer than one rune
// and not a stop word.
func (m *Matcher) wordOverlap(tokensA, tokensB []string) bool {
	if len(tokensA) == 0 || len(tokensB) == 0 {
		return false
	}

	shorter, longer := tokensA, tokensB
	if len(longer) < len(shorter) {
		shorter, longer = longer, shorter
	}

	longerSet := make(map[string]struct{}, len(longer))
	for _, tok := range longer {
		if m.significant(tok) {
			longerSet[tok] = struct{}{}
		}
	}

	matched := 0
	counted := make(map[string]struct{}, len(shorter))
	for _, tok := range shorter {
		if !m.significant(tok) {
			continue
		}
		if _, dup := counted[tok]; dup {
			continue
		}
		if _, ok := longerSet[tok]; ok {
			counted[tok] = struct{}{}
			matched++
			if matched >= m.minMatchWords {
				return true
			}
		}
	}
	return false
}

func (m *Matcher) significant(tok string) bool {
	if len(tok) <= 1 {
		return false
	}
	_, stop := m.stopWords[tok]
	return !stop
}

// compactionMatch joins the non-stop-word tokens of each name and tests
// equality or prefix containment. This is what lets "The Witcher 3"
// claim a "Witcher3" folder.
func (m *Matcher) compactionMatch(tokensA, tokensB []string) bool {
	compactA := m.compact(tokensA)
	compactB := m.compact(tokensB)

	if len(compactA) < minCompactionLength || len(compactB) < minCompactionLength {
		return false
	}
	if compactA == compactB {
		return true
	}
	if len(compactA) > len(compactB) {
		return strings.HasPrefix(compactA, compactB)
	}
	return strings.HasPrefix(compactB, compactA)
}

func (m *Matcher) compact(tokens []string) string {
	var b strings.Builder
	for _, tok := range tokens {
		if _, stop := m.stopWords[tok]; stop {
			continue
		}
		b.WriteString(tok)
	}
	return b.String()
}
