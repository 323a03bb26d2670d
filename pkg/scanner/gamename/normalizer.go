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

// Package gamename derives comparable variants from game display names
// and decides whether two arbitrary names denote the same game.
package gamename

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// launcherPrefixes are storefront verbs sometimes baked into shortcut
// titles ("Play Grim Dawn").
var launcherPrefixes = []string{"play ", "launch "}

// removeDiacritics strips combining marks so accented titles compare
// equal to folder names typed without them.
func removeDiacritics(s string) string {
	t := transform.Chain(
		norm.NFD,
		runes.Remove(runes.In(unicode.Mn)),
		norm.NFC,
	)
	if normalized, _, err := transform.String(t, s); err == nil {
		return normalized
	}
	return s
}

// Clean produces the canonical display-name form: launcher prefixes
// stripped, trademark glyphs and colons removed, whitespace collapsed.
func Clean(displayName string) string {
	s := strings.TrimSpace(displayName)

	lower := strings.ToLower(s)
	for _, prefix := range launcherPrefixes {
		if strings.HasPrefix(lower, prefix) {
			s = s[len(prefix):]
			break
		}
	}

	s = strings.Map(func(r rune) rune {
		switch r {
		case '™', '®', '©', ':':
			return -1
		}
		return r
	}, s)

	s = removeDiacritics(s)

	return strings.Join(strings.Fields(s), " ")
}

// Tokenize splits a name into lowercased word-like tokens, treating any
// non-alphanumeric rune as a separator.
func Tokenize(name string) []string {
	return strings.FieldsFunc(strings.ToLower(removeDiacritics(name)), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// Acronym builds an acronym from the significant words of name: tokens
// in stopWords (case-insensitive) or shorter than 2 runes are dropped,
// first letters concatenated and uppercased. Returns "" when the result
// is shorter than 2 characters, which callers must treat as "no
// acronym".
func Acronym(name string, stopWords map[string]struct{}) string {
	var b strings.Builder
	letters := 0
	for _, tok := range Tokenize(name) {
		if utf8.RuneCountInString(tok) < 2 {
			continue
		}
		if _, stop := stopWords[tok]; stop {
			continue
		}
		r, _ := utf8.DecodeRuneInString(tok)
		b.WriteRune(r)
		letters++
	}
	if letters < 2 {
		return ""
	}
	return strings.ToUpper(b.String())
}

// Variants returns the ordered set of matchable forms of displayName:
// the cleaned name, the cleaned name without whitespace, an
// alphanumeric-only form, the significant-word acronym, and, for
// colon-separated titles, acronyms of each half. Duplicates and empty
// strings are removed, first occurrence order preserved.
func Variants(displayName string, stopWords map[string]struct{}) []string {
	cleaned := Clean(displayName)
	if cleaned == "" {
		return nil
	}

	candidates := []string{
		cleaned,
		strings.ReplaceAll(cleaned, " ", ""),
		alnumOnly(cleaned),
		Acronym(cleaned, stopWords),
	}

	// Subtitled games are often saved under just one half of the title,
	// so acronyms of each side are worth probing too.
	if before, after, found := strings.Cut(displayName, ":"); found {
		candidates = append(candidates,
			Acronym(Clean(before), stopWords),
			Acronym(Clean(after), stopWords),
		)
	}

	variants := make([]string, 0, len(candidates))
	seen := make(map[string]struct{}, len(candidates))
	for _, v := range candidates {
		if v == "" {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		variants = append(variants, v)
	}
	return variants
}

func alnumOnly(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return -1
	}, s)
}

// StopWordSet lowercases words into a set for the matcher and acronym
// builder.
func StopWordSet(words []string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[strings.ToLower(w)] = struct{}{}
	}
	return set
}
