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

// Package sniff answers one question: does this directory look like it
// contains save files? The check is shallow, read-only, and never
// recurses.
package sniff

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

// Result is the tri-state outcome of a sniff.
type Result int

const (
	// NoSaves means the directory was listed and nothing looked like
	// save data.
	NoSaves Result = iota
	// Saves means at least one top-level file matched.
	Saves
	// Unknown means the directory could not be listed.
	Unknown
)

func (r Result) String() string {
	switch r {
	case Saves:
		return "saves"
	case NoSaves:
		return "no-saves"
	case Unknown:
		return "unknown"
	default:
		return "invalid"
	}
}

// Sniffer inspects directory contents against known save-file
// extensions and filename keywords.
type Sniffer struct {
	fs         afero.Fs
	extensions map[string]struct{}
	keywords   []string
}

// New builds a Sniffer. Extensions are lowercased and must carry their
// leading dot; keywords are lowercased substrings.
func New(fs afero.Fs, extensions, keywords []string) *Sniffer {
	extSet := make(map[string]struct{}, len(extensions))
	for _, ext := range extensions {
		extSet[strings.ToLower(ext)] = struct{}{}
	}
	kw := make([]string, len(keywords))
	for i, k := range keywords {
		kw[i] = strings.ToLower(k)
	}
	return &Sniffer{
		fs:         fs,
		extensions: extSet,
		keywords:   kw,
	}
}

// Sniff checks the top-level regular files of dir and returns on the
// first match. Unknown is returned only when the directory cannot be
// listed; an empty or save-free directory is NoSaves.
func (s *Sniffer) Sniff(dir string) Result {
	entries, err := afero.ReadDir(s.fs, dir)
	if err != nil {
		log.Debug().Err(err).Str("dir", dir).Msg("sniff: cannot list directory")
		return Unknown
	}
	return s.SniffEntries(entries)
}

// SniffEntries applies the same checks to an already-listed directory,
// for callers that hold the listing anyway.
func (s *Sniffer) SniffEntries(entries []os.FileInfo) Result {
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := strings.ToLower(entry.Name())

		if _, ok := s.extensions[filepath.Ext(name)]; ok {
			return Saves
		}
		for _, kw := range s.keywords {
			if strings.Contains(name, kw) {
				return Saves
			}
		}
	}
	return NoSaves
}
