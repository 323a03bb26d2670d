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

package scanner

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"

	"github.com/Matteo842/savestate-core/pkg/scanner/gamename"
	"github.com/Matteo842/savestate-core/pkg/scanner/locations"
	"github.com/Matteo842/savestate-core/pkg/scanner/sniff"
)

// remoteCacheFile is Steam Cloud's sync manifest. A userdata folder
// holding only this file has no actual save payload.
const remoteCacheFile = "remotecache.vdf"

// search carries the per-call state of one Discover run. Every strategy
// funnels hits through addCandidate, so dedup and the structural bounds
// are enforced in one place.
type search struct {
	engine   *Engine
	ctx      context.Context
	q        Query
	cleaned  string
	variants []string
	matcher  *gamename.Matcher
	sniffer  *sniff.Sniffer
	locs     []locations.Location

	saveSubdirs map[string]struct{}
	banned      map[string]struct{}

	seen   map[string]struct{}
	found  []Candidate
	probes int
}

func (e *Engine) newSearch(ctx context.Context, q Query) *search {
	cfg := e.cfg.Search
	stopWords := gamename.StopWordSet(cfg.StopWords)

	s := &search{
		engine:      e,
		ctx:         ctx,
		q:           q,
		cleaned:     gamename.Clean(q.DisplayName),
		variants:    gamename.Variants(q.DisplayName, stopWords),
		matcher:     gamename.NewMatcher(stopWords, cfg.MinMatchWords, cfg.FuzzyThreshold, e.ratio),
		sniffer:     sniff.New(e.fs, cfg.SaveExtensions, cfg.SaveFilenameKeywords),
		saveSubdirs: lowerSet(cfg.SaveSubdirNames),
		banned:      lowerSet(cfg.BannedFolderNames),
		seen:        make(map[string]struct{}),
	}

	if e.resolver != nil {
		s.locs = e.resolver.Resolve()
	}
	return s
}

// halted reports whether the search must stop issuing filesystem work,
// either because the caller cancelled or the probe budget ran out.
func (s *search) halted() bool {
	if s.ctx.Err() != nil {
		return true
	}
	return s.probes >= s.engine.cfg.Search.MaxTotalProbes
}

// listDir consumes one probe and returns the directory's entries,
// capped at MaxDirsPerLevel to bound fan-out on pathological trees.
// ok is false when the listing failed or the search is halted.
func (s *search) listDir(dir string) ([]os.FileInfo, bool) {
	if s.halted() {
		return nil, false
	}
	s.probes++

	entries, err := afero.ReadDir(s.engine.fs, dir)
	if err != nil {
		return nil, false
	}
	if max := s.engine.cfg.Search.MaxDirsPerLevel; len(entries) > max {
		entries = entries[:max]
	}
	return entries, true
}

// addCandidate records a hit if the path is new, exists as a directory,
// and is not a filtered location. First strategy in wins: a path is
// tagged with the source that found it first. On success it returns the
// directory's listing so callers can probe deeper without relisting.
func (s *search) addCandidate(path string, source Source, shared bool) []os.FileInfo {
	if s.halted() {
		return nil
	}

	key := normKey(path)
	if _, ok := s.seen[key]; ok {
		return nil
	}
	if isFSRoot(filepath.Clean(path)) {
		return nil
	}
	info, err := s.engine.fs.Stat(path)
	if err != nil || !info.IsDir() {
		return nil
	}

	entries, ok := s.listDir(path)
	if !ok {
		if s.halted() {
			return nil
		}
		// The directory exists but cannot be listed. Still worth
		// reporting; its contents are simply unknown.
		log.Debug().Str("path", path).Msg("candidate directory is not listable")
		s.seen[key] = struct{}{}
		s.found = append(s.found, Candidate{
			Path:       filepath.Clean(path),
			Source:     source,
			HasSaves:   sniff.Unknown,
			SharedRoot: shared,
		})
		return nil
	}
	// A Steam userdata folder whose only content is the cloud sync
	// manifest has nothing worth backing up.
	if len(entries) == 1 && !entries[0].IsDir() &&
		strings.EqualFold(entries[0].Name(), remoteCacheFile) {
		return nil
	}

	s.seen[key] = struct{}{}
	s.found = append(s.found, Candidate{
		Path:       filepath.Clean(path),
		Source:     source,
		HasSaves:   s.sniffer.SniffEntries(entries),
		SharedRoot: shared,
	})
	return entries
}

// nameMatch reports whether a folder name refers to the queried game.
func (s *search) nameMatch(folder string) bool {
	for _, v := range s.variants {
		if strings.EqualFold(folder, v) {
			return true
		}
	}
	return s.matcher.Similar(s.cleaned, folder)
}

// probeSaveSubdirs records save-named child folders of a matched
// directory. It works off the parent's existing listing, so it never
// deepens the walk.
func (s *search) probeSaveSubdirs(dir string, entries []os.FileInfo, shared bool) {
	for _, entry := range entries {
		if s.halted() {
			return
		}
		if !entry.IsDir() {
			continue
		}
		if _, ok := s.saveSubdirs[strings.ToLower(entry.Name())]; ok {
			s.addCandidate(filepath.Join(dir, entry.Name()), SourceSaveSubdir, shared)
		}
	}
}

// runSteamUserdata inspects <userdata>/<user>/<appid>. The "remote"
// folder is Steam Cloud's payload and is the strongest signal there is;
// the per-title base folder is nearly as strong.
func (s *search) runSteamUserdata() {
	if s.q.SteamAppID == "" || s.q.SteamUserdataRoot == "" || s.q.SteamUserID == "" {
		return
	}

	base := filepath.Join(s.q.SteamUserdataRoot, s.q.SteamUserID, s.q.SteamAppID)
	remote := filepath.Join(base, "remote")

	for _, entry := range s.addCandidate(remote, SourceSteamRemote, false) {
		if !entry.IsDir() {
			continue
		}
		name := entry.Name()
		if _, save := s.saveSubdirs[strings.ToLower(name)]; save || s.nameMatch(name) {
			s.addCandidate(filepath.Join(remote, name), SourceSteamRemoteSub, false)
		}
	}
	s.addCandidate(base, SourceSteamBase, false)
}

// runDirect constructs paths from each scan location and name variant,
// optionally through a known publisher folder, and keeps the ones that
// exist. No enumeration happens here; everything is a direct join.
func (s *search) runDirect() {
	for _, loc := range s.locs {
		for _, v := range s.variants {
			if s.halted() {
				return
			}
			s.probeDirect(filepath.Join(loc.Path, v), loc.Shared)
			for _, pub := range s.engine.cfg.Search.Publishers {
				s.probeDirect(filepath.Join(loc.Path, pub, v), loc.Shared)
			}
		}
	}
}

func (s *search) probeDirect(path string, shared bool) {
	entries := s.addCandidate(path, SourceDirect, shared)
	s.probeSaveSubdirs(path, entries, shared)
}

// runExploratory walks each scan location at most two levels deep
// looking for folders named after the game. Banned folders are never
// descended into.
func (s *search) runExploratory() {
	for _, loc := range s.locs {
		if s.halted() {
			return
		}
		lvl1Entries, _ := s.listDir(loc.Path)
		for _, lvl1 := range lvl1Entries {
			if !lvl1.IsDir() || s.isBanned(lvl1.Name()) {
				continue
			}
			lvl1Path := filepath.Join(loc.Path, lvl1.Name())
			// Level two is enumerated regardless of the level-one
			// outcome; a matched folder can itself hold a folder
			// named after the game.
			var lvl2Entries []os.FileInfo
			if s.nameMatch(lvl1.Name()) {
				lvl2Entries = s.addCandidate(lvl1Path, SourceNameMatch, loc.Shared)
				s.probeSaveSubdirs(lvl1Path, lvl2Entries, loc.Shared)
			}
			if lvl2Entries == nil {
				lvl2Entries, _ = s.listDir(lvl1Path)
			}
			// Publisher-style nesting: <location>/<studio>/<game>.
			lvl1IsPublisher := s.isPublisher(lvl1.Name())
			for _, lvl2 := range lvl2Entries {
				if !lvl2.IsDir() || s.isBanned(lvl2.Name()) {
					continue
				}
				lvl2Path := filepath.Join(lvl1Path, lvl2.Name())
				if s.nameMatch(lvl2.Name()) {
					entries := s.addCandidate(lvl2Path, SourceNameMatch, loc.Shared)
					s.probeSaveSubdirs(lvl2Path, entries, loc.Shared)
					continue
				}
				// Save-named folders directly under a publisher dir
				// ("My Games/Saves") are worth reporting even without
				// a name match.
				if lvl1IsPublisher {
					if _, save := s.saveSubdirs[strings.ToLower(lvl2.Name())]; save {
						s.addCandidate(lvl2Path, SourceSaveSubdir, loc.Shared)
					}
				}
			}
		}
	}
}

// runInstallDir breadth-first walks the install tree, keeping
// directories that carry a save folder name or are named after the
// game. Only kept directories are sniffed. Depth is measured in levels
// below the install root.
func (s *search) runInstallDir() {
	root := s.q.InstallDir
	if root == "" {
		return
	}
	if ok, _ := afero.DirExists(s.engine.fs, root); !ok {
		return
	}

	type node struct {
		path  string
		depth int
	}
	queue := []node{{path: root, depth: 0}}

	for len(queue) > 0 {
		if s.halted() {
			return
		}
		cur := queue[0]
		queue = queue[1:]

		entries, _ := s.listDir(cur.path)
		for _, entry := range entries {
			if !entry.IsDir() || s.isBanned(entry.Name()) {
				continue
			}
			child := node{path: filepath.Join(cur.path, entry.Name()), depth: cur.depth + 1}

			if _, save := s.saveSubdirs[strings.ToLower(entry.Name())]; save || s.nameMatch(entry.Name()) {
				s.addCandidate(child.path, SourceInstallDirWalk, false)
			}

			if child.depth < s.engine.cfg.Search.MaxWalkDepth {
				queue = append(queue, child)
			}
		}
	}
}

func (s *search) isBanned(name string) bool {
	_, ok := s.banned[strings.ToLower(name)]
	return ok
}

func (s *search) isPublisher(name string) bool {
	for _, pub := range s.engine.cfg.Search.Publishers {
		if strings.EqualFold(name, pub) {
			return true
		}
	}
	return false
}
