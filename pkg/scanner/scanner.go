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

// Package scanner is the save location discovery engine. Given a game's
// display name, and optionally its install directory and Steam
// identifiers, Discover enumerates directories that plausibly hold the
// game's save data and returns them ranked for human confirmation.
//
// The engine is heuristic by design: it never guarantees correctness,
// never modifies the filesystem, and keeps no state between calls.
package scanner

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"

	"github.com/Matteo842/savestate-core/pkg/config"
	"github.com/Matteo842/savestate-core/pkg/scanner/gamename"
	"github.com/Matteo842/savestate-core/pkg/scanner/locations"
	"github.com/Matteo842/savestate-core/pkg/scanner/sniff"
)

// Query is one discovery request. Only DisplayName is required; the
// Steam fields are used together or not at all.
type Query struct {
	DisplayName       string
	InstallDir        string
	SteamAppID        string
	SteamUserdataRoot string
	SteamUserID       string
}

// Source records which strategy first discovered a candidate. Later
// strategies finding the same path never overwrite it.
type Source int

const (
	// SourceDirect is a path constructed from a scan location and a
	// name variant (optionally through a publisher folder).
	SourceDirect Source = iota
	// SourceNameMatch is a directory whose name matched a variant
	// during the exploratory walk.
	SourceNameMatch
	// SourceSaveSubdir is a save-named folder probed inside a matched
	// parent.
	SourceSaveSubdir
	// SourceInstallDirWalk is a hit inside the game's install tree.
	SourceInstallDirWalk
	// SourceSteamRemote is the per-title userdata "remote" folder.
	SourceSteamRemote
	// SourceSteamRemoteSub is a relevant folder inside "remote".
	SourceSteamRemoteSub
	// SourceSteamBase is the per-title userdata folder itself.
	SourceSteamBase
)

func (s Source) String() string {
	switch s {
	case SourceDirect:
		return "direct"
	case SourceNameMatch:
		return "name-match"
	case SourceSaveSubdir:
		return "save-subdir"
	case SourceInstallDirWalk:
		return "install-dir-walk"
	case SourceSteamRemote:
		return "steam-remote"
	case SourceSteamRemoteSub:
		return "steam-remote-sub"
	case SourceSteamBase:
		return "steam-base"
	default:
		return "unknown"
	}
}

// Candidate is a directory hypothesized to contain save data.
type Candidate struct {
	Path       string
	Source     Source
	HasSaves   sniff.Result
	SharedRoot bool
}

// ScoredCandidate pairs a candidate with its ranking score.
type ScoredCandidate struct {
	Candidate
	Score int
}

// Engine runs discovery searches. It is stateless across calls and safe
// to reuse; a single Discover call is strictly sequential.
type Engine struct {
	fs       afero.Fs
	resolver *locations.Resolver
	ratio    gamename.RatioFunc
	cfg      config.Values
}

// Option customizes an Engine.
type Option func(*Engine)

// WithRatio overrides the approximate-similarity capability. Passing
// nil disables approximate matching entirely; the name matcher then
// degrades to its exact rules.
func WithRatio(ratio gamename.RatioFunc) Option {
	return func(e *Engine) { e.ratio = ratio }
}

// New builds an Engine. The configuration is validated up front; this
// is the only place the engine can fail before a search.
func New(fs afero.Fs, cfg config.Values, resolver *locations.Resolver, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	e := &Engine{
		fs:       fs,
		cfg:      cfg,
		resolver: resolver,
		ratio:    gamename.EdlibRatio,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Discover runs the four generator strategies in order and returns the
// deduplicated candidates, highest score first, path ascending on ties.
// An empty display name yields an empty result, not an error.
// Cancelling ctx stops further filesystem probes promptly and returns
// whatever was already collected; cancellation is not an error.
func (e *Engine) Discover(ctx context.Context, q Query) ([]ScoredCandidate, error) {
	if strings.TrimSpace(q.DisplayName) == "" {
		return nil, nil
	}

	s := e.newSearch(ctx, q)
	if len(s.variants) == 0 {
		return nil, nil
	}

	log.Debug().
		Str("game", q.DisplayName).
		Strs("variants", s.variants).
		Int("locations", len(s.locs)).
		Msg("starting save location discovery")

	s.runSteamUserdata()
	s.runDirect()
	s.runExploratory()
	s.runInstallDir()

	results := e.rank(s.found)

	log.Debug().
		Str("game", q.DisplayName).
		Int("candidates", len(results)).
		Int("probes", s.probes).
		Msg("discovery finished")

	return results, nil
}

func (e *Engine) rank(found []Candidate) []ScoredCandidate {
	saveSubdirs := lowerSet(e.cfg.Search.SaveSubdirNames)
	generic := lowerSet(e.cfg.Scoring.GenericNames)

	scored := make([]ScoredCandidate, len(found))
	for i, c := range found {
		scored[i] = ScoredCandidate{
			Candidate: c,
			Score:     scoreCandidate(c, e.cfg.Scoring, saveSubdirs, generic),
		}
	}

	sort.Slice(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].Path < scored[j].Path
	})
	return scored
}

// normKey is the identity of a candidate path: cleaned, slash
// normalized, and lowercased so FAT-style filesystems dedup correctly.
func normKey(path string) string {
	return strings.ToLower(filepath.ToSlash(filepath.Clean(path)))
}

// isFSRoot rejects filesystem roots ("/", "C:\") as candidates.
func isFSRoot(path string) bool {
	if path == filepath.Dir(path) {
		return true
	}
	if len(path) == 2 && path[1] == ':' {
		return true
	}
	if len(path) == 3 && path[1] == ':' && (path[2] == '\\' || path[2] == '/') {
		return true
	}
	return false
}

func lowerSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[strings.ToLower(v)] = struct{}{}
	}
	return set
}
