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
	"path/filepath"
	"strings"

	"github.com/Matteo842/savestate-core/pkg/config"
	"github.com/Matteo842/savestate-core/pkg/scanner/sniff"
)

// scoreCandidate is pure: the same candidate and weights always produce
// the same score. All contributions are additive.
func scoreCandidate(c Candidate, w config.Scoring, saveSubdirs, generic map[string]struct{}) int {
	score := 0

	switch c.Source {
	case SourceSteamRemote:
		score += w.SteamRemote
	case SourceSteamBase:
		score += w.SteamBase
	case SourceSteamRemoteSub:
		score += w.SteamRemoteSub
	case SourceDirect:
		score += w.Direct
	case SourceNameMatch:
		score += w.NameMatch
	case SourceSaveSubdir:
		score += w.SaveSubdirInMatch
	case SourceInstallDirWalk:
		score += w.InstallDirWalk
	}

	if c.HasSaves == sniff.Saves {
		score += w.SniffPositive
	}

	base := strings.ToLower(filepath.Base(c.Path))
	if _, ok := saveSubdirs[base]; ok {
		score += w.SaveSubdirName
	}
	// Penalty weights are negative in the configuration.
	if _, ok := generic[base]; ok {
		score += w.GenericPenalty
	}
	if c.SharedRoot {
		score += w.SharedRootPenalty
	}

	return score
}
