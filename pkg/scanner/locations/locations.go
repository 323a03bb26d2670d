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

// Package locations resolves the OS-conventional root directories games
// put user data under. Only roots that actually exist are returned;
// an unresolvable environment variable drops its entry instead of
// failing the search.
package locations

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/adrg/xdg"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"

	"github.com/Matteo842/savestate-core/pkg/platforms/steam"
)

// Location is one scan root. Shared marks machine-wide roots
// (ProgramData, Public Documents) so the scorer can demote candidates
// found there.
type Location struct {
	Label  string
	Path   string
	Shared bool
}

// Resolver builds the scan-location list for one OS identity. All
// inputs are injected so tests can resolve any OS against an in-memory
// filesystem.
type Resolver struct {
	fs    afero.Fs
	env   func(string) string
	steam *steam.Client
	goos  string
	home  string
}

// NewResolver builds a Resolver for the given OS identity.
func NewResolver(fs afero.Fs, goos, home string, env func(string) string) *Resolver {
	return &Resolver{
		fs:    fs,
		goos:  goos,
		home:  home,
		env:   env,
		steam: steam.NewClient(fs, goos, home, env),
	}
}

// DefaultResolver resolves against the running OS and real filesystem.
// XDG base directories come from the xdg library, which honors the
// base-directory environment variables and their defaults.
func DefaultResolver() *Resolver {
	home, _ := os.UserHomeDir()
	env := func(key string) string {
		switch key {
		case "XDG_DATA_HOME":
			return xdg.DataHome
		case "XDG_CONFIG_HOME":
			return xdg.ConfigHome
		default:
			return os.Getenv(key)
		}
	}
	return NewResolver(afero.NewOsFs(), runtime.GOOS, home, env)
}

// Resolve returns the ordered scan locations for the resolver's OS,
// filtered to directories that exist.
func (r *Resolver) Resolve() []Location {
	var candidates []Location
	switch r.goos {
	case "windows":
		candidates = r.windows()
	case "darwin":
		candidates = r.darwin()
	default:
		candidates = r.linux()
	}

	resolved := make([]Location, 0, len(candidates))
	seen := make(map[string]struct{}, len(candidates))
	for _, loc := range candidates {
		if loc.Path == "" {
			continue
		}
		clean := filepath.Clean(loc.Path)
		if _, dup := seen[clean]; dup {
			continue
		}
		info, err := r.fs.Stat(clean)
		if err != nil || !info.IsDir() {
			log.Debug().Str("label", loc.Label).Str("path", clean).
				Msg("skipping missing scan location")
			continue
		}
		seen[clean] = struct{}{}
		loc.Path = clean
		resolved = append(resolved, loc)
	}
	return resolved
}

func (r *Resolver) windows() []Location {
	documents := filepath.Join(r.home, "Documents")
	localAppData := r.env("LOCALAPPDATA")

	locs := []Location{
		{Label: "Saved Games", Path: filepath.Join(r.home, "Saved Games")},
		{Label: "Documents", Path: documents},
		{Label: "My Games", Path: filepath.Join(documents, "My Games")},
		{Label: "AppData/Roaming", Path: r.env("APPDATA")},
		{Label: "AppData/Local", Path: localAppData},
	}
	if localAppData != "" {
		locs = append(locs, Location{
			Label: "AppData/LocalLow",
			Path:  filepath.Join(filepath.Dir(localAppData), "LocalLow"),
		})
	}
	if public := r.env("PUBLIC"); public != "" {
		locs = append(locs, Location{
			Label:  "Public Documents",
			Path:   filepath.Join(public, "Documents"),
			Shared: true,
		})
	}
	if programData := r.env("ProgramData"); programData != "" {
		locs = append(locs, Location{Label: "ProgramData", Path: programData, Shared: true})
	}
	return locs
}

func (r *Resolver) linux() []Location {
	dataHome := r.env("XDG_DATA_HOME")
	if dataHome == "" {
		dataHome = filepath.Join(r.home, ".local", "share")
	}
	configHome := r.env("XDG_CONFIG_HOME")
	if configHome == "" {
		configHome = filepath.Join(r.home, ".config")
	}

	locs := []Location{
		{Label: "XDG Data", Path: dataHome},
		{Label: "XDG Config", Path: configHome},
		{Label: "Home", Path: r.home},
		{Label: "Documents", Path: filepath.Join(r.home, "Documents")},
	}

	locs = append(locs, r.steamLocations()...)
	return locs
}

func (r *Resolver) darwin() []Location {
	appSupport := filepath.Join(r.home, "Library", "Application Support")

	locs := []Location{
		{Label: "Application Support", Path: appSupport},
		{Label: "Preferences", Path: filepath.Join(r.home, "Library", "Preferences")},
		{Label: "Documents", Path: filepath.Join(r.home, "Documents")},
	}

	locs = append(locs, r.steamLocations()...)
	return locs
}

// steamLocations adds the local Steam userdata and compatdata roots
// when a Steam install is present. They are generic scan roots here;
// per-title userdata lookup is a separate generator strategy.
func (r *Resolver) steamLocations() []Location {
	root, ok := r.steam.FindRoot()
	if !ok {
		return nil
	}

	var locs []Location
	if userdata, ok := r.steam.UserdataRoot(root); ok {
		locs = append(locs, Location{Label: "Steam Userdata", Path: userdata})
	}
	compatdata := filepath.Join(root, "steamapps", "compatdata")
	locs = append(locs, Location{Label: "Steam Compatdata", Path: compatdata})
	return locs
}
