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

package steam

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/andygrunwald/vdf"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

// App is one installed Steam game.
type App struct {
	ID         string
	Name       string
	InstallDir string
}

// Libraries returns every Steam library root (including root itself)
// listed in libraryfolders.vdf. Missing or unparsable files degrade to
// just the root install.
func (c *Client) Libraries(root string) []string {
	libraries := []string{root}

	m, err := c.parseVDF(filepath.Join(root, "steamapps", "libraryfolders.vdf"))
	if err != nil {
		log.Warn().Err(err).Msg("cannot read libraryfolders.vdf, using root library only")
		return libraries
	}

	folders, ok := m["libraryfolders"].(map[string]any)
	if !ok {
		return libraries
	}

	seen := map[string]struct{}{filepath.Clean(root): {}}
	// Map iteration order is random; sort the slot keys for stable output.
	slots := make([]string, 0, len(folders))
	for slot := range folders {
		slots = append(slots, slot)
	}
	sort.Strings(slots)

	for _, slot := range slots {
		entry, ok := folders[slot].(map[string]any)
		if !ok {
			continue
		}
		path, ok := entry["path"].(string)
		if !ok || path == "" {
			continue
		}
		clean := filepath.Clean(path)
		if _, dup := seen[clean]; dup {
			continue
		}
		if info, err := c.fs.Stat(clean); err != nil || !info.IsDir() {
			continue
		}
		seen[clean] = struct{}{}
		libraries = append(libraries, clean)
	}
	return libraries
}

// ScanInstalled lists installed games across all libraries by reading
// each library's appmanifest files.
func (c *Client) ScanInstalled(root string) ([]App, error) {
	var apps []App

	for _, library := range c.Libraries(root) {
		steamapps := filepath.Join(library, "steamapps")
		entries, err := afero.ReadDir(c.fs, steamapps)
		if err != nil {
			log.Debug().Err(err).Str("library", library).Msg("cannot list steamapps")
			continue
		}

		for _, entry := range entries {
			name := entry.Name()
			if entry.IsDir() || !strings.HasPrefix(name, "appmanifest_") ||
				!strings.HasSuffix(name, ".acf") {
				continue
			}
			app, err := c.readManifest(filepath.Join(steamapps, name))
			if err != nil {
				log.Warn().Err(err).Str("manifest", name).Msg("skipping unreadable manifest")
				continue
			}
			if app == nil {
				continue
			}
			apps = append(apps, *app)
		}
	}

	sort.Slice(apps, func(i, j int) bool { return apps[i].ID < apps[j].ID })
	return apps, nil
}

// readManifest extracts one App from an appmanifest_*.acf file. Runtime
// tooling (Proton, Steam Linux Runtime) is filtered out; it is never
// what a save search is after.
func (c *Client) readManifest(path string) (*App, error) {
	m, err := c.parseVDF(path)
	if err != nil {
		return nil, err
	}

	appState, ok := m["appstate"].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("appstate missing in manifest %s", path)
	}

	appID, ok := appState["appid"].(string)
	if !ok {
		return nil, fmt.Errorf("appid missing in manifest %s", path)
	}
	name, ok := appState["name"].(string)
	if !ok {
		return nil, fmt.Errorf("name missing in manifest %s", path)
	}
	installDir, ok := appState["installdir"].(string)
	if !ok || installDir == "" {
		return nil, nil
	}

	lower := strings.ToLower(name)
	if strings.HasPrefix(lower, "proton") ||
		(strings.Contains(lower, "steam") && strings.Contains(lower, "runtime")) {
		return nil, nil
	}

	library := filepath.Dir(filepath.Dir(path))
	return &App{
		ID:         appID,
		Name:       name,
		InstallDir: filepath.Join(library, "steamapps", "common", installDir),
	}, nil
}

func (c *Client) parseVDF(path string) (map[string]any, error) {
	f, err := c.fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Str("path", path).Msg("error closing vdf file")
		}
	}()

	m, err := vdf.NewParser(f).Parse()
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return normalizeVDFKeys(m), nil
}
