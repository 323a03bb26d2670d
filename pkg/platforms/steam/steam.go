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

// Package steam locates a local Steam installation and reads the
// metadata the discovery engine needs: installed games with their
// install directories, the userdata root, and account identifiers.
// Everything is read-only.
package steam

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/afero"
)

// steamID64Base converts between SteamID3 (userdata folder names) and
// SteamID64 (loginusers.vdf keys).
const steamID64Base = 76561197960265728

// Client reads Steam metadata from an injected filesystem, so tests can
// run against an in-memory layout.
type Client struct {
	fs   afero.Fs
	env  func(string) string
	goos string
	home string
}

// NewClient builds a Client for the given OS identity, home directory,
// and environment lookup.
func NewClient(fs afero.Fs, goos, home string, env func(string) string) *Client {
	return &Client{
		fs:   fs,
		goos: goos,
		home: home,
		env:  env,
	}
}

// DefaultClient reads the real filesystem and process environment.
func DefaultClient() *Client {
	home, _ := os.UserHomeDir()
	return NewClient(afero.NewOsFs(), runtime.GOOS, home, os.Getenv)
}

// FindRoot returns the first existing conventional Steam root for the
// client's OS, or ok=false when Steam does not appear to be installed.
func (c *Client) FindRoot() (string, bool) {
	for _, candidate := range c.rootCandidates() {
		if candidate == "" {
			continue
		}
		if info, err := c.fs.Stat(candidate); err == nil && info.IsDir() {
			return candidate, true
		}
	}
	return "", false
}

func (c *Client) rootCandidates() []string {
	switch c.goos {
	case "windows":
		var candidates []string
		if pf := c.env("ProgramFiles(x86)"); pf != "" {
			candidates = append(candidates, filepath.Join(pf, "Steam"))
		}
		if pf := c.env("ProgramFiles"); pf != "" {
			candidates = append(candidates, filepath.Join(pf, "Steam"))
		}
		return append(candidates, `C:\Program Files (x86)\Steam`)
	case "darwin":
		return []string{
			filepath.Join(c.home, "Library", "Application Support", "Steam"),
		}
	default:
		return []string{
			filepath.Join(c.home, ".steam", "steam"),
			filepath.Join(c.home, ".local", "share", "Steam"),
			filepath.Join(c.home, ".steam", "root"),
			filepath.Join(c.home, ".steam", "debian-installation"),
			filepath.Join(c.home, ".var", "app", "com.valvesoftware.Steam",
				".local", "share", "Steam"),
		}
	}
}

// UserdataRoot returns root's userdata directory if it exists.
func (c *Client) UserdataRoot(root string) (string, bool) {
	userdata := filepath.Join(root, "userdata")
	if info, err := c.fs.Stat(userdata); err == nil && info.IsDir() {
		return userdata, true
	}
	return "", false
}

// CompatdataPrefix returns the Proton drive_c user profile of appID if
// the compatibility prefix exists. Save files for Windows games run
// through Proton land under this tree.
func (c *Client) CompatdataPrefix(root, appID string) (string, bool) {
	prefix := filepath.Join(root, "steamapps", "compatdata", appID,
		"pfx", "drive_c", "users", "steamuser")
	if info, err := c.fs.Stat(prefix); err == nil && info.IsDir() {
		return prefix, true
	}
	return "", false
}

// normalizeVDFKeys recursively lowercases map keys. Valve files are
// inconsistent about casing between Steam versions.
func normalizeVDFKeys(m map[string]any) map[string]any {
	result := make(map[string]any, len(m))
	for k, v := range m {
		if nested, ok := v.(map[string]any); ok {
			v = normalizeVDFKeys(nested)
		}
		result[strings.ToLower(k)] = v
	}
	return result
}
