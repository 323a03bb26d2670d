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

// Package helpers provides filesystem fixtures shared by discovery
// engine tests.
package helpers

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
)

// FSHelper builds directory trees for filesystem mocking in tests.
type FSHelper struct {
	Fs afero.Fs
}

// NewMemoryFS creates a new in-memory filesystem for testing.
func NewMemoryFS() *FSHelper {
	return &FSHelper{
		Fs: afero.NewMemMapFs(),
	}
}

// NewOSFS creates a filesystem helper using the real filesystem (for
// integration tests).
func NewOSFS() *FSHelper {
	return &FSHelper{
		Fs: afero.NewOsFs(),
	}
}

// MkDirs creates every listed directory, parents included.
func (h *FSHelper) MkDirs(paths ...string) error {
	for _, p := range paths {
		if err := h.Fs.MkdirAll(p, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", p, err)
		}
	}
	return nil
}

// WriteFiles writes each path/content pair, creating parent directories
// as needed.
func (h *FSHelper) WriteFiles(files map[string]string) error {
	for path, content := range files {
		if err := h.Fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return fmt.Errorf("failed to create directory for %s: %w", path, err)
		}
		if err := afero.WriteFile(h.Fs, path, []byte(content), 0o644); err != nil {
			return fmt.Errorf("failed to write file %s: %w", path, err)
		}
	}
	return nil
}

// CreateSaveTree creates <root>/<game>/<subdir> with the given save
// files inside, a typical on-disk save layout.
func (h *FSHelper) CreateSaveTree(root, game, subdir string, saveFiles ...string) error {
	dir := filepath.Join(root, game)
	if subdir != "" {
		dir = filepath.Join(dir, subdir)
	}
	if err := h.Fs.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create save directory %s: %w", dir, err)
	}
	for _, name := range saveFiles {
		path := filepath.Join(dir, name)
		if err := afero.WriteFile(h.Fs, path, []byte("save"), 0o644); err != nil {
			return fmt.Errorf("failed to create save file %s: %w", path, err)
		}
	}
	return nil
}

// CreateSteamUserdata creates <root>/<userID>/<appID>/remote with the
// given files. Passing no files still creates the remote folder.
func (h *FSHelper) CreateSteamUserdata(root, userID, appID string, remoteFiles ...string) error {
	remote := filepath.Join(root, userID, appID, "remote")
	if err := h.Fs.MkdirAll(remote, 0o755); err != nil {
		return fmt.Errorf("failed to create userdata directory %s: %w", remote, err)
	}
	for _, name := range remoteFiles {
		path := filepath.Join(remote, name)
		if err := afero.WriteFile(h.Fs, path, []byte("cloud"), 0o644); err != nil {
			return fmt.Errorf("failed to create cloud file %s: %w", path, err)
		}
	}
	return nil
}
