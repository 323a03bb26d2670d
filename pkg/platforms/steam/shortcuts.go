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
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/Matteo842/savestate-core/internal/vdfbinary"
)

// Shortcuts reads the non-Steam games user userID3 has added to their
// library. A missing shortcuts.vdf means no shortcuts, not an error.
func (c *Client) Shortcuts(root, userID3 string) ([]vdfbinary.Shortcut, error) {
	userdata, ok := c.UserdataRoot(root)
	if !ok {
		return nil, nil
	}

	path := filepath.Join(userdata, userID3, "config", "shortcuts.vdf")
	f, err := c.fs.Open(path)
	if err != nil {
		return nil, nil
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Str("path", path).Msg("error closing shortcuts file")
		}
	}()

	shortcuts, err := vdfbinary.ParseShortcuts(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return shortcuts, nil
}

// ShortcutStartDir strips the quoting Steam applies to shortcut paths.
func ShortcutStartDir(sc vdfbinary.Shortcut) string {
	return strings.Trim(sc.StartDir, `"`)
}
