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
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Matteo842/savestate-core/internal/vdfbinary"
	"github.com/Matteo842/savestate-core/pkg/testing/helpers"
)

func TestShortcuts(t *testing.T) {
	t.Parallel()

	client, root := newTestClient(t)

	raw := helpers.BuildShortcutsVDF(helpers.ShortcutFixture{
		AppID:    2864056437,
		AppName:  "Stardew Modded",
		Exe:      `"/opt/stardew/StardewModdingAPI"`,
		StartDir: `"/opt/stardew"`,
	})
	path := filepath.Join(root, "userdata", "1111", "config", "shortcuts.vdf")
	require.NoError(t, client.fs.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, afero.WriteFile(client.fs, path, raw, 0o644))

	shortcuts, err := client.Shortcuts(root, "1111")
	require.NoError(t, err)
	require.Len(t, shortcuts, 1)
	assert.Equal(t, "Stardew Modded", shortcuts[0].AppName)
	assert.Equal(t, "/opt/stardew", ShortcutStartDir(shortcuts[0]))
}

func TestShortcutsMissingFile(t *testing.T) {
	t.Parallel()

	client, root := newTestClient(t)

	shortcuts, err := client.Shortcuts(root, "2222")
	require.NoError(t, err)
	assert.Empty(t, shortcuts)
}

func TestShortcutsCorrupt(t *testing.T) {
	t.Parallel()

	client, root := newTestClient(t)

	path := filepath.Join(root, "userdata", "1111", "config", "shortcuts.vdf")
	require.NoError(t, client.fs.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, afero.WriteFile(client.fs, path, []byte(`"text" { }`), 0o644))

	_, err := client.Shortcuts(root, "1111")
	require.Error(t, err)
	assert.ErrorIs(t, err, vdfbinary.ErrNotBinaryVDF)
}
