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
)

const libraryFoldersVDF = `"libraryfolders"
{
	"0"
	{
		"path"		"/home/alice/.steam/steam"
	}
	"1"
	{
		"path"		"/mnt/games/SteamLibrary"
	}
}
`

const hadesManifestVDF = `"AppState"
{
	"appid"		"1145360"
	"name"		"Hades"
	"installdir"		"Hades"
}
`

const runtimeManifestVDF = `"AppState"
{
	"appid"		"1070560"
	"name"		"Steam Linux Runtime 1.0"
	"installdir"		"SteamLinuxRuntime"
}
`

const celesteManifestVDF = `"AppState"
{
	"appid"		"504230"
	"name"		"Celeste"
	"installdir"		"Celeste"
}
`

const loginUsersVDF = `"users"
{
	"76561197960265729"
	{
		"AccountName"		"alice"
		"PersonaName"		"Alice"
		"MostRecent"		"1"
		"Timestamp"		"1700000000"
	}
	"76561197960265730"
	{
		"AccountName"		"bob"
		"PersonaName"		"Bob"
		"MostRecent"		"0"
		"Timestamp"		"1600000000"
	}
}
`

func newTestClient(t *testing.T) (*Client, string) {
	t.Helper()

	fs := afero.NewMemMapFs()
	root := "/home/alice/.steam/steam"

	write := func(path, content string) {
		require.NoError(t, afero.WriteFile(fs, path, []byte(content), 0o644))
	}

	write(filepath.Join(root, "steamapps", "libraryfolders.vdf"), libraryFoldersVDF)
	write(filepath.Join(root, "steamapps", "appmanifest_1145360.acf"), hadesManifestVDF)
	write(filepath.Join(root, "steamapps", "appmanifest_1070560.acf"), runtimeManifestVDF)
	write(filepath.Join("/mnt/games/SteamLibrary", "steamapps", "appmanifest_504230.acf"), celesteManifestVDF)
	write(filepath.Join(root, "config", "loginusers.vdf"), loginUsersVDF)

	require.NoError(t, fs.MkdirAll(filepath.Join(root, "userdata", "1", "1145360", "remote"), 0o755))
	require.NoError(t, fs.MkdirAll(filepath.Join(root, "userdata", "2"), 0o755))
	require.NoError(t, fs.MkdirAll(filepath.Join(root, "userdata", "0"), 0o755))
	require.NoError(t, fs.MkdirAll(
		filepath.Join(root, "steamapps", "compatdata", "1145360", "pfx", "drive_c", "users", "steamuser"), 0o755))

	client := NewClient(fs, "linux", "/home/alice", func(string) string { return "" })
	return client, root
}

func TestFindRoot(t *testing.T) {
	t.Parallel()

	client, root := newTestClient(t)

	found, ok := client.FindRoot()
	require.True(t, ok)
	assert.Equal(t, root, found)
}

func TestFindRootMissing(t *testing.T) {
	t.Parallel()

	client := NewClient(afero.NewMemMapFs(), "linux", "/home/nobody", func(string) string { return "" })
	_, ok := client.FindRoot()
	assert.False(t, ok)
}

func TestFindRootWindowsUsesEnv(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll(filepath.Join(`C:\Program Files (x86)`, "Steam"), 0o755))

	env := func(key string) string {
		if key == "ProgramFiles(x86)" {
			return `C:\Program Files (x86)`
		}
		return ""
	}
	client := NewClient(fs, "windows", `C:\Users\alice`, env)

	root, ok := client.FindRoot()
	require.True(t, ok)
	assert.Equal(t, filepath.Join(`C:\Program Files (x86)`, "Steam"), root)
}

func TestLibraries(t *testing.T) {
	t.Parallel()

	client, root := newTestClient(t)

	libraries := client.Libraries(root)
	assert.Equal(t, []string{root, "/mnt/games/SteamLibrary"}, libraries)
}

func TestScanInstalled(t *testing.T) {
	t.Parallel()

	client, root := newTestClient(t)

	apps, err := client.ScanInstalled(root)
	require.NoError(t, err)

	// Sorted by app ID, runtime tooling filtered out.
	require.Len(t, apps, 2)
	assert.Equal(t, "1145360", apps[0].ID)
	assert.Equal(t, "Hades", apps[0].Name)
	assert.Equal(t, filepath.Join(root, "steamapps", "common", "Hades"), apps[0].InstallDir)
	assert.Equal(t, "504230", apps[1].ID)
	assert.Equal(t, "Celeste", apps[1].Name)
}

func TestUsers(t *testing.T) {
	t.Parallel()

	client, root := newTestClient(t)

	users := client.Users(root)
	require.Len(t, users, 2)

	assert.Equal(t, "1", users[0].ID3)
	assert.Equal(t, "Alice", users[0].PersonaName)
	assert.True(t, users[0].MostRecent)
	assert.Equal(t, "2", users[1].ID3)
	assert.Equal(t, "Bob", users[1].PersonaName)
	assert.False(t, users[1].MostRecent)
}

func TestMostLikelyUser(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		expected string
		users    []User
		ok       bool
	}{
		{
			name: "most recent flag wins",
			users: []User{
				{ID3: "1", LastLogin: 100},
				{ID3: "2", LastLogin: 50, MostRecent: true},
			},
			expected: "2",
			ok:       true,
		},
		{
			name: "timestamp breaks ties",
			users: []User{
				{ID3: "1", LastLogin: 100},
				{ID3: "2", LastLogin: 300},
			},
			expected: "2",
			ok:       true,
		},
		{
			name: "no users",
			ok:   false,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			user, ok := MostLikelyUser(tc.users)
			assert.Equal(t, tc.ok, ok)
			if tc.ok {
				assert.Equal(t, tc.expected, user.ID3)
			}
		})
	}
}

func TestCompatdataPrefix(t *testing.T) {
	t.Parallel()

	client, root := newTestClient(t)

	prefix, ok := client.CompatdataPrefix(root, "1145360")
	require.True(t, ok)
	assert.Equal(t, filepath.Join(root, "steamapps", "compatdata", "1145360",
		"pfx", "drive_c", "users", "steamuser"), prefix)

	_, ok = client.CompatdataPrefix(root, "999999")
	assert.False(t, ok)
}

func TestScanInstalledSortOrder(t *testing.T) {
	t.Parallel()

	// ID "1145360" < "504230" lexically; the scan sorts by string ID.
	client, root := newTestClient(t)

	apps, err := client.ScanInstalled(root)
	require.NoError(t, err)
	require.Len(t, apps, 2)
	assert.Less(t, apps[0].ID, apps[1].ID)
}
