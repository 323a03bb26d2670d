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
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/Matteo842/savestate-core/pkg/config"
	"github.com/Matteo842/savestate-core/pkg/scanner/locations"
	"github.com/Matteo842/savestate-core/pkg/scanner/sniff"
	"github.com/Matteo842/savestate-core/pkg/testing/helpers"
)

const testHome = "/home/gamer"

func newTestEngine(t *testing.T, fs afero.Fs, opts ...Option) *Engine {
	t.Helper()
	resolver := locations.NewResolver(fs, "linux", testHome,
		func(string) string { return "" })
	eng, err := New(fs, config.Default(), resolver, opts...)
	require.NoError(t, err)
	return eng
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.Search.MinMatchWords = 0

	_, err := New(afero.NewMemMapFs(), cfg, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}

func TestDiscoverEmptyName(t *testing.T) {
	t.Parallel()

	eng := newTestEngine(t, afero.NewMemMapFs())

	for _, name := range []string{"", "   ", "\t"} {
		results, err := eng.Discover(context.Background(), Query{DisplayName: name})
		require.NoError(t, err)
		assert.Empty(t, results)
	}
}

func TestDiscoverDirectHitAndDedup(t *testing.T) {
	t.Parallel()

	fsh := helpers.NewMemoryFS()
	dataHome := filepath.Join(testHome, ".local", "share")
	require.NoError(t, fsh.CreateSaveTree(dataHome, "Cool Game", "", "slot1.sav"))

	eng := newTestEngine(t, fsh.Fs)
	results, err := eng.Discover(context.Background(), Query{DisplayName: "Cool Game"})
	require.NoError(t, err)

	// Direct construction and the exploratory walk both reach this
	// directory; it must surface exactly once, tagged by the first
	// strategy that found it.
	require.Len(t, results, 1)
	got := results[0]
	assert.Equal(t, filepath.Join(dataHome, "Cool Game"), got.Path)
	assert.Equal(t, SourceDirect, got.Source)
	assert.Equal(t, sniff.Saves, got.HasSaves)
	assert.Equal(t, 700, got.Score) // direct 200 + sniff 500
}

func TestDiscoverSteamUserdataOutranksEverything(t *testing.T) {
	t.Parallel()

	fsh := helpers.NewMemoryFS()
	dataHome := filepath.Join(testHome, ".local", "share")
	require.NoError(t, fsh.CreateSaveTree(dataHome, "Portal 2", "", "quicksave.sav"))

	userdata := "/steam/userdata"
	require.NoError(t, fsh.CreateSteamUserdata(userdata, "1111", "620", "autosave.sav"))
	require.NoError(t, fsh.WriteFiles(map[string]string{
		filepath.Join(userdata, "1111", "620", "remotecache.vdf"): "{}",
	}))

	eng := newTestEngine(t, fsh.Fs)
	results, err := eng.Discover(context.Background(), Query{
		DisplayName:       "Portal 2",
		SteamAppID:        "620",
		SteamUserdataRoot: userdata,
		SteamUserID:       "1111",
	})
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(results), 3)

	remote := filepath.Join(userdata, "1111", "620", "remote")
	base := filepath.Join(userdata, "1111", "620")

	assert.Equal(t, remote, results[0].Path)
	assert.Equal(t, SourceSteamRemote, results[0].Source)
	assert.Equal(t, base, results[1].Path)
	assert.Equal(t, SourceSteamBase, results[1].Source)
	assert.Greater(t, results[1].Score, results[2].Score,
		"userdata base should outrank the home-directory hit")
}

func TestDiscoverSkipsRemoteCacheOnlyFolder(t *testing.T) {
	t.Parallel()

	fsh := helpers.NewMemoryFS()
	userdata := "/steam/userdata"
	require.NoError(t, fsh.WriteFiles(map[string]string{
		filepath.Join(userdata, "1111", "620", "remotecache.vdf"): "{}",
	}))

	eng, err := New(fsh.Fs, config.Default(), nil)
	require.NoError(t, err)

	results, err := eng.Discover(context.Background(), Query{
		DisplayName:       "Portal 2",
		SteamAppID:        "620",
		SteamUserdataRoot: userdata,
		SteamUserID:       "1111",
	})
	require.NoError(t, err)
	assert.Empty(t, results, "a userdata folder holding only the sync manifest is noise")
}

func TestDiscoverInstallDirWalkIsBounded(t *testing.T) {
	t.Parallel()

	fsh := helpers.NewMemoryFS()
	install := "/games/My Game"
	require.NoError(t, fsh.WriteFiles(map[string]string{
		// Two levels down: inside the walk bound.
		filepath.Join(install, "data", "Saves", "slot.sav"): "x",
		// Five levels down: outside it.
		filepath.Join(install, "a", "b", "c", "d", "Saves", "slot.sav"): "x",
	}))

	eng, err := New(fsh.Fs, config.Default(), nil)
	require.NoError(t, err)

	results, err := eng.Discover(context.Background(), Query{
		DisplayName: "My Game",
		InstallDir:  install,
	})
	require.NoError(t, err)

	require.Len(t, results, 1)
	assert.Equal(t, filepath.Join(install, "data", "Saves"), results[0].Path)
	assert.Equal(t, SourceInstallDirWalk, results[0].Source)
}

func TestDiscoverInstallDirKeepsNameMatchedFolder(t *testing.T) {
	t.Parallel()

	fsh := helpers.NewMemoryFS()
	install := "/games/pack"
	// The game's own folder holds no loose files, only structure.
	require.NoError(t, fsh.MkDirs(filepath.Join(install, "Cool Game", "nested")))
	// Save-looking files under an unrelated name are not a candidate.
	require.NoError(t, fsh.WriteFiles(map[string]string{
		filepath.Join(install, "soundtrack", "editor.sav"): "x",
	}))

	eng, err := New(fsh.Fs, config.Default(), nil)
	require.NoError(t, err)

	results, err := eng.Discover(context.Background(), Query{
		DisplayName: "Cool Game",
		InstallDir:  install,
	})
	require.NoError(t, err)

	require.Len(t, results, 1)
	assert.Equal(t, filepath.Join(install, "Cool Game"), results[0].Path)
	assert.Equal(t, SourceInstallDirWalk, results[0].Source)
	assert.Equal(t, sniff.NoSaves, results[0].HasSaves)
}

func TestDiscoverFindsNestedPublisherLayout(t *testing.T) {
	t.Parallel()

	fsh := helpers.NewMemoryFS()
	dataHome := filepath.Join(testHome, ".local", "share")
	require.NoError(t, fsh.CreateSaveTree(
		filepath.Join(dataHome, "My Studio"), "Cool Game", "saves", "slot1.sav"))

	eng := newTestEngine(t, fsh.Fs)
	results, err := eng.Discover(context.Background(), Query{DisplayName: "Cool Game"})
	require.NoError(t, err)
	require.Len(t, results, 2)

	gameDir := filepath.Join(dataHome, "My Studio", "Cool Game")

	// The saves folder carries the payload and must outrank its parent.
	assert.Equal(t, filepath.Join(gameDir, "saves"), results[0].Path)
	assert.Equal(t, SourceSaveSubdir, results[0].Source)
	assert.Equal(t, sniff.Saves, results[0].HasSaves)

	assert.Equal(t, gameDir, results[1].Path)
	assert.Equal(t, SourceNameMatch, results[1].Source)
	assert.Greater(t, results[0].Score, results[1].Score)
}

func TestDiscoverDescendsIntoMatchedFolder(t *testing.T) {
	t.Parallel()

	fsh := helpers.NewMemoryFS()
	dataHome := filepath.Join(testHome, ".local", "share")
	// A game folder nested inside another folder named after the game.
	require.NoError(t, fsh.CreateSaveTree(
		filepath.Join(dataHome, "Cool Game"), "CoolGame", "", "slot1.sav"))

	eng := newTestEngine(t, fsh.Fs)
	results, err := eng.Discover(context.Background(), Query{DisplayName: "Cool Game"})
	require.NoError(t, err)
	require.Len(t, results, 2)

	inner := filepath.Join(dataHome, "Cool Game", "CoolGame")
	assert.Equal(t, inner, results[0].Path)
	assert.Equal(t, SourceNameMatch, results[0].Source)
	assert.Equal(t, sniff.Saves, results[0].HasSaves)

	assert.Equal(t, filepath.Join(dataHome, "Cool Game"), results[1].Path)
	assert.Equal(t, SourceDirect, results[1].Source)
}

func TestDiscoverCancelledContext(t *testing.T) {
	t.Parallel()

	fsh := helpers.NewMemoryFS()
	dataHome := filepath.Join(testHome, ".local", "share")
	require.NoError(t, fsh.CreateSaveTree(dataHome, "Cool Game", "", "slot1.sav"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	eng := newTestEngine(t, fsh.Fs)
	results, err := eng.Discover(ctx, Query{DisplayName: "Cool Game"})
	require.NoError(t, err, "cancellation truncates, it does not fail")
	assert.Empty(t, results)
}

func TestDiscoverProbeBudgetTruncates(t *testing.T) {
	t.Parallel()

	fsh := helpers.NewMemoryFS()
	dataHome := filepath.Join(testHome, ".local", "share")
	require.NoError(t, fsh.CreateSaveTree(dataHome, "Cool Game", "", "slot1.sav"))

	cfg := config.Default()
	cfg.Search.MaxTotalProbes = 1

	resolver := locations.NewResolver(fsh.Fs, "linux", testHome,
		func(string) string { return "" })
	eng, err := New(fsh.Fs, cfg, resolver)
	require.NoError(t, err)

	results, err := eng.Discover(context.Background(), Query{DisplayName: "Cool Game"})
	require.NoError(t, err)
	assert.LessOrEqual(t, len(results), 1)
}

func TestDiscoverDeterministic(t *testing.T) {
	t.Parallel()

	fsh := helpers.NewMemoryFS()
	dataHome := filepath.Join(testHome, ".local", "share")
	require.NoError(t, fsh.CreateSaveTree(dataHome, "Cool Game", "saves", "slot1.sav"))
	require.NoError(t, fsh.CreateSaveTree(dataHome, "Cool Game 2", "", "slot1.sav"))
	require.NoError(t, fsh.CreateSaveTree(
		filepath.Join(testHome, "Documents"), "My Games", "", "save.dat"))

	eng := newTestEngine(t, fsh.Fs)

	rapid.Check(t, func(t *rapid.T) {
		name := rapid.SampledFrom([]string{
			"Cool Game", "cool game 2", "The Cool Game", "CoolGame", "Nothing Here",
		}).Draw(t, "name")

		first, err := eng.Discover(context.Background(), Query{DisplayName: name})
		require.NoError(t, err)
		second, err := eng.Discover(context.Background(), Query{DisplayName: name})
		require.NoError(t, err)

		require.Equal(t, first, second, "identical inputs must rank identically")

		for i := 1; i < len(first); i++ {
			prev, cur := first[i-1], first[i]
			if prev.Score == cur.Score {
				require.Less(t, prev.Path, cur.Path)
			} else {
				require.Greater(t, prev.Score, cur.Score)
			}
		}
	})
}

func TestSourceString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "direct", SourceDirect.String())
	assert.Equal(t, "steam-remote", SourceSteamRemote.String())
	assert.Equal(t, "unknown", Source(99).String())
}
