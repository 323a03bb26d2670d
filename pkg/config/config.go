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

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

const (
	SchemaVersion = 1
	ConfigFile    = "savestate.toml"
	LogFile       = "savestate.log"
	AppName       = "savestate"
)

// Values holds every externally tunable knob of the discovery engine.
// The heuristic sets are data, not behavior: the engine never hard-codes
// an extension, folder name, or scoring weight.
type Values struct {
	Search       Search  `toml:"search,omitempty"`
	Scoring      Scoring `toml:"scoring,omitempty"`
	ConfigSchema int     `toml:"config_schema"`
	DebugLogging bool    `toml:"debug_logging"`
}

// Search configures candidate generation and name matching.
type Search struct {
	// StopWords are ignored when comparing game names and when building
	// acronyms ("the", "edition", "goty", ...).
	StopWords []string `toml:"stop_words,omitempty,multiline"`

	// SaveSubdirNames are folder names games conventionally use for save
	// data ("Saves", "SaveGames", ...). Matched case-insensitively.
	SaveSubdirNames []string `toml:"save_subdir_names,omitempty,multiline"`

	// SaveExtensions are file extensions (with leading dot) that mark a
	// directory as containing save data.
	SaveExtensions []string `toml:"save_extensions,omitempty,multiline"`

	// SaveFilenameKeywords are substrings searched in file names when no
	// extension matches.
	SaveFilenameKeywords []string `toml:"save_filename_keywords,omitempty,multiline"`

	// Publishers are folder names commonly nested between a scan root and
	// the game folder ("My Games", publisher names).
	Publishers []string `toml:"publishers,omitempty,multiline"`

	// BannedFolderNames are never descended into during exploratory or
	// install-directory walks (system and vendor folders).
	BannedFolderNames []string `toml:"banned_folder_names,omitempty,multiline"`

	// MinMatchWords is the minimum significant-word overlap for two names
	// to be considered the same game.
	MinMatchWords int `toml:"min_match_words"`

	// FuzzyThreshold is the 0-100 similarity ratio at or above which the
	// approximate matcher accepts two names.
	FuzzyThreshold int `toml:"fuzzy_threshold"`

	// MaxWalkDepth bounds the install-directory walk, relative to the
	// install root.
	MaxWalkDepth int `toml:"max_walk_depth"`

	// MaxDirsPerLevel caps how many entries of a single directory the
	// exploratory walk will consider.
	MaxDirsPerLevel int `toml:"max_dirs_per_level"`

	// MaxTotalProbes caps directory listings per discovery invocation.
	MaxTotalProbes int `toml:"max_total_probes"`
}

// Scoring holds the additive ranking weights. The defaults were tuned
// against real game libraries; treat them as a starting point.
type Scoring struct {
	GenericNames      []string `toml:"generic_names,omitempty,multiline"`
	SteamRemote       int      `toml:"steam_remote"`
	SteamBase         int      `toml:"steam_base"`
	SteamRemoteSub    int      `toml:"steam_remote_sub"`
	SniffPositive     int      `toml:"sniff_positive"`
	SaveSubdirName    int      `toml:"save_subdir_name"`
	Direct            int      `toml:"direct"`
	NameMatch         int      `toml:"name_match"`
	SaveSubdirInMatch int      `toml:"save_subdir_in_match"`
	InstallDirWalk    int      `toml:"install_dir_walk"`
	GenericPenalty    int      `toml:"generic_penalty"`
	SharedRootPenalty int      `toml:"shared_root_penalty"`
}

// Default returns the built-in configuration.
func Default() Values {
	return Values{
		ConfigSchema: SchemaVersion,
		Search: Search{
			StopWords: []string{
				"a", "an", "the", "of", "and", "remake", "intergrade",
				"edition", "goty", "demo", "trial", "play", "launch",
				"definitive", "enhanced", "complete", "collection",
				"hd", "ultra", "deluxe", "game", "year", "server",
				"client", "directx", "redist", "sdk", "runtime",
			},
			SaveSubdirNames: []string{
				"Saves", "Save", "SaveGame", "Saved", "SaveGames",
				"savegame", "savedata", "save_data", "SaveData",
			},
			SaveExtensions: []string{
				".sav", ".save", ".dat", ".bin", ".slot", ".prof",
				".profile", ".usr", ".sgd",
			},
			SaveFilenameKeywords: []string{
				"save", "user", "profile", "settings", "config",
				"game", "player", "slot", "progress",
			},
			Publishers: []string{
				"My Games",
			},
			BannedFolderNames: []string{
				"microsoft", "nvidia corporation", "intel", "amd",
				"google", "mozilla", "common files", "internet explorer",
				"windows", "system32", "syswow64", "program files",
				"program files (x86)", "programdata", "drivers",
				"perflogs", "adobe", "python", "java", "oracle", "steam",
				"$recycle.bin", "config.msi", "system volume information",
				"default", "all users", "public", "vortex", "soundtrack",
				"artbook", "extras", "dlc", "ost", "digital content",
				"epic games", "ubisoft game launcher", "battle.net",
				"origin", "gog galaxy",
			},
			MinMatchWords:   2,
			FuzzyThreshold:  88,
			MaxWalkDepth:    3,
			MaxDirsPerLevel: 256,
			MaxTotalProbes:  4096,
		},
		Scoring: Scoring{
			SteamRemote:       1000,
			SteamBase:         800,
			SteamRemoteSub:    700,
			SniffPositive:     500,
			SaveSubdirName:    300,
			Direct:            200,
			NameMatch:         150,
			SaveSubdirInMatch: 120,
			InstallDirWalk:    100,
			GenericPenalty:    -20,
			SharedRootPenalty: -50,
			GenericNames: []string{
				"data", "settings", "config", "cache",
			},
		},
	}
}

// Validate reports whether the values are usable by the engine. The
// engine refuses to run with an empty heuristic set or non-positive
// bounds rather than silently finding nothing.
func (v *Values) Validate() error {
	if len(v.Search.SaveSubdirNames) == 0 {
		return errors.New("search.save_subdir_names must not be empty")
	}
	if len(v.Search.SaveExtensions) == 0 && len(v.Search.SaveFilenameKeywords) == 0 {
		return errors.New("at least one of search.save_extensions or search.save_filename_keywords is required")
	}
	for _, ext := range v.Search.SaveExtensions {
		if !strings.HasPrefix(ext, ".") {
			return fmt.Errorf("save extension %q must start with a dot", ext)
		}
	}
	if v.Search.MinMatchWords < 1 {
		return errors.New("search.min_match_words must be at least 1")
	}
	if v.Search.FuzzyThreshold < 0 || v.Search.FuzzyThreshold > 100 {
		return errors.New("search.fuzzy_threshold must be within 0-100")
	}
	if v.Search.MaxWalkDepth < 1 {
		return errors.New("search.max_walk_depth must be at least 1")
	}
	if v.Search.MaxDirsPerLevel < 1 {
		return errors.New("search.max_dirs_per_level must be at least 1")
	}
	if v.Search.MaxTotalProbes < 1 {
		return errors.New("search.max_total_probes must be at least 1")
	}
	return nil
}

// Load reads a config file, layering file values over the defaults so
// fields absent from the file keep their default values.
func Load(fs afero.Fs, path string) (Values, error) {
	vals := Default()

	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return vals, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := toml.Unmarshal(data, &vals); err != nil {
		return vals, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if vals.ConfigSchema != SchemaVersion {
		log.Error().Msgf(
			"schema version mismatch: got %d, expecting %d",
			vals.ConfigSchema, SchemaVersion,
		)
		return vals, errors.New("schema version mismatch")
	}

	return vals, nil
}

// LoadOrCreate loads path, writing the defaults there first if no file
// exists yet.
func LoadOrCreate(fs afero.Fs, path string) (Values, error) {
	if _, err := fs.Stat(path); os.IsNotExist(err) {
		log.Info().Msg("saving new default config to disk")
		if err := Save(fs, path, Default()); err != nil {
			return Default(), err
		}
	}
	return Load(fs, path)
}

// Save writes vals to path, creating parent directories as needed.
func Save(fs afero.Fs, path string, vals Values) error {
	data, err := toml.Marshal(vals)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := fs.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := afero.WriteFile(fs, path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
