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

// Command savestate discovers where a game keeps its save data and
// prints the candidate directories ranked by confidence.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/adrg/xdg"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"

	"github.com/Matteo842/savestate-core/pkg/config"
	"github.com/Matteo842/savestate-core/pkg/helpers"
	"github.com/Matteo842/savestate-core/pkg/platforms/steam"
	"github.com/Matteo842/savestate-core/pkg/scanner"
	"github.com/Matteo842/savestate-core/pkg/scanner/gamename"
	"github.com/Matteo842/savestate-core/pkg/scanner/locations"
)

func main() {
	if err := run(); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		gameName   = flag.String("game", "", "display name of the game to search for")
		installDir = flag.String("install-dir", "", "game install directory (auto-detected for Steam games)")
		appID      = flag.String("appid", "", "Steam app ID (auto-detected by name when omitted)")
		configPath = flag.String("config", "", "path to the config file")
		listSteam  = flag.Bool("list-steam", false, "list installed Steam games and exit")
		debug      = flag.Bool("debug", false, "enable debug logging to the console")
	)
	flag.Parse()

	logDir := filepath.Join(xdg.StateHome, config.AppName)
	if *debug {
		if err := helpers.InitLogging(logDir, true, zerolog.ConsoleWriter{Out: os.Stderr}); err != nil {
			return fmt.Errorf("failed to set up logging: %w", err)
		}
	} else if err := helpers.InitLogging(logDir, false); err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}

	fs := afero.NewOsFs()

	path := *configPath
	if path == "" {
		path = filepath.Join(xdg.ConfigHome, config.AppName, config.ConfigFile)
	}
	cfg, err := config.LoadOrCreate(fs, path)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	client := steam.DefaultClient()

	if *listSteam {
		return printSteamGames(client)
	}

	if *gameName == "" {
		flag.Usage()
		return fmt.Errorf("the -game flag is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	query := scanner.Query{
		DisplayName: *gameName,
		InstallDir:  *installDir,
		SteamAppID:  *appID,
	}
	fillSteamDetails(client, cfg, &query)

	eng, err := scanner.New(fs, cfg, locations.DefaultResolver())
	if err != nil {
		return err
	}

	results, err := eng.Discover(ctx, query)
	if err != nil {
		return err
	}
	if len(results) == 0 {
		fmt.Printf("No save locations found for %q.\n", *gameName)
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "SCORE\tSOURCE\tSAVES\tPATH")
	for _, r := range results {
		_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", r.Score, r.Source, r.HasSaves, r.Path)
	}
	return w.Flush()
}

// fillSteamDetails resolves the userdata root, the most likely user,
// and, when the app ID is not given, matches the game name against the
// installed library. Failures here only degrade the search.
func fillSteamDetails(client *steam.Client, cfg config.Values, q *scanner.Query) {
	root, ok := client.FindRoot()
	if !ok {
		log.Debug().Msg("no steam installation found")
		return
	}

	if userdata, ok := client.UserdataRoot(root); ok {
		q.SteamUserdataRoot = userdata
		if user, ok := steam.MostLikelyUser(client.Users(root)); ok {
			q.SteamUserID = user.ID3
		}
	}

	if q.SteamAppID != "" && q.InstallDir != "" {
		return
	}

	apps, err := client.ScanInstalled(root)
	if err != nil {
		log.Warn().Err(err).Msg("scanning steam library")
		return
	}

	stopWords := gamename.StopWordSet(cfg.Search.StopWords)
	matcher := gamename.NewMatcher(stopWords,
		cfg.Search.MinMatchWords, cfg.Search.FuzzyThreshold, gamename.EdlibRatio)
	cleaned := gamename.Clean(q.DisplayName)

	for _, app := range apps {
		if !strings.EqualFold(app.Name, q.DisplayName) && !matcher.Similar(cleaned, app.Name) {
			continue
		}
		if q.SteamAppID == "" {
			q.SteamAppID = app.ID
		}
		if q.InstallDir == "" {
			q.InstallDir = app.InstallDir
		}
		log.Info().Str("app", app.Name).Str("appid", app.ID).
			Msg("matched installed steam game")
		return
	}

	// Not in the library; it may still be registered as a non-Steam
	// shortcut, which at least gives us the install directory.
	if q.InstallDir != "" || q.SteamUserID == "" {
		return
	}
	shortcuts, err := client.Shortcuts(root, q.SteamUserID)
	if err != nil {
		log.Warn().Err(err).Msg("reading steam shortcuts")
		return
	}
	for _, sc := range shortcuts {
		if !strings.EqualFold(sc.AppName, q.DisplayName) && !matcher.Similar(cleaned, sc.AppName) {
			continue
		}
		q.InstallDir = steam.ShortcutStartDir(sc)
		log.Info().Str("app", sc.AppName).Msg("matched non-steam shortcut")
		return
	}
}

func printSteamGames(client *steam.Client) error {
	root, ok := client.FindRoot()
	if !ok {
		return fmt.Errorf("no steam installation found")
	}
	apps, err := client.ScanInstalled(root)
	if err != nil {
		return fmt.Errorf("failed to scan steam library: %w", err)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "APPID\tNAME\tINSTALL DIR")
	for _, app := range apps {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", app.ID, app.Name, app.InstallDir)
	}
	return w.Flush()
}
