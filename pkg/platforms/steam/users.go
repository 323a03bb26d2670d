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
	"sort"
	"strconv"

	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

// User is one Steam account found under userdata. ID3 is the userdata
// folder name; PersonaName comes from loginusers.vdf when available.
type User struct {
	ID3         string
	PersonaName string
	LastLogin   int64
	MostRecent  bool
}

// Users lists accounts under root's userdata directory, enriched with
// persona names and login recency from config/loginusers.vdf. The
// result is sorted by ID3 for deterministic output.
func (c *Client) Users(root string) []User {
	userdata, ok := c.UserdataRoot(root)
	if !ok {
		return nil
	}

	entries, err := afero.ReadDir(c.fs, userdata)
	if err != nil {
		log.Warn().Err(err).Str("userdata", userdata).Msg("cannot list userdata")
		return nil
	}

	logins := c.readLoginUsers(root)

	var users []User
	for _, entry := range entries {
		name := entry.Name()
		if !entry.IsDir() || name == "0" || !isDigits(name) {
			continue
		}
		user := User{ID3: name}
		if id3, err := strconv.ParseInt(name, 10, 64); err == nil {
			id64 := strconv.FormatInt(id3+steamID64Base, 10)
			if login, ok := logins[id64]; ok {
				user.PersonaName = login.PersonaName
				user.LastLogin = login.LastLogin
				user.MostRecent = login.MostRecent
			}
		}
		users = append(users, user)
	}

	sort.Slice(users, func(i, j int) bool { return users[i].ID3 < users[j].ID3 })
	return users
}

// MostLikelyUser picks the account a save search should assume: the one
// flagged MostRecent, falling back to the latest login timestamp, then
// to the first account.
func MostLikelyUser(users []User) (User, bool) {
	if len(users) == 0 {
		return User{}, false
	}

	best := users[0]
	for _, u := range users[1:] {
		if u.MostRecent && !best.MostRecent {
			best = u
			continue
		}
		if u.MostRecent == best.MostRecent && u.LastLogin > best.LastLogin {
			best = u
		}
	}
	return best, true
}

type loginEntry struct {
	PersonaName string
	LastLogin   int64
	MostRecent  bool
}

// readLoginUsers parses config/loginusers.vdf into a SteamID64 keyed
// map. Any failure degrades to an empty map; persona names are
// cosmetic.
func (c *Client) readLoginUsers(root string) map[string]loginEntry {
	logins := make(map[string]loginEntry)

	m, err := c.parseVDF(filepath.Join(root, "config", "loginusers.vdf"))
	if err != nil {
		log.Debug().Err(err).Msg("cannot read loginusers.vdf")
		return logins
	}

	users, ok := m["users"].(map[string]any)
	if !ok {
		return logins
	}

	for id64, v := range users {
		fields, ok := v.(map[string]any)
		if !ok {
			continue
		}
		entry := loginEntry{}
		if persona, ok := fields["personaname"].(string); ok {
			entry.PersonaName = persona
		}
		if ts, ok := fields["timestamp"].(string); ok {
			if n, err := strconv.ParseInt(ts, 10, 64); err == nil {
				entry.LastLogin = n
			}
		}
		if recent, ok := fields["mostrecent"].(string); ok {
			entry.MostRecent = recent == "1"
		}
		logins[id64] = entry
	}
	return logins
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
