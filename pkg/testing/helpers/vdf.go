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

package helpers

import (
	"bytes"
	"encoding/binary"
	"strconv"
)

// Binary VDF type markers, as written by Steam.
const (
	vdfMap         byte = 0x00
	vdfString      byte = 0x01
	vdfNumber      byte = 0x02
	vdfEndOfMap    byte = 0x08
	vdfEndOfString byte = 0x00
)

// ShortcutFixture describes one non-Steam shortcut to encode.
type ShortcutFixture struct {
	AppName  string
	Exe      string
	StartDir string
	Icon     string
	Tags     []string
	AppID    uint32
	IsHidden bool
}

// BuildShortcutsVDF encodes shortcuts in Steam's binary shortcuts.vdf
// layout, for tests that need an on-disk fixture.
func BuildShortcutsVDF(shortcuts ...ShortcutFixture) []byte {
	var buf bytes.Buffer

	openMap(&buf, "shortcuts")
	for i, sc := range shortcuts {
		openMap(&buf, strconv.Itoa(i))
		writeNumber(&buf, "appid", sc.AppID)
		writeString(&buf, "AppName", sc.AppName)
		writeString(&buf, "Exe", sc.Exe)
		writeString(&buf, "StartDir", sc.StartDir)
		if sc.Icon != "" {
			writeString(&buf, "icon", sc.Icon)
		}
		if sc.IsHidden {
			writeNumber(&buf, "IsHidden", 1)
		}
		if len(sc.Tags) > 0 {
			openMap(&buf, "tags")
			for j, tag := range sc.Tags {
				writeString(&buf, strconv.Itoa(j), tag)
			}
			closeMap(&buf)
		}
		closeMap(&buf)
	}
	closeMap(&buf)
	closeMap(&buf) // end of root

	return buf.Bytes()
}

func openMap(buf *bytes.Buffer, key string) {
	buf.WriteByte(vdfMap)
	writeRawString(buf, key)
}

func closeMap(buf *bytes.Buffer) {
	buf.WriteByte(vdfEndOfMap)
}

func writeString(buf *bytes.Buffer, key, value string) {
	buf.WriteByte(vdfString)
	writeRawString(buf, key)
	writeRawString(buf, value)
}

func writeNumber(buf *bytes.Buffer, key string, value uint32) {
	buf.WriteByte(vdfNumber)
	writeRawString(buf, key)
	var raw [4]byte
	binary.LittleEndian.PutUint32(raw[:], value)
	buf.Write(raw[:])
}

func writeRawString(buf *bytes.Buffer, s string) {
	buf.WriteString(s)
	buf.WriteByte(vdfEndOfString)
}
