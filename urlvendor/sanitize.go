// Copyright (C) 2019 Tim Waugh
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package urlvendor

import (
	"strings"
	"unicode/utf8"
)

// bannedSegmentChars are the characters which may not appear in a
// path segment written by the vendoring tool.
var bannedSegmentChars = map[rune]struct{}{
	'<':  {},
	'>':  {},
	':':  {},
	'|':  {},
	'?':  {},
	'*':  {},
	'/':  {},
	'\\': {},
}

// IsBannedSegmentChar reports whether c must be replaced before it can
// be used in a path segment.
func IsBannedSegmentChar(c rune) bool {
	_, banned := bannedSegmentChars[c]
	return banned
}

// SanitizeSegment replaces each banned character in text with a
// single underscore. The number of characters is unchanged.
func SanitizeSegment(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for i, c := range text {
		switch {
		case IsBannedSegmentChar(c):
			b.WriteByte('_')
		case c == utf8.RuneError:
			// Keep invalid bytes exactly as they were
			_, size := utf8.DecodeRuneInString(text[i:])
			b.WriteString(text[i : i+size])
		default:
			b.WriteRune(c)
		}
	}
	return b.String()
}
