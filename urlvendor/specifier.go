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
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/net/idna"
)

// specialSchemes are the schemes whose URLs have hierarchical paths
// and a host, mapped to their default ports.
var specialSchemes = map[string]string{
	"file":  "",
	"ftp":   "21",
	"http":  "80",
	"https": "443",
	"ws":    "80",
	"wss":   "443",
}

// dotSegments are the percent-encoded spellings of "." and "..",
// which are dot segments all the same.
var dotSegments = map[string]string{
	"%2e":    ".",
	".%2e":   "..",
	"%2e.":   "..",
	"%2e%2e": "..",
}

// hostProfile converts host names to their ASCII serialization the
// way browsers and the vendoring tool do: mapped and lower-cased, with
// no STD3 or hyphen restrictions.
var hostProfile = idna.New(
	idna.MapForLookup(),
	idna.Transitional(false),
	idna.StrictDomainName(false),
	idna.ValidateLabels(false),
	idna.CheckHyphens(false),
)

// stripSpecifier removes the characters a URL parser ignores: leading
// and trailing control characters and spaces, and any tab or newline.
var stripSpecifier = strings.NewReplacer("\t", "", "\n", "", "\r", "")

// FileURL returns the file URL for the directory dir, without a
// trailing slash.
func FileURL(dir string) *url.URL {
	p := filepath.ToSlash(dir)
	if !strings.HasPrefix(p, "/") {
		// Windows drive paths, e.g. C:/src
		p = "/" + p
	}
	return &url.URL{Scheme: "file", Path: p}
}

// A Mapper converts module specifiers into the relative paths the
// vendoring tool writes them to.
type Mapper struct {
	// Base is the URL relative specifiers are resolved against.
	Base *url.URL
}

// NewMapper returns a Mapper whose base is the file URL of the
// current working directory.
func NewMapper() (*Mapper, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, errors.Wrap(err, "finding working directory")
	}
	return &Mapper{Base: FileURL(cwd)}, nil
}

// ModuleSpecifierToPath converts a module specifier into the path,
// relative to the output directory, at which the vendoring tool
// writes it. Relative specifiers are resolved against the current
// working directory.
func ModuleSpecifierToPath(specifier string) (string, error) {
	m, err := NewMapper()
	if err != nil {
		return "", err
	}
	return m.Path(specifier)
}

// Resolve parses specifier and resolves it against m.Base. The path
// and query of the result hold the text of the specifier: percent
// escapes in them are kept as written, valid or not.
func (m *Mapper) Resolve(specifier string) (*url.URL, error) {
	s := strings.TrimFunc(specifier, func(c rune) bool { return c <= ' ' })
	s = stripSpecifier.Replace(s)
	scheme := schemeOf(s)
	if scheme == "" && m.Base != nil {
		scheme = m.Base.Scheme
	}
	if _, special := specialSchemes[scheme]; special {
		s = backslashesToSlashes(s)
	}

	ref, err := url.Parse(escapePercents(s))
	if err != nil {
		return nil, errors.Wrapf(err, "parsing module specifier %q", specifier)
	}
	if ref.IsAbs() {
		// Resolving removes dot segments
		return new(url.URL).ResolveReference(ref), nil
	}
	if m.Base == nil {
		return nil, errors.Errorf("relative module specifier %q with no base", specifier)
	}
	base := *m.Base
	base.Path = percentEncode(base.Path, func(c byte) bool {
		return c == '%' || inPathEncodeSet(c)
	})
	base.RawPath = ""
	return base.ResolveReference(ref), nil
}

// Path returns the relative filesystem path for specifier. The first
// component is the sanitized host name, with "_<port>" appended for
// an explicit port, followed by each sanitized path segment.
func (m *Mapper) Path(specifier string) (string, error) {
	u, err := m.Resolve(specifier)
	if err != nil {
		return "", err
	}

	var result string
	if host := hostname(u); host != "" {
		result = SanitizeSegment(host)
	}
	if p := port(u); p != "" {
		result += "_" + p
	}

	components := []string{result}
	for _, segment := range pathSegments(u) {
		components = append(components, SanitizeSegment(segment))
	}
	pth := filepath.Join(components...)
	if pth == "" {
		pth = "."
	}

	log.Debugf("%s maps to %s", specifier, pth)
	return pth, nil
}

// schemeOf returns the lower-cased scheme of s, or "" if s does not
// start with one.
func schemeOf(s string) string {
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z':
		case i > 0 && ('0' <= c && c <= '9' || c == '+' || c == '-' || c == '.'):
		case i > 0 && c == ':':
			return strings.ToLower(s[:i])
		default:
			return ""
		}
	}
	return ""
}

// backslashesToSlashes treats "\" as a path separator up to the start
// of the query or fragment.
func backslashesToSlashes(s string) string {
	end := strings.IndexAny(s, "?#")
	if end < 0 {
		end = len(s)
	}
	return strings.Replace(s[:end], `\`, "/", -1) + s[end:]
}

// escapePercents escapes each "%" following the authority of s, so
// that parsing leaves percent escapes as they were written.
func escapePercents(s string) string {
	scheme := schemeOf(s)
	i := 0
	if scheme != "" {
		i = len(scheme) + 1
	}
	if strings.HasPrefix(s[i:], "//") {
		end := strings.IndexAny(s[i+2:], "/?#")
		if end < 0 {
			return s
		}
		i += 2 + end
	}

	rest := s[i:]
	if scheme == "" || strings.HasPrefix(rest, "/") {
		end := strings.IndexAny(rest, "?#")
		if end < 0 {
			end = len(rest)
		}
		segments := strings.Split(rest[:end], "/")
		for j, segment := range segments {
			if dot, ok := dotSegments[strings.ToLower(segment)]; ok {
				segments[j] = dot
			}
		}
		rest = strings.Join(segments, "/") + rest[end:]
	}
	return s[:i] + strings.Replace(rest, "%", "%25", -1)
}

// restorePercents undoes escapePercents for text which net/url keeps
// escaped.
func restorePercents(s string) string {
	return strings.Replace(s, "%25", "%", -1)
}

// hostname returns the serialized host of u without its port. IPv6
// literals keep their brackets.
func hostname(u *url.URL) string {
	if strings.HasPrefix(u.Host, "[") {
		if i := strings.LastIndex(u.Host, "]"); i > 0 {
			return strings.ToLower(u.Host[:i+1])
		}
	}

	host := u.Hostname()
	if _, special := specialSchemes[u.Scheme]; !special || host == "" {
		return host
	}
	ascii, err := hostProfile.ToASCII(host)
	if err != nil {
		log.Debugf("%s: %s", host, err)
		return strings.ToLower(host)
	}
	return ascii
}

// port returns the port of u, or "" if there is none or it is the
// default for the scheme.
func port(u *url.URL) string {
	p := u.Port()
	if p == "" {
		return ""
	}
	if n, err := strconv.Atoi(p); err == nil {
		p = strconv.Itoa(n)
	}
	if def, special := specialSchemes[u.Scheme]; special && p == def {
		return ""
	}
	return p
}

// pathSegments splits the serialized path of u into its non-empty
// segments. A query is kept as part of the final segment.
func pathSegments(u *url.URL) []string {
	_, special := specialSchemes[u.Scheme]
	p := percentEncode(u.Path, inPathEncodeSet)
	if u.Opaque != "" {
		p = percentEncode(restorePercents(u.Opaque), isControlOrNonASCII)
	}

	segments := make([]string, 0)
	for _, segment := range strings.Split(p, "/") {
		if segment == "" {
			continue
		}
		segments = append(segments, segment)
	}

	if u.RawQuery != "" {
		encode := inQueryEncodeSet
		if special {
			encode = inSpecialQueryEncodeSet
		}
		query := "?" + percentEncode(restorePercents(u.RawQuery), encode)
		if n := len(segments); n > 0 {
			segments[n-1] += query
		} else {
			segments = append(segments, query)
		}
	}
	return segments
}

// percentEncode escapes the bytes of s for which encode returns true.
func percentEncode(s string, encode func(byte) bool) string {
	const hex = "0123456789ABCDEF"
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if encode(c) {
			b.WriteByte('%')
			b.WriteByte(hex[c>>4])
			b.WriteByte(hex[c&0xf])
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

func isControlOrNonASCII(c byte) bool {
	return c < ' ' || c > '~'
}

func inQueryEncodeSet(c byte) bool {
	return isControlOrNonASCII(c) || strings.IndexByte(" \"#<>", c) >= 0
}

func inSpecialQueryEncodeSet(c byte) bool {
	return c == '\'' || inQueryEncodeSet(c)
}

func inPathEncodeSet(c byte) bool {
	return inQueryEncodeSet(c) || strings.IndexByte("?`{}", c) >= 0
}
