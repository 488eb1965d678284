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
	"path/filepath"
	"reflect"
	"testing"
)

func TestLoadManifest(t *testing.T) {
	type tcase struct {
		file string
		exp  Manifest
	}
	tcases := []tcase{
		tcase{
			file: "manifest.yaml",
			exp: Manifest{
				Output: filepath.Join("testdata", "vendor"),
				Tool:   "deno",
				URLs: []string{
					"https://deno.land/std@0.150.0/path/mod.ts",
					"https://deno.land/std@0.150.0/fs/mod.ts",
				},
			},
		},
		tcase{
			file: "absolute.yaml",
			exp: Manifest{
				Output: "/srv/vendor",
				URLs:   []string{"https://example.com:8080/x.ts"},
			},
		},
		tcase{
			file: "empty.yaml",
			exp:  Manifest{},
		},
	}

	for _, tc := range tcases {
		m, err := LoadManifest(filepath.Join("testdata", tc.file))
		if err != nil {
			t.Errorf("%s: %s", tc.file, err)
			continue
		}
		if !reflect.DeepEqual(*m, tc.exp) {
			t.Errorf("%s: got %+v, want %+v", tc.file, *m, tc.exp)
		}
	}
}

func TestLoadManifestErrors(t *testing.T) {
	for _, file := range []string{"unknown.yaml", "missing.yaml"} {
		if _, err := LoadManifest(filepath.Join("testdata", file)); err == nil {
			t.Errorf("%s: expected error", file)
		}
	}
}

func TestManifestRequest(t *testing.T) {
	m := &Manifest{
		Output: "/srv/vendor",
		URLs:   []string{"https://example.com/a.ts", "https://example.com/b.ts"},
	}
	req := m.Request()
	if req.OutputDir != m.Output {
		t.Errorf("OutputDir: got %q, want %q", req.OutputDir, m.Output)
	}
	if !reflect.DeepEqual(req.Specifiers, m.URLs) {
		t.Errorf("Specifiers: got %v, want %v", req.Specifiers, m.URLs)
	}

	// The request has its own copy
	req.Specifiers[0] = "changed"
	if m.URLs[0] == "changed" {
		t.Error("Request shares URLs with the manifest")
	}
}
