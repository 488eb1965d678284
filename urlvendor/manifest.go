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
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	yaml "gopkg.in/yaml.v2"
)

// Manifest lists the modules to vendor.
type Manifest struct {
	// Output is the output directory. A relative path is relative
	// to the directory containing the manifest.
	Output string `yaml:"output"`

	// Tool is the vendoring tool to run.
	Tool string `yaml:"tool"`

	// URLs are the module specifiers to vendor.
	URLs []string `yaml:"urls"`
}

// LoadManifest reads a YAML manifest from pth. An empty file is an
// empty manifest.
func LoadManifest(pth string) (*Manifest, error) {
	f, err := os.Open(pth)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var m Manifest
	dec := yaml.NewDecoder(f)
	dec.SetStrict(true)
	err = dec.Decode(&m)
	if err != nil && err != io.EOF {
		return nil, errors.Wrapf(err, "loading %s", pth)
	}

	if m.Output != "" && !filepath.IsAbs(m.Output) {
		m.Output = filepath.Join(filepath.Dir(pth), m.Output)
	}
	return &m, nil
}

// Request returns a Request for the modules in the manifest.
func (m *Manifest) Request() Request {
	specifiers := make([]string, len(m.URLs))
	copy(specifiers, m.URLs)
	return Request{
		Specifiers: specifiers,
		OutputDir:  m.Output,
	}
}
