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
	"fmt"
	"io"
	"text/template"
)

// DefaultTemplate is the template used by Display when none is given.
const DefaultTemplate = "{{.Path}} {{if .Present}}present{{else}}absent{{end}}\n"

// DisplayError is returned when a template cannot be parsed.
type DisplayError struct {
	Template string
	Err      error
}

func (e *DisplayError) Error() string {
	return fmt.Sprintf("display: error creating template from %q: %s", e.Template, e.Err)
}

// NewTemplate parses customTemplate, or DefaultTemplate if it is "".
func NewTemplate(customTemplate string) (*template.Template, error) {
	text := customTemplate
	if text == "" {
		text = DefaultTemplate
	}
	tmpl, err := template.New("output").Parse(text)
	if err != nil {
		return nil, &DisplayError{Template: text, Err: err}
	}
	return tmpl, nil
}

// Display writes entry to writer using a template.
func Display(writer io.Writer, customTemplate string, entry *Entry) error {
	tmpl, err := NewTemplate(customTemplate)
	if err != nil {
		return err
	}
	return tmpl.Execute(writer, entry)
}
