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
	"os"
	"strings"

	"github.com/pkg/errors"
)

// ErrorNoSpecifiers indicates that there was nothing to vendor.
var ErrorNoSpecifiers = errors.New("no module specifiers")

// ErrorVersionMismatch indicates that the vendoring tool is not a
// version which can be used.
var ErrorVersionMismatch = errors.New("unsupported tool version")

// ErrorVersionNotFound indicates that the vendoring tool did not
// report a version.
var ErrorVersionNotFound = errors.New("version not found")

// ErrorInvalidTransition indicates a state change the vendoring
// state machine does not allow.
var ErrorInvalidTransition = errors.New("invalid state transition")

// ToolError is returned when the vendoring tool exits with a
// non-zero status.
type ToolError struct {
	// Specifier is the module specifier being vendored.
	Specifier string

	// ExitCode is the exit status of the tool.
	ExitCode int

	// Stderr is everything the tool wrote to standard error.
	Stderr string

	// Command is the full command line, tool name first.
	Command []string
}

func (e *ToolError) Error() string {
	name := "tool"
	if len(e.Command) > 0 {
		name = e.Command[0]
	}
	if len(e.Command) > 1 {
		name += " " + e.Command[1]
	}
	return fmt.Sprintf(`%s

Failed to vendor files for %s. '%s' exited with status %d.
The output of the '%s' command is shown above.

The error occurred while running:
  %s`, e.Stderr, e.Specifier, name, e.ExitCode, name,
		strings.Join(e.Command, " "))
}

// IsToolError reports whether err, or the error it wraps, is a
// *ToolError.
func IsToolError(err error) bool {
	_, ok := errors.Cause(err).(*ToolError)
	return ok
}

// isNotExist is os.IsNotExist, looking through errors wrapped with
// github.com/pkg/errors.
func isNotExist(err error) bool {
	return os.IsNotExist(errors.Cause(err))
}
