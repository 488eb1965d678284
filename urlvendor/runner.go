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
	"bytes"
	"context"
	"io"
	"os/exec"

	"github.com/pkg/errors"
)

var execCommand = exec.CommandContext

// Result describes a command which ran to completion.
type Result struct {
	// ExitCode is the exit status of the command. It is -1 if
	// the command was terminated by a signal.
	ExitCode int

	// Stderr is everything the command wrote to standard error.
	Stderr []byte
}

// Success reports whether the command exited with status 0.
func (r *Result) Success() bool {
	return r.ExitCode == 0
}

// Runner is the interface that wraps the Run method.
type Runner interface {
	// Run runs the named command with args and waits for it to
	// finish. Standard input is empty and standard output is
	// written to stdout, or discarded if stdout is nil. Standard
	// error is captured in the Result. An error is returned only
	// if the command could not be run; a non-zero exit status is
	// reported in the Result.
	Run(ctx context.Context, stdout io.Writer, name string, args ...string) (*Result, error)
}

// ExecRunner implements Runner using os/exec.
type ExecRunner struct {
	// Dir is the working directory for commands. If Dir is ""
	// the current directory is used.
	Dir string
}

// Run implements the Runner interface.
func (r ExecRunner) Run(ctx context.Context, stdout io.Writer, name string, args ...string) (*Result, error) {
	cmd := execCommand(ctx, name, args...)
	cmd.Dir = r.Dir
	cmd.Stdin = nil
	cmd.Stdout = stdout
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err := cmd.Run()
	result := &Result{Stderr: stderr.Bytes()}
	if err != nil {
		if ctx.Err() != nil {
			return nil, errors.Wrapf(ctx.Err(), "running %s", name)
		}
		exitErr, ok := err.(*exec.ExitError)
		if !ok {
			return nil, errors.Wrapf(err, "running %s", name)
		}
		result.ExitCode = exitErr.ExitCode()
	}
	return result, nil
}
