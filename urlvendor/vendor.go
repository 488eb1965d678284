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
	"context"
	"os"
	"path/filepath"
	"strings"

	logging "github.com/op/go-logging"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
)

var log = logging.MustGetLogger("urlvendor")

// ImportMapName is the name of the import map the vendoring tool
// writes at the top of the output directory.
const ImportMapName = "import_map.json"

// DefaultTool is the vendoring tool used when none is configured.
const DefaultTool = "deno"

// Request describes a single vendoring run.
type Request struct {
	// Specifiers are the module specifiers to vendor, in order.
	Specifiers []string

	// OutputDir is where vendored modules are written. If it is
	// "" the result of DefaultOutputDir is used.
	OutputDir string
}

// Entry describes a module specifier and where its vendored copy is
// expected to be.
type Entry struct {
	// Specifier is the module specifier.
	Specifier string

	// Path is the location of the vendored copy, relative to the
	// output directory.
	Path string

	// Present is true if a vendored copy exists.
	Present bool
}

// DefaultOutputDir returns the "vendor" directory below the current
// working directory.
func DefaultOutputDir() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", errors.Wrap(err, "finding working directory")
	}
	return filepath.Join(cwd, "vendor"), nil
}

// A Vendorer vendors module specifiers using an external tool. The
// zero value runs DefaultTool on the operating system's filesystem.
type Vendorer struct {
	// Fs is the filesystem holding the output directory.
	Fs afero.Fs

	// Runner runs the vendoring tool.
	Runner Runner

	// Tool is the name of the vendoring tool.
	Tool string

	// Mapper computes where the tool writes each specifier.
	Mapper *Mapper

	// Trace, if not nil, is called for each state transition.
	Trace func(specifier string, from, to State)
}

// NewVendorer returns a Vendorer which runs DefaultTool as a
// subprocess, writing to the operating system's filesystem, and
// resolving relative specifiers against the working directory.
func NewVendorer() (*Vendorer, error) {
	m, err := NewMapper()
	if err != nil {
		return nil, err
	}
	return &Vendorer{
		Fs:     afero.NewOsFs(),
		Runner: ExecRunner{},
		Tool:   DefaultTool,
		Mapper: m,
	}, nil
}

func (v *Vendorer) outputDir(req Request) (string, error) {
	if req.OutputDir != "" {
		return req.OutputDir, nil
	}
	return DefaultOutputDir()
}

func (v *Vendorer) fs() afero.Fs {
	if v.Fs == nil {
		v.Fs = afero.NewOsFs()
	}
	return v.Fs
}

func (v *Vendorer) runner() Runner {
	if v.Runner == nil {
		return ExecRunner{}
	}
	return v.Runner
}

func (v *Vendorer) mapper() (*Mapper, error) {
	if v.Mapper == nil {
		m, err := NewMapper()
		if err != nil {
			return nil, err
		}
		v.Mapper = m
	}
	return v.Mapper, nil
}

func (v *Vendorer) tool() string {
	if v.Tool == "" {
		return DefaultTool
	}
	return v.Tool
}

// Command returns the command line used to vendor specifier into
// outputDir, starting with the tool name.
func (v *Vendorer) Command(specifier, outputDir string) []string {
	return []string{
		v.tool(),
		"vendor",
		specifier,
		"--output",
		outputDir,
		// The output directory exists after the first call
		"--force",
		// Keep generated import maps out of the project config
		"--no-config",
	}
}

// check computes where specifier is vendored and whether a vendored
// copy is already there.
func (v *Vendorer) check(outputDir, specifier string) (State, *Entry, error) {
	m, err := v.mapper()
	if err != nil {
		return StateAbort, nil, err
	}
	pth, err := m.Path(specifier)
	if err != nil {
		return StateAbort, nil, err
	}
	entry := &Entry{Specifier: specifier, Path: pth}

	target := filepath.Join(outputDir, pth)
	info, err := v.fs().Stat(target)
	switch {
	case err == nil && info.Mode().IsRegular():
		entry.Present = true
		return StateSkip, entry, nil
	case err == nil:
		// TODO: decide whether a directory here should count as
		// vendored. For now the tool is run again.
		log.Warningf("%s: %s exists but is not a regular file", specifier, target)
		return StateInvoke, entry, nil
	case isNotExist(err):
		return StateInvoke, entry, nil
	default:
		return StateAbort, entry, err
	}
}

// invoke runs the vendoring tool for specifier.
func (v *Vendorer) invoke(ctx context.Context, outputDir, specifier string) error {
	if err := v.fs().MkdirAll(outputDir, 0755); err != nil {
		return err
	}

	cmd := v.Command(specifier, outputDir)
	log.Debugf("running %s", strings.Join(cmd, " "))
	result, err := v.runner().Run(ctx, nil, cmd[0], cmd[1:]...)
	if err != nil {
		return err
	}
	if !result.Success() {
		return &ToolError{
			Specifier: specifier,
			ExitCode:  result.ExitCode,
			Stderr:    string(result.Stderr),
			Command:   cmd,
		}
	}
	return nil
}

// vendorOne moves specifier through the vendoring states until it
// reaches a terminal one, which is returned. For StateAbort the
// error responsible is also returned.
func (v *Vendorer) vendorOne(ctx context.Context, outputDir, specifier string) (State, error) {
	state := StateCheck
	var cause error
	for !IsTerminal(state) {
		var next State
		switch state {
		case StateCheck:
			next, _, cause = v.check(outputDir, specifier)
		case StateSkip:
			log.Debugf("%s: already vendored", specifier)
			next = StateDone
		case StateInvoke:
			next = StateDone
			if cause = v.invoke(ctx, outputDir, specifier); cause != nil {
				next = StateAbort
			}
		}

		from := state
		var err error
		if state, err = transition(from, next); err != nil {
			return state, err
		}
		if v.Trace != nil {
			v.Trace(specifier, from, state)
		}
	}

	if state == StateAbort {
		return state, cause
	}
	return state, nil
}

// Vendor vendors each specifier in req, in order, skipping those
// which are already vendored. The first failure stops the run and
// is returned. Once every specifier is vendored the import map
// written by the tool is removed.
func (v *Vendorer) Vendor(ctx context.Context, req Request) error {
	outputDir, err := v.outputDir(req)
	if err != nil {
		return err
	}

	for _, specifier := range req.Specifiers {
		if err := ctx.Err(); err != nil {
			return errors.Wrap(err, "vendoring")
		}
		if _, err := v.vendorOne(ctx, outputDir, specifier); err != nil {
			return err
		}
	}

	return v.RemoveImportMap(outputDir)
}

// RemoveImportMap removes the import map from outputDir. It is not
// an error for there to be no import map.
func (v *Vendorer) RemoveImportMap(outputDir string) error {
	// With --force the import map only describes the last module
	// vendored, so it is of no use.
	importMap := filepath.Join(outputDir, ImportMapName)
	err := v.fs().Remove(importMap)
	if err != nil && !isNotExist(err) {
		return err
	}
	if err == nil {
		log.Debugf("removed %s", importMap)
	}
	return nil
}

// Entries reports, for each specifier in req, where it is vendored
// and whether it is present. Nothing is modified.
func (v *Vendorer) Entries(req Request) ([]Entry, error) {
	outputDir, err := v.outputDir(req)
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(req.Specifiers))
	for _, specifier := range req.Specifiers {
		state, entry, err := v.check(outputDir, specifier)
		if state == StateAbort {
			return nil, err
		}
		entries = append(entries, *entry)
	}
	return entries, nil
}

// VendorURLs vendors urls into outputDir using DefaultTool.
func VendorURLs(ctx context.Context, urls []string, outputDir string) error {
	v, err := NewVendorer()
	if err != nil {
		return err
	}
	return v.Vendor(ctx, Request{Specifiers: urls, OutputDir: outputDir})
}
