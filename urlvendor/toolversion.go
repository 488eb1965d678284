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
	"bufio"
	"bytes"
	"context"
	"regexp"
	"strings"

	"github.com/Masterminds/semver"
	"github.com/pkg/errors"
)

// DefaultToolConstraint is the range of DefaultTool versions which
// have the "vendor" subcommand.
const DefaultToolConstraint = ">= 1.19.0, < 2.0.0"

// versionLine matches lines like "deno 1.46.3 (stable, release, ...)".
var versionLine = regexp.MustCompile(`^\S+\s+(v?[0-9]+\.[0-9]+\.[0-9]+\S*)`)

// ToolVersion runs 'tool --version' and returns the version from the
// first line which names one.
func ToolVersion(ctx context.Context, runner Runner, tool string) (*semver.Version, error) {
	var stdout bytes.Buffer
	result, err := runner.Run(ctx, &stdout, tool, "--version")
	if err != nil {
		return nil, err
	}
	if !result.Success() {
		return nil, errors.Errorf("%s --version exited with status %d: %s",
			tool, result.ExitCode, strings.TrimSpace(string(result.Stderr)))
	}

	scanner := bufio.NewScanner(&stdout)
	for scanner.Scan() {
		m := versionLine.FindStringSubmatch(strings.TrimSpace(scanner.Text()))
		if m == nil {
			continue
		}
		v, err := semver.NewVersion(m[1])
		if err != nil {
			log.Debugf("%s: %s", m[1], err)
			continue
		}
		log.Debugf("%s is version %s", tool, v)
		return v, nil
	}
	return nil, ErrorVersionNotFound
}

// CheckToolVersion returns the version of tool, or an error wrapping
// ErrorVersionMismatch if it does not satisfy constraint.
func CheckToolVersion(ctx context.Context, runner Runner, tool, constraint string) (*semver.Version, error) {
	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return nil, errors.Wrapf(err, "version constraint %q", constraint)
	}
	v, err := ToolVersion(ctx, runner, tool)
	if err != nil {
		return nil, err
	}
	if !c.Check(v) {
		return v, errors.Wrapf(ErrorVersionMismatch, "%s %s does not satisfy %q",
			tool, v, constraint)
	}
	return v, nil
}
