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
	"os/exec"
	"testing"

	"github.com/spf13/afero"
)

func TestExecRunner(t *testing.T) {
	type tcase struct {
		name   string
		stdout string
		stderr string
		exit   int
	}
	tcases := []tcase{
		tcase{name: "success", stdout: "out\n"},
		tcase{name: "stderr", stderr: "warning: something\n"},
		tcase{name: "failure", stderr: "error: Module not found\n", exit: 1},
		tcase{name: "other-status", exit: 42},
	}

	for _, tc := range tcases {
		t.Run(tc.name, func(t *testing.T) {
			defer mockExecCommand()()
			mockedStdout = tc.stdout
			mockedStderr = tc.stderr
			mockedExitStatus = tc.exit

			var stdout bytes.Buffer
			result, err := ExecRunner{}.Run(context.Background(), &stdout, "deno", "--version")
			if err != nil {
				t.Fatal(err)
			}
			if result.ExitCode != tc.exit {
				t.Errorf("exit code: got %d, want %d", result.ExitCode, tc.exit)
			}
			if result.Success() != (tc.exit == 0) {
				t.Errorf("Success: got %t", result.Success())
			}
			if string(result.Stderr) != tc.stderr {
				t.Errorf("stderr: got %q, want %q", result.Stderr, tc.stderr)
			}
			if stdout.String() != tc.stdout {
				t.Errorf("stdout: got %q, want %q", stdout.String(), tc.stdout)
			}
		})
	}
}

func TestExecRunnerDiscardsStdout(t *testing.T) {
	defer mockExecCommand()()
	mockedStdout = "Vendored 1 module into vendor/ directory.\n"

	result, err := ExecRunner{}.Run(context.Background(), nil, "deno", "vendor")
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Stderr) != 0 {
		t.Errorf("stdout leaked into stderr: %q", result.Stderr)
	}
}

func TestExecRunnerArgs(t *testing.T) {
	defer mockExecCommand()()
	mockedEchoArgs = true

	var stdout bytes.Buffer
	_, err := ExecRunner{}.Run(context.Background(), &stdout,
		"deno", "vendor", "https://example.com/a.ts", "--output", "/out")
	if err != nil {
		t.Fatal(err)
	}
	exp := "deno vendor https://example.com/a.ts --output /out\n"
	if stdout.String() != exp {
		t.Errorf("got %q, want %q", stdout.String(), exp)
	}
}

func TestExecRunnerNotFound(t *testing.T) {
	_, err := ExecRunner{}.Run(context.Background(), nil, "urlvendor-no-such-tool")
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestExecRunnerCanceled(t *testing.T) {
	defer mockExecCommand()()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := (ExecRunner{}).Run(ctx, nil, "deno", "vendor"); err == nil {
		t.Fatal("expected error")
	}
}

func TestExecRunnerCanceledAfterSuccess(t *testing.T) {
	defer mockExecCommand()()
	// The command runs to completion even though ctx is done
	execCommand = func(_ context.Context, name string, args ...string) *exec.Cmd {
		return fakeExecCommand(context.Background(), name, args...)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := ExecRunner{}.Run(ctx, nil, "deno", "vendor")
	if err != nil {
		t.Fatal(err)
	}
	if !result.Success() {
		t.Errorf("exit code: got %d, want 0", result.ExitCode)
	}
}

func TestVendorWithExecRunner(t *testing.T) {
	defer mockExecCommand()()
	mockedStderr = "error: Import 'https://example.com/a.ts' failed: 404 Not Found\n"
	mockedExitStatus = 1

	v := &Vendorer{
		Fs:     afero.NewMemMapFs(),
		Runner: ExecRunner{},
		Tool:   "deno",
		Mapper: testMapper(),
	}
	err := v.Vendor(context.Background(), Request{
		Specifiers: []string{"https://example.com/a.ts"},
		OutputDir:  testOutputDir,
	})
	if !IsToolError(err) {
		t.Fatalf("expected *ToolError, got %v", err)
	}
	toolErr := err.(*ToolError)
	if toolErr.Stderr != mockedStderr {
		t.Errorf("stderr: got %q, want %q", toolErr.Stderr, mockedStderr)
	}
	if toolErr.ExitCode != 1 {
		t.Errorf("exit code: got %d, want 1", toolErr.ExitCode)
	}
}
