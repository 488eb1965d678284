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

package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	logging "github.com/op/go-logging"
	"github.com/pkg/errors"

	"github.com/release-engineering/urlvendor/urlvendor"
)

var log = logging.MustGetLogger("urlvendor")

var helpFlag = flag.Bool("help", false, "print help")
var outputArg = flag.String("o", "", "output directory (default ./vendor)")
var toolArg = flag.String("tool", "", "vendoring tool to run (default "+urlvendor.DefaultTool+")")
var manifestArg = flag.String("manifest", "", "YAML file listing the URLs to vendor")
var debugArg = flag.Bool("debug", false, "show debugging output")
var listArg = flag.Bool("list", false, "show where each URL is vendored, without vendoring")
var templateArg = flag.String("template", "", "go template to use for -list output")
var requireVersionArg = flag.String("require-version", urlvendor.DefaultToolConstraint,
	"version constraint for the vendoring tool (empty to skip the check)")
var timeoutArg = flag.Duration("timeout", 0, "give up after this long (0 for no limit)")

func usage(program string) {
	fmt.Fprintf(os.Stderr, "usage: %s [OPTION]... [URL]...\n", program)
	flag.PrintDefaults()
}

func processArgs(args []string) {
	flag.CommandLine.Parse(args[1:])
	if *helpFlag {
		usage(args[0])
		os.Exit(0)
	}
}

func setupLogging() {
	backend := logging.NewLogBackend(os.Stderr, "", 0)
	formatter := logging.MustStringFormatter(`%{level:.1s}: %{message}`)
	leveled := logging.AddModuleLevel(logging.NewBackendFormatter(backend, formatter))
	level := logging.INFO
	if *debugArg {
		level = logging.DEBUG
	}
	leveled.SetLevel(level, "")
	logging.SetBackend(leveled)
}

// request builds the vendoring request from the manifest, if any,
// followed by the URLs given as arguments. It also returns the tool
// to run.
func request(urls []string) (urlvendor.Request, string, error) {
	var req urlvendor.Request
	tool := ""
	if *manifestArg != "" {
		m, err := urlvendor.LoadManifest(*manifestArg)
		if err != nil {
			return req, "", err
		}
		req = m.Request()
		tool = m.Tool
	}

	req.Specifiers = append(req.Specifiers, urls...)
	if *outputArg != "" {
		req.OutputDir = *outputArg
	}
	if *toolArg != "" {
		tool = *toolArg
	}
	if tool == "" {
		tool = urlvendor.DefaultTool
	}
	if len(req.Specifiers) == 0 {
		return req, tool, urlvendor.ErrorNoSpecifiers
	}
	return req, tool, nil
}

func list(w io.Writer, v *urlvendor.Vendorer, req urlvendor.Request) error {
	tmpl, err := urlvendor.NewTemplate(*templateArg)
	if err != nil {
		return err
	}
	entries, err := v.Entries(req)
	if err != nil {
		return err
	}
	for i := range entries {
		if err := tmpl.Execute(w, &entries[i]); err != nil {
			return err
		}
	}
	return nil
}

// checkTool verifies the tool version, but only if something needs
// vendoring, so that a fully vendored tree needs no tool at all.
func checkTool(ctx context.Context, v *urlvendor.Vendorer, req urlvendor.Request) error {
	if *requireVersionArg == "" {
		return nil
	}
	entries, err := v.Entries(req)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if !entry.Present {
			_, err := urlvendor.CheckToolVersion(ctx, v.Runner, v.Tool, *requireVersionArg)
			return err
		}
	}
	return nil
}

func run(ctx context.Context, v *urlvendor.Vendorer, req urlvendor.Request) error {
	if *listArg {
		return list(os.Stdout, v, req)
	}
	if err := checkTool(ctx, v, req); err != nil {
		return err
	}
	return v.Vendor(ctx, req)
}

func main() {
	processArgs(os.Args)
	setupLogging()

	req, tool, err := request(flag.Args())
	if err != nil {
		if errors.Cause(err) == urlvendor.ErrorNoSpecifiers {
			usage(os.Args[0])
			os.Exit(2)
		}
		log.Fatal(err)
	}

	v, err := urlvendor.NewVendorer()
	if err != nil {
		log.Fatal(err)
	}
	v.Tool = tool

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()
	if *timeoutArg > 0 {
		ctx, cancel = context.WithTimeout(ctx, *timeoutArg)
		defer cancel()
	}

	if err := run(ctx, v, req); err != nil {
		if urlvendor.IsToolError(err) {
			// The message already includes the tool's output
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		log.Fatal(err)
	}
}
