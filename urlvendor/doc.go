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

// Package urlvendor vendors modules referenced by URL into a local
// directory, so that builds can run without network access. The
// vendoring itself is done by an external tool, "deno vendor" by
// default, run once for each module which is not already vendored.
//
// The ModuleSpecifierToPath function maps a module specifier to the
// path, relative to the output directory, where the tool writes it:
// the host name (with "_<port>" for an explicit port) followed by the
// segments of the URL path. Characters which are not allowed in file
// names are replaced with "_".
//
//     pth, err := urlvendor.ModuleSpecifierToPath("https://example.com:8080/x.ts")
//     // pth is "example.com_8080/x.ts"
//
// A Vendorer runs the tool for each specifier in a Request, in order,
// skipping those already present. It stops at the first failure, which
// is reported as a *ToolError for a non-zero exit status. Re-running
// the same Request resumes where it left off.
//
//     v, err := urlvendor.NewVendorer()
//     err = v.Vendor(ctx, urlvendor.Request{
//         Specifiers: []string{"https://deno.land/std@0.150.0/path/mod.ts"},
//         OutputDir:  "vendor",
//     })
//
// The filesystem and the way the tool is run are both fields of the
// Vendorer, so either can be replaced.
package urlvendor
