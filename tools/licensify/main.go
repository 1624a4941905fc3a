// seehuhn.de/go/pigment - colour spaces and pixel transformations
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
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
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Licensify adds the GPL license header to all Go source files below the
// current directory.  Outdated headers, for example with a different
// project line, are replaced.  Directories starting with "_" or "." are
// skipped.
//
// With the -check option, no files are changed.  Instead, the names of all
// files without the current header are printed and the exit status is 1 if
// any such file was found.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"
)

const header = `// seehuhn.de/go/pigment - colour spaces and pixel transformations
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
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
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

`

// lastHeaderLine ends every version of the license header.
const lastHeaderLine = "// along with this program.  If not, see <https://www.gnu.org/licenses/>.\n"

var check = flag.Bool("check", false, "only report files with missing or outdated headers")

func main() {
	log.SetFlags(0)
	log.SetPrefix("licensify: ")
	flag.Parse()

	var outdated []string
	err := filepath.WalkDir(".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			name := d.Name()
			if path != "." && (strings.HasPrefix(name, "_") || strings.HasPrefix(name, ".")) {
				return fs.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(path, ".go") {
			return nil
		}

		body, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		newBody, ok := fixHeader(body)
		if !ok {
			fmt.Println("ATTENTION " + path)
			return nil
		}
		if newBody == nil {
			return nil
		}

		outdated = append(outdated, path)
		if *check {
			fmt.Println(path)
			return nil
		}
		fmt.Println("updating " + path)
		return os.WriteFile(path, newBody, 0o644)
	})
	if err != nil {
		log.Fatal(err)
	}
	if *check && len(outdated) > 0 {
		os.Exit(1)
	}
}

// fixHeader returns the file contents with the current license header.
// The result is nil if the file is already up to date.  If the file does
// not start with either a license header or a package clause, ok is false.
func fixHeader(body []byte) (newBody []byte, ok bool) {
	if bytes.HasPrefix(body, []byte(header)) {
		return nil, true
	}

	rest := body
	if bytes.HasPrefix(body, []byte("// seehuhn.de/go/")) {
		idx := bytes.Index(body, []byte(lastHeaderLine))
		if idx < 0 {
			return nil, false
		}
		rest = bytes.TrimLeft(body[idx+len(lastHeaderLine):], "\n")
	}
	if !bytes.HasPrefix(rest, []byte("package ")) && !bytes.HasPrefix(rest, []byte("//")) {
		return nil, false
	}

	newBody = make([]byte, 0, len(header)+len(rest))
	newBody = append(newBody, header...)
	newBody = append(newBody, rest...)
	return newBody, true
}
