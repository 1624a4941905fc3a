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

// Package profile adds CPU and memory profiling to command line tools.
package profile

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"runtime/pprof"
)

// Flags holds the output files for the profiles.  Empty names disable the
// corresponding profile.
type Flags struct {
	CPU    string
	Memory string
}

// Register adds the -cpuprofile and -memprofile options to fs.
func (f *Flags) Register(fs *flag.FlagSet) {
	fs.StringVar(&f.CPU, "cpuprofile", "", "write cpu profile to `file`")
	fs.StringVar(&f.Memory, "memprofile", "", "write memory profile to `file`")
}

// Start begins CPU profiling and returns a function which stops the CPU
// profile and writes the memory profile.  Problems which occur while
// stopping are reported to logger, since the tool is usually about to
// exit at this point.
func (f *Flags) Start(logger *slog.Logger) (stop func(), err error) {
	var cpuFile *os.File
	if f.CPU != "" {
		cpuFile, err = os.Create(f.CPU)
		if err != nil {
			return nil, fmt.Errorf("could not create CPU profile: %w", err)
		}
		if err = pprof.StartCPUProfile(cpuFile); err != nil {
			cpuFile.Close()
			return nil, fmt.Errorf("could not start CPU profile: %w", err)
		}
	}

	stop = func() {
		if cpuFile != nil {
			pprof.StopCPUProfile()
			if err := cpuFile.Close(); err != nil {
				logger.Error("cannot write CPU profile", "file", f.CPU, "error", err)
			}
		}
		if f.Memory != "" {
			if err := writeHeap(f.Memory); err != nil {
				logger.Error("cannot write memory profile", "file", f.Memory, "error", err)
			}
		}
	}
	return stop, nil
}

func writeHeap(name string) error {
	fd, err := os.Create(name)
	if err != nil {
		return err
	}
	runtime.GC()
	allocs := pprof.Lookup("allocs")
	if allocs == nil {
		fd.Close()
		return fmt.Errorf("no allocation profile")
	}
	if err := allocs.WriteTo(fd, 0); err != nil {
		fd.Close()
		return err
	}
	return fd.Close()
}
