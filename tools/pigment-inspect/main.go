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

package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"golang.org/x/term"

	"seehuhn.de/go/pigment"
	"seehuhn.de/go/pigment/descriptor"
	"seehuhn.de/go/pigment/registry"
	"seehuhn.de/go/pigment/tools/internal/buildinfo"
	"seehuhn.de/go/pigment/tools/internal/profile"
	"seehuhn.de/go/pigment/transform"
)

var (
	spaceArg  = flag.String("space", "", "show channels and composite ops of the colour space with this `id`")
	verbose   = flag.Bool("v", false, "log registry events to stderr")
	profiling profile.Flags
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("pigment-inspect: ")

	profiling.Register(flag.CommandLine)
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "pigment-inspect - list colour spaces, profiles and transformations\n")
		fmt.Fprintf(os.Stderr, "%s\n\n", buildinfo.Short("pigment-inspect"))
		fmt.Fprintf(os.Stderr, "Usage:\n")
		fmt.Fprintf(os.Stderr, "  pigment-inspect [options] [file.icc|file.yaml]...\n\n")
		fmt.Fprintf(os.Stderr, "Arguments:\n")
		fmt.Fprintf(os.Stderr, "  file.icc   ICC profiles to add to the registry\n")
		fmt.Fprintf(os.Stderr, "  file.yaml  colour space descriptors to add to the registry\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  pigment-inspect\n")
		fmt.Fprintf(os.Stderr, "  pigment-inspect -space RGBAU16 AdobeRGB1998.icc\n")
	}
	flag.Parse()

	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	level := slog.LevelError
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	stop, err := profiling.Start(logger)
	if err != nil {
		return err
	}
	defer stop()

	opts, err := loadFiles(flag.Args())
	if err != nil {
		return err
	}
	opts = append(opts, registry.WithLogger(logger))
	r, err := registry.New(opts...)
	if err != nil {
		return err
	}

	out := newOutput(os.Stdout)
	if *spaceArg != "" {
		return showSpace(out, r, *spaceArg)
	}

	listSpaces(out, r)
	fmt.Fprintln(out.w)
	listProfiles(out, r)
	fmt.Fprintln(out.w)
	listTransformations(out)
	return nil
}

// loadFiles reads ICC profiles and colour space descriptors.
func loadFiles(names []string) ([]registry.Option, error) {
	var opts []registry.Option
	for _, name := range names {
		switch strings.ToLower(filepath.Ext(name)) {
		case ".yaml", ".yml":
			d, err := descriptor.Load(name)
			if err != nil {
				return nil, err
			}
			opts = append(opts, registry.WithDescriptors(d))
		default:
			data, err := os.ReadFile(name)
			if err != nil {
				return nil, err
			}
			opts = append(opts, registry.WithProfiles(data))
		}
	}
	return opts, nil
}

// output knows whether it writes to a terminal, and how wide the terminal
// is.
type output struct {
	w     io.Writer
	tty   bool
	width int
}

func newOutput(f *os.File) *output {
	out := &output{w: f, width: 80}
	fd := int(f.Fd())
	if term.IsTerminal(fd) {
		out.tty = true
		if w, _, err := term.GetSize(fd); err == nil && w > 20 {
			out.width = w
		}
	}
	return out
}

// swatch returns a coloured block for terminals, or nothing.
func (out *output) swatch(c pigment.ChannelInfo) string {
	if !out.tty {
		return ""
	}
	col := c.DisplayColor
	return fmt.Sprintf("\x1b[48;2;%d;%d;%dm  \x1b[0m ", col.R, col.G, col.B)
}

// wrap joins words into lines which fit the terminal width.
func (out *output) wrap(indent string, words []string) string {
	var b strings.Builder
	lineLen := 0
	for i, word := range words {
		if i > 0 && lineLen+1+len(word) > out.width-len(indent) {
			b.WriteString("\n")
			lineLen = 0
		}
		if lineLen == 0 {
			b.WriteString(indent)
		} else {
			b.WriteString(" ")
			lineLen++
		}
		b.WriteString(word)
		lineLen += len(word)
	}
	return b.String()
}

func listSpaces(out *output, r *registry.Registry) {
	fmt.Fprintln(out.w, "colour spaces:")
	tw := tabwriter.NewWriter(out.w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "  ID\tname\tpixel\tchannels\tdefault profile")
	for _, f := range r.Factories() {
		format := f.Format()
		var names []string
		for _, c := range format.Channels() {
			names = append(names, c.ShortName)
		}
		prof := f.DefaultProfileName()
		if !f.UsesProfiles() {
			prof = "-"
		}
		fmt.Fprintf(tw, "  %s\t%s\t%d bytes\t%s\t%s\n",
			f.ID(), f.Name(), format.PixelSize(), strings.Join(names, ","), prof)
	}
	tw.Flush()
}

func listProfiles(out *output, r *registry.Registry) {
	fmt.Fprintln(out.w, "profiles:")
	tw := tabwriter.NewWriter(out.w, 0, 4, 2, ' ', 0)
	for _, p := range r.Profiles() {
		fmt.Fprintf(tw, "  %s\t%v\t%s\n", p.Name(), p.ColorSpace(), p.Kind())
	}
	tw.Flush()
}

func listTransformations(out *output) {
	fmt.Fprintln(out.w, "transformations:")
	tr := transform.Default()
	for _, id := range tr.IDs() {
		f, _ := tr.Get(id)
		fmt.Fprintf(out.w, "  %s (%s)\n", id, f.Name())
	}
}

func showSpace(out *output, r *registry.Registry, id string) error {
	cs, err := r.GetColorSpace(id, "")
	if err != nil {
		return err
	}

	prof := "none"
	if p := cs.Profile(); p != nil {
		prof = p.Name()
	}
	fmt.Fprintf(out.w, "%s (%s), profile %s\n", cs.Name(), cs.ID(), prof)
	fmt.Fprintf(out.w, "pixel size %d, HDR %t\n\n", cs.PixelSize(), cs.HasHighDynamicRange())

	tw := tabwriter.NewWriter(out.w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "  index\toffset\tname\ttype")
	for _, c := range cs.Channels() {
		fmt.Fprintf(tw, "  %d\t%d\t%s%s\t%s\n", c.Index, c.Offset, out.swatch(c), c.Name, c.ValueType)
	}
	tw.Flush()

	byCategory := make(map[string][]string)
	var categories []string
	for _, op := range cs.UserVisibleCompositeOps() {
		cat := op.Category()
		if _, seen := byCategory[cat]; !seen {
			categories = append(categories, cat)
		}
		byCategory[cat] = append(byCategory[cat], string(op.ID()))
	}
	fmt.Fprintln(out.w, "\ncomposite ops:")
	for _, cat := range categories {
		fmt.Fprintf(out.w, "  %s:\n%s\n", cat, out.wrap("    ", byCategory[cat]))
	}

	var models []string
	for _, id := range transform.Default().IDs() {
		f, _ := transform.Default().Get(id)
		if transform.Supports(f, cs) {
			models = append(models, id)
		}
	}
	fmt.Fprintf(out.w, "\ntransformations:\n%s\n", out.wrap("  ", models))
	return nil
}
