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

package pixelprog

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestRun(t *testing.T) {
	tests := []struct {
		name    string
		program string
		inputs  []float64
		outputs []float64
	}{
		{"add", "add", []float64{1, 2}, []float64{3}},
		{"atan", "1 atan", []float64{1}, []float64{45}},
		{"cos", "cos", []float64{60}, []float64{0.5}},
		{"idiv", "2 idiv", []float64{5.7}, []float64{2}},
		{"mod", "3 mod", []float64{-7}, []float64{-1}},
		{"round half up", "round", []float64{-2.5}, []float64{-2}},
		{"exp", "0.5 exp", []float64{9}, []float64{3}},
		{"ifelse true", "0.5 gt { 1 } { 0 } ifelse", []float64{0.7}, []float64{1}},
		{"ifelse false", "0.5 gt { 1 } { 0 } ifelse", []float64{0.2}, []float64{0}},
		{"if", "dup 1 gt { pop 1 } if", []float64{3}, []float64{1}},
		{"nested", "dup 0 lt { pop 0 } { dup 1 gt { pop 1 } if } ifelse", []float64{0.25}, []float64{0.25}},
		{"exch", "exch", []float64{1, 2}, []float64{2, 1}},
		{"index", "2 index", []float64{1, 2, 3}, []float64{1, 2, 3, 1}},
		{"copy", "2 copy", []float64{1, 2}, []float64{1, 2, 1, 2}},
		{"roll", "3 1 roll", []float64{1, 2, 3}, []float64{3, 1, 2}},
		{"roll negative", "3 -1 roll", []float64{1, 2, 3}, []float64{2, 3, 1}},
		{"bitwise and", "6 and", []float64{3}, []float64{2}},
		{"boolean xor", "0 gt exch 0 gt xor { 1 } { 0 } ifelse", []float64{1, -1}, []float64{1}},
		{"not", "not", []float64{0}, []float64{-1}},
		{"clamp", "0 1 clamp", []float64{1.5}, []float64{1}},
		{"min max", "2 copy min 3 1 roll max", []float64{4, 2}, []float64{2, 4}},
		{"lerp", "lerp", []float64{0.2, 0.6, 0.5}, []float64{0.4}},
		{"comment", "% scale\n2 mul", []float64{0.25}, []float64{0.5}},
	}

	var m Machine
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p, err := Compile(tc.program, len(tc.inputs), len(tc.outputs))
			if err != nil {
				t.Fatal(err)
			}
			out := make([]float64, len(tc.outputs))
			if err := m.Run(p, tc.inputs, out); err != nil {
				t.Fatal(err)
			}
			if d := cmp.Diff(tc.outputs, out, cmpopts.EquateApprox(0, 1e-9)); d != "" {
				t.Errorf("%q (-want +got):\n%s", tc.program, d)
			}
		})
	}
}

func TestCompileErrors(t *testing.T) {
	programs := []string{
		"1 2 frobnicate",
		"{ 1 2 add",
		"1 }",
		"{ 1 } { 2 }",
		"{ 1 } ifelse",
		"if",
		"/name",
	}
	for _, src := range programs {
		_, err := Compile(src, 0, 1)
		var cErr *CompileError
		if !errors.As(err, &cErr) {
			t.Errorf("%q: expected CompileError, got %v", src, err)
		}
	}
}

func TestRuntimeErrors(t *testing.T) {
	tests := []struct {
		program string
		inputs  int
		want    error
	}{
		{"add", 1, errStackUnderflow},
		{"0 div", 1, errDivByZero},
		{"-1 sqrt", 0, errRange},
		{"dup 1 gt add", 1, errTypeMismatch},
		{"1 gt", 1, errTypeMismatch},
		{"{ 1 } if", 1, errTypeMismatch},
	}
	var m Machine
	for _, tc := range tests {
		p, err := Compile(tc.program, tc.inputs, 1)
		if err != nil {
			t.Fatalf("%q: %v", tc.program, err)
		}
		err = m.Run(p, []float64{0.5}, make([]float64, 1))
		if !errors.Is(err, tc.want) {
			t.Errorf("%q: got %v, want %v", tc.program, err, tc.want)
		}
	}
}

func TestStackOverflow(t *testing.T) {
	deep := "1"
	for range maxStackDepth {
		deep += " dup"
	}
	p := MustCompile(deep, 0, 1)
	var m Machine
	err := m.Run(p, nil, make([]float64, 1))
	if !errors.Is(err, errStackOverflow) {
		t.Errorf("got %v, want stack overflow", err)
	}
}

func TestMachineReuse(t *testing.T) {
	p := MustCompile("mul 255 mul round", 2, 1)
	var m Machine
	out := make([]float64, 1)
	for i := range 10 {
		x := float64(i) / 10
		if err := m.Run(p, []float64{x, 0.5}, out); err != nil {
			t.Fatal(err)
		}
		if want := math.Floor(x*0.5*255 + 0.5); out[0] != want {
			t.Errorf("%g: got %g, want %g", x, out[0], want)
		}
	}
	if in, outs := p.Shape(); in != 2 || outs != 1 {
		t.Errorf("shape = %d, %d", in, outs)
	}
}

func FuzzRun(f *testing.F) {
	f.Add("pop 4 1 roll pop pop pop max")
	f.Add("dup 0 lt { pop 0 } { dup 1 gt { pop 1 } if } ifelse")
	f.Add("3 -1 roll 2 copy 5 index lerp")
	f.Add("{ 1 } { 2 } ifelse")

	in := []float64{0.25, 0.5, 0.75, 1, 0, 0.5, 1, 0.5, 1}
	f.Fuzz(func(t *testing.T, src string) {
		p, err := Compile(src, len(in), 2)
		if err != nil {
			var cErr *CompileError
			if !errors.As(err, &cErr) {
				t.Fatalf("unexpected error type: %v", err)
			}
			return
		}
		var m Machine
		out := make([]float64, 2)
		err = m.Run(p, in, out)
		if err != nil {
			var rErr *RuntimeError
			if !errors.As(err, &rErr) {
				t.Fatalf("unexpected error type: %v", err)
			}
		}
	})
}
