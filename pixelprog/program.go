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

// Package pixelprog compiles and runs small per-pixel programs.
//
// Programs are written in the calculator subset of PostScript, extended by
// a few operators which are useful for pixel arithmetic:
//
//	x lo hi clamp   → min(max(x, lo), hi)
//	a b min         → min(a, b)
//	a b max         → max(a, b)
//	a b t lerp      → a + (b-a)·t
//
// Before a program runs, its input values are pushed onto the operand
// stack in order.  When the program finishes, the top of the stack must
// hold the output values, the last output on top.
//
// Programs are compiled once into bytecode and can then be executed many
// times.  A compiled [Program] is immutable and can be shared between
// goroutines; every goroutine needs its own [Machine].
package pixelprog

import (
	"errors"
	"fmt"
)

// Program is a compiled pixel program.
type Program struct {
	code    []instruction
	inputs  int
	outputs int
}

// Compile translates a program which maps the given number of inputs to
// the given number of outputs.
func Compile(src string, inputs, outputs int) (*Program, error) {
	if inputs < 0 || outputs < 0 {
		return nil, &CompileError{Msg: "negative number of inputs or outputs"}
	}
	tokens, err := tokenize(src)
	if err != nil {
		return nil, err
	}
	code, next, err := compileBlock(tokens, 0, false)
	if err != nil {
		return nil, err
	}
	if next != len(tokens) {
		return nil, &CompileError{Pos: tokens[next].pos, Msg: "unexpected input"}
	}
	return &Program{code: code, inputs: inputs, outputs: outputs}, nil
}

// MustCompile is like [Compile] but panics on error.
// It is intended for programs which are part of the source code.
func MustCompile(src string, inputs, outputs int) *Program {
	p, err := Compile(src, inputs, outputs)
	if err != nil {
		panic(err)
	}
	return p
}

// Shape returns the number of inputs and outputs of the program.
func (p *Program) Shape() (inputs, outputs int) {
	return p.inputs, p.outputs
}

// Machine holds the operand stack used to run programs.  A machine can be
// reused for many runs, but must not be used concurrently.
type Machine struct {
	stack []value
}

// Run executes the program.  The slice in must hold the inputs and out
// must have room for the outputs.
func (m *Machine) Run(p *Program, in, out []float64) error {
	if len(in) < p.inputs || len(out) < p.outputs {
		return &RuntimeError{Err: errArgCount}
	}

	stack := m.stack[:0]
	for _, x := range in[:p.inputs] {
		stack = append(stack, num(x))
	}
	stack, err := execute(p.code, stack)
	if stack != nil {
		m.stack = stack
	}
	if err != nil {
		return err
	}

	if len(stack) < p.outputs {
		return &RuntimeError{Err: errStackUnderflow}
	}
	res := stack[len(stack)-p.outputs:]
	for i, v := range res {
		if v.isBool {
			return &RuntimeError{Err: fmt.Errorf("output %d: %w", i, errTypeMismatch)}
		}
		out[i] = v.x
	}
	return nil
}

// CompileError is returned when a program cannot be compiled.
type CompileError struct {
	Pos int // byte offset in the source
	Msg string
}

func (err *CompileError) Error() string {
	return fmt.Sprintf("pixelprog: offset %d: %s", err.Pos, err.Msg)
}

// RuntimeError is returned when a program fails during execution.
type RuntimeError struct {
	PC  int
	Err error
}

func (err *RuntimeError) Error() string {
	return fmt.Sprintf("pixelprog: instruction %d: %v", err.PC, err.Err)
}

func (err *RuntimeError) Unwrap() error {
	return err.Err
}

var (
	errStackUnderflow = errors.New("stack underflow")
	errStackOverflow  = errors.New("stack overflow")
	errTypeMismatch   = errors.New("type mismatch")
	errDivByZero      = errors.New("division by zero")
	errRange          = errors.New("argument out of range")
	errArgCount       = errors.New("not enough input or output values")
)
