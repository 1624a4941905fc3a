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
	"strconv"
)

type tokenKind uint8

const (
	tokNumber tokenKind = iota
	tokBool
	tokName
	tokOpen  // {
	tokClose // }
)

type token struct {
	kind tokenKind
	pos  int
	x    float64 // number value, or 1 for true
	name string
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\f', 0:
		return true
	}
	return false
}

func isDelim(c byte) bool {
	return isSpace(c) || c == '{' || c == '}' || c == '%'
}

// tokenize splits a program into tokens.
func tokenize(src string) ([]token, error) {
	var tokens []token
	for i := 0; i < len(src); {
		c := src[i]
		switch {
		case isSpace(c):
			i++
			continue
		case c == '%':
			for i < len(src) && src[i] != '\n' && src[i] != '\r' {
				i++
			}
			continue
		case c == '{':
			tokens = append(tokens, token{kind: tokOpen, pos: i})
			i++
			continue
		case c == '}':
			tokens = append(tokens, token{kind: tokClose, pos: i})
			i++
			continue
		}

		start := i
		for i < len(src) && !isDelim(src[i]) {
			i++
		}
		word := src[start:i]
		if x, err := strconv.ParseFloat(word, 64); err == nil {
			tokens = append(tokens, token{kind: tokNumber, pos: start, x: x})
			continue
		}
		switch word {
		case "true":
			tokens = append(tokens, token{kind: tokBool, pos: start, x: 1})
		case "false":
			tokens = append(tokens, token{kind: tokBool, pos: start})
		default:
			if word[0] == '/' || word[0] == '(' || word[0] == '[' {
				return nil, &CompileError{Pos: start, Msg: "unsupported syntax " + strconv.Quote(word)}
			}
			tokens = append(tokens, token{kind: tokName, pos: start, name: word})
		}
	}
	return tokens, nil
}

// compileBlock compiles the tokens starting at pos.  If inBlock is set,
// compilation stops after the matching '}'.  The position of the next
// unused token is returned.
func compileBlock(tokens []token, pos int, inBlock bool) ([]instruction, int, error) {
	var code []instruction

	// bodies holds procedure bodies which are waiting for "if" or
	// "ifelse".
	var bodies [][]instruction

	for pos < len(tokens) {
		tok := tokens[pos]
		pos++

		switch tok.kind {
		case tokNumber:
			code = append(code, instruction{op: opPush, x: tok.x})
		case tokBool:
			code = append(code, instruction{op: opPushBool, x: tok.x})

		case tokOpen:
			body, next, err := compileBlock(tokens, pos, true)
			if err != nil {
				return nil, 0, err
			}
			pos = next
			bodies = append(bodies, body)

		case tokClose:
			if !inBlock {
				return nil, 0, &CompileError{Pos: tok.pos, Msg: "unexpected '}'"}
			}
			if len(bodies) > 0 {
				return nil, 0, &CompileError{Pos: tok.pos, Msg: "unused procedure body"}
			}
			return code, pos, nil

		case tokName:
			switch tok.name {
			case "if":
				if len(bodies) < 1 {
					return nil, 0, &CompileError{Pos: tok.pos, Msg: "'if' needs a procedure body"}
				}
				body := bodies[len(bodies)-1]
				bodies = bodies[:len(bodies)-1]
				code = append(code, instruction{op: opJumpIfFalse, arg: len(body)})
				code = append(code, body...)

			case "ifelse":
				if len(bodies) < 2 {
					return nil, 0, &CompileError{Pos: tok.pos, Msg: "'ifelse' needs two procedure bodies"}
				}
				yes, no := bodies[len(bodies)-2], bodies[len(bodies)-1]
				bodies = bodies[:len(bodies)-2]
				code = append(code, instruction{op: opJumpIfFalse, arg: len(yes) + 1})
				code = append(code, yes...)
				code = append(code, instruction{op: opJump, arg: len(no)})
				code = append(code, no...)

			default:
				op, ok := operators[tok.name]
				if !ok {
					return nil, 0, &CompileError{Pos: tok.pos, Msg: "unknown operator " + strconv.Quote(tok.name)}
				}
				code = append(code, instruction{op: op})
			}
		}
	}

	if inBlock {
		return nil, 0, &CompileError{Pos: endPos(tokens), Msg: "unterminated '{'"}
	}
	if len(bodies) > 0 {
		return nil, 0, &CompileError{Pos: endPos(tokens), Msg: "unused procedure body at end of program"}
	}
	return code, pos, nil
}

// endPos returns the position of the last token, for error messages about
// the end of the program.
func endPos(tokens []token) int {
	if len(tokens) == 0 {
		return 0
	}
	return tokens[len(tokens)-1].pos
}
