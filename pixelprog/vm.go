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
	"fmt"
	"math"
)

type opCode uint8

const (
	opPush opCode = iota
	opPushBool

	// unary arithmetic
	opAbs
	opCeiling
	opCvi
	opCvr
	opFloor
	opLn
	opLog
	opNeg
	opRound
	opSqrt
	opTruncate
	opSin
	opCos

	// binary arithmetic
	opAdd
	opSub
	opMul
	opDiv
	opIdiv
	opMod
	opExp
	opAtan
	opMin
	opMax

	// comparisons
	opEq
	opNe
	opGe
	opGt
	opLe
	opLt

	// boolean
	opAnd
	opOr
	opXor
	opNot

	// stack
	opCopy
	opDup
	opExch
	opIndex
	opPop
	opRoll

	// pixel operators
	opClamp
	opLerp

	opJumpIfFalse
	opJump
)

var operators = map[string]opCode{
	"abs": opAbs, "ceiling": opCeiling, "cvi": opCvi, "cvr": opCvr,
	"floor": opFloor, "ln": opLn, "log": opLog, "neg": opNeg,
	"round": opRound, "sqrt": opSqrt, "truncate": opTruncate,
	"sin": opSin, "cos": opCos,

	"add": opAdd, "sub": opSub, "mul": opMul, "div": opDiv,
	"idiv": opIdiv, "mod": opMod, "exp": opExp, "atan": opAtan,
	"min": opMin, "max": opMax,

	"eq": opEq, "ne": opNe, "ge": opGe, "gt": opGt, "le": opLe, "lt": opLt,

	"and": opAnd, "or": opOr, "xor": opXor, "not": opNot,

	"copy": opCopy, "dup": opDup, "exch": opExch, "index": opIndex,
	"pop": opPop, "roll": opRoll,

	"clamp": opClamp, "lerp": opLerp,
}

type instruction struct {
	op  opCode
	arg int     // jump distance
	x   float64 // pushed value
}

// value is an element of the operand stack.  Integers and reals are both
// stored as float64; integer operators truncate their arguments.
type value struct {
	x      float64
	isBool bool
}

func num(x float64) value { return value{x: x} }

func boolean(b bool) value {
	if b {
		return value{x: 1, isBool: true}
	}
	return value{isBool: true}
}

// maxStackDepth limits the operand stack.
const maxStackDepth = 500

func deg2rad(x float64) float64 { return x * math.Pi / 180 }

// unaryOps implement the one-argument operators.  PostScript rounds halves
// upwards, also for negative numbers.
var unaryOps = map[opCode]func(float64) (float64, error){
	opAbs:      func(x float64) (float64, error) { return math.Abs(x), nil },
	opCeiling:  func(x float64) (float64, error) { return math.Ceil(x), nil },
	opCvi:      func(x float64) (float64, error) { return math.Trunc(x), nil },
	opCvr:      func(x float64) (float64, error) { return x, nil },
	opFloor:    func(x float64) (float64, error) { return math.Floor(x), nil },
	opNeg:      func(x float64) (float64, error) { return -x, nil },
	opRound:    func(x float64) (float64, error) { return math.Floor(x + 0.5), nil },
	opTruncate: func(x float64) (float64, error) { return math.Trunc(x), nil },
	opSin:      func(x float64) (float64, error) { return math.Sin(deg2rad(x)), nil },
	opCos:      func(x float64) (float64, error) { return math.Cos(deg2rad(x)), nil },
	opLn: func(x float64) (float64, error) {
		if x <= 0 {
			return 0, errRange
		}
		return math.Log(x), nil
	},
	opLog: func(x float64) (float64, error) {
		if x <= 0 {
			return 0, errRange
		}
		return math.Log10(x), nil
	},
	opSqrt: func(x float64) (float64, error) {
		if x < 0 {
			return 0, errRange
		}
		return math.Sqrt(x), nil
	},
}

var binaryOps = map[opCode]func(a, b float64) (float64, error){
	opAdd: func(a, b float64) (float64, error) { return a + b, nil },
	opSub: func(a, b float64) (float64, error) { return a - b, nil },
	opMul: func(a, b float64) (float64, error) { return a * b, nil },
	opMin: func(a, b float64) (float64, error) { return min(a, b), nil },
	opMax: func(a, b float64) (float64, error) { return max(a, b), nil },
	opDiv: func(a, b float64) (float64, error) {
		if b == 0 {
			return 0, errDivByZero
		}
		return a / b, nil
	},
	opIdiv: func(a, b float64) (float64, error) {
		a, b = math.Trunc(a), math.Trunc(b)
		if b == 0 {
			return 0, errDivByZero
		}
		return math.Trunc(a / b), nil
	},
	opMod: func(a, b float64) (float64, error) {
		a, b = math.Trunc(a), math.Trunc(b)
		if b == 0 {
			return 0, errDivByZero
		}
		return math.Mod(a, b), nil
	},
	opExp: func(a, b float64) (float64, error) { return math.Pow(a, b), nil },
	opAtan: func(a, b float64) (float64, error) {
		if a == 0 && b == 0 {
			return 0, errRange
		}
		d := math.Atan2(a, b) * 180 / math.Pi
		if d < 0 {
			d += 360
		}
		return d, nil
	},
}

var compareOps = map[opCode]func(a, b float64) bool{
	opGe: func(a, b float64) bool { return a >= b },
	opGt: func(a, b float64) bool { return a > b },
	opLe: func(a, b float64) bool { return a <= b },
	opLt: func(a, b float64) bool { return a < b },
}

// execute runs the bytecode on the given stack and returns the final
// stack.
func execute(code []instruction, stack []value) ([]value, error) {
	fail := func(pc int, err error) ([]value, error) {
		return stack, &RuntimeError{PC: pc, Err: err}
	}

	for pc := 0; pc < len(code); pc++ {
		inst := code[pc]
		n := len(stack)

		if f, ok := unaryOps[inst.op]; ok {
			if n < 1 {
				return fail(pc, errStackUnderflow)
			}
			if stack[n-1].isBool {
				return fail(pc, errTypeMismatch)
			}
			y, err := f(stack[n-1].x)
			if err != nil {
				return fail(pc, err)
			}
			stack[n-1] = num(y)
			continue
		}
		if f, ok := binaryOps[inst.op]; ok {
			if n < 2 {
				return fail(pc, errStackUnderflow)
			}
			a, b := stack[n-2], stack[n-1]
			if a.isBool || b.isBool {
				return fail(pc, errTypeMismatch)
			}
			y, err := f(a.x, b.x)
			if err != nil {
				return fail(pc, err)
			}
			stack = stack[:n-1]
			stack[n-2] = num(y)
			continue
		}
		if f, ok := compareOps[inst.op]; ok {
			if n < 2 {
				return fail(pc, errStackUnderflow)
			}
			a, b := stack[n-2], stack[n-1]
			if a.isBool || b.isBool {
				return fail(pc, errTypeMismatch)
			}
			stack = stack[:n-1]
			stack[n-2] = boolean(f(a.x, b.x))
			continue
		}

		switch inst.op {
		case opPush:
			stack = append(stack, num(inst.x))
		case opPushBool:
			stack = append(stack, boolean(inst.x != 0))

		case opEq, opNe:
			if n < 2 {
				return fail(pc, errStackUnderflow)
			}
			a, b := stack[n-2], stack[n-1]
			eq := a == b
			stack = stack[:n-1]
			stack[n-2] = boolean(eq == (inst.op == opEq))

		case opAnd, opOr, opXor:
			if n < 2 {
				return fail(pc, errStackUnderflow)
			}
			a, b := stack[n-2], stack[n-1]
			if a.isBool != b.isBool {
				return fail(pc, errTypeMismatch)
			}
			var r value
			if a.isBool {
				x, y := a.x != 0, b.x != 0
				switch inst.op {
				case opAnd:
					r = boolean(x && y)
				case opOr:
					r = boolean(x || y)
				default:
					r = boolean(x != y)
				}
			} else {
				x, y := int64(a.x), int64(b.x)
				switch inst.op {
				case opAnd:
					r = num(float64(x & y))
				case opOr:
					r = num(float64(x | y))
				default:
					r = num(float64(x ^ y))
				}
			}
			stack = stack[:n-1]
			stack[n-2] = r

		case opNot:
			if n < 1 {
				return fail(pc, errStackUnderflow)
			}
			if v := stack[n-1]; v.isBool {
				stack[n-1] = boolean(v.x == 0)
			} else {
				stack[n-1] = num(float64(^int64(v.x)))
			}

		case opDup:
			if n < 1 {
				return fail(pc, errStackUnderflow)
			}
			stack = append(stack, stack[n-1])

		case opExch:
			if n < 2 {
				return fail(pc, errStackUnderflow)
			}
			stack[n-1], stack[n-2] = stack[n-2], stack[n-1]

		case opPop:
			if n < 1 {
				return fail(pc, errStackUnderflow)
			}
			stack = stack[:n-1]

		case opIndex, opCopy:
			if n < 1 {
				return fail(pc, errStackUnderflow)
			}
			if stack[n-1].isBool {
				return fail(pc, errTypeMismatch)
			}
			k := int(stack[n-1].x)
			stack = stack[:n-1]
			n--
			if inst.op == opIndex {
				if k < 0 || k >= n {
					return fail(pc, errRange)
				}
				stack = append(stack, stack[n-1-k])
			} else {
				if k < 0 || k > n {
					return fail(pc, errRange)
				}
				stack = append(stack, stack[n-k:]...)
			}

		case opRoll:
			if n < 2 {
				return fail(pc, errStackUnderflow)
			}
			if stack[n-2].isBool || stack[n-1].isBool {
				return fail(pc, errTypeMismatch)
			}
			cnt, j := int(stack[n-2].x), int(stack[n-1].x)
			stack = stack[:n-2]
			if cnt < 0 || cnt > len(stack) {
				return fail(pc, errRange)
			}
			if cnt > 0 {
				rotate(stack[len(stack)-cnt:], j)
			}

		case opClamp:
			if n < 3 {
				return fail(pc, errStackUnderflow)
			}
			x, lo, hi := stack[n-3], stack[n-2], stack[n-1]
			if x.isBool || lo.isBool || hi.isBool {
				return fail(pc, errTypeMismatch)
			}
			stack = stack[:n-2]
			stack[n-3] = num(min(max(x.x, lo.x), hi.x))

		case opLerp:
			if n < 3 {
				return fail(pc, errStackUnderflow)
			}
			a, b, t := stack[n-3], stack[n-2], stack[n-1]
			if a.isBool || b.isBool || t.isBool {
				return fail(pc, errTypeMismatch)
			}
			stack = stack[:n-2]
			stack[n-3] = num(a.x + (b.x-a.x)*t.x)

		case opJumpIfFalse:
			if n < 1 {
				return fail(pc, errStackUnderflow)
			}
			cond := stack[n-1]
			if !cond.isBool {
				return fail(pc, errTypeMismatch)
			}
			stack = stack[:n-1]
			if cond.x == 0 {
				pc += inst.arg
			}

		case opJump:
			pc += inst.arg

		default:
			return fail(pc, fmt.Errorf("invalid opcode %d", inst.op))
		}

		if len(stack) > maxStackDepth {
			return fail(pc, errStackOverflow)
		}
	}
	return stack, nil
}

// rotate rolls the elements of data j positions towards the top.
func rotate(data []value, j int) {
	n := len(data)
	j %= n
	if j < 0 {
		j += n
	}
	if j == 0 {
		return
	}
	tmp := make([]value, j)
	copy(tmp, data[n-j:])
	copy(data[j:], data[:n-j])
	copy(data, tmp)
}
