// Mgmt
// Copyright (C) 2013-2024+ James Shubin and the project contributors
// Written by James Shubin <james@shubin.ca> and the project contributors
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
//
// Additional permission under GNU GPL version 3 section 7
//
// If you modify this program, or any covered work, by linking or combining it
// with embedded mcl code and modules (and that the embedded mcl code and
// modules which link with this program, contain a copy of their source code in
// the authoritative form) containing parts covered by the terms of any other
// license, the licensors of this program grant you additional permission to
// convey the resulting work. Furthermore, the licensors of this program grant
// the original author, James Shubin, additional permission to update this
// additional permission if he deems it necessary to achieve the goals of this
// additional permission.

package demos

import (
	"time"

	"github.com/purpleidea/proglang/lang/ast"
	"github.com/purpleidea/proglang/lang/interfaces"
)

func init() {
	Register("counter", func() *Demo {
		return &Demo{
			Description: "two threads increment a counter in a single statement each",
			Threads:     []interfaces.Stmt{increment("ctr"), increment("ctr")},
			Delays:      []time.Duration{time.Millisecond, 2 * time.Millisecond},
			Initial:     interfaces.Store{"ctr": 0},

			Deterministic: true,
		}
	})

	Register("race", func() *Demo {
		split := func() interfaces.Stmt {
			return ast.Seq(
				ast.Assign("tmp", ast.Var("ctr"), nil),
				ast.Assign("ctr", ast.Add(ast.Var("tmp"), ast.Int(1)), nil),
			)
		}
		return &Demo{
			Description: "two threads increment a counter through a shared temporary and lose updates",
			Threads:     []interfaces.Stmt{split(), split()},
			Delays:      []time.Duration{10 * time.Millisecond, 15 * time.Millisecond},
			Initial:     interfaces.Store{"ctr": 0, "tmp": 0},
		}
	})

	Register("factorial", func() *Demo {
		// r = n! computed with a loop, and checked against the operator
		loop := ast.Seq(
			ast.Assign("r", ast.Int(1), nil),
			ast.Assign("i", ast.Var("n"), nil),
			ast.While(
				ast.GreaterThan(ast.Var("i"), ast.Int(0)),
				ast.Seq(
					ast.Assign("r", ast.Mul(ast.Var("r"), ast.Var("i")), nil),
					decrement("i"),
				),
				nil,
			),
			ast.If(
				ast.Equals(ast.Var("r"), ast.Fact(ast.Var("n"))),
				ast.Assign("ok", ast.Int(1), nil),
				ast.Assign("ok", ast.Int(0), nil),
				nil,
			),
		)
		return &Demo{
			Description: "computes n! with a loop and compares it with the factorial operator",
			Threads:     []interfaces.Stmt{loop},
			Delays:      []time.Duration{0},
			Initial:     interfaces.Store{"n": 6},

			Deterministic: true,
		}
	})

	Register("sum", func() *Demo {
		sum := func(acc, ctr string, limit int) interfaces.Stmt {
			return ast.Seq(
				ast.Assign(acc, ast.Int(0), nil),
				ast.Assign(ctr, ast.Int(1), nil),
				ast.While(
					ast.Not(ast.GreaterThan(ast.Var(ctr), ast.Int(limit))),
					ast.Seq(
						ast.Assign(acc, ast.Add(ast.Var(acc), ast.Var(ctr)), nil),
						increment(ctr),
					),
					nil,
				),
			)
		}
		return &Demo{
			Description: "two threads sum ranges into their own variables",
			Threads:     []interfaces.Stmt{sum("a", "i", 10), sum("b", "j", 100)},
			Delays:      []time.Duration{time.Millisecond, 0},
			Initial:     interfaces.Store{},

			Deterministic: true,
		}
	})

	Register("handoff", func() *Demo {
		return &Demo{
			Description: "one thread busy waits for a flag that the other one sets",
			Threads: []interfaces.Stmt{
				ast.While(
					ast.Equals(ast.Var("flag"), ast.Int(0)),
					nil,
					ast.Assign("seen", ast.Var("value"), nil),
				),
				ast.Seq(
					ast.Assign("value", ast.Int(42), nil),
					ast.Assign("flag", ast.Int(1), nil),
				),
			},
			Delays:  []time.Duration{time.Millisecond, 5 * time.Millisecond},
			Initial: interfaces.Store{"flag": 0, "value": 0},

			Deterministic: true,
		}
	})

	Register("divzero", func() *Demo {
		return &Demo{
			Description: "divides by a value that is zero",
			Threads: []interfaces.Stmt{
				ast.Assign("x", ast.Div(ast.Int(1), ast.Paren(ast.Sub(ast.Var("y"), ast.Var("y")))), nil),
			},
			Delays:  []time.Duration{0},
			Initial: interfaces.Store{"y": 7},

			Deterministic: true,
		}
	})

	Register("undefined", func() *Demo {
		return &Demo{
			Description: "reads a variable that was never assigned",
			Threads: []interfaces.Stmt{
				ast.Assign("x", ast.Add(ast.Var("y"), ast.Int(1)), nil),
			},
			Delays:  []time.Duration{0},
			Initial: interfaces.Store{},

			Deterministic: true,
		}
	})

	Register("negfact", func() *Demo {
		return &Demo{
			Description: "takes the factorial of a negative number",
			Threads: []interfaces.Stmt{
				ast.Assign("x", ast.Fact(ast.Paren(ast.Sub(ast.Int(0), ast.Int(3)))), nil),
			},
			Delays:  []time.Duration{0},
			Initial: interfaces.Store{},

			Deterministic: true,
		}
	})
}

func increment(name string) interfaces.Stmt {
	return ast.Assign(name, ast.Add(ast.Var(name), ast.Int(1)), nil)
}

func decrement(name string) interfaces.Stmt {
	return ast.Assign(name, ast.Sub(ast.Var(name), ast.Int(1)), nil)
}
