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

package ast

import (
	"strings"

	"github.com/purpleidea/proglang/lang/interfaces"
)

// Indent is the number of spaces added for each level of nesting.
const Indent = 4

// renderItem is one pending piece of output. Either the statement is set and
// the chain starting there gets printed at the indent, or the text is printed
// as is.
type renderItem struct {
	stmt   interfaces.Stmt
	indent int
	text   string
}

// Render prints the chain starting at stmt with the given indent. Nested chains
// are printed one level deeper, and successors at the same level. The walk uses
// an explicit stack so that neither the nesting depth nor the chain length are
// limited by the goroutine stack. The chain must be acyclic.
func Render(stmt interfaces.Stmt, indent int) string {
	var b strings.Builder
	stack := []renderItem{{stmt: stmt, indent: indent}}
	push := func(items ...renderItem) { // push in reverse to pop in order
		for i := len(items) - 1; i >= 0; i-- {
			stack = append(stack, items[i])
		}
	}

	for len(stack) > 0 {
		item := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if item.stmt == nil {
			b.WriteString(item.text)
			continue
		}
		pad := strings.Repeat(" ", item.indent)
		if isNil(item.stmt) {
			b.WriteString(pad + "<nil>\n")
			continue
		}
		items := []renderItem{}

		switch x := item.stmt.(type) {
		case *StmtAssign:
			b.WriteString(pad + x.Name + " = " + exprString(x.Value) + "\n")

		case *StmtIf:
			b.WriteString(pad + "if (" + exprString(x.Condition) + ") {\n")
			items = append(items, renderItem{stmt: x.ThenBranch, indent: item.indent + Indent})
			items = append(items, renderItem{text: pad + "}"})
			if x.ElseBranch != nil {
				items = append(items, renderItem{text: " else {\n"})
				items = append(items, renderItem{stmt: x.ElseBranch, indent: item.indent + Indent})
				items = append(items, renderItem{text: pad + "}\n"})
			} else {
				items = append(items, renderItem{text: "\n"})
			}

		case *StmtWhile:
			b.WriteString(pad + "while (" + exprString(x.Condition) + ") {\n")
			if x.Body != nil {
				items = append(items, renderItem{stmt: x.Body, indent: item.indent + Indent})
			}
			items = append(items, renderItem{text: pad + "}\n"})

		default:
			b.WriteString(pad + "<" + typeName(x) + ">\n")
		}

		if next := item.stmt.Successor(); next != nil {
			items = append(items, renderItem{stmt: next, indent: item.indent})
		}
		push(items...)
	}

	return b.String()
}
