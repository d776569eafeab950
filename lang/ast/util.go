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
	"fmt"
	"reflect"

	"github.com/purpleidea/proglang/lang/interfaces"
	"github.com/purpleidea/proglang/util/errwrap"
)

// Seq links the statements into one chain, in order, by setting the successor
// of each one to the statement that follows it. The last statement keeps
// whatever successor it already had, so a chain can be prefixed onto an
// existing one. It returns the head, or nil if there are no statements.
func Seq(stmts ...interfaces.Stmt) interfaces.Stmt {
	if len(stmts) == 0 {
		return nil
	}
	for i := 0; i < len(stmts)-1; i++ {
		stmts[i].SetSuccessor(stmts[i+1])
	}
	return stmts[0]
}

// isNil returns true for a nil interface, and for an interface that holds a
// nil pointer, which would otherwise panic on the first method call.
func isNil(x interface{}) bool {
	if x == nil {
		return true
	}
	v := reflect.ValueOf(x)
	switch v.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func:
		return v.IsNil()
	}
	return false
}

// exprString renders an expression, or a placeholder if it is missing.
func exprString(x interfaces.Node) string {
	if isNil(x) {
		return "<nil>"
	}
	return x.String()
}

func validateBinary(op string, lhs, rhs interfaces.Node) error {
	if isNil(lhs) || isNil(rhs) {
		return errwrap.Wrapf(interfaces.ErrMalformedProgram, "operator `%s` is missing an operand", op)
	}
	if err := lhs.Validate(); err != nil {
		return err
	}
	return rhs.Validate()
}

func validateUnary(op string, expr interfaces.Node) error {
	if isNil(expr) {
		return errwrap.Wrapf(interfaces.ErrMalformedProgram, "operator `%s` is missing an operand", op)
	}
	return expr.Validate()
}

// typeName is used when rendering unknown node types.
func typeName(x interface{}) string { return fmt.Sprintf("%T", x) }
