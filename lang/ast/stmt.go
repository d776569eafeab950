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
	"github.com/purpleidea/proglang/lang/interfaces"
	"github.com/purpleidea/proglang/util/errwrap"
)

// StmtAssign stores the value of an integer expression into a variable.
type StmtAssign struct {
	Name  string
	Value interfaces.IntExpr

	Next interfaces.Stmt // optional
}

// Assign returns a new assignment statement. The successor may be nil.
func Assign(name string, value interfaces.IntExpr, next interfaces.Stmt) *StmtAssign {
	return &StmtAssign{
		Name:  name,
		Value: value,
		Next:  next,
	}
}

// String renders this statement and everything after it.
func (obj *StmtAssign) String() string { return Render(obj, 0) }

// Validate checks that there is a name and a valid value.
func (obj *StmtAssign) Validate() error {
	if obj == nil {
		return errwrap.Wrapf(interfaces.ErrMalformedProgram, "nil assignment")
	}
	if obj.Name == "" {
		return errwrap.Wrapf(interfaces.ErrMalformedProgram, "assignment has an empty name")
	}
	if isNil(obj.Value) {
		return errwrap.Wrapf(interfaces.ErrMalformedProgram, "assignment to `%s` has no value", obj.Name)
	}
	return obj.Value.Validate()
}

// Successor returns the next statement.
func (obj *StmtAssign) Successor() interfaces.Stmt { return obj.Next }

// SetSuccessor replaces the next statement.
func (obj *StmtAssign) SetSuccessor(next interfaces.Stmt) { obj.Next = next }

// StmtIf runs one of two chains depending on a condition, and then continues
// with its successor. The else branch is optional.
type StmtIf struct {
	Condition  interfaces.BoolExpr
	ThenBranch interfaces.Stmt
	ElseBranch interfaces.Stmt // optional

	Next interfaces.Stmt // optional
}

// If returns a new conditional statement. The else branch and the successor
// may be nil.
func If(condition interfaces.BoolExpr, thenBranch, elseBranch, next interfaces.Stmt) *StmtIf {
	return &StmtIf{
		Condition:  condition,
		ThenBranch: thenBranch,
		ElseBranch: elseBranch,
		Next:       next,
	}
}

// String renders this statement and everything after it.
func (obj *StmtIf) String() string { return Render(obj, 0) }

// Validate checks the condition and that the then branch is present. The
// branches themselves are not validated here.
func (obj *StmtIf) Validate() error {
	if obj == nil {
		return errwrap.Wrapf(interfaces.ErrMalformedProgram, "nil if")
	}
	if isNil(obj.Condition) {
		return errwrap.Wrapf(interfaces.ErrMalformedProgram, "if has no condition")
	}
	if isNil(obj.ThenBranch) {
		return errwrap.Wrapf(interfaces.ErrMalformedProgram, "if (%s) has no then branch", obj.Condition)
	}
	return obj.Condition.Validate()
}

// Successor returns the next statement.
func (obj *StmtIf) Successor() interfaces.Stmt { return obj.Next }

// SetSuccessor replaces the next statement.
func (obj *StmtIf) SetSuccessor(next interfaces.Stmt) { obj.Next = next }

// StmtWhile repeats its body for as long as the condition holds. The body is
// optional, and without one the loop spins on its condition.
type StmtWhile struct {
	Condition interfaces.BoolExpr
	Body      interfaces.Stmt // optional

	Next interfaces.Stmt // optional
}

// While returns a new loop statement. The body and the successor may be nil.
func While(condition interfaces.BoolExpr, body, next interfaces.Stmt) *StmtWhile {
	return &StmtWhile{
		Condition: condition,
		Body:      body,
		Next:      next,
	}
}

// String renders this statement and everything after it.
func (obj *StmtWhile) String() string { return Render(obj, 0) }

// Validate checks the condition. The body is not validated here.
func (obj *StmtWhile) Validate() error {
	if obj == nil {
		return errwrap.Wrapf(interfaces.ErrMalformedProgram, "nil while")
	}
	if isNil(obj.Condition) {
		return errwrap.Wrapf(interfaces.ErrMalformedProgram, "while has no condition")
	}
	return obj.Condition.Validate()
}

// Successor returns the next statement.
func (obj *StmtWhile) Successor() interfaces.Stmt { return obj.Next }

// SetSuccessor replaces the next statement.
func (obj *StmtWhile) SetSuccessor(next interfaces.Stmt) { obj.Next = next }
