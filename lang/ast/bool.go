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

	"github.com/purpleidea/proglang/lang/interfaces"
	"github.com/purpleidea/proglang/util/errwrap"
)

// ExprLessThan compares two integer expressions with <.
type ExprLessThan struct {
	Lhs interfaces.IntExpr
	Rhs interfaces.IntExpr
}

// LessThan returns lhs < rhs.
func LessThan(lhs, rhs interfaces.IntExpr) *ExprLessThan {
	return &ExprLessThan{Lhs: lhs, Rhs: rhs}
}

// String returns the infix form.
func (obj *ExprLessThan) String() string { return fmt.Sprintf("%s < %s", obj.Lhs, obj.Rhs) }

// Validate checks both operands.
func (obj *ExprLessThan) Validate() error { return validateBinary("<", obj.Lhs, obj.Rhs) }

// Bool evaluates the comparison.
func (obj *ExprLessThan) Bool(store interfaces.Store) (bool, error) {
	lhs, rhs, err := evalBinary(obj.Lhs, obj.Rhs, store)
	if err != nil {
		return false, err
	}
	return lhs < rhs, nil
}

// ExprGreaterThan compares two integer expressions with >.
type ExprGreaterThan struct {
	Lhs interfaces.IntExpr
	Rhs interfaces.IntExpr
}

// GreaterThan returns lhs > rhs.
func GreaterThan(lhs, rhs interfaces.IntExpr) *ExprGreaterThan {
	return &ExprGreaterThan{Lhs: lhs, Rhs: rhs}
}

// String returns the infix form.
func (obj *ExprGreaterThan) String() string { return fmt.Sprintf("%s > %s", obj.Lhs, obj.Rhs) }

// Validate checks both operands.
func (obj *ExprGreaterThan) Validate() error { return validateBinary(">", obj.Lhs, obj.Rhs) }

// Bool evaluates the comparison.
func (obj *ExprGreaterThan) Bool(store interfaces.Store) (bool, error) {
	lhs, rhs, err := evalBinary(obj.Lhs, obj.Rhs, store)
	if err != nil {
		return false, err
	}
	return lhs > rhs, nil
}

// ExprEquals compares two integer expressions for equality.
type ExprEquals struct {
	Lhs interfaces.IntExpr
	Rhs interfaces.IntExpr
}

// Equals returns lhs == rhs.
func Equals(lhs, rhs interfaces.IntExpr) *ExprEquals { return &ExprEquals{Lhs: lhs, Rhs: rhs} }

// String returns the infix form.
func (obj *ExprEquals) String() string { return fmt.Sprintf("%s == %s", obj.Lhs, obj.Rhs) }

// Validate checks both operands.
func (obj *ExprEquals) Validate() error { return validateBinary("==", obj.Lhs, obj.Rhs) }

// Bool evaluates the comparison.
func (obj *ExprEquals) Bool(store interfaces.Store) (bool, error) {
	lhs, rhs, err := evalBinary(obj.Lhs, obj.Rhs, store)
	if err != nil {
		return false, err
	}
	return lhs == rhs, nil
}

// ExprAnd is the conjunction of two boolean expressions. It short-circuits.
type ExprAnd struct {
	Lhs interfaces.BoolExpr
	Rhs interfaces.BoolExpr
}

// And returns lhs && rhs.
func And(lhs, rhs interfaces.BoolExpr) *ExprAnd { return &ExprAnd{Lhs: lhs, Rhs: rhs} }

// String returns the infix form.
func (obj *ExprAnd) String() string { return fmt.Sprintf("%s && %s", obj.Lhs, obj.Rhs) }

// Validate checks both operands.
func (obj *ExprAnd) Validate() error { return validateBinary("&&", obj.Lhs, obj.Rhs) }

// Bool evaluates the conjunction. The right hand side is not evaluated if the
// left hand side is false.
func (obj *ExprAnd) Bool(store interfaces.Store) (bool, error) {
	lhs, err := obj.Lhs.Bool(store)
	if err != nil || !lhs {
		return false, err
	}
	return obj.Rhs.Bool(store)
}

// ExprOr is the disjunction of two boolean expressions. It short-circuits.
type ExprOr struct {
	Lhs interfaces.BoolExpr
	Rhs interfaces.BoolExpr
}

// Or returns lhs || rhs.
func Or(lhs, rhs interfaces.BoolExpr) *ExprOr { return &ExprOr{Lhs: lhs, Rhs: rhs} }

// String returns the infix form.
func (obj *ExprOr) String() string { return fmt.Sprintf("%s || %s", obj.Lhs, obj.Rhs) }

// Validate checks both operands.
func (obj *ExprOr) Validate() error { return validateBinary("||", obj.Lhs, obj.Rhs) }

// Bool evaluates the disjunction. The right hand side is not evaluated if the
// left hand side is true.
func (obj *ExprOr) Bool(store interfaces.Store) (bool, error) {
	lhs, err := obj.Lhs.Bool(store)
	if err != nil {
		return false, err
	}
	if lhs {
		return true, nil
	}
	return obj.Rhs.Bool(store)
}

// ExprNot is the negation of a boolean expression.
type ExprNot struct {
	Expr interfaces.BoolExpr
}

// Not returns !expr.
func Not(expr interfaces.BoolExpr) *ExprNot { return &ExprNot{Expr: expr} }

// String returns the prefix form.
func (obj *ExprNot) String() string { return fmt.Sprintf("!%s", obj.Expr) }

// Validate checks the operand.
func (obj *ExprNot) Validate() error { return validateUnary("!", obj.Expr) }

// Bool evaluates the negation.
func (obj *ExprNot) Bool(store interfaces.Store) (bool, error) {
	b, err := obj.Expr.Bool(store)
	if err != nil {
		return false, err
	}
	return !b, nil
}

// ExprBoolParen is an explicitly parenthesized boolean expression.
type ExprBoolParen struct {
	Expr interfaces.BoolExpr
}

// BoolParen returns (expr).
func BoolParen(expr interfaces.BoolExpr) *ExprBoolParen { return &ExprBoolParen{Expr: expr} }

// String returns the parenthesized form.
func (obj *ExprBoolParen) String() string { return fmt.Sprintf("(%s)", obj.Expr) }

// Validate checks the operand.
func (obj *ExprBoolParen) Validate() error { return validateUnary("()", obj.Expr) }

// Bool evaluates the inner expression.
func (obj *ExprBoolParen) Bool(store interfaces.Store) (bool, error) {
	return obj.Expr.Bool(store)
}

// EvalBool evaluates a boolean expression against a store. A nil expression is
// a malformed program.
func EvalBool(expr interfaces.BoolExpr, store interfaces.Store) (bool, error) {
	if isNil(expr) {
		return false, errwrap.Wrapf(interfaces.ErrMalformedProgram, "nil condition")
	}
	return expr.Bool(store)
}
