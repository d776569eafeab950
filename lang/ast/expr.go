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

// Package ast contains the structs implementing and some utility functions for
// interacting with the abstract syntax tree for the language. There is no
// parser, so trees are built directly with the constructors in this package.
package ast

import (
	"fmt"

	"github.com/purpleidea/proglang/lang/interfaces"
	"github.com/purpleidea/proglang/util/errwrap"
)

// ExprInt is a representation of an integer literal.
type ExprInt struct {
	V int
}

// Int returns a new integer literal.
func Int(v int) *ExprInt { return &ExprInt{V: v} }

// String returns the literal in base ten.
func (obj *ExprInt) String() string { return fmt.Sprintf("%d", obj.V) }

// Validate always succeeds for a literal.
func (obj *ExprInt) Validate() error { return nil }

// Int returns the literal value. It never errors.
func (obj *ExprInt) Int(interfaces.Store) (int, error) { return obj.V, nil }

// ExprVar is a representation of a variable lookup.
type ExprVar struct {
	Name string
}

// Var returns a new variable lookup.
func Var(name string) *ExprVar { return &ExprVar{Name: name} }

// String returns the variable name.
func (obj *ExprVar) String() string { return obj.Name }

// Validate checks that the variable has a name.
func (obj *ExprVar) Validate() error {
	if obj.Name == "" {
		return errwrap.Wrapf(interfaces.ErrMalformedProgram, "variable has an empty name")
	}
	return nil
}

// Int looks up the variable in the store. It errors with ErrUndefinedVariable
// if there is no binding for it.
func (obj *ExprVar) Int(store interfaces.Store) (int, error) {
	v, exists := store[obj.Name]
	if !exists {
		return 0, errwrap.Wrapf(interfaces.ErrUndefinedVariable, "can't read `%s`", obj.Name)
	}
	return v, nil
}

// ExprAdd is the sum of two integer expressions.
type ExprAdd struct {
	Lhs interfaces.IntExpr
	Rhs interfaces.IntExpr
}

// Add returns lhs + rhs.
func Add(lhs, rhs interfaces.IntExpr) *ExprAdd { return &ExprAdd{Lhs: lhs, Rhs: rhs} }

// String returns the infix form without adding any parentheses.
func (obj *ExprAdd) String() string { return fmt.Sprintf("%s + %s", obj.Lhs, obj.Rhs) }

// Validate checks both operands.
func (obj *ExprAdd) Validate() error { return validateBinary("+", obj.Lhs, obj.Rhs) }

// Int evaluates the sum.
func (obj *ExprAdd) Int(store interfaces.Store) (int, error) {
	lhs, rhs, err := evalBinary(obj.Lhs, obj.Rhs, store)
	if err != nil {
		return 0, err
	}
	return lhs + rhs, nil
}

// ExprSub is the difference of two integer expressions.
type ExprSub struct {
	Lhs interfaces.IntExpr
	Rhs interfaces.IntExpr
}

// Sub returns lhs - rhs.
func Sub(lhs, rhs interfaces.IntExpr) *ExprSub { return &ExprSub{Lhs: lhs, Rhs: rhs} }

// String returns the infix form without adding any parentheses.
func (obj *ExprSub) String() string { return fmt.Sprintf("%s - %s", obj.Lhs, obj.Rhs) }

// Validate checks both operands.
func (obj *ExprSub) Validate() error { return validateBinary("-", obj.Lhs, obj.Rhs) }

// Int evaluates the difference.
func (obj *ExprSub) Int(store interfaces.Store) (int, error) {
	lhs, rhs, err := evalBinary(obj.Lhs, obj.Rhs, store)
	if err != nil {
		return 0, err
	}
	return lhs - rhs, nil
}

// ExprMul is the product of two integer expressions.
type ExprMul struct {
	Lhs interfaces.IntExpr
	Rhs interfaces.IntExpr
}

// Mul returns lhs * rhs.
func Mul(lhs, rhs interfaces.IntExpr) *ExprMul { return &ExprMul{Lhs: lhs, Rhs: rhs} }

// String returns the infix form without adding any parentheses.
func (obj *ExprMul) String() string { return fmt.Sprintf("%s * %s", obj.Lhs, obj.Rhs) }

// Validate checks both operands.
func (obj *ExprMul) Validate() error { return validateBinary("*", obj.Lhs, obj.Rhs) }

// Int evaluates the product.
func (obj *ExprMul) Int(store interfaces.Store) (int, error) {
	lhs, rhs, err := evalBinary(obj.Lhs, obj.Rhs, store)
	if err != nil {
		return 0, err
	}
	return lhs * rhs, nil
}

// ExprDiv is the truncated integer quotient of two integer expressions.
type ExprDiv struct {
	Lhs interfaces.IntExpr
	Rhs interfaces.IntExpr
}

// Div returns lhs / rhs.
func Div(lhs, rhs interfaces.IntExpr) *ExprDiv { return &ExprDiv{Lhs: lhs, Rhs: rhs} }

// String returns the infix form without adding any parentheses.
func (obj *ExprDiv) String() string { return fmt.Sprintf("%s / %s", obj.Lhs, obj.Rhs) }

// Validate checks both operands.
func (obj *ExprDiv) Validate() error { return validateBinary("/", obj.Lhs, obj.Rhs) }

// Int evaluates the quotient. The divisor is evaluated first, so that an error
// in the divisor, or a zero divisor, is reported before anything is known about
// the dividend.
func (obj *ExprDiv) Int(store interfaces.Store) (int, error) {
	rhs, err := obj.Rhs.Int(store)
	if err != nil {
		return 0, err
	}
	if rhs == 0 {
		return 0, errwrap.Wrapf(interfaces.ErrDivisionByZero, "can't evaluate `%s`", obj)
	}
	lhs, err := obj.Lhs.Int(store)
	if err != nil {
		return 0, err
	}
	return lhs / rhs, nil
}

// ExprFact is the factorial of an integer expression.
type ExprFact struct {
	Expr interfaces.IntExpr
}

// Fact returns expr!.
func Fact(expr interfaces.IntExpr) *ExprFact { return &ExprFact{Expr: expr} }

// String returns the postfix form.
func (obj *ExprFact) String() string { return fmt.Sprintf("%s!", obj.Expr) }

// Validate checks the operand.
func (obj *ExprFact) Validate() error { return validateUnary("!", obj.Expr) }

// Int evaluates the factorial as the product of 1..n. The factorial of zero is
// one, and a negative operand errors with ErrNegativeFactorial.
func (obj *ExprFact) Int(store interfaces.Store) (int, error) {
	n, err := obj.Expr.Int(store)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, errwrap.Wrapf(interfaces.ErrNegativeFactorial, "can't evaluate `%s` with operand %d", obj, n)
	}
	result := 1
	for i := 1; i <= n; i++ {
		result *= i
	}
	return result, nil
}

// ExprParen is an explicitly parenthesized integer expression. It exists so
// that the printed form can show grouping, since none is ever added otherwise.
type ExprParen struct {
	Expr interfaces.IntExpr
}

// Paren returns (expr).
func Paren(expr interfaces.IntExpr) *ExprParen { return &ExprParen{Expr: expr} }

// String returns the parenthesized form.
func (obj *ExprParen) String() string { return fmt.Sprintf("(%s)", obj.Expr) }

// Validate checks the operand.
func (obj *ExprParen) Validate() error { return validateUnary("()", obj.Expr) }

// Int evaluates the inner expression.
func (obj *ExprParen) Int(store interfaces.Store) (int, error) {
	return obj.Expr.Int(store)
}

// EvalInt evaluates an integer expression against a store. A nil expression is
// a malformed program.
func EvalInt(expr interfaces.IntExpr, store interfaces.Store) (int, error) {
	if isNil(expr) {
		return 0, errwrap.Wrapf(interfaces.ErrMalformedProgram, "nil expression")
	}
	return expr.Int(store)
}

// evalBinary evaluates both operands, left to right.
func evalBinary(l, r interfaces.IntExpr, store interfaces.Store) (int, int, error) {
	lhs, err := l.Int(store)
	if err != nil {
		return 0, 0, err
	}
	rhs, err := r.Int(store)
	if err != nil {
		return 0, 0, err
	}
	return lhs, rhs, nil
}
