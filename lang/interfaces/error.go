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

package interfaces

import (
	"errors"
)

// Error is a constant error type that implements error.
type Error string

// Error fulfills the error interface of this type.
func (e Error) Error() string { return string(e) }

const (
	// ErrConfiguration is returned when a run is configured badly, most
	// notably when a concurrent program is built with a list of thread
	// chains and a list of pacing delays that do not have the same length.
	// Nothing has run when this is returned.
	ErrConfiguration = Error("invalid configuration")

	// ErrUndefinedVariable is returned when a variable is read but has no
	// binding in the store.
	ErrUndefinedVariable = Error("undefined variable")

	// ErrDivisionByZero is returned when the evaluated divisor of an
	// integer division is zero.
	ErrDivisionByZero = Error("division by zero")

	// ErrNegativeFactorial is returned when the operand of a factorial
	// evaluates to a negative number.
	ErrNegativeFactorial = Error("factorial of a negative number")

	// ErrMalformedProgram is returned when a statement chain can't be
	// compiled, usually because a required field is missing or because the
	// chain loops back on itself.
	ErrMalformedProgram = Error("malformed program")
)

// ErrorKind returns a short, stable label for the kind of error that was
// returned. It looks through any wrapping. A nil error returns the empty string
// and anything unrecognized returns "unknown".
func ErrorKind(err error) string {
	if err == nil {
		return ""
	}
	kinds := []struct {
		err  Error
		name string
	}{
		{ErrConfiguration, "configuration"},
		{ErrUndefinedVariable, "undefined_variable"},
		{ErrDivisionByZero, "division_by_zero"},
		{ErrNegativeFactorial, "negative_factorial"},
		{ErrMalformedProgram, "malformed_program"},
	}
	for _, x := range kinds {
		if errors.Is(err, x.err) {
			return x.name
		}
	}
	return "unknown"
}
