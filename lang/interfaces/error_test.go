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
	"fmt"
	"testing"

	"github.com/purpleidea/proglang/util/errwrap"
)

func TestStoreCopy0(t *testing.T) {
	var store Store // nil
	c := store.Copy()
	if c == nil || len(c) != 0 {
		t.Errorf("expected an empty store")
	}

	store = Store{"x": 1}
	c = store.Copy()
	c["x"] = 2
	if store["x"] != 1 {
		t.Errorf("copy is not independent")
	}
}

func TestStoreString0(t *testing.T) {
	store := Store{"tmp": 1, "ctr": 2, "a": -3}
	if s := store.String(); s != "{a: -3, ctr: 2, tmp: 1}" {
		t.Errorf("unexpected string: %s", s)
	}
	if s := (Store{}).String(); s != "{}" {
		t.Errorf("unexpected string: %s", s)
	}
}

func TestErrorKind0(t *testing.T) {
	testCases := []struct {
		err  error
		kind string
	}{
		{nil, ""},
		{ErrConfiguration, "configuration"},
		{errwrap.Wrapf(ErrUndefinedVariable, "can't read `x`"), "undefined_variable"},
		{errwrap.Wrapf(errwrap.Wrapf(ErrDivisionByZero, "inner"), "outer"), "division_by_zero"},
		{ErrNegativeFactorial, "negative_factorial"},
		{ErrMalformedProgram, "malformed_program"},
		{fmt.Errorf("something else"), "unknown"},
	}
	for index, tc := range testCases {
		if kind := ErrorKind(tc.err); kind != tc.kind {
			t.Errorf("test #%d: expected %s, got %s", index, tc.kind, kind)
		}
	}
}
