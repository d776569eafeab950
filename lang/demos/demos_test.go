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
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/purpleidea/proglang/lang/interfaces"
	"github.com/purpleidea/proglang/util"

	"github.com/davecgh/go-spew/spew"
)

func TestDemos0(t *testing.T) {
	type test struct { // an individual test
		name string
		exp  interfaces.Store
		kind string // expected error kind if exp is nil
	}
	testCases := []test{
		{
			name: "counter",
			exp:  interfaces.Store{"ctr": 2},
		},
		{
			name: "factorial",
			exp:  interfaces.Store{"n": 6, "r": 720, "i": 0, "ok": 1},
		},
		{
			name: "sum",
			exp:  interfaces.Store{"a": 55, "i": 11, "b": 5050, "j": 101},
		},
		{
			name: "handoff",
			exp:  interfaces.Store{"flag": 1, "value": 42, "seen": 42},
		},
		{
			name: "divzero",
			kind: "division_by_zero",
		},
		{
			name: "undefined",
			kind: "undefined_variable",
		},
		{
			name: "negfact",
			kind: "negative_factorial",
		},
	}

	names := []string{}
	for index, tc := range testCases { // run all the tests
		if util.StrInList(tc.name, names) {
			t.Errorf("test #%d: duplicate sub test name of: %s", index, tc.name)
			continue
		}
		names = append(names, tc.name)
		t.Run(fmt.Sprintf("test #%d (%s)", index, tc.name), func(t *testing.T) {
			demo, err := Lookup(tc.name)
			if err != nil {
				t.Errorf("test #%d: lookup failed with: %+v", index, err)
				return
			}
			if !demo.Deterministic {
				t.Errorf("test #%d: expected a deterministic demo", index)
			}
			prog, err := demo.Program(nil)
			if err != nil {
				t.Errorf("test #%d: build failed with: %+v", index, err)
				return
			}
			store, err := prog.Execute(demo.Initial)
			if tc.exp == nil {
				if kind := interfaces.ErrorKind(err); kind != tc.kind {
					t.Errorf("test #%d: expected kind %s, got: %s (%v)", index, tc.kind, kind, err)
				}
				return
			}
			if err != nil {
				t.Errorf("test #%d: execute failed with: %+v", index, err)
				return
			}
			if !reflect.DeepEqual(store, tc.exp) {
				t.Errorf("test #%d: FAIL", index)
				t.Logf("test #%d:   actual: %s", index, spew.Sdump(store))
				t.Logf("test #%d: expected: %s", index, spew.Sdump(tc.exp))
			}
		})
	}
}

func TestRace0(t *testing.T) {
	demo, err := Lookup("race")
	if err != nil {
		t.Errorf("lookup failed with: %+v", err)
		return
	}
	if demo.Deterministic {
		t.Errorf("the race demo is not deterministic")
	}
	prog, err := demo.Program(nil)
	if err != nil {
		t.Errorf("build failed with: %+v", err)
		return
	}
	for i := 0; i < 3; i++ {
		store, err := prog.Execute(demo.Initial)
		if err != nil {
			t.Errorf("run #%d: execute failed with: %+v", i, err)
			return
		}
		if ctr := store["ctr"]; ctr != 1 && ctr != 2 {
			t.Errorf("run #%d: impossible store: %s", i, store)
		}
	}
}

func TestRegistry0(t *testing.T) {
	names := Names()
	for _, name := range []string{"counter", "race", "factorial", "sum", "handoff", "divzero", "undefined", "negfact"} {
		if !util.StrInList(name, names) {
			t.Errorf("missing demo: %s", name)
		}
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] >= names[i] {
			t.Errorf("names are not sorted: %v", names)
		}
	}

	if _, err := Lookup("nope"); err == nil {
		t.Errorf("expected an error for a missing demo")
	}

	demo, err := Lookup("counter")
	if err != nil {
		t.Errorf("lookup failed with: %+v", err)
		return
	}
	if demo.Name != "counter" {
		t.Errorf("unexpected name: %s", demo.Name)
	}
	if s := demo.String(); !strings.Contains(s, "thread 1 (delay 2ms):\nctr = ctr + 1\n") {
		t.Errorf("unexpected string:\n%s", s)
	}

	defer func() {
		if r := recover(); r == nil {
			t.Errorf("expected a panic on a duplicate name")
		}
	}()
	Register("counter", func() *Demo { return &Demo{} })
}

func TestDelays0(t *testing.T) {
	demo, err := Lookup("counter")
	if err != nil {
		t.Errorf("lookup failed with: %+v", err)
		return
	}
	if _, err := demo.Program(demo.Delays[:1]); interfaces.ErrorKind(err) != "configuration" {
		t.Errorf("expected a configuration error, got: %v", err)
	}
}
