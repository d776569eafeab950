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

// Package demos contains a registry of small built-in programs, which show off
// how the concurrent interpreter behaves, including where it does not behave.
package demos

import (
	"fmt"
	"sort"
	"time"

	"github.com/purpleidea/proglang/lang/interfaces"
	"github.com/purpleidea/proglang/lang/interpret"
)

// RegisteredDemos is a global map of all possible demos which can be used. You
// should never touch this map directly. Use methods like Register instead.
var RegisteredDemos = make(map[string]func() *Demo) // must initialize this map

// Register takes a demo builder and its name and makes it available for use.
// There is no matching Unregister function.
func Register(name string, fn func() *Demo) {
	if _, ok := RegisteredDemos[name]; ok {
		panic(fmt.Sprintf("a demo named %s is already registered", name))
	}
	RegisteredDemos[name] = fn
}

// Names returns a sorted list of the names of all the registered demos.
func Names() []string {
	names := []string{}
	for name := range RegisteredDemos {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup builds a fresh copy of the named demo.
func Lookup(name string) (*Demo, error) {
	fn, exists := RegisteredDemos[name]
	if !exists {
		return nil, fmt.Errorf("demo `%s` does not exist", name)
	}
	demo := fn()
	if demo.Name == "" {
		demo.Name = name
	}
	return demo, nil
}

// Demo is a program made of one or more threads, together with the default
// pacing delays and initial store to run it with.
type Demo struct {
	// Name is the name the demo was registered under.
	Name string

	// Description is a one line summary of what the demo shows.
	Description string

	// Threads are the statement chains, one per program thread.
	Threads []interfaces.Stmt

	// Delays are the default pacing delays, one per thread.
	Delays []time.Duration

	// Initial is the store that a run starts from.
	Initial interfaces.Store

	// Deterministic is true if every run must end with the same store, or
	// always fail the same way.
	Deterministic bool
}

// Program builds the concurrent program for this demo. If delays is nil, the
// default delays of the demo are used.
func (obj *Demo) Program(delays []time.Duration) (*interpret.ConcurrentProgram, error) {
	if delays == nil {
		delays = obj.Delays
	}
	return interpret.NewConcurrentProgram(obj.Threads, delays)
}

// String renders the demo with its name and description.
func (obj *Demo) String() string {
	s := fmt.Sprintf("%s: %s\n", obj.Name, obj.Description)
	if len(obj.Initial) > 0 {
		s += fmt.Sprintf("initial: %s\n", obj.Initial)
	}
	for i, stmt := range obj.Threads {
		delay := time.Duration(0)
		if i < len(obj.Delays) {
			delay = obj.Delays[i]
		}
		s += fmt.Sprintf("thread %d (delay %s):\n", i, delay)
		if stmt != nil {
			s += stmt.String()
		}
	}
	return s
}
