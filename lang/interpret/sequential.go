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

package interpret

import (
	"fmt"

	"github.com/purpleidea/proglang/lang/interfaces"
	"github.com/purpleidea/proglang/lang/vm"
)

// SequentialProgram runs a single statement chain to completion, without any
// goroutines, locks or delays. Build it with NewSequentialProgram.
type SequentialProgram struct {
	program *vm.Program
}

// NewSequentialProgram compiles the chain into a sequential program.
func NewSequentialProgram(stmt interfaces.Stmt) (*SequentialProgram, error) {
	prog, err := vm.Compile(stmt)
	if err != nil {
		return nil, err
	}
	return &SequentialProgram{
		program: prog,
	}, nil
}

// Execute runs the program against a copy of the initial store and returns the
// final store. A program that never finishes makes this run forever.
func (obj *SequentialProgram) Execute(initial interfaces.Store) (_ interfaces.Store, reterr error) {
	if obj.program == nil {
		return nil, fmt.Errorf("the program was not initialized")
	}
	defer func() {
		if r := recover(); r != nil {
			reterr = fmt.Errorf("panic: %v", r)
		}
	}()
	store := initial.Copy()
	cont := obj.program.Entry()
	for !cont.Done() {
		next, err := obj.program.Step(cont, store)
		if err != nil {
			return nil, err
		}
		cont = next
	}
	return store, nil
}

// String renders the program.
func (obj *SequentialProgram) String() string {
	if obj.program == nil {
		return ""
	}
	return obj.program.String()
}
