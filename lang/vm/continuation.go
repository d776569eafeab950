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

package vm

// frame is one return address on the stack of a continuation. Frames are never
// modified once built, so continuations can share their tails.
type frame struct {
	ret  Index
	next *frame
}

// Continuation is the position of a running thread: the statement to run next
// and the stack of return addresses to use when the current chain ends. It is a
// value; stepping returns a new one and never changes the old one. The zero
// value is not valid, use Program.Entry.
type Continuation struct {
	pc    Index
	stack *frame
}

// Done returns true if there is nothing left to run.
func (obj Continuation) Done() bool { return obj.pc == None }

// PC returns the index of the statement that runs next, or None if done.
func (obj Continuation) PC() Index { return obj.pc }

// Depth returns the number of return addresses waiting on the stack. This is
// the nesting level of the statement that runs next.
func (obj Continuation) Depth() int {
	depth := 0
	for f := obj.stack; f != nil; f = f.next {
		depth++
	}
	return depth
}

// enter jumps into a nested chain. When that chain ends, execution continues at
// ret. If ret is None, there is nowhere particular to come back to, so nothing
// is pushed and the chain ends wherever the current one would.
func enter(head, ret Index, stack *frame) Continuation {
	if ret != None {
		stack = &frame{ret: ret, next: stack}
	}
	return resolve(head, stack)
}

// resolve builds the continuation for pc, popping return addresses while there
// is no statement to run.
func resolve(pc Index, stack *frame) Continuation {
	for pc == None && stack != nil {
		pc, stack = stack.ret, stack.next
	}
	return Continuation{
		pc:    pc,
		stack: stack,
	}
}
