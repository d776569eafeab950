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
)

// ThreadError is the error returned when a program thread fails. It names the
// thread and unwraps to the original error, so its kind can be checked with
// errors.Is and its message is kept whole.
type ThreadError struct {
	// Thread is the index of the failed program thread.
	Thread int

	// Err is the error that the thread failed with.
	Err error
}

// Error returns the thread index followed by the original message.
func (obj *ThreadError) Error() string {
	return fmt.Sprintf("thread %d: %s", obj.Thread, obj.Err.Error())
}

// Unwrap returns the original error.
func (obj *ThreadError) Unwrap() error { return obj.Err }
