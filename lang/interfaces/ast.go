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

// Package interfaces contains the common interfaces used by the language and
// its interpreters.
package interfaces

import (
	"fmt"
	"sort"
	"strings"
)

// Node contains the methods that every expression and statement implements.
type Node interface {
	fmt.Stringer

	// Validate checks that the node is well-formed. Expressions validate
	// their whole subtree. Statements only validate their own fields and
	// leave the nested chains to the caller, which can then walk them
	// without recursion.
	Validate() error
}

// IntExpr is an integer valued expression. Implementations must be immutable
// so that a single node can be shared and evaluated concurrently.
type IntExpr interface {
	Node

	// Int evaluates the expression against the store. It must not modify
	// the store.
	Int(Store) (int, error)
}

// BoolExpr is a boolean valued expression. The same sharing rules as IntExpr
// apply.
type BoolExpr interface {
	Node

	// Bool evaluates the expression against the store. It must not modify
	// the store.
	Bool(Store) (bool, error)
}

// Stmt is a statement in a chain. Every statement has an optional successor,
// which turns a chain into a singly linked list. Statements that nest other
// chains (if and while) own them directly.
type Stmt interface {
	Node

	// Successor returns the next statement in the chain, or nil.
	Successor() Stmt

	// SetSuccessor replaces the next statement in the chain. This should
	// only be used while building a chain, never while running one.
	SetSuccessor(Stmt)
}

// Store maps a variable name to its integer value.
type Store map[string]int

// Copy returns an independent copy of the store. A nil store copies to an
// empty one.
func (obj Store) Copy() Store {
	store := make(Store, len(obj))
	for k, v := range obj {
		store[k] = v
	}
	return store
}

// Keys returns the variable names in sorted order.
func (obj Store) Keys() []string {
	keys := []string{}
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// String returns a deterministic representation of the store, with the keys
// in sorted order, like: {ctr: 2, tmp: 1}.
func (obj Store) String() string {
	s := []string{}
	for _, k := range obj.Keys() {
		s = append(s, fmt.Sprintf("%s: %d", k, obj[k]))
	}
	return "{" + strings.Join(s, ", ") + "}"
}
