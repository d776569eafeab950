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

// Package vm runs statement chains one step at a time. A chain is compiled into
// an arena of nodes addressed by index, and the position of a running thread is
// an immutable Continuation value. Nothing in the arena is ever modified while
// running, so one program can be run any number of times, and by several
// threads at once, with only the store changing.
package vm

import (
	"fmt"

	"github.com/purpleidea/proglang/lang/ast"
	"github.com/purpleidea/proglang/lang/interfaces"
	"github.com/purpleidea/proglang/util/errwrap"
)

// Index addresses a node in the arena of a Program.
type Index int

// None is the index used when there is no statement.
const None Index = -1

// Kind is the kind of statement a node holds.
type Kind int

const (
	// KindNone is returned when there is no statement to run.
	KindNone Kind = iota
	// KindAssign is an assignment.
	KindAssign
	// KindIf is a conditional.
	KindIf
	// KindWhile is a loop.
	KindWhile
)

// String returns the name of the kind, as used in logs and metric labels.
func (obj Kind) String() string {
	switch obj {
	case KindAssign:
		return "assign"
	case KindIf:
		return "if"
	case KindWhile:
		return "while"
	}
	return "none"
}

// Node is one compiled statement. Links to other statements are arena indexes,
// and None when absent.
type Node struct {
	Kind Kind

	Name  string              // KindAssign
	Value interfaces.IntExpr  // KindAssign
	Cond  interfaces.BoolExpr // KindIf and KindWhile

	Then Index // KindIf
	Else Index // KindIf
	Body Index // KindWhile

	Next Index
}

// Program is a compiled statement chain.
type Program struct {
	root  interfaces.Stmt
	nodes []Node
	entry Index
}

// Compile validates the chain starting at stmt and builds the arena for it. A
// nil stmt is the empty program, which is done as soon as it starts. Statement
// objects that appear more than once share a single node. Any loop through the
// statement links is an error, since a chain must end.
func Compile(stmt interfaces.Stmt) (*Program, error) {
	obj := &Program{
		root:  stmt,
		nodes: []Node{},
	}

	index := make(map[interfaces.Stmt]Index)
	work := []interfaces.Stmt{}
	intern := func(s interfaces.Stmt) Index {
		if s == nil {
			return None
		}
		if i, exists := index[s]; exists {
			return i
		}
		i := Index(len(obj.nodes))
		obj.nodes = append(obj.nodes, Node{})
		index[s] = i
		work = append(work, s)
		return i
	}

	obj.entry = intern(stmt)
	for len(work) > 0 {
		s := work[len(work)-1]
		work = work[:len(work)-1]

		if err := s.Validate(); err != nil {
			return nil, err
		}

		node := Node{
			Then: None,
			Else: None,
			Body: None,
		}
		switch x := s.(type) {
		case *ast.StmtAssign:
			node.Kind = KindAssign
			node.Name = x.Name
			node.Value = x.Value

		case *ast.StmtIf:
			node.Kind = KindIf
			node.Cond = x.Condition
			node.Then = intern(x.ThenBranch)
			node.Else = intern(x.ElseBranch)

		case *ast.StmtWhile:
			node.Kind = KindWhile
			node.Cond = x.Condition
			node.Body = intern(x.Body)

		default:
			return nil, errwrap.Wrapf(interfaces.ErrMalformedProgram, "unknown statement type: %T", s)
		}
		node.Next = intern(s.Successor())

		obj.nodes[index[s]] = node // intern may have grown the slice
	}

	if err := obj.checkAcyclic(); err != nil {
		return nil, err
	}

	return obj, nil
}

// checkAcyclic errors if the links between nodes contain a cycle. It runs a
// topological sort with Kahn's algorithm, and any node left over is on one.
func (obj *Program) checkAcyclic() error {
	indegree := make([]int, len(obj.nodes))
	for i := range obj.nodes {
		for _, j := range obj.edges(Index(i)) {
			indegree[j]++
		}
	}

	s := []Index{} // set of all nodes with no incoming edges
	for i, d := range indegree {
		if d == 0 {
			s = append(s, Index(i))
		}
	}
	count := 0
	for len(s) > 0 {
		last := len(s) - 1 // remove a node v from s
		v := s[last]
		s = s[:last]
		count++
		for _, n := range obj.edges(v) {
			indegree[n]--         // remove edge from the graph
			if indegree[n] == 0 { // if n has no other incoming edges
				s = append(s, n)
			}
		}
	}

	if count != len(obj.nodes) {
		return errwrap.Wrapf(interfaces.ErrMalformedProgram, "statement chain contains a cycle")
	}
	return nil
}

// edges returns the outgoing links of a node.
func (obj *Program) edges(i Index) []Index {
	node := &obj.nodes[i]
	edges := []Index{}
	for _, j := range []Index{node.Then, node.Else, node.Body, node.Next} {
		if j != None {
			edges = append(edges, j)
		}
	}
	return edges
}

// Len returns the number of nodes in the arena.
func (obj *Program) Len() int { return len(obj.nodes) }

// Node returns a copy of the node at an index. It panics if the index is out of
// range.
func (obj *Program) Node(i Index) Node { return obj.nodes[i] }

// Root returns the statement this program was compiled from.
func (obj *Program) Root() interfaces.Stmt { return obj.root }

// String renders the program.
func (obj *Program) String() string {
	if obj.root == nil {
		return ""
	}
	return ast.Render(obj.root, 0)
}

// Entry returns the continuation at the start of the program.
func (obj *Program) Entry() Continuation {
	return resolve(obj.entry, nil)
}

// Kind returns the kind of the statement that the continuation would run next.
// It returns KindNone when the continuation is done.
func (obj *Program) Kind(cont Continuation) Kind {
	if cont.Done() {
		return KindNone
	}
	return obj.nodes[cont.pc].Kind
}

// Step runs exactly one statement from the continuation, and returns the
// continuation for the statement after it. It changes the store by at most one
// assignment, and nothing else. Running an assignment writes the store. Running
// a conditional or a loop only evaluates its condition and picks where to go:
// the taken branch, or the loop body, is entered with a return address pushed
// so that control comes back to the successor of the conditional, or to the
// loop itself. A loop that holds without a body returns the same continuation.
// If the step fails, the store is unchanged and the given continuation is
// returned along with the error. Stepping a done continuation does nothing.
func (obj *Program) Step(cont Continuation, store interfaces.Store) (Continuation, error) {
	if cont.Done() {
		return cont, nil
	}
	if cont.pc < 0 || int(cont.pc) >= len(obj.nodes) {
		return cont, fmt.Errorf("continuation is not from this program: %d", cont.pc)
	}
	node := &obj.nodes[cont.pc]

	switch node.Kind {
	case KindAssign:
		v, err := node.Value.Int(store)
		if err != nil {
			return cont, errwrap.Wrapf(err, "can't assign `%s`", node.Name)
		}
		store[node.Name] = v
		return resolve(node.Next, cont.stack), nil

	case KindIf:
		b, err := node.Cond.Bool(store)
		if err != nil {
			return cont, errwrap.Wrapf(err, "can't evaluate `if (%s)`", node.Cond)
		}
		if b {
			return enter(node.Then, node.Next, cont.stack), nil
		}
		if node.Else != None {
			return enter(node.Else, node.Next, cont.stack), nil
		}
		return resolve(node.Next, cont.stack), nil

	case KindWhile:
		b, err := node.Cond.Bool(store)
		if err != nil {
			return cont, errwrap.Wrapf(err, "can't evaluate `while (%s)`", node.Cond)
		}
		if b && node.Body != None {
			return enter(node.Body, cont.pc, cont.stack), nil
		}
		if b {
			return cont, nil // spin
		}
		return resolve(node.Next, cont.stack), nil
	}

	return cont, fmt.Errorf("unknown node kind: %d", node.Kind)
}
