// Copyright 2017 Google Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package data implements the Data IR: the parsed tree of value
// assignments that a data file declares against a recipe. Nodes are built
// once by the lang parser and never mutated afterwards.
package data

// Kind tags the variant stored by a Node.
type Kind int

const (
	// None is the zero value; never produced by a well-formed parse.
	None Kind = iota
	// Assignment is `name = value`.
	Assignment
	// String is a quoted string literal.
	String
	// Number is a numeric literal (integer or floating point shape).
	Number
	// Identifier is a bare word, used for enum value names and variant
	// alternative selectors.
	Identifier
	// Bool is `true` or `false`.
	Bool
	// Group is an ordered `{ ... }` list of children.
	Group
	// Variant is `name: value`, selecting a variant alternative.
	Variant
	// MapAssignment is `key = value` inside a map literal; it always has
	// exactly two children, key then value.
	MapAssignment
)

func (k Kind) String() string {
	switch k {
	case None:
		return "none"
	case Assignment:
		return "assignment"
	case String:
		return "string"
	case Number:
		return "floating"
	case Identifier:
		return "identifier"
	case Bool:
		return "bool"
	case Group:
		return "group"
	case Variant:
		return "variant"
	case MapAssignment:
		return "map_assignment"
	default:
		return "unknown"
	}
}

// Node is a Data IR node. The fields populated depend on Kind:
//
//	Assignment, Variant: Name + Children[0]
//	String, Identifier:  Text
//	Bool:                Flag
//	Number:               Num
//	Group, MapAssignment: Children
//
// Line records the 1-based source line the node started on, used for error
// reporting.
type Node struct {
	Kind     Kind
	Name     string
	Text     string
	Flag     bool
	Num      Floating
	Children []*Node
	Line     int
}

// Child returns the single child of an Assignment/Variant node, or nil.
func (n *Node) Child() *Node {
	if len(n.Children) == 0 {
		return nil
	}
	return n.Children[0]
}

// MapKey and MapValue return the two children of a MapAssignment node.
func (n *Node) MapKey() *Node {
	if len(n.Children) < 1 {
		return nil
	}
	return n.Children[0]
}

func (n *Node) MapValue() *Node {
	if len(n.Children) < 2 {
		return nil
	}
	return n.Children[1]
}

// Assignments indexes the Assignment children of a Group by name, in the
// shape the emitter needs when matching data against recipe members.
func (n *Node) Assignments() map[string]*Node {
	out := make(map[string]*Node, len(n.Children))
	for _, c := range n.Children {
		if c.Kind == Assignment {
			out[c.Name] = c
		}
	}
	return out
}
