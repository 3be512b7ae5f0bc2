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

package recipe

// Tree is the arena owning every Node produced while parsing and merging a
// recipe and all of its (transitive) includes. A Tree is mutable only until
// resolve.Resolve returns; after that it must be treated as read-only and
// may be reused across many Emit/Decompile calls on the same goroutine.
type Tree struct {
	nodes []*Node
	Root  NodeID

	// index caches per-scope child name lookup; see index.go.
	index map[NodeID]*scopeIndex
}

// NewTree allocates an empty arena and a Structure root node.
func NewTree() *Tree {
	t := &Tree{nodes: []*Node{nil}}
	root := t.newNode(KindStructure, "")
	t.Root = root.ID
	return t
}

func (t *Tree) newNode(k Kind, name string) *Node {
	n := &Node{ID: NodeID(len(t.nodes)), Kind: k, Name: name}
	t.nodes = append(t.nodes, n)
	return n
}

// New allocates a node of kind k named name, parented under parent, and
// appends it to parent's Children. Pass 0 for parent to leave it detached
// (the caller is responsible for attaching it; synthesized array nodes,
// for instance, only get a scope from recipe/resolve via SetScope and are
// never added to any Children list).
func (t *Tree) New(k Kind, name string, parent NodeID) *Node {
	n := t.newNode(k, name)
	if parent != 0 {
		t.Attach(parent, n.ID)
	}
	return n
}

// Attach appends child under parent and sets child's Parent/ScopeNode.
func (t *Tree) Attach(parent, child NodeID) {
	p := t.Node(parent)
	c := t.Node(child)
	p.Children = append(p.Children, child)
	c.Parent = parent
	c.ScopeNode = parent
	t.invalidate(parent)
}

// Node dereferences id. It panics on an invalid id; every id handed to
// callers outside this package has already been validated by the resolver
// or the parser.
func (t *Tree) Node(id NodeID) *Node {
	return t.nodes[id]
}

// Valid reports whether id addresses a live node in this arena.
func (t *Tree) Valid(id NodeID) bool {
	return id > 0 && int(id) < len(t.nodes)
}

// Reparent moves child (and, transitively, nothing else — Children is left
// untouched) to be a child of newParent, used by the include-merge pass
// to transplant type/namespace children without
// touching member children.
func (t *Tree) Reparent(child, newParent NodeID) {
	c := t.Node(child)
	if c.Parent != 0 {
		old := t.Node(c.Parent)
		for i, id := range old.Children {
			if id == child {
				old.Children = append(old.Children[:i], old.Children[i+1:]...)
				break
			}
		}
		t.invalidate(c.Parent)
	}
	t.Attach(newParent, child)
}

// SetScope assigns node's ScopeNode (and Parent, for consistency) to scope
// without inserting it into scope's Children — used for synthesized array
// nodes, which are reachable only through the type
// instantiation that owns them, not by name lookup.
func (t *Tree) SetScope(node, scope NodeID) {
	n := t.Node(node)
	n.ScopeNode = scope
	n.Parent = scope
}

// SetChildren replaces scope's child list wholesale, used by the
// namespace-merge pass when coalesced duplicates are dropped from a scope.
// Parent/ScopeNode fields of the retained children are left untouched.
func (t *Tree) SetChildren(scope NodeID, children []NodeID) {
	t.Node(scope).Children = children
	t.invalidate(scope)
}

// FindChild returns the direct child of scope named name, or 0.
func (t *Tree) FindChild(scope NodeID, name string) NodeID {
	return t.Lookup(scope, name, false)
}
