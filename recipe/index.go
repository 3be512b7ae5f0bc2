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

import "github.com/derekparker/trie"

// scopeIndex memoizes by-name child lookup for one scope node. Path
// resolution probes the same scopes once per use site, so a
// recipe with many members re-reads the same child lists over and over;
// the index turns each probe into a single trie find. Entries are dropped
// whenever the scope's child list changes (Attach/Reparent/SetChildren),
// which happens during parsing, the include merge and the namespace merge
// that opens resolution, before any path is resolved.
type scopeIndex struct {
	names *trie.Trie
}

func (t *Tree) indexFor(scope NodeID) *scopeIndex {
	if t.index == nil {
		t.index = map[NodeID]*scopeIndex{}
	}
	if idx, ok := t.index[scope]; ok {
		return idx
	}
	idx := &scopeIndex{names: trie.New()}
	for _, ch := range t.Node(scope).Children {
		c := t.Node(ch)
		if c.Name == "" {
			continue
		}
		if _, exists := idx.names.Find(c.Name); exists {
			// Duplicate names are a resolution error reported elsewhere;
			// the index keeps the first child, matching the linear-scan
			// order the uniqueness check assumes.
			continue
		}
		idx.names.Add(c.Name, ch)
	}
	t.index[scope] = idx
	return idx
}

func (t *Tree) invalidate(scope NodeID) {
	if t.index != nil {
		delete(t.index, scope)
	}
}

// Lookup returns the child of scope named name, or 0. When typeOnly is
// set, a non-type child does not match, as required for the final
// segment of a type path.
func (t *Tree) Lookup(scope NodeID, name string, typeOnly bool) NodeID {
	node, ok := t.indexFor(scope).names.Find(name)
	if !ok {
		return 0
	}
	id := node.Meta().(NodeID)
	if typeOnly && !t.Node(id).IsType() {
		return 0
	}
	return id
}

// NamesWithPrefix returns the names of scope's children beginning with
// prefix, used for "did you mean" suggestions in resolution errors.
func (t *Tree) NamesWithPrefix(scope NodeID, prefix string) []string {
	return t.indexFor(scope).names.PrefixSearch(prefix)
}
