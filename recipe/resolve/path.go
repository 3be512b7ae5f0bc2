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

package resolve

import "github.com/kingofpayne/bakery/recipe"

// searchFrom implements the type-oriented walk-down used by both absolute
// and relative path resolution:
// every non-final path segment may match any named child, but the final
// segment must resolve to a node with IsType() == true.
func searchFrom(tree *recipe.Tree, start recipe.NodeID, path []string) (recipe.NodeID, bool) {
	cur := start
	for i, seg := range path {
		final := i == len(path)-1
		next := tree.Lookup(cur, seg, final)
		if next == 0 {
			return 0, false
		}
		cur = next
	}
	return cur, true
}

// ResolvePath resolves a type instantiation path: an absolute path walks
// up scope to the root then searches
// down; a relative path searches down from scope, retrying in each
// enclosing scope up to the root on failure.
func ResolvePath(tree *recipe.Tree, scope recipe.NodeID, path []string, absolute bool) (recipe.NodeID, bool) {
	if absolute {
		root := scope
		for {
			p := tree.Node(root).ScopeNode
			if p == 0 {
				break
			}
			root = p
		}
		return searchFrom(tree, root, path)
	}

	cur := scope
	for {
		if id, ok := searchFrom(tree, cur, path); ok {
			return id, true
		}
		parent := tree.Node(cur).ScopeNode
		if parent == 0 {
			return 0, false
		}
		cur = parent
	}
}
