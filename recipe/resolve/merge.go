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

// Package resolve implements the recipe IR resolver: include merge,
// namespace merge, name resolution, heritance validation, and enum value
// assignment. The tree is walked bottom-up, references are resolved by
// name, and errors accumulate in a log rather than aborting the walk.
package resolve

import "github.com/kingofpayne/bakery/recipe"

// isTypeBearing reports whether a child kind is carried across an include
// merge; Member children are intentionally excluded.
func isTypeBearing(k recipe.Kind) bool {
	switch k {
	case recipe.KindNamespace, recipe.KindStructure, recipe.KindVariant,
		recipe.KindTypedef, recipe.KindEnum, recipe.KindArray, recipe.KindNative:
		return true
	default:
		return false
	}
}

// MergeInclude transplants the type- and namespace-bearing children of
// includeRoot into mainRoot, discarding member
// children. Namespace coalescing across the merged-in children happens
// later, in MergeNamespaces.
func MergeInclude(tree *recipe.Tree, mainRoot, includeRoot recipe.NodeID) {
	root := tree.Node(includeRoot)
	for _, child := range append([]recipe.NodeID(nil), root.Children...) {
		if isTypeBearing(tree.Node(child).Kind) {
			tree.Reparent(child, mainRoot)
		}
	}
}

// MergeNamespaces coalesces namespaces: at every composite, children
// tagged Namespace sharing a name are merged by
// concatenating their children in order, then the merge is reapplied
// recursively inside the coalesced namespace. It also recurses into every
// non-namespace composite child so nested namespaces are merged too.
func MergeNamespaces(tree *recipe.Tree, scope recipe.NodeID) {
	node := tree.Node(scope)

	byName := map[string][]recipe.NodeID{}
	var order []string
	var kept []recipe.NodeID
	for _, child := range node.Children {
		c := tree.Node(child)
		if c.Kind == recipe.KindNamespace {
			if _, seen := byName[c.Name]; !seen {
				order = append(order, c.Name)
				kept = append(kept, child)
			}
			byName[c.Name] = append(byName[c.Name], child)
			continue
		}
		kept = append(kept, child)
	}

	for _, name := range order {
		ids := byName[name]
		primary := ids[0]
		for _, dup := range ids[1:] {
			dupNode := tree.Node(dup)
			grandchildren := append([]recipe.NodeID(nil), dupNode.Children...)
			for _, grandchild := range grandchildren {
				tree.Reparent(grandchild, primary)
			}
		}
	}
	tree.SetChildren(scope, kept)

	for _, child := range node.Children {
		c := tree.Node(child)
		if c.Kind.IsType() || c.Kind == recipe.KindNamespace {
			MergeNamespaces(tree, child)
		}
	}
}
