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

import (
	"github.com/kingofpayne/bakery/diag"
	"github.com/kingofpayne/bakery/recipe"
)

// Resolve compiles a fully merged recipe tree starting from root (the
// caller — package bakery — is responsible for the include merge itself,
// since it requires file I/O that this package intentionally stays free
// of). It first merges same-named namespaces (MergeNamespaces, which
// reparents their children and drops the duplicates); after that it mutates
// only TypeInstantiation.TypePointer fields, enum values and the scope of
// synthesized array nodes, and reports whether resolution succeeded without
// errors.
func Resolve(tree *recipe.Tree, root recipe.NodeID, log *diag.Log, file string) bool {
	MergeNamespaces(tree, root)

	ok := checkUniqueness(tree, root, log, file)
	if !compileNode(tree, root, log, file) {
		ok = false
	}
	return ok
}

// checkUniqueness enforces that within each scope no two children share
// a non-empty name. It recurses into every composite scope.
func checkUniqueness(tree *recipe.Tree, scope recipe.NodeID, log *diag.Log, file string) bool {
	node := tree.Node(scope)
	seen := map[string]bool{}
	ok := true
	for _, id := range node.Children {
		c := tree.Node(id)
		if c.Name == "" {
			continue
		}
		if seen[c.Name] {
			log.Errorf(diag.ResolutionErr, file, c.Line, "duplicate name %q in scope", c.Name)
			ok = false
			continue
		}
		seen[c.Name] = true
	}
	for _, id := range node.Children {
		c := tree.Node(id)
		if c.Kind.IsType() || c.Kind == recipe.KindNamespace {
			if !checkUniqueness(tree, id, log, file) {
				ok = false
			}
		}
	}
	return ok
}

// compileNode compiles one node, dispatching by kind and recursing
// depth-first.
func compileNode(tree *recipe.Tree, id recipe.NodeID, log *diag.Log, file string) bool {
	node := tree.Node(id)
	switch node.Kind {
	case recipe.KindNamespace:
		return compileChildren(tree, id, log, file)

	case recipe.KindStructure:
		ok := true
		// Heritance entries resolve with the structure itself as scope so
		// its template slots are visible to e.g. `struct D<T> : Base<T>`.
		for _, h := range node.Heritance {
			if !resolveInst(tree, h, id, log, file) {
				ok = false
				continue
			}
			target := tree.Node(h.TypePointer)
			if target.Kind != recipe.KindStructure && target.Kind != recipe.KindTypedef {
				log.Errorf(diag.HeritageErr, file, h.Line, "heritance target %q is neither a struct nor a typedef", target.Name)
				ok = false
			}
		}
		if !compileChildren(tree, id, log, file) {
			ok = false
		}
		return ok

	case recipe.KindVariant:
		return compileChildren(tree, id, log, file)

	case recipe.KindArray:
		return resolveInst(tree, node.ElemType, node.ScopeNode, log, file)

	case recipe.KindTypedef:
		// The typedef node itself is the scope, so its own template slots
		// resolve in the target instantiation.
		return resolveInst(tree, node.Type, id, log, file)

	case recipe.KindMember:
		return compileMember(tree, id, log, file)

	case recipe.KindEnum:
		return assignEnumValues(tree, id, log, file)

	case recipe.KindEnumValue, recipe.KindNative, recipe.KindTemplateType:
		return true

	default:
		return true
	}
}

func compileChildren(tree *recipe.Tree, scope recipe.NodeID, log *diag.Log, file string) bool {
	ok := true
	for _, id := range tree.Node(scope).Children {
		c := tree.Node(id)
		switch c.Kind {
		case recipe.KindNamespace, recipe.KindStructure, recipe.KindVariant,
			recipe.KindTypedef, recipe.KindEnum, recipe.KindMember:
			if !compileNode(tree, id, log, file) {
				ok = false
			}
		}
	}
	return ok
}

// compileMember resolves a member's type and enforces the qualifier
// invariants: a member may not be both optional and have a default value,
// and a variant's member may be neither optional nor have a default value.
func compileMember(tree *recipe.Tree, id recipe.NodeID, log *diag.Log, file string) bool {
	node := tree.Node(id)
	ok := resolveInst(tree, node.Type, node.ScopeNode, log, file)

	optional := node.Qualifiers.Has(recipe.QualOptional)
	hasDefault := node.HasDefault()

	if optional && hasDefault {
		log.Errorf(diag.QualifierErr, file, node.Line, "member %q cannot be both optional and have a default value", node.Name)
		ok = false
	}

	parent := tree.Node(node.ScopeNode)
	if parent.Kind == recipe.KindVariant {
		if optional {
			log.Errorf(diag.QualifierErr, file, node.Line, "variant member %q may not be optional", node.Name)
			ok = false
		}
		if hasDefault {
			log.Errorf(diag.QualifierErr, file, node.Line, "variant member %q may not have a default value", node.Name)
			ok = false
		}
	}
	return ok
}
