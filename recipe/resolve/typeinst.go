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
	"sort"
	"strings"

	"github.com/kingofpayne/bakery/diag"
	"github.com/kingofpayne/bakery/recipe"
)

// ResolveInstantiation resolves a type instantiation that was parsed
// outside of any recipe file's own composite content — a data file's
// `recipe <file> <type-inst>;` header, or a decompile entry point's
// directly-supplied type reference — against an already Pass-B-resolved
// tree. It is the same resolution resolveInst gives every use site inside
// the recipe itself, exposed for package bakery's driver.
func ResolveInstantiation(tree *recipe.Tree, inst *recipe.TypeInstantiation, scope recipe.NodeID, log *diag.Log, file string) bool {
	return resolveInst(tree, inst, scope, log, file)
}

// resolveInst resolves a single type instantiation written at a use site
// within scope.
func resolveInst(tree *recipe.Tree, inst *recipe.TypeInstantiation, scope recipe.NodeID, log *diag.Log, file string) bool {
	if inst.Synthesized != 0 {
		tree.SetScope(inst.Synthesized, scope)
		inst.TypePointer = inst.Synthesized
		return compileNode(tree, inst.Synthesized, log, file)
	}

	target, found := ResolvePath(tree, scope, inst.Path, inst.Absolute)
	if !found {
		msg := "could not resolve type %q"
		if s := suggest(tree, scope, inst.Path[0]); len(s) > 0 {
			msg += " (did you mean " + strings.Join(s, ", ") + "?)"
		}
		log.Errorf(diag.ResolutionErr, file, inst.Line, msg, strings.Join(inst.Path, "::"))
		return false
	}
	inst.TypePointer = target

	ok := true
	for _, p := range inst.Parameters {
		if !resolveInst(tree, p, scope, log, file) {
			ok = false
		}
	}
	if !ok {
		return false
	}

	if !checkArity(tree, target, inst, log, file) {
		ok = false
	}
	if inst.Unsigned && !isUnsignableNative(tree.Node(target)) {
		log.Errorf(diag.QualifierErr, file, inst.Line, "unsigned may only qualify int, short or char")
		ok = false
	}
	return ok
}

// suggest returns up to three names near an unresolved path's first
// segment: children anywhere on the scope chain whose names extend seg,
// retried with a three-character prefix when the full segment matches
// nothing (so a trailing typo still finds the intended name).
func suggest(tree *recipe.Tree, scope recipe.NodeID, seg string) []string {
	prefixes := []string{seg}
	if len(seg) > 3 {
		prefixes = append(prefixes, seg[:3])
	}
	seen := map[string]bool{}
	var out []string
	for _, prefix := range prefixes {
		for cur := scope; ; {
			for _, name := range tree.NamesWithPrefix(cur, prefix) {
				if !seen[name] {
					seen[name] = true
					out = append(out, name)
				}
			}
			next := tree.Node(cur).ScopeNode
			if next == 0 {
				break
			}
			cur = next
		}
		if len(out) > 0 {
			break
		}
	}
	sort.Strings(out)
	if len(out) > 3 {
		out = out[:3]
	}
	return out
}

func isUnsignableNative(n *recipe.Node) bool {
	return n.Kind == recipe.KindNative && n.NativeClass.IsInteger()
}

// countTemplateSlots counts the direct KindTemplateType children of a
// structure/variant/typedef node.
func countTemplateSlots(tree *recipe.Tree, id recipe.NodeID) int {
	n := 0
	for _, ch := range tree.Node(id).Children {
		if tree.Node(ch).Kind == recipe.KindTemplateType {
			n++
		}
	}
	return n
}

// checkArity enforces the template parameter count rule: user composites
// take exactly as many parameters as they declare slots; pair takes 1 or
// 2, tuple at least 1, list exactly 1, map exactly 2; everything else
// takes none.
func checkArity(tree *recipe.Tree, targetID recipe.NodeID, inst *recipe.TypeInstantiation, log *diag.Log, file string) bool {
	target := tree.Node(targetID)
	n := len(inst.Parameters)

	if target.Kind == recipe.KindNative {
		switch target.NativeClass {
		case recipe.NativePair:
			if n != 1 && n != 2 {
				log.Errorf(diag.TemplateErr, file, inst.Line, "pair takes 1 or 2 type parameters, got %d", n)
				return false
			}
		case recipe.NativeTuple:
			if n < 1 {
				log.Errorf(diag.TemplateErr, file, inst.Line, "tuple takes at least 1 type parameter, got %d", n)
				return false
			}
		case recipe.NativeList:
			if n != 1 {
				log.Errorf(diag.TemplateErr, file, inst.Line, "list takes exactly 1 type parameter, got %d", n)
				return false
			}
		case recipe.NativeMap:
			if n != 2 {
				log.Errorf(diag.TemplateErr, file, inst.Line, "map takes exactly 2 type parameters, got %d", n)
				return false
			}
		default:
			if n != 0 {
				log.Errorf(diag.TemplateErr, file, inst.Line, "%s takes no type parameters, got %d", target.NativeClass, n)
				return false
			}
		}
		return true
	}

	if target.Kind == recipe.KindStructure || target.Kind == recipe.KindVariant || target.Kind == recipe.KindTypedef {
		slots := countTemplateSlots(tree, targetID)
		if n != slots {
			log.Errorf(diag.TemplateErr, file, inst.Line, "%q takes %d type parameter(s), got %d", target.Name, slots, n)
			return false
		}
		return true
	}

	if n != 0 {
		log.Errorf(diag.TemplateErr, file, inst.Line, "%q takes no type parameters, got %d", target.Name, n)
		return false
	}
	return true
}
