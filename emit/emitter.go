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

// Package emit implements the binary emitter: a tail-recursive walk of a
// Data IR tree guided by a resolved Recipe IR and a template-instantiation
// stack, writing a native-endian binary stream. Errors are accumulated in
// the shared log, never panicked; a failed subtree stops descending but
// leaves sibling members to report their own problems.
package emit

import (
	"github.com/kingofpayne/bakery/data"
	"github.com/kingofpayne/bakery/diag"
	"github.com/kingofpayne/bakery/recipe"
	"github.com/kingofpayne/bakery/wire"
)

// Emitter holds everything the writeNode walk needs across one top-level call:
// the resolved recipe, a destination writer, the TTI stack, and an error
// log.
type Emitter struct {
	Tree *recipe.Tree
	W    wire.Writer
	Log  *diag.Log
	File string

	// TTI is exported so package decompile can seed a scratch Emitter with
	// the same bindings in scope when re-emitting a member's default value
	// for elision comparison.
	TTI recipe.TTIStack
}

// New builds an Emitter writing to w.
func New(tree *recipe.Tree, w wire.Writer, log *diag.Log, file string) *Emitter {
	return &Emitter{Tree: tree, W: w, Log: log, File: file}
}

func (e *Emitter) errorf(kind diag.Kind, line int, format string, args ...interface{}) {
	e.Log.Errorf(kind, e.File, line, format, args...)
}

// Write is the top-level entry point, guaranteeing the TTI stack returns
// to its entry depth on every return path.
func (e *Emitter) Write(inst *recipe.TypeInstantiation, node *data.Node) bool {
	mark := e.TTI.Mark()
	defer e.TTI.Truncate(mark)
	return e.writeNode(inst, node)
}

func (e *Emitter) writeNode(inst *recipe.TypeInstantiation, node *data.Node) bool {
	if !e.Tree.Valid(inst.TypePointer) {
		e.errorf(diag.ResolutionErr, inst.Line, "unresolved type instantiation")
		return false
	}
	target := e.Tree.Node(inst.TypePointer)

	switch target.Kind {
	case recipe.KindStructure:
		return e.writeStructure(inst, target, node)
	case recipe.KindVariant:
		return e.writeVariant(inst, target, node)
	case recipe.KindArray:
		return e.writeArray(inst, target, node)
	case recipe.KindTypedef:
		return e.writeTypedef(inst, target, node)
	case recipe.KindEnum:
		return e.writeEnum(inst, target, node)
	case recipe.KindTemplateType:
		return e.writeTemplateType(target, node)
	case recipe.KindNative:
		return e.writeNative(inst, target, node)
	default:
		e.errorf(diag.ShapeErr, inst.Line, "cannot emit a value of kind %s", target.Kind)
		return false
	}
}

func templateSlots(tree *recipe.Tree, id recipe.NodeID) []recipe.NodeID {
	var slots []recipe.NodeID
	for _, ch := range tree.Node(id).Children {
		if tree.Node(ch).Kind == recipe.KindTemplateType {
			slots = append(slots, ch)
		}
	}
	return slots
}

func memberChildren(tree *recipe.Tree, id recipe.NodeID) []recipe.NodeID {
	var members []recipe.NodeID
	for _, ch := range tree.Node(id).Children {
		if tree.Node(ch).Kind == recipe.KindMember {
			members = append(members, ch)
		}
	}
	return members
}

func (e *Emitter) pushBindings(id recipe.NodeID, params []*recipe.TypeInstantiation) {
	slots := templateSlots(e.Tree, id)
	for i, slot := range slots {
		if i < len(params) {
			e.TTI.Push(slot, params[i])
		}
	}
}

func (e *Emitter) writeStructure(inst *recipe.TypeInstantiation, target *recipe.Node, node *data.Node) bool {
	mark := e.TTI.Mark()
	e.pushBindings(target.ID, inst.Parameters)
	defer e.TTI.Truncate(mark)

	if node == nil || node.Kind != data.Group {
		e.errorf(diag.ShapeErr, inst.Line, "expected a group for structure %q", target.Name)
		return false
	}

	ok := true
	for _, h := range target.Heritance {
		if !e.writeNode(h, node) {
			ok = false
		}
	}

	assignments := node.Assignments()
	for _, mid := range memberChildren(e.Tree, target.ID) {
		m := e.Tree.Node(mid)
		optional := m.Qualifiers.Has(recipe.QualOptional)
		assignment, present := assignments[m.Name]

		if optional {
			if err := wire.WriteBool(e.W, present); err != nil {
				e.errorf(diag.IoErr, m.Line, "%v", err)
				ok = false
				continue
			}
			if !present {
				continue
			}
			if !e.writeNode(m.Type, assignment.Child()) {
				ok = false
			}
			continue
		}

		var value *data.Node
		if present {
			value = assignment.Child()
		} else if m.HasDefault() {
			value, _ = m.Default.(*data.Node)
		} else {
			e.errorf(diag.ShapeErr, m.Line, "missing required member %q", m.Name)
			ok = false
			continue
		}
		if !e.writeNode(m.Type, value) {
			ok = false
		}
	}
	return ok
}

func (e *Emitter) writeVariant(inst *recipe.TypeInstantiation, target *recipe.Node, node *data.Node) bool {
	if node == nil || node.Kind != data.Variant {
		e.errorf(diag.ShapeErr, inst.Line, "expected a variant value for %q", target.Name)
		return false
	}
	members := memberChildren(e.Tree, target.ID)
	index := -1
	for i, mid := range members {
		if e.Tree.Node(mid).Name == node.Name {
			index = i
			break
		}
	}
	if index == -1 {
		e.errorf(diag.ShapeErr, node.Line, "%q is not a member of variant %q", node.Name, target.Name)
		return false
	}

	mark := e.TTI.Mark()
	e.pushBindings(target.ID, inst.Parameters)
	defer e.TTI.Truncate(mark)

	if err := wire.WriteInt32(e.W, int32(index)); err != nil {
		e.errorf(diag.IoErr, node.Line, "%v", err)
		return false
	}
	m := e.Tree.Node(members[index])
	return e.writeNode(m.Type, node.Child())
}

func (e *Emitter) writeTypedef(inst *recipe.TypeInstantiation, target *recipe.Node, node *data.Node) bool {
	mark := e.TTI.Mark()
	e.pushBindings(target.ID, inst.Parameters)
	defer e.TTI.Truncate(mark)
	return e.writeNode(target.Type, node)
}

func (e *Emitter) writeEnum(inst *recipe.TypeInstantiation, target *recipe.Node, node *data.Node) bool {
	if node == nil || node.Kind != data.Identifier {
		e.errorf(diag.ShapeErr, inst.Line, "expected an identifier for enum %q", target.Name)
		return false
	}
	for _, ch := range target.Children {
		v := e.Tree.Node(ch)
		if v.Name == node.Text {
			if err := wire.WriteInt32(e.W, v.EnumValue); err != nil {
				e.errorf(diag.IoErr, node.Line, "%v", err)
				return false
			}
			return true
		}
	}
	e.errorf(diag.ShapeErr, node.Line, "%q is not a member of enumeration %q", node.Text, target.Name)
	return false
}

func (e *Emitter) writeTemplateType(slot *recipe.Node, node *data.Node) bool {
	binding, found := e.TTI.Lookup(slot.ID)
	if !found {
		e.errorf(diag.TemplateErr, slot.Line, "no binding for template parameter %q", slot.Name)
		return false
	}
	return e.writeNode(binding, node)
}
