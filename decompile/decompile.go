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

package decompile

import (
	"github.com/kingofpayne/bakery/data"
	"github.com/kingofpayne/bakery/diag"
	"github.com/kingofpayne/bakery/emit"
	"github.com/kingofpayne/bakery/recipe"
	"github.com/kingofpayne/bakery/wire"
)

// Decompiler holds everything the readNode walk needs across one top-level call:
// the resolved recipe, the error log, and the template-instantiation
// stack.
type Decompiler struct {
	Tree *recipe.Tree
	Log  *diag.Log
	File string

	TTI recipe.TTIStack
}

// New builds a Decompiler over tree.
func New(tree *recipe.Tree, log *diag.Log, file string) *Decompiler {
	return &Decompiler{Tree: tree, Log: log, File: file}
}

func (d *Decompiler) errorf(kind diag.Kind, line int, format string, args ...interface{}) {
	d.Log.Errorf(kind, d.File, line, format, args...)
}

// Decompile is the top-level entry point, guaranteeing the TTI stack
// returns to its entry depth on every return path, and returns the decoded
// value as a Data IR subtree ready for canonical printing (package
// decompile's Print functions).
func (d *Decompiler) Decompile(inst *recipe.TypeInstantiation, c *Cursor) (*data.Node, bool) {
	mark := d.TTI.Mark()
	defer d.TTI.Truncate(mark)
	return d.readNode(inst, c)
}

func (d *Decompiler) readNode(inst *recipe.TypeInstantiation, c *Cursor) (*data.Node, bool) {
	if !d.Tree.Valid(inst.TypePointer) {
		d.errorf(diag.ResolutionErr, inst.Line, "unresolved type instantiation")
		return nil, false
	}
	target := d.Tree.Node(inst.TypePointer)

	switch target.Kind {
	case recipe.KindStructure:
		grp := &data.Node{Kind: data.Group}
		ok := d.readStructureInto(grp, inst, target, c)
		return grp, ok
	case recipe.KindVariant:
		return d.readVariant(inst, target, c)
	case recipe.KindArray:
		return d.readArray(inst, target, c)
	case recipe.KindTypedef:
		return d.readTypedef(inst, target, c)
	case recipe.KindEnum:
		return d.readEnum(inst, target, c)
	case recipe.KindTemplateType:
		return d.readTemplateType(target, c)
	case recipe.KindNative:
		return d.readNative(inst, target, c)
	default:
		d.errorf(diag.ShapeErr, inst.Line, "cannot decompile a value of kind %s", target.Kind)
		return nil, false
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

func (d *Decompiler) pushBindings(id recipe.NodeID, params []*recipe.TypeInstantiation) {
	slots := templateSlots(d.Tree, id)
	for i, slot := range slots {
		if i < len(params) {
			d.TTI.Push(slot, params[i])
		}
	}
}

// readStructureInto decodes target's heritance chain and own members into
// grp's flat assignment list, in the same order the emitter visits them
// (inherited fields first), so a derived
// structure's members are indistinguishable in the data text from its
// own — exactly mirroring how the emitter reads them out of one shared
// assignments map.
func (d *Decompiler) readStructureInto(grp *data.Node, inst *recipe.TypeInstantiation, target *recipe.Node, c *Cursor) bool {
	mark := d.TTI.Mark()
	d.pushBindings(target.ID, inst.Parameters)
	defer d.TTI.Truncate(mark)

	ok := true
	for _, h := range target.Heritance {
		if !d.readHeritance(grp, h, c) {
			ok = false
		}
	}

	for _, mid := range memberChildren(d.Tree, target.ID) {
		m := d.Tree.Node(mid)
		optional := m.Qualifiers.Has(recipe.QualOptional)

		if optional {
			present, err := wire.ReadBool(c)
			if err != nil {
				d.errorf(diag.EofErr, m.Line, "%v", err)
				ok = false
				continue
			}
			if !present {
				continue
			}
			val, valOk := d.readNode(m.Type, c)
			if !valOk {
				ok = false
				continue
			}
			grp.Children = append(grp.Children, &data.Node{Kind: data.Assignment, Name: m.Name, Line: m.Line, Children: []*data.Node{val}})
			continue
		}

		if m.HasDefault() {
			defNode, _ := m.Default.(*data.Node)
			if elided, skipOk := d.tryElide(m.Type, defNode, c); skipOk {
				if elided {
					continue
				}
			} else {
				ok = false
				continue
			}
		}

		val, valOk := d.readNode(m.Type, c)
		if !valOk {
			ok = false
			continue
		}
		grp.Children = append(grp.Children, &data.Node{Kind: data.Assignment, Name: m.Name, Line: m.Line, Children: []*data.Node{val}})
	}
	return ok
}

// readHeritance decodes one heritance entry's fields into grp, mirroring
// how the emitter dispatches heritance through its kind switch: a typedef
// contributes its own bindings and the walk follows its target, so a
// chain of typedefs ends at the aliased structure whose members actually
// occupy the stream.
func (d *Decompiler) readHeritance(grp *data.Node, inst *recipe.TypeInstantiation, c *Cursor) bool {
	if !d.Tree.Valid(inst.TypePointer) {
		d.errorf(diag.ResolutionErr, inst.Line, "unresolved heritance instantiation")
		return false
	}
	target := d.Tree.Node(inst.TypePointer)
	switch target.Kind {
	case recipe.KindStructure:
		return d.readStructureInto(grp, inst, target, c)
	case recipe.KindTypedef:
		mark := d.TTI.Mark()
		d.pushBindings(target.ID, inst.Parameters)
		defer d.TTI.Truncate(mark)
		return d.readHeritance(grp, target.Type, c)
	default:
		d.errorf(diag.ShapeErr, inst.Line, "heritance target %q is not a structure", target.Name)
		return false
	}
}

// tryElide stages defNode's bytes through a scratch Emitter sharing the
// current TTI bindings, compares them against the next bytes the cursor
// would yield, and reports whether they matched (in which case the bytes
// are consumed and the caller must omit the member).
// skipOk is false only on an emit/IO failure while staging, which the
// caller treats as a hard error.
func (d *Decompiler) tryElide(inst *recipe.TypeInstantiation, defNode *data.Node, c *Cursor) (elided bool, skipOk bool) {
	var staged stagingBuffer
	em := emit.New(d.Tree, &staged, d.Log, d.File)
	em.TTI = d.TTI
	if !em.Write(inst, defNode) {
		return false, false
	}
	peeked, err := c.Peek(len(staged.buf))
	if err != nil {
		return false, true
	}
	if bytesEqual(peeked, staged.buf) {
		c.Skip(len(staged.buf))
		return true, true
	}
	return false, true
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// stagingBuffer is the in-memory byte sink used to render a default
// value's bytes for comparison, sharing wire.Writer's interface with the
// real emitter output.
type stagingBuffer struct {
	buf []byte
}

func (s *stagingBuffer) Write(p []byte) (int, error) {
	s.buf = append(s.buf, p...)
	return len(p), nil
}

func (d *Decompiler) readVariant(inst *recipe.TypeInstantiation, target *recipe.Node, c *Cursor) (*data.Node, bool) {
	idx, err := wire.ReadInt32(c)
	if err != nil {
		d.errorf(diag.EofErr, inst.Line, "%v", err)
		return nil, false
	}
	members := memberChildren(d.Tree, target.ID)
	if idx < 0 || int(idx) >= len(members) {
		d.errorf(diag.ShapeErr, inst.Line, "variant index %d out of range for %q", idx, target.Name)
		return nil, false
	}

	mark := d.TTI.Mark()
	d.pushBindings(target.ID, inst.Parameters)
	defer d.TTI.Truncate(mark)

	m := d.Tree.Node(members[idx])
	val, ok := d.readNode(m.Type, c)
	if !ok {
		return nil, false
	}
	return &data.Node{Kind: data.Variant, Name: m.Name, Children: []*data.Node{val}}, true
}

func (d *Decompiler) readTypedef(inst *recipe.TypeInstantiation, target *recipe.Node, c *Cursor) (*data.Node, bool) {
	mark := d.TTI.Mark()
	d.pushBindings(target.ID, inst.Parameters)
	defer d.TTI.Truncate(mark)
	return d.readNode(target.Type, c)
}

func (d *Decompiler) readEnum(inst *recipe.TypeInstantiation, target *recipe.Node, c *Cursor) (*data.Node, bool) {
	v, err := wire.ReadInt32(c)
	if err != nil {
		d.errorf(diag.EofErr, inst.Line, "%v", err)
		return nil, false
	}
	for _, ch := range target.Children {
		ev := d.Tree.Node(ch)
		if ev.EnumValue == v {
			return &data.Node{Kind: data.Identifier, Text: ev.Name}, true
		}
	}
	return &data.Node{Kind: data.Number, Num: intToFloating(int64(v))}, true
}

func (d *Decompiler) readTemplateType(slot *recipe.Node, c *Cursor) (*data.Node, bool) {
	binding, found := d.TTI.Lookup(slot.ID)
	if !found {
		d.errorf(diag.TemplateErr, slot.Line, "no binding for template parameter %q", slot.Name)
		return nil, false
	}
	return d.readNode(binding, c)
}
