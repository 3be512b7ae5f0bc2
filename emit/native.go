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

package emit

import (
	"github.com/kingofpayne/bakery/data"
	"github.com/kingofpayne/bakery/diag"
	"github.com/kingofpayne/bakery/numeric"
	"github.com/kingofpayne/bakery/recipe"
	"github.com/kingofpayne/bakery/wire"
)

func (e *Emitter) writeNative(inst *recipe.TypeInstantiation, target *recipe.Node, node *data.Node) bool {
	switch target.NativeClass {
	case recipe.NativeBool:
		return e.writeBool(inst, node)
	case recipe.NativeChar:
		return e.writeInt(inst, node, numericIntKind(8, inst.Unsigned))
	case recipe.NativeShort:
		return e.writeInt(inst, node, numericIntKind(16, inst.Unsigned))
	case recipe.NativeInt:
		return e.writeInt(inst, node, numericIntKind(32, inst.Unsigned))
	case recipe.NativeFloat:
		return e.writeFloat(inst, node, numeric.Float32, 24)
	case recipe.NativeDouble:
		return e.writeFloat(inst, node, numeric.Float64, 53)
	case recipe.NativeString:
		return e.writeString(inst, node)
	case recipe.NativePair:
		return e.writePair(inst, node)
	case recipe.NativeTuple:
		return e.writeTuple(inst, node)
	case recipe.NativeList:
		return e.writeList(inst, node)
	case recipe.NativeMap:
		return e.writeMap(inst, node)
	default:
		e.errorf(diag.ShapeErr, inst.Line, "unknown native class %s", target.NativeClass)
		return false
	}
}

func numericIntKind(bits int, unsigned bool) numeric.IntKind {
	switch {
	case bits == 8 && !unsigned:
		return numeric.Int8
	case bits == 8 && unsigned:
		return numeric.Uint8
	case bits == 16 && !unsigned:
		return numeric.Int16
	case bits == 16 && unsigned:
		return numeric.Uint16
	case bits == 32 && !unsigned:
		return numeric.Int32
	default:
		return numeric.Uint32
	}
}

func (e *Emitter) writeBool(inst *recipe.TypeInstantiation, node *data.Node) bool {
	if node == nil || node.Kind != data.Bool {
		e.errorf(diag.ShapeErr, inst.Line, "expected a boolean value")
		return false
	}
	if err := wire.WriteBool(e.W, node.Flag); err != nil {
		e.errorf(diag.IoErr, inst.Line, "%v", err)
		return false
	}
	return true
}

func (e *Emitter) writeInt(inst *recipe.TypeInstantiation, node *data.Node, kind numeric.IntKind) bool {
	if node == nil || node.Kind != data.Number || !node.Num.IsIntegral() {
		e.errorf(diag.ShapeErr, inst.Line, "expected an integer value")
		return false
	}
	text := node.Num.String()
	v, err := numeric.ParseInt(text)
	if err != nil {
		e.errorf(diag.RangeErr, inst.Line, "%v", err)
		return false
	}
	if err := numeric.FitInt(v, kind, inst.Unsigned); err != nil {
		e.errorf(diag.RangeErr, inst.Line, "%v", err)
		return false
	}
	n := numeric.ToInt64(v)
	switch kind {
	case numeric.Int8, numeric.Uint8:
		return e.checkIo(inst.Line, wire.WriteInt8(e.W, int8(n)))
	case numeric.Int16, numeric.Uint16:
		return e.checkIo(inst.Line, wire.WriteInt16(e.W, int16(n)))
	default:
		return e.checkIo(inst.Line, wire.WriteInt32(e.W, int32(n)))
	}
}

func (e *Emitter) writeFloat(inst *recipe.TypeInstantiation, node *data.Node, kind numeric.FloatKind, prec uint) bool {
	if node == nil || node.Kind != data.Number {
		e.errorf(diag.ShapeErr, inst.Line, "expected a floating-point value")
		return false
	}
	v, err := numeric.ParseFloat(node.Num, prec)
	if err != nil {
		e.errorf(diag.RangeErr, inst.Line, "%v", err)
		return false
	}
	f, err := numeric.FitFloat(v, kind)
	if err != nil {
		e.errorf(diag.RangeErr, inst.Line, "%v", err)
		return false
	}
	if kind == numeric.Float32 {
		return e.checkIo(inst.Line, wire.WriteFloat32(e.W, float32(f)))
	}
	return e.checkIo(inst.Line, wire.WriteFloat64(e.W, f))
}

func (e *Emitter) writeString(inst *recipe.TypeInstantiation, node *data.Node) bool {
	if node == nil || node.Kind != data.String {
		e.errorf(diag.ShapeErr, inst.Line, "expected a string value")
		return false
	}
	return e.checkIo(inst.Line, wire.WriteString(e.W, node.Text))
}

func (e *Emitter) checkIo(line int, err error) bool {
	if err != nil {
		e.errorf(diag.IoErr, line, "%v", err)
		return false
	}
	return true
}

func (e *Emitter) writePair(inst *recipe.TypeInstantiation, node *data.Node) bool {
	if node == nil || node.Kind != data.Group || len(node.Children) != 2 {
		e.errorf(diag.ShapeErr, inst.Line, "expected a 2-element group for pair")
		return false
	}
	a, b := inst.Parameters[0], inst.Parameters[0]
	if len(inst.Parameters) == 2 {
		b = inst.Parameters[1]
	}
	ok := e.writeNode(a, node.Children[0])
	if !e.writeNode(b, node.Children[1]) {
		ok = false
	}
	return ok
}

func (e *Emitter) writeTuple(inst *recipe.TypeInstantiation, node *data.Node) bool {
	if node == nil || node.Kind != data.Group || len(node.Children) != len(inst.Parameters) {
		e.errorf(diag.ShapeErr, inst.Line, "expected a %d-element group for tuple", len(inst.Parameters))
		return false
	}
	ok := true
	for i, child := range node.Children {
		if !e.writeNode(inst.Parameters[i], child) {
			ok = false
		}
	}
	return ok
}

func (e *Emitter) writeList(inst *recipe.TypeInstantiation, node *data.Node) bool {
	if node == nil || node.Kind != data.Group {
		e.errorf(diag.ShapeErr, inst.Line, "expected a group for list")
		return false
	}
	if !e.checkIo(inst.Line, wire.WriteWord(e.W, uint64(len(node.Children)))) {
		return false
	}
	ok := true
	for _, child := range node.Children {
		if !e.writeNode(inst.Parameters[0], child) {
			ok = false
		}
	}
	return ok
}

func (e *Emitter) writeMap(inst *recipe.TypeInstantiation, node *data.Node) bool {
	if node == nil || node.Kind != data.Group {
		e.errorf(diag.ShapeErr, inst.Line, "expected a group for map")
		return false
	}
	if !e.checkIo(inst.Line, wire.WriteWord(e.W, uint64(len(node.Children)))) {
		return false
	}
	ok := true
	for _, child := range node.Children {
		if child.Kind != data.MapAssignment {
			e.errorf(diag.ShapeErr, child.Line, "expected a key = value entry in map literal")
			ok = false
			continue
		}
		if !e.writeNode(inst.Parameters[0], child.MapKey()) {
			ok = false
		}
		if !e.writeNode(inst.Parameters[1], child.MapValue()) {
			ok = false
		}
	}
	return ok
}
