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
	"strconv"
	"strings"

	"github.com/kingofpayne/bakery/data"
	"github.com/kingofpayne/bakery/diag"
	"github.com/kingofpayne/bakery/recipe"
	"github.com/kingofpayne/bakery/wire"
)

func (d *Decompiler) readNative(inst *recipe.TypeInstantiation, target *recipe.Node, c *Cursor) (*data.Node, bool) {
	switch target.NativeClass {
	case recipe.NativeBool:
		return d.readBool(inst, c)
	case recipe.NativeChar:
		return d.readInt(inst, c, 8)
	case recipe.NativeShort:
		return d.readInt(inst, c, 16)
	case recipe.NativeInt:
		return d.readInt(inst, c, 32)
	case recipe.NativeFloat:
		return d.readFloat32(inst, c)
	case recipe.NativeDouble:
		return d.readFloat64(inst, c)
	case recipe.NativeString:
		return d.readString(inst, c)
	case recipe.NativePair:
		return d.readPair(inst, c)
	case recipe.NativeTuple:
		return d.readTuple(inst, c)
	case recipe.NativeList:
		return d.readList(inst, c)
	case recipe.NativeMap:
		return d.readMap(inst, c)
	default:
		d.errorf(diag.ShapeErr, inst.Line, "unknown native class %s", target.NativeClass)
		return nil, false
	}
}

func (d *Decompiler) readBool(inst *recipe.TypeInstantiation, c *Cursor) (*data.Node, bool) {
	v, err := wire.ReadBool(c)
	if err != nil {
		d.errorf(diag.EofErr, inst.Line, "%v", err)
		return nil, false
	}
	return &data.Node{Kind: data.Bool, Flag: v, Line: inst.Line}, true
}

// readInt reads a bits-wide integer and decodes it as unsigned when inst
// is so qualified, matching the sign interpretation the emitter used to
// write it.
func (d *Decompiler) readInt(inst *recipe.TypeInstantiation, c *Cursor, bits int) (*data.Node, bool) {
	var v int64
	switch bits {
	case 8:
		b, err := wire.ReadInt8(c)
		if err != nil {
			d.errorf(diag.EofErr, inst.Line, "%v", err)
			return nil, false
		}
		if inst.Unsigned {
			v = int64(uint8(b))
		} else {
			v = int64(b)
		}
	case 16:
		b, err := wire.ReadInt16(c)
		if err != nil {
			d.errorf(diag.EofErr, inst.Line, "%v", err)
			return nil, false
		}
		if inst.Unsigned {
			v = int64(uint16(b))
		} else {
			v = int64(b)
		}
	default:
		b, err := wire.ReadInt32(c)
		if err != nil {
			d.errorf(diag.EofErr, inst.Line, "%v", err)
			return nil, false
		}
		if inst.Unsigned {
			v = int64(uint32(b))
		} else {
			v = int64(b)
		}
	}
	return &data.Node{Kind: data.Number, Num: intToFloating(v), Line: inst.Line}, true
}

func (d *Decompiler) readFloat32(inst *recipe.TypeInstantiation, c *Cursor) (*data.Node, bool) {
	v, err := wire.ReadFloat32(c)
	if err != nil {
		d.errorf(diag.EofErr, inst.Line, "%v", err)
		return nil, false
	}
	return &data.Node{Kind: data.Number, Num: floatToFloating(float64(v), 32), Line: inst.Line}, true
}

func (d *Decompiler) readFloat64(inst *recipe.TypeInstantiation, c *Cursor) (*data.Node, bool) {
	v, err := wire.ReadFloat64(c)
	if err != nil {
		d.errorf(diag.EofErr, inst.Line, "%v", err)
		return nil, false
	}
	return &data.Node{Kind: data.Number, Num: floatToFloating(v, 64), Line: inst.Line}, true
}

func (d *Decompiler) readString(inst *recipe.TypeInstantiation, c *Cursor) (*data.Node, bool) {
	s, err := wire.ReadString(c)
	if err != nil {
		d.errorf(diag.EofErr, inst.Line, "%v", err)
		return nil, false
	}
	return &data.Node{Kind: data.String, Text: s, Line: inst.Line}, true
}

func (d *Decompiler) readPair(inst *recipe.TypeInstantiation, c *Cursor) (*data.Node, bool) {
	a, b := inst.Parameters[0], inst.Parameters[0]
	if len(inst.Parameters) == 2 {
		b = inst.Parameters[1]
	}
	av, ok1 := d.readNode(a, c)
	bv, ok2 := d.readNode(b, c)
	if !ok1 || !ok2 {
		return nil, false
	}
	return &data.Node{Kind: data.Group, Line: inst.Line, Children: []*data.Node{av, bv}}, true
}

func (d *Decompiler) readTuple(inst *recipe.TypeInstantiation, c *Cursor) (*data.Node, bool) {
	grp := &data.Node{Kind: data.Group, Line: inst.Line}
	ok := true
	for _, p := range inst.Parameters {
		v, vok := d.readNode(p, c)
		if !vok {
			ok = false
			continue
		}
		grp.Children = append(grp.Children, v)
	}
	return grp, ok
}

func (d *Decompiler) readList(inst *recipe.TypeInstantiation, c *Cursor) (*data.Node, bool) {
	n, err := wire.ReadWord(c)
	if err != nil {
		d.errorf(diag.EofErr, inst.Line, "%v", err)
		return nil, false
	}
	grp := &data.Node{Kind: data.Group, Line: inst.Line}
	ok := true
	for i := uint64(0); i < n; i++ {
		v, vok := d.readNode(inst.Parameters[0], c)
		if !vok {
			ok = false
			continue
		}
		grp.Children = append(grp.Children, v)
	}
	return grp, ok
}

func (d *Decompiler) readMap(inst *recipe.TypeInstantiation, c *Cursor) (*data.Node, bool) {
	n, err := wire.ReadWord(c)
	if err != nil {
		d.errorf(diag.EofErr, inst.Line, "%v", err)
		return nil, false
	}
	grp := &data.Node{Kind: data.Group, Line: inst.Line}
	ok := true
	for i := uint64(0); i < n; i++ {
		k, kok := d.readNode(inst.Parameters[0], c)
		v, vok := d.readNode(inst.Parameters[1], c)
		if !kok || !vok {
			ok = false
			continue
		}
		grp.Children = append(grp.Children, &data.Node{Kind: data.MapAssignment, Line: inst.Line, Children: []*data.Node{k, v}})
	}
	return grp, ok
}

// intToFloating renders an integer as the decimal data.Floating the
// printer expects.
func intToFloating(v int64) data.Floating {
	neg := v < 0
	if neg {
		v = -v
	}
	return data.Floating{Negative: neg, Integer: strconv.FormatInt(v, 10)}
}

// floatToFloating renders v (decoded from a bitSize-wide IEEE-754 value)
// as the shortest decimal string that round-trips at that precision,
// decomposed into data.Floating's integer/decimal parts. Canonical output
// keeps literals plain, so no exponent form is produced.
func floatToFloating(v float64, bitSize int) data.Floating {
	neg := false
	if v < 0 || (v == 0 && strconv.FormatFloat(v, 'f', -1, bitSize)[0] == '-') {
		neg = true
		v = -v
	}
	s := strconv.FormatFloat(v, 'f', -1, bitSize)
	integer, decimal := s, ""
	if idx := strings.IndexByte(s, '.'); idx >= 0 {
		integer, decimal = s[:idx], s[idx+1:]
	}
	return data.Floating{Negative: neg, Integer: integer, Decimal: decimal}
}
