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
	"github.com/kingofpayne/bakery/recipe"
	"github.com/kingofpayne/bakery/wire"
)

// readArray mirrors emit.writeArray: a dynamic dimension reads a
// machine-word count first; a fixed one uses the declared size. Only the
// innermost dimension decodes the element type; every other level
// recurses into the next dimension.
func (d *Decompiler) readArray(inst *recipe.TypeInstantiation, target *recipe.Node, c *Cursor) (*data.Node, bool) {
	return d.readArrayDim(inst.Line, target, 0, c)
}

func (d *Decompiler) readArrayDim(line int, target *recipe.Node, dim int, c *Cursor) (*data.Node, bool) {
	dd := target.Dimensions[dim]
	count := dd.Size
	if dd.Dynamic() {
		n, err := wire.ReadWord(c)
		if err != nil {
			d.errorf(diag.EofErr, line, "%v", err)
			return nil, false
		}
		count = int(n)
	}

	grp := &data.Node{Kind: data.Group, Line: line}
	last := dim == len(target.Dimensions)-1
	ok := true
	for i := 0; i < count; i++ {
		var val *data.Node
		var valOk bool
		if last {
			val, valOk = d.readNode(target.ElemType, c)
		} else {
			val, valOk = d.readArrayDim(line, target, dim+1, c)
		}
		if !valOk {
			ok = false
			continue
		}
		grp.Children = append(grp.Children, val)
	}
	return grp, ok
}
