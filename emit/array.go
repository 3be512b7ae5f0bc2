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
	"github.com/kingofpayne/bakery/recipe"
	"github.com/kingofpayne/bakery/wire"
)

// writeArray walks target's dimensions left to right: a fixed dimension
// checks the group's element count matches and writes nothing; a dynamic
// one (declared `[]` or `[0]`) writes a machine-word count first. Only the
// innermost dimension recurses into the element type; every other level
// recurses into the next dimension.
func (e *Emitter) writeArray(inst *recipe.TypeInstantiation, target *recipe.Node, node *data.Node) bool {
	return e.writeArrayDim(inst.Line, target, 0, node)
}

func (e *Emitter) writeArrayDim(line int, target *recipe.Node, dim int, node *data.Node) bool {
	if node == nil || node.Kind != data.Group {
		e.errorf(diag.ShapeErr, line, "expected a group for array dimension %d", dim)
		return false
	}
	d := target.Dimensions[dim]
	if d.Dynamic() {
		if !e.checkIo(line, wire.WriteWord(e.W, uint64(len(node.Children)))) {
			return false
		}
	} else if len(node.Children) != d.Size {
		e.errorf(diag.ShapeErr, line, "array dimension %d has %d elements, expected %d", dim, len(node.Children), d.Size)
		return false
	}

	last := dim == len(target.Dimensions)-1
	ok := true
	for _, child := range node.Children {
		if last {
			if !e.writeNode(target.ElemType, child) {
				ok = false
			}
		} else {
			if !e.writeArrayDim(line, target, dim+1, child) {
				ok = false
			}
		}
	}
	return ok
}
