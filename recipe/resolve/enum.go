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
	"github.com/kingofpayne/bakery/numeric"
	"github.com/kingofpayne/bakery/recipe"
)

// assignEnumValues fills in the integer value of every enumeration
// member: every value fits a signed 32-bit integer, values are strictly
// increasing, and any explicit fixed value must be reachable by that rule.
// Members before the first fixed value count backwards from it; members
// after any value count forwards from it.
func assignEnumValues(tree *recipe.Tree, enumID recipe.NodeID, log *diag.Log, file string) bool {
	node := tree.Node(enumID)
	members := node.Children
	ok := true

	fixed := make([]bool, len(members))
	values := make([]int32, len(members))
	for i, id := range members {
		m := tree.Node(id)
		if m.HasEnumFixed {
			v, err := numeric.ParseInt(m.EnumFixed)
			if err != nil {
				log.Errorf(diag.EnumErr, file, m.Line, "enum value %q: %v", m.Name, err)
				ok = false
				continue
			}
			if err := numeric.FitInt(v, numeric.Int32, false); err != nil {
				log.Errorf(diag.EnumErr, file, m.Line, "enum value %q: %v", m.Name, err)
				ok = false
				continue
			}
			fixed[i] = true
			values[i] = int32(numeric.ToInt64(v))
		}
	}
	if !ok {
		return false
	}

	firstFixed := -1
	for i, f := range fixed {
		if f {
			firstFixed = i
			break
		}
	}

	if firstFixed == -1 {
		for i := range members {
			values[i] = int32(i)
		}
	} else {
		base := values[firstFixed]
		for k := firstFixed - 1; k >= 0; k-- {
			back := int64(base) - int64(firstFixed-k)
			if back < -2147483648 {
				log.Errorf(diag.EnumErr, file, tree.Node(members[k]).Line,
					"enum value %q underflows a signed 32-bit integer", tree.Node(members[k]).Name)
				ok = false
				continue
			}
			values[k] = int32(back)
		}
		prev := int64(base)
		for i := firstFixed + 1; i < len(members); i++ {
			if fixed[i] {
				if int64(values[i]) < prev+1 {
					log.Errorf(diag.EnumErr, file, tree.Node(members[i]).Line,
						"enum value %q (%d) does not exceed predecessor %d", tree.Node(members[i]).Name, values[i], prev)
					ok = false
					continue
				}
				prev = int64(values[i])
				continue
			}
			prev++
			if prev > 2147483647 {
				log.Errorf(diag.EnumErr, file, tree.Node(members[i]).Line,
					"enum value %q overflows a signed 32-bit integer", tree.Node(members[i]).Name)
				ok = false
				continue
			}
			values[i] = int32(prev)
		}
	}

	if !ok {
		return false
	}
	for i, id := range members {
		tree.Node(id).EnumValue = values[i]
	}
	return true
}
