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

package recipe

// nativeNames lists every built-in class in declaration order, used by
// PopulateNatives to seed a recipe root with the primitive-native
// children.
var nativeNames = []struct {
	name string
	n    Native
}{
	{"bool", NativeBool},
	{"char", NativeChar},
	{"short", NativeShort},
	{"int", NativeInt},
	{"float", NativeFloat},
	{"double", NativeDouble},
	{"string", NativeString},
	{"pair", NativePair},
	{"tuple", NativeTuple},
	{"list", NativeList},
	{"map", NativeMap},
}

// PopulateNatives attaches one KindNative child per built-in class to root,
// so that unqualified names like `int` or `string` resolve from any scope
// that walks up to the recipe root.
func (t *Tree) PopulateNatives(root NodeID) {
	for _, nn := range nativeNames {
		node := t.New(KindNative, nn.name, root)
		node.NativeClass = nn.n
	}
}
