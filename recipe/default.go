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

// Node.Default is typed interface{} rather than *data.Node to avoid an
// import cycle (package data never needs to know about recipe, but a
// recipe Member needs to hold a Data IR subtree as its default value
// literal). Callers in emit/decompile, which already import both
// packages, type-assert it back to *data.Node.

// HasDefault reports whether a Member node carries a default-value
// subtree.
func (n *Node) HasDefault() bool { return n.Default != nil }
