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

// Package recipe implements the Recipe IR: the type and
// namespace tree that a recipe file declares, and the template-instantiation
// stack used while walking it. Nodes live in a single per-Tree arena indexed
// by NodeId rather than
// the mixture of owning/non-owning pointers the original C++ uses — Go's
// garbage collector makes the owning/non-owning distinction unnecessary, so
// a synthesized array element node simply lives in the same arena as any
// other node, addressed the same way.
package recipe

// Kind tags the variant stored by a Node.
type Kind int

const (
	KindNone Kind = iota
	KindNamespace
	KindStructure
	KindVariant
	KindArray
	KindTypedef
	KindEnum
	KindEnumValue
	KindMember
	KindNative
	KindTemplateType
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindNamespace:
		return "namespace"
	case KindStructure:
		return "structure"
	case KindVariant:
		return "variant"
	case KindArray:
		return "array"
	case KindTypedef:
		return "typedef"
	case KindEnum:
		return "enum"
	case KindEnumValue:
		return "enum_value"
	case KindMember:
		return "member"
	case KindNative:
		return "native"
	case KindTemplateType:
		return "template_type"
	default:
		return "unknown"
	}
}

// IsType reports whether a node of this kind can terminate a type path
// resolution.
func (k Kind) IsType() bool {
	switch k {
	case KindStructure, KindVariant, KindArray, KindTypedef, KindEnum, KindNative, KindTemplateType:
		return true
	default:
		return false
	}
}

// Native tags a KindNative node's built-in class.
type Native int

const (
	NativeBool Native = iota
	NativeChar
	NativeShort
	NativeInt
	NativeFloat
	NativeDouble
	NativeString
	NativePair
	NativeTuple
	NativeList
	NativeMap
)

func (n Native) String() string {
	switch n {
	case NativeBool:
		return "bool"
	case NativeChar:
		return "char"
	case NativeShort:
		return "short"
	case NativeInt:
		return "int"
	case NativeFloat:
		return "float"
	case NativeDouble:
		return "double"
	case NativeString:
		return "string"
	case NativePair:
		return "pair"
	case NativeTuple:
		return "tuple"
	case NativeList:
		return "list"
	case NativeMap:
		return "map"
	default:
		return "unknown"
	}
}

// IsInteger reports whether the native class is one that may carry the
// `unsigned` qualifier.
func (n Native) IsInteger() bool {
	switch n {
	case NativeInt, NativeShort, NativeChar:
		return true
	default:
		return false
	}
}

// NodeID addresses a Node within a Tree's arena. The zero value is never a
// valid id; Tree.New* constructors start allocating at 1.
type NodeID int

// Qualifier is a bit drawn from {unsigned, optional}.
type Qualifier int

const (
	QualUnsigned Qualifier = 1 << iota
	QualOptional
)

func (q Qualifier) Has(f Qualifier) bool { return q&f != 0 }

// Dimension is one `[n]` of an Array node; Size == 0 means dynamic length.
type Dimension struct {
	Size int
}

func (d Dimension) Dynamic() bool { return d.Size == 0 }

// TypeInstantiation is a (possibly parameterized) reference to a recipe
// type at a use site.
type TypeInstantiation struct {
	Path       []string
	Absolute   bool
	Unsigned   bool
	Parameters []*TypeInstantiation

	// TypePointer is filled in by recipe/resolve; zero until resolved.
	TypePointer NodeID

	// Synthesized is non-zero when this instantiation's target was built
	// inline by the parser (an array type produced by trailing `[...]`
	// brackets) rather than looked up by path.
	// recipe/resolve sets TypePointer = Synthesized directly and attaches
	// the node's scope, instead of performing path search.
	Synthesized NodeID

	// Line is the source line the instantiation was written on, kept for
	// error messages.
	Line int
}

// Node is a Recipe IR node. Payload fields are populated according to
// Kind; all other payload fields are zero.
type Node struct {
	ID         NodeID
	Kind       Kind
	Name       string
	Parent     NodeID
	ScopeNode  NodeID
	Children   []NodeID
	Qualifiers Qualifier
	Line       int

	// Structure: heritance instantiations, in declaration order.
	Heritance []*TypeInstantiation

	// Array: element type and ordered dimensions.
	ElemType   *TypeInstantiation
	Dimensions []Dimension

	// Typedef, Member: the aliased/typed instantiation.
	Type *TypeInstantiation

	// Member: optional default-value subtree (a Data IR node, untyped
	// here to avoid an import cycle with package data; see
	// recipe/default.go for the accessor that casts it back).
	Default interface{}

	// EnumValue: resolved signed 32-bit value, and the source literal
	// (empty if the value was implicit).
	EnumValue    int32
	EnumFixed    string
	HasEnumFixed bool

	// Native: built-in class tag.
	NativeClass Native

	// TemplateType: the slot's declared index among a composite's
	// template parameters, used to line it up against a TTI binding.
	TemplateSlot int
}

func (n *Node) IsType() bool { return n.Kind.IsType() }
