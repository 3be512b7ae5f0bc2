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
	"strings"

	"github.com/kingofpayne/bakery/data"
)

const indentUnit = "  " // two spaces per nesting level

// PrintBody renders root (a decoded Group of Assignment children) as the
// top-level assignment list of a data file: one `name = value;` line per
// assignment, no enclosing braces.
func PrintBody(root *data.Node) string {
	var b strings.Builder
	for _, child := range root.Children {
		b.WriteString(child.Name)
		b.WriteString(" = ")
		b.WriteString(printValue(child.Child(), 0))
		b.WriteString(";\n")
	}
	return b.String()
}

// printValue renders a single decoded value at the given indentation
// level, used both at the top level (inside PrintBody) and recursively
// for nested struct/array/tuple/pair/list/map values.
func printValue(n *data.Node, indent int) string {
	switch n.Kind {
	case data.Bool:
		if n.Flag {
			return "true"
		}
		return "false"
	case data.Number:
		return n.Num.String()
	case data.String:
		return quoteString(n.Text)
	case data.Identifier:
		return n.Text
	case data.Variant:
		return n.Name + ": " + printValue(n.Child(), indent)
	case data.Group:
		return printGroup(n, indent)
	default:
		return ""
	}
}

// printGroup renders a Group's children braced and indented two spaces
// per level: Assignment children print as `name = value`
// (a nested structure literal), MapAssignment children as `key = value`
// (a map literal), and anything else as a positional list (array, tuple,
// pair, list literal).
func printGroup(n *data.Node, indent int) string {
	if len(n.Children) == 0 {
		return "{}"
	}
	inner := indentUnit + strings.Repeat(indentUnit, indent)
	closing := strings.Repeat(indentUnit, indent)

	var b strings.Builder
	b.WriteString("{\n")
	for i, child := range n.Children {
		b.WriteString(inner)
		switch child.Kind {
		case data.Assignment:
			b.WriteString(child.Name)
			b.WriteString(" = ")
			b.WriteString(printValue(child.Child(), indent+1))
		case data.MapAssignment:
			b.WriteString(printValue(child.MapKey(), indent+1))
			b.WriteString(" = ")
			b.WriteString(printValue(child.MapValue(), indent+1))
		default:
			b.WriteString(printValue(child, indent+1))
		}
		if i != len(n.Children)-1 {
			b.WriteString(",")
		}
		b.WriteString("\n")
	}
	b.WriteString(closing)
	b.WriteString("}")
	return b.String()
}

// quoteString escapes the characters bakery's quoted-string lexical rule
// recognizes.
func quoteString(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteByte(c)
		}
	}
	b.WriteByte('"')
	return b.String()
}
