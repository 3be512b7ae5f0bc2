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

// Package testutil contains utilities shared by bakery's tests: text
// diffing for decompiled output, and builders for common Data IR shapes.
package testutil

import (
	"github.com/pmezard/go-difflib/difflib"

	"github.com/kingofpayne/bakery/data"
)

// GenerateUnifiedDiff takes two strings and generates a diff that can be
// shown to the user in a test error message.
func GenerateUnifiedDiff(want, got string) (string, error) {
	diffl := difflib.UnifiedDiff{
		A:        difflib.SplitLines(want),
		B:        difflib.SplitLines(got),
		FromFile: "want",
		ToFile:   "got",
		Context:  3,
		Eol:      "\n",
	}
	return difflib.GetUnifiedDiffString(diffl)
}

// IntLit builds the Floating data node for a decimal integer literal.
func IntLit(s string) *data.Node {
	neg := false
	if len(s) > 0 && s[0] == '-' {
		neg = true
		s = s[1:]
	}
	return &data.Node{Kind: data.Number, Num: data.Floating{Negative: neg, Integer: s}}
}

// FloatLit builds the Floating data node for integer.decimal parts.
func FloatLit(negative bool, integer, decimal string) *data.Node {
	return &data.Node{Kind: data.Number, Num: data.Floating{Negative: negative, Integer: integer, Decimal: decimal}}
}

// StringLit builds a String data node.
func StringLit(s string) *data.Node {
	return &data.Node{Kind: data.String, Text: s}
}

// BoolLit builds a Bool data node.
func BoolLit(v bool) *data.Node {
	return &data.Node{Kind: data.Bool, Flag: v}
}

// Ident builds an Identifier data node.
func Ident(name string) *data.Node {
	return &data.Node{Kind: data.Identifier, Text: name}
}

// Group builds a Group data node over children.
func Group(children ...*data.Node) *data.Node {
	return &data.Node{Kind: data.Group, Children: children}
}

// Assign builds a `name = value` Assignment node.
func Assign(name string, value *data.Node) *data.Node {
	return &data.Node{Kind: data.Assignment, Name: name, Children: []*data.Node{value}}
}

// VariantVal builds a `name: value` Variant node.
func VariantVal(name string, value *data.Node) *data.Node {
	return &data.Node{Kind: data.Variant, Name: name, Children: []*data.Node{value}}
}

// MapEntry builds a `key = value` MapAssignment node.
func MapEntry(key, value *data.Node) *data.Node {
	return &data.Node{Kind: data.MapAssignment, Children: []*data.Node{key, value}}
}
