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

package data

import "fmt"

// Floating is the parser's representation of a numeric literal: three
// decimal-digit strings plus a sign, kept apart so that
// arbitrary-precision conversion (package numeric) can be deferred to the
// point where the target native kind is known.
type Floating struct {
	Negative bool
	Integer  string // digits before '.'; may be empty
	Decimal  string // digits after '.'; may be empty
	Exponent string // signed digits after 'e'; may be empty
}

// HasInteger reports whether the integer part was present in source.
func (f Floating) HasInteger() bool { return f.Integer != "" }

// HasDecimal reports whether the decimal part was present in source.
func (f Floating) HasDecimal() bool { return f.Decimal != "" }

// HasExponent reports whether an exponent was present in source.
func (f Floating) HasExponent() bool { return f.Exponent != "" }

// IsIntegral reports whether the literal has no decimal part and no
// exponent, i.e. it can be used directly as an integer member value.
func (f Floating) IsIntegral() bool {
	return !f.HasDecimal() && !f.HasExponent()
}

// String renders the literal in canonical decompiler form.
func (f Floating) String() string {
	s := ""
	if f.Negative {
		s = "-"
	}
	i := f.Integer
	if i == "" {
		i = "0"
	}
	s += i
	if f.HasDecimal() {
		s += "." + f.Decimal
	}
	if f.HasExponent() {
		s += fmt.Sprintf("e%s", f.Exponent)
	}
	return s
}
