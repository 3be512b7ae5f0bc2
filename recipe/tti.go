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

// binding is one entry of a TTIStack: a template parameter slot bound to
// the concrete instantiation supplied at a particular use site.
type binding struct {
	slot NodeID
	inst *TypeInstantiation
}

// TTIStack is the template-type-instantiation stack: the scoped mapping
// from template parameter slots to the concrete bindings supplied at each
// use site. It is a plain slice with an explicit scope guard
// (Mark/Truncate) rather than relying on deferred destruction of helper
// objects, so push/pop pairing stays total across every error return path.
type TTIStack struct {
	entries []binding
}

// Mark returns the current stack depth, to be passed to Truncate once the
// caller's scope (one emitter or decompiler walk frame) exits.
func (s *TTIStack) Mark() int { return len(s.entries) }

// Truncate pops every entry pushed since mark was taken. Safe to call
// unconditionally on every return path, including error paths.
func (s *TTIStack) Truncate(mark int) {
	s.entries = s.entries[:mark]
}

// Push binds slot to inst for the duration of the caller's scope.
func (s *TTIStack) Push(slot NodeID, inst *TypeInstantiation) {
	s.entries = append(s.entries, binding{slot: slot, inst: inst})
}

// Lookup searches the stack from the top down for a binding of slot,
// returning the most recently pushed one.
func (s *TTIStack) Lookup(slot NodeID) (*TypeInstantiation, bool) {
	for i := len(s.entries) - 1; i >= 0; i-- {
		if s.entries[i].slot == slot {
			return s.entries[i].inst, true
		}
	}
	return nil, false
}
