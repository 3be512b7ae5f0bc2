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

package diag

import (
	"strings"
	"testing"
)

func TestLogOK(t *testing.T) {
	l := &Log{}
	if !l.OK() {
		t.Errorf("empty log: OK() = false, want true")
	}

	l.Infof("a.dat", 0, "starting")
	l.Warningf(ShapeErr, "a.dat", 3, "suspicious group")
	if !l.OK() {
		t.Errorf("log with info+warning: OK() = false, want true")
	}

	l.Errorf(RangeErr, "a.dat", 4, "value out of range")
	if l.OK() {
		t.Errorf("log with an error: OK() = true, want false")
	}
	if !l.HasErrors() {
		t.Errorf("HasErrors() = false, want true")
	}
}

func TestMessageString(t *testing.T) {
	tests := []struct {
		desc string
		in   Message
		want string
	}{{
		desc: "with file and line",
		in:   Message{Severity: Error, Kind: ParseErr, Text: "bad token", File: "x.rec", Line: 7},
		want: "x.rec:7: error: bad token",
	}, {
		desc: "file only",
		in:   Message{Severity: Warning, Text: "odd", File: "x.rec"},
		want: "x.rec: warning: odd",
	}, {
		desc: "no location",
		in:   Message{Severity: Info, Text: "done"},
		want: "info: done",
	}}

	for _, tt := range tests {
		if got := tt.in.String(); got != tt.want {
			t.Errorf("%s: String() = %q, want %q", tt.desc, got, tt.want)
		}
	}
}

func TestLogMergeOrder(t *testing.T) {
	outer := &Log{}
	outer.Errorf(ParseErr, "a.rec", 1, "first")

	inner := &Log{}
	inner.Errorf(EnumErr, "b.rec", 2, "second")
	inner.Infof("b.rec", 3, "third")

	outer.Merge(inner)
	if len(outer.Messages) != 3 {
		t.Fatalf("merged log has %d messages, want 3", len(outer.Messages))
	}
	s := outer.String()
	if !(strings.Index(s, "first") < strings.Index(s, "second") && strings.Index(s, "second") < strings.Index(s, "third")) {
		t.Errorf("merged log out of order:\n%s", s)
	}
}
