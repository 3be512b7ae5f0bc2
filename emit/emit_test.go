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

package emit_test

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/kingofpayne/bakery/diag"
	"github.com/kingofpayne/bakery/emit"
	"github.com/kingofpayne/bakery/lang"
	"github.com/kingofpayne/bakery/recipe"
	"github.com/kingofpayne/bakery/recipe/resolve"
	"github.com/kingofpayne/bakery/wire"
)

// buildTree parses and resolves recipeSrc with the natives populated.
func buildTree(t *testing.T, recipeSrc string) *recipe.Tree {
	t.Helper()
	tree := recipe.NewTree()
	r, _, err := lang.ParseSource([]byte(recipeSrc), "test.rec", tree)
	if err != nil {
		t.Fatalf("parse recipe: %v", err)
	}
	if r == nil {
		t.Fatalf("expected a recipe source")
	}
	tree.PopulateNatives(tree.Root)
	log := &diag.Log{}
	if !resolve.Resolve(tree, tree.Root, log, "test.rec") {
		t.Fatalf("resolve recipe:\n%s", log)
	}
	return tree
}

// emitData parses dataSrc against tree and emits it, returning the bytes,
// the log, and the emitter's success flag.
func emitData(t *testing.T, tree *recipe.Tree, dataSrc string) ([]byte, *diag.Log, bool) {
	t.Helper()
	log := &diag.Log{}
	_, pd, err := lang.ParseSource([]byte(dataSrc), "test.dat", tree)
	if err != nil {
		t.Fatalf("parse data: %v", err)
	}
	if pd == nil {
		t.Fatalf("expected a data source")
	}
	inst := &recipe.TypeInstantiation{TypePointer: tree.Root}
	if pd.Indication.Type != nil {
		inst = pd.Indication.Type
		if !resolve.ResolveInstantiation(tree, inst, tree.Root, log, "test.dat") {
			t.Fatalf("resolve header type:\n%s", log)
		}
	}
	var buf bytes.Buffer
	em := emit.New(tree, &buf, log, "test.dat")
	ok := em.Write(inst, pd.Root)
	if depth := em.TTI.Mark(); depth != 0 {
		t.Errorf("TTI stack depth after Write: got %d, want 0", depth)
	}
	return buf.Bytes(), log, ok
}

// expected builds a byte string through the same wire primitives the
// emitter uses, so tests stay host-endianness-independent.
func expected(t *testing.T, write func(w wire.Writer)) []byte {
	t.Helper()
	var buf bytes.Buffer
	write(&buf)
	return buf.Bytes()
}

func TestEmitPrimitives(t *testing.T) {
	tree := buildTree(t, "bool a; int b; short c; char d; float e; double f; string g;")
	got, log, ok := emitData(t, tree, `recipe "test.rec"; a=true; b=-42; c=101; d=127; e=12.5; f=-3.25; g="Hi";`)
	if !ok {
		t.Fatalf("emit failed:\n%s", log)
	}
	want := expected(t, func(w wire.Writer) {
		wire.WriteBool(w, true)
		wire.WriteInt32(w, -42)
		wire.WriteInt16(w, 101)
		wire.WriteInt8(w, 127)
		wire.WriteFloat32(w, 12.5)
		wire.WriteFloat64(w, -3.25)
		wire.WriteString(w, "Hi")
	})
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("bytes (-want, +got):\n%s", diff)
	}
}

func TestEmitContainers(t *testing.T) {
	tree := buildTree(t, "pair<int,float> g; tuple<int,string> h; list<int> i; map<string,float> j;")
	got, log, ok := emitData(t, tree,
		`recipe "test.rec"; g={99,2.5}; h={7,"x"}; i={5,4}; j={"a"=6.5,"b"=7.5};`)
	if !ok {
		t.Fatalf("emit failed:\n%s", log)
	}
	want := expected(t, func(w wire.Writer) {
		wire.WriteInt32(w, 99)
		wire.WriteFloat32(w, 2.5)
		wire.WriteInt32(w, 7)
		wire.WriteString(w, "x")
		wire.WriteWord(w, 2)
		wire.WriteInt32(w, 5)
		wire.WriteInt32(w, 4)
		wire.WriteWord(w, 2)
		wire.WriteString(w, "a")
		wire.WriteFloat32(w, 6.5)
		wire.WriteString(w, "b")
		wire.WriteFloat32(w, 7.5)
	})
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("bytes (-want, +got):\n%s", diff)
	}
}

func TestEmitVariant(t *testing.T) {
	// Variant index is an unsigned 32-bit word followed by the value.
	tree := buildTree(t, "variant V { int a; float b; string c; } v;")
	got, log, ok := emitData(t, tree, `recipe "test.rec"; v = b: 12.5;`)
	if !ok {
		t.Fatalf("emit failed:\n%s", log)
	}
	want := expected(t, func(w wire.Writer) {
		wire.WriteInt32(w, 1)
		wire.WriteFloat32(w, 12.5)
	})
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("bytes (-want, +got):\n%s", diff)
	}
}

func TestEmitArray(t *testing.T) {
	// Outer fixed dimension writes no count; each inner dynamic
	// dimension writes its own machine-word length.
	tree := buildTree(t, "int m[2][0];")
	got, log, ok := emitData(t, tree, `recipe "test.rec"; m = {{1,2,3},{4,5}};`)
	if !ok {
		t.Fatalf("emit failed:\n%s", log)
	}
	want := expected(t, func(w wire.Writer) {
		wire.WriteWord(w, 3)
		wire.WriteInt32(w, 1)
		wire.WriteInt32(w, 2)
		wire.WriteInt32(w, 3)
		wire.WriteWord(w, 2)
		wire.WriteInt32(w, 4)
		wire.WriteInt32(w, 5)
	})
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("bytes (-want, +got):\n%s", diff)
	}
}

func TestEmitStructureFeatures(t *testing.T) {
	tests := []struct {
		desc     string
		recipe   string
		data     string
		want     func(w wire.Writer)
		wantErr  bool
		wantKind diag.Kind
	}{{
		desc:   "default value used when member is absent",
		recipe: "int x = 7; int y;",
		data:   `recipe "test.rec"; y = 3;`,
		want: func(w wire.Writer) {
			wire.WriteInt32(w, 7)
			wire.WriteInt32(w, 3)
		},
	}, {
		desc:   "optional member present",
		recipe: "optional int x; int y;",
		data:   `recipe "test.rec"; x = 1; y = 2;`,
		want: func(w wire.Writer) {
			wire.WriteBool(w, true)
			wire.WriteInt32(w, 1)
			wire.WriteInt32(w, 2)
		},
	}, {
		desc:   "optional member absent",
		recipe: "optional int x; int y;",
		data:   `recipe "test.rec"; y = 2;`,
		want: func(w wire.Writer) {
			wire.WriteBool(w, false)
			wire.WriteInt32(w, 2)
		},
	}, {
		desc:   "inherited members come first",
		recipe: "struct Base { int id; }; struct S : Base { int own; } s;",
		data:   `recipe "test.rec"; s = { id = 1, own = 2 };`,
		want: func(w wire.Writer) {
			wire.WriteInt32(w, 1)
			wire.WriteInt32(w, 2)
		},
	}, {
		desc:   "inherited members through a typedef come first",
		recipe: "struct Base { int id; }; typedef Base Alias; struct S : Alias { int own; } s;",
		data:   `recipe "test.rec"; s = { id = 1, own = 2 };`,
		want: func(w wire.Writer) {
			wire.WriteInt32(w, 1)
			wire.WriteInt32(w, 2)
		},
	}, {
		desc:   "enum value emits its resolved integer",
		recipe: "enum K { first, second = 7 } k;",
		data:   `recipe "test.rec"; k = second;`,
		want: func(w wire.Writer) {
			wire.WriteInt32(w, 7)
		},
	}, {
		desc:   "template struct binds slots per instantiation",
		recipe: "struct Box<T> { T v; }; Box<int> a; Box<string> b;",
		data:   `recipe "test.rec"; a = { v = 3 }; b = { v = "s" };`,
		want: func(w wire.Writer) {
			wire.WriteInt32(w, 3)
			wire.WriteString(w, "s")
		},
	}, {
		desc:     "unsigned rejects negative literal",
		recipe:   "unsigned int x;",
		data:     `recipe "test.rec"; x = -1;`,
		wantErr:  true,
		wantKind: diag.RangeErr,
	}, {
		desc:     "missing required member",
		recipe:   "int x; int y;",
		data:     `recipe "test.rec"; x = 1;`,
		wantErr:  true,
		wantKind: diag.ShapeErr,
	}, {
		desc:     "fixed array length mismatch",
		recipe:   "int m[3];",
		data:     `recipe "test.rec"; m = {1,2};`,
		wantErr:  true,
		wantKind: diag.ShapeErr,
	}, {
		desc:     "integer literal with decimal part rejected for int",
		recipe:   "int x;",
		data:     `recipe "test.rec"; x = 1.5;`,
		wantErr:  true,
		wantKind: diag.ShapeErr,
	}, {
		desc:     "int literal out of range",
		recipe:   "short x;",
		data:     `recipe "test.rec"; x = 70000;`,
		wantErr:  true,
		wantKind: diag.RangeErr,
	}, {
		desc:     "variant alternative not found",
		recipe:   "variant V { int a; } v;",
		data:     `recipe "test.rec"; v = q: 3;`,
		wantErr:  true,
		wantKind: diag.ShapeErr,
	}, {
		desc:     "map entry must be key = value",
		recipe:   "map<string,int> j;",
		data:     `recipe "test.rec"; j = {1,2};`,
		wantErr:  true,
		wantKind: diag.ShapeErr,
	}}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			tree := buildTree(t, tt.recipe)
			got, log, ok := emitData(t, tree, tt.data)
			if ok == tt.wantErr {
				t.Fatalf("emit: ok = %v, wantErr %v; log:\n%s", ok, tt.wantErr, log)
			}
			if tt.wantErr {
				found := false
				for _, m := range log.Messages {
					if m.Kind == tt.wantKind {
						found = true
					}
				}
				if !found {
					t.Errorf("no %s message in log:\n%s", tt.wantKind, log)
				}
				return
			}
			want := expected(t, tt.want)
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("bytes (-want, +got):\n%s", diff)
			}
		})
	}
}

func TestEmitHeaderType(t *testing.T) {
	// A data file may name the type its root group encodes, instead of
	// the whole recipe root.
	tree := buildTree(t, "struct Point { int x; int y; };")
	got, log, ok := emitData(t, tree, `recipe "test.rec" Point; x = 3; y = 4;`)
	if !ok {
		t.Fatalf("emit failed:\n%s", log)
	}
	want := expected(t, func(w wire.Writer) {
		wire.WriteInt32(w, 3)
		wire.WriteInt32(w, 4)
	})
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("bytes (-want, +got):\n%s", diff)
	}
}
