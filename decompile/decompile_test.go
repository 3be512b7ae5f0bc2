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

package decompile_test

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/kingofpayne/bakery/decompile"
	"github.com/kingofpayne/bakery/diag"
	"github.com/kingofpayne/bakery/emit"
	"github.com/kingofpayne/bakery/lang"
	"github.com/kingofpayne/bakery/recipe"
	"github.com/kingofpayne/bakery/recipe/resolve"
	"github.com/kingofpayne/bakery/testutil"
)

func buildTree(t *testing.T, recipeSrc string) *recipe.Tree {
	t.Helper()
	tree := recipe.NewTree()
	if _, _, err := lang.ParseSource([]byte(recipeSrc), "test.rec", tree); err != nil {
		t.Fatalf("parse recipe: %v", err)
	}
	tree.PopulateNatives(tree.Root)
	log := &diag.Log{}
	if !resolve.Resolve(tree, tree.Root, log, "test.rec") {
		t.Fatalf("resolve recipe:\n%s", log)
	}
	return tree
}

func emitData(t *testing.T, tree *recipe.Tree, dataSrc string) []byte {
	t.Helper()
	log := &diag.Log{}
	_, pd, err := lang.ParseSource([]byte(dataSrc), "test.dat", tree)
	if err != nil {
		t.Fatalf("parse data: %v", err)
	}
	var buf bytes.Buffer
	em := emit.New(tree, &buf, log, "test.dat")
	if !em.Write(&recipe.TypeInstantiation{TypePointer: tree.Root}, pd.Root) {
		t.Fatalf("emit failed:\n%s", log)
	}
	return buf.Bytes()
}

func decompileBytes(t *testing.T, tree *recipe.Tree, bin []byte) (string, *diag.Log, bool) {
	t.Helper()
	log := &diag.Log{}
	dc := decompile.New(tree, log, "test.bin")
	root, ok := dc.Decompile(&recipe.TypeInstantiation{TypePointer: tree.Root}, decompile.NewCursor(bin))
	if depth := dc.TTI.Mark(); depth != 0 {
		t.Errorf("TTI stack depth after Decompile: got %d, want 0", depth)
	}
	if !ok {
		return "", log, false
	}
	return decompile.PrintBody(root), log, true
}

// TestRoundTrip checks the compile/decompile law: decompiling emitted
// bytes yields text that re-emits to the same bytes.
func TestRoundTrip(t *testing.T) {
	tests := []struct {
		desc   string
		recipe string
		data   string
	}{{
		desc: "primitives",
		recipe: `int a; short b; char c; float d; double e; string f;
pair<int,float> g; tuple<int,float,string> h;
list<int> i; map<string,float> j;
enum K { first, second } k;`,
		data: `recipe "test.rec";
a=-42; b=101; c=127; d=3.5; e=-3.25; f="Hello world!";
g={99,2.5}; h={123456,-8.5,"tomato"};
i={5,4,3,2,1,0}; j={"a"=6.5,"b"=7.5}; k=second;`,
	}, {
		desc:   "nested structures and variants",
		recipe: "struct P { int x; int y; }; variant V { int a; P p; } v; P q;",
		data:   `recipe "test.rec"; v = p: { x = 1, y = 2 }; q = { x = 3, y = 4 };`,
	}, {
		desc:   "arrays",
		recipe: "int m[2][0]; string names[0];",
		data:   `recipe "test.rec"; m = {{1,2,3},{4,5}}; names = {"a","b"};`,
	}, {
		desc:   "optional members",
		recipe: "optional int x; optional int y; int z;",
		data:   `recipe "test.rec"; y = 2; z = 3;`,
	}, {
		desc:   "templates",
		recipe: "struct Box<T> { T v; }; Box<int> a; Box<list<string>> b;",
		data:   `recipe "test.rec"; a = { v = 3 }; b = { v = {"x","y"} };`,
	}, {
		desc:   "heritance through a typedef",
		recipe: "struct Base { int id; }; typedef Base Alias; struct S : Alias { int own; } s;",
		data:   `recipe "test.rec"; s = { id = 1, own = 2 };`,
	}, {
		desc:   "heritance through a typedef of a templated structure",
		recipe: "struct Box<T> { T v; }; typedef Box<int> IntBox; struct S : IntBox { int own; } s;",
		data:   `recipe "test.rec"; s = { v = 5, own = 6 };`,
	}, {
		desc:   "string escapes survive the round trip",
		recipe: "string s;",
		data:   "recipe \"test.rec\"; s = \"quote \\\" slash \\\\ nl \\n tab \\t\";",
	}}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			tree := buildTree(t, tt.recipe)
			first := emitData(t, tree, tt.data)

			text, log, ok := decompileBytes(t, tree, first)
			if !ok {
				t.Fatalf("decompile failed:\n%s", log)
			}

			second := emitData(t, tree, "recipe \"test.rec\";\n"+text)
			if diff := cmp.Diff(first, second); diff != "" {
				t.Errorf("re-emitted bytes differ (-first, +second):\n%s\ndecompiled text:\n%s", diff, text)
			}
		})
	}
}

// TestDefaultElision checks that a member whose bytes equal
// its default value is omitted from the decompiled text; any other
// encoding is kept.
func TestDefaultElision(t *testing.T) {
	tree := buildTree(t, "int x = 7; int y;")

	elided := emitData(t, tree, `recipe "test.rec"; y = 3;`)
	text, log, ok := decompileBytes(t, tree, elided)
	if !ok {
		t.Fatalf("decompile failed:\n%s", log)
	}
	if want := "y = 3;\n"; text != want {
		t.Errorf("decompiled text: got %q, want %q", text, want)
	}

	kept := emitData(t, tree, `recipe "test.rec"; x = 8; y = 3;`)
	text, log, ok = decompileBytes(t, tree, kept)
	if !ok {
		t.Fatalf("decompile failed:\n%s", log)
	}
	if want := "x = 8;\ny = 3;\n"; text != want {
		t.Errorf("decompiled text: got %q, want %q", text, want)
	}
}

func TestDecompileOptionalOmitted(t *testing.T) {
	tree := buildTree(t, "optional int x; int y;")
	bin := emitData(t, tree, `recipe "test.rec"; y = 9;`)
	text, log, ok := decompileBytes(t, tree, bin)
	if !ok {
		t.Fatalf("decompile failed:\n%s", log)
	}
	if want := "y = 9;\n"; text != want {
		t.Errorf("decompiled text: got %q, want %q", text, want)
	}
}

func TestDecompileUnknownEnumValue(t *testing.T) {
	// An integer with no matching member decodes to the integer literal.
	tree := buildTree(t, "enum K { first, second } k;")
	bin := emitData(t, tree, `recipe "test.rec"; k = second;`)

	// Corrupt the stored value to one no member carries.
	bin[0] = 0x63
	text, log, ok := decompileBytes(t, tree, bin)
	if !ok {
		t.Fatalf("decompile failed:\n%s", log)
	}
	if want := "k = 99;\n"; text != want {
		t.Errorf("decompiled text: got %q, want %q", text, want)
	}
}

func TestDecompileTruncatedInput(t *testing.T) {
	tree := buildTree(t, "int a; string b;")
	bin := emitData(t, tree, `recipe "test.rec"; a = 1; b = "hello";`)

	_, log, ok := decompileBytes(t, tree, bin[:len(bin)-2])
	if ok {
		t.Fatalf("decompile of truncated input succeeded")
	}
	found := false
	for _, m := range log.Messages {
		if m.Kind == diag.EofErr {
			found = true
		}
	}
	if !found {
		t.Errorf("no %s message in log:\n%s", diag.EofErr, log)
	}
}

func TestPrintBodyLayout(t *testing.T) {
	// Indentation is two spaces per nesting level; elements are
	// comma-separated; maps print as key = value.
	root := testutil.Group(
		testutil.Assign("m", testutil.Group(
			testutil.MapEntry(testutil.StringLit("a"), testutil.IntLit("1")),
			testutil.MapEntry(testutil.StringLit("b"), testutil.IntLit("2")),
		)),
		testutil.Assign("p", testutil.Group(
			testutil.Assign("x", testutil.IntLit("3")),
			testutil.Assign("deep", testutil.Group(testutil.IntLit("4"), testutil.IntLit("5"))),
		)),
	)
	want := `m = {
  "a" = 1,
  "b" = 2
};
p = {
  x = 3,
  deep = {
    4,
    5
  }
};
`
	got := decompile.PrintBody(root)
	if diff, _ := testutil.GenerateUnifiedDiff(want, got); got != want {
		t.Errorf("PrintBody layout diff:\n%s", diff)
	}
}
