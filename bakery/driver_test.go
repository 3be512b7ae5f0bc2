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

package bakery

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// writeFiles materializes name -> content pairs under dir.
func writeFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("MkdirAll: %v", err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("WriteFile(%s): %v", name, err)
		}
	}
}

func TestCompileDecompileEndToEnd(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"types.rec": `
include "colors.rec";
int a;
string f;
Color tint;
`,
		"colors.rec": `enum Color { red, green, blue };`,
		"scene.dat": `recipe "types.rec";
a = -42;
f = "Hello world!";
tint = green;
`,
	})

	datPath := filepath.Join(dir, "scene.dat")
	binPath := filepath.Join(dir, "scene.bin")

	log := Compile(datPath, binPath, Config{})
	if !log.OK() {
		t.Fatalf("Compile failed:\n%s", log)
	}
	if _, err := os.Stat(binPath); err != nil {
		t.Fatalf("binary not produced: %v", err)
	}

	outPath := filepath.Join(dir, "decompiled.dat")
	log = Decompile(binPath, `"types.rec"`, "", outPath, Config{})
	if !log.OK() {
		t.Fatalf("Decompile failed:\n%s", log)
	}
	out, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	text := string(out)
	if !strings.HasPrefix(text, "recipe \"types.rec\";\n\n") {
		t.Errorf("decompiled header: got %q", text)
	}
	for _, want := range []string{"a = -42;", `f = "Hello world!";`, "tint = green;"} {
		if !strings.Contains(text, want) {
			t.Errorf("decompiled text missing %q:\n%s", want, text)
		}
	}

	// The decompiled text must itself compile, to the same bytes.
	first, err := os.ReadFile(binPath)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	rebin := filepath.Join(dir, "scene2.bin")
	if log := Compile(outPath, rebin, Config{}); !log.OK() {
		t.Fatalf("recompile of decompiled text failed:\n%s", log)
	}
	second, err := os.ReadFile(rebin)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(first) != string(second) {
		t.Errorf("round-tripped bytes differ: % x vs % x", first, second)
	}
}

func TestCompileIncludeDirs(t *testing.T) {
	srcDir := t.TempDir()
	incDir := t.TempDir()
	writeFiles(t, incDir, map[string]string{
		"shared.rec": "int x;",
	})
	writeFiles(t, srcDir, map[string]string{
		"main.rec": "include <shared.rec>;\nint y;",
		"main.dat": `recipe "main.rec"; x = 1; y = 2;`,
	})

	datPath := filepath.Join(srcDir, "main.dat")
	binPath := filepath.Join(srcDir, "main.bin")
	log := Compile(datPath, binPath, Config{IncludeDirs: []string{incDir}})
	if !log.OK() {
		t.Fatalf("Compile failed:\n%s", log)
	}
}

func TestCompileRemovesPartialOutput(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"r.rec": "unsigned int x;",
		"bad.dat": `recipe "r.rec";
x = -1;
`,
	})

	binPath := filepath.Join(dir, "bad.bin")
	log := Compile(filepath.Join(dir, "bad.dat"), binPath, Config{})
	if log.OK() {
		t.Fatalf("Compile of negative unsigned value succeeded")
	}
	if _, err := os.Stat(binPath); !os.IsNotExist(err) {
		t.Errorf("partial output %s left behind (stat err: %v)", binPath, err)
	}
}

func TestCompileCyclicInclude(t *testing.T) {
	// A recipe including itself (transitively) compiles without looping
	// and without duplicate declarations.
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"a.rec": `include "b.rec";
struct A { int x; };
A v;`,
		"b.rec": `include "a.rec";
struct B { int y; };`,
		"d.dat": `recipe "a.rec"; v = { x = 1 };`,
	})

	binPath := filepath.Join(dir, "d.bin")
	log := Compile(filepath.Join(dir, "d.dat"), binPath, Config{})
	if !log.OK() {
		t.Fatalf("Compile with cyclic includes failed:\n%s", log)
	}
}

func TestNamespaceMergeAcrossIncludes(t *testing.T) {
	// Two includes both declare namespace ns; the
	// merged recipe resolves ns::-qualified names from either.
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"one.rec": "namespace ns { struct S1 { int a; } };",
		"two.rec": "namespace ns { struct S2 { int b; } };",
		"main.rec": `include "one.rec";
include "two.rec";
ns::S1 first;
ns::S2 second;`,
		"main.dat": `recipe "main.rec";
first = { a = 1 };
second = { b = 2 };`,
	})

	binPath := filepath.Join(dir, "main.bin")
	log := Compile(filepath.Join(dir, "main.dat"), binPath, Config{})
	if !log.OK() {
		t.Fatalf("Compile failed:\n%s", log)
	}
}

func TestCompileMissingRecipe(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"orphan.dat": `recipe "gone.rec"; x = 1;`,
	})

	log := Compile(filepath.Join(dir, "orphan.dat"), filepath.Join(dir, "orphan.bin"), Config{})
	if log.OK() {
		t.Fatalf("Compile with a missing recipe succeeded")
	}
}

func TestCompileIfStale(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"r.rec": "int x;",
		"d.dat": `recipe "r.rec"; x = 1;`,
	})
	datPath := filepath.Join(dir, "d.dat")
	binPath := filepath.Join(dir, "d.bin")

	// First build: binary is missing, so it is built.
	if log := CompileIfStale(datPath, binPath, Config{}); !log.OK() {
		t.Fatalf("initial CompileIfStale failed:\n%s", log)
	}
	info1, err := os.Stat(binPath)
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}

	// Fresh: nothing is rebuilt.
	stale, err := Stale(datPath, binPath, Config{})
	if err != nil {
		t.Fatalf("Stale: %v", err)
	}
	if stale {
		t.Errorf("Stale right after build: got true, want false")
	}

	// Touch the recipe into the future; the cache must go stale.
	future := time.Now().Add(2 * time.Second)
	if err := os.Chtimes(filepath.Join(dir, "r.rec"), future, future); err != nil {
		t.Fatalf("Chtimes: %v", err)
	}
	stale, err = Stale(datPath, binPath, Config{})
	if err != nil {
		t.Fatalf("Stale: %v", err)
	}
	if !stale {
		t.Errorf("Stale after touching the recipe: got false, want true")
	}
	if log := CompileIfStale(datPath, binPath, Config{}); !log.OK() {
		t.Fatalf("rebuild CompileIfStale failed:\n%s", log)
	}
	info2, err := os.Stat(binPath)
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if !info2.ModTime().After(info1.ModTime()) && !info2.ModTime().Equal(info1.ModTime()) {
		t.Errorf("binary mtime went backwards after rebuild")
	}
}
